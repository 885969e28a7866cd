// Package code decodes code_item structures: a method's register counts, its
// instruction stream, and the try blocks with their exception handlers.
package code

import (
	"fmt"

	"github.com/arloliu/dex/cursor"
	"github.com/arloliu/dex/encoded"
	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
	"github.com/arloliu/dex/section"
)

// TryItem is a try_item: a range of code units guarded by one handler block.
type TryItem struct {
	StartAddr  uint32 // first covered code unit
	InsnCount  uint16 // number of covered code units
	HandlerOff uint16 // byte offset of the handler block from the start of the handler list
}

// EndAddr returns the first code unit past the covered range. It is 64-bit so that a
// range ending at the top of the 32-bit address space does not wrap.
func (t TryItem) EndAddr() uint64 {
	return uint64(t.StartAddr) + uint64(t.InsnCount)
}

// Covers reports whether the code unit at addr lies inside the try range.
func (t TryItem) Covers(addr uint32) bool {
	return addr >= t.StartAddr && uint64(addr) < t.EndAddr()
}

// Item is a decoded code_item.
type Item struct {
	RegistersSize uint16
	InsSize       uint16
	OutsSize      uint16
	TriesSize     uint16
	DebugInfoOff  uint32
	// InsnsSize is the instruction stream length in 16-bit code units.
	InsnsSize uint32
	// Insns is the raw instruction stream. It aliases the source buffer.
	Insns    []byte
	Tries    []TryItem
	Handlers encoded.CatchHandlerList

	engine endian.EndianEngine
}

// Insn returns the i-th 16-bit code unit.
func (it *Item) Insn(i int) uint16 {
	return it.engine.Uint16(it.Insns[2*i:])
}

// Handler returns the handler block a try refers to.
//
// The second result is false when the try's handler_off does not match the start of any
// block in the list.
func (it *Item) Handler(try TryItem) (encoded.CatchHandler, bool) {
	return it.Handlers.ByOffset(int(try.HandlerOff))
}

// HandlersAt returns the handler block of the first try covering addr.
func (it *Item) HandlersAt(addr uint32) (encoded.CatchHandler, bool) {
	for _, t := range it.Tries {
		if t.Covers(addr) {
			return it.Handler(t)
		}
	}

	return encoded.CatchHandler{}, false
}

// Decode decodes a code_item.
//
// The instruction stream is returned as a view of data. When the item has tries, the
// optional 2-byte padding after an odd-length stream is skipped, and the
// encoded_catch_handler_list that follows the tries is decoded.
//
// Parameters:
//   - data: Source slice, starting at the item
//   - engine: Byte order from the header
//
// Returns:
//   - Item: Decoded item
//   - int: Bytes consumed
//   - error: errs.ErrOutOfData if data ends early, or codec errors from the handler list
func Decode(data []byte, engine endian.EndianEngine) (Item, int, error) {
	c := cursor.New(data)

	head, err := c.Bytes(section.CodeItemHeadSize)
	if err != nil {
		return Item{}, 0, fmt.Errorf("code_item header: %w", err)
	}

	it := Item{
		RegistersSize: engine.Uint16(head[0:2]),
		InsSize:       engine.Uint16(head[2:4]),
		OutsSize:      engine.Uint16(head[4:6]),
		TriesSize:     engine.Uint16(head[6:8]),
		DebugInfoOff:  engine.Uint32(head[8:12]),
		InsnsSize:     engine.Uint32(head[12:16]),
		engine:        engine,
	}

	if uint64(it.InsnsSize)*2 > uint64(c.Remaining()) {
		return Item{}, 0, fmt.Errorf("%w: insns_size %d at offset %d, have %d bytes",
			errs.ErrOutOfData, it.InsnsSize, c.Pos(), c.Remaining())
	}
	if it.Insns, err = c.Bytes(int(it.InsnsSize) * 2); err != nil {
		return Item{}, 0, fmt.Errorf("insns: %w", err)
	}

	if it.TriesSize == 0 {
		return it, c.Pos(), nil
	}

	if it.InsnsSize%2 == 1 {
		if err := c.Skip(2); err != nil {
			return Item{}, 0, fmt.Errorf("padding: %w", err)
		}
	}

	it.Tries = make([]TryItem, 0, min(int(it.TriesSize), c.Remaining()/section.TryItemSize))
	for i := range it.TriesSize {
		b, err := c.Bytes(section.TryItemSize)
		if err != nil {
			return Item{}, 0, fmt.Errorf("try_item %d: %w", i, err)
		}
		it.Tries = append(it.Tries, TryItem{
			StartAddr:  engine.Uint32(b[0:4]),
			InsnCount:  engine.Uint16(b[4:6]),
			HandlerOff: engine.Uint16(b[6:8]),
		})
	}

	handlers, n, err := encoded.DecodeCatchHandlerList(c.Rest())
	if err != nil {
		return Item{}, 0, fmt.Errorf("handlers: %w", err)
	}
	if err := c.Advance(n); err != nil {
		return Item{}, 0, err
	}
	it.Handlers = handlers

	return it, c.Pos(), nil
}
