package encoded

import (
	"fmt"
	"sort"

	"github.com/arloliu/dex/cursor"
)

// HandlerKind distinguishes typed handlers from the catch-all handler.
type HandlerKind uint8

const (
	// TypedHandler catches exceptions of a specific type.
	TypedHandler HandlerKind = iota
	// CatchAllHandler catches any exception.
	CatchAllHandler
)

func (k HandlerKind) String() string {
	switch k {
	case TypedHandler:
		return "Typed"
	case CatchAllHandler:
		return "CatchAll"
	default:
		return "Unknown"
	}
}

// Handler is a single exception handler inside a CatchHandler block.
//
// For a TypedHandler, TypeIdx is the type index of the exception class. For a
// CatchAllHandler, TypeIdx is always zero and carries no meaning.
type Handler struct {
	Kind    HandlerKind
	TypeIdx uint32
	Addr    uint64
}

// NewTypedHandler returns a handler catching exceptions of type typeIdx at addr.
func NewTypedHandler(typeIdx uint32, addr uint64) Handler {
	return Handler{Kind: TypedHandler, TypeIdx: typeIdx, Addr: addr}
}

// NewCatchAllHandler returns a catch-all handler at addr.
func NewCatchAllHandler(addr uint64) Handler {
	return Handler{Kind: CatchAllHandler, Addr: addr}
}

func (h Handler) String() string {
	if h.Kind == CatchAllHandler {
		return fmt.Sprintf("<any> -> 0x%04x", h.Addr)
	}

	return fmt.Sprintf("type@%d -> 0x%04x", h.TypeIdx, h.Addr)
}

// CatchHandler is one encoded_catch_handler block: the typed handlers in encoded order,
// optionally followed by a single catch-all handler.
type CatchHandler struct {
	Handlers []Handler
}

// Typed returns the typed handlers of the block.
func (h CatchHandler) Typed() []Handler {
	if _, ok := h.CatchAll(); ok {
		return h.Handlers[:len(h.Handlers)-1]
	}

	return h.Handlers
}

// CatchAll returns the block's catch-all handler, if it has one.
func (h CatchHandler) CatchAll() (Handler, bool) {
	if n := len(h.Handlers); n > 0 && h.Handlers[n-1].Kind == CatchAllHandler {
		return h.Handlers[n-1], true
	}

	return Handler{}, false
}

// decodeTypeAddrPair reads one (type_idx, addr) pair of ULEB128 values.
func decodeTypeAddrPair(c *cursor.Cursor) (Handler, error) {
	typeIdx, err := c.Uleb128U32()
	if err != nil {
		return Handler{}, fmt.Errorf("type_idx: %w", err)
	}
	addr, err := c.Uleb128()
	if err != nil {
		return Handler{}, fmt.Errorf("addr: %w", err)
	}

	return NewTypedHandler(typeIdx, addr), nil
}

// DecodeCatchHandler decodes one encoded_catch_handler block.
//
// The block starts with a SLEB128 size. Its absolute value is the number of typed
// (type_idx, addr) pairs that follow. When size is zero or negative, a single ULEB128
// catch-all address follows the pairs. A size of zero therefore yields a block holding
// only a catch-all handler.
//
// The context is unused; the signature matches Decoder[CatchHandler, struct{}].
func DecodeCatchHandler(data []byte, _ struct{}) (CatchHandler, int, error) {
	c := cursor.New(data)

	size, err := c.Sleb128()
	if err != nil {
		return CatchHandler{}, 0, fmt.Errorf("handler size: %w", err)
	}

	n := absSize(size)

	// Each pair needs at least two bytes; the extra slot holds a possible catch-all.
	handlers := make([]Handler, 0, min(n, uint64(c.Remaining()/2))+1)

	for i := uint64(0); i < n; i++ {
		h, err := decodeTypeAddrPair(c)
		if err != nil {
			return CatchHandler{}, 0, fmt.Errorf("handler %d: %w", i, err)
		}
		handlers = append(handlers, h)
	}

	if size <= 0 {
		addr, err := c.Uleb128()
		if err != nil {
			return CatchHandler{}, 0, fmt.Errorf("catch-all addr: %w", err)
		}
		handlers = append(handlers, NewCatchAllHandler(addr))
	}

	return CatchHandler{Handlers: handlers}, c.Pos(), nil
}

// absSize returns |size| without overflowing on math.MinInt64.
func absSize(size int64) uint64 {
	if size >= 0 {
		return uint64(size)
	}

	return uint64(-(size + 1)) + 1
}

// CatchHandlerDecoder is DecodeCatchHandler as a Decoder.
var CatchHandlerDecoder Decoder[CatchHandler, struct{}] = DecoderFunc[CatchHandler, struct{}](DecodeCatchHandler)

// CatchHandlerEntry pairs a handler block with its byte offset from the start of the
// encoded_catch_handler_list.
type CatchHandlerEntry struct {
	Offset  int
	Handler CatchHandler
}

// CatchHandlerList is a decoded encoded_catch_handler_list. Entries are ordered by
// strictly increasing Offset.
type CatchHandlerList struct {
	Entries []CatchHandlerEntry
}

// Len returns the number of handler blocks.
func (l CatchHandlerList) Len() int {
	return len(l.Entries)
}

// ByOffset returns the block that starts at off bytes from the list start. try_item
// handler_off values are expressed in this coordinate system.
func (l CatchHandlerList) ByOffset(off int) (CatchHandler, bool) {
	i := sort.Search(len(l.Entries), func(i int) bool {
		return l.Entries[i].Offset >= off
	})
	if i < len(l.Entries) && l.Entries[i].Offset == off {
		return l.Entries[i].Handler, true
	}

	return CatchHandler{}, false
}

// DecodeCatchHandlerList decodes an encoded_catch_handler_list: a ULEB128 block count
// followed by that many CatchHandler blocks, each recorded at the offset where it starts.
//
// Parameters:
//   - data: Source slice, starting at the list's size field
//
// Returns:
//   - CatchHandlerList: Blocks in encoded order with their offsets
//   - int: Total bytes consumed
//   - error: errs.ErrOutOfData or errs.ErrLeb128Overflow from the underlying codecs
func DecodeCatchHandlerList(data []byte) (CatchHandlerList, int, error) {
	c := cursor.New(data)

	count, err := c.Uleb128()
	if err != nil {
		return CatchHandlerList{}, 0, fmt.Errorf("handler list size: %w", err)
	}

	// A block occupies at least one byte.
	entries := make([]CatchHandlerEntry, 0, min(count, uint64(c.Remaining())))

	for i := uint64(0); i < count; i++ {
		off := c.Pos()
		h, err := Read(c, CatchHandlerDecoder, struct{}{})
		if err != nil {
			return CatchHandlerList{}, 0, fmt.Errorf("handler block %d at offset %d: %w", i, off, err)
		}
		entries = append(entries, CatchHandlerEntry{Offset: off, Handler: h})
	}

	return CatchHandlerList{Entries: entries}, c.Pos(), nil
}
