// Package testutil builds DEX fragments and whole DEX images for tests.
package testutil

import (
	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/leb128"
)

// Field describes an encoded_field by its absolute index.
type Field struct {
	Idx   uint32
	Flags uint32
}

// Method describes an encoded_method by its absolute index. When Code is set, MakeDex
// places the code_item and fills CodeOff; MakeClassData writes CodeOff as given.
type Method struct {
	Idx     uint32
	Flags   uint32
	CodeOff uint32
	Code    *Code
}

// TypeAddr is one typed handler.
type TypeAddr struct {
	Type uint32
	Addr uint64
}

// Handler describes one encoded_catch_handler block.
type Handler struct {
	Typed        []TypeAddr
	CatchAll     bool
	CatchAllAddr uint64
}

// Try describes a try_item. Handler indexes Code.Handlers.
type Try struct {
	Start   uint32
	Count   uint16
	Handler int
}

// Code describes a code_item.
type Code struct {
	Registers    uint16
	Ins          uint16
	Outs         uint16
	DebugInfoOff uint32
	Insns        []uint16
	Tries        []Try
	Handlers     []Handler
}

// Class describes a class_def_item and its class_data_item. A class with no fields and
// no methods gets class_data_off 0.
type Class struct {
	ClassIdx   uint32
	Flags      uint32
	Superclass uint32
	Static     []Field
	Instance   []Field
	Direct     []Method
	Virtual    []Method
}

func (c Class) hasData() bool {
	return len(c.Static)+len(c.Instance)+len(c.Direct)+len(c.Virtual) > 0
}

// Dex describes a whole file. A nil Engine means little-endian.
type Dex struct {
	Engine  endian.EndianEngine
	Classes []Class
}

// MakeHandlerList encodes an encoded_catch_handler_list and returns it with the byte
// offset of every block.
func MakeHandlerList(handlers []Handler) ([]byte, []int) {
	b := leb128.AppendUleb128(nil, uint64(len(handlers)))
	offsets := make([]int, 0, len(handlers))
	for _, h := range handlers {
		offsets = append(offsets, len(b))
		size := int64(len(h.Typed))
		if h.CatchAll {
			size = -size
		}
		b = leb128.AppendSleb128(b, size)
		for _, ta := range h.Typed {
			b = leb128.AppendUleb128(b, uint64(ta.Type))
			b = leb128.AppendUleb128(b, ta.Addr)
		}
		if h.CatchAll {
			b = leb128.AppendUleb128(b, h.CatchAllAddr)
		}
	}

	return b, offsets
}

// MakeCodeItem encodes a code_item. Handlers are only written when the item has tries.
func MakeCodeItem(engine endian.EndianEngine, c Code) []byte {
	b := engine.AppendUint16(nil, c.Registers)
	b = engine.AppendUint16(b, c.Ins)
	b = engine.AppendUint16(b, c.Outs)
	b = engine.AppendUint16(b, uint16(len(c.Tries))) //nolint:gosec // test fixture
	b = engine.AppendUint32(b, c.DebugInfoOff)
	b = engine.AppendUint32(b, uint32(len(c.Insns))) //nolint:gosec // test fixture
	for _, insn := range c.Insns {
		b = engine.AppendUint16(b, insn)
	}
	if len(c.Tries) == 0 {
		return b
	}
	if len(c.Insns)%2 == 1 {
		b = engine.AppendUint16(b, 0)
	}

	list, offsets := MakeHandlerList(c.Handlers)
	for _, t := range c.Tries {
		b = engine.AppendUint32(b, t.Start)
		b = engine.AppendUint16(b, t.Count)
		b = engine.AppendUint16(b, uint16(offsets[t.Handler])) //nolint:gosec // test fixture
	}

	return append(b, list...)
}

// MakeClassData encodes a class_data_item. Indices are written as deltas, restarting
// at zero for each of the four lists.
func MakeClassData(c Class) []byte {
	b := leb128.AppendUleb128(nil, uint64(len(c.Static)))
	b = leb128.AppendUleb128(b, uint64(len(c.Instance)))
	b = leb128.AppendUleb128(b, uint64(len(c.Direct)))
	b = leb128.AppendUleb128(b, uint64(len(c.Virtual)))

	for _, fields := range [][]Field{c.Static, c.Instance} {
		var prev uint32
		for _, f := range fields {
			b = leb128.AppendUleb128(b, uint64(f.Idx-prev))
			b = leb128.AppendUleb128(b, uint64(f.Flags))
			prev = f.Idx
		}
	}
	for _, methods := range [][]Method{c.Direct, c.Virtual} {
		var prev uint32
		for _, m := range methods {
			b = leb128.AppendUleb128(b, uint64(m.Idx-prev))
			b = leb128.AppendUleb128(b, uint64(m.Flags))
			b = leb128.AppendUleb128(b, uint64(m.CodeOff))
			prev = m.Idx
		}
	}

	return b
}

const (
	headerSize   = 0x70
	classDefSize = 32
)

// MakeDex builds a complete DEX image: header, class_defs, code_items, class_data_items
// and a trailing map_list. ID tables are left empty.
func MakeDex(d Dex) []byte {
	engine := d.Engine
	if engine == nil {
		engine = endian.GetLittleEndianEngine()
	}

	classes := make([]Class, len(d.Classes))
	copy(classes, d.Classes)

	b := make([]byte, headerSize+classDefSize*len(classes))
	dataOff := len(b)

	// code_items are 4-byte aligned.
	var codeOffs []uint32
	for ci := range classes {
		for _, methods := range []*[]Method{&classes[ci].Direct, &classes[ci].Virtual} {
			ms := make([]Method, len(*methods))
			copy(ms, *methods)
			for mi := range ms {
				if ms[mi].Code == nil {
					continue
				}
				b = align4(b)
				ms[mi].CodeOff = uint32(len(b)) //nolint:gosec // test fixture
				codeOffs = append(codeOffs, ms[mi].CodeOff)
				b = append(b, MakeCodeItem(engine, *ms[mi].Code)...)
			}
			*methods = ms
		}
	}

	classDataOffs := make([]uint32, len(classes))
	var dataItems int
	var firstClassData uint32
	for ci, c := range classes {
		if !c.hasData() {
			continue
		}
		classDataOffs[ci] = uint32(len(b)) //nolint:gosec // test fixture
		if dataItems == 0 {
			firstClassData = classDataOffs[ci]
		}
		dataItems++
		b = append(b, MakeClassData(c)...)
	}

	for ci, c := range classes {
		p := b[headerSize+ci*classDefSize:]
		engine.PutUint32(p[0:], c.ClassIdx)
		engine.PutUint32(p[4:], c.Flags)
		engine.PutUint32(p[8:], c.Superclass)
		engine.PutUint32(p[12:], 0)
		engine.PutUint32(p[16:], 0xffffffff)
		engine.PutUint32(p[20:], 0)
		engine.PutUint32(p[24:], classDataOffs[ci])
		engine.PutUint32(p[28:], 0)
	}

	b = align4(b)
	mapOff := uint32(len(b)) //nolint:gosec // test fixture
	type mapItem struct {
		typ       uint16
		size, off uint32
	}
	items := []mapItem{{0x0000, 1, 0}}
	if len(classes) > 0 {
		items = append(items, mapItem{0x0006, uint32(len(classes)), headerSize}) //nolint:gosec // test fixture
	}
	if len(codeOffs) > 0 {
		items = append(items, mapItem{0x2001, uint32(len(codeOffs)), codeOffs[0]}) //nolint:gosec // test fixture
	}
	if dataItems > 0 {
		items = append(items, mapItem{0x2000, uint32(dataItems), firstClassData}) //nolint:gosec // test fixture
	}
	items = append(items, mapItem{0x1000, 1, mapOff})

	b = engine.AppendUint32(b, uint32(len(items))) //nolint:gosec // test fixture
	for _, it := range items {
		b = engine.AppendUint16(b, it.typ)
		b = engine.AppendUint16(b, 0)
		b = engine.AppendUint32(b, it.size)
		b = engine.AppendUint32(b, it.off)
	}

	copy(b, "dex\n035\x00")
	engine.PutUint32(b[0x20:], uint32(len(b))) //nolint:gosec // test fixture
	engine.PutUint32(b[0x24:], headerSize)
	engine.PutUint32(b[0x28:], endian.Tag)
	engine.PutUint32(b[0x34:], mapOff)
	if len(classes) > 0 {
		engine.PutUint32(b[0x60:], uint32(len(classes))) //nolint:gosec // test fixture
		engine.PutUint32(b[0x64:], headerSize)
	}
	engine.PutUint32(b[0x68:], uint32(len(b)-dataOff)) //nolint:gosec // test fixture
	engine.PutUint32(b[0x6C:], uint32(dataOff))        //nolint:gosec // test fixture

	return b
}

func align4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}

	return b
}

// SampleDex returns a small file exercising every structure MakeDex can emit: two
// classes, one without data, methods with and without code, and a code_item whose tries
// share handler blocks of all three shapes.
func SampleDex() Dex {
	return Dex{
		Classes: []Class{
			{
				ClassIdx:   4,
				Flags:      0x0001,
				Superclass: 9,
				Static:     []Field{{Idx: 2, Flags: 0x0008}, {Idx: 5, Flags: 0x0018}},
				Instance:   []Field{{Idx: 1, Flags: 0x0002}},
				Direct: []Method{
					{Idx: 10, Flags: 0x10001, Code: &Code{Registers: 1, Ins: 1, Insns: []uint16{0x0e00}}},
					{Idx: 12, Flags: 0x0008, Code: SampleCode()},
				},
				Virtual: []Method{
					{Idx: 3, Flags: 0x0401},
					{Idx: 300, Flags: 0x0001, Code: &Code{Registers: 2, Ins: 1, Outs: 1, Insns: []uint16{0x1200, 0x0f00, 0x0000}}},
				},
			},
			{ClassIdx: 7, Flags: 0x0601, Superclass: 9},
		},
	}
}

// SampleCode returns a code_item with four tries over three handler blocks: typed
// only, typed plus catch-all, and catch-all only. The first and third tries share a
// block.
func SampleCode() *Code {
	return &Code{
		Registers: 3,
		Ins:       1,
		Outs:      2,
		Insns:     []uint16{0x0000, 0x0001, 0x0002, 0x0003, 0x0004, 0x0005, 0x0006},
		Tries: []Try{
			{Start: 0, Count: 2, Handler: 0},
			{Start: 2, Count: 2, Handler: 1},
			{Start: 4, Count: 1, Handler: 0},
			{Start: 5, Count: 1, Handler: 2},
		},
		Handlers: []Handler{
			{Typed: []TypeAddr{{Type: 5, Addr: 0x10}, {Type: 7, Addr: 0x20}}},
			{Typed: []TypeAddr{{Type: 300, Addr: 0x30}}, CatchAll: true, CatchAllAddr: 0x40},
			{CatchAll: true, CatchAllAddr: 0x50},
		},
	}
}
