package section

import (
	"fmt"

	"github.com/arloliu/dex/cursor"
	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
)

// ClassDef is a class_def_item. Index fields are left unresolved.
type ClassDef struct {
	ClassIdx        uint32 // byte offset 0-3
	AccessFlags     uint32 // byte offset 4-7
	SuperclassIdx   uint32 // byte offset 8-11, NoIndex if none
	InterfacesOff   uint32 // byte offset 12-15
	SourceFileIdx   uint32 // byte offset 16-19, NoIndex if unknown
	AnnotationsOff  uint32 // byte offset 20-23
	ClassDataOff    uint32 // byte offset 24-27, 0 if the class has no data
	StaticValuesOff uint32 // byte offset 28-31
}

// HasClassData reports whether the class points at a class_data_item.
func (d ClassDef) HasClassData() bool {
	return d.ClassDataOff != 0
}

// Parse parses the class definition from a 32-byte slice.
func (d *ClassDef) Parse(data []byte, engine endian.EndianEngine) error {
	if len(data) < ClassDefItemSize {
		return fmt.Errorf("%w: class_def_item needs %d bytes, have %d", errs.ErrOutOfData, ClassDefItemSize, len(data))
	}

	d.ClassIdx = engine.Uint32(data[0:4])
	d.AccessFlags = engine.Uint32(data[4:8])
	d.SuperclassIdx = engine.Uint32(data[8:12])
	d.InterfacesOff = engine.Uint32(data[12:16])
	d.SourceFileIdx = engine.Uint32(data[16:20])
	d.AnnotationsOff = engine.Uint32(data[20:24])
	d.ClassDataOff = engine.Uint32(data[24:28])
	d.StaticValuesOff = engine.Uint32(data[28:32])

	return nil
}

// ParseClassDefs parses count consecutive class_def_items.
//
// Parameters:
//   - data: Byte slice starting at the first class_def_item
//   - count: Number of items, from the header's class_defs_size
//   - engine: Byte order from the header
//
// Returns:
//   - []ClassDef: Parsed definitions
//   - error: errs.ErrOutOfData if data is shorter than count items
func ParseClassDefs(data []byte, count uint32, engine endian.EndianEngine) ([]ClassDef, error) {
	c := cursor.New(data)
	defs := make([]ClassDef, 0, min(int(count), c.Remaining()/ClassDefItemSize))

	for i := range count {
		b, err := c.Bytes(ClassDefItemSize)
		if err != nil {
			return nil, fmt.Errorf("class_def_item %d: %w", i, err)
		}

		var d ClassDef
		if err := d.Parse(b, engine); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}

	return defs, nil
}
