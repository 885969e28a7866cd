// Package classdata decodes class_data_item structures.
//
// A class_data_item lists a class's fields and methods as four delta-chained arrays.
// Each array restarts its chain at zero: the first element stores its absolute index and
// every later element stores the difference from the element before it.
package classdata

import (
	"fmt"
	"iter"

	"github.com/arloliu/dex/cursor"
	"github.com/arloliu/dex/encoded"
)

// EncodedField is an encoded_field with its index resolved to an absolute field_ids
// position.
type EncodedField struct {
	FieldIdx    uint64
	AccessFlags uint32
}

// ID returns the absolute field index.
func (f EncodedField) ID() uint64 {
	return f.FieldIdx
}

// EncodedMethod is an encoded_method with its index resolved to an absolute method_ids
// position. CodeOff is zero for abstract and native methods.
type EncodedMethod struct {
	MethodIdx   uint64
	AccessFlags uint32
	CodeOff     uint32
}

// ID returns the absolute method index.
func (m EncodedMethod) ID() uint64 {
	return m.MethodIdx
}

// HasCode reports whether the method points at a code_item.
func (m EncodedMethod) HasCode() bool {
	return m.CodeOff != 0
}

// DecodeField decodes one encoded_field. prev is the absolute index of the previous
// field in the same array, or 0 for the first.
func DecodeField(data []byte, prev uint64) (EncodedField, int, error) {
	c := cursor.New(data)

	diff, err := c.Uleb128()
	if err != nil {
		return EncodedField{}, 0, fmt.Errorf("field_idx_diff: %w", err)
	}
	flags, err := c.Uleb128U32()
	if err != nil {
		return EncodedField{}, 0, fmt.Errorf("access_flags: %w", err)
	}

	return EncodedField{FieldIdx: prev + diff, AccessFlags: flags}, c.Pos(), nil
}

// DecodeMethod decodes one encoded_method. prev is the absolute index of the previous
// method in the same array, or 0 for the first.
func DecodeMethod(data []byte, prev uint64) (EncodedMethod, int, error) {
	c := cursor.New(data)

	diff, err := c.Uleb128()
	if err != nil {
		return EncodedMethod{}, 0, fmt.Errorf("method_idx_diff: %w", err)
	}
	flags, err := c.Uleb128U32()
	if err != nil {
		return EncodedMethod{}, 0, fmt.Errorf("access_flags: %w", err)
	}
	codeOff, err := c.Uleb128U32()
	if err != nil {
		return EncodedMethod{}, 0, fmt.Errorf("code_off: %w", err)
	}

	return EncodedMethod{MethodIdx: prev + diff, AccessFlags: flags, CodeOff: codeOff}, c.Pos(), nil
}

var (
	// FieldDecoder is DecodeField as an encoded.Decoder.
	FieldDecoder encoded.Decoder[EncodedField, uint64] = encoded.DecoderFunc[EncodedField, uint64](DecodeField)
	// MethodDecoder is DecodeMethod as an encoded.Decoder.
	MethodDecoder encoded.Decoder[EncodedMethod, uint64] = encoded.DecoderFunc[EncodedMethod, uint64](DecodeMethod)
)

// ClassData is a decoded class_data_item.
type ClassData struct {
	StaticFields   encoded.ItemArray[EncodedField]
	InstanceFields encoded.ItemArray[EncodedField]
	DirectMethods  encoded.ItemArray[EncodedMethod]
	VirtualMethods encoded.ItemArray[EncodedMethod]
}

// FieldCount returns the number of static and instance fields.
func (d ClassData) FieldCount() int {
	return d.StaticFields.Len() + d.InstanceFields.Len()
}

// MethodCount returns the number of direct and virtual methods.
func (d ClassData) MethodCount() int {
	return d.DirectMethods.Len() + d.VirtualMethods.Len()
}

// Methods yields the direct methods followed by the virtual methods.
func (d ClassData) Methods() iter.Seq[EncodedMethod] {
	return func(yield func(EncodedMethod) bool) {
		for _, arr := range []encoded.ItemArray[EncodedMethod]{d.DirectMethods, d.VirtualMethods} {
			for _, m := range arr.All() {
				if !yield(m) {
					return
				}
			}
		}
	}
}

// Decode decodes a class_data_item.
//
// Parameters:
//   - data: Source slice, starting at the item
//
// Returns:
//   - ClassData: The four decoded arrays
//   - int: Bytes consumed
//   - error: errs.ErrOutOfData or errs.ErrLeb128Overflow, wrapped with the failing part
func Decode(data []byte) (ClassData, int, error) {
	c := cursor.New(data)

	var sizes [4]uint32
	for i, name := range []string{"static_fields_size", "instance_fields_size", "direct_methods_size", "virtual_methods_size"} {
		v, err := c.Uleb128U32()
		if err != nil {
			return ClassData{}, 0, fmt.Errorf("%s: %w", name, err)
		}
		sizes[i] = v
	}

	var d ClassData
	var err error
	if d.StaticFields, err = readArray(c, int(sizes[0]), FieldDecoder); err != nil {
		return ClassData{}, 0, fmt.Errorf("static fields: %w", err)
	}
	if d.InstanceFields, err = readArray(c, int(sizes[1]), FieldDecoder); err != nil {
		return ClassData{}, 0, fmt.Errorf("instance fields: %w", err)
	}
	if d.DirectMethods, err = readArray(c, int(sizes[2]), MethodDecoder); err != nil {
		return ClassData{}, 0, fmt.Errorf("direct methods: %w", err)
	}
	if d.VirtualMethods, err = readArray(c, int(sizes[3]), MethodDecoder); err != nil {
		return ClassData{}, 0, fmt.Errorf("virtual methods: %w", err)
	}

	return d, c.Pos(), nil
}

func readArray[T encoded.Item](c *cursor.Cursor, count int, dec encoded.Decoder[T, uint64]) (encoded.ItemArray[T], error) {
	arr, n, err := encoded.DecodeItemArray(c.Rest(), count, dec)
	if err != nil {
		return encoded.ItemArray[T]{}, err
	}
	if err := c.Advance(n); err != nil {
		return encoded.ItemArray[T]{}, err
	}

	return arr, nil
}
