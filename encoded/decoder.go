package encoded

import (
	"github.com/arloliu/dex/cursor"
)

// Decoder decodes one value of type T from the start of a byte slice, given a caller
// supplied context of type C.
//
// Decode must read only from data[0:] and return the decoded value together with the
// number of bytes it consumed. It must not depend on bytes past the consumed range, and
// it must not retain or modify data beyond the lifetime rules of the caller's buffer.
type Decoder[T, C any] interface {
	Decode(data []byte, ctx C) (T, int, error)
}

// DecoderFunc adapts an ordinary function to the Decoder interface.
type DecoderFunc[T, C any] func(data []byte, ctx C) (T, int, error)

// Decode calls f(data, ctx).
func (f DecoderFunc[T, C]) Decode(data []byte, ctx C) (T, int, error) {
	return f(data, ctx)
}

// Item is implemented by values that can be delta-chained. ID returns the absolute
// index the item resolves to; it becomes the context for the next item in an array.
type Item interface {
	ID() uint64
}

// Read decodes one value at the cursor's position and advances the cursor by exactly
// the number of bytes the decoder reports as consumed.
//
// On failure the cursor is left where it was.
func Read[T, C any](c *cursor.Cursor, dec Decoder[T, C], ctx C) (T, error) {
	v, n, err := dec.Decode(c.Rest(), ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Advance(n); err != nil {
		var zero T
		return zero, err
	}

	return v, nil
}
