// Package leb128 implements the variable-length integer codecs used throughout the DEX
// format.
//
// Each value is stored as a run of bytes carrying 7 payload bits apiece, least
// significant group first. The high bit (0x80) of every byte except the last is set to
// signal that another byte follows. The signed variant sign-extends bit 0x40 of the final
// byte once decoding stops.
//
// Decoders take the slice and a cursor. The cursor is advanced past the consumed bytes
// only when decoding succeeds, so a failed read leaves it pointing at the start of the
// value.
package leb128

import (
	"fmt"

	"github.com/arloliu/dex/errs"
)

const (
	continuationBit = 0x80
	payloadMask     = 0x7f
	signBit         = 0x40

	// MaxLen64 is the maximum number of bytes a 64-bit value may occupy.
	MaxLen64 = 10
	// MaxLen32 is the number of bytes a 32-bit value occupies at most. DEX producers
	// never emit more than this, but the decoders accept up to MaxLen64.
	MaxLen32 = 5
)

// Uleb128 decodes an unsigned LEB128 value starting at data[*pos].
//
// Parameters:
//   - data: Source slice (not modified)
//   - pos: Cursor into data, advanced past the value on success
//
// Returns:
//   - uint64: Decoded value
//   - error: errs.ErrOutOfData if data ends before a terminating byte,
//     errs.ErrLeb128Overflow if the value does not fit in 64 bits
func Uleb128(data []byte, pos *int) (uint64, error) {
	start := *pos
	if start < 0 {
		return 0, fmt.Errorf("%w: uleb128 at negative offset %d", errs.ErrOutOfData, start)
	}

	var result uint64
	var shift uint
	i := start
	for n := 0; ; n++ {
		if n == MaxLen64 {
			return 0, fmt.Errorf("%w: uleb128 at offset %d", errs.ErrLeb128Overflow, start)
		}
		if i >= len(data) {
			return 0, fmt.Errorf("%w: uleb128 at offset %d (have %d bytes)", errs.ErrOutOfData, start, len(data))
		}

		b := data[i]
		i++
		// The last byte may only carry bit 63.
		if n == MaxLen64-1 && b > 0x01 {
			return 0, fmt.Errorf("%w: uleb128 at offset %d", errs.ErrLeb128Overflow, start)
		}
		result |= uint64(b&payloadMask) << shift
		if b&continuationBit == 0 {
			*pos = i
			return result, nil
		}
		shift += 7
	}
}

// Sleb128 decodes a signed LEB128 value starting at data[*pos].
//
// The continuation rule is identical to Uleb128; once the terminating byte is read its
// sign bit is extended through the remaining high bits of the result.
//
// Parameters:
//   - data: Source slice (not modified)
//   - pos: Cursor into data, advanced past the value on success
//
// Returns:
//   - int64: Decoded value
//   - error: errs.ErrOutOfData if data ends before a terminating byte,
//     errs.ErrLeb128Overflow if the value does not fit in 64 bits
func Sleb128(data []byte, pos *int) (int64, error) {
	start := *pos
	if start < 0 {
		return 0, fmt.Errorf("%w: sleb128 at negative offset %d", errs.ErrOutOfData, start)
	}

	var result int64
	var shift uint
	var b byte
	i := start
	for n := 0; ; n++ {
		if n == MaxLen64 {
			return 0, fmt.Errorf("%w: sleb128 at offset %d", errs.ErrLeb128Overflow, start)
		}
		if i >= len(data) {
			return 0, fmt.Errorf("%w: sleb128 at offset %d (have %d bytes)", errs.ErrOutOfData, start, len(data))
		}

		b = data[i]
		i++
		// The last byte holds bit 63 and its sign extension, nothing else.
		if n == MaxLen64-1 && b != 0x00 && b != 0x7f {
			return 0, fmt.Errorf("%w: sleb128 at offset %d", errs.ErrLeb128Overflow, start)
		}
		result |= int64(b&payloadMask) << shift
		shift += 7
		if b&continuationBit == 0 {
			break
		}
	}

	if shift < 64 && b&signBit != 0 {
		result |= ^int64(0) << shift
	}
	*pos = i

	return result, nil
}

// Uleb128p1 decodes a DEX uleb128p1 value: an unsigned LEB128 holding the value plus one,
// so that -1 (NO_INDEX) is representable in a single byte.
func Uleb128p1(data []byte, pos *int) (int64, error) {
	v, err := Uleb128(data, pos)
	if err != nil {
		return 0, err
	}

	return int64(v) - 1, nil //nolint:gosec // wrap-around is the encoding
}

// AppendUleb128 appends the unsigned LEB128 encoding of v to dst.
func AppendUleb128(dst []byte, v uint64) []byte {
	for v >= continuationBit {
		dst = append(dst, byte(v)|continuationBit)
		v >>= 7
	}

	return append(dst, byte(v))
}

// AppendSleb128 appends the signed LEB128 encoding of v to dst.
func AppendSleb128(dst []byte, v int64) []byte {
	for {
		b := byte(v & payloadMask)
		v >>= 7
		if (v == 0 && b&signBit == 0) || (v == -1 && b&signBit != 0) {
			return append(dst, b)
		}
		dst = append(dst, b|continuationBit)
	}
}

// AppendUleb128p1 appends the uleb128p1 encoding of v to dst.
func AppendUleb128p1(dst []byte, v int64) []byte {
	return AppendUleb128(dst, uint64(v+1)) //nolint:gosec // wrap-around is the encoding
}
