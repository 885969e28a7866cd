// Package cursor provides a position marker over an immutable byte slice.
//
// A Cursor never copies the slice it reads from: Bytes returns sub-slices that alias the
// original buffer, which stays owned by the caller. A Cursor must be owned by exactly
// one decode call at a time; concurrent decodes over the same buffer each use their own
// Cursor.
package cursor

import (
	"fmt"

	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
	"github.com/arloliu/dex/leb128"
)

// Cursor tracks a read position over a byte slice.
type Cursor struct {
	data []byte
	pos  int
}

// New returns a Cursor positioned at the start of data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// NewAt returns a Cursor positioned at off.
//
// Returns errs.ErrOffsetOutOfRange if off lies outside [0, len(data)].
func NewAt(data []byte, off int) (*Cursor, error) {
	c := New(data)
	if err := c.Seek(off); err != nil {
		return nil, err
	}

	return c, nil
}

// Pos returns the current position relative to the start of the slice.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the length of the underlying slice.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

// Rest returns the unread part of the slice without advancing.
func (c *Cursor) Rest() []byte {
	return c.data[c.pos:]
}

// Seek moves the cursor to the absolute position off.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return fmt.Errorf("%w: seek to %d (len %d)", errs.ErrOffsetOutOfRange, off, len(c.data))
	}
	c.pos = off

	return nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.Bytes(n)
	return err
}

// Advance moves the cursor forward by n bytes that a decoder reported as consumed.
// Like Skip, it fails without moving if fewer than n bytes remain.
func (c *Cursor) Advance(n int) error {
	return c.Skip(n)
}

// Bytes returns the next n bytes as a sub-slice of the underlying buffer and advances
// past them. The returned slice aliases the buffer and must not be modified.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrOutOfData, n, c.pos, c.Remaining())
	}
	b := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n

	return b, nil
}

// Uint8 reads a single byte.
func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// Uint16 reads a fixed-width 16-bit value using the given byte order.
func (c *Cursor) Uint16(engine endian.EndianEngine) (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}

	return engine.Uint16(b), nil
}

// Uint32 reads a fixed-width 32-bit value using the given byte order.
func (c *Cursor) Uint32(engine endian.EndianEngine) (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}

	return engine.Uint32(b), nil
}

// Uleb128 reads an unsigned LEB128 value.
func (c *Cursor) Uleb128() (uint64, error) {
	return leb128.Uleb128(c.data, &c.pos)
}

// Uleb128U32 reads an unsigned LEB128 value and truncates it to 32 bits, the width every
// DEX index and offset field uses.
func (c *Cursor) Uleb128U32() (uint32, error) {
	v, err := leb128.Uleb128(c.data, &c.pos)
	if err != nil {
		return 0, err
	}

	return uint32(v), nil //nolint:gosec // DEX fields are 32-bit
}

// Sleb128 reads a signed LEB128 value.
func (c *Cursor) Sleb128() (int64, error) {
	return leb128.Sleb128(c.data, &c.pos)
}

// Uleb128p1 reads a uleb128p1 value.
func (c *Cursor) Uleb128p1() (int64, error) {
	return leb128.Uleb128p1(c.data, &c.pos)
}
