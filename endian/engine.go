// Package endian provides the byte order engines used to read fixed-width DEX fields.
//
// DEX files declare their byte order through the endian_tag header field. Virtually every
// file in the wild is little-endian; the big-endian variant is defined by the format but
// rarely produced. EngineForTag maps the raw tag to an EndianEngine:
//
//	engine, err := endian.EngineForTag(tag)
//	if err != nil {
//	    return err
//	}
//	size := engine.Uint32(data[0x20:0x24])
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/dex/errs"
)

const (
	// Tag is the endian_tag value of a file written in little-endian order.
	Tag uint32 = 0x12345678
	// ReverseTag is the endian_tag value of a file written in big-endian order.
	ReverseTag uint32 = 0x78563412
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface.
//
// It is satisfied by binary.LittleEndian and binary.BigEndian. Decoders only use the
// ByteOrder half; the append half is used by test fixtures building DEX images.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// EngineForTag returns the engine matching an endian_tag value.
//
// The tag is expected to have been read as little-endian; a big-endian file therefore
// presents ReverseTag.
//
// Returns errs.ErrInvalidEndianTag for any other value.
func EngineForTag(tag uint32) (EndianEngine, error) {
	switch tag {
	case Tag:
		return GetLittleEndianEngine(), nil
	case ReverseTag:
		return GetBigEndianEngine(), nil
	default:
		return nil, fmt.Errorf("%w: 0x%08x", errs.ErrInvalidEndianTag, tag)
	}
}

// IsLittleEndian reports whether engine reads little-endian values.
func IsLittleEndian(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}
