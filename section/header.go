package section

import (
	"bytes"
	"fmt"

	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
)

var magicPrefix = []byte("dex\n")

// SizeOff is a (size, offset) pair describing one section of the file.
type SizeOff struct {
	Size uint32
	Off  uint32
}

// Header represents the fixed-size header_item at the start of a DEX file.
//
// Checksum and Signature are exposed as stored; they are not verified.
type Header struct {
	Magic     [MagicSize]byte     // byte offset 0x00-0x07
	Checksum  uint32              // byte offset 0x08-0x0B
	Signature [SignatureSize]byte // byte offset 0x0C-0x1F
	FileSize  uint32              // byte offset 0x20-0x23
	// HeaderSize is the header size recorded in the file, normally 0x70.
	HeaderSize uint32 // byte offset 0x24-0x27
	EndianTag  uint32 // byte offset 0x28-0x2B
	Link       SizeOff
	MapOff     uint32 // byte offset 0x34-0x37
	StringIDs  SizeOff
	TypeIDs    SizeOff
	ProtoIDs   SizeOff
	FieldIDs   SizeOff
	MethodIDs  SizeOff
	ClassDefs  SizeOff
	Data       SizeOff

	engine endian.EndianEngine
}

// Version returns the three-digit format version from the magic, e.g. "035".
func (h *Header) Version() string {
	return string(h.Magic[4:7])
}

// Engine returns the byte order selected by the header's endian tag.
func (h *Header) Engine() endian.EndianEngine {
	return h.engine
}

// Parse parses the header from a byte slice.
//
// Parameters:
//   - data: Byte slice starting at the header (must be at least 0x70 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is too short, ErrInvalidMagic or
//     ErrInvalidEndianTag if the identifying fields are wrong
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrInvalidHeaderSize, HeaderSize, len(data))
	}

	if err := checkMagic(data[:MagicSize]); err != nil {
		return err
	}
	copy(h.Magic[:], data[:MagicSize])

	// The tag is always compared in little-endian form.
	engine, err := endian.EngineForTag(endian.GetLittleEndianEngine().Uint32(data[0x28:0x2C]))
	if err != nil {
		return err
	}
	h.engine = engine

	h.Checksum = engine.Uint32(data[0x08:0x0C])
	copy(h.Signature[:], data[0x0C:0x20])
	h.FileSize = engine.Uint32(data[0x20:0x24])
	h.HeaderSize = engine.Uint32(data[0x24:0x28])
	h.EndianTag = engine.Uint32(data[0x28:0x2C])
	h.Link = readSizeOff(engine, data[0x2C:])
	h.MapOff = engine.Uint32(data[0x34:0x38])
	h.StringIDs = readSizeOff(engine, data[0x38:])
	h.TypeIDs = readSizeOff(engine, data[0x40:])
	h.ProtoIDs = readSizeOff(engine, data[0x48:])
	h.FieldIDs = readSizeOff(engine, data[0x50:])
	h.MethodIDs = readSizeOff(engine, data[0x58:])
	h.ClassDefs = readSizeOff(engine, data[0x60:])
	h.Data = readSizeOff(engine, data[0x68:])

	return nil
}

// ParseHeader parses a Header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the whole file or at least its first 0x70 bytes
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize, ErrInvalidMagic or ErrInvalidEndianTag
func ParseHeader(data []byte) (Header, error) {
	h := Header{}
	if err := h.Parse(data); err != nil {
		return Header{}, err
	}

	return h, nil
}

func checkMagic(magic []byte) error {
	if !bytes.Equal(magic[:4], magicPrefix) || magic[7] != 0 {
		return fmt.Errorf("%w: %q", errs.ErrInvalidMagic, magic)
	}
	for _, d := range magic[4:7] {
		if d < '0' || d > '9' {
			return fmt.Errorf("%w: version %q", errs.ErrInvalidMagic, magic[4:7])
		}
	}

	return nil
}

func readSizeOff(engine endian.EndianEngine, b []byte) SizeOff {
	return SizeOff{Size: engine.Uint32(b[0:4]), Off: engine.Uint32(b[4:8])}
}
