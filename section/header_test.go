package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
)

// buildHeader returns a 0x70-byte header written with engine. Each size/off pair is
// filled with distinct values so that misplaced reads show up.
func buildHeader(engine endian.EndianEngine) []byte {
	b := make([]byte, 0, HeaderSize)
	b = append(b, "dex\n035\x00"...)
	b = engine.AppendUint32(b, 0xdeadbeef) // checksum
	for i := range SignatureSize {
		b = append(b, byte(i))
	}
	b = engine.AppendUint32(b, 0x1000) // file_size
	b = engine.AppendUint32(b, HeaderSize)
	b = engine.AppendUint32(b, endian.Tag)
	for v := uint32(1); len(b) < HeaderSize; v++ {
		b = engine.AppendUint32(b, v*0x10)
	}

	return b
}

func TestParseHeader(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		data := buildHeader(engine)

		h, err := ParseHeader(data)
		require.NoError(t, err)
		require.Equal(t, "035", h.Version())
		require.Equal(t, engine, h.Engine())
		require.Equal(t, uint32(0xdeadbeef), h.Checksum)
		require.Equal(t, byte(19), h.Signature[19])
		require.Equal(t, uint32(0x1000), h.FileSize)
		require.Equal(t, uint32(HeaderSize), h.HeaderSize)
		require.Equal(t, endian.Tag, h.EndianTag)

		// Pairs start at 0x2C: link(0x10,0x20), map_off 0x30, string_ids(0x40,0x50), ...
		require.Equal(t, SizeOff{Size: 0x10, Off: 0x20}, h.Link)
		require.Equal(t, uint32(0x30), h.MapOff)
		require.Equal(t, SizeOff{Size: 0x40, Off: 0x50}, h.StringIDs)
		require.Equal(t, SizeOff{Size: 0x60, Off: 0x70}, h.TypeIDs)
		require.Equal(t, SizeOff{Size: 0xe0, Off: 0xf0}, h.ClassDefs)
		require.Equal(t, SizeOff{Size: 0x100, Off: 0x110}, h.Data)
	}
}

func TestParseHeader_Errors(t *testing.T) {
	t.Run("Too short", func(t *testing.T) {
		data := buildHeader(endian.GetLittleEndianEngine())
		_, err := ParseHeader(data[:HeaderSize-1])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)

		_, err = ParseHeader(nil)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("Bad magic", func(t *testing.T) {
		cases := map[string]string{
			"prefix":      "dey\n035\x00",
			"version":     "dex\n0a5\x00",
			"terminator":  "dex\n035\x01",
			"odex prefix": "dey\n036\x00",
		}
		for name, magic := range cases {
			data := buildHeader(endian.GetLittleEndianEngine())
			copy(data, magic)
			_, err := ParseHeader(data)
			require.ErrorIs(t, err, errs.ErrInvalidMagic, name)
		}
	})

	t.Run("Bad endian tag", func(t *testing.T) {
		data := buildHeader(endian.GetLittleEndianEngine())
		data[0x28] = 0x00
		_, err := ParseHeader(data)
		require.ErrorIs(t, err, errs.ErrInvalidEndianTag)
	})

	t.Run("Later versions", func(t *testing.T) {
		data := buildHeader(endian.GetLittleEndianEngine())
		copy(data, "dex\n039\x00")
		h, err := ParseHeader(data)
		require.NoError(t, err)
		require.Equal(t, "039", h.Version())
	})
}
