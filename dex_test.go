package dex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
	"github.com/arloliu/dex/internal/hash"
	"github.com/arloliu/dex/internal/testutil"
	"github.com/arloliu/dex/section"
)

func sampleImage(engine endian.EndianEngine) []byte {
	d := testutil.SampleDex()
	d.Engine = engine

	return testutil.MakeDex(d)
}

func TestOpen_SampleDex(t *testing.T) {
	engines := map[string]endian.EndianEngine{
		"little endian": endian.GetLittleEndianEngine(),
		"big endian":    endian.GetBigEndianEngine(),
	}

	for name, engine := range engines {
		t.Run(name, func(t *testing.T) {
			data := sampleImage(engine)

			f, err := Open(data)
			require.NoError(t, err)
			require.Equal(t, "035", f.Header().Version())
			require.Equal(t, endian.IsLittleEndian(engine), endian.IsLittleEndian(f.Engine()))
			require.Equal(t, len(data), f.Len())
			require.Len(t, f.Map().Items, 5)

			defs := f.ClassDefs()
			require.Len(t, defs, 2)
			require.Equal(t, uint32(4), defs[0].ClassIdx)
			require.Equal(t, uint32(9), defs[0].SuperclassIdx)
			require.True(t, defs[0].HasClassData())
			require.Equal(t, uint32(7), defs[1].ClassIdx)
			require.False(t, defs[1].HasClassData())

			cd, err := f.ClassData(defs[0].ClassDataOff)
			require.NoError(t, err)
			require.Equal(t, 3, cd.FieldCount())
			require.Equal(t, 4, cd.MethodCount())
			require.Equal(t, uint64(300), cd.VirtualMethods.At(1).MethodIdx)
			require.False(t, cd.VirtualMethods.At(0).HasCode())

			m := cd.DirectMethods.At(1)
			require.Equal(t, uint64(12), m.MethodIdx)
			require.True(t, m.HasCode())
			require.Zero(t, m.CodeOff%4, "code items are 4-byte aligned")

			it, err := f.Code(m.CodeOff)
			require.NoError(t, err)
			require.Len(t, it.Tries, 4)
			h, ok := it.HandlersAt(2)
			require.True(t, ok)
			catchAll, ok := h.CatchAll()
			require.True(t, ok)
			require.Equal(t, uint64(0x40), catchAll.Addr)
		})
	}
}

func TestFile_Section(t *testing.T) {
	data := sampleImage(nil)
	f, err := Open(data)
	require.NoError(t, err)

	defs, ok := f.Section(section.TypeClassDefItem)
	require.True(t, ok)
	require.Len(t, defs, 2*section.ClassDefItemSize)

	mapData, ok := f.Section(section.TypeMapList)
	require.True(t, ok)
	require.Equal(t, len(data)-int(f.Header().MapOff), len(mapData))
	require.Equal(t, uint32(5), f.Engine().Uint32(mapData))

	hdr, ok := f.Section(section.TypeHeaderItem)
	require.True(t, ok)
	require.Len(t, hdr, section.HeaderSize)

	_, ok = f.Section(section.TypeStringIDItem)
	require.False(t, ok)
}

func TestFile_Fingerprint(t *testing.T) {
	data := sampleImage(nil)
	f, err := Open(data)
	require.NoError(t, err)
	require.Equal(t, hash.Fingerprint(data), f.Fingerprint())
	require.Same(t, &data[0], &f.Bytes()[0], "Open must not copy the image")
}

func TestOpen_EmptyClassDefs(t *testing.T) {
	f, err := Open(testutil.MakeDex(testutil.Dex{}))
	require.NoError(t, err)
	require.Empty(t, f.ClassDefs())
	require.Len(t, f.Map().Items, 2)
}

func TestOpen_Errors(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	t.Run("short header", func(t *testing.T) {
		_, err := Open(make([]byte, section.HeaderSize-1))
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("bad magic", func(t *testing.T) {
		data := sampleImage(nil)
		data[0] = 'x'
		_, err := Open(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("map offset beyond image", func(t *testing.T) {
		data := sampleImage(nil)
		engine.PutUint32(data[0x34:], uint32(len(data)+1)) //nolint:gosec
		_, err := Open(data)
		require.ErrorIs(t, err, errs.ErrOffsetOutOfRange)
	})

	t.Run("class defs beyond image", func(t *testing.T) {
		data := sampleImage(nil)
		engine.PutUint32(data[0x64:], 0xffffff00)
		_, err := Open(data)
		require.ErrorIs(t, err, errs.ErrOffsetOutOfRange)
	})

	t.Run("too many class defs", func(t *testing.T) {
		data := sampleImage(nil)
		engine.PutUint32(data[0x60:], 0x10000000)
		_, err := Open(data)
		require.ErrorIs(t, err, errs.ErrOutOfData)
	})

	t.Run("invalid option", func(t *testing.T) {
		_, err := Open(sampleImage(nil), WithMaxFileSize(0))
		require.Error(t, err)
	})
}

func TestOpen_TruncatedNeverPanics(t *testing.T) {
	data := sampleImage(nil)

	for k := range len(data) {
		require.NotPanics(t, func() {
			_, err := Open(data[:k])
			require.Error(t, err, "prefix %d", k)
		})
	}
}

func TestFile_OffsetsOutOfRange(t *testing.T) {
	f, err := Open(sampleImage(nil))
	require.NoError(t, err)

	_, err = f.ClassData(uint32(f.Len() + 1)) //nolint:gosec
	require.ErrorIs(t, err, errs.ErrOffsetOutOfRange)

	_, err = f.Code(0xffffffff)
	require.ErrorIs(t, err, errs.ErrOffsetOutOfRange)

	// An offset at the very end is in range but has nothing to decode.
	_, err = f.Code(uint32(f.Len())) //nolint:gosec
	require.ErrorIs(t, err, errs.ErrOutOfData)
}
