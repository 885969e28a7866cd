package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dex/endian"
	"github.com/arloliu/dex/errs"
)

func appendMapItem(b []byte, engine endian.EndianEngine, t ItemType, size, off uint32) []byte {
	b = engine.AppendUint16(b, uint16(t))
	b = engine.AppendUint16(b, 0)
	b = engine.AppendUint32(b, size)

	return engine.AppendUint32(b, off)
}

func TestParseMapList(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	data := engine.AppendUint32(nil, 3)
	data = appendMapItem(data, engine, TypeHeaderItem, 1, 0)
	data = appendMapItem(data, engine, TypeClassDefItem, 2, 0x70)
	data = appendMapItem(data, engine, TypeMapList, 1, 0x200)
	data = append(data, 0xff) // trailing byte is not part of the list

	m, n, err := ParseMapList(data, engine)
	require.NoError(t, err)
	require.Equal(t, 4+3*MapItemSize, n)
	require.Len(t, m.Items, 3)
	require.Equal(t, MapItem{Type: TypeClassDefItem, Size: 2, Offset: 0x70}, m.Items[1])

	item, ok := m.Find(TypeMapList)
	require.True(t, ok)
	require.Equal(t, uint32(0x200), item.Offset)

	_, ok = m.Find(TypeCodeItem)
	require.False(t, ok)
}

func TestParseMapList_BigEndian(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	data := engine.AppendUint32(nil, 1)
	data = appendMapItem(data, engine, TypeCodeItem, 5, 0x1234)

	m, _, err := ParseMapList(data, engine)
	require.NoError(t, err)
	require.Equal(t, TypeCodeItem, m.Items[0].Type)
	require.Equal(t, uint32(5), m.Items[0].Size)
	require.Equal(t, uint32(0x1234), m.Items[0].Offset)
}

func TestParseMapList_Truncated(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	data := engine.AppendUint32(nil, 2)
	data = appendMapItem(data, engine, TypeHeaderItem, 1, 0)
	data = appendMapItem(data, engine, TypeMapList, 1, 0x200)

	for k := range len(data) {
		_, _, err := ParseMapList(data[:k], engine)
		require.ErrorIs(t, err, errs.ErrOutOfData, "prefix %d", k)
	}

	// A huge size must fail on data rather than allocation.
	huge := engine.AppendUint32(nil, 0xffffffff)
	_, _, err := ParseMapList(huge, engine)
	require.ErrorIs(t, err, errs.ErrOutOfData)
}

func TestItemType_String(t *testing.T) {
	require.Equal(t, "header_item", TypeHeaderItem.String())
	require.Equal(t, "class_data_item", TypeClassDataItem.String())
	require.Equal(t, "code_item", TypeCodeItem.String())
	require.Equal(t, "hiddenapi_class_data_item", TypeHiddenapiClassDataItem.String())
	require.Equal(t, "unknown(0x0bad)", ItemType(0x0bad).String())
}
