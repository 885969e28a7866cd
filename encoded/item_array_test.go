package encoded

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dex/cursor"
	"github.com/arloliu/dex/errs"
	"github.com/arloliu/dex/leb128"
)

// deltaItem reads a single-byte delta and resolves it against the previous ID.
type deltaItem struct {
	id  uint64
	ctx uint64
}

func (d deltaItem) ID() uint64 { return d.id }

var deltaDecoder = DecoderFunc[deltaItem, uint64](func(data []byte, ctx uint64) (deltaItem, int, error) {
	if len(data) < 1 {
		return deltaItem{}, 0, errs.ErrOutOfData
	}

	return deltaItem{id: ctx + uint64(data[0]), ctx: ctx}, 1, nil
})

// ulebItem reads a ULEB128 delta, like the index fields of encoded_field.
type ulebItem struct {
	id uint64
}

func (u ulebItem) ID() uint64 { return u.id }

var ulebDecoder = DecoderFunc[ulebItem, uint64](func(data []byte, ctx uint64) (ulebItem, int, error) {
	pos := 0
	d, err := leb128.Uleb128(data, &pos)
	if err != nil {
		return ulebItem{}, 0, err
	}

	return ulebItem{id: ctx + d}, pos, nil
})

func TestDecodeItemArray_DeltaChain(t *testing.T) {
	data := []byte{0x02, 0x03, 0x00}

	arr, n, err := DecodeItemArray(data, 2, deltaDecoder)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 2, arr.Len())

	require.Equal(t, uint64(2), arr.At(0).ID())
	require.Equal(t, uint64(0), arr.At(0).ctx)
	require.Equal(t, uint64(5), arr.At(1).ID())
	require.Equal(t, uint64(2), arr.At(1).ctx)
}

func TestDecodeItemArray_Empty(t *testing.T) {
	t.Run("Zero count", func(t *testing.T) {
		arr, n, err := DecodeItemArray([]byte{0x01, 0x02}, 0, deltaDecoder)
		require.NoError(t, err)
		require.Zero(t, n)
		require.Zero(t, arr.Len())
		require.Empty(t, arr.Items())
	})

	t.Run("Zero count on empty input", func(t *testing.T) {
		arr, n, err := DecodeItemArray(nil, 0, deltaDecoder)
		require.NoError(t, err)
		require.Zero(t, n)
		require.Zero(t, arr.Len())
	})

	t.Run("Zero value", func(t *testing.T) {
		var arr ItemArray[deltaItem]
		require.Zero(t, arr.Len())
		for range arr.All() {
			t.Fatal("zero array must not yield")
		}
	})
}

func TestDecodeItemArray_NegativeCount(t *testing.T) {
	_, _, err := DecodeItemArray([]byte{0x01}, -1, deltaDecoder)
	require.ErrorIs(t, err, errs.ErrInvalidCount)
}

func TestDecodeItemArray_ConsumedIsSum(t *testing.T) {
	var data []byte
	deltas := []uint64{3, 200, 0, 1 << 20, 7}
	for _, d := range deltas {
		data = leb128.AppendUleb128(data, d)
	}
	data = append(data, 0xee, 0xee) // trailing bytes belong to someone else

	arr, n, err := DecodeItemArray(data, len(deltas), ulebDecoder)
	require.NoError(t, err)
	require.Equal(t, len(data)-2, n)

	var want uint64
	for i, item := range arr.All() {
		want += deltas[i]
		require.Equal(t, want, item.ID(), "item %d", i)
	}
}

func TestDecodeItemArray_ContextIsPreviousID(t *testing.T) {
	// Each item reports a fixed ID regardless of context, so the chain must pass the
	// previous ID through rather than a running sum.
	ids := []uint64{10, 4, 4, 99}
	var contexts []uint64
	i := 0
	dec := DecoderFunc[ulebItem, uint64](func(data []byte, ctx uint64) (ulebItem, int, error) {
		contexts = append(contexts, ctx)
		item := ulebItem{id: ids[i]}
		i++

		return item, 1, nil
	})

	_, n, err := DecodeItemArray(make([]byte, len(ids)), len(ids), dec)
	require.NoError(t, err)
	require.Equal(t, len(ids), n)
	require.Equal(t, []uint64{0, 10, 4, 4}, contexts)
}

func TestDecodeItemArray_Truncated(t *testing.T) {
	var data []byte
	for _, d := range []uint64{1, 300, 70000} {
		data = leb128.AppendUleb128(data, d)
	}

	for k := range len(data) {
		_, _, err := DecodeItemArray(data[:k], 3, ulebDecoder)
		require.ErrorIs(t, err, errs.ErrOutOfData, "prefix %d", k)
	}
}

func TestDecodeItemArray_PropagatesDecoderError(t *testing.T) {
	errBoom := errors.New("boom")
	calls := 0
	dec := DecoderFunc[deltaItem, uint64](func(data []byte, ctx uint64) (deltaItem, int, error) {
		calls++
		if calls == 3 {
			return deltaItem{}, 0, fmt.Errorf("wrapped: %w", errBoom)
		}

		return deltaItem{id: ctx + 1}, 1, nil
	})

	arr, n, err := DecodeItemArray([]byte{1, 1, 1, 1}, 4, dec)
	require.ErrorIs(t, err, errBoom)
	require.Contains(t, err.Error(), "item 2")
	require.Zero(t, n)
	require.Zero(t, arr.Len(), "no partial result")
	require.Equal(t, 3, calls, "decoding stops at the first failure")
}

func TestDecodeItemArray_HugeCount(t *testing.T) {
	// A count far beyond the input must fail on data, not on allocation.
	_, _, err := DecodeItemArray([]byte{0x01, 0x02}, 1<<40, deltaDecoder)
	require.ErrorIs(t, err, errs.ErrOutOfData)
}

func TestDecodeItemArray_OverConsumingDecoder(t *testing.T) {
	dec := DecoderFunc[deltaItem, uint64](func(data []byte, ctx uint64) (deltaItem, int, error) {
		return deltaItem{}, len(data) + 1, nil
	})

	_, _, err := DecodeItemArray([]byte{0x01}, 1, dec)
	require.ErrorIs(t, err, errs.ErrOutOfData)
}

func TestItemArray_AllStopsEarly(t *testing.T) {
	arr, _, err := DecodeItemArray([]byte{1, 1, 1, 1}, 4, deltaDecoder)
	require.NoError(t, err)

	seen := 0
	for i := range arr.All() {
		seen++
		if i == 1 {
			break
		}
	}
	require.Equal(t, 2, seen)
}

func TestRead(t *testing.T) {
	c := cursor.New([]byte{0xaa, 0x80, 0x01, 0x05})
	require.NoError(t, c.Skip(1))

	item, err := Read(c, ulebDecoder, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(138), item.ID())
	require.Equal(t, 3, c.Pos())

	item, err = Read(c, ulebDecoder, item.ID())
	require.NoError(t, err)
	require.Equal(t, uint64(143), item.ID())

	_, err = Read(c, ulebDecoder, 0)
	require.ErrorIs(t, err, errs.ErrOutOfData)
	require.Equal(t, 4, c.Pos())
}

func BenchmarkDecodeItemArray(b *testing.B) {
	const count = 4096
	var data []byte
	for i := range count {
		data = leb128.AppendUleb128(data, uint64(i%300))
	}

	b.ResetTimer()
	for b.Loop() {
		if _, _, err := DecodeItemArray(data, count, ulebDecoder); err != nil {
			b.Fatal(err)
		}
	}
}
