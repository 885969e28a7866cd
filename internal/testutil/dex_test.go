package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/dex/endian"
)

func TestMakeDex_Layout(t *testing.T) {
	for _, engine := range []endian.EndianEngine{endian.GetLittleEndianEngine(), endian.GetBigEndianEngine()} {
		data := MakeDex(Dex{Engine: engine, Classes: SampleDex().Classes})

		require.Equal(t, "dex\n035\x00", string(data[:8]))
		require.Equal(t, uint32(len(data)), engine.Uint32(data[0x20:]))
		require.Equal(t, uint32(0x70), engine.Uint32(data[0x24:]))
		require.Equal(t, endian.Tag, engine.Uint32(data[0x28:]))
		require.Equal(t, uint32(2), engine.Uint32(data[0x60:]))

		mapOff := engine.Uint32(data[0x34:])
		require.Zero(t, mapOff%4)
		require.Equal(t, uint32(5), engine.Uint32(data[mapOff:]), "header, class_defs, code, class_data, map")
	}
}

func TestMakeHandlerList(t *testing.T) {
	list, offsets := MakeHandlerList(SampleCode().Handlers)
	require.Equal(t, []int{1, 6, 11}, offsets)
	require.Equal(t, byte(0x03), list[0])
	require.Equal(t, byte(0x02), list[1], "typed-only block has positive size")
	require.Equal(t, byte(0x7f), list[6], "typed plus catch-all block has size -1")
	require.Equal(t, byte(0x00), list[11], "catch-all only block has size 0")
}
