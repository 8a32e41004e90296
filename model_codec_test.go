package batchac

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/ugorji/go/codec"
)

func TestMarshalModel_Runes(t *testing.T) {
	c := newRuneCodec(t)
	seq := []rune("DACDDBCD")

	model, bits, err := c.Encode(seq)
	require.NoError(t, err)

	data, err := MarshalModel(model)
	require.NoError(t, err)

	received, err := UnmarshalModel[rune](data)
	require.NoError(t, err)
	require.True(t, model.Equal(received))
	require.Equal(t, 8, received.Length())

	decoded, err := c.Decode(bits, received.Length(), received)
	require.NoError(t, err)
	require.Equal(t, seq, decoded)
}

func TestMarshalModel_OtherSymbolTypes(t *testing.T) {
	words, err := BuildModel([]string{"to", "be", "or", "not", "to", "be"})
	require.NoError(t, err)
	data, err := MarshalModel(words)
	require.NoError(t, err)
	gotWords, err := UnmarshalModel[string](data)
	require.NoError(t, err)
	require.True(t, words.Equal(gotWords))

	ints, err := BuildModel([]uint32{7, 7, 1, 96, 3})
	require.NoError(t, err)
	data, err = MarshalModel(ints)
	require.NoError(t, err)
	gotInts, err := UnmarshalModel[uint32](data)
	require.NoError(t, err)
	require.True(t, ints.Equal(gotInts))
}

func TestMarshalModel_Nil(t *testing.T) {
	_, err := MarshalModel[rune](nil)
	require.ErrorIs(t, err, ErrInvalidModel)
}

func encodeWire(t *testing.T, w wireModel[rune]) []byte {
	var buf bytes.Buffer
	require.NoError(t, codec.NewEncoder(&buf, &codec.MsgpackHandle{}).Encode(&w))
	return buf.Bytes()
}

func TestUnmarshalModel_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"garbage", []byte{0xc1, 0x00, 0x13}},
		{"length mismatch", encodeWire(t, wireModel[rune]{Length: 9, Symbols: []rune("ab"), Counts: []int{4, 4}})},
		{"short counts", encodeWire(t, wireModel[rune]{Length: 4, Symbols: []rune("ab"), Counts: []int{4}})},
		{"duplicate", encodeWire(t, wireModel[rune]{Length: 4, Symbols: []rune("aa"), Counts: []int{2, 2}})},
		{"zero count", encodeWire(t, wireModel[rune]{Length: 2, Symbols: []rune("ab"), Counts: []int{2, 0}})},
		{"empty", encodeWire(t, wireModel[rune]{})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := UnmarshalModel[rune](tt.data)
			require.Nil(t, m)
			require.ErrorIs(t, err, ErrInvalidModel)
		})
	}
}
