package batchac_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	batchac "github.com/amaanq/BatchAC-go"
	"github.com/amaanq/BatchAC-go/bound"
)

const randomTests = 2000

// Random sequences of length 8 over at most 16 symbols need at most
// TheoreticalBound(8) = 25 bits, far below MaxBits.
func TestCodec_RandomRoundTrip(t *testing.T) {
	codec, err := batchac.NewCodec[uint32](batchac.WithBits(batchac.MaxBits))
	require.NoError(t, err)

	for _, alphabet := range []uint32{1, 2, 4, 16} {
		src := bound.NewRandomDataSource(1839304 + 2017*alphabet)
		_, err := src.SetUniform(alphabet)
		require.NoError(t, err)

		seq := make([]uint32, 8)
		for k := 0; k < randomTests; k++ {
			src.Fill(seq)

			model, bits, err := codec.Encode(seq)
			require.NoError(t, err)
			require.LessOrEqual(t, batchac.SignificantBits(bits), batchac.TheoreticalBound(len(seq)))

			decoded, err := codec.Decode(bits, len(seq), model)
			require.NoError(t, err)
			require.Equal(t, seq, decoded, "alphabet %d, test %d", alphabet, k)
		}
	}
}

func TestCodec_SkewedSourceRoundTrip(t *testing.T) {
	codec, err := batchac.NewCodec[uint32](batchac.WithBits(batchac.MaxBits))
	require.NoError(t, err)

	src := bound.NewRandomDataSource(7)
	_, err = src.SetTruncatedGeometric(8, 1.5)
	require.NoError(t, err)

	seq := make([]uint32, 12)
	for k := 0; k < randomTests; k++ {
		src.Fill(seq)

		model, bits, err := codec.EncodeVerified(seq)
		require.NoError(t, err, "test %d", k)

		data, err := batchac.MarshalModel(model)
		require.NoError(t, err)
		received, err := batchac.UnmarshalModel[uint32](data)
		require.NoError(t, err)

		decoded, err := codec.Decode(bits, len(seq), received)
		require.NoError(t, err)
		require.Equal(t, seq, decoded)
	}
}
