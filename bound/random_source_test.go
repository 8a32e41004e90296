package bound

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomGenerator_Deterministic(t *testing.T) {
	a := NewRandomGenerator(1839304)
	b := NewRandomGenerator(1839304)
	c := NewRandomGenerator(2017)

	same := true
	for k := 0; k < 1000; k++ {
		wa, wb, wc := a.Word(), b.Word(), c.Word()
		require.Equal(t, wa, wb)
		same = same && wa == wc
	}
	assert.False(t, same)
}

func TestRandomGenerator_Ranges(t *testing.T) {
	rg := NewRandomGenerator(0)
	for k := 0; k < 10000; k++ {
		u := rg.Uniform()
		require.Greater(t, u, 0.0)
		require.Less(t, u, 1.0)
		require.Less(t, rg.Integer(96), uint32(96))
	}
}

func TestRandomDataSource_Uniform(t *testing.T) {
	src := NewRandomDataSource(11)
	ent, err := src.SetUniform(96)
	require.NoError(t, err)
	assert.InDelta(t, math.Log2(96), ent, 1e-9)
	assert.Equal(t, uint32(96), src.Symbols())

	seen := make(map[uint32]int)
	buf := make([]uint32, 96*200)
	src.Fill(buf)
	for _, s := range buf {
		require.Less(t, s, uint32(96))
		seen[s]++
	}
	assert.Len(t, seen, 96)
}

func TestRandomDataSource_TruncatedGeometric(t *testing.T) {
	for _, tt := range []struct {
		dim     uint32
		entropy float64
	}{
		{8, 1.5},
		{16, 2.0},
	} {
		src := NewRandomDataSource(3)
		ent, err := src.SetTruncatedGeometric(tt.dim, tt.entropy)
		require.NoError(t, err, "dim %d", tt.dim)
		assert.InDelta(t, tt.entropy, ent, 1e-4)
		assert.InDelta(t, tt.entropy, src.Entropy(), 1e-4)

		sum := 0.0
		for _, p := range src.Probability() {
			sum += p
		}
		assert.InDelta(t, 1.0, sum, 1e-4)

		require.NoError(t, src.ShuffleProbabilities())
		assert.InDelta(t, tt.entropy, src.Entropy(), 1e-4)
	}
}

func TestRandomDataSource_Invalid(t *testing.T) {
	src := NewRandomDataSource(3)

	_, err := src.SetUniform(0)
	require.ErrorIs(t, err, ErrInvalidDistribution)

	_, err = src.SetDistribution([]float64{0.5, 0.25})
	require.ErrorIs(t, err, ErrInvalidDistribution)

	_, err = src.SetDistribution([]float64{1.0, 0})
	require.ErrorIs(t, err, ErrInvalidDistribution)

	_, err = src.SetTruncatedGeometric(8, 3.5)
	require.ErrorIs(t, err, ErrInvalidDistribution)

	_, err = src.SetTruncatedGeometric(1, 0.5)
	require.ErrorIs(t, err, ErrInvalidDistribution)
}

func TestRandomDataSource_AlphabetTooLarge(t *testing.T) {
	src := NewRandomDataSource(3)

	// a negative alphabet wrapped to uint32 must fail before allocating
	_, err := src.SetUniform(math.MaxUint32)
	require.ErrorIs(t, err, ErrInvalidDistribution)
	assert.Zero(t, src.Symbols())

	_, err = src.SetUniform(MaxSymbols + 1)
	require.ErrorIs(t, err, ErrInvalidDistribution)

	_, err = src.SetTruncatedGeometric(math.MaxUint32, 8)
	require.ErrorIs(t, err, ErrInvalidDistribution)
	assert.Zero(t, src.Symbols())

	_, err = src.SetDistribution(make([]float64, MaxSymbols+1))
	require.ErrorIs(t, err, ErrInvalidDistribution)

	ent, err := src.SetUniform(MaxSymbols)
	require.NoError(t, err)
	assert.InDelta(t, math.Log2(MaxSymbols), ent, 1e-6)
}
