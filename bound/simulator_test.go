package bound

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	batchac "github.com/amaanq/BatchAC-go"
)

func newTestSimulator(length int, alphabet uint32, sims int) *Simulator {
	s := NewSimulator()
	s.Length = length
	s.Alphabet = alphabet
	s.Simulations = sims
	s.Workers = 3
	return s
}

func TestSimulator_SingleSymbolSequences(t *testing.T) {
	res, err := newTestSimulator(1, 96, 100).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Theoretical)
	assert.Equal(t, 1, res.Min)
	assert.Equal(t, 1, res.Max)
	assert.Equal(t, 1.0, res.Mean)
	assert.Equal(t, 100, res.Histogram[1])
}

func TestSimulator_WithinTheoreticalBound(t *testing.T) {
	for _, length := range []int{2, 4, 8} {
		s := newTestSimulator(length, 96, 2000)
		s.Verify = true

		res, err := s.Run(context.Background())
		require.NoError(t, err)

		total := 0
		for _, n := range res.Histogram {
			total += n
		}
		require.Equal(t, 2000, total)
		assert.Equal(t, batchac.TheoreticalBound(length), res.Theoretical)
		assert.LessOrEqual(t, res.Max, res.Theoretical, "length %d", length)
		assert.GreaterOrEqual(t, res.Mean, float64(res.Min))
		assert.LessOrEqual(t, res.Mean, float64(res.Max))
		assert.Zero(t, res.Failures)
	}
}

func TestSimulator_Reproducible(t *testing.T) {
	a, err := newTestSimulator(8, 16, 500).Run(context.Background())
	require.NoError(t, err)
	b, err := newTestSimulator(8, 16, 500).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, a.Histogram, b.Histogram)

	s := newTestSimulator(8, 16, 500)
	s.Seed++
	c, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 500, c.Simulations)
}

func TestSimulator_CountsFailures(t *testing.T) {
	// eight distinct symbols need 25 bits
	s := newTestSimulator(8, 4096, 50)
	s.Bits = 10
	s.Verify = true

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Bits)
	assert.Positive(t, res.Failures)
	assert.LessOrEqual(t, res.Max, 10)
}

func TestSimulator_SkewedSource(t *testing.T) {
	s := newTestSimulator(8, 16, 300)
	s.Entropy = 2.0

	res, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Entropy, 1e-4)
	assert.LessOrEqual(t, res.Max, res.Theoretical)
}

func TestSimulator_Progress(t *testing.T) {
	var calls atomic.Int64
	s := newTestSimulator(4, 8, 77)
	s.Progress = func() { calls.Add(1) }

	_, err := s.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(77), calls.Load())
}

func TestSimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestSimulator(4, 8, 1000).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSimulator_InvalidParameters(t *testing.T) {
	for _, s := range []*Simulator{
		newTestSimulator(0, 8, 10),
		newTestSimulator(4, 0, 10),
		newTestSimulator(4, 8, 0),
	} {
		_, err := s.Run(context.Background())
		require.ErrorIs(t, err, batchac.ErrInvalidInput)
	}

	_, err := newTestSimulator(4, math.MaxUint32, 10).Run(context.Background())
	require.ErrorIs(t, err, ErrInvalidDistribution)

	s := newTestSimulator(4, 8, 10)
	s.Bits = batchac.MaxBits + 1
	_, err = s.Run(context.Background())
	require.ErrorIs(t, err, batchac.ErrInvalidBitWidth)
}
