// Package bound estimates how many fractional bits the batch arithmetic
// coder needs in practice, by encoding random sequences and recording the
// significant bits of each codeword.
package bound

import (
	"context"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	batchac "github.com/amaanq/BatchAC-go"
)

const (
	DefaultLength      = 16
	DefaultAlphabet    = 96 // printable ASCII, LF included
	DefaultSimulations = 100000
	DefaultSeed        = 1839304
)

// Simulator draws Simulations random sequences of Length symbols over an
// alphabet of Alphabet symbols and encodes each with Bits fractional bits.
type Simulator struct {
	Length      int
	Alphabet    uint32
	Simulations int
	Bits        int     // 0 = batchac.MaxBits
	Entropy     float64 // 0 = uniform source, else truncated geometric of this entropy
	Workers     int     // 0 = GOMAXPROCS
	Seed        uint32
	Verify      bool // decode every codeword and count ErrPrecisionExceeded

	// Progress, when set, is called once per finished simulation from the
	// worker goroutines.
	Progress func()
	Logger   zerolog.Logger
}

// Result summarizes one simulation run.
type Result struct {
	Length      int
	Alphabet    uint32
	Bits        int
	Simulations int
	Entropy     float64 // of the random source, bits/symbol
	Theoretical int
	Min, Max    int
	Mean        float64
	Histogram   []int // Histogram[b] = number of codewords with b significant bits
	Failures    int   // round trips that lost symbols (Verify only)
	Elapsed     time.Duration
}

// NewSimulator returns a simulator with the defaults of the 16-symbol
// printable-ASCII experiment.
func NewSimulator() *Simulator {
	return &Simulator{
		Length:      DefaultLength,
		Alphabet:    DefaultAlphabet,
		Simulations: DefaultSimulations,
		Seed:        DefaultSeed,
		Logger:      zerolog.Nop(),
	}
}

type workerResult struct {
	histogram []int
	failures  int
	entropy   float64
}

// Run executes the simulations. Each worker owns its random source, seeded
// from Seed and the worker index, so a run is reproducible for a fixed seed
// and worker count.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.Length < 1 {
		return nil, errors.Wrapf(batchac.ErrInvalidInput, "sequence length %d", s.Length)
	}
	if s.Alphabet < 1 {
		return nil, errors.Wrapf(batchac.ErrInvalidInput, "alphabet of %d symbols", s.Alphabet)
	}
	if s.Simulations < 1 {
		return nil, errors.Wrapf(batchac.ErrInvalidInput, "%d simulations", s.Simulations)
	}

	bits := s.Bits
	if bits == 0 {
		bits = batchac.MaxBits
	}
	codec, err := batchac.NewCodec[uint32](batchac.WithBits(bits))
	if err != nil {
		return nil, err
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, s.Simulations)

	start := time.Now()
	results := make([]workerResult, workers)
	g, gctx := errgroup.WithContext(ctx)

	for w := 0; w < workers; w++ {
		count := s.Simulations / workers
		if w < s.Simulations%workers {
			count++
		}

		w := w
		g.Go(func() error {
			src := NewRandomDataSource(s.Seed + 2017*uint32(w))
			res, err := s.work(gctx, codec, src, count)
			if err != nil {
				return err
			}
			results[w] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r := &Result{
		Length:      s.Length,
		Alphabet:    s.Alphabet,
		Bits:        bits,
		Simulations: s.Simulations,
		Entropy:     results[0].entropy,
		Theoretical: batchac.TheoreticalBound(s.Length),
		Histogram:   make([]int, bits+1),
		Elapsed:     time.Since(start),
	}
	for _, res := range results {
		for b, n := range res.histogram {
			r.Histogram[b] += n
		}
		r.Failures += res.failures
	}
	r.summarize()

	s.Logger.Debug().
		Int("simulations", r.Simulations).
		Int("max", r.Max).
		Float64("mean", r.Mean).
		Dur("elapsed", r.Elapsed).
		Msg("simulation finished")
	return r, nil
}

func (s *Simulator) source(src *RandomDataSource) (float64, error) {
	if s.Entropy > 0 {
		return src.SetTruncatedGeometric(s.Alphabet, s.Entropy)
	}
	return src.SetUniform(s.Alphabet)
}

func (s *Simulator) work(ctx context.Context, codec *batchac.Codec[uint32], src *RandomDataSource, count int) (workerResult, error) {
	res := workerResult{histogram: make([]int, codec.Bits()+1)}

	entropy, err := s.source(src)
	if err != nil {
		return res, err
	}
	res.entropy = entropy

	seq := make([]uint32, s.Length)
	for k := 0; k < count; k++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if s.Entropy > 0 {
			if err := src.ShuffleProbabilities(); err != nil {
				return res, err
			}
		}
		src.Fill(seq)

		var bits string
		if s.Verify {
			_, bits, err = codec.EncodeVerified(seq)
			if errors.Is(err, batchac.ErrPrecisionExceeded) {
				res.failures++
				_, bits, err = codec.Encode(seq)
			}
		} else {
			_, bits, err = codec.Encode(seq)
		}
		if err != nil {
			return res, err
		}

		res.histogram[batchac.SignificantBits(bits)]++
		if s.Progress != nil {
			s.Progress()
		}
	}
	return res, nil
}

func (r *Result) summarize() {
	total := 0
	r.Min = -1
	for b, n := range r.Histogram {
		if n == 0 {
			continue
		}
		if r.Min < 0 {
			r.Min = b
		}
		r.Max = b
		total += b * n
	}
	r.Mean = float64(total) / float64(r.Simulations)
}
