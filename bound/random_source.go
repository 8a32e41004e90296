package bound

import (
	"math"

	"github.com/pkg/errors"
)

const (
	MinProbability = 1e-4  // 0.0001
	MaxSymbols     = 10000 // 1 / MinProbability
)

var ErrInvalidDistribution = errors.New("invalid random source distribution")

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// RandomGenerator is the "Taus88" combined Tausworthe generator, period
// (2^31 - 1) * (2^29 - 1) * (2^28 - 1). It is deterministic for a seed so
// simulations can be replayed.
type RandomGenerator struct {
	s1, s2, s3 uint32
}

func NewRandomGenerator(seed uint32) *RandomGenerator {
	rg := new(RandomGenerator)
	rg.SetSeed(seed)
	return rg
}

func (rg *RandomGenerator) SetSeed(seed uint32) {
	rg.s1 = 0x147AE11
	if seed != 0 {
		rg.s1 = seed & 0xFFFFFFF
	}
	rg.s2 = rg.s1 ^ 0xFFFFF07
	rg.s3 = rg.s1 ^ 0xF03CD2F
}

func (rg *RandomGenerator) Word() uint32 {
	var b uint32
	b = ((rg.s1 << 13) ^ rg.s1) >> 19
	rg.s1 = ((rg.s1 & 0xFFFFFFFE) << 12) ^ b
	b = ((rg.s2 << 2) ^ rg.s2) >> 25
	rg.s2 = ((rg.s2 & 0xFFFFFFF8) << 4) ^ b
	b = ((rg.s3 << 3) ^ rg.s3) >> 11
	rg.s3 = ((rg.s3 & 0xFFFFFFF0) << 17) ^ b
	return rg.s1 ^ rg.s2 ^ rg.s3
}

// Uniform returns a value in the open interval (0, 1).
func (rg *RandomGenerator) Uniform() float64 {
	const wordToDouble = 1.0 / (1.0 + float64(0xFFFFFFFF))
	return wordToDouble * (0.5 + float64(rg.Word()))
}

// Integer returns a value in [0, n).
func (rg *RandomGenerator) Integer(n uint32) uint32 {
	return uint32(float64(n) * rg.Uniform())
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// RandomDataSource draws symbols in [0, Symbols()) from a fixed distribution.
type RandomDataSource struct {
	*RandomGenerator
	ent  float64
	prob []float64

	symbols  uint32
	dist     []uint32
	lowBound [257]uint32
}

func NewRandomDataSource(seed uint32) *RandomDataSource {
	return &RandomDataSource{RandomGenerator: NewRandomGenerator(seed)}
}

// Entropy returns the entropy of the current distribution in bits/symbol.
func (rds *RandomDataSource) Entropy() float64 {
	return rds.ent
}

func (rds *RandomDataSource) Symbols() uint32 {
	return rds.symbols
}

func (rds *RandomDataSource) Probability() []float64 {
	return append([]float64(nil), rds.prob...)
}

func checkSymbols(dim uint32) error {
	if dim == 0 {
		return errors.Wrap(ErrInvalidDistribution, "empty alphabet")
	}
	if dim > MaxSymbols {
		return errors.Wrapf(ErrInvalidDistribution, "%d symbols (at most %d)", dim, MaxSymbols)
	}
	return nil
}

func (rds *RandomDataSource) assignMemory(dim uint32) {
	if rds.symbols == dim {
		return
	}
	rds.symbols = dim
	rds.prob = make([]float64, dim)
	rds.dist = make([]uint32, dim)
}

// SetUniform gives every one of dim symbols the same probability.
func (rds *RandomDataSource) SetUniform(dim uint32) (float64, error) {
	if err := checkSymbols(dim); err != nil {
		return 0, err
	}
	p := make([]float64, dim)
	for n := range p {
		p[n] = 1.0 / float64(dim)
	}
	return rds.SetDistribution(p)
}

// SetDistribution installs probability and returns its entropy.
func (rds *RandomDataSource) SetDistribution(probability []float64) (float64, error) {
	if len(probability) > MaxSymbols {
		return 0, errors.Wrapf(ErrInvalidDistribution, "%d symbols (at most %d)", len(probability), MaxSymbols)
	}
	if err := checkSymbols(uint32(len(probability))); err != nil {
		return 0, err
	}
	rds.assignMemory(uint32(len(probability)))

	const doubleToWord float64 = 1.0 + float64(0xFFFFFFFF)

	var sum float64
	var s uint32
	rds.ent = 0
	rds.lowBound[0] = 0

	for n := uint32(0); n < rds.symbols; n++ {
		p := probability[n]
		if p < MinProbability {
			return 0, errors.Wrapf(ErrInvalidDistribution, "probability %g of symbol %d", p, n)
		}
		rds.prob[n] = p
		rds.dist[n] = uint32(0.49 + doubleToWord*sum)
		w := rds.dist[n] >> 24
		for s < w {
			s++
			rds.lowBound[s] = n - 1
		}
		sum += p
		rds.ent -= p * math.Log(p)
	}

	for s < 256 {
		s++
		rds.lowBound[s] = rds.symbols - 1
	}

	if math.Abs(1.0-sum) > 1e-4 {
		return 0, errors.Wrapf(ErrInvalidDistribution, "probabilities sum to %g", sum)
	}
	rds.ent /= math.Log(2.0)
	return rds.ent, nil
}

// setTG fills prob with a truncated geometric distribution of parameter a
// and returns its entropy.
func (rds *RandomDataSource) setTG(a float64) float64 {
	var s, r, e, m float64 = 0, 0, 0, float64(rds.symbols)

	if a > 1e-4 {
		s = (1.0 - math.Exp(-a)) / (1.0 - math.Exp(-a*m))
	} else {
		s = (2.0 - a) / (m * (2.0 - a*m))
	}

	for n := int(rds.symbols - 1); n >= 0; n-- {
		var p float64
		if a*float64(n) <= 30.0 {
			p = s * math.Exp(-a*float64(n))
		}

		if p < MinProbability {
			r += MinProbability - p
			p = MinProbability
		} else if r > 0 {
			if r <= p-MinProbability {
				p -= r
				r = 0
			} else {
				r -= p - MinProbability
				p = MinProbability
			}
		}
		rds.prob[n] = p
		e -= p * math.Log(p)
	}

	return e / math.Log(2.0)
}

// SetTruncatedGeometric installs a skewed distribution over dim symbols with
// the requested entropy.
func (rds *RandomDataSource) SetTruncatedGeometric(dim uint32, entropy float64) (float64, error) {
	if dim < 2 {
		return 0, errors.Wrapf(ErrInvalidDistribution, "%d symbols", dim)
	}
	if err := checkSymbols(dim); err != nil {
		return 0, err
	}
	rds.assignMemory(dim)

	maxEntropy := math.Log2(float64(dim))
	mgrProb := float64(dim-1) * MinProbability
	minEntropy := ((mgrProb-1.0)*math.Log(1.0-mgrProb) - mgrProb*math.Log(MinProbability)) * 1.2 / math.Log(2.0)

	if entropy <= minEntropy || entropy > maxEntropy {
		return 0, errors.Wrapf(ErrInvalidDistribution, "entropy %g outside (%g, %g]", entropy, minEntropy, maxEntropy)
	}

	zf := newZeroFinder(0, 2)
	a, err := zf.SetNewResult(maxEntropy - entropy)
	if err != nil {
		return 0, err
	}

	for itr := 0; itr < 20; itr++ {
		ne := rds.setTG(a) - entropy
		if math.Abs(ne) < 1e-5 {
			break
		}
		if a, err = zf.SetNewResult(ne); err != nil {
			return 0, err
		}
	}

	if _, err = rds.SetDistribution(rds.prob); err != nil {
		return 0, err
	}
	if math.Abs(rds.ent-entropy) > 1e-4 {
		return 0, errors.Wrapf(ErrInvalidDistribution, "cannot reach entropy %g (got %g)", entropy, rds.ent)
	}
	return rds.ent, nil
}

// ShuffleProbabilities permutes the probabilities among the symbols.
func (rds *RandomDataSource) ShuffleProbabilities() error {
	for n := rds.symbols - 1; n > 0; n-- {
		m := rds.Integer(n + 1)
		if m == n {
			continue
		}
		rds.prob[m], rds.prob[n] = rds.prob[n], rds.prob[m]
	}
	_, err := rds.SetDistribution(rds.prob)
	return err
}

// Data draws one symbol.
func (rds *RandomDataSource) Data() uint32 {
	v := rds.Word()
	w := v >> 24
	u, n := rds.lowBound[w], rds.lowBound[w+1]+1
	for n > u+1 {
		m := (u + n) >> 1
		if rds.dist[m] < v {
			u = m
		} else {
			n = m
		}
	}
	return u
}

// Fill overwrites buf with fresh symbols.
func (rds *RandomDataSource) Fill(buf []uint32) {
	for k := range buf {
		buf[k] = rds.Data()
	}
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// zeroFinder searches the root of a monotone function from successive
// evaluations, bracketing first and then interpolating.
type zeroFinder struct {
	phase, iter int

	x0, y0, x1, y1, x2, y2, x float64
}

func newZeroFinder(firstX, secondX float64) *zeroFinder {
	return &zeroFinder{x0: firstX, x1: secondX}
}

func (zf *zeroFinder) SetNewResult(y float64) (float64, error) {
	zf.iter++
	if zf.iter > 30 {
		return 0, errors.Wrap(ErrInvalidDistribution, "cannot find solution")
	}

	if zf.phase >= 2 {
		if y*zf.y0 <= 0 {
			if zf.phase == 2 || math.Abs(zf.y1) < math.Abs(zf.y2) {
				zf.x2, zf.y2 = zf.x1, zf.y1
			}
			zf.x1, zf.y1 = zf.x, y
		} else {
			if zf.phase == 2 || math.Abs(zf.y0) < math.Abs(zf.y2) {
				zf.x2, zf.y2 = zf.x0, zf.y0
			}
			zf.x0, zf.y0 = zf.x, y
		}

		if math.Abs(zf.y0) < math.Abs(zf.y1) {
			r, c := zf.y0/zf.y2, zf.x2-zf.x0
			s, d := zf.y0/zf.y1, zf.x1-zf.x0
			zf.x = zf.x0 - (c*d*(s-r))/(c*(1.0-s)-d*(1.0-r))
		} else {
			r, c := zf.y1/zf.y2, zf.x2-zf.x1
			s, d := zf.y1/zf.y0, zf.x0-zf.x1
			zf.x = zf.x1 - (c*d*(s-r))/(c*(1.0-s)-d*(1.0-r))
		}
		zf.phase = 3
		return zf.x, nil
	}

	if zf.iter > 8 {
		return 0, errors.Wrap(ErrInvalidDistribution, "too many initial tests")
	}

	if zf.phase == 1 {
		if y*zf.y0 <= 0 {
			zf.y1 = y
			zf.phase = 2
			if math.Abs(zf.y0) < math.Abs(zf.y1) {
				s := zf.y0 / zf.y1
				zf.x = zf.x0 - ((zf.x1-zf.x0)*s)/(1.0-s)
			} else {
				s := zf.y1 / zf.y0
				zf.x = zf.x1 - ((zf.x0-zf.x1)*s)/(1.0-s)
			}
		} else {
			zf.x += zf.x1 - zf.x0
			zf.x0 = zf.x1
			zf.y0 = y
			zf.x1 = zf.x
		}
		return zf.x, nil
	}
	zf.y0 = y
	zf.phase = 1

	zf.x = zf.x1
	return zf.x, nil
}
