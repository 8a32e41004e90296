// Package batchac implements a fixed-length batch arithmetic coder.
//
// A whole sequence is coded into a single fractional codeword: the empirical
// model of the sequence partitions [0, 1), every symbol narrows the interval
// to its bucket, and the midpoint of the final interval is quantized to an
// unsigned UQ0.B fixed-point fraction. Decoding walks the same partition
// with the dequantized value. There is no renormalization, so B bounds the
// sequences the coder can carry; see TheoreticalBound.
package batchac

import (
	"cmp"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Interval is the working range of the encoder.
type Interval struct {
	Lower, Upper float64
}

// Width returns Upper - Lower.
func (i Interval) Width() float64 {
	return i.Upper - i.Lower
}

// Midpoint returns the codeword of the interval.
func (i Interval) Midpoint() float64 {
	return (i.Lower + i.Upper) / 2
}

// Codec encodes and decodes sequences of S with a fixed bit width. It holds
// no per-call state and may be used from several goroutines.
type Codec[S cmp.Ordered] struct {
	bits   int
	trim   bool
	logger zerolog.Logger
}

// NewCodec creates a codec with the given options.
func NewCodec[S cmp.Ordered](opts ...Option) (*Codec[S], error) {
	cfg := Config{Bits: DefaultBits, Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Bits == 0 {
		cfg.Bits = DefaultBits
	}
	if err := checkBits(cfg.Bits); err != nil {
		return nil, err
	}

	return &Codec[S]{
		bits:   cfg.Bits,
		trim:   cfg.TrimTrailingZeros,
		logger: cfg.Logger,
	}, nil
}

// Bits returns the fixed-point width.
func (c *Codec[S]) Bits() int {
	return c.bits
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// - - Encoder - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// Narrow returns the interval left after zooming into the bucket of every
// symbol of seq in turn.
func (c *Codec[S]) Narrow(seq []S, model *Model[S]) (Interval, error) {
	if len(seq) == 0 {
		return Interval{}, errors.Wrap(ErrInvalidInput, "cannot encode empty sequence")
	}
	if model == nil || model.Len() == 0 {
		return Interval{}, errors.Wrap(ErrModelMismatch, "no model")
	}

	iv := Interval{Lower: 0, Upper: 1}
	for k, s := range seq {
		e, ok := model.Lookup(s)
		if !ok {
			return Interval{}, errors.Wrapf(ErrModelMismatch, "symbol %v at offset %d", s, k)
		}

		delta := iv.Width()
		// upper first: both bounds scale from the previous lower
		iv.Upper = iv.Lower + delta*e.CumulativeUpper
		iv.Lower = iv.Lower + delta*e.Lower()
	}
	return iv, nil
}

// Codeword returns the midpoint of the narrowed interval of seq.
func (c *Codec[S]) Codeword(seq []S, model *Model[S]) (float64, error) {
	iv, err := c.Narrow(seq, model)
	if err != nil {
		return 0, err
	}
	return iv.Midpoint(), nil
}

// EncodeWithModel codes seq against an existing model and returns the
// binary digits of the quantized codeword.
func (c *Codec[S]) EncodeWithModel(seq []S, model *Model[S]) (string, error) {
	iv, err := c.Narrow(seq, model)
	if err != nil {
		return "", err
	}

	codeword := iv.Midpoint()
	fixed, err := Quantize(codeword, c.bits)
	if err != nil {
		return "", err
	}

	bits := FormatBits(fixed, c.bits)
	if c.trim {
		bits = strings.TrimRight(bits, "0")
	}

	c.logger.Debug().
		Int("length", len(seq)).
		Int("alphabet", model.Len()).
		Float64("codeword", codeword).
		Int("required", RequiredBits(iv)).
		Str("bits", bits).
		Msg("encoded sequence")
	return bits, nil
}

// Encode builds the model of seq and codes seq with it. The model must reach
// the decoder together with the bits.
func (c *Codec[S]) Encode(seq []S) (*Model[S], string, error) {
	model, err := BuildModel(seq)
	if err != nil {
		return nil, "", err
	}

	bits, err := c.EncodeWithModel(seq, model)
	if err != nil {
		return nil, "", err
	}
	return model, bits, nil
}

// EncodeVerified is Encode followed by a decode of the result. It returns
// ErrPrecisionExceeded when the bit width cannot carry seq.
func (c *Codec[S]) EncodeVerified(seq []S) (*Model[S], string, error) {
	model, bits, err := c.Encode(seq)
	if err != nil {
		return nil, "", err
	}

	decoded, err := c.Decode(bits, len(seq), model)
	if err != nil {
		return nil, "", err
	}
	if k := mismatch(seq, decoded); k >= 0 {
		return nil, "", errors.Wrapf(ErrPrecisionExceeded,
			"%d bits: symbol %d decoded as %v, want %v", c.bits, k, decoded[k], seq[k])
	}
	return model, bits, nil
}

func mismatch[S cmp.Ordered](want, got []S) int {
	for k := range want {
		if k >= len(got) || want[k] != got[k] {
			return k
		}
	}
	return -1
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// - - Decoder - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -

// Decode recovers length symbols from the bit string produced by Encode.
// The string may omit trailing zeros; see ParseBits.
func (c *Codec[S]) Decode(bits string, length int, model *Model[S]) ([]S, error) {
	fixed, err := ParseBits(bits, c.bits)
	if err != nil {
		return nil, err
	}
	return c.DecodeValue(fixed, length, model)
}

// DecodeValue recovers length symbols from a quantized codeword.
func (c *Codec[S]) DecodeValue(fixed uint64, length int, model *Model[S]) ([]S, error) {
	if length < 1 {
		return nil, errors.Wrapf(ErrInvalidInput, "cannot decode %d symbols", length)
	}
	if model == nil || model.Len() == 0 {
		return nil, errors.Wrap(ErrModelMismatch, "no model")
	}

	value, err := Dequantize(fixed, c.bits)
	if err != nil {
		return nil, err
	}

	seq := make([]S, 0, length)
	for len(seq) < length {
		k := bucket(model.entries, value)
		if k < 0 {
			return nil, errors.Wrapf(ErrPrecisionExceeded,
				"%d bits: value %v past the last bucket at symbol %d", c.bits, value, len(seq))
		}

		e := model.entries[k]
		seq = append(seq, e.Symbol)
		value = (value - e.Lower()) / e.Probability
	}

	c.logger.Debug().
		Int("length", length).
		Int("alphabet", model.Len()).
		Uint64("fixed", fixed).
		Msg("decoded sequence")
	return seq, nil
}

// bucket returns the first entry whose upper bound lies strictly above
// value, or -1. Upper bounds never decrease, so the first match is found by
// binary search.
func bucket[S cmp.Ordered](entries []Entry[S], value float64) int {
	k, _ := slices.BinarySearchFunc(entries, value, func(e Entry[S], v float64) int {
		if e.CumulativeUpper > v {
			return 1
		}
		return -1
	})
	if k == len(entries) {
		return -1
	}
	return k
}
