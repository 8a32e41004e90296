package batchac

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

const (
	MinBits     = 1
	MaxBits     = 62
	DefaultBits = 25 // UQ0.25
)

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// - - UQ0.B conversions - - - - - - - - - - - - - - - - - - - - - - - - - - -

func checkBits(bits int) error {
	if bits < MinBits || bits > MaxBits {
		return errors.Wrapf(ErrInvalidBitWidth, "%d bits (must be in [%d..%d])", bits, MinBits, MaxBits)
	}
	return nil
}

// Quantize returns floor(codeword * 2^bits). The codeword must lie in [0, 1).
func Quantize(codeword float64, bits int) (uint64, error) {
	if err := checkBits(bits); err != nil {
		return 0, err
	}
	if !(codeword >= 0 && codeword < 1) {
		return 0, errors.Wrapf(ErrInvalidInput, "codeword %v outside [0, 1)", codeword)
	}
	return uint64(math.Floor(math.Ldexp(codeword, bits))), nil
}

// Dequantize returns fixed / 2^bits.
func Dequantize(fixed uint64, bits int) (float64, error) {
	if err := checkBits(bits); err != nil {
		return 0, err
	}
	if fixed>>uint(bits) != 0 {
		return 0, errors.Wrapf(ErrInvalidBits, "value %#x wider than %d bits", fixed, bits)
	}
	return math.Ldexp(float64(fixed), -bits), nil
}

// FormatBits renders fixed as exactly bits binary digits, most significant
// first, left-padded with zeros.
func FormatBits(fixed uint64, bits int) string {
	var sb strings.Builder
	sb.Grow(bits)
	for i := bits - 1; i >= 0; i-- {
		if fixed>>uint(i)&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// ParseBits reads the digits after the binary point of a UQ0.bits fraction.
// A "0b" prefix is accepted. A string shorter than bits is zero-padded on
// the right, since the missing digits are the least significant ones;
// leading zeros are never implied.
func ParseBits(s string, bits int) (uint64, error) {
	if err := checkBits(bits); err != nil {
		return 0, err
	}

	digits := strings.TrimPrefix(s, "0b")
	if len(digits) > bits {
		return 0, errors.Wrapf(ErrInvalidBits, "%d digits for a %d-bit fraction", len(digits), bits)
	}

	var fixed uint64
	for i := 0; i < len(digits); i++ {
		fixed <<= 1
		switch digits[i] {
		case '0':
		case '1':
			fixed |= 1
		default:
			return 0, errors.Wrapf(ErrInvalidBits, "unexpected %q at offset %d", digits[i], i)
		}
	}
	return fixed << uint(bits-len(digits)), nil
}

// SignificantBits returns the number of digits up to and including the last
// '1', i.e. the bits actually needed to carry the codeword.
func SignificantBits(s string) int {
	return strings.LastIndexByte(strings.TrimPrefix(s, "0b"), '1') + 1
}

// - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -
// - - Precision bounds  - - - - - - - - - - - - - - - - - - - - - - - - - - -

// TheoreticalBound returns the worst-case significant bits for a sequence of
// length n: every symbol unique, so each narrows the interval by 1/n, plus
// one bit for the midpoint.
func TheoreticalBound(n int) int {
	if n < 2 {
		return 1
	}
	return int(1 + float64(n)*math.Log2(float64(n)))
}

// RequiredBits returns the smallest width that keeps the quantized midpoint
// of interval inside it.
func RequiredBits(interval Interval) int {
	width := interval.Width()
	if width <= 0 {
		return math.MaxInt
	}
	return 1 + int(math.Ceil(-math.Log2(width)))
}
