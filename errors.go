package batchac

import "github.com/pkg/errors"

// Errors returned by the codec. Callers match them with errors.Is; the
// values returned by the package are wrapped with the failing context.
var (
	// ErrInvalidInput reports an empty sequence, a non-positive length or
	// non-positive symbol counts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrModelMismatch reports a symbol the model does not cover, or a
	// missing model.
	ErrModelMismatch = errors.New("model mismatch")

	// ErrPrecisionExceeded reports a bit width too small for the sequence:
	// the quantized codeword no longer decodes to the original symbols.
	ErrPrecisionExceeded = errors.New("precision exceeded")

	// ErrInvalidBits reports a malformed bit string.
	ErrInvalidBits = errors.New("invalid bit string")

	// ErrInvalidBitWidth reports a bit width outside [MinBits, MaxBits].
	ErrInvalidBitWidth = errors.New("invalid bit width")

	// ErrInvalidModel reports a transported model that cannot be rebuilt.
	ErrInvalidModel = errors.New("invalid model")
)
