package batchac

import "github.com/rs/zerolog"

// Config holds the coder-wide parameters. Encoder and decoder must agree on
// Bits out of band; the bit string does not carry it.
type Config struct {
	Bits              int  // fractional bits of the UQ0.B codeword (0 = DefaultBits)
	TrimTrailingZeros bool // emit only the significant bits
	Logger            zerolog.Logger
}

// Option is a functional option for configuring the codec.
type Option func(*Config)

// WithBits sets the fixed-point width.
func WithBits(bits int) Option {
	return func(c *Config) {
		c.Bits = bits
	}
}

// WithTrimTrailingZeros makes Encode drop the trailing zero digits. Decode
// restores them by right-padding to the configured width.
func WithTrimTrailingZeros(trim bool) Option {
	return func(c *Config) {
		c.TrimTrailingZeros = trim
	}
}

// WithLogger sets the logger used for debug tracing. The default discards.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
