package main

import (
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/smira/flag"

	batchac "github.com/amaanq/BatchAC-go"
	"github.com/amaanq/BatchAC-go/internal/config"
	"github.com/amaanq/BatchAC-go/internal/logging"
)

// Common context shared by all commands
var context struct {
	flags  *flag.FlagSet
	stdout io.Writer
	stderr io.Writer
}

func stdout() io.Writer {
	if context.stdout == nil {
		return os.Stdout
	}
	return context.stdout
}

func stderr() io.Writer {
	if context.stderr == nil {
		return os.Stderr
	}
	return context.stderr
}

// InitContext loads the configuration file, applies the global flags over
// it and sets up logging.
func InitContext(flags *flag.FlagSet) error {
	config.Config = config.Default()

	if path := flags.Lookup("config").Value.String(); path != "" {
		if err := config.LoadConfig(path, &config.Config); err != nil {
			return err
		}
	}

	if flags.IsSet("bits") {
		config.Config.Bits = flags.Lookup("bits").Value.Get().(int)
	}
	if flags.IsSet("log-level") {
		config.Config.LogLevel = flags.Lookup("log-level").Value.String()
	}
	if flags.IsSet("log-format") {
		config.Config.LogFormat = flags.Lookup("log-format").Value.String()
	}

	logging.Setup(config.Config.LogFormat, config.Config.LogLevel, stderr())
	return nil
}

// newCodec returns a rune codec for the active configuration.
func newCodec(trim bool) (*batchac.Codec[rune], error) {
	return batchac.NewCodec[rune](
		batchac.WithBits(config.Config.Bits),
		batchac.WithTrimTrailingZeros(trim || config.Config.TrimTrailingZeros),
		batchac.WithLogger(log.Logger),
	)
}
