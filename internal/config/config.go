// Package config loads the command line tool configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DisposaBoy/JsonConfigReader"
	yaml "gopkg.in/yaml.v3"

	batchac "github.com/amaanq/BatchAC-go"
	"github.com/amaanq/BatchAC-go/bound"
)

// Structure is the configuration file layout.
type Structure struct {
	Bits              int    `json:"bits"              yaml:"bits"`
	TrimTrailingZeros bool   `json:"trimTrailingZeros" yaml:"trim_trailing_zeros"`
	LogLevel          string `json:"logLevel"          yaml:"log_level"`
	LogFormat         string `json:"logFormat"         yaml:"log_format"`

	Bound BoundConfig `json:"bound" yaml:"bound"`
}

// BoundConfig holds the defaults of the bound command.
type BoundConfig struct {
	Length      int     `json:"length"      yaml:"length"`
	Alphabet    uint32  `json:"alphabet"    yaml:"alphabet"`
	Simulations int     `json:"simulations" yaml:"simulations"`
	Entropy     float64 `json:"entropy"     yaml:"entropy"`
	Workers     int     `json:"workers"     yaml:"workers"`
	Seed        uint32  `json:"seed"        yaml:"seed"`
}

// Config is the active configuration.
var Config = Default()

// Default returns the built-in configuration.
func Default() Structure {
	return Structure{
		Bits:      batchac.DefaultBits,
		LogLevel:  "info",
		LogFormat: "default",
		Bound: BoundConfig{
			Length:      bound.DefaultLength,
			Alphabet:    bound.DefaultAlphabet,
			Simulations: bound.DefaultSimulations,
			Seed:        bound.DefaultSeed,
		},
	}
}

// LoadConfig loads configuration from a json (comments allowed) or yaml
// file over the values already in config.
func LoadConfig(filename string, config *Structure) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	decJSON := json.NewDecoder(JsonConfigReader.New(f))
	if err = decJSON.Decode(config); err != nil {
		_, _ = f.Seek(0, 0)
		decYAML := yaml.NewDecoder(f)
		if err2 := decYAML.Decode(config); err2 != nil {
			err = fmt.Errorf("invalid yaml (%s) or json (%s)", err2, err)
		} else {
			err = nil
		}
	}
	return err
}
