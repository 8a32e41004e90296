package main

import (
	"os"

	"github.com/smira/commander"
	"github.com/smira/flag"

	batchac "github.com/amaanq/BatchAC-go"
)

// RootCommand creates root command in command tree
func RootCommand() *commander.Command {
	cmd := &commander.Command{
		UsageLine: os.Args[0],
		Short:     "fixed-length batch arithmetic coder",
		Long: `
batchac codes a whole text into one fixed-point binary fraction using
an arithmetic coder over the empirical model of the text, and decodes
it back given the same model.

The number of fractional bits must be agreed by both sides; it is not
part of the bit string.`,
		Flag: *flag.NewFlagSet("batchac", flag.ExitOnError),
		Subcommands: []*commander.Command{
			makeCmdEncode(),
			makeCmdDecode(),
			makeCmdBound(),
			makeCmdVersion(),
		},
	}

	cmd.Flag.String("config", "", "location of configuration file (json or yaml)")
	cmd.Flag.Int("bits", batchac.DefaultBits, "number of fractional bits of the codeword")
	cmd.Flag.String("log-level", "info", "log level: debug, info, warn, error")
	cmd.Flag.String("log-format", "default", "log format: default or json")
	return cmd
}
