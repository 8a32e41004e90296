package main

import (
	"fmt"

	"github.com/smira/commander"
	"github.com/smira/flag"
)

func batchacVersion(cmd *commander.Command, args []string) error {
	fmt.Fprintf(stdout(), "batchac version: %s\n", Version)
	return nil
}

func makeCmdVersion() *commander.Command {
	return &commander.Command{
		Run:       batchacVersion,
		UsageLine: "version",
		Short:     "display version",
		Long: `
Shows batchac version.

ex:
  $ batchac version
`,
		Flag: *flag.NewFlagSet("batchac-version", flag.ExitOnError),
	}
}
