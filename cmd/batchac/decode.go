package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/smira/commander"
	"github.com/smira/flag"

	batchac "github.com/amaanq/BatchAC-go"
)

func batchacDecode(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	path := context.flags.Lookup("model").Value.String()
	if path == "" {
		return errors.New("model file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "unable to read model from %s", path)
	}

	model, err := batchac.UnmarshalModel[rune](data)
	if err != nil {
		return err
	}

	length := context.flags.Lookup("length").Value.Get().(int)
	if length == 0 {
		length = model.Length()
	}

	codec, err := newCodec(false)
	if err != nil {
		return err
	}

	text, err := codec.Decode(args[0], length, model)
	if err != nil {
		return errors.Wrap(err, "unable to decode")
	}

	fmt.Fprintln(stdout(), string(text))
	return nil
}

func makeCmdDecode() *commander.Command {
	cmd := &commander.Command{
		Run:       batchacDecode,
		UsageLine: "decode <bits>",
		Short:     "decode a fixed-point codeword back into text",
		Long: `
Decodes the binary digits printed by encode with the model written by
encode. Missing trailing digits are read as zeros. The length defaults
to the length recorded in the model.

ex:
  $ batchac decode -model text.model 100001110010111
`,
		Flag: *flag.NewFlagSet("batchac-decode", flag.ExitOnError),
	}

	cmd.Flag.String("model", "", "msgpack model file written by encode")
	cmd.Flag.Int("length", 0, "number of symbols to decode (0 = from model)")
	return cmd
}
