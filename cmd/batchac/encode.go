package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/smira/commander"
	"github.com/smira/flag"

	batchac "github.com/amaanq/BatchAC-go"
)

func batchacEncode(cmd *commander.Command, args []string) error {
	if len(args) != 1 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	codec, err := newCodec(context.flags.Lookup("trim").Value.Get().(bool))
	if err != nil {
		return err
	}

	text := []rune(args[0])
	model, bits, err := codec.EncodeVerified(text)
	if err != nil {
		return errors.Wrap(err, "unable to encode")
	}

	if path := context.flags.Lookup("model").Value.String(); path != "" {
		data, err := batchac.MarshalModel(model)
		if err != nil {
			return err
		}
		if err = os.WriteFile(path, data, 0644); err != nil {
			return errors.Wrapf(err, "unable to write model to %s", path)
		}
		log.Info().Str("path", path).Int("symbols", model.Len()).Msg("model written")
	}

	fmt.Fprintf(stdout(), "bits: %s\n", bits)
	fmt.Fprintf(stdout(), "length: %d\n", len(text))
	fmt.Fprintf(stdout(), "significant bits: %d of %d\n", batchac.SignificantBits(bits), codec.Bits())
	fmt.Fprintf(stdout(), "entropy: %.5f bits/symbol\n", model.Entropy())
	return nil
}

func makeCmdEncode() *commander.Command {
	cmd := &commander.Command{
		Run:       batchacEncode,
		UsageLine: "encode <text>",
		Short:     "encode text into a fixed-point codeword",
		Long: `
Builds the model of the text, codes the text into one UQ0.B fraction and
prints its binary digits. The encoding is verified by decoding it; the
command fails when the configured number of bits cannot carry the text.

ex:
  $ batchac encode -model text.model DACDDBCD
`,
		Flag: *flag.NewFlagSet("batchac-encode", flag.ExitOnError),
	}

	cmd.Flag.String("model", "", "write the msgpack model to this file")
	cmd.Flag.Bool("trim", false, "omit trailing zero bits")
	return cmd
}
