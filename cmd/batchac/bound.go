package main

import (
	gocontext "context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/rs/zerolog/log"
	"github.com/smira/commander"
	"github.com/smira/flag"
	"golang.org/x/term"

	batchac "github.com/amaanq/BatchAC-go"
	"github.com/amaanq/BatchAC-go/bound"
	"github.com/amaanq/BatchAC-go/internal/config"
)

const histogramWidth = 50

func batchacBound(cmd *commander.Command, args []string) error {
	if len(args) != 0 {
		cmd.Usage()
		return commander.ErrCommandError
	}

	cfg := config.Config.Bound
	flags := context.flags

	sim := bound.NewSimulator()
	sim.Length = cfg.Length
	sim.Alphabet = cfg.Alphabet
	sim.Simulations = cfg.Simulations
	sim.Entropy = cfg.Entropy
	sim.Workers = cfg.Workers
	sim.Seed = cfg.Seed
	sim.Logger = log.Logger

	if flags.IsSet("length") {
		sim.Length = flags.Lookup("length").Value.Get().(int)
	}
	if flags.IsSet("alphabet") {
		sim.Alphabet = uint32(flags.Lookup("alphabet").Value.Get().(int))
	}
	if flags.IsSet("sims") {
		sim.Simulations = flags.Lookup("sims").Value.Get().(int)
	}
	if flags.IsSet("entropy") {
		sim.Entropy = flags.Lookup("entropy").Value.Get().(float64)
	}
	if flags.IsSet("workers") {
		sim.Workers = flags.Lookup("workers").Value.Get().(int)
	}
	if flags.IsSet("seed") {
		sim.Seed = uint32(flags.Lookup("seed").Value.Get().(int))
	}
	// an explicit width, from the flag or the config file, turns on verification
	if flags.IsSet("bits") || config.Config.Bits != batchac.DefaultBits {
		sim.Bits = config.Config.Bits
		sim.Verify = true
	}

	if onTerminal(os.Stderr) {
		bar := pb.New(sim.Simulations)
		bar.Output = stderr()
		bar.Start()
		defer bar.Finish()
		sim.Progress = func() { bar.Increment() }
	}

	ctx, stop := signal.NotifyContext(gocontext.Background(), os.Interrupt)
	defer stop()

	res, err := sim.Run(ctx)
	if err != nil {
		return err
	}

	printBound(res)
	return nil
}

// onTerminal reports whether the progress bar written to f would reach a
// terminal.
func onTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func printBound(res *bound.Result) {
	out := stdout()

	fmt.Fprintf(out, "Uncoded data length: %d bits\n", 8*res.Length)
	fmt.Fprintf(out, "Source entropy: %.5f bits/symbol over %d symbols\n", res.Entropy, res.Alphabet)
	fmt.Fprintf(out, "Theoretical bound: %d bits\n", res.Theoretical)
	fmt.Fprintf(out, "Empirical bound: %d bits\n", res.Max)
	fmt.Fprintf(out, "Expected number of bits: %.3f bits\n", res.Mean)
	if res.Failures > 0 {
		fmt.Fprintf(out, "Round trips lost with %d bits: %d of %d\n", res.Bits, res.Failures, res.Simulations)
	}
	fmt.Fprintf(out, "Completed %d simulations in %5.2f seconds\n\n", res.Simulations, res.Elapsed.Seconds())

	peak := 0
	for _, n := range res.Histogram {
		peak = max(peak, n)
	}
	for b := res.Min; b >= 0 && b <= res.Max; b++ {
		n := res.Histogram[b]
		fmt.Fprintf(out, "%3d | %-*s %.4f\n", b, histogramWidth,
			strings.Repeat("#", n*histogramWidth/peak), float64(n)/float64(res.Simulations))
	}
}

func makeCmdBound() *commander.Command {
	cmd := &commander.Command{
		Run:       batchacBound,
		UsageLine: "bound",
		Short:     "estimate the worst-case number of codeword bits",
		Long: `
Encodes random sequences and reports the largest and the mean number of
significant codeword bits, next to the theoretical worst case 1 + N*log2(N).
When -bits is given, or the configuration file sets a width other than the
default, every codeword is also decoded and lost round trips are counted.

ex:
  $ batchac bound -length 16 -alphabet 96 -sims 1000000
`,
		Flag: *flag.NewFlagSet("batchac-bound", flag.ExitOnError),
	}

	cmd.Flag.Int("length", bound.DefaultLength, "symbols per sequence")
	cmd.Flag.Int("alphabet", bound.DefaultAlphabet, "number of distinct symbols of the source")
	cmd.Flag.Int("sims", bound.DefaultSimulations, "number of random sequences")
	cmd.Flag.Float64("entropy", 0, "source entropy in bits/symbol (0 = uniform)")
	cmd.Flag.Int("workers", 0, "number of parallel workers (0 = GOMAXPROCS)")
	cmd.Flag.Int("seed", bound.DefaultSeed, "random seed")
	return cmd
}
