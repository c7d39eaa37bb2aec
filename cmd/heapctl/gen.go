package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	genSeed    int64
	genOps     int
	genMaxSize int
	genRealloc float64
	genOut     string
)

func init() {
	cmd := newGenCmd()
	d := trace.DefaultGenOptions
	cmd.Flags().Int64Var(&genSeed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&genOps, "ops", d.Ops, "Number of operations")
	cmd.Flags().IntVar(&genMaxSize, "max-size", d.MaxSize, "Largest typical request in bytes")
	cmd.Flags().Float64Var(&genRealloc, "realloc", d.ReallocRate, "Share of operations on live ids that resize")
	cmd.Flags().StringVarP(&genOut, "out", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gen",
		Short: "Write a random trace",
		Long: `The gen command writes a random but valid trace: every id is
allocated before it is resized or freed, and every id is freed at the end.
The same seed always produces the same trace.

Example:
  heapctl gen --seed 7 --ops 5000 -o random7.rep`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
}

func runGen() error {
	opts := trace.DefaultGenOptions
	opts.Ops = genOps
	opts.MaxSize = genMaxSize
	opts.ReallocRate = genRealloc
	tr := trace.Generate(genSeed, opts)

	if genOut == "" {
		return trace.Write(stdout, tr)
	}

	f, err := os.Create(genOut)
	if err != nil {
		return err
	}
	if err := trace.Write(f, tr); err != nil {
		f.Close()
		return err
	}
	printVerbose("Wrote %d ops for %d ids to %s\n", len(tr.Ops), tr.NumIDs, genOut)
	return f.Close()
}
