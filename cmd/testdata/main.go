package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"pkg.jsn.cam/donorjoin/cmd/testdata/generator"
)

/* generates donors.csv / donations.csv pairs for the donor join */

func main() {
	var (
		opts   generator.Options
		count  int64
		output string
		seed   uint64
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:       "testdata {" + strings.Join(generator.List(), "|") + "}",
		Short:     "Generate synthetic donor join datasets",
		Args:      cobra.ExactArgs(1),
		ValidArgs: generator.List(),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := generator.Get(args[0], opts)
			if err != nil {
				return err
			}
			if count <= 0 {
				count = g.DefaultCount()
			}
			if output == "" {
				output = filepath.Join("var", args[0]+".csv")
			}

			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return err
			}
			file, err := os.Create(output)
			if err != nil {
				return err
			}
			defer file.Close()

			logrus.WithFields(logrus.Fields{
				"generator": args[0],
				"lines":     count,
				"output":    output,
			}).Info(g.Description())

			var onProgress func(int64)
			if !quiet {
				bar := progressbar.Default(count, "writing "+args[0])
				defer bar.Finish()
				onProgress = func(n int64) { _ = bar.Set64(n) }
			}

			r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			if err := generator.Write(file, g, r, count, onProgress); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			return file.Close()
		},
	}

	flags := cmd.Flags()
	flags.Int64Var(&count, "count", 0, "number of lines (default depends on generator)")
	flags.StringVarP(&output, "output", "o", "", "output csv path (default var/<generator>.csv)")
	flags.Uint64Var(&seed, "seed", 1, "random seed")
	flags.BoolVarP(&quiet, "quiet", "q", false, "disable the progress bar")
	flags.IntVar(&opts.DonorCount, "donor-count", 10000, "donors the donations may reference")
	flags.Float64Var(&opts.UnknownRate, "unknown-rate", 0.05, "share of donations referencing unknown donors")
	flags.Float64Var(&opts.BadAmountRate, "bad-amount-rate", 0.01, "share of donations with malformed amounts")

	if err := cmd.Execute(); err != nil {
		logrus.WithError(err).Error("testdata failed")
		os.Exit(1)
	}
}
