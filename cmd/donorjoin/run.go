package main

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"pkg.jsn.cam/donorjoin/pkg/donorjoin"
)

type runOptions struct {
	donorsPath    string
	donationsPath string
	chunkSize     int
	workers       int
	taskTimeout   time.Duration
	format        string
	progress      bool
	columns       donorjoin.Columns
}

func newRunCmd() *cobra.Command {
	opts := runOptions{columns: donorjoin.DefaultColumns()}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Join donors with donations and print totals per state",
		Long: `Join donors with donations and print totals per state.

The donors CSV is split into chunks of --chunk-size donors. Every chunk is
joined against a full scan of the donations CSV, so the donations file is
read once per chunk. Raise --chunk-size to trade memory for fewer scans.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.donorsPath, "donors", "d", "", "path to csv file with donors")
	flags.StringVarP(&opts.donationsPath, "donations", "n", "", "path to csv file with donations")
	flags.IntVar(&opts.chunkSize, "chunk-size", donorjoin.DefaultChunkSize, "donors per map task")
	flags.IntVar(&opts.workers, "workers", runtime.NumCPU(), "maximum concurrent map tasks")
	flags.DurationVar(&opts.taskTimeout, "task-timeout", 0, "per map task timeout (0 disables)")
	flags.StringVar(&opts.format, "format", "table", "output format (table, json)")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar on stderr")
	flags.StringVar(&opts.columns.DonorID, "donor-id-column", opts.columns.DonorID, "donor id column in the donors file")
	flags.StringVar(&opts.columns.DonorState, "state-column", opts.columns.DonorState, "state column in the donors file")
	flags.StringVar(&opts.columns.DonationDonorID, "donation-donor-id-column", opts.columns.DonationDonorID, "donor id column in the donations file")
	flags.StringVar(&opts.columns.DonationAmount, "amount-column", opts.columns.DonationAmount, "amount column in the donations file")

	_ = cmd.MarkFlagRequired("donors")
	_ = cmd.MarkFlagRequired("donations")

	return cmd
}

func runJoin(cmd *cobra.Command, opts runOptions) error {
	render, err := rendererFor(opts.format)
	if err != nil {
		return err
	}

	cfg := donorjoin.Config{
		ChunkSize:   opts.chunkSize,
		MaxWorkers:  opts.workers,
		TaskTimeout: opts.taskTimeout,
		Columns:     opts.columns,
		Logger:      logrus.StandardLogger(),
	}

	var bar *progressbar.ProgressBar
	if opts.progress {
		bar = newProgressBar(cmd.ErrOrStderr())
		cfg.OnProgress = func(p donorjoin.Progress) {
			bar.Describe(fmt.Sprintf("map tasks (%d dispatched)", p.Dispatched))
			_ = bar.Set(p.Completed)
		}
	}

	engine, err := donorjoin.New(cfg)
	if err != nil {
		return err
	}

	donors := donorjoin.FileSource{Path: opts.donorsPath}
	donations := donorjoin.FileSource{Path: opts.donationsPath}

	result, err := engine.Run(cmd.Context(), donors, donations)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return err
	}

	logSummary(result.Stats, donations.Size())

	return render(cmd.OutOrStdout(), result.Totals)
}

func newProgressBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("map tasks"),
		progressbar.OptionShowCount(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

func logSummary(stats donorjoin.Stats, donationsSize int64) {
	fields := logrus.Fields{
		"run":      stats.RunID,
		"donors":   humanize.Comma(stats.DonorsRead),
		"chunks":   humanize.Comma(int64(stats.Chunks)),
		"scanned":  humanize.Comma(stats.DonationLinesScanned),
		"matched":  humanize.Comma(stats.DonationsMatched),
		"skipped":  humanize.Comma(stats.DonationsSkipped),
		"duration": stats.Duration.Round(time.Millisecond),
	}
	if donationsSize > 0 {
		fields["donations_read"] = humanize.Bytes(uint64(donationsSize) * uint64(stats.Chunks))
	}

	logrus.WithFields(fields).Info("Join summary")
}
