package donorjoin

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultChunkSize is the donor count per chunk used by the CLI. The engine
// itself has no implicit chunk size.
const DefaultChunkSize = 100_000

// Columns names the header columns the join reads.
type Columns struct {
	DonorID         string
	DonorState      string
	DonationDonorID string
	DonationAmount  string
}

// DefaultColumns returns the column names of the public donors dataset.
func DefaultColumns() Columns {
	return Columns{
		DonorID:         "Donor ID",
		DonorState:      "Donor State",
		DonationDonorID: "Donor ID",
		DonationAmount:  "Donation Amount",
	}
}

// Config holds engine configuration
type Config struct {
	// ChunkSize is the maximum number of donors per map task. Each chunk
	// costs one full scan of the donation dataset.
	ChunkSize int

	// MaxWorkers bounds concurrently running map tasks. 0 means NumCPU.
	MaxWorkers int

	// TaskTimeout bounds a single map task. 0 disables the timeout.
	TaskTimeout time.Duration
	Columns     Columns
	Logger      logrus.FieldLogger
	OnProgress  func(Progress)
}

func (c Config) validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidChunkSize, c.ChunkSize)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.MaxWorkers)
	}

	return nil
}

func (c Config) workerLimit() int {
	if c.MaxWorkers == 0 {
		return runtime.NumCPU()
	}

	return c.MaxWorkers
}

func (c Config) columns() Columns {
	if c.Columns == (Columns{}) {
		return DefaultColumns()
	}

	return c.Columns
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}

	l := logrus.New()
	l.SetOutput(io.Discard)

	return l
}
