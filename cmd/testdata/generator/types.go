package generator

import (
	"io"
	"math/rand/v2"
)

// Generator produces one CSV dataset for the donor join
type Generator interface {
	// Init initializes the generator with a per-instance random source
	Init(r *rand.Rand)

	// Header returns the CSV header line without a trailing newline
	Header() string

	// WriteLine writes a single data line to the writer
	WriteLine(w io.Writer) error

	// Description returns a human-readable description of the data format
	Description() string

	// DefaultCount returns the suggested default number of lines to generate
	DefaultCount() int64
}
