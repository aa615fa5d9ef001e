package donorjoin

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Separator is the field delimiter for both datasets. Quoting is not supported.
const Separator = ","

// DonorRecord is one parsed donor line.
type DonorRecord struct {
	ID    string
	State string
}

// DonationRecord is one parsed donation line.
type DonationRecord struct {
	DonorID string
	Amount  decimal.Decimal
}

// DonorChunk is a bounded slice of the donor dataset handed to exactly one
// map task. The partitioner never touches Donors after sending the chunk.
type DonorChunk struct {
	Seq    int
	Donors map[string]string // donor id -> state
}

// Len returns the number of donors in the chunk.
func (c DonorChunk) Len() int {
	return len(c.Donors)
}

// Aggregate maps a state to its summed donation amount.
type Aggregate map[string]decimal.Decimal

// Add accumulates amount into state.
func (a Aggregate) Add(state string, amount decimal.Decimal) {
	if cur, ok := a[state]; ok {
		a[state] = cur.Add(amount)
		return
	}
	a[state] = amount
}

// Merge folds other into a, summing amounts for states present in both.
func (a Aggregate) Merge(other Aggregate) {
	for state, amount := range other {
		a.Add(state, amount)
	}
}

// States returns the states in lexical order.
func (a Aggregate) States() []string {
	states := make([]string, 0, len(a))
	for state := range a {
		states = append(states, state)
	}
	sort.Strings(states)

	return states
}

// Float64 converts the aggregate to floating point amounts.
func (a Aggregate) Float64() map[string]float64 {
	out := make(map[string]float64, len(a))
	for state, amount := range a {
		out[state] = amount.InexactFloat64()
	}

	return out
}

// Total returns the sum over all states.
func (a Aggregate) Total() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range a {
		total = total.Add(amount)
	}

	return total
}

// PartialAggregate is the output of one map task. It is never modified after
// being sent to the reducer.
type PartialAggregate struct {
	TaskID  string
	Seq     int
	Sums    Aggregate
	Scanned int64 // donation data lines read
	Matched int64 // donations whose donor id was in the chunk
	Skipped int64 // donations with an unparseable amount
}

// Stats summarises one engine run.
type Stats struct {
	RunID                string
	Chunks               int
	DonorsRead           int64
	DonationLinesScanned int64
	DonationsMatched     int64
	DonationsSkipped     int64
	Duration             time.Duration
}

// Result is the final output of Engine.Run.
type Result struct {
	Totals Aggregate
	Stats  Stats
}

// Progress is reported after every merged partial aggregate.
type Progress struct {
	Dispatched int
	Completed  int
}
