package donorjoin

// Reducer folds partial aggregates into the final aggregate. It is owned by a
// single goroutine and needs no locking.
type Reducer struct {
	totals   Aggregate
	received int
	scanned  int64
	matched  int64
	skipped  int64
}

// NewReducer creates an empty reducer
func NewReducer() *Reducer {
	return &Reducer{totals: make(Aggregate)}
}

// Add merges one partial aggregate. Order of calls does not affect the result.
func (r *Reducer) Add(p PartialAggregate) {
	r.totals.Merge(p.Sums)
	r.received++
	r.scanned += p.Scanned
	r.matched += p.Matched
	// Every map task scans the whole donation dataset, so each sees the same
	// unparseable lines.
	r.skipped = max(r.skipped, p.Skipped)
}

// Received returns how many partial aggregates were merged.
func (r *Reducer) Received() int {
	return r.received
}

// Totals returns the merged aggregate.
func (r *Reducer) Totals() Aggregate {
	return r.totals
}

func (r *Reducer) fill(stats *Stats) {
	stats.DonationLinesScanned = r.scanned
	stats.DonationsMatched = r.matched
	stats.DonationsSkipped = r.skipped
}
