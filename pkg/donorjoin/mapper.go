package donorjoin

import "context"

// MapChunk joins one donor chunk against a fresh scan of the donation
// dataset and sums matched amounts per state. The donation header is
// resolved on every call.
func MapChunk(ctx context.Context, chunk DonorChunk, donations Source, cols Columns) (PartialAggregate, error) {
	partial := PartialAggregate{Seq: chunk.Seq, Sums: make(Aggregate)}

	r, err := openReader(ctx, donations)
	if err != nil {
		return partial, err
	}
	defer r.close()

	indices, err := r.header(cols.DonationDonorID, cols.DonationAmount)
	if err != nil {
		return partial, err
	}
	idCol, amountCol := indices[0], indices[1]

	for {
		if partial.Scanned%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return partial, err
			}
		}

		line, ok := r.next()
		if !ok {
			break
		}
		partial.Scanned++

		donation, ok, err := ParseDonation(line, idCol, amountCol)
		if err != nil {
			return partial, r.shapeError(err)
		}
		if !ok {
			partial.Skipped++
			continue
		}

		state, found := chunk.Donors[donation.DonorID]
		if !found {
			continue
		}
		partial.Matched++
		partial.Sums.Add(state, donation.Amount)
	}

	if err := r.err(); err != nil {
		return partial, err
	}

	return partial, nil
}
