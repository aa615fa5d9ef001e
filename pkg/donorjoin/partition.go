package donorjoin

import "context"

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 1024

// Chunk reads the donor dataset once and sends its donors to out in chunks
// of at most chunkSize entries. The trailing partial chunk is sent as well.
// out is closed when Chunk returns. It returns the number of donor lines read.
func Chunk(ctx context.Context, donors Source, cols Columns, chunkSize int, out chan<- DonorChunk) (int64, error) {
	defer close(out)

	if chunkSize < 1 {
		return 0, ErrInvalidChunkSize
	}

	r, err := openReader(ctx, donors)
	if err != nil {
		return 0, err
	}
	defer r.close()

	indices, err := r.header(cols.DonorID, cols.DonorState)
	if err != nil {
		return 0, err
	}
	idCol, stateCol := indices[0], indices[1]

	seq := 0
	send := func(donors map[string]string) error {
		select {
		case out <- DonorChunk{Seq: seq, Donors: donors}:
			seq++
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var read int64
	buffer := newChunkBuffer(chunkSize)
	for {
		if read%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return read, err
			}
		}

		line, ok := r.next()
		if !ok {
			break
		}

		donor, err := ParseDonor(line, idCol, stateCol)
		if err != nil {
			return read, r.shapeError(err)
		}
		read++
		buffer[donor.ID] = donor.State

		if len(buffer) == chunkSize {
			if err := send(buffer); err != nil {
				return read, err
			}
			buffer = newChunkBuffer(chunkSize)
		}
	}

	if err := r.err(); err != nil {
		return read, err
	}

	if len(buffer) > 0 {
		if err := send(buffer); err != nil {
			return read, err
		}
	}

	return read, nil
}

func newChunkBuffer(chunkSize int) map[string]string {
	return make(map[string]string, min(chunkSize, 1<<16))
}
