package generator

import (
	"bufio"
	"io"
	"math/rand/v2"
)

// progressEvery is how many lines are written between progress callbacks.
const progressEvery = 4096

// Write initializes g with r and writes its header followed by count lines.
// onProgress, if set, receives the number of lines written so far.
func Write(w io.Writer, g Generator, r *rand.Rand, count int64, onProgress func(int64)) error {
	g.Init(r)

	bw := bufio.NewWriterSize(w, 1<<20)
	if _, err := bw.WriteString(g.Header() + "\n"); err != nil {
		return err
	}

	for i := int64(0); i < count; i++ {
		if err := g.WriteLine(bw); err != nil {
			return err
		}
		if onProgress != nil && (i+1)%progressEvery == 0 {
			onProgress(i + 1)
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if onProgress != nil {
		onProgress(count)
	}

	return nil
}
