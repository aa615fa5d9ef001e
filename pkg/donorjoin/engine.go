package donorjoin

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Phase names the engine's progress through a run, used in log fields.
type Phase string

const (
	PhasePartitioning Phase = "partitioning"
	PhaseDispatching  Phase = "dispatching"
	PhaseAwaiting     Phase = "awaiting"
	PhaseDone         Phase = "done"
)

// Engine computes the sum of donation amounts grouped by donor state.
//
// The donor dataset is read once and cut into chunks. Each chunk becomes a
// map task that scans the whole donation dataset, so the donation dataset is
// read once per chunk: ChunkSize is the knob trading memory for I/O.
// Map tasks run on a pool bounded by MaxWorkers and report partial
// aggregates over a channel to a single reducer.
type Engine struct {
	cfg  Config
	cols Columns
	log  logrus.FieldLogger
}

// New validates cfg and creates an engine.
func New(cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &Engine{
		cfg:  cfg,
		cols: cfg.columns(),
		log:  cfg.logger(),
	}, nil
}

// Join runs an engine with default columns and worker limit.
func Join(ctx context.Context, donors, donations Source, chunkSize int) (Aggregate, error) {
	engine, err := New(Config{ChunkSize: chunkSize})
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(ctx, donors, donations)
	if err != nil {
		return nil, err
	}

	return result.Totals, nil
}

// Run joins donors with donations and returns the per-state totals. The first
// fatal error cancels all in-flight map tasks and is returned; no partial
// result is produced.
func (e *Engine) Run(ctx context.Context, donors, donations Source) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := e.log.WithField("run", runID)

	log.WithFields(logrus.Fields{
		"donors":      donors.Name(),
		"donations":   donations.Name(),
		"chunk_size":  e.cfg.ChunkSize,
		"max_workers": e.cfg.workerLimit(),
	}).Info("Starting join")

	// Donation schema errors must surface before any chunk is dispatched.
	if err := e.checkDonations(ctx, donations); err != nil {
		log.WithError(err).Error("Donation dataset rejected")
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan DonorChunk)
	partials := make(chan PartialAggregate)

	var (
		donorsRead int64
		dispatched atomic.Int64
	)

	log.WithFields(logrus.Fields{"component": "engine", "phase": PhasePartitioning}).Debug("Phase change")

	g.Go(func() error {
		n, err := Chunk(gctx, donors, e.cols, e.cfg.ChunkSize, chunks)
		donorsRead = n
		if err != nil {
			return err
		}

		log.WithFields(logrus.Fields{
			"component": "partitioner",
			"donors":    n,
		}).Debug("Donor dataset partitioned")

		return nil
	})

	g.Go(func() error {
		defer close(partials)

		err := e.dispatch(gctx, log, chunks, donations, partials, &dispatched)
		if err == nil {
			log.WithFields(logrus.Fields{
				"component": "engine",
				"phase":     PhaseAwaiting,
				"tasks":     dispatched.Load(),
			}).Debug("Phase change")
		}

		return err
	})

	reducer := NewReducer()
	for partial := range partials {
		reducer.Add(partial)

		log.WithFields(logrus.Fields{
			"component": "reducer",
			"task":      partial.TaskID,
			"chunk":     partial.Seq,
			"states":    len(partial.Sums),
			"pending":   dispatched.Load() - int64(reducer.Received()),
		}).Debug("Merged partial aggregate")

		if e.cfg.OnProgress != nil {
			e.cfg.OnProgress(Progress{
				Dispatched: int(dispatched.Load()),
				Completed:  reducer.Received(),
			})
		}
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Join failed")
		return nil, err
	}

	if n := int(dispatched.Load()); reducer.Received() != n {
		err := fmt.Errorf("%w: dispatched %d, received %d", ErrIncomplete, n, reducer.Received())
		log.WithError(err).Error("Join failed")
		return nil, err
	}

	stats := Stats{
		RunID:      runID,
		Chunks:     reducer.Received(),
		DonorsRead: donorsRead,
		Duration:   time.Since(start),
	}
	reducer.fill(&stats)

	log.WithFields(logrus.Fields{
		"component": "engine",
		"phase":     PhaseDone,
		"chunks":    stats.Chunks,
		"states":    len(reducer.Totals()),
		"duration":  stats.Duration,
	}).Info("Join completed")

	return &Result{Totals: reducer.Totals(), Stats: stats}, nil
}

// checkDonations resolves the donation header once up front.
func (e *Engine) checkDonations(ctx context.Context, donations Source) error {
	r, err := openReader(ctx, donations)
	if err != nil {
		return err
	}
	defer r.close()

	_, err = r.header(e.cols.DonationDonorID, e.cols.DonationAmount)

	return err
}

// dispatch starts one map task per chunk on a bounded pool and waits for all
// of them. It stops taking chunks as soon as any task fails.
func (e *Engine) dispatch(ctx context.Context, log logrus.FieldLogger, chunks <-chan DonorChunk,
	donations Source, partials chan<- PartialAggregate, dispatched *atomic.Int64) error {
	pool, poolCtx := errgroup.WithContext(ctx)
	pool.SetLimit(e.cfg.workerLimit())

	for {
		select {
		case <-poolCtx.Done():
			return pool.Wait()
		case chunk, ok := <-chunks:
			if !ok {
				return pool.Wait()
			}

			taskID := uuid.New().String()
			if dispatched.Add(1) == 1 {
				log.WithFields(logrus.Fields{"component": "engine", "phase": PhaseDispatching}).Debug("Phase change")
			}

			log.WithFields(logrus.Fields{
				"component": "engine",
				"task":      taskID,
				"chunk":     chunk.Seq,
				"donors":    chunk.Len(),
			}).Debug("Dispatching map task")

			pool.Go(func() error {
				return e.mapTask(poolCtx, log, taskID, chunk, donations, partials)
			})
		}
	}
}

// mapTask runs MapChunk for one chunk and hands its result to the reducer.
func (e *Engine) mapTask(ctx context.Context, log logrus.FieldLogger, taskID string, chunk DonorChunk,
	donations Source, partials chan<- PartialAggregate) error {
	tlog := log.WithFields(logrus.Fields{
		"component": "mapper",
		"task":      taskID,
		"chunk":     chunk.Seq,
	})

	taskCtx := ctx
	if e.cfg.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, e.cfg.TaskTimeout)
		defer cancel()
	}

	start := time.Now()
	partial, err := MapChunk(taskCtx, chunk, donations, e.cols)
	if err != nil {
		if ctx.Err() != nil {
			tlog.WithError(err).Debug("Map task cancelled")
			return err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("map task timed out after %s: %w", e.cfg.TaskTimeout, err)
		}
		tlog.WithError(err).Error("Map task failed")

		return fmt.Errorf("chunk %d: %w", chunk.Seq, err)
	}
	partial.TaskID = taskID

	tlog.WithFields(logrus.Fields{
		"scanned":  partial.Scanned,
		"matched":  partial.Matched,
		"duration": time.Since(start),
	}).Debug("Map task completed")

	select {
	case partials <- partial:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
