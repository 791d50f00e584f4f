// Package predictor implements CrystalPredictor: the two-level
// rank/thread producer pool that dispatches CrystalDesigner attempts
// against a shared produced/cap counter until a composition's quota is
// met, then hands each produced structure to a sink for persistence.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sarat-asymmetrica/crystalforge/internal/constraint"
	"github.com/sarat-asymmetrica/crystalforge/internal/design"
	"github.com/sarat-asymmetrica/crystalforge/internal/dictionary"
	"github.com/sarat-asymmetrica/crystalforge/internal/obslog"
	"github.com/sarat-asymmetrica/crystalforge/internal/xerrors"
)

// Sink persists one finished attempt. internal/cio provides the
// on-disk crystallographic implementation; tests use an in-memory one.
type Sink interface {
	Write(rank int, attemptID string, outcome design.Outcome) error
}

// AttemptFactory builds a fresh randomized initial structure for
// sample id within the current rank. Each call must return a structure
// no other in-flight attempt shares, since the designer mutates it
// in place.
type AttemptFactory func(sampleID int) (*constraint.Manager, error)

// Config holds one rank's production target and the immutable,
// read-only-after-construction policy and lookup dictionaries every
// worker thread shares.
type Config struct {
	Cap        int
	Threads    int
	Parameters design.Parameters
	Linkage    *dictionary.LinkageDictionary
	NewAttempt AttemptFactory
	Sink       Sink
	Logger     obslog.Logger
}

// Validate checks the fields Predictor needs before Run can start.
func (c Config) Validate() error {
	if c.Cap <= 0 {
		return fmt.Errorf("predictor: cap must be > 0, got %d", c.Cap)
	}
	if c.Threads <= 0 {
		return fmt.Errorf("predictor: threads must be > 0, got %d", c.Threads)
	}
	if c.NewAttempt == nil {
		return fmt.Errorf("predictor: NewAttempt factory is required")
	}
	if c.Sink == nil {
		return fmt.Errorf("predictor: Sink is required")
	}
	if c.Logger == nil {
		return fmt.Errorf("predictor: Logger is required")
	}
	return c.Parameters.Validate()
}

// Predictor is CrystalPredictor scoped to one rank: it owns the
// produced/cap counter and fans the thread-level work out across
// Config.Threads goroutines via errgroup.
type Predictor struct {
	cfg   Config
	group RankGroup
}

// New validates cfg and returns a Predictor for the given rank handle.
func New(cfg Config, group RankGroup) (*Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("predictor: rank group is required")
	}
	return &Predictor{cfg: cfg, group: group}, nil
}

// Run dispatches Config.Threads workers against a shared counter until
// the rank's cap is exhausted, logs per-rank finalisation, and returns
// the first error encountered, if any: a configuration-class error from
// a worker, a start/finish barrier failure, or the context's error.
// Attempt-scoped failures never leave a worker.
func (p *Predictor) Run(ctx context.Context) error {
	if err := p.group.Barrier(ctx); err != nil {
		return fmt.Errorf("predictor: rank %d start barrier: %w", p.group.Rank(), err)
	}

	cnt := newCounter(p.cfg.Cap)
	var completed int32
	progressEvery := p.cfg.Cap / 10
	if progressEvery <= 0 {
		progressEvery = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	for t := 0; t < p.cfg.Threads; t++ {
		g.Go(func() error {
			return p.worker(gctx, cnt, &completed, progressEvery)
		})
	}
	runErr := g.Wait()

	p.cfg.Logger.Info("rank finished", obslog.Rank(p.group.Rank()), zap.Int("produced", cnt.Produced()))
	if err := p.group.Barrier(ctx); err != nil {
		return fmt.Errorf("predictor: rank %d finish barrier: %w", p.group.Rank(), err)
	}
	return runErr
}

// worker repeatedly claims the next sample id, runs one design attempt
// over a freshly built structure, and persists the outcome. Only a
// configuration-class error stops the worker; every other failure is
// logged and the worker moves on to the next sample.
func (p *Predictor) worker(ctx context.Context, cnt *counter, completed *int32, progressEvery int) error {
	rank := p.group.Rank()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		id, ok := cnt.shouldDesign()
		if !ok {
			return nil
		}

		mgr, err := p.cfg.NewAttempt(id)
		if err != nil {
			if errors.Is(err, xerrors.ErrConfiguration) {
				return fmt.Errorf("predictor: rank %d sample %d: %w", rank, id, err)
			}
			p.cfg.Logger.Warn("discarding attempt: could not build initial structure",
				obslog.Rank(rank), zap.Int("sample", id), zap.Error(err))
			continue
		}

		d, err := design.New(mgr, p.cfg.Linkage, p.cfg.Parameters)
		if err != nil {
			return fmt.Errorf("predictor: rank %d sample %d: %w", rank, id, err)
		}

		attemptID := uuid.NewString()
		outcome := d.Execute()
		if outcome.Status == design.Exceptional {
			p.cfg.Logger.Warn("attempt ended exceptionally",
				obslog.Rank(rank), obslog.Sample(attemptID), zap.Error(outcome.Err))
		}
		if err := p.cfg.Sink.Write(rank, attemptID, outcome); err != nil {
			p.cfg.Logger.Warn("discarding attempt: sink write failed",
				obslog.Rank(rank), obslog.Sample(attemptID), zap.Error(err))
			continue
		}

		n := atomic.AddInt32(completed, 1)
		if int(n)%progressEvery == 0 {
			p.cfg.Logger.Info("progress", obslog.Rank(rank), obslog.Attempt(int(n)), zap.Int("cap", p.cfg.Cap))
		}
	}
}

// RankShare divides a composition's total requested structure count
// evenly across ranks ranks, with the first total%ranks ranks (by rank
// number) receiving one extra structure so every requested structure is
// assigned to exactly one rank and none are dropped to truncation.
func RankShare(total, ranks, rank int) int {
	share := total / ranks
	if rank < total%ranks {
		share++
	}
	return share
}

// RunAll drives numRanks local-goroutine ranks, each its own Predictor
// sharing the given factory/sink template, and reports the "all ranks
// finished" record once every rank's errgroup returns.
func RunAll(ctx context.Context, numRanks int, newConfig func(rank int) Config) error {
	if numRanks <= 0 {
		return fmt.Errorf("predictor: numRanks must be > 0, got %d", numRanks)
	}
	groups := NewLocalRankGroups(numRanks)

	g, gctx := errgroup.WithContext(ctx)
	var logger obslog.Logger
	for i := 0; i < numRanks; i++ {
		rg := groups[i]
		cfg := newConfig(rg.Rank())
		if logger == nil {
			logger = cfg.Logger
		}
		g.Go(func() error {
			pred, err := New(cfg, rg)
			if err != nil {
				return err
			}
			return pred.Run(gctx)
		})
	}
	err := g.Wait()
	if logger != nil {
		logger.Info("all ranks finished", zap.Int("ranks", numRanks))
	}
	return err
}
