// Package scan runs the batch query loop: chunk candidates, pace requests,
// classify answers and flush the store after every batch so an interrupted
// run is never more than one batch behind on disk.
package scan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"combohunt/internal/classify"
	"combohunt/internal/generate"
	"combohunt/internal/godaddy"
	"combohunt/internal/store"
)

// BatchChecker answers one batch of domains in a single round trip.
type BatchChecker interface {
	CheckBatch(ctx context.Context, domains []string) ([]godaddy.Result, error)
}

// CandidateSource yields candidates in a fixed order and knows its total
// size up front.
type CandidateSource interface {
	Next() (generate.Candidate, bool)
	Total() int
}

// Reporter receives user-facing events. All methods are called from the
// scan goroutine only.
type Reporter interface {
	Result(r godaddy.Result, d classify.Disposition)
	BatchAbandoned(first, last string, size int, err error)
	Progress(processed, total int)
}

type Options struct {
	BatchSize int
	Delay     time.Duration
	MaxPrice  *float64
	StatePath string
	Checker   BatchChecker
	Store     *store.Store
	Reporter  Reporter
	Logger    *zap.Logger
}

type Scanner struct {
	opts    Options
	limiter *rate.Limiter
	log     *zap.Logger
}

func New(opts Options) (*Scanner, error) {
	if opts.BatchSize < 1 || opts.BatchSize > 50 {
		return nil, fmt.Errorf("scan: batch size must be between 1 and 50, got %d", opts.BatchSize)
	}
	if opts.Checker == nil {
		return nil, fmt.Errorf("scan: checker is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("scan: store is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	// Burst 1 so the first batch goes out immediately and every later
	// batch waits out the configured delay.
	lim := rate.Every(opts.Delay)
	if opts.Delay <= 0 {
		lim = rate.Inf
	}

	return &Scanner{
		opts:    opts,
		limiter: rate.NewLimiter(lim, 1),
		log:     opts.Logger.Named("scan"),
	}, nil
}

// Run drains the candidate source. Batch-scoped failures are reported and
// skipped; only a twice-failed flush aborts the run. Cancellation via ctx
// is cooperative: it is observed between batches (and during waits), and
// results accumulated so far are flushed before returning. A nil return
// covers both normal completion and graceful interruption.
func (s *Scanner) Run(ctx context.Context, src CandidateSource) error {
	total := src.Total()
	processed := 0

	for {
		if ctx.Err() != nil {
			s.log.Info("interrupted, saving current results",
				zap.Int("processed", processed))
			break
		}

		batch := nextBatch(src, s.opts.BatchSize)
		if len(batch) == 0 {
			break
		}

		if err := s.limiter.Wait(ctx); err != nil {
			// Interrupted mid-delay; the batch was never issued.
			s.log.Info("interrupted during inter-batch delay",
				zap.Int("processed", processed))
			break
		}

		s.checkBatch(ctx, batch)

		processed += len(batch)
		if s.opts.Reporter != nil {
			s.opts.Reporter.Progress(processed, total)
		}

		if err := s.flush(); err != nil {
			return err
		}
	}

	return s.flush()
}

func (s *Scanner) checkBatch(ctx context.Context, batch []generate.Candidate) {
	domains := make([]string, len(batch))
	for i, c := range batch {
		domains[i] = c.Domain
	}

	results, err := s.opts.Checker.CheckBatch(ctx, domains)
	if err != nil {
		// Batch-scoped: candidates stay unresolved, the run continues.
		s.log.Warn("batch abandoned",
			zap.String("first", domains[0]),
			zap.String("last", domains[len(domains)-1]),
			zap.Int("size", len(domains)),
			zap.Error(err))
		if s.opts.Reporter != nil {
			s.opts.Reporter.BatchAbandoned(domains[0], domains[len(domains)-1], len(domains), err)
		}
		return
	}

	// Answer order is not guaranteed; match by domain string.
	byDomain := make(map[string]godaddy.Result, len(results))
	for _, r := range results {
		byDomain[r.Domain] = r
	}

	for _, cand := range batch {
		r, ok := byDomain[cand.Domain]
		if !ok {
			s.log.Debug("no answer for candidate", zap.String("domain", cand.Domain))
			continue
		}
		d := classify.Classify(r, s.opts.MaxPrice)
		if rec, keep := classify.Record(r, d); keep {
			s.opts.Store.Upsert(cand.TLD, rec)
		}
		if s.opts.Reporter != nil {
			s.opts.Reporter.Result(r, d)
		}
	}
}

// flush persists the whole store. One retry; a second failure is fatal
// because further progress could no longer be recorded safely.
func (s *Scanner) flush() error {
	err := store.Save(s.opts.StatePath, s.opts.Store)
	if err == nil {
		return nil
	}
	s.log.Warn("flush failed, retrying once", zap.Error(err))
	if err := store.Save(s.opts.StatePath, s.opts.Store); err != nil {
		return fmt.Errorf("persist results to %s: %w", s.opts.StatePath, err)
	}
	return nil
}

func nextBatch(src CandidateSource, size int) []generate.Candidate {
	batch := make([]generate.Candidate, 0, size)
	for len(batch) < size {
		c, ok := src.Next()
		if !ok {
			break
		}
		batch = append(batch, c)
	}
	return batch
}
