// Package engine drives a question.Bank to completion against an oracle
// function, per spec.md §4.5. The loop is cooperative: it suspends only
// at oracle calls, and state updates stay synchronous and pure.
package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/JamesAIzzard/winnow/apperrors"
	"github.com/JamesAIzzard/winnow/metrics"
	"github.com/JamesAIzzard/winnow/parsing"
	"github.com/JamesAIzzard/winnow/question"
	"github.com/JamesAIzzard/winnow/sampling"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Oracle asks a stochastic question and returns its raw response. It may
// fail (transport error) or respect ctx cancellation; failures propagate
// out of Collect (spec.md §7).
type Oracle func(ctx context.Context, prompt string) (string, error)

// ProgressFunc receives a read-only snapshot of every question's current
// state after each state update (spec.md §4.5, §6).
type ProgressFunc func(snapshots map[string]sampling.Snapshot)

// Options configures a Collect run. All fields are optional; zero values
// fall back to the documented defaults.
type Options struct {
	// Concurrency bounds the number of oracle calls in flight at once.
	// Defaults to 1.
	Concurrency int
	// Rand is the random source used for question selection (spec.md
	// §4.4). Defaults to a time-seeded generator; inject a seeded one
	// for deterministic tests.
	Rand *rand.Rand
	// Progress, if set, is invoked synchronously after each state
	// update.
	Progress ProgressFunc
	// Logger receives one line per unparseable response. Oracle failures
	// are returned from Collect, not logged. Defaults to log.Default().
	// Never used by the pure parser/estimator/stopping code.
	Logger *log.Logger
	// Metrics, if set, is recorded into for every outcome and every
	// finalised question.
	Metrics *metrics.Recorder
}

func (o Options) concurrency() int {
	if o.Concurrency < 1 {
		return 1
	}
	return o.Concurrency
}

func (o Options) rng() *rand.Rand {
	if o.Rand != nil {
		return o.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// Collect runs the sampling loop to completion and returns one estimate
// per question in bank. It returns an error, without finalising any
// results, if the bank fails eager validation, the oracle fails, or ctx
// is cancelled before every question completes (spec.md §4.5, §4.6, §7).
func Collect(ctx context.Context, bank *question.Bank, oracle Oracle, opts Options) (map[string]question.Estimate, error) {
	if err := bank.Validate(); err != nil {
		return nil, err
	}

	rng := opts.rng()
	logger := opts.logger()
	sem := semaphore.NewWeighted(int64(opts.concurrency()))

	g, gctx := errgroup.WithContext(ctx)

	handles := bank.Handles()

	var mu sync.Mutex
	inFlight := make(map[string]bool, len(handles))
	wake := make(chan struct{}, 1)

dispatch:
	for {
		mu.Lock()
		h, ok := bank.SelectNext(rng, func(id string) bool { return inFlight[id] })
		if ok {
			inFlight[h.ID()] = true
		}
		pending := len(inFlight)
		mu.Unlock()

		if !ok {
			if pending == 0 {
				break dispatch
			}
			select {
			case <-wake:
				continue dispatch
			case <-gctx.Done():
				break dispatch
			}
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			mu.Lock()
			delete(inFlight, h.ID())
			mu.Unlock()
			break dispatch
		}

		h := h
		g.Go(func() error {
			defer sem.Release(1)
			defer notify(wake)

			response, err := oracle(gctx, h.Prompt())

			mu.Lock()
			delete(inFlight, h.ID())
			if err != nil {
				mu.Unlock()
				return apperrors.HandleError(err, fmt.Sprintf("oracle query failed for question %q", h.ID()))
			}

			outcome := h.Apply(response)
			if opts.Metrics != nil {
				opts.Metrics.RecordOutcome(h.ID(), outcome.String())
			}
			if outcome == parsing.OutcomeFailure {
				logger.Printf("winnow: question %q: unparseable response", h.ID())
			}

			var snapshots map[string]sampling.Snapshot
			if opts.Progress != nil {
				snapshots = snapshotAll(handles)
			}
			mu.Unlock()

			if opts.Progress != nil {
				opts.Progress(snapshots)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make(map[string]question.Estimate, len(handles))
	for _, h := range handles {
		est := h.Finalize()
		if opts.Metrics != nil {
			opts.Metrics.RecordFinal(est.QuestionID, est.Confidence, string(est.Archetype))
		}
		results[est.QuestionID] = est
	}
	return results, nil
}

func snapshotAll(handles []question.Handle) map[string]sampling.Snapshot {
	out := make(map[string]sampling.Snapshot, len(handles))
	for _, h := range handles {
		out[h.ID()] = h.Snapshot()
	}
	return out
}

func notify(wake chan struct{}) {
	select {
	case wake <- struct{}{}:
	default:
	}
}
