package question

import (
	"math/rand"

	"github.com/JamesAIzzard/winnow/apperrors"
	"github.com/JamesAIzzard/winnow/parsing"
	"github.com/JamesAIzzard/winnow/sampling"
	"github.com/JamesAIzzard/winnow/stopping"
)

// Handle is the type-erased view of a Question that the engine drives. It
// lets a Bank hold questions over differing value types in one
// collection, per the capability-set abstraction in spec.md §9.
type Handle interface {
	ID() string
	Prompt() string
	IsComplete() bool
	Apply(response string) parsing.Outcome
	Snapshot() sampling.Snapshot
	Finalize() Estimate
	ValidateStopping() error
}

// tracker binds a Question[T] to its mutable sampling state and
// implements Handle without exposing T to callers.
type tracker[T any] struct {
	q     *Question[T]
	state sampling.State[T]
}

func (t *tracker[T]) ID() string     { return t.q.ID }
func (t *tracker[T]) Prompt() string { return t.q.Prompt }

func (t *tracker[T]) IsComplete() bool {
	return t.q.Stopping.ShouldStop(t.state, t.q.Estimator)
}

// ValidateStopping checks the question's stopping composition is
// well-formed (spec.md §7 "malformed stopping composition"), eagerly
// before collect ever queries the oracle.
func (t *tracker[T]) ValidateStopping() error {
	return t.q.Stopping.Validate()
}

// Apply parses response and updates state accordingly, returning the
// outcome for the caller's logging/metrics use.
func (t *tracker[T]) Apply(response string) parsing.Outcome {
	result := t.q.Parser.Parse(response)
	switch result.Outcome {
	case parsing.OutcomeValue:
		t.state = t.state.WithSuccess(result.Value)
	case parsing.OutcomeDecline:
		t.state = t.state.WithDecline()
	default:
		t.state = t.state.WithParseFailure()
	}
	return result.Outcome
}

func (t *tracker[T]) Snapshot() sampling.Snapshot {
	return sampling.SnapshotOf(t.q.ID, t.state)
}

// Finalize applies the decline penalty and archetype classification from
// spec.md §4.6 and §7.
func (t *tracker[T]) Finalize() Estimate {
	base := Estimate{
		QuestionID:        t.q.ID,
		SampleCount:       len(t.state.Samples),
		DeclineCount:      t.state.Declines,
		ParseFailureCount: t.state.ParseFailures,
		QueryCount:        t.state.QueryCount(),
	}
	if len(t.state.Samples) == 0 {
		base.Value = nil
		base.Confidence = 0
		base.Archetype = InsufficientData
		return base
	}

	value := t.q.Estimator.Estimate(t.state.Samples)
	raw := t.q.Estimator.Confidence(t.state.Samples, value)
	penalty := 1 - float64(t.state.Declines)/float64(t.state.Declines+len(t.state.Samples))
	final := raw * penalty

	theta, ok := t.q.Stopping.Threshold()
	if !ok {
		theta = referenceTheta
	}
	maxQueries, hasMaxQueries := t.q.Stopping.MaxQueriesBound()

	base.Value = value
	base.Confidence = final
	base.Archetype = classify(final, theta, maxQueries, hasMaxQueries, base.QueryCount)
	return base
}

// Bank holds a collection of questions of possibly differing value
// types, selectable uniformly at random among the incomplete ones
// (spec.md §4.4).
type Bank struct {
	handles []Handle
	ids     map[string]struct{}
}

// NewBank builds an empty bank.
func NewBank() *Bank {
	return &Bank{ids: make(map[string]struct{})}
}

// Add registers q in b. Duplicate question ids are a programmer error,
// signalled eagerly (spec.md §7) rather than deferred to collect time.
//
// Add is a package-level generic function, not a method, because Go does
// not support generic methods on a non-generic receiver type.
func Add[T any](b *Bank, q *Question[T]) error {
	if _, exists := b.ids[q.ID]; exists {
		return apperrors.New("duplicate question id: "+q.ID, apperrors.CodeDuplicateQuestionID)
	}
	b.ids[q.ID] = struct{}{}
	b.handles = append(b.handles, &tracker[T]{q: q})
	return nil
}

// Validate eagerly checks bank-level invariants before collect begins
// (spec.md §7): the bank must be non-empty, and every question's
// stopping composition must be well-formed. Duplicate ids are already
// rejected at Add time. When more than one question fails validation,
// the errors are aggregated into a single AppError rather than reporting
// only the first.
func (b *Bank) Validate() error {
	if len(b.handles) == 0 {
		return apperrors.New("bank contains no questions", apperrors.CodeEmptyBank)
	}
	var errs []error
	for _, h := range b.handles {
		if err := h.ValidateStopping(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return apperrors.Join(errs...)
}

// Len returns the number of questions in the bank.
func (b *Bank) Len() int {
	return len(b.handles)
}

// Handles returns every handle in the bank, in registration order.
func (b *Bank) Handles() []Handle {
	out := make([]Handle, len(b.handles))
	copy(out, b.handles)
	return out
}

// SelectNext returns a uniformly random incomplete, non-excluded question,
// or (nil, false) if none remain. The random source is injected so tests
// can seed it deterministically (spec.md §4.4).
func (b *Bank) SelectNext(rng *rand.Rand, exclude func(id string) bool) (Handle, bool) {
	var candidates []Handle
	for _, h := range b.handles {
		if h.IsComplete() {
			continue
		}
		if exclude != nil && exclude(h.ID()) {
			continue
		}
		candidates = append(candidates, h)
	}
	if len(candidates) == 0 {
		return nil, false
	}
	return candidates[rng.Intn(len(candidates))], true
}
