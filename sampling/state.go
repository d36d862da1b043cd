// Package sampling holds the per-question sample state snapshot that the
// engine threads through parsers, estimators and stopping predicates
// (spec.md §3). State is treated as an immutable value: every transition
// returns a new snapshot, so progress callbacks and stopping predicates
// get a stable view without locking.
package sampling

// State is the immutable snapshot of one question's sampling progress.
type State[T any] struct {
	// Samples holds successfully parsed values in arrival order.
	Samples []T
	// Declines counts decline responses.
	Declines int
	// ParseFailures counts unintelligible, non-decline responses.
	ParseFailures int
	// ConsecutiveDeclines is the current decline streak: reset to 0 by a
	// success or a parse failure, incremented by a decline.
	ConsecutiveDeclines int
}

// QueryCount is the total number of oracle attempts reflected in this
// state: samples + declines + parse failures.
func (s State[T]) QueryCount() int {
	return len(s.Samples) + s.Declines + s.ParseFailures
}

// WithSuccess returns the state after a successfully parsed sample,
// appending it and resetting the decline streak.
func (s State[T]) WithSuccess(value T) State[T] {
	samples := make([]T, len(s.Samples), len(s.Samples)+1)
	copy(samples, s.Samples)
	samples = append(samples, value)
	return State[T]{
		Samples:             samples,
		Declines:            s.Declines,
		ParseFailures:       s.ParseFailures,
		ConsecutiveDeclines: 0,
	}
}

// WithDecline returns the state after a decline, incrementing the decline
// count and the consecutive-decline streak.
func (s State[T]) WithDecline() State[T] {
	return State[T]{
		Samples:             s.Samples,
		Declines:            s.Declines + 1,
		ParseFailures:       s.ParseFailures,
		ConsecutiveDeclines: s.ConsecutiveDeclines + 1,
	}
}

// WithParseFailure returns the state after a parse failure, which counts
// as a query but is not a refusal: the decline streak resets to zero.
func (s State[T]) WithParseFailure() State[T] {
	return State[T]{
		Samples:             s.Samples,
		Declines:            s.Declines,
		ParseFailures:       s.ParseFailures + 1,
		ConsecutiveDeclines: 0,
	}
}

// Snapshot is the type-erased, read-only view of a State handed to
// progress callbacks (spec.md §4.5, §6) — it carries counts only, never
// the typed samples, so it is safe to share across question types.
type Snapshot struct {
	QuestionID          string
	SampleCount         int
	DeclineCount        int
	ParseFailureCount   int
	ConsecutiveDeclines int
	QueryCount          int
}

// SnapshotOf builds a Snapshot from a typed State.
func SnapshotOf[T any](questionID string, s State[T]) Snapshot {
	return Snapshot{
		QuestionID:          questionID,
		SampleCount:         len(s.Samples),
		DeclineCount:        s.Declines,
		ParseFailureCount:   s.ParseFailures,
		ConsecutiveDeclines: s.ConsecutiveDeclines,
		QueryCount:          s.QueryCount(),
	}
}
