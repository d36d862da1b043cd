// Package stopping decides, from a question's sample state and its
// estimator, whether sampling is done (spec.md §4.3). Predicates are
// modelled as a small tagged tree — Leaf/All/Any — per the Design Notes
// in spec.md §9, rather than operator-overloading sugar.
package stopping

import (
	"fmt"
	"strings"

	"github.com/JamesAIzzard/winnow/apperrors"
	"github.com/JamesAIzzard/winnow/estimation"
	"github.com/JamesAIzzard/winnow/sampling"
)

type kind int

const (
	leafKind kind = iota
	allKind
	anyKind
)

// Node is a stopping predicate: either a primitive leaf or a conjunction
// ("All") / disjunction ("Any") of child nodes. Combinations are
// themselves Nodes and nest arbitrarily.
type Node[T any] struct {
	kind     kind
	label    string
	children []Node[T]
	eval     func(sampling.State[T], estimation.Estimator[T]) bool

	// threshold and maxQueries are set on the leaves that carry them, so
	// the archetype classification rule in spec.md §7 can walk the
	// composition for a reference θ and query budget.
	threshold  *float64
	maxQueries *int

	// bounded marks leaves that saturate on a plain numeric count rather
	// than on convergence (MinSamples, MaxQueries, ConsecutiveDeclines,
	// UnanimousAgreement). ConfidenceReached is not bounded: confidence
	// may never reach theta, so a composition built from ConfidenceReached
	// leaves alone is not guaranteed to ever halt. Validate uses this to
	// reject such compositions (spec.md §7 "malformed stopping composition").
	bounded bool
}

// ShouldStop evaluates the predicate against a state and its estimator.
func (n Node[T]) ShouldStop(s sampling.State[T], est estimation.Estimator[T]) bool {
	switch n.kind {
	case allKind:
		for _, c := range n.children {
			if !c.ShouldStop(s, est) {
				return false
			}
		}
		return true
	case anyKind:
		for _, c := range n.children {
			if c.ShouldStop(s, est) {
				return true
			}
		}
		return false
	default:
		return n.eval(s, est)
	}
}

// Threshold walks the composition for the confidence threshold used by a
// ConfidenceReached leaf, taking the maximum when more than one appears.
func (n Node[T]) Threshold() (float64, bool) {
	if n.kind == leafKind {
		if n.threshold != nil {
			return *n.threshold, true
		}
		return 0, false
	}
	best, found := 0.0, false
	for _, c := range n.children {
		if th, ok := c.Threshold(); ok && (!found || th > best) {
			best, found = th, true
		}
	}
	return best, found
}

// MaxQueriesBound walks the composition for the query budget used by a
// MaxQueries leaf, taking the maximum when more than one appears. This
// mirrors the tie-break rule spec.md §7 specifies for the threshold, since
// the spec leaves the multi-bound case for max-queries unspecified (see
// DESIGN.md).
func (n Node[T]) MaxQueriesBound() (int, bool) {
	if n.kind == leafKind {
		if n.maxQueries != nil {
			return *n.maxQueries, true
		}
		return 0, false
	}
	best, found := 0, false
	for _, c := range n.children {
		if mq, ok := c.MaxQueriesBound(); ok && (!found || mq > best) {
			best, found = mq, true
		}
	}
	return best, found
}

// Validate rejects a malformed stopping composition (spec.md §7): an
// All/Any node with no children (vacuously always-true or, worse,
// vacuously always-false — the latter makes a question incomplete
// forever and Collect loops issuing oracle calls without end), a leaf
// with no evaluator, or a composition with no bound-bearing primitive
// anywhere in it. The bound check only requires one such leaf somewhere
// in the tree; it does not prove the composition fires (for example,
// All(MinSamples(5), ConfidenceReached(0.9)) passes). Called eagerly
// from Bank.Validate, before collect ever queries the oracle.
func (n Node[T]) Validate() error {
	if err := n.validateStructure(); err != nil {
		return err
	}
	if !n.hasBound() {
		return apperrors.New(
			"stopping composition has no bound-bearing primitive (MinSamples, MaxQueries, ConsecutiveDeclines or UnanimousAgreement); a composition of ConfidenceReached alone may never terminate",
			apperrors.CodeMalformedStopping,
		)
	}
	return nil
}

func (n Node[T]) validateStructure() error {
	switch n.kind {
	case allKind, anyKind:
		if len(n.children) == 0 {
			return apperrors.New(fmt.Sprintf("%s has no children", combinatorName(n.kind)), apperrors.CodeMalformedStopping)
		}
		for _, c := range n.children {
			if err := c.validateStructure(); err != nil {
				return err
			}
		}
		return nil
	default:
		if n.eval == nil {
			return apperrors.New("stopping leaf has no evaluator", apperrors.CodeMalformedStopping)
		}
		return nil
	}
}

func (n Node[T]) hasBound() bool {
	switch n.kind {
	case allKind, anyKind:
		for _, c := range n.children {
			if c.hasBound() {
				return true
			}
		}
		return false
	default:
		return n.bounded
	}
}

func combinatorName(k kind) string {
	if k == allKind {
		return "All"
	}
	return "Any"
}

// Describe renders a human-readable form of the composition, built from
// each leaf's label.
func Describe[T any](n Node[T]) string {
	switch n.kind {
	case allKind:
		return "All(" + joinDescribe(n.children) + ")"
	case anyKind:
		return "Any(" + joinDescribe(n.children) + ")"
	default:
		return n.label
	}
}

func joinDescribe[T any](children []Node[T]) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = Describe(c)
	}
	return strings.Join(parts, ", ")
}

// MinSamples stops once len(samples) >= n.
func MinSamples[T any](n int) Node[T] {
	return Node[T]{
		kind:    leafKind,
		label:   fmt.Sprintf("MinSamples(%d)", n),
		bounded: true,
		eval: func(s sampling.State[T], _ estimation.Estimator[T]) bool {
			return len(s.Samples) >= n
		},
	}
}

// MaxQueries stops once the total query count (successes + declines +
// parse failures) reaches n.
func MaxQueries[T any](n int) Node[T] {
	bound := n
	return Node[T]{
		kind:       leafKind,
		label:      fmt.Sprintf("MaxQueries(%d)", n),
		maxQueries: &bound,
		bounded:    true,
		eval: func(s sampling.State[T], _ estimation.Estimator[T]) bool {
			return s.QueryCount() >= n
		},
	}
}

// ConfidenceReached stops once at least 2 samples exist and the
// estimator's confidence in its own estimate reaches theta. Evaluation
// always uses the raw estimator confidence, never the decline-penalised
// final confidence (spec.md §9 Open Question).
func ConfidenceReached[T any](theta float64) Node[T] {
	th := theta
	return Node[T]{
		kind:      leafKind,
		label:     fmt.Sprintf("ConfidenceReached(%.2f)", theta),
		threshold: &th,
		eval: func(s sampling.State[T], est estimation.Estimator[T]) bool {
			if len(s.Samples) < 2 {
				return false
			}
			estimate := est.Estimate(s.Samples)
			return est.Confidence(s.Samples, estimate) >= theta
		},
	}
}

// ConsecutiveDeclines stops once the current decline streak reaches n.
func ConsecutiveDeclines[T any](n int) Node[T] {
	return Node[T]{
		kind:    leafKind,
		label:   fmt.Sprintf("ConsecutiveDeclines(%d)", n),
		bounded: true,
		eval: func(s sampling.State[T], _ estimation.Estimator[T]) bool {
			return s.ConsecutiveDeclines >= n
		},
	}
}

// UnanimousAgreement stops once at least k samples exist and all samples
// are equal.
func UnanimousAgreement[T comparable](k int) Node[T] {
	return Node[T]{
		kind:    leafKind,
		label:   fmt.Sprintf("UnanimousAgreement(%d)", k),
		bounded: true,
		eval: func(s sampling.State[T], _ estimation.Estimator[T]) bool {
			if len(s.Samples) < k {
				return false
			}
			first := s.Samples[0]
			for _, v := range s.Samples[1:] {
				if v != first {
					return false
				}
			}
			return true
		},
	}
}

// All stops iff every child predicate wants to stop. All(p) is p.
func All[T any](children ...Node[T]) Node[T] {
	return Node[T]{kind: allKind, children: children}
}

// Any stops iff any child predicate wants to stop. Any(p) is p.
func Any[T any](children ...Node[T]) Node[T] {
	return Node[T]{kind: anyKind, children: children}
}
