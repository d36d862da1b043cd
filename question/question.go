// Package question binds a parser, an estimator and a stopping predicate
// to a single prompt (spec.md §4.4), and collects questions of differing
// value types into a Bank the engine can drive uniformly. The engine is
// generic over T per question, not unified across questions (spec.md §9):
// Bank erases T behind the Handle interface.
package question

import (
	"github.com/JamesAIzzard/winnow/apperrors"
	"github.com/JamesAIzzard/winnow/estimation"
	"github.com/JamesAIzzard/winnow/parsing"
	"github.com/JamesAIzzard/winnow/stopping"
)

// Question is the concrete triple bound to one prompt: a parser and
// estimator over the same value type T, and a stopping predicate that
// decides when sampling is done.
type Question[T any] struct {
	ID        string
	Prompt    string
	Parser    parsing.Parser[T]
	Estimator estimation.Estimator[T]
	Stopping  stopping.Node[T]
}

// New validates and builds a Question. A question with an empty id is a
// programmer error, signalled eagerly rather than surfacing later as a
// malformed bank entry.
func New[T any](id, prompt string, parser parsing.Parser[T], estimator estimation.Estimator[T], stop stopping.Node[T]) (*Question[T], error) {
	if id == "" {
		return nil, apperrors.New("question id must not be empty", apperrors.CodeEmptyQuestionID)
	}
	return &Question[T]{
		ID:        id,
		Prompt:    prompt,
		Parser:    parser,
		Estimator: estimator,
		Stopping:  stop,
	}, nil
}
