package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("question id must not be empty", CodeEmptyQuestionID)
	assert.Equal(t, "empty_question_id: question id must not be empty", e.Error())
}

func TestAppError_Is(t *testing.T) {
	a := New("dup", CodeDuplicateQuestionID)
	b := New("dup", CodeDuplicateQuestionID)
	c := New("other", CodeEmptyBank)

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
	assert.False(t, errors.Is(a, errors.New("plain error")))
}

func TestHandleError(t *testing.T) {
	assert.Nil(t, HandleError(nil, "ignored"))

	cause := errors.New("boom")
	wrapped := HandleError(cause, "oracle query failed")
	assert.Equal(t, CodeInternal, wrapped.Code)
	assert.Equal(t, "oracle query failed", wrapped.Message)
	assert.True(t, errors.Is(wrapped, cause), "the original cause must stay reachable through Unwrap")

	noDefault := HandleError(cause, "")
	assert.Equal(t, "boom", noDefault.Message, "falls back to err.Error() when no default message is given")

	original := New("already typed", CodeMalformedStopping)
	assert.Same(t, original, HandleError(original, "unused"))
}

func TestJoin(t *testing.T) {
	assert.Nil(t, Join())
	assert.Nil(t, Join(nil, nil))

	joined := Join(
		New("first", CodeDuplicateQuestionID),
		errors.New("plain"),
		nil,
	)
	assert.Equal(t, CodeDuplicateQuestionID, joined.Code)
	assert.Contains(t, joined.Message, "first")
	assert.Contains(t, joined.Message, "plain")
}
