package question

import (
	"math/rand"
	"testing"

	"github.com/JamesAIzzard/winnow/apperrors"
	"github.com/JamesAIzzard/winnow/estimation"
	"github.com/JamesAIzzard/winnow/parsing"
	"github.com/JamesAIzzard/winnow/stopping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeterministicRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}

func TestNew_RejectsEmptyID(t *testing.T) {
	_, err := New[float64]("", "how much protein?", parsing.NewFloatParser(nil), estimation.Numerical{}, stopping.StandardNumerical())
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeEmptyQuestionID, appErr.Code)
}

func newNumericalQuestion(t *testing.T, id string) *Question[float64] {
	t.Helper()
	q, err := New[float64](id, "protein grams?", parsing.NewFloatParser(nil), estimation.Numerical{}, stopping.StandardNumerical())
	require.NoError(t, err)
	return q
}

func TestBank_AddRejectsDuplicateID(t *testing.T) {
	b := NewBank()
	require.NoError(t, Add(b, newNumericalQuestion(t, "protein")))

	err := Add(b, newNumericalQuestion(t, "protein"))
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeDuplicateQuestionID, appErr.Code)
}

func TestBank_ValidateRejectsEmptyBank(t *testing.T) {
	b := NewBank()
	err := b.Validate()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeEmptyBank, appErr.Code)

	require.NoError(t, Add(b, newNumericalQuestion(t, "protein")))
	assert.NoError(t, b.Validate())
}

func TestBank_ValidateRejectsMalformedStopping(t *testing.T) {
	b := NewBank()
	// An empty Any never fires: without this check, the question would
	// stay incomplete forever and Collect would loop issuing oracle
	// calls without end.
	q, err := New[float64]("protein", "protein grams?", parsing.NewFloatParser(nil), estimation.Numerical{}, stopping.Any[float64]())
	require.NoError(t, err)
	require.NoError(t, Add(b, q))

	err = b.Validate()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeMalformedStopping, appErr.Code)
}

func TestBank_ValidateAggregatesMultipleMalformedQuestions(t *testing.T) {
	b := NewBank()
	bad1, err := New[float64]("a", "a?", parsing.NewFloatParser(nil), estimation.Numerical{}, stopping.Any[float64]())
	require.NoError(t, err)
	require.NoError(t, Add(b, bad1))

	bad2, err := New[float64]("b", "b?", parsing.NewFloatParser(nil), estimation.Numerical{}, stopping.ConfidenceReached[float64](0.9))
	require.NoError(t, err)
	require.NoError(t, Add(b, bad2))

	err = b.Validate()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeMalformedStopping, appErr.Code)
	assert.Contains(t, appErr.Message, "no bound-bearing primitive")
}

func TestTracker_ApplyAndFinalize_InsufficientData(t *testing.T) {
	b := NewBank()
	require.NoError(t, Add(b, newNumericalQuestion(t, "protein")))
	h := b.Handles()[0]

	for i := 0; i < 5; i++ {
		outcome := h.Apply("UNKNOWN")
		assert.Equal(t, parsing.OutcomeDecline, outcome)
	}

	assert.True(t, h.IsComplete(), "ConsecutiveDeclines(5) should have fired")
	est := h.Finalize()
	assert.Equal(t, InsufficientData, est.Archetype)
	assert.Nil(t, est.Value)
	assert.Equal(t, 0.0, est.Confidence)
	assert.Equal(t, 5, est.DeclineCount)
	assert.Equal(t, 0, est.SampleCount)
}

func TestTracker_ApplyAndFinalize_ConfidentNumerical(t *testing.T) {
	b := NewBank()
	require.NoError(t, Add(b, newNumericalQuestion(t, "protein")))
	h := b.Handles()[0]

	responses := []string{"31", "31", "29", "31", "280", "30"}
	for _, r := range responses {
		if h.IsComplete() {
			break
		}
		h.Apply(r)
	}

	snap := h.Snapshot()
	assert.Equal(t, "protein", snap.QuestionID)

	est := h.Finalize()
	assert.Equal(t, float64(31), est.Value)
	assert.GreaterOrEqual(t, est.Confidence, 0.0)
	assert.Equal(t, Confident, est.Archetype, "5 queries is well inside 0.75 of the MaxQueries(20) budget")
}

func TestBank_SelectNext_SkipsCompleteAndExcluded(t *testing.T) {
	b := NewBank()
	require.NoError(t, Add(b, newNumericalQuestion(t, "a")))
	require.NoError(t, Add(b, newNumericalQuestion(t, "b")))

	rng := newDeterministicRand()
	h, ok := b.SelectNext(rng, func(id string) bool { return id == "a" })
	require.True(t, ok)
	assert.Equal(t, "b", h.ID())
}
