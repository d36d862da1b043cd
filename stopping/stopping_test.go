package stopping

import (
	"testing"

	"github.com/JamesAIzzard/winnow/apperrors"
	"github.com/JamesAIzzard/winnow/estimation"
	"github.com/JamesAIzzard/winnow/sampling"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinSamples(t *testing.T) {
	p := MinSamples[float64](3)
	est := estimation.Numerical{}

	s := sampling.State[float64]{}.WithSuccess(1).WithSuccess(2)
	assert.False(t, p.ShouldStop(s, est))

	s = s.WithSuccess(3)
	assert.True(t, p.ShouldStop(s, est))
}

func TestMaxQueries_CountsAllAttempts(t *testing.T) {
	p := MaxQueries[float64](3)
	est := estimation.Numerical{}

	s := sampling.State[float64]{}.WithDecline().WithParseFailure()
	assert.False(t, p.ShouldStop(s, est))

	s = s.WithDecline()
	assert.True(t, p.ShouldStop(s, est))
}

func TestConsecutiveDeclines(t *testing.T) {
	p := ConsecutiveDeclines[float64](3)
	est := estimation.Numerical{}

	s := sampling.State[float64]{}.WithDecline().WithDecline().WithParseFailure().WithDecline()
	assert.False(t, p.ShouldStop(s, est), "streak was reset by the parse failure, then went 1")
}

func TestUnanimousAgreement(t *testing.T) {
	p := UnanimousAgreement[bool](3)
	est := estimation.Boolean{}

	s := sampling.State[bool]{}.WithSuccess(true).WithSuccess(true)
	assert.False(t, p.ShouldStop(s, est))

	s = s.WithSuccess(true)
	assert.True(t, p.ShouldStop(s, est))

	mixed := sampling.State[bool]{}.WithSuccess(true).WithSuccess(false).WithSuccess(true)
	assert.False(t, p.ShouldStop(mixed, est))
}

func TestConfidenceReached_UsesRawConfidence(t *testing.T) {
	p := ConfidenceReached[float64](0.5)
	est := estimation.Numerical{}

	s := sampling.State[float64]{}.WithSuccess(10) // only one sample
	assert.False(t, p.ShouldStop(s, est), "requires at least 2 samples")

	s = s.WithSuccess(10).WithSuccess(10)
	assert.True(t, p.ShouldStop(s, est))
}

func TestAllAndAny_Identities(t *testing.T) {
	est := estimation.Numerical{}
	s := sampling.State[float64]{}.WithSuccess(1).WithSuccess(2).WithSuccess(3)

	p := MinSamples[float64](3)
	assert.Equal(t, p.ShouldStop(s, est), All(p).ShouldStop(s, est))
	assert.Equal(t, p.ShouldStop(s, est), Any(p).ShouldStop(s, est))
}

func TestThreshold_WalksCompositionForMax(t *testing.T) {
	node := Any(
		All(MinSamples[float64](5), ConfidenceReached[float64](0.90)),
		ConfidenceReached[float64](0.95),
	)
	theta, ok := node.Threshold()
	assert.True(t, ok)
	assert.InDelta(t, 0.95, theta, 1e-9)
}

func TestThreshold_NoneFound(t *testing.T) {
	node := Any(MinSamples[float64](5), MaxQueries[float64](10))
	_, ok := node.Threshold()
	assert.False(t, ok)
}

func TestMaxQueriesBound_WalksComposition(t *testing.T) {
	node := StandardNumerical()
	mq, ok := node.MaxQueriesBound()
	assert.True(t, ok)
	assert.Equal(t, 20, mq)
}

func TestDescribe(t *testing.T) {
	node := Any(All(MinSamples[float64](5), ConfidenceReached[float64](0.9)), MaxQueries[float64](20))
	desc := Describe(node)
	assert.Contains(t, desc, "MinSamples(5)")
	assert.Contains(t, desc, "ConfidenceReached(0.90)")
	assert.Contains(t, desc, "MaxQueries(20)")
}

func TestValidate_RejectsEmptyAny(t *testing.T) {
	// An empty Any never fires (the loop body never runs), so a question
	// bound to it would be incomplete forever and Collect would spin
	// issuing oracle calls without end.
	node := Any[float64]()
	err := node.Validate()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeMalformedStopping, appErr.Code)
}

func TestValidate_RejectsEmptyAll(t *testing.T) {
	node := All[float64]()
	err := node.Validate()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeMalformedStopping, appErr.Code)
}

func TestValidate_RejectsEmptyCombinatorNestedInAComposition(t *testing.T) {
	node := Any(MaxQueries[float64](10), All[float64]())
	err := node.Validate()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeMalformedStopping, appErr.Code)
}

func TestValidate_RejectsCompositionWithNoBoundPrimitive(t *testing.T) {
	// ConfidenceReached alone never guarantees termination: confidence
	// may never reach theta.
	node := Any(ConfidenceReached[float64](0.9), ConfidenceReached[float64](0.5))
	err := node.Validate()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeMalformedStopping, appErr.Code)
}

func TestValidate_AcceptsStandardAndRelaxedCompositions(t *testing.T) {
	assert.NoError(t, StandardNumerical().Validate())
	assert.NoError(t, StandardCategorical[bool]().Validate())
	assert.NoError(t, RelaxedNumerical().Validate())
	assert.NoError(t, RelaxedCategorical[bool]().Validate())
}

func TestValidate_AcceptsSingleBoundPrimitive(t *testing.T) {
	assert.NoError(t, MaxQueries[float64](5).Validate())
	assert.NoError(t, ConsecutiveDeclines[float64](5).Validate())
	assert.NoError(t, UnanimousAgreement[bool](3).Validate())
	assert.NoError(t, MinSamples[float64](5).Validate())
}
