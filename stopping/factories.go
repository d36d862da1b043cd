package stopping

// StandardNumerical is the convenience composition from spec.md §4.3:
// (MinSamples(5) ∧ ConfidenceReached(0.90)) ∨ MaxQueries(20) ∨
// ConsecutiveDeclines(5).
func StandardNumerical() Node[float64] {
	return Any(
		All(MinSamples[float64](5), ConfidenceReached[float64](0.90)),
		MaxQueries[float64](20),
		ConsecutiveDeclines[float64](5),
	)
}

// StandardCategorical is the convenience composition from spec.md §4.3:
// UnanimousAgreement(3) ∨ (MinSamples(5) ∧ ConfidenceReached(0.85)) ∨
// MaxQueries(15).
func StandardCategorical[T comparable]() Node[T] {
	return Any(
		UnanimousAgreement[T](3),
		All(MinSamples[T](5), ConfidenceReached[T](0.85)),
		MaxQueries[T](15),
	)
}

// RelaxedNumerical is StandardNumerical with a lower confidence threshold
// (θ=0.75) and tighter budgets, for questions where a faster, less
// certain answer is acceptable.
func RelaxedNumerical() Node[float64] {
	return Any(
		All(MinSamples[float64](3), ConfidenceReached[float64](0.75)),
		MaxQueries[float64](12),
		ConsecutiveDeclines[float64](4),
	)
}

// RelaxedCategorical mirrors RelaxedNumerical for categorical questions.
func RelaxedCategorical[T comparable]() Node[T] {
	return Any(
		UnanimousAgreement[T](2),
		All(MinSamples[T](3), ConfidenceReached[T](0.75)),
		MaxQueries[T](10),
	)
}
