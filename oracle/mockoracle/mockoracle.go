// Package mockoracle provides a deterministic, in-process stand-in for a
// stochastic oracle, grounded in the teacher's mock_llm_service.go (a
// canned-response HTTP stub used in place of a real model during
// development). This package skips the HTTP hop entirely and returns
// queued responses directly; the reference CLI uses it as its default
// backend. The engine's own tests use a separate scripted oracle of the
// same shape, defined in engine_test.go.
package mockoracle

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
)

// Oracle replays a fixed, per-prompt script of responses. Once a
// prompt's script is exhausted, it falls back to DefaultResponse
// (typically a decline keyword) rather than erroring, so a bank with a
// lax stopping predicate behaves like a real oracle that ran out of
// novel things to say.
type Oracle struct {
	mu              sync.Mutex
	script          map[string][]string
	calls           map[string]int
	DefaultResponse string
}

// New builds a scripted Oracle. script maps an exact prompt string to
// the ordered list of responses it should return on successive calls.
func New(script map[string][]string) *Oracle {
	return &Oracle{
		script:          script,
		calls:           make(map[string]int),
		DefaultResponse: "UNKNOWN",
	}
}

// Query implements engine.Oracle.
func (o *Oracle) Query(_ context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	responses := o.script[prompt]
	i := o.calls[prompt]
	o.calls[prompt] = i + 1
	if i >= len(responses) {
		return o.DefaultResponse, nil
	}
	return responses[i], nil
}

// CallCount reports how many times prompt has been queried so far.
func (o *Oracle) CallCount(prompt string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls[prompt]
}

// WeightedOracle samples from a weighted distribution of candidate
// responses per prompt, for exercising estimator/stopping behaviour
// against noisier response streams than a fixed script allows.
type WeightedOracle struct {
	mu        sync.Mutex
	rng       *rand.Rand
	responses map[string][]WeightedResponse
}

// WeightedResponse is one candidate response and its relative weight.
type WeightedResponse struct {
	Response string
	Weight   float64
}

// NewWeighted builds a WeightedOracle. rng is injected so tests can seed
// it deterministically, matching the engine's own randomised-selection
// contract (spec.md §4.4).
func NewWeighted(rng *rand.Rand, responses map[string][]WeightedResponse) *WeightedOracle {
	return &WeightedOracle{rng: rng, responses: responses}
}

// Query implements engine.Oracle.
func (o *WeightedOracle) Query(_ context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	candidates := o.responses[prompt]
	if len(candidates) == 0 {
		return "", fmt.Errorf("mockoracle: no candidate responses registered for prompt %q", prompt)
	}

	var total float64
	for _, c := range candidates {
		total += c.Weight
	}
	target := o.rng.Float64() * total
	for _, c := range candidates {
		target -= c.Weight
		if target <= 0 {
			return c.Response, nil
		}
	}
	return candidates[len(candidates)-1].Response, nil
}
