package harness

import (
	"encoding/json"

	"github.com/roach88/autodual/internal/snapshot"
)

// Result is the outcome of evaluating a scenario.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Kind is the derivative representation used.
	Kind string `json:"kind"`

	// Pass indicates that every expectation matched.
	Pass bool `json:"pass"`

	// Value is the real part of the result.
	Value float64 `json:"value"`

	// Gradient holds the derivative entries for single, fixed and dynamic
	// scenarios. Empty for dynamic constants.
	Gradient []float64 `json:"gradient,omitempty"`

	// Partials holds the stored partials of a sparse result by variable
	// name.
	Partials map[string]float64 `json:"partials,omitempty"`

	// Display is the String rendering of the result.
	Display string `json:"display,omitempty"`

	// Error is the evaluation error, if the program failed (for example
	// a dynamic length mismatch). No value is reported in that case.
	Error string `json:"error,omitempty"`

	// Failures lists unmet expectations. Empty if Pass is true.
	Failures []string `json:"failures,omitempty"`
}

// MarshalJSON encodes NaN and ±Inf as the strings snapshots use, since JSON
// numbers cannot represent them.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	out := struct {
		plain
		Value    any            `json:"value"`
		Gradient []any          `json:"gradient,omitempty"`
		Partials map[string]any `json:"partials,omitempty"`
	}{plain: plain(r), Value: snapshot.Number(r.Value)}
	for _, d := range r.Gradient {
		out.Gradient = append(out.Gradient, snapshot.Number(d))
	}
	if len(r.Partials) > 0 {
		out.Partials = make(map[string]any, len(r.Partials))
		for name, d := range r.Partials {
			out.Partials[name] = snapshot.Number(d)
		}
	}
	return json.Marshal(out)
}

// NewResult creates a passing result for the named scenario.
func NewResult(scenario, kind string) *Result {
	return &Result{
		Scenario: scenario,
		Kind:     kind,
		Pass:     true,
	}
}

// AddFailure records an unmet expectation and marks the result as failed.
func (r *Result) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
	r.Pass = false
}

// Snapshot returns the evaluation outcome as a map suitable for canonical
// JSON. Pass and Failures are excluded: the snapshot records what was
// computed, not what was expected.
func (r *Result) Snapshot() map[string]any {
	snap := map[string]any{
		"scenario": r.Scenario,
		"kind":     r.Kind,
	}
	if r.Error != "" {
		snap["error"] = r.Error
		return snap
	}
	snap["value"] = r.Value
	snap["display"] = r.Display
	if r.Kind == KindSparse {
		partials := make(map[string]any, len(r.Partials))
		for name, d := range r.Partials {
			partials[name] = d
		}
		snap["partials"] = partials
	} else {
		gradient := make([]any, len(r.Gradient))
		for i, d := range r.Gradient {
			gradient[i] = d
		}
		snap["gradient"] = gradient
	}
	return snap
}
