package harness

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden(t *testing.T) {
	names := []string{
		"square_plus_one.yaml",
		"fixed_shifted_product.cue",
		"dynamic_sum_of_doubles.yaml",
		"dynamic_mismatch.yaml",
		"sparse_product.yaml",
		"log_zero.yaml",
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario("testdata/scenarios/" + name)
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestAssertGolden_UsesGivenName(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/square_plus_one.yaml")
	require.NoError(t, err)

	result, err := Run(s)
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, "square_plus_one", result))
}

func TestSnapshot_ErrorOmitsValue(t *testing.T) {
	r := &Result{Scenario: "s", Kind: KindDynamic, Error: "boom"}

	snap := r.Snapshot()
	require.Equal(t, map[string]any{"scenario": "s", "kind": KindDynamic, "error": "boom"}, snap)
}

func TestResult_MarshalJSONNonFinite(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/log_zero.yaml")
	require.NoError(t, err)
	result, err := Run(s)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Failures)

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "-Inf", decoded["value"])
	assert.Equal(t, []any{"+Inf"}, decoded["gradient"])
	assert.Equal(t, true, decoded["pass"])
}

func TestResult_MarshalJSONPartials(t *testing.T) {
	r := &Result{
		Scenario: "s",
		Kind:     KindSparse,
		Pass:     true,
		Value:    1.5,
		Partials: map[string]float64{"x": math.NaN(), "y": 2},
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"scenario":"s","kind":"sparse","pass":true,"value":1.5,"partials":{"x":"NaN","y":2}}`, string(data))
}
