package snapshot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"bool", true, "true"},
		{"float integral", 4.0, "4"},
		{"float fraction", 0.25, "0.25"},
		{"float32", float32(0.5), "0.5"},
		{"empty array", []any{}, "[]"},
		{"gradient", []float64{2, 2}, "[2,2]"},
		{"empty object", map[string]any{}, "{}"},
		{"partials", map[string]float64{"y": 2, "x": 3}, `{"x":3,"y":2}`},
		{"display", "4+[2.0, 2.0]∆", `"4+[2.0, 2.0]∆"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalNestedSortedKeys(t *testing.T) {
	obj := map[string]any{
		"value":    6.0,
		"gradient": []float64{3, 2},
		"meta": map[string]any{
			"kind": "fixed",
			"name": "product",
		},
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"gradient":[3,2],"meta":{"kind":"fixed","name":"product"},"value":6}`, string(result))
}

func TestMarshalRejects(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, "null"},
		{"nested unsupported", []any{1.0, struct{}{}}, "array[1]"},
		{"nested null", map[string]any{"a": nil}, `value for key "a"`},
		{"unsupported", struct{}{}, "unsupported type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMarshalNonFinite(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nan", math.NaN(), `"NaN"`},
		{"positive infinity", math.Inf(1), `"+Inf"`},
		{"negative infinity", math.Inf(-1), `"-Inf"`},
		{"gradient", []float64{1, math.Inf(1)}, `[1,"+Inf"]`},
		{"partials", map[string]float64{"x": math.NaN()}, `{"x":"NaN"}`},
		{"float32", float32(math.Inf(-1)), `"-Inf"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 2.5, Number(2.5))
	assert.Equal(t, "NaN", Number(math.NaN()))
	assert.Equal(t, "+Inf", Number(math.Inf(1)))
	assert.Equal(t, "-Inf", Number(math.Inf(-1)))
}

func TestMarshalNoHTMLEscaping(t *testing.T) {
	result, err := Marshal("a<b && c>d")
	require.NoError(t, err)
	assert.Equal(t, `"a<b && c>d"`, string(result))
}

func TestMarshalNFCNormalization(t *testing.T) {
	// e followed by a combining acute accent normalizes to the precomposed form.
	decomposed := "e\u0301"
	composed := "\u00e9"

	a, err := Marshal(decomposed)
	require.NoError(t, err)
	b, err := Marshal(composed)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestMarshalLineSeparatorsUnescaped(t *testing.T) {
	result, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))

	literal, err := Marshal(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(literal))
}

func TestSortKeysUTF16(t *testing.T) {
	// U+FFFF sorts after U+1F600 in UTF-8 but before it in UTF-16, where the
	// emoji is a surrogate pair starting at 0xD83D.
	keys := []string{"\uffff", "\U0001F600", "a"}
	SortKeys(keys)
	assert.Equal(t, []string{"a", "\U0001F600", "\uffff"}, keys)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e-6, "0.000001"},
		{1e-7, "1e-7"},
		{1.5e-7, "1.5e-7"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{-1.25e300, "-1.25e+300"},
		{5e-324, "5e-324"},
	}

	for _, tt := range tests {
		got, err := FormatNumber(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "FormatNumber(%g)", tt.in)
	}

	_, err := FormatNumber(math.NaN())
	assert.Error(t, err)
	_, err = FormatNumber(math.Inf(1))
	assert.Error(t, err)
}
