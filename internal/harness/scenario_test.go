package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario_YAML(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/square_plus_one.yaml")
	require.NoError(t, err)

	assert.Equal(t, "square_plus_one", s.Name)
	assert.Equal(t, KindSingle, s.Kind)
	require.Len(t, s.Variables, 1)
	assert.Equal(t, Variable{Name: "x", Value: 2}, s.Variables[0])
	require.Len(t, s.Steps, 2)
	assert.Equal(t, Step{Out: "f", Op: "add_const", Args: []string{"sq", "1"}}, s.Steps[1])
	assert.Equal(t, "f", s.Result)
	require.NotNil(t, s.Expect.Value)
	assert.Equal(t, 5.0, *s.Expect.Value)
	assert.Equal(t, []float64{4}, s.Expect.Gradient)
	assert.Equal(t, "5+4∆", s.Expect.Display)
}

func TestLoadScenario_CUE(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/fixed_shifted_product.cue")
	require.NoError(t, err)

	assert.Equal(t, "fixed_shifted_product", s.Name)
	assert.Equal(t, KindFixed, s.Kind)
	assert.Equal(t, []Variable{{Name: "x", Value: 2}, {Name: "y", Value: 3}}, s.Variables)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, []string{"y", "1"}, s.Steps[0].Args)
	require.NotNil(t, s.Expect.Value)
	assert.Equal(t, 4.0, *s.Expect.Value)
	assert.Equal(t, []float64{2, 2}, s.Expect.Gradient)
}

func TestLoadScenario_CUEPartials(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/sparse_cancellation.cue")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{"y": 1}, s.Expect.Partials)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing file", "testdata/scenarios/nope.yaml", "failed to read"},
		{"unknown yaml field", "testdata/invalid/unknown_field.yaml", "failed to parse YAML"},
		{"cue kind outside schema", "testdata/invalid/bad_kind.cue", "does not match schema"},
		{"cue field outside schema", "testdata/invalid/closed.cue", "does not match schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scenario file extension")
}

func TestLoadScenario_ValidationRunsAfterDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unbound.yaml")
	content := `name: unbound
kind: single
variables:
  - {name: x, value: 1}
steps:
  - {out: f, op: mul, args: [x, y]}
result: f
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario")
	assert.Contains(t, err.Error(), `"y" is not bound`)
}

func validScenario() *Scenario {
	return &Scenario{
		Name: "valid",
		Kind: KindFixed,
		Variables: []Variable{
			{Name: "x", Value: 1},
			{Name: "y", Value: 2},
		},
		Steps: []Step{
			{Out: "p", Op: "mul", Args: []string{"x", "y"}},
			{Out: "f", Op: "add_const", Args: []string{"p", "1.5"}},
		},
		Result: "f",
	}
}

func TestValidateScenario(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scenario)
		want   string
	}{
		{"missing name", func(s *Scenario) { s.Name = "" }, "name is required"},
		{"bad kind", func(s *Scenario) { s.Kind = "tensor" }, "kind must be one of"},
		{"no variables", func(s *Scenario) { s.Variables = nil }, "variables list is required"},
		{"missing result", func(s *Scenario) { s.Result = "" }, "result is required"},
		{"unbound result", func(s *Scenario) { s.Result = "g" }, `result "g" is not bound`},
		{"duplicate variable", func(s *Scenario) { s.Variables[1].Name = "x" }, "duplicate name"},
		{"numeric name", func(s *Scenario) { s.Variables[0].Name = "42" }, "must not be a number"},
		{"rebinding", func(s *Scenario) { s.Steps[0].Out = "x" }, "already bound"},
		{"unknown op", func(s *Scenario) { s.Steps[0].Op = "gamma" }, `unknown op "gamma"`},
		{"arity", func(s *Scenario) { s.Steps[0].Args = []string{"x"} }, "takes 2 argument(s), got 1"},
		{"unbound arg", func(s *Scenario) { s.Steps[0].Args = []string{"x", "z"} }, `"z" is not bound`},
		{"forward reference", func(s *Scenario) { s.Steps[0].Args = []string{"x", "f"} }, `"f" is not bound`},
		{"bad literal", func(s *Scenario) { s.Steps[1].Args[1] = "one" }, "must be a number"},
		{"bad integer", func(s *Scenario) {
			s.Steps[1] = Step{Out: "f", Op: "pow_int", Args: []string{"p", "1.5"}}
		}, "must be an integer"},
		{"empty variadic", func(s *Scenario) {
			s.Steps[1] = Step{Out: "f", Op: "sum"}
		}, "at least one argument"},
		{"group outside dynamic", func(s *Scenario) { s.Variables[0].Group = "a" }, "group is only valid"},
		{"single with two variables", func(s *Scenario) { s.Kind = KindSingle }, "exactly one variable"},
		{"too many fixed", func(s *Scenario) {
			for i := 0; i < maxFixedVars; i++ {
				s.Variables = append(s.Variables, Variable{Name: "v" + string(rune('a'+i))})
			}
		}, "at most 8 variables"},
		{"negative tolerance", func(s *Scenario) { s.Expect.Tolerance = -1 }, "non-negative"},
		{"partials outside sparse", func(s *Scenario) {
			s.Expect.Partials = map[string]float64{"x": 1}
		}, "only valid for sparse"},
		{"gradient on sparse", func(s *Scenario) {
			s.Kind = KindSparse
			s.Expect.Gradient = []float64{1, 2}
		}, "use partials"},
		{"partials for unknown variable", func(s *Scenario) {
			s.Kind = KindSparse
			s.Expect.Partials = map[string]float64{"p": 1}
		}, `"p" is not a variable`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validScenario()
			tt.mutate(s)
			err := ValidateScenario(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateScenario_Valid(t *testing.T) {
	require.NoError(t, ValidateScenario(validScenario()))
}

func TestValidateScenario_AllTestdataScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			_, err := LoadScenario(path)
			require.NoError(t, err)
		})
	}
}
