package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Scenario describes one differentiation problem: the independent
// variables, a straight-line program over dual operations, and the
// expected value and derivatives of the result.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description" json:"description"`

	// Kind selects the derivative representation: single, fixed, dynamic
	// or sparse.
	Kind string `yaml:"kind" json:"kind"`

	// Variables are the independent variables, in order.
	Variables []Variable `yaml:"variables" json:"variables"`

	// Steps are evaluated in order; each binds its result to Out.
	Steps []Step `yaml:"steps" json:"steps"`

	// Result names the variable or step output that is checked.
	Result string `yaml:"result" json:"result"`

	// Expect holds the expected outcome.
	Expect Expectation `yaml:"expect" json:"expect"`
}

// Variable is an independent variable.
type Variable struct {
	Name  string  `yaml:"name" json:"name"`
	Value float64 `yaml:"value" json:"value"`

	// Group only applies to dynamic scenarios: variables sharing a group
	// are created by one call and share a derivative length. Variables
	// without a group form the default group.
	Group string `yaml:"group,omitempty" json:"group,omitempty"`
}

// Step applies Op to Args and binds the result to Out. Args name earlier
// variables or outputs; constant operations take a numeric literal as
// their last argument.
type Step struct {
	Out  string   `yaml:"out" json:"out"`
	Op   string   `yaml:"op" json:"op"`
	Args []string `yaml:"args" json:"args"`
}

// Expectation lists what the result must satisfy. Unset fields are not
// checked.
type Expectation struct {
	// Value is the expected real part.
	Value *float64 `yaml:"value,omitempty" json:"value,omitempty"`

	// Gradient is the expected derivative vector for single, fixed and
	// dynamic scenarios.
	Gradient []float64 `yaml:"gradient,omitempty" json:"gradient,omitempty"`

	// Partials maps variable names to expected partial derivatives for
	// sparse scenarios. Variables absent from the map must have no stored
	// partial.
	Partials map[string]float64 `yaml:"partials,omitempty" json:"partials,omitempty"`

	// Display is the expected String rendering.
	Display string `yaml:"display,omitempty" json:"display,omitempty"`

	// Error is a substring of the expected evaluation error. When set, the
	// evaluation must fail.
	Error string `yaml:"error,omitempty" json:"error,omitempty"`

	// Tolerance is the absolute tolerance for numeric comparisons.
	// Zero means exact.
	Tolerance float64 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
}

// Scenario kinds.
const (
	KindSingle  = "single"
	KindFixed   = "fixed"
	KindDynamic = "dynamic"
	KindSparse  = "sparse"
)

// Kinds lists the supported scenario kinds.
var Kinds = []string{KindSingle, KindFixed, KindDynamic, KindSparse}

// maxFixedVars is the largest variable count a fixed scenario may use.
const maxFixedVars = 8

// LoadScenario reads a scenario from a .yaml, .yml or .cue file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	switch filepath.Ext(path) {
	case ".cue":
		scenario, err = decodeCUE(path, data)
	case ".yaml", ".yml":
		scenario, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported scenario file extension: %s", path)
	}
	if err != nil {
		return nil, err
	}

	if err := ValidateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// decodeYAML parses YAML with strict field validation, so a typo like
// "variable:" is reported instead of silently ignored.
func decodeYAML(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// decodeCUE unifies the file with the #Scenario schema, so type errors and
// unknown fields are reported with CUE positions.
func decodeCUE(path string, data []byte) (*Scenario, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling scenario schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(path))
	if err := file.Err(); err != nil {
		return nil, fmt.Errorf("failed to parse CUE: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(file)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("scenario does not match schema: %w", err)
	}

	var scenario Scenario
	if err := value.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("decoding CUE scenario: %w", err)
	}
	return &scenario, nil
}

// ValidateScenario checks the fields and the step program: every name is
// bound before use, every op exists and takes the given number of
// arguments.
func ValidateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !slices.Contains(Kinds, s.Kind) {
		return fmt.Errorf("kind must be one of %v, got %q", Kinds, s.Kind)
	}
	if len(s.Variables) == 0 {
		return fmt.Errorf("variables list is required and must be non-empty")
	}
	if s.Result == "" {
		return fmt.Errorf("result is required")
	}

	switch s.Kind {
	case KindSingle:
		if len(s.Variables) != 1 {
			return fmt.Errorf("single scenarios take exactly one variable, got %d", len(s.Variables))
		}
	case KindFixed:
		if len(s.Variables) > maxFixedVars {
			return fmt.Errorf("fixed scenarios take at most %d variables, got %d", maxFixedVars, len(s.Variables))
		}
	}
	if s.Kind != KindDynamic {
		for i, v := range s.Variables {
			if v.Group != "" {
				return fmt.Errorf("variables[%d]: group is only valid for dynamic scenarios", i)
			}
		}
	}

	bound := make(map[string]bool)
	for i, v := range s.Variables {
		if err := checkName(v.Name); err != nil {
			return fmt.Errorf("variables[%d]: %w", i, err)
		}
		if bound[v.Name] {
			return fmt.Errorf("variables[%d]: duplicate name %q", i, v.Name)
		}
		bound[v.Name] = true
	}

	for i, step := range s.Steps {
		if err := checkName(step.Out); err != nil {
			return fmt.Errorf("steps[%d]: out: %w", i, err)
		}
		if bound[step.Out] {
			return fmt.Errorf("steps[%d]: %q is already bound", i, step.Out)
		}
		op, ok := lookupOp(step.Op)
		if !ok {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
		if err := op.checkArgs(step.Args, bound); err != nil {
			return fmt.Errorf("steps[%d] (%s): %w", i, step.Op, err)
		}
		bound[step.Out] = true
	}

	if !bound[s.Result] {
		return fmt.Errorf("result %q is not bound", s.Result)
	}

	exp := s.Expect
	if exp.Tolerance < 0 {
		return fmt.Errorf("expect.tolerance must be non-negative")
	}
	if s.Kind == KindSparse && len(exp.Gradient) > 0 {
		return fmt.Errorf("expect.gradient is not valid for sparse scenarios, use partials")
	}
	if s.Kind != KindSparse && len(exp.Partials) > 0 {
		return fmt.Errorf("expect.partials is only valid for sparse scenarios")
	}
	for name := range exp.Partials {
		if !slices.ContainsFunc(s.Variables, func(v Variable) bool { return v.Name == name }) {
			return fmt.Errorf("expect.partials: %q is not a variable", name)
		}
	}

	return nil
}

func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if strings.ContainsAny(name, " \t\n") {
		return fmt.Errorf("name %q must not contain whitespace", name)
	}
	if _, err := parseLiteral(name); err == nil {
		return fmt.Errorf("name %q must not be a number", name)
	}
	return nil
}
