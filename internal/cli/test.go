package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/autodual/internal/harness"
	"github.com/roach88/autodual/internal/snapshot"
	"github.com/roach88/autodual/internal/store"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update   bool   // regenerate golden files
	Filter   string // scenario filter (glob pattern)
	Parallel int    // concurrent evaluations
	Database string // optional run history database
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	File   string   `json:"file"`
	Pass   bool     `json:"pass"`
	Code   string   `json:"code,omitempty"` // why the scenario failed: E201, E202, E203 or E007
	Errors []string `json:"errors,omitempty"`
	RunID  string   `json:"run_id,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
	Recorded  int              `json:"recorded,omitempty"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <path>...",
		Short: "Run scenario files and check expectations",
		Long: `Run scenario files (YAML or CUE) and check their expectations.

Each path may be a scenario file or a directory, which is searched
recursively. Scenarios are evaluated concurrently. When a golden file
exists in a sibling golden/ directory, the canonical snapshot of the
result must match it byte for byte.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, database error, etc.)

Examples:
  autodual test ./scenarios
  autodual test ./scenarios --filter "sparse_*"
  autodual test ./scenarios --update
  autodual test ./scenarios --db ./runs.db --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "maximum concurrent evaluations (0 = unbounded)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")

	return cmd
}

// loadedScenario pairs a scenario with the file it came from.
type loadedScenario struct {
	file     string
	scenario *harness.Scenario
}

func runTests(opts *TestOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, formatter.GetErrWriter())

	files, err := findScenarioFiles(paths, opts.Filter)
	if err != nil {
		var pe *pathError
		if errors.As(err, &pe) {
			return formatter.fail(ExitCommandError, ErrCodeNotFound, pe.Error(), nil)
		}
		return formatter.fail(ExitCommandError, ErrCodeScanError, "failed to find scenarios", err)
	}

	if len(files) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No scenarios found.")
		return nil
	}
	formatter.VerboseLog("Found %d scenario file(s)", len(files))

	result := TestResult{
		Scenarios: make([]ScenarioResult, len(files)),
		Total:     len(files),
	}

	// Load failures are reported per scenario; the rest are evaluated.
	var loaded []loadedScenario
	index := make(map[string]int, len(files))
	for i, file := range files {
		index[file] = i
		scenario, err := harness.LoadScenario(file)
		if err != nil {
			result.Scenarios[i] = ScenarioResult{
				Name:   filepath.Base(file),
				File:   file,
				Code:   ErrCodeInvalidScenario,
				Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
			}
			continue
		}
		loaded = append(loaded, loadedScenario{file: file, scenario: scenario})
	}

	scenarios := make([]*harness.Scenario, len(loaded))
	for i, l := range loaded {
		scenarios[i] = l.scenario
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	h := harness.New(harness.WithLogger(logger))
	results, err := h.RunAll(ctx, scenarios, opts.Parallel)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "failed to run scenarios", err)
	}

	for i, r := range results {
		file := loaded[i].file
		sr := ScenarioResult{
			Name:   r.Scenario,
			File:   file,
			Pass:   r.Pass,
			Errors: r.Failures,
		}
		if !r.Pass {
			sr.Code = ErrCodeScenarioFailed
		}
		if code, msg := checkGolden(file, r, opts.Update); msg != "" {
			sr.Pass = false
			if sr.Code == "" {
				sr.Code = code
			}
			sr.Errors = append(sr.Errors, msg)
		}
		result.Scenarios[index[file]] = sr
	}

	if opts.Database != "" {
		recorded, err := recordRuns(ctx, opts.Database, loaded, results, result.Scenarios, index, logger)
		if err != nil {
			return formatter.fail(ExitCommandError, ErrCodeStore, "failed to record runs", err)
		}
		result.Recorded = recorded
	}

	for _, sr := range result.Scenarios {
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result, opts.Update)
}

// checkGolden compares the canonical snapshot of r with the scenario's
// golden file, or rewrites it when update is set. It returns an error code
// and failure message, or "" if the snapshot matches or no golden file
// exists.
func checkGolden(scenarioFile string, r *harness.Result, update bool) (code, msg string) {
	current, err := snapshot.Marshal(r.Snapshot())
	if err != nil {
		return ErrCodeGeneric, fmt.Sprintf("failed to marshal snapshot: %v", err)
	}

	goldenPath := goldenFilePath(scenarioFile)
	if update {
		if err := os.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
			return ErrCodeWriteFailed, fmt.Sprintf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(goldenPath, current, 0644); err != nil {
			return ErrCodeWriteFailed, fmt.Sprintf("failed to write golden file: %v", err)
		}
		return "", ""
	}

	golden, err := os.ReadFile(goldenPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", ""
	}
	if err != nil {
		return ErrCodeGeneric, fmt.Sprintf("failed to read golden file: %v", err)
	}
	if !bytes.Equal(golden, current) {
		return ErrCodeGoldenMismatch, "snapshot does not match golden file (run with --update to regenerate)"
	}
	return "", ""
}

// failureCode is the code shared by every failed scenario, or E202 when
// they failed for different reasons.
func failureCode(scenarios []ScenarioResult) string {
	code := ""
	for _, sr := range scenarios {
		if sr.Pass {
			continue
		}
		if code != "" && sr.Code != code {
			return ErrCodeScenarioFailed
		}
		code = sr.Code
	}
	if code == "" {
		return ErrCodeScenarioFailed
	}
	return code
}

// recordRuns stores one run per evaluated scenario and fills in the run
// IDs. It returns the number of runs that were not already recorded.
func recordRuns(ctx context.Context, path string, loaded []loadedScenario, results []*harness.Result, out []ScenarioResult, index map[string]int, logger *slog.Logger) (int, error) {
	st, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	recorded := 0
	for i, r := range results {
		sr := &out[index[loaded[i].file]]
		run, err := store.NewRun(r.Scenario, r.Kind, sr.Pass, r.Snapshot(), sr.Errors)
		if err != nil {
			return recorded, err
		}
		inserted, err := st.Record(ctx, run)
		if err != nil {
			return recorded, err
		}
		sr.RunID = run.ID
		if inserted {
			recorded++
		}
		logger.Debug("run recorded", "scenario", r.Scenario, "id", run.ID, "new", inserted)
	}
	return recorded, nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    failureCode(result.Scenarios),
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}

	if err := writeJSON(cmd.OutOrStdout(), response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result TestResult, updated bool) error {
	w := cmd.OutOrStdout()

	for _, sr := range result.Scenarios {
		switch {
		case sr.Pass && updated:
			fmt.Fprintf(w, "✓ %s (golden updated)\n", sr.Name)
		case sr.Pass:
			fmt.Fprintf(w, "✓ %s\n", sr.Name)
		default:
			fmt.Fprintf(w, "✗ %s\n", sr.Name)
			for _, e := range sr.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Recorded > 0 {
		fmt.Fprintf(w, "Recorded %d new run(s)\n", result.Recorded)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
