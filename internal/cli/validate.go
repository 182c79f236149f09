package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/autodual/internal/harness"
)

// ValidationError describes one scenario file that failed to load.
type ValidationError struct {
	File    string `json:"file"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Files  int               `json:"files"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate scenario files without evaluating them",
		Long: `Validate scenario files without evaluating them.

YAML files are decoded strictly (unknown fields are errors) and CUE files
are unified with the scenario schema. Every scenario is then checked for
a known kind, well-formed variables, known operations with the right
arity, and references to bound names only. Faster than test for
development feedback.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, filter, cmd)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "filter scenarios by glob pattern")

	return cmd
}

func runValidate(opts *RootOptions, paths []string, filter string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	files, err := findScenarioFiles(paths, filter)
	if err != nil {
		var pe *pathError
		if errors.As(err, &pe) {
			return formatter.fail(ExitCommandError, ErrCodeNotFound, pe.Error(), nil)
		}
		return formatter.fail(ExitCommandError, ErrCodeScanError, "failed to find scenarios", err)
	}
	if len(files) == 0 {
		return formatter.fail(ExitCommandError, ErrCodeNoFiles, "no scenario files found", nil)
	}

	errs := ValidateFiles(files, formatter)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, len(files), errs)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Files: len(files)})
	}
	fmt.Fprintf(formatter.Writer, "✓ All %d scenario(s) valid\n", len(files))
	return nil
}

// ValidateFiles loads every file and returns one ValidationError per file
// that fails.
func ValidateFiles(files []string, formatter *OutputFormatter) []ValidationError {
	var errs []ValidationError
	for _, file := range files {
		formatter.VerboseLog("Validating %s", file)
		if _, err := harness.LoadScenario(file); err != nil {
			errs = append(errs, ValidationError{
				File:    file,
				Code:    ErrCodeInvalidScenario,
				Message: err.Error(),
			})
		}
	}
	return errs
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, files int, errs []ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Files:  files,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := writeJSON(formatter.Writer, response); err != nil {
			return err
		}
		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		fmt.Fprintln(formatter.Writer, err.File)
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", err.Code, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
