package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/autodual/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Scenario string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded scenario runs",
		Long: `List scenario runs recorded by "autodual test --db", newest first.

Runs are content-addressed: re-running a scenario with an unchanged
outcome does not add a new entry, so the history shows each distinct
outcome once.

Examples:
  autodual history --db ./runs.db
  autodual history --db ./runs.db --scenario square_plus_one --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Scenario, "scenario", "", "only show runs of this scenario")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 = all)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runs, err := st.List(ctx, store.ListOptions{Scenario: opts.Scenario, Limit: opts.Limit})
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
	}

	if opts.Format == "json" {
		return formatter.Success(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tRUN\tSCENARIO\tKIND\tRESULT")
	for _, r := range runs {
		status := "pass"
		if !r.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Seq, shortID(r.ID), r.Scenario, r.Kind, status)
	}
	return tw.Flush()
}

// shortID abbreviates a run ID for display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
