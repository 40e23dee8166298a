package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent validation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		runs, err := d.GetRunHistory(limit)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}
		for _, r := range runs {
			fmt.Fprintf(w, "[%s] %s  %s  %s  (%s)\n", passFail(r.Passed), r.RecordedAt, r.ID, r.Dir, r.Language)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show stage results and retry attempts for one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runID := args[0]

		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		stages, err := d.GetStageResults(runID)
		if err != nil {
			return err
		}
		if len(stages) == 0 {
			return fmt.Errorf("run %s not found", runID)
		}

		w := cmd.OutOrStdout()
		for _, s := range stages {
			note := ""
			if s.Skipped {
				note = " (skipped)"
			}
			fmt.Fprintf(w, "[%s] %s%s (%.1fs, %d errors)\n", passFail(s.Passed), s.Stage, note, s.DurationS, s.ErrorCount)
		}

		attempts, err := d.GetRetryAttempts(runID)
		if err != nil {
			return err
		}
		if len(attempts) > 0 {
			fmt.Fprintln(w)
			for _, a := range attempts {
				fmt.Fprintf(w, "attempt %d: %s (%s)\n", a.Attempt, a.Kind, a.Detail)
			}
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to list")
	historyCmd.AddCommand(historyShowCmd)
}
