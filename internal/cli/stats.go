package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-stage pass rates across recorded runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cleanup, err := openDB()
		if err != nil {
			return err
		}
		defer cleanup()

		stats, err := d.StageStats()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if len(stats) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}
		for _, s := range stats {
			fmt.Fprintf(w, "%-18s %3d runs  %5.1f%% pass  avg %.1fs\n",
				s.Stage, s.Total, s.PassRate()*100, s.AvgDuration)
		}
		return nil
	},
}
