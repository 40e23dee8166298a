package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/remedy/internal/pipeline"
	"github.com/lucasnoah/remedy/internal/project"
)

var detectCmd = &cobra.Command{
	Use:   "detect [dir]",
	Short: "Detect a project's language from its marker files",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		result, err := project.Detect(dir)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "language: %s\n", result.Language)
		if len(result.Markers) > 0 {
			fmt.Fprintf(w, "markers:  %s\n", strings.Join(result.Markers, ", "))
		}

		stages := pipeline.DefaultStages(result.Language)
		names := make([]string, len(stages))
		for i, s := range stages {
			names[i] = string(s)
		}
		fmt.Fprintf(w, "stages:   %s\n", strings.Join(names, " → "))
		return nil
	},
}
