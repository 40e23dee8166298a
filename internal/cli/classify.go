package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/remedy/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [logfile]",
	Short: "Classify errors out of a CI log",
	Long: `Classify scans a build or test log for known failure signatures and
groups them by kind. With no argument, or with "-", the log is read
from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		window, _ := cmd.Flags().GetInt("window")
		dedupe, _ := cmd.Flags().GetBool("dedupe")

		logText, err := readLog(cmd, args)
		if err != nil {
			return err
		}

		opts := []classify.Option{classify.WithWindowLines(window)}
		if dedupe {
			opts = append(opts, classify.WithDedupe())
		}
		records := classify.NewClassifier(opts...).Classify(logText)

		w := cmd.OutOrStdout()
		switch format {
		case "json":
			data, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal records: %w", err)
			}
			fmt.Fprintln(w, string(data))
		case "prompt":
			fmt.Fprint(w, classify.RenderPrompt(records))
		case "text":
			for _, r := range records {
				loc := ""
				if r.FilePath != "" {
					loc = fmt.Sprintf(" %s:%d", r.FilePath, r.LineNumber)
				}
				fmt.Fprintf(w, "[%s]%s %s\n", r.Kind, loc, r.Message)
			}
		default:
			return fmt.Errorf("unknown format %q (want text, json, or prompt)", format)
		}
		return nil
	},
}

func readLog(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read log file: %w", err)
	}
	return string(data), nil
}

func init() {
	classifyCmd.Flags().String("format", "text", "Output format: text, json, or prompt")
	classifyCmd.Flags().Int("window", 3, "Context lines captured around each match")
	classifyCmd.Flags().Bool("dedupe", false, "Drop duplicate matches spanning the same log region")
}
