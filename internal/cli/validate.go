package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/remedy/internal/classify"
	"github.com/lucasnoah/remedy/internal/config"
	"github.com/lucasnoah/remedy/internal/pipeline"
	"github.com/lucasnoah/remedy/internal/project"
	"github.com/lucasnoah/remedy/internal/remediate"
	"github.com/lucasnoah/remedy/internal/store"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Run the validation pipeline against a project",
	Long: `Validate runs the project's stage sequence (format, lint, type-check,
build, tests) in order, stopping at the first failure. Failures are
classified and printed with suggested fixes.

With --retry, failed runs are retried under the configured backoff
policy; --fix-cmd runs a repair command between attempts.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		langFlag, _ := cmd.Flags().GetString("language")
		stagesFlag, _ := cmd.Flags().GetString("stages")
		retryFlag, _ := cmd.Flags().GetBool("retry")
		fixCmd, _ := cmd.Flags().GetString("fix-cmd")
		noSave, _ := cmd.Flags().GetBool("no-save")

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			return err
		}
		if errs := config.Validate(cfg); len(errs) > 0 {
			return fmt.Errorf("invalid config: %s", errs[0])
		}

		dir := cfg.Project.Dir
		if len(args) == 1 {
			dir = args[0]
		}

		lang, err := resolveLanguage(dir, langFlag, cfg.Project.Language)
		if err != nil {
			return err
		}

		stages, err := parseStages(stagesFlag)
		if err != nil {
			return err
		}

		timeout, err := cfg.StageTimeout()
		if err != nil {
			return err
		}
		retryCfg, err := cfg.ToRetryConfig()
		if err != nil {
			return err
		}

		opts := []remediate.Option{
			remediate.WithRetryConfig(retryCfg),
			remediate.WithClassifier(classify.NewClassifier(cfg.ClassifierOptions()...)),
			remediate.WithPipelineOptions(
				pipeline.WithCommands(cfg.CommandTable()),
				pipeline.WithStageTimeout(timeout),
			),
		}

		if !noSave {
			artifacts, err := store.DefaultStore()
			if err != nil {
				return err
			}
			d, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()
			opts = append(opts, remediate.WithArtifactStore(artifacts), remediate.WithHistory(d))
		}

		if fixCmd != "" {
			opts = append(opts, remediate.WithFix(shellFix(dir, fixCmd)))
		}

		r := remediate.New(dir, lang, opts...)

		var out *remediate.Outcome
		if retryFlag {
			out, err = r.FixAndValidate(cmd.Context(), stages...)
		} else {
			out, err = r.Validate(cmd.Context(), stages...)
		}
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "run %s (%s, %s)\n", out.FinalRun.ID, dir, lang)
		printStages(w, out.FinalRun)

		if out.Passed {
			fmt.Fprintf(w, "\nValidation %s after %d attempt(s)\n", passFail(true), out.Attempts)
			return nil
		}

		fmt.Fprintf(w, "\nValidation %s after %d attempt(s)\n\n", passFail(false), out.Attempts)
		fmt.Fprint(w, classify.RenderPrompt(out.Records))

		cmd.SilenceUsage = true
		return fmt.Errorf("validation failed")
	},
}

// resolveLanguage picks the project language from the flag, then the
// config, then marker-file detection.
func resolveLanguage(dir, flag, configured string) (project.Language, error) {
	if flag != "" {
		return project.ParseLanguage(flag), nil
	}
	if configured != "" {
		return project.ParseLanguage(configured), nil
	}
	result, err := project.Detect(dir)
	if err != nil {
		return project.LangUnknown, fmt.Errorf("detect language: %w", err)
	}
	return result.Language, nil
}

// shellFix builds a fix hook that runs a command in the project directory.
func shellFix(dir, command string) remediate.FixFunc {
	argv := strings.Fields(command)
	runner := &pipeline.ExecRunner{}
	return func(ctx context.Context, attempt int, records []classify.ErrorRecord) error {
		if len(argv) == 0 {
			return nil
		}
		// A failing fix command is not fatal; the next validation
		// attempt decides whether anything improved.
		_, _, err := runner.Run(ctx, dir, argv)
		if err != nil {
			return fmt.Errorf("run fix command: %w", err)
		}
		return nil
	}
}

func init() {
	validateCmd.Flags().String("config", "", "Path to remedy.yaml (default: search standard locations)")
	validateCmd.Flags().String("language", "", "Project language: python or cpp (default: detect)")
	validateCmd.Flags().String("stages", "", "Comma-separated stage list (default: language defaults)")
	validateCmd.Flags().Bool("retry", false, "Retry failed runs under the backoff policy")
	validateCmd.Flags().String("fix-cmd", "", "Command run between retry attempts")
	validateCmd.Flags().Bool("no-save", false, "Skip persisting run artifacts and history")
}
