package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"resumematch/internal/common"
	"resumematch/internal/config"
	"resumematch/internal/errors"
	"resumematch/internal/matcher"
	"resumematch/internal/types"
)

// commandEnv is what every analysis command resolves before it runs.
type commandEnv struct {
	cfg    *config.Config
	logger *errors.Logger
	engine *matcher.Engine
	runner common.Runner
}

func resolveEnv(cmd *cobra.Command, output *common.CommandConfig) (*commandEnv, error) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return nil, err
	}
	output.MaxFileSize = cfg.App.MaxFileSize
	return &commandEnv{
		cfg:    cfg,
		logger: logger,
		engine: newEngine(cfg, logger, nil),
		runner: common.Runner{Logger: logger, Config: *output, Stdout: cmd.OutOrStdout()},
	}, nil
}

// addOutputFlags registers --output and --format and validates the format
// against configuration before the command runs.
func addOutputFlags(cmd *cobra.Command, output *common.CommandConfig) {
	cmd.Flags().StringVarP(&output.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&output.OutputFormat, "format", "", "Output format: json, text, or markdown")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if output.OutputFormat == "" {
			output.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(output.OutputFormat, cfg.App.SupportedFormats)
	}

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})
}

var (
	matchOutput      common.CommandConfig
	rankOutput       common.CommandConfig
	skillsOutput     common.CommandConfig
	similarityOutput common.CommandConfig
	suggestOutput    common.CommandConfig
	infoOutput       common.CommandConfig

	similaritySections bool
	suggestMissing     []string
)

var matchCmd = &cobra.Command{
	Use:   "match [resume-file] [job-description-file]",
	Short: "Score a resume against a job description",
	Long: `Compare a resume with a job description and produce a match report:
the TF-IDF cosine similarity score and rating, per-section scores, matched and
missing skills, missing skills grouped by category, learning recommendations
and improvement suggestions.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(cmd, &matchOutput)
		if err != nil {
			return err
		}
		return runMatch(cmd.Context(), env, args)
	},
}

func runMatch(ctx context.Context, env *commandEnv, args []string) error {
	err := common.RunFileCommand(ctx, env.runner, args,
		func(ctx context.Context, contents []string) (*types.MatchReport, error) {
			return env.engine.Match(ctx, contents[0], contents[1])
		},
		func(contents []string, cfg common.CommandConfig) {
			env.logger.Info("Starting resume match",
				"resume_chars", len(contents[0]),
				"job_chars", len(contents[1]),
				"output_format", cfg.OutputFormat)
		},
	)
	if err != nil {
		return fmt.Errorf("failed to match resume: %w", err)
	}
	return nil
}

var rankCmd = &cobra.Command{
	Use:   "rank [job-description-file] [resume-file]...",
	Short: "Rank several resumes against one job description",
	Long: `Score every resume against the job description and list them best first.
Resumes are scored concurrently; ties keep the order given on the command line.`,
	Args: cobra.RangeArgs(2, 51),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(cmd, &rankOutput)
		if err != nil {
			return err
		}

		names := args[1:]
		err = common.RunFileCommand(cmd.Context(), env.runner, args,
			func(ctx context.Context, contents []string) (*types.RankingReport, error) {
				docs := make([]types.NamedDocument, len(names))
				for i, name := range names {
					docs[i] = types.NamedDocument{Name: displayName(name), Text: contents[i+1]}
				}
				return env.engine.Rank(ctx, docs, contents[0])
			},
			func(contents []string, cfg common.CommandConfig) {
				env.logger.Info("Starting resume ranking", "resumes", len(names), "output_format", cfg.OutputFormat)
			},
		)
		if err != nil {
			return fmt.Errorf("failed to rank resumes: %w", err)
		}
		return nil
	},
}

var skillsCmd = &cobra.Command{
	Use:   "skills [file]",
	Short: "Extract skills from a resume or job description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(cmd, &skillsOutput)
		if err != nil {
			return err
		}
		return common.RunFileCommand(cmd.Context(), env.runner, args,
			func(ctx context.Context, contents []string) (*types.SkillsResult, error) {
				return env.engine.ExtractSkills(ctx, contents[0]), nil
			}, nil)
	},
}

var similarityCmd = &cobra.Command{
	Use:   "similarity [file-a] [file-b]",
	Short: "Compute the TF-IDF cosine similarity of two documents",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(cmd, &similarityOutput)
		if err != nil {
			return err
		}
		return common.RunFileCommand(cmd.Context(), env.runner, args,
			func(ctx context.Context, contents []string) (*types.SimilarityResult, error) {
				return env.engine.Similarity(ctx, contents[0], contents[1], similaritySections), nil
			}, nil)
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [resume-file] [job-description-file]",
	Short: "Suggest resume improvements for a job description",
	Long: `Generate improvement suggestions in five categories: missing skills,
content enhancement, keyword optimization, structure and action items.
Missing skills are derived from both documents unless --missing is given.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(cmd, &suggestOutput)
		if err != nil {
			return err
		}
		var missing []string
		if cmd.Flags().Changed("missing") {
			missing = append([]string{}, suggestMissing...)
		}
		return common.RunFileCommand(cmd.Context(), env.runner, args,
			func(ctx context.Context, contents []string) (*types.SuggestionsResult, error) {
				return env.engine.Suggest(ctx, contents[0], contents[1], missing), nil
			}, nil)
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the configured engine parameters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(cmd, &infoOutput)
		if err != nil {
			return err
		}
		handler := common.NewOutputHandlerTo(cmd.OutOrStdout(), env.logger)
		return handler.HandleOutput(env.engine.Info(), env.runner.Config)
	},
}

func init() {
	for cmd, output := range map[*cobra.Command]*common.CommandConfig{
		matchCmd:      &matchOutput,
		rankCmd:       &rankOutput,
		skillsCmd:     &skillsOutput,
		similarityCmd: &similarityOutput,
		suggestCmd:    &suggestOutput,
		infoCmd:       &infoOutput,
	} {
		addOutputFlags(cmd, output)
	}

	similarityCmd.Flags().BoolVar(&similaritySections, "sections", false, "Also score the experience, skills, education and summary sections")
	suggestCmd.Flags().StringSliceVar(&suggestMissing, "missing", nil, "Comma-separated missing skills (default: derived from the documents)")
}

func displayName(path string) string {
	return filepath.Base(path)
}
