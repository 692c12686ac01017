package cli

import (
	"time"

	"github.com/spf13/cobra"

	"resumematch/internal/common"
	"resumematch/internal/watch"
)

var (
	watchOutput   common.CommandConfig
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [resume-file] [job-description-file]",
	Short: "Re-run the match report whenever either file changes",
	Long: `Run "match" once, then keep watching both files and print a fresh report
after every saved change. Bursts of writes are debounced. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := resolveEnv(cmd, &watchOutput)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if err := runMatch(ctx, env, args); err != nil {
			env.logger.LogError(err, "Initial match failed")
		}

		w, err := watch.New(args, watchDebounce, func(changed []string) {
			env.logger.Info("Input changed, re-running match", "files", changed)
			if err := runMatch(ctx, env, args); err != nil {
				env.logger.LogError(err, "Match failed")
			}
		}, env.logger)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		<-ctx.Done()
		return nil
	},
}

func init() {
	addOutputFlags(watchCmd, &watchOutput)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Delay after the last change before re-running")
}
