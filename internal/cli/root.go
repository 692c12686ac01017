package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumematch/internal/config"
	"resumematch/internal/errors"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// Commands annotated with skipConfigKey run without loading configuration.
const skipConfigKey = "skipConfig"

var (
	configPath   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "resumematch",
	Short: "Match resumes against job descriptions",
	Long: `resumematch scores how well a resume fits a job description. It combines
TF-IDF cosine similarity with skill extraction, reports matched and missing
skills grouped by category, and suggests how to improve the resume.

Every command also runs behind the HTTP API started by "resumematch serve".`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// Execute runs the root command. Configuration is loaded once the command
// line has been parsed, so --config can point at any file.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadRuntime(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[skipConfigKey] == "true" {
		return nil
	}

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevelFlag != "" {
		cfg.App.LogLevel = logLevelFlag
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return err
	}

	logger.Debug("Starting resumematch",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"entity_enabled", cfg.Entity.Enabled)

	// Attach the config and logger to the context, making them available to all subcommands
	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, errors.NewInternalError("CONFIG_MISSING", "configuration not loaded", nil)
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, errors.NewInternalError("LOGGER_MISSING", "logger not initialized", nil)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: config.yaml in /etc/resumematch, $HOME/.resumematch or .)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(similarityCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
