package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sqve/gitscope/internal/config"
	"github.com/sqve/gitscope/internal/logger"
)

const Version = "v0.1.0"

// NewRootCommand creates the gitscope root command with the given
// subcommands.
func NewRootCommand(subcommands ...*cobra.Command) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gitscope",
		Short:   "Inspect git repository topology and state",
		Version: Version,
		Long: `gitscope reads a repository's on-disk layout without running git.
It lists linked worktrees, reports the operation in progress, and decodes the index.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	setupRootCommand(rootCmd, subcommands)
	return rootCmd
}

func setupRootCommand(rootCmd *cobra.Command, subcommands []*cobra.Command) {
	// Disable automatic error printing to avoid duplicate error messages
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	setupFlags(rootCmd)
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return InitializeConfig(rootCmd, cmd.ErrOrStderr())
	}
	rootCmd.AddCommand(subcommands...)
}

func setupFlags(rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "Log format (text, json)")
	flags.Bool("debug", false, "Enable debug logging (shorthand for --log-level=debug)")
	flags.Bool("plain", false, "Disable colors and symbols")
	flags.StringP("output", "o", config.DefaultOutputFormat, "Output format (text, json, yaml)")
	flags.StringArrayP("config", "c", nil, "Git config override as name=value (repeatable)")
}

// InitializeConfig loads settings, binds the root flags over them and
// configures logging.
func InitializeConfig(rootCmd *cobra.Command, logOutput io.Writer) error {
	if err := config.Initialize(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	bindFlags(rootCmd)

	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
		viper.Set("logging.level", "debug")
	}

	if err := config.Validate(); err != nil {
		return err
	}

	configureLogging(logOutput)
	return nil
}

func bindFlags(rootCmd *cobra.Command) {
	bindings := map[string]string{
		"logging.level":  "log-level",
		"logging.format": "log-format",
		"output.plain":   "plain",
		"output.format":  "output",
	}
	for key, name := range bindings {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind %s flag: %v\n", name, err)
		}
	}
}

func configureLogging(output io.Writer) {
	logger.Configure(logger.Config{
		Level:  config.GetString("logging.level"),
		Format: config.GetString("logging.format"),
		Output: output,
	})
}
