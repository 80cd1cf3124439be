package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqve/gitscope/internal/config"
	"github.com/sqve/gitscope/internal/formatter"
	"github.com/sqve/gitscope/internal/git"
	"github.com/sqve/gitscope/internal/logger"
)

// targetPath returns the optional path argument or the working directory.
func targetPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}

// openRepository opens the repository at path. The project file next to path
// and the --config flags supply the open options; flags override the file.
func openRepository(cmd *cobra.Command, path string) (*git.Repository, error) {
	fileCfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	if err := fileCfg.Merge(); err != nil {
		return nil, err
	}

	overrides, err := fileCfg.ConfigOverrides()
	if err != nil {
		return nil, err
	}
	flagItems, _ := cmd.Flags().GetStringArray("config")
	flagOverrides, err := config.ParseOverrides("--config", flagItems)
	if err != nil {
		return nil, err
	}

	hash, err := fileCfg.ObjectHash()
	if err != nil {
		return nil, err
	}

	opts := git.Options{
		ObjectHash:      hash,
		ConfigOverrides: append(overrides, flagOverrides...),
	}
	logger.DebugOperation("open-repository", "path", path, "overrides", len(opts.ConfigOverrides))
	return git.Open(path, opts)
}

func outputFormat() (formatter.Format, error) {
	return formatter.ParseFormat(config.GetString("output.format"))
}
