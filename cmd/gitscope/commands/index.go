package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/gitscope/internal/formatter"
	"github.com/sqve/gitscope/internal/report"
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	var files bool

	cmd := &cobra.Command{
		Use:   "index [path]",
		Short: "Decode the index of a repository",
		Long: `Decode the index (staging area) of a repository and summarise it.

Unmerged paths are listed after the summary. The index.threads setting
controls how many workers scan the entries.

Examples:
  gitscope index                        # Summary
  gitscope index --files                # Every staged entry
  gitscope index -c index.threads=false # Scan on one thread`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args, files)
		},
	}

	cmd.Flags().BoolVar(&files, "files", false, "List every entry")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string, files bool) error {
	path, err := targetPath(args)
	if err != nil {
		return err
	}

	repo, err := openRepository(cmd, path)
	if err != nil {
		return err
	}

	summary, err := report.DescribeIndex(repo, files)
	if err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}
	return formatter.Write(cmd.OutOrStdout(), format, summary, func() string {
		return formatter.IndexSummary(summary)
	})
}
