package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/gitscope/internal/formatter"
	"github.com/sqve/gitscope/internal/report"
)

// NewInfoCmd creates the info command
func NewInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [path]",
		Short: "Describe a repository",
		Long: `Describe how a repository is laid out: its git and common directories,
work tree, kind (main, bare or linked), object format, operation in progress
and index threading policy.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := targetPath(args)
			if err != nil {
				return err
			}

			repo, err := openRepository(cmd, path)
			if err != nil {
				return err
			}

			summary, err := report.Describe(repo)
			if err != nil {
				return err
			}

			format, err := outputFormat()
			if err != nil {
				return err
			}
			return formatter.Write(cmd.OutOrStdout(), format, summary, func() string {
				return formatter.RepositorySummary(summary)
			})
		},
	}
}
