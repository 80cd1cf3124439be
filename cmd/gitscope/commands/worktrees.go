package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/gitscope/internal/formatter"
	"github.com/sqve/gitscope/internal/report"
)

// NewWorktreesCmd creates the worktrees command
func NewWorktreesCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "worktrees [path]",
		Aliases: []string{"ls"},
		Short:   "List the worktrees of a repository",
		Long: `List the main worktree and every linked worktree, in name order.

Linked worktrees whose checkout is gone are marked missing. The worktree
containing path is marked current.

Examples:
  gitscope worktrees            # List worktrees of the current repository
  gitscope worktrees -v ../repo # Include paths and lock reasons`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorktrees(cmd, args, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show paths and lock reasons")

	return cmd
}

func runWorktrees(cmd *cobra.Command, args []string, verbose bool) error {
	path, err := targetPath(args)
	if err != nil {
		return err
	}

	repo, err := openRepository(cmd, path)
	if err != nil {
		return err
	}

	rows, err := report.Worktrees(repo)
	if err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}
	return formatter.Write(cmd.OutOrStdout(), format, rows, func() string {
		return formatter.WorktreeList(rows, verbose)
	})
}
