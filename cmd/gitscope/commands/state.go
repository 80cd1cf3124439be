package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/gitscope/internal/config"
	"github.com/sqve/gitscope/internal/formatter"
	"github.com/sqve/gitscope/internal/git"
	"github.com/sqve/gitscope/internal/watch"
)

type stateView struct {
	GitDir string         `json:"git_dir" yaml:"git_dir"`
	State  git.InProgress `json:"state" yaml:"state"`
}

// NewStateCmd creates the state command
func NewStateCmd() *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "state [path]",
		Short: "Show the operation in progress",
		Long: `Show the operation in progress in a repository, such as a rebase, merge
or bisect, by reading git's marker files. Prints "none" when idle.

With --watch the state is printed again every time it changes, until
interrupted.

Examples:
  gitscope state          # One-off check
  gitscope state --watch  # Follow changes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(cmd, args, follow)
		},
	}

	cmd.Flags().BoolVarP(&follow, "watch", "w", false, "Print every change until interrupted")

	return cmd
}

func runState(cmd *cobra.Command, args []string, follow bool) error {
	path, err := targetPath(args)
	if err != nil {
		return err
	}

	repo, err := openRepository(cmd, path)
	if err != nil {
		return err
	}

	format, err := outputFormat()
	if err != nil {
		return err
	}

	show := func(state git.InProgress) error {
		view := stateView{GitDir: repo.GitDir(), State: state}
		return formatter.Write(cmd.OutOrStdout(), format, view, func() string {
			return formatter.StateLine(state) + "\n"
		})
	}

	if !follow {
		return show(repo.InProgressOperation())
	}

	w, err := watch.New(repo.GitDir(), watch.Options{Debounce: config.GetDuration("watch.debounce")})
	if err != nil {
		return err
	}

	var printErr error
	err = w.Run(cmd.Context(), func(c watch.Change) {
		if printErr == nil {
			printErr = show(c.State)
		}
	})
	if err != nil {
		return err
	}
	return printErr
}
