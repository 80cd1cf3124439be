package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sqve/gitscope/cmd/gitscope/commands"
	"github.com/sqve/gitscope/internal/app"
	"github.com/sqve/gitscope/internal/errors"
)

func newRootCmd() *cobra.Command {
	return app.NewRootCommand(
		commands.NewWorktreesCmd(),
		commands.NewStateCmd(),
		commands.NewIndexCmd(),
		commands.NewInfoCmd(),
		commands.NewConfigCmd(),
	)
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code := errors.GetErrorCode(err); code != "" {
			fmt.Fprintf(os.Stderr, "Code: %s\n", code)
		}
		return 1
	}
	return 0
}
