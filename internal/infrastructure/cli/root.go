// Package cli exposes the cobra command surface: one-shot ask, the
// interactive chat loop, and the maintenance commands.
package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aida-go/internal/app"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose    bool
	NewSession bool
}

// Run builds the dependency graph, executes the command line and persists
// the session. The session is saved even when the command fails, so an
// execution error never loses conversation state.
func Run(ctx context.Context, opts Options) error {
	container, err := app.BuildContainer(ctx, opts.Verbose, opts.NewSession)
	if err != nil {
		return err
	}
	defer container.Close()

	root := newRootCmd(container)
	execErr := root.ExecuteContext(ctx)

	if err := container.SaveSession(ctx); err != nil && execErr == nil {
		execErr = err
	}
	return execErr
}

func newRootCmd(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:   "aida [text]",
		Short: "AIDA - desktop AI assistant",
		Long:  "AIDA routes natural-language requests to AI providers and gates the resulting desktop commands on confidence.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			prompter := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return handleUtterance(cmd, container, prompter, strings.Join(args, " "))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().Bool("new-session", false, "Start a fresh conversation instead of resuming")

	root.AddCommand(newAskCommand(container))
	root.AddCommand(newChatCommand(container))
	root.AddCommand(newHistoryCommand(container))
	root.AddCommand(newConfigCommand(container))
	root.AddCommand(newDoctorCommand(container))
	return root
}
