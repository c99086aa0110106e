package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aida-go/internal/app"
	"github.com/doeshing/aida-go/internal/domain"
)

func newAskCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [text]",
		Short: "Handle a single request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompter := NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return handleUtterance(cmd, container, prompter, strings.Join(args, " "))
		},
	}
}

// handleUtterance runs one request through the pipeline and resolves a
// confirmation request inline when one comes back.
func handleUtterance(cmd *cobra.Command, container *app.Container, prompter *Prompter, text string) error {
	out := cmd.OutOrStdout()

	reply, err := container.Assistant.Handle(domain.Request{Context: cmd.Context(), Text: text})
	if err != nil {
		if errors.Is(err, domain.ErrExecutionFailed) {
			RenderReply(out, reply)
		}
		return err
	}
	RenderReply(out, reply)

	if reply.GateState != domain.GateConfirmRequested || reply.Command == nil {
		return nil
	}

	accepted, err := prompter.Confirm(*reply.Command)
	if err != nil {
		return err
	}
	resolved, err := container.Assistant.ResolveConfirmation(cmd.Context(), accepted)
	RenderReply(out, resolved)
	return err
}
