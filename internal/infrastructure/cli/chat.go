package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/aida-go/internal/app"
	"github.com/doeshing/aida-go/internal/domain"
)

func newChatCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChatLoop(cmd, container)
		},
	}
}

func runChatLoop(cmd *cobra.Command, container *app.Container) error {
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	prompter := NewPrompter(cmd.InOrStdin(), out)

	fmt.Fprintln(out, "AIDA ready. Type 'exit' to leave.")
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			if err := in.Err(); err != nil && err != io.EOF {
				return err
			}
			return nil
		}
		text := strings.TrimSpace(in.Text())
		if text == "exit" || text == "quit" {
			return nil
		}

		if err := handleUtterance(cmd, container, prompter, text); err != nil {
			// Provider outages and failed commands keep the loop alive.
			if errors.Is(err, domain.ErrNoProviderAvailable) || errors.Is(err, domain.ErrExecutionFailed) {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			return err
		}
	}
}
