package cli

import (
	"fmt"
	"io"

	"github.com/doeshing/aida-go/internal/domain"
)

// RenderReply prints one pipeline outcome for the terminal.
func RenderReply(out io.Writer, reply domain.Reply) {
	if reply.Text != "" {
		fmt.Fprintln(out, reply.Text)
	}

	switch reply.GateState {
	case domain.GateExecuted:
		if reply.Execution != nil && reply.Execution.Detail != "" {
			fmt.Fprintf(out, "✓ %s\n", reply.Execution.Detail)
		} else {
			fmt.Fprintln(out, "✓ done")
		}
	case domain.GateRejected:
		if reply.Command != nil {
			fmt.Fprintf(out, "✗ not executed (confidence %.2f too low)\n", reply.Command.Confidence)
		} else {
			fmt.Fprintln(out, "✗ not executed")
		}
	}
}
