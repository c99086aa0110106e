package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/doeshing/aida-go/internal/domain"
)

// Prompter asks the user to resolve a parked command over stdio.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter constructs a prompter referencing stdio.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Confirm shows the parked command and reads a yes/no answer.
func (p *Prompter) Confirm(cmd domain.Command) (bool, error) {
	fmt.Fprintf(p.out, "\n⚠️  This needs your confirmation (confidence %.2f)\n", cmd.Confidence)
	fmt.Fprintf(p.out, "   %s: %s\n", cmd.Kind, describeTarget(cmd))
	fmt.Fprint(p.out, "Proceed? [y/N]: ")

	line, err := p.in.ReadString('\n')
	if err != nil {
		return false, err
	}
	line = strings.ToLower(strings.TrimSpace(line))
	return line == "y" || line == "yes", nil
}

func describeTarget(cmd domain.Command) string {
	if cmd.SourceText != "" {
		return cmd.SourceText
	}
	var parts []string
	for key, value := range cmd.Target {
		parts = append(parts, key+"="+value)
	}
	return strings.Join(parts, " ")
}
