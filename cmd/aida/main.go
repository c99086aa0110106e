package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/doeshing/aida-go/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	opts := cli.Options{
		Verbose:    isVerbose(),
		NewSession: hasFlag("--new-session"),
	}

	if err := cli.Run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func isVerbose() bool {
	return strings.EqualFold(os.Getenv("AIDA_DEBUG"), "1") || strings.EqualFold(os.Getenv("AIDA_DEBUG"), "true")
}

// hasFlag peeks at os.Args before cobra parses; the container needs the
// session decision at construction time.
func hasFlag(name string) bool {
	for _, arg := range os.Args[1:] {
		if arg == name {
			return true
		}
	}
	return false
}
