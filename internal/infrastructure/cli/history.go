package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/doeshing/aida-go/internal/app"
	"github.com/doeshing/aida-go/internal/domain"
)

func newHistoryCommand(container *app.Container) *cobra.Command {
	var limit int
	var stats bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show gated command history",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := container.Store.Records(limit)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}
			if stats {
				renderHistoryStats(cmd.OutOrStdout(), records)
				return nil
			}
			renderHistory(cmd.OutOrStdout(), records)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().BoolVar(&stats, "stats", false, "Show aggregate statistics instead of entries")
	return cmd
}

func renderHistory(out io.Writer, records []domain.CommandRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No commands recorded yet.")
		return
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %-17s %-18s %.2f  %s\n",
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.State, rec.Kind, rec.Confidence, rec.SourceText)
	}
}

func renderHistoryStats(out io.Writer, records []domain.CommandRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No commands recorded yet.")
		return
	}

	byKind := map[domain.ActionKind]int{}
	executed := 0
	var confidenceSum float64
	for _, rec := range records {
		byKind[rec.Kind]++
		confidenceSum += rec.Confidence
		if rec.State == domain.GateExecuted {
			executed++
		}
	}

	fmt.Fprintf(out, "Total commands: %d (%d executed)\n", len(records), executed)
	fmt.Fprintf(out, "Average confidence: %.2f\n", confidenceSum/float64(len(records)))

	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		fmt.Fprintf(out, "  %-18s %d\n", kind, byKind[domain.ActionKind(kind)])
	}
}
