package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/doeshing/aida-go/internal/app"
)

func newConfigCommand(container *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the active configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg := container.Config

			fmt.Fprintf(out, "Config file: %s\n", container.ConfigLoader.Path())
			fmt.Fprintf(out, "Providers (%d):\n", len(cfg.Providers))
			for _, def := range cfg.Providers {
				fmt.Fprintf(out, "  %-10s %s (model %s)\n", def.Name, def.Endpoint, def.ModelID)
			}
			fmt.Fprintf(out, "Default order: %v\n", cfg.Selection.DefaultProviderOrder)
			fmt.Fprintf(out, "Gate thresholds: execute ≥ %.2f, confirm ≥ %.2f\n",
				cfg.Gate.ConfidenceHigh, cfg.Gate.ConfidenceMid)
			fmt.Fprintf(out, "Context window: %d turns\n", cfg.Context.WindowSize)
			fmt.Fprintf(out, "Provider timeout: %dms\n", cfg.Pipeline.ProviderTimeoutMS)
			fmt.Fprintf(out, "Memory database: %s\n", cfg.Memory.Database)
			return nil
		},
	}
	return cmd
}
