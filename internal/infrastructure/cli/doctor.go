package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/aida-go/internal/app"
	"github.com/doeshing/aida-go/internal/infrastructure/config"
)

type doctorCheck struct {
	name    string
	ok      bool
	details string
}

func newDoctorCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credentials and storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runDoctorChecks(container)
			displayDoctorReport(cmd.OutOrStdout(), checks)
			for _, check := range checks {
				if !check.ok {
					return fmt.Errorf("diagnostics found problems")
				}
			}
			return nil
		},
	}
}

func runDoctorChecks(container *app.Container) []doctorCheck {
	var checks []doctorCheck

	if err := config.Validate(container.Config); err != nil {
		checks = append(checks, doctorCheck{"config", false, err.Error()})
	} else {
		checks = append(checks, doctorCheck{"config", true, container.ConfigLoader.Path()})
	}

	for _, def := range container.Config.Providers {
		if def.AuthEnvVar == "" {
			checks = append(checks, doctorCheck{"credentials/" + def.Name, true, "no credential required"})
			continue
		}
		if os.Getenv(def.AuthEnvVar) == "" {
			checks = append(checks, doctorCheck{"credentials/" + def.Name, false, def.AuthEnvVar + " is not set"})
		} else {
			checks = append(checks, doctorCheck{"credentials/" + def.Name, true, def.AuthEnvVar + " is set"})
		}
	}

	if _, err := container.Store.Records(1); err != nil {
		checks = append(checks, doctorCheck{"database", false, err.Error()})
	} else {
		checks = append(checks, doctorCheck{"database", true, container.Config.Memory.Database})
	}

	return checks
}

func displayDoctorReport(out io.Writer, checks []doctorCheck) {
	for _, check := range checks {
		status := "OK"
		if !check.ok {
			status = "FAIL"
		}
		fmt.Fprintf(out, "[%s] %s - %s\n", status, check.name, check.details)
	}
}
