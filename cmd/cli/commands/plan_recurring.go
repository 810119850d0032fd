package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakfieldcare/rota-engine/pkg/core/services"
)

// PlanRecurringCmd creates the plan command: expands a recurrence rule into
// dated shift candidates and runs them through the batch coordinator
func PlanRecurringCmd(getApp func() *AppContext) *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Expand a recurring shift plan and schedule it as a batch",
		Long: `Reads a recurring plan (carer, package, times and an RFC 5545 RRULE) from
a YAML file, expands it into dated candidates, and schedules them
all-or-nothing through the batch coordinator.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read plan file: %w", err)
			}

			var plan services.RecurringPlan
			if err := yaml.Unmarshal(data, &plan); err != nil {
				return fmt.Errorf("failed to parse plan file: %w", err)
			}

			result, err := services.PlanRecurring(app.Ctx, app.Store, app.Validator, app.Logger, plan, validateOnly)
			if err != nil {
				return err
			}

			printImportResult(result, validateOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "validate the plan without committing")

	return cmd
}
