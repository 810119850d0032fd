package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfieldcare/rota-engine/pkg/core/availability"
	"github.com/oakfieldcare/rota-engine/pkg/core/model"
)

// CheckAvailabilityCmd creates the availability command, used to answer
// "who can work this shift"
func CheckAvailabilityCmd(getApp func() *AppContext) *cobra.Command {
	var (
		allCarers     bool
		competentOnly bool
		taskIDs       []string
	)

	cmd := &cobra.Command{
		Use:   "availability <packageID> <date> <DAY|NIGHT> <start> <end>",
		Short: "List which carers can work a proposed shift window",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()

			window := availability.Window{
				PackageID: args[0],
				Date:      args[1],
				ShiftType: model.ShiftType(args[2]),
				StartTime: args[3],
				EndTime:   args[4],
			}

			pool := availability.PoolPackageCarers
			if allCarers {
				pool = availability.PoolAllActive
			}

			checks, err := app.Resolver.Resolve(app.Ctx, window, taskIDs, competentOnly, pool)
			if err != nil {
				return err
			}

			available := 0
			for _, check := range checks {
				marker := "✗"
				if check.IsAvailable {
					marker = "✓"
					available++
				}
				fmt.Printf("%s %s (%s)\n", marker, check.CarerName, check.CarerID)
				for _, conflict := range check.Conflicts {
					fmt.Printf("    [%s] %s\n", conflict.Type, conflict.Message)
				}
				if len(check.Competency.MissingTaskIDs) > 0 {
					fmt.Printf("    missing competencies: %v\n", check.Competency.MissingTaskIDs)
				}
			}
			fmt.Printf("\n%d of %d carers available\n", available, len(checks))

			return nil
		},
	}

	cmd.Flags().BoolVar(&allCarers, "all", false, "consider the full active roster, not only package carers")
	cmd.Flags().BoolVar(&competentOnly, "competent-only", false, "require competency on every required task")
	cmd.Flags().StringSliceVar(&taskIDs, "tasks", nil, "task IDs required for competency matching")

	return cmd
}
