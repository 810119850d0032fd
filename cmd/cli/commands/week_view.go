package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
)

// WeekViewCmd creates the week command, rendering a package's weekly
// schedule grouped by carer with totals and violations
func WeekViewCmd(getApp func() *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "week <packageID> <weekStart>",
		Short: "Show a package's weekly schedule per carer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()

			weekStart, err := timeutil.ParseDate(args[1])
			if err != nil {
				return err
			}

			weeks, err := app.Aggregator.AggregateWeek(app.Ctx, args[0], weekStart)
			if err != nil {
				return err
			}

			fmt.Printf("\nWeek of %s\n\n", timeutil.FormatDate(timeutil.WeekStart(weekStart)))
			for _, week := range weeks {
				fmt.Printf("%s (%s): %.1f hours, %d day / %d night\n",
					week.CarerName, week.CarerID, week.TotalHours, week.DayShifts, week.NightShifts)
				for _, e := range week.Entries {
					fmt.Printf("  %s %s %s-%s\n", e.Date, e.ShiftType, e.StartTime, e.EndTime)
				}
				for _, v := range week.Violations {
					fmt.Printf("  %s [%s] %s\n", v.Severity, v.Code, v.Message)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
