package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
)

// ValidateShiftCmd creates the validate command: a dry run of the rule
// validator against a proposed shift, writing nothing
func ValidateShiftCmd(getApp func() *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <carerID> <packageID> <date> <DAY|NIGHT> <start> <end>",
		Short: "Validate a proposed shift without creating it",
		Args:  cobra.ExactArgs(6),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()

			candidate := &model.ShiftEntry{
				CarerID:   args[0],
				PackageID: args[1],
				Date:      args[2],
				ShiftType: model.ShiftType(args[3]),
				StartTime: args[4],
				EndTime:   args[5],
			}

			result, err := app.Validator.Validate(app.Ctx, candidate, validation.Options{IncludeDuplicates: true})
			if err != nil {
				return err
			}

			printResult(result)
			return nil
		},
	}
}

func printResult(result *validation.Result) {
	if result.IsValid {
		fmt.Printf("\n✓ Shift is schedulable\n")
	} else {
		fmt.Printf("\n✗ Shift violates %d rule(s)\n", len(result.Errors))
	}

	for _, v := range result.Errors {
		fmt.Printf("  ERROR   [%s] %s\n", v.Code, v.Message)
	}
	for _, v := range result.Warnings {
		fmt.Printf("  WARNING [%s] %s\n", v.Code, v.Message)
	}
	fmt.Println()
}
