package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/services"
)

// UpdateShiftCmd creates the update command: the strict path. Any rule
// error, duplicates included, rejects the update.
func UpdateShiftCmd(getApp func() *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "update <entryID> <carerID> <packageID> <date> <DAY|NIGHT> <start> <end>",
		Short: "Update a shift entry (rejected on any rule error)",
		Args:  cobra.ExactArgs(7),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()

			entry := &model.ShiftEntry{
				ID:        args[0],
				CarerID:   args[1],
				PackageID: args[2],
				Date:      args[3],
				ShiftType: model.ShiftType(args[4]),
				StartTime: args[5],
				EndTime:   args[6],
			}

			result, err := services.UpdateShift(app.Ctx, app.Store, app.Validator, app.Logger, entry)
			if err != nil {
				return err
			}

			if !result.Updated {
				fmt.Printf("\n✗ Update rejected\n")
				printResult(result.Result)
				return nil
			}

			fmt.Printf("\n✓ Updated entry %s\n", entry.ID)
			for _, v := range result.Result.Warnings {
				fmt.Printf("  WARNING [%s] %s\n", v.Code, v.Message)
			}
			fmt.Println()

			return nil
		},
	}
}
