package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfieldcare/rota-engine/pkg/core/services"
)

// ConfirmShiftCmd creates the confirm command
func ConfirmShiftCmd(getApp func() *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "confirm <entryID>",
		Short: "Mark a shift entry as confirmed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			if err := services.ConfirmShift(app.Ctx, app.Store, app.Logger, args[0]); err != nil {
				return err
			}
			fmt.Printf("✓ Confirmed %s\n", args[0])
			return nil
		},
	}
}

// DeleteShiftsCmd creates the delete command; multiple IDs delete in one
// transaction
func DeleteShiftsCmd(getApp func() *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entryID>...",
		Short: "Delete one or more shift entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()
			if len(args) == 1 {
				if err := services.DeleteShift(app.Ctx, app.Store, app.Logger, args[0]); err != nil {
					return err
				}
			} else {
				if err := services.DeleteShifts(app.Ctx, app.Store, app.Logger, args); err != nil {
					return err
				}
			}
			fmt.Printf("✓ Deleted %d entries\n", len(args))
			return nil
		},
	}
}
