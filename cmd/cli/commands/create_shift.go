package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/services"
)

// CreateShiftCmd creates the create command: the permissive single-insert
// path. Rule violations are advisory here; only a duplicate slot or a
// missing carer/package blocks the write.
func CreateShiftCmd(getApp func() *AppContext) *cobra.Command {
	var createdBy string

	cmd := &cobra.Command{
		Use:   "create <carerID> <packageID> <date> <DAY|NIGHT> <start> <end>",
		Short: "Create a single shift entry (rule violations are advisory)",
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

			result, err := services.CreateShift(app.Ctx, app.Store, app.Validator, app.Logger, candidate, createdBy)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Created entry %s\n", result.Entry.ID)
			for _, v := range result.Warnings {
				fmt.Printf("  WARNING [%s] %s\n", v.Code, v.Message)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().StringVar(&createdBy, "created-by", "", "operator recorded as the entry's creator")

	return cmd
}
