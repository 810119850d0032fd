package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/services"
)

// ImportShiftsCmd creates the import command: all-or-nothing batch
// assignment from a YAML candidate file
func ImportShiftsCmd(getApp func() *AppContext) *cobra.Command {
	var validateOnly bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate and commit a batch of shift entries from a YAML file",
		Long: `Reads candidate shift entries from a YAML file and validates every one
against the scheduling rules. The batch commits only if every candidate is
valid; a single invalid candidate rejects the whole batch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read candidate file: %w", err)
			}

			var candidates []model.ShiftEntry
			if err := yaml.Unmarshal(data, &candidates); err != nil {
				return fmt.Errorf("failed to parse candidate file: %w", err)
			}

			result, err := services.ImportShifts(app.Ctx, app.Store, app.Validator, app.Logger, candidates, validateOnly)
			if err != nil {
				return err
			}

			printImportResult(result, validateOnly)
			return nil
		},
	}

	cmd.Flags().BoolVar(&validateOnly, "validate-only", false, "validate the batch without committing")

	return cmd
}

func printImportResult(result *services.ImportShiftsResult, validateOnly bool) {
	for _, candidate := range result.Results {
		e := candidate.Entry
		if candidate.Result.IsValid {
			fmt.Printf("✓ %d: %s on %s (%s %s-%s)\n", candidate.Index, e.CarerID, e.Date, e.ShiftType, e.StartTime, e.EndTime)
		} else {
			fmt.Printf("✗ %d: %s on %s\n", candidate.Index, e.CarerID, e.Date)
		}
		for _, v := range candidate.Result.Errors {
			fmt.Printf("    ERROR   [%s] %s\n", v.Code, v.Message)
		}
		for _, v := range candidate.Result.Warnings {
			fmt.Printf("    WARNING [%s] %s\n", v.Code, v.Message)
		}
	}

	switch {
	case validateOnly:
		fmt.Printf("\n%d valid, %d invalid (nothing committed)\n", result.ValidCount, result.InvalidCount)
	case result.CommittedCount > 0:
		fmt.Printf("\n✓ Committed all %d entries\n", result.CommittedCount)
	default:
		fmt.Printf("\n✗ Batch rejected: %d of %d candidates invalid, nothing committed\n", result.InvalidCount, len(result.Results))
	}
}
