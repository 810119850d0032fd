package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
)

// UpdateShiftStore is the store surface the strict-update path writes through
type UpdateShiftStore interface {
	UpdateEntry(ctx context.Context, entry *model.ShiftEntry) error
}

// UpdateShiftResult reports whether the update was written and why not
type UpdateShiftResult struct {
	Updated bool               `json:"updated"`
	Result  *validation.Result `json:"result"`
}

// UpdateShift re-validates a modified entry under the strict-update policy:
// any rule error, duplicates included, rejects the update and nothing is
// written. The entry's own stored row is excluded from the duplicate check
// by ID so an unchanged slot does not clash with itself.
func UpdateShift(ctx context.Context, store UpdateShiftStore, shiftValidator ShiftValidator, logger *zap.Logger, entry *model.ShiftEntry) (*UpdateShiftResult, error) {
	if entry.ID == "" {
		return nil, fmt.Errorf("cannot update shift entry without an ID")
	}
	if err := validate.Struct(entry); err != nil {
		return nil, fmt.Errorf("invalid shift entry: %w", err)
	}

	result, err := shiftValidator.Validate(ctx, entry, validation.Options{IncludeDuplicates: true})
	if err != nil {
		return nil, fmt.Errorf("failed to validate shift entry: %w", err)
	}

	if !result.IsValid {
		logger.Info("shift update rejected",
			zap.String("entryID", entry.ID),
			zap.Int("errors", len(result.Errors)))
		return &UpdateShiftResult{Updated: false, Result: result}, nil
	}

	if err := store.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to update shift entry: %w", err)
	}

	logger.Info("shift entry updated",
		zap.String("entryID", entry.ID),
		zap.Int("warnings", len(result.Warnings)))

	return &UpdateShiftResult{Updated: true, Result: result}, nil
}
