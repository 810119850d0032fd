package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ShiftAdminStore is the store surface for confirm and delete operations
type ShiftAdminStore interface {
	ConfirmEntry(ctx context.Context, id string) error
	DeleteEntry(ctx context.Context, id string) error
	DeleteEntries(ctx context.Context, ids []string) error
}

// ConfirmShift flips the confirmed flag on an entry. No re-validation: the
// entry was validated when it was written and confirmation changes nothing
// the rules look at.
func ConfirmShift(ctx context.Context, store ShiftAdminStore, logger *zap.Logger, id string) error {
	if err := store.ConfirmEntry(ctx, id); err != nil {
		return fmt.Errorf("failed to confirm shift entry %s: %w", id, err)
	}
	logger.Info("shift entry confirmed", zap.String("entryID", id))
	return nil
}

// DeleteShift removes a single entry
func DeleteShift(ctx context.Context, store ShiftAdminStore, logger *zap.Logger, id string) error {
	if err := store.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("failed to delete shift entry %s: %w", id, err)
	}
	logger.Info("shift entry deleted", zap.String("entryID", id))
	return nil
}

// DeleteShifts removes a batch of entries in one transaction
func DeleteShifts(ctx context.Context, store ShiftAdminStore, logger *zap.Logger, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := store.DeleteEntries(ctx, ids); err != nil {
		return fmt.Errorf("failed to delete %d shift entries: %w", len(ids), err)
	}
	logger.Info("shift entries deleted", zap.Int("count", len(ids)))
	return nil
}
