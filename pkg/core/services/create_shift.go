package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

// ErrDuplicateShift is returned when the candidate's (carer, package, date)
// slot is already taken. The wrapping error carries the user-facing
// day-name message.
var ErrDuplicateShift = errors.New("duplicate shift")

// CreateShiftStore is the store surface the single-create path writes through
type CreateShiftStore interface {
	FindEntry(ctx context.Context, carerID, packageID, date string) (*model.ShiftEntry, error)
	InsertEntry(ctx context.Context, entry *model.ShiftEntry) error
}

// CreateShiftResult is the permissive-create response: the written entry
// plus every rule violation demoted to an advisory warning
type CreateShiftResult struct {
	Entry    *model.ShiftEntry      `json:"entry"`
	Warnings []validation.Violation `json:"warnings"`
}

// CreateShift inserts a single shift entry under the permissive-create
// policy. The duplicate pre-check runs first so it can short-circuit with a
// friendly day-name message; after that, only a missing carer or package
// blocks the insert. All other violations, errors included, are returned as
// warnings and the entry is written regardless.
//
// This pre-check is advisory under concurrent writers: the store's unique
// constraint on (carer, package, date) is the real guard.
func CreateShift(ctx context.Context, store CreateShiftStore, shiftValidator ShiftValidator, logger *zap.Logger, candidate *model.ShiftEntry, createdBy string) (*CreateShiftResult, error) {
	if err := validate.Struct(candidate); err != nil {
		return nil, fmt.Errorf("invalid shift entry: %w", err)
	}

	existing, err := store.FindEntry(ctx, candidate.CarerID, candidate.PackageID, candidate.Date)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for duplicate shift: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateShift, friendlyDuplicateMessage(candidate))
	}

	result, err := shiftValidator.Validate(ctx, candidate, validation.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to validate shift entry: %w", err)
	}

	// Missing carer/package short-circuits validation with a single error
	for _, v := range result.Errors {
		if v.Code == validation.CodeCarerExists || v.Code == validation.CodePackageExists {
			return nil, fmt.Errorf("cannot create shift: %s", v.Message)
		}
	}

	entry := *candidate
	entry.ID = uuid.NewString()
	entry.Confirmed = false
	entry.CreatedBy = createdBy

	if err := store.InsertEntry(ctx, &entry); err != nil {
		return nil, fmt.Errorf("failed to insert shift entry: %w", err)
	}

	logger.Info("shift entry created",
		zap.String("entryID", entry.ID),
		zap.String("carerID", entry.CarerID),
		zap.String("packageID", entry.PackageID),
		zap.String("date", entry.Date),
		zap.Int("advisoryViolations", len(result.Errors)+len(result.Warnings)))

	return &CreateShiftResult{
		Entry:    &entry,
		Warnings: result.All(),
	}, nil
}

// friendlyDuplicateMessage names the day so operators see at a glance which
// entry clashes
func friendlyDuplicateMessage(e *model.ShiftEntry) string {
	d, err := timeutil.ParseDate(e.Date)
	if err != nil {
		return fmt.Sprintf("carer already has a shift on this package on %s", e.Date)
	}
	return fmt.Sprintf("carer already has a shift on this package on %s", timeutil.FriendlyDate(d))
}
