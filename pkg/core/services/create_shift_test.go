package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

type mockCreateStore struct {
	existing *model.ShiftEntry
	findErr  error

	inserted  []model.ShiftEntry
	insertErr error
}

func (m *mockCreateStore) FindEntry(ctx context.Context, carerID, packageID, date string) (*model.ShiftEntry, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.existing != nil {
		return m.existing, nil
	}
	return nil, db.ErrNotFound
}

func (m *mockCreateStore) InsertEntry(ctx context.Context, entry *model.ShiftEntry) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, *entry)
	return nil
}

// stubValidator returns a canned result and records the options it was
// called with
type stubValidator struct {
	result *validation.Result
	err    error
	calls  []validation.Options
}

func (s *stubValidator) Validate(ctx context.Context, candidate *model.ShiftEntry, opts validation.Options) (*validation.Result, error) {
	s.calls = append(s.calls, opts)
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &validation.Result{IsValid: true}, nil
}

func testCandidate() *model.ShiftEntry {
	return &model.ShiftEntry{
		CarerID:   "carer-1",
		PackageID: "pkg-1",
		Date:      "2025-06-12",
		ShiftType: model.ShiftDay,
		StartTime: "08:00",
		EndTime:   "16:00",
	}
}

func TestCreateShift_InsertsAndAssignsID(t *testing.T) {
	store := &mockCreateStore{}
	result, err := CreateShift(context.Background(), store, &stubValidator{}, zap.NewNop(), testCandidate(), "coordinator")
	require.NoError(t, err)

	require.Len(t, store.inserted, 1)
	written := store.inserted[0]
	assert.NotEmpty(t, written.ID)
	assert.False(t, written.Confirmed)
	assert.Equal(t, "coordinator", written.CreatedBy)
	assert.Equal(t, written.ID, result.Entry.ID)
	assert.Empty(t, result.Warnings)
}

func TestCreateShift_RuleErrorsDemotedToWarnings(t *testing.T) {
	store := &mockCreateStore{}
	v := &stubValidator{result: &validation.Result{
		IsValid: false,
		Errors: []validation.Violation{{
			Code:     validation.CodeWeeklyHourLimit,
			Message:  "would exceed the weekly limit",
			Severity: validation.SeverityError,
		}},
		Warnings: []validation.Violation{{
			Code:     validation.CodeMinCompetentStaff,
			Severity: validation.SeverityWarning,
		}},
	}}

	result, err := CreateShift(context.Background(), store, v, zap.NewNop(), testCandidate(), "")
	require.NoError(t, err, "rule errors do not block the permissive path")

	assert.Len(t, store.inserted, 1, "the entry is written despite the error")
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, validation.CodeWeeklyHourLimit, result.Warnings[0].Code)
}

func TestCreateShift_DuplicateSlotBlocked(t *testing.T) {
	store := &mockCreateStore{existing: &model.ShiftEntry{ID: "e1"}}

	_, err := CreateShift(context.Background(), store, &stubValidator{}, zap.NewNop(), testCandidate(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateShift)
	assert.Contains(t, err.Error(), "Thursday 12 June 2025")
	assert.Empty(t, store.inserted)
}

func TestCreateShift_MissingCarerBlocked(t *testing.T) {
	store := &mockCreateStore{}
	v := &stubValidator{result: &validation.Result{
		IsValid: false,
		Errors: []validation.Violation{{
			Code:     validation.CodeCarerExists,
			Message:  "carer ghost does not exist or is inactive",
			Severity: validation.SeverityError,
		}},
	}}

	_, err := CreateShift(context.Background(), store, v, zap.NewNop(), testCandidate(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
	assert.Empty(t, store.inserted)
}

func TestCreateShift_MalformedCandidateRejected(t *testing.T) {
	store := &mockCreateStore{}
	candidate := testCandidate()
	candidate.Date = "12/06/2025"

	_, err := CreateShift(context.Background(), store, &stubValidator{}, zap.NewNop(), candidate, "")
	assert.Error(t, err)
	assert.Empty(t, store.inserted)
}

func TestCreateShift_DuplicateCheckFailureSurfaces(t *testing.T) {
	store := &mockCreateStore{findErr: errors.New("connection reset")}

	_, err := CreateShift(context.Background(), store, &stubValidator{}, zap.NewNop(), testCandidate(), "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateShift)
}

func TestCreateShift_DoesNotRequestDuplicateRule(t *testing.T) {
	store := &mockCreateStore{}
	v := &stubValidator{}

	_, err := CreateShift(context.Background(), store, v, zap.NewNop(), testCandidate(), "")
	require.NoError(t, err)

	require.Len(t, v.calls, 1)
	assert.False(t, v.calls[0].IncludeDuplicates, "the pre-check covers duplicates on this path")
}
