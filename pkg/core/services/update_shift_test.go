package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
)

type mockUpdateStore struct {
	updated []model.ShiftEntry
}

func (m *mockUpdateStore) UpdateEntry(ctx context.Context, entry *model.ShiftEntry) error {
	m.updated = append(m.updated, *entry)
	return nil
}

func storedEntry() *model.ShiftEntry {
	e := testCandidate()
	e.ID = "e1"
	return e
}

func TestUpdateShift_ValidEntryWritten(t *testing.T) {
	store := &mockUpdateStore{}
	v := &stubValidator{}

	result, err := UpdateShift(context.Background(), store, v, zap.NewNop(), storedEntry())
	require.NoError(t, err)

	assert.True(t, result.Updated)
	require.Len(t, store.updated, 1)
	assert.Equal(t, "e1", store.updated[0].ID)

	require.Len(t, v.calls, 1)
	assert.True(t, v.calls[0].IncludeDuplicates, "updates check duplicates through the rule set")
}

func TestUpdateShift_AnyRuleErrorRejects(t *testing.T) {
	store := &mockUpdateStore{}
	v := &stubValidator{result: &validation.Result{
		IsValid: false,
		Errors: []validation.Violation{{
			Code:     validation.CodeRestPeriod,
			Severity: validation.SeverityError,
		}},
	}}

	result, err := UpdateShift(context.Background(), store, v, zap.NewNop(), storedEntry())
	require.NoError(t, err, "a rejection is a result, not a failure")

	assert.False(t, result.Updated)
	require.NotNil(t, result.Result)
	assert.Len(t, result.Result.Errors, 1)
	assert.Empty(t, store.updated, "nothing is written on rejection")
}

func TestUpdateShift_WarningsDoNotBlock(t *testing.T) {
	store := &mockUpdateStore{}
	v := &stubValidator{result: &validation.Result{
		IsValid: true,
		Warnings: []validation.Violation{{
			Code:     validation.CodeRotationPattern,
			Severity: validation.SeverityWarning,
		}},
	}}

	result, err := UpdateShift(context.Background(), store, v, zap.NewNop(), storedEntry())
	require.NoError(t, err)

	assert.True(t, result.Updated)
	assert.Len(t, store.updated, 1)
}

func TestUpdateShift_RequiresID(t *testing.T) {
	store := &mockUpdateStore{}

	_, err := UpdateShift(context.Background(), store, &stubValidator{}, zap.NewNop(), testCandidate())
	assert.Error(t, err)
	assert.Empty(t, store.updated)
}
