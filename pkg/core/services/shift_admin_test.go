package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/db"
)

type mockAdminStore struct {
	confirmed []string
	deleted   []string
	batches   [][]string

	err error
}

func (m *mockAdminStore) ConfirmEntry(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.confirmed = append(m.confirmed, id)
	return nil
}

func (m *mockAdminStore) DeleteEntry(ctx context.Context, id string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockAdminStore) DeleteEntries(ctx context.Context, ids []string) error {
	if m.err != nil {
		return m.err
	}
	m.batches = append(m.batches, ids)
	return nil
}

func TestConfirmShift(t *testing.T) {
	store := &mockAdminStore{}
	require.NoError(t, ConfirmShift(context.Background(), store, zap.NewNop(), "e1"))
	assert.Equal(t, []string{"e1"}, store.confirmed)
}

func TestConfirmShift_NotFound(t *testing.T) {
	store := &mockAdminStore{err: db.ErrNotFound}
	err := ConfirmShift(context.Background(), store, zap.NewNop(), "ghost")
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestDeleteShift(t *testing.T) {
	store := &mockAdminStore{}
	require.NoError(t, DeleteShift(context.Background(), store, zap.NewNop(), "e1"))
	assert.Equal(t, []string{"e1"}, store.deleted)
}

func TestDeleteShifts_Batch(t *testing.T) {
	store := &mockAdminStore{}
	require.NoError(t, DeleteShifts(context.Background(), store, zap.NewNop(), []string{"e1", "e2"}))
	require.Len(t, store.batches, 1)
	assert.Equal(t, []string{"e1", "e2"}, store.batches[0])
}

func TestDeleteShifts_EmptyIsNoop(t *testing.T) {
	store := &mockAdminStore{}
	require.NoError(t, DeleteShifts(context.Background(), store, zap.NewNop(), nil))
	assert.Empty(t, store.batches)
}
