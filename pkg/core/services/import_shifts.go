package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
)

// ImportShiftsStore is the store surface the batch coordinator writes
// through; InsertEntries must be atomic
type ImportShiftsStore interface {
	InsertEntries(ctx context.Context, entries []model.ShiftEntry) error
}

// CandidateResult pairs one batch candidate with its validation verdict
type CandidateResult struct {
	Index  int                `json:"index"`
	Entry  model.ShiftEntry   `json:"entry"`
	Result *validation.Result `json:"result"`
}

// ImportShiftsResult is the outcome of one batch call
type ImportShiftsResult struct {
	Results        []CandidateResult `json:"results"`
	ValidCount     int               `json:"validCount"`
	InvalidCount   int               `json:"invalidCount"`
	CommittedCount int               `json:"committedCount"`
}

// ImportShifts validates a batch of candidate entries under the strict-batch
// policy. Every candidate is validated independently against committed store
// state, duplicates included. With validateOnly the per-candidate results
// are returned and nothing is written. Otherwise a single invalid candidate
// rejects the whole batch; a fully valid batch is committed in one store
// transaction so partial writes are never observable.
//
// Candidates are not cross-checked against their batch siblings; two
// candidates duplicating each other surface only at commit, through the
// store's unique constraint.
func ImportShifts(ctx context.Context, store ImportShiftsStore, shiftValidator ShiftValidator, logger *zap.Logger, candidates []model.ShiftEntry, validateOnly bool) (*ImportShiftsResult, error) {
	out := &ImportShiftsResult{
		Results: make([]CandidateResult, 0, len(candidates)),
	}

	for i := range candidates {
		candidate := candidates[i]

		if err := validate.Struct(&candidate); err != nil {
			return nil, fmt.Errorf("invalid candidate at index %d: %w", i, err)
		}

		result, err := shiftValidator.Validate(ctx, &candidate, validation.Options{IncludeDuplicates: true})
		if err != nil {
			return nil, fmt.Errorf("failed to validate candidate at index %d: %w", i, err)
		}

		if result.IsValid {
			out.ValidCount++
		} else {
			out.InvalidCount++
		}
		out.Results = append(out.Results, CandidateResult{Index: i, Entry: candidate, Result: result})
	}

	if validateOnly {
		logger.Info("batch validated without committing",
			zap.Int("candidates", len(candidates)),
			zap.Int("valid", out.ValidCount),
			zap.Int("invalid", out.InvalidCount))
		return out, nil
	}

	if out.InvalidCount > 0 {
		logger.Info("batch rejected, nothing committed",
			zap.Int("candidates", len(candidates)),
			zap.Int("invalid", out.InvalidCount))
		return out, nil
	}

	entries := make([]model.ShiftEntry, len(candidates))
	for i, candidate := range candidates {
		entry := candidate
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		entries[i] = entry
	}

	if err := store.InsertEntries(ctx, entries); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	out.CommittedCount = len(entries)

	logger.Info("batch committed",
		zap.Int("entries", out.CommittedCount))

	return out, nil
}
