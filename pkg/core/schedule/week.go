// Package schedule builds the weekly per-carer view of a care package's
// rota, with totals and a consolidated violation list per carer.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
)

// Store is the subset of database operations the aggregator reads from
type Store interface {
	GetCarer(ctx context.Context, id string) (*model.Carer, error)
	GetPackageEntriesInRange(ctx context.Context, packageID, from, to string) ([]model.ShiftEntry, error)
}

// Validator re-checks each entry of the week against the rule set
type Validator interface {
	Validate(ctx context.Context, candidate *model.ShiftEntry, opts validation.Options) (*validation.Result, error)
}

// CarerWeek is one carer's slice of a package's week
type CarerWeek struct {
	CarerID     string                 `json:"carerID"`
	CarerName   string                 `json:"carerName"`
	Entries     []model.ShiftEntry     `json:"entries"`
	TotalHours  float64                `json:"totalHours"`
	DayShifts   int                    `json:"dayShifts"`
	NightShifts int                    `json:"nightShifts"`
	Violations  []validation.Violation `json:"violations"`
}

// Aggregator groups a package's entries for a 7-day window by carer
type Aggregator struct {
	store     Store
	validator Validator
	logger    *zap.Logger
}

// New creates an Aggregator
func New(store Store, validator Validator, logger *zap.Logger) *Aggregator {
	return &Aggregator{store: store, validator: validator, logger: logger}
}

// AggregateWeek returns one record per carer for the week starting at
// weekStart (normalized to its Monday). Every entry is re-validated with the
// full week as context, duplicates included, and the resulting errors and
// warnings are attached to the carer's record.
func (a *Aggregator) AggregateWeek(ctx context.Context, packageID string, weekStart time.Time) ([]CarerWeek, error) {
	start := timeutil.WeekStart(weekStart)
	from := timeutil.FormatDate(start)
	to := timeutil.FormatDate(start.AddDate(0, 0, 7))

	entries, err := a.store.GetPackageEntriesInRange(ctx, packageID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entries for week of %s: %w", from, err)
	}

	byCarer := make(map[string][]model.ShiftEntry)
	for _, e := range entries {
		byCarer[e.CarerID] = append(byCarer[e.CarerID], e)
	}

	weeks := make([]CarerWeek, 0, len(byCarer))
	for carerID, carerEntries := range byCarer {
		week := CarerWeek{
			CarerID:    carerID,
			Entries:    carerEntries,
			Violations: make([]validation.Violation, 0),
		}

		if carer, err := a.store.GetCarer(ctx, carerID); err == nil {
			week.CarerName = carer.Name
		} else {
			a.logger.Warn("could not resolve carer name",
				zap.String("carerID", carerID),
				zap.Error(err))
		}

		for i := range carerEntries {
			entry := carerEntries[i]

			hours, err := timeutil.ShiftHours(entry.StartTime, entry.EndTime)
			if err != nil {
				a.logger.Warn("entry has malformed shift times, counting zero hours",
					zap.String("entryID", entry.ID),
					zap.Error(err))
			}
			week.TotalHours += hours

			switch entry.ShiftType {
			case model.ShiftNight:
				week.NightShifts++
			default:
				week.DayShifts++
			}

			result, err := a.validator.Validate(ctx, &entry, validation.Options{
				Entries:           entries,
				IncludeDuplicates: true,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to validate entry %s: %w", entry.ID, err)
			}
			week.Violations = append(week.Violations, result.All()...)
		}

		weeks = append(weeks, week)
	}

	sort.Slice(weeks, func(i, j int) bool { return weeks[i].CarerID < weeks[j].CarerID })

	return weeks, nil
}
