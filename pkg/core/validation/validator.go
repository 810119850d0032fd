package validation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
	"github.com/oakfieldcare/rota-engine/pkg/db"
)

const (
	// DefaultWeeklyHourLimit is the maximum scheduled hours per carer per
	// Monday-start week
	DefaultWeeklyHourLimit = 36.0

	// DefaultRestPeriodHours is the minimum rest between a night shift and
	// a following day shift
	DefaultRestPeriodHours = 48.0
)

// Store is the subset of database operations the validator reads from
type Store interface {
	GetCarer(ctx context.Context, id string) (*model.Carer, error)
	GetPackage(ctx context.Context, id string) (*model.CarePackage, error)
	GetPackageTaskIDs(ctx context.Context, packageID string) ([]string, error)
	GetRatings(ctx context.Context, carerID string) ([]model.CompetencyRating, error)
	GetPackageEntries(ctx context.Context, packageID string) ([]model.ShiftEntry, error)
	GetCarerEntriesInRange(ctx context.Context, carerID, from, to string) ([]model.ShiftEntry, error)
}

// Validator evaluates candidate shift entries against the scheduling rule
// set. It holds no mutable state and is safe for concurrent use; every
// Validate call re-reads the store so results always reflect committed state.
type Validator struct {
	store           Store
	rules           []Rule
	weeklyHourLimit float64
	restPeriodHours float64
	logger          *zap.Logger
}

// Option configures a Validator
type Option func(*Validator)

// WithWeeklyHourLimit overrides the default weekly hour cap
func WithWeeklyHourLimit(hours float64) Option {
	return func(v *Validator) { v.weeklyHourLimit = hours }
}

// WithRestPeriod overrides the default night-to-day rest period
func WithRestPeriod(hours float64) Option {
	return func(v *Validator) { v.restPeriodHours = hours }
}

// New creates a Validator backed by the given store
func New(store Store, logger *zap.Logger, opts ...Option) *Validator {
	v := &Validator{
		store:           store,
		rules:           defaultRules(),
		weeklyHourLimit: DefaultWeeklyHourLimit,
		restPeriodHours: DefaultRestPeriodHours,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// WeeklyHourLimit returns the configured weekly cap
func (v *Validator) WeeklyHourLimit() float64 { return v.weeklyHourLimit }

// RestPeriodHours returns the configured rest period
func (v *Validator) RestPeriodHours() float64 { return v.restPeriodHours }

// Options control a single Validate call
type Options struct {
	// Entries supplies the context entry set directly instead of fetching
	// it from the store. The weekly aggregator uses this to validate every
	// entry of a week against the same snapshot.
	Entries []model.ShiftEntry

	// IncludeDuplicates runs the duplicate-shift rule ahead of the rest of
	// the rule set. The single-create path leaves it off because it
	// pre-checks duplicates itself.
	IncludeDuplicates bool
}

// Validate evaluates one candidate entry against the full rule set and
// returns the structured result. A missing carer or package short-circuits
// with a single error violation and no further rule evaluation. A non-nil
// Go error means a store read failed and no verdict could be produced.
func (v *Validator) Validate(ctx context.Context, candidate *model.ShiftEntry, opts Options) (*Result, error) {
	result := newResult()

	carer, err := v.store.GetCarer(ctx, candidate.CarerID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up carer %s: %w", candidate.CarerID, err)
		}
		result.add(&Violation{
			Code:     CodeCarerExists,
			Message:  fmt.Sprintf("carer %s does not exist", candidate.CarerID),
			Severity: SeverityError,
			CarerID:  candidate.CarerID,
		})
		return result, nil
	}
	// A soft-deleted carer cannot take new shifts
	if !carer.IsActive {
		result.add(&Violation{
			Code:     CodeCarerExists,
			Message:  fmt.Sprintf("carer %s is deactivated", candidate.CarerID),
			Severity: SeverityError,
			CarerID:  candidate.CarerID,
		})
		return result, nil
	}

	if _, err := v.store.GetPackage(ctx, candidate.PackageID); err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up package %s: %w", candidate.PackageID, err)
		}
		result.add(&Violation{
			Code:     CodePackageExists,
			Message:  fmt.Sprintf("care package %s does not exist", candidate.PackageID),
			Severity: SeverityError,
		})
		return result, nil
	}

	rctx, err := v.buildContext(ctx, candidate, opts.Entries)
	if err != nil {
		return nil, err
	}

	rules := v.rules
	if opts.IncludeDuplicates {
		rules = append([]Rule{duplicateShiftRule{}}, rules...)
	}

	for _, rule := range rules {
		result.add(v.evaluate(rule, rctx))
	}

	return result, nil
}

// evaluate runs one rule, converting a panic into a generic error violation
// so a single misbehaving rule cannot suppress the rest of the report
func (v *Validator) evaluate(rule Rule, rctx *Context) (violation *Violation) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("rule evaluation panicked",
				zap.String("rule", rule.Code()),
				zap.Any("panic", r))
			violation = &Violation{
				Code:     rule.Code(),
				Message:  fmt.Sprintf("rule %s could not be evaluated", rule.Code()),
				Severity: SeverityError,
				CarerID:  rctx.Candidate.CarerID,
			}
		}
	}()

	return rule.Evaluate(rctx)
}

// buildContext prefetches everything the rules need for one candidate
func (v *Validator) buildContext(ctx context.Context, candidate *model.ShiftEntry, supplied []model.ShiftEntry) (*Context, error) {
	date, err := timeutil.ParseDate(candidate.Date)
	if err != nil {
		return nil, err
	}

	taskIDs, err := v.store.GetPackageTaskIDs(ctx, candidate.PackageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package tasks: %w", err)
	}

	entries := supplied
	if entries == nil {
		entries, err = v.fetchEntries(ctx, candidate, date)
		if err != nil {
			return nil, err
		}
	}

	ratings, err := v.fetchShiftRatings(ctx, candidate, entries)
	if err != nil {
		return nil, err
	}

	return &Context{
		Candidate:       candidate,
		Date:            date,
		Entries:         entries,
		PackageTaskIDs:  taskIDs,
		Ratings:         ratings,
		WeeklyHourLimit: v.weeklyHourLimit,
		RestPeriodHours: v.restPeriodHours,
	}, nil
}

// fetchEntries unions the package's entries with the carer's own entries in
// a window wide enough for the weekly, rotation, weekend and rest rules:
// the previous Monday-start week through the end of the candidate's week.
func (v *Validator) fetchEntries(ctx context.Context, candidate *model.ShiftEntry, date time.Time) ([]model.ShiftEntry, error) {
	pkgEntries, err := v.store.GetPackageEntries(ctx, candidate.PackageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package entries: %w", err)
	}

	weekStart := timeutil.WeekStart(date)
	from := timeutil.FormatDate(weekStart.AddDate(0, 0, -7))
	to := timeutil.FormatDate(weekStart.AddDate(0, 0, 7))

	carerEntries, err := v.store.GetCarerEntriesInRange(ctx, candidate.CarerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch carer entries: %w", err)
	}

	seen := make(map[string]bool, len(pkgEntries))
	entries := make([]model.ShiftEntry, 0, len(pkgEntries)+len(carerEntries))
	for _, e := range pkgEntries {
		seen[e.ID] = true
		entries = append(entries, e)
	}
	for _, e := range carerEntries {
		if e.ID != "" && seen[e.ID] {
			continue
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// fetchShiftRatings loads competency ratings for every carer sharing the
// candidate's date+shift+package, plus the candidate carer
func (v *Validator) fetchShiftRatings(ctx context.Context, candidate *model.ShiftEntry, entries []model.ShiftEntry) (map[string][]model.CompetencyRating, error) {
	carerIDs := map[string]bool{candidate.CarerID: true}
	for _, e := range entries {
		if e.Date == candidate.Date && e.ShiftType == candidate.ShiftType && e.PackageID == candidate.PackageID {
			carerIDs[e.CarerID] = true
		}
	}

	ratings := make(map[string][]model.CompetencyRating, len(carerIDs))
	for id := range carerIDs {
		rs, err := v.store.GetRatings(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch ratings for carer %s: %w", id, err)
		}
		ratings[id] = rs
	}

	return ratings, nil
}
