// Package availability answers "who can work this shift" for a proposed
// shift window, reusing the same temporal primitives as the rule validator
// but evaluated per carer across a candidate pool.
package availability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
	"github.com/oakfieldcare/rota-engine/pkg/core/validation"
)

// Store is the subset of database operations the resolver reads from
type Store interface {
	GetCarer(ctx context.Context, id string) (*model.Carer, error)
	ListActiveCarers(ctx context.Context) ([]model.Carer, error)
	ListPackageCarerIDs(ctx context.Context, packageID string) ([]string, error)
	GetRatings(ctx context.Context, carerID string) ([]model.CompetencyRating, error)
	GetCarerEntriesInRange(ctx context.Context, carerID, from, to string) ([]model.ShiftEntry, error)
}

// Window is the proposed shift being staffed
type Window struct {
	PackageID string
	Date      string
	ShiftType model.ShiftType
	StartTime string
	EndTime   string
}

// Pool selects which carers are evaluated
type Pool int

const (
	// PoolPackageCarers considers only carers already working the package
	PoolPackageCarers Pool = iota

	// PoolAllActive considers the full active roster
	PoolAllActive
)

// ConflictType classifies an availability conflict
type ConflictType string

const (
	ConflictRota        ConflictType = "ROTA_CONFLICT"
	ConflictWeeklyHours ConflictType = "WEEKLY_HOURS"
	ConflictRestPeriod  ConflictType = "REST_PERIOD"
	ConflictWeekend     ConflictType = "CONSECUTIVE_WEEKENDS"
	ConflictEvaluation  ConflictType = "EVALUATION_FAILED"
)

// Conflict is one reason a carer cannot (or should not) take the window
type Conflict struct {
	Type    ConflictType `json:"type"`
	Message string       `json:"message"`
}

// CompetencyMatch reports how a carer's ratings line up with the tasks
// required for the window
type CompetencyMatch struct {
	IsCompetent     bool     `json:"isCompetent"`
	RequiredTaskIDs []string `json:"requiredTaskIDs"`
	MatchedTaskIDs  []string `json:"matchedTaskIDs"`
	MissingTaskIDs  []string `json:"missingTaskIDs"`
}

// Check is the availability verdict for one carer
type Check struct {
	CarerID     string          `json:"carerID"`
	CarerName   string          `json:"carerName"`
	IsAvailable bool            `json:"isAvailable"`
	Conflicts   []Conflict      `json:"conflicts"`
	Competency  CompetencyMatch `json:"competency"`
}

// Resolver evaluates carer availability for proposed shift windows.
// Stateless and safe for concurrent use.
type Resolver struct {
	store           Store
	weeklyHourLimit float64
	restPeriodHours float64
	concurrency     int
	logger          *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithWeeklyHourLimit overrides the default weekly hour cap
func WithWeeklyHourLimit(hours float64) Option {
	return func(r *Resolver) { r.weeklyHourLimit = hours }
}

// WithRestPeriod overrides the default night-to-day rest period
func WithRestPeriod(hours float64) Option {
	return func(r *Resolver) { r.restPeriodHours = hours }
}

// WithConcurrency caps how many carers are evaluated in parallel
func WithConcurrency(n int) Option {
	return func(r *Resolver) { r.concurrency = n }
}

// New creates a Resolver backed by the given store
func New(store Store, logger *zap.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		store:           store,
		weeklyHourLimit: validation.DefaultWeeklyHourLimit,
		restPeriodHours: validation.DefaultRestPeriodHours,
		concurrency:     8,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve evaluates every carer in the selected pool against the window.
// Carers are checked independently and in parallel; a failure evaluating one
// carer marks that carer unavailable with a generic conflict and never
// aborts the rest of the pool.
func (r *Resolver) Resolve(ctx context.Context, window Window, requiredTaskIDs []string, competentOnly bool, pool Pool) ([]Check, error) {
	carers, err := r.poolCarers(ctx, window.PackageID, pool)
	if err != nil {
		return nil, err
	}

	checks := make([]Check, len(carers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, carer := range carers {
		i, carer := i, carer
		g.Go(func() error {
			checks[i] = r.checkCarer(gctx, carer, window, requiredTaskIDs, competentOnly)
			return nil
		})
	}
	// Goroutines report per-carer failures inside their Check, never as errors
	_ = g.Wait()

	return checks, nil
}

// CheckCarer evaluates a single carer against the window
func (r *Resolver) CheckCarer(ctx context.Context, carerID string, window Window, requiredTaskIDs []string, competentOnly bool) (Check, error) {
	carer, err := r.store.GetCarer(ctx, carerID)
	if err != nil {
		return Check{}, fmt.Errorf("failed to look up carer %s: %w", carerID, err)
	}
	return r.checkCarer(ctx, *carer, window, requiredTaskIDs, competentOnly), nil
}

// poolCarers materializes the carer pool for the window
func (r *Resolver) poolCarers(ctx context.Context, packageID string, pool Pool) ([]model.Carer, error) {
	if pool == PoolAllActive {
		carers, err := r.store.ListActiveCarers(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active carers: %w", err)
		}
		return carers, nil
	}

	ids, err := r.store.ListPackageCarerIDs(ctx, packageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list package carers: %w", err)
	}

	carers := make([]model.Carer, 0, len(ids))
	for _, id := range ids {
		carer, err := r.store.GetCarer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to look up carer %s: %w", id, err)
		}
		carers = append(carers, *carer)
	}
	return carers, nil
}

// checkCarer runs the full per-carer evaluation, converting any panic or
// store failure into an EVALUATION_FAILED conflict
func (r *Resolver) checkCarer(ctx context.Context, carer model.Carer, window Window, requiredTaskIDs []string, competentOnly bool) (check Check) {
	check = Check{CarerID: carer.ID, CarerName: carer.Name}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("availability evaluation panicked",
				zap.String("carerID", carer.ID),
				zap.Any("panic", rec))
			check.IsAvailable = false
			check.Conflicts = append(check.Conflicts, Conflict{
				Type:    ConflictEvaluation,
				Message: "availability could not be evaluated for this carer",
			})
		}
	}()

	date, err := timeutil.ParseDate(window.Date)
	if err != nil {
		return r.unavailable(check, err)
	}

	weekStart := timeutil.WeekStart(date)
	from := timeutil.FormatDate(weekStart.AddDate(0, 0, -7))
	to := timeutil.FormatDate(weekStart.AddDate(0, 0, 7))
	entries, err := r.store.GetCarerEntriesInRange(ctx, carer.ID, from, to)
	if err != nil {
		return r.unavailable(check, err)
	}

	blocked := false

	if c := r.rotaConflict(window, entries); c != nil {
		check.Conflicts = append(check.Conflicts, *c)
		blocked = true
	}
	if c := r.weeklyHoursConflict(window, date, entries); c != nil {
		check.Conflicts = append(check.Conflicts, *c)
		blocked = true
	}
	if c := r.restPeriodConflict(window, date, entries); c != nil {
		check.Conflicts = append(check.Conflicts, *c)
		blocked = true
	}
	// The weekend check is reported but does not gate availability; the
	// strict write paths reject it through the rule validator instead
	if c := r.weekendConflict(date, entries); c != nil {
		check.Conflicts = append(check.Conflicts, *c)
	}

	match, err := r.competencyMatch(ctx, carer.ID, requiredTaskIDs, competentOnly)
	if err != nil {
		return r.unavailable(check, err)
	}
	check.Competency = match

	check.IsAvailable = !blocked && (!competentOnly || match.IsCompetent)
	return check
}

// unavailable finalizes a check that could not be evaluated
func (r *Resolver) unavailable(check Check, err error) Check {
	r.logger.Warn("availability evaluation failed",
		zap.String("carerID", check.CarerID),
		zap.Error(err))
	check.IsAvailable = false
	check.Conflicts = append(check.Conflicts, Conflict{
		Type:    ConflictEvaluation,
		Message: "availability could not be evaluated for this carer",
	})
	return check
}

// rotaConflict reports an overlapping same-day entry on any package
func (r *Resolver) rotaConflict(window Window, entries []model.ShiftEntry) *Conflict {
	for _, e := range entries {
		if e.Date != window.Date {
			continue
		}
		overlap, err := timeutil.Overlaps(window.StartTime, window.EndTime, e.StartTime, e.EndTime)
		if err != nil {
			panic(fmt.Sprintf("malformed shift times on entry %s: %v", e.ID, err))
		}
		if overlap {
			return &Conflict{
				Type:    ConflictRota,
				Message: fmt.Sprintf("already scheduled %s-%s on %s", e.StartTime, e.EndTime, e.Date),
			}
		}
	}
	return nil
}

// weeklyHoursConflict simulates the weekly cap with the window added
func (r *Resolver) weeklyHoursConflict(window Window, date time.Time, entries []model.ShiftEntry) *Conflict {
	weekStart := timeutil.WeekStart(date)
	weekEnd := weekStart.AddDate(0, 0, 7)

	windowHours, err := timeutil.ShiftHours(window.StartTime, window.EndTime)
	if err != nil {
		panic(fmt.Sprintf("malformed window times: %v", err))
	}

	total := windowHours
	for _, e := range entries {
		d, err := timeutil.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Before(weekStart) || !d.Before(weekEnd) {
			continue
		}
		hours, err := timeutil.ShiftHours(e.StartTime, e.EndTime)
		if err != nil {
			continue
		}
		total += hours
	}

	if total > r.weeklyHourLimit {
		return &Conflict{
			Type:    ConflictWeeklyHours,
			Message: fmt.Sprintf("would reach %.1f hours this week, over the %.0f hour limit", total, r.weeklyHourLimit),
		}
	}
	return nil
}

// restPeriodConflict reports a recent night shift ahead of a day window
func (r *Resolver) restPeriodConflict(window Window, date time.Time, entries []model.ShiftEntry) *Conflict {
	if window.ShiftType != model.ShiftDay {
		return nil
	}

	for _, e := range entries {
		if e.ShiftType != model.ShiftNight {
			continue
		}
		d, err := timeutil.ParseDate(e.Date)
		if err != nil {
			continue
		}
		elapsed := date.Sub(d).Hours()
		if elapsed >= 0 && elapsed < r.restPeriodHours {
			return &Conflict{
				Type:    ConflictRestPeriod,
				Message: fmt.Sprintf("only %.1f hours since the night shift on %s", elapsed, e.Date),
			}
		}
	}
	return nil
}

// weekendConflict reports an entry on the immediately preceding weekend
func (r *Resolver) weekendConflict(date time.Time, entries []model.ShiftEntry) *Conflict {
	if !timeutil.IsWeekend(date) {
		return nil
	}

	prevSat, prevSun := timeutil.PreviousWeekend(date)
	satStr := timeutil.FormatDate(prevSat)
	sunStr := timeutil.FormatDate(prevSun)

	for _, e := range entries {
		if e.Date == satStr || e.Date == sunStr {
			return &Conflict{
				Type:    ConflictWeekend,
				Message: fmt.Sprintf("worked the weekend of %s", satStr),
			}
		}
	}
	return nil
}

// competencyMatch compares the carer's ratings against the required tasks.
// When competency is not required the carer trivially matches.
func (r *Resolver) competencyMatch(ctx context.Context, carerID string, requiredTaskIDs []string, competentOnly bool) (CompetencyMatch, error) {
	match := CompetencyMatch{
		RequiredTaskIDs: requiredTaskIDs,
		MatchedTaskIDs:  make([]string, 0, len(requiredTaskIDs)),
		MissingTaskIDs:  make([]string, 0),
	}

	if len(requiredTaskIDs) == 0 {
		match.IsCompetent = true
		return match, nil
	}

	ratings, err := r.store.GetRatings(ctx, carerID)
	if err != nil {
		return match, fmt.Errorf("failed to fetch ratings: %w", err)
	}

	competent := make(map[string]bool, len(ratings))
	for _, rating := range ratings {
		if rating.Level.IsCompetent() {
			competent[rating.TaskID] = true
		}
	}

	for _, taskID := range requiredTaskIDs {
		if competent[taskID] {
			match.MatchedTaskIDs = append(match.MatchedTaskIDs, taskID)
		} else {
			match.MissingTaskIDs = append(match.MissingTaskIDs, taskID)
		}
	}

	match.IsCompetent = len(match.MissingTaskIDs) == 0
	if !competentOnly {
		match.IsCompetent = true
	}
	return match, nil
}
