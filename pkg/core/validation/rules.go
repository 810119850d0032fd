package validation

import (
	"fmt"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
)

// Rule is a single scheduling rule. Evaluate returns nil when the rule is
// satisfied (or does not apply) and exactly one violation when it fires.
// Rules are pure: all store state they need is prefetched into the Context.
type Rule interface {
	// Code returns the stable rule code attached to violations
	Code() string

	Evaluate(c *Context) *Violation
}

// defaultRules is the fixed ordered rule set evaluated for every candidate.
// The duplicate-shift rule is not part of this list: the single-create path
// pre-checks duplicates itself for a friendlier message, and callers that
// need the complete rule set (batch import, weekly aggregation) ask for it
// explicitly so it runs ahead of everything else.
func defaultRules() []Rule {
	return []Rule{
		competentStaffingRule{},
		competencyPairingRule{},
		weeklyHoursRule{},
		rotationPatternRule{},
		consecutiveWeekendsRule{},
		restPeriodRule{},
	}
}

// competentStaffingRule warns when no carer on the candidate's
// date+shift+package holds a competent rating on any package task. If the
// package has no tasks assigned the staffing rule is not meaningfully
// applicable, which is surfaced as its own warning instead.
type competentStaffingRule struct{}

func (competentStaffingRule) Code() string { return CodeMinCompetentStaff }

func (competentStaffingRule) Evaluate(c *Context) *Violation {
	if len(c.PackageTaskIDs) == 0 {
		return &Violation{
			Code:     CodeNoPackageTasks,
			Message:  "package has no tasks assigned, competent staffing cannot be assessed",
			Severity: SeverityWarning,
		}
	}

	competent := 0
	seen := map[string]bool{}
	for _, e := range append(c.SameShiftEntries(), *c.Candidate) {
		if seen[e.CarerID] {
			continue
		}
		seen[e.CarerID] = true
		if c.IsCompetentOnPackage(e.CarerID) {
			competent++
		}
	}

	if competent == 0 {
		return &Violation{
			Code:     CodeMinCompetentStaff,
			Message:  fmt.Sprintf("no competent carer on the %s shift for this package on %s", c.Candidate.ShiftType, c.Candidate.Date),
			Severity: SeverityWarning,
		}
	}
	return nil
}

// competencyPairingRule warns when a carer who is not competent on any
// package task is scheduled without a competent colleague on the same shift.
// Packages with no assigned tasks carry no pairing requirement.
type competencyPairingRule struct{}

func (competencyPairingRule) Code() string { return CodeCompetencyPairing }

func (competencyPairingRule) Evaluate(c *Context) *Violation {
	if len(c.PackageTaskIDs) == 0 {
		return nil
	}
	if c.IsCompetentOnPackage(c.Candidate.CarerID) {
		return nil
	}

	for _, e := range c.SameShiftEntries() {
		if e.CarerID == c.Candidate.CarerID {
			continue
		}
		if c.IsCompetentOnPackage(e.CarerID) {
			return nil
		}
	}

	return &Violation{
		Code:     CodeCompetencyPairing,
		Message:  "carer needs assessment for this package and no competent carer shares the shift",
		Severity: SeverityWarning,
		CarerID:  c.Candidate.CarerID,
	}
}

// weeklyHoursRule blocks a candidate that would push the carer's scheduled
// hours for the Monday-start week over the configured cap
type weeklyHoursRule struct{}

func (weeklyHoursRule) Code() string { return CodeWeeklyHourLimit }

func (weeklyHoursRule) Evaluate(c *Context) *Violation {
	weekStart := timeutil.WeekStart(c.Date)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var current float64
	for _, e := range c.CarerEntries(c.Candidate.CarerID) {
		d, err := timeutil.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Before(weekStart) || !d.Before(weekEnd) {
			continue
		}
		current += entryHours(&e)
	}

	proposed := entryHours(c.Candidate)
	total := current + proposed

	if total > c.WeeklyHourLimit {
		return &Violation{
			Code:     CodeWeeklyHourLimit,
			Message:  fmt.Sprintf("carer would be scheduled %.1f hours in the week of %s, over the %.0f hour limit", total, timeutil.FormatDate(weekStart), c.WeeklyHourLimit),
			Severity: SeverityError,
			CarerID:  c.Candidate.CarerID,
			Extra: map[string]any{
				"currentHours":  current,
				"proposedHours": proposed,
				"totalHours":    total,
				"limit":         c.WeeklyHourLimit,
			},
		}
	}
	return nil
}

// rotationPatternRule warns when the carer worked only one shift type last
// week and the candidate repeats it. An empty or mixed previous week gives
// no signal, so the rule stays quiet.
type rotationPatternRule struct{}

func (rotationPatternRule) Code() string { return CodeRotationPattern }

func (rotationPatternRule) Evaluate(c *Context) *Violation {
	weekStart := timeutil.WeekStart(c.Date)
	prevStart := weekStart.AddDate(0, 0, -7)

	var prevType model.ShiftType
	uniform := true
	found := false
	for _, e := range c.CarerEntries(c.Candidate.CarerID) {
		d, err := timeutil.ParseDate(e.Date)
		if err != nil {
			continue
		}
		if d.Before(prevStart) || !d.Before(weekStart) {
			continue
		}
		if !found {
			prevType = e.ShiftType
			found = true
		} else if e.ShiftType != prevType {
			uniform = false
		}
	}

	if found && uniform && prevType == c.Candidate.ShiftType {
		return &Violation{
			Code:     CodeRotationPattern,
			Message:  fmt.Sprintf("carer worked only %s shifts last week and is scheduled %s again; expected pattern alternates day and night", prevType, c.Candidate.ShiftType),
			Severity: SeverityWarning,
			CarerID:  c.Candidate.CarerID,
		}
	}
	return nil
}

// consecutiveWeekendsRule blocks a weekend candidate when the carer already
// worked any entry on the immediately preceding weekend
type consecutiveWeekendsRule struct{}

func (consecutiveWeekendsRule) Code() string { return CodeConsecutiveWeekends }

func (consecutiveWeekendsRule) Evaluate(c *Context) *Violation {
	if !timeutil.IsWeekend(c.Date) {
		return nil
	}

	prevSat, prevSun := timeutil.PreviousWeekend(c.Date)
	satStr := timeutil.FormatDate(prevSat)
	sunStr := timeutil.FormatDate(prevSun)

	for _, e := range c.CarerEntries(c.Candidate.CarerID) {
		if e.Date == satStr || e.Date == sunStr {
			return &Violation{
				Code:     CodeConsecutiveWeekends,
				Message:  fmt.Sprintf("carer worked the weekend of %s and cannot work consecutive weekends", satStr),
				Severity: SeverityError,
				CarerID:  c.Candidate.CarerID,
			}
		}
	}
	return nil
}

// restPeriodRule blocks a day shift scheduled within the rest period after
// a night shift by the same carer. Consecutive nights and day-to-night
// transitions are deliberately unrestricted.
type restPeriodRule struct{}

func (restPeriodRule) Code() string { return CodeRestPeriod }

func (restPeriodRule) Evaluate(c *Context) *Violation {
	if c.Candidate.ShiftType != model.ShiftDay {
		return nil
	}

	for _, e := range c.CarerEntries(c.Candidate.CarerID) {
		if e.ShiftType != model.ShiftNight {
			continue
		}
		d, err := timeutil.ParseDate(e.Date)
		if err != nil {
			continue
		}
		elapsed := c.Date.Sub(d).Hours()
		if elapsed >= 0 && elapsed < c.RestPeriodHours {
			return &Violation{
				Code:     CodeRestPeriod,
				Message:  fmt.Sprintf("only %.1f hours since the night shift on %s; %.0f hours rest required before a day shift", elapsed, e.Date, c.RestPeriodHours),
				Severity: SeverityError,
				CarerID:  c.Candidate.CarerID,
				Extra: map[string]any{
					"hoursSinceNightShift": elapsed,
					"requiredHours":        c.RestPeriodHours,
				},
			}
		}
	}
	return nil
}

// duplicateShiftRule blocks a candidate whose (carer, package, date) slot is
// already taken by a stored entry. The store's unique constraint is the real
// guard; this rule exists so batch and aggregation paths report the
// violation alongside everything else.
type duplicateShiftRule struct{}

func (duplicateShiftRule) Code() string { return CodeDuplicateShift }

func (duplicateShiftRule) Evaluate(c *Context) *Violation {
	for _, e := range c.Entries {
		if !e.SameSlot(c.Candidate) {
			continue
		}
		if e.ID != "" && e.ID == c.Candidate.ID {
			continue
		}
		return &Violation{
			Code:     CodeDuplicateShift,
			Message:  duplicateMessage(c.Candidate),
			Severity: SeverityError,
			CarerID:  c.Candidate.CarerID,
		}
	}
	return nil
}

// duplicateMessage builds the user-facing duplicate text with the day name,
// matching the single-create pre-check
func duplicateMessage(e *model.ShiftEntry) string {
	d, err := timeutil.ParseDate(e.Date)
	if err != nil {
		return fmt.Sprintf("carer already has a shift on this package on %s", e.Date)
	}
	return fmt.Sprintf("carer already has a shift on this package on %s", timeutil.FriendlyDate(d))
}
