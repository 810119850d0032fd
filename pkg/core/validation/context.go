package validation

import (
	"time"

	"github.com/oakfieldcare/rota-engine/pkg/core/model"
	"github.com/oakfieldcare/rota-engine/pkg/core/timeutil"
)

// Context carries everything a rule needs to evaluate one candidate entry.
// It is built once per validation call from store reads (or from an
// entry set the caller supplies) so the rules themselves stay pure.
type Context struct {
	// Candidate is the proposed entry under validation
	Candidate *model.ShiftEntry

	// Date is the candidate's parsed calendar date
	Date time.Time

	// Entries is the existing entry set used as context: the package's
	// entries plus the carer's entries across packages, deduplicated.
	// The candidate itself is not in this set unless it is a stored entry
	// being re-validated (update, weekly aggregation).
	Entries []model.ShiftEntry

	// PackageTaskIDs are the tasks actively assigned to the candidate's package
	PackageTaskIDs []string

	// Ratings holds competency ratings per carer, for every carer that
	// appears on the candidate's date+shift+package
	Ratings map[string][]model.CompetencyRating

	// Configured limits
	WeeklyHourLimit float64
	RestPeriodHours float64
}

// isCandidateRow reports whether e is the candidate's own stored row: the
// same entry by ID when the candidate carries one (an update may move the
// row to a new date), or the row occupying the candidate's slot otherwise
func (c *Context) isCandidateRow(e *model.ShiftEntry) bool {
	if e.ID != "" && e.ID == c.Candidate.ID {
		return true
	}
	return e.SameSlot(c.Candidate)
}

// CarerEntries returns the context entries belonging to the given carer,
// excluding the candidate's own stored row
func (c *Context) CarerEntries(carerID string) []model.ShiftEntry {
	var out []model.ShiftEntry
	for _, e := range c.Entries {
		if e.CarerID != carerID {
			continue
		}
		if c.isCandidateRow(&e) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// SameShiftEntries returns the entries sharing the candidate's date,
// shift type and package, excluding the candidate's own stored row
func (c *Context) SameShiftEntries() []model.ShiftEntry {
	var out []model.ShiftEntry
	for _, e := range c.Entries {
		if c.isCandidateRow(&e) {
			continue
		}
		if e.Date == c.Candidate.Date && e.ShiftType == c.Candidate.ShiftType && e.PackageID == c.Candidate.PackageID {
			out = append(out, e)
		}
	}
	return out
}

// IsCompetentOnPackage reports whether the carer holds a competent-or-above
// rating on at least one task assigned to the candidate's package
func (c *Context) IsCompetentOnPackage(carerID string) bool {
	if len(c.PackageTaskIDs) == 0 {
		return false
	}
	tasks := make(map[string]bool, len(c.PackageTaskIDs))
	for _, id := range c.PackageTaskIDs {
		tasks[id] = true
	}
	for _, r := range c.Ratings[carerID] {
		if tasks[r.TaskID] && r.Level.IsCompetent() {
			return true
		}
	}
	return false
}

// entryHours returns the entry's duration, treating malformed clock
// strings as zero so one bad row cannot poison a whole validation
func entryHours(e *model.ShiftEntry) float64 {
	hours, err := timeutil.ShiftHours(e.StartTime, e.EndTime)
	if err != nil {
		return 0
	}
	return hours
}
