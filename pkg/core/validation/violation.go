package validation

// Severity classifies how a violation affects scheduling. Errors block the
// strict write paths (update, batch import); warnings are always advisory.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Stable rule codes. Callers and tests match on these rather than parsing
// message text.
const (
	CodeCarerExists         = "CARER_EXISTS"
	CodePackageExists       = "PACKAGE_EXISTS"
	CodeNoPackageTasks      = "NO_PACKAGE_TASKS"
	CodeMinCompetentStaff   = "MIN_COMPETENT_STAFF"
	CodeCompetencyPairing   = "COMPETENCY_PAIRING"
	CodeWeeklyHourLimit     = "WEEKLY_HOUR_LIMIT"
	CodeRotationPattern     = "ROTATION_PATTERN"
	CodeConsecutiveWeekends = "CONSECUTIVE_WEEKENDS"
	CodeRestPeriod          = "REST_PERIOD_VIOLATION"
	CodeDuplicateShift      = "NO_DUPLICATE_SHIFTS"
)

// Violation is a single rule firing against a candidate entry
type Violation struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
	CarerID  string         `json:"carerID,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Result collects the outcome of validating one candidate entry.
// IsValid reflects errors only; warnings never invalidate a candidate.
type Result struct {
	IsValid  bool        `json:"isValid"`
	Errors   []Violation `json:"errors"`
	Warnings []Violation `json:"warnings"`
}

func newResult() *Result {
	return &Result{
		IsValid:  true,
		Errors:   make([]Violation, 0),
		Warnings: make([]Violation, 0),
	}
}

func (r *Result) add(v *Violation) {
	if v == nil {
		return
	}
	if v.Severity == SeverityError {
		r.Errors = append(r.Errors, *v)
		r.IsValid = false
	} else {
		r.Warnings = append(r.Warnings, *v)
	}
}

// All returns errors followed by warnings, for callers that want the
// complete violation list in one slice
func (r *Result) All() []Violation {
	all := make([]Violation, 0, len(r.Errors)+len(r.Warnings))
	all = append(all, r.Errors...)
	all = append(all, r.Warnings...)
	return all
}
