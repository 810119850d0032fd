package model

// ShiftType identifies whether an entry covers the day or the night shift
type ShiftType string

const (
	ShiftDay   ShiftType = "DAY"
	ShiftNight ShiftType = "NIGHT"
)

// CompetencyLevel is the ordered assessment scale for a carer on a task.
// Levels at Competent or above count as competent for scheduling purposes.
type CompetencyLevel int

const (
	NotAssessed CompetencyLevel = iota
	NotCompetent
	AdvancedBeginner
	Competent
	Proficient
	Expert
)

// String returns the level name as stored in the database
func (l CompetencyLevel) String() string {
	switch l {
	case NotAssessed:
		return "not_assessed"
	case NotCompetent:
		return "not_competent"
	case AdvancedBeginner:
		return "advanced_beginner"
	case Competent:
		return "competent"
	case Proficient:
		return "proficient"
	case Expert:
		return "expert"
	default:
		return "not_assessed"
	}
}

// ParseCompetencyLevel maps a stored level name back to a CompetencyLevel.
// Unknown names map to NotAssessed rather than failing, so a bad row can
// never make a carer look competent.
func ParseCompetencyLevel(s string) CompetencyLevel {
	switch s {
	case "not_competent":
		return NotCompetent
	case "advanced_beginner":
		return AdvancedBeginner
	case "competent":
		return Competent
	case "proficient":
		return Proficient
	case "expert":
		return Expert
	default:
		return NotAssessed
	}
}

// IsCompetent reports whether the level counts as competent for scheduling
func (l CompetencyLevel) IsCompetent() bool {
	return l >= Competent
}

// Carer represents a member of care staff
type Carer struct {
	ID       string
	Name     string
	IsActive bool
}

// Task is a single care activity a package may require
type Task struct {
	ID   string
	Name string
}

// CarePackage is a client contract with a set of assigned tasks
type CarePackage struct {
	ID       string
	Name     string
	IsActive bool
}

// CompetencyRating records a carer's assessed level on one task
type CompetencyRating struct {
	CarerID string
	TaskID  string
	Level   CompetencyLevel
}

// ShiftEntry is one scheduled assignment of a carer to a package for a date
// and clock-time window. Dates are plain "2006-01-02" strings and times plain
// "HH:MM" strings; an end time earlier than the start means the shift wraps
// past midnight.
type ShiftEntry struct {
	ID        string    `yaml:"id,omitempty"`
	CarerID   string    `yaml:"carerID" validate:"required"`
	PackageID string    `yaml:"packageID" validate:"required"`
	Date      string    `yaml:"date" validate:"required,datetime=2006-01-02"`
	ShiftType ShiftType `yaml:"shiftType" validate:"required,oneof=DAY NIGHT"`
	StartTime string    `yaml:"startTime" validate:"required"`
	EndTime   string    `yaml:"endTime" validate:"required"`
	Confirmed bool      `yaml:"confirmed,omitempty"`
	CreatedBy string    `yaml:"createdBy,omitempty"`
}

// SameSlot reports whether two entries occupy the same (carer, package, date)
// triple, which the store enforces as unique
func (e *ShiftEntry) SameSlot(other *ShiftEntry) bool {
	return e.CarerID == other.CarerID && e.PackageID == other.PackageID && e.Date == other.Date
}
