package task

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDueSoonWindow is how far ahead a deadline counts as due soon.
const DefaultDueSoonWindow = 24 * time.Hour

const (
	// DueInputLayout is the format due dates are typed and shown in for editing.
	DueInputLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// Urgency classifies a task's deadline relative to a reference time.
type Urgency int

const (
	Normal Urgency = iota
	DueSoon
	Overdue
)

func (u Urgency) String() string {
	switch u {
	case DueSoon:
		return "due-soon"
	case Overdue:
		return "overdue"
	default:
		return "normal"
	}
}

// Classify reports the urgency of t at now. Completed and undated tasks are Normal.
func Classify(t Task, now time.Time, window time.Duration) Urgency {
	if t.Completed || t.DueDate == nil {
		return Normal
	}
	diff := t.DueDate.Sub(now)
	switch {
	case diff < 0:
		return Overdue
	case diff <= window:
		return DueSoon
	default:
		return Normal
	}
}

// DueLabel renders the time left until due as shown next to a task.
func DueLabel(due, now time.Time) string {
	diff := due.Sub(now)
	if diff < 0 {
		return "Overdue"
	}
	days := int(diff / (24 * time.Hour))
	hours := int((diff % (24 * time.Hour)) / time.Hour)
	switch {
	case days > 0:
		return fmt.Sprintf("%d %s", days, plural(days, "day"))
	case hours > 0:
		return fmt.Sprintf("%d %s", hours, plural(hours, "hour"))
	default:
		return "Due soon"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}

// ParseDue reads "YYYY-MM-DD HH:MM" or a bare date in loc. A bare date means
// the end of that day. Blank input returns nil.
func ParseDue(v string, loc *time.Location) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(DueInputLayout, v, loc); err == nil {
		return &t, nil
	}
	d, err := time.ParseInLocation(DateLayout, v, loc)
	if err != nil {
		return nil, &ValidationError{Field: "due date", Reason: "use YYYY-MM-DD HH:MM"}
	}
	end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, loc)
	return &end, nil
}
