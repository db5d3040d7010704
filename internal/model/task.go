package model

import (
	"fmt"
	"time"
)

// Task priority levels.  High sorts before medium, medium before low.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Task statuses.  Transitions between them are unrestricted.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p string) bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusCompleted
}

// Task represents a row in the `tasks` table joined with the name of its
// category, if any.  DueDate carries only a calendar date; it is rendered
// as YYYY-MM-DD in responses.  Position encodes manual ordering: only the
// relative order of values is meaningful, values need not be contiguous.
type Task struct {
	ID           uint64    `json:"task_id"`
	UserID       uint64    `json:"-"`
	Title        string    `json:"title"`
	DueDate      *DateOnly `json:"due_date"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	CategoryID   *uint64   `json:"category_id"`
	CategoryName *string   `json:"category_name"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

// TaskDraft carries the mutable task fields supplied by a create or
// full-update request, after validation.
type TaskDraft struct {
	Title      string
	DueDate    *DateOnly
	Priority   string
	CategoryID *uint64
}

// DateOnly is a calendar date that marshals as "2006-01-02" JSON strings.
type DateOnly struct {
	time.Time
}

const dateOnlyLayout = "2006-01-02"

// ParseDateOnly parses a YYYY-MM-DD string.
func ParseDateOnly(s string) (DateOnly, error) {
	t, err := time.Parse(dateOnlyLayout, s)
	if err != nil {
		return DateOnly{}, err
	}
	return DateOnly{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d DateOnly) String() string {
	return d.Format(dateOnlyLayout)
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a quoted YYYY-MM-DD string.
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDateOnly(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
