package task

import (
	"strings"
	"time"
)

// DateLayout is the layout due dates are entered and stored in
const DateLayout = "2006-01-02"

// Priority is the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the priorities in the order they are offered for selection
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Rank returns the sort weight of a priority: high=3, medium=2, low=1.
// Anything else ranks 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Next returns the priority after p, wrapping around
func (p Priority) Next() Priority {
	for i, candidate := range Priorities {
		if candidate == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityMedium
}

// Prev returns the priority before p, wrapping around
func (p Priority) Prev() Priority {
	for i, candidate := range Priorities {
		if candidate == p {
			return Priorities[(i+len(Priorities)-1)%len(Priorities)]
		}
	}
	return PriorityMedium
}

// Task represents a single to-do item
type Task struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	DueDate   string   `json:"dueDate"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}

// Due parses the due date. ok is false when the date is not in DateLayout.
func (t Task) Due() (time.Time, bool) {
	due, err := time.Parse(DateLayout, strings.TrimSpace(t.DueDate))
	if err != nil {
		return time.Time{}, false
	}
	return due, true
}

// Draft holds the fields of a task that has not been added yet
type Draft struct {
	Name     string
	DueDate  string
	Priority Priority
}

// NewDraft returns an empty draft with the default priority
func NewDraft() Draft {
	return Draft{Priority: PriorityMedium}
}

// Reset clears the draft back to its defaults
func (d *Draft) Reset() {
	*d = NewDraft()
}

// missing returns the names of required fields that are empty.
// Whitespace counts as a value.
func (d Draft) missing() []string {
	var fields []string
	if d.Name == "" {
		fields = append(fields, "name")
	}
	if d.DueDate == "" {
		fields = append(fields, "dueDate")
	}
	return fields
}
