package task

import (
	"fmt"
	"slices"
)

// SortKey selects the ordering of the derived view
type SortKey string

const (
	SortByDueDate   SortKey = "dueDate"
	SortByPriority  SortKey = "priority"
	SortByCompleted SortKey = "completed"
)

// SortKeys lists the sort keys offered for selection
var SortKeys = []SortKey{SortByDueDate, SortByPriority, SortByCompleted}

// Label returns a human readable name for the sort key
func (k SortKey) Label() string {
	switch k {
	case SortByDueDate:
		return "Due Date"
	case SortByPriority:
		return "Priority"
	case SortByCompleted:
		return "Completion Status"
	default:
		return string(k)
	}
}

// Filter restricts the derived view by completion status
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Filters lists the filters offered for selection
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseSortKey validates a sort key name
func ParseSortKey(s string) (SortKey, error) {
	for _, k := range SortKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown sort key %q (want dueDate, priority or completed)", s)
}

// ParseFilter validates a filter name
func ParseFilter(s string) (Filter, error) {
	for _, f := range Filters {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Match reports whether t passes the filter. Unknown filters match everything.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// DerivedView filters tasks by status and then sorts them by sortBy.
// Every sort is stable, and an unknown sortBy keeps the filtered tasks in
// their original order. The input slice is never modified.
func DerivedView(tasks []Task, sortBy SortKey, filter Filter) []Task {
	view := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Match(t) {
			view = append(view, t)
		}
	}

	switch sortBy {
	case SortByDueDate:
		slices.SortStableFunc(view, compareDueDate)
	case SortByPriority:
		slices.SortStableFunc(view, func(a, b Task) int {
			return b.Priority.Rank() - a.Priority.Rank()
		})
	case SortByCompleted:
		slices.SortStableFunc(view, func(a, b Task) int {
			return boolRank(a.Completed) - boolRank(b.Completed)
		})
	}

	return view
}

// compareDueDate orders by calendar date. Dates that don't parse go last.
func compareDueDate(a, b Task) int {
	da, okA := a.Due()
	db, okB := b.Due()
	switch {
	case okA && okB:
		return da.Compare(db)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
