package query

import (
	"sort"

	"github.com/shivros/lnq/internal/linear"
)

// Direction selects due-date ordering for query results.
type Direction int

const (
	// SortNone leaves issues in fetch order.
	SortNone Direction = iota
	// SortAsc orders earlier due dates first.
	SortAsc
	// SortDesc orders later due dates first.
	SortDesc
)

// ParseDirection maps the option-surface sorting values to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "":
		return SortNone, true
	case "dateascending":
		return SortAsc, true
	case "datedescending":
		return SortDesc, true
	}

	return SortNone, false
}

// sortByDueDate stably orders issues by due date. Issues without a due
// date always sort last, for both directions; equal keys keep their
// fetch order.
func sortByDueDate(issues []linear.Issue, dir Direction) {
	if dir == SortNone {
		return
	}

	sort.SliceStable(issues, func(i, j int) bool {
		a, aOK := issues[i].DueTime()
		b, bOK := issues[j].DueTime()

		switch {
		case !aOK && !bOK:
			return false
		case !aOK:
			return false
		case !bOK:
			return true
		}

		if dir == SortAsc {
			return a.Before(b)
		}

		return a.After(b)
	})
}
