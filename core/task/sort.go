package task

import (
	"sort"
	"strings"

	"github.com/junaidjmomin/classroom/core"
)

// sortable fields
const (
	FieldPriority = "priority"
	FieldDueDate  = "due_date"
	FieldTitle    = "title"
	FieldCourse   = "course"
)

var (
	// DefaultOrdering puts the highest priority first.
	DefaultOrdering = []core.Ordering{{Field: FieldPriority, Ascending: false}}

	tieBreakers = []core.Ordering{
		{Field: FieldDueDate, Ascending: true},
		{Field: FieldTitle, Ascending: true},
	}
)

// IsSortable reports whether tasks can be ordered by field.
func IsSortable(field string) bool {
	switch field {
	case FieldPriority, FieldDueDate, FieldTitle, FieldCourse:
		return true
	}
	return false
}

// Sort orders tasks in place (stable). Tasks without due date always sort last on FieldDueDate.
func Sort(tasks []Task, orderings []core.Ordering) {
	if len(orderings) == 0 {
		orderings = DefaultOrdering
	}
	orderings = append(append(make([]core.Ordering, 0, len(orderings)+len(tieBreakers)), orderings...), tieBreakers...)

	sort.SliceStable(tasks, func(i, j int) bool {
		for _, ord := range orderings {
			if c := compare(tasks[i], tasks[j], ord); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// compare returns -1 when a sorts before b for ord, 1 when after, 0 when equal.
func compare(a, b Task, ord core.Ordering) int {
	var c int
	switch ord.Field {
	case FieldPriority:
		c = compareFloat(a.Score(), b.Score())
	case FieldDueDate:
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		case a.DueDate.Before(*b.DueDate):
			c = -1
		case a.DueDate.After(*b.DueDate):
			c = 1
		}
	case FieldTitle:
		c = strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case FieldCourse:
		c = strings.Compare(strings.ToLower(a.Course), strings.ToLower(b.Course))
	}
	if !ord.Ascending {
		c = -c
	}
	return c
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
