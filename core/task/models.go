package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/junaidjmomin/classroom/core"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusUrgent    Status = "urgent"
	StatusCompleted Status = "completed"
)

type Source string

const (
	SourceClassroom Source = "classroom"
	SourceManual    Source = "manual"
	SourceParsed    Source = "parsed"
)

// defaults
const (
	DefaultCourse            = "General"
	DefaultDueTime           = "11:59 PM"
	DefaultDescription       = "No description available"
	DefaultEstimatedMinutes  = 60
	DefaultImpact            = 3
	DefaultContextSwitchCost = 2

	minRating = 1
	maxRating = 5

	// urgentWithinDays is the number of calendar days ahead of today still considered urgent.
	urgentWithinDays = 2
)

var nowFunc = time.Now // mockable

type Task struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Course            string     `json:"course"`
	CourseColor       string     `json:"course_color,omitempty"`
	Description       string     `json:"description,omitempty"`
	Link              string     `json:"link,omitempty"`
	DueDate           *time.Time `json:"due_date"`
	DueTime           string     `json:"due_time,omitempty"`
	EstimatedMinutes  int        `json:"estimated_minutes"`
	Impact            int        `json:"impact"`
	ContextSwitchCost int        `json:"context_switch_cost"`
	Status            Status     `json:"status"`
	Priority          *float64   `json:"priority,omitempty"`
	Source            Source     `json:"source"`
	CreatedAt         time.Time  `json:"created_at"` // UTC
}

// New builds a Task and fills in every optional field that was left empty or is out of range.
func New(id, title, course string, dueDate *time.Time, minutes, impact, ctxCost int) Task {
	t := Task{
		ID:                id,
		Title:             core.CleanString(title),
		Course:            core.CleanString(course),
		DueDate:           dueDate,
		EstimatedMinutes:  minutes,
		Impact:            impact,
		ContextSwitchCost: ctxCost,
		Status:            StatusPending,
		Source:            SourceManual,
		CreatedAt:         nowFunc().UTC(),
	}
	t.fillDefaults()
	return t
}

func (t *Task) fillDefaults() {
	if t.Course == "" {
		t.Course = DefaultCourse
	}
	if t.DueDate != nil && t.DueTime == "" {
		t.DueTime = formatClock(t.DueDate.Hour(), t.DueDate.Minute())
	}
	t.EstimatedMinutes, t.Impact, t.ContextSwitchCost = sanitize(t.EstimatedMinutes, t.Impact, t.ContextSwitchCost)
	if t.Status == "" {
		t.Status = StatusPending
	}
}

func sanitize(minutes, impact, ctxCost int) (int, int, int) {
	if minutes <= 0 {
		minutes = DefaultEstimatedMinutes
	}
	if impact < minRating || impact > maxRating {
		impact = DefaultImpact
	}
	if ctxCost < minRating || ctxCost > maxRating {
		ctxCost = DefaultContextSwitchCost
	}
	return minutes, impact, ctxCost
}

func (t Task) IsCompleted() bool { return t.Status == StatusCompleted }

// Score returns the computed priority, 0 when it has not been computed yet.
func (t Task) Score() float64 {
	if t.Priority == nil {
		return 0
	}
	return *t.Priority
}

// Refresh recomputes the derived Status and the Priority at `now`.
func (t *Task) Refresh(calc Calculator) {
	now := calc.now()
	if !t.IsCompleted() {
		t.Status = StatusPending
		if t.DueDate != nil && daysUntil(*t.DueDate, now) <= urgentWithinDays {
			t.Status = StatusUrgent
		}
	}
	score := calc.Compute(*t)
	t.Priority = &score
}

// Complete marks the task as done. Completion overrides any date-based urgency.
func (t *Task) Complete(calc Calculator) {
	t.Status = StatusCompleted
	t.Refresh(calc)
}

// DueLabel renders the remaining time the way the dashboard cards do.
func (t Task) DueLabel(now time.Time) string {
	if t.DueDate == nil {
		return "No due date"
	}
	switch days := daysUntil(*t.DueDate, now); {
	case days < 0:
		return "Overdue"
	case days == 0:
		return "Due today"
	case days == 1:
		return "Due tomorrow"
	default:
		return fmt.Sprintf("Due in %d days", days)
	}
}

// daysUntil counts calendar days between now's date and due's date, in now's location.
func daysUntil(due, now time.Time) int {
	due = due.In(now.Location())
	// dates are compared in UTC so days lost or gained to DST changes still count as whole days
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today).Hours() / 24)
}

// endOfDay returns the dashboard's default due instant (23:59) for the calendar day of `t`.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, t.Location())
}

// formatClock renders a 24h clock as "h:mm AM/PM".
func formatClock(hours, minutes int) string {
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	displayHours := hours
	switch {
	case hours > 12:
		displayHours = hours - 12
	case hours == 0:
		displayHours = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHours, minutes, period)
}

// NewTask contains information needed to create a new manual Task.
type NewTask struct {
	Title             string `json:"title" validate:"notblank,max=500"`
	Course            string `json:"course" validate:"max=200"`
	DueDate           string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	DueTime           string `json:"due_time" validate:"omitempty,datetime=15:04"`
	EstimatedMinutes  int    `json:"estimated_minutes"`
	Impact            int    `json:"impact"`
	ContextSwitchCost int    `json:"context_switch_cost"`
}

func (nt *NewTask) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Course = core.CleanString(nt.Course)
	nt.DueDate = core.CleanString(nt.DueDate)
	nt.DueTime = core.CleanString(nt.DueTime)
	return validate.Struct(nt)
}

// Task converts a validated NewTask. Numeric fields out of range are defaulted, not rejected.
func (nt NewTask) Task(loc *time.Location) (Task, error) {
	var due *time.Time
	if nt.DueDate != "" {
		day, err := time.ParseInLocation("2006-01-02", nt.DueDate, loc)
		if err != nil {
			return Task{}, core.NewValidationError(err, core.FieldError{Field: "due_date", Error: "invalid date"})
		}
		d := endOfDay(day)
		if nt.DueTime != "" {
			clock, err := time.Parse("15:04", nt.DueTime)
			if err != nil {
				return Task{}, core.NewValidationError(err, core.FieldError{Field: "due_time", Error: "invalid time"})
			}
			d = time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
		}
		due = &d
	}
	return New(uuid.New().String(), nt.Title, nt.Course, due, nt.EstimatedMinutes, nt.Impact, nt.ContextSwitchCost), nil
}

// QueryFilter narrows Service.Query results; empty fields match everything.
type QueryFilter struct {
	Search   string   `query:"search"`
	Statuses []string `query:"status"`
	Courses  []string `query:"course"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	for i := range qf.Statuses {
		qf.Statuses[i] = core.CleanString(qf.Statuses[i], true /* lower */)
	}
	for i := range qf.Courses {
		qf.Courses[i] = core.CleanString(qf.Courses[i], true /* lower */)
	}
}

func (qf QueryFilter) matches(t Task) bool {
	if qf.Search != "" &&
		!strings.Contains(strings.ToLower(t.Title), qf.Search) &&
		!strings.Contains(strings.ToLower(t.Description), qf.Search) {
		return false
	}
	if len(qf.Statuses) > 0 && !containsFold(qf.Statuses, string(t.Status)) {
		return false
	}
	if len(qf.Courses) > 0 && !containsFold(qf.Courses, t.Course) {
		return false
	}
	return true
}

func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
