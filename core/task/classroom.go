package task

import (
	"time"

	"google.golang.org/api/classroom/v1"

	"github.com/junaidjmomin/classroom/core"
)

// course colours, assigned by course index
var courseColors = []string{
	"bg-blue-500",
	"bg-green-500",
	"bg-purple-500",
	"bg-orange-500",
	"bg-red-500",
	"bg-indigo-500",
	"bg-pink-500",
	"bg-teal-500",
}

// CourseWorkList is a course with the course work fetched for it.
type CourseWorkList struct {
	Course     *classroom.Course       `json:"course" validate:"required"`
	CourseWork []*classroom.CourseWork `json:"courseWork"`
}

// FromCourseWorkLists maps every course work of lists to a Task, sorted by due date (undated last).
func FromCourseWorkLists(lists []CourseWorkList, calc Calculator) []Task {
	loc := calc.now().Location()
	tasks := make([]Task, 0)
	for i, list := range lists {
		if list.Course == nil {
			continue
		}
		for _, work := range list.CourseWork {
			if work == nil || work.Id == "" {
				continue
			}
			t := FromCourseWork(list.Course, work, i, loc)
			t.Refresh(calc)
			tasks = append(tasks, t)
		}
	}
	Sort(tasks, []core.Ordering{{Field: FieldDueDate, Ascending: true}})
	return tasks
}

// FromCourseWork maps a classroom course work to a Task with estimate, impact and context cost defaulted.
// courseIdx picks the course colour.
func FromCourseWork(course *classroom.Course, work *classroom.CourseWork, courseIdx int, loc *time.Location) Task {
	t := Task{
		ID:          work.Id,
		Title:       work.Title,
		Course:      course.Name,
		CourseColor: courseColors[courseIdx%len(courseColors)],
		Description: work.Description,
		Link:        work.AlternateLink,
		DueTime:     DefaultDueTime,
		Source:      SourceClassroom,
		CreatedAt:   nowFunc().UTC(),
	}
	if t.Description == "" {
		t.Description = DefaultDescription
	}
	if createdAt, err := time.Parse(time.RFC3339, work.CreationTime); err == nil {
		t.CreatedAt = createdAt.UTC()
	}

	if d := work.DueDate; d != nil && d.Year > 0 && d.Month > 0 && d.Day > 0 {
		hours, minutes := int64(23), int64(59)
		if tod := work.DueTime; tod != nil {
			if tod.Hours != 0 {
				hours = tod.Hours
			}
			if tod.Minutes != 0 {
				minutes = tod.Minutes
			}
			t.DueTime = formatClock(int(hours), int(minutes))
		}
		due := time.Date(int(d.Year), time.Month(d.Month), int(d.Day), int(hours), int(minutes), 0, 0, loc)
		t.DueDate = &due
	}

	t.fillDefaults()
	return t
}
