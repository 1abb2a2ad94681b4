package task

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/junaidjmomin/classroom/core"
)

var (
	dueTimeNeedsDateTag  = "duetimeneedsdate"
	dueTimeNeedsDateText = "a due time requires a due date"

	courseNameTag  = "coursename"
	courseNameText = "the course must have a name"
)

// InitValidators registers the task validators on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(newTaskStructValidation, NewTask{})
	core.RegisterCustomTranslation(validate, translator, dueTimeNeedsDateTag, dueTimeNeedsDateText)

	validate.RegisterStructValidation(courseWorkListStructValidation, CourseWorkList{})
	core.RegisterCustomTranslation(validate, translator, courseNameTag, courseNameText)
}

// newTaskStructValidation checks that a due time is never given without a due date.
func newTaskStructValidation(sl validator.StructLevel) {
	nt := sl.Current().Interface().(NewTask)
	if nt.DueTime != "" && nt.DueDate == "" {
		sl.ReportError(nt.DueTime, "due_time", "DueTime", dueTimeNeedsDateTag, "")
	}
}

func courseWorkListStructValidation(sl validator.StructLevel) {
	list := sl.Current().Interface().(CourseWorkList)
	if list.Course != nil && core.CleanString(list.Course.Name) == "" {
		sl.ReportError(list.Course, "course", "Course", courseNameTag, "")
	}
}

// ImportRequest is the payload of a classroom import.
type ImportRequest struct {
	Courses []CourseWorkList `json:"courses" validate:"dive"`
}

func (ir ImportRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(ir)
}
