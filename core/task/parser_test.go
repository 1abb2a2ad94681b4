package task

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/junaidjmomin/classroom/tests"
)

func newTestParser() (*Parser, *testutil.Logger) {
	logger := new(testutil.Logger)
	return NewParser(fixedCalc(), logger), logger
}

func dueIn(days int) time.Time {
	return endOfDay(testNow.AddDate(0, 0, days))
}

func TestParser_Parse_nothing(t *testing.T) {
	p, _ := newTestParser()

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "blank", text: " \n\t "},
		{name: "short fragment", text: "ok"},
		{name: "short with keyword", text: "Lab due."},
		{name: "no keyword", text: "The weather is lovely this afternoon. Let's go outside!"},
		{name: "keyword inside a word", text: "The contestants were greeted warmly"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Parse(tt.text)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestParser_Parse_chemistryLabReport(t *testing.T) {
	p, _ := newTestParser()

	got := p.Parse("I need to finish my chemistry lab report due tomorrow")
	if !assert.Len(t, got, 1) {
		return
	}
	tsk := got[0]

	assert.Equal(t, fmt.Sprintf("parsed-%d-0", testNow.UnixMilli()), tsk.ID)
	assert.Equal(t, "Finish my chemistry lab report due tomorrow", tsk.Title)
	assert.Equal(t, "Chemistry", tsk.Course)
	assert.Equal(t, StatusUrgent, tsk.Status)
	assert.Equal(t, SourceParsed, tsk.Source)
	if assert.NotNil(t, tsk.DueDate) {
		assert.Equal(t, dueIn(1), *tsk.DueDate)
	}
	assert.Equal(t, "11:59 PM", tsk.DueTime)

	// "report" (essay/report/research) comes before "lab" (lab/experiment)
	assert.Equal(t, 240, tsk.EstimatedMinutes)
	assert.Equal(t, 5, tsk.Impact)
	assert.Equal(t, 4, tsk.ContextSwitchCost)

	if assert.NotNil(t, tsk.Priority) {
		assert.Equal(t, fixedCalc().Compute(tsk), *tsk.Priority)
	}
}

func TestParser_Parse_segments(t *testing.T) {
	p, _ := newTestParser()

	text := "Read chapter 5 for history next week. Quick math quiz today! hello there my friend;\n" +
		"I have a biology essay to write this week\nPHYSICS homework"
	got := p.Parse(text)
	if !assert.Len(t, got, 4) {
		return
	}

	type want struct {
		title                    string
		course                   string
		due                      time.Time
		status                   Status
		minutes, impact, ctxCost int
	}
	wants := []want{
		{"Read chapter 5 for history next week", "History", dueIn(7), StatusPending, 45, 2, 1},
		{"Quick math quiz today", "Math", dueIn(0), StatusUrgent, 30, 2, 1},
		{"A biology essay to write this week", "Biology", dueIn(3), StatusPending, 240, 5, 4},
		{"PHYSICS homework", "Physics", dueIn(5), StatusPending, 90, 3, 2},
	}
	for i, w := range wants {
		tsk := got[i]
		assert.Equal(t, fmt.Sprintf("parsed-%d-%d", testNow.UnixMilli(), i), tsk.ID)
		assert.Equal(t, w.title, tsk.Title)
		assert.Equal(t, w.course, tsk.Course)
		if assert.NotNil(t, tsk.DueDate) {
			assert.Equal(t, w.due, *tsk.DueDate)
		}
		assert.Equal(t, w.status, tsk.Status, w.title)
		assert.Equal(t, w.minutes, tsk.EstimatedMinutes, w.title)
		assert.Equal(t, w.impact, tsk.Impact, w.title)
		assert.Equal(t, w.ctxCost, tsk.ContextSwitchCost, w.title)
		assert.NotNil(t, tsk.Priority)
	}
}

func TestWordsPattern(t *testing.T) {
	pattern := wordsPattern("lab", "submit", "essay")

	tests := []struct {
		text string
		want bool
	}{
		{"Lab tomorrow", true},
		{"two essays", true},
		{"submitted already", true},
		{"label the diagram", true},
		{"the collaboration", false},
		{"resubmit", false},
		{"nothing here", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, pattern.MatchString(tt.text))
		})
	}
}

func TestTriageSegment(t *testing.T) {
	tests := []struct {
		segment                  string
		minutes, impact, ctxCost int
	}{
		{"brief summary of the reading", 30, 2, 1},
		{"detailed research essay", 180, 4, 3},
		{"research the topic", 240, 5, 4},
		{"reading for Monday", 45, 2, 1},
		{"study for the test", 60, 4, 2},
		{"write up the experiment", 150, 4, 3},
		{"group presentation slides", 300, 5, 4},
		{"submit the worksheet", 90, 3, 2},
		{"prepare for the contest", 90, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			got := triageSegment(tt.segment)
			assert.Equal(t, []int{tt.minutes, tt.impact, tt.ctxCost}, []int{got.minutes, got.impact, got.contextSwitchCost})
		})
	}
}

func TestExtractCourse(t *testing.T) {
	tests := []struct {
		segment string
		want    string
	}{
		{"finish the physics and math problems", "Physics"},
		{"math then physics", "Physics"}, // vocabulary order, not text order
		{"Calculus worksheet", "Calculus"},
		{"mathematics homework", "Math"},
		{"write a poem", DefaultCourse},
	}
	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCourse(tt.segment))
		})
	}
}

func TestParser_Parse_recovers(t *testing.T) {
	logger := new(testutil.Logger)
	p := NewParser(Calculator{Now: func() time.Time { panic("clock is broken") }}, logger)

	got := p.Parse("I need to finish my chemistry lab report due tomorrow")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	if warnings := logger.Entries("warn"); assert.Len(t, warnings, 1) {
		assert.Contains(t, warnings[0].Message, "clock is broken")
	}
}
