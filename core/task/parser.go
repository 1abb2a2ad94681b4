package task

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/junaidjmomin/classroom/core"
)

// minSegmentLen is the number of characters under which a text segment is considered noise.
const minSegmentLen = 10

type (
	dueDateRule struct {
		pattern *regexp.Regexp
		days    int
	}

	triageRule struct {
		pattern           *regexp.Regexp
		minutes           int
		impact            int
		contextSwitchCost int
	}
)

var (
	segmentDelimiters = regexp.MustCompile(`[.!?;\n]+`)

	taskKeywords = wordsPattern(
		"assignment", "homework", "essay", "report", "project", "lab", "quiz", "test", "exam",
		"reading", "chapter", "problem", "write", "complete", "finish", "submit", "due", "deadline",
		"study", "prepare", "research",
	)

	// order matters: the first subject found names the course
	subjects = []string{
		"physics", "chemistry", "biology", "math", "english", "history", "literature", "calculus", "algebra",
	}
	subjectPatterns = compileSubjects(subjects)

	fillerPrefixes = []string{"i have ", "i need to "}

	// first match wins
	dueDateRules = []dueDateRule{
		{pattern: wordsPattern("today"), days: 0},
		{pattern: wordsPattern("tomorrow"), days: 1},
		{pattern: wordsPattern(`next\s+week`), days: 7},
		{pattern: wordsPattern(`this\s+week`), days: 3},
	}
	defaultDueInDays = 5

	// first match wins; rules are never combined
	triageRules = []triageRule{
		{pattern: wordsPattern("quick", "short", "brief"), minutes: 30, impact: 2, contextSwitchCost: 1},
		{pattern: wordsPattern("long", "detailed", "comprehensive"), minutes: 180, impact: 4, contextSwitchCost: 3},
		{pattern: wordsPattern("essay", "report", "research"), minutes: 240, impact: 5, contextSwitchCost: 4},
		{pattern: wordsPattern("reading", "chapter"), minutes: 45, impact: 2, contextSwitchCost: 1},
		{pattern: wordsPattern("quiz", "test"), minutes: 60, impact: 4, contextSwitchCost: 2},
		{pattern: wordsPattern("lab", "experiment"), minutes: 150, impact: 4, contextSwitchCost: 3},
		{pattern: wordsPattern("project", "presentation"), minutes: 300, impact: 5, contextSwitchCost: 4},
	}
	defaultTriage = triageRule{minutes: 90, impact: 3, contextSwitchCost: 2}
)

// wordsPattern matches any of words at the start of a word, case-insensitively.
// Only the start is anchored: inflected forms match ("essays", "submitted", "mathematics"), and so do
// longer words sharing the prefix ("label" hits "lab"). Keywords in the middle of a word never match.
func wordsPattern(words ...string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)`)
}

func compileSubjects(names []string) []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(names))
	for i, name := range names {
		patterns[i] = wordsPattern(name)
	}
	return patterns
}

// Parser extracts tasks from free text. Safe for concurrent use.
type Parser struct {
	calc   Calculator
	logger core.Logger
	seq    atomic.Uint64 // numbers parsed tasks across calls, keeping ids unique within a clock tick
}

func NewParser(calc Calculator, logger core.Logger) *Parser {
	return &Parser{calc: calc, logger: logger}
}

// Parse splits text into sentences and returns one scored Task per sentence that looks like a task,
// in the order found. It never fails: unusable segments are skipped and internal errors yield no tasks.
func (p *Parser) Parse(text string) (tasks []Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Warn(fmt.Sprintf("parsing tasks from text: %v", r))
			tasks = []Task{}
		}
	}()

	now := p.calc.now()
	tasks = make([]Task, 0)
	for _, segment := range segmentDelimiters.Split(text, -1) {
		segment = strings.TrimSpace(segment)
		if utf8.RuneCountInString(segment) < minSegmentLen || !taskKeywords.MatchString(segment) {
			continue
		}
		tasks = append(tasks, p.parseSegment(segment, now, p.seq.Add(1)-1))
	}
	return tasks
}

func (p *Parser) parseSegment(segment string, now time.Time, seq uint64) Task {
	due := endOfDay(now.AddDate(0, 0, dueInDays(segment)))
	triage := triageSegment(segment)

	t := Task{
		ID:                fmt.Sprintf("parsed-%d-%d", now.UnixMilli(), seq),
		Title:             extractTitle(segment),
		Course:            extractCourse(segment),
		DueDate:           &due,
		EstimatedMinutes:  triage.minutes,
		Impact:            triage.impact,
		ContextSwitchCost: triage.contextSwitchCost,
		Source:            SourceParsed,
		CreatedAt:         now.UTC(),
	}
	t.fillDefaults()
	t.Refresh(p.calc)
	return t
}

func extractTitle(segment string) string {
	lower := strings.ToLower(segment)
	for _, prefix := range fillerPrefixes {
		if strings.HasPrefix(lower, prefix) {
			segment = strings.TrimSpace(segment[len(prefix):])
			break
		}
	}
	return capitalize(segment)
}

func extractCourse(segment string) string {
	for i, pattern := range subjectPatterns {
		if pattern.MatchString(segment) {
			return capitalize(subjects[i])
		}
	}
	return DefaultCourse
}

func dueInDays(segment string) int {
	for _, rule := range dueDateRules {
		if rule.pattern.MatchString(segment) {
			return rule.days
		}
	}
	return defaultDueInDays
}

func triageSegment(segment string) triageRule {
	for _, rule := range triageRules {
		if rule.pattern.MatchString(segment) {
			return rule
		}
	}
	return defaultTriage
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
