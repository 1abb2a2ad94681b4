package task

import (
	"fmt"
	"math"
	"time"
)

const (
	quickWinMaxMinutes = 60
	highImpactMin      = 4
	maxCoursesFocused  = 3
	urgentWithin       = 24 * time.Hour
	daysPerWeek        = 7
)

const allCaughtUpMsg = "You're all caught up! No pending tasks right now."

// Recommendations returns guidance strings for tasks, evaluated at calc's `now`:
// quick wins, urgent work, high-impact work, the total workload and context switching.
func Recommendations(tasks []Task, calc Calculator) []string {
	if len(tasks) == 0 {
		return []string{allCaughtUpMsg}
	}

	now := calc.now()
	var quickWins, urgent, highImpact, workload int
	courses := make(map[string]struct{})
	for _, t := range tasks {
		courses[t.Course] = struct{}{}
		if t.IsCompleted() {
			continue
		}
		minutes, impact, _ := sanitize(t.EstimatedMinutes, t.Impact, t.ContextSwitchCost)
		workload += minutes
		if minutes <= quickWinMaxMinutes {
			quickWins++
		}
		if t.Status == StatusUrgent || (t.DueDate != nil && t.DueDate.Sub(now) <= urgentWithin) {
			urgent++
		}
		if impact >= highImpactMin {
			highImpact++
		}
	}

	recs := make([]string, 0, 5)
	if quickWins > 0 {
		recs = append(recs, fmt.Sprintf(
			"Start with %d quick %s (60 minutes or less) to build momentum.", quickWins, plural(quickWins, "win", "wins")))
	}
	if urgent > 0 {
		recs = append(recs, fmt.Sprintf(
			"%d %s urgent attention: due within 24 hours.", urgent, plural(urgent, "task needs", "tasks need")))
	}
	if highImpact > 0 {
		recs = append(recs, fmt.Sprintf(
			"Focus on %d high-impact %s first.", highImpact, plural(highImpact, "task", "tasks")))
	}

	hours := int(math.Ceil(float64(workload) / 60))
	daily := int(math.Ceil(float64(hours) / daysPerWeek))
	recs = append(recs, fmt.Sprintf(
		"Total workload: %d %s. Plan about %d %s per day.", hours, plural(hours, "hour", "hours"), daily, plural(daily, "hour", "hours")))

	if len(courses) > maxCoursesFocused {
		recs = append(recs, fmt.Sprintf(
			"Your tasks span %d courses. Group work by course to minimize context switching.", len(courses)))
	}
	return recs
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
