package task

import (
	"math"
	"time"
)

const (
	// NoDueDateScore is the neutral score of a task without a due date.
	NoDueDateScore = 0.5

	minFactor = 0.1
	maxFactor = 2.0

	// baselines: a factor equals 1 at these values
	pressureBaselineHours = 24.0
	complexityBaselineMin = 60.0
	impactBaseline        = 3.0
	contextBaseline       = 2.0

	factorsDivisor = 4.0
)

// Calculator scores tasks; higher means higher priority.
// The zero value uses the wall clock.
type Calculator struct {
	Now func() time.Time
}

func (c Calculator) now() time.Time {
	if c.Now == nil {
		return nowFunc()
	}
	return c.Now()
}

// Compute returns the task's priority score:
//
//	(timePressure × complexity × impactFactor × contextPenalty) / 4
//
// every factor being clamped to [0.1, 2]. Missing or invalid numeric fields are defaulted first.
func (c Calculator) Compute(t Task) float64 {
	if t.DueDate == nil {
		return NoDueDateScore
	}
	minutes, impact, ctxCost := sanitize(t.EstimatedMinutes, t.Impact, t.ContextSwitchCost)

	hoursUntilDue := t.DueDate.Sub(c.now()).Hours()
	timePressure := maxFactor // overdue or due right now
	if hoursUntilDue > 0 {
		timePressure = clamp(pressureBaselineHours / hoursUntilDue)
	}
	complexity := clamp(float64(minutes) / complexityBaselineMin)
	impactFactor := clamp(float64(impact) / impactBaseline)
	contextPenalty := clamp(contextBaseline / float64(ctxCost))

	return (timePressure * complexity * impactFactor * contextPenalty) / factorsDivisor
}

// ComputePriority scores t against the wall clock.
func ComputePriority(t Task) float64 {
	return Calculator{}.Compute(t)
}

func clamp(f float64) float64 {
	return math.Max(minFactor, math.Min(maxFactor, f))
}
