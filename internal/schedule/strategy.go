package schedule

import "time"

// deferralStrategy routes exercises that could not be placed in their
// intended week. One strategy is selected for the whole generation run.
type deferralStrategy interface {
	// deferLeftovers queues exercises left over after a week was filled.
	deferLeftovers(g *generator, leftovers []ExerciseTemplate)
	// allowSecondPass reports whether leftover exercises may be packed
	// into the current week's remaining slack.
	allowSecondPass() bool
	// makeupKey returns the date key of a day that may be scheduled even
	// though it is blocked, or "" when there is none.
	makeupKey() string
	// drainFor returns extra candidates that become available in the week
	// starting at monday.
	drainFor(g *generator, monday time.Time, expansion bool) []ExerciseTemplate
}

// redistributeStrategy spreads leftovers over the remaining slack of the
// same week and the following weeks. Default.
type redistributeStrategy struct{}

func (redistributeStrategy) deferLeftovers(g *generator, leftovers []ExerciseTemplate) {
	g.pushPending(leftovers)
}

func (redistributeStrategy) allowSecondPass() bool { return true }

func (redistributeStrategy) makeupKey() string { return "" }

func (redistributeStrategy) drainFor(*generator, time.Time, bool) []ExerciseTemplate { return nil }

// nextWeekStrategy carries leftovers to the following week without packing
// the current week any tighter.
type nextWeekStrategy struct{}

func (nextWeekStrategy) deferLeftovers(g *generator, leftovers []ExerciseTemplate) {
	g.pushPending(leftovers)
}

func (nextWeekStrategy) allowSecondPass() bool { return false }

func (nextWeekStrategy) makeupKey() string { return "" }

func (nextWeekStrategy) drainFor(*generator, time.Time, bool) []ExerciseTemplate { return nil }

// afterEndStrategy parks leftovers until the week right after the whole
// generated window.
type afterEndStrategy struct{}

func (afterEndStrategy) deferLeftovers(g *generator, leftovers []ExerciseTemplate) {
	for _, ex := range leftovers {
		if !containsExercise(g.parked, ex.Name) {
			g.parked = append(g.parked, ex)
		}
	}
}

func (afterEndStrategy) allowSecondPass() bool { return false }

func (afterEndStrategy) makeupKey() string { return "" }

func (afterEndStrategy) drainFor(g *generator, _ time.Time, expansion bool) []ExerciseTemplate {
	if !expansion || len(g.parked) == 0 {
		return nil
	}
	drained := g.parked
	g.parked = nil
	return drained
}

// replacementDayStrategy routes leftovers to one user-chosen replacement
// day. The replacement day is schedulable even when blocked.
type replacementDayStrategy struct {
	date time.Time
}

func (s *replacementDayStrategy) deferLeftovers(g *generator, leftovers []ExerciseTemplate) {
	for _, ex := range leftovers {
		if !containsExercise(g.parked, ex.Name) {
			g.parked = append(g.parked, ex)
		}
	}
}

func (s *replacementDayStrategy) allowSecondPass() bool { return false }

func (s *replacementDayStrategy) makeupKey() string {
	if s.date.IsZero() {
		return ""
	}
	return dateKey(s.date)
}

func (s *replacementDayStrategy) drainFor(g *generator, monday time.Time, _ bool) []ExerciseTemplate {
	if s.date.IsZero() || len(g.parked) == 0 {
		return nil
	}
	// Drain in the week containing the replacement day, or immediately if
	// that week already went by, so deferred work cannot get stuck.
	if normalizeDate(s.date).After(monday.AddDate(0, 0, 6)) {
		return nil
	}
	drained := g.parked
	g.parked = nil
	return drained
}

func strategyFor(policy DeferralPolicy, replacementDate time.Time) deferralStrategy {
	switch policy {
	case PolicyDeferNextWeek:
		return nextWeekStrategy{}
	case PolicyDeferAfterEnd:
		return afterEndStrategy{}
	case PolicyDeferReplacement:
		return &replacementDayStrategy{date: replacementDate}
	case PolicyRedistribute:
		return redistributeStrategy{}
	default:
		return redistributeStrategy{}
	}
}

func containsExercise(exercises []ExerciseTemplate, name string) bool {
	for _, ex := range exercises {
		if ex.Name == name {
			return true
		}
	}
	return false
}
