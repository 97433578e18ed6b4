package schedule

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrNoAvailability means the weekly template has no session slots.
	ErrNoAvailability = errors.New("availability template has no sessions")
	// ErrNoExercises means no exercise templates were selected.
	ErrNoExercises = errors.New("no exercise templates selected")
)

// extraWeeksFloor bounds how far the window may grow past the fixed weeks
// even when the backlog is small.
const extraWeeksFloor = 5

// GenerateOptions parameterizes one generation run. A zero Today means the
// current wall-clock date.
type GenerateOptions struct {
	Start           StartOption
	Policy          DeferralPolicy
	ReplacementDate time.Time
	Today           time.Time
}

// GeneratePlan builds a multi-week plan by distributing the selected
// exercises round-robin over the schedulable days of each week. The fixed
// window spans the largest difficulty-derived week target among the
// exercises; if deferred work remains afterwards the window grows, bounded,
// until the backlog drains.
func GeneratePlan(
	template []SessionSlot,
	exercises []ExerciseTemplate,
	blocked map[string]bool,
	opts GenerateOptions,
) (Plan, error) {
	if len(template) == 0 {
		return Plan{}, ErrNoAvailability
	}
	if len(exercises) == 0 {
		return Plan{}, ErrNoExercises
	}

	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = normalizeDate(today)

	firstMonday := mondayOf(today)
	var notBefore time.Time
	if opts.Start == StartNextWeek {
		firstMonday = firstMonday.AddDate(0, 0, 7)
	} else {
		// Starting mid-week must not schedule into days already past.
		notBefore = today
	}

	g := &generator{
		template:    template,
		queue:       exercises,
		blocked:     blocked,
		strategy:    strategyFor(opts.Policy, opts.ReplacementDate),
		weekCounts:  make(map[string]int, len(exercises)),
		firstMonday: firstMonday,
		notBefore:   notBefore,
	}
	return g.run(), nil
}

type generator struct {
	template    []SessionSlot
	queue       []ExerciseTemplate
	blocked     map[string]bool
	strategy    deferralStrategy
	weekCounts  map[string]int // placements per exercise name, one per week
	pending     []ExerciseTemplate
	parked      []ExerciseTemplate
	firstMonday time.Time
	notBefore   time.Time
}

// sessionState is a session being filled.
type sessionState struct {
	slot        SessionSlot
	exercises   []Assignment
	usedMinutes int
}

// dayState is a schedulable day being filled.
type dayState struct {
	date     time.Time
	sessions []sessionState
}

func (g *generator) run() Plan {
	fixed := 0
	for _, ex := range g.queue {
		if target := DistributionWeeks(ex.Difficulty); target > fixed {
			fixed = target
		}
	}

	var plan Plan
	for w := 0; w < fixed; w++ {
		plan.Weeks = append(plan.Weeks, g.buildWeek(w, false))
	}

	// Bounded expansion: blocked dates and tight capacity can leave a
	// backlog that the fixed window could not absorb.
	limit := fixed + extraWeeks(g.maxShortfall())
	for w := fixed; w < limit && g.workRemains(); w++ {
		plan.Weeks = append(plan.Weeks, g.buildWeek(w, true))
	}
	return plan
}

func extraWeeks(shortfall int) int {
	if shortfall+2 > extraWeeksFloor {
		return shortfall + 2
	}
	return extraWeeksFloor
}

func (g *generator) maxShortfall() int {
	most := 0
	for _, ex := range g.queue {
		if s := DistributionWeeks(ex.Difficulty) - g.weekCounts[ex.Name]; s > most {
			most = s
		}
	}
	return most
}

func (g *generator) workRemains() bool {
	return len(g.pending) > 0 || len(g.parked) > 0 || g.maxShortfall() > 0
}

// buildWeek fills one Monday-to-Sunday week. The returned Week is appended
// to the plan even when nothing could be scheduled in it so that week
// numbering stays contiguous.
func (g *generator) buildWeek(w int, expansion bool) Week {
	monday := g.firstMonday.AddDate(0, 0, 7*w)
	week := Week{
		Number:    w + 1,
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 6),
	}

	candidates := g.takeCandidates(w, expansion)
	drained := g.strategy.drainFor(g, monday, expansion)
	makeupKey := g.strategy.makeupKey()

	var replacementQueue []ExerciseTemplate
	if makeupKey != "" {
		replacementQueue = drained
		// An exercise routed to the replacement day must not also be
		// placed by the regular fill in the same week.
		var rest []ExerciseTemplate
		for _, ex := range candidates {
			if !containsExercise(replacementQueue, ex.Name) {
				rest = append(rest, ex)
			}
		}
		candidates = rest
	} else if len(drained) > 0 {
		candidates = mergeFront(drained, candidates)
	}
	if len(candidates) == 0 && len(replacementQueue) == 0 {
		return week
	}

	var notBefore time.Time
	if w == 0 {
		notBefore = g.notBefore
	}
	available := availableDaysInWeek(g.template, monday, g.blocked, makeupKey, notBefore, time.Time{})
	if len(available) == 0 {
		g.strategy.deferLeftovers(g, candidates)
		g.pushPending(replacementQueue)
		return week
	}

	days := make([]dayState, len(available))
	for i, ad := range available {
		slots := make([]SessionSlot, len(ad.slots))
		copy(slots, ad.slots)
		sort.SliceStable(slots, func(a, b int) bool {
			return parseClock(slots[a].StartTime) < parseClock(slots[b].StartTime)
		})
		days[i] = dayState{date: ad.date}
		for _, slot := range slots {
			days[i].sessions = append(days[i].sessions, sessionState{slot: slot})
		}
	}

	// Exercises deferred to the replacement day claim it before the
	// regular fill runs.
	if len(replacementQueue) > 0 {
		g.pushPending(g.fillReplacementDay(days, makeupKey, replacementQueue))
	}

	// Round-robin pre-assignment: candidate i targets day i mod N.
	buckets := make([][]ExerciseTemplate, len(days))
	for i, ex := range candidates {
		buckets[i%len(days)] = append(buckets[i%len(days)], ex)
	}

	var leftovers []ExerciseTemplate
	for i := range days {
		leftovers = append(leftovers, g.fillDay(&days[i], buckets[i])...)
	}

	if g.strategy.allowSecondPass() {
		leftovers = g.secondPass(days, leftovers)
	}
	if len(leftovers) > 0 {
		g.strategy.deferLeftovers(g, leftovers)
	}

	for _, ds := range days {
		day := Day{Date: ds.date, Weekday: isoWeekday(ds.date)}
		for _, ss := range ds.sessions {
			if len(ss.exercises) == 0 {
				continue
			}
			day.Sessions = append(day.Sessions, Session{
				Label:     ss.slot.Label,
				StartTime: ss.slot.StartTime,
				EndTime:   ss.slot.EndTime,
				Exercises: ss.exercises,
			})
		}
		if len(day.Sessions) > 0 {
			week.Days = append(week.Days, day)
		}
	}
	return week
}

// takeCandidates assembles this week's candidate list: deferred exercises
// first, then queue exercises still short of their week target. During the
// fixed window an exercise only qualifies while the week number is within
// its own target; expansion weeks lift that gate so the backlog can drain.
func (g *generator) takeCandidates(w int, expansion bool) []ExerciseTemplate {
	seen := make(map[string]bool, len(g.queue))
	var candidates []ExerciseTemplate

	for _, ex := range g.pending {
		if seen[ex.Name] {
			continue
		}
		seen[ex.Name] = true
		candidates = append(candidates, ex)
	}
	g.pending = nil

	for _, ex := range g.queue {
		if seen[ex.Name] {
			continue
		}
		target := DistributionWeeks(ex.Difficulty)
		if g.weekCounts[ex.Name] >= target {
			continue
		}
		if !expansion && w >= target {
			continue
		}
		seen[ex.Name] = true
		candidates = append(candidates, ex)
	}
	return candidates
}

func (g *generator) fillDay(day *dayState, bucket []ExerciseTemplate) []ExerciseTemplate {
	remaining := bucket
	for s := range day.sessions {
		remaining = g.fillSession(day, &day.sessions[s], remaining, true)
	}
	return remaining
}

// fillSession admits exercises greedily in order. With force set, a session
// that would otherwise stay empty admits its first candidate clipped to the
// remaining minutes.
func (g *generator) fillSession(
	day *dayState,
	sess *sessionState,
	bucket []ExerciseTemplate,
	force bool,
) []ExerciseTemplate {
	length := sessionMinutes(sess.slot)
	capacity := SessionCapacity(length)

	var leftover []ExerciseTemplate
	for _, ex := range bucket {
		if len(sess.exercises) >= capacity || dayContains(day, ex.Name) {
			leftover = append(leftover, ex)
			continue
		}
		free := length - sess.usedMinutes
		switch {
		case ex.DurationMinutes <= free:
			g.admit(sess, ex, ex.DurationMinutes)
		case force && len(sess.exercises) == 0 && free > 0:
			g.admit(sess, ex, free)
		default:
			leftover = append(leftover, ex)
		}
	}
	return leftover
}

// secondPass packs leftovers into any remaining slack of the week.
func (g *generator) secondPass(days []dayState, leftovers []ExerciseTemplate) []ExerciseTemplate {
	var remaining []ExerciseTemplate
	for _, ex := range leftovers {
		if !g.placeAnywhere(days, ex) {
			remaining = append(remaining, ex)
		}
	}
	return remaining
}

func (g *generator) placeAnywhere(days []dayState, ex ExerciseTemplate) bool {
	for d := range days {
		if dayContains(&days[d], ex.Name) {
			continue
		}
		for s := range days[d].sessions {
			sess := &days[d].sessions[s]
			length := sessionMinutes(sess.slot)
			if len(sess.exercises) >= SessionCapacity(length) {
				continue
			}
			if ex.DurationMinutes > length-sess.usedMinutes {
				continue
			}
			g.admit(sess, ex, ex.DurationMinutes)
			return true
		}
	}
	return false
}

// fillReplacementDay places deferred exercises onto the single replacement
// day. Whatever does not fit is returned and falls back to the regular
// deferred queue.
func (g *generator) fillReplacementDay(
	days []dayState,
	makeupKey string,
	queue []ExerciseTemplate,
) []ExerciseTemplate {
	for d := range days {
		if dateKey(days[d].date) != makeupKey {
			continue
		}
		var remaining []ExerciseTemplate
		for _, ex := range queue {
			if !g.placeOnDay(&days[d], ex) {
				remaining = append(remaining, ex)
			}
		}
		return remaining
	}
	return queue
}

func (g *generator) placeOnDay(day *dayState, ex ExerciseTemplate) bool {
	for s := range day.sessions {
		left := g.fillSession(day, &day.sessions[s], []ExerciseTemplate{ex}, true)
		if len(left) == 0 {
			return true
		}
	}
	return false
}

func (g *generator) admit(sess *sessionState, ex ExerciseTemplate, minutes int) {
	sess.exercises = append(sess.exercises, Assignment{
		Name:              ex.Name,
		DurationMinutes:   minutes,
		EstimatedCalories: ex.EstimatedCalories,
		Difficulty:        ex.Difficulty,
	})
	sess.usedMinutes += minutes
	g.weekCounts[ex.Name]++
}

func (g *generator) pushPending(exercises []ExerciseTemplate) {
	for _, ex := range exercises {
		if !containsExercise(g.pending, ex.Name) {
			g.pending = append(g.pending, ex)
		}
	}
}

func dayContains(day *dayState, name string) bool {
	for _, sess := range day.sessions {
		for _, assigned := range sess.exercises {
			if assigned.Name == name {
				return true
			}
		}
	}
	return false
}

func mergeFront(front, rest []ExerciseTemplate) []ExerciseTemplate {
	merged := make([]ExerciseTemplate, 0, len(front)+len(rest))
	merged = append(merged, front...)
	for _, ex := range rest {
		if !containsExercise(merged, ex.Name) {
			merged = append(merged, ex)
		}
	}
	return merged
}
