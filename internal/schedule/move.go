package schedule

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrPastDate rejects moves targeting a date before today.
	ErrPastDate = errors.New("target date is in the past")
	// ErrDuplicateExercise rejects moves whose target session already holds
	// the exercise.
	ErrDuplicateExercise = errors.New("target session already contains exercise")
	// ErrMoveSourceNotFound means the exercise to move is not in the plan.
	ErrMoveSourceNotFound = errors.New("exercise to move not found")
	// ErrMoveTargetNotFound means the target day has no matching session slot
	// or lies outside the plan.
	ErrMoveTargetNotFound = errors.New("no session available on target date")
)

// MoveRequest identifies one assignment in a plan and its destination.
// Dates are YYYY-MM-DD; ToStart may be empty to pick the day's first
// template slot.
type MoveRequest struct {
	FromWeek  int    `json:"from_week"`
	FromDate  string `json:"from_date"`
	FromStart string `json:"from_start"`
	FromIndex int    `json:"from_index"`
	ToWeek    int    `json:"to_week"`
	ToDate    string `json:"to_date"`
	ToStart   string `json:"to_start"`
}

// MoveExercise relocates a single assignment inside the plan. Validation is
// strict but placement is not: the caller is overriding the generator, so
// capacity and duration limits of the target session are deliberately not
// re-checked. The plan is left untouched when any validation fails.
//
// Days and sessions are materialized on demand at the target and removed at
// the source when they become empty.
func (p *Plan) MoveExercise(template []SessionSlot, req MoveRequest, today time.Time) error {
	toDate, err := time.ParseInLocation(dateFormat, req.ToDate, today.Location())
	if err != nil {
		return fmt.Errorf("parse target date: %w", err)
	}
	if toDate.Before(normalizeDate(today)) {
		return ErrPastDate
	}

	sourceWeek, sourceDay, sourceSession := p.locate(req.FromWeek, req.FromDate, req.FromStart)
	if sourceSession < 0 {
		return ErrMoveSourceNotFound
	}
	fromExercises := p.Weeks[sourceWeek].Days[sourceDay].Sessions[sourceSession].Exercises
	if req.FromIndex < 0 || req.FromIndex >= len(fromExercises) {
		return ErrMoveSourceNotFound
	}
	moved := fromExercises[req.FromIndex]

	targetWeek := p.weekIndex(req.ToWeek)
	if targetWeek < 0 {
		return ErrMoveTargetNotFound
	}
	week := &p.Weeks[targetWeek]
	if toDate.Before(week.StartDate) || toDate.After(week.EndDate) {
		return ErrMoveTargetNotFound
	}
	slot, ok := targetSlot(template, toDate, req.ToStart)
	if !ok {
		return ErrMoveTargetNotFound
	}
	if existing := findSession(week, req.ToDate, slot.StartTime); existing != nil {
		for _, assigned := range existing.Exercises {
			if assigned.Name == moved.Name {
				return ErrDuplicateExercise
			}
		}
	}

	// All checks passed; mutate.
	p.removeAssignment(sourceWeek, sourceDay, sourceSession, req.FromIndex)

	week = &p.Weeks[targetWeek] // source removal does not reindex weeks
	session := materializeSession(week, toDate, slot)
	session.Exercises = append(session.Exercises, moved)
	sortWeek(week)
	return nil
}

// locate finds an assignment's session by week number, date key, and session
// start time. Returns -1 indices when not found.
func (p *Plan) locate(weekNumber int, date, start string) (int, int, int) {
	w := p.weekIndex(weekNumber)
	if w < 0 {
		return -1, -1, -1
	}
	for d, day := range p.Weeks[w].Days {
		if dateKey(day.Date) != date {
			continue
		}
		for s, session := range day.Sessions {
			if session.StartTime == start {
				return w, d, s
			}
		}
	}
	return -1, -1, -1
}

func (p *Plan) weekIndex(number int) int {
	for i, week := range p.Weeks {
		if week.Number == number {
			return i
		}
	}
	return -1
}

// targetSlot resolves the template slot the move lands in. An empty start
// time picks the earliest slot of the target weekday.
func targetSlot(template []SessionSlot, date time.Time, start string) (SessionSlot, bool) {
	slots := slotsForWeekday(template, isoWeekday(date))
	if len(slots) == 0 {
		return SessionSlot{}, false
	}
	if start == "" {
		best := slots[0]
		for _, slot := range slots[1:] {
			if parseClock(slot.StartTime) < parseClock(best.StartTime) {
				best = slot
			}
		}
		return best, true
	}
	for _, slot := range slots {
		if slot.StartTime == start {
			return slot, true
		}
	}
	return SessionSlot{}, false
}

func findSession(week *Week, date, start string) *Session {
	for d := range week.Days {
		if dateKey(week.Days[d].Date) != date {
			continue
		}
		for s := range week.Days[d].Sessions {
			if week.Days[d].Sessions[s].StartTime == start {
				return &week.Days[d].Sessions[s]
			}
		}
	}
	return nil
}

// removeAssignment deletes one assignment and cascades: an emptied session
// leaves its day, an emptied day leaves its week.
func (p *Plan) removeAssignment(w, d, s, index int) {
	day := &p.Weeks[w].Days[d]
	session := &day.Sessions[s]
	session.Exercises = append(session.Exercises[:index], session.Exercises[index+1:]...)
	if len(session.Exercises) > 0 {
		return
	}
	day.Sessions = append(day.Sessions[:s], day.Sessions[s+1:]...)
	if len(day.Sessions) > 0 {
		return
	}
	p.Weeks[w].Days = append(p.Weeks[w].Days[:d], p.Weeks[w].Days[d+1:]...)
}

// materializeSession returns the target session, creating the day and
// session if the generator never produced them.
func materializeSession(week *Week, date time.Time, slot SessionSlot) *Session {
	date = normalizeDate(date)
	key := dateKey(date)

	dayIdx := -1
	for d := range week.Days {
		if dateKey(week.Days[d].Date) == key {
			dayIdx = d
			break
		}
	}
	if dayIdx < 0 {
		week.Days = append(week.Days, Day{Date: date, Weekday: isoWeekday(date)})
		dayIdx = len(week.Days) - 1
	}
	day := &week.Days[dayIdx]

	for s := range day.Sessions {
		if day.Sessions[s].StartTime == slot.StartTime {
			return &day.Sessions[s]
		}
	}
	day.Sessions = append(day.Sessions, Session{
		Label:     slot.Label,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
	})
	return &day.Sessions[len(day.Sessions)-1]
}

func sortWeek(week *Week) {
	sort.SliceStable(week.Days, func(a, b int) bool {
		return week.Days[a].Date.Before(week.Days[b].Date)
	})
	for d := range week.Days {
		sessions := week.Days[d].Sessions
		sort.SliceStable(sessions, func(a, b int) bool {
			return parseClock(sessions[a].StartTime) < parseClock(sessions[b].StartTime)
		})
	}
}
