// Package schedule generates multi-week training calendars from a weekly
// availability template, a set of chosen exercise templates, and blocked dates.
package schedule

import (
	"time"
)

// BlockedKind discriminates blocked-date specifications.
type BlockedKind string

const (
	BlockedKindCustom  BlockedKind = "custom"
	BlockedKindHoliday BlockedKind = "holiday"
)

// BlockedDateSpec is a user-configured no-training rule: either a concrete
// ISO date or the key of a recurring holiday.
type BlockedDateSpec struct {
	Kind  BlockedKind `json:"kind"`
	Value string      `json:"value"`
}

// StartOption selects which Monday the generated plan starts from.
type StartOption string

const (
	StartThisWeek StartOption = "this_week"
	StartNextWeek StartOption = "next_week"
)

// DeferralPolicy decides what happens to exercises that could not be placed
// on their originally intended day. It is chosen once per generation run.
type DeferralPolicy string

const (
	// PolicyRedistribute spreads displaced exercises over the remaining
	// days of the same week and later weeks. This is the default.
	PolicyRedistribute DeferralPolicy = "redistribute"
	// PolicyDeferAfterEnd parks displaced exercises until the week
	// immediately following the whole generated window.
	PolicyDeferAfterEnd DeferralPolicy = "defer_after_end"
	// PolicyDeferReplacement routes displaced exercises to a single
	// user-chosen replacement day.
	PolicyDeferReplacement DeferralPolicy = "defer_replacement"
	// PolicyDeferNextWeek pushes displaced exercises to the following week
	// without trying to fill slack in the current one.
	PolicyDeferNextWeek DeferralPolicy = "defer_next_week"
)

// SessionSlot is one entry of the weekly availability template.
// Weekday is ISO numbered: 1 = Monday .. 7 = Sunday.
type SessionSlot struct {
	Weekday   int    `json:"weekday"`
	StartTime string `json:"start_time"` // HH:MM
	EndTime   string `json:"end_time"`   // HH:MM
	Label     string `json:"label"`
}

// ExerciseTemplate describes an assignable exercise. Name is the identity
// key within a generation run.
type ExerciseTemplate struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	DurationMinutes     int     `json:"duration_minutes"`
	EstimatedCalories   float64 `json:"estimated_calories"`
	Difficulty          string  `json:"difficulty"`
	DescriptionMarkdown string  `json:"description_markdown,omitempty"`
}

// Assignment is one exercise placed into a session. DurationMinutes may be
// clipped below the template duration when the exercise was force-admitted
// into a shorter session.
type Assignment struct {
	Name              string  `json:"name"`
	DurationMinutes   int     `json:"duration_minutes"`
	EstimatedCalories float64 `json:"estimated_calories"`
	Difficulty        string  `json:"difficulty"`
}

// Session is a concrete training window on a day.
type Session struct {
	Label     string       `json:"label"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Exercises []Assignment `json:"exercises"`
}

// Day holds the sessions scheduled on one calendar date. Days without any
// assigned exercise are never part of a plan.
type Day struct {
	Date     time.Time `json:"date"`
	Weekday  int       `json:"weekday"`
	Sessions []Session `json:"sessions"`
}

// Week covers Monday through Sunday. Weeks in a plan are contiguous and
// numbered from 1; a week stays in the plan even when it has no days so the
// numbering never skips.
type Week struct {
	Number    int       `json:"number"`
	StartDate time.Time `json:"start_date"` // Monday
	EndDate   time.Time `json:"end_date"`   // Sunday
	Days      []Day     `json:"days"`
}

// Plan is a generated schedule preview. It is mutated in place by
// MoveExercise and discarded or persisted by the caller.
type Plan struct {
	Weeks []Week `json:"weeks"`
}

// PlanEntry is one flattened calendar row of a confirmed plan.
type PlanEntry struct {
	Date              time.Time `json:"date"`
	WeekNumber        int       `json:"week_number"`
	SessionLabel      string    `json:"session_label"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	ExerciseName      string    `json:"exercise_name"`
	DurationMinutes   int       `json:"duration_minutes"`
	EstimatedCalories float64   `json:"estimated_calories"`
	Difficulty        string    `json:"difficulty"`
}

// Flatten converts the plan tree into calendar rows for persistence.
func (p *Plan) Flatten() []PlanEntry {
	var entries []PlanEntry
	for _, week := range p.Weeks {
		for _, day := range week.Days {
			for _, session := range day.Sessions {
				for _, ex := range session.Exercises {
					entries = append(entries, PlanEntry{
						Date:              day.Date,
						WeekNumber:        week.Number,
						SessionLabel:      session.Label,
						StartTime:         session.StartTime,
						EndTime:           session.EndTime,
						ExerciseName:      ex.Name,
						DurationMinutes:   ex.DurationMinutes,
						EstimatedCalories: ex.EstimatedCalories,
						Difficulty:        ex.Difficulty,
					})
				}
			}
		}
	}
	return entries
}
