package schedule

import (
	"testing"
	"time"
)

// refMonday is a Monday used as "today" so StartThisWeek covers full weeks.
var refMonday = date(2026, time.March, 2)

func mondayOnlyTemplate() []SessionSlot {
	return []SessionSlot{
		{Weekday: 1, StartTime: "18:00", EndTime: "19:00", Label: "Evening"},
	}
}

func planWeekCount(p Plan) int { return len(p.Weeks) }

// countWeeksContaining counts distinct weeks an exercise appears in.
func countWeeksContaining(p Plan, name string) int {
	weeks := 0
	for _, week := range p.Weeks {
		if weekContains(week, name) {
			weeks++
		}
	}
	return weeks
}

func weekContains(week Week, name string) bool {
	for _, day := range week.Days {
		for _, session := range day.Sessions {
			for _, ex := range session.Exercises {
				if ex.Name == name {
					return true
				}
			}
		}
	}
	return false
}

func TestGeneratePlan_SingleEasyExercise(t *testing.T) {
	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Jump Rope", DurationMinutes: 30, Difficulty: "easy"}},
		nil,
		GenerateOptions{Start: StartThisWeek, Today: refMonday},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if planWeekCount(plan) != 4 {
		t.Fatalf("expected 4 weeks, got %d", planWeekCount(plan))
	}
	for _, week := range plan.Weeks {
		if len(week.Days) != 1 {
			t.Fatalf("week %d: expected 1 day, got %d", week.Number, len(week.Days))
		}
		day := week.Days[0]
		if day.Weekday != 1 {
			t.Errorf("week %d: expected Monday, got weekday %d", week.Number, day.Weekday)
		}
		if len(day.Sessions) != 1 || len(day.Sessions[0].Exercises) != 1 {
			t.Fatalf("week %d: expected one session with one exercise", week.Number)
		}
		ex := day.Sessions[0].Exercises[0]
		if ex.Name != "Jump Rope" || ex.DurationMinutes != 30 {
			t.Errorf("week %d: unexpected assignment %+v", week.Number, ex)
		}
	}
}

func TestGeneratePlan_ForceAdmitClipsDuration(t *testing.T) {
	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Long Run", DurationMinutes: 90, Difficulty: "easy"}},
		nil,
		GenerateOptions{Start: StartThisWeek, Today: refMonday},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if len(plan.Weeks) == 0 || len(plan.Weeks[0].Days) == 0 {
		t.Fatal("expected first week to have a day")
	}
	session := plan.Weeks[0].Days[0].Sessions[0]
	if len(session.Exercises) != 1 {
		t.Fatalf("expected exactly 1 exercise, got %d", len(session.Exercises))
	}
	if got := session.Exercises[0].DurationMinutes; got != 60 {
		t.Errorf("expected duration clipped to 60, got %d", got)
	}
}

func TestGeneratePlan_TwoHardExercisesRoundRobin(t *testing.T) {
	template := []SessionSlot{
		{Weekday: 1, StartTime: "07:00", EndTime: "09:00"},
		{Weekday: 3, StartTime: "07:00", EndTime: "09:00"},
	}
	exercises := []ExerciseTemplate{
		{Name: "Deadlift", DurationMinutes: 45, Difficulty: "hard"},
		{Name: "Burpee", DurationMinutes: 25, Difficulty: "hard"},
	}

	plan, err := GeneratePlan(template, exercises, nil,
		GenerateOptions{Start: StartThisWeek, Today: refMonday})
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if planWeekCount(plan) != 8 {
		t.Fatalf("expected 8 weeks, got %d", planWeekCount(plan))
	}
	for _, name := range []string{"Deadlift", "Burpee"} {
		if got := countWeeksContaining(plan, name); got != 8 {
			t.Errorf("%s: expected 8 weeks, got %d", name, got)
		}
	}

	// Round-robin pre-assignment splits the two exercises over the two days.
	week := plan.Weeks[0]
	if len(week.Days) != 2 {
		t.Fatalf("expected 2 days in week 1, got %d", len(week.Days))
	}
	for _, day := range week.Days {
		total := 0
		for _, session := range day.Sessions {
			total += len(session.Exercises)
		}
		if total != 1 {
			t.Errorf("day %v: expected 1 exercise, got %d", day.Date, total)
		}
	}
}

func TestGeneratePlan_BlockedWeekDefersExercise(t *testing.T) {
	// Week 2's only Monday is blocked; the exercise must reappear later
	// instead of being lost.
	blockedMonday := refMonday.AddDate(0, 0, 7)
	blocked := map[string]bool{dateKey(blockedMonday): true}

	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Jump Rope", DurationMinutes: 30, Difficulty: "easy"}},
		blocked,
		GenerateOptions{Start: StartThisWeek, Today: refMonday},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if planWeekCount(plan) < 4 {
		t.Fatalf("expected at least 4 weeks, got %d", planWeekCount(plan))
	}
	if len(plan.Weeks[1].Days) != 0 {
		t.Errorf("expected week 2 to be empty, got %d days", len(plan.Weeks[1].Days))
	}
	// Week numbering must stay contiguous through the empty week.
	for i, week := range plan.Weeks {
		if week.Number != i+1 {
			t.Fatalf("week at index %d has number %d", i, week.Number)
		}
	}
	if got := countWeeksContaining(plan, "Jump Rope"); got != 4 {
		t.Errorf("expected 4 appearances despite blocked week, got %d", got)
	}
}

func TestGeneratePlan_StartNextWeekSkipsCurrentWeek(t *testing.T) {
	// Today is Thursday; starting next week must begin on the following
	// Monday.
	today := date(2026, time.March, 5)

	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Plank", DurationMinutes: 10, Difficulty: "easy"}},
		nil,
		GenerateOptions{Start: StartNextWeek, Today: today},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	wantStart := date(2026, time.March, 9)
	if !plan.Weeks[0].StartDate.Equal(wantStart) {
		t.Errorf("expected first week to start %v, got %v", wantStart, plan.Weeks[0].StartDate)
	}
}

func TestGeneratePlan_StartThisWeekSkipsPastDays(t *testing.T) {
	// Today is Tuesday; this week's Monday slot already passed.
	today := date(2026, time.March, 3)

	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Plank", DurationMinutes: 10, Difficulty: "easy"}},
		nil,
		GenerateOptions{Start: StartThisWeek, Today: today},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if len(plan.Weeks[0].Days) != 0 {
		t.Errorf("expected no days in the already-started week, got %d", len(plan.Weeks[0].Days))
	}
	if got := countWeeksContaining(plan, "Plank"); got != 4 {
		t.Errorf("expected the deferred week to be made up, got %d appearances", got)
	}
}

func TestGeneratePlan_SessionCapacityRespected(t *testing.T) {
	// One 60-minute session per week, three easy exercises. Capacity is 2,
	// so every session must hold at most 2 exercises.
	exercises := []ExerciseTemplate{
		{Name: "Plank", DurationMinutes: 10, Difficulty: "easy"},
		{Name: "Jump Rope", DurationMinutes: 15, Difficulty: "easy"},
		{Name: "Stretch", DurationMinutes: 20, Difficulty: "easy"},
	}

	plan, err := GeneratePlan(mondayOnlyTemplate(), exercises, nil,
		GenerateOptions{Start: StartThisWeek, Today: refMonday})
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	for _, week := range plan.Weeks {
		for _, day := range week.Days {
			for _, session := range day.Sessions {
				if len(session.Exercises) > 2 {
					t.Errorf("week %d: session holds %d exercises, capacity is 2",
						week.Number, len(session.Exercises))
				}
				seen := map[string]bool{}
				for _, ex := range session.Exercises {
					if seen[ex.Name] {
						t.Errorf("week %d: duplicate %s in one session", week.Number, ex.Name)
					}
					seen[ex.Name] = true
				}
			}
		}
	}
}

func TestGeneratePlan_TimeBudgetDefersOverflow(t *testing.T) {
	// Two 40-minute exercises against a single 60-minute session. Capacity
	// allows two, but the minute budget only fits one; the other must be
	// deferred to a later week instead of over-packing the session.
	exercises := []ExerciseTemplate{
		{Name: "Rowing", DurationMinutes: 40, Difficulty: "easy"},
		{Name: "Cycling", DurationMinutes: 40, Difficulty: "easy"},
	}

	plan, err := GeneratePlan(mondayOnlyTemplate(), exercises, nil,
		GenerateOptions{Start: StartThisWeek, Today: refMonday})
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	for _, week := range plan.Weeks {
		for _, day := range week.Days {
			for _, session := range day.Sessions {
				total := 0
				for _, ex := range session.Exercises {
					total += ex.DurationMinutes
				}
				if total > 60 {
					t.Errorf("week %d: session packed %d minutes into a 60-minute window",
						week.Number, total)
				}
				if len(session.Exercises) != 1 {
					t.Errorf("week %d: expected 1 exercise per session, got %d",
						week.Number, len(session.Exercises))
				}
			}
		}
	}

	// The exercises alternate weeks, so each still reaches its 4 weeks.
	if planWeekCount(plan) != 8 {
		t.Fatalf("expected 8 weeks of alternation, got %d", planWeekCount(plan))
	}
	for _, name := range []string{"Rowing", "Cycling"} {
		if got := countWeeksContaining(plan, name); got != 4 {
			t.Errorf("%s: expected 4 appearances, got %d", name, got)
		}
	}
}

func TestGeneratePlan_ExpansionIsBounded(t *testing.T) {
	// Every single day is blocked, so nothing can ever be placed. The
	// window must still terminate.
	blocked := make(map[string]bool)
	for i := range 400 {
		blocked[dateKey(refMonday.AddDate(0, 0, i))] = true
	}

	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Jump Rope", DurationMinutes: 30, Difficulty: "hard"}},
		blocked,
		GenerateOptions{Start: StartThisWeek, Today: refMonday},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	// Fixed window of 8 plus a bounded number of expansion weeks.
	if got := planWeekCount(plan); got < 8 || got > 8+10 {
		t.Errorf("expected bounded window, got %d weeks", got)
	}
	if got := countWeeksContaining(plan, "Jump Rope"); got != 0 {
		t.Errorf("expected no placements on a fully blocked calendar, got %d", got)
	}
}

func TestGeneratePlan_DeferAfterEndParksUntilWindowEnds(t *testing.T) {
	// Week 2 is blocked; with defer_after_end the displaced occurrence must
	// not appear before the fixed window is over.
	blockedMonday := refMonday.AddDate(0, 0, 7)
	blocked := map[string]bool{dateKey(blockedMonday): true}

	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Jump Rope", DurationMinutes: 30, Difficulty: "easy"}},
		blocked,
		GenerateOptions{Start: StartThisWeek, Policy: PolicyDeferAfterEnd, Today: refMonday},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	if planWeekCount(plan) < 5 {
		t.Fatalf("expected an expansion week after the fixed 4, got %d weeks", planWeekCount(plan))
	}
	for _, week := range plan.Weeks[:4] {
		if week.Number == 2 && weekContains(week, "Jump Rope") {
			t.Error("blocked week 2 must stay empty")
		}
	}
	if !weekContains(plan.Weeks[4], "Jump Rope") {
		t.Error("expected parked exercise in the first week after the window")
	}
	if got := countWeeksContaining(plan, "Jump Rope"); got != 4 {
		t.Errorf("expected 4 total appearances, got %d", got)
	}
}

func TestGeneratePlan_DeferToReplacementDay(t *testing.T) {
	// Week 2's Monday is blocked; the displaced occurrence is routed to a
	// chosen replacement day even though that day is also blocked.
	blockedMonday := refMonday.AddDate(0, 0, 7)
	replacement := refMonday.AddDate(0, 0, 14) // week 3 Monday
	blocked := map[string]bool{
		dateKey(blockedMonday): true,
		dateKey(replacement):   true,
	}

	plan, err := GeneratePlan(
		mondayOnlyTemplate(),
		[]ExerciseTemplate{{Name: "Jump Rope", DurationMinutes: 30, Difficulty: "easy"}},
		blocked,
		GenerateOptions{
			Start:           StartThisWeek,
			Policy:          PolicyDeferReplacement,
			ReplacementDate: replacement,
			Today:           refMonday,
		},
	)
	if err != nil {
		t.Fatalf("generate plan: %v", err)
	}

	week3 := plan.Weeks[2]
	if len(week3.Days) == 0 {
		t.Fatal("expected the replacement day to be schedulable despite the block")
	}
	if got := dateKey(week3.Days[0].Date); got != dateKey(replacement) {
		t.Errorf("expected placements on %s, got %s", dateKey(replacement), got)
	}
}

func TestGeneratePlan_InputValidation(t *testing.T) {
	exercises := []ExerciseTemplate{{Name: "Plank", DurationMinutes: 10, Difficulty: "easy"}}

	if _, err := GeneratePlan(nil, exercises, nil, GenerateOptions{Today: refMonday}); err == nil {
		t.Error("expected error for empty template")
	}
	if _, err := GeneratePlan(mondayOnlyTemplate(), nil, nil, GenerateOptions{Today: refMonday}); err == nil {
		t.Error("expected error for empty exercise selection")
	}
}
