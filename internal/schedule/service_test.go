package schedule_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mtran-dev/fitcoach/internal/contexthelpers"
	"github.com/mtran-dev/fitcoach/internal/schedule"
	"github.com/mtran-dev/fitcoach/internal/sqlite"
	"github.com/mtran-dev/fitcoach/internal/testhelpers"
)

// newTestService spins up a service on an in-memory database with the demo
// fixtures applied. The returned context carries the demo user.
func newTestService(t *testing.T) (*schedule.Service, context.Context) {
	t.Helper()

	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db, err := sqlite.NewDatabase(t.Context(), ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("close database: %v", closeErr)
		}
	})

	ctx := context.WithValue(t.Context(), contexthelpers.CurrentUserIDContextKey, 1)
	return schedule.NewService(db, logger, ""), ctx
}

func TestService_AvailabilityRoundTrip(t *testing.T) {
	svc, ctx := newTestService(t)

	slots := []schedule.SessionSlot{
		{Weekday: 1, StartTime: "06:00", EndTime: "07:00", Label: "Morning"},
		{Weekday: 3, StartTime: "18:00", EndTime: "20:00", Label: "Evening"},
	}
	if err := svc.SaveAvailability(ctx, slots); err != nil {
		t.Fatalf("save availability: %v", err)
	}

	got, err := svc.GetAvailability(ctx)
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(got))
	}
	if got[0].Label != "Morning" || got[1].EndTime != "20:00" {
		t.Errorf("unexpected slots: %+v", got)
	}

	// Saving again replaces, not appends.
	if err = svc.SaveAvailability(ctx, slots[:1]); err != nil {
		t.Fatalf("save availability again: %v", err)
	}
	if got, err = svc.GetAvailability(ctx); err != nil || len(got) != 1 {
		t.Fatalf("expected 1 slot after replace, got %d (err %v)", len(got), err)
	}
}

func TestService_SaveAvailabilityValidation(t *testing.T) {
	svc, ctx := newTestService(t)

	badWeekday := []schedule.SessionSlot{{Weekday: 8, StartTime: "06:00", EndTime: "07:00"}}
	if err := svc.SaveAvailability(ctx, badWeekday); err == nil {
		t.Error("expected error for weekday out of range")
	}

	inverted := []schedule.SessionSlot{{Weekday: 1, StartTime: "07:00", EndTime: "06:00"}}
	if err := svc.SaveAvailability(ctx, inverted); err == nil {
		t.Error("expected error for slot ending before it starts")
	}
}

func TestService_BlockedDatesRoundTrip(t *testing.T) {
	svc, ctx := newTestService(t)

	specs := []schedule.BlockedDateSpec{
		{Kind: schedule.BlockedKindCustom, Value: "2026-03-15"},
		{Kind: schedule.BlockedKindHoliday, Value: "lunar_new_year"},
	}
	if err := svc.SaveBlockedDates(ctx, specs); err != nil {
		t.Fatalf("save blocked dates: %v", err)
	}

	got, err := svc.ListBlockedDates(ctx)
	if err != nil {
		t.Fatalf("list blocked dates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(got))
	}

	bad := []schedule.BlockedDateSpec{{Kind: "whenever", Value: "x"}}
	if err = svc.SaveBlockedDates(ctx, bad); err == nil {
		t.Error("expected error for invalid kind")
	}
}

func TestService_ExerciseCatalog(t *testing.T) {
	svc, ctx := newTestService(t)

	exercises, err := svc.ListExercises(ctx)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	if len(exercises) == 0 {
		t.Fatal("expected fixture exercises")
	}

	ex, err := svc.GetExercise(ctx, exercises[0].ID)
	if err != nil {
		t.Fatalf("get exercise: %v", err)
	}
	if ex.Name != exercises[0].Name {
		t.Errorf("expected %q, got %q", exercises[0].Name, ex.Name)
	}

	if _, err = svc.GetExercise(ctx, 99999); !errors.Is(err, schedule.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown exercise, got %v", err)
	}
}

func TestService_ExerciseInfoHTML(t *testing.T) {
	svc, ctx := newTestService(t)

	exercises, err := svc.ListExercises(ctx)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}

	html, err := svc.ExerciseInfoHTML(ctx, exercises[0].ID)
	if err != nil {
		t.Fatalf("exercise info: %v", err)
	}
	if !strings.Contains(html, "<h1") {
		t.Errorf("expected rendered markdown heading, got %q", html)
	}
}

func TestService_GenerateConfirmListRoundTrip(t *testing.T) {
	svc, ctx := newTestService(t)

	slots := []schedule.SessionSlot{
		{Weekday: 1, StartTime: "18:00", EndTime: "19:00", Label: "Evening"},
		{Weekday: 4, StartTime: "18:00", EndTime: "19:00", Label: "Evening"},
	}
	if err := svc.SaveAvailability(ctx, slots); err != nil {
		t.Fatalf("save availability: %v", err)
	}

	today := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local)
	plan, err := svc.GeneratePreview(ctx, []string{"Jump Rope", "Plank", "No Such Exercise"},
		schedule.GenerateOptions{Start: schedule.StartThisWeek, Today: today})
	if err != nil {
		t.Fatalf("generate preview: %v", err)
	}
	if len(plan.Weeks) != 4 {
		t.Fatalf("expected 4 weeks for easy exercises, got %d", len(plan.Weeks))
	}

	if err = svc.ConfirmPlan(ctx, &plan); err != nil {
		t.Fatalf("confirm plan: %v", err)
	}

	entries, err := svc.ConfirmedEntries(ctx)
	if err != nil {
		t.Fatalf("confirmed entries: %v", err)
	}
	if want := len(plan.Flatten()); len(entries) != want {
		t.Fatalf("expected %d entries, got %d", want, len(entries))
	}
	for _, entry := range entries {
		if entry.ExerciseName != "Jump Rope" && entry.ExerciseName != "Plank" {
			t.Errorf("unexpected exercise %q in confirmed plan", entry.ExerciseName)
		}
	}

	// Confirming a new plan replaces the old one.
	smaller, err := svc.GeneratePreview(ctx, []string{"Plank"},
		schedule.GenerateOptions{Start: schedule.StartThisWeek, Today: today})
	if err != nil {
		t.Fatalf("generate second preview: %v", err)
	}
	if err = svc.ConfirmPlan(ctx, &smaller); err != nil {
		t.Fatalf("confirm second plan: %v", err)
	}
	entries, err = svc.ConfirmedEntries(ctx)
	if err != nil {
		t.Fatalf("confirmed entries after replace: %v", err)
	}
	for _, entry := range entries {
		if entry.ExerciseName != "Plank" {
			t.Errorf("expected only Plank after replace, got %q", entry.ExerciseName)
		}
	}
}

func TestService_GeneratePreviewRequiresAvailability(t *testing.T) {
	svc, ctx := newTestService(t)

	_, err := svc.GeneratePreview(ctx, []string{"Plank"}, schedule.GenerateOptions{
		Start: schedule.StartThisWeek,
		Today: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.Local),
	})
	if !errors.Is(err, schedule.ErrNoAvailability) {
		t.Errorf("expected ErrNoAvailability, got %v", err)
	}
}

func TestService_MovePreviewExercise(t *testing.T) {
	svc, ctx := newTestService(t)

	slots := []schedule.SessionSlot{
		{Weekday: 1, StartTime: "18:00", EndTime: "19:00", Label: "Evening"},
		{Weekday: 3, StartTime: "18:00", EndTime: "19:00", Label: "Evening"},
	}
	if err := svc.SaveAvailability(ctx, slots); err != nil {
		t.Fatalf("save availability: %v", err)
	}

	// Generate far enough in the future that moves are never "in the past".
	today := time.Now().AddDate(0, 0, 14)
	plan, err := svc.GeneratePreview(ctx, []string{"Jump Rope"},
		schedule.GenerateOptions{Start: schedule.StartNextWeek, Today: today})
	if err != nil {
		t.Fatalf("generate preview: %v", err)
	}

	week := plan.Weeks[0]
	if len(week.Days) == 0 {
		t.Fatal("expected a scheduled day in week 1")
	}
	fromDay := week.Days[0]
	target := week.StartDate.AddDate(0, 0, 2) // Wednesday

	err = svc.MovePreviewExercise(ctx, &plan, schedule.MoveRequest{
		FromWeek:  1,
		FromDate:  fromDay.Date.Format(time.DateOnly),
		FromStart: fromDay.Sessions[0].StartTime,
		FromIndex: 0,
		ToWeek:    1,
		ToDate:    target.Format(time.DateOnly),
	})
	if err != nil {
		t.Fatalf("move preview exercise: %v", err)
	}

	if len(plan.Weeks[0].Days) != 1 {
		t.Fatalf("expected 1 day after move, got %d", len(plan.Weeks[0].Days))
	}
	if got := plan.Weeks[0].Days[0].Weekday; got != 3 {
		t.Errorf("expected exercise on Wednesday, got weekday %d", got)
	}
}
