package schedule

import (
	"testing"
	"time"
)

func TestDateKeyUsesLocalCalendarFields(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 23:30 local is already the next day in UTC terms for negative offsets,
	// and the previous day for positive ones. The key must follow the local
	// calendar regardless.
	late := time.Date(2026, time.March, 1, 23, 30, 0, 0, loc)
	if got := dateKey(late); got != "2026-03-01" {
		t.Errorf("dateKey(%v) = %q, want 2026-03-01", late, got)
	}

	early := time.Date(2026, time.March, 1, 0, 15, 0, 0, loc)
	if got := dateKey(early); got != "2026-03-01" {
		t.Errorf("dateKey(%v) = %q, want 2026-03-01", early, got)
	}
}

func TestDateKeyZeroPads(t *testing.T) {
	if got := dateKey(date(2026, time.January, 5)); got != "2026-01-05" {
		t.Errorf("dateKey = %q, want 2026-01-05", got)
	}
}

func TestIsoWeekday(t *testing.T) {
	testCases := []struct {
		day  time.Time
		want int
	}{
		{day: date(2026, time.March, 2), want: 1},  // Monday
		{day: date(2026, time.March, 7), want: 6},  // Saturday
		{day: date(2026, time.March, 8), want: 7},  // Sunday
	}

	for _, tc := range testCases {
		if got := isoWeekday(tc.day); got != tc.want {
			t.Errorf("isoWeekday(%v) = %d, want %d", tc.day, got, tc.want)
		}
	}
}

func TestMondayOf(t *testing.T) {
	monday := date(2026, time.March, 2)
	for i := range 7 {
		day := monday.AddDate(0, 0, i)
		if got := mondayOf(day); !got.Equal(monday) {
			t.Errorf("mondayOf(%v) = %v, want %v", day, got, monday)
		}
	}
}

func TestParseClock(t *testing.T) {
	testCases := []struct {
		clock string
		want  int
	}{
		{clock: "00:00", want: 0},
		{clock: "06:30", want: 390},
		{clock: "18:05", want: 1085},
		{clock: "garbage", want: 0},
	}

	for _, tc := range testCases {
		if got := parseClock(tc.clock); got != tc.want {
			t.Errorf("parseClock(%q) = %d, want %d", tc.clock, got, tc.want)
		}
	}
}

func TestAvailableDaysInWeek(t *testing.T) {
	template := []SessionSlot{
		{Weekday: 1, StartTime: "06:00", EndTime: "07:00"},
		{Weekday: 3, StartTime: "06:00", EndTime: "07:00"},
		{Weekday: 3, StartTime: "18:00", EndTime: "19:00"},
		{Weekday: 6, StartTime: "08:00", EndTime: "10:00"},
	}
	monday := date(2026, time.March, 2)

	t.Run("no filters", func(t *testing.T) {
		days := availableDaysInWeek(template, monday, nil, "", time.Time{}, time.Time{})
		if len(days) != 3 {
			t.Fatalf("expected 3 days, got %d", len(days))
		}
		if len(days[1].slots) != 2 {
			t.Errorf("expected 2 slots on Wednesday, got %d", len(days[1].slots))
		}
	})

	t.Run("blocked day is skipped", func(t *testing.T) {
		blocked := map[string]bool{"2026-03-04": true}
		days := availableDaysInWeek(template, monday, blocked, "", time.Time{}, time.Time{})
		if len(days) != 2 {
			t.Fatalf("expected 2 days, got %d", len(days))
		}
	})

	t.Run("makeup key overrides block", func(t *testing.T) {
		blocked := map[string]bool{"2026-03-04": true}
		days := availableDaysInWeek(template, monday, blocked, "2026-03-04", time.Time{}, time.Time{})
		if len(days) != 3 {
			t.Fatalf("expected 3 days, got %d", len(days))
		}
	})

	t.Run("notBefore clamps past days", func(t *testing.T) {
		days := availableDaysInWeek(template, monday, nil, "", date(2026, time.March, 3), time.Time{})
		if len(days) != 2 {
			t.Fatalf("expected 2 days, got %d", len(days))
		}
		if isoWeekday(days[0].date) != 3 {
			t.Errorf("expected first day to be Wednesday, got weekday %d", isoWeekday(days[0].date))
		}
	})
}
