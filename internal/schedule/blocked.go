package schedule

import (
	"time"
)

// fixedHoliday is a holiday that falls on the same month/day every year.
type fixedHoliday struct {
	month time.Month
	day   int
}

//nolint:gochecknoglobals // static holiday calendar.
var fixedHolidays = map[string]fixedHoliday{
	"new_year":      {month: time.January, day: 1},
	"reunification": {month: time.April, day: 30},
	"labor_day":     {month: time.May, day: 1},
	"national_day":  {month: time.September, day: 2},
	"christmas":     {month: time.December, day: 25},
}

// lunarRange is the Gregorian span of the Tết holiday for one year.
type lunarRange struct {
	startMonth time.Month
	startDay   int
	endMonth   time.Month
	endDay     int
}

// Tết dates are lunar-calendar derived and cannot be computed from a fixed
// rule; known years are tabled and unlisted years fall back to an
// approximate early-February window.
//
//nolint:gochecknoglobals // static holiday calendar.
var lunarNewYearRanges = map[int]lunarRange{
	2024: {startMonth: time.February, startDay: 8, endMonth: time.February, endDay: 14},
	2025: {startMonth: time.January, startDay: 28, endMonth: time.February, endDay: 3},
	2026: {startMonth: time.February, startDay: 16, endMonth: time.February, endDay: 22},
	2027: {startMonth: time.February, startDay: 5, endMonth: time.February, endDay: 11},
	2028: {startMonth: time.January, startDay: 25, endMonth: time.January, endDay: 31},
}

//nolint:gochecknoglobals // static holiday calendar.
var lunarNewYearFallback = lunarRange{
	startMonth: time.February, startDay: 1,
	endMonth: time.February, endDay: 7,
}

// ResolveBlockedDates converts blocked-date specifications into the set of
// concrete dates (keyed YYYY-MM-DD) that no training may be scheduled on.
//
// Custom entries with unparseable dates are silently dropped. Holiday
// entries resolve to their next occurrence on or after today: when this
// year's date (for multi-day holidays, the last day of the range) has
// already passed, next year's occurrence is used instead. Unknown holiday
// keys resolve to nothing.
func ResolveBlockedDates(specs []BlockedDateSpec, today time.Time) map[string]bool {
	today = normalizeDate(today)
	blocked := make(map[string]bool)

	for _, spec := range specs {
		switch spec.Kind {
		case BlockedKindCustom:
			date, err := time.ParseInLocation(dateFormat, spec.Value, today.Location())
			if err != nil {
				continue
			}
			blocked[dateKey(date)] = true
		case BlockedKindHoliday:
			for _, date := range resolveHoliday(spec.Value, today) {
				blocked[dateKey(date)] = true
			}
		}
	}

	return blocked
}

func resolveHoliday(key string, today time.Time) []time.Time {
	if key == "lunar_new_year" || key == "tet" {
		return resolveLunarNewYear(today)
	}

	rule, ok := fixedHolidays[key]
	if !ok {
		return nil
	}

	date := time.Date(today.Year(), rule.month, rule.day, 0, 0, 0, 0, today.Location())
	if date.Before(today) {
		date = time.Date(today.Year()+1, rule.month, rule.day, 0, 0, 0, 0, today.Location())
	}
	return []time.Time{date}
}

func resolveLunarNewYear(today time.Time) []time.Time {
	dates := lunarNewYearDates(today.Year(), today.Location())
	if len(dates) > 0 && dates[len(dates)-1].Before(today) {
		dates = lunarNewYearDates(today.Year()+1, today.Location())
	}
	return dates
}

func lunarNewYearDates(year int, loc *time.Location) []time.Time {
	r, ok := lunarNewYearRanges[year]
	if !ok {
		r = lunarNewYearFallback
	}

	start := time.Date(year, r.startMonth, r.startDay, 0, 0, 0, 0, loc)
	end := time.Date(year, r.endMonth, r.endDay, 0, 0, 0, 0, loc)

	var dates []time.Time
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		dates = append(dates, date)
	}
	return dates
}
