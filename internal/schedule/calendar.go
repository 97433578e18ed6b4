package schedule

import (
	"fmt"
	"time"
)

const dateFormat = time.DateOnly

// normalizeDate truncates a timestamp to midnight in its own location.
// All date comparisons in this package happen on normalized values.
func normalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dateKey is the canonical YYYY-MM-DD identity of a calendar day. It is
// built from local calendar fields, never from a UTC serialization, so a
// date close to midnight cannot shift by a day across timezones.
func dateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// isoWeekday numbers weekdays 1 = Monday .. 7 = Sunday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// mondayOf returns the Monday of the week containing t, at local midnight.
func mondayOf(t time.Time) time.Time {
	t = normalizeDate(t)
	return t.AddDate(0, 0, 1-isoWeekday(t))
}

// parseClock converts an HH:MM string to minutes since midnight.
// Malformed values resolve to 0.
func parseClock(clock string) int {
	var hours, minutes int
	if _, err := fmt.Sscanf(clock, "%d:%d", &hours, &minutes); err != nil {
		return 0
	}
	return hours*60 + minutes
}

// sessionMinutes returns the wall-clock length of a template slot.
func sessionMinutes(slot SessionSlot) int {
	length := parseClock(slot.EndTime) - parseClock(slot.StartTime)
	if length < 0 {
		return 0
	}
	return length
}

// availableDay is a calendar date that has at least one matching template
// slot and survived blocked-date filtering.
type availableDay struct {
	date  time.Time
	slots []SessionSlot
}

// slotsForWeekday returns the template slots matching an ISO weekday,
// ordered by start time as stored.
func slotsForWeekday(template []SessionSlot, weekday int) []SessionSlot {
	var matching []SessionSlot
	for _, slot := range template {
		if slot.Weekday == weekday {
			matching = append(matching, slot)
		}
	}
	return matching
}

// availableDaysInWeek enumerates the days of the week containing ref that
// have a template match and are schedulable.
//
// notBefore and notAfter clamp the enumeration range inside the week; a zero
// value means no clamping on that side. A blocked day is skipped unless its
// date key equals makeupKey, which designates it as the replacement day for
// a blocked original.
func availableDaysInWeek(
	template []SessionSlot,
	ref time.Time,
	blocked map[string]bool,
	makeupKey string,
	notBefore time.Time,
	notAfter time.Time,
) []availableDay {
	monday := mondayOf(ref)
	sunday := monday.AddDate(0, 0, 6)

	first := monday
	if !notBefore.IsZero() && normalizeDate(notBefore).After(first) {
		first = normalizeDate(notBefore)
	}
	last := sunday
	if !notAfter.IsZero() && normalizeDate(notAfter).Before(last) {
		last = normalizeDate(notAfter)
	}

	var days []availableDay
	for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
		slots := slotsForWeekday(template, isoWeekday(date))
		if len(slots) == 0 {
			continue
		}
		key := dateKey(date)
		if blocked[key] && key != makeupKey {
			continue
		}
		days = append(days, availableDay{date: date, slots: slots})
	}
	return days
}
