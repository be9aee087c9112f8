// Package dateconv merges user-picked calendar dates and clock times into
// single instants, and derives the date/period display key used to order
// recordings.
package dateconv

import (
	"fmt"
	"time"
)

// TimeOfDay is the coarse morning/evening period of a recording.
type TimeOfDay string

const (
	Morning TimeOfDay = "AM"
	Evening TimeOfDay = "PM"
)

const (
	dateLayout = "2006-01-02"
	isoLayout  = "2006-01-02T15:04:05.000Z07:00"
)

// FormatISO renders t as a millisecond-precision UTC ISO-8601 string, the
// shape every date in the wire schema uses.
func FormatISO(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

// ParseDate accepts the date-string shapes seen across schema versions:
// full ISO-8601 instants with or without fractional seconds, and bare
// YYYY-MM-DD days.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", dateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date string %q", s)
}

// CombineDateAndTime merges two picker values into one instant.
//
// datePart carries the calendar date the user picked and timePart the clock
// time. Both are absolute instants whose rendering in the user's timezone is
// what the user saw; offsetMinutes is that timezone's offset, positive when
// behind UTC. The merge works entirely in UTC:
//
//  1. shift datePart back by the offset, so its UTC calendar date equals the
//     picked local date;
//  2. check whether shifting timePart the same way crosses a UTC calendar-day
//     boundary, and if it does, move the date from step 1 one day to
//     compensate;
//  3. splice the resulting UTC calendar date onto timePart's UTC time of day
//     and parse the concatenation back into an instant.
func CombineDateAndTime(datePart, timePart time.Time, offsetMinutes int) (time.Time, error) {
	offset := time.Duration(offsetMinutes) * time.Minute

	date := datePart.UTC().Add(-offset)
	date = date.AddDate(0, 0, dayOffset(timePart, offsetMinutes))

	combined := date.Format(dateLayout) + "T" + timePart.UTC().Format("15:04:05.000") + "Z"
	return time.Parse(time.RFC3339, combined)
}

// dayOffset reports how the picked local date must move so that the combined
// instant renders with the picked local time: +1 when the UTC form of the
// local clock time lands on the following day, -1 when it lands on the
// previous one, 0 otherwise. Offsets are under 24h, so no other value can
// occur.
func dayOffset(timePart time.Time, offsetMinutes int) int {
	raw := timePart.UTC()
	shifted := raw.Add(-time.Duration(offsetMinutes) * time.Minute)

	rawDay := time.Date(raw.Year(), raw.Month(), raw.Day(), 0, 0, 0, 0, time.UTC)
	shiftedDay := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)

	switch {
	case shiftedDay.Before(rawDay):
		return 1
	case shiftedDay.After(rawDay):
		return -1
	default:
		return 0
	}
}

// DateStringAndTimeOfDay derives the display date and AM/PM period for t.
// Readings before 06:00 count as the previous day's evening; 06:00 up to
// 18:00 is the morning period, everything later the evening one.
func DateStringAndTimeOfDay(t time.Time) (string, TimeOfDay) {
	if t.Hour() < 6 {
		return t.AddDate(0, 0, -1).Format(dateLayout), Evening
	}
	if t.Hour() < 18 {
		return t.Format(dateLayout), Morning
	}
	return t.Format(dateLayout), Evening
}
