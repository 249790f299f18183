package ledger

import (
	"fmt"
	"time"
)

// Shift names a sub-window of a calendar day. The zero value (or any
// unrecognized name) resolves to the full-day window.
type Shift string

const (
	ShiftAll       Shift = "all"
	ShiftMorning   Shift = "morning"
	ShiftAfternoon Shift = "afternoon"
	ShiftNight     Shift = "night"
)

// ParseShift normalizes a shift name. Unknown names degrade to the
// full-day shift rather than erroring; a day view with no shift selected
// is the common case.
func ParseShift(s string) Shift {
	switch Shift(s) {
	case ShiftMorning, ShiftAfternoon, ShiftNight:
		return Shift(s)
	default:
		return ShiftAll
	}
}

// ShiftWindow is a half-open interval [Start, End) of absolute instants.
type ShiftWindow struct {
	Start time.Time
	End   time.Time
}

// Local shift boundaries, in hours of the civil day.
// The night shift ends on the following day.
const (
	morningStartHour   = 6
	afternoonStartHour = 14
	nightStartHour     = 22
	nightEndHour       = 6
)

// ResolveShiftWindow converts a civil date (YYYY-MM-DD) plus a shift
// into an absolute interval in the account's timezone. The day boundary
// for the night shift is computed with calendar arithmetic so the window
// stays correct even in locations where a civil day is not 24 hours.
func ResolveShiftWindow(date string, shift Shift, loc *time.Location) (ShiftWindow, error) {
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return ShiftWindow{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	nextDay := day.AddDate(0, 0, 1)

	switch shift {
	case ShiftMorning:
		return ShiftWindow{
			Start: day.Add(morningStartHour * time.Hour),
			End:   day.Add(afternoonStartHour * time.Hour),
		}, nil
	case ShiftAfternoon:
		return ShiftWindow{
			Start: day.Add(afternoonStartHour * time.Hour),
			End:   day.Add(nightStartHour * time.Hour),
		}, nil
	case ShiftNight:
		return ShiftWindow{
			Start: day.Add(nightStartHour * time.Hour),
			End:   nextDay.Add(nightEndHour * time.Hour),
		}, nil
	default:
		return ShiftWindow{Start: day, End: nextDay}, nil
	}
}
