package report

import "time"

// Preset names a calendar-anchored date range for the team report.
type Preset string

const (
	PresetToday     Preset = "today"
	PresetYesterday Preset = "yesterday"
	PresetLast7     Preset = "last7"
	PresetThisWeek  Preset = "thisWeek"
	PresetLast14    Preset = "last14"
)

// StartOfDay returns local midnight of t's day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59 of t's day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// StartOfWeek returns the most recent Sunday midnight at or before t.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// PresetRange resolves a preset to an inclusive [start, end] window
// anchored at now. Unknown presets fall back to the last 14 days.
func PresetRange(p Preset, now time.Time) (time.Time, time.Time) {
	dayStart := StartOfDay(now)
	dayEnd := EndOfDay(now)

	switch p {
	case PresetToday:
		return dayStart, dayEnd
	case PresetYesterday:
		y := dayStart.AddDate(0, 0, -1)
		return y, EndOfDay(y)
	case PresetLast7:
		return dayStart.AddDate(0, 0, -6), dayEnd
	case PresetThisWeek:
		return StartOfWeek(now), dayEnd
	default:
		return dayStart.AddDate(0, 0, -13), dayEnd
	}
}
