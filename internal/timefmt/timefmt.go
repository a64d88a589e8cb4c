// Package timefmt formats second counts for display.
package timefmt

import "fmt"

// Clock formats seconds as HH:MM:SS, or MM:SS when under an hour.
func Clock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60

	if hrs > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hrs, mins, secs)
	}
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// Short formats seconds as "2h 5m", "5m", or "30s" under a minute.
func Short(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60

	if hrs > 0 {
		return fmt.Sprintf("%dh %dm", hrs, mins)
	}
	if mins > 0 {
		return fmt.Sprintf("%dm", mins)
	}
	// Show seconds so short sessions display correctly.
	return fmt.Sprintf("%ds", secs)
}

// HoursMinutes formats seconds as "2h 5m", or "5m" when under an hour.
// Used by activity report rows.
func HoursMinutes(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60

	if hrs > 0 {
		return fmt.Sprintf("%dh %dm", hrs, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
