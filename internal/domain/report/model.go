package report

import (
	"time"

	"github.com/timeharbor/timeharbor/internal/domain/session"
)

// DashboardStats is a derived snapshot, recomputed on demand and never
// stored. The hour fields are seconds despite the name; the dashboard
// formats them.
type DashboardStats struct {
	TodayHours  int64 `json:"today_hours"` // seconds
	WeekHours   int64 `json:"week_hours"`  // seconds
	OpenTickets int   `json:"open_tickets"`
	TeamMembers int   `json:"team_members"`
}

// ActivityRow is a projection of one session plus worker lookups, with
// fields preformatted for the team report table.
type ActivityRow struct {
	ID        string         `json:"id"`
	Date      string         `json:"date"` // YYYY-MM-DD
	StartTime time.Time      `json:"start_time"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Duration  int64          `json:"duration"` // seconds, as recorded
	Member    string         `json:"member"`
	Email     string         `json:"email"`
	Hours     string         `json:"hours"`     // "2h 5m" / "45m"
	ClockIn   string         `json:"clock_in"`  // HH:MM
	ClockOut  string         `json:"clock_out"` // HH:MM, "-" while active
	Status    string         `json:"status"`    // "Active" / "Completed"
	StatusRaw session.Status `json:"status_raw"`
	Tickets   []string       `json:"tickets"`
}

// RowFilters narrows activity rows after fetching. Every field is a
// case-insensitive substring match except Status, which is exact. An
// empty value means no constraint.
type RowFilters struct {
	Date     string `json:"date,omitempty"`
	Member   string `json:"member,omitempty"`
	Email    string `json:"email,omitempty"`
	Hours    string `json:"hours,omitempty"`
	ClockIn  string `json:"clock_in,omitempty"`
	ClockOut string `json:"clock_out,omitempty"`
	Status   string `json:"status,omitempty"`
	Ticket   string `json:"ticket,omitempty"`
}

// ActivityOptions windows and filters the team report. The range is
// inclusive on both ends and applies to session start times.
type ActivityOptions struct {
	RangeStart *time.Time
	RangeEnd   *time.Time
	Filters    RowFilters
}
