package ticket

import "time"

// Status represents the workflow status of a ticket.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// Ticket carries the time-relevant fields of a work item. Only
// TotalTimeSpent and LastTrackedDuration are written by this engine,
// and only when a tracking interval is flushed.
type Ticket struct {
	ID                  string    `json:"id"`
	TeamID              string    `json:"team_id,omitempty"`
	AssigneeID          string    `json:"assignee_id,omitempty"`
	Title               string    `json:"title"`
	Status              Status    `json:"status"`
	TotalTimeSpent      int64     `json:"total_time_spent"`      // cumulative seconds
	LastTrackedDuration int64     `json:"last_tracked_duration"` // seconds of the most recent interval
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
