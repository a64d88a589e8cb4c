package session

import "time"

// Status represents the lifecycle status of a time session
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// TimeSession is one open-ended work interval for one worker. The
// ticket fields form the inner sub-timer: TicketID, TicketTitle and
// TicketStartTime are either all set or all null.
type TimeSession struct {
	ID              string     `json:"id"`
	WorkerID        string     `json:"worker_id"`
	TeamID          *string    `json:"team_id,omitempty"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	Duration        int64      `json:"duration"` // seconds; 0 while active
	Status          Status     `json:"status"`
	TicketID        *string    `json:"ticket_id,omitempty"`
	TicketTitle     *string    `json:"ticket_title,omitempty"`
	TicketStartTime *time.Time `json:"ticket_start_time,omitempty"`
	Note            *string    `json:"note,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// Tracking reports whether the session currently attributes time to a ticket.
func (s *TimeSession) Tracking() bool {
	return s.TicketID != nil && s.TicketStartTime != nil
}

// TrackedInterval is the flushed result of stopping ticket tracking.
type TrackedInterval struct {
	TicketID string `json:"ticket_id"`
	Duration int64  `json:"duration"` // seconds
}

// TrackingStart opens ticket attribution on a session.
type TrackingStart struct {
	TicketID    string
	TicketTitle string
	Note        *string
	At          time.Time
}

// TrackingFlush commits an attributed interval into its ticket and
// clears the session's attribution fields. The store applies it as a
// single transaction so the session and ticket rows cannot diverge.
type TrackingFlush struct {
	SessionID string
	TicketID  string
	Duration  int64 // seconds
	StoppedAt time.Time

	// CompleteSession additionally closes the outer timer in the same
	// transaction (clock-out with an open attribution).
	CompleteSession bool
	SessionDuration int64
}
