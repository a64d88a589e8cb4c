package rpc

import (
	"github.com/timeharbor/timeharbor/internal/domain/report"
	"github.com/timeharbor/timeharbor/internal/domain/session"
)

// ClockInParams starts a session. WorkerID falls back to the
// authenticated actor when empty.
type ClockInParams struct {
	WorkerID    string  `json:"worker_id,omitempty"`
	TeamID      *string `json:"team_id,omitempty"`
	TicketID    *string `json:"ticket_id,omitempty"`
	TicketTitle *string `json:"ticket_title,omitempty"`
}

type ClockOutParams struct {
	SessionID string `json:"session_id"`
}

type GetActiveSessionParams struct {
	WorkerID string `json:"worker_id,omitempty"`
}

type StartTrackingParams struct {
	SessionID   string  `json:"session_id"`
	TicketID    string  `json:"ticket_id"`
	TicketTitle string  `json:"ticket_title"`
	Note        *string `json:"note,omitempty"`
}

type StopTrackingParams struct {
	SessionID string `json:"session_id"`
}

type SwitchTrackingParams struct {
	SessionID   string  `json:"session_id"`
	TicketID    string  `json:"ticket_id"`
	TicketTitle string  `json:"ticket_title"`
	Note        *string `json:"note,omitempty"`
}

type UpdateNoteParams struct {
	SessionID string `json:"session_id"`
	Note      string `json:"note"`
}

// UpdateTimesParams corrects a session's recorded interval. Times are
// RFC 3339; an empty end time means the session is reopened.
type UpdateTimesParams struct {
	SessionID string  `json:"session_id"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time,omitempty"`
	Status    *string `json:"status,omitempty"`
}

type DashboardStatsParams struct {
	WorkerID string  `json:"worker_id,omitempty"`
	TeamID   *string `json:"team_id,omitempty"`
	// AsOf pins the aggregation instant (RFC 3339); defaults to now.
	AsOf *string `json:"as_of,omitempty"`
}

// TeamActivityParams windows the team report either by preset or by an
// explicit RFC 3339 range; the preset wins when both are given.
type TeamActivityParams struct {
	TeamID     string            `json:"team_id"`
	Preset     *string           `json:"preset,omitempty"`
	RangeStart *string           `json:"range_start,omitempty"`
	RangeEnd   *string           `json:"range_end,omitempty"`
	Filters    report.RowFilters `json:"filters,omitempty"`
}

type RecentSessionsParams struct {
	WorkerID string `json:"worker_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// UpdateResult acknowledges a mutation that returns no payload.
type UpdateResult struct {
	Updated bool `json:"updated"`
}

// ActiveSessionResult pairs the active session with its elapsed time,
// formatted the way the live timer displays it.
type ActiveSessionResult struct {
	Session        *session.TimeSession `json:"session"`
	ElapsedSeconds int64                `json:"elapsed_seconds"`
	ElapsedDisplay string               `json:"elapsed_display"`
}

// RecentSessionItem is one entry of the recent activity list.
type RecentSessionItem struct {
	Session         session.TimeSession `json:"session"`
	DurationSeconds int64               `json:"duration_seconds"`
	DurationDisplay string              `json:"duration_display"`
}
