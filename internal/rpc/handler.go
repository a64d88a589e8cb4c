// Package rpc dispatches engine operations by method name. Both the
// HTTP JSON-RPC transport and the MCP tool server route through this
// handler, so the strict-lifecycle/lenient-aggregation error split
// lives in one place.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/timeharbor/timeharbor/internal/domain/report"
	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/timefmt"
)

// ErrMethodNotFound indicates an unknown method name.
var ErrMethodNotFound = errors.New("method not found")

// ErrInvalidParams indicates malformed parameters.
var ErrInvalidParams = errors.New("invalid params")

// SessionService defines lifecycle and sub-timer operations.
type SessionService interface {
	ClockIn(ctx context.Context, req session.ClockInRequest) (*session.TimeSession, error)
	ClockOut(ctx context.Context, sessionID string) (*session.TimeSession, error)
	GetActiveSession(ctx context.Context, workerID string) (*session.TimeSession, error)
	StartTracking(ctx context.Context, sessionID, ticketID, ticketTitle string, note *string) (*session.TimeSession, error)
	StopTracking(ctx context.Context, sessionID string) (*session.TrackedInterval, error)
	SwitchTracking(ctx context.Context, sessionID, ticketID, ticketTitle string, note *string) (*session.TrackedInterval, error)
	UpdateNote(ctx context.Context, sessionID, note string) error
}

// CorrectionService defines timesheet corrections.
type CorrectionService interface {
	UpdateTimes(ctx context.Context, sessionID string, startTime time.Time, endTime *time.Time, statusOverride *session.Status) (*session.TimeSession, error)
}

// ReportService defines the lenient aggregation views.
type ReportService interface {
	DashboardStats(ctx context.Context, workerID string, teamID *string, asOf time.Time) report.DashboardStats
	TeamActivity(ctx context.Context, teamID string, opts report.ActivityOptions) []report.ActivityRow
	RecentSessions(ctx context.Context, workerID string, limit int) []session.TimeSession
}

// Handler dispatches engine methods.
type Handler struct {
	sessions    SessionService
	corrections CorrectionService
	reports     ReportService
}

// NewHandler creates a new method dispatcher.
func NewHandler(sessions SessionService, corrections CorrectionService, reports ReportService) *Handler {
	return &Handler{
		sessions:    sessions,
		corrections: corrections,
		reports:     reports,
	}
}

// Handle dispatches one request. actorID is the authenticated worker,
// used when worker-scoped params omit the worker id.
func (h *Handler) Handle(ctx context.Context, actorID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "clock_in":
		var req ClockInParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.ClockIn(ctx, session.ClockInRequest{
			WorkerID:    orActor(req.WorkerID, actorID),
			TeamID:      req.TeamID,
			TicketID:    req.TicketID,
			TicketTitle: req.TicketTitle,
		})

	case "clock_out":
		var req ClockOutParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.ClockOut(ctx, req.SessionID)

	case "get_active_session":
		var req GetActiveSessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.sessions.GetActiveSession(ctx, orActor(req.WorkerID, actorID))
		if err != nil || sess == nil {
			return nil, err
		}
		elapsed := report.ComputeDuration(*sess, time.Now())
		return ActiveSessionResult{
			Session:        sess,
			ElapsedSeconds: elapsed,
			ElapsedDisplay: timefmt.Clock(elapsed),
		}, nil

	case "start_ticket_tracking":
		var req StartTrackingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.StartTracking(ctx, req.SessionID, req.TicketID, req.TicketTitle, req.Note)

	case "stop_ticket_tracking":
		var req StopTrackingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.StopTracking(ctx, req.SessionID)

	case "switch_ticket_tracking":
		var req SwitchTrackingParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.sessions.SwitchTracking(ctx, req.SessionID, req.TicketID, req.TicketTitle, req.Note)

	case "update_session_note":
		var req UpdateNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if err := h.sessions.UpdateNote(ctx, req.SessionID, req.Note); err != nil {
			return nil, err
		}
		return UpdateResult{Updated: true}, nil

	case "update_session_times":
		var req UpdateTimesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.updateTimes(ctx, req)

	case "get_dashboard_stats":
		var req DashboardStatsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		asOf := time.Now()
		if req.AsOf != nil {
			parsed, err := parseTime(*req.AsOf)
			if err != nil {
				return nil, err
			}
			asOf = parsed
		}
		return h.reports.DashboardStats(ctx, orActor(req.WorkerID, actorID), req.TeamID, asOf), nil

	case "get_team_activity":
		var req TeamActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		opts, err := activityOptions(req)
		if err != nil {
			return nil, err
		}
		return h.reports.TeamActivity(ctx, req.TeamID, opts), nil

	case "get_recent_sessions":
		var req RecentSessionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		limit := req.Limit
		if limit <= 0 {
			limit = 10
		}
		sessions := h.reports.RecentSessions(ctx, orActor(req.WorkerID, actorID), limit)
		now := time.Now()
		items := make([]RecentSessionItem, 0, len(sessions))
		for _, sess := range sessions {
			duration := report.ComputeDuration(sess, now)
			items = append(items, RecentSessionItem{
				Session:         sess,
				DurationSeconds: duration,
				DurationDisplay: timefmt.Short(duration),
			})
		}
		return items, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
}

func (h *Handler) updateTimes(ctx context.Context, req UpdateTimesParams) (any, error) {
	startTime, err := parseTime(req.StartTime)
	if err != nil {
		return nil, err
	}

	var endTime *time.Time
	if req.EndTime != nil && *req.EndTime != "" {
		parsed, err := parseTime(*req.EndTime)
		if err != nil {
			return nil, err
		}
		endTime = &parsed
	}

	var status *session.Status
	if req.Status != nil && *req.Status != "" {
		s := session.Status(*req.Status)
		status = &s
	}

	return h.corrections.UpdateTimes(ctx, req.SessionID, startTime, endTime, status)
}

func activityOptions(req TeamActivityParams) (report.ActivityOptions, error) {
	var opts report.ActivityOptions
	opts.Filters = req.Filters

	if req.Preset != nil && *req.Preset != "" {
		start, end := report.PresetRange(report.Preset(*req.Preset), time.Now())
		opts.RangeStart = &start
		opts.RangeEnd = &end
		return opts, nil
	}

	if req.RangeStart != nil && *req.RangeStart != "" {
		start, err := parseTime(*req.RangeStart)
		if err != nil {
			return opts, err
		}
		opts.RangeStart = &start
	}
	if req.RangeEnd != nil && *req.RangeEnd != "" {
		end, err := parseTime(*req.RangeEnd)
		if err != nil {
			return opts, err
		}
		opts.RangeEnd = &end
	}
	return opts, nil
}

func decodeParams(params json.RawMessage, target any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

func parseTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid time %q", ErrInvalidParams, value)
	}
	return parsed, nil
}

func orActor(workerID, actorID string) string {
	if workerID != "" {
		return workerID
	}
	return actorID
}
