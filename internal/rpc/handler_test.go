package rpc_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/timeharbor/timeharbor/internal/domain/report"
	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/rpc"
)

type stubSessions struct {
	clockInReq   session.ClockInRequest
	clockedOut   string
	activeWorker string
	noteSession  string
	note         string
	sess         *session.TimeSession
	interval     *session.TrackedInterval
	err          error
}

func (s *stubSessions) ClockIn(_ context.Context, req session.ClockInRequest) (*session.TimeSession, error) {
	s.clockInReq = req
	return s.sess, s.err
}

func (s *stubSessions) ClockOut(_ context.Context, sessionID string) (*session.TimeSession, error) {
	s.clockedOut = sessionID
	return s.sess, s.err
}

func (s *stubSessions) GetActiveSession(_ context.Context, workerID string) (*session.TimeSession, error) {
	s.activeWorker = workerID
	return s.sess, s.err
}

func (s *stubSessions) StartTracking(_ context.Context, sessionID, ticketID, ticketTitle string, note *string) (*session.TimeSession, error) {
	return s.sess, s.err
}

func (s *stubSessions) StopTracking(_ context.Context, sessionID string) (*session.TrackedInterval, error) {
	return s.interval, s.err
}

func (s *stubSessions) SwitchTracking(_ context.Context, sessionID, ticketID, ticketTitle string, note *string) (*session.TrackedInterval, error) {
	return s.interval, s.err
}

func (s *stubSessions) UpdateNote(_ context.Context, sessionID, note string) error {
	s.noteSession = sessionID
	s.note = note
	return s.err
}

type stubCorrections struct {
	sessionID string
	startTime time.Time
	endTime   *time.Time
	status    *session.Status
	sess      *session.TimeSession
	err       error
}

func (s *stubCorrections) UpdateTimes(_ context.Context, sessionID string, startTime time.Time, endTime *time.Time, statusOverride *session.Status) (*session.TimeSession, error) {
	s.sessionID = sessionID
	s.startTime = startTime
	s.endTime = endTime
	s.status = statusOverride
	return s.sess, s.err
}

type stubReports struct {
	statsWorker string
	statsTeam   *string
	asOf        time.Time
	activityOpt report.ActivityOptions
	recentLimit int
	stats       report.DashboardStats
	rows        []report.ActivityRow
	recent      []session.TimeSession
}

func (s *stubReports) DashboardStats(_ context.Context, workerID string, teamID *string, asOf time.Time) report.DashboardStats {
	s.statsWorker = workerID
	s.statsTeam = teamID
	s.asOf = asOf
	return s.stats
}

func (s *stubReports) TeamActivity(_ context.Context, teamID string, opts report.ActivityOptions) []report.ActivityRow {
	s.activityOpt = opts
	return s.rows
}

func (s *stubReports) RecentSessions(_ context.Context, workerID string, limit int) []session.TimeSession {
	s.recentLimit = limit
	return s.recent
}

func newHandler(sessions *stubSessions, corrections *stubCorrections, reports *stubReports) *rpc.Handler {
	if sessions == nil {
		sessions = &stubSessions{}
	}
	if corrections == nil {
		corrections = &stubCorrections{}
	}
	if reports == nil {
		reports = &stubReports{}
	}
	return rpc.NewHandler(sessions, corrections, reports)
}

func TestHandler_UnknownMethod(t *testing.T) {
	h := newHandler(nil, nil, nil)
	_, err := h.Handle(context.Background(), "w1", "frobnicate", nil)
	require.ErrorIs(t, err, rpc.ErrMethodNotFound)
}

func TestHandler_MalformedParams(t *testing.T) {
	h := newHandler(nil, nil, nil)
	_, err := h.Handle(context.Background(), "w1", "clock_in", json.RawMessage(`{"worker_id":`))
	require.ErrorIs(t, err, rpc.ErrInvalidParams)
}

func TestHandler_ClockIn_ActorFallback(t *testing.T) {
	sessions := &stubSessions{sess: &session.TimeSession{ID: "s1"}}
	h := newHandler(sessions, nil, nil)

	result, err := h.Handle(context.Background(), "actor1", "clock_in", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Equal(t, "actor1", sessions.clockInReq.WorkerID)
	require.Equal(t, "s1", result.(*session.TimeSession).ID)

	// An explicit worker id wins over the actor.
	_, err = h.Handle(context.Background(), "actor1", "clock_in", json.RawMessage(`{"worker_id":"w9"}`))
	require.NoError(t, err)
	require.Equal(t, "w9", sessions.clockInReq.WorkerID)
}

func TestHandler_GetActiveSession(t *testing.T) {
	start := time.Now().Add(-90 * time.Second)
	sessions := &stubSessions{sess: &session.TimeSession{
		ID:        "s1",
		StartTime: start,
		Status:    session.StatusActive,
	}}
	h := newHandler(sessions, nil, nil)

	result, err := h.Handle(context.Background(), "actor1", "get_active_session", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Equal(t, "actor1", sessions.activeWorker)

	active := result.(rpc.ActiveSessionResult)
	require.Equal(t, "s1", active.Session.ID)
	require.GreaterOrEqual(t, active.ElapsedSeconds, int64(90))
	require.NotEmpty(t, active.ElapsedDisplay)

	// Clocked out: a plain null result, not an error.
	sessions.sess = nil
	result, err = h.Handle(context.Background(), "actor1", "get_active_session", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestHandler_RecentSessions_Display(t *testing.T) {
	reports := &stubReports{recent: []session.TimeSession{{
		ID:       "s1",
		Duration: 5400,
		Status:   session.StatusCompleted,
	}}}
	h := newHandler(nil, nil, reports)

	result, err := h.Handle(context.Background(), "actor1", "get_recent_sessions", json.RawMessage(`{}`))
	require.NoError(t, err)
	items := result.([]rpc.RecentSessionItem)
	require.Len(t, items, 1)
	require.Equal(t, int64(5400), items[0].DurationSeconds)
	require.Equal(t, "1h 30m", items[0].DurationDisplay)
}

func TestHandler_ClockOut(t *testing.T) {
	sessions := &stubSessions{sess: &session.TimeSession{ID: "s1"}}
	h := newHandler(sessions, nil, nil)

	_, err := h.Handle(context.Background(), "actor1", "clock_out", json.RawMessage(`{"session_id":"s1"}`))
	require.NoError(t, err)
	require.Equal(t, "s1", sessions.clockedOut)
}

func TestHandler_ServiceErrorsPropagate(t *testing.T) {
	sessions := &stubSessions{err: session.ErrSessionActive}
	h := newHandler(sessions, nil, nil)

	_, err := h.Handle(context.Background(), "actor1", "clock_in", json.RawMessage(`{}`))
	require.ErrorIs(t, err, session.ErrSessionActive)
}

func TestHandler_UpdateNote(t *testing.T) {
	sessions := &stubSessions{}
	h := newHandler(sessions, nil, nil)

	result, err := h.Handle(context.Background(), "actor1", "update_session_note",
		json.RawMessage(`{"session_id":"s1","note":"standup"}`))
	require.NoError(t, err)
	require.Equal(t, rpc.UpdateResult{Updated: true}, result)
	require.Equal(t, "s1", sessions.noteSession)
	require.Equal(t, "standup", sessions.note)
}

func TestHandler_UpdateTimes(t *testing.T) {
	corrections := &stubCorrections{sess: &session.TimeSession{ID: "s1"}}
	h := newHandler(nil, corrections, nil)

	_, err := h.Handle(context.Background(), "actor1", "update_session_times", json.RawMessage(
		`{"session_id":"s1","start_time":"2025-03-10T09:00:00Z","end_time":"2025-03-10T11:00:00Z","status":"completed"}`))
	require.NoError(t, err)
	require.Equal(t, "s1", corrections.sessionID)
	require.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), corrections.startTime.UTC())
	require.Equal(t, time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC), corrections.endTime.UTC())
	require.Equal(t, session.StatusCompleted, *corrections.status)

	// Empty end time means reopen; no status override either.
	_, err = h.Handle(context.Background(), "actor1", "update_session_times", json.RawMessage(
		`{"session_id":"s1","start_time":"2025-03-10T09:00:00Z","end_time":""}`))
	require.NoError(t, err)
	require.Nil(t, corrections.endTime)
	require.Nil(t, corrections.status)

	_, err = h.Handle(context.Background(), "actor1", "update_session_times", json.RawMessage(
		`{"session_id":"s1","start_time":"not-a-time"}`))
	require.ErrorIs(t, err, rpc.ErrInvalidParams)
}

func TestHandler_DashboardStats(t *testing.T) {
	reports := &stubReports{stats: report.DashboardStats{TodayHours: 3600}}
	h := newHandler(nil, nil, reports)

	result, err := h.Handle(context.Background(), "actor1", "get_dashboard_stats",
		json.RawMessage(`{"as_of":"2025-03-12T15:00:00Z"}`))
	require.NoError(t, err)
	require.Equal(t, "actor1", reports.statsWorker)
	require.Equal(t, time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), reports.asOf.UTC())
	require.Equal(t, int64(3600), result.(report.DashboardStats).TodayHours)

	_, err = h.Handle(context.Background(), "actor1", "get_dashboard_stats",
		json.RawMessage(`{"as_of":"yesterday"}`))
	require.ErrorIs(t, err, rpc.ErrInvalidParams)
}

func TestHandler_TeamActivity_PresetWinsOverRange(t *testing.T) {
	reports := &stubReports{rows: []report.ActivityRow{}}
	h := newHandler(nil, nil, reports)

	_, err := h.Handle(context.Background(), "actor1", "get_team_activity", json.RawMessage(
		`{"team_id":"team1","preset":"today","range_start":"2020-01-01T00:00:00Z"}`))
	require.NoError(t, err)
	require.NotNil(t, reports.activityOpt.RangeStart)
	require.NotNil(t, reports.activityOpt.RangeEnd)
	// Preset ranges are anchored at now, not at the explicit range.
	require.True(t, reports.activityOpt.RangeStart.After(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)))

	_, err = h.Handle(context.Background(), "actor1", "get_team_activity", json.RawMessage(
		`{"team_id":"team1","range_start":"2025-03-01T00:00:00Z","range_end":"2025-03-31T23:59:59Z","filters":{"member":"ada"}}`))
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), reports.activityOpt.RangeStart.UTC())
	require.Equal(t, "ada", reports.activityOpt.Filters.Member)
}

func TestHandler_RecentSessions_DefaultLimit(t *testing.T) {
	reports := &stubReports{recent: []session.TimeSession{}}
	h := newHandler(nil, nil, reports)

	_, err := h.Handle(context.Background(), "actor1", "get_recent_sessions", json.RawMessage(`{}`))
	require.NoError(t, err)
	require.Equal(t, 10, reports.recentLimit)

	_, err = h.Handle(context.Background(), "actor1", "get_recent_sessions", json.RawMessage(`{"limit":3}`))
	require.NoError(t, err)
	require.Equal(t, 3, reports.recentLimit)
}
