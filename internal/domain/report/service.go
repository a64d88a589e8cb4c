// Package report reduces the raw session set into dashboard statistics
// and team activity reports. Unlike the lifecycle services these
// operations are lenient: they are advisory read views, so failures are
// logged and replaced with zero-valued results instead of propagated.
package report

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/timefmt"
)

// Service computes derived statistics and reports.
type Service struct {
	sessions SessionRepository
	tickets  TicketRepository
	teams    TeamRepository
	users    UserRepository
	logger   *slog.Logger
}

// NewService creates a new report service.
func NewService(sessions SessionRepository, tickets TicketRepository, teams TeamRepository, users UserRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions: sessions,
		tickets:  tickets,
		teams:    teams,
		users:    users,
		logger:   logger,
	}
}

// ComputeDuration returns how many seconds a session has consumed as of
// asOf. Completed sessions prefer the stored duration, falling back to
// the recorded end time; active sessions always contribute up to asOf.
// Every aggregation goes through this one reducer to avoid double
// counting.
func ComputeDuration(sess session.TimeSession, asOf time.Time) int64 {
	if sess.Status == session.StatusCompleted {
		if sess.Duration > 0 {
			return sess.Duration
		}
		if sess.EndTime != nil {
			return clampSeconds(sess.EndTime.Sub(sess.StartTime))
		}
	}

	end := asOf
	if sess.EndTime != nil {
		end = *sess.EndTime
	}
	return clampSeconds(end.Sub(sess.StartTime))
}

// DashboardStats aggregates a worker's sessions into today/week totals
// plus the open-ticket and team-member counts. A session is bucketed by
// its start time only, even when it spans midnight or a week boundary.
// Never fails: a worker with no history gets all zeros with at least
// one team member (themselves).
func (s *Service) DashboardStats(ctx context.Context, workerID string, teamID *string, asOf time.Time) DashboardStats {
	stats := DashboardStats{TeamMembers: 1}

	sessions, err := s.sessions.ListByWorker(ctx, workerID, teamID)
	if err != nil {
		s.logger.Warn("dashboard: listing sessions failed", "worker_id", workerID, "error", err)
		return stats
	}

	todayStart := StartOfDay(asOf)
	weekStart := StartOfWeek(asOf)

	for _, sess := range sessions {
		duration := ComputeDuration(sess, asOf)
		if !sess.StartTime.Before(todayStart) {
			stats.TodayHours += duration
		}
		if !sess.StartTime.Before(weekStart) {
			stats.WeekHours += duration
		}
	}

	if open, err := s.tickets.CountOpenByAssignee(ctx, workerID, teamID); err != nil {
		s.logger.Warn("dashboard: counting open tickets failed", "worker_id", workerID, "error", err)
	} else {
		stats.OpenTickets = open
	}

	stats.TeamMembers = s.countTeamMembers(ctx, workerID, teamID)
	return stats
}

// TeamActivity projects a team's sessions into report rows, newest
// first, windowed inclusively by start time and narrowed by the row
// filters. Failures yield an empty report.
func (s *Service) TeamActivity(ctx context.Context, teamID string, opts ActivityOptions) []ActivityRow {
	sessions, err := s.sessions.ListByTeam(ctx, teamID)
	if err != nil {
		s.logger.Warn("team activity: listing sessions failed", "team_id", teamID, "error", err)
		return []ActivityRow{}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})

	names := s.resolveMembers(ctx, sessions)
	rows := make([]ActivityRow, 0, len(sessions))
	for _, sess := range sessions {
		if opts.RangeStart != nil && sess.StartTime.Before(*opts.RangeStart) {
			continue
		}
		if opts.RangeEnd != nil && sess.StartTime.After(*opts.RangeEnd) {
			continue
		}
		row := s.buildRow(sess, names)
		if matchFilters(row, opts.Filters) {
			rows = append(rows, row)
		}
	}
	return rows
}

// RecentSessions returns a worker's latest sessions, newest first.
// Failures yield an empty slice.
func (s *Service) RecentSessions(ctx context.Context, workerID string, limit int) []session.TimeSession {
	sessions, err := s.sessions.ListByWorker(ctx, workerID, nil)
	if err != nil {
		s.logger.Warn("recent sessions: listing failed", "worker_id", workerID, "error", err)
		return []session.TimeSession{}
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	if limit > 0 && len(sessions) > limit {
		sessions = sessions[:limit]
	}
	return sessions
}

func (s *Service) countTeamMembers(ctx context.Context, workerID string, teamID *string) int {
	total := 0
	if teamID != nil {
		t, err := s.teams.Get(ctx, *teamID)
		if err != nil {
			s.logger.Warn("dashboard: loading team failed", "team_id", *teamID, "error", err)
		} else {
			total = len(t.MemberIDs)
		}
	} else {
		teams, err := s.teams.ListForMember(ctx, workerID)
		if err != nil {
			s.logger.Warn("dashboard: listing teams failed", "worker_id", workerID, "error", err)
		}
		for _, t := range teams {
			total += len(t.MemberIDs)
		}
	}

	if total < 1 {
		// At least count the worker.
		return 1
	}
	return total
}

type memberInfo struct {
	name  string
	email string
}

func (s *Service) resolveMembers(ctx context.Context, sessions []session.TimeSession) map[string]memberInfo {
	names := make(map[string]memberInfo)
	for _, sess := range sessions {
		if _, ok := names[sess.WorkerID]; ok {
			continue
		}
		info := memberInfo{name: "Member", email: "-"}
		if u, err := s.users.Get(ctx, sess.WorkerID); err != nil {
			s.logger.Debug("team activity: user lookup failed", "user_id", sess.WorkerID, "error", err)
		} else {
			info = memberInfo{name: u.Name, email: u.Email}
		}
		names[sess.WorkerID] = info
	}
	return names
}

func (s *Service) buildRow(sess session.TimeSession, names map[string]memberInfo) ActivityRow {
	member := names[sess.WorkerID]

	clockOut := "-"
	if sess.EndTime != nil {
		clockOut = sess.EndTime.Format("15:04")
	}

	status := "Completed"
	if sess.Status == session.StatusActive {
		status = "Active"
	}

	tickets := []string{}
	if sess.TicketTitle != nil {
		tickets = append(tickets, *sess.TicketTitle)
	}

	return ActivityRow{
		ID:        sess.ID,
		Date:      sess.StartTime.Format("2006-01-02"),
		StartTime: sess.StartTime,
		EndTime:   sess.EndTime,
		Duration:  sess.Duration,
		Member:    member.name,
		Email:     member.email,
		Hours:     timefmt.HoursMinutes(sess.Duration),
		ClockIn:   sess.StartTime.Format("15:04"),
		ClockOut:  clockOut,
		Status:    status,
		StatusRaw: sess.Status,
		Tickets:   tickets,
	}
}

func matchFilters(row ActivityRow, f RowFilters) bool {
	if !containsFold(row.Date, f.Date) {
		return false
	}
	if !containsFold(row.Member, f.Member) {
		return false
	}
	if !containsFold(row.Email, f.Email) {
		return false
	}
	if !containsFold(row.Hours, f.Hours) {
		return false
	}
	if !containsFold(row.ClockIn, f.ClockIn) {
		return false
	}
	if !containsFold(row.ClockOut, f.ClockOut) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(row.Status, f.Status) {
		return false
	}
	if !containsFold(strings.Join(row.Tickets, " "), f.Ticket) {
		return false
	}
	return true
}

func containsFold(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

func clampSeconds(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
