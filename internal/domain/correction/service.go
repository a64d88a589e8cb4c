// Package correction implements manual timesheet edits: a team lead
// rewriting a session's recorded start, end and status.
package correction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/repository"
)

// Service applies corrections to a session's recorded interval. It
// never touches ticket totals: intervals already flushed into a ticket
// stay as they were, which is a documented limitation of corrections.
type Service struct {
	sessions SessionRepository
	logger   *slog.Logger
}

// NewService creates a new correction service.
func NewService(sessions SessionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sessions: sessions, logger: logger}
}

// UpdateTimes rewrites the session's recorded interval. An end time
// earlier than the start is discarded rather than rejected, because the
// editor UI saves partial edits mid-correction: the session reverts to
// active with zero duration and a later edit supplies the real end.
// Status resolves from the (possibly discarded) end time unless
// statusOverride is set; an override is ignored when the end time it
// accompanied was discarded.
func (s *Service) UpdateTimes(ctx context.Context, sessionID string, startTime time.Time, endTime *time.Time, statusOverride *session.Status) (*session.TimeSession, error) {
	if sessionID == "" || startTime.IsZero() {
		return nil, ErrInvalidInput
	}
	if statusOverride != nil && *statusOverride != session.StatusActive && *statusOverride != session.StatusCompleted {
		return nil, ErrInvalidInput
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	clamped := false
	if endTime != nil && endTime.Before(startTime) {
		s.logger.Warn("discarding end time before start", "session_id", sessionID)
		endTime = nil
		clamped = true
	}

	var duration int64
	if endTime != nil {
		duration = int64(endTime.Sub(startTime) / time.Second)
		if duration < 0 {
			duration = 0
		}
	}

	status := session.StatusActive
	if endTime != nil {
		status = session.StatusCompleted
	}
	if statusOverride != nil && !clamped {
		status = *statusOverride
	}

	if err := s.sessions.UpdateTimes(ctx, sessionID, startTime, endTime, duration, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("updating session times: %w", err)
	}

	sess.StartTime = startTime
	sess.EndTime = endTime
	sess.Duration = duration
	sess.Status = status

	s.logger.Info("session times corrected", "session_id", sessionID, "status", status)
	return sess, nil
}
