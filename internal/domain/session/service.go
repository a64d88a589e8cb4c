package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/timeharbor/timeharbor/internal/repository"
)

// Service handles the clock-in/clock-out lifecycle and the ticket
// sub-timer nested inside an active session.
type Service struct {
	sessions Repository
	clock    Clock
	logger   *slog.Logger
}

// NewService creates a new session service. A nil clock defaults to the
// system clock.
func NewService(sessions Repository, clock Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		sessions: sessions,
		clock:    clock,
		logger:   logger,
	}
}

// ClockInRequest describes a clock-in. TicketID and TicketTitle are
// both set or both empty; when set, ticket attribution starts
// atomically with the session.
type ClockInRequest struct {
	WorkerID    string
	TeamID      *string
	TicketID    *string
	TicketTitle *string
}

// ClockIn opens a new session for the worker. Returns ErrSessionActive
// when the worker already holds an active session.
func (s *Service) ClockIn(ctx context.Context, req ClockInRequest) (*TimeSession, error) {
	if req.WorkerID == "" {
		return nil, ErrInvalidInput
	}
	if (req.TicketID == nil) != (req.TicketTitle == nil) {
		return nil, ErrInvalidInput
	}

	now := s.clock.Now()
	sess := &TimeSession{
		ID:        uuid.NewString(),
		WorkerID:  req.WorkerID,
		TeamID:    req.TeamID,
		StartTime: now,
		Duration:  0,
		Status:    StatusActive,
		CreatedAt: now,
	}
	if req.TicketID != nil {
		sess.TicketID = req.TicketID
		sess.TicketTitle = req.TicketTitle
		sess.TicketStartTime = &now
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSessionActive
		}
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("clocked in", "session_id", sess.ID, "worker_id", req.WorkerID)
	return sess, nil
}

// ClockOut completes an active session. An open ticket attribution is
// flushed into the ticket in the same transaction, so no session ends
// with a dangling sub-timer.
func (s *Service) ClockOut(ctx context.Context, sessionID string) (*TimeSession, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusActive {
		return nil, ErrSessionNotActive
	}

	now := s.clock.Now()
	duration := flooredSeconds(now.Sub(sess.StartTime))

	if sess.Tracking() {
		flush := TrackingFlush{
			SessionID:       sessionID,
			TicketID:        *sess.TicketID,
			Duration:        flooredSeconds(now.Sub(*sess.TicketStartTime)),
			StoppedAt:       now,
			CompleteSession: true,
			SessionDuration: duration,
		}
		if err := s.sessions.FlushTracking(ctx, flush); err != nil {
			return nil, fmt.Errorf("flushing tracking on clock-out: %w", err)
		}
	} else if err := s.sessions.Complete(ctx, sessionID, now, duration); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("completing session: %w", err)
	}

	sess.EndTime = &now
	sess.Duration = duration
	sess.Status = StatusCompleted
	sess.TicketID = nil
	sess.TicketTitle = nil
	sess.TicketStartTime = nil

	s.logger.Info("clocked out", "session_id", sessionID, "duration", duration)
	return sess, nil
}

// GetActiveSession returns the worker's single active session, or nil
// when there is none. Elapsed time is derived by callers from the start
// time; this read never computes it.
func (s *Service) GetActiveSession(ctx context.Context, workerID string) (*TimeSession, error) {
	if workerID == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.sessions.GetActiveByWorker(ctx, workerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading active session: %w", err)
	}
	return sess, nil
}

// StartTracking attributes session time to a ticket from now on. Ticket
// totals are untouched until the attribution stops. Callers switching
// between tickets should use SwitchTracking instead.
func (s *Service) StartTracking(ctx context.Context, sessionID, ticketID, ticketTitle string, note *string) (*TimeSession, error) {
	if sessionID == "" || ticketID == "" || ticketTitle == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusActive {
		return nil, ErrSessionNotActive
	}

	now := s.clock.Now()
	start := TrackingStart{
		TicketID:    ticketID,
		TicketTitle: ticketTitle,
		Note:        note,
		At:          now,
	}
	if err := s.sessions.StartTracking(ctx, sessionID, start); err != nil {
		return nil, fmt.Errorf("starting tracking: %w", err)
	}

	sess.TicketID = &start.TicketID
	sess.TicketTitle = &start.TicketTitle
	sess.TicketStartTime = &now
	if note != nil {
		sess.Note = note
	}
	return sess, nil
}

// StopTracking flushes the current attribution into its ticket and
// clears it from the session. With no attribution open it is an
// idempotent no-op returning nil.
func (s *Service) StopTracking(ctx context.Context, sessionID string) (*TrackedInterval, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !sess.Tracking() {
		// Clear stray fields left by a partial update.
		if sess.TicketID != nil || sess.TicketTitle != nil || sess.TicketStartTime != nil {
			if err := s.sessions.ClearTracking(ctx, sessionID); err != nil {
				return nil, fmt.Errorf("clearing tracking: %w", err)
			}
		}
		return nil, nil
	}

	now := s.clock.Now()
	flush := TrackingFlush{
		SessionID: sessionID,
		TicketID:  *sess.TicketID,
		Duration:  flooredSeconds(now.Sub(*sess.TicketStartTime)),
		StoppedAt: now,
	}
	if err := s.sessions.FlushTracking(ctx, flush); err != nil {
		return nil, fmt.Errorf("flushing tracking: %w", err)
	}

	s.logger.Info("tracking stopped", "session_id", sessionID, "ticket_id", flush.TicketID, "duration", flush.Duration)
	return &TrackedInterval{TicketID: flush.TicketID, Duration: flush.Duration}, nil
}

// SwitchTracking moves attribution to another ticket in one atomic
// step: the open interval (if any) is flushed and the new one starts in
// the same transaction, so no session time is lost or double-counted.
func (s *Service) SwitchTracking(ctx context.Context, sessionID, ticketID, ticketTitle string, note *string) (*TrackedInterval, error) {
	if sessionID == "" || ticketID == "" || ticketTitle == "" {
		return nil, ErrInvalidInput
	}

	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != StatusActive {
		return nil, ErrSessionNotActive
	}

	now := s.clock.Now()
	var flush *TrackingFlush
	if sess.Tracking() {
		flush = &TrackingFlush{
			SessionID: sessionID,
			TicketID:  *sess.TicketID,
			Duration:  flooredSeconds(now.Sub(*sess.TicketStartTime)),
			StoppedAt: now,
		}
	}
	start := TrackingStart{
		TicketID:    ticketID,
		TicketTitle: ticketTitle,
		Note:        note,
		At:          now,
	}

	if err := s.sessions.SwitchTracking(ctx, sessionID, flush, start); err != nil {
		return nil, fmt.Errorf("switching tracking: %w", err)
	}

	if flush == nil {
		return nil, nil
	}
	return &TrackedInterval{TicketID: flush.TicketID, Duration: flush.Duration}, nil
}

// UpdateNote attaches a free-text note to the session.
func (s *Service) UpdateNote(ctx context.Context, sessionID, note string) error {
	if sessionID == "" {
		return ErrInvalidInput
	}
	if err := s.sessions.SetNote(ctx, sessionID, note); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("updating note: %w", err)
	}
	return nil
}

func (s *Service) load(ctx context.Context, sessionID string) (*TimeSession, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return sess, nil
}

func flooredSeconds(d time.Duration) int64 {
	secs := int64(d / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
