package session

import (
	"context"
	"time"
)

// Repository provides persistence for time sessions.
type Repository interface {
	// Create inserts a new session. The store enforces the one-active-
	// session-per-worker invariant as a conditional write and returns
	// repository.ErrConflict when the worker already has an active session.
	Create(ctx context.Context, sess *TimeSession) error
	Get(ctx context.Context, id string) (*TimeSession, error)
	// GetActiveByWorker returns repository.ErrNotFound when the worker
	// has no active session.
	GetActiveByWorker(ctx context.Context, workerID string) (*TimeSession, error)
	// Complete closes a session that has no open ticket attribution.
	Complete(ctx context.Context, id string, endTime time.Time, duration int64) error
	StartTracking(ctx context.Context, id string, start TrackingStart) error
	// FlushTracking applies a flush atomically across the session and
	// ticket rows.
	FlushTracking(ctx context.Context, flush TrackingFlush) error
	// SwitchTracking flushes the current attribution (when flush is
	// non-nil) and opens a new one in a single transaction.
	SwitchTracking(ctx context.Context, id string, flush *TrackingFlush, start TrackingStart) error
	// ClearTracking nulls stray attribution fields without touching
	// ticket totals.
	ClearTracking(ctx context.Context, id string) error
	SetNote(ctx context.Context, id string, note string) error
}
