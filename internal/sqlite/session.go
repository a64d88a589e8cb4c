package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/repository"
)

// SessionRepository implements session persistence for SQLite.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `
	id, worker_id, team_id, start_time, end_time, duration,
	status, ticket_id, ticket_title, ticket_start_time, note, created_at
`

// Create inserts a new session. The partial unique index on
// (worker_id) WHERE status='active' makes this the conditional write
// that enforces one active session per worker: a second concurrent
// clock-in fails with repository.ErrConflict instead of racing.
func (r *SessionRepository) Create(ctx context.Context, sess *session.TimeSession) error {
	query := `
		INSERT INTO sessions (
			id, worker_id, team_id, start_time, end_time, duration,
			status, ticket_id, ticket_title, ticket_start_time, note, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.WorkerID,
		sess.TeamID,
		sess.StartTime,
		sess.EndTime,
		sess.Duration,
		sess.Status,
		sess.TicketID,
		sess.TicketTitle,
		sess.TicketStartTime,
		sess.Note,
		sess.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.TimeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	return r.scanSession(r.db.QueryRowContext(ctx, query, id))
}

// GetActiveByWorker returns the worker's single active session.
func (r *SessionRepository) GetActiveByWorker(ctx context.Context, workerID string) (*session.TimeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE worker_id = ? AND status = 'active' LIMIT 1`
	return r.scanSession(r.db.QueryRowContext(ctx, query, workerID))
}

// ListByWorker returns all sessions for a worker, optionally narrowed
// to one team.
func (r *SessionRepository) ListByWorker(ctx context.Context, workerID string, teamID *string) ([]session.TimeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE worker_id = ?`
	args := []any{workerID}
	if teamID != nil {
		query += ` AND team_id = ?`
		args = append(args, *teamID)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// ListByTeam returns all sessions recorded against a team.
func (r *SessionRepository) ListByTeam(ctx context.Context, teamID string) ([]session.TimeSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE team_id = ? ORDER BY start_time DESC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// Complete closes an active session with no open ticket attribution.
func (r *SessionRepository) Complete(ctx context.Context, id string, endTime time.Time, duration int64) error {
	query := `
		UPDATE sessions
		SET end_time = ?, duration = ?, status = ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, endTime, duration, session.StatusCompleted, id, session.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to complete session: %w", err)
	}
	return requireRow(result)
}

// StartTracking opens ticket attribution on an active session.
func (r *SessionRepository) StartTracking(ctx context.Context, id string, start session.TrackingStart) error {
	query := `
		UPDATE sessions
		SET ticket_id = ?, ticket_title = ?, ticket_start_time = ?,
		    note = COALESCE(?, note)
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		start.TicketID, start.TicketTitle, start.At, start.Note, id, session.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to start tracking: %w", err)
	}
	return requireRow(result)
}

// FlushTracking commits an attributed interval into its ticket and
// clears the session's attribution, in one transaction. When the flush
// also completes the session, the close happens in the same statement
// so a crash cannot leave a completed session with a dangling
// attribution. A ticket deleted out from under the session is
// tolerated: the session is still cleared.
func (r *SessionRepository) FlushTracking(ctx context.Context, flush session.TrackingFlush) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := applyFlush(ctx, tx, flush); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit flush: %w", err)
	}
	return nil
}

// SwitchTracking atomically flushes the current attribution (when
// flush is non-nil) and opens a new one, so no interval is lost or
// double-counted between the stop and the start.
func (r *SessionRepository) SwitchTracking(ctx context.Context, id string, flush *session.TrackingFlush, start session.TrackingStart) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if flush != nil {
		if err := incrementTicket(ctx, tx, flush.TicketID, flush.Duration, flush.StoppedAt); err != nil {
			return err
		}
	}

	query := `
		UPDATE sessions
		SET ticket_id = ?, ticket_title = ?, ticket_start_time = ?,
		    note = COALESCE(?, note)
		WHERE id = ? AND status = ?
	`
	result, err := tx.ExecContext(ctx, query,
		start.TicketID, start.TicketTitle, start.At, start.Note, id, session.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to switch tracking: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit switch: %w", err)
	}
	return nil
}

// ClearTracking nulls the attribution fields without touching ticket totals.
func (r *SessionRepository) ClearTracking(ctx context.Context, id string) error {
	query := `
		UPDATE sessions
		SET ticket_id = NULL, ticket_title = NULL, ticket_start_time = NULL
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to clear tracking: %w", err)
	}
	return requireRow(result)
}

// SetNote attaches a note to a session.
func (r *SessionRepository) SetNote(ctx context.Context, id string, note string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE sessions SET note = ? WHERE id = ?`, note, id)
	if err != nil {
		return fmt.Errorf("failed to set note: %w", err)
	}
	return requireRow(result)
}

// UpdateTimes rewrites a session's recorded interval and status.
func (r *SessionRepository) UpdateTimes(ctx context.Context, id string, startTime time.Time, endTime *time.Time, duration int64, status session.Status) error {
	query := `
		UPDATE sessions
		SET start_time = ?, end_time = ?, duration = ?, status = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, startTime, endTime, duration, status, id)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to update session times: %w", err)
	}
	return requireRow(result)
}

func applyFlush(ctx context.Context, tx *sql.Tx, flush session.TrackingFlush) error {
	var query string
	var args []any
	if flush.CompleteSession {
		query = `
			UPDATE sessions
			SET ticket_id = NULL, ticket_title = NULL, ticket_start_time = NULL,
			    end_time = ?, duration = ?, status = ?
			WHERE id = ? AND status = ?
		`
		args = []any{flush.StoppedAt, flush.SessionDuration, session.StatusCompleted, flush.SessionID, session.StatusActive}
	} else {
		query = `
			UPDATE sessions
			SET ticket_id = NULL, ticket_title = NULL, ticket_start_time = NULL
			WHERE id = ?
		`
		args = []any{flush.SessionID}
	}

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to flush session: %w", err)
	}
	if err := requireRow(result); err != nil {
		return err
	}

	return incrementTicket(ctx, tx, flush.TicketID, flush.Duration, flush.StoppedAt)
}

func incrementTicket(ctx context.Context, tx *sql.Tx, ticketID string, duration int64, at time.Time) error {
	query := `
		UPDATE tickets
		SET total_time_spent = total_time_spent + ?,
		    last_tracked_duration = ?, updated_at = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, query, duration, duration, at, ticketID); err != nil {
		return fmt.Errorf("failed to update ticket totals: %w", err)
	}
	return nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) scanSession(row *sql.Row) (*session.TimeSession, error) {
	var sess session.TimeSession
	var teamID, ticketID, ticketTitle, note sql.NullString
	var endTime, ticketStartTime sql.NullTime

	err := row.Scan(
		&sess.ID,
		&sess.WorkerID,
		&teamID,
		&sess.StartTime,
		&endTime,
		&sess.Duration,
		&sess.Status,
		&ticketID,
		&ticketTitle,
		&ticketStartTime,
		&note,
		&sess.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	applyNullables(&sess, teamID, ticketID, ticketTitle, note, endTime, ticketStartTime)
	return &sess, nil
}

func (r *SessionRepository) scanSessions(rows *sql.Rows) ([]session.TimeSession, error) {
	var sessions []session.TimeSession
	for rows.Next() {
		var sess session.TimeSession
		var teamID, ticketID, ticketTitle, note sql.NullString
		var endTime, ticketStartTime sql.NullTime

		err := rows.Scan(
			&sess.ID,
			&sess.WorkerID,
			&teamID,
			&sess.StartTime,
			&endTime,
			&sess.Duration,
			&sess.Status,
			&ticketID,
			&ticketTitle,
			&ticketStartTime,
			&note,
			&sess.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}

		applyNullables(&sess, teamID, ticketID, ticketTitle, note, endTime, ticketStartTime)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

func applyNullables(sess *session.TimeSession, teamID, ticketID, ticketTitle, note sql.NullString, endTime, ticketStartTime sql.NullTime) {
	if teamID.Valid {
		sess.TeamID = &teamID.String
	}
	if ticketID.Valid {
		sess.TicketID = &ticketID.String
	}
	if ticketTitle.Valid {
		sess.TicketTitle = &ticketTitle.String
	}
	if note.Valid {
		sess.Note = &note.String
	}
	if endTime.Valid {
		sess.EndTime = &endTime.Time
	}
	if ticketStartTime.Valid {
		sess.TicketStartTime = &ticketStartTime.Time
	}
}
