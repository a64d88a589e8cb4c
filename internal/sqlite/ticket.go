package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/timeharbor/timeharbor/internal/domain/ticket"
	"github.com/timeharbor/timeharbor/internal/repository"
)

// TicketRepository implements ticket persistence for SQLite. The
// engine only writes the time totals (through the session repository's
// flush); everything else is read or fixture setup.
type TicketRepository struct {
	db *DB
}

// NewTicketRepository creates a new TicketRepository
func NewTicketRepository(db *DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create inserts a ticket.
func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	query := `
		INSERT INTO tickets (
			id, team_id, assignee_id, title, status,
			total_time_spent, last_tracked_duration, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		nullable(t.TeamID),
		nullable(t.AssigneeID),
		t.Title,
		t.Status,
		t.TotalTimeSpent,
		t.LastTrackedDuration,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

// Get retrieves a ticket by ID
func (r *TicketRepository) Get(ctx context.Context, id string) (*ticket.Ticket, error) {
	query := `
		SELECT id, team_id, assignee_id, title, status,
		       total_time_spent, last_tracked_duration, created_at, updated_at
		FROM tickets
		WHERE id = ?
	`

	var t ticket.Ticket
	var teamID, assigneeID sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&teamID,
		&assigneeID,
		&t.Title,
		&t.Status,
		&t.TotalTimeSpent,
		&t.LastTrackedDuration,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	t.TeamID = teamID.String
	t.AssigneeID = assigneeID.String
	return &t, nil
}

// CountOpenByAssignee counts a worker's tickets with status Open or
// In Progress, optionally narrowed to one team.
func (r *TicketRepository) CountOpenByAssignee(ctx context.Context, workerID string, teamID *string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM tickets
		WHERE assignee_id = ? AND status IN (?, ?)
	`
	args := []any{workerID, ticket.StatusOpen, ticket.StatusInProgress}
	if teamID != nil {
		query += ` AND team_id = ?`
		args = append(args, *teamID)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count open tickets: %w", err)
	}
	return count, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
