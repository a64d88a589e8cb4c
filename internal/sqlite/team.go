package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/timeharbor/timeharbor/internal/domain/team"
	"github.com/timeharbor/timeharbor/internal/repository"
)

// TeamRepository implements read access to teams and membership. The
// engine never mutates membership; Create and AddMember exist for
// seeding and tests.
type TeamRepository struct {
	db *DB
}

// NewTeamRepository creates a new TeamRepository
func NewTeamRepository(db *DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// Create inserts a team.
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	query := `
		INSERT INTO teams (id, name, owner_id, join_code, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, t.ID, t.Name, nullable(t.OwnerID), nullable(t.JoinCode), t.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create team: %w", err)
	}

	for _, memberID := range t.MemberIDs {
		if err := r.AddMember(ctx, t.ID, memberID); err != nil {
			return err
		}
	}
	return nil
}

// AddMember records team membership.
func (r *TeamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	query := `INSERT INTO team_members (team_id, user_id) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, teamID, userID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// Get retrieves a team with its member ids.
func (r *TeamRepository) Get(ctx context.Context, id string) (*team.Team, error) {
	query := `SELECT id, name, owner_id, join_code, created_at FROM teams WHERE id = ?`

	var t team.Team
	var ownerID, joinCode sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &ownerID, &joinCode, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	t.OwnerID = ownerID.String
	t.JoinCode = joinCode.String

	members, err := r.memberIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	t.MemberIDs = members

	return &t, nil
}

// ListForMember returns the teams a user belongs to, members included.
func (r *TeamRepository) ListForMember(ctx context.Context, userID string) ([]team.Team, error) {
	query := `
		SELECT t.id
		FROM teams t
		JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = ?
		ORDER BY t.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating teams: %w", err)
	}

	teams := make([]team.Team, 0, len(ids))
	for _, id := range ids {
		t, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	return teams, nil
}

func (r *TeamRepository) memberIDs(ctx context.Context, teamID string) ([]string, error) {
	query := `SELECT user_id FROM team_members WHERE team_id = ? ORDER BY joined_at`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}
	return members, nil
}
