package report

import (
	"context"

	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/domain/team"
	"github.com/timeharbor/timeharbor/internal/domain/user"
)

// SessionRepository provides session reads for aggregation.
type SessionRepository interface {
	// ListByWorker returns all of a worker's sessions, optionally
	// narrowed to one team.
	ListByWorker(ctx context.Context, workerID string, teamID *string) ([]session.TimeSession, error)
	ListByTeam(ctx context.Context, teamID string) ([]session.TimeSession, error)
}

// TicketRepository provides the open-ticket count for the dashboard.
type TicketRepository interface {
	CountOpenByAssignee(ctx context.Context, workerID string, teamID *string) (int, error)
}

// TeamRepository provides membership counts; read-only here.
type TeamRepository interface {
	Get(ctx context.Context, id string) (*team.Team, error)
	ListForMember(ctx context.Context, userID string) ([]team.Team, error)
}

// UserRepository resolves worker display fields for report rows.
type UserRepository interface {
	Get(ctx context.Context, id string) (*user.User, error)
}
