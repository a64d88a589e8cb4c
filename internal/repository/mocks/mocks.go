// Package mocks provides testify mocks for the repository interfaces
// consumed by the domain services.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/timeharbor/timeharbor/internal/domain/session"
	"github.com/timeharbor/timeharbor/internal/domain/team"
	"github.com/timeharbor/timeharbor/internal/domain/user"
)

// SessionRepository is a mock for session.Repository. It also satisfies
// correction.SessionRepository and report.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, sess *session.TimeSession) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, id string) (*session.TimeSession, error) {
	args := m.Called(ctx, id)
	if sess, ok := args.Get(0).(*session.TimeSession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) GetActiveByWorker(ctx context.Context, workerID string) (*session.TimeSession, error) {
	args := m.Called(ctx, workerID)
	if sess, ok := args.Get(0).(*session.TimeSession); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Complete(ctx context.Context, id string, endTime time.Time, duration int64) error {
	args := m.Called(ctx, id, endTime, duration)
	return args.Error(0)
}

func (m *SessionRepository) StartTracking(ctx context.Context, id string, start session.TrackingStart) error {
	args := m.Called(ctx, id, start)
	return args.Error(0)
}

func (m *SessionRepository) FlushTracking(ctx context.Context, flush session.TrackingFlush) error {
	args := m.Called(ctx, flush)
	return args.Error(0)
}

func (m *SessionRepository) SwitchTracking(ctx context.Context, id string, flush *session.TrackingFlush, start session.TrackingStart) error {
	args := m.Called(ctx, id, flush, start)
	return args.Error(0)
}

func (m *SessionRepository) ClearTracking(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SessionRepository) SetNote(ctx context.Context, id string, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *SessionRepository) UpdateTimes(ctx context.Context, id string, startTime time.Time, endTime *time.Time, duration int64, status session.Status) error {
	args := m.Called(ctx, id, startTime, endTime, duration, status)
	return args.Error(0)
}

func (m *SessionRepository) ListByWorker(ctx context.Context, workerID string, teamID *string) ([]session.TimeSession, error) {
	args := m.Called(ctx, workerID, teamID)
	if list, ok := args.Get(0).([]session.TimeSession); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) ListByTeam(ctx context.Context, teamID string) ([]session.TimeSession, error) {
	args := m.Called(ctx, teamID)
	if list, ok := args.Get(0).([]session.TimeSession); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TicketRepository is a mock for report.TicketRepository.
type TicketRepository struct {
	mock.Mock
}

func (m *TicketRepository) CountOpenByAssignee(ctx context.Context, workerID string, teamID *string) (int, error) {
	args := m.Called(ctx, workerID, teamID)
	return args.Int(0), args.Error(1)
}

// TeamRepository is a mock for report.TeamRepository.
type TeamRepository struct {
	mock.Mock
}

func (m *TeamRepository) Get(ctx context.Context, id string) (*team.Team, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*team.Team); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TeamRepository) ListForMember(ctx context.Context, userID string) ([]team.Team, error) {
	args := m.Called(ctx, userID)
	if list, ok := args.Get(0).([]team.Team); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// UserRepository is a mock for report.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Get(ctx context.Context, id string) (*user.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*user.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
