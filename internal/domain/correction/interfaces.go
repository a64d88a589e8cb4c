package correction

import (
	"context"
	"time"

	"github.com/timeharbor/timeharbor/internal/domain/session"
)

// SessionRepository provides the session persistence needed for
// timesheet corrections.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*session.TimeSession, error)
	UpdateTimes(ctx context.Context, id string, startTime time.Time, endTime *time.Time, duration int64, status session.Status) error
}
