package repository

import (
	"context"
	"time"

	"github.com/Gilson1506/CCALLASPROJET/internal/model"
)

// SessionRepository handles persistence for admin login sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *model.Session) error
	FindByToken(ctx context.Context, token string) (*model.Session, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
