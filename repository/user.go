package repository

import (
	"context"

	"github.com/fittrack/backend/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateUsername(ctx context.Context, id, username string) (*domain.User, error)
}
