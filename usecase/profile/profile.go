package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/fittrack/backend/domain"
	"github.com/fittrack/backend/repository"
)

type UseCase struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func New(users repository.UserRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		logger: logger,
	}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "user store unavailable", err)
	}
	return user, nil
}

func (uc *UseCase) UpdateUsername(ctx context.Context, userID, username string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "username is required")
	}

	user, err := uc.users.UpdateUsername(ctx, userID, username)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUsernameTaken):
			return nil, err
		default:
			uc.logger.Error("username update failed", zap.String("user_id", userID), zap.Error(err))
			return nil, domain.WrapError(domain.ErrCodeUnavailable, "user store unavailable", err)
		}
	}
	return user, nil
}
