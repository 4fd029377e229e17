package users

import (
	"context"
	"errors"

	"blogauth/internal/domain"

	"gorm.io/gorm"
)

// Service contains user management logic: listing, suspension and
// username changes. Registration and login live in the auth module.
type Service struct {
	users   UserRepositoryInterface
	revoker TokenRevoker
}

func NewService(users UserRepositoryInterface, revoker TokenRevoker) *Service {
	return &Service{users: users, revoker: revoker}
}

func (s *Service) List(ctx context.Context, suspendedOnly bool) ([]domain.User, error) {
	return s.users.List(ctx, suspendedOnly)
}

func (s *Service) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	roles, err := s.users.GetRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Roles = roles
	return user, nil
}

// Suspend blocks the account and revokes its refresh token so the
// session cannot be extended past the access token's expiry.
func (s *Service) Suspend(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.SetSuspended(ctx, username, true)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if err := s.revoker.Revoke(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Service) Unsuspend(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.SetSuspended(ctx, username, false)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) ChangeUsername(ctx context.Context, username, newUsername string) error {
	taken, err := s.users.ExistsByUsername(ctx, newUsername)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	if err := s.users.ChangeUsername(ctx, username, newUsername); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
