package users

import (
	"context"

	"blogauth/internal/domain"
)

// UserRepositoryInterface covers only the methods user management uses.
type UserRepositoryInterface interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context, suspendedOnly bool) ([]domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	SetSuspended(ctx context.Context, username string, suspended bool) (*domain.User, error)
	ChangeUsername(ctx context.Context, username, newUsername string) error
	GetRoles(ctx context.Context, userID int64) ([]string, error)
}

// TokenRevoker drops a user's refresh token; implemented by the auth
// service. A suspended user must not be able to refresh a session.
type TokenRevoker interface {
	Revoke(ctx context.Context, userID int64) error
}
