package auth

import (
	"context"

	"blogauth/internal/domain"
)

// UserRepositoryInterface covers only the methods the auth service uses. The
// credential store owns password hashing and verification; the service
// never sees a raw hash comparison.
type UserRepositoryInterface interface {
	Create(ctx context.Context, u *domain.User, password string) ([]string, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	VerifyPassword(user *domain.User, password string) bool
	GetRoles(ctx context.Context, userID int64) ([]string, error)
	GetClaims(ctx context.Context, userID int64) ([]domain.Claim, error)
	AddRole(ctx context.Context, userID int64, role string) error
}

// RefreshTokenRepositoryInterface is storage for refresh tokens. Rotate
// consumes one record and persists its replacement in a single
// transaction; it reports false when the old record was already gone,
// which is how concurrent redemptions of the same token lose the race.
type RefreshTokenRepositoryInterface interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.RefreshToken, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
	Rotate(ctx context.Context, consumedID int64, next *domain.RefreshToken) (bool, error)
}
