package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"blogauth/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLength = 6

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// UserRepository is the credential store: it owns user rows, password
// hashing and the role/claim tables.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

type userModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	FirstName    string    `gorm:"column:first_name"`
	LastName     string    `gorm:"column:last_name"`
	Username     string    `gorm:"column:username;uniqueIndex"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	IsSuspended  bool      `gorm:"column:is_suspended"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string { return "users" }

type userRoleModel struct {
	ID     int64  `gorm:"column:id;primaryKey"`
	UserID int64  `gorm:"column:user_id;index;uniqueIndex:idx_user_role"`
	Role   string `gorm:"column:role;uniqueIndex:idx_user_role"`
}

func (userRoleModel) TableName() string { return "user_roles" }

type userClaimModel struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	UserID     int64  `gorm:"column:user_id;index"`
	ClaimType  string `gorm:"column:claim_type"`
	ClaimValue string `gorm:"column:claim_value"`
}

func (userClaimModel) TableName() string { return "user_claims" }

// Models returns everything this package migrates.
func Models() []any {
	return []any{&userModel{}, &userRoleModel{}, &userClaimModel{}, &refreshTokenModel{}}
}

func toDomainUser(m userModel) *domain.User {
	return &domain.User{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		IsSuspended:  m.IsSuspended,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// Create hashes the password and persists the user. Policy violations
// (weak password, bad username) come back as a message list, not an
// error: the caller surfaces them verbatim.
func (r *UserRepository) Create(ctx context.Context, u *domain.User, password string) ([]string, error) {
	if problems := validateNewCredential(u.Username, password); len(problems) > 0 {
		return problems, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	m := userModel{
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     strings.TrimSpace(u.Username),
		Email:        strings.ToLower(strings.TrimSpace(u.Email)),
		PasswordHash: string(hash),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if isDuplicateKey(err) {
			return []string{fmt.Sprintf("Username '%s' or email '%s' is already taken.", m.Username, m.Email)}, nil
		}
		return nil, err
	}

	*u = *toDomainUser(m)
	return nil, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var m userModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainUser(m), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count)
	return count > 0, tx.Error
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", strings.TrimSpace(username)).
		Count(&count)
	return count > 0, tx.Error
}

// VerifyPassword reports whether the password matches the stored hash.
// Deliberately boolean: callers must not learn why verification failed.
func (r *UserRepository) VerifyPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (r *UserRepository) GetRoles(ctx context.Context, userID int64) ([]string, error) {
	var rows []userRoleModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	roles := make([]string, 0, len(rows))
	for _, row := range rows {
		roles = append(roles, row.Role)
	}
	return roles, nil
}

func (r *UserRepository) GetClaims(ctx context.Context, userID int64) ([]domain.Claim, error) {
	var rows []userClaimModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	claims := make([]domain.Claim, 0, len(rows))
	for _, row := range rows {
		claims = append(claims, domain.Claim{Type: row.ClaimType, Value: row.ClaimValue})
	}
	return claims, nil
}

func (r *UserRepository) AddRole(ctx context.Context, userID int64, role string) error {
	err := r.db.WithContext(ctx).Create(&userRoleModel{UserID: userID, Role: role}).Error
	if err != nil && isDuplicateKey(err) {
		return nil
	}
	return err
}

func (r *UserRepository) AddClaim(ctx context.Context, userID int64, claim domain.Claim) error {
	return r.db.WithContext(ctx).Create(&userClaimModel{
		UserID:     userID,
		ClaimType:  claim.Type,
		ClaimValue: claim.Value,
	}).Error
}

func (r *UserRepository) List(ctx context.Context, suspendedOnly bool) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&userModel{}).Order("id")
	if suspendedOnly {
		q = q.Where("is_suspended = ?", true)
	}
	var rows []userModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		users = append(users, *toDomainUser(m))
	}
	return users, nil
}

func (r *UserRepository) SetSuspended(ctx context.Context, username string, suspended bool) (*domain.User, error) {
	user, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&userModel{}).
		Where("id = ?", user.ID).
		Update("is_suspended", suspended).Error; err != nil {
		return nil, err
	}
	user.IsSuspended = suspended
	return user, nil
}

func (r *UserRepository) ChangeUsername(ctx context.Context, username, newUsername string) error {
	tx := r.db.WithContext(ctx).Model(&userModel{}).
		Where("username = ?", strings.TrimSpace(username)).
		Update("username", strings.TrimSpace(newUsername))
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) DB() *gorm.DB {
	return r.db
}

// validateNewCredential mirrors the password/username policy of the
// identity layer: each violation is a separate human-readable message.
func validateNewCredential(username, password string) []string {
	var problems []string

	if username = strings.TrimSpace(username); username == "" || !usernameRe.MatchString(username) {
		problems = append(problems, fmt.Sprintf("Username '%s' is invalid, can only contain letters, digits, '.', '_' or '-'.", username))
	}

	if len(password) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("Passwords must be at least %d characters.", minPasswordLength))
	}
	var hasDigit, hasUpper, hasLower bool
	for _, ch := range password {
		switch {
		case unicode.IsDigit(ch):
			hasDigit = true
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		}
	}
	if !hasDigit {
		problems = append(problems, "Passwords must have at least one digit ('0'-'9').")
	}
	if !hasUpper {
		problems = append(problems, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if !hasLower {
		problems = append(problems, "Passwords must have at least one lowercase ('a'-'z').")
	}

	return problems
}

func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// sqlite (local dev and tests) reports duplicates by message only
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
