package repository

import (
	"context"
	"time"

	"blogauth/internal/domain"

	"gorm.io/gorm"
)

// RefreshTokenRepository provides DB access for refresh tokens.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

type refreshTokenModel struct {
	ID         int64     `gorm:"column:id;primaryKey"`
	Token      string    `gorm:"column:token;uniqueIndex"`
	JwtID      string    `gorm:"column:jwt_id;index"`
	UserID     int64     `gorm:"column:user_id;index"`
	IsUsed     bool      `gorm:"column:is_used"`
	IsRevoked  bool      `gorm:"column:is_revoked"`
	AddedDate  time.Time `gorm:"column:added_date"`
	ExpiryDate time.Time `gorm:"column:expiry_date"`
}

func (refreshTokenModel) TableName() string { return "refresh_tokens" }

func toDomainRefreshToken(m refreshTokenModel) *domain.RefreshToken {
	return &domain.RefreshToken{
		ID:         m.ID,
		Token:      m.Token,
		JwtID:      m.JwtID,
		UserID:     m.UserID,
		IsUsed:     m.IsUsed,
		IsRevoked:  m.IsRevoked,
		AddedDate:  m.AddedDate,
		ExpiryDate: m.ExpiryDate,
	}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	m := refreshTokenModel{
		Token:      t.Token,
		JwtID:      t.JwtID,
		UserID:     t.UserID,
		IsUsed:     t.IsUsed,
		IsRevoked:  t.IsRevoked,
		AddedDate:  t.AddedDate,
		ExpiryDate: t.ExpiryDate,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	t.ID = m.ID
	return nil
}

func (r *RefreshTokenRepository) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var m refreshTokenModel
	tx := r.db.WithContext(ctx).Where("token = ?", token).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRefreshToken(m), nil
}

func (r *RefreshTokenRepository) GetByUserID(ctx context.Context, userID int64) (*domain.RefreshToken, error) {
	var m refreshTokenModel
	tx := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainRefreshToken(m), nil
}

// DeleteByID reports whether a row was actually removed. Concurrent
// redemptions of the same token race on this delete; only the winner
// sees deleted=true.
func (r *RefreshTokenRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	tx := r.db.WithContext(ctx).Delete(&refreshTokenModel{}, id)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// Rotate deletes the consumed record and inserts its replacement in one
// transaction. Returns false without inserting when the record was
// already gone: a concurrent redemption won the delete, and the caller
// must treat the token as nonexistent.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, consumedID int64, next *domain.RefreshToken) (bool, error) {
	rotated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&refreshTokenModel{}, consumedID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		m := refreshTokenModel{
			Token:      next.Token,
			JwtID:      next.JwtID,
			UserID:     next.UserID,
			AddedDate:  next.AddedDate,
			ExpiryDate: next.ExpiryDate,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		next.ID = m.ID
		rotated = true
		return nil
	})
	return rotated, err
}

func (r *RefreshTokenRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&refreshTokenModel{}).Error
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expiry_date < ?", time.Now().UTC()).
		Delete(&refreshTokenModel{})
	return tx.RowsAffected, tx.Error
}

func (r *RefreshTokenRepository) DB() *gorm.DB {
	return r.db
}
