package repository

import (
	"context"
	"time"

	"notesapi/internal/domain"

	"gorm.io/gorm"
)

// RefreshTokenRepository maintains the per-user refresh-token whitelist.
// A row's presence is what makes a refresh token valid; every method that
// removes rows is a revocation.
type RefreshTokenRepository struct {
	db *gorm.DB
}

func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, t *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Rotate atomically replaces the whitelist entry identified by oldHash with
// the new entry. Returns gorm.ErrRecordNotFound when oldHash is no longer
// whitelisted, which is how a lost rotation race (or a replayed token)
// surfaces: the winner deleted the row first.
func (r *RefreshTokenRepository) Rotate(ctx context.Context, oldHash string, newToken *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("token_hash = ?", oldHash).Delete(&domain.RefreshToken{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(newToken).Error
	})
}

// DeleteByHash removes a single whitelist entry. Reports how many rows
// matched so logout can stay best-effort.
func (r *RefreshTokenRepository) DeleteByHash(ctx context.Context, hash string) (int64, error) {
	tx := r.db.WithContext(ctx).Where("token_hash = ?", hash).Delete(&domain.RefreshToken{})
	return tx.RowsAffected, tx.Error
}

// DeleteByUser revokes every session of a user. Called after a password
// reset.
func (r *RefreshTokenRepository) DeleteByUser(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&domain.RefreshToken{}).Error
}

// DeleteExpiredByUser prunes a single user's expired entries. Triggered
// inline on login.
func (r *RefreshTokenRepository) DeleteExpiredByUser(ctx context.Context, userID int64, before time.Time) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at < ?", userID, before).
		Delete(&domain.RefreshToken{}).Error
}

// DeleteExpired prunes all expired entries. Used by the cleanup job.
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("expires_at < ?", before).
		Delete(&domain.RefreshToken{})
	return tx.RowsAffected, tx.Error
}
