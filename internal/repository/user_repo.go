package repository

import (
	"context"
	"strings"
	"time"

	"notesapi/internal/domain"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).First(&u, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	tx := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

// GetByResetTokenHash finds the user holding this reset-token hash.
// Expiry is checked by the caller so expired and missing tokens can be
// reported identically.
func (r *UserRepository) GetByResetTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	var u domain.User
	tx := r.db.WithContext(ctx).
		Where("reset_token_hash = ?", hash).
		First(&u)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.Email = normalizeEmail(u.Email)
	// Save over Updates: reset-token fields must be persistable as NULL.
	return r.db.WithContext(ctx).Save(u).Error
}

// ClearExpiredResetTokens wipes reset-token state that expired before the
// given instant. Used by the cleanup job.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("reset_token_expires_at IS NOT NULL AND reset_token_expires_at < ?", before).
		Updates(map[string]any{
			"reset_token_hash":       nil,
			"reset_token_expires_at": nil,
		})
	return tx.RowsAffected, tx.Error
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
