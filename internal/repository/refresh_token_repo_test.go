package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"notesapi/internal/database"
	"notesapi/internal/domain"
)

func setupRepoTest(t *testing.T) (*gorm.DB, *domain.User) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	user := &domain.User{Name: "U", Email: "u@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return db, user
}

func whitelistEntry(userID int64, hash string, ttl time.Duration) *domain.RefreshToken {
	now := time.Now()
	return &domain.RefreshToken{
		UserID:    userID,
		TokenHash: hash,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestRefreshTokenRepository_Rotate(t *testing.T) {
	db, user := setupRepoTest(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, whitelistEntry(user.ID, "old-hash", time.Hour)))

	err := repo.Rotate(ctx, "old-hash", whitelistEntry(user.ID, "new-hash", time.Hour))
	require.NoError(t, err)

	var count int64
	db.Model(&domain.RefreshToken{}).Where("token_hash = ?", "old-hash").Count(&count)
	assert.Zero(t, count)
	db.Model(&domain.RefreshToken{}).Where("token_hash = ?", "new-hash").Count(&count)
	assert.Equal(t, int64(1), count)
}

// A second rotation of the same hash must lose: the row is gone and no
// replacement may be inserted.
func TestRefreshTokenRepository_Rotate_Replay(t *testing.T) {
	db, user := setupRepoTest(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, whitelistEntry(user.ID, "old-hash", time.Hour)))
	require.NoError(t, repo.Rotate(ctx, "old-hash", whitelistEntry(user.ID, "first-winner", time.Hour)))

	err := repo.Rotate(ctx, "old-hash", whitelistEntry(user.ID, "second-loser", time.Hour))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	db.Model(&domain.RefreshToken{}).Where("token_hash = ?", "second-loser").Count(&count)
	assert.Zero(t, count, "losing rotation must not insert its replacement")
}

func TestRefreshTokenRepository_DeleteByHash(t *testing.T) {
	db, user := setupRepoTest(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, whitelistEntry(user.ID, "h1", time.Hour)))

	n, err := repo.DeleteByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.DeleteByHash(ctx, "h1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	db, user := setupRepoTest(t)
	repo := NewRefreshTokenRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, whitelistEntry(user.ID, "live", time.Hour)))
	require.NoError(t, repo.Create(ctx, whitelistEntry(user.ID, "stale", -time.Hour)))

	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int64
	db.Model(&domain.RefreshToken{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserRepository_EmailNormalization(t *testing.T) {
	db, _ := setupRepoTest(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Name: "A", Email: "  Mixed.Case@Example.COM ", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, "mixed.case@example.com", u.Email)

	found, err := repo.GetByEmail(ctx, "MIXED.CASE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	exists, err := repo.ExistsByEmail(ctx, "mixed.case@EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_ClearExpiredResetTokens(t *testing.T) {
	db, user := setupRepoTest(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	hash := "abc"
	expired := time.Now().Add(-time.Minute)
	user.ResetTokenHash = &hash
	user.ResetTokenExpiresAt = &expired
	require.NoError(t, repo.Update(ctx, user))

	n, err := repo.ClearExpiredResetTokens(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	fresh, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, fresh.ResetTokenHash)
	assert.Nil(t, fresh.ResetTokenExpiresAt)
}
