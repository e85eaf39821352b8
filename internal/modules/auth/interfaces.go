package auth

import (
	"context"
	"time"

	"notesapi/internal/domain"
	"notesapi/internal/pkg/token"
)

// UserRepository is the narrow slice of the user store the session
// controller uses.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

// RefreshTokenRepository is the whitelist. Rotate must be atomic: the old
// entry's removal and the new entry's insertion happen in one update.
type RefreshTokenRepository interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	Rotate(ctx context.Context, oldHash string, newToken *domain.RefreshToken) error
	DeleteByHash(ctx context.Context, hash string) (int64, error)
	DeleteByUser(ctx context.Context, userID int64) error
	DeleteExpiredByUser(ctx context.Context, userID int64, before time.Time) error
}

// TokenService issues and verifies the dual-token pair.
type TokenService interface {
	IssueAccess(userID int64) (string, error)
	IssueRefresh(userID int64, ttl time.Duration) (string, error)
	Verify(tokenStr string, want token.Type) (*token.Claims, error)
}

// NoteCounter feeds the profile endpoint; implemented by the note
// repository.
type NoteCounter interface {
	CountByOwner(ctx context.Context, ownerID int64) (domain.NoteCounts, error)
}
