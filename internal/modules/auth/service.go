package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"notesapi/internal/domain"
	"notesapi/internal/pkg/mailer"
	"notesapi/internal/pkg/password"
	"notesapi/internal/pkg/token"

	"gorm.io/gorm"
)

// Service orchestrates the session lifecycle: registration, login, refresh
// rotation, logout and password reset. Tokens are minted by the token
// service; the refresh whitelist lives in the repository; the service only
// composes them.
type Service struct {
	users         UserRepository
	refreshTokens RefreshTokenRepository
	tokens        TokenService
	hasher        password.Hasher
	mailer        mailer.Mailer

	refreshTTL         time.Duration
	refreshTTLRemember time.Duration
	resetTTL           time.Duration
}

func NewService(
	users UserRepository,
	refreshTokens RefreshTokenRepository,
	tokens TokenService,
	hasher password.Hasher,
	m mailer.Mailer,
	refreshTTL time.Duration,
	refreshTTLRemember time.Duration,
	resetTTL time.Duration,
) *Service {
	return &Service{
		users:              users,
		refreshTokens:      refreshTokens,
		tokens:             tokens,
		hasher:             hasher,
		mailer:             m,
		refreshTTL:         refreshTTL,
		refreshTTLRemember: refreshTTLRemember,
		resetTTL:           resetTTL,
	}
}

// AuthResult carries a fresh session: the user, the access token for the
// response body and the refresh token for the cookie. RefreshTTL tells the
// handler which cookie max-age to set.
type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user, s.refreshTTL)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.refreshTokens.DeleteExpiredByUser(ctx, user.ID, now); err != nil {
		return nil, err
	}

	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	ttl := s.refreshTTL
	if req.RememberMe {
		ttl = s.refreshTTLRemember
	}
	return s.startSession(ctx, user, ttl)
}

// Refresh rotates the presented refresh token: the old whitelist entry is
// removed and the new one inserted in a single update, so of two racing
// calls with the same token exactly one wins. Every failure mode maps to
// ErrInvalidRefreshToken; absence from the whitelist is a hard failure
// because it means the token was already rotated or revoked.
func (s *Service) Refresh(ctx context.Context, refreshRaw string) (*AuthResult, error) {
	claims, err := s.tokens.Verify(refreshRaw, token.TypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	accessToken, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	newRefresh, err := s.tokens.IssueRefresh(user.ID, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.refreshTokens.Rotate(ctx, token.Hash(refreshRaw), &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: token.Hash(newRefresh),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.refreshTTL),
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		RefreshTTL:   s.refreshTTL,
	}, nil
}

// Logout is best-effort and idempotent: an invalid or already-revoked
// token is not an error, the caller clears the cookie regardless.
func (s *Service) Logout(ctx context.Context, refreshRaw string) error {
	if _, err := s.tokens.Verify(refreshRaw, token.TypeRefresh); err != nil {
		return nil
	}
	_, err := s.refreshTokens.DeleteByHash(ctx, token.Hash(refreshRaw))
	return err
}

// ForgotPassword never reveals whether the email is registered: unknown
// addresses return nil just like known ones. When mail delivery fails the
// stored reset token is cleared so the user can retry cleanly.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("forgot-password: email not found (masked)")
			return nil
		}
		return err
	}

	raw, hash, err := generateResetToken()
	if err != nil {
		return err
	}

	expires := time.Now().Add(s.resetTTL)
	user.ResetTokenHash = &hash
	user.ResetTokenExpiresAt = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, raw); err != nil {
		user.ClearResetToken()
		if clearErr := s.users.Update(ctx, user); clearErr != nil {
			log.Printf("forgot-password: clearing reset token failed user_id=%d error=%v", user.ID, clearErr)
		}
		return err
	}

	return nil
}

// ResetPassword consumes a reset token: on success the password hash is
// replaced, the reset fields are cleared and every refresh token of the
// user is revoked, logging the user out everywhere.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	hash := hashResetToken(req.Token)

	user, err := s.users.GetByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if !user.HasActiveResetToken(time.Now()) {
		return ErrInvalidResetToken
	}

	newHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = newHash
	user.ClearResetToken()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	return s.refreshTokens.DeleteByUser(ctx, user.ID)
}

// GetCurrentUser loads the authenticated user for the profile endpoint.
func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *Service) startSession(ctx context.Context, user *domain.User, refreshTTL time.Duration) (*AuthResult, error) {
	accessToken, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefresh(user.ID, refreshTTL)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.refreshTokens.Create(ctx, &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: token.Hash(refreshToken),
		IssuedAt:  now,
		ExpiresAt: now.Add(refreshTTL),
	})
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		RefreshTTL:   refreshTTL,
	}, nil
}

func generateResetToken() (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashResetToken(raw), nil
}

func hashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
