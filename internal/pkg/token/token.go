package token

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Type discriminates access tokens from refresh tokens inside a single
// signing scheme. One verify routine serves both kinds; the type check
// prevents a leaked access token from being replayed as a refresh token
// and vice versa.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenWrongType = errors.New("token has wrong type")
	ErrBadSignature   = errors.New("token signature invalid")
)

type Claims struct {
	UserID    int64 `json:"user_id"`
	TokenType Type  `json:"token_type"`
	jwtlib.RegisteredClaims
}

type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Service signs and verifies both token kinds with one HS256 secret.
// Access tokens are stateless; refresh tokens are additionally tracked in
// the whitelist by the session layer, keyed by Hash of the signed string.
type Service struct {
	secret    []byte
	accessTTL time.Duration
}

func New(secret string, accessTTL time.Duration) *Service {
	return &Service{
		secret:    []byte(secret),
		accessTTL: accessTTL,
	}
}

func (s *Service) IssueAccess(userID int64) (string, error) {
	return s.issue(userID, TypeAccess, s.accessTTL)
}

func (s *Service) IssueRefresh(userID int64, ttl time.Duration) (string, error) {
	return s.issue(userID, TypeRefresh, ttl)
}

// IssuePair mints an access/refresh pair. It does not persist anything;
// the caller is responsible for whitelisting the refresh token.
func (s *Service) IssuePair(userID int64, refreshTTL time.Duration) (Pair, error) {
	access, err := s.IssueAccess(userID)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := s.IssueRefresh(userID, refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) issue(userID int64, typ Type, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: typ,
		RegisteredClaims: jwtlib.RegisteredClaims{
			// jti keeps two tokens minted within the same second distinct;
			// without it rotation could replace a hash with itself.
			ID:        uuid.NewString(),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, nil
}

// Verify checks signature, expiry and the type tag, in that order of
// severity. The returned error is always one of the exported sentinels.
func (s *Service) Verify(tokenStr string, want Type) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwtlib.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwtlib.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != want {
		return nil, ErrTokenWrongType
	}

	return claims, nil
}

// Hash returns the SHA-256 hex digest of a signed token. The whitelist
// stores this digest instead of the token itself.
func Hash(tokenStr string) string {
	sum := sha256.Sum256([]byte(tokenStr))
	return hex.EncodeToString(sum[:])
}
