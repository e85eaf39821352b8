package domain

import "time"

// RefreshToken is one entry in a user's refresh-token whitelist.
//
// Security notes:
// - We never store the signed token in DB, only its SHA-256 hash (TokenHash).
// - Presence of a row is the single source of truth for validity: logout and
//   rotation remove rows, so a well-signed, unexpired token that is absent
//   here is rejected.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	UserID int64 `json:"user_id" gorm:"index;not null"`
	User   User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`

	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index;not null"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
