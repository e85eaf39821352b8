package domain

import (
	"time"

	"gorm.io/gorm"
)

// Note is owned by exactly one user. DeletedAt doubles as the trash flag:
// a soft-deleted note sits in the trash until restored or purged.
type Note struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	OwnerID int64 `json:"owner_id" gorm:"index;not null"`
	Owner   User  `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`

	Title   string   `json:"title" gorm:"size:200;not null"`
	Content string   `json:"content" gorm:"not null"`
	Tags    []string `json:"tags" gorm:"serializer:json"`

	Archived bool `json:"archived" gorm:"not null;default:false"`

	// ShareSlug is set while the note is publicly shared. The public read
	// path resolves notes by slug only, without authentication.
	ShareSlug *string `json:"share_slug,omitempty" gorm:"size:36;uniqueIndex"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (Note) TableName() string { return "notes" }

func (n *Note) IsShared() bool { return n.ShareSlug != nil }

func (n *Note) IsTrashed() bool { return n.DeletedAt.Valid }

// NoteCounts aggregates a user's notes for the profile endpoint.
type NoteCounts struct {
	Active   int64 `json:"active"`
	Archived int64 `json:"archived"`
	Trashed  int64 `json:"trashed"`
}
