package repository

import (
	"context"
	"strings"

	"notesapi/internal/domain"

	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// NoteFilter narrows ListByOwner. Zero value lists active notes.
type NoteFilter struct {
	Archived bool   // archived notes instead of active ones
	Trashed  bool   // soft-deleted notes instead of live ones
	Tag      string // exact tag match
	Search   string // case-insensitive substring over title and content
}

func (r *NoteRepository) Create(ctx context.Context, n *domain.Note) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NoteRepository) GetByID(ctx context.Context, id int64, includeTrashed bool) (*domain.Note, error) {
	var n domain.Note
	q := r.db.WithContext(ctx)
	if includeTrashed {
		q = q.Unscoped()
	}
	if err := q.First(&n, id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// GetBySlug resolves a publicly shared note. Trashed notes are never
// served publicly even if a slug is still set.
func (r *NoteRepository) GetBySlug(ctx context.Context, slug string) (*domain.Note, error) {
	var n domain.Note
	if err := r.db.WithContext(ctx).Where("share_slug = ?", slug).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NoteRepository) ListByOwner(ctx context.Context, ownerID int64, f NoteFilter) ([]domain.Note, error) {
	q := r.db.WithContext(ctx).Where("owner_id = ?", ownerID)

	if f.Trashed {
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	} else {
		q = q.Where("archived = ?", f.Archived)
	}
	if f.Tag != "" {
		// Tags are serialized as a JSON array; an exact element match is a
		// quoted substring in both SQLite and Postgres text storage.
		q = q.Where("tags LIKE ?", `%"`+f.Tag+`"%`)
	}
	if f.Search != "" {
		needle := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", needle, needle)
	}

	var notes []domain.Note
	if err := q.Order("created_at DESC").Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

func (r *NoteRepository) Update(ctx context.Context, n *domain.Note) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// SoftDelete moves a note to the trash.
func (r *NoteRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.Note{}, id).Error
}

// Restore pulls a note back out of the trash.
func (r *NoteRepository) Restore(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Unscoped().Model(&domain.Note{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// HardDelete removes a note permanently, trashed or not.
func (r *NoteRepository) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&domain.Note{}, id).Error
}

func (r *NoteRepository) CountByOwner(ctx context.Context, ownerID int64) (domain.NoteCounts, error) {
	var counts domain.NoteCounts

	err := r.db.WithContext(ctx).Model(&domain.Note{}).
		Where("owner_id = ? AND archived = ?", ownerID, false).
		Count(&counts.Active).Error
	if err != nil {
		return counts, err
	}
	err = r.db.WithContext(ctx).Model(&domain.Note{}).
		Where("owner_id = ? AND archived = ?", ownerID, true).
		Count(&counts.Archived).Error
	if err != nil {
		return counts, err
	}
	err = r.db.WithContext(ctx).Unscoped().Model(&domain.Note{}).
		Where("owner_id = ? AND deleted_at IS NOT NULL", ownerID).
		Count(&counts.Trashed).Error
	return counts, err
}
