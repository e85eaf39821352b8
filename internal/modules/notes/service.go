package notes

import (
	"context"
	"errors"

	"notesapi/internal/domain"
	"notesapi/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NoteRepository is the persistence surface the notes service needs.
type NoteRepository interface {
	Create(ctx context.Context, n *domain.Note) error
	GetBySlug(ctx context.Context, slug string) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID int64, f repository.NoteFilter) ([]domain.Note, error)
	Update(ctx context.Context, n *domain.Note) error
	SoftDelete(ctx context.Context, id int64) error
	Restore(ctx context.Context, id int64) error
	HardDelete(ctx context.Context, id int64) error
}

// Service owns note lifecycle rules. Ownership is already settled by the
// time a note reaches this layer: the ownership guard loads and checks
// the note, handlers pass it down.
type Service struct {
	repo NoteRepository
}

func NewService(repo NoteRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, ownerID int64, f repository.NoteFilter) ([]domain.Note, error) {
	return s.repo.ListByOwner(ctx, ownerID, f)
}

func (s *Service) Create(ctx context.Context, ownerID int64, req CreateNoteRequest) (*domain.Note, error) {
	note := &domain.Note{
		OwnerID: ownerID,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *Service) Update(ctx context.Context, note *domain.Note, req UpdateNoteRequest) (*domain.Note, error) {
	note.Title = req.Title
	note.Content = req.Content
	note.Tags = req.Tags
	if note.Tags == nil {
		note.Tags = []string{}
	}
	if err := s.repo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

// Trash soft-deletes a note. Trashing an already-trashed note is a no-op.
func (s *Service) Trash(ctx context.Context, note *domain.Note) error {
	if note.IsTrashed() {
		return nil
	}
	return s.repo.SoftDelete(ctx, note.ID)
}

func (s *Service) Restore(ctx context.Context, note *domain.Note) error {
	if !note.IsTrashed() {
		return ErrNoteNotTrashed
	}
	return s.repo.Restore(ctx, note.ID)
}

// DeletePermanently purges a note. Only trashed notes can be purged so a
// single misdirected request cannot destroy data.
func (s *Service) DeletePermanently(ctx context.Context, note *domain.Note) error {
	if !note.IsTrashed() {
		return ErrNoteNotTrashed
	}
	return s.repo.HardDelete(ctx, note.ID)
}

func (s *Service) SetArchived(ctx context.Context, note *domain.Note, archived bool) error {
	if note.Archived == archived {
		return nil
	}
	note.Archived = archived
	return s.repo.Update(ctx, note)
}

// Share makes the note publicly readable under a fresh slug. Sharing an
// already-shared note keeps the existing slug.
func (s *Service) Share(ctx context.Context, note *domain.Note) (string, error) {
	if note.ShareSlug != nil {
		return *note.ShareSlug, nil
	}
	slug := uuid.NewString()
	note.ShareSlug = &slug
	if err := s.repo.Update(ctx, note); err != nil {
		return "", err
	}
	return slug, nil
}

func (s *Service) Unshare(ctx context.Context, note *domain.Note) error {
	if note.ShareSlug == nil {
		return nil
	}
	note.ShareSlug = nil
	return s.repo.Update(ctx, note)
}

// GetShared resolves a public share link. Trashed notes are not served
// even if their slug is still set.
func (s *Service) GetShared(ctx context.Context, slug string) (*domain.Note, error) {
	note, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}
