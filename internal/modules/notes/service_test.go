package notes

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notesapi/internal/database"
	"notesapi/internal/domain"
	"notesapi/internal/repository"
)

func setupNotesTest(t *testing.T) (*Service, *repository.NoteRepository, *domain.User) {
	db, err := database.Connect(":memory:")
	require.NoError(t, err, "Failed to connect to test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	owner := &domain.User{Name: "Owner", Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(owner).Error)

	repo := repository.NewNoteRepository(db)
	return NewService(repo), repo, owner
}

func TestService_Create_DefaultsTags(t *testing.T) {
	service, _, owner := setupNotesTest(t)
	ctx := context.Background()

	note, err := service.Create(ctx, owner.ID, CreateNoteRequest{
		Title:   "First",
		Content: "body",
	})

	require.NoError(t, err)
	assert.NotZero(t, note.ID)
	assert.NotNil(t, note.Tags)
	assert.Empty(t, note.Tags)
	assert.False(t, note.Archived)
}

func TestService_TrashAndRestore(t *testing.T) {
	service, repo, owner := setupNotesTest(t)
	ctx := context.Background()

	note, err := service.Create(ctx, owner.ID, CreateNoteRequest{Title: "n", Content: "c"})
	require.NoError(t, err)

	// A live note cannot be restored or purged.
	assert.ErrorIs(t, service.Restore(ctx, note), ErrNoteNotTrashed)
	assert.ErrorIs(t, service.DeletePermanently(ctx, note), ErrNoteNotTrashed)

	require.NoError(t, service.Trash(ctx, note))

	active, err := service.List(ctx, owner.ID, repository.NoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	trashed, err := service.List(ctx, owner.ID, repository.NoteFilter{Trashed: true})
	require.NoError(t, err)
	require.Len(t, trashed, 1)
	assert.True(t, trashed[0].IsTrashed())

	// Trashing again is a no-op.
	require.NoError(t, service.Trash(ctx, &trashed[0]))

	require.NoError(t, service.Restore(ctx, &trashed[0]))

	restored, err := repo.GetByID(ctx, note.ID, false)
	require.NoError(t, err)
	assert.False(t, restored.IsTrashed())
}

func TestService_DeletePermanently(t *testing.T) {
	service, repo, owner := setupNotesTest(t)
	ctx := context.Background()

	note, err := service.Create(ctx, owner.ID, CreateNoteRequest{Title: "n", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, service.Trash(ctx, note))

	trashed, err := repo.GetByID(ctx, note.ID, true)
	require.NoError(t, err)
	require.NoError(t, service.DeletePermanently(ctx, trashed))

	_, err = repo.GetByID(ctx, note.ID, true)
	assert.Error(t, err)
}

func TestService_ArchiveFlow(t *testing.T) {
	service, _, owner := setupNotesTest(t)
	ctx := context.Background()

	note, err := service.Create(ctx, owner.ID, CreateNoteRequest{Title: "n", Content: "c"})
	require.NoError(t, err)

	require.NoError(t, service.SetArchived(ctx, note, true))

	active, err := service.List(ctx, owner.ID, repository.NoteFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)

	archived, err := service.List(ctx, owner.ID, repository.NoteFilter{Archived: true})
	require.NoError(t, err)
	require.Len(t, archived, 1)

	// Archiving an archived note is a no-op.
	require.NoError(t, service.SetArchived(ctx, &archived[0], true))

	require.NoError(t, service.SetArchived(ctx, &archived[0], false))
	active, err = service.List(ctx, owner.ID, repository.NoteFilter{})
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestService_ShareLifecycle(t *testing.T) {
	service, repo, owner := setupNotesTest(t)
	ctx := context.Background()

	note, err := service.Create(ctx, owner.ID, CreateNoteRequest{Title: "shared", Content: "c"})
	require.NoError(t, err)

	slug, err := service.Share(ctx, note)
	require.NoError(t, err)
	assert.NotEmpty(t, slug)

	// Sharing again keeps the same slug.
	again, err := service.Share(ctx, note)
	require.NoError(t, err)
	assert.Equal(t, slug, again)

	public, err := service.GetShared(ctx, slug)
	require.NoError(t, err)
	assert.Equal(t, "shared", public.Title)

	// A trashed note disappears from its share link.
	require.NoError(t, service.Trash(ctx, note))
	_, err = service.GetShared(ctx, slug)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	require.NoError(t, repo.Restore(ctx, note.ID))

	fresh, err := repo.GetByID(ctx, note.ID, false)
	require.NoError(t, err)
	require.NoError(t, service.Unshare(ctx, fresh))

	_, err = service.GetShared(ctx, slug)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestService_ListFilters(t *testing.T) {
	service, _, owner := setupNotesTest(t)
	ctx := context.Background()

	_, err := service.Create(ctx, owner.ID, CreateNoteRequest{
		Title: "Groceries", Content: "milk and bread", Tags: []string{"personal", "todo"},
	})
	require.NoError(t, err)
	_, err = service.Create(ctx, owner.ID, CreateNoteRequest{
		Title: "Meeting notes", Content: "Q3 planning", Tags: []string{"work"},
	})
	require.NoError(t, err)

	byTag, err := service.List(ctx, owner.ID, repository.NoteFilter{Tag: "work"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Meeting notes", byTag[0].Title)

	// Tag match is exact, not substring.
	byTag, err = service.List(ctx, owner.ID, repository.NoteFilter{Tag: "wor"})
	require.NoError(t, err)
	assert.Empty(t, byTag)

	// Search is case-insensitive over title and content.
	found, err := service.List(ctx, owner.ID, repository.NoteFilter{Search: "MILK"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Groceries", found[0].Title)

	found, err = service.List(ctx, owner.ID, repository.NoteFilter{Search: "planning"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestService_ListIsScopedToOwner(t *testing.T) {
	service, repo, owner := setupNotesTest(t)
	ctx := context.Background()

	_, err := service.Create(ctx, owner.ID, CreateNoteRequest{Title: "mine", Content: "c"})
	require.NoError(t, err)

	other := domain.Note{OwnerID: owner.ID + 1, Title: "theirs", Content: "c", Tags: []string{}}
	require.NoError(t, repo.Create(ctx, &other))

	mine, err := service.List(ctx, owner.ID, repository.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "mine", mine[0].Title)
}

func TestRepository_CountByOwner(t *testing.T) {
	service, repo, owner := setupNotesTest(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c", "d"} {
		_, err := service.Create(ctx, owner.ID, CreateNoteRequest{Title: title, Content: "c"})
		require.NoError(t, err)
	}

	all, err := service.List(ctx, owner.ID, repository.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	require.NoError(t, service.SetArchived(ctx, &all[0], true))
	require.NoError(t, service.Trash(ctx, &all[1]))

	counts, err := repo.CountByOwner(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Active)
	assert.Equal(t, int64(1), counts.Archived)
	assert.Equal(t, int64(1), counts.Trashed)
}
