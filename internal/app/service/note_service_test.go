package service

import (
	"context"
	"testing"
	"time"

	"notes_manager/internal/common"
	"notes_manager/internal/domain/model"
	"notes_manager/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noteFixture struct {
	svc      *NoteService
	userRepo *repository.MemoryUserRepository
	noteRepo *repository.MemoryNoteRepository
	alice    string
	bob      string
}

func newNoteFixture(t *testing.T) *noteFixture {
	t.Helper()
	userRepo := repository.NewMemoryUserRepository()
	noteRepo := repository.NewMemoryNoteRepository(userRepo)

	f := &noteFixture{
		svc:      NewNoteService(noteRepo, userRepo),
		userRepo: userRepo,
		noteRepo: noteRepo,
		alice:    uuid.NewString(),
		bob:      uuid.NewString(),
	}

	ctx := context.Background()
	require.NoError(t, userRepo.Create(ctx, &model.User{
		ID: f.alice, Email: "alice@example.com", FirstName: "Alice", LastName: "Smith",
	}))
	require.NoError(t, userRepo.Create(ctx, &model.User{
		ID: f.bob, Email: "bob@example.com", FirstName: "Bob", LastName: "Brown",
	}))
	return f
}

// seedNote inserts a note directly so tests control the creation timestamp.
func (f *noteFixture) seedNote(t *testing.T, owner, title string, isPublic bool, createdAt time.Time) string {
	t.Helper()
	note := &model.Note{
		ID:          uuid.NewString(),
		Title:       title,
		Description: "some text",
		UserID:      owner,
		IsPublic:    isPublic,
		CreatedAt:   createdAt,
	}
	require.NoError(t, f.noteRepo.Create(context.Background(), note))
	return note.ID
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed.UTC()
}

func TestCreate_DefaultsToPublicAndSetsOwner(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	note, err := f.svc.Create(ctx, f.alice, CreateNoteRequest{Title: "Shopping", Description: "milk, eggs"})
	require.NoError(t, err)

	assert.Equal(t, f.alice, note.UserID)
	assert.True(t, note.IsPublic)
	assert.Equal(t, "alice@example.com", note.UserEmail)
	assert.False(t, note.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, note.CreatedAt.Location())
}

func TestCreate_ExplicitPrivate(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	private := false
	note, err := f.svc.Create(ctx, f.alice, CreateNoteRequest{Title: "Diary", Description: "secret", IsPublic: &private})
	require.NoError(t, err)
	assert.False(t, note.IsPublic)
}

func TestCreate_RequiresTitleAndDescription(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.alice, CreateNoteRequest{Title: "", Description: "text"})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = f.svc.Create(ctx, f.alice, CreateNoteRequest{Title: "Title", Description: ""})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestCreate_UnknownOwnerRejectedAsUnauthenticated(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "ghost-user", CreateNoteRequest{Title: "Title", Description: "text"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestList_DeletedUserRejectedMidSession(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "orphan-to-be", true, day(t, "2024-01-10"))
	f.userRepo.Delete(f.alice)

	_, err := f.svc.List(ctx, f.alice)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestList_OrderedNewestFirst(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "oldest", true, day(t, "2024-01-01"))
	f.seedNote(t, f.alice, "newest", true, day(t, "2024-03-01"))
	f.seedNote(t, f.alice, "middle", true, day(t, "2024-02-01"))

	notes, err := f.svc.List(ctx, f.alice)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "newest", notes[0].Title)
	assert.Equal(t, "middle", notes[1].Title)
	assert.Equal(t, "oldest", notes[2].Title)
}

func TestGet_OtherUsersNoteIsNotFound(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	noteID := f.seedNote(t, f.alice, "Alice's note", true, day(t, "2024-01-10"))

	_, err := f.svc.Get(ctx, f.bob, noteID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	note, err := f.svc.Get(ctx, f.alice, noteID)
	require.NoError(t, err)
	assert.Equal(t, "Alice's note", note.Title)
}

func TestUpdate_OwnershipEnforcedAndImmutableFieldsPreserved(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	created := day(t, "2024-01-10")
	noteID := f.seedNote(t, f.alice, "Before", true, created)

	_, err := f.svc.Update(ctx, f.bob, noteID, UpdateNoteRequest{Title: "Hijack", Description: "nope"})
	assert.ErrorIs(t, err, common.ErrNotFound)

	note, err := f.svc.Update(ctx, f.alice, noteID, UpdateNoteRequest{Title: "After", Description: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "After", note.Title)
	assert.Equal(t, created, note.CreatedAt)
	assert.Equal(t, f.alice, note.UserID)
}

func TestUpdate_SameContentRoundTrip(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	created := day(t, "2024-01-10")
	noteID := f.seedNote(t, f.alice, "Same", true, created)

	note, err := f.svc.Update(ctx, f.alice, noteID, UpdateNoteRequest{Title: "Same", Description: "some text"})
	require.NoError(t, err)
	assert.Equal(t, created, note.CreatedAt)
	assert.Equal(t, f.alice, note.UserID)
}

func TestDelete_OwnershipEnforcedAndPermanent(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	noteID := f.seedNote(t, f.alice, "Doomed", true, day(t, "2024-01-10"))

	assert.ErrorIs(t, f.svc.Delete(ctx, f.bob, noteID), common.ErrNotFound)

	require.NoError(t, f.svc.Delete(ctx, f.alice, noteID))
	_, err := f.svc.Get(ctx, f.alice, noteID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.alice, noteID), common.ErrNotFound)
}

func TestSearchOwn_BlankTermRejected(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.SearchOwn(ctx, f.alice, "   ")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSearchOwn_CaseInsensitiveAndScopedToOwner(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "Shopping list", true, day(t, "2024-01-10"))
	f.seedNote(t, f.alice, "Workout plan", true, day(t, "2024-01-11"))
	f.seedNote(t, f.bob, "Shopping for Bob", true, day(t, "2024-01-12"))

	notes, err := f.svc.SearchOwn(ctx, f.alice, "SHOP")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Shopping list", notes[0].Title)
}

func TestSearchOwnByDate_RequiresAtLeastOneBound(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.SearchOwnByDate(ctx, f.alice, nil, nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSearchOwnByDate_InvalidRange(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	from := day(t, "2024-02-01")
	to := day(t, "2024-01-01")
	_, err := f.svc.SearchOwnByDate(ctx, f.alice, &from, &to)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSearchOwnByDate_ToDateCoversWholeCalendarDay(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "day before", true, day(t, "2024-01-10").Add(-time.Nanosecond))
	f.seedNote(t, f.alice, "start of day", true, day(t, "2024-01-10"))
	f.seedNote(t, f.alice, "end of day", true, day(t, "2024-01-11").Add(-time.Second))
	f.seedNote(t, f.alice, "next day", true, day(t, "2024-01-11"))

	from := day(t, "2024-01-10")
	to := day(t, "2024-01-10")
	notes, err := f.svc.SearchOwnByDate(ctx, f.alice, &from, &to)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "end of day", notes[0].Title)
	assert.Equal(t, "start of day", notes[1].Title)
}

func TestSearchOwnByDate_OpenBounds(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "january", true, day(t, "2024-01-15"))
	f.seedNote(t, f.alice, "march", true, day(t, "2024-03-15"))

	from := day(t, "2024-02-01")
	notes, err := f.svc.SearchOwnByDate(ctx, f.alice, &from, nil)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "march", notes[0].Title)

	to := day(t, "2024-02-01")
	notes, err = f.svc.SearchOwnByDate(ctx, f.alice, nil, &to)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "january", notes[0].Title)
}

func TestSearchPublic_OnlyPublicNotesAcrossOwners(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "Alice public", true, day(t, "2024-01-10"))
	f.seedNote(t, f.alice, "Alice private", false, day(t, "2024-01-11"))
	f.seedNote(t, f.bob, "Bob public", true, day(t, "2024-01-12"))

	notes, err := f.svc.SearchPublic(ctx, "", nil, nil)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "Bob public", notes[0].Title)
	assert.Equal(t, "bob@example.com", notes[0].UserEmail)
	assert.Equal(t, "Alice public", notes[1].Title)
	assert.Equal(t, "alice@example.com", notes[1].UserEmail)
}

func TestSearchPublic_PrivateNoteHiddenEvenFromItsOwnerQuery(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "Hidden gem", false, day(t, "2024-01-10"))

	notes, err := f.svc.SearchPublic(ctx, "hidden", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestSearchPublic_ConjunctionOfPredicates(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	f.seedNote(t, f.alice, "Shopping january", true, day(t, "2024-01-10"))
	f.seedNote(t, f.alice, "Shopping march", true, day(t, "2024-03-10"))
	f.seedNote(t, f.bob, "Cooking january", true, day(t, "2024-01-10"))

	from := day(t, "2024-01-01")
	to := day(t, "2024-01-31")
	notes, err := f.svc.SearchPublic(ctx, "shopping", &from, &to)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Shopping january", notes[0].Title)
}

func TestSearchPublicByTitle_BlankTermRejected(t *testing.T) {
	f := newNoteFixture(t)
	_, err := f.svc.SearchPublicByTitle(context.Background(), " ")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSearchPublicByDate_Validation(t *testing.T) {
	f := newNoteFixture(t)
	ctx := context.Background()

	_, err := f.svc.SearchPublicByDate(ctx, nil, nil)
	assert.ErrorIs(t, err, common.ErrValidation)

	from := day(t, "2024-02-01")
	to := day(t, "2024-01-01")
	_, err = f.svc.SearchPublicByDate(ctx, &from, &to)
	assert.ErrorIs(t, err, common.ErrValidation)
}
