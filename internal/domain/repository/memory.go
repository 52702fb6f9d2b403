package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"notes_manager/internal/common"
	"notes_manager/internal/domain/model"
)

// In-memory repository implementations backing the test suite. They mirror the
// Postgres semantics: case-insensitive email uniqueness, (id, owner) note
// addressing and newest-first ordering.

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return common.ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := u
	return &found, nil
}

func (r *MemoryUserRepository) UpdateProfile(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[user.ID]
	if !ok {
		return common.ErrNotFound
	}
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Description = user.Description
	existing.UpdatedAt = time.Now().UTC()
	r.users[user.ID] = existing
	return nil
}

func (r *MemoryUserRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

type MemoryNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]model.Note
	users *MemoryUserRepository
}

// NewMemoryNoteRepository takes the user repository so public searches can
// resolve owner emails, matching the SQL join.
func NewMemoryNoteRepository(users *MemoryUserRepository) *MemoryNoteRepository {
	return &MemoryNoteRepository{notes: make(map[string]model.Note), users: users}
}

func (r *MemoryNoteRepository) Create(_ context.Context, note *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[note.ID] = *note
	return nil
}

func (r *MemoryNoteRepository) FindByIDAndOwner(_ context.Context, id, ownerID string) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, common.ErrNotFound
	}
	found := n
	return &found, nil
}

func (r *MemoryNoteRepository) ListByOwner(_ context.Context, ownerID string) ([]model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []model.Note{}
	for _, n := range r.notes {
		if n.UserID == ownerID {
			result = append(result, n)
		}
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *MemoryNoteRepository) Update(_ context.Context, note *model.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.notes[note.ID]
	if !ok || existing.UserID != note.UserID {
		return common.ErrNotFound
	}
	existing.Title = note.Title
	existing.Description = note.Description
	existing.IsPublic = note.IsPublic
	r.notes[note.ID] = existing
	return nil
}

func (r *MemoryNoteRepository) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return common.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *MemoryNoteRepository) SearchOwned(_ context.Context, ownerID, titleSearch string, from, before *time.Time) ([]model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []model.Note{}
	for _, n := range r.notes {
		if n.UserID != ownerID {
			continue
		}
		if !matchesFilter(n, titleSearch, from, before) {
			continue
		}
		result = append(result, n)
	}
	sortNewestFirst(result)
	return result, nil
}

func (r *MemoryNoteRepository) SearchPublic(ctx context.Context, titleSearch string, from, before *time.Time) ([]model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []model.Note{}
	for _, n := range r.notes {
		if !n.IsPublic {
			continue
		}
		if !matchesFilter(n, titleSearch, from, before) {
			continue
		}
		if owner, err := r.users.FindByID(ctx, n.UserID); err == nil {
			n.UserEmail = owner.Email
		}
		result = append(result, n)
	}
	sortNewestFirst(result)
	return result, nil
}

func matchesFilter(n model.Note, titleSearch string, from, before *time.Time) bool {
	if titleSearch != "" && !strings.Contains(strings.ToLower(n.Title), strings.ToLower(titleSearch)) {
		return false
	}
	if from != nil && n.CreatedAt.Before(*from) {
		return false
	}
	if before != nil && !n.CreatedAt.Before(*before) {
		return false
	}
	return true
}

func sortNewestFirst(notes []model.Note) {
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}
