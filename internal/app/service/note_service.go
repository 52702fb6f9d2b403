package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notes_manager/internal/common"
	"notes_manager/internal/domain/model"
	"notes_manager/internal/domain/repository"

	"github.com/google/uuid"
)

type NoteService struct {
	noteRepo repository.NoteRepository
	userRepo repository.UserRepository
}

func NewNoteService(noteRepo repository.NoteRepository, userRepo repository.UserRepository) *NoteService {
	return &NoteService{noteRepo: noteRepo, userRepo: userRepo}
}

type CreateNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
}

type UpdateNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"isPublic,omitempty"`
}

// ensureOwner resolves the caller's user record. A token whose subject no
// longer exists is treated as unauthenticated, not as an empty owner.
func (s *NoteService) ensureOwner(ctx context.Context, ownerID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}
	return user, nil
}

func (s *NoteService) List(ctx context.Context, ownerID string) ([]model.Note, error) {
	if _, err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.noteRepo.ListByOwner(ctx, ownerID)
}

func (s *NoteService) Get(ctx context.Context, ownerID, noteID string) (*model.Note, error) {
	if _, err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.noteRepo.FindByIDAndOwner(ctx, noteID, ownerID)
}

func (s *NoteService) Create(ctx context.Context, ownerID string, req CreateNoteRequest) (*model.Note, error) {
	owner, err := s.ensureOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if req.Title == "" || req.Description == "" {
		return nil, common.Errorf("title and description are required: %w", common.ErrValidation)
	}
	if len(req.Title) > model.MaxTitleLength {
		return nil, common.Errorf("title exceeds %d characters: %w", model.MaxTitleLength, common.ErrValidation)
	}

	isPublic := true // New notes default to public
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	note := &model.Note{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		UserID:      ownerID,
		IsPublic:    isPublic,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.noteRepo.Create(ctx, note); err != nil {
		return nil, err
	}

	note.UserEmail = owner.Email
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, ownerID, noteID string, req UpdateNoteRequest) (*model.Note, error) {
	if _, err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if req.Title == "" || req.Description == "" {
		return nil, common.Errorf("title and description are required: %w", common.ErrValidation)
	}
	if len(req.Title) > model.MaxTitleLength {
		return nil, common.Errorf("title exceeds %d characters: %w", model.MaxTitleLength, common.ErrValidation)
	}

	note, err := s.noteRepo.FindByIDAndOwner(ctx, noteID, ownerID)
	if err != nil {
		return nil, err
	}

	// Owner and creation timestamp are immutable.
	note.Title = req.Title
	note.Description = req.Description
	if req.IsPublic != nil {
		note.IsPublic = *req.IsPublic
	}

	if err := s.noteRepo.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, ownerID, noteID string) error {
	if _, err := s.ensureOwner(ctx, ownerID); err != nil {
		return err
	}
	return s.noteRepo.Delete(ctx, noteID, ownerID)
}

func (s *NoteService) SearchOwn(ctx context.Context, ownerID, titleSearch string) ([]model.Note, error) {
	if _, err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(titleSearch) == "" {
		return nil, common.Errorf("Search term cannot be empty: %w", common.ErrValidation)
	}
	return s.noteRepo.SearchOwned(ctx, ownerID, titleSearch, nil, nil)
}

func (s *NoteService) SearchOwnByDate(ctx context.Context, ownerID string, fromDate, toDate *time.Time) ([]model.Note, error) {
	if _, err := s.ensureOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	if err := validateDateRange(fromDate, toDate); err != nil {
		return nil, err
	}
	return s.noteRepo.SearchOwned(ctx, ownerID, "", fromDate, widenToDate(toDate))
}

// SearchPublic is the combined anonymous listing: every supplied predicate
// narrows the result, none are required.
func (s *NoteService) SearchPublic(ctx context.Context, titleSearch string, fromDate, toDate *time.Time) ([]model.Note, error) {
	if strings.TrimSpace(titleSearch) == "" {
		titleSearch = ""
	}
	return s.noteRepo.SearchPublic(ctx, titleSearch, fromDate, widenToDate(toDate))
}

func (s *NoteService) SearchPublicByTitle(ctx context.Context, titleSearch string) ([]model.Note, error) {
	if strings.TrimSpace(titleSearch) == "" {
		return nil, common.Errorf("Search term cannot be empty: %w", common.ErrValidation)
	}
	return s.noteRepo.SearchPublic(ctx, titleSearch, nil, nil)
}

func (s *NoteService) SearchPublicByDate(ctx context.Context, fromDate, toDate *time.Time) ([]model.Note, error) {
	if err := validateDateRange(fromDate, toDate); err != nil {
		return nil, err
	}
	return s.noteRepo.SearchPublic(ctx, "", fromDate, widenToDate(toDate))
}

func validateDateRange(fromDate, toDate *time.Time) error {
	if fromDate == nil && toDate == nil {
		return common.Errorf("At least one date must be provided: %w", common.ErrValidation)
	}
	if fromDate != nil && toDate != nil && fromDate.After(*toDate) {
		return common.Errorf("Start date must be before end date: %w", common.ErrValidation)
	}
	return nil
}

// widenToDate makes the to-date bound inclusive of its entire calendar day by
// shifting it to an exclusive bound one day later.
func widenToDate(toDate *time.Time) *time.Time {
	if toDate == nil {
		return nil
	}
	before := toDate.Add(24 * time.Hour)
	return &before
}
