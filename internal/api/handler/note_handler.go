package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"notes_manager/internal/api/middleware"
	"notes_manager/internal/app/service"
	"notes_manager/internal/common"

	"github.com/go-chi/chi/v5"
)

type NoteHandler struct {
	noteService *service.NoteService
}

func NewNoteHandler(ns *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: ns}
}

func (h *NoteHandler) RegisterRoutes(r chi.Router, authenticate func(http.Handler) http.Handler) {
	// Anonymous public search endpoints
	r.Get("/public", h.listPublicNotes)
	r.Get("/public/search-by-title", h.searchPublicByTitle)
	r.Get("/public/search-by-date", h.searchPublicByDate)

	r.Group(func(protected chi.Router) {
		protected.Use(authenticate)
		protected.Get("/", h.listNotes)
		protected.Post("/", h.createNote)
		protected.Get("/search-by-title", h.searchByTitle)
		protected.Get("/search-by-date", h.searchByDate)
		protected.Get("/{id}", h.getNote)
		protected.Put("/{id}", h.updateNote)
		protected.Delete("/{id}", h.deleteNote)
	})
}

func (h *NoteHandler) listNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	notes, err := h.noteService.List(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) getNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	note, err := h.noteService.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Note not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) createNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	note, err := h.noteService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) updateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	note, err := h.noteService.Update(r.Context(), userID, chi.URLParam(r, "id"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) deleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := h.noteService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), "Note not found")
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.MessageResponse{Message: "Note deleted successfully"})
}

func (h *NoteHandler) searchByTitle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	notes, err := h.noteService.SearchOwn(r.Context(), userID, r.URL.Query().Get("titleSearch"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) searchByDate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	fromDate, toDate, err := parseDateRange(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	notes, err := h.noteService.SearchOwnByDate(r.Context(), userID, fromDate, toDate)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) listPublicNotes(w http.ResponseWriter, r *http.Request) {
	fromDate, toDate, err := parseDateRange(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	notes, err := h.noteService.SearchPublic(r.Context(), r.URL.Query().Get("titleSearch"), fromDate, toDate)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) searchPublicByTitle(w http.ResponseWriter, r *http.Request) {
	notes, err := h.noteService.SearchPublicByTitle(r.Context(), r.URL.Query().Get("titleSearch"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) searchPublicByDate(w http.ResponseWriter, r *http.Request) {
	fromDate, toDate, err := parseDateRange(r)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	notes, err := h.noteService.SearchPublicByDate(r.Context(), fromDate, toDate)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notes)
}

func parseDateRange(r *http.Request) (*time.Time, *time.Time, error) {
	fromDate, err := parseDateParam(r.URL.Query().Get("fromDate"))
	if err != nil {
		return nil, nil, err
	}
	toDate, err := parseDateParam(r.URL.Query().Get("toDate"))
	if err != nil {
		return nil, nil, err
	}
	return fromDate, toDate, nil
}

// parseDateParam accepts plain dates and full RFC 3339 timestamps, both UTC.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		t = t.UTC()
		return &t, nil
	}
	return nil, common.Errorf("invalid date %q, expected YYYY-MM-DD", value)
}
