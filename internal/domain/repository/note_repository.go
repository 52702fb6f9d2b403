package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"notes_manager/internal/common"
	"notes_manager/internal/domain/model"
)

type NoteRepository interface {
	Create(ctx context.Context, note *model.Note) error
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	Delete(ctx context.Context, id, ownerID string) error
	SearchOwned(ctx context.Context, ownerID, titleSearch string, from, before *time.Time) ([]model.Note, error)
	SearchPublic(ctx context.Context, titleSearch string, from, before *time.Time) ([]model.Note, error)
}

type pgNoteRepository struct {
	db *sql.DB
}

func NewPgNoteRepository(db *sql.DB) NoteRepository {
	return &pgNoteRepository{db: db}
}

func (r *pgNoteRepository) Create(ctx context.Context, n *model.Note) error {
	query := `INSERT INTO notes (id, title, description, user_id, is_public, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, n.ID, n.Title, n.Description, n.UserID, n.IsPublic, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgNoteRepository.Create: %w", err)
	}
	return nil
}

// FindByIDAndOwner addresses a note by (id, owner) together. A note ID alone
// never resolves another user's note.
func (r *pgNoteRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*model.Note, error) {
	query := `SELECT id, title, description, user_id, is_public, created_at
	          FROM notes WHERE id = $1 AND user_id = $2`
	note := &model.Note{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&note.ID, &note.Title, &note.Description, &note.UserID, &note.IsPublic, &note.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgNoteRepository.FindByIDAndOwner: %w", err)
	}
	return note, nil
}

func (r *pgNoteRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Note, error) {
	query := `SELECT id, title, description, user_id, is_public, created_at
	          FROM notes WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pgNoteRepository.ListByOwner: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows, false)
}

func (r *pgNoteRepository) Update(ctx context.Context, n *model.Note) error {
	query := `UPDATE notes SET title = $1, description = $2, is_public = $3
	          WHERE id = $4 AND user_id = $5`
	res, err := r.db.ExecContext(ctx, query, n.Title, n.Description, n.IsPublic, n.ID, n.UserID)
	if err != nil {
		return fmt.Errorf("pgNoteRepository.Update: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgNoteRepository.Update rows affected: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgNoteRepository) Delete(ctx context.Context, id, ownerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("pgNoteRepository.Delete: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgNoteRepository.Delete rows affected: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

// SearchOwned applies the conjunction of the supplied predicates over one
// owner's notes. The `before` bound is exclusive; widening the to-date to the
// end of its calendar day happens in the service layer.
func (r *pgNoteRepository) SearchOwned(ctx context.Context, ownerID, titleSearch string, from, before *time.Time) ([]model.Note, error) {
	var query strings.Builder
	query.WriteString(`SELECT id, title, description, user_id, is_public, created_at FROM notes`)

	conditions := []string{"user_id = $1"}
	args := []interface{}{ownerID}
	argID := 2

	if titleSearch != "" {
		conditions = append(conditions, fmt.Sprintf("title ILIKE $%d", argID))
		args = append(args, "%"+titleSearch+"%")
		argID++
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argID))
		args = append(args, *from)
		argID++
	}
	if before != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argID))
		args = append(args, *before)
		argID++
	}

	query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	query.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgNoteRepository.SearchOwned: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows, false)
}

// SearchPublic spans all owners but only public notes, joining in the owner
// email for display.
func (r *pgNoteRepository) SearchPublic(ctx context.Context, titleSearch string, from, before *time.Time) ([]model.Note, error) {
	var query strings.Builder
	query.WriteString(`SELECT n.id, n.title, n.description, n.user_id, n.is_public, n.created_at, u.email
	                   FROM notes n JOIN users u ON n.user_id = u.id`)

	conditions := []string{"n.is_public = TRUE"}
	args := []interface{}{}
	argID := 1

	if titleSearch != "" {
		conditions = append(conditions, fmt.Sprintf("n.title ILIKE $%d", argID))
		args = append(args, "%"+titleSearch+"%")
		argID++
	}
	if from != nil {
		conditions = append(conditions, fmt.Sprintf("n.created_at >= $%d", argID))
		args = append(args, *from)
		argID++
	}
	if before != nil {
		conditions = append(conditions, fmt.Sprintf("n.created_at < $%d", argID))
		args = append(args, *before)
		argID++
	}

	query.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	query.WriteString(" ORDER BY n.created_at DESC")

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("pgNoteRepository.SearchPublic: %w", err)
	}
	defer rows.Close()
	return scanNotes(rows, true)
}

func scanNotes(rows *sql.Rows, withEmail bool) ([]model.Note, error) {
	notes := []model.Note{}
	for rows.Next() {
		var n model.Note
		var err error
		if withEmail {
			err = rows.Scan(&n.ID, &n.Title, &n.Description, &n.UserID, &n.IsPublic, &n.CreatedAt, &n.UserEmail)
		} else {
			err = rows.Scan(&n.ID, &n.Title, &n.Description, &n.UserID, &n.IsPublic, &n.CreatedAt)
		}
		if err != nil {
			return nil, fmt.Errorf("scanNotes: %w", err)
		}
		n.CreatedAt = n.CreatedAt.UTC()
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scanNotes rows.Err: %w", err)
	}
	return notes, nil
}
