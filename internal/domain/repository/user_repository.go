package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"notes_manager/internal/common"
	"notes_manager/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, email, email_lower, hashed_password, first_name, last_name, description)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, strings.ToLower(user.Email), user.HashedPassword,
		user.FirstName, user.LastName, user.Description,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint violation
			return common.ErrDuplicateEmail
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

// FindByEmail matches case-insensitively against the normalized email column.
func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, email, hashed_password, first_name, last_name, description, created_at, updated_at
	          FROM users WHERE email_lower = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.FirstName, &user.LastName,
		&user.Description, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, hashed_password, first_name, last_name, description, created_at, updated_at
	          FROM users WHERE id = $1`
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.HashedPassword, &user.FirstName, &user.LastName,
		&user.Description, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

// UpdateProfile mutates only the profile fields. Email and password never
// change through this path.
func (r *pgUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET first_name = $1, last_name = $2, description = $3, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $4`
	res, err := r.db.ExecContext(ctx, query, user.FirstName, user.LastName, user.Description, user.ID)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfile: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProfile rows affected: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}
