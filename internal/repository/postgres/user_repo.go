package postgres

import (
	"context"
	"errors"
	"fmt"

	"board-champions-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT id, COALESCE(email, ''), first_name, last_name, image_url, role, created_at, updated_at FROM users WHERE id = $1`
	var user domain.User
	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.ImageURL,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (r *userRepo) Upsert(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (id, email, first_name, last_name, image_url)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(EXCLUDED.email, users.email),
			first_name = COALESCE(NULLIF(EXCLUDED.first_name, ''), users.first_name),
			last_name = COALESCE(NULLIF(EXCLUDED.last_name, ''), users.last_name),
			image_url = COALESCE(EXCLUDED.image_url, users.image_url),
			updated_at = NOW()
		RETURNING id, COALESCE(email, ''), first_name, last_name, image_url, role, created_at, updated_at`

	var out domain.User
	err := r.db.QueryRow(ctx, query, user.ID, user.Email, user.FirstName, user.LastName, user.ImageURL).Scan(
		&out.ID, &out.Email, &out.FirstName, &out.LastName, &out.ImageURL,
		&out.Role, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	return &out, nil
}
