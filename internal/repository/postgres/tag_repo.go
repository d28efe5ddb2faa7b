package postgres

import (
	"context"
	"fmt"

	"board-champions-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type tagRepo struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) domain.TagRepository {
	return &tagRepo{db: db}
}

// List returns all tags, or only those of category when it is non-empty.
func (r *tagRepo) List(ctx context.Context, category domain.TagCategory) ([]domain.Tag, error) {
	query := `SELECT id, name, category FROM tags`
	args := []any{}
	if category != "" {
		query += ` WHERE category = $1`
		args = append(args, string(category))
	}
	query += ` ORDER BY category, name`

	return r.query(ctx, query, args...)
}

func (r *tagRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	return r.query(ctx, `SELECT id, name, category FROM tags WHERE id = ANY($1::bigint[]) ORDER BY id`, pq.Array(ids))
}

func (r *tagRepo) query(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
