package postgres

import (
	"context"
	"fmt"

	"board-champions-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type adminRepo struct {
	db *pgxpool.Pool
}

func NewAdminRepository(db *pgxpool.Pool) domain.AdminRepository {
	return &adminRepo{db: db}
}

// ListCandidates returns a page of profiles (owner joined, no children),
// newest first. pageSize <= 0 returns every matching row.
func (r *adminRepo) ListCandidates(ctx context.Context, active *bool, page, pageSize int) ([]domain.CandidateProfile, int64, error) {
	where := ""
	args := []any{}
	argIndex := 1
	if active != nil {
		where = fmt.Sprintf(" WHERE cp.is_active = $%d", argIndex)
		args = append(args, *active)
		argIndex++
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_profiles cp`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	query := `SELECT ` + profileColumns + profileFrom + where + ` ORDER BY cp.created_at DESC, cp.id`
	if pageSize > 0 {
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, pageSize, (page-1)*pageSize)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	profiles := []domain.CandidateProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan candidate: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, total, rows.Err()
}

func (r *adminRepo) SetActive(ctx context.Context, candidateID string, active bool) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE candidate_profiles SET is_active = $2, updated_at = NOW() WHERE id = $1`,
		candidateID, active)
	if err != nil {
		return false, fmt.Errorf("failed to update candidate status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *adminRepo) SetAnonymized(ctx context.Context, candidateID string, anonymized bool) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE candidate_profiles SET is_anonymized = $2, updated_at = NOW() WHERE id = $1`,
		candidateID, anonymized)
	if err != nil {
		return false, fmt.Errorf("failed to update candidate anonymity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
