package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"board-champions-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) GetByUserID(ctx context.Context, userID string) (*domain.Company, error) {
	query := `SELECT id, user_id, name, credits, created_at FROM companies WHERE user_id = $1`
	var c domain.Company
	err := r.db.QueryRow(ctx, query, userID).Scan(&c.ID, &c.UserID, &c.Name, &c.Credits, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch company: %w", err)
	}
	return &c, nil
}

type purchaseRepo struct {
	db *pgxpool.Pool
}

func NewPurchaseRepository(db *pgxpool.Pool) domain.PurchaseRepository {
	return &purchaseRepo{db: db}
}

func (r *purchaseRepo) HasPurchased(ctx context.Context, companyID int64, candidateID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM profile_views
			WHERE company_id = $1 AND candidate_id = $2 AND view_type = 'purchased'
		)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, companyID, candidateID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check purchase: %w", err)
	}
	return exists, nil
}

func (r *purchaseRepo) PurchasedAmong(ctx context.Context, companyID int64, candidateIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(candidateIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT DISTINCT candidate_id FROM profile_views
		WHERE company_id = $1 AND view_type = 'purchased' AND candidate_id = ANY($2::uuid[])`
	rows, err := r.db.Query(ctx, query, companyID, pq.Array(candidateIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to check purchases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// Unlock locks the company row first so concurrent unlocks by the same
// company serialize; the existence check and the debit then see one state.
func (r *purchaseRepo) Unlock(ctx context.Context, companyID int64, candidateID string, cost int) (*domain.UnlockResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var credits int
	err = tx.QueryRow(ctx, `SELECT credits FROM companies WHERE id = $1 FOR UPDATE`, companyID).Scan(&credits)
	if err != nil {
		return nil, fmt.Errorf("failed to lock company %d: %w", companyID, err)
	}

	var unlockedAt time.Time
	err = tx.QueryRow(ctx, `
		SELECT created_at FROM profile_views
		WHERE company_id = $1 AND candidate_id = $2 AND view_type = 'purchased'
		ORDER BY created_at LIMIT 1`, companyID, candidateID).Scan(&unlockedAt)
	switch {
	case err == nil:
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return &domain.UnlockResult{
			CandidateID:      candidateID,
			AlreadyUnlocked:  true,
			CreditsRemaining: credits,
			UnlockedAt:       unlockedAt,
		}, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to check existing unlock: %w", err)
	}

	if credits < cost {
		return nil, domain.ErrInsufficientCredits
	}

	var remaining int
	err = tx.QueryRow(ctx,
		`UPDATE companies SET credits = credits - $2, updated_at = NOW() WHERE id = $1 RETURNING credits`,
		companyID, cost).Scan(&remaining)
	if err != nil {
		return nil, fmt.Errorf("failed to debit credits: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO credit_transactions (company_id, amount, type, candidate_id, balance_after)
		VALUES ($1, $2, 'unlock', $3, $4)`, companyID, -cost, candidateID, remaining)
	if err != nil {
		return nil, fmt.Errorf("failed to record credit transaction: %w", err)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO profile_views (company_id, candidate_id, view_type)
		VALUES ($1, $2, 'purchased')
		RETURNING created_at`, companyID, candidateID).Scan(&unlockedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record profile view: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit unlock: %w", err)
	}

	return &domain.UnlockResult{
		CandidateID:      candidateID,
		CreditsSpent:     cost,
		CreditsRemaining: remaining,
		UnlockedAt:       unlockedAt,
	}, nil
}
