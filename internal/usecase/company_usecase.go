package usecase

import (
	"context"
	"errors"

	"board-champions-backend/internal/domain"
	"board-champions-backend/pkg/apperror"
	"board-champions-backend/pkg/audit"
	"board-champions-backend/pkg/metrics"

	"github.com/google/uuid"
)

type companyUsecase struct {
	companyRepo   domain.CompanyRepository
	purchaseRepo  domain.PurchaseRepository
	candidateRepo domain.CandidateRepository
	unlockCost    int
	audit         *audit.Logger
	metrics       *metrics.Manager
}

func NewCompanyUsecase(
	companyRepo domain.CompanyRepository,
	purchaseRepo domain.PurchaseRepository,
	candidateRepo domain.CandidateRepository,
	unlockCost int,
	auditLog *audit.Logger,
	m *metrics.Manager,
) domain.CompanyUsecase {
	if unlockCost < 1 {
		unlockCost = 1
	}
	return &companyUsecase{
		companyRepo:   companyRepo,
		purchaseRepo:  purchaseRepo,
		candidateRepo: candidateRepo,
		unlockCost:    unlockCost,
		audit:         auditLog,
		metrics:       m,
	}
}

// Unlock spends credits to purchase access to a candidate. Unlocking the same
// candidate twice is free and returns the original purchase.
func (u *companyUsecase) Unlock(ctx context.Context, userID, candidateID string) (*domain.UnlockResult, error) {
	if domain.ContextString(ctx, domain.KeyUserRole) != domain.RoleCompany {
		return nil, apperror.Forbidden("Only company accounts can unlock profiles")
	}
	if _, err := uuid.Parse(candidateID); err != nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	company, err := u.companyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if company == nil {
		return nil, apperror.NotFound("Company not found")
	}

	candidate, err := u.candidateRepo.GetByID(ctx, candidateID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if candidate == nil || !candidate.IsActive {
		return nil, apperror.NotFound("Candidate not found")
	}

	result, err := u.purchaseRepo.Unlock(ctx, company.ID, candidateID, u.unlockCost)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			u.metrics.RecordUnlock("insufficient_credits")
			u.audit.UnlockRejected(ctx, userID, candidateID, "insufficient_credits")
			return nil, apperror.PaymentRequired("Insufficient credits to unlock this profile")
		}
		u.metrics.RecordUnlock("error")
		return nil, apperror.Internal(err)
	}

	if result.AlreadyUnlocked {
		u.metrics.RecordUnlock("already_unlocked")
		return result, nil
	}

	u.metrics.RecordUnlock("charged")
	u.audit.ProfileUnlocked(ctx, userID, company.ID, candidateID, result.CreditsSpent, result.CreditsRemaining)
	return result, nil
}

func (u *companyUsecase) GetCredits(ctx context.Context, userID string) (*domain.CreditBalance, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	company, err := u.companyRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if company == nil {
		return nil, apperror.NotFound("Company not found")
	}
	return &domain.CreditBalance{CompanyID: company.ID, Credits: company.Credits}, nil
}
