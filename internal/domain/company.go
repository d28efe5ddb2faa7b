package domain

import (
	"context"
	"errors"
	"time"
)

// ErrInsufficientCredits is returned by PurchaseRepository.Unlock when the
// company cannot cover the unlock cost.
var ErrInsufficientCredits = errors.New("insufficient credits")

type Company struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Credits   int       `json:"credits"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	ViewTypePurchased = "purchased"
	ViewTypePreview   = "preview"
)

// ProfileView records a company's access to a candidate.
type ProfileView struct {
	ID          int64     `json:"id"`
	CompanyID   int64     `json:"companyId"`
	CandidateID string    `json:"candidateId"`
	ViewType    string    `json:"viewType"`
	CreatedAt   time.Time `json:"createdAt"`
}

type UnlockResult struct {
	CandidateID      string    `json:"candidateId"`
	AlreadyUnlocked  bool      `json:"alreadyUnlocked"`
	CreditsSpent     int       `json:"creditsSpent"`
	CreditsRemaining int       `json:"creditsRemaining"`
	UnlockedAt       time.Time `json:"unlockedAt"`
}

type CreditBalance struct {
	CompanyID int64 `json:"companyId"`
	Credits   int   `json:"credits"`
}

type CompanyRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Company, error)
}

type PurchaseRepository interface {
	HasPurchased(ctx context.Context, companyID int64, candidateID string) (bool, error)
	// PurchasedAmong returns the subset of candidateIDs the company has purchased.
	PurchasedAmong(ctx context.Context, companyID int64, candidateIDs []string) (map[string]bool, error)
	// Unlock charges cost credits and records a purchased view atomically.
	// An existing purchase is returned with AlreadyUnlocked set and no charge.
	Unlock(ctx context.Context, companyID int64, candidateID string, cost int) (*UnlockResult, error)
}

type CompanyUsecase interface {
	Unlock(ctx context.Context, userID, candidateID string) (*UnlockResult, error)
	GetCredits(ctx context.Context, userID string) (*CreditBalance, error)
}
