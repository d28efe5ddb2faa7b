package domain

import "context"

// AdminCandidate is one row of the moderation listing.
type AdminCandidate struct {
	ID                   string  `json:"id"`
	UserID               string  `json:"userId"`
	Email                string  `json:"email"`
	FullName             string  `json:"fullName"`
	Title                *string `json:"title"`
	Location             *string `json:"location"`
	IsActive             bool    `json:"isActive"`
	IsAnonymized         bool    `json:"isAnonymized"`
	ProfileCompleted     bool    `json:"profileCompleted"`
	CompletionPercentage int     `json:"completionPercentage"`
	CreatedAt            string  `json:"createdAt"`
	UpdatedAt            string  `json:"updatedAt"`
}

type SetCandidateStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type SetCandidateAnonymityRequest struct {
	IsAnonymized *bool `json:"isAnonymized" binding:"required"`
}

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

// AdminRepository defines admin-specific data access
type AdminRepository interface {
	// ListCandidates filters on is_active when active is non-nil.
	ListCandidates(ctx context.Context, active *bool, page, pageSize int) ([]CandidateProfile, int64, error)
	SetActive(ctx context.Context, candidateID string, active bool) (bool, error)
	SetAnonymized(ctx context.Context, candidateID string, anonymized bool) (bool, error)
}

// AdminUsecase defines admin business logic
type AdminUsecase interface {
	ListCandidates(ctx context.Context, active *bool, page, pageSize int) (*PaginatedResult[AdminCandidate], error)
	SetCandidateStatus(ctx context.Context, candidateID string, active bool) (*AdminCandidate, error)
	SetCandidateAnonymity(ctx context.Context, candidateID string, anonymized bool) (*AdminCandidate, error)
	ExportCandidates(ctx context.Context, active *bool) ([]byte, string, error)
}
