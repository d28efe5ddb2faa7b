package domain

import (
	"context"
	"time"
)

// CandidateOwner is the owning user's row joined onto a profile.
type CandidateOwner struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	ImageURL  *string `json:"imageUrl"`
}

type CandidateProfile struct {
	ID     string          `json:"id"`
	UserID string          `json:"userId"`
	Owner  *CandidateOwner `json:"owner,omitempty"` // nil when the user join found nothing

	Title            *string `json:"title"`
	Summary          *string `json:"summary"`
	Experience       *string `json:"experience"`
	Location         *string `json:"location"`
	RemotePreference *string `json:"remotePreference"`
	Availability     *string `json:"availability"`

	// Salary bounds are stored as numeric and carried as their text form.
	SalaryMin *string `json:"salaryMin"`
	SalaryMax *string `json:"salaryMax"`
	Currency  string  `json:"currency"`

	LinkedinURL  *string `json:"linkedinUrl"`
	GithubURL    *string `json:"githubUrl"`
	PortfolioURL *string `json:"portfolioUrl"`

	IsActive         bool `json:"isActive"`
	IsAnonymized     bool `json:"isAnonymized"`
	ProfileCompleted bool `json:"profileCompleted"`

	WorkExperiences []WorkExperience `json:"workExperiences"`
	Educations      []Education      `json:"educations"`
	Tags            []Tag            `json:"tags"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WorkExperience struct {
	ID          int64      `json:"id"`
	CompanyName string     `json:"companyName"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	IsCurrent   bool       `json:"isCurrent"`
}

type Education struct {
	ID             int64   `json:"id"`
	Institution    string  `json:"institution"`
	Degree         *string `json:"degree"`
	FieldOfStudy   *string `json:"fieldOfStudy"`
	GraduationYear *int32  `json:"graduationYear"`
}

// Experience buckets accepted on write.
const (
	ExperienceJunior    = "junior"
	ExperienceMid       = "mid"
	ExperienceSenior    = "senior"
	ExperienceLead      = "lead"
	ExperienceExecutive = "executive"
)

// CandidateProfileInput carries the editable profile fields. Nil pointers
// leave the stored value untouched on update.
type CandidateProfileInput struct {
	Title            *string  `json:"title" validate:"omitempty,max=150,no_emoji"`
	Summary          *string  `json:"summary" validate:"omitempty,max=5000"`
	Experience       *string  `json:"experience" validate:"omitempty,oneof=junior mid senior lead executive"`
	Location         *string  `json:"location" validate:"omitempty,max=150,no_emoji"`
	RemotePreference *string  `json:"remotePreference" validate:"omitempty,oneof=remote hybrid onsite flexible"`
	Availability     *string  `json:"availability" validate:"omitempty,oneof=immediately 2weeks 1month 3months 6months"`
	SalaryMin        *float64 `json:"salaryMin" validate:"omitempty,gte=0,lte=9999999999.99"`
	SalaryMax        *float64 `json:"salaryMax" validate:"omitempty,gte=0,lte=9999999999.99"`
	Currency         *string  `json:"currency" validate:"omitempty,oneof=USD EUR GBP CHF"`
	LinkedinURL      *string  `json:"linkedinUrl" validate:"omitempty,valid_url_or_empty"`
	GithubURL        *string  `json:"githubUrl" validate:"omitempty,valid_url_or_empty"`
	PortfolioURL     *string  `json:"portfolioUrl" validate:"omitempty,valid_url_or_empty"`
	IsAnonymized     *bool    `json:"isAnonymized"`
	ClearSalary      bool     `json:"clearSalary"` // drops both bounds before salaryMin and salaryMax apply
}

type AssignTagsRequest struct {
	TagIDs []int64 `json:"tagIds" validate:"max=50,dive,gt=0"`
}

// CandidateFilter narrows the public browse listing.
type CandidateFilter struct {
	Experience       string
	Availability     string
	RemotePreference string
	Location         string // case-insensitive substring
	TagID            int64
	Page             int
	PageSize         int
}

// OwnProfile is what a candidate sees of their own record.
type OwnProfile struct {
	Profile    *CandidateProfile `json:"profile"`
	Completion CompletionResult  `json:"completion"`
}

type CandidateRepository interface {
	// GetByID returns the profile with owner, tags, work history and education,
	// or nil when no row matches.
	GetByID(ctx context.Context, id string) (*CandidateProfile, error)
	GetByUserID(ctx context.Context, userID string) (*CandidateProfile, error)
	Create(ctx context.Context, profile *CandidateProfile) error
	Update(ctx context.Context, profile *CandidateProfile) error
	ReplaceTags(ctx context.Context, candidateID string, tagIDs []int64) error
	// Search lists active, completed profiles with owner and tags loaded.
	Search(ctx context.Context, filter CandidateFilter) ([]CandidateProfile, int64, error)
	// ListAll returns every profile, without children, for maintenance jobs.
	ListAll(ctx context.Context) ([]CandidateProfile, error)
	SetProfileCompleted(ctx context.Context, id string, completed bool) error
}

type CandidateUsecase interface {
	GetPublicProfile(ctx context.Context, id string, auth RequestAuth) (*ProfilePayload, error)
	BrowseProfiles(ctx context.Context, filter CandidateFilter, auth RequestAuth) (*PaginatedResult[ProfilePayload], error)
	GetOwnProfile(ctx context.Context, userID string) (*OwnProfile, error)
	Register(ctx context.Context, userID string, input CandidateProfileInput) (*OwnProfile, error)
	UpdateProfile(ctx context.Context, userID string, input CandidateProfileInput) (*OwnProfile, error)
	AssignTags(ctx context.Context, userID string, tagIDs []int64) (*OwnProfile, error)
	GetCompletion(ctx context.Context, userID string) (*CompletionResult, error)
}
