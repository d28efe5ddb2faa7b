package domain

// RequestAuth is what the identity layer knows about the caller.
// A nil UserID means the request is anonymous.
type RequestAuth struct {
	UserID *string
	Role   string
}

// ViewerContext describes the requester for one redaction decision.
type ViewerContext struct {
	IsAuthenticated    bool
	ViewerUserID       *string
	IsProfileOwner     bool
	HasPurchasedAccess bool
}

type CompletionResult struct {
	IsCompleted        bool     `json:"isCompleted"`
	OverallPercentage  int      `json:"overallPercentage"`
	RequiredPercentage int      `json:"requiredPercentage"`
	OptionalPercentage int      `json:"optionalPercentage"`
	MissingRequired    []string `json:"missingRequired"`
	MissingOptional    []string `json:"missingOptional"`
}

type SalaryView struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency"`
}

// PublicProfileView is a profile shaped for one viewer. Nil pointer fields
// tagged omitempty are absent from the JSON, not empty.
type PublicProfileView struct {
	ID               string      `json:"id"`
	DisplayName      string      `json:"displayName"`
	Email            *string     `json:"email,omitempty"`
	ImageURL         *string     `json:"imageUrl"`
	Title            string      `json:"title"`
	Location         string      `json:"location"`
	Bio              string      `json:"bio"`
	Experience       string      `json:"experience"`
	Availability     string      `json:"availability"`
	RemotePreference *string     `json:"remotePreference,omitempty"`
	LinkedinURL      *string     `json:"linkedinUrl,omitempty"`
	GithubURL        *string     `json:"githubUrl,omitempty"`
	PortfolioURL     *string     `json:"portfolioUrl,omitempty"`
	Salary           *SalaryView `json:"salary,omitempty"`
	Skills           []string    `json:"skills"`
	Sectors          []string    `json:"sectors"`
}

type ProfileCompletion struct {
	Percentage  int  `json:"percentage"`
	IsCompleted bool `json:"isCompleted"`
}

// ProfilePayload is the response body for a single profile.
type ProfilePayload struct {
	PublicProfileView
	ProfileCompletion ProfileCompletion `json:"profileCompletion"`
	IsActive          bool              `json:"isActive"`
	IsAnonymized      bool              `json:"isAnonymized"`
	IsOwnProfile      bool              `json:"isOwnProfile"`
	IsUnlocked        bool              `json:"isUnlocked"`
}
