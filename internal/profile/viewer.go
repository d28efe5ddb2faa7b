package profile

import "board-champions-backend/internal/domain"

// ViewerClass labels a ViewerContext for metrics and logs.
type ViewerClass string

const (
	ClassAnonymous     ViewerClass = "anonymous"
	ClassAuthenticated ViewerClass = "authenticated"
	ClassPurchaser     ViewerClass = "purchaser"
	ClassOwner         ViewerClass = "owner"
)

// Classify derives the viewer of p from the request's auth state and the
// purchase lookup. Ownership needs the joined owner row; without it the
// viewer is never treated as the owner.
func Classify(p *domain.CandidateProfile, auth domain.RequestAuth, hasPurchasedAccess bool) domain.ViewerContext {
	viewer := domain.ViewerContext{HasPurchasedAccess: hasPurchasedAccess}
	if auth.UserID == nil || *auth.UserID == "" {
		return viewer
	}

	userID := *auth.UserID
	viewer.IsAuthenticated = true
	viewer.ViewerUserID = &userID
	viewer.IsProfileOwner = p != nil && p.Owner != nil && p.UserID != "" && p.UserID == userID
	return viewer
}

// ClassOf picks the most privileged class that applies to v.
func ClassOf(v domain.ViewerContext) ViewerClass {
	switch {
	case v.IsProfileOwner:
		return ClassOwner
	case v.HasPurchasedAccess:
		return ClassPurchaser
	case v.IsAuthenticated:
		return ClassAuthenticated
	default:
		return ClassAnonymous
	}
}
