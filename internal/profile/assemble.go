package profile

import "board-champions-backend/internal/domain"

// Assemble merges the redacted view with completion and status flags.
// Completion is operational metadata and is never redacted.
func Assemble(p *domain.CandidateProfile, completion domain.CompletionResult, redacted domain.PublicProfileView, viewer domain.ViewerContext) domain.ProfilePayload {
	return domain.ProfilePayload{
		PublicProfileView: redacted,
		ProfileCompletion: domain.ProfileCompletion{
			Percentage:  completion.OverallPercentage,
			IsCompleted: completion.IsCompleted,
		},
		IsActive:     p.IsActive,
		IsAnonymized: p.IsAnonymized,
		IsOwnProfile: viewer.IsProfileOwner,
		IsUnlocked:   viewer.HasPurchasedAccess,
	}
}

// View runs the full pipeline for one profile: score, classify, redact, assemble.
func View(p *domain.CandidateProfile, auth domain.RequestAuth, hasPurchasedAccess bool) (domain.ProfilePayload, domain.ViewerContext) {
	completion := ScoreProfile(p)
	viewer := Classify(p, auth, hasPurchasedAccess)
	return Assemble(p, completion, Redact(p, viewer), viewer), viewer
}
