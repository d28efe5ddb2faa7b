package profile

import (
	"math"

	"board-champions-backend/internal/domain"
)

// Score computes the weighted completeness of f. Required fields carry 70%
// of the overall score, optional fields 30%. A profile is complete when every
// required field is present, whatever the optional fields hold.
func Score(f Fields) domain.CompletionResult {
	missingRequired := missing(f, requiredFields)
	missingOptional := missing(f, optionalFields)

	requiredPct := percentage(len(requiredFields)-len(missingRequired), len(requiredFields))
	optionalPct := percentage(len(optionalFields)-len(missingOptional), len(optionalFields))

	return domain.CompletionResult{
		IsCompleted:        len(missingRequired) == 0,
		OverallPercentage:  int(math.Round(float64(requiredPct)*requiredWeight + float64(optionalPct)*optionalWeight)),
		RequiredPercentage: requiredPct,
		OptionalPercentage: optionalPct,
		MissingRequired:    missingRequired,
		MissingOptional:    missingOptional,
	}
}

// ScoreProfile is Score over the fields of p.
func ScoreProfile(p *domain.CandidateProfile) domain.CompletionResult {
	return Score(FieldsOf(p))
}

func percentage(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}
