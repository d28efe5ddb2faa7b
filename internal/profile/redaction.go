package profile

import (
	"math"
	"strconv"
	"strings"

	"board-champions-backend/internal/domain"
)

const (
	PlaceholderName = "Executive Profile"

	fallbackTitle        = "Executive"
	fallbackLocation     = "Not specified"
	fallbackBio          = "Profile summary not available."
	fallbackExperience   = "10+ years"
	fallbackAvailability = "Available"
	defaultCurrency      = "USD"
)

var experienceLabels = map[string]string{
	domain.ExperienceJunior:    "0-5 years",
	domain.ExperienceMid:       "5-10 years",
	domain.ExperienceSenior:    "10-20 years",
	domain.ExperienceLead:      "20-25 years",
	domain.ExperienceExecutive: "25+ years",
}

var availabilityLabels = map[string]string{
	"immediately": "Immediate",
	"2weeks":      "2 weeks",
	"1month":      "1 month",
	"3months":     "3 months",
	"6months":     "6 months",
}

func ExperienceLabel(bucket *string) string {
	return lookup(experienceLabels, bucket, fallbackExperience)
}

func AvailabilityLabel(bucket *string) string {
	return lookup(availabilityLabels, bucket, fallbackAvailability)
}

// Redact shapes p for viewer. Anonymization is the only gate on identity and
// contact fields, and the owner always sees them. Salary is shown to any
// signed-in viewer.
func Redact(p *domain.CandidateProfile, viewer domain.ViewerContext) domain.PublicProfileView {
	view := domain.PublicProfileView{
		ID:               p.ID,
		DisplayName:      PlaceholderName,
		Title:            orDefault(p.Title, fallbackTitle),
		Location:         orDefault(p.Location, fallbackLocation),
		Bio:              orDefault(p.Summary, fallbackBio),
		Experience:       ExperienceLabel(p.Experience),
		Availability:     AvailabilityLabel(p.Availability),
		RemotePreference: nonEmpty(p.RemotePreference),
	}

	if viewer.IsProfileOwner || !p.IsAnonymized {
		if p.Owner != nil {
			if name := strings.TrimSpace(p.Owner.FirstName + " " + p.Owner.LastName); name != "" {
				view.DisplayName = name
			}
			if p.Owner.Email != "" {
				email := p.Owner.Email
				view.Email = &email
			}
			view.ImageURL = clone(p.Owner.ImageURL)
		}
		view.LinkedinURL = clone(p.LinkedinURL)
		view.GithubURL = clone(p.GithubURL)
		view.PortfolioURL = clone(p.PortfolioURL)
	}

	if viewer.IsAuthenticated || viewer.IsProfileOwner {
		view.Salary = salaryOf(p)
	}

	view.Skills, view.Sectors = partitionTags(p.Tags)
	return view
}

func salaryOf(p *domain.CandidateProfile) *domain.SalaryView {
	currency := strings.TrimSpace(p.Currency)
	if currency == "" {
		currency = defaultCurrency
	}
	return &domain.SalaryView{
		Min:      parseAmount(p.SalaryMin),
		Max:      parseAmount(p.SalaryMax),
		Currency: currency,
	}
}

// parseAmount returns nil for absent or unparsable amounts. NaN and the
// infinities have no JSON encoding and are treated as unparsable.
func parseAmount(s *string) *float64 {
	if s == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// partitionTags keeps join order within each group.
func partitionTags(tags []domain.Tag) (skills, sectors []string) {
	skills, sectors = []string{}, []string{}
	for _, t := range tags {
		switch t.Category {
		case domain.TagCategorySkill, domain.TagCategoryExpertise:
			skills = append(skills, t.Name)
		case domain.TagCategorySector, domain.TagCategoryIndustry:
			sectors = append(sectors, t.Name)
		}
	}
	return skills, sectors
}

func lookup(table map[string]string, key *string, fallback string) string {
	if key == nil {
		return fallback
	}
	if label, ok := table[*key]; ok {
		return label
	}
	return fallback
}

func orDefault(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return clone(s)
}

func clone(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
