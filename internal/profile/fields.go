// Package profile scores candidate profiles for completeness and shapes
// them for a given viewer. Everything here is pure: callers fetch the data
// and decide what to persist.
package profile

import (
	"fmt"
	"reflect"
	"strings"

	"board-champions-backend/internal/domain"
)

const (
	requiredWeight = 0.7
	optionalWeight = 0.3
)

// Scored field names, in declaration order. Missing-field lists follow it.
var (
	requiredFields = []string{"title", "summary", "experience", "location", "remotePreference", "availability"}
	optionalFields = []string{"salaryMin", "salaryMax", "linkedinUrl", "githubUrl", "portfolioUrl"}
)

// RequiredFields returns a copy of the required field names in scoring order.
func RequiredFields() []string { return append([]string(nil), requiredFields...) }

// OptionalFields returns a copy of the optional field names in scoring order.
func OptionalFields() []string { return append([]string(nil), optionalFields...) }

// Fields is a flat view of a profile keyed by public field name. Values may be
// strings, numbers or pointers to either; nil counts as missing.
type Fields map[string]any

// FieldsOf flattens the scored attributes of p.
func FieldsOf(p *domain.CandidateProfile) Fields {
	if p == nil {
		return Fields{}
	}
	return Fields{
		"title":            p.Title,
		"summary":          p.Summary,
		"experience":       p.Experience,
		"location":         p.Location,
		"remotePreference": p.RemotePreference,
		"availability":     p.Availability,
		"salaryMin":        p.SalaryMin,
		"salaryMax":        p.SalaryMax,
		"linkedinUrl":      p.LinkedinURL,
		"githubUrl":        p.GithubURL,
		"portfolioUrl":     p.PortfolioURL,
	}
}

// present reports whether v, rendered as a string and trimmed, is non-empty.
// Numeric zero renders as "0" and is present.
func present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case *string:
		return x != nil && strings.TrimSpace(*x) != ""
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return false
		}
		return present(rv.Elem().Interface())
	}
	return strings.TrimSpace(fmt.Sprint(v)) != ""
}

func missing(f Fields, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if !present(f[name]) {
			out = append(out, name)
		}
	}
	return out
}
