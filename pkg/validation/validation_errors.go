package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	"Title":            "Title",
	"Summary":          "Summary",
	"Experience":       "Experience",
	"Location":         "Location",
	"RemotePreference": "Remote preference",
	"Availability":     "Availability",
	"SalaryMin":        "Minimum salary",
	"SalaryMax":        "Maximum salary",
	"Currency":         "Currency",
	"LinkedinURL":      "LinkedIn URL",
	"GithubURL":        "GitHub URL",
	"PortfolioURL":     "Portfolio URL",
	"TagIDs":           "Tags",
}

var enumLabels = map[string]string{
	"junior":      "Junior (0-5 years)",
	"mid":         "Mid-level (5-10 years)",
	"senior":      "Senior (10-20 years)",
	"lead":        "Lead (20-25 years)",
	"executive":   "Executive (25+ years)",
	"immediately": "Immediately",
	"2weeks":      "2 weeks",
	"1month":      "1 month",
	"3months":     "3 months",
	"6months":     "6 months",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max":
		switch e.Kind().String() {
		case "string":
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		case "slice":
			return fmt.Sprintf("%s: at most %s allowed", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "gte":
		return fmt.Sprintf("%s: must be %s or more", label, param)
	case "lte":
		return fmt.Sprintf("%s: must be %s or less", label, param)
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, formatOneOfOptions(param))
	case "valid_url_or_empty":
		return fmt.Sprintf("%s: must be an http(s) URL", label)
	case "valid_name":
		return fmt.Sprintf("%s: only letters, spaces and common punctuation (. ' - /) are allowed", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	default:
		return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}

func formatOneOfOptions(param string) string {
	options := strings.Fields(param)
	for i, opt := range options {
		if label, ok := enumLabels[opt]; ok {
			options[i] = label
		}
	}
	return strings.Join(options, ", ")
}
