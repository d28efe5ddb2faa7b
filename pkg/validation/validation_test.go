package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title       string   `validate:"omitempty,max=10,no_emoji"`
	Experience  string   `validate:"omitempty,oneof=junior mid senior"`
	LinkedinURL *string  `validate:"omitempty,valid_url_or_empty"`
	Name        string   `validate:"valid_name"`
	TagIDs      []int64  `validate:"max=2,dive,gt=0"`
	SalaryMin   *float64 `validate:"omitempty,gte=0"`
}

func ptr[T any](v T) *T { return &v }

func TestValidator_Accepts(t *testing.T) {
	v := New()
	err := v.Struct(sample{
		Title:       "CFO",
		Experience:  "senior",
		LinkedinURL: ptr("https://linkedin.com/in/jane"),
		Name:        "Jane O'Neil-Smith",
		TagIDs:      []int64{1, 2},
		SalaryMin:   ptr(0.0),
	})
	assert.NoError(t, err)

	assert.NoError(t, v.Struct(sample{LinkedinURL: ptr("")}), "empty string clears a link")
}

func TestValidator_RejectsWithReadableMessages(t *testing.T) {
	v := New()
	err := v.Struct(sample{
		Title:       "CFO 🚀",
		Experience:  "intern",
		LinkedinURL: ptr("javascript:alert(1)"),
		Name:        "Jane123!",
		TagIDs:      []int64{1, 2, 3},
		SalaryMin:   ptr(-1.0),
	})
	require.Error(t, err)

	messages := FormatValidationErrors(err)
	assert.Contains(t, messages, "Title: must not contain emoji or special symbols")
	assert.Contains(t, messages, "Experience: must be one of: Junior (0-5 years), Mid-level (5-10 years), Senior (10-20 years)")
	assert.Contains(t, messages, "LinkedIn URL: must be an http(s) URL")
	assert.Contains(t, messages, "Tags: at most 2 allowed")
	assert.Contains(t, messages, "Minimum salary: must be 0 or more")
	assert.Len(t, messages, 6)
}

func TestFormatValidationErrors_NonValidationError(t *testing.T) {
	assert.Equal(t, []string{"boom"}, FormatValidationErrors(errors.New("boom")))
}
