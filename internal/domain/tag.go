package domain

import "context"

type TagCategory string

const (
	TagCategorySkill         TagCategory = "skill"
	TagCategoryExpertise     TagCategory = "expertise"
	TagCategoryIndustry      TagCategory = "industry"
	TagCategoryCertification TagCategory = "certification"
	TagCategoryLanguage      TagCategory = "language"
	TagCategoryOther         TagCategory = "other"

	// TagCategorySector is a legacy spelling of industry still present in old rows.
	TagCategorySector TagCategory = "sector"
)

// Valid reports whether c can be assigned to a new tag or used as a filter.
func (c TagCategory) Valid() bool {
	switch c {
	case TagCategorySkill, TagCategoryExpertise, TagCategoryIndustry,
		TagCategoryCertification, TagCategoryLanguage, TagCategoryOther:
		return true
	}
	return false
}

type Tag struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Category TagCategory `json:"category"`
}

type TagRepository interface {
	List(ctx context.Context, category TagCategory) ([]Tag, error)
	GetByIDs(ctx context.Context, ids []int64) ([]Tag, error)
}

type TagUsecase interface {
	List(ctx context.Context, category string) ([]Tag, error)
}
