package usecase

import (
	"context"

	"board-champions-backend/internal/domain"
	"board-champions-backend/pkg/apperror"
)

type tagUsecase struct {
	tagRepo domain.TagRepository
}

func NewTagUsecase(tagRepo domain.TagRepository) domain.TagUsecase {
	return &tagUsecase{tagRepo: tagRepo}
}

func (u *tagUsecase) List(ctx context.Context, category string) ([]domain.Tag, error) {
	c := domain.TagCategory(category)
	if c != "" && !c.Valid() {
		return nil, apperror.BadRequest("Unknown tag category: " + category)
	}

	tags, err := u.tagRepo.List(ctx, c)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return tags, nil
}
