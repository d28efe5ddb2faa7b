package usecase

import (
	"context"
	"errors"
	"strings"

	"board-champions-backend/internal/domain"
	"board-champions-backend/pkg/apperror"
)

type authUsecase struct {
	userRepo domain.UserRepository
}

func NewAuthUsecase(userRepo domain.UserRepository) domain.AuthUsecase {
	return &authUsecase{userRepo: userRepo}
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.NotFound("User not found")
	}
	return user, nil
}

func (u *authUsecase) EnsureUser(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.Subject == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	user, err := u.userRepo.GetByID(ctx, identity.Subject)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user != nil {
		return user, nil
	}

	fresh := &domain.User{
		ID:        identity.Subject,
		Email:     strings.TrimSpace(identity.Email),
		FirstName: strings.TrimSpace(identity.FirstName),
		LastName:  strings.TrimSpace(identity.LastName),
		Role:      domain.RoleCandidate,
	}
	if identity.ImageURL != "" {
		fresh.ImageURL = &identity.ImageURL
	}
	user, err = u.userRepo.Upsert(ctx, fresh)
	if errors.Is(err, domain.ErrEmailTaken) {
		return nil, apperror.Conflict("Email is already linked to another account")
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return user, nil
}
