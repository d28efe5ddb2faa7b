package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"board-champions-backend/internal/domain"
	"board-champions-backend/internal/profile"
	"board-champions-backend/pkg/apperror"
	"board-champions-backend/pkg/metrics"
	"board-champions-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type candidateUsecase struct {
	candidateRepo domain.CandidateRepository
	tagRepo       domain.TagRepository
	companyRepo   domain.CompanyRepository
	purchaseRepo  domain.PurchaseRepository
	validate      *validator.Validate
	metrics       *metrics.Manager
}

func NewCandidateUsecase(
	candidateRepo domain.CandidateRepository,
	tagRepo domain.TagRepository,
	companyRepo domain.CompanyRepository,
	purchaseRepo domain.PurchaseRepository,
	validate *validator.Validate,
	m *metrics.Manager,
) domain.CandidateUsecase {
	return &candidateUsecase{
		candidateRepo: candidateRepo,
		tagRepo:       tagRepo,
		companyRepo:   companyRepo,
		purchaseRepo:  purchaseRepo,
		validate:      validate,
		metrics:       m,
	}
}

// GetPublicProfile loads a profile and shapes it for the caller. The profile
// read and the caller's purchase lookup are independent and run concurrently.
func (u *candidateUsecase) GetPublicProfile(ctx context.Context, id string, auth domain.RequestAuth) (*domain.ProfilePayload, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	var (
		p         *domain.CandidateProfile
		purchased bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = u.candidateRepo.GetByID(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		purchased, err = u.hasPurchased(gctx, auth, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to load candidate: %w", err))
	}
	if p == nil {
		return nil, apperror.NotFound("Candidate not found")
	}

	payload, viewer := profile.View(p, auth, purchased)
	// Deactivated profiles are invisible to everyone but their owner.
	if !p.IsActive && !viewer.IsProfileOwner {
		return nil, apperror.NotFound("Candidate not found")
	}

	u.metrics.RecordProfileView(string(profile.ClassOf(viewer)), viewer.IsProfileOwner || !p.IsAnonymized)
	return &payload, nil
}

func (u *candidateUsecase) BrowseProfiles(ctx context.Context, filter domain.CandidateFilter, auth domain.RequestAuth) (*domain.PaginatedResult[domain.ProfilePayload], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	profiles, total, err := u.candidateRepo.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to search candidates: %w", err))
	}

	purchased, err := u.purchasedAmong(ctx, auth, profiles)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	items := make([]domain.ProfilePayload, 0, len(profiles))
	for i := range profiles {
		p := &profiles[i]
		payload, viewer := profile.View(p, auth, purchased[p.ID])
		u.metrics.RecordProfileView(string(profile.ClassOf(viewer)), viewer.IsProfileOwner || !p.IsAnonymized)
		items = append(items, payload)
	}

	return &domain.PaginatedResult[domain.ProfilePayload]{
		Data:       items,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}

func (u *candidateUsecase) GetOwnProfile(ctx context.Context, userID string) (*domain.OwnProfile, error) {
	p, err := u.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.OwnProfile{Profile: p, Completion: profile.ScoreProfile(p)}, nil
}

// Register creates the caller's profile from the registration form.
func (u *candidateUsecase) Register(ctx context.Context, userID string, input domain.CandidateProfileInput) (*domain.OwnProfile, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if err := u.validateInput(input); err != nil {
		return nil, err
	}

	existing, err := u.candidateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict("Candidate profile already exists")
	}

	p := &domain.CandidateProfile{
		UserID:          userID,
		Currency:        "USD",
		IsActive:        true,
		Tags:            []domain.Tag{},
		WorkExperiences: []domain.WorkExperience{},
		Educations:      []domain.Education{},
	}
	if err := applyInput(p, input); err != nil {
		return nil, err
	}

	completion := profile.ScoreProfile(p)
	p.ProfileCompleted = completion.IsCompleted

	if err := u.candidateRepo.Create(ctx, p); err != nil {
		return nil, toAppError(err)
	}
	u.metrics.ObserveCompletion(completion.OverallPercentage)

	return &domain.OwnProfile{Profile: p, Completion: completion}, nil
}

func (u *candidateUsecase) UpdateProfile(ctx context.Context, userID string, input domain.CandidateProfileInput) (*domain.OwnProfile, error) {
	if err := u.validateInput(input); err != nil {
		return nil, err
	}

	p, err := u.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := applyInput(p, input); err != nil {
		return nil, err
	}

	completion := profile.ScoreProfile(p)
	p.ProfileCompleted = completion.IsCompleted

	if err := u.candidateRepo.Update(ctx, p); err != nil {
		return nil, apperror.Internal(err)
	}
	u.metrics.ObserveCompletion(completion.OverallPercentage)

	return &domain.OwnProfile{Profile: p, Completion: completion}, nil
}

// AssignTags replaces the caller's tags. Request order is kept as join order
// and duplicates are dropped.
func (u *candidateUsecase) AssignTags(ctx context.Context, userID string, tagIDs []int64) (*domain.OwnProfile, error) {
	if err := u.validate.Struct(domain.AssignTagsRequest{TagIDs: tagIDs}); err != nil {
		return nil, apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}

	p, err := u.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	unique := dedupe(tagIDs)
	tags, err := u.tagRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(tags) != len(unique) {
		return nil, apperror.BadRequest("Unknown tag ids: " + formatIDs(missingIDs(unique, tags)))
	}

	if err := u.candidateRepo.ReplaceTags(ctx, p.ID, unique); err != nil {
		return nil, apperror.Internal(err)
	}

	updated, err := u.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	completion := profile.ScoreProfile(updated)
	if updated.ProfileCompleted != completion.IsCompleted {
		if err := u.candidateRepo.SetProfileCompleted(ctx, updated.ID, completion.IsCompleted); err != nil {
			return nil, apperror.Internal(err)
		}
		updated.ProfileCompleted = completion.IsCompleted
	}

	return &domain.OwnProfile{Profile: updated, Completion: completion}, nil
}

func (u *candidateUsecase) GetCompletion(ctx context.Context, userID string) (*domain.CompletionResult, error) {
	p, err := u.ownProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := profile.ScoreProfile(p)
	return &result, nil
}

func (u *candidateUsecase) ownProfile(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	if userID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	p, err := u.candidateRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if p == nil {
		return nil, apperror.NotFound("Candidate profile not found")
	}
	return p, nil
}

func (u *candidateUsecase) validateInput(input domain.CandidateProfileInput) error {
	if err := u.validate.Struct(input); err != nil {
		return apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; "))
	}
	return nil
}

// viewerCompany resolves the company behind a signed-in company user.
func (u *candidateUsecase) viewerCompany(ctx context.Context, auth domain.RequestAuth) (*domain.Company, error) {
	if auth.UserID == nil || auth.Role != domain.RoleCompany {
		return nil, nil
	}
	return u.companyRepo.GetByUserID(ctx, *auth.UserID)
}

func (u *candidateUsecase) hasPurchased(ctx context.Context, auth domain.RequestAuth, candidateID string) (bool, error) {
	company, err := u.viewerCompany(ctx, auth)
	if err != nil || company == nil {
		return false, err
	}
	return u.purchaseRepo.HasPurchased(ctx, company.ID, candidateID)
}

func (u *candidateUsecase) purchasedAmong(ctx context.Context, auth domain.RequestAuth, profiles []domain.CandidateProfile) (map[string]bool, error) {
	company, err := u.viewerCompany(ctx, auth)
	if err != nil || company == nil || len(profiles) == 0 {
		return map[string]bool{}, err
	}
	ids := make([]string, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].ID
	}
	return u.purchaseRepo.PurchasedAmong(ctx, company.ID, ids)
}

// applyInput copies the set fields of in onto p. An empty string clears a text
// field; ClearSalary clears the salary bounds.
func applyInput(p *domain.CandidateProfile, in domain.CandidateProfileInput) error {
	setText := func(dst **string, src *string) {
		if src == nil {
			return
		}
		if v := strings.TrimSpace(*src); v != "" {
			*dst = &v
		} else {
			*dst = nil
		}
	}

	setText(&p.Title, in.Title)
	setText(&p.Summary, in.Summary)
	setText(&p.Experience, in.Experience)
	setText(&p.Location, in.Location)
	setText(&p.RemotePreference, in.RemotePreference)
	setText(&p.Availability, in.Availability)
	setText(&p.LinkedinURL, in.LinkedinURL)
	setText(&p.GithubURL, in.GithubURL)
	setText(&p.PortfolioURL, in.PortfolioURL)

	if in.ClearSalary {
		p.SalaryMin, p.SalaryMax = nil, nil
	}
	if in.SalaryMin != nil {
		v := strconv.FormatFloat(*in.SalaryMin, 'f', -1, 64)
		p.SalaryMin = &v
	}
	if in.SalaryMax != nil {
		v := strconv.FormatFloat(*in.SalaryMax, 'f', -1, 64)
		p.SalaryMax = &v
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
	}
	if in.IsAnonymized != nil {
		p.IsAnonymized = *in.IsAnonymized
	}

	if p.SalaryMin != nil && p.SalaryMax != nil {
		lo, errLo := strconv.ParseFloat(*p.SalaryMin, 64)
		hi, errHi := strconv.ParseFloat(*p.SalaryMax, 64)
		if errLo == nil && errHi == nil && lo > hi {
			return apperror.BadRequest("Minimum salary must not exceed maximum salary")
		}
	}
	return nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(want []int64, found []domain.Tag) []int64 {
	have := make(map[int64]struct{}, len(found))
	for _, t := range found {
		have[t.ID] = struct{}{}
	}
	var out []int64
	for _, id := range want {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func formatIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}
