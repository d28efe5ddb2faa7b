package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"board-champions-backend/config"
	"board-champions-backend/internal/domain"
	"board-champions-backend/internal/usecase"
	"board-champions-backend/pkg/audit"
	"board-champions-backend/pkg/auth"
	"board-champions-backend/pkg/metrics"
	"board-champions-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const janeID = "5b0c3f1e-9a7d-4e2b-8c61-2f4d7a9e0b13"

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory fakes

type fakeStore struct {
	mu         sync.Mutex
	users      map[string]*domain.User
	profiles   map[string]domain.CandidateProfile
	companies  map[string]*domain.Company
	purchases  map[int64]map[string]time.Time
	tags       map[int64]domain.Tag
	pingFailed bool
}

func newFakeStore() *fakeStore {
	s := &fakeStore{
		users: map[string]*domain.User{
			"user_jane": {ID: "user_jane", Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Role: domain.RoleCandidate},
			"user_acme": {ID: "user_acme", Email: "hr@acme.test", Role: domain.RoleCompany},
			"user_root": {ID: "user_root", Email: "root@bc.test", Role: domain.RoleAdmin},
		},
		profiles:  map[string]domain.CandidateProfile{},
		companies: map[string]*domain.Company{"user_acme": {ID: 7, UserID: "user_acme", Name: "Acme", Credits: 1}},
		purchases: map[int64]map[string]time.Time{},
		tags: map[int64]domain.Tag{
			1: {ID: 1, Name: "IFRS", Category: domain.TagCategorySkill},
			2: {ID: 2, Name: "Banking", Category: domain.TagCategoryIndustry},
		},
	}
	str := func(v string) *string { return &v }
	s.profiles[janeID] = domain.CandidateProfile{
		ID:               janeID,
		UserID:           "user_jane",
		Owner:            &domain.CandidateOwner{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
		Title:            str("CFO"),
		Summary:          str("Finance leader."),
		Experience:       str("senior"),
		Location:         str("London"),
		RemotePreference: str("hybrid"),
		Availability:     str("immediately"),
		SalaryMin:        str("150000"),
		Currency:         "GBP",
		IsActive:         true,
		IsAnonymized:     true,
		ProfileCompleted: true,
		Tags:             []domain.Tag{s.tags[1], s.tags[2]},
		WorkExperiences:  []domain.WorkExperience{},
		Educations:       []domain.Education{},
	}
	return s
}

func (s *fakeStore) get(match func(domain.CandidateProfile) bool) *domain.CandidateProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if match(p) {
			cp := p
			return &cp
		}
	}
	return nil
}

type candidateRepo struct{ *fakeStore }

func (r candidateRepo) GetByID(_ context.Context, id string) (*domain.CandidateProfile, error) {
	return r.get(func(p domain.CandidateProfile) bool { return p.ID == id }), nil
}

func (r candidateRepo) GetByUserID(_ context.Context, userID string) (*domain.CandidateProfile, error) {
	return r.get(func(p domain.CandidateProfile) bool { return p.UserID == userID }), nil
}

func (r candidateRepo) Create(_ context.Context, p *domain.CandidateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = "0e7c6a41-2b8f-4d5e-9c3a-7f1b2d4e6a80"
	r.profiles[p.ID] = *p
	return nil
}

func (r candidateRepo) Update(_ context.Context, p *domain.CandidateProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.ID] = *p
	return nil
}

func (r candidateRepo) ReplaceTags(_ context.Context, id string, tagIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[id]
	p.Tags = p.Tags[:0:0]
	for _, t := range tagIDs {
		p.Tags = append(p.Tags, r.tags[t])
	}
	r.profiles[id] = p
	return nil
}

func (r candidateRepo) Search(_ context.Context, _ domain.CandidateFilter) ([]domain.CandidateProfile, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CandidateProfile
	for _, p := range r.profiles {
		if p.IsActive && p.ProfileCompleted {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

func (r candidateRepo) ListAll(_ context.Context) ([]domain.CandidateProfile, error) {
	out, _, err := r.Search(context.Background(), domain.CandidateFilter{})
	return out, err
}

func (r candidateRepo) SetProfileCompleted(_ context.Context, id string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.profiles[id]
	p.ProfileCompleted = completed
	r.profiles[id] = p
	return nil
}

type tagRepo struct{ *fakeStore }

func (r tagRepo) List(_ context.Context, c domain.TagCategory) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, t := range r.tags {
		if c == "" || t.Category == c {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r tagRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, id := range ids {
		if t, ok := r.tags[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

type companyRepo struct{ *fakeStore }

func (r companyRepo) GetByUserID(_ context.Context, userID string) (*domain.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.companies[userID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

type purchaseRepo struct{ *fakeStore }

func (r purchaseRepo) HasPurchased(_ context.Context, companyID int64, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.purchases[companyID][id]
	return ok, nil
}

func (r purchaseRepo) PurchasedAmong(_ context.Context, companyID int64, ids []string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[string]bool{}
	for _, id := range ids {
		if _, ok := r.purchases[companyID][id]; ok {
			out[id] = true
		}
	}
	return out, nil
}

func (r purchaseRepo) Unlock(_ context.Context, companyID int64, id string, cost int) (*domain.UnlockResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var company *domain.Company
	for _, c := range r.companies {
		if c.ID == companyID {
			company = c
		}
	}
	if at, ok := r.purchases[companyID][id]; ok {
		return &domain.UnlockResult{CandidateID: id, AlreadyUnlocked: true, CreditsRemaining: company.Credits, UnlockedAt: at}, nil
	}
	if company.Credits < cost {
		return nil, domain.ErrInsufficientCredits
	}
	company.Credits -= cost
	if r.purchases[companyID] == nil {
		r.purchases[companyID] = map[string]time.Time{}
	}
	now := time.Now()
	r.purchases[companyID][id] = now
	return &domain.UnlockResult{CandidateID: id, CreditsSpent: cost, CreditsRemaining: company.Credits, UnlockedAt: now}, nil
}

type adminRepo struct{ *fakeStore }

func (r adminRepo) ListCandidates(_ context.Context, _ *bool, _, _ int) ([]domain.CandidateProfile, int64, error) {
	out, _ := candidateRepo(r).ListAll(context.Background())
	return out, int64(len(out)), nil
}

func (r adminRepo) SetActive(_ context.Context, id string, active bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	p.IsActive = active
	if ok {
		r.profiles[id] = p
	}
	return ok, nil
}

func (r adminRepo) SetAnonymized(_ context.Context, id string, anonymized bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	p.IsAnonymized = anonymized
	if ok {
		r.profiles[id] = p
	}
	return ok, nil
}

type userRepo struct{ *fakeStore }

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r userRepo) Upsert(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[u.ID]; ok {
		return existing, nil
	}
	cp := *u
	r.users[u.ID] = &cp
	return &cp, nil
}

func (s *fakeStore) Ping(context.Context) error {
	if s.pingFailed {
		return errors.New("down")
	}
	return nil
}

type tokenTable map[string]string

func (t tokenTable) Verify(token string) (*auth.SessionClaims, error) {
	if sub, ok := t[token]; ok {
		return &auth.SessionClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}, nil
	}
	return nil, errors.New("invalid session token")
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeStore) {
	t.Helper()
	s := newFakeStore()
	m := metrics.NewManager()
	cfg := config.Defaults()

	r := NewRouter(RouterDeps{
		AuthUC:      usecase.NewAuthUsecase(userRepo{s}),
		CandidateUC: usecase.NewCandidateUsecase(candidateRepo{s}, tagRepo{s}, companyRepo{s}, purchaseRepo{s}, validation.New(), m),
		TagUC:       usecase.NewTagUsecase(tagRepo{s}),
		CompanyUC:   usecase.NewCompanyUsecase(companyRepo{s}, purchaseRepo{s}, candidateRepo{s}, 1, audit.NewNop(), m),
		AdminUC:     usecase.NewAdminUsecase(adminRepo{s}, audit.NewNop()),
		HealthUC:    usecase.NewHealthUsecase(map[string]usecase.Pinger{"database": s}),
		Verifier:    tokenTable{"jane": "user_jane", "acme": "user_acme", "root": "user_root", "fresh": "user_fresh"},
		Metrics:     m,
		Config:      &cfg,
	})
	return r, s
}

func call(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	RequestID string                 `json:"request_id"`
}

func parse(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func TestPublicProfileRedaction(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("Anonymous viewer gets the masked view", func(t *testing.T) {
		w := call(r, http.MethodGet, "/v1/candidates/"+janeID, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		e := parse(t, w)
		assert.True(t, e.Success)
		assert.NotEmpty(t, e.RequestID)
		assert.Equal(t, "Executive Profile", e.Data["displayName"])
		assert.NotContains(t, e.Data, "email")
		assert.NotContains(t, e.Data, "salary")
		assert.Nil(t, e.Data["imageUrl"])
		assert.Equal(t, []interface{}{"IFRS"}, e.Data["skills"])
		assert.Equal(t, []interface{}{"Banking"}, e.Data["sectors"])
		assert.Equal(t, "10-20 years", e.Data["experience"])
	})

	t.Run("Invalid token is treated as anonymous", func(t *testing.T) {
		w := call(r, http.MethodGet, "/v1/candidates/"+janeID, "forged", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Executive Profile", parse(t, w).Data["displayName"])
	})

	t.Run("Owner sees everything", func(t *testing.T) {
		w := call(r, http.MethodGet, "/v1/candidates/"+janeID, "jane", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := parse(t, w).Data
		assert.Equal(t, "Jane Doe", data["displayName"])
		assert.Equal(t, "jane@example.com", data["email"])
		assert.Equal(t, true, data["isOwnProfile"])
		salary := data["salary"].(map[string]interface{})
		assert.Equal(t, 150000.0, salary["min"])
		assert.Nil(t, salary["max"])
		assert.Equal(t, "GBP", salary["currency"])
	})

	t.Run("Unknown profile is not found", func(t *testing.T) {
		w := call(r, http.MethodGet, "/v1/candidates/not-a-uuid", "", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.False(t, parse(t, w).Success)
	})
}

func TestFirstSignIn(t *testing.T) {
	r, s := newTestRouter(t)

	t.Run("New session user counts as signed in on public routes", func(t *testing.T) {
		w := call(r, http.MethodGet, "/v1/candidates/"+janeID, "fresh", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := parse(t, w).Data
		assert.Contains(t, data, "salary")
		assert.Equal(t, "Executive Profile", data["displayName"])
		assert.Equal(t, false, data["isOwnProfile"])
	})

	t.Run("User row is created with the candidate role", func(t *testing.T) {
		w := call(r, http.MethodGet, "/v1/auth/me", "fresh", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.RoleCandidate, parse(t, w).Data["role"])
		assert.Contains(t, s.users, "user_fresh")
	})

	t.Run("New user can register a profile", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/candidates/me", "fresh", `{"title":"CFO","experience":"lead"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		completion := parse(t, w).Data["completion"].(map[string]interface{})
		assert.Equal(t, false, completion["isCompleted"])
	})
}

func TestBrowseRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	w := call(r, http.MethodGet, "/v1/candidates?page=1&pageSize=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := parse(t, w).Data
	assert.Equal(t, float64(1), data["total"])

	w = call(r, http.MethodGet, "/v1/candidates?tag=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnlockFlow(t *testing.T) {
	r, s := newTestRouter(t)

	t.Run("Candidates cannot unlock", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/candidates/"+janeID+"/unlock", "jane", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Anonymous callers must sign in", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/candidates/"+janeID+"/unlock", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("First unlock charges, second is free", func(t *testing.T) {
		w := call(r, http.MethodPost, "/v1/candidates/"+janeID+"/unlock", "acme", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := parse(t, w).Data
		assert.Equal(t, float64(1), data["creditsSpent"])
		assert.Equal(t, float64(0), data["creditsRemaining"])

		w = call(r, http.MethodPost, "/v1/candidates/"+janeID+"/unlock", "acme", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, parse(t, w).Data["alreadyUnlocked"])

		w = call(r, http.MethodGet, "/v1/companies/me/credits", "acme", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(0), parse(t, w).Data["credits"])
	})

	t.Run("Purchase shows as unlocked but anonymization holds", func(t *testing.T) {
		w := call(r, http.MethodGet, "/v1/candidates/"+janeID, "acme", "")
		require.Equal(t, http.StatusOK, w.Code)
		data := parse(t, w).Data
		assert.Equal(t, true, data["isUnlocked"])
		assert.Equal(t, "Executive Profile", data["displayName"])
		assert.Contains(t, data, "salary")
	})

	t.Run("Empty balance is payment required", func(t *testing.T) {
		other := s.profiles[janeID]
		other.ID = "9d2b7c1a-4e5f-4a6b-8c7d-0e1f2a3b4c5d"
		s.profiles[other.ID] = other

		w := call(r, http.MethodPost, "/v1/candidates/"+other.ID+"/unlock", "acme", "")
		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})
}

func TestCandidateSelfService(t *testing.T) {
	r, _ := newTestRouter(t)

	w := call(r, http.MethodPost, "/v1/candidates/me", "jane", `{"title":"CFO"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = call(r, http.MethodPut, "/v1/candidates/me", "jane", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPut, "/v1/candidates/me", "jane", `{"summary":""}`)
	require.Equal(t, http.StatusOK, w.Code)
	completion := parse(t, w).Data["completion"].(map[string]interface{})
	assert.Equal(t, false, completion["isCompleted"])
	assert.Equal(t, []interface{}{"summary"}, completion["missingRequired"])

	w = call(r, http.MethodPut, "/v1/candidates/me/tags", "jane", `{"tagIds":[2,99]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodGet, "/v1/candidates/me/completion", "acme", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := call(r, http.MethodGet, "/v1/admin/candidates", "acme", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodGet, "/v1/admin/candidates?active=maybe", "root", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPatch, "/v1/admin/candidates/"+janeID+"/status", "root", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "isActive is required")

	w = call(r, http.MethodPatch, "/v1/admin/candidates/"+janeID+"/status", "root", `{"isActive":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(r, http.MethodGet, "/v1/candidates/"+janeID, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code, "deactivated profiles are hidden")

	w = call(r, http.MethodGet, "/v1/admin/candidates/export", "root", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

func TestOperationalRoutes(t *testing.T) {
	r, s := newTestRouter(t)

	w := call(r, http.MethodGet, "/v1/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", parse(t, w).Data["database"])

	s.pingFailed = true
	w = call(r, http.MethodGet, "/v1/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = call(r, http.MethodGet, "/v1/tags?category=hobby", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodGet, "/v1/auth/me", "root", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.RoleAdmin, parse(t, w).Data["role"])

	w = call(r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "board_champions_api_http_requests_total")
}
