package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"board-champions-backend/internal/domain"
	"board-champions-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// profileColumns selects a candidate row plus the owning user. Salary is read
// as text so the exact stored value reaches the caller.
const profileColumns = `
	cp.id, cp.user_id, cp.title, cp.summary, cp.experience, cp.location,
	cp.remote_preference, cp.availability,
	cp.salary_min::text, cp.salary_max::text, cp.currency,
	cp.linkedin_url, cp.github_url, cp.portfolio_url,
	cp.is_active, cp.is_anonymized, cp.profile_completed,
	cp.created_at, cp.updated_at,
	u.id, u.first_name, u.last_name, u.email, u.image_url`

const profileFrom = `
	FROM candidate_profiles cp
	LEFT JOIN users u ON u.id = cp.user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

type candidateRepository struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepository{db: db}
}

func scanProfile(row rowScanner) (*domain.CandidateProfile, error) {
	var p domain.CandidateProfile
	var ownerID, firstName, lastName, email *string
	var imageURL *string

	err := row.Scan(
		&p.ID, &p.UserID, &p.Title, &p.Summary, &p.Experience, &p.Location,
		&p.RemotePreference, &p.Availability,
		&p.SalaryMin, &p.SalaryMax, &p.Currency,
		&p.LinkedinURL, &p.GithubURL, &p.PortfolioURL,
		&p.IsActive, &p.IsAnonymized, &p.ProfileCompleted,
		&p.CreatedAt, &p.UpdatedAt,
		&ownerID, &firstName, &lastName, &email, &imageURL,
	)
	if err != nil {
		return nil, err
	}

	if ownerID != nil {
		p.Owner = &domain.CandidateOwner{
			FirstName: deref(firstName),
			LastName:  deref(lastName),
			Email:     deref(email),
			ImageURL:  imageURL,
		}
	}
	p.Tags = []domain.Tag{}
	p.WorkExperiences = []domain.WorkExperience{}
	p.Educations = []domain.Education{}
	return &p, nil
}

func (r *candidateRepository) getOne(ctx context.Context, where string, arg any) (*domain.CandidateProfile, error) {
	query := `SELECT ` + profileColumns + profileFrom + ` WHERE ` + where

	p, err := scanProfile(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch candidate profile: %w", err)
	}

	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *candidateRepository) GetByID(ctx context.Context, id string) (*domain.CandidateProfile, error) {
	return r.getOne(ctx, "cp.id = $1", id)
}

func (r *candidateRepository) GetByUserID(ctx context.Context, userID string) (*domain.CandidateProfile, error) {
	return r.getOne(ctx, "cp.user_id = $1", userID)
}

func (r *candidateRepository) loadChildren(ctx context.Context, p *domain.CandidateProfile) error {
	tags, err := r.tagsFor(ctx, []string{p.ID})
	if err != nil {
		return err
	}
	if t, ok := tags[p.ID]; ok {
		p.Tags = t
	}

	workQuery := `
		SELECT id, company_name, title, description, start_date, end_date, is_current
		FROM work_experiences WHERE candidate_id = $1
		ORDER BY is_current DESC, start_date DESC NULLS LAST, id`
	rows, err := r.db.Query(ctx, workQuery, p.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch work experiences: %w", err)
	}
	for rows.Next() {
		var w domain.WorkExperience
		if err := rows.Scan(&w.ID, &w.CompanyName, &w.Title, &w.Description, &w.StartDate, &w.EndDate, &w.IsCurrent); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan work experience: %w", err)
		}
		p.WorkExperiences = append(p.WorkExperiences, w)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	eduQuery := `
		SELECT id, institution, degree, field_of_study, graduation_year
		FROM educations WHERE candidate_id = $1
		ORDER BY graduation_year DESC NULLS LAST, id`
	rows, err = r.db.Query(ctx, eduQuery, p.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch educations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.Education
		if err := rows.Scan(&e.ID, &e.Institution, &e.Degree, &e.FieldOfStudy, &e.GraduationYear); err != nil {
			return fmt.Errorf("failed to scan education: %w", err)
		}
		p.Educations = append(p.Educations, e)
	}
	return rows.Err()
}

// tagsFor loads tags for many candidates at once, in join order.
func (r *candidateRepository) tagsFor(ctx context.Context, candidateIDs []string) (map[string][]domain.Tag, error) {
	out := make(map[string][]domain.Tag, len(candidateIDs))
	if len(candidateIDs) == 0 {
		return out, nil
	}

	query := `
		SELECT ct.candidate_id, t.id, t.name, t.category
		FROM candidate_tags ct
		JOIN tags t ON t.id = ct.tag_id
		WHERE ct.candidate_id = ANY($1::uuid[])
		ORDER BY ct.id`
	rows, err := r.db.Query(ctx, query, pq.Array(candidateIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candidate tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var candidateID string
		var t domain.Tag
		if err := rows.Scan(&candidateID, &t.ID, &t.Name, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		out[candidateID] = append(out[candidateID], t)
	}
	return out, rows.Err()
}

func (r *candidateRepository) Create(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		INSERT INTO candidate_profiles (
			user_id, title, summary, experience, location, remote_preference, availability,
			salary_min, salary_max, currency, linkedin_url, github_url, portfolio_url,
			is_active, is_anonymized, profile_completed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9::numeric, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.UserID, p.Title, p.Summary, p.Experience, p.Location, p.RemotePreference, p.Availability,
		p.SalaryMin, p.SalaryMax, p.Currency, p.LinkedinURL, p.GithubURL, p.PortfolioURL,
		p.IsActive, p.IsAnonymized, p.ProfileCompleted,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("Candidate profile already exists")
		}
		return fmt.Errorf("failed to create candidate profile: %w", err)
	}
	return nil
}

func (r *candidateRepository) Update(ctx context.Context, p *domain.CandidateProfile) error {
	query := `
		UPDATE candidate_profiles SET
			title = $2, summary = $3, experience = $4, location = $5,
			remote_preference = $6, availability = $7,
			salary_min = $8::numeric, salary_max = $9::numeric, currency = $10,
			linkedin_url = $11, github_url = $12, portfolio_url = $13,
			is_anonymized = $14, profile_completed = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Title, p.Summary, p.Experience, p.Location,
		p.RemotePreference, p.Availability,
		p.SalaryMin, p.SalaryMax, p.Currency,
		p.LinkedinURL, p.GithubURL, p.PortfolioURL,
		p.IsAnonymized, p.ProfileCompleted,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update candidate profile: %w", err)
	}
	return nil
}

// ReplaceTags swaps the candidate's tag set; insertion order becomes join order.
func (r *candidateRepository) ReplaceTags(ctx context.Context, candidateID string, tagIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM candidate_tags WHERE candidate_id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}

	for _, tagID := range tagIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO candidate_tags (candidate_id, tag_id) VALUES ($1, $2) ON CONFLICT (candidate_id, tag_id) DO NOTHING`,
			candidateID, tagID)
		if err != nil {
			return fmt.Errorf("failed to insert tag %d: %w", tagID, err)
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE candidate_profiles SET updated_at = NOW() WHERE id = $1`, candidateID); err != nil {
		return fmt.Errorf("failed to touch candidate profile: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *candidateRepository) Search(ctx context.Context, filter domain.CandidateFilter) ([]domain.CandidateProfile, int64, error) {
	conditions := []string{"cp.is_active = TRUE", "cp.profile_completed = TRUE"}
	args := []any{}
	argIndex := 1

	if filter.Experience != "" {
		conditions = append(conditions, fmt.Sprintf("cp.experience = $%d", argIndex))
		args = append(args, filter.Experience)
		argIndex++
	}
	if filter.Availability != "" {
		conditions = append(conditions, fmt.Sprintf("cp.availability = $%d", argIndex))
		args = append(args, filter.Availability)
		argIndex++
	}
	if filter.RemotePreference != "" {
		conditions = append(conditions, fmt.Sprintf("cp.remote_preference = $%d", argIndex))
		args = append(args, filter.RemotePreference)
		argIndex++
	}
	if filter.Location != "" {
		conditions = append(conditions, fmt.Sprintf("cp.location ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLike(filter.Location)+"%")
		argIndex++
	}
	if filter.TagID > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM candidate_tags ct WHERE ct.candidate_id = cp.id AND ct.tag_id = $%d)", argIndex))
		args = append(args, filter.TagID)
		argIndex++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM candidate_profiles cp WHERE ` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY cp.updated_at DESC, cp.id LIMIT $%d OFFSET $%d`,
		profileColumns, profileFrom, whereClause, argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	profiles, err := r.queryProfiles(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(profiles))
	for i := range profiles {
		ids[i] = profiles[i].ID
	}
	tags, err := r.tagsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range profiles {
		if t, ok := tags[profiles[i].ID]; ok {
			profiles[i].Tags = t
		}
	}

	return profiles, total, nil
}

func (r *candidateRepository) ListAll(ctx context.Context) ([]domain.CandidateProfile, error) {
	query := `SELECT ` + profileColumns + profileFrom + ` ORDER BY cp.created_at, cp.id`
	return r.queryProfiles(ctx, query)
}

func (r *candidateRepository) SetProfileCompleted(ctx context.Context, id string, completed bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE candidate_profiles SET profile_completed = $2, updated_at = NOW() WHERE id = $1`,
		id, completed)
	if err != nil {
		return fmt.Errorf("failed to set profile_completed: %w", err)
	}
	return nil
}

func (r *candidateRepository) queryProfiles(ctx context.Context, query string, args ...any) ([]domain.CandidateProfile, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.CandidateProfile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

// normalizePage clamps paging to page >= 1 and 1..100 items, default 20.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
