package usecase

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"board-champions-backend/internal/domain"
	"board-champions-backend/internal/profile"
	"board-champions-backend/pkg/apperror"
	"board-champions-backend/pkg/audit"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type adminUsecase struct {
	adminRepo domain.AdminRepository
	audit     *audit.Logger
}

func NewAdminUsecase(adminRepo domain.AdminRepository, auditLog *audit.Logger) domain.AdminUsecase {
	return &adminUsecase{adminRepo: adminRepo, audit: auditLog}
}

// ListCandidates returns paginated candidates with their completion state
func (u *adminUsecase) ListCandidates(ctx context.Context, active *bool, page, pageSize int) (*domain.PaginatedResult[domain.AdminCandidate], error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	profiles, total, err := u.adminRepo.ListCandidates(ctx, active, page, pageSize)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to fetch candidates: %w", err))
	}

	rows := make([]domain.AdminCandidate, 0, len(profiles))
	for i := range profiles {
		rows = append(rows, toAdminCandidate(&profiles[i]))
	}

	return &domain.PaginatedResult[domain.AdminCandidate]{
		Data:       rows,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// SetCandidateStatus soft-deletes (active=false) or restores a candidate
func (u *adminUsecase) SetCandidateStatus(ctx context.Context, candidateID string, active bool) (*domain.AdminCandidate, error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(candidateID); err != nil {
		return nil, apperror.BadRequest("Invalid candidate ID")
	}

	found, err := u.adminRepo.SetActive(ctx, candidateID, active)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update candidate: %w", err))
	}
	if !found {
		return nil, apperror.NotFound("Candidate not found")
	}

	u.audit.CandidateFlagChanged(ctx, audit.EventCandidateStatusChanged,
		domain.ContextString(ctx, domain.KeyUserID), candidateID, "is_active", active)
	return &domain.AdminCandidate{ID: candidateID, IsActive: active}, nil
}

// SetCandidateAnonymity forces anonymization on or off
func (u *adminUsecase) SetCandidateAnonymity(ctx context.Context, candidateID string, anonymized bool) (*domain.AdminCandidate, error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(candidateID); err != nil {
		return nil, apperror.BadRequest("Invalid candidate ID")
	}

	found, err := u.adminRepo.SetAnonymized(ctx, candidateID, anonymized)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("failed to update candidate: %w", err))
	}
	if !found {
		return nil, apperror.NotFound("Candidate not found")
	}

	u.audit.CandidateFlagChanged(ctx, audit.EventCandidateAnonymityChanged,
		domain.ContextString(ctx, domain.KeyUserID), candidateID, "is_anonymized", anonymized)
	return &domain.AdminCandidate{ID: candidateID, IsAnonymized: anonymized}, nil
}

var exportColumns = []string{
	"ID", "FULL NAME", "EMAIL", "TITLE", "LOCATION",
	"ACTIVE", "ANONYMIZED", "COMPLETED", "COMPLETION %", "CREATED AT",
}

// ExportCandidates renders the full candidate listing as an xlsx workbook
func (u *adminUsecase) ExportCandidates(ctx context.Context, active *bool) ([]byte, string, error) {
	if err := u.requireAdmin(ctx); err != nil {
		return nil, "", err
	}

	profiles, _, err := u.adminRepo.ListCandidates(ctx, active, 0, 0)
	if err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to fetch candidates: %w", err))
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Candidates"
	f.SetSheetName("Sheet1", sheetName)

	for i, header := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx := range profiles {
		c := toAdminCandidate(&profiles[rowIdx])
		values := []interface{}{
			c.ID, c.FullName, c.Email, deref(c.Title), deref(c.Location),
			yesNo(c.IsActive), yesNo(c.IsAnonymized), yesNo(c.ProfileCompleted),
			c.CompletionPercentage, c.CreatedAt,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}

	u.audit.Log(ctx, audit.Event{
		Event:   audit.EventCandidateExport,
		ActorID: domain.ContextString(ctx, domain.KeyUserID),
		Details: map[string]interface{}{"rows": len(profiles)},
	})

	filename := fmt.Sprintf("candidates_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// requireAdmin checks if the current user has admin role
func (u *adminUsecase) requireAdmin(ctx context.Context) error {
	if domain.ContextString(ctx, domain.KeyUserRole) != domain.RoleAdmin {
		return apperror.Forbidden("Admin access required")
	}
	return nil
}

func toAdminCandidate(p *domain.CandidateProfile) domain.AdminCandidate {
	completion := profile.ScoreProfile(p)
	c := domain.AdminCandidate{
		ID:                   p.ID,
		UserID:               p.UserID,
		Title:                p.Title,
		Location:             p.Location,
		IsActive:             p.IsActive,
		IsAnonymized:         p.IsAnonymized,
		ProfileCompleted:     p.ProfileCompleted,
		CompletionPercentage: completion.OverallPercentage,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Owner != nil {
		c.Email = p.Owner.Email
		c.FullName = strings.TrimSpace(p.Owner.FirstName + " " + p.Owner.LastName)
	}
	return c
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
