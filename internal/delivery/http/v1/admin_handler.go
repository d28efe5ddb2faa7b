package v1

import (
	"net/http"
	"strconv"

	"board-champions-backend/internal/delivery/http/middleware"
	"board-champions-backend/internal/delivery/http/response"
	"board-champions-backend/internal/domain"
	"board-champions-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	{
		admin.GET("/candidates", handler.ListCandidates)
		admin.GET("/candidates/export", handler.ExportCandidates)
		admin.PATCH("/candidates/:id/status", handler.SetCandidateStatus)
		admin.PATCH("/candidates/:id/anonymity", handler.SetCandidateAnonymity)
	}
}

// activeFilter parses the optional ?active= query parameter.
func activeFilter(c *gin.Context) (*bool, error) {
	raw := c.Query("active")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperror.BadRequest("active must be true or false")
	}
	return &v, nil
}

// ListCandidates godoc
// @Summary      List candidates
// @Description  Paginated candidate listing with completion state
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        active    query     bool  false  "Filter by active flag"
// @Param        page      query     int   false  "Page number"
// @Param        pageSize  query     int   false  "Items per page"
// @Success      200       {object}  response.Response{data=domain.PaginatedResult[domain.AdminCandidate]}
// @Failure      403       {object}  response.Response
// @Router       /admin/candidates [get]
func (h *AdminHandler) ListCandidates(c *gin.Context) {
	active, err := activeFilter(c)
	if err != nil {
		c.Error(err)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	result, err := h.adminUC.ListCandidates(c, active, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidates list", result)
}

// SetCandidateStatus godoc
// @Summary      Deactivate or restore a candidate
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                           true  "Candidate profile ID"
// @Param        body  body      domain.SetCandidateStatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.AdminCandidate}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/candidates/{id}/status [patch]
func (h *AdminHandler) SetCandidateStatus(c *gin.Context) {
	var req domain.SetCandidateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("isActive is required"))
		return
	}

	result, err := h.adminUC.SetCandidateStatus(c, c.Param("id"), *req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate status updated", result)
}

// SetCandidateAnonymity godoc
// @Summary      Force anonymization on or off
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                              true  "Candidate profile ID"
// @Param        body  body      domain.SetCandidateAnonymityRequest  true  "New anonymity flag"
// @Success      200   {object}  response.Response{data=domain.AdminCandidate}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/candidates/{id}/anonymity [patch]
func (h *AdminHandler) SetCandidateAnonymity(c *gin.Context) {
	var req domain.SetCandidateAnonymityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("isAnonymized is required"))
		return
	}

	result, err := h.adminUC.SetCandidateAnonymity(c, c.Param("id"), *req.IsAnonymized)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate anonymity updated", result)
}

// ExportCandidates godoc
// @Summary      Export candidates to Excel
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        active  query  bool  false  "Filter by active flag"
// @Success      200     {file}    binary
// @Failure      403     {object}  response.Response
// @Router       /admin/candidates/export [get]
func (h *AdminHandler) ExportCandidates(c *gin.Context) {
	active, err := activeFilter(c)
	if err != nil {
		c.Error(err)
		return
	}

	data, filename, err := h.adminUC.ExportCandidates(c, active)
	if err != nil {
		c.Error(err)
		return
	}
	response.Attachment(c, http.StatusOK, filename, xlsxContentType, data)
}
