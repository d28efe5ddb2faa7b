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

type CandidateHandler struct {
	candidateUC domain.CandidateUsecase
}

// NewCandidateHandler mounts the public profile routes on public (optional
// auth) and the self-service routes on protected.
func NewCandidateHandler(public, protected *gin.RouterGroup, candidateUC domain.CandidateUsecase, profileLimit gin.HandlerFunc) {
	handler := &CandidateHandler{candidateUC: candidateUC}

	me := protected.Group("/candidates/me", middleware.RequireRole(domain.RoleCandidate))
	{
		me.GET("", handler.GetOwnProfile)
		me.POST("", handler.Register)
		me.PUT("", handler.UpdateProfile)
		me.PUT("/tags", handler.AssignTags)
		me.GET("/completion", handler.GetCompletion)
	}

	candidates := public.Group("/candidates")
	{
		candidates.GET("", handler.BrowseProfiles)
		candidates.GET("/:id", profileLimit, handler.GetPublicProfile)
	}
}

// requestAuth reads whatever the optional auth middleware established.
func requestAuth(c *gin.Context) domain.RequestAuth {
	var a domain.RequestAuth
	if id := c.GetString(string(domain.KeyUserID)); id != "" {
		a.UserID = &id
		a.Role = c.GetString(string(domain.KeyUserRole))
	}
	return a
}

// GetPublicProfile godoc
// @Summary      Get a candidate profile
// @Description  Returns the profile shaped for the caller. Anonymized profiles are masked unless the caller owns them.
// @Tags         candidates
// @Produce      json
// @Param        id   path      string  true  "Candidate profile ID"
// @Success      200  {object}  response.Response{data=domain.ProfilePayload}
// @Failure      404  {object}  response.Response
// @Failure      429  {object}  response.Response
// @Router       /candidates/{id} [get]
func (h *CandidateHandler) GetPublicProfile(c *gin.Context) {
	payload, err := h.candidateUC.GetPublicProfile(c, c.Param("id"), requestAuth(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate profile", payload)
}

// BrowseProfiles godoc
// @Summary      Browse candidate profiles
// @Description  Paginated list of active, completed profiles, each shaped for the caller
// @Tags         candidates
// @Produce      json
// @Param        experience        query  string  false  "Experience bucket"
// @Param        availability      query  string  false  "Availability bucket"
// @Param        remotePreference  query  string  false  "remote, hybrid, onsite or flexible"
// @Param        location          query  string  false  "Location substring"
// @Param        tag               query  int     false  "Tag ID"
// @Param        page              query  int     false  "Page number"
// @Param        pageSize          query  int     false  "Items per page"
// @Success      200  {object}  response.Response{data=domain.PaginatedResult[domain.ProfilePayload]}
// @Failure      400  {object}  response.Response
// @Router       /candidates [get]
func (h *CandidateHandler) BrowseProfiles(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	var tagID int64
	if raw := c.Query("tag"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			c.Error(apperror.BadRequest("Invalid tag filter"))
			return
		}
		tagID = id
	}

	filter := domain.CandidateFilter{
		Experience:       c.Query("experience"),
		Availability:     c.Query("availability"),
		RemotePreference: c.Query("remotePreference"),
		Location:         c.Query("location"),
		TagID:            tagID,
		Page:             page,
		PageSize:         pageSize,
	}

	result, err := h.candidateUC.BrowseProfiles(c, filter, requestAuth(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate profiles", result)
}

// GetOwnProfile godoc
// @Summary      Get own candidate profile
// @Description  Full record of the signed-in candidate with completion state
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.OwnProfile}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/me [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetOwnProfile(c *gin.Context) {
	out, err := h.candidateUC.GetOwnProfile(c, c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate profile", out)
}

// Register godoc
// @Summary      Register a candidate profile
// @Description  Creates the signed-in candidate's profile from the registration form
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CandidateProfileInput  true  "Profile fields"
// @Success      201   {object}  response.Response{data=domain.OwnProfile}
// @Failure      400   {object}  response.Response
// @Failure      409   {object}  response.Response
// @Router       /candidates/me [post]
// @Security     BearerAuth
func (h *CandidateHandler) Register(c *gin.Context) {
	var input domain.CandidateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	out, err := h.candidateUC.Register(c, c.GetString(string(domain.KeyUserID)), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Candidate profile created", out)
}

// UpdateProfile godoc
// @Summary      Update own candidate profile
// @Description  Sets the supplied fields; an empty string clears a field
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CandidateProfileInput  true  "Profile fields"
// @Success      200   {object}  response.Response{data=domain.OwnProfile}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /candidates/me [put]
// @Security     BearerAuth
func (h *CandidateHandler) UpdateProfile(c *gin.Context) {
	var input domain.CandidateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	out, err := h.candidateUC.UpdateProfile(c, c.GetString(string(domain.KeyUserID)), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Candidate profile updated", out)
}

// AssignTags godoc
// @Summary      Replace own tags
// @Description  Replaces the candidate's tags; request order is kept
// @Tags         candidates
// @Accept       json
// @Produce      json
// @Param        body  body      domain.AssignTagsRequest  true  "Tag IDs"
// @Success      200   {object}  response.Response{data=domain.OwnProfile}
// @Failure      400   {object}  response.Response
// @Router       /candidates/me/tags [put]
// @Security     BearerAuth
func (h *CandidateHandler) AssignTags(c *gin.Context) {
	var req domain.AssignTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	out, err := h.candidateUC.AssignTags(c, c.GetString(string(domain.KeyUserID)), req.TagIDs)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Tags updated", out)
}

// GetCompletion godoc
// @Summary      Get own profile completion
// @Tags         candidates
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CompletionResult}
// @Failure      404  {object}  response.Response
// @Router       /candidates/me/completion [get]
// @Security     BearerAuth
func (h *CandidateHandler) GetCompletion(c *gin.Context) {
	result, err := h.candidateUC.GetCompletion(c, c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile completion", result)
}
