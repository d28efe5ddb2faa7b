package v1

import (
	"net/http"

	"board-champions-backend/internal/delivery/http/middleware"
	"board-champions-backend/internal/delivery/http/response"
	"board-champions-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyUC domain.CompanyUsecase
}

func NewCompanyHandler(protected *gin.RouterGroup, companyUC domain.CompanyUsecase) {
	handler := &CompanyHandler{companyUC: companyUC}

	company := protected.Group("", middleware.RequireRole(domain.RoleCompany))
	{
		company.POST("/candidates/:id/unlock", handler.Unlock)
		company.GET("/companies/me/credits", handler.GetCredits)
	}
}

// Unlock godoc
// @Summary      Unlock a candidate profile
// @Description  Spends credits to purchase access. Unlocking an already purchased profile is free.
// @Tags         companies
// @Produce      json
// @Param        id   path      string  true  "Candidate profile ID"
// @Success      200  {object}  response.Response{data=domain.UnlockResult}
// @Failure      402  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /candidates/{id}/unlock [post]
// @Security     BearerAuth
func (h *CompanyHandler) Unlock(c *gin.Context) {
	result, err := h.companyUC.Unlock(c, c.GetString(string(domain.KeyUserID)), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	message := "Profile unlocked"
	if result.AlreadyUnlocked {
		message = "Profile already unlocked"
	}
	response.Success(c, http.StatusOK, message, result)
}

// GetCredits godoc
// @Summary      Get credit balance
// @Tags         companies
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CreditBalance}
// @Failure      404  {object}  response.Response
// @Router       /companies/me/credits [get]
// @Security     BearerAuth
func (h *CompanyHandler) GetCredits(c *gin.Context) {
	balance, err := h.companyUC.GetCredits(c, c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Credit balance", balance)
}
