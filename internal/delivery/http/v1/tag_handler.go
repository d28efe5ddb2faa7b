package v1

import (
	"net/http"

	"board-champions-backend/internal/delivery/http/response"
	"board-champions-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type TagHandler struct {
	tagUC domain.TagUsecase
}

func NewTagHandler(public *gin.RouterGroup, tagUC domain.TagUsecase) {
	handler := &TagHandler{tagUC: tagUC}
	public.GET("/tags", handler.List)
}

// List godoc
// @Summary      List tags
// @Tags         tags
// @Produce      json
// @Param        category  query     string  false  "skill, expertise, industry, certification, language or other"
// @Success      200       {object}  response.Response{data=[]domain.Tag}
// @Failure      400       {object}  response.Response
// @Router       /tags [get]
func (h *TagHandler) List(c *gin.Context) {
	tags, err := h.tagUC.List(c, c.Query("category"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Tags", tags)
}
