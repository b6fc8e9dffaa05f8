package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdash/internal/services"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(service *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: service}
}

// @Summary      Метрики главной страницы
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  models.DashboardMetrics
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	m, err := h.Service.Load(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
