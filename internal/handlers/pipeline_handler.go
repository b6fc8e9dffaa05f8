package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crmdash/internal/models"
	"crmdash/internal/services"
)

type PipelineHandler struct {
	Service *services.PipelineService
}

func NewPipelineHandler(service *services.PipelineService) *PipelineHandler {
	return &PipelineHandler{Service: service}
}

// @Summary      Воронка продаж
// @Description  Колонки по этапам в каноническом порядке с количеством и суммой
// @Tags         Pipeline
// @Produce      json
// @Param        contactId  query  string  false  "Фильтр по контакту"
// @Param        q          query  string  false  "Поиск по названию сделки"
// @Success      200  {array}  models.StageColumn
// @Security     BearerAuth
// @Router       /pipeline [get]
func (h *PipelineHandler) Board(c *gin.Context) {
	board, err := h.Service.Board(c.Request.Context(), models.DealFilter{
		ContactID: c.Query("contactId"),
		Query:     c.Query("q"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (h *PipelineHandler) Summary(c *gin.Context) {
	sum, err := h.Service.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func (h *PipelineHandler) Stages(c *gin.Context) {
	c.JSON(http.StatusOK, models.Stages)
}
