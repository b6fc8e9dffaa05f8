package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmdash/internal/models"
	"crmdash/internal/services"
)

type DealHandler struct {
	Service  *services.DealService
	Pipeline *services.PipelineService
}

func NewDealHandler(service *services.DealService, pipeline *services.PipelineService) *DealHandler {
	return &DealHandler{Service: service, Pipeline: pipeline}
}

type dealRequest struct {
	Title             string       `json:"title"`
	Value             float64      `json:"value"`
	Stage             models.Stage `json:"stage"`
	Probability       int          `json:"probability"`
	ContactID         string       `json:"contactId"`
	ExpectedCloseDate string       `json:"expectedCloseDate"` // RFC3339 или 2006-01-02
}

func (r dealRequest) toModel() (*models.Deal, error) {
	closeDate, err := parseDate(r.ExpectedCloseDate)
	if err != nil {
		return nil, err
	}
	return &models.Deal{
		Title:             r.Title,
		Value:             r.Value,
		Stage:             r.Stage,
		Probability:       r.Probability,
		ContactID:         r.ContactID,
		ExpectedCloseDate: closeDate,
	}, nil
}

func (h *DealHandler) bind(c *gin.Context) (*models.Deal, bool) {
	var req dealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return nil, false
	}
	d, err := req.toModel()
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	return d, true
}

// @Summary      Список сделок
// @Tags         Deals
// @Produce      json
// @Param        q     query  string  false  "Поиск по названию"
// @Param        page  query  int     false  "Страница"
// @Param        size  query  int     false  "Размер страницы"
// @Success      200   {array}  models.Deal
// @Security     BearerAuth
// @Router       /deals [get]
func (h *DealHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	deals, total, err := h.Service.List(c.Request.Context(), services.ListOptions{
		Search: c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header(headerTotal, strconv.Itoa(total))
	c.JSON(http.StatusOK, deals)
}

func (h *DealHandler) GetByID(c *gin.Context) {
	deal, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

func (h *DealHandler) Create(c *gin.Context) {
	d, ok := h.bind(c)
	if !ok {
		return
	}
	created, err := h.Service.Create(c.Request.Context(), d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *DealHandler) Update(c *gin.Context) {
	d, ok := h.bind(c)
	if !ok {
		return
	}
	d.ID = c.Param("id")
	updated, err := h.Service.Update(c.Request.Context(), d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *DealHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type moveDealRequest struct {
	Stage models.Stage `json:"stage" binding:"required"`
}

// @Summary      Перенести сделку на этап
// @Description  Повторный перенос на текущий этап ничего не пишет (moved=false)
// @Tags         Deals
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "ID сделки"
// @Param        body  body  moveDealRequest  true  "Целевой этап"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /deals/{id}/stage [post]
func (h *DealHandler) Move(c *gin.Context) {
	var req moveDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	deal, moved, err := h.Pipeline.Move(c.Request.Context(), c.Param("id"), req.Stage)
	if err != nil {
		writeError(c, err)
		return
	}
	msg := "Deal moved to " + req.Stage.Name()
	if !moved {
		msg = "Deal already in " + req.Stage.Name()
	}
	c.JSON(http.StatusOK, gin.H{"deal": deal, "moved": moved, "message": msg})
}
