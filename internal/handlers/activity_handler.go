package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"crmdash/internal/models"
	"crmdash/internal/services"
)

type ActivityHandler struct {
	Service *services.ActivityService
}

func NewActivityHandler(service *services.ActivityService) *ActivityHandler {
	return &ActivityHandler{Service: service}
}

type activityRequest struct {
	Type        models.ActivityType `json:"type"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ContactID   string              `json:"contactId"`
	DealID      string              `json:"dealId"`
	DueDate     string              `json:"dueDate"`
	Completed   bool                `json:"completed"`
}

func (h *ActivityHandler) bind(c *gin.Context) (*models.Activity, bool) {
	var req activityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return nil, false
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	return &models.Activity{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		ContactID:   req.ContactID,
		DealID:      req.DealID,
		DueDate:     due,
		Completed:   req.Completed,
	}, true
}

// @Summary      Список активностей
// @Description  Вкладки: all, pending, completed, overdue; сортировка по dueDate
// @Tags         Activities
// @Produce      json
// @Param        filter  query  string  false  "all | pending | completed | overdue"
// @Param        page    query  int     false  "Страница"
// @Param        size    query  int     false  "Размер страницы"
// @Success      200     {array}  models.Activity
// @Security     BearerAuth
// @Router       /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, total, err := h.Service.List(c.Request.Context(),
		models.ActivityFilter(c.DefaultQuery("filter", "all")),
		services.ListOptions{Limit: limit, Offset: offset},
	)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header(headerTotal, strconv.Itoa(total))
	c.JSON(http.StatusOK, list)
}

func (h *ActivityHandler) Stats(c *gin.Context) {
	st, err := h.Service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *ActivityHandler) GetByID(c *gin.Context) {
	a, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *ActivityHandler) Create(c *gin.Context) {
	a, ok := h.bind(c)
	if !ok {
		return
	}
	created, err := h.Service.Create(c.Request.Context(), a)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ActivityHandler) Update(c *gin.Context) {
	a, ok := h.bind(c)
	if !ok {
		return
	}
	a.ID = c.Param("id")
	updated, err := h.Service.Update(c.Request.Context(), a)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ActivityHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Отметить выполненной / снять отметку
// @Tags         Activities
// @Produce      json
// @Param        id  path  string  true  "ID активности"
// @Success      200  {object}  models.Activity
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /activities/{id}/toggle [post]
func (h *ActivityHandler) Toggle(c *gin.Context) {
	a, err := h.Service.ToggleComplete(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

type digestRequest struct {
	To string `json:"to" binding:"required"`
}

// Digest mails open activities; admin only.
func (h *ActivityHandler) Digest(c *gin.Context) {
	var req digestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.Service.Digest(c.Request.Context(), strings.TrimSpace(req.To))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true, "activities": n})
}
