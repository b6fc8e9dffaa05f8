package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crmdash/internal/models"
	"crmdash/internal/services"
)

type ContactHandler struct {
	Service *services.ContactService
}

func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{Service: service}
}

// @Summary      Список контактов
// @Description  Поиск по имени, фамилии, email и компании (без учёта регистра)
// @Tags         Contacts
// @Produce      json
// @Param        q     query  string  false  "Поиск"
// @Param        page  query  int     false  "Страница"
// @Param        size  query  int     false  "Размер страницы"
// @Success      200   {array}  models.Contact
// @Security     BearerAuth
// @Router       /contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	contacts, total, err := h.Service.List(c.Request.Context(), services.ListOptions{
		Search: c.Query("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header(headerTotal, strconv.Itoa(total))
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) GetByID(c *gin.Context) {
	contact, err := h.Service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary      Создать контакт
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Param        contact  body      models.Contact  true  "Контакт"
// @Success      201      {object}  models.Contact
// @Failure      400      {object}  map[string]string
// @Security     BearerAuth
// @Router       /contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	var body models.Contact
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	created, err := h.Service.Create(c.Request.Context(), &body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var body models.Contact
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	body.ID = c.Param("id")
	updated, err := h.Service.Update(c.Request.Context(), &body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
