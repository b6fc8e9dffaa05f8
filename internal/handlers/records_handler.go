package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crmdash/internal/recordstore"
)

// RecordHandler exposes the record store over the same HTTP protocol the
// remote client speaks, so one crmdash can back another.
type RecordHandler struct {
	Store recordstore.Client
}

func NewRecordHandler(store recordstore.Client) *RecordHandler {
	return &RecordHandler{Store: store}
}

type recordsRequest struct {
	Records []recordstore.Record `json:"records" binding:"required"`
}

type deleteRecordsRequest struct {
	RecordIDs []string `json:"RecordIds" binding:"required"`
}

func (h *RecordHandler) storeError(c *gin.Context, err error) {
	if errors.Is(err, recordstore.ErrMissingTable) || errors.Is(err, recordstore.ErrMissingID) {
		badRequest(c, err)
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "record store failure"})
}

func (h *RecordHandler) Query(c *gin.Context) {
	var q recordstore.Query
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&q); err != nil {
			badRequest(c, err)
			return
		}
	}
	resp, err := h.Store.FetchRecords(c.Request.Context(), c.Param("table"), q)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordHandler) Get(c *gin.Context) {
	var fields []string
	if f := strings.TrimSpace(c.Query("fields")); f != "" {
		fields = strings.Split(f, ",")
	}
	rec, err := h.Store.GetRecordByID(c.Request.Context(), c.Param("table"), c.Param("id"), fields)
	if err != nil {
		h.storeError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (h *RecordHandler) Create(c *gin.Context) {
	var req recordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Store.CreateRecords(c.Request.Context(), c.Param("table"), req.Records)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordHandler) Update(c *gin.Context) {
	var req recordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Store.UpdateRecords(c.Request.Context(), c.Param("table"), req.Records)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	var req deleteRecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := h.Store.DeleteRecords(c.Request.Context(), c.Param("table"), req.RecordIDs)
	if err != nil {
		h.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
