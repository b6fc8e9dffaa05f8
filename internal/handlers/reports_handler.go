package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crmdash/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(service *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: service}
}

// @Summary      PDF-отчёт по воронке
// @Tags         Reports
// @Produce      application/pdf
// @Success      200
// @Security     BearerAuth
// @Router       /reports/pipeline.pdf [get]
func (h *ReportHandler) PipelinePDF(c *gin.Context) {
	// рендерим в буфер: ошибка после начала записи уже не даст JSON
	var buf bytes.Buffer
	if err := h.Service.WritePipeline(c.Request.Context(), &buf); err != nil {
		writeError(c, err)
		return
	}
	name := fmt.Sprintf("pipeline_%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
