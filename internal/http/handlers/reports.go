package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"busops/internal/domain"
	"busops/internal/reports"
	"busops/internal/utils"
)

// GET /api/reports?type=...&dateFrom=...&dateTo=...
// format=pdf returns the report as a PDF document.
func (h *Handler) GetReport(c *gin.Context) {
	var f reports.Filter
	if err := c.ShouldBindQuery(&f); err != nil {
		RespondDomainError(c, domain.ValidationError{Msg: "invalid query", Err: err})
		return
	}
	report, err := h.Svc.Report(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if !strings.EqualFold(strings.TrimSpace(c.Query("format")), "pdf") {
		c.JSON(http.StatusOK, report)
		return
	}
	pdfBytes, filename, err := reports.RenderPDF(report)
	if err != nil {
		utils.LogEvent(requestID(c), "reports", "render_pdf", err.Error())
		RespondError(c, http.StatusInternalServerError, "failed to render report")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
