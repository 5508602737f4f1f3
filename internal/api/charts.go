package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"energyplan/server/internal/analysis"
	"energyplan/server/internal/chart"
)

// PostChart renders a report view as a PNG image. kind is monthly, duration or et.
func (h *Handler) PostChart(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse chart request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	kind := c.DefaultQuery("kind", "monthly")
	switch kind {
	case "monthly":
		req.View = string(analysis.ViewMonthly)
	case "duration":
		req.View = string(analysis.ViewHourly)
		req.DurationCurve = true
	case "et":
		req.View = string(analysis.ViewET)
	default:
		h.respondError(c, fmt.Errorf("%w: chart kind %s", analysis.ErrInvalidParameter, kind))
		return
	}

	report, ok := h.report(c, req)
	if !ok {
		return
	}

	style := h.catalog.Style(report.Scenario)
	var buf bytes.Buffer
	if err := chart.RenderReport(chart.NewRenderer(), &buf, report, style.Label, chart.HexColor(style.Color)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}
