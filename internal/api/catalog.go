package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energyplan/server/config"
)

// ScenarioInfo is a scenario as offered to the scenario picker.
type ScenarioInfo struct {
	config.ScenarioStyle
	Reference bool `json:"reference"`
}

// ListScenarios returns the loaded scenarios with their labels and colours.
// The reference scenario comes first.
func (h *Handler) ListScenarios(c *gin.Context) {
	ref := h.analyzer.Reference()
	out := make([]ScenarioInfo, 0, len(h.analyzer.Dataset().Scenarios))
	if h.analyzer.Dataset().HasScenario(ref) {
		out = append(out, ScenarioInfo{ScenarioStyle: h.catalog.Style(ref), Reference: true})
	}
	for _, name := range h.analyzer.Scenarios() {
		out = append(out, ScenarioInfo{ScenarioStyle: h.catalog.Style(name)})
	}
	c.JSON(http.StatusOK, out)
}

// ListAreas returns the selectable building areas
func (h *Handler) ListAreas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": h.config.Analysis.DefaultArea,
		"areas":   h.catalog.Areas,
	})
}
