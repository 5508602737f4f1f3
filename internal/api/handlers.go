package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"energyplan/server/config"
	"energyplan/server/internal/analysis"
	"energyplan/server/internal/geometry"
	"energyplan/server/internal/metrics"
	"energyplan/server/internal/models"
)

type Handler struct {
	analyzer *analysis.Analyzer
	catalog  *config.Catalog
	config   *config.Config
	extents  *geometry.ExtentBuilder
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

// SelectionRequest is a building area plus the GeoJSON drawn on the map.
type SelectionRequest struct {
	Area    string          `json:"area"`
	Drawing json.RawMessage `json:"drawing"`
}

type ReportRequest struct {
	SelectionRequest
	View           string   `json:"view"`
	Price          *float64 `json:"price"`
	EmissionFactor *float64 `json:"emission_factor"`
	DurationCurve  bool     `json:"duration_curve"`
}

type CompareRequest struct {
	SelectionRequest
	Category string `json:"category"`
}

type SelectionResponse struct {
	Area    string   `json:"area"`
	IDs     []string `json:"ids"`
	Count   int      `json:"count"`
	Empty   bool     `json:"empty"`
	Message string   `json:"message,omitempty"`
}

func NewHandler(analyzer *analysis.Analyzer, catalog *config.Catalog, cfg *config.Config, m *metrics.Metrics, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		analyzer: analyzer,
		catalog:  catalog,
		config:   cfg,
		extents:  geometry.NewExtentBuilder(logger),
		metrics:  m,
		logger:   logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	data := h.analyzer.Dataset()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"scenarios": len(data.Scenarios),
		"buildings": len(data.Buildings),
	})
}

// area resolves the requested building area, falling back to the default one.
func (h *Handler) area(id string) (string, error) {
	if id == "" {
		id = h.config.Analysis.DefaultArea
	}
	if h.catalog.AreaByID(id) == nil {
		return "", fmt.Errorf("%w: unknown building area %s", analysis.ErrInvalidParameter, id)
	}
	return id, nil
}

// selection parses the request's area and drawing.
func (h *Handler) selection(req SelectionRequest) (string, geometry.Selection, error) {
	area, err := h.area(req.Area)
	if err != nil {
		return "", geometry.Selection{}, err
	}
	sel, err := geometry.ParseDrawing(req.Drawing)
	if err != nil {
		return "", geometry.Selection{}, fmt.Errorf("%w: %v", analysis.ErrInvalidParameter, err)
	}
	return area, sel, nil
}

func (h *Handler) GetBuildings(c *gin.Context) {
	area, err := h.area(c.Query("area"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	scenario := c.DefaultQuery("scenario", h.analyzer.Reference())
	if !h.analyzer.Dataset().HasScenario(scenario) {
		h.respondError(c, fmt.Errorf("%w: %s", analysis.ErrUnknownScenario, scenario))
		return
	}

	buildings := h.analyzer.Dataset().BuildingsFor(scenario, area)
	c.JSON(http.StatusOK, geometry.BuildingFeatures(buildings))
}

func (h *Handler) GetExtent(c *gin.Context) {
	area, err := h.area(c.Query("area"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	feature := h.extents.Extent(area, h.analyzer.Dataset().BuildingsFor(h.analyzer.Reference(), area))
	if feature == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not enough buildings to compute an extent"})
		return
	}
	c.JSON(http.StatusOK, feature)
}

func (h *Handler) PostSelection(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse selection request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	area, sel, err := h.selection(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.analyzer.Select(area, sel)
	var empty *models.EmptySelectionError
	if errors.As(err, &empty) {
		h.metrics.Selection(0)
		c.JSON(http.StatusOK, SelectionResponse{Area: area, IDs: []string{}, Empty: true, Message: empty.Error()})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.metrics.Selection(len(result.IDs))
	c.JSON(http.StatusOK, SelectionResponse{Area: area, IDs: result.IDs, Count: len(result.IDs)})
}

func (h *Handler) PostOverview(c *gin.Context) {
	var req SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse overview request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	area, sel, err := h.selection(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	overview, err := h.analyzer.Overview(area, sel)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// reportOptions fills in the configured defaults for omitted parameters.
func (h *Handler) reportOptions(req ReportRequest) analysis.ReportOptions {
	opts := analysis.ReportOptions{
		View:           analysis.View(req.View),
		Price:          h.config.Analysis.DefaultPrice,
		EmissionFactor: h.config.Analysis.DefaultEmissionFactor,
		DurationCurve:  req.DurationCurve,
	}
	if req.Price != nil {
		opts.Price = *req.Price
	}
	if req.EmissionFactor != nil {
		opts.EmissionFactor = *req.EmissionFactor
	}
	return opts
}

func (h *Handler) report(c *gin.Context, req ReportRequest) (*analysis.Report, bool) {
	area, sel, err := h.selection(req.SelectionRequest)
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}

	report, err := h.analyzer.Report(c.Param("name"), area, sel, h.reportOptions(req))
	if err != nil {
		h.respondError(c, err)
		return nil, false
	}
	return report, true
}

func (h *Handler) PostReport(c *gin.Context) {
	var req ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse report request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	report, ok := h.report(c, req)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) PostCompare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Failed to parse compare request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	area, sel, err := h.selection(req.SelectionRequest)
	if err != nil {
		h.respondError(c, err)
		return
	}
	category := models.Category(req.Category)
	if category == "" {
		category = models.CategoryGridExchange
	}

	result, err := h.analyzer.CompareToReference(c.Param("name"), area, sel, category)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondError maps analysis failures to HTTP responses.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		shape      *models.DataShapeError
		empty      *models.EmptySelectionError
		degeneracy *models.NumericDegeneracyError
	)
	log := h.logger.WithError(err).WithField("path", c.FullPath())

	switch {
	case errors.As(err, &empty):
		h.metrics.Selection(0)
		c.JSON(http.StatusOK, gin.H{"empty": true, "message": empty.Error()})
	case errors.As(err, &shape):
		h.metrics.AnalysisError("data_shape")
		log.Error("Data inconsistency")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "data inconsistency", "detail": shape.Error()})
	case errors.As(err, &degeneracy):
		h.metrics.AnalysisError("numeric_degeneracy")
		log.Warn("Numeric degeneracy")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "numeric degeneracy", "detail": degeneracy.Error()})
	case errors.Is(err, analysis.ErrUnknownScenario):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, analysis.ErrUnknownView), errors.Is(err, analysis.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.metrics.AnalysisError("internal")
		log.Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
