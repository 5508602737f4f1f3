package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"energyplan/server/config"
	"energyplan/server/internal/analysis"
	"energyplan/server/internal/metrics"
	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

const (
	unitSquare = `{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}}`
	farAway    = `{"type":"Polygon","coordinates":[[[10,10],[11,10],[11,11],[10,11],[10,10]]]}`
	point      = `{"type":"Feature","properties":{},"geometry":{"type":"Point","coordinates":[0.5,0.5]}}`
)

func constantTable(scenario string, values map[string]float64) *models.HourlyTable {
	t := models.NewHourlyTable(scenario)
	for _, c := range models.Categories {
		for id, v := range values {
			s := timeseries.Zeros()
			for i := range s {
				s[i] = v
			}
			t.Put(c, id, s)
		}
	}
	return t
}

func testDataset() *models.Dataset {
	buildings := []models.Building{
		{ObjectID: "1", Scenario: "Referansesituasjon", X: 0.25, Y: 0.25, AreaID: "E"},
		{ObjectID: "2", Scenario: "Referansesituasjon", X: 0.75, Y: 0.75, AreaID: "E"},
		{ObjectID: "3", Scenario: "Referansesituasjon", X: 5, Y: 4, AreaID: "E"},
		{ObjectID: "1", Scenario: "Bergvarme", X: 0.25, Y: 0.25, AreaID: "E", GroundSource: true, WellMeters: 300},
		{ObjectID: "2", Scenario: "Bergvarme", X: 0.75, Y: 0.75, AreaID: "E"},
		{ObjectID: "3", Scenario: "Bergvarme", X: 5, Y: 4, AreaID: "E"},
	}

	hp := constantTable("Bergvarme", map[string]float64{"1": 1, "2": 2, "3": 3})
	for id, s := range hp.Series[models.CategoryGridExchange] {
		hp.Series[models.CategoryGridExchange][id] = timeseries.Scale(0.5, s)
	}
	broken := models.NewHourlyTable("Odelagt")
	broken.Put(models.CategoryGridExchange, "1", []float64{1, 2, 3})

	temperature := timeseries.Zeros()
	for i := range temperature {
		temperature[i] = float64(i%24) - 10
	}

	return &models.Dataset{
		Buildings: buildings,
		Hourly: map[string]*models.HourlyTable{
			"Referansesituasjon": constantTable("Referansesituasjon", map[string]float64{"1": 1, "2": 2, "3": 3}),
			"Bergvarme":          hp,
			"Tom":                constantTable("Tom", map[string]float64{"1": 0, "2": 0, "3": 0}),
			"Odelagt":            broken,
		},
		Temperature: temperature,
		Scenarios:   []string{"Bergvarme", "Referansesituasjon", "Tom", "Odelagt"},
	}
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Analysis.DefaultArea = "E"
	cfg.Analysis.DefaultPrice = 1
	cfg.Analysis.DefaultEmissionFactor = 17

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	catalog := config.DefaultCatalog
	m := metrics.NewMetrics()

	analyzer := analysis.NewAnalyzer(testDataset(), "Referansesituasjon", logger)
	handler := NewHandler(analyzer, &catalog, cfg, m, logger)
	return NewRouter(handler, m, []string{"*"})
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func selectionBody(drawing string) string {
	return `{"area":"E","drawing":` + drawing + `}`
}

func TestHealth(t *testing.T) {
	router := setupRouter(t)
	rec := do(router, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestListScenarios(t *testing.T) {
	router := setupRouter(t)
	rec := do(router, http.MethodGet, "/api/scenarios", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []ScenarioInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 4)
	assert.Equal(t, "Referansesituasjon", out[0].Name)
	assert.True(t, out[0].Reference)
	assert.Equal(t, "Bergvarme", out[1].Name)
	assert.Equal(t, "#c76900", out[1].Color)
	assert.False(t, out[1].Reference)
	assert.Equal(t, "Tom", out[2].Label)
}

func TestListAreas(t *testing.T) {
	router := setupRouter(t)
	rec := do(router, http.MethodGet, "/api/areas", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "E", out["default"])
	assert.Len(t, out["areas"], 4)
}

func TestGetBuildings(t *testing.T) {
	router := setupRouter(t)

	rec := do(router, http.MethodGet, "/api/buildings?area=E&scenario=Bergvarme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "FeatureCollection", out["type"])
	assert.Len(t, out["features"], 3)

	rec = do(router, http.MethodGet, "/api/buildings?area=P1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["features"])

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/buildings?scenario=Solceller", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodGet, "/api/buildings?area=Z", "").Code)
}

func TestGetExtent(t *testing.T) {
	router := setupRouter(t)

	rec := do(router, http.MethodGet, "/api/extent?area=E", "")
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Feature", out["type"])

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/api/extent?area=P2", "").Code)
}

func TestPostSelection(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name    string
		drawing string
		count   int
		empty   bool
	}{
		{"polygon", unitSquare, 2, false},
		{"outside data", farAway, 0, true},
		{"point is no-op", point, 3, false},
		{"no drawing", "null", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, "/api/selection", selectionBody(tt.drawing))
			require.Equal(t, http.StatusOK, rec.Code)

			var out SelectionResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
			assert.Equal(t, tt.count, out.Count)
			assert.Len(t, out.IDs, tt.count)
			assert.Equal(t, tt.empty, out.Empty)
		})
	}

	rec := do(router, http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), "selection_empty_total 1")
}

func TestPostSelectionBadInput(t *testing.T) {
	router := setupRouter(t)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/selection", `{"area":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/selection", selectionBody(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`)).Code)
	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/api/selection", `{"area":"X"}`).Code)
}

func TestPostOverview(t *testing.T) {
	router := setupRouter(t)
	rec := do(router, http.MethodPost, "/api/overview", selectionBody(unitSquare))
	require.Equal(t, http.StatusOK, rec.Code)

	var out analysis.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Referansesituasjon", out.Scenario)
	assert.Equal(t, 2, out.BuildingCount)
	assert.Equal(t, 6.0, out.Delivered.Peak)
}

func TestPostReport(t *testing.T) {
	router := setupRouter(t)

	rec := do(router, http.MethodPost, "/api/scenarios/Bergvarme/report", selectionBody(unitSquare))
	require.Equal(t, http.StatusOK, rec.Code)
	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, analysis.ViewMonthly, report.View)
	require.NotNil(t, report.Monthly)
	assert.Equal(t, 6.0*744, report.Monthly.Before.MonthlySum[0])

	rec = do(router, http.MethodPost, "/api/scenarios/Bergvarme/report", `{"area":"E","drawing":`+unitSquare+`,"view":"economy","price":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	report = analysis.Report{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.NotNil(t, report.Economy)
	assert.Equal(t, 2.0, report.Economy.Price)
	assert.Equal(t, 1, report.Economy.Wells)

	rec = do(router, http.MethodPost, "/api/scenarios/Bergvarme/report", `{"drawing":`+unitSquare+`,"view":"emissions"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	report = analysis.Report{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	require.NotNil(t, report.Emissions)
	assert.Equal(t, 17.0, report.Emissions.FactorGramsPerKWh)
}

func TestPostReportErrorMapping(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		key    string
		value  interface{}
	}{
		{"empty selection", "/api/scenarios/Bergvarme/report", selectionBody(farAway), http.StatusOK, "empty", true},
		{"data inconsistency", "/api/scenarios/Odelagt/report", selectionBody(unitSquare), http.StatusUnprocessableEntity, "error", "data inconsistency"},
		{"numeric degeneracy", "/api/scenarios/Tom/report", `{"drawing":` + unitSquare + `,"view":"hourly"}`, http.StatusUnprocessableEntity, "error", "numeric degeneracy"},
		{"unknown scenario", "/api/scenarios/Solceller/report", selectionBody(unitSquare), http.StatusNotFound, "", nil},
		{"unknown view", "/api/scenarios/Bergvarme/report", `{"view":"pie"}`, http.StatusBadRequest, "", nil},
		{"price out of range", "/api/scenarios/Bergvarme/report", `{"view":"economy","price":50}`, http.StatusBadRequest, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(router, http.MethodPost, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.key != "" {
				assert.Equal(t, tt.value, decode(t, rec)[tt.key])
			}
		})
	}

	rec := do(router, http.MethodGet, "/metrics", "")
	assert.Contains(t, rec.Body.String(), `analysis_errors_total{kind="data_shape"} 1`)
	assert.Contains(t, rec.Body.String(), `analysis_errors_total{kind="numeric_degeneracy"} 1`)
}

func TestPostCompare(t *testing.T) {
	router := setupRouter(t)

	rec := do(router, http.MethodPost, "/api/scenarios/Bergvarme/compare", selectionBody(unitSquare))
	require.Equal(t, http.StatusOK, rec.Code)
	var out analysis.ReferenceComparison
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, models.CategoryGridExchange, out.Category)
	assert.Equal(t, 50, out.Comparison.EnergyReduction)

	rec = do(router, http.MethodPost, "/api/scenarios/Bergvarme/compare", `{"category":"gas"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostChart(t *testing.T) {
	router := setupRouter(t)

	for _, kind := range []string{"monthly", "duration", "et"} {
		t.Run(kind, func(t *testing.T) {
			rec := do(router, http.MethodPost, "/api/scenarios/Bergvarme/chart?kind="+kind, selectionBody(unitSquare))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
		})
	}

	rec := do(router, http.MethodPost, "/api/scenarios/Bergvarme/chart?kind=pie", selectionBody(unitSquare))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDIsKept(t *testing.T) {
	router := setupRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set(requestIDHeader, "7d444840-9dc0-11d1-b245-5ffdce74fad2")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "7d444840-9dc0-11d1-b245-5ffdce74fad2", rec.Header().Get(requestIDHeader))
}
