package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogMissingFile(t *testing.T) {
	c, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog.Areas, c.Areas)
	assert.Len(t, c.Scenarios, len(DefaultCatalog.Scenarios))
}

func TestLoadCatalogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.toml")
	content := `
[[scenarios]]
name = "Solceller"
label = "Sol"
color = "#ffc358"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalog.Areas, c.Areas, "areas fall back to defaults")
	assert.Equal(t, ScenarioStyle{Name: "Solceller", Label: "Sol", Color: "#ffc358"}, c.Style("Solceller"))
}

func TestLoadCatalogShipped(t *testing.T) {
	c, err := LoadCatalog("scenarios.toml")
	require.NoError(t, err)
	require.Len(t, c.Areas, 4)
	assert.Equal(t, "P3", c.Areas[3].ID)
	assert.Equal(t, "#c76900", c.Style("Bergvarme").Color)
}

func TestLoadCatalogInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[[areas]\nid ="), 0644))

	_, err := LoadCatalog(path)
	assert.Error(t, err)
}

func TestCatalogLookups(t *testing.T) {
	c := DefaultCatalog

	tests := []struct {
		name     string
		areaID   string
		expected string
	}{
		{"existing stock", "E", "Eksisterende bygningsmasse"},
		{"plan without health buildings", "P2", "Planforslag (ekskl. helsebygg)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			area := c.AreaByID(tt.areaID)
			require.NotNil(t, area)
			assert.Equal(t, tt.expected, area.Label)
		})
	}

	assert.Nil(t, c.AreaByID("X"))
	assert.Equal(t, ScenarioStyle{Name: "Ukjent", Label: "Ukjent", Color: fallbackColor}, c.Style("Ukjent"))
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Referansesituasjon", cfg.Data.ReferenceScenario)
	assert.Equal(t, 1.0, cfg.Analysis.DefaultPrice)
	assert.Equal(t, 17.0, cfg.Analysis.DefaultEmissionFactor)
	assert.Equal(t, 3, cfg.BatchProcessing.MaxRetries)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("REFERENCE_SCENARIO", "Nåsituasjon")
	t.Setenv("CORS_ORIGINS", "http://localhost:8501,http://example.org")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "Nåsituasjon", cfg.Data.ReferenceScenario)
	assert.Equal(t, []string{"http://localhost:8501", "http://example.org"}, cfg.Server.CORSOrigins)
}
