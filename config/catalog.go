package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"energyplan/server/internal/models"
)

// ScenarioStyle is how the presentation layer labels and colours a scenario.
type ScenarioStyle struct {
	Name  string `json:"name" toml:"name"`
	Label string `json:"label" toml:"label"`
	Color string `json:"color" toml:"color"`
}

// Catalog lists the selectable building areas and the scenario styles.
type Catalog struct {
	Areas     []models.BuildingArea `json:"areas" toml:"areas"`
	Scenarios []ScenarioStyle       `json:"scenarios" toml:"scenarios"`
}

// fallbackColor is used for scenarios the catalogue does not list.
const fallbackColor = "#767171"

// DefaultCatalog is used when no catalogue file exists.
var DefaultCatalog = Catalog{
	Areas: []models.BuildingArea{
		{ID: "E", Label: "Eksisterende bygningsmasse"},
		{ID: "P1", Label: "Planforslag (inkl. dagens bygg som skal bevares)"},
		{ID: "P2", Label: "Planforslag (ekskl. helsebygg)"},
		{ID: "P3", Label: "Planforslag og områdene rundt Østmarka"},
	},
	Scenarios: []ScenarioStyle{
		{Name: "Bergvarme", Label: "Bergvarme", Color: "#c76900"},
		{Name: "BergvarmeSolFjernvarme", Label: "Bergvarme, sol og fjernvarme", Color: "#48a23f"},
		{Name: "Fjernvarme", Label: "Fjernvarme", Color: "#1d3c34"},
		{Name: "Fremtidssituasjon", Label: "Fremtidssituasjon", Color: "#b7dc8f"},
		{Name: "LuftLuft", Label: "Luft-luft varmepumpe", Color: "#2F528F"},
		{Name: "MerLokalproduksjon", Label: "Mer lokalproduksjon", Color: "#3Bf81C"},
		{Name: "Nåsituasjon", Label: "Nåsituasjon", Color: "#AfB9AB"},
		{Name: "Oppgradert", Label: "Oppgradert bygningsmasse", Color: "#254275"},
		{Name: "Referansesituasjon", Label: "Referansesituasjon", Color: fallbackColor},
		{Name: "Solceller", Label: "Solceller", Color: "#ffc358"},
	},
}

// LoadCatalog reads the catalogue at path. A missing file yields DefaultCatalog.
func LoadCatalog(path string) (*Catalog, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c := DefaultCatalog
		return &c, nil
	}

	var c Catalog
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	if len(c.Areas) == 0 {
		c.Areas = DefaultCatalog.Areas
	}
	return &c, nil
}

// AreaByID returns the building area with id, or nil.
func (c *Catalog) AreaByID(id string) *models.BuildingArea {
	for _, area := range c.Areas {
		if area.ID == id {
			return &area
		}
	}
	return nil
}

// Style returns the style of scenario, falling back to a grey entry
// labelled with the scenario name.
func (c *Catalog) Style(scenario string) ScenarioStyle {
	for _, s := range c.Scenarios {
		if s.Name == scenario {
			return s
		}
	}
	return ScenarioStyle{Name: scenario, Label: scenario, Color: fallbackColor}
}
