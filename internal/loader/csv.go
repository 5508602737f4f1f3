package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	return h, nil
}

func (h header) require(columns ...string) error {
	for _, c := range columns {
		if _, ok := h[c]; !ok {
			return &models.DataShapeError{What: fmt.Sprintf("missing column %q", c)}
		}
	}
	return nil
}

func (h header) get(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// NormalizeID turns ids such as "1234.0" into "1234" so building table ids
// match hourly table column names.
func NormalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1e15 {
		return raw
	}
	return strconv.FormatInt(int64(f), 10)
}

func parseBool(raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return cast.ToBoolE(raw)
}

func parseFloat(raw string) (float64, error) {
	if raw == "" || strings.EqualFold(raw, "nan") {
		return 0, nil
	}
	return cast.ToFloat64E(raw)
}

// ReadBuildings parses a building table for scenario.
func ReadBuildings(r io.Reader, scenario string) ([]models.Building, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := h.require(requiredBuildingColumns...); err != nil {
		return nil, err
	}

	var buildings []models.Building
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		b := models.Building{
			ObjectID:     NormalizeID(h.get(row, colObjectID)),
			Scenario:     scenario,
			AreaID:       h.get(row, colAreaID),
			Address:      h.get(row, colAddress),
			BuildingType: h.get(row, colBuildingType),
		}
		if b.ObjectID == "" {
			return nil, &models.DataShapeError{What: fmt.Sprintf("line %d has no %s", line, colObjectID)}
		}

		floats := []struct {
			column string
			dst    *float64
		}{
			{colX, &b.X},
			{colY, &b.Y},
			{colFloorArea, &b.FloorArea},
			{colWellMeters, &b.WellMeters},
			{colSolarProduction, &b.SolarProduction},
		}
		for _, f := range floats {
			if *f.dst, err = parseFloat(h.get(row, f.column)); err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, f.column, err)
			}
		}

		bools := []struct {
			column string
			dst    *bool
		}{
			{colGroundSource, &b.GroundSource},
			{colDistrictHeating, &b.DistrictHeating},
			{colSolar, &b.Solar},
			{colAirToAir, &b.AirToAir},
			{colRetrofit, &b.Retrofit},
		}
		for _, f := range bools {
			if *f.dst, err = parseBool(h.get(row, f.column)); err != nil {
				return nil, fmt.Errorf("line %d column %s: %w", line, f.column, err)
			}
		}

		buildings = append(buildings, b)
	}
	return buildings, nil
}

// ReadHourly parses a wide hourly table: one column per building id, an ID
// column naming the series category, and one row per hour and category.
// Rows of unknown categories are skipped.
func ReadHourly(r io.Reader, scenario string) (*models.HourlyTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	h, err := readHeader(cr)
	if err != nil {
		return nil, err
	}
	if err := h.require(colSeriesID); err != nil {
		return nil, err
	}

	type column struct {
		id    string
		index int
	}
	var columns []column
	for name, i := range h {
		switch name {
		case colSeriesID, colScenario, colIndex, "":
			continue
		}
		columns = append(columns, column{id: NormalizeID(name), index: i})
	}

	series := make(map[models.Category]map[string][]float64)
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		category, ok := CategoryColumns[h.get(row, colSeriesID)]
		if !ok {
			continue
		}
		byID, ok := series[category]
		if !ok {
			byID = make(map[string][]float64, len(columns))
			series[category] = byID
		}
		for _, c := range columns {
			raw := ""
			if c.index < len(row) {
				raw = strings.TrimSpace(row[c.index])
			}
			v := math.NaN()
			if raw != "" {
				if v, err = cast.ToFloat64E(raw); err != nil {
					return nil, fmt.Errorf("line %d building %s: %w", line, c.id, err)
				}
			}
			byID[c.id] = append(byID[c.id], v)
		}
	}

	table := models.NewHourlyTable(scenario)
	for _, category := range models.Categories {
		byID, ok := series[category]
		if !ok {
			return nil, &models.DataShapeError{What: fmt.Sprintf("scenario %s has no %s rows", scenario, category)}
		}
		for id, values := range byID {
			if err := timeseries.CheckLength(fmt.Sprintf("%s %s building %s", scenario, category, id), values); err != nil {
				return nil, err
			}
			table.Put(category, id, values)
		}
	}
	return table, nil
}
