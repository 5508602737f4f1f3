package loader

import (
	"fmt"
	"strings"

	"github.com/tealeg/xlsx"

	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

// ReadTemperature reads the hourly outdoor temperature from the first sheet
// of an xlsx file. The first row is a header; every numeric cell after it is
// taken in row order.
func ReadTemperature(path string) ([]float64, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open temperature file: %w", err)
	}
	return temperatureFromFile(f)
}

// ReadTemperatureBytes is ReadTemperature for an in-memory workbook.
func ReadTemperatureBytes(data []byte) ([]float64, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open temperature workbook: %w", err)
	}
	return temperatureFromFile(f)
}

func temperatureFromFile(f *xlsx.File) ([]float64, error) {
	if len(f.Sheets) == 0 {
		return nil, &models.DataShapeError{What: "temperature workbook has no sheets"}
	}

	sheet := f.Sheets[0]
	values := make([]float64, 0, timeseries.HoursPerYear)
	for i, row := range sheet.Rows {
		// Skip column headers
		if i == 0 || row == nil {
			continue
		}
		for _, cell := range row.Cells {
			if strings.TrimSpace(cell.Value) == "" {
				continue
			}
			v, err := cell.Float()
			if err != nil {
				return nil, fmt.Errorf("temperature row %d: %w", i+1, err)
			}
			values = append(values, v)
		}
	}

	if err := timeseries.CheckLength("outdoor temperature", values); err != nil {
		return nil, err
	}
	return values, nil
}
