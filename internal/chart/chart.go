package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"energyplan/server/internal/analysis"
	"energyplan/server/internal/models"
	"energyplan/server/internal/timeseries"
)

// Colours of the before/after charts.
var (
	BeforeColor    = HexColor("#1d3c34")
	AfterColor     = HexColor("#48a23f")
	ReferenceColor = HexColor("#7f7f7f")
)

// CategoryColors are the colours of the overview charts.
var CategoryColors = map[models.Category]color.Color{
	models.CategoryThermalDelivered:  color.RGBA{R: 255, A: 255},
	models.CategoryElectricDelivered: color.RGBA{B: 255, A: 255},
	models.CategorySpaceHeating:      HexColor("#ff9966"),
	models.CategoryHotWater:          HexColor("#b39200"),
	models.CategoryElectricSpecific:  HexColor("#3399ff"),
	models.CategoryGridExchange:      HexColor("#7f7f7f"),
}

// HexColor parses "#rrggbb". Anything else gives grey.
func HexColor(s string) color.Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(s), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{R: 0x76, G: 0x71, B: 0x71, A: 255}
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Series is one labelled data set of a chart.
type Series struct {
	Label  string
	Color  color.Color
	Values []float64
}

// Renderer draws charts to images.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
	Format string
}

func NewRenderer() *Renderer {
	return &Renderer{Width: 8 * vg.Inch, Height: 4 * vg.Inch, Format: "png"}
}

func (r *Renderer) write(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(r.Width, r.Height, r.Format)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())
	return p
}

// Monthly draws one group of bars per month, one bar per series.
func (r *Renderer) Monthly(w io.Writer, title, unit string, series ...Series) error {
	p := newPlot(title, "", unit)
	width := vg.Points(10)
	if len(series) > 2 {
		width = vg.Points(20 / float64(len(series)))
	}

	for i, s := range series {
		if len(s.Values) != len(models.MonthNames) {
			return &models.DataShapeError{What: "monthly chart series " + s.Label, Expected: len(models.MonthNames), Got: len(s.Values)}
		}
		bars, err := plotter.NewBarChart(plotter.Values(s.Values), width)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", s.Label, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = seriesColor(s, i)
		bars.Offset = vg.Length(float64(i)-float64(len(series)-1)/2) * width
		p.Add(bars)
		p.Legend.Add(s.Label, bars)
	}
	p.NominalX(models.MonthNames[:]...)
	return r.write(w, p)
}

// Duration draws each series as a duration curve.
func (r *Renderer) Duration(w io.Writer, title string, series ...Series) error {
	p := newPlot(title, "Timer", "kW")
	for i, s := range series {
		curve := timeseries.DurationCurve(s.Values)
		xys := make(plotter.XYs, len(curve))
		for h, v := range curve {
			xys[h].X = float64(h)
			xys[h].Y = v
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("failed to build curve for %s: %w", s.Label, err)
		}
		line.Color = seriesColor(s, i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Label, line)
	}
	return r.write(w, p)
}

// ET draws hourly power against outdoor temperature with the fitted line.
func (r *Renderer) ET(w io.Writer, title string, temperature, power []float64, fit analysis.Regression, c color.Color) error {
	if len(temperature) != len(power) {
		return &models.DataShapeError{What: "ET chart points", Expected: len(temperature), Got: len(power)}
	}
	p := newPlot(title, "Utetemperatur (°C)", "kW")

	xys := make(plotter.XYs, 0, len(power))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range power {
		if math.IsNaN(temperature[i]) || math.IsNaN(power[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: temperature[i], Y: power[i]})
		lo, hi = math.Min(lo, temperature[i]), math.Max(hi, temperature[i])
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("failed to build scatter: %w", err)
	}
	scatter.GlyphStyle.Color = c
	scatter.GlyphStyle.Radius = vg.Points(1)
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	p.Add(scatter)
	p.Legend.Add("Timeverdier", scatter)

	line := plotter.NewFunction(fit.At)
	line.Color = color.Black
	line.Width = vg.Points(1.5)
	if len(xys) > 0 {
		line.XMin, line.XMax = lo, hi
	}
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("y = %.2fx + %.2f (R² = %.2f)", fit.Slope, fit.Intercept, fit.RSquared), line)
	return r.write(w, p)
}

func seriesColor(s Series, i int) color.Color {
	if s.Color != nil {
		return s.Color
	}
	return plotutil.Color(i)
}
