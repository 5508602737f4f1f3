package chart

import (
	"fmt"
	"image/color"
	"io"

	"energyplan/server/internal/analysis"
)

// RenderReport draws the chart belonging to the report's view. label and c
// identify the scenario in the legend.
func RenderReport(r *Renderer, w io.Writer, report *analysis.Report, label string, c color.Color) error {
	switch {
	case report.Monthly != nil:
		m := report.Monthly
		return r.Monthly(w, label+": energi per måned", "kWh",
			Series{Label: "Før", Color: BeforeColor, Values: m.Before.MonthlySum[:]},
			Series{Label: "Etter", Color: AfterColor, Values: m.After.MonthlySum[:]},
		)
	case report.Hourly != nil:
		h := report.Hourly
		return r.Duration(w, label+": varighetskurve",
			Series{Label: "Før", Color: BeforeColor, Values: h.Before},
			Series{Label: "Etter", Color: c, Values: h.After},
		)
	case report.ET != nil:
		et := report.ET
		return r.ET(w, label+": ET-kurve", et.Temperature, et.Power, et.Regression, c)
	default:
		return fmt.Errorf("%w: no chart for view %s", analysis.ErrUnknownView, report.View)
	}
}
