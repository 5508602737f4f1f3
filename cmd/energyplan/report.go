package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"energyplan/server/config"
	"energyplan/server/internal/analysis"
	"energyplan/server/internal/chart"
)

func (a *app) reportCmd() *cobra.Command {
	var (
		sel           selectionFlags
		view          string
		price         float64
		factor        float64
		durationCurve bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a scenario report as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selection, err := sel.selection()
			if err != nil {
				return err
			}
			analyzer, err := a.analyzer()
			if err != nil {
				return err
			}

			report, err := analyzer.Report(sel.scenario, sel.area, selection, analysis.ReportOptions{
				View:           analysis.View(view),
				Price:          price,
				EmissionFactor: factor,
				DurationCurve:  durationCurve,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	sel.register(cmd, a.cfg.Analysis.DefaultArea)
	cmd.Flags().StringVar(&view, "view", string(analysis.ViewMonthly), "monthly, hourly, measures, et, economy or emissions")
	cmd.Flags().Float64Var(&price, "price", a.cfg.Analysis.DefaultPrice, "electricity price in kr/kWh")
	cmd.Flags().Float64Var(&factor, "emission-factor", a.cfg.Analysis.DefaultEmissionFactor, "emission factor in g CO2/kWh")
	cmd.Flags().BoolVar(&durationCurve, "duration-curve", false, "sort the hourly view into duration curves")
	return cmd
}

func (a *app) chartCmd() *cobra.Command {
	var (
		sel         selectionFlags
		kind        string
		out         string
		catalogPath string
	)
	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a scenario chart to a PNG file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analysis.ReportOptions{Price: a.cfg.Analysis.DefaultPrice, EmissionFactor: a.cfg.Analysis.DefaultEmissionFactor}
			switch kind {
			case "monthly":
				opts.View = analysis.ViewMonthly
			case "duration":
				opts.View = analysis.ViewHourly
				opts.DurationCurve = true
			case "et":
				opts.View = analysis.ViewET
			default:
				return fmt.Errorf("%w: chart kind %s", analysis.ErrInvalidParameter, kind)
			}

			selection, err := sel.selection()
			if err != nil {
				return err
			}
			catalog, err := config.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			analyzer, err := a.analyzer()
			if err != nil {
				return err
			}
			report, err := analyzer.Report(sel.scenario, sel.area, selection, opts)
			if err != nil {
				return err
			}

			style := catalog.Style(sel.scenario)
			var buf bytes.Buffer
			if err := chart.RenderReport(chart.NewRenderer(), &buf, report, style.Label, chart.HexColor(style.Color)); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
				return fmt.Errorf("failed to write chart: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	sel.register(cmd, a.cfg.Analysis.DefaultArea)
	cmd.Flags().StringVar(&kind, "kind", "monthly", "monthly, duration or et")
	cmd.Flags().StringVarP(&out, "out", "o", "chart.png", "output file")
	cmd.Flags().StringVar(&catalogPath, "catalog", a.cfg.Data.CatalogPath, "scenario catalog")
	return cmd
}
