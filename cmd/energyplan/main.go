// Command energyplan imports simulation output and computes scenario
// reports from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"energyplan/server/config"
	"energyplan/server/internal/analysis"
	"energyplan/server/internal/database"
	"energyplan/server/internal/geometry"
	"energyplan/server/internal/loader"
	"energyplan/server/internal/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what the subcommands share.
type app struct {
	cfg    *config.Config
	logger *logrus.Logger

	dbPath     string
	fromOutput bool
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	a := &app{cfg: cfg, logger: logrus.New()}
	a.logger.SetFormatter(&logrus.JSONFormatter{})
	a.logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		a.logger.SetLevel(level)
	}

	root := &cobra.Command{
		Use:   "energyplan",
		Short: "Energy scenario analysis for the Østmarka area.",
		Long: `energyplan imports per-building hourly simulation output into the
database the server reads, and computes the same scenario reports and
charts as the server from the command line.

Defaults come from the server's environment variables.`,
		SilenceUsage:      true,
		DisableAutoGenTag: true,
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", cfg.Data.DatabasePath, "sqlite database path")
	root.PersistentFlags().BoolVar(&a.fromOutput, "from-output", false, "read the output folder instead of the database")
	root.PersistentFlags().StringVar(&cfg.Data.Dir, "dir", cfg.Data.Dir, "simulation output folder")
	root.PersistentFlags().StringVar(&cfg.Data.TemperatureFile, "temperature", cfg.Data.TemperatureFile, "outdoor temperature workbook")

	root.AddCommand(
		a.importCmd(),
		a.scenariosCmd(),
		a.reportCmd(),
		a.chartCmd(),
	)
	return root
}

func (a *app) openDatabase() (*database.Database, error) {
	db, err := database.NewDatabase(a.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// dataset loads from the database, or from the output folder with --from-output.
func (a *app) dataset() (*models.Dataset, error) {
	if a.fromOutput {
		return loader.Load(a.cfg.Data.Dir, a.cfg.Data.TemperatureFile)
	}
	db, err := a.openDatabase()
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.LoadDataset()
}

func (a *app) scenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the available scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.dataset()
			if err != nil {
				return err
			}
			for _, s := range data.Scenarios {
				suffix := ""
				if s == a.cfg.Data.ReferenceScenario {
					suffix = " (reference)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", s, suffix)
			}
			return nil
		},
	}
}

// selectionFlags are shared by report and chart.
type selectionFlags struct {
	scenario string
	area     string
	drawing  string
}

func (f *selectionFlags) register(cmd *cobra.Command, defaultArea string) {
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "scenario to report on")
	cmd.Flags().StringVar(&f.area, "area", defaultArea, "building area (E, P1, P2, P3)")
	cmd.Flags().StringVar(&f.drawing, "drawing", "", "GeoJSON file with the selection polygon")
	cmd.MarkFlagRequired("scenario")
}

func (f *selectionFlags) selection() (geometry.Selection, error) {
	if f.drawing == "" {
		return geometry.Selection{}, nil
	}
	raw, err := os.ReadFile(f.drawing)
	if err != nil {
		return geometry.Selection{}, fmt.Errorf("failed to read drawing: %w", err)
	}
	return geometry.ParseDrawing(raw)
}

func (a *app) analyzer() (*analysis.Analyzer, error) {
	data, err := a.dataset()
	if err != nil {
		return nil, err
	}
	return analysis.NewAnalyzer(data, a.cfg.Data.ReferenceScenario, a.logger), nil
}
