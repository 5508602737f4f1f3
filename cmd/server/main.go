package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"energyplan/server/config"
	"energyplan/server/internal/analysis"
	"energyplan/server/internal/api"
	"energyplan/server/internal/database"
	"energyplan/server/internal/loader"
	"energyplan/server/internal/metrics"
	"energyplan/server/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	gin.SetMode(cfg.Server.GinMode)

	catalog, err := config.LoadCatalog(cfg.Data.CatalogPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load scenario catalog")
	}

	logger.Infof("Using database at: %s", cfg.Data.DatabasePath)
	db, err := database.NewDatabase(cfg.Data.DatabasePath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	logger.Info("Running database migrations...")
	if err := db.RunMigrations(); err != nil {
		logger.WithError(err).Fatal("Failed to run database migrations")
	}

	data, err := loadDataset(db, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load dataset")
	}
	if !data.HasScenario(cfg.Data.ReferenceScenario) {
		logger.Warnf("Reference scenario %s is not loaded", cfg.Data.ReferenceScenario)
	}

	m := metrics.NewMetrics()
	m.SetScenarios(len(data.Scenarios))

	analyzer := analysis.NewAnalyzer(data, cfg.Data.ReferenceScenario, logger)
	handler := api.NewHandler(analyzer, catalog, cfg, m, logger)
	router := api.NewRouter(handler, m, cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}

// loadDataset reads the imported data, falling back to parsing the output
// folder directly when nothing has been imported yet.
func loadDataset(db *database.Database, cfg *config.Config, logger *logrus.Logger) (*models.Dataset, error) {
	data, err := db.LoadDataset()
	if err != nil {
		return nil, err
	}
	if len(data.Scenarios) > 0 {
		logger.WithField("scenarios", len(data.Scenarios)).Info("Loaded dataset from database")
		return data, nil
	}

	logger.Infof("Database is empty, reading simulation output from %s", cfg.Data.Dir)
	data, err = loader.Load(cfg.Data.Dir, cfg.Data.TemperatureFile)
	if err != nil {
		return nil, err
	}
	logger.WithField("scenarios", len(data.Scenarios)).Info("Loaded dataset from output folder")
	return data, nil
}
