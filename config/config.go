package config

import "github.com/caarlos0/env/v6"

type Config struct {
	Server struct {
		// Port the HTTP API listens on
		Port string `env:"PORT" envDefault:"5250"`

		// Origins allowed by the CORS middleware
		CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

		// gin mode: debug, release or test
		GinMode string `env:"GIN_MODE" envDefault:"release"`
	}

	Data struct {
		// Folder with the simulation output (<scenario>_..._unfiltered.csv, <scenario>_timedata.csv)
		Dir string `env:"DATA_DIR" envDefault:"output"`

		// Spreadsheet with one outdoor temperature per hour
		TemperatureFile string `env:"TEMPERATURE_FILE" envDefault:"input/utetemperatur.xlsx"`

		// sqlite database the import writes to and the server reads from
		DatabasePath string `env:"DATABASE_PATH" envDefault:"database/energyplan.db"`

		// TOML catalogue of building areas and scenario styles
		CatalogPath string `env:"SCENARIO_CATALOG" envDefault:"config/scenarios.toml"`

		// Baseline scenario every other scenario is compared against
		ReferenceScenario string `env:"REFERENCE_SCENARIO" envDefault:"Referansesituasjon"`
	}

	Analysis struct {
		// Electricity price in kr/kWh when a request does not give one
		DefaultPrice float64 `env:"DEFAULT_PRICE" envDefault:"1.0"`

		// Emission factor in g CO2/kWh when a request does not give one
		DefaultEmissionFactor float64 `env:"DEFAULT_EMISSION_FACTOR" envDefault:"17"`

		// Building area used when a request does not name one
		DefaultArea string `env:"DEFAULT_AREA" envDefault:"E"`
	}

	// BatchProcessing configures the import pipeline
	BatchProcessing struct {
		// Maximum number of series rows per persisted batch
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Capacity of the import queue, in batches
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"64"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"1"`
	}

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
