package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Datasets DatasetConfig
	Store    StoreConfig
	Pricing  PricingConfig
	Textract TextractConfig
}

// DatasetConfig points at the three reference material tables.
type DatasetConfig struct {
	PipeTablePath  string
	ShapeTablePath string
	SheetTablePath string
}

// StoreConfig holds adjudicator payload store configuration.
type StoreConfig struct {
	Driver           string // "sqlite" | "postgres"
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// PricingConfig holds estimator inputs.
type PricingConfig struct {
	PriceBookPath    string
	Region           string
	LaborRatePerHour float64
	HistoricalFactor float64
}

// TextractConfig holds OCR collaborator configuration.
type TextractConfig struct {
	S3Bucket     string
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Datasets: DatasetConfig{
			PipeTablePath:  getEnv("PIPE_TABLE_PATH", "data/pipe_schedule_weights.csv"),
			ShapeTablePath: getEnv("SHAPE_TABLE_PATH", "data/structural_shape_weights.csv"),
			SheetTablePath: getEnv("SHEET_TABLE_PATH", "data/sheet_densities.csv"),
		},
		Store: StoreConfig{
			Driver:           getEnv("STORE_DRIVER", "sqlite"),
			DSN:              getEnv("STORE_DSN", "takeoff.db"),
			MaxConns:         getEnvAsInt32("STORE_MAX_CONNS", 10),
			MinConns:         getEnvAsInt32("STORE_MIN_CONNS", 1),
			MaxConnLifetime:  getEnvAsDuration("STORE_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("STORE_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("STORE_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("STORE_STATEMENT_TIMEOUT", 0),
		},
		Pricing: PricingConfig{
			PriceBookPath:    getEnv("PRICING_PATH", ""),
			Region:           getEnv("PRICING_REGION", "us-default"),
			LaborRatePerHour: getEnvAsFloat64("LABOR_RATE_PER_HOUR", 85.0),
			HistoricalFactor: getEnvAsFloat64("HISTORICAL_FACTOR", 1.0),
		},
		Textract: TextractConfig{
			S3Bucket:     getEnv("TEXTRACT_S3_BUCKET", ""),
			PollInterval: getEnvAsDuration("TEXTRACT_POLL_INTERVAL", 3*time.Second),
			PollTimeout:  getEnvAsDuration("TEXTRACT_POLL_TIMEOUT", 10*time.Minute),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Store.Driver != "sqlite" && c.Store.Driver != "postgres" {
		return NewAppError("CONFIG_ERROR", "STORE_DRIVER must be sqlite or postgres", ErrInvalidInput)
	}
	if c.Store.DSN == "" {
		return NewAppError("CONFIG_ERROR", "STORE_DSN is required", ErrInvalidInput)
	}
	if c.Pricing.LaborRatePerHour <= 0 {
		return NewAppError("CONFIG_ERROR", "LABOR_RATE_PER_HOUR must be positive", ErrInvalidInput)
	}
	if c.Pricing.HistoricalFactor <= 0 {
		return NewAppError("CONFIG_ERROR", "HISTORICAL_FACTOR must be positive", ErrInvalidInput)
	}
	return nil
}
