package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"fundTools/internal/adapters/logger" // Import the logger package for LogLevel
)

// DefaultDateLayouts are the layouts tried, in order, for the Date column of a price history CSV.
// "2/1/2006" matches padded and unpadded day/month.
var DefaultDateLayouts = []string{
	"2/1/2006",
	"2006-01-02",
	"2 Jan 2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z07:00",
}

// Config holds all application configuration.
type Config struct {
	// Fee schedule, applied once per calendar year in January
	AnnualFeeRate float64 // Fraction of the held value (e.g., 0.01 for 1%)
	AnnualFlatFee float64 // Fixed amount charged on top of the rate

	// Inflation
	InflationTablePath string // Optional YAML file replacing the built-in UK table

	// Price history parsing
	DateLayouts []string

	// Chart output
	ChartPath     string
	ChartWidthCM  float64
	ChartHeightCM float64

	// Report archive
	ReportDBPath  string
	RecordReports bool

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	cfg.AnnualFeeRate, err = getEnvAsFloatRequired("ANNUAL_FEE_RATE", 0.01)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ANNUAL_FEE_RATE: %v", err))
	} else if cfg.AnnualFeeRate < 0 || cfg.AnnualFeeRate >= 1.0 {
		errs = append(errs, "ANNUAL_FEE_RATE must be in [0.0, 1.0)")
	}

	cfg.AnnualFlatFee, err = getEnvAsFloatRequired("ANNUAL_FLAT_FEE", 6.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid ANNUAL_FLAT_FEE: %v", err))
	} else if cfg.AnnualFlatFee < 0 {
		errs = append(errs, "ANNUAL_FLAT_FEE cannot be negative")
	}

	cfg.InflationTablePath = getEnv("INFLATION_TABLE_PATH", "")

	cfg.DateLayouts = getEnvAsList("PRICE_DATE_LAYOUTS", DefaultDateLayouts)

	cfg.ChartPath = getEnv("CHART_PATH", "plot.png")
	cfg.ChartWidthCM = getEnvAsFloat("CHART_WIDTH_CM", 24)
	cfg.ChartHeightCM = getEnvAsFloat("CHART_HEIGHT_CM", 18)
	if cfg.ChartWidthCM <= 0 || cfg.ChartHeightCM <= 0 {
		errs = append(errs, "CHART_WIDTH_CM and CHART_HEIGHT_CM must be positive")
	}

	cfg.ReportDBPath = getEnv("REPORT_DB_PATH", "./data/reports.db")
	cfg.RecordReports = getEnvAsBool("RECORD_REPORTS", false)
	if cfg.RecordReports && cfg.ReportDBPath == "" {
		errs = append(errs, "REPORT_DB_PATH must be set when RECORD_REPORTS is enabled")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "WARN")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a ';'-separated value, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var values []string
	for _, part := range strings.Split(valueStr, ";") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
