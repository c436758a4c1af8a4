package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/commodityai/accuracy-backend/internal/domain"
	"github.com/commodityai/accuracy-backend/internal/usecase/scoring"
)

// Config holds all application configuration
type Config struct {
	DBConnStr string
	DBMaxWait time.Duration

	APIToken    string
	GRPCPort    string
	MetricsPort string

	// Redis is optional; an empty address keeps ranking snapshots in PostgreSQL
	RedisAddr     string
	RedisDB       int
	RedisPassword string

	LogLevel  string
	LogFormat string

	MatchTolerance     string // "fixed" or "horizon"
	ObservationLimit   int
	RankingConcurrency int
	Weights            scoring.Weights
	QualityWeights     scoring.QualityWeights
}

// Load reads the configuration from the environment.
// A .env file in the working directory, if present, seeds variables that are
// not already set.
func Load() (*Config, error) {
	// Missing .env is fine, the real environment is used as-is
	_ = godotenv.Load()

	var cfg Config
	var err error

	cfg.DBConnStr = os.Getenv("DB_CONN_STR")
	if cfg.DBConnStr == "" {
		cfg.DBConnStr = buildConnStr()
	}
	if cfg.DBMaxWait, err = getEnvDuration("DB_MAX_WAIT", 30*time.Second); err != nil {
		return nil, err
	}

	cfg.APIToken = getEnvWithDefault("API_TOKEN", "dev-token")
	cfg.GRPCPort = getEnvWithDefault("GRPC_PORT", "8080")
	cfg.MetricsPort = getEnvWithDefault("METRICS_PORT", "9090")

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}

	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getEnvWithDefault("LOG_FORMAT", "json")

	cfg.MatchTolerance = getEnvWithDefault("MATCH_TOLERANCE", "fixed")
	if cfg.ObservationLimit, err = getEnvInt("OBSERVATION_LIMIT", domain.DefaultObservationLimit); err != nil {
		return nil, err
	}
	if cfg.RankingConcurrency, err = getEnvInt("RANKING_CONCURRENCY", 4); err != nil {
		return nil, err
	}

	cfg.Weights = scoring.DefaultWeights
	weightVars := []struct {
		key string
		dst *float64
	}{
		{"WEIGHT_MAPE", &cfg.Weights.MAPE},
		{"WEIGHT_DIRECTIONAL", &cfg.Weights.Directional},
		{"WEIGHT_R_SQUARED", &cfg.Weights.RSquared},
		{"WEIGHT_RMSE", &cfg.Weights.RMSE},
		{"WEIGHT_THRESHOLD", &cfg.Weights.Threshold},
	}
	cfg.QualityWeights = scoring.DefaultQualityWeights
	weightVars = append(weightVars, []struct {
		key string
		dst *float64
	}{
		{"QUALITY_WEIGHT_SAMPLE_SIZE", &cfg.QualityWeights.SampleSize},
		{"QUALITY_WEIGHT_COVERAGE", &cfg.QualityWeights.Coverage},
		{"QUALITY_WEIGHT_OUTLIERS", &cfg.QualityWeights.Outliers},
	}...)
	for _, v := range weightVars {
		if *v.dst, err = getEnvFloat(v.key, *v.dst); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the loaded values for consistency
func (c *Config) Validate() error {
	switch c.MatchTolerance {
	case "fixed", "horizon":
	default:
		return fmt.Errorf("MATCH_TOLERANCE must be fixed or horizon, got %q", c.MatchTolerance)
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.LogFormat)
	}
	if c.DBMaxWait <= 0 {
		return errors.New("DB_MAX_WAIT must be positive")
	}
	if c.ObservationLimit <= 0 {
		return errors.New("OBSERVATION_LIMIT must be positive")
	}
	if c.RankingConcurrency <= 0 {
		return errors.New("RANKING_CONCURRENCY must be positive")
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("invalid WEIGHT_* configuration: %w", err)
	}
	if err := c.QualityWeights.Validate(); err != nil {
		return fmt.Errorf("invalid QUALITY_WEIGHT_* configuration: %w", err)
	}
	return nil
}

// buildConnStr assembles a connection string from the DB_* variables
func buildConnStr() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnvWithDefault("DB_HOST", "localhost"),
		getEnvWithDefault("DB_PORT", "5432"),
		getEnvWithDefault("DB_USER", "postgres"),
		getEnvWithDefault("DB_PASSWORD", "postgres"),
		getEnvWithDefault("DB_NAME", "accuracy"),
	)
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return floatValue, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
