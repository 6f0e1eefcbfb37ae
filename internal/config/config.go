package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	ServerPort        int           `yaml:"server_port"`
	DatabasePath      string        `yaml:"database_path"`
	UploadDir         string        `yaml:"upload_dir"` // Base path for profile pictures
	ModelPath         string        `yaml:"model_path"` // Classifier artifact
	JWTSecret         string        `yaml:"jwt_secret"`
	TokenValidity     time.Duration `yaml:"token_validity"`
	PlacesAPIKey      string        `yaml:"places_api_key"`
	PlacesBaseURL     string        `yaml:"places_base_url"`
	PlacesTimeout     time.Duration `yaml:"places_timeout"`
	RetentionDays     int           `yaml:"retention_days"`
	RetentionSchedule string        `yaml:"retention_schedule"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overridden by environment variables, falling back to defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:        8080,
		DatabasePath:      "./cardio.db",
		UploadDir:         "./media",
		ModelPath:         "./classifier.json",
		TokenValidity:     24 * time.Hour,
		PlacesBaseURL:     "https://maps.googleapis.com/maps/api/place/nearbysearch/json",
		PlacesTimeout:     10 * time.Second,
		RetentionDays:     365,
		RetentionSchedule: "0 3 * * *",
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if portStr, ok := os.LookupEnv("PORT"); ok {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.ServerPort = port
	}

	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.UploadDir = getEnv("UPLOAD_DIR", cfg.UploadDir)
	cfg.ModelPath = getEnv("MODEL_PATH", cfg.ModelPath)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.PlacesAPIKey = getEnv("PLACES_API_KEY", cfg.PlacesAPIKey)
	cfg.PlacesBaseURL = getEnv("PLACES_BASE_URL", cfg.PlacesBaseURL)
	cfg.RetentionSchedule = getEnv("RETENTION_SCHEDULE", cfg.RetentionSchedule)

	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_VALIDITY: %w", err)
		}
		cfg.TokenValidity = d
	}

	if v, ok := os.LookupEnv("RETENTION_DAYS"); ok {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RETENTION_DAYS: %w", err)
		}
		cfg.RetentionDays = days
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
