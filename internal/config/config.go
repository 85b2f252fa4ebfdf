package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MealDB   MealDBConfig   `json:"mealdb"`
	Featured FeaturedConfig `json:"featured"`
	Storage  StorageConfig  `json:"storage"`
	Logging  LoggingConfig  `json:"logging"`
	Mocks    MockConfig     `json:"mocks"`
}

type MealDBConfig struct {
	BaseURL  string        `json:"base_url"`
	Timeout  time.Duration `json:"timeout"`
	RetryMax int           `json:"retry_max"`
}

// FeaturedConfig controls the recipes shown before the first search.
type FeaturedConfig struct {
	Terms       []string `json:"terms"`
	SampleSize  int      `json:"sample_size"`
	ResultLimit int      `json:"result_limit"`
}

type StorageConfig struct {
	Dir            string `json:"dir"`
	AzureAccount   string `json:"azure_account"`
	AzureKey       string `json:"-"`
	AzureContainer string `json:"azure_container"`
}

func (s StorageConfig) Azure() bool {
	return s.AzureAccount != ""
}

type LoggingConfig struct {
	Level         string `json:"level"`
	OTLPEndpoint  string `json:"otlp_endpoint"`
	BlobAccount   string `json:"blob_account"`
	BlobKey       string `json:"-"`
	BlobContainer string `json:"blob_container"`
	BlobName      string `json:"blob_name"`
}

func (l LoggingConfig) BlobSinkEnabled() bool {
	return l.BlobAccount != "" && l.BlobKey != ""
}

// MockConfig swaps the remote recipe API for a canned offline source.
type MockConfig struct {
	Enable bool `json:"enable"`
}

const DefaultMealDBURL = "https://www.themealdb.com/api/json/v1/1"

var DefaultFeaturedTerms = []string{"chicken", "beef", "pasta", "salad", "dessert", "cake", "fish"}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	timeout, err := getDurationOrDefault("MEALDB_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	retryMax, err := getIntOrDefault("MEALDB_RETRY_MAX", 2)
	if err != nil {
		return nil, err
	}
	sampleSize, err := getIntOrDefault("FEATURED_SAMPLE_SIZE", 6)
	if err != nil {
		return nil, err
	}
	resultLimit, err := getIntOrDefault("FEATURED_RESULT_LIMIT", 12)
	if err != nil {
		return nil, err
	}

	config := &Config{
		MealDB: MealDBConfig{
			BaseURL:  getEnvOrDefault("MEALDB_BASE_URL", DefaultMealDBURL),
			Timeout:  timeout,
			RetryMax: retryMax,
		},
		Featured: FeaturedConfig{
			Terms:       getListOrDefault("FEATURED_TERMS", DefaultFeaturedTerms),
			SampleSize:  sampleSize,
			ResultLimit: resultLimit,
		},
		Storage: StorageConfig{
			Dir:            getEnvOrDefault("STORAGE_DIR", "./data"),
			AzureAccount:   os.Getenv("AZURE_STORAGE_ACCOUNT_NAME"),
			AzureKey:       os.Getenv("AZURE_STORAGE_PRIMARY_ACCOUNT_KEY"),
			AzureContainer: getEnvOrDefault("AZURE_STORAGE_CONTAINER", "recipefinder"),
		},
		Logging: LoggingConfig{
			Level:         getEnvOrDefault("LOG_LEVEL", "info"),
			OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			BlobAccount:   os.Getenv("LOG_BLOB_ACCOUNT_NAME"),
			BlobKey:       os.Getenv("LOG_BLOB_ACCOUNT_KEY"),
			BlobContainer: getEnvOrDefault("LOG_BLOB_CONTAINER", "logs"),
			BlobName:      os.Getenv("LOG_BLOB_NAME"),
		},
		Mocks: MockConfig{
			Enable: os.Getenv("ENABLE_MOCKS") != "",
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("loaded configuration", "mealdb", config.MealDB.BaseURL, "mocks", config.Mocks.Enable)
	return config, nil
}

func (c *Config) Validate() error {
	if c.Featured.SampleSize < 0 {
		return fmt.Errorf("featured sample size must not be negative, got %d", c.Featured.SampleSize)
	}
	if c.Featured.ResultLimit < 0 {
		return fmt.Errorf("featured result limit must not be negative, got %d", c.Featured.ResultLimit)
	}
	if c.MealDB.RetryMax < 0 {
		return fmt.Errorf("retry max must not be negative, got %d", c.MealDB.RetryMax)
	}
	if c.Storage.AzureAccount != "" && c.Storage.AzureContainer == "" {
		return errors.New("azure storage container is required when an account is set")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

// getListOrDefault splits a comma separated value, dropping blanks.
func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
