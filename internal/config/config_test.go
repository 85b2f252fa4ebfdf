package config

import (
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env here
	for _, key := range []string{"MEALDB_BASE_URL", "MEALDB_TIMEOUT", "FEATURED_TERMS", "FEATURED_SAMPLE_SIZE", "FEATURED_RESULT_LIMIT", "ENABLE_MOCKS", "AZURE_STORAGE_ACCOUNT_NAME"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected defaults to load, got %v", err)
	}
	if cfg.MealDB.BaseURL != DefaultMealDBURL {
		t.Fatalf("unexpected base url %q", cfg.MealDB.BaseURL)
	}
	if cfg.MealDB.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.MealDB.Timeout)
	}
	if cfg.Featured.SampleSize != 6 || cfg.Featured.ResultLimit != 12 {
		t.Fatalf("unexpected featured sizes %+v", cfg.Featured)
	}
	if !slices.Equal(cfg.Featured.Terms, DefaultFeaturedTerms) {
		t.Fatalf("unexpected featured terms %v", cfg.Featured.Terms)
	}
	if cfg.Mocks.Enable {
		t.Fatal("mocks should be off by default")
	}
	if cfg.Storage.Azure() {
		t.Fatal("azure storage should be off by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FEATURED_TERMS", " soup, ,curry ")
	t.Setenv("FEATURED_SAMPLE_SIZE", "1")
	t.Setenv("MEALDB_TIMEOUT", "3s")
	t.Setenv("ENABLE_MOCKS", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !slices.Equal(cfg.Featured.Terms, []string{"soup", "curry"}) {
		t.Fatalf("unexpected terms %v", cfg.Featured.Terms)
	}
	if cfg.Featured.SampleSize != 1 {
		t.Fatalf("unexpected sample size %d", cfg.Featured.SampleSize)
	}
	if cfg.MealDB.Timeout != 3*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.MealDB.Timeout)
	}
	if !cfg.Mocks.Enable {
		t.Fatal("expected mocks enabled")
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FEATURED_RESULT_LIMIT", "twelve")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for non numeric limit")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Featured: FeaturedConfig{SampleSize: -1}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative sample size to fail")
	}
	cfg = &Config{Storage: StorageConfig{AzureAccount: "acct"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected missing container to fail")
	}
}
