package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leettrack/backend/internal/infrastructure/config"
	"github.com/leettrack/backend/internal/recommend"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected 5s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.DatabasePath != "leettrack.db" {
		t.Errorf("unexpected database path %q", cfg.DatabasePath)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("expected info level, got %v", cfg.LogLevel)
	}
	if cfg.RecentWindow != 10 || cfg.DefaultRecommendations != 5 || cfg.MaxRecommendations != 50 {
		t.Errorf("unexpected recommendation defaults %+v", cfg)
	}
	if !cfg.DefaultWeights.Equal(recommend.DefaultWeights()) {
		t.Errorf("expected built-in weights, got %v", cfg.DefaultWeights)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestFromEnv_MissingRequired(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	if _, err := config.FromEnv(); err == nil {
		t.Error("expected error when SERVER_ADDRESS is missing")
	}
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "soon"},
		{"LOG_LEVEL", "loud"},
		{"RECENT_WINDOW", "ten"},
		{"RECENT_WINDOW", "0"},
		{"MAX_RECOMMENDATIONS", "2"},
		{"RATE_LIMIT_WINDOW", "1 minute"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			if _, err := config.FromEnv(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestFromEnv_CustomValues(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://tracker.example.com")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://tracker.example.com" {
		t.Errorf("unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("expected 30s window, got %v", cfg.RateLimitWindow)
	}
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weights.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadWeightsFile(t *testing.T) {
	path := writeFile(t, `
weak_area_reinforcement: 0.2
progressive_difficulty: 0.2
spaced_repetition: 0.2
topic_exploration: 0.2
general_practice: 0.2
`)

	w, err := config.LoadWeightsFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Get(recommend.StrategyExploration) != 0.2 {
		t.Errorf("unexpected weights %v", w)
	}
}

func TestLoadWeightsFile_Invalid(t *testing.T) {
	path := writeFile(t, `
weak_area_reinforcement: 0.9
progressive_difficulty: 0.9
spaced_repetition: 0.2
topic_exploration: 0.2
general_practice: 0.2
`)

	_, err := config.LoadWeightsFile(path)
	if !errors.Is(err, recommend.ErrInvalidWeights) {
		t.Errorf("expected ErrInvalidWeights, got %v", err)
	}
}

func TestFromEnv_WeightsFile(t *testing.T) {
	setRequired(t)
	t.Setenv("WEIGHTS_FILE", writeFile(t, `
weak_area_reinforcement: 0.5
progressive_difficulty: 0.2
spaced_repetition: 0.2
topic_exploration: 0.05
general_practice: 0.05
`))

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultWeights.Get(recommend.StrategyWeakArea) != 0.5 {
		t.Errorf("expected weights from file, got %v", cfg.DefaultWeights)
	}
}
