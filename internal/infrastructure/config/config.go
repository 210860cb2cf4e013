package config

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/leettrack/backend/internal/domain/solvehistory"
	"github.com/leettrack/backend/internal/recommend"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
	DatabasePath    string
	LogLevel        slog.Level

	// Recommendations
	DefaultWeights         recommend.WeightTable // from WEIGHTS_FILE, else built-in
	RecentWindow           int                   // attempts feeding the success rate
	DefaultRecommendations int
	MaxRecommendations     int

	// HTTP protection
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	CORSAllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return cfg
}

// FromEnv builds a Config from the process environment.
func FromEnv() (*Config, error) {
	addr, err := requireEnv("SERVER_ADDRESS")
	if err != nil {
		return nil, err
	}
	shutdown, err := requireDuration("SHUTDOWN_TIMEOUT")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerAddress:      addr,
		ShutdownTimeout:    shutdown,
		DatabasePath:       getenvDefault("DATABASE_PATH", "leettrack.db"),
		CORSAllowedOrigins: splitList(getenvDefault("CORS_ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{"RECENT_WINDOW", solvehistory.DefaultWindow, &cfg.RecentWindow},
		{"DEFAULT_RECOMMENDATIONS", 5, &cfg.DefaultRecommendations},
		{"MAX_RECOMMENDATIONS", 50, &cfg.MaxRecommendations},
		{"RATE_LIMIT_REQUESTS", 100, &cfg.RateLimitRequests},
	}
	for _, f := range ints {
		v, err := getInt(f.key, f.fallback)
		if err != nil {
			return nil, err
		}
		*f.dst = v
	}

	if cfg.RateLimitWindow, err = getDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	cfg.DefaultWeights = recommend.DefaultWeights()
	if path := os.Getenv("WEIGHTS_FILE"); path != "" {
		if cfg.DefaultWeights, err = LoadWeightsFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RecentWindow < 1 {
		return fmt.Errorf("RECENT_WINDOW must be at least 1, got %d", c.RecentWindow)
	}
	if c.DefaultRecommendations < 1 {
		return fmt.Errorf("DEFAULT_RECOMMENDATIONS must be at least 1, got %d", c.DefaultRecommendations)
	}
	if c.MaxRecommendations < c.DefaultRecommendations {
		return fmt.Errorf("MAX_RECOMMENDATIONS (%d) must be >= DEFAULT_RECOMMENDATIONS (%d)",
			c.MaxRecommendations, c.DefaultRecommendations)
	}
	return nil
}

// LoadWeightsFile reads a YAML mapping of strategy name to weight, e.g.
//
//	weak_area_reinforcement: 0.4
//	progressive_difficulty: 0.3
func LoadWeightsFile(path string) (recommend.WeightTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}

	var w recommend.WeightTable
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parse weights file %s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("weights file %s: %w", path, err)
	}
	return w, nil
}

func requireEnv(k string) (string, error) {
	v := os.Getenv(k)
	if v == "" {
		return "", fmt.Errorf("required environment variable %s is not set", k)
	}
	return v, nil
}

func requireDuration(k string) (time.Duration, error) {
	v, err := requireEnv(k)
	if err != nil {
		return 0, err
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getDuration(k string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration: %w", k, v, err)
	}
	return d, nil
}

func getInt(k string, fallback int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid integer: %w", k, v, err)
	}
	return n, nil
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
