package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/Bidscore/internal/scoring"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Hermes     HermesConfig     `yaml:"hermes"`
	MarketFeed MarketFeedConfig `yaml:"market_feed"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Ranker     RankerConfig     `yaml:"ranker"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port        int    `yaml:"port"`
	MetricsPort int    `yaml:"metrics_port"`
	AdminToken  string `yaml:"admin_token"`
	RateLimit   int    `yaml:"rate_limit_per_minute"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

// MarketFeedConfig points at the market intelligence service. An empty URL
// disables the lookup and bids are scored without market context unless the
// caller provides one.
type MarketFeedConfig struct {
	URL       string `yaml:"url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// ScoringConfig selects the base weight vector and estimator mode.
// Explicit weights take precedence over the preset.
type ScoringConfig struct {
	Preset  string          `yaml:"preset"`
	Weights *ScoringWeights `yaml:"weights"`
	Mode    string          `yaml:"mode"`
}

type ScoringWeights struct {
	Price      float64 `yaml:"price"`
	Quality    float64 `yaml:"quality"`
	Fit        float64 `yaml:"fit"`
	Delay      float64 `yaml:"delay"`
	Risk       float64 `yaml:"risk"`
	Completion float64 `yaml:"completion_probability"`
}

type RankerConfig struct {
	Enabled        bool `yaml:"enabled"`
	TickIntervalMs int  `yaml:"tick_interval_ms"`
	BatchSize      int  `yaml:"batch_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Ranker.TickIntervalMs) * time.Millisecond
}

func (c *Config) MarketFeedTimeout() time.Duration {
	return time.Duration(c.MarketFeed.TimeoutMs) * time.Millisecond
}

// ScoringWeights resolves the base weight vector for the engine.
func (c *Config) ScoringWeights() (scoring.WeightSet, error) {
	if w := c.Scoring.Weights; w != nil {
		ws := scoring.WeightSet{
			Price:      w.Price,
			Quality:    w.Quality,
			Fit:        w.Fit,
			Delay:      w.Delay,
			Risk:       w.Risk,
			Completion: w.Completion,
		}
		if err := ws.Validate(); err != nil {
			return scoring.WeightSet{}, fmt.Errorf("scoring weights: %w", err)
		}
		return ws, nil
	}
	return scoring.Preset(c.Scoring.Preset)
}

func (c *Config) ScoringMode() (scoring.Mode, error) {
	return scoring.ParseMode(c.Scoring.Mode)
}

// EngineOptions builds the scoring engine options from config.
func (c *Config) EngineOptions() (scoring.Options, error) {
	w, err := c.ScoringWeights()
	if err != nil {
		return scoring.Options{}, err
	}
	mode, err := c.ScoringMode()
	if err != nil {
		return scoring.Options{}, err
	}
	return scoring.Options{Weights: &w, Mode: mode}, nil
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if _, err := c.EngineOptions(); err != nil {
		return err
	}
	if c.Ranker.Enabled {
		if c.Ranker.TickIntervalMs <= 0 {
			return fmt.Errorf("ranker tick_interval_ms must be positive, got %d", c.Ranker.TickIntervalMs)
		}
		if c.Ranker.BatchSize <= 0 {
			return fmt.Errorf("ranker batch_size must be positive, got %d", c.Ranker.BatchSize)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			RateLimit:   120,
		},
		Hermes: HermesConfig{
			URL: "nats://localhost:4222",
		},
		MarketFeed: MarketFeedConfig{
			TimeoutMs: 3000,
		},
		Scoring: ScoringConfig{
			Preset: scoring.PresetDefault,
			Mode:   string(scoring.ModeAdvanced),
		},
		Ranker: RankerConfig{
			Enabled:        true,
			TickIntervalMs: 10000,
			BatchSize:      50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BIDSCORE_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("BIDSCORE_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("BIDSCORE_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("BIDSCORE_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BIDSCORE_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("BIDSCORE_MARKET_FEED_URL"); v != "" {
		cfg.MarketFeed.URL = v
	}
	if v := os.Getenv("BIDSCORE_SCORING_PRESET"); v != "" {
		cfg.Scoring.Preset = v
	}
	if v := os.Getenv("BIDSCORE_SCORING_MODE"); v != "" {
		cfg.Scoring.Mode = v
	}
	if v := os.Getenv("BIDSCORE_RANKER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Ranker.Enabled = b
		}
	}
	if v := os.Getenv("BIDSCORE_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranker.TickIntervalMs = n
		}
	}
	if v := os.Getenv("BIDSCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
