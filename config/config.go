package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full pipeline configuration.
type Config struct {
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	API        APIConfig        `yaml:"api"`
	LLM        LLMConfig        `yaml:"llm"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// AnalysisConfig tunes the morning recommendation run.
type AnalysisConfig struct {
	MaxStocks        int `yaml:"max_stocks"`
	ArticlesPerStock int `yaml:"articles_per_stock"`
	Workers          int `yaml:"workers"`
}

// EvaluationConfig tunes the grading run.
type EvaluationConfig struct {
	BenchmarkSymbol string `yaml:"benchmark_symbol"`
	MaxLookbackDays int    `yaml:"max_lookback_days"`
}

// APIConfig holds API base URLs and keys. Keys come from the environment.
type APIConfig struct {
	AlphaVantageBase string `yaml:"alphavantage_base"`
	AlphaVantageKey  string `yaml:"-"`
	YahooBase        string `yaml:"yahoo_base"`
}

// LLMConfig selects the classification model.
type LLMConfig struct {
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	APIKey      string  `yaml:"-"`
}

// ScheduleConfig holds the cron expressions for serve mode.
type ScheduleConfig struct {
	Analyze  string `yaml:"analyze"`
	Evaluate string `yaml:"evaluate"`
}

// StorageConfig controls where records persist.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // SQLite file path, or ":memory:"
}

// LogConfig controls log format and level.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load reads the YAML config file and the .env file if present. Environment
// values override the YAML for the keys they cover.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides pulls secrets and overrides from the environment.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPHA_VANTAGE_API_KEY"); v != "" {
		cfg.API.AlphaVantageKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("WANDERER_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}

// setDefaults fills in required values that were left empty.
func setDefaults(cfg *Config) {
	if cfg.Analysis.MaxStocks <= 0 {
		cfg.Analysis.MaxStocks = 10
	}
	if cfg.Analysis.ArticlesPerStock <= 0 {
		cfg.Analysis.ArticlesPerStock = 2
	}
	if cfg.Analysis.Workers <= 0 {
		cfg.Analysis.Workers = 4
	}
	if cfg.Evaluation.BenchmarkSymbol == "" {
		cfg.Evaluation.BenchmarkSymbol = "^GSPC"
	}
	if cfg.Evaluation.MaxLookbackDays <= 0 {
		cfg.Evaluation.MaxLookbackDays = 10
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "gpt-4o-mini"
	}
	if cfg.LLM.Temperature <= 0 {
		cfg.LLM.Temperature = 0.1
	}
	// Weekday schedule: analyze right before the open, evaluate after the close.
	if cfg.Schedule.Analyze == "" {
		cfg.Schedule.Analyze = "30 9 * * 1-5"
	}
	if cfg.Schedule.Evaluate == "" {
		cfg.Schedule.Evaluate = "0 18 * * 1-5"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "wanderer.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
