package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DataDir    string `env:"ROUND_TABLE_DATA"`
	Model      string `env:"ROUND_TABLE_MODEL"`
	RosterPath string `env:"ROUND_TABLE_ROSTER"`
	APIKey     string `env:"OPENAI_API_KEY"`

	// StatePath and ReportsDir override the layout derived from DataDir.
	StatePath  string
	ReportsDir string

	// Date overrides the run date (YYYY-MM-DD, UTC). Sampling is seeded by
	// the date, so a backfill re-run reproduces the same voice roster.
	Date string
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("missing -data")
	}
	if c.Model == "" {
		return errors.New("missing -model")
	}
	if c.Date != "" {
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return errors.New("-date must be YYYY-MM-DD")
		}
	}
	return nil
}

func defaultConfig() (Config, error) {
	cfg := Config{
		DataDir: ".",
		Model:   "gpt-5",
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseFlags(fs *flag.FlagSet, args []string) (Config, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return Config{}, err
	}
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Root directory for engine state and report artifacts")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "OpenAI model to use for intake and generation (e.g. gpt-5)")
	fs.StringVar(&cfg.RosterPath, "roster", cfg.RosterPath, "Optional YAML council roster file (default: built-in panel)")
	fs.StringVar(&cfg.StatePath, "state", "", "Optional rotation state file path (default: <data>/engine/state.json)")
	fs.StringVar(&cfg.ReportsDir, "reports", "", "Optional reports directory (default: <data>/reports)")
	fs.StringVar(&cfg.Date, "date", "", "Run date override, YYYY-MM-DD UTC (default: today)")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "OpenAI API key (overrides OPENAI_API_KEY env var)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.DataDir = filepath.Clean(cfg.DataDir)
	if cfg.RosterPath != "" {
		cfg.RosterPath = filepath.Clean(cfg.RosterPath)
	}
	if cfg.StatePath != "" {
		cfg.StatePath = filepath.Clean(cfg.StatePath)
	}
	if cfg.ReportsDir != "" {
		cfg.ReportsDir = filepath.Clean(cfg.ReportsDir)
	}
	return cfg, nil
}
