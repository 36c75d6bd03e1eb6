package application

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const cutoffLayout = "2006-01-02"

// Config defines where raw device files live and where the canonical
// dataset is persisted.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	Pattern     string `yaml:"pattern"`
	DatasetPath string `yaml:"dataset_path"`
	// CutoffDate is the exclusive end of the dataset's known-good
	// collection window; empty disables the cutoff.
	CutoffDate string `yaml:"cutoff_date"`
}

// LoadConfig loads config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		DataDir:     getenvDefault("DATA_DIR", "data"),
		Pattern:     getenvDefault("DATA_PATTERN", "*.csv"),
		DatasetPath: getenvDefault("DATASET_PATH", filepath.FromSlash("data/consumo_kwh.csv")),
		CutoffDate:  os.Getenv("CUTOFF_DATE"),
	}

	if path := os.Getenv("DATASET_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.DataDir == "" {
		return cfg, errors.New("ingest: data dir required")
	}
	if cfg.Pattern == "" {
		cfg.Pattern = "*.csv"
	}
	if cfg.DatasetPath == "" {
		return cfg, errors.New("ingest: dataset path required")
	}
	if _, err := cfg.Cutoff(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Cutoff parses the configured cutoff date. The zero time disables it.
func (c Config) Cutoff() (time.Time, error) {
	if c.CutoffDate == "" {
		return time.Time{}, nil
	}
	cutoff, err := time.ParseInLocation(cutoffLayout, c.CutoffDate, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("ingest: cutoff_date %q: %w", c.CutoffDate, err)
	}
	return cutoff, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
