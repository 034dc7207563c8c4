package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Search struct {
		Model               string `yaml:"model"`
		State               string `yaml:"state"`
		City                string `yaml:"city"`
		TargetPrice         int    `yaml:"target_price"`
		TargetMargin        int    `yaml:"target_margin"`
		PriceTolerance      int    `yaml:"price_tolerance"`
		MarginTolerance     int    `yaml:"margin_tolerance"`
		RequireNumericPrice bool   `yaml:"require_numeric_price"`
		MaxPages            int    `yaml:"max_pages"`
	} `yaml:"search"`

	Matching struct {
		BrandCutoff     float64           `yaml:"brand_cutoff"`
		ModelCutoff     float64           `yaml:"model_cutoff"`
		ModelCandidates int               `yaml:"model_candidates"`
		BrandAliases    map[string]string `yaml:"brand_aliases"`
	} `yaml:"matching"`

	Catalog struct {
		BaseURL           string  `yaml:"base_url"`
		PriceCacheSize    int     `yaml:"price_cache_size"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"catalog"`

	Scrape struct {
		BaseURL           string  `yaml:"base_url"`
		Retries           int     `yaml:"retries"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
	} `yaml:"scrape"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// Default returns the built-in config used when no user file exists yet.
func Default() Config {
	var cfg Config
	cfg.App.Port = 38472
	cfg.Search.TargetPrice = 89424
	cfg.Search.TargetMargin = 10000
	cfg.Search.PriceTolerance = 10000
	cfg.Search.MarginTolerance = 5000
	cfg.Search.RequireNumericPrice = false
	cfg.Search.MaxPages = 2
	cfg.Matching.BrandCutoff = 0.3
	cfg.Matching.ModelCutoff = 0.25
	cfg.Matching.ModelCandidates = 4
	cfg.Catalog.PriceCacheSize = 4096
	cfg.Catalog.RequestsPerSecond = 2
	cfg.Scrape.Retries = 2
	cfg.Scrape.RequestsPerSecond = 1
	return cfg
}
