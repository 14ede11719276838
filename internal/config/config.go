package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Database DatabaseConfig `yaml:"database"`
	GeoIP    GeoIPConfig    `yaml:"geoip"`
	Import   ImportConfig   `yaml:"import"`
	Export   ExportConfig   `yaml:"export"`
	Check    CheckConfig    `yaml:"check"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type GeoIPConfig struct {
	ASNPath     string `yaml:"asn_path"`
	CountryPath string `yaml:"country_path"`
}

type ImportConfig struct {
	HTTPTimeout time.Duration `yaml:"http_timeout"`
}

type ExportConfig struct {
	Format string `yaml:"format"`
}

type CheckConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	Retries     int           `yaml:"retries"`
	WorkerCount int           `yaml:"worker_count"`
}

func defaults() Config {
	var cfg Config
	cfg.Database.Path = "proxyconf.db"
	cfg.Import.HTTPTimeout = 30 * time.Second
	cfg.Export.Format = "uri"
	cfg.Check.Timeout = 5 * time.Second
	cfg.Check.Retries = 1
	cfg.Check.WorkerCount = 16
	return cfg
}

// Load reads the YAML config at path. A missing file at the default path is
// not an error: the tool works out of the box with defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config yaml: %w", err)
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = defaults().Database.Path
	}
	if cfg.Import.HTTPTimeout <= 0 {
		cfg.Import.HTTPTimeout = defaults().Import.HTTPTimeout
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = defaults().Export.Format
	}
	if cfg.Check.Timeout <= 0 {
		cfg.Check.Timeout = defaults().Check.Timeout
	}
	if cfg.Check.Retries < 0 {
		cfg.Check.Retries = 0
	}
	if cfg.Check.WorkerCount <= 0 {
		cfg.Check.WorkerCount = defaults().Check.WorkerCount
	}

	return &cfg, nil
}
