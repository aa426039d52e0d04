// Package config loads settings from defaults, an optional config file, an
// optional .env file and KIDS_* environment variables, in increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Storage StorageConfig `mapstructure:"storage"`
	Phone   PhoneConfig   `mapstructure:"phone"`
	Mirror  MirrorConfig  `mapstructure:"mirror"`
	Reports ReportsConfig `mapstructure:"reports"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	BaseURL string `mapstructure:"base_url"` // used in QR badges; request host when empty
}

type StorageConfig struct {
	DataDir    string `mapstructure:"data_dir"`
	ReportsDir string `mapstructure:"reports_dir"`
	Timezone   string `mapstructure:"timezone"`
}

type PhoneConfig struct {
	DefaultCountry string `mapstructure:"default_country"`
}

// MirrorConfig controls the SQLite copy of the CSV data used for SQL reporting.
type MirrorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type ReportsConfig struct {
	SnapshotEvery time.Duration `mapstructure:"snapshot_every"` // 0 disables
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. path names a config file; when empty,
// config.yaml is looked up in ./config and the working directory. Missing
// files are not an error.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "")
	v.SetDefault("storage.data_dir", "data")
	v.SetDefault("storage.reports_dir", "data/reports")
	v.SetDefault("storage.timezone", "America/Sao_Paulo")
	v.SetDefault("phone.default_country", "55")
	v.SetDefault("mirror.enabled", false)
	v.SetDefault("mirror.path", "data/kidsdesk.db")
	v.SetDefault("reports.snapshot_every", "0s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("KIDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadDotEnv loads path into the environment if it exists. Variables already
// set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: godotenv %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("config: server.addr is required")
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return fmt.Errorf("config: storage.data_dir is required")
	}
	if strings.TrimSpace(c.Storage.ReportsDir) == "" {
		return fmt.Errorf("config: storage.reports_dir is required")
	}
	// clearing report history must never reach the record files
	reports := filepath.Clean(c.Storage.ReportsDir)
	data := filepath.Clean(c.Storage.DataDir)
	if reports == data || filepath.Join(reports, "detailed") == data {
		return fmt.Errorf("config: storage.reports_dir must not be the data directory %q", c.Storage.DataDir)
	}
	for _, r := range c.Phone.DefaultCountry {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: phone.default_country must be digits, got %q", c.Phone.DefaultCountry)
		}
	}
	if c.Mirror.Enabled && strings.TrimSpace(c.Mirror.Path) == "" {
		return fmt.Errorf("config: mirror.path is required when the mirror is enabled")
	}
	if c.Reports.SnapshotEvery < 0 {
		return fmt.Errorf("config: reports.snapshot_every cannot be negative")
	}
	return nil
}

// Location resolves storage.timezone, falling back to UTC when the zone
// database does not know it.
func (c *Config) Location() (*time.Location, bool) {
	if c.Storage.Timezone == "" {
		return time.Local, true
	}
	loc, err := time.LoadLocation(c.Storage.Timezone)
	if err != nil {
		return time.UTC, false
	}
	return loc, true
}
