package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	RiskConsole RiskConsoleConfig `yaml:"riskconsole"`
}

// RiskConsoleConfig is the project configuration.
type RiskConsoleConfig struct {
	Backend BackendConfig `yaml:"backend"`
	Scoring ScoringConfig `yaml:"scoring"`
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Feed    FeedConfig    `yaml:"feed"`
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig controls the SOC REST backend client.
type BackendConfig struct {
	BaseURL   string            `yaml:"base_url"`
	APIPrefix string            `yaml:"api_prefix"`
	Timeout   time.Duration     `yaml:"timeout"`
	Headers   map[string]string `yaml:"headers"`
	RateLimit float64           `yaml:"rate_limit"` // requests per second, 0 disables
	Burst     int               `yaml:"burst"`
}

// ScoringConfig selects where risk scores come from.
type ScoringConfig struct {
	Source string `yaml:"source"` // local|remote
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	Mode string `yaml:"mode"` // debug|release|test
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// FeedConfig controls the risk feed.
type FeedConfig struct {
	Input         FeedInputConfig  `yaml:"input"`
	Output        FeedOutputConfig `yaml:"output"`
	Workers       int              `yaml:"workers"`
	BatchSize     int              `yaml:"batch_size"`
	FlushInterval time.Duration    `yaml:"flush_interval"`
	Schedule      string           `yaml:"schedule"` // cron expression for full rescoring, empty disables
}

// FeedInputConfig controls where change notifications are read from.
type FeedInputConfig struct {
	Mode  string      `yaml:"mode"` // redis|nats
	Redis RedisConfig `yaml:"redis"`
	NATS  NATSConfig  `yaml:"nats"`
}

// RedisConfig controls Redis input.
type RedisConfig struct {
	Addr         string        `yaml:"addr"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	Key          string        `yaml:"key"`
	BlockTimeout time.Duration `yaml:"block_timeout"`
}

// NATSConfig controls NATS input.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Queue   string `yaml:"queue"`
}

// FeedOutputConfig controls the risk event sink.
type FeedOutputConfig struct {
	Mode       string                 `yaml:"mode"` // file|http|clickhouse
	File       FileOutputConfig       `yaml:"file"`
	HTTP       HTTPOutputConfig       `yaml:"http"`
	ClickHouse ClickHouseOutputConfig `yaml:"clickhouse"`
}

// ClickHouseOutputConfig config for ClickHouse HTTP JSONEachRow writes.
type ClickHouseOutputConfig struct {
	URL      string            `yaml:"url"`
	Database string            `yaml:"database"`
	Table    string            `yaml:"table"`
	Username string            `yaml:"username"`
	Password string            `yaml:"password"`
	Timeout  time.Duration     `yaml:"timeout"`
	Headers  map[string]string `yaml:"headers"`
}

// FileOutputConfig config for local JSON output.
type FileOutputConfig struct {
	Path string `yaml:"path"`
}

// HTTPOutputConfig config for remote output.
type HTTPOutputConfig struct {
	URL             string            `yaml:"url"`
	Timeout         time.Duration     `yaml:"timeout"`
	Headers         map[string]string `yaml:"headers"`
	BandChangesOnly bool              `yaml:"band_changes_only"`
}

// LoggingConfig controls logging output.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
	Console bool   `yaml:"console"`
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses YAML config bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills unset values.
func ApplyDefaults(cfg *Config) {
	rc := &cfg.RiskConsole

	if rc.Backend.BaseURL == "" {
		rc.Backend.BaseURL = "http://localhost:8000"
	}
	if rc.Backend.APIPrefix == "" {
		rc.Backend.APIPrefix = "/app/v1/cyber"
	}
	if rc.Backend.Timeout <= 0 {
		rc.Backend.Timeout = 10 * time.Second
	}
	if rc.Backend.RateLimit > 0 && rc.Backend.Burst <= 0 {
		rc.Backend.Burst = 1
	}

	rc.Scoring.Source = strings.ToLower(strings.TrimSpace(rc.Scoring.Source))
	if rc.Scoring.Source == "" {
		rc.Scoring.Source = "local"
	}

	if rc.Server.Addr == "" {
		rc.Server.Addr = ":8080"
	}
	if rc.Server.Mode == "" {
		rc.Server.Mode = "release"
	}
	if rc.Metrics.Path == "" {
		rc.Metrics.Path = "/metrics"
	}

	if rc.Feed.Input.Mode == "" {
		rc.Feed.Input.Mode = "redis"
	}
	if rc.Feed.Input.Redis.Addr == "" {
		rc.Feed.Input.Redis.Addr = "127.0.0.1:6379"
	}
	if rc.Feed.Input.Redis.Key == "" {
		rc.Feed.Input.Redis.Key = "incident_changes"
	}
	if rc.Feed.Input.Redis.BlockTimeout == 0 {
		rc.Feed.Input.Redis.BlockTimeout = 5 * time.Second
	}
	if rc.Feed.Input.NATS.URL == "" {
		rc.Feed.Input.NATS.URL = "nats://127.0.0.1:4222"
	}
	if rc.Feed.Input.NATS.Subject == "" {
		rc.Feed.Input.NATS.Subject = "soc.incidents.changed"
	}
	if rc.Feed.Workers <= 0 {
		rc.Feed.Workers = 4
	}
	if rc.Feed.BatchSize <= 0 {
		rc.Feed.BatchSize = 100
	}
	if rc.Feed.FlushInterval <= 0 {
		rc.Feed.FlushInterval = 2 * time.Second
	}
	if rc.Feed.Output.Mode == "" {
		rc.Feed.Output.Mode = "file"
	}
	if rc.Feed.Output.File.Path == "" {
		rc.Feed.Output.File.Path = "output/risk_events.jsonl"
	}
	if rc.Feed.Output.ClickHouse.Database == "" {
		rc.Feed.Output.ClickHouse.Database = "riskconsole"
	}
	if rc.Feed.Output.ClickHouse.Table == "" {
		rc.Feed.Output.ClickHouse.Table = "risk_events"
	}

	if rc.Logging.Level == "" {
		rc.Logging.Level = "info"
	}
}
