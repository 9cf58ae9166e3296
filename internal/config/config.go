// Package config loads and validates the monitor configuration.
package config

import "time"

// Config is the root configuration for a monitor instance.
type Config struct {
	Hyperion Hyperion `yaml:"hyperion"`
	Sources  []string `yaml:"sources"`
	Pools    Pools    `yaml:"pools"`
	Fetch    Fetch    `yaml:"fetch"`
	Database Database `yaml:"database"`
	Stream   Stream   `yaml:"stream"`
	Metrics  Metrics  `yaml:"metrics"`
	Monitor  Monitor  `yaml:"monitor"`
}

// Hyperion holds the history API endpoint settings.
type Hyperion struct {
	Endpoint   string        `yaml:"endpoint"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
}

// Pools holds on-chain pool snapshot settings.
type Pools struct {
	Dir        string  `yaml:"dir"`
	MinReserve float64 `yaml:"min_reserve"`
}

// Fetch holds transfer-history fetch settings.
type Fetch struct {
	Window time.Duration `yaml:"window"`
	Limit  int           `yaml:"limit"`
}

// Database holds storage connections. Both are optional; with neither set
// the monitor keeps the market map in memory only.
type Database struct {
	PostgresDSN   string `yaml:"postgres_dsn"`
	ClickhouseDSN string `yaml:"clickhouse_dsn"`
}

// Stream holds WebSocket streaming settings.
type Stream struct {
	URL                string        `yaml:"url"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	ReadTimeout        time.Duration `yaml:"read_timeout"`
}

// Metrics holds Prometheus metrics settings.
type Metrics struct {
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// Monitor holds continuous-mode settings.
type Monitor struct {
	Interval time.Duration `yaml:"interval"`
}
