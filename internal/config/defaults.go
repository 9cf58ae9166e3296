package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultHyperionEndpoint   = "https://wax.hyperion.eosrio.io/v2/history/get_actions"
	DefaultHyperionTimeout    = 10 * time.Second
	DefaultHyperionRetries    = 3
	DefaultHyperionRetryDelay = 1 * time.Second
	DefaultPoolsDir           = "data/pools"
	DefaultMinReserve         = 1.0
	DefaultFetchWindow        = 5 * time.Minute
	DefaultFetchLimit         = 100
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultStreamReadTimeout  = 30 * time.Second
	DefaultMetricsPort        = 9090
	DefaultMetricsPath        = "/metrics"
	DefaultMonitorInterval    = 30 * time.Second
)

// Default returns a configuration with all defaults applied. Sources must
// still be supplied before the config validates.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Hyperion.Endpoint == "" {
		c.Hyperion.Endpoint = DefaultHyperionEndpoint
	}
	if c.Hyperion.Timeout == 0 {
		c.Hyperion.Timeout = DefaultHyperionTimeout
	}
	if c.Hyperion.MaxRetries == 0 {
		c.Hyperion.MaxRetries = DefaultHyperionRetries
	}
	if c.Hyperion.RetryDelay == 0 {
		c.Hyperion.RetryDelay = DefaultHyperionRetryDelay
	}

	if c.Pools.Dir == "" {
		c.Pools.Dir = DefaultPoolsDir
	}
	if c.Pools.MinReserve == 0 {
		c.Pools.MinReserve = DefaultMinReserve
	}

	if c.Fetch.Window == 0 {
		c.Fetch.Window = DefaultFetchWindow
	}
	if c.Fetch.Limit == 0 {
		c.Fetch.Limit = DefaultFetchLimit
	}

	if c.Stream.ReconnectBaseDelay == 0 {
		c.Stream.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Stream.ReconnectMaxDelay == 0 {
		c.Stream.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Stream.ReadTimeout == 0 {
		c.Stream.ReadTimeout = DefaultStreamReadTimeout
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}

	if c.Monitor.Interval == 0 {
		c.Monitor.Interval = DefaultMonitorInterval
	}
}
