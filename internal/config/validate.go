package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Hyperion.Endpoint == "" {
		return errors.New("hyperion.endpoint is required")
	}
	if c.Hyperion.MaxRetries < 0 {
		return errors.New("hyperion.max_retries must be >= 0")
	}

	if len(c.Sources) == 0 {
		return errors.New("sources must list at least one contract account")
	}
	for i, src := range c.Sources {
		if src == "" {
			return fmt.Errorf("sources[%d] must not be empty", i)
		}
	}

	if c.Pools.MinReserve < 0 {
		return errors.New("pools.min_reserve must be >= 0")
	}

	if c.Fetch.Window <= 0 {
		return errors.New("fetch.window must be > 0")
	}
	if c.Fetch.Limit < 1 {
		return errors.New("fetch.limit must be >= 1")
	}

	if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	if c.Monitor.Interval <= 0 {
		return errors.New("monitor.interval must be > 0")
	}

	return nil
}
