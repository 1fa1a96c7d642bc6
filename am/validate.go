package am

import "github.com/teranos/larder/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty defaults to "larder.db"

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}

	// Rate limit: 0 = unlimited, negative = invalid
	if c.Server.QueryRatePerSecond < 0 {
		return errors.Newf("server.query_rate_per_second must be >= 0, got %f", c.Server.QueryRatePerSecond)
	}
	if c.Server.QueryRatePerSecond > 0 && c.Server.QueryBurst <= 0 {
		return errors.Newf("server.query_burst must be > 0 when rate limiting, got %d", c.Server.QueryBurst)
	}
	if c.Server.ShutdownTimeoutSeconds < 0 {
		return errors.Newf("server.shutdown_timeout_seconds must be >= 0, got %d", c.Server.ShutdownTimeoutSeconds)
	}

	if _, err := c.GetEmptyQueryMode(); err != nil {
		return errors.Wrap(err, "autocomplete.empty_query")
	}
	if c.Autocomplete.MaxResults < 0 {
		return errors.Newf("autocomplete.max_results must be >= 0, got %d", c.Autocomplete.MaxResults)
	}

	return nil
}
