package config

import "time"

// TestConfig returns a config suitable for tests: no retries, short
// timeouts, no real database path.
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.API.HTTPTimeout = 5 * time.Second
	cfg.API.MaxRetries = 0
	cfg.API.UserAgent = "reddlist-test/1.0"
	cfg.Comments.CacheTTL = time.Minute
	cfg.Database.Path = ""
	return cfg
}
