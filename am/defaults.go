package am

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/larder/match"
)

// DefaultAllowedOrigins are the websocket origins accepted out of the box.
var DefaultAllowedOrigins = []string{
	"http://localhost",
	"https://localhost",
	"http://127.0.0.1",
	"https://127.0.0.1",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "larder.db")

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("server.query_rate_per_second", DefaultQueryRatePerSecond)
	v.SetDefault("server.query_burst", DefaultQueryBurst)
	v.SetDefault("server.shutdown_timeout_seconds", DefaultShutdownTimeoutSeconds)

	// Typing nothing shows nothing until told otherwise.
	v.SetDefault("autocomplete.empty_query", "none")
	v.SetDefault("autocomplete.max_results", 0)

	v.SetDefault("quantity.placeholder", "Qty")

	v.SetDefault("icons.table_file", "")
}

// BindEnvVars binds every known key to its LARDER_* variable so Unmarshal
// sees environment overrides even for keys absent from all files.
func BindEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		v.BindEnv(key, EnvVarName(key))
	}
}

// EnvVarName returns the environment variable overriding key.
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "larder.db"
	}
	return c.Database.Path
}

// GetServerAllowedOrigins returns the allowed websocket origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return DefaultAllowedOrigins
	}
	return c.Server.AllowedOrigins
}

// GetServerPort returns server.port, or DefaultServerPort when unset
func (c *Config) GetServerPort() int {
	if c.Server.Port == 0 {
		return DefaultServerPort
	}
	return c.Server.Port
}

// GetEmptyQueryMode parses autocomplete.empty_query
func (c *Config) GetEmptyQueryMode() (match.EmptyQueryMode, error) {
	return match.ParseEmptyQueryMode(c.Autocomplete.EmptyQuery)
}

// NewEngine builds the match engine described by the autocomplete section
func (c *Config) NewEngine() (*match.Engine, error) {
	mode, err := c.GetEmptyQueryMode()
	if err != nil {
		return nil, err
	}
	return match.NewEngine(mode, match.WithMaxResults(c.Autocomplete.MaxResults))
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Server: {Port: %d}, Autocomplete: {EmptyQuery: %s, MaxResults: %d}}",
		c.Database.Path, c.Server.Port, c.Autocomplete.EmptyQuery, c.Autocomplete.MaxResults)
}
