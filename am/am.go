// Package am ("I am") loads larder's configuration.
//
// Values come from, lowest to highest precedence: built-in defaults,
// /etc/larder/larder.toml, ~/.larder/larder.toml, the nearest larder.toml
// found walking up from the working directory, and LARDER_* environment
// variables (LARDER_SERVER_PORT overrides server.port).
package am

// Config represents the larder configuration
type Config struct {
	Database     DatabaseConfig     `mapstructure:"database" json:"database" yaml:"database" toml:"database"`
	Server       ServerConfig       `mapstructure:"server" json:"server" yaml:"server" toml:"server"`
	Autocomplete AutocompleteConfig `mapstructure:"autocomplete" json:"autocomplete" yaml:"autocomplete" toml:"autocomplete"`
	Quantity     QuantityConfig     `mapstructure:"quantity" json:"quantity" yaml:"quantity" toml:"quantity"`
	Icons        IconsConfig        `mapstructure:"icons" json:"icons" yaml:"icons" toml:"icons"`
}

// DatabaseConfig configures the SQLite ingredient catalog
type DatabaseConfig struct {
	Path string `mapstructure:"path" json:"path" yaml:"path" toml:"path"`
}

// ServerConfig configures the HTTP and websocket server
type ServerConfig struct {
	Port                   int      `mapstructure:"port" json:"port" yaml:"port" toml:"port"`
	AllowedOrigins         []string `mapstructure:"allowed_origins" json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	QueryRatePerSecond     float64  `mapstructure:"query_rate_per_second" json:"query_rate_per_second" yaml:"query_rate_per_second" toml:"query_rate_per_second"` // websocket events per second per connection
	QueryBurst             int      `mapstructure:"query_burst" json:"query_burst" yaml:"query_burst" toml:"query_burst"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds" toml:"shutdown_timeout_seconds"`
}

// AutocompleteConfig configures the ingredient match engine
type AutocompleteConfig struct {
	EmptyQuery string `mapstructure:"empty_query" json:"empty_query" yaml:"empty_query" toml:"empty_query"` // "all" or "none"
	MaxResults int    `mapstructure:"max_results" json:"max_results" yaml:"max_results" toml:"max_results"` // 0 = unlimited
}

// QuantityConfig configures quantity display
type QuantityConfig struct {
	Placeholder string `mapstructure:"placeholder" json:"placeholder" yaml:"placeholder" toml:"placeholder"` // shown for an absent quantity
}

// IconsConfig configures icon resolution
type IconsConfig struct {
	TableFile string `mapstructure:"table_file" json:"table_file" yaml:"table_file" toml:"table_file"` // replacement icons.toml; empty = embedded table
}

// Server defaults
const (
	DefaultServerPort             = 8787
	DefaultQueryRatePerSecond     = 30.0
	DefaultQueryBurst             = 10
	DefaultShutdownTimeoutSeconds = 5
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// Config file names and locations
const (
	ConfigFileName   = "larder.toml"
	SystemConfigPath = "/etc/larder/larder.toml"
	UserConfigDir    = ".larder"
	EnvPrefix        = "LARDER"
)
