package am

import (
	"fmt"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/larder/match"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, "larder.db", cfg.Database.Path)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultAllowedOrigins, cfg.Server.AllowedOrigins)
	assert.Equal(t, DefaultQueryRatePerSecond, cfg.Server.QueryRatePerSecond)
	assert.Equal(t, "none", cfg.Autocomplete.EmptyQuery)
	assert.Zero(t, cfg.Autocomplete.MaxResults, "unlimited")
	assert.Equal(t, "Qty", cfg.Quantity.Placeholder)
	assert.Empty(t, cfg.Icons.TableFile)

	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "zero port uses default", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "negative port", mutate: func(c *Config) { c.Server.Port = -1 }, wantErr: "server.port"},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "zero rate is unlimited", mutate: func(c *Config) { c.Server.QueryRatePerSecond = 0; c.Server.QueryBurst = 0 }},
		{name: "negative rate", mutate: func(c *Config) { c.Server.QueryRatePerSecond = -1 }, wantErr: "query_rate_per_second"},
		{name: "rate without burst", mutate: func(c *Config) { c.Server.QueryBurst = 0 }, wantErr: "query_burst"},
		{name: "negative shutdown timeout", mutate: func(c *Config) { c.Server.ShutdownTimeoutSeconds = -1 }, wantErr: "shutdown_timeout_seconds"},
		{name: "empty query all", mutate: func(c *Config) { c.Autocomplete.EmptyQuery = "all" }},
		{name: "empty query unset", mutate: func(c *Config) { c.Autocomplete.EmptyQuery = "" }, wantErr: "autocomplete.empty_query"},
		{name: "empty query unknown", mutate: func(c *Config) { c.Autocomplete.EmptyQuery = "some" }, wantErr: "autocomplete.empty_query"},
		{name: "negative max results", mutate: func(c *Config) { c.Autocomplete.MaxResults = -5 }, wantErr: "max_results"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfigGetters(t *testing.T) {
	var cfg Config
	assert.Equal(t, "larder.db", cfg.GetDatabasePath())
	assert.Equal(t, DefaultServerPort, cfg.GetServerPort())
	assert.Equal(t, DefaultAllowedOrigins, cfg.GetServerAllowedOrigins())

	cfg.Autocomplete = AutocompleteConfig{EmptyQuery: "all", MaxResults: 5}
	e, err := cfg.NewEngine()
	require.NoError(t, err)
	assert.Equal(t, match.EmptyShowAll, e.Mode())
	assert.Equal(t, 5, e.MaxResults())

	cfg.Autocomplete.EmptyQuery = "maybe"
	_, err = cfg.NewEngine()
	assert.Error(t, err)
}

func TestDefaultEngineListsExactMatch(t *testing.T) {
	e, err := defaultConfig(t).NewEngine()
	require.NoError(t, err)
	assert.Zero(t, e.MaxResults())

	var candidates []match.Candidate
	for i := 1; i <= 25; i++ {
		candidates = append(candidates, match.Candidate{ID: int64(i), Name: fmt.Sprintf("Oil blend %d", i)})
	}
	candidates = append(candidates, match.Candidate{ID: 99, Name: "Oil"})

	r := e.Query(candidates, "oil")
	require.Equal(t, 26, r.Len())
	require.NotNil(t, r.Exact)
	assert.Equal(t, int64(99), r.Exact.ID)
	assert.False(t, r.HasCreateNew())

	r.Prev()
	sel, ok := r.Commit()
	require.True(t, ok)
	assert.Equal(t, int64(99), sel.Candidate.ID)
	assert.Equal(t, "Oil", sel.Name())
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "LARDER_SERVER_PORT", EnvVarName("server.port"))
	assert.Equal(t, "LARDER_AUTOCOMPLETE_EMPTY_QUERY", EnvVarName("autocomplete.empty_query"))
}
