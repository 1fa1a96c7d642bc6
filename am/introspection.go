package am

import (
	"os"
	"sort"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/larder/larder.toml
	SourceUser        ConfigSource = "user"        // ~/.larder/larder.toml
	SourceProject     ConfigSource = "project"     // project larder.toml
	SourceEnvironment ConfigSource = "environment" // LARDER_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource // The type of config source (default, system, user, etc.)
	Path   string       // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"` // File path or env var name
}

// GetConfigIntrospection returns every effective setting with the source
// that supplied it, sorted by key.
func GetConfigIntrospection() ([]SettingInfo, error) {
	if _, err := Load(); err != nil {
		return nil, err
	}

	v := GetViper()
	mu.Lock()
	sources := ConfigSources
	mu.Unlock()

	keys := v.AllKeys()
	sort.Strings(keys)

	settings := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sources[key]; ok {
			info = si
		}
		if env := EnvVarName(key); os.Getenv(env) != "" {
			info = SourceInfo{Source: SourceEnvironment, Path: env}
		}
		settings = append(settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return settings, nil
}

// GetConfigSummary counts effective settings by source.
func GetConfigSummary() (map[ConfigSource]int, error) {
	settings, err := GetConfigIntrospection()
	if err != nil {
		return nil, err
	}
	summary := map[ConfigSource]int{}
	for _, s := range settings {
		summary[s.Source]++
	}
	return summary, nil
}
