package am

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/teranos/tabix/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/tabix/tabix.toml
	SourceUser        ConfigSource = "user"        // ~/.tabix/tabix.toml
	SourceProject     ConfigSource = "project"     // nearest tabix.toml
	SourceEnvironment ConfigSource = "environment" // TABIX_* env vars
)

// SettingInfo describes one effective setting and its origin
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

type sourceInfo struct {
	source ConfigSource
	path   string
}

var (
	configSources   = map[string]sourceInfo{}
	configSourcesMu sync.Mutex
)

func recordSource(key string, source ConfigSource, path string) {
	configSourcesMu.Lock()
	defer configSourcesMu.Unlock()
	configSources[key] = sourceInfo{source: source, path: path}
}

func resetSources() {
	configSourcesMu.Lock()
	defer configSourcesMu.Unlock()
	configSources = map[string]sourceInfo{}
}

// Settings returns every effective setting, sorted by key, with the source that set it
func Settings() ([]SettingInfo, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}
	v := GetViper()

	keys := v.AllKeys()
	sort.Strings(keys)

	configSourcesMu.Lock()
	defer configSourcesMu.Unlock()

	settings := make([]SettingInfo, 0, len(keys))
	for _, key := range keys {
		info := SettingInfo{Key: key, Value: v.Get(key), Source: SourceDefault, SourcePath: "built-in default"}
		if si, ok := configSources[key]; ok {
			info.Source, info.SourcePath = si.source, si.path
		}

		envKey := EnvVarName(key)
		if _, ok := os.LookupEnv(envKey); ok {
			info.Source, info.SourcePath = SourceEnvironment, envKey
		}

		settings = append(settings, info)
	}
	return settings, nil
}

// EnvVarName returns the environment variable that overrides key
func EnvVarName(key string) string {
	return "TABIX_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
