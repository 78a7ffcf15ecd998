// Package am loads tabix configuration.
//
// Sources, lowest precedence first: built-in defaults, /etc/tabix/tabix.toml,
// ~/.tabix/tabix.toml, the nearest tabix.toml found walking up from the
// working directory, and TABIX_* environment variables.
package am

import (
	"time"

	"github.com/teranos/tabix/rate"
	"github.com/teranos/tabix/table"
)

// Config represents the tabix configuration
type Config struct {
	Rating   RatingConfig   `mapstructure:"rating" toml:"rating" json:"rating" yaml:"rating"`
	Table    TableConfig    `mapstructure:"table" toml:"table" json:"table" yaml:"table"`
	Matcher  MatcherConfig  `mapstructure:"matcher" toml:"matcher" json:"matcher" yaml:"matcher"`
	Database DatabaseConfig `mapstructure:"database" toml:"database" json:"database" yaml:"database"`
}

// RatingConfig configures the signal weights and execution mode.
// Parallelism bounds concurrent matcher calls when Concurrent is set.
type RatingConfig struct {
	UniqueFactor      int  `mapstructure:"unique_factor" toml:"unique_factor" json:"unique_factor" yaml:"unique_factor"`
	LeftFactor        int  `mapstructure:"left_factor" toml:"left_factor" json:"left_factor" yaml:"left_factor"`
	ColumnMatchFactor int  `mapstructure:"column_match_factor" toml:"column_match_factor" json:"column_match_factor" yaml:"column_match_factor"`
	Concurrent        bool `mapstructure:"concurrent" toml:"concurrent" json:"concurrent" yaml:"concurrent"`
	Parallelism       int  `mapstructure:"parallelism" toml:"parallelism" json:"parallelism" yaml:"parallelism"`
}

// TableConfig configures CSV input. MaxRows of 0 means unlimited.
type TableConfig struct {
	Delimiter string `mapstructure:"delimiter" toml:"delimiter" json:"delimiter" yaml:"delimiter"`
	HasHeader bool   `mapstructure:"has_header" toml:"has_header" json:"has_header" yaml:"has_header"`
	MaxRows   int    `mapstructure:"max_rows" toml:"max_rows" json:"max_rows" yaml:"max_rows"`
}

// MatcherConfig configures the attestation-backed predicate matcher.
// TimeoutMS and MaxQueriesPerSecond of 0 disable the timeout and the rate limit.
type MatcherConfig struct {
	VocabularyPath      string  `mapstructure:"vocabulary_path" toml:"vocabulary_path" json:"vocabulary_path" yaml:"vocabulary_path"`
	TimeoutMS           int     `mapstructure:"timeout_ms" toml:"timeout_ms" json:"timeout_ms" yaml:"timeout_ms"`
	MaxQueriesPerSecond float64 `mapstructure:"max_queries_per_second" toml:"max_queries_per_second" json:"max_queries_per_second" yaml:"max_queries_per_second"`
}

// DatabaseConfig configures the SQLite attestation store
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" json:"path" yaml:"path"`
}

const (
	// DefaultDatabasePath is used when database.path is unset
	DefaultDatabasePath = "tabix.db"
	// DefaultParallelism bounds concurrent matcher calls
	DefaultParallelism = 4
	// ConfigFileName is the project and user config file name
	ConfigFileName = "tabix.toml"
	// DefaultDirPermissions for ~/.tabix
	DefaultDirPermissions = 0750
)

// Factors returns the rating factors.
func (c *Config) Factors() rate.Factors {
	return rate.Factors{
		Unique:      c.Rating.UniqueFactor,
		Left:        c.Rating.LeftFactor,
		ColumnMatch: c.Rating.ColumnMatchFactor,
	}
}

// RateOptions returns the engine options implied by the rating section.
func (c *Config) RateOptions() []rate.Option {
	if !c.Rating.Concurrent {
		return nil
	}
	p := c.Rating.Parallelism
	if p <= 0 {
		p = DefaultParallelism
	}
	return []rate.Option{rate.WithConcurrency(p)}
}

// CSVOptions returns the CSV reader options. Validate must have passed.
func (c *Config) CSVOptions() table.CSVOptions {
	opts := table.DefaultCSVOptions()
	if c.Table.Delimiter != "" {
		opts.Delimiter = []rune(c.Table.Delimiter)[0]
	}
	opts.HasHeader = c.Table.HasHeader
	opts.MaxRows = c.Table.MaxRows
	return opts
}

// MatcherTimeout returns the per-call matcher timeout, or 0 for none.
func (c *Config) MatcherTimeout() time.Duration {
	return time.Duration(c.Matcher.TimeoutMS) * time.Millisecond
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}
