package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/tabix/rate"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Rating defaults
	v.SetDefault("rating.unique_factor", rate.DefaultUniqueFactor)
	v.SetDefault("rating.left_factor", rate.DefaultLeftFactor)
	v.SetDefault("rating.column_match_factor", rate.DefaultColumnMatchFactor)
	v.SetDefault("rating.concurrent", true)
	v.SetDefault("rating.parallelism", DefaultParallelism)

	// Table defaults
	v.SetDefault("table.delimiter", ",")
	v.SetDefault("table.has_header", true)
	v.SetDefault("table.max_rows", 0)

	// Matcher defaults
	v.SetDefault("matcher.vocabulary_path", "")
	v.SetDefault("matcher.timeout_ms", 0)
	v.SetDefault("matcher.max_queries_per_second", 0.0)

	// Database defaults
	v.SetDefault("database.path", DefaultDatabasePath)
}

// BindEnvVars binds settings whose environment names do not follow the
// TABIX_SECTION_KEY convention
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "TABIX_DATABASE_PATH", "TABIX_DB")
	v.BindEnv("matcher.vocabulary_path", "TABIX_MATCHER_VOCABULARY_PATH", "TABIX_VOCABULARY")
}
