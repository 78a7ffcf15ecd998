package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tabix/rate"
)

// isolate points HOME and the working directory at an empty temp dir
func isolate(t *testing.T) string {
	t.Helper()
	Reset()
	t.Cleanup(Reset)

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, rate.DefaultFactors(), cfg.Factors())
	assert.True(t, cfg.Rating.Concurrent)
	assert.Equal(t, DefaultParallelism, cfg.Rating.Parallelism)
	assert.Equal(t, ",", cfg.Table.Delimiter)
	assert.True(t, cfg.Table.HasHeader)
	assert.Equal(t, DefaultDatabasePath, cfg.GetDatabasePath())
	assert.Zero(t, cfg.MatcherTimeout())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ProjectOverridesUser(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(dir, ".tabix", ConfigFileName), `
[rating]
left_factor = 5
unique_factor = 7
`)
	project := filepath.Join(dir, "work")
	writeFile(t, filepath.Join(project, ConfigFileName), `
[rating]
left_factor = 2
`)
	nested := filepath.Join(project, "data", "csv")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Rating.LeftFactor, "project config found by upward search wins")
	assert.Equal(t, 7, cfg.Rating.UniqueFactor, "user config fills keys the project omits")
	assert.Equal(t, rate.DefaultColumnMatchFactor, cfg.Rating.ColumnMatchFactor)
}

func TestLoad_EnvironmentWins(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ConfigFileName), "[rating]\ncolumn_match_factor = 9\n")
	t.Setenv("TABIX_RATING_COLUMN_MATCH_FACTOR", "4")
	t.Setenv("TABIX_DB", "/tmp/attestations.db")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Rating.ColumnMatchFactor)
	assert.Equal(t, "/tmp/attestations.db", cfg.GetDatabasePath())
}

func TestLoad_Cached(t *testing.T) {
	isolate(t)

	first, err := Load()
	require.NoError(t, err)
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.NotSame(t, first, third)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `
[table]
delimiter = ";"
has_header = false
max_rows = 100

[matcher]
timeout_ms = 250
max_queries_per_second = 20.5
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	opts := cfg.CSVOptions()
	assert.Equal(t, ';', opts.Delimiter)
	assert.False(t, opts.HasHeader)
	assert.Equal(t, 100, opts.MaxRows)
	assert.Equal(t, 250*time.Millisecond, cfg.MatcherTimeout())
	assert.Equal(t, 20.5, cfg.Matcher.MaxQueriesPerSecond)
	assert.Equal(t, rate.DefaultLeftFactor, cfg.Rating.LeftFactor, "defaults still apply")
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestRateOptions(t *testing.T) {
	cfg := Config{}
	assert.Empty(t, cfg.RateOptions())

	cfg.Rating.Concurrent = true
	assert.Len(t, cfg.RateOptions(), 1)
}

func TestSettings_Sources(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".tabix", ConfigFileName), "[rating]\nleft_factor = 6\n")
	writeFile(t, filepath.Join(dir, ConfigFileName), "[table]\ndelimiter = \"|\"\n")
	t.Setenv("TABIX_MATCHER_TIMEOUT_MS", "100")

	settings, err := Settings()
	require.NoError(t, err)

	byKey := map[string]SettingInfo{}
	for _, s := range settings {
		byKey[s.Key] = s
	}

	assert.Equal(t, SourceUser, byKey["rating.left_factor"].Source)
	assert.Equal(t, SourceProject, byKey["table.delimiter"].Source)
	assert.Equal(t, SourceEnvironment, byKey["matcher.timeout_ms"].Source)
	assert.Equal(t, "TABIX_MATCHER_TIMEOUT_MS", byKey["matcher.timeout_ms"].SourcePath)
	assert.Equal(t, SourceDefault, byKey["database.path"].Source)
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "TABIX_RATING_LEFT_FACTOR", EnvVarName("rating.left_factor"))
}
