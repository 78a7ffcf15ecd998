package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetValue_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)

	require.NoError(t, SetValue(path, "rating.left_factor", 4))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Rating.LeftFactor)
}

func TestSetValue_PreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "[table]\ndelimiter = \";\"\n")

	require.NoError(t, SetValue(path, "matcher.vocabulary_path", "predicates.toml"))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.Table.Delimiter)
	assert.Equal(t, "predicates.toml", cfg.Matcher.VocabularyPath)
}

func TestSetValue_RotatesBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	writeFile(t, path, "[rating]\nleft_factor = 1\n")

	for i := 2; i <= 5; i++ {
		require.NoError(t, SetValue(path, "rating.left_factor", i))
	}

	for _, suffix := range []string{".back1", ".back2", ".back3"} {
		_, err := os.Stat(path + suffix)
		assert.NoError(t, err, suffix)
	}
	_, err := os.Stat(path + ".back4")
	assert.True(t, os.IsNotExist(err))

	back1, err := LoadFromFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, 4, back1.Rating.LeftFactor)
}

func TestSetValue_RejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	assert.Error(t, SetValue(path, "rating..left", 1))
	assert.Error(t, SetValue(path, "rating.left_factor", "ten"))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "rejected values are never written")
}
