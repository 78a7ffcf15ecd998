package match

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tabix/errors"
)

const sampleVocabulary = `
[[predicate]]
name = "capital"
label = "Capital city"
aliases = ["has_capital", "capital_of"]

[[predicate]]
name = "located_in"
aliases = ["capital"]
`

func TestParseVocabulary(t *testing.T) {
	v, err := ParseVocabulary(strings.NewReader(sampleVocabulary))
	require.NoError(t, err)

	require.Len(t, v.Predicates, 2)
	assert.Equal(t, "Capital city", v.Predicates[0].Label)
	assert.Equal(t, []string{"capital", "capital_of", "has_capital", "located_in"}, v.Terms())
}

func TestLoadVocabulary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabulary.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleVocabulary), 0o644))

	v, err := LoadVocabulary(path)
	require.NoError(t, err)
	assert.Len(t, v.Predicates, 2)
}

func TestLoadVocabulary_EmptyPath(t *testing.T) {
	v, err := LoadVocabulary("")
	require.NoError(t, err)
	assert.Nil(t, v.Terms())
}

func TestLoadVocabulary_MissingFile(t *testing.T) {
	_, err := LoadVocabulary(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseVocabulary_MissingName(t *testing.T) {
	_, err := ParseVocabulary(strings.NewReader("[[predicate]]\nlabel = \"nameless\"\n"))
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRequestError(err))
}

func TestVocabulary_NilTerms(t *testing.T) {
	var v *Vocabulary
	assert.Nil(t, v.Terms())
}
