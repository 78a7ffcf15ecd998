package match

import (
	"io"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/teranos/tabix/errors"
)

// Predicate is one recognized predicate in a vocabulary file.
type Predicate struct {
	Name    string   `toml:"name"`
	Label   string   `toml:"label"`
	Aliases []string `toml:"aliases"`
}

// Vocabulary is the set of predicates a matcher recognizes.
// An empty vocabulary recognizes every predicate.
//
// File format:
//
//	[[predicate]]
//	name = "capital"
//	label = "Capital city"
//	aliases = ["has_capital"]
type Vocabulary struct {
	Predicates []Predicate `toml:"predicate"`
}

// LoadVocabulary reads a TOML vocabulary file. An empty path yields an empty vocabulary.
func LoadVocabulary(path string) (*Vocabulary, error) {
	var v Vocabulary
	if path == "" {
		return &v, nil
	}
	if _, err := toml.DecodeFile(path, &v); err != nil {
		return nil, errors.Wrapf(err, "failed to decode vocabulary %s", path)
	}
	return &v, v.validate()
}

// ParseVocabulary decodes a TOML vocabulary from r.
func ParseVocabulary(r io.Reader) (*Vocabulary, error) {
	var v Vocabulary
	if _, err := toml.NewDecoder(r).Decode(&v); err != nil {
		return nil, errors.Wrap(err, "failed to decode vocabulary")
	}
	return &v, v.validate()
}

func (v *Vocabulary) validate() error {
	for i, p := range v.Predicates {
		if strings.TrimSpace(p.Name) == "" {
			return errors.NewInvalidRequestError("vocabulary predicate %d has no name", i)
		}
	}
	return nil
}

// Terms returns every predicate name and alias, sorted and deduplicated.
// A nil or empty vocabulary returns nil.
func (v *Vocabulary) Terms() []string {
	if v == nil || len(v.Predicates) == 0 {
		return nil
	}
	seen := make(map[string]struct{})
	for _, p := range v.Predicates {
		seen[p.Name] = struct{}{}
		for _, a := range p.Aliases {
			seen[a] = struct{}{}
		}
	}
	terms := make([]string, 0, len(seen))
	for t := range seen {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}
