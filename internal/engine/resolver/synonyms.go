package resolver

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed synonyms.yaml
var defaultSynonymsYAML []byte

// synonymsSchemaVersion is the config version this build understands.
const synonymsSchemaVersion = 1

type synonymsFile struct {
	Version  int                 `yaml:"version"`
	Synonyms map[string][]string `yaml:"synonyms"`
}

// SynonymTable maps canonical vocabulary tokens to alternate phrasings.
// Canonical tokens are iterated in sorted order and variants in listed
// order, so matches are deterministic.
type SynonymTable struct {
	canon    []string
	variants map[string][]string
}

// DefaultSynonyms parses the embedded synonym configuration.
func DefaultSynonyms() (*SynonymTable, error) {
	var f synonymsFile
	if err := yaml.Unmarshal(defaultSynonymsYAML, &f); err != nil {
		return nil, fmt.Errorf("resolver: parse synonyms config: %w", err)
	}
	if f.Version != synonymsSchemaVersion {
		return nil, fmt.Errorf("resolver: synonyms config version %d, want %d", f.Version, synonymsSchemaVersion)
	}
	return NewSynonymTable(f.Synonyms), nil
}

// NewSynonymTable builds a table from a canonical-token → variants map.
// Variants are lowercased; canonical iteration order is sorted.
func NewSynonymTable(m map[string][]string) *SynonymTable {
	t := &SynonymTable{variants: make(map[string][]string, len(m))}
	for canon, variants := range m {
		lowered := make([]string, 0, len(variants))
		for _, v := range variants {
			if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
				lowered = append(lowered, v)
			}
		}
		t.canon = append(t.canon, canon)
		t.variants[canon] = lowered
	}
	sort.Strings(t.canon)
	return t
}

// Prune returns a copy keeping only canonical tokens accepted by contains.
// Run against the model vocabulary at startup so every synonym hit is a
// vocabulary member by construction.
func (t *SynonymTable) Prune(contains func(string) bool) *SynonymTable {
	kept := make(map[string][]string, len(t.variants))
	for _, canon := range t.canon {
		if contains(canon) {
			kept[canon] = t.variants[canon]
		} else {
			slog.Debug("synonym entry outside vocabulary, dropped", "token", canon)
		}
	}
	return NewSynonymTable(kept)
}

// Len returns the number of canonical entries.
func (t *SynonymTable) Len() int {
	return len(t.canon)
}

// First returns the first canonical token (sorted order, variants in listed
// order) with a variant contained in the phrase.
func (t *SynonymTable) First(phrase string) (string, bool) {
	lower := strings.ToLower(phrase)
	for _, canon := range t.canon {
		for _, v := range t.variants[canon] {
			if strings.Contains(lower, v) {
				return canon, true
			}
		}
	}
	return "", false
}

// All returns every canonical token with a variant contained in the phrase,
// in sorted canonical order.
func (t *SynonymTable) All(phrase string) []string {
	lower := strings.ToLower(phrase)
	var out []string
	for _, canon := range t.canon {
		for _, v := range t.variants[canon] {
			if strings.Contains(lower, v) {
				out = append(out, canon)
				break
			}
		}
	}
	return out
}
