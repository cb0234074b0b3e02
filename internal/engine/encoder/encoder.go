// Package encoder owns the symptom vocabulary, the binary feature encoding,
// and the disease label codec. All three are fixed at training time and
// serialized into the model artifact; a loaded artifact must reproduce the
// exact token order and class order it was trained with.
package encoder

import (
	"fmt"
	"sort"

	"github.com/nightjar-labs/triage/internal/model"
)

// Vocabulary is the fixed, sorted set of symptom tokens learned at training
// time. It defines feature-vector width and index order.
type Vocabulary struct {
	tokens []string
	index  map[string]int
}

// NewVocabulary builds the vocabulary as the sorted union of all symptom
// tokens across the dataset records.
func NewVocabulary(records []model.DatasetRecord) *Vocabulary {
	seen := make(map[string]bool)
	for _, rec := range records {
		for _, s := range rec.Symptoms {
			seen[s] = true
		}
	}
	tokens := make([]string, 0, len(seen))
	for s := range seen {
		tokens = append(tokens, s)
	}
	sort.Strings(tokens)
	return vocabFrom(tokens)
}

// VocabularyFromTokens rebuilds a vocabulary from a serialized token list.
// The list must be sorted and free of duplicates, as written by Tokens().
func VocabularyFromTokens(tokens []string) (*Vocabulary, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("encoder: empty vocabulary")
	}
	if !sort.StringsAreSorted(tokens) {
		return nil, fmt.Errorf("encoder: vocabulary tokens are not sorted")
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i] == tokens[i-1] {
			return nil, fmt.Errorf("encoder: duplicate vocabulary token %q", tokens[i])
		}
	}
	return vocabFrom(append([]string(nil), tokens...)), nil
}

func vocabFrom(tokens []string) *Vocabulary {
	index := make(map[string]int, len(tokens))
	for i, s := range tokens {
		index[s] = i
	}
	return &Vocabulary{tokens: tokens, index: index}
}

// Tokens returns the vocabulary in index order.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.tokens...)
}

// Contains reports whether the token is a vocabulary member.
func (v *Vocabulary) Contains(tok string) bool {
	_, ok := v.index[tok]
	return ok
}

// Index returns the feature index of the token.
func (v *Vocabulary) Index(tok string) (int, bool) {
	i, ok := v.index[tok]
	return i, ok
}

// Size returns the feature-vector width.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Encode marks a 1 at the index of every vocabulary member in symptoms.
// Tokens outside the vocabulary are ignored; the resolver guarantees
// membership before inference.
func (v *Vocabulary) Encode(symptoms []string) []int {
	features := make([]int, len(v.tokens))
	for _, s := range symptoms {
		if i, ok := v.index[s]; ok {
			features[i] = 1
		}
	}
	return features
}

// LabelCodec maps disease labels to a dense class-index space and back.
// Classes are the sorted unique disease labels of the training set, so the
// mapping is stable across runs over identical data and round-trips through
// the artifact.
type LabelCodec struct {
	classes []string
	index   map[string]int
}

// NewLabelCodec builds the codec from the dataset records.
func NewLabelCodec(records []model.DatasetRecord) *LabelCodec {
	seen := make(map[string]bool)
	for _, rec := range records {
		seen[rec.Disease] = true
	}
	classes := make([]string, 0, len(seen))
	for d := range seen {
		classes = append(classes, d)
	}
	sort.Strings(classes)
	return codecFrom(classes)
}

// LabelCodecFromClasses rebuilds a codec from a serialized class list.
func LabelCodecFromClasses(classes []string) (*LabelCodec, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder: empty class list")
	}
	return codecFrom(append([]string(nil), classes...)), nil
}

func codecFrom(classes []string) *LabelCodec {
	index := make(map[string]int, len(classes))
	for i, d := range classes {
		index[d] = i
	}
	return &LabelCodec{classes: classes, index: index}
}

// Encode returns the class index of the label.
func (c *LabelCodec) Encode(label string) (int, bool) {
	i, ok := c.index[label]
	return i, ok
}

// Decode returns the label for a class index.
func (c *LabelCodec) Decode(class int) (string, error) {
	if class < 0 || class >= len(c.classes) {
		return "", fmt.Errorf("encoder: class index %d out of range [0, %d)", class, len(c.classes))
	}
	return c.classes[class], nil
}

// Classes returns the labels in class-index order.
func (c *LabelCodec) Classes() []string {
	return append([]string(nil), c.classes...)
}

// Size returns the number of classes.
func (c *LabelCodec) Size() int {
	return len(c.classes)
}

// EncodeMatrix converts the records into the training matrix and label
// vector consumed by the trainer.
func EncodeMatrix(records []model.DatasetRecord, vocab *Vocabulary, codec *LabelCodec) (x [][]int, y []int, err error) {
	x = make([][]int, 0, len(records))
	y = make([]int, 0, len(records))
	for _, rec := range records {
		class, ok := codec.Encode(rec.Disease)
		if !ok {
			return nil, nil, fmt.Errorf("encoder: record disease %q missing from codec", rec.Disease)
		}
		x = append(x, vocab.Encode(rec.Symptoms))
		y = append(y, class)
	}
	return x, y, nil
}
