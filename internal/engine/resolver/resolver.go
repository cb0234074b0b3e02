// Package resolver maps arbitrary user-supplied symptom text onto the fixed
// vocabulary the model was trained on. Raw user vocabulary rarely matches
// the dataset's canonical tokens, so matching is staged — exact, synonym,
// fuzzy, substring — trading precision for recall one layer at a time, with
// deterministic tie-breaks throughout.
package resolver

import (
	"strings"

	"github.com/nightjar-labs/triage/internal/dataset"
	"github.com/nightjar-labs/triage/internal/engine/encoder"
)

// phraseSeparators split free text into candidate phrases.
const phraseSeparators = ",;.\n"

// substringMinLen is the minimum token length for the substring stage.
const substringMinLen = 3

// Resolver resolves raw symptom input to vocabulary-member tokens.
// Safe for concurrent use once constructed.
type Resolver struct {
	vocab     *encoder.Vocabulary
	synonyms  *SynonymTable
	sim       Similarity
	threshold float64
}

// New creates a Resolver. The synonym table is pruned against the
// vocabulary, so every token the Resolver emits is a vocabulary member.
func New(vocab *encoder.Vocabulary, synonyms *SynonymTable, sim Similarity, threshold float64) *Resolver {
	return &Resolver{
		vocab:     vocab,
		synonyms:  synonyms.Prune(vocab.Contains),
		sim:       sim,
		threshold: threshold,
	}
}

// ResolveTokens resolves a list of symptom tokens. Each element yields at
// most one vocabulary token; unresolvable elements are silently dropped.
// The result is deduplicated and preserves first-occurrence order.
func (r *Resolver) ResolveTokens(tokens []string) []string {
	set := newOrderedSet()
	for _, raw := range tokens {
		if tok, ok := r.resolveOne(raw); ok {
			set.add(tok)
		}
	}
	return set.items
}

// ResolveText resolves a free-text symptom description. The text is split
// into phrases on clause punctuation; each phrase may yield several tokens
// (one clause often names several symptoms). The result is deduplicated and
// preserves first-occurrence order.
func (r *Resolver) ResolveText(text string) []string {
	set := newOrderedSet()
	for _, phrase := range splitPhrases(text) {
		r.resolvePhrase(phrase, set)
	}
	return set.items
}

// resolveOne runs one candidate token through the stage pipeline,
// short-circuiting on the first stage that succeeds.
func (r *Resolver) resolveOne(raw string) (string, bool) {
	tok := dataset.NormalizeSymptom(raw)
	if tok == "" {
		return "", false
	}
	if r.vocab.Contains(tok) {
		return tok, true
	}
	if canon, ok := r.synonyms.First(raw); ok {
		return canon, true
	}
	if match, ok := r.fuzzyMatch(tok); ok {
		return match, true
	}
	return r.substringMatch(tok)
}

// resolvePhrase resolves one free-text phrase into the set. An exact hit on
// the whole phrase wins outright; otherwise synonym hits and per-word
// matches are unioned.
func (r *Resolver) resolvePhrase(phrase string, set *orderedSet) {
	tok := dataset.NormalizeSymptom(phrase)
	if tok == "" {
		return
	}
	if r.vocab.Contains(tok) {
		set.add(tok)
		return
	}

	for _, canon := range r.synonyms.All(phrase) {
		set.add(canon)
	}

	for _, word := range strings.Fields(phrase) {
		w := dataset.NormalizeSymptom(word)
		if len(w) < substringMinLen || stopwords[w] {
			continue
		}
		switch {
		case r.vocab.Contains(w):
			set.add(w)
		default:
			if match, ok := r.fuzzyMatch(w); ok {
				set.add(match)
			} else if match, ok := r.substringMatch(w); ok {
				set.add(match)
			}
		}
	}
}

// fuzzyMatch returns the nearest vocabulary token by edit similarity,
// accepted only at or above the threshold. The vocabulary is scanned in
// sorted order with a strict comparison, so ties resolve to the
// lexicographically first candidate.
func (r *Resolver) fuzzyMatch(tok string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, cand := range r.vocab.Tokens() {
		if score := r.sim.Score(tok, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	if bestScore >= r.threshold {
		return best, true
	}
	return "", false
}

// substringMatch accepts a vocabulary token that contains the input or is
// contained by it, for inputs longer than 2 characters. Among candidates
// the longest overlap wins; the sorted scan with a strict comparison breaks
// ties lexicographically.
func (r *Resolver) substringMatch(tok string) (string, bool) {
	if len(tok) < substringMinLen {
		return "", false
	}
	best := ""
	bestOverlap := 0
	for _, cand := range r.vocab.Tokens() {
		overlap := 0
		switch {
		case strings.Contains(cand, tok):
			overlap = len(tok)
		case strings.Contains(tok, cand):
			overlap = len(cand)
		}
		if overlap > bestOverlap {
			best, bestOverlap = cand, overlap
		}
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// splitPhrases segments free text on sentence and clause punctuation.
func splitPhrases(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return strings.ContainsRune(phraseSeparators, r)
	})
}

// stopwords are skipped by the per-word pass. Function words this short
// otherwise fuzzy- or substring-match into the vocabulary by accident.
var stopwords = map[string]bool{
	"and": true, "are": true, "been": true, "but": true, "can't": true,
	"cannot": true, "cant": true, "feel": true, "feeling": true,
	"feels": true, "for": true, "from": true, "had": true, "has": true,
	"have": true, "i've": true, "not": true, "really": true, "some": true,
	"that": true, "the": true, "this": true, "very": true, "was": true,
	"with": true,
}

// orderedSet deduplicates while preserving first-occurrence order.
type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(item string) {
	if !s.seen[item] {
		s.seen[item] = true
		s.items = append(s.items, item)
	}
}
