package triage

import (
	"fmt"

	"github.com/nightjar-labs/triage/internal/bootstrap"
	"github.com/nightjar-labs/triage/internal/config"
	"github.com/nightjar-labs/triage/internal/engine"
	"github.com/nightjar-labs/triage/internal/model"
)

// ErrNoSymptomsMatched is returned when no input resolved to a symptom the
// model knows.
var ErrNoSymptomsMatched = engine.ErrNoSymptomsMatched

// Tier is the qualitative severity of a predicted condition.
type Tier string

// Severity tiers, least to most severe.
const (
	TierLow      Tier = "low"
	TierMedium   Tier = "medium"
	TierHigh     Tier = "high"
	TierCritical Tier = "critical"
)

// Prediction is the full triage answer for one request.
type Prediction struct {
	Disease         string
	Description     string
	Precautions     []string
	HomeRemedies    []string
	Severity        Tier
	MatchedSymptoms []string
	Confidence      float64
}

// Triage is a symptom-to-disease triage engine.
// Safe for concurrent use.
type Triage struct {
	engine    *engine.Engine
	fromCache bool
}

// New creates a Triage instance, loading the source tables and training the
// classifier (or restoring it from the artifact cache). This is an expensive
// operation — create once, reuse across requests.
func New(opts ...Option) (*Triage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	res, err := bootstrap.Run(config.Config{
		Data: config.DataConfig{
			Dir:       o.dataDir,
			CachePath: o.cachePath,
		},
		Trainer: config.TrainerConfig{
			Trees:    o.trees,
			MaxDepth: o.maxDepth,
			Seed:     o.seed,
		},
		Engine: config.EngineConfig{
			FuzzyThreshold:    o.fuzzyThreshold,
			ConfidenceFloor:   o.confidenceFloor,
			ConfidenceCeiling: o.confidenceCeiling,
			ConfidenceBoost:   o.confidenceBoost,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("triage: %w", err)
	}

	return &Triage{engine: res.Engine, fromCache: res.FromCache}, nil
}

// Predict classifies a list of symptom names. Names need not match the
// training vocabulary exactly; synonym, fuzzy, and substring matching are
// applied per name.
func (t *Triage) Predict(symptoms []string) (Prediction, error) {
	p, err := t.engine.Predict(symptoms)
	if err != nil {
		return Prediction{}, err
	}
	return fromInternal(p), nil
}

// PredictText classifies a free-text symptom description.
func (t *Triage) PredictText(text string) (Prediction, error) {
	p, err := t.engine.PredictText(text)
	if err != nil {
		return Prediction{}, err
	}
	return fromInternal(p), nil
}

// Symptoms returns the vocabulary the model was trained on.
func (t *Triage) Symptoms() []string {
	return t.engine.Vocabulary()
}

// Diseases returns the conditions the model can predict.
func (t *Triage) Diseases() []string {
	return t.engine.Diseases()
}

// FromCache reports whether the model was restored from the artifact cache
// rather than trained at construction.
func (t *Triage) FromCache() bool {
	return t.fromCache
}

// fromInternal converts the internal prediction to the public type.
func fromInternal(p model.Prediction) Prediction {
	return Prediction{
		Disease:         p.Disease,
		Description:     p.Description,
		Precautions:     p.Precautions,
		HomeRemedies:    p.HomeRemedies,
		Severity:        Tier(p.Severity),
		MatchedSymptoms: p.MatchedSymptoms,
		Confidence:      p.Confidence,
	}
}
