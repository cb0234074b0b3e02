// Package engine orchestrates the resolve → encode → classify → calibrate
// pipeline over the shared, read-only model state.
package engine

import (
	"errors"
	"sort"
	"strings"

	"github.com/nightjar-labs/triage/internal/engine/encoder"
	"github.com/nightjar-labs/triage/internal/engine/forest"
	"github.com/nightjar-labs/triage/internal/engine/knowledge"
	"github.com/nightjar-labs/triage/internal/engine/resolver"
	"github.com/nightjar-labs/triage/internal/engine/severity"
	"github.com/nightjar-labs/triage/internal/model"
)

// Per-request errors. Both are isolated to the failing request and leave
// the shared model state untouched.
var (
	// ErrNoSymptomsMatched means no input token resolved to the vocabulary.
	ErrNoSymptomsMatched = errors.New("engine: no symptoms matched the known vocabulary")
	// ErrModelNotReady means inference was attempted before startup completed.
	ErrModelNotReady = errors.New("engine: model not ready")
)

// Calibration bounds the reported confidence so it is never degenerate.
type Calibration struct {
	Floor   float64
	Ceiling float64
	Boost   float64 // added when the resolved set matches a training signature
}

// DefaultCalibration returns the shipped calibration policy.
func DefaultCalibration() Calibration {
	return Calibration{Floor: 0.25, Ceiling: 0.95, Boost: 0.20}
}

// Engine answers prediction requests against the trained model.
// All state is read-only after construction; any number of requests may
// call it concurrently.
type Engine struct {
	vocab      *encoder.Vocabulary
	codec      *encoder.LabelCodec
	forest     *forest.Forest
	resolver   *resolver.Resolver
	severity   *severity.Scorer
	knowledge  *knowledge.Lookup
	signatures map[string]string
	cal        Calibration
}

// New assembles an Engine from its trained and loaded components.
func New(
	vocab *encoder.Vocabulary,
	codec *encoder.LabelCodec,
	f *forest.Forest,
	res *resolver.Resolver,
	sev *severity.Scorer,
	know *knowledge.Lookup,
	signatures map[string]string,
	cal Calibration,
) *Engine {
	return &Engine{
		vocab:      vocab,
		codec:      codec,
		forest:     f,
		resolver:   res,
		severity:   sev,
		knowledge:  know,
		signatures: signatures,
		cal:        cal,
	}
}

// Predict classifies a list of symptom tokens.
func (e *Engine) Predict(symptoms []string) (model.Prediction, error) {
	return e.predict(e.resolver.ResolveTokens(symptoms))
}

// PredictText classifies a free-text symptom description.
func (e *Engine) PredictText(text string) (model.Prediction, error) {
	return e.predict(e.resolver.ResolveText(text))
}

func (e *Engine) predict(resolved []string) (model.Prediction, error) {
	if len(resolved) == 0 {
		return model.Prediction{}, ErrNoSymptomsMatched
	}

	class, probs := e.forest.Predict(e.vocab.Encode(resolved))
	disease, err := e.codec.Decode(class)
	if err != nil {
		return model.Prediction{}, err
	}

	return model.Prediction{
		Disease:         disease,
		Description:     e.knowledge.Description(disease),
		Precautions:     e.knowledge.Precautions(disease),
		HomeRemedies:    e.knowledge.Remedies(disease),
		Severity:        e.severity.Score(resolved),
		MatchedSymptoms: resolved,
		Confidence:      e.calibrate(probs[class], resolved, disease),
	}, nil
}

// calibrate turns the raw winning probability into the reported confidence:
// a bounded boost when the resolved set is exactly a known training
// signature of the predicted disease, then a clamp to the configured
// floor and ceiling.
func (e *Engine) calibrate(raw float64, resolved []string, disease string) float64 {
	conf := raw
	if e.signatures[Signature(resolved)] == disease {
		conf += e.cal.Boost
		if conf > 1.0 {
			conf = 1.0
		}
	}
	if conf < e.cal.Floor {
		conf = e.cal.Floor
	}
	if conf > e.cal.Ceiling {
		conf = e.cal.Ceiling
	}
	return conf
}

// Vocabulary returns the symptom tokens the model was trained on.
func (e *Engine) Vocabulary() []string {
	return e.vocab.Tokens()
}

// Diseases returns the disease classes the model can predict.
func (e *Engine) Diseases() []string {
	return e.codec.Classes()
}

// Signature canonicalizes a symptom set for signature matching:
// sorted and joined, so ordering differences do not matter.
func Signature(symptoms []string) string {
	sorted := append([]string(nil), symptoms...)
	sort.Strings(sorted)
	return strings.Join(sorted, "|")
}

// Signatures indexes the complete symptom set of every training record by
// signature. Inference boosts confidence when a resolved set reproduces
// one of these high-signal combinations exactly.
func Signatures(records []model.DatasetRecord) map[string]string {
	out := make(map[string]string, len(records))
	for _, rec := range records {
		if len(rec.Symptoms) > 0 {
			out[Signature(rec.Symptoms)] = rec.Disease
		}
	}
	return out
}
