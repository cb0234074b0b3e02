// Package bootstrap assembles a ready Engine from configuration: it loads
// the source tables, restores the model from the artifact cache when the
// content hash matches, trains otherwise, and wires the inference
// components together. Cache problems degrade to a retrain, never to a
// startup failure.
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nightjar-labs/triage/internal/cache"
	"github.com/nightjar-labs/triage/internal/config"
	"github.com/nightjar-labs/triage/internal/dataset"
	"github.com/nightjar-labs/triage/internal/engine"
	"github.com/nightjar-labs/triage/internal/engine/encoder"
	"github.com/nightjar-labs/triage/internal/engine/forest"
	"github.com/nightjar-labs/triage/internal/engine/knowledge"
	"github.com/nightjar-labs/triage/internal/engine/resolver"
	"github.com/nightjar-labs/triage/internal/engine/severity"
)

// Result is the assembled model state plus provenance for logging and
// introspection.
type Result struct {
	Engine     *engine.Engine
	Tables     *dataset.Tables
	SourceHash string
	FromCache  bool
	Metrics    forest.Metrics
}

// Run performs the full startup sequence. Data and schema errors are
// fatal; a stale, corrupt, or unwritable cache is not.
func Run(cfg config.Config) (*Result, error) {
	tables, err := dataset.Load(cfg.Data.Dir)
	if err != nil {
		return nil, err
	}

	hash, err := cache.HashSources(dataset.SourcePaths(cfg.Data.Dir))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: hash source tables: %w", err)
	}

	vocab, codec, f, signatures, metrics, fromCache := restoreOrNil(cfg.Data.CachePath, hash)
	if !fromCache {
		vocab, codec, f, signatures, metrics, err = train(tables, cfg.Trainer)
		if err != nil {
			return nil, err
		}
		art := &cache.Artifact{
			SchemaVersion: cache.SchemaVersion,
			SourceHash:    hash,
			Vocabulary:    vocab.Tokens(),
			Classes:       codec.Classes(),
			Signatures:    signatures,
			Metrics:       metrics,
			Forest:        f,
		}
		if err := cache.Store(cfg.Data.CachePath, art); err != nil {
			slog.Warn("model cache not written, next start will retrain",
				"path", cfg.Data.CachePath, "error", err)
		}
	}

	synonyms, err := resolver.DefaultSynonyms()
	if err != nil {
		return nil, err
	}
	remedies, err := knowledge.DefaultRemedies()
	if err != nil {
		return nil, err
	}

	eng := engine.New(
		vocab,
		codec,
		f,
		resolver.New(vocab, synonyms, resolver.EditSimilarity{}, cfg.Engine.FuzzyThreshold),
		severity.New(tables.Severity, severity.DefaultBreakpoints()),
		knowledge.New(tables.Knowledge, remedies),
		signatures,
		engine.Calibration{
			Floor:   cfg.Engine.ConfidenceFloor,
			Ceiling: cfg.Engine.ConfidenceCeiling,
			Boost:   cfg.Engine.ConfidenceBoost,
		},
	)

	slog.Info("model ready",
		"from_cache", fromCache,
		"symptoms", vocab.Size(),
		"diseases", codec.Size(),
		"train_accuracy", metrics.TrainAccuracy,
		"test_accuracy", metrics.TestAccuracy)

	return &Result{
		Engine:     eng,
		Tables:     tables,
		SourceHash: hash,
		FromCache:  fromCache,
		Metrics:    metrics,
	}, nil
}

// restoreOrNil tries to rebuild the model state from the cached artifact.
// Any inconsistency in the artifact downgrades to a miss.
func restoreOrNil(path, hash string) (*encoder.Vocabulary, *encoder.LabelCodec, *forest.Forest, map[string]string, forest.Metrics, bool) {
	art, ok := cache.Load(path, hash)
	if !ok {
		return nil, nil, nil, nil, forest.Metrics{}, false
	}

	vocab, err := encoder.VocabularyFromTokens(art.Vocabulary)
	if err != nil {
		slog.Warn("cached vocabulary invalid, retraining", "error", err)
		return nil, nil, nil, nil, forest.Metrics{}, false
	}
	codec, err := encoder.LabelCodecFromClasses(art.Classes)
	if err != nil {
		slog.Warn("cached class list invalid, retraining", "error", err)
		return nil, nil, nil, nil, forest.Metrics{}, false
	}

	signatures := art.Signatures
	if signatures == nil {
		signatures = map[string]string{}
	}
	return vocab, codec, art.Forest, signatures, art.Metrics, true
}

// train fits a fresh model from the normalized records.
func train(tables *dataset.Tables, cfg config.TrainerConfig) (*encoder.Vocabulary, *encoder.LabelCodec, *forest.Forest, map[string]string, forest.Metrics, error) {
	vocab := encoder.NewVocabulary(tables.Records)
	codec := encoder.NewLabelCodec(tables.Records)

	x, y, err := encoder.EncodeMatrix(tables.Records, vocab, codec)
	if err != nil {
		return nil, nil, nil, nil, forest.Metrics{}, err
	}

	start := time.Now()
	f, metrics, err := forest.Train(x, y, codec.Size(), forest.Config{
		Trees:    cfg.Trees,
		MaxDepth: cfg.MaxDepth,
		Seed:     cfg.Seed,
	})
	if err != nil {
		return nil, nil, nil, nil, forest.Metrics{}, err
	}
	slog.Info("model trained",
		"trees", len(f.Trees),
		"duration", time.Since(start).Round(time.Millisecond),
		"train_accuracy", metrics.TrainAccuracy,
		"test_accuracy", metrics.TestAccuracy)

	return vocab, codec, f, engine.Signatures(tables.Records), metrics, nil
}
