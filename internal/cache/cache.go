// Package cache persists the trained model artifact, keyed by a content
// hash of the source tables. The artifact is self-describing: schema
// version and source hash are validated before the classifier payload is
// decoded, so a stale or foreign artifact is rejected cheaply. Any read
// failure is a cache miss, never fatal — the caller retrains.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nightjar-labs/triage/internal/engine/forest"
)

// SchemaVersion tags the artifact layout. Bump on any incompatible change;
// a mismatch is treated as a miss.
const SchemaVersion = 1

// Artifact is the persisted model bundle: classifier state plus every
// auxiliary table needed to reproduce inference exactly.
type Artifact struct {
	SchemaVersion int               `json:"schema_version"`
	SourceHash    string            `json:"source_hash"`
	Vocabulary    []string          `json:"vocabulary"`
	Classes       []string          `json:"classes"`
	Signatures    map[string]string `json:"signatures"`
	Metrics       forest.Metrics    `json:"metrics"`
	Forest        *forest.Forest    `json:"forest"`
}

// header is the cheap-to-decode prefix used to validate an artifact before
// committing to the full classifier payload.
type header struct {
	SchemaVersion int    `json:"schema_version"`
	SourceHash    string `json:"source_hash"`
}

// HashSources computes a hex SHA-256 digest over the concatenated bytes of
// the given files, in order. Purely content-based: timestamps and paths do
// not participate.
func HashSources(paths []string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return "", fmt.Errorf("cache: hash source %s: %w", p, err)
		}
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			return "", fmt.Errorf("cache: hash source %s: %w", p, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Load reads the artifact at path and returns it when its schema version
// and source hash match. Every failure mode — absent file, unreadable
// JSON, mismatched header, truncated payload — is a miss.
func Load(path, wantHash string) (*Artifact, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("model cache unreadable, retraining", "path", path, "error", err)
		}
		return nil, false
	}

	var hdr header
	if err := json.Unmarshal(data, &hdr); err != nil {
		slog.Warn("model cache corrupted, retraining", "path", path, "error", err)
		return nil, false
	}
	if hdr.SchemaVersion != SchemaVersion {
		slog.Warn("model cache schema mismatch, retraining",
			"path", path, "have", hdr.SchemaVersion, "want", SchemaVersion)
		return nil, false
	}
	if hdr.SourceHash != wantHash {
		slog.Info("source tables changed, retraining",
			"cached_hash", hdr.SourceHash, "current_hash", wantHash)
		return nil, false
	}

	var art Artifact
	if err := json.Unmarshal(data, &art); err != nil {
		slog.Warn("model cache corrupted, retraining", "path", path, "error", err)
		return nil, false
	}
	if art.Forest == nil || len(art.Vocabulary) == 0 || len(art.Classes) == 0 {
		slog.Warn("model cache incomplete, retraining", "path", path)
		return nil, false
	}
	return &art, true
}

// Store writes the artifact atomically: to a temp file in the target
// directory, then renamed over path, so readers never observe a partial
// artifact.
func Store(path string, art *Artifact) error {
	data, err := json.Marshal(art)
	if err != nil {
		return fmt.Errorf("cache: marshal artifact: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cache: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("cache: create temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cache: replace artifact: %w", err)
	}
	return nil
}
