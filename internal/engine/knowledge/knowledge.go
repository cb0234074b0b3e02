// Package knowledge joins a predicted disease to its advisory content:
// description, precautions, and home remedies. Lookups never fail — missing
// content falls back to generic text so a prediction is always presentable.
package knowledge

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/nightjar-labs/triage/internal/model"
)

//go:embed remedies.yaml
var defaultRemediesYAML []byte

// remediesSchemaVersion is the config version this build understands.
const remediesSchemaVersion = 1

// maxRemedies caps the remedy list returned for any disease.
const maxRemedies = 6

const fallbackDescription = "No description is available for this condition. Please consult a medical professional for details."

var fallbackPrecautions = []string{
	"consult a doctor",
	"get adequate rest",
	"stay hydrated",
	"monitor your symptoms",
}

type remedyRule struct {
	Keywords []string `yaml:"keywords"`
	Remedies []string `yaml:"remedies"`
}

type remediesFile struct {
	Version    int          `yaml:"version"`
	Baseline   []string     `yaml:"baseline"`
	Categories []remedyRule `yaml:"categories"`
}

// RemedyTable maps disease-category keywords to home-remedy lists.
// Rules are evaluated in listed order; the first keyword hit wins.
type RemedyTable struct {
	baseline []string
	rules    []remedyRule
}

// DefaultRemedies parses the embedded remedy configuration.
func DefaultRemedies() (*RemedyTable, error) {
	var f remediesFile
	if err := yaml.Unmarshal(defaultRemediesYAML, &f); err != nil {
		return nil, fmt.Errorf("knowledge: parse remedies config: %w", err)
	}
	if f.Version != remediesSchemaVersion {
		return nil, fmt.Errorf("knowledge: remedies config version %d, want %d", f.Version, remediesSchemaVersion)
	}
	return &RemedyTable{baseline: f.Baseline, rules: f.Categories}, nil
}

// For returns the home remedies for a disease: the first matching category
// by keyword, else the baseline list, capped at maxRemedies.
func (t *RemedyTable) For(disease string) []string {
	lower := strings.ToLower(disease)
	for _, rule := range t.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return capRemedies(rule.Remedies)
			}
		}
	}
	return capRemedies(t.baseline)
}

func capRemedies(remedies []string) []string {
	if len(remedies) > maxRemedies {
		remedies = remedies[:maxRemedies]
	}
	return append([]string(nil), remedies...)
}

// Lookup serves advisory content for predicted diseases.
// Safe for concurrent use; all tables are read-only.
type Lookup struct {
	table    model.KnowledgeTable
	remedies *RemedyTable
}

// New creates a Lookup over the loaded knowledge table and remedy config.
func New(table model.KnowledgeTable, remedies *RemedyTable) *Lookup {
	return &Lookup{table: table, remedies: remedies}
}

// Description returns the disease description, or generic fallback text.
func (l *Lookup) Description(disease string) string {
	if desc, ok := l.table.Descriptions[disease]; ok && desc != "" {
		return desc
	}
	return fallbackDescription
}

// Precautions returns the precaution list, or a generic fallback list.
func (l *Lookup) Precautions(disease string) []string {
	if p, ok := l.table.Precautions[disease]; ok && len(p) > 0 {
		return append([]string(nil), p...)
	}
	return append([]string(nil), fallbackPrecautions...)
}

// Remedies returns the home-remedy list for the disease.
func (l *Lookup) Remedies(disease string) []string {
	return l.remedies.For(disease)
}
