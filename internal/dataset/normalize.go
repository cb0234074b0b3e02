package dataset

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// NormalizeSymptom standardizes a raw symptom cell into a vocabulary token:
// trimmed, lowercased, internal whitespace collapsed to single underscores.
// Empty and NaN-like cells normalize to "".
func NormalizeSymptom(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "nan" {
		return ""
	}
	return strings.Join(strings.Fields(s), "_")
}

// NormalizeDisease standardizes a disease name: trimmed and title-cased.
// Empty and NaN-like cells normalize to "".
func NormalizeDisease(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return ""
	}
	return titleCaser.String(strings.ToLower(s))
}
