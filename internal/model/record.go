package model

// DatasetRecord is one training example: the normalized symptom tokens
// observed together for a single occurrence of a disease.
type DatasetRecord struct {
	Symptoms []string
	Disease  string
}

// SeverityTable maps a symptom token to its numeric severity weight.
// Loaded once at startup, read-only afterwards.
type SeverityTable map[string]float64

// KnowledgeTable holds the advisory content joined to a predicted disease.
// Loaded once at startup, read-only afterwards.
type KnowledgeTable struct {
	Descriptions map[string]string
	Precautions  map[string][]string
}
