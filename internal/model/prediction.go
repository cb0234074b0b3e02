package model

// Tier is a qualitative severity bucket derived from symptom weights.
type Tier string

const (
	TierLow      Tier = "low"
	TierMedium   Tier = "medium"
	TierHigh     Tier = "high"
	TierCritical Tier = "critical"
)

// Prediction is the engine's output type — a classified condition with
// calibrated confidence and advisory content.
type Prediction struct {
	Disease         string   `json:"disease"`
	Description     string   `json:"description"`
	Precautions     []string `json:"precautions"`
	HomeRemedies    []string `json:"home_remedies"`
	Severity        Tier     `json:"severity"`
	MatchedSymptoms []string `json:"matched_symptoms"`
	Confidence      float64  `json:"confidence"`
}
