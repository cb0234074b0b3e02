package triage

type options struct {
	dataDir           string
	cachePath         string
	trees             int
	maxDepth          int
	seed              int64
	fuzzyThreshold    float64
	confidenceFloor   float64
	confidenceCeiling float64
	confidenceBoost   float64
}

// Option configures a Triage instance.
type Option func(*options)

// WithDataDir sets the directory containing the four source CSV tables.
// Expects: dataset.csv, symptom_Description.csv, symptom_precaution.csv,
// Symptom-severity.csv. Default: "data".
func WithDataDir(dir string) Option {
	return func(o *options) {
		o.dataDir = dir
	}
}

// WithCachePath sets where the trained model artifact is persisted.
// Default: "cache/model.json".
func WithCachePath(path string) Option {
	return func(o *options) {
		o.cachePath = path
	}
}

// WithTrees sets the random-forest ensemble size. Default: 300.
func WithTrees(n int) Option {
	return func(o *options) {
		o.trees = n
	}
}

// WithMaxDepth limits per-tree depth. Zero means unlimited. Default: 0.
func WithMaxDepth(d int) Option {
	return func(o *options) {
		o.maxDepth = d
	}
}

// WithSeed sets the training rng seed. Identical data and seed produce an
// identical model. Default: 42.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithFuzzyThreshold sets the minimum edit similarity for a fuzzy symptom
// match, in [0, 1]. Default: 0.70.
func WithFuzzyThreshold(t float64) Option {
	return func(o *options) {
		o.fuzzyThreshold = t
	}
}

// WithConfidenceBounds clamps reported confidence. Default: [0.25, 0.95].
func WithConfidenceBounds(floor, ceiling float64) Option {
	return func(o *options) {
		o.confidenceFloor = floor
		o.confidenceCeiling = ceiling
	}
}

// WithConfidenceBoost sets the confidence bonus applied when the resolved
// symptom set exactly matches a training record. Default: 0.20.
func WithConfidenceBoost(b float64) Option {
	return func(o *options) {
		o.confidenceBoost = b
	}
}

func defaultOptions() options {
	return options{
		dataDir:           "data",
		cachePath:         "cache/model.json",
		trees:             300,
		maxDepth:          0,
		seed:              42,
		fuzzyThreshold:    0.70,
		confidenceFloor:   0.25,
		confidenceCeiling: 0.95,
		confidenceBoost:   0.20,
	}
}
