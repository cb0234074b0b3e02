// Package forest trains and evaluates a seeded random-forest classifier
// over binary symptom features. Training is a one-shot batch operation; a
// trained Forest is immutable and safe for concurrent prediction.
package forest

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrTraining indicates a label distribution the trainer cannot fit:
// fewer than two classes, or a class with fewer than two examples
// (the stratified hold-out would be undefined).
var ErrTraining = errors.New("forest: degenerate training data")

const (
	// testFraction is the stratified hold-out share used for evaluation.
	testFraction = 0.2
	// minSamplesSplit stops node growth below this sample count.
	minSamplesSplit = 2
)

// Config holds the training hyperparameters.
type Config struct {
	Trees    int   // ensemble size
	MaxDepth int   // per-tree depth limit, 0 = unlimited
	Seed     int64 // rng seed; identical inputs and seed give identical forests
}

// Forest is an ensemble of decision trees sharing a class space.
type Forest struct {
	Trees   []*Tree `json:"trees"`
	Classes int     `json:"classes"`
}

// Metrics reports hold-out evaluation of a training run.
type Metrics struct {
	TrainAccuracy float64 `json:"train_accuracy"`
	TestAccuracy  float64 `json:"test_accuracy"`
}

// Train fits a forest on the encoded matrix and labels.
// x rows are binary feature vectors, y values are class indexes in
// [0, classes).
func Train(x [][]int, y []int, classes int, cfg Config) (*Forest, Metrics, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, Metrics{}, fmt.Errorf("%w: %d rows, %d labels", ErrTraining, len(x), len(y))
	}
	if classes < 2 {
		return nil, Metrics{}, fmt.Errorf("%w: need at least 2 classes, have %d", ErrTraining, classes)
	}
	counts := make([]int, classes)
	for _, c := range y {
		if c < 0 || c >= classes {
			return nil, Metrics{}, fmt.Errorf("%w: label %d out of range", ErrTraining, c)
		}
		counts[c]++
	}
	for c, n := range counts {
		if n < 2 {
			return nil, Metrics{}, fmt.Errorf("%w: class %d has %d example(s), need at least 2", ErrTraining, c, n)
		}
	}
	if cfg.Trees <= 0 {
		cfg.Trees = 300
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	trainIdx, testIdx := stratifiedSplit(y, classes, testFraction, rng)

	f := &Forest{
		Trees:   make([]*Tree, cfg.Trees),
		Classes: classes,
	}
	mtry := mtryFor(len(x[0]))
	for i := 0; i < cfg.Trees; i++ {
		treeRng := rand.New(rand.NewSource(cfg.Seed + int64(i) + 1))
		b := &treeBuilder{
			x:        x,
			y:        y,
			classes:  classes,
			maxDepth: cfg.MaxDepth,
			mtry:     mtry,
			rng:      treeRng,
		}
		f.Trees[i] = b.build(bootstrap(trainIdx, treeRng))
	}

	m := Metrics{
		TrainAccuracy: f.accuracy(x, y, trainIdx),
		TestAccuracy:  f.accuracy(x, y, testIdx),
	}
	return f, m, nil
}

// Predict returns the winning class index and the per-class probability
// distribution (tree-leaf distributions averaged across the ensemble).
// Ties resolve to the lowest class index.
func (f *Forest) Predict(features []int) (int, []float64) {
	probs := make([]float64, f.Classes)
	for _, t := range f.Trees {
		for c, p := range t.predict(features) {
			probs[c] += p
		}
	}
	n := float64(len(f.Trees))
	best := 0
	for c := range probs {
		probs[c] /= n
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best, probs
}

// accuracy is the fraction of indexed rows the forest classifies correctly.
func (f *Forest) accuracy(x [][]int, y []int, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	correct := 0
	for _, i := range indices {
		if class, _ := f.Predict(x[i]); class == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(indices))
}

// stratifiedSplit partitions row indexes into train and test sets,
// holding out frac of each class (at least one example, never all).
func stratifiedSplit(y []int, classes int, frac float64, rng *rand.Rand) (train, test []int) {
	byClass := make([][]int, classes)
	for i, c := range y {
		byClass[c] = append(byClass[c], i)
	}
	for _, indices := range byClass {
		rng.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		nTest := int(frac*float64(len(indices)) + 0.5)
		if nTest < 1 {
			nTest = 1
		}
		if nTest >= len(indices) {
			nTest = len(indices) - 1
		}
		test = append(test, indices[:nTest]...)
		train = append(train, indices[nTest:]...)
	}
	return train, test
}

// bootstrap draws a with-replacement sample of the same size as indices.
func bootstrap(indices []int, rng *rand.Rand) []int {
	sample := make([]int, len(indices))
	for i := range sample {
		sample[i] = indices[rng.Intn(len(indices))]
	}
	return sample
}
