package forest

import (
	"math"
	"math/rand"
	"sort"
)

// leafFeature marks a node with no split.
const leafFeature = -1

// Node is one decision node. Internal nodes split on a single binary
// feature; leaves carry a class-probability distribution.
type Node struct {
	Feature int       `json:"f"`
	Left    *Node     `json:"l,omitempty"` // feature absent (0)
	Right   *Node     `json:"r,omitempty"` // feature present (1)
	Probs   []float64 `json:"p,omitempty"`
}

// Tree is a single Gini-split decision tree over binary features.
type Tree struct {
	Root *Node `json:"root"`
}

// predict returns the class distribution at the leaf reached by features.
func (t *Tree) predict(features []int) []float64 {
	n := t.Root
	for n.Feature != leafFeature {
		if features[n.Feature] == 1 {
			n = n.Right
		} else {
			n = n.Left
		}
	}
	return n.Probs
}

// treeBuilder grows one tree on a fixed sample of the training matrix.
type treeBuilder struct {
	x        [][]int
	y        []int
	classes  int
	maxDepth int // 0 = unlimited
	mtry     int // features considered per split
	rng      *rand.Rand
}

func (b *treeBuilder) build(indices []int) *Tree {
	return &Tree{Root: b.grow(indices, 0)}
}

func (b *treeBuilder) grow(indices []int, depth int) *Node {
	counts := b.classCounts(indices)

	if len(indices) < minSamplesSplit || isPure(counts) ||
		(b.maxDepth > 0 && depth >= b.maxDepth) {
		return b.leaf(counts, len(indices))
	}

	feature, ok := b.bestSplit(indices, counts)
	if !ok {
		return b.leaf(counts, len(indices))
	}

	var left, right []int
	for _, i := range indices {
		if b.x[i][feature] == 1 {
			right = append(right, i)
		} else {
			left = append(left, i)
		}
	}

	return &Node{
		Feature: feature,
		Left:    b.grow(left, depth+1),
		Right:   b.grow(right, depth+1),
	}
}

// bestSplit picks the Gini-gain-maximizing feature among a random subset of
// mtry features. Candidates are scanned in ascending feature order so ties
// resolve to the lowest feature index, keeping trees reproducible for a
// given seed.
func (b *treeBuilder) bestSplit(indices []int, counts []int) (int, bool) {
	total := len(indices)
	parent := gini(counts, total)

	candidates := b.rng.Perm(len(b.x[0]))[:b.mtry]
	sort.Ints(candidates)

	bestFeature := -1
	bestGain := 0.0
	for _, f := range candidates {
		rightCounts := make([]int, b.classes)
		nRight := 0
		for _, i := range indices {
			if b.x[i][f] == 1 {
				rightCounts[b.y[i]]++
				nRight++
			}
		}
		nLeft := total - nRight
		if nLeft == 0 || nRight == 0 {
			continue
		}
		leftCounts := make([]int, b.classes)
		for c := range leftCounts {
			leftCounts[c] = counts[c] - rightCounts[c]
		}

		gain := parent -
			float64(nLeft)/float64(total)*gini(leftCounts, nLeft) -
			float64(nRight)/float64(total)*gini(rightCounts, nRight)
		if gain > bestGain+1e-12 {
			bestGain = gain
			bestFeature = f
		}
	}

	if bestFeature < 0 || bestGain <= 1e-12 {
		return 0, false
	}
	return bestFeature, true
}

func (b *treeBuilder) classCounts(indices []int) []int {
	counts := make([]int, b.classes)
	for _, i := range indices {
		counts[b.y[i]]++
	}
	return counts
}

func (b *treeBuilder) leaf(counts []int, total int) *Node {
	probs := make([]float64, len(counts))
	if total > 0 {
		for c, n := range counts {
			probs[c] = float64(n) / float64(total)
		}
	}
	return &Node{Feature: leafFeature, Probs: probs}
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, n := range counts {
		if n > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// gini computes the Gini impurity of a class-count distribution.
func gini(counts []int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, n := range counts {
		p := float64(n) / float64(total)
		impurity -= p * p
	}
	return impurity
}

// mtryFor returns the per-split feature sample size: √D, at least 1.
func mtryFor(features int) int {
	m := int(math.Sqrt(float64(features)))
	if m < 1 {
		m = 1
	}
	return m
}
