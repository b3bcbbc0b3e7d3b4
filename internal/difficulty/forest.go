package difficulty

import (
	"math"
	"math/rand/v2"
	"slices"
)

// ForestConfig contains configuration for fitting a random forest.
type ForestConfig struct {
	// NumTrees is the number of bagged trees in the ensemble.
	// Default: 100.
	NumTrees int

	// MaxDepth bounds the depth of every tree. The root is at depth 0.
	// Default: 5.
	MaxDepth int

	// MinSamplesSplit is the minimum number of samples a node needs before it is split.
	// Default: 4.
	MinSamplesSplit int

	// MinSamplesLeaf is the minimum number of samples on each side of a split.
	// Default: 2.
	MinSamplesLeaf int

	// MaxFeatures is the number of non-constant features inspected per split.
	// Default: floor(sqrt(NumFeatures)).
	MaxFeatures int

	// Seed makes fitting reproducible.
	// Default: 42.
	Seed uint64
}

// DefaultForestConfig returns the configuration used by NewClassifier.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:        100,
		MaxDepth:        5,
		MinSamplesSplit: 4,
		MinSamplesLeaf:  2,
		MaxFeatures:     int(math.Sqrt(NumFeatures)),
		Seed:            42,
	}
}

func (cfg ForestConfig) withDefaults() ForestConfig {
	def := DefaultForestConfig()
	if cfg.NumTrees <= 0 {
		cfg.NumTrees = def.NumTrees
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = def.MaxDepth
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = def.MinSamplesSplit
	}
	if cfg.MinSamplesLeaf < 1 {
		cfg.MinSamplesLeaf = def.MinSamplesLeaf
	}
	if cfg.MaxFeatures <= 0 || cfg.MaxFeatures > NumFeatures {
		cfg.MaxFeatures = def.MaxFeatures
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return cfg
}

// Forest is an ensemble of CART classification trees fitted on bootstrap samples.
//
// A fitted Forest is never modified and is safe for concurrent use.
type Forest struct {
	// labels holds the distinct training labels in ascending order. Leaf distributions
	// are indexed by position in labels.
	labels []int
	trees  []*node
}

type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	// dist is the class distribution of a leaf, nil for inner nodes.
	dist []float64
}

func (n *node) leaf() bool {
	return n.dist != nil
}

// Fit grows a forest from samples. An empty sample set yields a forest that always
// predicts DefaultLabel.
func Fit(samples []Sample, cfg ForestConfig) *Forest {
	cfg = cfg.withDefaults()

	f := &Forest{}
	for _, s := range samples {
		if !slices.Contains(f.labels, s.Label) {
			f.labels = append(f.labels, s.Label)
		}
	}
	slices.Sort(f.labels)
	if len(samples) == 0 {
		return f
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)) //nolint:gosec // reproducible fitting, not security sensitive
	b := builder{cfg: cfg, samples: samples, labels: f.labels, rng: rng}
	f.trees = make([]*node, 0, cfg.NumTrees)
	for range cfg.NumTrees {
		bootstrap := make([]int, len(samples))
		for i := range bootstrap {
			bootstrap[i] = rng.IntN(len(samples))
		}
		f.trees = append(f.trees, b.grow(bootstrap, 0))
	}
	return f
}

// Predict returns the label with the highest mean class probability across all trees.
// Ties resolve to the lower label.
func (f *Forest) Predict(x FeatureVector) int {
	if len(f.trees) == 0 {
		return DefaultLabel
	}

	votes := make([]float64, len(f.labels))
	for _, t := range f.trees {
		n := t
		for !n.leaf() {
			if x[n.feature] <= n.threshold {
				n = n.left
			} else {
				n = n.right
			}
		}
		for i, p := range n.dist {
			votes[i] += p
		}
	}

	best := 0
	for i := 1; i < len(votes); i++ {
		if votes[i] > votes[best] {
			best = i
		}
	}
	return f.labels[best]
}

type builder struct {
	cfg     ForestConfig
	samples []Sample
	labels  []int
	rng     *rand.Rand
}

func (b *builder) grow(idx []int, depth int) *node {
	counts := b.classCounts(idx)
	if depth >= b.cfg.MaxDepth || len(idx) < b.cfg.MinSamplesSplit || pure(counts) {
		return b.leafNode(counts, len(idx))
	}

	feature, threshold, ok := b.bestSplit(idx, gini(counts, len(idx)))
	if !ok {
		return b.leafNode(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if b.samples[i].Features[feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &node{
		feature:   feature,
		threshold: threshold,
		left:      b.grow(left, depth+1),
		right:     b.grow(right, depth+1),
	}
}

// bestSplit searches MaxFeatures randomly ordered non-constant features for the threshold
// with the lowest weighted gini impurity. Only splits that improve on the parent impurity
// and leave MinSamplesLeaf samples on both sides qualify.
func (b *builder) bestSplit(idx []int, parentImpurity float64) (int, float64, bool) {
	var (
		bestFeature   int
		bestThreshold float64
		bestImpurity  = parentImpurity
		found         bool
		inspected     int
	)

	for _, feature := range b.rng.Perm(NumFeatures) {
		if inspected >= b.cfg.MaxFeatures {
			break
		}
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, b.samples[i].Features[feature])
		}
		slices.Sort(values)
		values = slices.Compact(values)
		if len(values) < 2 { //nolint:mnd // constant feature
			continue
		}
		inspected++

		for k := 1; k < len(values); k++ {
			threshold := (values[k-1] + values[k]) / 2 //nolint:mnd // midpoint
			impurity, ok := b.splitImpurity(idx, feature, threshold)
			if ok && impurity < bestImpurity-1e-12 {
				bestFeature, bestThreshold, bestImpurity, found = feature, threshold, impurity, true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func (b *builder) splitImpurity(idx []int, feature int, threshold float64) (float64, bool) {
	left := make([]int, len(b.labels))
	right := make([]int, len(b.labels))
	var nLeft, nRight int
	for _, i := range idx {
		k := slices.Index(b.labels, b.samples[i].Label)
		if b.samples[i].Features[feature] <= threshold {
			left[k]++
			nLeft++
		} else {
			right[k]++
			nRight++
		}
	}
	if nLeft < b.cfg.MinSamplesLeaf || nRight < b.cfg.MinSamplesLeaf {
		return 0, false
	}
	total := float64(nLeft + nRight)
	return float64(nLeft)/total*gini(left, nLeft) + float64(nRight)/total*gini(right, nRight), true
}

func (b *builder) classCounts(idx []int) []int {
	counts := make([]int, len(b.labels))
	for _, i := range idx {
		counts[slices.Index(b.labels, b.samples[i].Label)]++
	}
	return counts
}

func (b *builder) leafNode(counts []int, n int) *node {
	dist := make([]float64, len(counts))
	for i, c := range counts {
		dist[i] = float64(c) / float64(n)
	}
	return &node{dist: dist}
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}

func pure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}
