package engine

import "fmt"

// Eval walks the tree from the root for one feature vector. Records go left
// when the feature value is <= the node threshold.
func (t *Tree) Eval(fv []float64) (float64, error) {
	n := len(t.Feature)
	if n == 0 || len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return 0, fmt.Errorf("tree: inconsistent node arrays")
	}

	node := 0
	for steps := 0; steps <= n; steps++ {
		f := t.Feature[node]
		if f < 0 {
			return t.Value[node], nil
		}
		if f >= len(fv) {
			return 0, fmt.Errorf("tree: node %d references feature %d beyond vector of %d", node, f, len(fv))
		}
		if fv[f] <= t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
		if node < 0 || node >= n {
			return 0, fmt.Errorf("tree: child index %d out of range", node)
		}
	}
	return 0, fmt.Errorf("tree: traversal exceeded node count, cycle suspected")
}

// Score sums the boosted log-odds increments on top of the initial score
// and squashes through a sigmoid.
func (g *GBTArtifact) Score(fv []float64) (float64, error) {
	raw := g.InitScore
	lr := g.LearningRate
	if lr == 0 {
		lr = 1
	}
	for i := range g.Trees {
		leaf, err := g.Trees[i].Eval(fv)
		if err != nil {
			return 0, fmt.Errorf("boosted tree %d: %w", i, err)
		}
		raw += lr * leaf
	}
	return sigmoid(raw), nil
}

// Score averages the per-tree class probabilities.
func (f *RFArtifact) Score(fv []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("forest: no trees")
	}
	sum := 0.0
	for i := range f.Trees {
		leaf, err := f.Trees[i].Eval(fv)
		if err != nil {
			return 0, fmt.Errorf("forest tree %d: %w", i, err)
		}
		sum += leaf
	}
	return sum / float64(len(f.Trees)), nil
}
