package engine

import (
	"fmt"
	"math"
)

// Forward runs the network on one feature vector and returns the output of
// the final unit. The last layer is expected to end in a sigmoid so the
// result is a probability.
func (m *MLPArtifact) Forward(in []float64) (float64, error) {
	cur := in
	for li, layer := range m.Layers {
		if len(layer.Weights) != len(cur) {
			return 0, fmt.Errorf("layer %d: expected %d inputs, got %d", li, len(layer.Weights), len(cur))
		}
		out := make([]float64, len(layer.Biases))
		copy(out, layer.Biases)
		for i, row := range layer.Weights {
			if len(row) != len(out) {
				return 0, fmt.Errorf("layer %d: weight row %d has %d outputs, want %d", li, i, len(row), len(out))
			}
			x := cur[i]
			if x == 0 {
				continue
			}
			for j, w := range row {
				out[j] += x * w
			}
		}
		applyActivation(layer.Activation, out)
		cur = out
	}
	if len(cur) != 1 {
		return 0, fmt.Errorf("network output has %d units, want 1", len(cur))
	}
	return cur[0], nil
}

func applyActivation(name string, v []float64) {
	switch name {
	case "relu":
		for i := range v {
			if v[i] < 0 {
				v[i] = 0
			}
		}
	case "sigmoid":
		for i := range v {
			v[i] = sigmoid(v[i])
		}
	case "tanh":
		for i := range v {
			v[i] = math.Tanh(v[i])
		}
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
