// Package predictor loads the pre-trained heart disease classifier artifact
// and scores feature vectors against it. The model is read-only after Load
// and safe for unlimited concurrent use.
package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// FeatureCount is the number of inputs the classifier expects.
const FeatureCount = 13

// Provider is the interface handlers use to run the classifier.
type Provider interface {
	Predict(features [FeatureCount]float64) int
}

// artifact is the on-disk JSON layout of an exported logistic regression
// model: coefficients plus the optional standardization applied in training.
type artifact struct {
	Bias      float64   `json:"bias"`
	Weights   []float64 `json:"weights"`
	Mean      []float64 `json:"mean"`
	Scale     []float64 `json:"scale"`
	Threshold float64   `json:"threshold"`
}

// Model is a loaded classifier.
type Model struct {
	bias      float64
	weights   [FeatureCount]float64
	mean      [FeatureCount]float64
	scale     [FeatureCount]float64
	scaled    bool
	threshold float64
}

// Load reads a classifier artifact from disk. Called once at startup.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parsing model artifact: %w", err)
	}

	if len(a.Weights) != FeatureCount {
		return nil, fmt.Errorf("model artifact has %d weights, want %d", len(a.Weights), FeatureCount)
	}

	m := &Model{bias: a.Bias, threshold: a.Threshold}
	if m.threshold == 0 {
		m.threshold = 0.5
	}
	copy(m.weights[:], a.Weights)

	if len(a.Mean) > 0 || len(a.Scale) > 0 {
		if len(a.Mean) != FeatureCount || len(a.Scale) != FeatureCount {
			return nil, fmt.Errorf("model artifact standardization must cover all %d features", FeatureCount)
		}
		for i, s := range a.Scale {
			if s == 0 {
				return nil, fmt.Errorf("model artifact scale[%d] is zero", i)
			}
		}
		copy(m.mean[:], a.Mean)
		copy(m.scale[:], a.Scale)
		m.scaled = true
	}

	return m, nil
}

// Predict scores a feature vector and returns the predicted class, 0 or 1.
// Pure function of its input.
func (m *Model) Predict(features [FeatureCount]float64) int {
	z := m.bias
	for i, x := range features {
		if m.scaled {
			x = (x - m.mean[i]) / m.scale[i]
		}
		z += m.weights[i] * x
	}

	p := 1.0 / (1.0 + math.Exp(-z))
	if p >= m.threshold {
		return 1
	}
	return 0
}
