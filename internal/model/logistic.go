package model

import (
	"encoding/json"
	"errors"
	"math"
)

const defaultThreshold = 0.5

// LogisticRegression is a linear classifier with a sigmoid link.
type LogisticRegression struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
	// Threshold is the probability from which a sample is labeled eligible.
	Threshold float64 `json:"threshold"`
}

func parseLogisticRegression(data []byte) (*LogisticRegression, error) {
	lr := LogisticRegression{Threshold: defaultThreshold}
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, err
	}
	if len(lr.Coefficients) == 0 {
		return nil, errors.New("logistic regression without coefficients")
	}
	if lr.Threshold <= 0 || lr.Threshold >= 1 {
		return nil, errors.New("threshold must be between 0 and 1")
	}
	return &lr, nil
}

func (lr *LogisticRegression) NumFeatures() int {
	return len(lr.Coefficients)
}

// Probability returns the probability of the eligible class.
func (lr *LogisticRegression) Probability(values []float64) (float64, error) {
	if err := checkLength(values, len(lr.Coefficients)); err != nil {
		return 0, err
	}
	z := lr.Intercept
	for i, w := range lr.Coefficients {
		z += w * values[i]
	}
	return 1 / (1 + math.Exp(-z)), nil
}

func (lr *LogisticRegression) Predict(values []float64) (Label, error) {
	p, err := lr.Probability(values)
	if err != nil {
		return NotEligible, err
	}
	if p >= lr.Threshold {
		return Eligible, nil
	}
	return NotEligible, nil
}
