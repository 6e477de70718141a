// Package model loads the externally trained loan approval classifier
// and the column order it was trained with.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// Label is the binary outcome of the classifier.
type Label int

const (
	NotEligible Label = 0
	Eligible    Label = 1
)

func (l Label) String() string {
	if l == Eligible {
		return "eligible"
	}
	return "not_eligible"
}

// Artifact types understood by Load.
const (
	TypeLogisticRegression = "logistic_regression"
	TypeRandomForest       = "random_forest"
)

var (
	// ErrMalformedVector is returned when a feature vector doesn't have the size the classifier expects.
	ErrMalformedVector = errors.New("malformed feature vector")
	// ErrInvalidArtifact is returned for model or column artifacts that can't be used.
	ErrInvalidArtifact = errors.New("invalid model artifact")
)

// Classifier predicts a label for a feature vector aligned to the training columns.
type Classifier interface {
	Predict(values []float64) (Label, error)
	// NumFeatures is the vector length the classifier was trained on.
	NumFeatures() int
}

// Artifacts bundles the classifier with its canonical column order.
// Both are loaded once and never mutated, so they can be shared by all requests.
type Artifacts struct {
	Classifier Classifier
	Columns    []string
}

// LoadArtifacts loads the classifier and the column list and checks that they fit together.
func LoadArtifacts(modelPath, columnsPath string) (*Artifacts, error) {
	columns, err := LoadColumns(columnsPath)
	if err != nil {
		return nil, err
	}
	classifier, err := Load(modelPath)
	if err != nil {
		return nil, err
	}
	if classifier.NumFeatures() != len(columns) {
		return nil, fmt.Errorf("%w: model expects %d features but %d columns are defined",
			ErrInvalidArtifact, classifier.NumFeatures(), len(columns))
	}
	log.Info("loaded prediction model", "path", modelPath, "features", len(columns))
	return &Artifacts{Classifier: classifier, Columns: columns}, nil
}

// LoadColumns reads the ordered list of feature columns from a JSON array.
func LoadColumns(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read columns file: %w", err)
	}
	return ParseColumns(data)
}

// ParseColumns decodes a JSON array of column names.
func ParseColumns(data []byte) ([]string, error) {
	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return nil, fmt.Errorf("%w: failed to decode columns: %v", ErrInvalidArtifact, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no columns defined", ErrInvalidArtifact)
	}
	if lo.Contains(columns, "") {
		return nil, fmt.Errorf("%w: empty column name", ErrInvalidArtifact)
	}
	if dups := lo.FindDuplicates(columns); len(dups) > 0 {
		return nil, fmt.Errorf("%w: duplicate columns %v", ErrInvalidArtifact, dups)
	}
	return columns, nil
}

type artifactHeader struct {
	Type string `json:"type"`
}

// Load reads a classifier artifact from path.
func Load(path string) (Classifier, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a classifier artifact. The "type" field selects the model family.
func Parse(data []byte) (Classifier, error) {
	var header artifactHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	var (
		c   Classifier
		err error
	)
	switch header.Type {
	case TypeLogisticRegression:
		c, err = parseLogisticRegression(data)
	case TypeRandomForest:
		c, err = parseRandomForest(data)
	default:
		return nil, fmt.Errorf("%w: unknown model type %q", ErrInvalidArtifact, header.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return c, nil
}

func checkLength(values []float64, n int) error {
	if len(values) != n {
		return fmt.Errorf("%w: got %d values, want %d", ErrMalformedVector, len(values), n)
	}
	return nil
}
