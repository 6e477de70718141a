// Package predict turns a loan application into an eligibility decision.
package predict

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/loanwise/internal/features"
	"github.com/jon4hz/loanwise/internal/model"
)

// Result is the outcome of a single prediction.
type Result struct {
	Label   model.Label
	Message string
	Vector  *features.FeatureVector
}

// Eligible reports whether the applicant is eligible for the loan.
func (r *Result) Eligible() bool {
	return r.Label == model.Eligible
}

// Service predicts loan eligibility with the loaded model artifacts.
// It holds no mutable state and is safe for concurrent use.
type Service struct {
	classifier model.Classifier
	columns    []string
}

// New creates a prediction service from loaded artifacts.
func New(artifacts *model.Artifacts) *Service {
	return &Service{
		classifier: artifacts.Classifier,
		columns:    artifacts.Columns,
	}
}

// Predict encodes the application, classifies it and builds the eligibility message.
func (s *Service) Predict(ctx context.Context, app *features.LoanApplication) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec, err := features.Encode(app, s.columns)
	if err != nil {
		return nil, err
	}
	if len(vec.Values) != s.classifier.NumFeatures() {
		return nil, fmt.Errorf("%w: encoded %d values, model expects %d",
			model.ErrMalformedVector, len(vec.Values), s.classifier.NumFeatures())
	}

	label, err := s.classifier.Predict(vec.Values)
	if err != nil {
		return nil, fmt.Errorf("failed to predict: %w", err)
	}
	log.Debug("prediction done", "label", label, "loan_amount", app.LoanAmount, "term", app.LoanAmountTerm)

	return &Result{
		Label:   label,
		Message: Message(label, app.LoanAmount, app.LoanAmountTerm),
		Vector:  vec,
	}, nil
}

// Message builds the text shown to the applicant.
func Message(label model.Label, loanAmount, loanAmountTerm float64) string {
	prefix := "Sorry!! You are not eligible"
	if label == model.Eligible {
		prefix = "Congrats!! You are eligible"
	}
	return fmt.Sprintf("%s for the loan of %s (K $) for a Loan Term of %s months.",
		prefix, FormatFloat(loanAmount), FormatFloat(loanAmountTerm))
}

// FormatFloat renders a float the way applicants entered it, always with a
// fractional part: 128 becomes "128.0", 128.5 stays "128.5".
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
