package predict

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jon4hz/loanwise/internal/features"
	"github.com/jon4hz/loanwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	label    model.Label
	features int
	err      error
	got      []float64
}

func (f *fakeClassifier) Predict(values []float64) (model.Label, error) {
	f.got = values
	return f.label, f.err
}

func (f *fakeClassifier) NumFeatures() int {
	return f.features
}

var columns = []string{
	"gender", "married", "dependents", "education", "self_employed",
	"applicantincome", "coapplicantincome", "loanamount", "loan_amount_term",
	"credit_history", "property_area",
}

func application() *features.LoanApplication {
	return &features.LoanApplication{
		Gender:          "male",
		Married:         "yes",
		Dependents:      "2",
		Education:       "graduate",
		SelfEmployed:    "no",
		ApplicantIncome: 5000,
		LoanAmount:      128,
		LoanAmountTerm:  360,
		CreditHistory:   1,
		PropertyArea:    "urban",
	}
}

func TestPredict_Eligible(t *testing.T) {
	c := &fakeClassifier{label: model.Eligible, features: len(columns)}
	s := New(&model.Artifacts{Classifier: c, Columns: columns})

	res, err := s.Predict(context.Background(), application())
	require.NoError(t, err)
	assert.True(t, res.Eligible())
	assert.Equal(t, "Congrats!! You are eligible for the loan of 128.0 (K $) for a Loan Term of 360.0 months.", res.Message)
	assert.Equal(t, []float64{1, 1, 2, 1, 0, 5000, 0, 128, 360, 1, 2}, c.got)
	assert.Equal(t, columns, res.Vector.Columns)
	assert.Equal(t, c.got, res.Vector.Values)
}

func TestPredict_NotEligible(t *testing.T) {
	c := &fakeClassifier{label: model.NotEligible, features: len(columns)}
	s := New(&model.Artifacts{Classifier: c, Columns: columns})

	app := application()
	app.LoanAmount = 128.5
	res, err := s.Predict(context.Background(), app)
	require.NoError(t, err)
	assert.False(t, res.Eligible())
	assert.Equal(t, "Sorry!! You are not eligible for the loan of 128.5 (K $) for a Loan Term of 360.0 months.", res.Message)
}

func TestPredict_MalformedVector(t *testing.T) {
	c := &fakeClassifier{label: model.Eligible, features: len(columns) + 1}
	s := New(&model.Artifacts{Classifier: c, Columns: columns})

	_, err := s.Predict(context.Background(), application())
	assert.ErrorIs(t, err, model.ErrMalformedVector)
	assert.Nil(t, c.got)
}

func TestPredict_ClassifierError(t *testing.T) {
	boom := errors.New("boom")
	c := &fakeClassifier{features: len(columns), err: boom}
	s := New(&model.Artifacts{Classifier: c, Columns: columns})

	_, err := s.Predict(context.Background(), application())
	assert.ErrorIs(t, err, boom)
}

func TestPredict_UnknownCategory(t *testing.T) {
	c := &fakeClassifier{features: len(columns)}
	s := New(&model.Artifacts{Classifier: c, Columns: columns})

	app := application()
	app.PropertyArea = "Urban"
	_, err := s.Predict(context.Background(), app)
	var unknown *features.UnknownCategoryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "property_area", unknown.Field)
}

func TestPredict_CanceledContext(t *testing.T) {
	c := &fakeClassifier{features: len(columns)}
	s := New(&model.Artifacts{Classifier: c, Columns: columns})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Predict(ctx, application())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredict_WithLoadedModel(t *testing.T) {
	artifacts, err := model.LoadArtifacts(
		filepath.Join("..", "model", "testdata", "forest.json"),
		filepath.Join("..", "model", "testdata", "columns.json"),
	)
	require.NoError(t, err)
	s := New(artifacts)

	res, err := s.Predict(context.Background(), application())
	require.NoError(t, err)
	assert.Equal(t, model.Eligible, res.Label)

	app := application()
	app.CreditHistory = 0
	res, err = s.Predict(context.Background(), app)
	require.NoError(t, err)
	assert.Equal(t, model.NotEligible, res.Label)
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		128:     "128.0",
		128.5:   "128.5",
		0:       "0.0",
		360:     "360.0",
		-2.25:   "-2.25",
		0.1:     "0.1",
		1e16:    "1e+16",
		0.00001: "1e-05",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatFloat(in), "%v", in)
	}
}
