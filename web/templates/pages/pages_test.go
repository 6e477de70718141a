package pages

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/jon4hz/loanwise/internal/features"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestHome(t *testing.T) {
	out := render(t, Home(false))
	assert.Contains(t, out, "<title>Home | Loanwise</title>")
	assert.Contains(t, out, `href="/register"`)

	out = render(t, Home(true))
	assert.Contains(t, out, `href="/enter_details"`)
	assert.Contains(t, out, `href="/logout"`)
}

func TestRegister_EscapesMessage(t *testing.T) {
	out := render(t, Register("<script>alert(1)</script>"))
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, `action="/register"`)
}

func TestLogin(t *testing.T) {
	out := render(t, Login("Invalid username or password. Please try again.", []string{"You need to log in first."}))
	assert.Contains(t, out, "Invalid username or password. Please try again.")
	assert.Contains(t, out, "You need to log in first.")
	assert.Contains(t, out, `action="/login"`)
}

func TestPredict_Form(t *testing.T) {
	out := render(t, Predict(PredictData{
		Username:   "alice",
		SignedInAt: time.Now().Add(-5 * time.Minute),
		Flashes:    []string{"Login successful!"},
	}))
	assert.Contains(t, out, "Welcome, alice")
	assert.Contains(t, out, "Signed in 5 minutes ago")
	assert.Contains(t, out, "Login successful!")
	for _, field := range features.FormFields {
		assert.Contains(t, out, `name="`+field+`"`, field)
	}
	assert.Contains(t, out, `<option value="3+">3+</option>`)
	assert.NotContains(t, out, `class="result`)
}

func TestPredict_Result(t *testing.T) {
	out := render(t, Predict(PredictData{
		Username:    "alice",
		Prediction:  "Congrats!! You are eligible for the loan of 128.0 (K $) for a Loan Term of 360.0 months.",
		Eligible:    true,
		Application: &features.LoanApplication{ApplicantIncome: 125000},
	}))
	assert.Contains(t, out, `class="result eligible"`)
	assert.Contains(t, out, "Congrats!! You are eligible for the loan of 128.0 (K $)")
	assert.Contains(t, out, "Applicant income: 125,000")
}

func TestPredict_Error(t *testing.T) {
	out := render(t, Predict(PredictData{
		Username: "<b>bob</b>",
		Error:    "Missing form field: credit_history",
	}))
	assert.Contains(t, out, "Missing form field: credit_history")
	assert.Contains(t, out, "&lt;b&gt;bob&lt;/b&gt;")
}
