package pages

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/jon4hz/loanwise/internal/features"
	"github.com/jon4hz/loanwise/web/templates/components"
)

// PredictData is everything the prediction page shows.
type PredictData struct {
	Username   string
	SignedInAt time.Time
	Flashes    []string
	// Error is shown instead of a result when the submitted form was rejected.
	Error      string
	Prediction string
	Eligible   bool
	// Application is the submitted application, nil on a fresh form.
	Application *features.LoanApplication
}

type selectField struct {
	name  string
	label string
}

var selectFields = []selectField{
	{features.FieldGender, "Gender"},
	{features.FieldMarried, "Married"},
	{features.FieldDependents, "Dependents"},
	{features.FieldEducation, "Education"},
	{features.FieldSelfEmployed, "Self employed"},
}

type numberField struct {
	name  string
	label string
	step  string
}

var numberFields = []numberField{
	{features.FieldApplicantIncome, "Applicant income", "1"},
	{features.FieldCoapplicantIncome, "Coapplicant income", "any"},
	{features.FieldLoanAmount, "Loan amount (K $)", "any"},
	{features.FieldLoanAmountTerm, "Loan amount term (months)", "any"},
}

// Predict renders the application form and, after a submission, its outcome.
func Predict(data PredictData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<h1>Welcome, %s</h1>`, templ.EscapeString(data.Username)); err != nil {
			return err
		}
		if !data.SignedInAt.IsZero() {
			if _, err := fmt.Fprintf(w, `<p class="muted">Signed in %s</p>`,
				templ.EscapeString(components.FormatRelativeTime(data.SignedInAt))); err != nil {
				return err
			}
		}
		if err := components.Flashes(data.Flashes).Render(ctx, w); err != nil {
			return err
		}
		if err := components.Alert(data.Error, true).Render(ctx, w); err != nil {
			return err
		}
		if err := result(data).Render(ctx, w); err != nil {
			return err
		}
		return applicationForm().Render(ctx, w)
	})
	return components.Layout("Predict", true, body)
}

func result(data PredictData) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if data.Prediction == "" {
			return nil
		}
		class := "result not-eligible"
		if data.Eligible {
			class = "result eligible"
		}
		if _, err := fmt.Fprintf(w, `<div class="%s"><p>%s</p>`, class, templ.EscapeString(data.Prediction)); err != nil {
			return err
		}
		if data.Application != nil {
			if _, err := fmt.Fprintf(w, `<p>Applicant income: %s</p>`,
				templ.EscapeString(components.FormatIncome(data.Application.ApplicantIncome))); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

func applicationForm() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		allowed := features.AllowedValues()
		if _, err := io.WriteString(w, `<form method="post" action="/predict">`); err != nil {
			return err
		}
		for _, f := range selectFields {
			if err := writeSelect(w, f.name, f.label, allowed[f.name]); err != nil {
				return err
			}
		}
		for _, f := range numberFields {
			if _, err := fmt.Fprintf(w, `<label for="%[1]s">%[2]s</label><input id="%[1]s" name="%[1]s" type="number" min="0" step="%[3]s" required>`,
				f.name, templ.EscapeString(f.label), f.step); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, `<label for="%[1]s">Credit history</label><select id="%[1]s" name="%[1]s" required>`+
			`<option value="1">meets guidelines</option><option value="0">does not meet guidelines</option></select>`,
			features.FieldCreditHistory); err != nil {
			return err
		}
		if err := writeSelect(w, features.FieldPropertyArea, "Property area", allowed[features.FieldPropertyArea]); err != nil {
			return err
		}
		_, err := io.WriteString(w, `<button type="submit">Check eligibility</button></form>`)
		return err
	})
}

func writeSelect(w io.Writer, name, label string, values []string) error {
	if _, err := fmt.Fprintf(w, `<label for="%[1]s">%[2]s</label><select id="%[1]s" name="%[1]s" required>`,
		name, templ.EscapeString(label)); err != nil {
		return err
	}
	for _, v := range values {
		if _, err := fmt.Fprintf(w, `<option value="%[1]s">%[1]s</option>`, templ.EscapeString(v)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, `</select>`)
	return err
}
