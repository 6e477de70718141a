package features

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
)

// Form field names of the loan application.
const (
	FieldGender            = "gender"
	FieldMarried           = "married"
	FieldDependents        = "dependents"
	FieldEducation         = "education"
	FieldSelfEmployed      = "self_employed"
	FieldApplicantIncome   = "applicant_income"
	FieldCoapplicantIncome = "coapplicant_income"
	FieldLoanAmount        = "loan_amount"
	FieldLoanAmountTerm    = "loan_amount_term"
	FieldCreditHistory     = "credit_history"
	FieldPropertyArea      = "property_area"
)

// FormFields lists all fields of the application form in form order.
var FormFields = []string{
	FieldGender,
	FieldMarried,
	FieldDependents,
	FieldEducation,
	FieldSelfEmployed,
	FieldApplicantIncome,
	FieldCoapplicantIncome,
	FieldLoanAmount,
	FieldLoanAmountTerm,
	FieldCreditHistory,
	FieldPropertyArea,
}

// LoanApplication is a submitted loan application form. It is never persisted.
type LoanApplication struct {
	Gender            string
	Married           string
	Dependents        string
	Education         string
	SelfEmployed      string
	ApplicantIncome   int64
	CoapplicantIncome float64
	LoanAmount        float64
	LoanAmountTerm    float64
	CreditHistory     int
	PropertyArea      string
}

// MissingFieldError reports a form field that wasn't submitted.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing form field: %s", e.Field)
}

// InvalidFieldError reports a numeric form field that couldn't be parsed or isn't a finite number.
type InvalidFieldError struct {
	Field string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid value %q for form field %s", e.Value, e.Field)
}

type formReader struct {
	form url.Values
	err  error
}

func (r *formReader) raw(field string) (string, bool) {
	if r.err != nil {
		return "", false
	}
	values, ok := r.form[field]
	if !ok || len(values) == 0 {
		r.err = &MissingFieldError{Field: field}
		return "", false
	}
	return strings.TrimSpace(values[0]), true
}

func (r *formReader) string(field string) string {
	v, _ := r.raw(field)
	return v
}

func (r *formReader) int(field string) int64 {
	v, ok := r.raw(field)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		r.err = &InvalidFieldError{Field: field, Value: v}
		return 0
	}
	return n
}

func (r *formReader) float(field string) float64 {
	v, ok := r.raw(field)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		r.err = &InvalidFieldError{Field: field, Value: v}
		return 0
	}
	return f
}

// ParseForm reads a LoanApplication from submitted form values.
// Fields are read in form order, the first missing or malformed field is reported.
func ParseForm(form url.Values) (*LoanApplication, error) {
	r := &formReader{form: form}
	app := &LoanApplication{
		Gender:            r.string(FieldGender),
		Married:           r.string(FieldMarried),
		Dependents:        r.string(FieldDependents),
		Education:         r.string(FieldEducation),
		SelfEmployed:      r.string(FieldSelfEmployed),
		ApplicantIncome:   r.int(FieldApplicantIncome),
		CoapplicantIncome: r.float(FieldCoapplicantIncome),
		LoanAmount:        r.float(FieldLoanAmount),
		LoanAmountTerm:    r.float(FieldLoanAmountTerm),
	}
	creditHistory := r.int(FieldCreditHistory)
	app.PropertyArea = r.string(FieldPropertyArea)
	if r.err != nil {
		return nil, r.err
	}

	ch, err := safecast.ToInt(creditHistory)
	if err != nil || (ch != 0 && ch != 1) {
		return nil, &InvalidFieldError{Field: FieldCreditHistory, Value: strconv.FormatInt(creditHistory, 10)}
	}
	app.CreditHistory = ch

	return app, nil
}
