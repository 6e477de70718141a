package features

import (
	"fmt"

	"github.com/samber/lo"
)

// Column names the classifier was trained with.
const (
	ColumnGender            = "gender"
	ColumnMarried           = "married"
	ColumnDependents        = "dependents"
	ColumnEducation         = "education"
	ColumnSelfEmployed      = "self_employed"
	ColumnApplicantIncome   = "applicantincome"
	ColumnCoapplicantIncome = "coapplicantincome"
	ColumnLoanAmount        = "loanamount"
	ColumnLoanAmountTerm    = "loan_amount_term"
	ColumnCreditHistory     = "credit_history"
	ColumnPropertyArea      = "property_area"
)

// Categorical mappings used during training. Lookups are case sensitive.
var (
	genderMapping       = map[string]float64{"male": 1, "female": 0}
	yesNoMapping        = map[string]float64{"yes": 1, "no": 0}
	dependentsMapping   = map[string]float64{"0": 0, "1": 1, "2": 2, "3+": 3}
	educationMapping    = map[string]float64{"graduate": 1, "not_graduate": 0}
	propertyAreaMapping = map[string]float64{"urban": 2, "semiurban": 1, "rural": 0}
)

// UnknownCategoryError reports a categorical value outside the training domain.
type UnknownCategoryError struct {
	Field string
	Value string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown value %q for field %s", e.Value, e.Field)
}

// FeatureVector is an application encoded into the column order of the model.
type FeatureVector struct {
	Columns []string
	Values  []float64
}

// AllowedValues returns the accepted values of every categorical form field.
func AllowedValues() map[string][]string {
	return map[string][]string{
		FieldGender:       {"male", "female"},
		FieldMarried:      {"yes", "no"},
		FieldDependents:   {"0", "1", "2", "3+"},
		FieldEducation:    {"graduate", "not_graduate"},
		FieldSelfEmployed: {"yes", "no"},
		FieldPropertyArea: {"urban", "semiurban", "rural"},
	}
}

func mapCategory(field, value string, mapping map[string]float64) (float64, error) {
	v, ok := mapping[value]
	if !ok {
		return 0, &UnknownCategoryError{Field: field, Value: value}
	}
	return v, nil
}

// Raw maps the application to its training column names, before reindexing.
func Raw(app *LoanApplication) (map[string]float64, error) {
	categorical := []struct {
		field   string
		column  string
		value   string
		mapping map[string]float64
	}{
		{FieldGender, ColumnGender, app.Gender, genderMapping},
		{FieldMarried, ColumnMarried, app.Married, yesNoMapping},
		{FieldDependents, ColumnDependents, app.Dependents, dependentsMapping},
		{FieldEducation, ColumnEducation, app.Education, educationMapping},
		{FieldSelfEmployed, ColumnSelfEmployed, app.SelfEmployed, yesNoMapping},
		{FieldPropertyArea, ColumnPropertyArea, app.PropertyArea, propertyAreaMapping},
	}

	raw := map[string]float64{
		ColumnApplicantIncome:   float64(app.ApplicantIncome),
		ColumnCoapplicantIncome: app.CoapplicantIncome,
		ColumnLoanAmount:        app.LoanAmount,
		ColumnLoanAmountTerm:    app.LoanAmountTerm,
		ColumnCreditHistory:     float64(app.CreditHistory),
	}
	for _, c := range categorical {
		v, err := mapCategory(c.field, c.value, c.mapping)
		if err != nil {
			return nil, err
		}
		raw[c.column] = v
	}
	return raw, nil
}

// Encode maps the application onto the canonical columns.
// Columns the application doesn't provide are 0, application values without a canonical column are dropped.
func Encode(app *LoanApplication, columns []string) (*FeatureVector, error) {
	raw, err := Raw(app)
	if err != nil {
		return nil, err
	}
	return Reindex(raw, columns), nil
}

// Reindex aligns raw values to columns, filling absent columns with 0.
func Reindex(raw map[string]float64, columns []string) *FeatureVector {
	return &FeatureVector{
		Columns: append([]string(nil), columns...),
		Values: lo.Map(columns, func(c string, _ int) float64 {
			return raw[c]
		}),
	}
}
