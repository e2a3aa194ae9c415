package forms

import "github.com/goliatone/go-mfadmin/pkg/model"

// LoanCollateral edits the collaterals of one loan; the scope must carry
// loanId.
func LoanCollateral() *Definition {
	return &Definition{
		Resource:   "collaterals",
		Title:      "Collateral",
		Collection: "/loans/{loanId}/collaterals",
		Template:   "/loans/{loanId}/collaterals/template",
		Sources: []OptionSource{
			{Field: "collateralTypeId", Results: []string{"allowedCollateralTypes"}},
		},
		Fields: []model.Field{
			{Name: "collateralTypeId", Label: "Collateral type", Type: model.FieldTypeSelect, Required: true},
			{Name: "value", Type: model.FieldTypeNumber, Required: true, Validations: []model.ValidationRule{positive()}},
			{Name: "description", Type: model.FieldTypeText, Validations: []model.ValidationRule{model.MaxLength("500")}},
		},
		CanUpdate: true,
		CanDelete: true,
		hydrate: func(record Record) Values {
			return Values{
				"collateralTypeId": pick(record, "type.id", "collateralTypeId"),
				"value":            pick(record, "value"),
				"description":      pick(record, "description"),
			}
		},
		payload: func(values Values, _ Mode) map[string]any {
			return newPayload(values).
				int("collateralTypeId").
				float("value").
				str("description").
				locale().
				build()
		},
	}
}

func positive() model.ValidationRule {
	rule := model.Min("0")
	rule.Params["exclusive"] = "true"
	return rule
}
