package forms

import "github.com/goliatone/go-mfadmin/pkg/model"

// TaxComponent is the tax component editor. The backend spells the credit
// account key creditAcountId and rejects the corrected spelling.
func TaxComponent() *Definition {
	return &Definition{
		Resource:   "tax-components",
		Title:      "Tax component",
		Collection: "/taxes/component",
		Template:   "/taxes/component/template",
		Sources: []OptionSource{
			{Field: "creditAccountType", Results: []string{"glAccountTypeOptions"}},
			{Field: "creditAcountId", Results: []string{
				"glAccountOptions.liabilityAccountOptions",
				"glAccountOptions.assetAccountOptions",
				"glAccountOptions.equityAccountOptions",
				"glAccountOptions.incomeAccountOptions",
				"glAccountOptions.expenseAccountOptions",
			}},
		},
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeString, Required: true, Validations: []model.ValidationRule{model.MaxLength("100")}},
			{Name: "percentage", Type: model.FieldTypeNumber, Required: true, Validations: []model.ValidationRule{model.Min("0"), model.Max("100")}},
			{Name: "creditAccountType", Label: "Credit account type", Type: model.FieldTypeSelect},
			{Name: "creditAcountId", Label: "Credit account", Type: model.FieldTypeSelect},
			{Name: "startDate", Type: model.FieldTypeDate, Required: true, CreateOnly: true},
		},
		Aliases: map[string]string{
			"creditAccountId": "creditAcountId",
		},
		CanUpdate: true,
		hydrate: func(record Record) Values {
			return Values{
				"name":              pick(record, "name"),
				"percentage":        pick(record, "percentage"),
				"creditAccountType": pick(record, "creditAccountType.id", "creditAccountType"),
				"creditAcountId":    pick(record, "creditAccount.id", "creditAcountId", "creditAccountId"),
				"startDate":         pickDate(record, "startDate"),
			}
		},
		validate: func(values Values, _ Mode, errs FieldErrors) {
			if values.Get("creditAcountId") != "" && values.Get("creditAccountType") == "" {
				errs.Add("creditAccountType", "Credit account type is required when a credit account is selected")
			}
		},
		payload: func(values Values, mode Mode) map[string]any {
			b := newPayload(values).
				str("name").
				float("percentage").
				int("creditAccountType", "creditAcountId")
			if mode == ModeCreate {
				b.date("startDate")
			}
			return b.locale().build()
		},
	}
}
