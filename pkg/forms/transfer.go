package forms

import "github.com/goliatone/go-mfadmin/pkg/model"

// Transfer moves money between two client accounts. Transfers are immutable
// once created.
func Transfer() *Definition {
	return &Definition{
		Resource:   "transfers",
		Title:      "Account transfer",
		Collection: "/accounttransfers",
		Template:   "/accounttransfers/template",
		TemplateQuery: []string{
			"fromOfficeId", "fromClientId", "fromAccountType", "fromAccountId",
			"toOfficeId", "toClientId", "toAccountType", "toAccountId",
		},
		Sources: []OptionSource{
			{Field: "fromOfficeId", Results: []string{"fromOfficeOptions"}},
			{Field: "fromClientId", Results: []string{"fromClientOptions"}},
			{Field: "fromAccountType", Results: []string{"fromAccountTypeOptions"}},
			{Field: "fromAccountId", Results: []string{"fromAccountOptions"}},
			{Field: "toOfficeId", Results: []string{"toOfficeOptions"}},
			{Field: "toClientId", Results: []string{"toClientOptions"}},
			{Field: "toAccountType", Results: []string{"toAccountTypeOptions"}},
			{Field: "toAccountId", Results: []string{"toAccountOptions"}},
		},
		Fields: []model.Field{
			{Name: "fromOfficeId", Label: "From office", Type: model.FieldTypeSelect, Required: true},
			{Name: "fromClientId", Label: "From client", Type: model.FieldTypeSelect, Required: true},
			{Name: "fromAccountType", Label: "From account type", Type: model.FieldTypeSelect, Required: true},
			{Name: "fromAccountId", Label: "From account", Type: model.FieldTypeSelect, Required: true},
			{Name: "toOfficeId", Label: "To office", Type: model.FieldTypeSelect, Required: true},
			{Name: "toClientId", Label: "To client", Type: model.FieldTypeSelect, Required: true},
			{Name: "toAccountType", Label: "To account type", Type: model.FieldTypeSelect, Required: true},
			{Name: "toAccountId", Label: "To account", Type: model.FieldTypeSelect, Required: true},
			{Name: "transferAmount", Label: "Amount", Type: model.FieldTypeNumber, Required: true, Validations: []model.ValidationRule{positive()}},
			{Name: "transferDate", Label: "Transfer date", Type: model.FieldTypeDate, Required: true},
			{Name: "transferDescription", Label: "Description", Type: model.FieldTypeText, Required: true, Validations: []model.ValidationRule{model.MaxLength("200")}},
		},
		validate: func(values Values, _ Mode, errs FieldErrors) {
			from, to := values.Get("fromAccountId"), values.Get("toAccountId")
			if from == "" || to == "" {
				return
			}
			if from == to && values.Get("fromAccountType") == values.Get("toAccountType") {
				errs.Add("toAccountId", "Destination account must differ from the source account")
			}
		},
		payload: func(values Values, _ Mode) map[string]any {
			return newPayload(values).
				int("fromOfficeId", "fromClientId", "fromAccountType", "fromAccountId",
					"toOfficeId", "toClientId", "toAccountType", "toAccountId").
				float("transferAmount").
				str("transferDescription").
				date("transferDate").
				locale().
				build()
		},
	}
}
