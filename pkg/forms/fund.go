package forms

import "github.com/goliatone/go-mfadmin/pkg/model"

// Fund is the loan fund editor. The backend offers no template and no delete.
func Fund() *Definition {
	return &Definition{
		Resource:   "funds",
		Title:      "Fund",
		Collection: "/funds",
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeString, Required: true, Validations: []model.ValidationRule{model.MaxLength("100")}},
			{Name: "externalId", Label: "External id", Type: model.FieldTypeString, Validations: []model.ValidationRule{model.MaxLength("100")}},
		},
		CanUpdate: true,
		hydrate: func(record Record) Values {
			return Values{
				"name":       pick(record, "name"),
				"externalId": pick(record, "externalId"),
			}
		},
		payload: func(values Values, _ Mode) map[string]any {
			return newPayload(values).str("name", "externalId").build()
		},
	}
}
