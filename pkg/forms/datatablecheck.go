package forms

import (
	"github.com/goliatone/go-mfadmin/pkg/model"
	"github.com/goliatone/go-mfadmin/pkg/options"
)

var productEntities = map[string]bool{
	"m_loan":            true,
	"m_savings_account": true,
}

// EntityDatatableCheck makes a datatable mandatory for an entity status
// transition. Checks cannot be edited, only created and deleted.
func EntityDatatableCheck() *Definition {
	return &Definition{
		Resource:   "datatable-checks",
		Title:      "Datatable check",
		Collection: "/entityDatatableChecks",
		Template:   "/entityDatatableChecks/template",
		Sources: []OptionSource{
			{Field: "entity", Results: []string{"entities"}},
			{Field: "status", Results: []string{
				"statusClient", "statusGroup", "statusLoans", "statusSavings", "statusCenter",
			}, Keys: &options.Keys{
				ID:       []string{"code", "id"},
				Name:     []string{"value", "name", "code"},
				Fallback: []string{"id"},
			}},
			{Field: "datatableName", Results: []string{"datatables"}, Keys: &options.Keys{
				ID:   []string{"dataTableName", "registeredTableName"},
				Name: []string{"dataTableName", "registeredTableName"},
			}},
			{Field: "productId", Results: []string{"loanProductDatas", "savingsProductDatas"}},
		},
		Fields: []model.Field{
			{Name: "entity", Type: model.FieldTypeSelect, Required: true},
			{Name: "status", Type: model.FieldTypeSelect, Required: true},
			{Name: "datatableName", Label: "Datatable", Type: model.FieldTypeSelect, Required: true},
			{Name: "productId", Label: "Product", Type: model.FieldTypeSelect, Description: "Loan and savings entities only"},
		},
		CanDelete: true,
		validate: func(values Values, _ Mode, errs FieldErrors) {
			if values.Get("productId") != "" && !productEntities[values.Get("entity")] {
				errs.Add("productId", "Product applies only to loan and savings entities")
			}
		},
		payload: func(values Values, _ Mode) map[string]any {
			return newPayload(values).
				str("entity", "datatableName").
				int("status", "productId").
				build()
		},
	}
}
