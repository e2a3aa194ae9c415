package pages

import (
	"sort"
	"strings"

	"github.com/goliatone/go-mfadmin/pkg/forms"
)

// Column is one display column. Paths are probed in order; the first value
// present wins. When Options names a form field, ids are shown through that
// field's option labels.
type Column struct {
	Key     string
	Label   string
	Paths   []string
	Options string
}

// Resource pairs a form definition with its list columns.
type Resource struct {
	Definition *forms.Definition
	Columns    []Column
	// Scope lists the scope keys the page requires (for example loanId).
	Scope []string
}

// Name returns the resource identifier used in routes.
func (r Resource) Name() string {
	if r.Definition == nil {
		return ""
	}
	return r.Definition.Resource
}

var catalogue = map[string]func() Resource{
	"clients": func() Resource {
		return Resource{Definition: forms.Client(), Columns: []Column{
			{Key: "displayName", Label: "Name", Paths: []string{"displayName", "fullname", "firstname"}},
			{Key: "accountNo", Label: "Account", Paths: []string{"accountNo"}},
			{Key: "office", Label: "Office", Paths: []string{"officeName", "office.name"}},
			{Key: "status", Label: "Status", Paths: []string{"status.value", "status"}},
			{Key: "mobileNo", Label: "Mobile", Paths: []string{"mobileNo"}},
		}}
	},
	"funds": func() Resource {
		return Resource{Definition: forms.Fund(), Columns: []Column{
			{Key: "name", Label: "Name", Paths: []string{"name"}},
			{Key: "externalId", Label: "External id", Paths: []string{"externalId"}},
		}}
	},
	"holidays": func() Resource {
		return Resource{Definition: forms.Holiday(), Columns: []Column{
			{Key: "name", Label: "Name", Paths: []string{"name"}},
			{Key: "fromDate", Label: "From", Paths: []string{"fromDate"}},
			{Key: "toDate", Label: "To", Paths: []string{"toDate"}},
			{Key: "status", Label: "Status", Paths: []string{"status.value", "status"}},
			{Key: "reschedulingType", Label: "Rescheduling", Paths: []string{"reschedulingType"}, Options: "reschedulingType"},
		}}
	},
	"delinquency-ranges": func() Resource {
		return Resource{Definition: forms.DelinquencyRange(), Columns: []Column{
			{Key: "classification", Label: "Classification", Paths: []string{"classification"}},
			{Key: "minimumAgeDays", Label: "Min days", Paths: []string{"minimumAgeDays", "minDays"}},
			{Key: "maximumAgeDays", Label: "Max days", Paths: []string{"maximumAgeDays", "maxDays"}},
		}}
	},
	"tax-components": func() Resource {
		return Resource{Definition: forms.TaxComponent(), Columns: []Column{
			{Key: "name", Label: "Name", Paths: []string{"name"}},
			{Key: "percentage", Label: "Percentage", Paths: []string{"percentage"}},
			{Key: "creditAccount", Label: "Credit account", Paths: []string{"creditAccount.name", "creditAcountId"}, Options: "creditAcountId"},
			{Key: "startDate", Label: "Start", Paths: []string{"startDate"}},
		}}
	},
	"collaterals": func() Resource {
		return Resource{Definition: forms.LoanCollateral(), Scope: []string{"loanId"}, Columns: []Column{
			{Key: "type", Label: "Type", Paths: []string{"type.name", "collateralTypeId"}, Options: "collateralTypeId"},
			{Key: "value", Label: "Value", Paths: []string{"value"}},
			{Key: "description", Label: "Description", Paths: []string{"description"}},
		}}
	},
	"transfers": func() Resource {
		return Resource{Definition: forms.Transfer(), Columns: []Column{
			{Key: "transferDate", Label: "Date", Paths: []string{"transferDate"}},
			{Key: "amount", Label: "Amount", Paths: []string{"transferAmount"}},
			{Key: "from", Label: "From", Paths: []string{"fromClient.displayName", "fromAccount.accountNo"}},
			{Key: "to", Label: "To", Paths: []string{"toClient.displayName", "toAccount.accountNo"}},
			{Key: "description", Label: "Description", Paths: []string{"transferDescription"}},
		}}
	},
	"datatable-checks": func() Resource {
		return Resource{Definition: forms.EntityDatatableCheck(), Columns: []Column{
			{Key: "entity", Label: "Entity", Paths: []string{"entity"}},
			{Key: "datatableName", Label: "Datatable", Paths: []string{"datatableName"}},
			{Key: "status", Label: "Status", Paths: []string{"status.value", "status"}},
			{Key: "product", Label: "Product", Paths: []string{"productName", "productId"}},
		}}
	},
}

// Resources returns every list page resource ordered by name.
func Resources() []Resource {
	names := make([]string, 0, len(catalogue))
	for name := range catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Resource, 0, len(names))
	for _, name := range names {
		out = append(out, catalogue[name]())
	}
	return out
}

// Lookup returns the resource registered under name.
func Lookup(name string) (Resource, bool) {
	ctor, ok := catalogue[strings.TrimSpace(name)]
	if !ok {
		return Resource{}, false
	}
	return ctor(), true
}
