package forms

import (
	"sort"
	"strings"
)

var constructors = map[string]func() *Definition{
	"clients":            Client,
	"funds":              Fund,
	"holidays":           Holiday,
	"delinquency-ranges": DelinquencyRange,
	"tax-components":     TaxComponent,
	"collaterals":        LoanCollateral,
	"transfers":          Transfer,
	"datatable-checks":   EntityDatatableCheck,
}

// All returns a fresh copy of every built-in definition, ordered by resource.
func All() []*Definition {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*Definition, 0, len(names))
	for _, name := range names {
		out = append(out, constructors[name]())
	}
	return out
}

// Lookup returns the definition registered for resource.
func Lookup(resource string) (*Definition, bool) {
	ctor, ok := constructors[strings.TrimSpace(resource)]
	if !ok {
		return nil, false
	}
	return ctor(), true
}
