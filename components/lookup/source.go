package lookup

import (
	"context"
	"fmt"

	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/options"
)

// FormSource serves the option sources of the built-in entity forms by
// fetching their template endpoints through api.
func FormSource(api forms.Requester) Source {
	return func(ctx context.Context, resource, field string, scope map[string]string) ([]options.Option, error) {
		def, ok := forms.Lookup(resource)
		if !ok || !hasSource(def, field) {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownField, resource, field)
		}
		tpl, err := forms.FetchTemplate(ctx, def, api, forms.Scope(scope))
		list := tpl.Options[field]
		if err != nil && len(list) == 0 {
			return nil, err
		}
		return list, nil
	}
}

func hasSource(def *forms.Definition, field string) bool {
	for _, source := range def.Sources {
		if source.Field == field {
			return true
		}
	}
	return false
}
