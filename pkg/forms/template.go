package forms

import (
	"context"
	"errors"

	"github.com/goliatone/go-mfadmin/pkg/options"
)

// FetchTemplate loads the definition template plus any extra option endpoints
// and normalizes every option source. Each endpoint is fetched once. Failed
// endpoints leave their sources empty; the joined errors are returned with the
// partial template.
func FetchTemplate(ctx context.Context, def *Definition, api Requester, scope Scope) (Template, error) {
	tpl := Template{Options: map[string][]options.Option{}}
	if def == nil || api == nil {
		return tpl, errors.New("forms: definition and requester are required")
	}

	payloads := map[string]any{}
	failed := map[string]bool{}
	var errs []error

	fetch := func(path string) (any, bool) {
		if payload, ok := payloads[path]; ok {
			return payload, true
		}
		if failed[path] {
			return nil, false
		}
		var payload any
		if err := api.Get(ctx, path, &payload); err != nil {
			failed[path] = true
			errs = append(errs, err)
			return nil, false
		}
		payloads[path] = payload
		return payload, true
	}

	templatePath, err := def.TemplatePath(scope)
	if err != nil {
		return tpl, err
	}
	if templatePath != "" {
		tpl.Raw, _ = fetch(templatePath)
	}

	for _, source := range def.Sources {
		payload := tpl.Raw
		if source.Endpoint != "" {
			var ok bool
			if payload, ok = fetch(source.Endpoint); !ok {
				continue
			}
		}
		if payload == nil {
			continue
		}
		keys := options.DefaultKeys()
		if source.Keys != nil {
			keys = *source.Keys
		}
		paths := source.Results
		if len(paths) == 0 {
			paths = []string{""}
		}
		var items []any
		for _, path := range paths {
			items = append(items, options.Extract(payload, path)...)
		}
		if normalized := dedupe(append(tpl.Options[source.Field], options.NormalizeWith(items, keys)...)); len(normalized) > 0 {
			tpl.Options[source.Field] = normalized
		}
	}
	return tpl, errors.Join(errs...)
}
