package lookup

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/goliatone/go-mfadmin/pkg/options"
)

// Search filters opts by case-folded substring match on the label. Prefix
// matches sort first; otherwise the source order is kept.
func Search(opts []options.Option, query string, limit int, cfg Options) []options.Option {
	limit = clampLimit(limit, cfg)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if cfg.EmptySearchMode == EmptySearchTop {
			if len(opts) <= limit {
				return append([]options.Option{}, opts...)
			}
			return append([]options.Option{}, opts[:limit]...)
		}
		return nil
	}

	folder := cases.Fold()
	q := folder.String(query)
	matches := make([]matchedOption, 0, 16)
	for _, opt := range opts {
		name := folder.String(opt.Name)
		if !strings.Contains(name, q) {
			continue
		}
		matches = append(matches, matchedOption{
			option:   opt,
			isPrefix: strings.HasPrefix(name, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].isPrefix && !matches[j].isPrefix
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]options.Option, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.option)
	}
	return out
}

// Result is the wire shape of one match.
type Result struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func toResults(opts []options.Option) []Result {
	out := make([]Result, 0, len(opts))
	for _, opt := range opts {
		out = append(out, Result{Value: opt.ID, Label: opt.Name})
	}
	return out
}

type matchedOption struct {
	option   options.Option
	isPrefix bool
}
