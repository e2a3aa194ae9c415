package pages

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/options"
)

// Row is one normalized collection entry.
type Row struct {
	ID     string
	Cells  map[string]string
	Record forms.Record
}

// Cell returns the display value of column key.
func (r Row) Cell(key string) string {
	return r.Cells[key]
}

func normalizeRows(records []forms.Record, columns []Column, opts map[string][]options.Option) []Row {
	rows := make([]Row, 0, len(records))
	for _, record := range records {
		row := Row{
			ID:     options.Stringify(record["id"]),
			Cells:  make(map[string]string, len(columns)),
			Record: record,
		}
		for _, column := range columns {
			row.Cells[column.Key] = cellValue(record, column, opts)
		}
		rows = append(rows, row)
	}
	return rows
}

func cellValue(record forms.Record, column Column, opts map[string][]options.Option) string {
	for _, path := range column.Paths {
		raw, ok := options.Lookup(record, path)
		if !ok || raw == nil {
			continue
		}
		if value := display(raw); value != "" {
			if column.Options != "" {
				if list := opts[column.Options]; len(list) > 0 {
					return options.Label(list, value)
				}
			}
			return value
		}
	}
	return ""
}

func display(raw any) string {
	switch typed := raw.(type) {
	case []any:
		if date := forms.NormalizeDate(typed); date != "" {
			return date
		}
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			if value := display(item); value != "" {
				parts = append(parts, value)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, key := range []string{"value", "name", "displayName", "officeName", "code", "id"} {
			if value := options.Stringify(typed[key]); value != "" {
				return value
			}
		}
		return ""
	case bool:
		if typed {
			return "Yes"
		}
		return "No"
	default:
		return options.Stringify(typed)
	}
}

// filterRows keeps rows where any cell contains query under Unicode case
// folding.
func filterRows(rows []Row, columns []Column, query string) []Row {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]Row(nil), rows...)
	}
	folder := cases.Fold()
	needle := folder.String(query)
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, column := range columns {
			if strings.Contains(folder.String(row.Cells[column.Key]), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
