package forms

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateFormat is the pattern the backend is told to parse dates with.
	DateFormat = "dd MMMM yyyy"
	// Locale accompanies every payload that carries dates or decimals.
	Locale = "en"

	inputLayout   = "2006-01-02"
	backendLayout = "02 January 2006"
)

var acceptedLayouts = []string{
	inputLayout,
	backendLayout,
	"2 January 2006",
	time.RFC3339,
}

// ParseDate accepts the input layout (2006-01-02) as well as the backend's
// textual layout.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range acceptedLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("forms: invalid date %q", raw)
}

// BackendDate formats an input date for the payload. Unparseable input is
// returned unchanged so the backend can report it.
func BackendDate(raw string) string {
	parsed, err := ParseDate(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return parsed.Format(backendLayout)
}

// NormalizeDate converts backend date shapes ([yyyy, m, d] arrays or strings)
// into the 2006-01-02 input layout. Unknown shapes and impossible dates
// yield "".
func NormalizeDate(value any) string {
	switch typed := value.(type) {
	case []any:
		if len(typed) < 3 {
			return ""
		}
		parts := make([]int, 3)
		for i := 0; i < 3; i++ {
			n, ok := typed[i].(float64)
			if !ok {
				return ""
			}
			parts[i] = int(n)
		}
		date := time.Date(parts[0], time.Month(parts[1]), parts[2], 0, 0, 0, 0, time.UTC)
		if date.Year() != parts[0] || int(date.Month()) != parts[1] || date.Day() != parts[2] {
			return ""
		}
		return date.Format(inputLayout)
	case string:
		parsed, err := ParseDate(typed)
		if err != nil {
			return ""
		}
		return parsed.Format(inputLayout)
	default:
		return ""
	}
}
