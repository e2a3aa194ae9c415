package forms

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		name  string
		value any
		want  string
	}{
		{"array", []any{float64(2024), float64(3), float64(9)}, "2024-03-09"},
		{"leap day", []any{float64(2024), float64(2), float64(29)}, "2024-02-29"},
		{"string", "2024-03-09", "2024-03-09"},
		{"month out of range", []any{float64(2024), float64(13), float64(40)}, ""},
		{"day out of range", []any{float64(2023), float64(2), float64(29)}, ""},
		{"zero month", []any{float64(2024), float64(0), float64(1)}, ""},
		{"short array", []any{float64(2024), float64(3)}, ""},
		{"non numeric", []any{"2024", float64(3), float64(9)}, ""},
		{"unknown shape", true, ""},
	}
	for _, tc := range cases {
		if got := NormalizeDate(tc.value); got != tc.want {
			t.Fatalf("%s: NormalizeDate(%v) = %q, want %q", tc.name, tc.value, got, tc.want)
		}
	}
}
