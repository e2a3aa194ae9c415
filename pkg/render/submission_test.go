package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mfadmin/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	fields := []render.HiddenField{
		render.MethodOverride("put"),
		render.MethodOverride("POST"),
		render.Hidden("  ", "skip"),
	}
	fields = append(fields, render.ScopeFields(map[string]string{"loanId": "12", "empty": " "})...)
	merged := render.MergeHiddenFields(base, fields...)

	wantMerged := map[string]string{
		"existing": "keep",
		"_method":  "PUT",
		"loanId":   "12",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_method", Value: "PUT"},
		{Name: "existing", Value: "keep"},
		{Name: "loanId", Value: "12"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}
