package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/model"
	"github.com/goliatone/go-mfadmin/pkg/render"
)

func TestMapErrorPayload_BackendParameters(t *testing.T) {
	form := model.FormModel{
		Fields: []model.Field{
			{Name: "name", Type: model.FieldTypeString},
			{Name: "fromDate", Type: model.FieldTypeDate},
			{Name: "offices", Type: model.FieldTypeMultiSelect},
		},
	}

	payload := map[string][]string{
		"name":             {"Name is required"},
		"/body/fromDate":   {"From date invalid"},
		"$.offices[0]":     {"Office unknown"},
		"non_field_errors": {"Form level error"},
		"dateFormat":       {"Should fall back to form errors"},
		"":                 {"Unscoped form error", " Unscoped form error "},
	}

	mapped := render.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"name":     {"Name is required"},
		"fromDate": {"From date invalid"},
		"offices":  {"Office unknown"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorPayload_FromAPIError(t *testing.T) {
	form := model.FormModel{Fields: []model.Field{{Name: "name"}}}
	apiErr := &apiclient.Error{
		Status:  403,
		Message: "Fund already exists",
		Errors: []apiclient.FieldError{
			{Parameter: "name", Message: "Name must be unique"},
			{Message: "Duplicate fund"},
		},
	}

	mapped := render.MapErrorPayload(form, apiErr.FieldMessages())
	if diff := cmp.Diff(map[string][]string{"name": {"Name must be unique"}}, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Duplicate fund"}, mapped.Form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
