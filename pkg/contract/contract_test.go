package contract

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mfadmin/pkg/forms"
)

func newContract(t *testing.T) *Contract {
	t.Helper()
	c, err := New(forms.All()...)
	if err != nil {
		t.Fatalf("new contract: %v", err)
	}
	return c
}

func TestNew_DocumentsEveryResource(t *testing.T) {
	c := newContract(t)

	want := []string{
		"clients", "collaterals", "datatable-checks", "delinquency-ranges",
		"funds", "holidays", "tax-components", "transfers",
	}
	if diff := cmp.Diff(want, c.Resources()); diff != "" {
		t.Fatalf("resources mismatch (-want +got):\n%s", diff)
	}

	doc := c.Document()
	collateral := doc.Paths.Value("/loans/{loanId}/collaterals/{id}")
	if collateral == nil || collateral.Put == nil || collateral.Delete == nil {
		t.Fatalf("expected collateral item operations, got %#v", collateral)
	}
	if got := len(collateral.Put.Parameters); got != 2 {
		t.Fatalf("expected loanId and id parameters, got %d", got)
	}
	if transfer := doc.Paths.Value("/accounttransfers/{id}"); transfer != nil {
		t.Fatalf("transfers are create only, got %#v", transfer)
	}
	if _, ok := c.Schema("transfers", forms.ModeUpdate); ok {
		t.Fatalf("unexpected update schema for transfers")
	}

	raw, err := c.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(raw), `"operationId":"createDelinquencyRanges"`) {
		t.Fatalf("expected operation id in document: %s", raw)
	}
}

func TestValidate_AcceptsFormPayloads(t *testing.T) {
	c := newContract(t)

	def := forms.DelinquencyRange()
	values := forms.Values{"classification": "30+", "minimumAgeDays": "0", "maximumAgeDays": "0"}
	payload := def.Payload(values, forms.ModeCreate, true)
	if err := c.Validate(def.Resource, forms.ModeCreate, payload); err != nil {
		t.Fatalf("validate delinquency: %v", err)
	}

	holiday := forms.Holiday()
	payload = holiday.Payload(forms.Values{
		"name":             "New year",
		"fromDate":         "2025-01-01",
		"toDate":           "2025-01-02",
		"reschedulingType": "1",
		"offices":          "1,2",
	}, forms.ModeCreate, true)
	if err := c.Validate(holiday.Resource, forms.ModeCreate, payload); err != nil {
		t.Fatalf("validate holiday: %v", err)
	}
}

func TestValidate_ReportsViolations(t *testing.T) {
	c := newContract(t)

	err := c.Validate("tax-components", forms.ModeCreate, map[string]any{
		"name":       "VAT",
		"percentage": 120,
	})
	if !errors.Is(err, ErrPayload) {
		t.Fatalf("expected ErrPayload, got %v", err)
	}
	violations := Violations(err)
	if len(violations["percentage"]) == 0 {
		t.Fatalf("expected percentage violation, got %#v", violations)
	}
	if len(violations["startDate"]) == 0 {
		t.Fatalf("expected missing startDate, got %#v", violations)
	}

	// startDate is create only.
	if err := c.Validate("tax-components", forms.ModeUpdate, map[string]any{
		"name":       "VAT",
		"percentage": 15,
	}); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}
}

func TestValidate_UnknownResource(t *testing.T) {
	c := newContract(t)
	if err := c.Validate("loans", forms.ModeCreate, nil); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestNew_RejectsDuplicates(t *testing.T) {
	if _, err := New(forms.Fund(), forms.Fund()); err == nil {
		t.Fatalf("expected duplicate error")
	}
}
