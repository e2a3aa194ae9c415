package mockbackend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/forms"
)

func newServer(t *testing.T, opts ...Option) (*Backend, *apiclient.Client) {
	t.Helper()
	backend, err := New(append([]Option{WithTenant("default")}, opts...)...)
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL+backend.BasePath(), apiclient.WithTenant("default"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return backend, client
}

func TestCreateThenList(t *testing.T) {
	_, client := newServer(t)
	ctx := context.Background()

	def := forms.DelinquencyRange()
	payload := def.Payload(forms.Values{"classification": "30+", "minimumAgeDays": "31"}, forms.ModeCreate, true)

	var created map[string]any
	if err := client.Post(ctx, "/delinquency/ranges", payload, &created); err != nil {
		t.Fatalf("create: %v", err)
	}
	if created["resourceId"] != float64(1) {
		t.Fatalf("unexpected resource id: %#v", created)
	}

	rows, err := client.List(ctx, "/delinquency/ranges")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []apiclient.Record{{
		"id":             float64(1),
		"classification": "30+",
		"minimumAgeDays": float64(31),
		"minDays":        float64(31),
	}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCreate_StoresDatesAsArrays(t *testing.T) {
	backend, client := newServer(t)
	def := forms.Holiday()
	payload := def.Payload(forms.Values{
		"name":             "Independence day",
		"fromDate":         "2025-07-06",
		"toDate":           "2025-07-07",
		"reschedulingType": "1",
		"offices":          "1",
	}, forms.ModeCreate, true)

	if err := client.Post(context.Background(), "/holidays", payload, nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	stored := backend.Records("/holidays")
	if len(stored) != 1 {
		t.Fatalf("expected one holiday, got %d", len(stored))
	}
	if diff := cmp.Diff([]int{2025, 7, 6}, stored[0]["fromDate"]); diff != "" {
		t.Fatalf("fromDate mismatch (-want +got):\n%s", diff)
	}
	if _, ok := stored[0]["dateFormat"]; ok {
		t.Fatalf("request-only keys should not be stored: %#v", stored[0])
	}
	if status, _ := stored[0]["status"].(map[string]any); status["value"] != "Pending for activation" {
		t.Fatalf("expected pending status, got %#v", stored[0]["status"])
	}
}

func TestCreate_RejectsContractViolations(t *testing.T) {
	_, client := newServer(t)
	err := client.Post(context.Background(), "/taxes/component", map[string]any{
		"name":       "VAT",
		"percentage": 140,
	}, nil)

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *apiclient.Error, got %T %v", err, err)
	}
	if apiErr.StatusCode() != http.StatusBadRequest {
		t.Fatalf("unexpected status %d", apiErr.StatusCode())
	}
	fields := apiErr.FieldMessages()
	if len(fields["percentage"]) == 0 || len(fields["startDate"]) == 0 {
		t.Fatalf("expected percentage and startDate messages, got %#v", fields)
	}
}

func TestCreate_RejectsDuplicateNames(t *testing.T) {
	_, client := newServer(t)
	ctx := context.Background()
	body := map[string]any{"name": "Donor fund"}
	if err := client.Post(ctx, "/funds", body, nil); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := client.Post(ctx, "/funds", map[string]any{"name": "donor FUND"}, nil)
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode() != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	if got := apiclient.UserMessage(err, "fallback"); got != "Fund with name `donor FUND` already exists" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	backend, client := newServer(t)
	ctx := context.Background()
	id := backend.Insert("/loans/7/collaterals", Record{"collateralTypeId": 51, "value": 100.0})

	path := "/loans/7/collaterals/" + itoa(id)
	if err := client.Put(ctx, path, map[string]any{"collateralTypeId": 52, "value": 250.5, "locale": "en"}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	record, err := client.Object(ctx, path)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record["value"] != 250.5 {
		t.Fatalf("expected updated value, got %#v", record)
	}
	if kind, _ := record["type"].(map[string]any); kind["name"] != "Land title" {
		t.Fatalf("expected collateral type decoration, got %#v", record["type"])
	}
	if rows := backend.Records("/loans/8/collaterals"); len(rows) != 0 {
		t.Fatalf("scope leak: %#v", rows)
	}

	if err := client.Delete(ctx, path, nil); err != nil {
		t.Fatalf("delete: %v", err)
	}
	err = client.Delete(ctx, path, nil)
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode() != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %v", err)
	}
}

func TestUnsupportedMethods(t *testing.T) {
	backend, client := newServer(t)
	id := backend.Insert("/funds", Record{"name": "Core"})
	err := client.Delete(context.Background(), "/funds/"+itoa(id), nil)
	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode() != http.StatusMethodNotAllowed {
		t.Fatalf("funds cannot be deleted, got %v", err)
	}
}

func TestTenantCheck(t *testing.T) {
	backend, err := New(WithTenant("default"))
	if err != nil {
		t.Fatalf("new backend: %v", err)
	}
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	client, err := apiclient.New(srv.URL+DefaultBasePath, apiclient.WithTenant("other"))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	err = client.Get(context.Background(), "/funds", nil)
	if got := apiclient.UserMessage(err, ""); got != "Invalid tenant identifier" {
		t.Fatalf("unexpected message %q (%v)", got, err)
	}
}

func TestTemplatesAndEnvelope(t *testing.T) {
	_, client := newServer(t, WithSeed(3))
	ctx := context.Background()

	var page map[string]any
	if err := client.Get(ctx, "/clients", &page); err != nil {
		t.Fatalf("clients: %v", err)
	}
	if page["totalFilteredRecords"] != float64(3) {
		t.Fatalf("expected paged envelope, got %#v", page["totalFilteredRecords"])
	}
	rows, err := client.List(ctx, "/clients")
	if err != nil {
		t.Fatalf("list clients: %v", err)
	}
	for _, row := range rows {
		if row["displayName"] == "" || row["accountNo"] == nil || row["officeName"] != "Head Office" {
			t.Fatalf("client not decorated: %#v", row)
		}
	}

	tpl, err := forms.FetchTemplate(ctx, forms.TaxComponent(), client, nil)
	if err != nil {
		t.Fatalf("tax template: %v", err)
	}
	if got := len(tpl.Options["creditAcountId"]); got != 4 {
		t.Fatalf("expected 4 gl accounts, got %d", got)
	}

	var holidays []any
	if err := client.Get(ctx, "/holidays/template", &holidays); err != nil {
		t.Fatalf("holiday template: %v", err)
	}
	if len(holidays) != 2 {
		t.Fatalf("expected root array of rescheduling types, got %#v", holidays)
	}
}

func TestFailNext(t *testing.T) {
	backend, client := newServer(t)
	backend.FailNext(http.MethodGet, "/funds", http.StatusServiceUnavailable, "Maintenance")
	ctx := context.Background()

	err := client.Get(ctx, "/funds", nil)
	if got := apiclient.UserMessage(err, ""); got != "Maintenance" {
		t.Fatalf("expected injected failure, got %v", err)
	}
	if err := client.Get(ctx, "/funds", nil); err != nil {
		t.Fatalf("failure should fire once: %v", err)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
