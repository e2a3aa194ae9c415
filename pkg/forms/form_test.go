package forms

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/options"
)

func newNotifier() *notify.Notifier {
	return notify.New(notify.WithClock(notify.NewManualClock(time.Unix(0, 0))))
}

func openForm(t *testing.T, def *Definition, api *stubRequester, opts ...Option) (*Form, *notify.Notifier) {
	t.Helper()
	n := newNotifier()
	form, err := New(def, api, append([]Option{WithNotifier(n)}, opts...)...)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	if err := form.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	return form, n
}

func TestDelinquency_MaxBelowMinFailsWithoutNetwork(t *testing.T) {
	api := newStub()
	form, _ := openForm(t, DelinquencyRange(), api)

	_, err := form.Submit(context.Background(), Values{
		"classification": "Late",
		"minDays":        "10",
		"maxDays":        "5",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !verr.Fields.Has("maximumAgeDays") {
		t.Fatalf("expected maximumAgeDays error, got %#v", verr.Fields)
	}
	if calls := api.Calls(); len(calls) != 0 {
		t.Fatalf("expected no network calls, got %#v", calls)
	}
	if form.State() != StateReady {
		t.Fatalf("expected ready state, got %s", form.State())
	}
}

func TestDelinquency_ZeroZeroPassesAndEmitsCompatKeys(t *testing.T) {
	api := newStub()
	form, n := openForm(t, DelinquencyRange(), api)

	result, err := form.Submit(context.Background(), Values{
		"classification": "Current",
		"minimumAgeDays": "0",
		"maximumAgeDays": "0",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	want := []call{{
		Method: "POST",
		Path:   "/delinquency/ranges",
		Body: map[string]any{
			"classification": "Current",
			"minimumAgeDays": float64(0),
			"maximumAgeDays": float64(0),
			"minDays":        float64(0),
			"maxDays":        float64(0),
			"locale":         "en",
		},
	}}
	if diff := cmp.Diff(want, api.mutations()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if result.ID != "1" || result.Mode != ModeCreate {
		t.Fatalf("unexpected result: %#v", result)
	}
	visible := n.Visible()
	if len(visible) != 1 || visible[0].Kind != notify.KindSuccess {
		t.Fatalf("expected one success toast, got %#v", visible)
	}
}

func TestDelinquency_CompatKeysCanBeDisabled(t *testing.T) {
	api := newStub()
	form, _ := openForm(t, DelinquencyRange(), api, WithCompatKeys(false))

	if _, err := form.Submit(context.Background(), Values{"classification": "A", "minimumAgeDays": "1"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	body := api.mutations()[0].Body
	if _, ok := body["minDays"]; ok {
		t.Fatalf("compat key emitted: %#v", body)
	}
}

func TestClient_MissingOfficeFailsWithoutNetwork(t *testing.T) {
	api := newStub()
	api.responses["GET /clients/template"] = `{"officeOptions":[{"id":1,"name":"Head Office"}]}`
	form, _ := openForm(t, Client(), api)

	_, err := form.Submit(context.Background(), Values{"firstname": "Ada", "lastname": "Lovelace"})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Fields.Has("officeId") {
		t.Fatalf("expected officeId error, got %v", err)
	}
	if len(api.mutations()) != 0 {
		t.Fatalf("unexpected mutation: %#v", api.mutations())
	}
}

func TestClient_EntityRequiresFullname(t *testing.T) {
	api := newStub()
	api.responses["GET /clients/template"] = `{}`
	form, _ := openForm(t, Client(), api)

	_, err := form.Submit(context.Background(), Values{"officeId": "1", "legalFormId": "2"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !verr.Fields.Has("fullname") || verr.Fields.Has("firstname") {
		t.Fatalf("unexpected fields: %#v", verr.Fields)
	}
}

func TestClient_UpdateHydratesNestedRefsAndPuts(t *testing.T) {
	api := newStub()
	api.responses["GET /clients/template"] = `{"staffOptions":[{"id":7,"displayName":"Grace"}]}`
	entity := Record{
		"id":          float64(42),
		"officeId":    float64(1),
		"firstname":   "Ada",
		"lastname":    "Lovelace",
		"staffId":     float64(7),
		"dateOfBirth": []any{float64(1990), float64(12), float64(10)},
		"legalForm":   map[string]any{"id": float64(1), "value": "Person"},
	}
	form, _ := openForm(t, Client(), api, WithEntity(entity))

	values := form.Values()
	if values.Get("dateOfBirth") != "1990-12-10" || values.Get("legalFormId") != "1" {
		t.Fatalf("unexpected hydration: %#v", values)
	}
	if _, ok := form.Model().Field("officeId"); ok {
		t.Fatalf("create-only field shown on update")
	}

	values.Set("lastname", "King")
	result, err := form.Submit(context.Background(), values)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	got := api.mutations()
	if len(got) != 1 || got[0].Method != "PUT" || got[0].Path != "/clients/42" {
		t.Fatalf("unexpected mutation: %#v", got)
	}
	if _, ok := got[0].Body["officeId"]; ok {
		t.Fatalf("create-only key sent on update: %#v", got[0].Body)
	}
	if got[0].Body["dateOfBirth"] != "10 December 1990" || got[0].Body["dateFormat"] != DateFormat {
		t.Fatalf("unexpected date encoding: %#v", got[0].Body)
	}
	if result.ID != "1" {
		t.Fatalf("unexpected id: %q", result.ID)
	}
}

func TestOpen_TemplateFailureDegradesWithToast(t *testing.T) {
	api := newStub()
	api.failures["GET /clients/template"] = &apiclient.Error{Status: http.StatusInternalServerError}
	form, n := openForm(t, Client(), api)

	if form.State() != StateReady {
		t.Fatalf("expected ready, got %s", form.State())
	}
	field, _ := form.Model().Field("officeId")
	if len(field.Options) != 0 {
		t.Fatalf("expected empty options, got %#v", field.Options)
	}
	visible := n.Visible()
	if len(visible) != 1 || visible[0].Kind != notify.KindError || visible[0].Message != "Could not load client options" {
		t.Fatalf("unexpected toasts: %#v", visible)
	}
}

func TestSubmit_BackendErrorToastsVerbatimMessage(t *testing.T) {
	api := newStub()
	api.failures["POST /funds"] = &apiclient.Error{
		Status:  http.StatusForbidden,
		Message: "Fund with name `Main` already exists",
		Errors:  []apiclient.FieldError{{Parameter: "name", Message: "duplicate"}},
	}
	form, n := openForm(t, Fund(), api)

	values := Values{"name": "Main"}
	if _, err := form.Submit(context.Background(), values); err == nil {
		t.Fatalf("expected error")
	}
	visible := n.Visible()
	if len(visible) != 1 || visible[0].Message != "Fund with name `Main` already exists" {
		t.Fatalf("unexpected toasts: %#v", visible)
	}
	if form.State() != StateReady || form.Values().Get("name") != "Main" {
		t.Fatalf("form lost state: %s %#v", form.State(), form.Values())
	}
	if !form.Errors().Has("name") {
		t.Fatalf("expected backend field error on name")
	}
}

func TestSubmit_RejectsWhileSubmitting(t *testing.T) {
	api := newStub()
	form, _ := openForm(t, Fund(), api)
	api.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(context.Background(), Values{"name": "A"})
		done <- err
	}()
	for form.State() != StateSubmitting {
		time.Sleep(time.Millisecond)
	}
	if _, err := form.Submit(context.Background(), Values{"name": "B"}); !errors.Is(err, ErrSubmitInProgress) {
		t.Fatalf("expected ErrSubmitInProgress, got %v", err)
	}
	close(api.block)
	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if len(api.mutations()) != 1 {
		t.Fatalf("expected one mutation, got %#v", api.mutations())
	}
}

func TestSubmit_BeforeOpen(t *testing.T) {
	form, err := New(Fund(), newStub(), WithNotifier(newNotifier()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := form.Submit(context.Background(), Values{"name": "A"}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestOpen_ClosedFormDropsResult(t *testing.T) {
	api := newStub()
	api.responses["GET /clients/template"] = `{"officeOptions":[{"id":1,"name":"Head Office"}]}`
	api.block = make(chan struct{})
	form, err := New(Client(), api, WithNotifier(newNotifier()))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- form.Open(context.Background()) }()
	for len(api.Calls()) == 0 {
		time.Sleep(time.Millisecond)
	}
	form.Close()
	close(api.block)

	if err := <-done; !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	field, _ := form.Model().Field("officeId")
	if len(field.Options) != 0 {
		t.Fatalf("closed form applied template: %#v", field.Options)
	}
}

func TestOnSubmittedCallback(t *testing.T) {
	api := newStub()
	var got []Result
	form, _ := openForm(t, Fund(), api, OnSubmitted(func(r Result) { got = append(got, r) }))

	if _, err := form.Submit(context.Background(), Values{"name": "Seed"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(got) != 1 || got[0].Payload["name"] != "Seed" {
		t.Fatalf("unexpected callback results: %#v", got)
	}
}

func TestNew_RejectsUpdateForCreateOnlyResources(t *testing.T) {
	if _, err := New(Transfer(), newStub(), WithEntity(Record{"id": "1"})); !errors.Is(err, ErrUpdateUnsupported) {
		t.Fatalf("expected ErrUpdateUnsupported, got %v", err)
	}
}

func TestHoliday_RulesAndOfficesPayload(t *testing.T) {
	api := newStub()
	api.responses["GET /holidays/template"] = `[{"id":1,"code":"holidayRepaymentSchedulingType.next.repayment.date","value":"Next repayment date"},{"id":2,"code":"holidayRepaymentSchedulingType.reschedule.date","value":"Specific date"}]`
	api.responses["GET /offices"] = `[{"id":1,"name":"Head Office"},{"id":2,"name":"Branch"}]`
	form, _ := openForm(t, Holiday(), api)

	field, _ := form.Model().Field("reschedulingType")
	if diff := cmp.Diff([]options.Option{{ID: "1", Name: "Next repayment date"}, {ID: "2", Name: "Specific date"}}, field.Options); diff != "" {
		t.Fatalf("rescheduling options mismatch (-want +got):\n%s", diff)
	}

	_, err := form.Submit(context.Background(), Values{
		"name": "Founders", "fromDate": "2024-05-02", "toDate": "2024-05-01",
		"reschedulingType": "2", "offices": "1",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Fields.Has("toDate") || !verr.Fields.Has("repaymentsRescheduledTo") {
		t.Fatalf("unexpected validation result: %v", err)
	}

	_, err = form.Submit(context.Background(), Values{
		"name": "Founders", "fromDate": "2024-05-01", "toDate": "2024-05-01",
		"reschedulingType": "1", "offices": "1,2",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	body := api.mutations()[0].Body
	wantOffices := []any{map[string]any{"officeId": float64(1)}, map[string]any{"officeId": float64(2)}}
	if diff := cmp.Diff(wantOffices, body["offices"]); diff != "" {
		t.Fatalf("offices mismatch (-want +got):\n%s", diff)
	}
	if body["fromDate"] != "01 May 2024" {
		t.Fatalf("unexpected fromDate: %#v", body["fromDate"])
	}
}

func TestTaxComponent_EmitsBackendSpelling(t *testing.T) {
	api := newStub()
	api.responses["GET /taxes/component/template"] = `{
		"glAccountTypeOptions":[{"id":2,"code":"accountType.liability","value":"LIABILITY"}],
		"glAccountOptions":{
			"liabilityAccountOptions":[{"id":11,"name":"VAT payable"}],
			"assetAccountOptions":[{"id":12,"name":"Cash"}]
		}
	}`
	form, _ := openForm(t, TaxComponent(), api)

	field, _ := form.Model().Field("creditAcountId")
	if len(field.Options) != 2 {
		t.Fatalf("expected concatenated account options, got %#v", field.Options)
	}
	_, err := form.Submit(context.Background(), Values{
		"name": "VAT", "percentage": "101", "startDate": "2024-01-01",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Fields.Has("percentage") {
		t.Fatalf("expected percentage error, got %v", err)
	}
	if _, err := form.Submit(context.Background(), Values{
		"name": "VAT", "percentage": "16", "startDate": "2024-01-01",
		"creditAccountType": "2", "creditAccountId": "11",
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	body := api.mutations()[0].Body
	if body["creditAcountId"] != float64(11) {
		t.Fatalf("expected creditAcountId, got %#v", body)
	}
	if _, ok := body["creditAccountId"]; ok {
		t.Fatalf("corrected spelling must not be emitted: %#v", body)
	}
}

func TestCollateral_RequiresScopeAndPositiveValue(t *testing.T) {
	api := newStub()
	api.responses["GET /loans/9/collaterals/template"] = `{"allowedCollateralTypes":[{"id":3,"name":"Vehicle"}]}`
	form, _ := openForm(t, LoanCollateral(), api, WithScope(Scope{"loanId": "9"}))

	_, err := form.Submit(context.Background(), Values{"collateralTypeId": "3", "value": "0"})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Fields.Has("value") {
		t.Fatalf("expected value error, got %v", err)
	}
	_, err = form.Submit(context.Background(), Values{"collateralTypeId": "4", "value": "10"})
	if !errors.As(err, &verr) || !verr.Fields.Has("collateralTypeId") {
		t.Fatalf("expected unknown selection error, got %v", err)
	}
	if _, err := form.Submit(context.Background(), Values{"collateralTypeId": "3", "value": "10"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := api.mutations()[0].Path; got != "/loans/9/collaterals" {
		t.Fatalf("unexpected path %q", got)
	}

	if _, err := LoanCollateral().CollectionPath(nil); !errors.Is(err, ErrMissingScope) {
		t.Fatalf("expected ErrMissingScope, got %v", err)
	}
}

func TestTransfer_SameAccountRejected(t *testing.T) {
	api := newStub()
	api.responses["GET /accounttransfers/template?fromClientId=5"] = `{}`
	form, _ := openForm(t, Transfer(), api, WithScope(Scope{"fromClientId": "5"}))

	values := Values{
		"fromOfficeId": "1", "fromClientId": "5", "fromAccountType": "2", "fromAccountId": "8",
		"toOfficeId": "1", "toClientId": "6", "toAccountType": "2", "toAccountId": "8",
		"transferAmount": "-1", "transferDate": "2024-01-01", "transferDescription": "rent",
	}
	_, err := form.Submit(context.Background(), values)
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Fields.Has("toAccountId") || !verr.Fields.Has("transferAmount") {
		t.Fatalf("unexpected validation result: %v", err)
	}
}

func TestDatatableCheck_StatusDedupedAndProductRestricted(t *testing.T) {
	api := newStub()
	api.responses["GET /entityDatatableChecks/template"] = `{
		"entities":["m_client","m_loan"],
		"statusClient":[{"code":100,"value":"Create"}],
		"statusLoans":[{"code":100,"value":"Create"},{"code":200,"value":"Approve"}],
		"datatables":[{"dataTableName":"extra_info","entitySubType":""}],
		"loanProductDatas":[{"id":1,"name":"Micro"}]
	}`
	form, _ := openForm(t, EntityDatatableCheck(), api)

	model := form.Model()
	status, _ := model.Field("status")
	if diff := cmp.Diff([]options.Option{{ID: "100", Name: "Create"}, {ID: "200", Name: "Approve"}}, status.Options); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
	tables, _ := model.Field("datatableName")
	if diff := cmp.Diff([]options.Option{{ID: "extra_info", Name: "extra_info"}}, tables.Options); diff != "" {
		t.Fatalf("datatables mismatch (-want +got):\n%s", diff)
	}

	_, err := form.Submit(context.Background(), Values{
		"entity": "m_client", "status": "100", "datatableName": "extra_info", "productId": "1",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || !verr.Fields.Has("productId") {
		t.Fatalf("expected productId error, got %v", err)
	}
}

func TestAll_ReturnsEveryDefinition(t *testing.T) {
	var got []string
	for _, def := range All() {
		got = append(got, def.Resource)
	}
	want := []string{"clients", "collaterals", "datatable-checks", "delinquency-ranges", "funds", "holidays", "tax-components", "transfers"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("resources mismatch (-want +got):\n%s", diff)
	}
	if _, ok := Lookup("unknown"); ok {
		t.Fatalf("unexpected lookup hit")
	}
}
