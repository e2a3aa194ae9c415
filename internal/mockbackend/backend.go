// Package mockbackend serves an in-memory imitation of the core-banking REST
// API the console talks to. It covers the collection, item and template
// endpoints of every built-in entity definition, rejects request bodies that
// break the payload contract, and can be seeded with fake data.
package mockbackend

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/contract"
	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/model"
)

// DefaultBasePath matches the path prefix of a stock backend deployment.
const DefaultBasePath = "/fineract-provider/api/v1"

// Record is one stored entity.
type Record = map[string]any

// uniqueKeys names the attribute that must be unique per collection.
var uniqueKeys = map[string]string{
	"funds":              "name",
	"delinquency-ranges": "classification",
	"tax-components":     "name",
}

type failure struct {
	status  int
	message string
}

// Backend is the in-memory API. It is safe for concurrent use.
type Backend struct {
	basePath string
	tenant   string
	logger   *log.Logger
	contract *contract.Contract
	defs     []*forms.Definition
	seed     int

	mu        sync.RWMutex
	nextID    int64
	records   map[string][]Record
	templates map[string]any
	offices   []Record
	failures  map[string]failure
}

// Option configures a Backend.
type Option func(*Backend)

// WithBasePath mounts the API under prefix. Use "" to serve from the root.
func WithBasePath(prefix string) Option {
	return func(b *Backend) {
		b.basePath = strings.TrimRight(strings.TrimSpace(prefix), "/")
	}
}

// WithTenant makes the backend reject requests whose tenant header differs.
func WithTenant(tenant string) Option {
	return func(b *Backend) {
		b.tenant = strings.TrimSpace(tenant)
	}
}

// WithLogger enables one log line per mutation.
func WithLogger(logger *log.Logger) Option {
	return func(b *Backend) {
		b.logger = logger
	}
}

// New builds an empty backend with the built-in templates and office list.
func New(opts ...Option) (*Backend, error) {
	defs := forms.All()
	c, err := contract.New(defs...)
	if err != nil {
		return nil, fmt.Errorf("mockbackend: %w", err)
	}
	b := &Backend{
		basePath:  DefaultBasePath,
		contract:  c,
		defs:      defs,
		nextID:    1,
		records:   make(map[string][]Record),
		templates: defaultTemplates(),
		offices:   defaultOffices(),
		failures:  make(map[string]failure),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	if err := b.Seed(b.seed); err != nil {
		return nil, err
	}
	return b, nil
}

// BasePath reports the mount prefix.
func (b *Backend) BasePath() string { return b.basePath }

// Contract exposes the payload contract the backend enforces.
func (b *Backend) Contract() *contract.Contract { return b.contract }

// FailNext makes the next request matching method and path (relative to the
// base path) answer with status and message.
func (b *Backend) FailNext(method, path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[failureKey(method, path)] = failure{status: status, message: message}
}

// Insert stores record under collection (an expanded collection path such as
// "/funds" or "/loans/1/collaterals") and returns its id.
func (b *Backend) Insert(collection string, record Record) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertLocked(collection, record)
}

// Records returns a copy of the records stored under collection.
func (b *Backend) Records(collection string) []Record {
	b.mu.RLock()
	defer b.mu.RUnlock()
	stored := b.records[collection]
	out := make([]Record, len(stored))
	for i, record := range stored {
		out[i] = cloneRecord(record)
	}
	return out
}

func (b *Backend) insertLocked(collection string, record Record) int64 {
	id := b.nextID
	b.nextID++
	record = cloneRecord(record)
	record["id"] = id
	if collection == "/clients" {
		if _, ok := record["accountNo"]; !ok {
			record["accountNo"] = fmt.Sprintf("%09d", id)
		}
	}
	b.records[collection] = append(b.records[collection], record)
	return id
}

// Handler returns the HTTP handler serving the API.
func (b *Backend) Handler() http.Handler {
	api := chi.NewRouter()
	api.Use(b.checkTenant, b.injectFailures)

	api.Get("/offices", func(w http.ResponseWriter, r *http.Request) {
		b.mu.RLock()
		defer b.mu.RUnlock()
		writeJSON(w, http.StatusOK, b.offices)
	})

	for _, def := range b.defs {
		def := def
		item := strings.TrimRight(def.Collection, "/") + "/{id}"
		if def.Template != "" {
			api.Get(def.Template, b.template(def))
		}
		api.Get(def.Collection, b.list(def))
		api.Post(def.Collection, b.create(def))
		api.Get(item, b.show(def))
		if def.CanUpdate {
			api.Put(item, b.update(def))
		}
		if def.CanDelete {
			api.Delete(item, b.remove(def))
		}
	}

	api.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "error.msg.resource.not.found", "Resource not found: "+r.URL.Path)
	})
	api.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "error.msg.method.not.allowed", "Method not allowed: "+r.Method)
	})

	if b.basePath == "" {
		return api
	}
	root := chi.NewRouter()
	root.Mount(b.basePath, api)
	return root
}

func (b *Backend) checkTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.tenant != "" && r.Header.Get(apiclient.TenantHeader) != b.tenant {
			writeError(w, http.StatusUnauthorized, "error.msg.invalid.tenant", "Invalid tenant identifier")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, b.basePath)
		key := failureKey(r.Method, path)
		b.mu.Lock()
		f, ok := b.failures[key]
		delete(b.failures, key)
		b.mu.Unlock()
		if ok {
			writeError(w, f.status, "error.msg.injected", f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) template(def *forms.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.RLock()
		tpl, ok := b.templates[def.Resource]
		b.mu.RUnlock()
		if !ok {
			writeError(w, http.StatusNotFound, "error.msg.template.not.found", "No template for "+def.Resource)
			return
		}
		writeJSON(w, http.StatusOK, tpl)
	}
}

func (b *Backend) list(def *forms.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records := b.Records(collectionKey(def, r))
		// Clients are paged upstream; everything else is a bare array.
		if def.Resource == "clients" {
			writeJSON(w, http.StatusOK, map[string]any{
				"totalFilteredRecords": len(records),
				"pageItems":            records,
			})
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

func (b *Backend) show(def *forms.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.RLock()
		defer b.mu.RUnlock()
		_, record, ok := b.findLocked(collectionKey(def, r), chi.URLParam(r, "id"))
		if !ok {
			writeNotFound(w, def, chi.URLParam(r, "id"))
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func (b *Backend) create(def *forms.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := b.decodeCommand(w, r, def, forms.ModeCreate)
		if !ok {
			return
		}

		key := collectionKey(def, r)
		b.mu.Lock()
		if msg := b.duplicateLocked(def, key, "", body); msg != "" {
			b.mu.Unlock()
			writeError(w, http.StatusForbidden, "error.msg.duplicate", msg)
			return
		}
		record := b.toRecord(def, body, nil)
		id := b.insertLocked(key, record)
		b.mu.Unlock()

		b.logf("create %s %d", key, id)
		writeJSON(w, http.StatusOK, map[string]any{"resourceId": id})
	}
}

func (b *Backend) update(def *forms.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, ok := b.decodeCommand(w, r, def, forms.ModeUpdate)
		if !ok {
			return
		}

		key := collectionKey(def, r)
		id := chi.URLParam(r, "id")
		b.mu.Lock()
		idx, existing, found := b.findLocked(key, id)
		if !found {
			b.mu.Unlock()
			writeNotFound(w, def, id)
			return
		}
		if msg := b.duplicateLocked(def, key, id, body); msg != "" {
			b.mu.Unlock()
			writeError(w, http.StatusForbidden, "error.msg.duplicate", msg)
			return
		}
		record := b.toRecord(def, body, existing)
		b.records[key][idx] = record
		b.mu.Unlock()

		b.logf("update %s %s", key, id)
		writeJSON(w, http.StatusOK, map[string]any{"resourceId": record["id"], "changes": body})
	}
}

func (b *Backend) remove(def *forms.Definition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := collectionKey(def, r)
		id := chi.URLParam(r, "id")
		b.mu.Lock()
		idx, record, found := b.findLocked(key, id)
		if !found {
			b.mu.Unlock()
			writeNotFound(w, def, id)
			return
		}
		stored := b.records[key]
		b.records[key] = append(stored[:idx:idx], stored[idx+1:]...)
		b.mu.Unlock()

		b.logf("delete %s %s", key, id)
		writeJSON(w, http.StatusOK, map[string]any{"resourceId": record["id"]})
	}
}

func (b *Backend) decodeCommand(w http.ResponseWriter, r *http.Request, def *forms.Definition, mode forms.Mode) (map[string]any, bool) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "error.msg.invalid.request.body", "Unable to read request body")
		return nil, false
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		writeError(w, http.StatusBadRequest, "error.msg.invalid.json", "Request body is not a JSON object")
		return nil, false
	}
	if err := b.contract.Validate(def.Resource, mode, body); err != nil {
		writeValidation(w, contract.Violations(err))
		return nil, false
	}
	return body, true
}

func (b *Backend) findLocked(collection, id string) (int, Record, bool) {
	for i, record := range b.records[collection] {
		if fmt.Sprint(record["id"]) == id {
			return i, record, true
		}
	}
	return -1, nil, false
}

func (b *Backend) duplicateLocked(def *forms.Definition, collection, selfID string, body map[string]any) string {
	attr, ok := uniqueKeys[def.Resource]
	if !ok {
		return ""
	}
	value, ok := body[attr].(string)
	if !ok || value == "" {
		return ""
	}
	for _, record := range b.records[collection] {
		if fmt.Sprint(record["id"]) == selfID {
			continue
		}
		if strings.EqualFold(fmt.Sprint(record[attr]), value) {
			return fmt.Sprintf("%s with %s `%s` already exists", def.Title, attr, value)
		}
	}
	return ""
}

// toRecord converts an accepted command into the stored representation:
// dates become [yyyy, m, d] arrays and request-only keys are dropped.
func (b *Backend) toRecord(def *forms.Definition, body map[string]any, existing Record) Record {
	record := Record{}
	for key, value := range existing {
		record[key] = value
	}
	for key, value := range body {
		if key == "locale" || key == "dateFormat" {
			continue
		}
		record[key] = value
	}
	for _, field := range def.Fields {
		if field.Type != model.FieldTypeDate {
			continue
		}
		if raw, ok := record[field.Name].(string); ok {
			if parsed, err := forms.ParseDate(raw); err == nil {
				record[field.Name] = []int{parsed.Year(), int(parsed.Month()), parsed.Day()}
			}
		}
	}
	b.decorateLocked(def.Resource, record)
	return record
}

func (b *Backend) decorateLocked(resource string, record Record) {
	switch resource {
	case "clients":
		name := strings.TrimSpace(fmt.Sprint(record["fullname"]))
		if record["fullname"] == nil || name == "" {
			parts := []string{}
			for _, key := range []string{"firstname", "middlename", "lastname"} {
				if v, ok := record[key].(string); ok && v != "" {
					parts = append(parts, v)
				}
			}
			name = strings.Join(parts, " ")
		}
		record["displayName"] = name
		if office := b.officeLocked(record["officeId"]); office != nil {
			record["officeName"] = office["name"]
		}
		if active, _ := record["active"].(bool); active {
			record["status"] = map[string]any{"id": 300, "code": "clientStatusType.active", "value": "Active"}
		} else if _, ok := record["status"]; !ok {
			record["status"] = map[string]any{"id": 100, "code": "clientStatusType.pending", "value": "Pending"}
		}
	case "collaterals":
		if kind := b.optionLocked("collaterals", "allowedCollateralTypes", record["collateralTypeId"]); kind != nil {
			record["type"] = kind
		}
	case "holidays":
		if _, ok := record["status"]; !ok {
			record["status"] = map[string]any{"id": 100, "code": "holidayStatusType.pending.for.activation", "value": "Pending for activation"}
		}
	}
}

// optionLocked finds the entry with the given id in a template list.
func (b *Backend) optionLocked(resource, list string, id any) map[string]any {
	tpl, ok := b.templates[resource].(map[string]any)
	if !ok {
		return nil
	}
	entries, _ := tpl[list].([]map[string]any)
	want := fmt.Sprint(id)
	for _, entry := range entries {
		if fmt.Sprint(entry["id"]) == want {
			return entry
		}
	}
	return nil
}

func (b *Backend) officeLocked(id any) Record {
	want := fmt.Sprint(id)
	for _, office := range b.offices {
		if fmt.Sprint(office["id"]) == want {
			return office
		}
	}
	return nil
}

func (b *Backend) logf(format string, args ...any) {
	if b.logger != nil {
		b.logger.Printf("mockbackend: "+format, args...)
	}
}

// collectionKey expands the collection pattern of def with the request's
// path parameters.
func collectionKey(def *forms.Definition, r *http.Request) string {
	key := def.Collection
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return key
	}
	names := append([]string(nil), rctx.URLParams.Keys...)
	sort.Strings(names)
	for _, name := range names {
		if name == "id" {
			continue
		}
		key = strings.ReplaceAll(key, "{"+name+"}", chi.URLParam(r, name))
	}
	return key
}

func writeNotFound(w http.ResponseWriter, def *forms.Definition, id string) {
	writeError(w, http.StatusNotFound, "error.msg.resource.not.found",
		fmt.Sprintf("%s with identifier %s does not exist", def.Title, id))
}

func failureKey(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

func cloneRecord(in Record) Record {
	out := make(Record, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
