package forms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/model"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/options"
)

// Requester is the subset of the HTTP adapter the form engine needs.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string, out any) error
}

// State is the lifecycle stage of a Form.
type State string

const (
	StateLoading    State = "loading-template"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateClosed     State = "closed"
)

// Template is the option data fetched when a form opens.
type Template struct {
	Raw     any
	Options map[string][]options.Option
}

// Result describes a successful submission.
type Result struct {
	Mode     Mode
	ID       string
	Payload  map[string]any
	Response Record
}

// Option customises a Form.
type Option func(*Form)

// WithNotifier routes toasts to n instead of the process-wide queue.
func WithNotifier(n *notify.Notifier) Option {
	return func(f *Form) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithScope sets the path parameters of nested resources.
func WithScope(scope Scope) Option {
	return func(f *Form) {
		f.scope = Scope{}
		for key, value := range scope {
			f.scope[key] = value
		}
	}
}

// WithEntity opens the form in update mode for record.
func WithEntity(record Record) Option {
	return func(f *Form) {
		f.entity = record
	}
}

// WithCompatKeys toggles the emission of alternate payload keys.
func WithCompatKeys(enabled bool) Option {
	return func(f *Form) {
		f.compat = enabled
	}
}

// OnSubmitted registers a callback invoked after every successful submission.
func OnSubmitted(fn func(Result)) Option {
	return func(f *Form) {
		f.onSubmitted = fn
	}
}

// Form drives one entity editor through loading-template, ready and
// submitting. A Form is safe for concurrent use.
type Form struct {
	def      *Definition
	api      Requester
	notifier *notify.Notifier
	scope    Scope
	entity   Record
	compat   bool

	onSubmitted func(Result)

	mu       sync.Mutex
	state    State
	template Template
	values   Values
	errors   FieldErrors
}

// New builds a form for def. Call Open before Submit.
func New(def *Definition, api Requester, opts ...Option) (*Form, error) {
	if def == nil {
		return nil, errors.New("forms: definition is required")
	}
	if api == nil {
		return nil, errors.New("forms: requester is required")
	}
	form := &Form{
		def:      def,
		api:      api,
		notifier: notify.Default(),
		scope:    Scope{},
		compat:   true,
		state:    StateLoading,
		template: Template{Options: map[string][]options.Option{}},
		errors:   FieldErrors{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(form)
		}
	}
	if form.entity != nil && !def.CanUpdate {
		return nil, ErrUpdateUnsupported
	}
	form.values = def.Hydrate(form.entity)
	return form, nil
}

// Definition returns the resource definition backing the form.
func (f *Form) Definition() *Definition { return f.def }

// Mode reports whether the form creates or updates.
func (f *Form) Mode() Mode {
	if f.entity != nil {
		return ModeUpdate
	}
	return ModeCreate
}

// State returns the current lifecycle stage.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Values returns a copy of the current input values.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Errors returns a copy of the last validation messages.
func (f *Form) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := FieldErrors{}
	for key, messages := range f.errors {
		out[key] = append([]string(nil), messages...)
	}
	return out
}

// Model returns the renderer-facing model with the loaded options.
func (f *Form) Model() model.FormModel {
	f.mu.Lock()
	tpl := f.template
	f.mu.Unlock()

	form := f.def.Model(tpl, f.Mode())
	form.Method = "POST"
	if f.Mode() == ModeUpdate {
		form.Method = "PUT"
	}
	if path, err := f.submitPath(); err == nil {
		form.Endpoint = path
	}
	return form
}

// Open fetches the template and any extra option endpoints. Failures are
// reported as toasts and leave the affected option lists empty; the form is
// still ready afterwards. A form closed while loading discards the result and
// returns ErrClosed.
func (f *Form) Open(ctx context.Context) error {
	f.mu.Lock()
	if f.state == StateClosed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.state = StateLoading
	f.mu.Unlock()

	tpl := f.load(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateClosed {
		return ErrClosed
	}
	f.template = tpl
	f.state = StateReady
	return nil
}

func (f *Form) load(ctx context.Context) Template {
	tpl, err := FetchTemplate(ctx, f.def, f.api, f.scope)
	if err != nil {
		f.notifier.Error(apiclient.UserMessage(err, fmt.Sprintf("Could not load %s options", strings.ToLower(f.def.Title))))
	}
	return tpl
}

// Submit validates values and, when they pass, sends them to the backend.
// Invalid input returns a *ValidationError without any network call.
func (f *Form) Submit(ctx context.Context, values Values) (Result, error) {
	mode := f.Mode()

	f.mu.Lock()
	switch f.state {
	case StateClosed:
		f.mu.Unlock()
		return Result{}, ErrClosed
	case StateLoading:
		f.mu.Unlock()
		return Result{}, ErrNotReady
	case StateSubmitting:
		f.mu.Unlock()
		return Result{}, ErrSubmitInProgress
	}
	canonical := f.def.Canonical(values)
	f.values = canonical
	errs := f.def.Validate(canonical, mode, f.template.Options)
	f.errors = errs
	if !errs.Empty() {
		f.mu.Unlock()
		return Result{}, &ValidationError{Fields: errs}
	}
	path, err := f.submitPath()
	if err != nil {
		f.mu.Unlock()
		return Result{}, err
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	payload := f.def.Payload(canonical, mode, f.compat)
	var response Record
	if mode == ModeUpdate {
		err = f.api.Put(ctx, path, payload, &response)
	} else {
		err = f.api.Post(ctx, path, payload, &response)
	}

	f.mu.Lock()
	closed := f.state == StateClosed
	if !closed {
		f.state = StateReady
	}
	f.mu.Unlock()

	if err != nil {
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			f.mu.Lock()
			for field, messages := range apiErr.FieldMessages() {
				for _, message := range messages {
					f.errors.Add(field, message)
				}
			}
			f.mu.Unlock()
		}
		f.notifier.Error(apiclient.UserMessage(err, fmt.Sprintf("Could not save %s", strings.ToLower(f.def.Title))))
		return Result{}, err
	}

	result := Result{
		Mode:     mode,
		ID:       resultID(response, f.entity),
		Payload:  payload,
		Response: response,
	}
	if mode == ModeUpdate {
		f.notifier.Success(f.def.Title + " updated")
	} else {
		f.notifier.Success(f.def.Title + " created")
	}
	if f.onSubmitted != nil && !closed {
		f.onSubmitted(result)
	}
	return result, nil
}

// Close discards any pending load or submission result.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateClosed
}

func (f *Form) submitPath() (string, error) {
	if f.entity == nil {
		return f.def.CollectionPath(f.scope)
	}
	return f.def.ItemPath(f.scope, pick(f.entity, "id", "resourceId"))
}

func resultID(response, entity Record) string {
	if id := pick(response, "resourceId", "id"); id != "" {
		return id
	}
	return pick(entity, "id", "resourceId")
}

func dedupe(opts []options.Option) []options.Option {
	if len(opts) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(opts))
	out := opts[:0]
	for _, opt := range opts {
		if _, ok := seen[opt.ID]; ok {
			continue
		}
		seen[opt.ID] = struct{}{}
		out = append(out, opt)
	}
	return out
}
