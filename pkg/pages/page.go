package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/options"
)

// ErrNotFound is returned when an id is not among the loaded rows.
var ErrNotFound = errors.New("pages: entity not found")

// Option customises a Page.
type Option func(*Page)

// WithNotifier routes toasts to n.
func WithNotifier(n *notify.Notifier) Option {
	return func(p *Page) {
		if n != nil {
			p.notifier = n
		}
	}
}

// WithScope sets the path parameters of a nested resource.
func WithScope(scope forms.Scope) Option {
	return func(p *Page) {
		p.scope = forms.Scope{}
		for key, value := range scope {
			p.scope[key] = value
		}
	}
}

// WithFormOptions appends options applied to every form the page opens.
func WithFormOptions(opts ...forms.Option) Option {
	return func(p *Page) {
		p.formOptions = append(p.formOptions, opts...)
	}
}

// Page is a loaded list screen. It is safe for concurrent use.
type Page struct {
	resource    Resource
	api         forms.Requester
	notifier    *notify.Notifier
	scope       forms.Scope
	formOptions []forms.Option

	mu      sync.RWMutex
	rows    []Row
	options map[string][]options.Option
	loaded  bool
}

// New builds a page for resource. Scoped resources fail with
// forms.ErrMissingScope when a required key is absent.
func New(resource Resource, api forms.Requester, opts ...Option) (*Page, error) {
	if resource.Definition == nil {
		return nil, errors.New("pages: resource definition is required")
	}
	if api == nil {
		return nil, errors.New("pages: requester is required")
	}
	page := &Page{
		resource: resource,
		api:      api,
		notifier: notify.Default(),
		scope:    forms.Scope{},
		options:  map[string][]options.Option{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(page)
		}
	}
	for _, key := range resource.Scope {
		if strings.TrimSpace(page.scope[key]) == "" {
			return nil, fmt.Errorf("%w: %s", forms.ErrMissingScope, key)
		}
	}
	return page, nil
}

// Resource returns the page resource.
func (p *Page) Resource() Resource { return p.resource }

// Scope returns a copy of the page scope.
func (p *Page) Scope() forms.Scope {
	out := forms.Scope{}
	for key, value := range p.scope {
		out[key] = value
	}
	return out
}

// Load fetches the collection and the option template concurrently. The two
// fetches fail independently: a failed template leaves the option maps empty
// and a failed collection leaves the rows empty, each with an error toast.
// The returned error joins both failures.
func (p *Page) Load(ctx context.Context) error {
	def := p.resource.Definition

	var (
		wg          sync.WaitGroup
		records     []forms.Record
		tpl         forms.Template
		listErr     error
		templateErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		records, listErr = p.fetchCollection(ctx)
	}()
	go func() {
		defer wg.Done()
		tpl, templateErr = forms.FetchTemplate(ctx, def, p.api, p.scope)
	}()
	wg.Wait()

	title := strings.ToLower(def.Title)
	if templateErr != nil {
		p.notifier.Error(apiclient.UserMessage(templateErr, fmt.Sprintf("Could not load %s options", title)))
	}
	if listErr != nil {
		records = nil
		p.notifier.Error(apiclient.UserMessage(listErr, fmt.Sprintf("Could not load %s list", title)))
	}

	rows := normalizeRows(records, p.resource.Columns, tpl.Options)

	p.mu.Lock()
	p.rows = rows
	p.options = tpl.Options
	p.loaded = true
	p.mu.Unlock()

	return errors.Join(listErr, templateErr)
}

func (p *Page) fetchCollection(ctx context.Context) ([]forms.Record, error) {
	path, err := p.resource.Definition.CollectionPath(p.scope)
	if err != nil {
		return nil, err
	}
	var payload any
	if err := p.api.Get(ctx, path, &payload); err != nil {
		return nil, err
	}
	return apiclient.Records(payload), nil
}

// Loaded reports whether Load has completed at least once.
func (p *Page) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Rows returns every loaded row.
func (p *Page) Rows() []Row {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Row(nil), p.rows...)
}

// Filter returns the rows whose display columns contain query, ignoring
// case. An empty query returns all rows.
func (p *Page) Filter(query string) []Row {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return filterRows(p.rows, p.resource.Columns, query)
}

// Options returns the option list loaded for field.
func (p *Page) Options(field string) []options.Option {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]options.Option(nil), p.options[field]...)
}

// Row returns the loaded row with id.
func (p *Page) Row(id string) (Row, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, row := range p.rows {
		if row.ID == id {
			return row, true
		}
	}
	return Row{}, false
}

// NewForm opens a create form, or an update form when id is not empty.
func (p *Page) NewForm(ctx context.Context, id string) (*forms.Form, error) {
	opts := []forms.Option{forms.WithNotifier(p.notifier), forms.WithScope(p.scope)}
	if id != "" {
		row, ok := p.Row(id)
		if !ok {
			return nil, ErrNotFound
		}
		opts = append(opts, forms.WithEntity(row.Record))
	}
	opts = append(opts, p.formOptions...)
	form, err := forms.New(p.resource.Definition, p.api, opts...)
	if err != nil {
		return nil, err
	}
	if err := form.Open(ctx); err != nil {
		return nil, err
	}
	return form, nil
}

// Create submits values through a create form and reloads on success.
func (p *Page) Create(ctx context.Context, values forms.Values) (forms.Result, error) {
	return p.submit(ctx, "", values)
}

// Update submits values for entity id and reloads on success.
func (p *Page) Update(ctx context.Context, id string, values forms.Values) (forms.Result, error) {
	if strings.TrimSpace(id) == "" {
		return forms.Result{}, ErrNotFound
	}
	if !p.resource.Definition.CanUpdate {
		return forms.Result{}, forms.ErrUpdateUnsupported
	}
	return p.submit(ctx, id, values)
}

func (p *Page) submit(ctx context.Context, id string, values forms.Values) (forms.Result, error) {
	form, err := p.NewForm(ctx, id)
	if err != nil {
		return forms.Result{}, err
	}
	defer form.Close()
	result, err := form.Submit(ctx, values)
	if err != nil {
		return result, err
	}
	_ = p.Load(ctx)
	return result, nil
}

// Delete removes entity id and reloads on success.
func (p *Page) Delete(ctx context.Context, id string) error {
	def := p.resource.Definition
	if !def.CanDelete {
		return forms.ErrDeleteUnsupported
	}
	path, err := def.ItemPath(p.scope, id)
	if err != nil {
		return err
	}
	if err := p.api.Delete(ctx, path, nil); err != nil {
		p.notifier.Error(apiclient.UserMessage(err, fmt.Sprintf("Could not delete %s", strings.ToLower(def.Title))))
		return err
	}
	p.notifier.Success(def.Title + " deleted")
	_ = p.Load(ctx)
	return nil
}
