// Package mfadmin is the entry point of the microfinance admin console. It
// exposes the resource catalogue and a ready-to-mount HTTP handler; the
// building blocks live under pkg/.
package mfadmin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/goliatone/go-mfadmin/internal/server"
	"github.com/goliatone/go-mfadmin/pkg/apiclient"
	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/pages"
	"github.com/goliatone/go-mfadmin/pkg/render"
	"github.com/goliatone/go-mfadmin/pkg/renderers/tui"
	"github.com/goliatone/go-mfadmin/pkg/renderers/vanilla"
)

// Resource pairs an entity form with its list columns.
type Resource = pages.Resource

// Definition describes one entity form.
type Definition = forms.Definition

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface validation errors.
type RenderOptions = render.RenderOptions

// Option configures the handler built by NewHandler.
type Option = server.Option

// GuardFunc gates every /dashboard request.
type GuardFunc = server.GuardFunc

// DashboardPath prefixes every console page.
const DashboardPath = server.DashboardPath

// ErrUnknownResource is returned by Lookup.
var ErrUnknownResource = errors.New("mfadmin: unknown resource")

// Server options re-exported for callers outside this module.
var (
	WithNotifier   = server.WithNotifier
	WithTheme      = server.WithTheme
	WithJournal    = server.WithJournal
	WithLogger     = server.WithLogger
	WithGuard      = server.WithGuard
	WithCompatKeys = server.WithCompatKeys
	WithDevProxy   = server.WithDevProxy
	WithRenderer   = server.WithRenderer
	WithContract   = server.WithContract
)

// Resources lists every console resource ordered by name.
func Resources() []Resource {
	return pages.Resources()
}

// Lookup returns the resource registered under name.
func Lookup(name string) (Resource, error) {
	res, ok := pages.Lookup(strings.TrimSpace(name))
	if !ok {
		return Resource{}, ErrUnknownResource
	}
	return res, nil
}

// Definitions returns the form definition of every resource.
func Definitions() []*Definition {
	return forms.All()
}

// NewHandler builds the console handler for the backend at baseURL. tenant
// is sent with every backend request.
func NewHandler(baseURL, tenant string, opts ...Option) (http.Handler, error) {
	api, err := apiclient.New(baseURL, apiclient.WithTenant(tenant))
	if err != nil {
		return nil, err
	}
	return NewHandlerWithClient(api, opts...)
}

// NewHandlerWithClient builds the console handler on top of an existing
// backend requester.
func NewHandlerWithClient(api forms.Requester, opts ...Option) (http.Handler, error) {
	srv, err := server.New(api, opts...)
	if err != nil {
		return nil, err
	}
	return srv.Handler(), nil
}

// Renderers returns a registry holding the HTML ("vanilla") and terminal
// ("tui") form renderers with their default settings.
func Renderers() (*render.Registry, error) {
	registry := render.NewRegistry()
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(html); err != nil {
		return nil, err
	}
	term, err := tui.New()
	if err != nil {
		return nil, err
	}
	if err := registry.Register(term); err != nil {
		return nil, err
	}
	return registry, nil
}
