// Package server assembles the console HTTP handlers: the dashboard pages,
// the option lookup endpoint, the toast stream, the payload contract and the
// development proxy to the backend.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goliatone/go-theme"

	"github.com/goliatone/go-mfadmin/components/lookup"
	"github.com/goliatone/go-mfadmin/internal/journal"
	"github.com/goliatone/go-mfadmin/pkg/contract"
	"github.com/goliatone/go-mfadmin/pkg/forms"
	"github.com/goliatone/go-mfadmin/pkg/notify"
	"github.com/goliatone/go-mfadmin/pkg/renderers/vanilla"
)

// DashboardPath prefixes every console page.
const DashboardPath = "/dashboard"

// Server serves the console. Build it with New.
type Server struct {
	api      forms.Requester
	notifier *notify.Notifier
	renderer *vanilla.Renderer
	theme    *theme.RendererConfig
	journal  *journal.Store
	contract *contract.Contract
	logger   *log.Logger
	guard    GuardFunc
	compat   bool

	proxyTarget *url.URL
	tenant      string
}

// Option configures a Server.
type Option func(*Server)

// WithNotifier replaces the process-wide toast queue.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Server) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithRenderer replaces the default HTML renderer.
func WithRenderer(r *vanilla.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithTheme applies a resolved theme to every page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithJournal records every mutation that reaches the backend.
func WithJournal(store *journal.Store) Option {
	return func(s *Server) {
		s.journal = store
	}
}

// WithContract replaces the payload contract served at /openapi.json.
func WithContract(c *contract.Contract) Option {
	return func(s *Server) {
		if c != nil {
			s.contract = c
		}
	}
}

// WithLogger sets the request logger. A nil logger silences request logs.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithGuard installs the dashboard route guard.
func WithGuard(guard GuardFunc) Option {
	return func(s *Server) {
		s.guard = guard
	}
}

// WithCompatKeys toggles emission of alternate payload keys.
func WithCompatKeys(enabled bool) Option {
	return func(s *Server) {
		s.compat = enabled
	}
}

// WithDevProxy mounts /api/* as a reverse proxy to target, injecting tenant
// into every proxied request.
func WithDevProxy(target *url.URL, tenant string) Option {
	return func(s *Server) {
		s.proxyTarget = target
		s.tenant = tenant
	}
}

// New builds a server talking to the backend through api.
func New(api forms.Requester, opts ...Option) (*Server, error) {
	if api == nil {
		return nil, errors.New("server: requester is required")
	}
	s := &Server{
		api:      api,
		notifier: notify.Default(),
		logger:   log.New(os.Stderr, "", log.LstdFlags),
		compat:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, err
		}
		s.renderer = renderer
	}
	if s.contract == nil {
		c, err := contract.New(forms.All()...)
		if err != nil {
			return nil, err
		}
		s.contract = c
	}
	return s, nil
}

// Handler returns the root handler with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID, Recovery(s.logger), Logging(s.logger), Guard(DashboardPath, s.guard))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, DashboardPath, http.StatusFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/openapi.json", s.openAPI)
	r.Get("/toasts", s.toastSnapshot)
	r.Get("/ws/toasts", s.toastStream)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(vanilla.AssetsFS()))))

	lookups := lookup.New(
		lookup.WithSource(lookup.FormSource(s.api)),
		lookup.WithGuard(lookup.GuardFunc(s.guard)),
	)
	if _, err := lookups.RegisterRoutes(r, ""); err != nil {
		s.logf("server: register lookup: %v", err)
	}

	if s.proxyTarget != nil {
		r.Handle("/api/*", DevProxy(s.proxyTarget, s.tenant, s.logger))
	}

	r.Route(DashboardPath, func(r chi.Router) {
		r.Get("/", s.index)
		r.Get("/activity", s.activity)
		r.Get("/{resource}", s.list)
		r.Post("/{resource}", s.create)
		r.Get("/{resource}/new", s.newForm)
		r.Get("/{resource}/{id}/edit", s.editForm)
		r.Post("/{resource}/{id}", s.update)
		r.Post("/{resource}/{id}/delete", s.remove)
	})
	return r
}

// Run serves Handler on addr until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logf("listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) openAPI(w http.ResponseWriter, r *http.Request) {
	raw, err := s.contract.MarshalJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "CONTRACT", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
