package mfadmin

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goliatone/go-mfadmin/internal/mockbackend"
)

func TestCatalogue(t *testing.T) {
	names := make([]string, 0)
	for _, res := range Resources() {
		names = append(names, res.Name())
	}
	if len(names) != len(Definitions()) {
		t.Fatalf("resources and definitions disagree: %v", names)
	}
	if _, err := Lookup("collaterals"); err != nil {
		t.Fatalf("lookup collaterals: %v", err)
	}
	if _, err := Lookup("loans"); !errors.Is(err, ErrUnknownResource) {
		t.Fatalf("expected ErrUnknownResource, got %v", err)
	}
}

func TestNewHandlerServesDashboard(t *testing.T) {
	backend, err := mockbackend.New(mockbackend.WithTenant("default"), mockbackend.WithSeed(2))
	if err != nil {
		t.Fatalf("backend: %v", err)
	}
	upstream := httptest.NewServer(backend.Handler())
	defer upstream.Close()

	handler, err := NewHandler(upstream.URL+backend.BasePath(), "default", WithLogger(nil))
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	console := httptest.NewServer(handler)
	defer console.Close()

	resp, err := http.Get(console.URL + DashboardPath + "/funds")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "fund 1") {
		t.Fatalf("expected seeded funds in body")
	}
}

func TestNewHandlerRejectsRelativeURL(t *testing.T) {
	if _, err := NewHandler("/fineract-provider", "default"); err == nil {
		t.Fatalf("expected error for relative base url")
	}
}

func TestRenderers(t *testing.T) {
	registry, err := Renderers()
	if err != nil {
		t.Fatalf("renderers: %v", err)
	}
	if got := strings.Join(registry.List(), ","); got != "tui,vanilla" {
		t.Fatalf("unexpected renderers %q", got)
	}
}

func TestEmbeddedFS(t *testing.T) {
	if _, err := fs.Stat(EmbeddedTemplates(), "templates/form.tmpl"); err != nil {
		t.Fatalf("form template missing: %v", err)
	}
	entries, err := fs.ReadDir(EmbeddedAssets(), ".")
	if err != nil || len(entries) == 0 {
		t.Fatalf("assets missing: %v", err)
	}
}
