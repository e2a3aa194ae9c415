package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mfadmin/pkg/render"
)

func TestResolveTheme_VariantOverridesTokens(t *testing.T) {
	cfg, err := render.ResolveTheme(nil, "dark")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != render.DefaultThemeName || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection: %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["surface"] != "#15191c" || cfg.Tokens["brand"] != "#1f6f5c" {
		t.Fatalf("variant tokens not merged: %#v", cfg.Tokens)
	}
	if cfg.CSSVars["--surface"] != "#15191c" {
		t.Fatalf("css vars not derived: %#v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/mfadmin.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unexpected asset url %q", got)
	}
}

func TestResolveTheme_UnknownVariant(t *testing.T) {
	if _, err := render.ResolveTheme(nil, "neon"); err == nil {
		t.Fatalf("expected error for unknown variant")
	}
}

func TestCSSVarsStyle(t *testing.T) {
	got := render.CSSVarsStyle(render.CSSVars(map[string]string{"brand": "#111", "radius": "4px", " ": "x"}))
	if diff := cmp.Diff("--brand: #111; --radius: 4px;", got); diff != "" {
		t.Fatalf("style mismatch (-want +got):\n%s", diff)
	}
}
