package template_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-mfadmin/pkg/options"
	"github.com/goliatone/go-mfadmin/pkg/render/template/gotemplate"
	"github.com/goliatone/go-mfadmin/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.Capture(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	testsupport.Golden(t, filepath.Join("testdata", "hello.golden"), result)
	if written != result {
		t.Fatalf("writer got %q, returned %q", written, result)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, _ := testsupport.Capture(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	testsupport.Golden(t, filepath.Join("testdata", "use-global.golden"), result)
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, _ := testsupport.Capture(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	testsupport.Golden(t, filepath.Join("testdata", "use-filter.golden"), result)
}

func TestGoTemplateEngine_OptionFilters(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("select", map[string]any{
		"options": []options.Option{{ID: "1", Name: "Head Office"}, {ID: "2", Name: "Branch"}},
		"value":   "2",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<select><option value="1">Head Office</option><option value="2" selected>Branch</option></select> Branch` + "\n"
	if result != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.Render("{{ title|trim }}", map[string]any{"title": "  Funds "})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "Funds" {
		t.Fatalf("unexpected output %q", result)
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
