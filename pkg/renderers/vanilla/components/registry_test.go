package components

import (
	"bytes"
	"testing"

	"github.com/goliatone/go-mfadmin/pkg/model"
)

func TestRegistryDescriptorClone(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	if err := reg.Register("test", Descriptor{Renderer: renderer, Stylesheets: []string{"/a.css"}}); err != nil {
		t.Fatalf("register: %v", err)
	}

	desc, ok := reg.Descriptor("test")
	if !ok {
		t.Fatalf("descriptor not found")
	}

	desc.Stylesheets = append(desc.Stylesheets, "/mutated.css")

	original, _ := reg.Descriptor("test")
	if len(original.Stylesheets) != 1 || original.Stylesheets[0] != "/a.css" {
		t.Fatalf("registry descriptor mutated: %#v", original.Stylesheets)
	}
}

func TestRegistryStylesheetsDeduplicates(t *testing.T) {
	reg := New()
	renderer := func(buf *bytes.Buffer, field model.Field, data ComponentData) error { return nil }

	reg.MustRegister("input", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/input.css"}})
	reg.MustRegister("select", Descriptor{Renderer: renderer, Stylesheets: []string{"/shared.css", "/select.css"}})

	styles := reg.Stylesheets([]string{"input", "select", "unknown"})
	want := []string{"/shared.css", "/input.css", "/select.css"}
	if len(styles) != len(want) {
		t.Fatalf("expected %v, got %v", want, styles)
	}
	for i := range want {
		if styles[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, styles)
		}
	}
}

func TestResolveName(t *testing.T) {
	cases := map[model.FieldType]string{
		model.FieldTypeString:      NameInput,
		model.FieldTypeDate:        NameInput,
		model.FieldTypeText:        NameTextarea,
		model.FieldTypeSelect:      NameSelect,
		model.FieldTypeMultiSelect: NameMultiSelect,
		model.FieldTypeBoolean:     NameBoolean,
	}
	for fieldType, want := range cases {
		if got := ResolveName(model.Field{Type: fieldType}); got != want {
			t.Fatalf("ResolveName(%s) = %s, want %s", fieldType, got, want)
		}
	}
}

func TestRegisterRequiresRenderer(t *testing.T) {
	if err := New().Register("broken", Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}
