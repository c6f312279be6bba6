package pongo_test

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-aspectmodel/pkg/render/template/pongo"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	files := fstest.MapFS{
		"hello.tpl":  {Data: []byte("Hello {{ name }}!")},
		"funcs.tpl":  {Data: []byte("{{ greet(name) }}")},
		"anchor.tpl": {Data: []byte(`<a href="#{{ iri|anchor }}">{{ label|trim }}</a>`)},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngineRenderTemplateWritesOutput(t *testing.T) {
	engine := newEngine(t)

	var sb strings.Builder
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "<Ada>"}, &sb)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "Hello &lt;Ada&gt;!" {
		t.Fatalf("unexpected output %q", got)
	}
	if sb.String() != got {
		t.Fatalf("writer mismatch %q", sb.String())
	}
}

func TestEngineTemplateFuncs(t *testing.T) {
	engine := newEngine(t, pongo.WithTemplateFunc(map[string]any{
		"greet": func(name string) string { return "hi " + name },
	}))

	got, err := engine.RenderTemplate("funcs.tpl", struct {
		Name string `json:"name"`
	}{Name: "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hi Ada" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineDefaultFilters(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.RenderTemplate("anchor", map[string]any{
		"iri":   "urn:samm:io.example:1.0.0#Spatial Position",
		"label": "  Position ",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != `<a href="#Spatial-Position">Position</a>` {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected missing template error")
	}
}
