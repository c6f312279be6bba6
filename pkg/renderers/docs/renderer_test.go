package docs_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
)

func newRenderer(t *testing.T, opts ...docs.Option) *docs.Renderer {
	t.Helper()
	renderer, err := docs.New(opts...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q", fragment)
		}
	}
}

func TestRenderPartAsPlanned(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)

	out, err := newRenderer(t).Render(context.Background(), aspect, render.Options{Seed: 1})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html,
		"<html",
		`lang="en"`,
		"Table of contents",
		`id="PartAsPlanned-catenaXId"`,
		`href="#PartTypeInformationEntity"`,
		`id="PartSitesInformationAsPlannedEntity"`,
		"RegularExpressionConstraint",
		"580d3adf-1981-44a0-a214-13d6ceed9379",
		`id="payload"`,
		"Generated from "+testsupport.PartAsPlannedURN,
	)
}

func TestRenderGermanLabelsAndNames(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)

	out, err := newRenderer(t).Render(context.Background(), aspect, render.Options{Locale: "de-DE", Seed: 1})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html,
		`lang="de"`,
		"<h1>Bewegung</h1>",
		"Inhaltsverzeichnis",
		"Eigenschaften",
		"<code>label</code>",
		"Nicht im Payload",
		"RangeConstraint [0, 300)",
		"LengthConstraint 3..8",
		`id="SpatialPosition"`,
		`id="StatusEntity"`,
		`id="Movement-toggle"`,
		`id="Movement-SpeedExceeded"`,
	)
}

func TestRenderFallsBackToEnglish(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)

	out, err := newRenderer(t).Render(context.Background(), aspect, render.Options{Locale: "fr"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `lang="en"`, "<h1>Movement</h1>", "Properties")
}

func TestRenderWithoutPayload(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)

	out, err := newRenderer(t, docs.WithoutPayload(), docs.WithStylesheet("body{color:red}")).
		Render(context.Background(), aspect, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	if strings.Contains(html, `id="payload"`) {
		t.Fatalf("payload section rendered")
	}
	assertContains(t, html, "body{color:red}")
}

func TestRenderWithCustomTemplates(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	files := fstest.MapFS{
		"templates/aspect.tpl": {Data: []byte(`{{ doc.Name }}|{{ translate("properties") }}|{{ current_locale() }}`)},
	}

	out, err := newRenderer(t, docs.WithTemplatesFS(files), docs.WithoutPayload()).
		Render(context.Background(), aspect, render.Options{Locale: "de"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "Movement|Eigenschaften|de" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderUsesCustomTranslator(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	catalog := render.Catalog{"en": {"properties": "Fields"}}

	out, err := newRenderer(t, docs.WithoutPayload()).Render(context.Background(), aspect, render.Options{
		Translator: catalog,
		OnMissing: func(_ string, key string, _ []any, _ error) string {
			return "?" + key
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), "<h2>Fields</h2>", "?toc")
}

type closingBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closingBuffer) Close() error {
	b.closed = true
	return nil
}

func TestGenerateToWritesAspectFile(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)
	files := map[string]*closingBuffer{}

	err := newRenderer(t).GenerateTo(context.Background(), aspect, func(name string) (io.Writer, error) {
		buf := &closingBuffer{}
		files[name] = buf
		return buf, nil
	}, render.Options{Seed: 2})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	out, ok := files["PartAsPlanned.html"]
	if !ok {
		t.Fatalf("expected PartAsPlanned.html, got %v", files)
	}
	if !out.closed {
		t.Fatalf("writer was not closed")
	}
	assertContains(t, out.String(), "<html")
}

func TestGenerateToRejectsMissingOutput(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	if err := newRenderer(t).GenerateTo(context.Background(), aspect, nil, render.Options{}); err == nil {
		t.Fatalf("expected error without output function")
	}
}
