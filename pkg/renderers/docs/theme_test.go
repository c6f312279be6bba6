package docs_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
)

func TestRenderDarkVariant(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)
	cfg, err := render.ResolveTheme(docs.DefaultThemes(), "", "dark", docs.DefaultPartials())
	if err != nil {
		t.Fatalf("resolve theme: %v", err)
	}

	out, err := newRenderer(t).Render(context.Background(), aspect, render.Options{Seed: 1, Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html,
		`data-theme="aspect-docs"`,
		`data-variant="dark"`,
		"--bg: #1f2430;",
		"--accent: #47a3f3;",
		`id="PartAsPlanned-catenaXId"`,
	)
	if strings.Contains(html, `rel="stylesheet"`) {
		t.Fatalf("built-in theme should not link an external stylesheet")
	}
}

func TestRenderLightVariantIsDefault(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	cfg, err := render.ResolveTheme(docs.DefaultThemes(), "", "", docs.DefaultPartials())
	if err != nil {
		t.Fatalf("resolve theme: %v", err)
	}

	out, err := newRenderer(t, docs.WithoutPayload()).Render(context.Background(), aspect, render.Options{Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out), `data-variant="light"`, "--bg: #ffffff;")

	plain, err := newRenderer(t, docs.WithoutPayload()).Render(context.Background(), aspect, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(plain), "data-theme") {
		t.Fatalf("rendering without a theme should keep the plain page")
	}
}

func TestRenderThemePartialAndAssets(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	files := fstest.MapFS{
		"templates/aspect.tpl":           {Data: []byte(`{{ doc.Theme.StylesheetURL }}|{% include doc.Theme.Properties with properties=doc.Properties %}`)},
		"templates/partials/compact.tpl": {Data: []byte(`{% for p in properties %}[{{ p.Name }}]{% endfor %}`)},
	}
	manifest := &theme.Manifest{
		Name:    "compact",
		Version: "0.1.0",
		Tokens:  map[string]string{"fg": "#111"},
		Templates: map[string]string{
			docs.PartialProperties: "partials/compact.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/compact",
			Files:  map[string]string{docs.AssetStylesheet: "docs.css"},
		},
	}
	cfg, err := render.ResolveTheme(render.MustThemeSet("", "", manifest), "", "", docs.DefaultPartials())
	if err != nil {
		t.Fatalf("resolve theme: %v", err)
	}

	out, err := newRenderer(t, docs.WithTemplatesFS(files), docs.WithoutPayload()).
		Render(context.Background(), aspect, render.Options{Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	got := string(out)
	if !strings.HasPrefix(got, "/assets/themes/compact/docs.css|[") {
		t.Fatalf("unexpected output %q", got)
	}
	if !strings.Contains(got, "[isMoving]") {
		t.Fatalf("theme partial not used: %q", got)
	}
}

func TestRenderDropsUnsafeThemeTokens(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	manifest := &theme.Manifest{
		Name:   "unsafe",
		Tokens: map[string]string{"fg": "#111", "evil": "red; } </style><script>"},
	}
	cfg, err := render.ResolveTheme(render.MustThemeSet("", "", manifest), "", "", docs.DefaultPartials())
	if err != nil {
		t.Fatalf("resolve theme: %v", err)
	}

	out, err := newRenderer(t, docs.WithoutPayload()).Render(context.Background(), aspect, render.Options{Theme: cfg})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	assertContains(t, html, ":root { --fg: #111; }")
	if strings.Contains(html, "<script>") {
		t.Fatalf("unsafe token leaked into the page")
	}
}
