package render_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-aspectmodel/pkg/render"
)

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456", "fg": "#000"},
		Templates: map[string]string{
			"docs.properties": "themes/acme/properties.tpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"docs.stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens:    map[string]string{"brand": "#654321"},
				Templates: map[string]string{"docs.entity": "themes/acme/dark/entity.tpl"},
				Assets:    theme.Assets{Files: map[string]string{"docs.logo": "logo.dark.svg"}},
			},
		},
	}
}

func TestThemeSetSelect(t *testing.T) {
	set, err := render.NewThemeSet("", "", acmeManifest())
	if err != nil {
		t.Fatalf("new theme set: %v", err)
	}

	sel, err := set.Select("", "")
	if err != nil {
		t.Fatalf("select default: %v", err)
	}
	if sel.Theme != "acme" || sel.Variant != "" || sel.Manifest == nil {
		t.Fatalf("unexpected default selection %+v", sel)
	}

	sel, err = set.Select("acme", "dark")
	if err != nil || sel.Variant != "dark" {
		t.Fatalf("unexpected dark selection %+v: %v", sel, err)
	}

	if _, err := set.Select("nope", ""); !errors.Is(err, render.ErrThemeNotFound) {
		t.Fatalf("expected theme not found, got %v", err)
	}
	if _, err := set.Select("acme", "sepia"); !errors.Is(err, render.ErrVariantNotFound) {
		t.Fatalf("expected variant not found, got %v", err)
	}

	var _ theme.ThemeSelector = set
}

func TestNewThemeSetValidates(t *testing.T) {
	if _, err := render.NewThemeSet("", "", &theme.Manifest{}); err == nil {
		t.Fatalf("expected error for unnamed manifest")
	}
	if _, err := render.NewThemeSet("", "", acmeManifest(), acmeManifest()); err == nil {
		t.Fatalf("expected error for duplicate manifest")
	}
	if _, err := render.NewThemeSet("other", "", acmeManifest()); !errors.Is(err, render.ErrThemeNotFound) {
		t.Fatalf("expected unknown default theme error, got %v", err)
	}
}

func TestResolveThemeMergesVariant(t *testing.T) {
	set := render.MustThemeSet("acme", "dark", acmeManifest())
	fallbacks := map[string]string{
		"docs.properties": "partials/properties.tpl",
		"docs.events":     "partials/events.tpl",
	}

	cfg, err := render.ResolveTheme(set, "", "", fallbacks)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}
	wantPartials := map[string]string{
		"docs.properties": "themes/acme/properties.tpl",
		"docs.events":     "partials/events.tpl",
		"docs.entity":     "themes/acme/dark/entity.tpl",
	}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]string{"--brand": "#654321", "--fg": "#000"}, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("docs.stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("docs.logo"); got != "/assets/themes/acme/logo.dark.svg" {
		t.Fatalf("unexpected logo url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve to empty, got %q", got)
	}
	if fallbacks["docs.properties"] != "partials/properties.tpl" {
		t.Fatalf("fallbacks were modified")
	}

	if _, err := render.ResolveTheme(nil, "", "", nil); err == nil {
		t.Fatalf("expected error without selector")
	}
}
