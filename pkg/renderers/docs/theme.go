package docs

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-aspectmodel/pkg/render"
)

const (
	// ThemeName is the built-in documentation theme.
	ThemeName = "aspect-docs"

	// PartialProperties renders a property table. Themes override it with a
	// template path resolved next to templates/aspect.tpl.
	PartialProperties = "docs.properties"

	// AssetStylesheet names an external stylesheet linked in addition to the
	// inlined CSS.
	AssetStylesheet = "docs.stylesheet"
)

// DefaultPartials are the partials used when a theme does not override them.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialProperties: "partials/properties.tpl",
	}
}

// DefaultThemeManifest describes the built-in look as a go-theme manifest
// with a light and a dark variant. Token names match the custom properties
// declared in aspect-docs.css.
func DefaultThemeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    ThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"fg":      "#1f2933",
			"bg":      "#ffffff",
			"muted":   "#616e7c",
			"border":  "#d9e2ec",
			"accent":  "#0b69a3",
			"code-bg": "#f5f7fa",
		},
		Templates: DefaultPartials(),
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"fg":      "#e4e7eb",
					"bg":      "#1f2430",
					"muted":   "#9aa5b1",
					"border":  "#3e4c59",
					"accent":  "#47a3f3",
					"code-bg": "#2a3140",
				},
			},
		},
	}
}

// DefaultThemes selects from the built-in manifest, light by default.
func DefaultThemes() *render.ThemeSet {
	return render.MustThemeSet(ThemeName, "light", DefaultThemeManifest())
}

// themeView is the part of the page a theme controls.
type themeView struct {
	Name          string
	Variant       string
	Style         string
	StylesheetURL string
	Properties    string
}

func newThemeView(cfg *theme.RendererConfig) themeView {
	view := themeView{Properties: DefaultPartials()[PartialProperties]}
	if cfg == nil {
		return view
	}
	view.Name = cfg.Theme
	view.Variant = cfg.Variant
	view.Style = cssVarsStyle(cfg.CSSVars)
	if p := strings.TrimSpace(cfg.Partials[PartialProperties]); p != "" {
		view.Properties = p
	}
	if cfg.AssetURL != nil {
		view.StylesheetURL = cfg.AssetURL(AssetStylesheet)
	}
	return view
}

// cssVarsStyle renders a :root rule. Values that could close the rule or
// the style element are dropped.
func cssVarsStyle(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for key, value := range vars {
		if strings.HasPrefix(key, "--") && !strings.ContainsAny(key+value, "<>{};") {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(":root {")
	for _, key := range keys {
		sb.WriteString(" ")
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(vars[key])
		sb.WriteString(";")
	}
	sb.WriteString(" }")
	return sb.String()
}
