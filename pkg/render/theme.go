package render

import (
	"errors"
	"fmt"
	"maps"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

var (
	ErrThemeNotFound   = errors.New("render: theme not found")
	ErrVariantNotFound = errors.New("render: theme variant not found")
)

// ThemeSet is an in-memory theme.ThemeSelector over a fixed list of
// manifests. The first manifest is the default theme unless one is named.
type ThemeSet struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

// NewThemeSet registers manifests by name. defaultVariant is used when a
// selection names no variant; empty means the base manifest.
func NewThemeSet(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ThemeSet, error) {
	set := &ThemeSet{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, m := range manifests {
		if m == nil || strings.TrimSpace(m.Name) == "" {
			return nil, errors.New("render: theme manifest requires a name")
		}
		if _, exists := set.manifests[m.Name]; exists {
			return nil, fmt.Errorf("render: theme %q registered twice", m.Name)
		}
		set.manifests[m.Name] = m
		if set.defaultTheme == "" {
			set.defaultTheme = m.Name
		}
	}
	if _, ok := set.manifests[set.defaultTheme]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, set.defaultTheme)
	}
	return set, nil
}

// MustThemeSet is NewThemeSet for built-in manifests.
func MustThemeSet(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) *ThemeSet {
	set, err := NewThemeSet(defaultTheme, defaultVariant, manifests...)
	if err != nil {
		panic(err)
	}
	return set
}

// Select returns the named theme and variant, falling back to the defaults
// for empty names.
func (s *ThemeSet) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrThemeNotFound, name, strings.Join(s.Names(), ", "))
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrVariantNotFound, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Names lists the registered themes, sorted.
func (s *ThemeSet) Names() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveTheme selects a theme and flattens it into the configuration
// renderers read from Options.Theme.
func ResolveTheme(selector theme.ThemeSelector, name, variant string, fallbacks map[string]string) (*theme.RendererConfig, error) {
	if selector == nil {
		return nil, errors.New("render: theme selector is nil")
	}
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return ThemeConfig(selection, fallbacks), nil
}

// ThemeConfig merges fallback partials, manifest values and variant
// overrides, in that order. Every token is also exposed as a --token CSS
// custom property.
func ThemeConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
	}
	if cfg.Partials == nil {
		cfg.Partials = map[string]string{}
	}

	prefix := ""
	files := map[string]string{}
	if m := selection.Manifest; m != nil {
		maps.Copy(cfg.Tokens, m.Tokens)
		maps.Copy(cfg.Partials, m.Templates)
		prefix = m.Assets.Prefix
		maps.Copy(files, m.Assets.Files)
		if v, ok := m.Variants[selection.Variant]; ok {
			maps.Copy(cfg.Tokens, v.Tokens)
			maps.Copy(cfg.Partials, v.Templates)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
			maps.Copy(files, v.Assets.Files)
		}
	}

	cfg.CSSVars = make(map[string]string, len(cfg.Tokens))
	for k, v := range cfg.Tokens {
		cfg.CSSVars["--"+k] = v
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + path.Clean(file)
	}
	return cfg
}
