package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

// Options describe per-request settings renderers can use without mutating
// the loaded model.
type Options struct {
	// Locale selects the language of names, descriptions and labels (BCP 47).
	// Empty means English.
	Locale string
	// Seed makes generated sample values reproducible. Zero seeds from the
	// clock.
	Seed int64
	// Values overrides generated payload values keyed by dotted payload path
	// (e.g. "partTypeInformation.classification").
	Values map[string]any
	// Format selects an output variant where a renderer supports more than
	// one (openapi: "json" or "yaml").
	Format string
	// Model is the model the aspect was loaded from. Renderers that need the
	// source files or sibling elements read it from here.
	Model *metamodel.AspectModel
	// Translator resolves UI labels. Nil uses the built-in catalog.
	Translator Translator
	// OnMissing controls the string used when a label has no translation.
	OnMissing MissingTranslationHandler
	// Theme carries resolved theme tokens, partials and assets. Nil keeps
	// the renderer's built-in look.
	Theme *theme.RendererConfig
}

// LocaleOrDefault returns Locale, or "en" when unset.
func (o Options) LocaleOrDefault() string {
	if o.Locale == "" {
		return "en"
	}
	return o.Locale
}
