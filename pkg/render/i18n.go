package render

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrMissingTranslator is reported to MissingTranslationHandler when no
	// translator is configured.
	ErrMissingTranslator = errors.New("render: translator not configured")
	// ErrMissingTranslation is returned by Catalog for unknown keys.
	ErrMissingTranslation = errors.New("render: translation missing")
)

// Translator resolves UI labels for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler produces the text used when a key cannot be
// translated.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

func missingTranslationDefault(_ string, key string, args []any, _ error) string {
	if len(args) > 0 {
		if m, ok := args[0].(map[string]any); ok {
			if def, ok := m["default"].(string); ok && strings.TrimSpace(def) != "" {
				return def
			}
		}
	}
	return key
}

// Catalog is an in-memory Translator keyed by language tag then message key.
// Messages may contain fmt verbs filled from the translate arguments.
type Catalog map[string]map[string]string

// Translate looks the key up in the best matching language of the catalog.
func (c Catalog) Translate(locale, key string, args ...any) (string, error) {
	lang := MatchLocale(locale, c.Languages())
	msg, ok := c[lang][key]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...), nil
	}
	return msg, nil
}

// Languages returns the catalog languages, English first when present.
func (c Catalog) Languages() []string {
	out := make([]string, 0, len(c))
	for lang := range c {
		out = append(out, lang)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i] == "en" || out[j] == "en" {
			return out[i] == "en"
		}
		return out[i] < out[j]
	})
	return out
}

// MatchLocale picks the supported language closest to requested using BCP 47
// matching. The first supported entry is the fallback.
func MatchLocale(requested string, supported []string) string {
	tags := make([]language.Tag, 0, len(supported))
	names := make([]string, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		names = append(names, s)
	}
	if len(tags) == 0 {
		return requested
	}
	req, err := language.Parse(requested)
	if err != nil {
		return names[0]
	}
	_, idx, conf := language.NewMatcher(tags).Match(req)
	if conf == language.No {
		return names[0]
	}
	return names[idx]
}

// Translate resolves key through t, falling back to onMissing and then to
// fallback.
func Translate(t Translator, locale, key, fallback string, onMissing MissingTranslationHandler) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return fallback
	}
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if t == nil {
		return onMissing(locale, key, []any{map[string]any{"default": fallback}}, ErrMissingTranslator)
	}
	result, err := t.Translate(locale, key)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	return onMissing(locale, key, []any{map[string]any{"default": fallback}}, err)
}

// TemplateFuncs returns helpers for template engines bound to one locale:
// translate(key) and current_locale().
func TemplateFuncs(t Translator, locale string, onMissing MissingTranslationHandler) map[string]any {
	return map[string]any{
		"translate": func(key string) string {
			return Translate(t, locale, key, key, onMissing)
		},
		"current_locale": func() string {
			return locale
		},
	}
}

// DefaultCatalog holds the labels used by the documentation renderers.
var DefaultCatalog = Catalog{
	"en": {
		"toc":                   "Table of contents",
		"overview":              "Overview",
		"properties":            "Properties",
		"entities":              "Entities",
		"operations":            "Operations",
		"events":                "Events",
		"characteristic":        "Characteristic",
		"constraints":           "Constraints",
		"dataType":              "Data type",
		"example":               "Example",
		"exampleValue":          "Example value",
		"payloadName":           "Payload name",
		"optional":              "Optional",
		"notInPayload":          "Not in payload",
		"values":                "Values",
		"defaultValue":          "Default value",
		"unit":                  "Unit",
		"see":                   "See",
		"description":           "Description",
		"name":                  "Name",
		"input":                 "Input",
		"output":                "Output",
		"parameters":            "Parameters",
		"yes":                   "yes",
		"no":                    "no",
		"generatedFrom":         "Generated from %s",
		"payloadExample":        "Example payload",
		"extends":               "Extends",
		"elementCharacteristic": "Element characteristic",
	},
	"de": {
		"toc":                   "Inhaltsverzeichnis",
		"overview":              "Übersicht",
		"properties":            "Eigenschaften",
		"entities":              "Entitäten",
		"operations":            "Operationen",
		"events":                "Ereignisse",
		"characteristic":        "Charakteristik",
		"constraints":           "Einschränkungen",
		"dataType":              "Datentyp",
		"example":               "Beispiel",
		"exampleValue":          "Beispielwert",
		"payloadName":           "Payload-Name",
		"optional":              "Optional",
		"notInPayload":          "Nicht im Payload",
		"values":                "Werte",
		"defaultValue":          "Standardwert",
		"unit":                  "Einheit",
		"see":                   "Siehe",
		"description":           "Beschreibung",
		"name":                  "Name",
		"input":                 "Eingabe",
		"output":                "Ausgabe",
		"parameters":            "Parameter",
		"yes":                   "ja",
		"no":                    "nein",
		"generatedFrom":         "Erzeugt aus %s",
		"payloadExample":        "Beispiel-Payload",
		"extends":               "Erweitert",
		"elementCharacteristic": "Element-Charakteristik",
	},
}
