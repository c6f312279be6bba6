package docs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	rendertemplate "github.com/goliatone/go-aspectmodel/pkg/render/template"
	"github.com/goliatone/go-aspectmodel/pkg/render/template/pongo"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
)

const pageTemplate = "templates/aspect"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
	payload          *jsonpayload.Renderer
	omitPayload      bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must contain templates/aspect.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet replaces the inlined CSS.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = css
	}
}

// WithPayloadRenderer sets the renderer used for the example payload section.
func WithPayloadRenderer(renderer *jsonpayload.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.payload = renderer
		}
	}
}

// WithoutPayload drops the example payload section.
func WithoutPayload() Option {
	return func(cfg *config) {
		cfg.omitPayload = true
	}
}

// Renderer produces a standalone HTML page documenting an aspect.
type Renderer struct {
	templates   rendertemplate.TemplateRenderer
	stylesheet  string
	payload     *jsonpayload.Renderer
	omitPayload bool
}

// New constructs the documentation renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), stylesheet: defaultStylesheet()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.payload == nil {
		cfg.payload = jsonpayload.New()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithName("aspect-docs"),
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("docs renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:   renderer,
		stylesheet:  cfg.stylesheet,
		payload:     cfg.payload,
		omitPayload: cfg.omitPayload,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, aspect *metamodel.Aspect, options render.Options) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("docs renderer: template renderer is nil")
	}
	if aspect == nil {
		return nil, errors.New("docs renderer: aspect is nil")
	}

	translator := options.Translator
	if translator == nil {
		translator = render.DefaultCatalog
	}
	locale := render.MatchLocale(options.LocaleOrDefault(), supportedLocales(aspect, translator))

	doc := newViewBuilder(locale).aspect(aspect)
	doc.Stylesheet = r.stylesheet
	doc.Theme = newThemeView(options.Theme)
	doc.GeneratedFrom = "Generated from " + aspect.IRI
	if msg, err := translator.Translate(locale, "generatedFrom", aspect.IRI); err == nil && msg != "" {
		doc.GeneratedFrom = msg
	}

	if !r.omitPayload {
		payload, err := r.payload.Render(ctx, aspect, options)
		if err != nil {
			return nil, fmt.Errorf("docs renderer: example payload: %w", err)
		}
		doc.Payload = string(payload)
	}

	data := render.TemplateFuncs(translator, locale, options.OnMissing)
	data["doc"] = doc

	result, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("docs renderer: render template: %w", err)
	}
	return []byte(result), nil
}

// FileName is the name GenerateTo writes the aspect's page under.
func FileName(aspect *metamodel.Aspect) string {
	return aspect.Name + ".html"
}

// GenerateTo renders the aspect and writes it to the writer open returns for
// FileName(aspect). Writers implementing io.Closer are closed.
func (r *Renderer) GenerateTo(ctx context.Context, aspect *metamodel.Aspect, open func(name string) (io.Writer, error), options render.Options) error {
	if aspect == nil {
		return errors.New("docs renderer: aspect is nil")
	}
	if open == nil {
		return errors.New("docs renderer: output function is nil")
	}
	out, err := r.Render(ctx, aspect, options)
	if err != nil {
		return err
	}

	name := FileName(aspect)
	w, err := open(name)
	if err != nil {
		return fmt.Errorf("docs renderer: open %s: %w", name, err)
	}
	_, writeErr := w.Write(out)
	if closer, ok := w.(io.Closer); ok {
		if err := closer.Close(); err != nil && writeErr == nil {
			writeErr = err
		}
	}
	if writeErr != nil {
		return fmt.Errorf("docs renderer: write %s: %w", name, writeErr)
	}
	return nil
}

// supportedLocales lists the languages both labels and the model can serve,
// English first.
func supportedLocales(aspect *metamodel.Aspect, translator render.Translator) []string {
	out := []string{"en"}
	seen := map[string]bool{"en": true}
	add := func(langs []string) {
		for _, lang := range langs {
			if !seen[lang] {
				seen[lang] = true
				out = append(out, lang)
			}
		}
	}
	add(aspect.Languages())
	if catalog, ok := translator.(render.Catalog); ok {
		add(catalog.Languages())
	}
	return out
}

var _ render.Renderer = (*Renderer)(nil)
