package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	internalloader "github.com/goliatone/go-aspectmodel/internal/loader"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
)

const (
	defaultRendererName = "json"
	tracerName          = "github.com/goliatone/go-aspectmodel/pkg/orchestrator"
)

var (
	// ErrAspectNotFound is returned when the requested aspect is not part of
	// the model.
	ErrAspectNotFound = errors.New("orchestrator: aspect not found")
	// ErrAmbiguousAspect is returned when no aspect was requested and the
	// model defines more than one root aspect.
	ErrAmbiguousAspect = errors.New("orchestrator: aspect is ambiguous")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom model loader.
func WithLoader(loader pkgloader.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers transformers run against the selected aspect
// before rendering, in registration order.
func WithTransformer(transformers ...Transformer) Option {
	return func(o *Orchestrator) {
		for _, t := range transformers {
			if t != nil {
				o.transformers = append(o.transformers, t)
			}
		}
	}
}

// WithTracerProvider sets the provider spans are recorded with. Defaults to
// the global provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *Orchestrator) {
		o.tracerProvider = provider
	}
}

// WithThemeSelector resolves a go-theme selection before rendering and
// hands renderers the flattened tokens, partials and assets through
// render.Options.Theme.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithTheme sets the theme and variant used when a request names none.
func WithTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithThemeFallbacks replaces the partials used when the selected theme
// does not provide them. Defaults to docs.DefaultPartials.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// Orchestrator coordinates the full pipeline from model source to rendered
// artifact. It applies defaults (file system loader, JSON payload renderer)
// while remaining open to dependency injection.
type Orchestrator struct {
	loader          pkgloader.Loader
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	themeSelector   theme.ThemeSelector
	themeName       string
	themeVariant    string
	themeFallbacks  map[string]string
	tracerProvider  trace.TracerProvider
	tracer          trace.Tracer
	logger          *slog.Logger
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs of one generation.
type Request struct {
	// Source identifies where the model lives. Optional when Model is set.
	Source pkgloader.Source

	// Model bypasses the loader when the caller already holds a model.
	Model *metamodel.AspectModel

	// Aspect selects the aspect by name or URN. When empty the single root
	// aspect of the model is used.
	Aspect string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant override the configured theme for this
	// request. Ignored without a theme selector.
	ThemeName    string
	ThemeVariant string

	// Options are passed to the renderer. Options.Model defaults to the
	// loaded model.
	Options render.Options
}

// Result is the outcome of Generate.
type Result struct {
	Model       *metamodel.AspectModel
	Aspect      *metamodel.Aspect
	Renderer    string
	ContentType string
	Output      []byte
}

// Generate executes the loader → aspect selection → transformers → renderer
// sequence.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, span := o.tracer.Start(ctx, "aspectmodel.generate")
	defer span.End()

	result, err := o.generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("aspect.urn", result.Aspect.IRI),
		attribute.String("renderer", result.Renderer),
		attribute.Int("output.bytes", len(result.Output)),
	)
	span.SetStatus(codes.Ok, "")
	return result, nil
}

func (o *Orchestrator) generate(ctx context.Context, req Request) (*Result, error) {
	model, err := o.resolveModel(ctx, req)
	if err != nil {
		return nil, err
	}

	aspect, err := o.selectAspect(ctx, model, req.Aspect)
	if err != nil {
		return nil, err
	}

	aspect, err = o.applyTransformers(ctx, model, aspect)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.Options
	if options.Model == nil {
		options.Model = model
	}
	if options.Theme == nil && o.themeSelector != nil {
		options.Theme, err = o.resolveTheme(req)
		if err != nil {
			return nil, err
		}
	}

	ctx, span := o.tracer.Start(ctx, "aspectmodel.render", trace.WithAttributes(attribute.String("renderer", renderer.Name())))
	output, err := renderer.Render(ctx, aspect, options)
	endSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	o.logger.Debug("aspect rendered", "aspect", aspect.IRI, "renderer", renderer.Name(), "bytes", len(output))
	return &Result{
		Model:       model,
		Aspect:      aspect,
		Renderer:    renderer.Name(),
		ContentType: renderer.ContentType(),
		Output:      output,
	}, nil
}

// Load runs only the loading stage.
func (o *Orchestrator) Load(ctx context.Context, src pkgloader.Source) (*metamodel.AspectModel, error) {
	return o.resolveModel(ctx, Request{Source: src})
}

func (o *Orchestrator) resolveModel(ctx context.Context, req Request) (*metamodel.AspectModel, error) {
	if req.Model != nil {
		return req.Model, nil
	}
	if req.Source == nil {
		return nil, errors.New("orchestrator: source or model is required")
	}

	ctx, span := o.tracer.Start(ctx, "aspectmodel.load", trace.WithAttributes(
		attribute.String("source.kind", string(req.Source.Kind())),
		attribute.String("source.location", req.Source.Location()),
	))
	model, err := o.loader.Load(ctx, req.Source)
	endSpan(span, err)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load model: %w", err)
	}
	return model, nil
}

func (o *Orchestrator) selectAspect(ctx context.Context, model *metamodel.AspectModel, name string) (*metamodel.Aspect, error) {
	_, span := o.tracer.Start(ctx, "aspectmodel.select")
	aspect, err := SelectAspect(model, name)
	endSpan(span, err)
	return aspect, err
}

// SelectAspect finds an aspect by URN or name. An empty name selects the
// only root aspect, or the only aspect when the model has no root file.
func SelectAspect(model *metamodel.AspectModel, name string) (*metamodel.Aspect, error) {
	if model == nil {
		return nil, errors.New("orchestrator: model is nil")
	}
	name = strings.TrimSpace(name)
	if name != "" {
		if aspect, ok := model.Aspect(name); ok {
			return aspect, nil
		}
		for _, aspect := range model.Aspects() {
			if aspect.Name == name {
				return aspect, nil
			}
		}
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrAspectNotFound, name, strings.Join(aspectNames(model.Aspects()), ", "))
	}

	candidates := model.RootAspects()
	if len(candidates) == 0 {
		candidates = model.Aspects()
	}
	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: model defines no aspect", ErrAspectNotFound)
	case 1:
		return candidates[0], nil
	}
	return nil, fmt.Errorf("%w: choose one of %s", ErrAmbiguousAspect, strings.Join(aspectNames(candidates), ", "))
}

func aspectNames(aspects []*metamodel.Aspect) []string {
	names := make([]string, 0, len(aspects))
	for _, a := range aspects {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// applyTransformers runs the transformers on a copy of the aspect so a
// model passed in through Request.Model renders the same on every call.
func (o *Orchestrator) applyTransformers(ctx context.Context, model *metamodel.AspectModel, aspect *metamodel.Aspect) (*metamodel.Aspect, error) {
	if len(o.transformers) == 0 {
		return aspect, nil
	}
	working := metamodel.CloneAspect(aspect)
	for _, t := range o.transformers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := t.Transform(ctx, model, working); err != nil {
			return nil, fmt.Errorf("orchestrator: transform aspect: %w", err)
		}
	}
	return working, nil
}

func (o *Orchestrator) resolveTheme(req Request) (*theme.RendererConfig, error) {
	name, variant := req.ThemeName, req.ThemeVariant
	if name == "" {
		name = o.themeName
	}
	if variant == "" {
		variant = o.themeVariant
	}
	fallbacks := o.themeFallbacks
	if fallbacks == nil {
		fallbacks = docs.DefaultPartials()
	}
	cfg, err := render.ResolveTheme(o.themeSelector, name, variant, fallbacks)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return cfg, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.loader == nil {
		o.loader = internalloader.New(pkgloader.NewOptions(pkgloader.WithLogger(o.logger)))
	}
	if o.registry == nil {
		o.registry = MustDefaultRegistry()
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	o.tracer = o.tracerProvider.Tracer(tracerName)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}


