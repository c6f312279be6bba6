package jsonpayload

import (
	"context"
	"fmt"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
)

const defaultMaxDepth = 8

type Option func(*config)

type config struct {
	maxDepth int
	indent   string
}

// WithMaxDepth bounds how deep nested entities are expanded.
func WithMaxDepth(depth int) Option {
	return func(cfg *config) {
		if depth > 0 {
			cfg.maxDepth = depth
		}
	}
}

// WithIndent sets the indentation of the rendered JSON. Empty renders
// compact output.
func WithIndent(indent string) Option {
	return func(cfg *config) {
		cfg.indent = indent
	}
}

// Renderer generates sample JSON payloads that conform to an aspect.
type Renderer struct {
	maxDepth int
	indent   string
}

// New constructs the payload renderer applying any provided options.
func New(options ...Option) *Renderer {
	cfg := config{maxDepth: defaultMaxDepth, indent: "  "}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Renderer{maxDepth: cfg.maxDepth, indent: cfg.indent}
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// Generate builds the payload object. Example values are used where the
// model provides them; everything else is generated from characteristics
// and constraints.
func (r *Renderer) Generate(aspect *metamodel.Aspect, options render.Options) (*Object, error) {
	if aspect == nil {
		return nil, fmt.Errorf("json renderer: aspect is nil")
	}
	gen := newGenerator(options.Seed, r.maxDepth, options.Values)
	obj, err := gen.properties(aspect.Properties, "", 0)
	if err != nil {
		return nil, fmt.Errorf("json renderer: %s: %w", aspect.Name, err)
	}
	return obj, nil
}

func (r *Renderer) Render(ctx context.Context, aspect *metamodel.Aspect, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	obj, err := r.Generate(aspect, options)
	if err != nil {
		return nil, err
	}
	out, err := Marshal(obj, r.indent)
	if err != nil {
		return nil, fmt.Errorf("json renderer: marshal payload: %w", err)
	}
	return out, nil
}

var _ render.Renderer = (*Renderer)(nil)
