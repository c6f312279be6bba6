package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-aspectmodel/internal/naming"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.3"

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Option func(*config)

type config struct {
	serverURL string
	payload   *jsonpayload.Renderer
}

// WithServerURL adds a server entry to generated documents.
func WithServerURL(url string) Option {
	return func(cfg *config) {
		cfg.serverURL = url
	}
}

// WithPayloadRenderer sets the renderer producing response examples.
func WithPayloadRenderer(renderer *jsonpayload.Renderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.payload = renderer
		}
	}
}

// Renderer produces an OpenAPI document exposing the aspect under a GET
// endpoint.
type Renderer struct {
	serverURL string
	payload   *jsonpayload.Renderer
}

func New(options ...Option) *Renderer {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.payload == nil {
		cfg.payload = jsonpayload.New(jsonpayload.WithIndent(""))
	}
	return &Renderer{serverURL: cfg.serverURL, payload: cfg.payload}
}

func (r *Renderer) Name() string {
	return "openapi"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

// ResourcePath is the path the aspect is served under (/part-as-planned).
func ResourcePath(aspect *metamodel.Aspect) string {
	return "/" + naming.Kebab(aspect.Name)
}

// OperationID names the GET operation for the aspect.
func OperationID(aspect *metamodel.Aspect) string {
	return "get" + naming.Pascal(aspect.Name)
}

// Document builds and validates the OpenAPI document of aspect.
func (r *Renderer) Document(ctx context.Context, aspect *metamodel.Aspect, options render.Options) (*openapi3.T, error) {
	if aspect == nil {
		return nil, errors.New("openapi renderer: aspect is nil")
	}
	lang := options.LocaleOrDefault()

	builder := newSchemaBuilder(lang)
	root := builder.object(&aspect.Base, aspect.Properties)
	root.Title = aspect.PreferredName(lang)
	builder.components[aspect.Name] = openapi3.NewSchemaRef("", root)
	rootRef := openapi3.NewSchemaRef(componentsPrefix+aspect.Name, root)

	sample, err := r.payload.Render(ctx, aspect, options)
	if err != nil {
		return nil, fmt.Errorf("openapi renderer: example payload: %w", err)
	}
	example, err := genericJSON(sample)
	if err != nil {
		return nil, fmt.Errorf("openapi renderer: example payload: %w", err)
	}

	content := openapi3.NewContentWithJSONSchemaRef(rootRef)
	content.Get("application/json").Example = example

	op := openapi3.NewOperation()
	op.OperationID = OperationID(aspect)
	op.Summary = aspect.PreferredName(lang)
	op.Description = aspect.Description(lang)
	op.Tags = []string{aspect.Name}
	op.AddResponse(http.StatusOK, openapi3.NewResponse().
		WithDescription("The "+aspect.PreferredName(lang)+" aspect.").
		WithContent(content))
	op.AddResponse(http.StatusNotFound, openapi3.NewResponse().WithDescription("Not found."))

	doc := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       aspect.PreferredName(lang),
			Description: aspect.Description(lang),
			Version:     infoVersion(aspect),
		},
		Paths:      openapi3.NewPaths(openapi3.WithPath(ResourcePath(aspect), &openapi3.PathItem{Get: op})),
		Components: &openapi3.Components{Schemas: builder.components},
	}
	if r.serverURL != "" {
		doc.Servers = openapi3.Servers{{URL: r.serverURL}}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi renderer: invalid document: %w", err)
	}
	return doc, nil
}

func (r *Renderer) Render(ctx context.Context, aspect *metamodel.Aspect, options render.Options) ([]byte, error) {
	doc, err := r.Document(ctx, aspect, options)
	if err != nil {
		return nil, err
	}
	switch options.Format {
	case "", FormatJSON:
		out, err := jsonpayload.Marshal(doc, "  ")
		if err != nil {
			return nil, fmt.Errorf("openapi renderer: marshal json: %w", err)
		}
		return out, nil
	case FormatYAML:
		out, err := toYAML(doc)
		if err != nil {
			return nil, fmt.Errorf("openapi renderer: marshal yaml: %w", err)
		}
		return out, nil
	}
	return nil, fmt.Errorf("openapi renderer: unsupported format %q", options.Format)
}

// toYAML goes through JSON so the YAML keeps the document's key order.
func toYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

// clearStyle drops the flow style JSON input leaves on every node.
func clearStyle(node *yaml.Node) {
	node.Style &^= yaml.FlowStyle
	for _, child := range node.Content {
		clearStyle(child)
	}
}

func infoVersion(aspect *metamodel.Aspect) string {
	if aspect.URN.Version != "" {
		return aspect.URN.Version
	}
	return "1.0.0"
}

var _ render.Renderer = (*Renderer)(nil)
