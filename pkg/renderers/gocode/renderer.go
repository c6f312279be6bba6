package gocode

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/goliatone/go-aspectmodel/internal/naming"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/openapi"
)

//go:embed templates/file.go.tmpl
var templates embed.FS

var fileTemplate = template.Must(template.ParseFS(templates, "templates/file.go.tmpl"))

type Option func(*Renderer)

// WithPackage sets the package clause of generated files. Defaults to the
// lower cased aspect name.
func WithPackage(name string) Option {
	return func(r *Renderer) {
		r.pkg = name
	}
}

// WithMockHelpers adds a sample response and a mock server stub for the
// aspect's GET endpoint.
func WithMockHelpers(enabled bool) Option {
	return func(r *Renderer) {
		r.mock = enabled
	}
}

// WithPayloadRenderer sets the renderer producing the mock sample body.
func WithPayloadRenderer(renderer *jsonpayload.Renderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.payload = renderer
		}
	}
}

// Renderer generates Go data types with static meta descriptions for an
// aspect.
type Renderer struct {
	pkg     string
	mock    bool
	payload *jsonpayload.Renderer
}

func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.payload == nil {
		r.payload = jsonpayload.New()
	}
	return r
}

func (r *Renderer) Name() string {
	return "gocode"
}

func (r *Renderer) ContentType() string {
	return "text/x-go; charset=utf-8"
}

// FileName is the conventional file name for the aspect's generated code.
func FileName(aspect *metamodel.Aspect) string {
	return naming.Snake(aspect.Name) + ".go"
}

// PackageName derives a package name from the aspect name.
func PackageName(aspect *metamodel.Aspect) string {
	return strings.ToLower(naming.Pascal(aspect.Name))
}

func (r *Renderer) Render(ctx context.Context, aspect *metamodel.Aspect, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if aspect == nil {
		return nil, errors.New("gocode renderer: aspect is nil")
	}
	pkg := r.pkg
	if pkg == "" {
		pkg = PackageName(aspect)
	}

	f := newBuilder(pkg, aspect.IRI).build(aspect)
	if r.mock {
		sample, err := r.payload.Render(ctx, aspect, options)
		if err != nil {
			return nil, fmt.Errorf("gocode renderer: sample payload: %w", err)
		}
		f.Mock = &mockDecl{
			Operation: naming.Pascal(openapi.OperationID(aspect)),
			Path:      openapi.ResourcePath(aspect),
			Sample:    stringLiteral(string(sample)),
		}
		f.Imports = append(f.Imports, mockserverImport)
		sort.Strings(f.Imports)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("gocode renderer: execute template: %w", err)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("gocode renderer: format generated source: %w", err)
	}
	return out, nil
}

// stringLiteral prefers a raw string literal for readability.
func stringLiteral(s string) string {
	if strings.ContainsAny(s, "`\r") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

var _ render.Renderer = (*Renderer)(nil)
