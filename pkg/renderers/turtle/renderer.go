package turtle

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/rdf"
	"github.com/goliatone/go-aspectmodel/pkg/render"
)

// Renderer pretty prints the Turtle file that defines an aspect, keeping its
// prefixes.
type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string {
	return "turtle"
}

func (r *Renderer) ContentType() string {
	return "text/turtle; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, aspect *metamodel.Aspect, options render.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if aspect == nil {
		return nil, errors.New("turtle renderer: aspect is nil")
	}
	if options.Model == nil {
		return nil, errors.New("turtle renderer: options.Model is required")
	}
	file, ok := options.Model.DefiningFile(aspect.IRI)
	if !ok {
		return nil, fmt.Errorf("turtle renderer: no file defines %s", aspect.IRI)
	}

	w := rdf.NewTurtleWriter()
	if version := metaModelVersion(file); version != "" {
		w.SetPrefixes(metamodel.PrefixesFor(version))
	}
	w.SetPrefixes(file.Prefixes)
	return []byte(w.Format(file.Graph)), nil
}

// metaModelVersion reads the version from the samm prefix of file.
func metaModelVersion(file *metamodel.ModelFile) string {
	for _, iri := range file.Prefixes {
		if part, version, _, ok := metamodel.SplitMetaModelIRI(iri); ok && part == metamodel.PartMetaModel {
			return version
		}
	}
	return ""
}

var _ render.Renderer = (*Renderer)(nil)
