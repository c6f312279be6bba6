package orchestrator

import (
	"fmt"

	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/gocode"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/markdown"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/openapi"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/turtle"
)

// DefaultRegistry returns a registry holding every built-in renderer.
func DefaultRegistry() (*render.Registry, error) {
	payload := jsonpayload.New()

	html, err := docs.New(docs.WithPayloadRenderer(payload))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	md, err := markdown.New(html)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	return render.NewRegistry(
		payload,
		html,
		md,
		openapi.New(),
		turtle.New(),
		gocode.New(gocode.WithPayloadRenderer(payload)),
	), nil
}

// MustDefaultRegistry is DefaultRegistry for callers that treat a broken
// embedded template as fatal.
func MustDefaultRegistry() *render.Registry {
	registry, err := DefaultRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}
