package render

import (
	"context"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

// Renderer turns an aspect into an artifact (JSON payload, HTML, OpenAPI,
// Go source, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, aspect *metamodel.Aspect, options Options) ([]byte, error)
}
