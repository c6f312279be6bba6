package aspectmodel

import (
	"context"

	internalloader "github.com/goliatone/go-aspectmodel/internal/loader"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/orchestrator"
	"github.com/goliatone/go-aspectmodel/pkg/resolver"
)

// NewLoader constructs a loader using the internal implementation while
// keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgloader.Option) pkgloader.Loader {
	return internalloader.New(pkgloader.NewOptions(options...))
}

// NewModelsLoader returns a loader resolving URNs against a models root laid
// out as <namespace>/<version>/<Name>.ttl.
func NewModelsLoader(modelsDir string, options ...pkgloader.Option) pkgloader.Loader {
	opts := append([]pkgloader.Option{pkgloader.WithStrategy(resolver.FileSystem(modelsDir))}, options...)
	return NewLoader(opts...)
}

// Load reads a model and returns it together with its selected aspect.
// An empty aspect name selects the only root aspect.
func Load(ctx context.Context, loader pkgloader.Loader, source Source, aspect string) (*AspectModel, *Aspect, error) {
	model, err := loader.Load(ctx, source)
	if err != nil {
		return nil, nil, err
	}
	selected, err := orchestrator.SelectAspect(model, aspect)
	if err != nil {
		return nil, nil, err
	}
	return model, selected, nil
}
