// Package aspectmodel loads SAMM Aspect Models and turns them into sample
// JSON payloads, HTML documentation and other artifacts.
//
// The sub packages hold the building blocks (pkg/loader, pkg/resolver,
// pkg/orchestrator, pkg/renderers/...); this package wires them for the
// common cases.
package aspectmodel

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/orchestrator"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
)

// Options are the per-request render settings (locale, seed, value
// overrides).
type Options = render.Options

// AspectModel is a loaded model with every file it references.
type AspectModel = metamodel.AspectModel

// Aspect is the root element of a model.
type Aspect = metamodel.Aspect

// Source identifies where a model is read from.
type Source = pkgloader.Source

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads source, selects aspect (empty picks the only root aspect)
// and renders it with the named renderer.
func Generate(ctx context.Context, source Source, aspect, renderer string, opts Options, options ...orchestrator.Option) ([]byte, error) {
	res, err := orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:   source,
		Aspect:   aspect,
		Renderer: renderer,
		Options:  opts,
	})
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

// GenerateJSON returns a pretty printed sample payload for the aspect.
func GenerateJSON(ctx context.Context, source Source, aspect string, opts Options, options ...orchestrator.Option) (string, error) {
	out, err := Generate(ctx, source, aspect, "json", opts, options...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// GenerateHTML renders the aspect's HTML documentation.
func GenerateHTML(ctx context.Context, source Source, aspect string, opts Options, options ...orchestrator.Option) ([]byte, error) {
	return Generate(ctx, source, aspect, "html", opts, options...)
}

// WriteHTML renders the documentation of an already loaded aspect into
// dir/<AspectName>.html, creating dir when needed, and returns the path.
func WriteHTML(ctx context.Context, model *AspectModel, aspect *Aspect, dir string, opts Options) (string, error) {
	renderer, err := docs.New()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("aspectmodel: create %s: %w", dir, err)
	}
	if opts.Model == nil {
		opts.Model = model
	}

	path := filepath.Join(dir, docs.FileName(aspect))
	open := func(name string) (io.Writer, error) {
		return os.Create(filepath.Join(dir, name))
	}
	if err := renderer.GenerateTo(ctx, aspect, open, opts); err != nil {
		return "", err
	}
	return path, nil
}
