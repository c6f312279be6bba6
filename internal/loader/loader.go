// Package loader implements pkg/loader: it fetches a source, follows every
// model URN the source references through a resolution strategy and builds
// the resulting metamodel.
package loader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/goliatone/go-aspectmodel/internal/builder"
	"github.com/goliatone/go-aspectmodel/internal/turtle"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/rdf"
	"github.com/goliatone/go-aspectmodel/pkg/resolver"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// Loader implements pkgloader.Loader.
type Loader struct {
	strategy  resolver.Strategy
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	validate  bool
	maxFiles  int
	logger    *slog.Logger
}

// Ensure the implementation satisfies the public interface.
var _ pkgloader.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options pkgloader.Options) pkgloader.Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxFiles := options.MaxFiles
	if maxFiles <= 0 {
		maxFiles = pkgloader.DefaultMaxFiles
	}

	return &Loader{
		strategy:  options.Strategy,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		validate:  options.Validate,
		maxFiles:  maxFiles,
		logger:    logger,
	}
}

// Load fetches the source, resolves its references and builds the model.
func (l *Loader) Load(ctx context.Context, src pkgloader.Source) (*metamodel.AspectModel, error) {
	if src == nil {
		return nil, errors.New("loader: source is nil")
	}

	location, data, err := l.fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("loader: load %s: %w", src.Location(), err)
	}
	root, err := parseFile(location, data)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loaded model file", "location", location, "triples", root.Graph.Len())

	files, err := l.resolve(ctx, []*metamodel.ModelFile{root}, l.strategyFor(src, location))
	if err != nil {
		return nil, err
	}

	model, err := builder.Build(files)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if l.validate {
		if errs := metamodel.Validate(model); errs != nil {
			return nil, errs
		}
	}
	return model, nil
}

func (l *Loader) fetch(ctx context.Context, src pkgloader.Source) (string, []byte, error) {
	switch src.Kind() {
	case pkgloader.SourceKindURN:
		s, ok := src.(pkgloader.URNSource)
		if !ok {
			return "", nil, pkgloader.ErrUnsupportedSource
		}
		if l.strategy == nil {
			return "", nil, errors.New("no resolution strategy configured for urn sources")
		}
		res, err := l.strategy.Resolve(ctx, s.URN())
		if err != nil {
			return "", nil, err
		}
		return res.Location, res.Content, nil
	case pkgloader.SourceKindFile:
		return loadFile(ctx, src.Location())
	case pkgloader.SourceKindReader:
		s, ok := src.(pkgloader.ReaderSource)
		if !ok {
			return "", nil, pkgloader.ErrUnsupportedSource
		}
		data, err := loadReader(s.Reader())
		return src.Location(), data, err
	case pkgloader.SourceKindURL:
		if !l.allowHTTP {
			return "", nil, errors.New("http support disabled")
		}
		data, err := loadHTTP(ctx, l.http, src.Location(), l.timeout)
		return src.Location(), data, err
	default:
		return "", nil, fmt.Errorf("%w: %s", pkgloader.ErrUnsupportedSource, src.Kind())
	}
}

// strategyFor picks the strategy for references of src. File and URL sources
// without an explicit strategy resolve against their own models root.
func (l *Loader) strategyFor(src pkgloader.Source, location string) resolver.Strategy {
	if l.strategy != nil {
		return l.strategy
	}
	switch src.Kind() {
	case pkgloader.SourceKindFile:
		return resolver.FileSystem(modelsRoot(location), resolver.WithLogger(l.logger))
	case pkgloader.SourceKindURL:
		if root, ok := remoteRoot(location); ok && l.allowHTTP {
			return resolver.HTTP(root, l.http, resolver.WithLogger(l.logger))
		}
	}
	return nil
}

// resolve loads the files defining every referenced model element until no
// reference is left open.
func (l *Loader) resolve(ctx context.Context, files []*metamodel.ModelFile, strategy resolver.Strategy) ([]*metamodel.ModelFile, error) {
	loaded := map[string]bool{files[0].Location: true}
	for {
		missing := unresolved(files)
		if len(missing) == 0 {
			return files, nil
		}
		for _, iri := range missing {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if defines(files, iri) {
				continue
			}
			if strategy == nil {
				return nil, fmt.Errorf("loader: cannot resolve %s: no resolution strategy", iri)
			}
			u, err := urn.Parse(iri)
			if err != nil {
				return nil, fmt.Errorf("loader: %w", err)
			}
			l.logger.Debug("resolving model reference", "urn", iri, "strategy", strategy.Name())
			res, err := strategy.Resolve(ctx, u)
			if err != nil {
				return nil, fmt.Errorf("loader: resolve %s: %w", iri, err)
			}
			if loaded[res.Location] {
				return nil, fmt.Errorf("loader: %s does not define %s", res.Location, iri)
			}
			if len(files) >= l.maxFiles {
				return nil, fmt.Errorf("loader: more than %d model files referenced", l.maxFiles)
			}
			f, err := parseFile(res.Location, res.Content)
			if err != nil {
				return nil, err
			}
			if !f.Graph.Has(rdf.IRI(iri)) {
				return nil, fmt.Errorf("loader: %s does not define %s", res.Location, iri)
			}
			l.logger.Debug("loaded model file", "location", res.Location, "triples", f.Graph.Len())
			loaded[res.Location] = true
			files = append(files, f)
		}
	}
}

// unresolved returns the model element URNs referenced by files that no
// file defines. Meta model IRIs are never resolved.
func unresolved(files []*metamodel.ModelFile) []string {
	set := make(map[string]struct{})
	for _, f := range files {
		for _, iri := range f.Graph.ReferencedIRIs() {
			if !urn.IsModelIRI(iri) || defines(files, iri) {
				continue
			}
			if u, err := urn.Parse(iri); err != nil || u.IsMetaModel() {
				continue
			}
			set[iri] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for iri := range set {
		out = append(out, iri)
	}
	sort.Strings(out)
	return out
}

func defines(files []*metamodel.ModelFile, iri string) bool {
	subject := rdf.IRI(iri)
	for _, f := range files {
		if f.Graph.Has(subject) {
			return true
		}
	}
	return false
}

func parseFile(location string, data []byte) (*metamodel.ModelFile, error) {
	g, err := turtle.Parse(location, data)
	if err != nil {
		return nil, err
	}
	f := &metamodel.ModelFile{
		Location: location,
		Graph:    g,
		Prefixes: g.Prefixes,
		Content:  data,
	}
	for _, iri := range f.DefinedElements() {
		if u, err := urn.Parse(iri); err == nil && !u.IsMetaModel() {
			f.Namespace = u.WithName("")
			break
		}
	}
	return f, nil
}
