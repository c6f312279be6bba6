package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// DefaultPattern matches every Turtle file below a models root.
const DefaultPattern = "**/*.ttl"

type fileSystem struct {
	fs     afs.Service
	base   string
	logger *slog.Logger
}

// FileSystem resolves URNs below a models root laid out as
// <root>/<namespace>/<version>/<Name>.ttl. base may be a plain path or any
// URL afs understands (file://, mem://, s3://, ...).
func FileSystem(base string, opts ...Option) Strategy {
	o := newOptions(opts)
	return &fileSystem{
		fs:     afs.New(),
		base:   normalizeBase(base),
		logger: o.logger,
	}
}

func normalizeBase(base string) string {
	if base == "" {
		base = "."
	}
	return strings.TrimSuffix(url.Normalize(base, file.Scheme), "/")
}

func (s *fileSystem) Name() string {
	return "filesystem(" + s.base + ")"
}

func (s *fileSystem) Resolve(ctx context.Context, u urn.URN) (Resolution, error) {
	select {
	case <-ctx.Done():
		return Resolution{}, ctx.Err()
	default:
	}
	if u.Name == "" {
		return Resolution{}, fmt.Errorf("resolver: urn %s names no element", u.String())
	}

	candidate := url.Join(s.base, relativePath(u))
	ok, err := s.fs.Exists(ctx, candidate)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolver: stat %s: %w", candidate, err)
	}
	if ok {
		data, err := s.fs.DownloadWithURL(ctx, candidate)
		if err != nil {
			return Resolution{}, fmt.Errorf("resolver: read %s: %w", candidate, err)
		}
		s.logger.Debug("resolved model by file name", "urn", u.String(), "location", candidate)
		return Resolution{Location: candidate, Content: data}, nil
	}

	dir := url.Join(s.base, path.Join(u.Namespace, u.Version))
	ok, err = s.fs.Exists(ctx, dir)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolver: stat %s: %w", dir, err)
	}
	if !ok {
		return Resolution{}, notFound(u, s.base)
	}
	objects, err := s.fs.List(ctx, dir)
	if err != nil {
		return Resolution{}, fmt.Errorf("resolver: list %s: %w", dir, err)
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Name() < objects[j].Name() })
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".ttl") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			s.logger.Debug("skipping unreadable model file", "location", object.URL(), "error", err)
			continue
		}
		if Defines(data, u) {
			s.logger.Debug("resolved model by content scan", "urn", u.String(), "location", object.URL())
			return Resolution{Location: object.URL(), Content: data}, nil
		}
	}
	return Resolution{}, notFound(u, s.base)
}

// Models lists the model files below base whose path relative to base
// matches the doublestar pattern. An empty pattern means DefaultPattern.
func Models(ctx context.Context, base, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("resolver: invalid pattern %q", pattern)
	}
	root := normalizeBase(base)
	service := afs.New()
	objects, err := service.List(ctx, root, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("resolver: list %s: %w", root, err)
	}

	rootPath := url.Path(root)
	var out []string
	for _, object := range objects {
		if object.IsDir() {
			continue
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(url.Path(object.URL()), rootPath), "/")
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return nil, fmt.Errorf("resolver: match %q: %w", pattern, err)
		}
		if ok {
			out = append(out, object.URL())
		}
	}
	sort.Strings(out)
	return out, nil
}
