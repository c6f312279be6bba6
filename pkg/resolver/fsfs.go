package resolver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

type fsStrategy struct {
	files  fs.FS
	logger *slog.Logger
}

// FS resolves URNs against an io/fs filesystem using the same layout as
// FileSystem. Useful with embed.FS.
func FS(files fs.FS, opts ...Option) Strategy {
	o := newOptions(opts)
	return &fsStrategy{files: files, logger: o.logger}
}

func (s *fsStrategy) Name() string { return "fs" }

func (s *fsStrategy) Resolve(ctx context.Context, u urn.URN) (Resolution, error) {
	if s.files == nil {
		return Resolution{}, errors.New("resolver: filesystem is not configured")
	}
	select {
	case <-ctx.Done():
		return Resolution{}, ctx.Err()
	default:
	}

	name := relativePath(u)
	data, err := fs.ReadFile(s.files, name)
	if err == nil {
		s.logger.Debug("resolved model by file name", "urn", u.String(), "location", name)
		return Resolution{Location: name, Content: data}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return Resolution{}, fmt.Errorf("resolver: read %s: %w", name, err)
	}

	dir := path.Join(u.Namespace, u.Version)
	entries, err := fs.ReadDir(s.files, dir)
	if err != nil {
		return Resolution{}, notFound(u, "fs")
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".ttl") {
			continue
		}
		location := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(s.files, location)
		if err != nil {
			continue
		}
		if Defines(data, u) {
			s.logger.Debug("resolved model by content scan", "urn", u.String(), "location", location)
			return Resolution{Location: location, Content: data}, nil
		}
	}
	return Resolution{}, notFound(u, "fs")
}
