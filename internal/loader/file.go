package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
)

func loadFile(ctx context.Context, path string) (string, []byte, error) {
	if path == "" {
		return "", nil, errors.New("loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return "", nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, err
	}
	return abs, data, nil
}

// modelsRoot returns the directory three levels above a model file laid out
// as <root>/<namespace>/<version>/<file>.
func modelsRoot(abs string) string {
	return filepath.Dir(filepath.Dir(filepath.Dir(abs)))
}
