package loader

import (
	"errors"
	"io"
)

func loadReader(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("loader: reader is nil")
	}
	return io.ReadAll(r)
}
