package loader

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// ErrUnsupportedSource is returned for source kinds a loader cannot read.
var ErrUnsupportedSource = errors.New("loader: unsupported source")

// Source identifies where an Aspect Model is loaded from.
type Source interface {
	Location() string
	Kind() SourceKind
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindURN    SourceKind = "urn"
	SourceKindFile   SourceKind = "file"
	SourceKindReader SourceKind = "reader"
	SourceKindURL    SourceKind = "url"
)

// URNSource is resolved through a resolution strategy.
type URNSource struct {
	urn urn.URN
}

func (s URNSource) Location() string { return s.urn.String() }
func (s URNSource) Kind() SourceKind { return SourceKindURN }

// URN returns the aspect URN to resolve.
func (s URNSource) URN() urn.URN { return s.urn }

// SourceFromURN returns a Source for an aspect URN.
func SourceFromURN(u urn.URN) Source {
	return URNSource{urn: u}
}

// fileSource identifies on-disk Turtle files.
type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

// ReaderSource wraps an already opened stream. It can be loaded once.
type ReaderSource struct {
	name string
	r    io.Reader
}

func (s ReaderSource) Location() string { return s.name }
func (s ReaderSource) Kind() SourceKind { return SourceKindReader }

// Reader returns the wrapped stream.
func (s ReaderSource) Reader() io.Reader { return s.r }

// SourceFromReader returns a Source reading Turtle from r. name is used in
// error messages and as the model file location.
func SourceFromReader(name string, r io.Reader) Source {
	if name == "" {
		name = "stream"
	}
	return ReaderSource{name: name, r: r}
}

// urlSource references an HTTP/HTTPS endpoint.
type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("loader: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("loader: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// ParseSource interprets a command line argument: "urn:samm:..." is a URN,
// "http(s)://..." a URL, "-" standard input and anything else a file path.
func ParseSource(arg string) (Source, error) {
	switch {
	case arg == "":
		return nil, fmt.Errorf("%w: empty input", ErrUnsupportedSource)
	case arg == "-":
		return SourceFromReader("stdin", os.Stdin), nil
	case strings.HasPrefix(arg, urn.Scheme), strings.HasPrefix(arg, urn.LegacyScheme):
		u, err := urn.Parse(arg)
		if err != nil {
			return nil, err
		}
		if u.Name == "" {
			return nil, fmt.Errorf("%w: urn %s names no element", ErrUnsupportedSource, arg)
		}
		return SourceFromURN(u), nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		if _, err := url.ParseRequestURI(arg); err != nil {
			return nil, fmt.Errorf("loader: invalid URL %q: %w", arg, err)
		}
		return urlSource{raw: arg}, nil
	default:
		return SourceFromFile(arg), nil
	}
}
