// Package resolver locates Aspect Model files for URNs that a model refers
// to but does not define.
package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// ErrNotFound is wrapped by every strategy when no model defines the URN.
var ErrNotFound = errors.New("resolver: model not found")

// Resolution is the content of the model file that defines an element.
type Resolution struct {
	Location string
	Content  []byte
}

// Strategy resolves an element URN to the Turtle document defining it.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, u urn.URN) (Resolution, error)
}

// Option configures the built-in strategies.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for resolution debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func notFound(u urn.URN, where string) error {
	return fmt.Errorf("%w: %s in %s", ErrNotFound, u.String(), where)
}

// relativePath returns <namespace>/<version>/<Name>.ttl.
func relativePath(u urn.URN) string {
	return u.Namespace + "/" + u.Version + "/" + u.Name + ".ttl"
}

// Defines reports whether a Turtle document declares u as a subject, either
// by full IRI or through a prefix bound to the URN's namespace.
func Defines(content []byte, u urn.URN) bool {
	full := "<" + u.String() + ">"
	if bytes.Contains(content, []byte(full)) && subjectPattern(regexp.QuoteMeta(full)).Match(content) {
		return true
	}
	for _, prefix := range prefixesFor(content, u.NamespaceIRI()) {
		name := regexp.QuoteMeta(prefix + ":" + u.Name)
		if subjectPattern(name).Match(content) {
			return true
		}
	}
	return false
}

var prefixDecl = regexp.MustCompile(`(?mi)^\s*@?prefix\s+([A-Za-z0-9_.-]*):\s*<([^>]*)>`)

func prefixesFor(content []byte, namespace string) []string {
	var out []string
	for _, m := range prefixDecl.FindAllSubmatch(content, -1) {
		if string(m[2]) == namespace {
			out = append(out, string(m[1]))
		}
	}
	return out
}

func subjectPattern(term string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*` + term + `(\s|$)`)
}

// Chain tries each strategy in order and returns the first success.
func Chain(strategies ...Strategy) Strategy {
	var filtered []Strategy
	for _, s := range strategies {
		if s != nil {
			filtered = append(filtered, s)
		}
	}
	return chain(filtered)
}

type chain []Strategy

func (c chain) Name() string {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name())
	}
	return "chain(" + strings.Join(names, ",") + ")"
}

func (c chain) Resolve(ctx context.Context, u urn.URN) (Resolution, error) {
	if len(c) == 0 {
		return Resolution{}, notFound(u, "empty chain")
	}
	var errs []error
	for _, s := range c {
		res, err := s.Resolve(ctx, u)
		if err == nil {
			return res, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Resolution{}, ctxErr
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
	}
	return Resolution{}, errors.Join(errs...)
}
