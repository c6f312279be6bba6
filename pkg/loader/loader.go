package loader

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/resolver"
)

// DefaultMaxFiles bounds transitive resolution of a single load.
const DefaultMaxFiles = 256

// Loader reads an Aspect Model and every model file it references.
// Implementations live under internal/loader but satisfy this contract.
type Loader interface {
	Load(ctx context.Context, src Source) (*metamodel.AspectModel, error)
}

// Options configures how a Loader fetches sources and resolves references.
type Options struct {
	// Strategy resolves referenced URNs. Nil means file sources get a
	// file-system strategy rooted at their models directory and URN sources
	// fail.
	Strategy resolver.Strategy

	// HTTPClient enables URL sources. Nil disables them unless
	// AllowHTTPFallback is set.
	HTTPClient *http.Client

	// AllowHTTPFallback enables URL sources using a default client.
	AllowHTTPFallback bool

	// RequestTimeout caps remote fetch durations.
	RequestTimeout time.Duration

	// Validate runs metamodel.Validate after building.
	Validate bool

	Logger *slog.Logger

	// MaxFiles caps the number of files one load may pull in.
	MaxFiles int
}

// Option mutates Options prior to construction.
type Option func(*Options)

// WithStrategy sets the strategy used to resolve URNs.
func WithStrategy(strategy resolver.Strategy) Option {
	return func(opts *Options) {
		opts.Strategy = strategy
	}
}

// WithHTTPClient injects a custom HTTP client for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = client
	}
}

// WithHTTPFallback enables URL sources using a default client and assigns an
// optional timeout.
func WithHTTPFallback(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.AllowHTTPFallback = true
		opts.RequestTimeout = timeout
	}
}

// WithValidation toggles structural validation of loaded models.
func WithValidation(enabled bool) Option {
	return func(opts *Options) {
		opts.Validate = enabled
	}
}

// WithLogger sets the logger used for resolution diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMaxFiles caps transitive resolution.
func WithMaxFiles(n int) Option {
	return func(opts *Options) {
		opts.MaxFiles = n
	}
}

// NewOptions applies a set of Option values and returns the resulting
// configuration.
func NewOptions(options ...Option) Options {
	cfg := Options{Validate: true, MaxFiles: DefaultMaxFiles}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = DefaultMaxFiles
	}
	return cfg
}
