package tui

import "github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits an indented application/json payload.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatPrettyText emits one "path = value" line per leaf.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// SubmitTransformer mutates the collected payload before serialization.
type SubmitTransformer func(*jsonpayload.Object) (*jsonpayload.Object, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithDefaults sets the generator that supplies the default answer of every
// prompt. Defaults to the JSON payload renderer, so example values are
// offered first.
func WithDefaults(payload *jsonpayload.Renderer) Option {
	return func(r *Renderer) {
		if payload != nil {
			r.defaults = payload
		}
	}
}
