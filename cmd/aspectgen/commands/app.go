package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/goliatone/go-aspectmodel/pkg/config"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/orchestrator"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/tui"
)

// app carries what every command needs once the configuration is loaded.
type app struct {
	streams      Streams
	cfg          *config.Config
	logger       *slog.Logger
	loader       pkgloader.Loader
	transformers []orchestrator.Transformer
	files        afs.Service
	prompt       tui.PromptDriver
}

func (a *app) promptDriver() tui.PromptDriver {
	if a.prompt == nil {
		a.prompt = tui.NewSurveyDriver(a.streams.Err)
	}
	return a.prompt
}

// source interprets a command argument, reading "-" from the input stream.
func (a *app) source(arg string) (pkgloader.Source, error) {
	if arg == "-" {
		return pkgloader.SourceFromReader("stdin", a.streams.In), nil
	}
	return pkgloader.ParseSource(arg)
}

// orchestrator builds a pipeline over the configured loader. Without
// renderers the default registry is used.
func (a *app) orchestrator(renderers ...render.Renderer) (*orchestrator.Orchestrator, error) {
	opts := []orchestrator.Option{
		orchestrator.WithLoader(a.loader),
		orchestrator.WithLogger(a.logger),
		orchestrator.WithTransformer(a.transformers...),
	}
	if len(renderers) > 0 {
		registry := render.NewRegistry()
		for _, r := range renderers {
			if err := registry.Register(r); err != nil {
				return nil, err
			}
		}
		opts = append(opts, orchestrator.WithRegistry(registry), orchestrator.WithDefaultRenderer(renderers[0].Name()))
	}
	return orchestrator.New(opts...), nil
}

// load reads the model named by arg.
func (a *app) load(ctx context.Context, arg string) (*metamodel.AspectModel, error) {
	src, err := a.source(arg)
	if err != nil {
		return nil, err
	}
	gen, err := a.orchestrator()
	if err != nil {
		return nil, err
	}
	return gen.Load(ctx, src)
}

// generate loads arg and renders the selected aspect with r.
func (a *app) generate(ctx context.Context, arg, aspect string, r render.Renderer, opts render.Options) (*orchestrator.Result, error) {
	src, err := a.source(arg)
	if err != nil {
		return nil, err
	}
	gen, err := a.orchestrator(r)
	if err != nil {
		return nil, err
	}
	if opts.Locale == "" {
		opts.Locale = a.cfg.Output.Locale
	}
	return gen.Generate(ctx, orchestrator.Request{
		Source:   src,
		Aspect:   aspect,
		Renderer: r.Name(),
		Options:  opts,
	})
}

// emit writes data to the output stream, or to name below the output
// directory when toFile is set.
func (a *app) emit(ctx context.Context, toFile bool, name string, data []byte) error {
	if !toFile {
		if _, err := a.streams.Out.Write(data); err != nil {
			return err
		}
		if !bytes.HasSuffix(data, []byte("\n")) {
			_, err := io.WriteString(a.streams.Out, "\n")
			return err
		}
		return nil
	}
	return a.writeFile(ctx, name, data)
}

func (a *app) writeFile(ctx context.Context, name string, data []byte) error {
	if a.files == nil {
		a.files = afs.New()
	}
	target := filepath.Join(a.cfg.Output.Dir, name)
	if err := a.files.Upload(ctx, target, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	a.logger.Info("wrote file", slog.String("path", target), slog.Int("bytes", len(data)))
	fmt.Fprintln(a.streams.Err, target)
	return nil
}

// parseValues turns --set path=value pairs into payload overrides. Numbers,
// booleans and JSON literals keep their type, everything else is a string.
func parseValues(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		path, raw, ok := strings.Cut(pair, "=")
		if !ok || path == "" {
			return nil, fmt.Errorf("invalid --set %q, want path=value", pair)
		}
		out[path] = literal(raw)
	}
	return out, nil
}

func literal(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return json.Number(raw)
	}
	if strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "[") {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}
