package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-aspectmodel/internal/watch"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/gocode"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/markdown"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/openapi"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/turtle"
)

// outputFlags are shared by every generating command.
type outputFlags struct {
	aspect string
	write  bool
	seed   int64
	values []string
}

func (f *outputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.aspect, "aspect", "a", "", "aspect name or URN when the model defines several")
	cmd.Flags().BoolVarP(&f.write, "write", "w", f.write, "write into the output directory instead of stdout")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "seed for generated sample values")
	cmd.Flags().StringArrayVar(&f.values, "set", nil, "override a payload value, path=value (repeatable)")
}

func (f *outputFlags) options() (render.Options, error) {
	values, err := parseValues(f.values)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{Seed: f.seed, Values: values}, nil
}

// runRenderer loads the input, renders it and emits <Aspect><ext>.
func (a *app) runRenderer(ctx context.Context, input string, f *outputFlags, r render.Renderer, ext string, opts render.Options) error {
	base, err := f.options()
	if err != nil {
		return err
	}
	base.Format = opts.Format
	base.Theme = opts.Theme
	res, err := a.generate(ctx, input, f.aspect, r, base)
	if err != nil {
		return err
	}
	return a.emit(ctx, f.write, res.Aspect.Name+ext, res.Output)
}

func jsonCmd(a *app) *cobra.Command {
	f := &outputFlags{}
	var compact bool
	cmd := &cobra.Command{
		Use:   "json <input>",
		Short: "Generate a sample JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indent := "  "
			if compact {
				indent = ""
			}
			return a.runRenderer(cmd.Context(), args[0], f, jsonpayload.New(jsonpayload.WithIndent(indent)), ".json", render.Options{})
		},
	}
	f.bind(cmd)
	cmd.Flags().BoolVar(&compact, "compact", false, "emit compact JSON")
	return cmd
}

func docsCmd(a *app) *cobra.Command {
	f := &outputFlags{write: true}
	var (
		format       string
		stylesheet   string
		themeVariant string
		watchFiles   bool
	)
	cmd := &cobra.Command{
		Use:   "docs <input>",
		Short: "Generate HTML or Markdown documentation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var docOpts []docs.Option
			if stylesheet != "" {
				docOpts = append(docOpts, docs.WithStylesheet(stylesheet))
			}
			html, err := docs.New(docOpts...)
			if err != nil {
				return err
			}
			var (
				r   render.Renderer = html
				ext                 = ".html"
			)
			switch strings.ToLower(format) {
			case "", "html":
			case "markdown", "md":
				md, err := markdown.New(html)
				if err != nil {
					return err
				}
				r, ext = md, ".md"
			default:
				return fmt.Errorf("unsupported docs format %q", format)
			}

			var opts render.Options
			if themeVariant != "" {
				cfg, err := render.ResolveTheme(docs.DefaultThemes(), "", themeVariant, docs.DefaultPartials())
				if err != nil {
					return err
				}
				opts.Theme = cfg
			}

			run := func(ctx context.Context) error {
				return a.runRenderer(ctx, args[0], f, r, ext, opts)
			}
			if err := run(cmd.Context()); err != nil {
				if !watchFiles {
					return err
				}
				a.logger.Error("docs generation failed", "error", err)
			}
			if !watchFiles {
				return nil
			}
			return a.watch(cmd.Context(), args[0], run)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "html", "documentation format (html, markdown)")
	cmd.Flags().StringVar(&stylesheet, "css", "", "stylesheet replacing the built-in one")
	cmd.Flags().StringVar(&themeVariant, "theme-variant", "", "built-in theme variant (light, dark)")
	cmd.Flags().BoolVar(&watchFiles, "watch", false, "regenerate when model files change")
	return cmd
}

// watch re-runs fn whenever a .ttl file below the models root or next to a
// file input changes, until the command context is cancelled.
func (a *app) watch(ctx context.Context, input string, fn func(context.Context) error) error {
	paths := []string{a.cfg.Models.Dir}
	if src, err := a.source(input); err == nil && src.Kind() == pkgloader.SourceKindFile {
		paths = append(paths, src.Location())
	}
	w, err := watch.New(watch.Config{Paths: existing(paths), Extensions: []string{".ttl"}, Logger: a.logger})
	if err != nil {
		return err
	}
	a.logger.Info("watching model files", "paths", paths)
	return w.Run(ctx, func(ctx context.Context, _ []string) error {
		return fn(ctx)
	})
}

func existing(paths []string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func openapiCmd(a *app) *cobra.Command {
	f := &outputFlags{}
	var (
		format    string
		serverURL string
	)
	cmd := &cobra.Command{
		Use:   "openapi <input>",
		Short: "Generate an OpenAPI document serving the aspect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported openapi format %q", format)
			}
			var opts []openapi.Option
			if serverURL != "" {
				opts = append(opts, openapi.WithServerURL(serverURL))
			}
			return a.runRenderer(cmd.Context(), args[0], f, openapi.New(opts...), ".oai."+format, render.Options{Format: format})
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&format, "format", "yaml", "document format (json, yaml)")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "server URL advertised by the document")
	return cmd
}

func gocodeCmd(a *app) *cobra.Command {
	f := &outputFlags{}
	var (
		pkg  string
		mock bool
	)
	cmd := &cobra.Command{
		Use:   "gocode <input>",
		Short: "Generate Go data types and static meta accessors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := gocode.New(
				gocode.WithPackage(pkg),
				gocode.WithMockHelpers(mock),
				gocode.WithPayloadRenderer(jsonpayload.New()),
			)
			base, err := f.options()
			if err != nil {
				return err
			}
			res, err := a.generate(cmd.Context(), args[0], f.aspect, r, base)
			if err != nil {
				return err
			}
			return a.emit(cmd.Context(), f.write, gocode.FileName(res.Aspect), res.Output)
		},
	}
	f.bind(cmd)
	cmd.Flags().StringVar(&pkg, "package", "", "package name (default: lower-cased aspect name)")
	cmd.Flags().BoolVar(&mock, "mock", false, "include mock API helpers")
	return cmd
}

func turtleCmd(a *app) *cobra.Command {
	f := &outputFlags{}
	cmd := &cobra.Command{
		Use:   "turtle <input>",
		Short: "Pretty print the Turtle file defining the aspect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRenderer(cmd.Context(), args[0], f, turtle.New(), ".ttl", render.Options{})
		},
	}
	f.bind(cmd)
	return cmd
}
