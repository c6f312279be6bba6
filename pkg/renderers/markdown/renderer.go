package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Renderer converts the HTML documentation into GitHub flavoured markdown.
type Renderer struct {
	html      *docs.Renderer
	converter *md.Converter
}

// New wraps html, or a default docs renderer when nil.
func New(html *docs.Renderer) (*Renderer, error) {
	if html == nil {
		var err error
		html, err = docs.New()
		if err != nil {
			return nil, fmt.Errorf("markdown renderer: %w", err)
		}
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	converter.Remove("style", "nav", "title")

	return &Renderer{html: html, converter: converter}, nil
}

func (r *Renderer) Name() string {
	return "markdown"
}

func (r *Renderer) ContentType() string {
	return "text/markdown; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, aspect *metamodel.Aspect, options render.Options) ([]byte, error) {
	page, err := r.html.Render(ctx, aspect, options)
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.converter.ConvertString(string(page))
	if err != nil {
		return nil, fmt.Errorf("markdown renderer: convert: %w", err)
	}
	out = excessiveLinesRe.ReplaceAllString(strings.TrimSpace(out), "\n\n")
	return []byte(out + "\n"), nil
}

var _ render.Renderer = (*Renderer)(nil)
