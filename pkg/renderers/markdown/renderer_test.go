package markdown_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/markdown"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
)

func TestRenderMarkdown(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	renderer, err := markdown.New(nil)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), aspect, render.Options{Seed: 4})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)

	for _, fragment := range []string{"# Movement", "## Properties", "| Name |", "Spatial Position"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected markdown to contain %q:\n%s", fragment, text)
		}
	}
	for _, fragment := range []string{"<html", "<style", "Table of contents", "--fg"} {
		if strings.Contains(text, fragment) {
			t.Fatalf("markdown should not contain %q", fragment)
		}
	}
	if renderer.Name() != "markdown" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
}
