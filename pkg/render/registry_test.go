package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, *metamodel.Aspect, render.Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	reg := render.NewRegistry(stubRenderer{name: "json"}, stubRenderer{name: "docs"})

	if err := reg.Register(stubRenderer{name: "json"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if err := reg.Register(nil); err == nil {
		t.Fatalf("expected nil renderer to fail")
	}

	got, err := reg.Get("docs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name() != "docs" {
		t.Fatalf("unexpected renderer %q", got.Name())
	}
	if diff := cmp.Diff([]string{"docs", "json"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("json") || reg.Has("xml") {
		t.Fatalf("unexpected Has results")
	}

	_, err = reg.Get("xml")
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestNewRegistryPanicsOnDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	render.NewRegistry(stubRenderer{name: "a"}, stubRenderer{name: "a"})
}
