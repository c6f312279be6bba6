package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	internalloader "github.com/goliatone/go-aspectmodel/internal/loader"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/orchestrator"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
	"github.com/goliatone/go-aspectmodel/pkg/resolver"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

func fixtureLoader() pkgloader.Loader {
	return internalloader.New(pkgloader.NewOptions(pkgloader.WithStrategy(resolver.FS(testsupport.ModelsFS()))))
}

func partAsPlannedSource() pkgloader.Source {
	return pkgloader.SourceFromURN(urn.MustParse(testsupport.PartAsPlannedURN))
}

func TestGenerateDefaultsToJSONPayload(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithLoader(fixtureLoader()))

	result, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Aspect.Name != "PartAsPlanned" {
		t.Fatalf("unexpected aspect %s", result.Aspect.Name)
	}
	if result.Renderer != "json" || result.ContentType != "application/json" {
		t.Fatalf("unexpected renderer %s (%s)", result.Renderer, result.ContentType)
	}
	var payload map[string]any
	if err := json.Unmarshal(result.Output, &payload); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if payload["catenaXId"] != "580d3adf-1981-44a0-a214-13d6ceed9379" {
		t.Fatalf("unexpected catenaXId %v", payload["catenaXId"])
	}
}

func TestGenerateSelectsRenderer(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithLoader(fixtureLoader()))
	model, err := orch.Load(context.Background(), partAsPlannedSource())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cases := map[string]string{
		"html":     "<h1>Part as Planned</h1>",
		"markdown": "# Part as Planned",
		"turtle":   "samm:Aspect",
		"openapi":  `"/part-as-planned"`,
		"gocode":   "type PartAsPlanned struct",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			result, err := orch.Generate(context.Background(), orchestrator.Request{Model: model, Renderer: name})
			if err != nil {
				t.Fatalf("generate %s: %v", name, err)
			}
			if !strings.Contains(string(result.Output), want) {
				t.Fatalf("%s output missing %q", name, want)
			}
		})
	}

	_, err = orch.Generate(context.Background(), orchestrator.Request{Model: model, Renderer: "pdf"})
	if err == nil || !strings.Contains(err.Error(), `renderer "pdf"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
}

func TestGenerateUsesConfiguredDefaultRenderer(t *testing.T) {
	orch := orchestrator.New(
		orchestrator.WithLoader(fixtureLoader()),
		orchestrator.WithRegistry(render.NewRegistry(jsonpayload.New(jsonpayload.WithIndent("")))),
		orchestrator.WithDefaultRenderer("missing"),
	)

	result, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Renderer != "json" {
		t.Fatalf("expected fallback to the only registered renderer, got %s", result.Renderer)
	}
	if strings.Contains(string(result.Output), "\n") {
		t.Fatalf("expected compact output")
	}
}

func TestSelectAspect(t *testing.T) {
	model, err := fixtureLoader().Load(context.Background(), partAsPlannedSource())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	aspect, err := orchestrator.SelectAspect(model, "")
	if err != nil || aspect.Name != "PartAsPlanned" {
		t.Fatalf("expected root aspect, got %v (%v)", aspect, err)
	}
	aspect, err = orchestrator.SelectAspect(model, testsupport.PartAsPlannedURN)
	if err != nil || aspect.Name != "PartAsPlanned" {
		t.Fatalf("expected lookup by urn, got %v (%v)", aspect, err)
	}
	aspect, err = orchestrator.SelectAspect(model, "PartAsPlanned")
	if err != nil || aspect.IRI != testsupport.PartAsPlannedURN {
		t.Fatalf("expected lookup by name, got %v (%v)", aspect, err)
	}

	_, err = orchestrator.SelectAspect(model, "Nope")
	if !errors.Is(err, orchestrator.ErrAspectNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "PartAsPlanned") {
		t.Fatalf("error should list available aspects: %v", err)
	}
}

func TestSelectAspectAmbiguous(t *testing.T) {
	model := metamodel.NewAspectModel()
	for _, name := range []string{"First", "Second"} {
		aspect := &metamodel.Aspect{Base: metamodel.Base{IRI: "urn:samm:io.example:1.0.0#" + name, Name: name}}
		if err := model.Add(aspect); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	_, err := orchestrator.SelectAspect(model, "")
	if !errors.Is(err, orchestrator.ErrAmbiguousAspect) {
		t.Fatalf("expected ambiguity error, got %v", err)
	}
	if !strings.Contains(err.Error(), "First, Second") {
		t.Fatalf("error should list candidates: %v", err)
	}

	_, err = orchestrator.SelectAspect(metamodel.NewAspectModel(), "")
	if !errors.Is(err, orchestrator.ErrAspectNotFound) {
		t.Fatalf("expected not found for empty model, got %v", err)
	}
}

func TestGenerateRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	orch := orchestrator.New(
		orchestrator.WithLoader(fixtureLoader()),
		orchestrator.WithTracerProvider(provider),
	)
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	var names []string
	for _, span := range recorder.Ended() {
		names = append(names, span.Name())
	}
	want := []string{"aspectmodel.load", "aspectmodel.select", "aspectmodel.render", "aspectmodel.generate"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("span mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateRecordsFailedLoad(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	orch := orchestrator.New(
		orchestrator.WithLoader(fixtureLoader()),
		orchestrator.WithTracerProvider(provider),
	)
	missing := pkgloader.SourceFromURN(urn.MustParse("urn:samm:io.missing:1.0.0#Nothing"))
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Source: missing}); err == nil {
		t.Fatalf("expected load error")
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected load and generate spans, got %d", len(spans))
	}
	for _, span := range spans {
		if span.Status().Code.String() != "Error" {
			t.Fatalf("span %s should be marked as failed, got %s", span.Name(), span.Status().Code)
		}
	}
}

func TestGenerateRequiresSourceOrModel(t *testing.T) {
	orch := orchestrator.New()
	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected error without source")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Generate(ctx, orchestrator.Request{Model: metamodel.NewAspectModel()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestOrchestratorAppliesTransformers(t *testing.T) {
	var seen string
	transformer := orchestrator.TransformerFunc(func(_ context.Context, _ *metamodel.AspectModel, aspect *metamodel.Aspect) error {
		seen = aspect.Name
		return nil
	})
	failing := orchestrator.TransformerFunc(func(context.Context, *metamodel.AspectModel, *metamodel.Aspect) error {
		return errors.New("boom")
	})

	orch := orchestrator.New(orchestrator.WithLoader(fixtureLoader()), orchestrator.WithTransformer(transformer))
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if seen != "PartAsPlanned" {
		t.Fatalf("transformer not invoked, saw %q", seen)
	}

	orch = orchestrator.New(orchestrator.WithLoader(fixtureLoader()), orchestrator.WithTransformer(failing, transformer))
	_, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestJSONPresetTransformerFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"preset.json": &fstest.MapFile{Data: []byte(`{
			"aspect": {"preferredName": {"en": "Planned part", "de": "Geplantes Teil"}},
			"properties": {
				"partTypeInformation.manufacturerPartId": {"description": {"en": "OEM part number"}}
			}
		}`)},
		"broken.json": &fstest.MapFile{Data: []byte(`{"properties": {"nope.nested": {}}}`)},
	}

	preset, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "preset.json")
	if err != nil {
		t.Fatalf("load preset: %v", err)
	}
	orch := orchestrator.New(orchestrator.WithLoader(fixtureLoader()), orchestrator.WithTransformer(preset))
	result, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource(), Renderer: "html"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got := result.Aspect.PreferredName("de"); got != "Geplantes Teil" {
		t.Fatalf("unexpected german name %q", got)
	}
	if !strings.Contains(string(result.Output), "<h1>Planned part</h1>") {
		t.Fatalf("html should carry the overridden name")
	}
	info := result.Aspect.Properties[1].DataType().Entity.Properties[0]
	if info.Description("en") != "OEM part number" {
		t.Fatalf("unexpected description %q", info.Description("en"))
	}

	broken, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "broken.json")
	if err != nil {
		t.Fatalf("load broken preset: %v", err)
	}
	orch = orchestrator.New(orchestrator.WithLoader(fixtureLoader()), orchestrator.WithTransformer(broken))
	_, err = orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()})
	if err == nil || !strings.Contains(err.Error(), `property "nope.nested" not found`) {
		t.Fatalf("expected missing property error, got %v", err)
	}

	if _, err := orchestrator.NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := orchestrator.NewJSONPresetTransformerFromFS(fsys, "missing.json"); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestPresetLeavesLoadedModelUntouched(t *testing.T) {
	ctx := context.Background()
	model, err := fixtureLoader().Load(ctx, partAsPlannedSource())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	original, err := orchestrator.SelectAspect(model, "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	seeBefore := append([]string(nil), original.See...)

	preset, err := orchestrator.NewJSONPresetTransformer([]byte(`{
		"aspect": {"preferredName": {"en": "Planned part"}, "see": ["https://example.com/part", "https://example.com/part"]},
		"properties": {"partTypeInformation.nameAtManufacturer": {"description": {"en": "Catalog name"}}}
	}`))
	if err != nil {
		t.Fatalf("preset: %v", err)
	}
	orch := orchestrator.New(orchestrator.WithTransformer(preset))

	for i := 0; i < 2; i++ {
		result, err := orch.Generate(ctx, orchestrator.Request{Model: model, Renderer: "markdown"})
		if err != nil {
			t.Fatalf("generate %d: %v", i, err)
		}
		if result.Aspect == original {
			t.Fatalf("transformers should run on a copy of the aspect")
		}
		if diff := cmp.Diff(append(seeBefore, "https://example.com/part"), result.Aspect.See); diff != "" {
			t.Fatalf("run %d see mismatch (-want +got):\n%s", i, diff)
		}
		name := result.Aspect.Properties[1].DataType().Entity.Properties[1]
		if name.Description("en") != "Catalog name" {
			t.Fatalf("run %d: unexpected description %q", i, name.Description("en"))
		}
	}

	if original.PreferredName("en") == "Planned part" {
		t.Fatalf("loaded aspect name was overridden")
	}
	if diff := cmp.Diff(seeBefore, original.See); diff != "" {
		t.Fatalf("loaded aspect see changed (-want +got):\n%s", diff)
	}
	entity := original.Properties[1].DataType().Entity
	if entity.Properties[1].Description("en") == "Catalog name" {
		t.Fatalf("loaded entity property description was overridden")
	}

	plain, err := orchestrator.New().Generate(ctx, orchestrator.Request{Model: model, Renderer: "markdown"})
	if err != nil {
		t.Fatalf("generate without preset: %v", err)
	}
	if plain.Aspect != original || strings.Contains(string(plain.Output), "Planned part") {
		t.Fatalf("render without transformers should use the loaded aspect unchanged")
	}
}

type captureRenderer struct {
	options render.Options
}

func (r *captureRenderer) Name() string        { return "capture" }
func (r *captureRenderer) ContentType() string { return "text/plain" }
func (r *captureRenderer) Render(_ context.Context, aspect *metamodel.Aspect, opts render.Options) ([]byte, error) {
	r.options = opts
	return []byte(aspect.Name), nil
}

func TestGeneratePassesThemeConfigToRenderer(t *testing.T) {
	capture := &captureRenderer{}
	orch := orchestrator.New(
		orchestrator.WithLoader(fixtureLoader()),
		orchestrator.WithRegistry(render.NewRegistry(capture)),
		orchestrator.WithThemeSelector(docs.DefaultThemes()),
		orchestrator.WithTheme("", "dark"),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	cfg := capture.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != docs.ThemeName || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.CSSVars["--bg"] != "#1f2430" {
		t.Fatalf("variant tokens not applied: %v", cfg.CSSVars)
	}
	if cfg.Partials[docs.PartialProperties] != "partials/properties.tpl" {
		t.Fatalf("unexpected partials %v", cfg.Partials)
	}

	if _, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource(), ThemeVariant: "light"}); err != nil {
		t.Fatalf("generate light: %v", err)
	}
	if capture.options.Theme.Variant != "light" {
		t.Fatalf("request variant should win, got %s", capture.options.Theme.Variant)
	}

	_, err := orch.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource(), ThemeVariant: "sepia"})
	if !errors.Is(err, render.ErrVariantNotFound) {
		t.Fatalf("expected unknown variant error, got %v", err)
	}

	plain := orchestrator.New(orchestrator.WithLoader(fixtureLoader()), orchestrator.WithRegistry(render.NewRegistry(capture)))
	if _, err := plain.Generate(context.Background(), orchestrator.Request{Source: partAsPlannedSource()}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if capture.options.Theme != nil {
		t.Fatalf("no theme should be resolved without a selector")
	}
}
