package openapi_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/openapi"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
)

func TestDocumentPartAsPlanned(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)

	doc, err := openapi.New(openapi.WithServerURL("http://localhost:2345")).Document(context.Background(), aspect, render.Options{Seed: 1})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc.OpenAPI != openapi.Version || doc.Info.Version != "2.0.0" {
		t.Fatalf("unexpected header %s/%s", doc.OpenAPI, doc.Info.Version)
	}

	item := doc.Paths.Value("/part-as-planned")
	if item == nil || item.Get == nil {
		t.Fatalf("expected GET /part-as-planned")
	}
	if item.Get.OperationID != "getPartAsPlanned" {
		t.Fatalf("unexpected operation id %q", item.Get.OperationID)
	}

	var names []string
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	want := []string{"PartAsPlanned", "PartSitesInformationAsPlannedEntity", "PartTypeInformationEntity"}
	if diff := cmp.Diff(want, sorted(names)); diff != "" {
		t.Fatalf("components mismatch (-want +got):\n%s", diff)
	}

	root := doc.Components.Schemas["PartAsPlanned"].Value
	if diff := cmp.Diff([]string{"catenaXId", "partTypeInformation"}, root.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if root.Properties["catenaXId"].Value.Pattern == "" {
		t.Fatalf("uuid pattern missing")
	}
	if ref := root.Properties["partTypeInformation"].Ref; ref != "#/components/schemas/PartTypeInformationEntity" {
		t.Fatalf("unexpected ref %q", ref)
	}
	sites := root.Properties["partSitesInformationAsPlanned"].Value
	if !sites.Type.Is(openapi3.TypeArray) || !sites.UniqueItems {
		t.Fatalf("sites should be a set")
	}
	classification := doc.Components.Schemas["PartTypeInformationEntity"].Value.Properties["classification"].Value
	if len(classification.Enum) != 6 {
		t.Fatalf("expected 6 classification values, got %v", classification.Enum)
	}

	example := item.Get.Responses.Status(200).Value.Content.Get("application/json").Example.(map[string]any)
	if example["catenaXId"] != "580d3adf-1981-44a0-a214-13d6ceed9379" {
		t.Fatalf("unexpected example %v", example)
	}
}

func TestDocumentMovementValidates(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)

	for seed := int64(1); seed <= 5; seed++ {
		doc, err := openapi.New().Document(context.Background(), aspect, render.Options{Seed: seed})
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		speed := doc.Components.Schemas["Movement"].Value.Properties["speed"].Value
		if speed.Max == nil || *speed.Max != 300 || !speed.ExclusiveMax {
			t.Fatalf("speed range not mapped: %+v", speed)
		}
		if len(doc.Components.Schemas["Movement"].Value.Properties["result"].Value.OneOf) != 2 {
			t.Fatalf("either should map to oneOf")
		}
		if _, ok := doc.Components.Schemas["Movement"].Value.Properties["internalNote"]; ok {
			t.Fatalf("notInPayload property exported")
		}
	}
}

func TestRenderFormats(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)
	renderer := openapi.New()

	for _, format := range []string{"", openapi.FormatJSON, openapi.FormatYAML} {
		out, err := renderer.Render(context.Background(), aspect, render.Options{Seed: 1, Format: format})
		if err != nil {
			t.Fatalf("%q: render: %v", format, err)
		}
		doc, err := openapi3.NewLoader().LoadFromData(out)
		if err != nil {
			t.Fatalf("%q: reload: %v", format, err)
		}
		if doc.Paths.Value("/part-as-planned") == nil {
			t.Fatalf("%q: path missing after reload", format)
		}
		if err := doc.Validate(context.Background()); err != nil {
			t.Fatalf("%q: reloaded document invalid: %v", format, err)
		}
	}

	if _, err := renderer.Render(context.Background(), aspect, render.Options{Format: "xml"}); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
