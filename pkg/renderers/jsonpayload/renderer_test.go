package jsonpayload_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
)

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, data)
	}
	return out
}

func TestRenderPartAsPlannedUsesExampleValues(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)
	renderer := jsonpayload.New()

	obj, err := renderer.Generate(aspect, render.Options{Seed: 7})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if diff := cmp.Diff([]string{"catenaXId", "partTypeInformation", "partSitesInformationAsPlanned"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	out, err := renderer.Render(context.Background(), aspect, render.Options{Seed: 7})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	payload := decode(t, out)
	if payload["catenaXId"] != "580d3adf-1981-44a0-a214-13d6ceed9379" {
		t.Fatalf("unexpected catenaXId %v", payload["catenaXId"])
	}
	info, ok := payload["partTypeInformation"].(map[string]any)
	if !ok {
		t.Fatalf("partTypeInformation should be an object: %T", payload["partTypeInformation"])
	}
	if info["classification"] != "product" || info["manufacturerPartId"] != "123-0.740-3434-A" {
		t.Fatalf("unexpected part type information %v", info)
	}
	sites, ok := payload["partSitesInformationAsPlanned"].([]any)
	if !ok || len(sites) == 0 {
		t.Fatalf("sites should be a non empty array: %v", payload["partSitesInformationAsPlanned"])
	}
	site := sites[0].(map[string]any)
	if site["catenaXsiteId"] != "BPNS1234567890ZZ" || site["function"] != "production" {
		t.Fatalf("unexpected site %v", site)
	}
}

func TestRenderMovementFollowsCharacteristics(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)

	out, err := jsonpayload.New().Render(context.Background(), aspect, render.Options{Seed: 42})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	payload := decode(t, out)

	if _, ok := payload["internalNote"]; ok {
		t.Fatalf("notInPayload property rendered")
	}
	if _, ok := payload["title"]; ok {
		t.Fatalf("payload name not applied")
	}
	label, ok := payload["label"].(map[string]any)
	if !ok || label["de"] == nil {
		t.Fatalf("label should be a german language string: %v", payload["label"])
	}
	if _, ok := payload["isMoving"].(bool); !ok {
		t.Fatalf("isMoving should be a boolean: %T", payload["isMoving"])
	}
	if payload["speedLimitWarning"] != "green" {
		t.Fatalf("state should use its default, got %v", payload["speedLimitWarning"])
	}

	speed, ok := payload["speed"].(float64)
	if !ok || speed < 0 || speed >= 300 {
		t.Fatalf("speed outside range: %v", payload["speed"])
	}

	position := payload["position"].(map[string]any)
	if position["latitude"] != 9.1781 || position["longitude"] != 48.80835 {
		t.Fatalf("unexpected position %v", position)
	}
	if position["altitude"] != 153.0 {
		t.Fatalf("optional property with example should be rendered: %v", position)
	}

	status := payload["status"].(map[string]any)
	if status["statusCode"] != 1.0 || status["statusText"] != "active" {
		t.Fatalf("unexpected status %v", status)
	}

	result := payload["result"].(map[string]any)
	if _, ok := result["left"].(string); !ok {
		t.Fatalf("either should render its left side: %v", result)
	}

	tags := payload["tags"].([]any)
	tagPattern := regexp.MustCompile(`^[A-Za-z]{3,8}$`)
	for _, tag := range tags {
		if !tagPattern.MatchString(tag.(string)) {
			t.Fatalf("tag %q violates length constraint", tag)
		}
	}
}

func TestRenderKeepsDeclarationOrder(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)

	obj, err := jsonpayload.New().Generate(aspect, render.Options{Seed: 1})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"isMoving", "position", "speed", "speedLimitWarning", "label", "tags", "status", "result"}
	if diff := cmp.Diff(want, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderIsReproducibleWithSeed(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.MovementURN)
	renderer := jsonpayload.New()

	first, err := renderer.Render(context.Background(), aspect, render.Options{Seed: 99})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	second, err := renderer.Render(context.Background(), aspect, render.Options{Seed: 99})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("same seed produced different payloads:\n%s\n%s", first, second)
	}
}

func TestRenderAppliesValueOverrides(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)

	out, err := jsonpayload.New(jsonpayload.WithIndent("")).Render(context.Background(), aspect, render.Options{
		Seed: 3,
		Values: map[string]any{
			"catenaXId":                         "urn:uuid:00000000-0000-4000-8000-000000000000",
			"partTypeInformation.classification": "component",
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	payload := decode(t, out)
	if payload["catenaXId"] != "urn:uuid:00000000-0000-4000-8000-000000000000" {
		t.Fatalf("override ignored: %v", payload["catenaXId"])
	}
	if payload["partTypeInformation"].(map[string]any)["classification"] != "component" {
		t.Fatalf("nested override ignored: %v", payload["partTypeInformation"])
	}
	if len(out) > 0 && out[len(out)-1] == '\n' {
		t.Fatalf("unexpected trailing newline")
	}
}

func TestRendererMetadata(t *testing.T) {
	renderer := jsonpayload.New()
	if renderer.Name() != "json" || renderer.ContentType() != "application/json" {
		t.Fatalf("unexpected metadata %s/%s", renderer.Name(), renderer.ContentType())
	}
	if _, err := renderer.Render(context.Background(), nil, render.Options{}); err == nil {
		t.Fatalf("expected error for nil aspect")
	}
}

func TestObjectMarshalKeepsOrderAndSkipsHTMLEscaping(t *testing.T) {
	obj := jsonpayload.NewObject()
	obj.Set("b", "<tag>")
	obj.Set("a", json.Number("1.50"))
	obj.Set("b", "x & y")

	out, err := jsonpayload.Marshal(obj, "")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"b":"x & y","a":1.50}` {
		t.Fatalf("unexpected output %s", out)
	}
	if obj.Len() != 2 {
		t.Fatalf("unexpected length %d", obj.Len())
	}
}
