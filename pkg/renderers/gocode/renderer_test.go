package gocode_test

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/gocode"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
)

func renderSource(t *testing.T, urn string, opts ...gocode.Option) string {
	t.Helper()
	model, aspect := testsupport.LoadModel(t, urn)
	out, err := gocode.New(opts...).Render(context.Background(), aspect, render.Options{Model: model, Seed: 1})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func parseSource(t *testing.T, src string) *ast.File {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), "generated.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
	return f
}

func typeNames(f *ast.File) []string {
	var names []string
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			names = append(names, spec.(*ast.TypeSpec).Name.Name)
		}
	}
	sort.Strings(names)
	return names
}

func assertMatches(t *testing.T, src string, patterns ...string) {
	t.Helper()
	for _, pattern := range patterns {
		if !regexp.MustCompile(pattern).MatchString(src) {
			t.Errorf("expected generated source to match %q", pattern)
		}
	}
}

func TestRenderPartAsPlanned(t *testing.T) {
	src := renderSource(t, testsupport.PartAsPlannedURN, gocode.WithMockHelpers(true))
	f := parseSource(t, src)

	if f.Name.Name != "partasplanned" {
		t.Fatalf("unexpected package %q", f.Name.Name)
	}
	want := []string{
		"ClassificationCharacteristic",
		"FunctionCharacteristic",
		"PartAsPlanned",
		"PartSitesInformationAsPlannedEntity",
		"PartTypeInformationEntity",
		"metaPartAsPlanned",
		"metaPartSitesInformationAsPlannedEntity",
		"metaPartTypeInformationEntity",
	}
	if diff := cmp.Diff(want, typeNames(f)); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	if !strings.HasPrefix(src, "// Code generated by aspectgen from "+testsupport.PartAsPlannedURN+". DO NOT EDIT.") {
		t.Fatalf("missing generated header:\n%s", src[:80])
	}
	assertMatches(t, src,
		`CatenaXID\s+string\s+`+"`"+`json:"catenaXId"`+"`",
		`PartSitesInformationAsPlanned\s+jsonbind\.Optional\[\[\]PartSitesInformationAsPlannedEntity\]\s+`+"`"+`json:"partSitesInformationAsPlanned,omitzero"`+"`",
		`FunctionValidFrom\s+jsonbind\.Optional\[jsonbind\.DateTime\]`,
		`Classification\s+ClassificationCharacteristic\s`,
		`ClassificationCharacteristicRawMaterial\s+ClassificationCharacteristic\s+=\s+"raw material"`,
		`FunctionCharacteristicSparePartWarehouse\s+FunctionCharacteristic\s+=\s+"spare part warehouse"`,
		`var MetaPartAsPlanned = func\(\) metaPartAsPlanned`,
		`PartTypeInformation\s+staticmeta\.Property\[PartAsPlanned, PartTypeInformationEntity\]`,
		`Kind: "RegularExpressionConstraint"`,
		`ContainingType:\s+"PartSitesInformationAsPlannedEntity"`,
		`func GetPartAsPlanned200ResponseSample1\(\) string`,
		`mockserver\.Get\("/part-as-planned"\)`,
		`"catenaXId": "580d3adf-1981-44a0-a214-13d6ceed9379"`,
	)
}

func TestRenderMatchesCommittedPartAsPlanned(t *testing.T) {
	src := renderSource(t, testsupport.PartAsPlannedURN, gocode.WithMockHelpers(true))

	golden, err := os.ReadFile(filepath.Join("..", "..", "..", "internal", "generated", "partasplanned", "part_as_planned.go"))
	if err != nil {
		t.Fatalf("read committed binding: %v", err)
	}
	if diff := cmp.Diff(string(golden), src); diff != "" {
		t.Fatalf("committed binding is stale, run go generate ./internal/generated/... (-committed +rendered):\n%s", diff)
	}
}

func TestRenderMovement(t *testing.T) {
	src := renderSource(t, testsupport.MovementURN)
	f := parseSource(t, src)

	want := []string{"Movement", "Result", "SpatialPosition", "StatusEntity", "TrafficLight", "metaMovement", "metaSpatialPosition", "metaStatusEntity"}
	if diff := cmp.Diff(want, typeNames(f)); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	assertMatches(t, src,
		`Title\s+map\[string\]string\s+`+"`"+`json:"label"`+"`",
		`Tags\s+\[\]string`,
		`Speed\s+float32`,
		`Altitude\s+jsonbind\.Optional\[float32\]`,
		`StatusCode\s+int32`,
		`Left\s+jsonbind\.Optional\[string\]`,
		`Right\s+jsonbind\.Optional\[bool\]`,
		`TrafficLightGreen\s+TrafficLight\s+=\s+"green"`,
		`Value: "\[0, 300\)"`,
	)
	if strings.Contains(src, "InternalNote") {
		t.Fatalf("properties excluded from the payload must not be generated")
	}
	if strings.Contains(src, "mockserver") {
		t.Fatalf("mock helpers are opt in")
	}
}

func TestRenderPackageOverride(t *testing.T) {
	src := renderSource(t, testsupport.MovementURN, gocode.WithPackage("movementv1"))
	if parseSource(t, src).Name.Name != "movementv1" {
		t.Fatalf("package override ignored")
	}
}

func TestFileName(t *testing.T) {
	_, aspect := testsupport.LoadModel(t, testsupport.PartAsPlannedURN)
	if got := gocode.FileName(aspect); got != "part_as_planned.go" {
		t.Fatalf("unexpected file name %q", got)
	}
}
