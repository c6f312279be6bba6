package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	internalloader "github.com/goliatone/go-aspectmodel/internal/loader"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/resolver"
	"github.com/goliatone/go-aspectmodel/pkg/testsupport"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

func newLoader(opts ...pkgloader.Option) pkgloader.Loader {
	return internalloader.New(pkgloader.NewOptions(opts...))
}

func locations(model *metamodel.AspectModel) []string {
	out := make([]string, 0, len(model.Files))
	for _, f := range model.Files {
		loc := f.Location
		if idx := strings.LastIndex(loc, "/"); idx >= 0 {
			loc = loc[idx+1:]
		}
		out = append(out, loc)
	}
	return out
}

func TestLoadFileResolvesSiblingModels(t *testing.T) {
	model, err := newLoader().Load(context.Background(), pkgloader.SourceFromFile(testsupport.PartAsPlannedPath(t)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := []string{"PartAsPlanned.ttl", "PartSiteInformationAsPlanned.ttl", "Uuid.ttl"}
	if diff := cmp.Diff(want, locations(model)); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}
	if model.Files[0].Namespace.String() != "urn:samm:io.catenax.part_as_planned:2.0.0" {
		t.Fatalf("unexpected namespace %s", model.Files[0].Namespace.String())
	}
	roots := model.RootAspects()
	if len(roots) != 1 || roots[0].Name != "PartAsPlanned" {
		t.Fatalf("unexpected root aspects: %v", roots)
	}
}

func TestLoadURNThroughStrategy(t *testing.T) {
	l := newLoader(pkgloader.WithStrategy(resolver.FS(testsupport.ModelsFS())))

	model, err := l.Load(context.Background(), pkgloader.SourceFromURN(urn.MustParse(testsupport.PartAsPlannedURN)))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := model.Aspect(testsupport.PartAsPlannedURN); !ok {
		t.Fatalf("aspect missing from model")
	}
	if got := model.Files[0].Location; got != "io.catenax.part_as_planned/2.0.0/PartAsPlanned.ttl" {
		t.Fatalf("unexpected root location %q", got)
	}
}

func TestLoadURNWithoutStrategy(t *testing.T) {
	_, err := newLoader().Load(context.Background(), pkgloader.SourceFromURN(urn.MustParse(testsupport.MovementURN)))
	if err == nil || !strings.Contains(err.Error(), "no resolution strategy") {
		t.Fatalf("expected strategy error, got %v", err)
	}
}

func TestLoadReader(t *testing.T) {
	data := testsupport.ReadModel(t, "io.example.movement", "1.0.0", "Movement.ttl")
	model, err := newLoader().Load(context.Background(), pkgloader.SourceFromReader("movement", strings.NewReader(string(data))))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(model.Files) != 1 || model.Files[0].Location != "movement" {
		t.Fatalf("unexpected files: %v", locations(model))
	}
	if _, ok := model.Aspect(testsupport.MovementURN); !ok {
		t.Fatalf("movement aspect missing")
	}
}

func TestLoadReaderReportsUnresolvableURN(t *testing.T) {
	data := testsupport.ReadModel(t, "io.catenax.part_as_planned", "2.0.0", "PartAsPlanned.ttl")

	_, err := newLoader().Load(context.Background(), pkgloader.SourceFromReader("part", strings.NewReader(string(data))))
	if err == nil || !strings.Contains(err.Error(), "urn:samm:io.catenax.shared") {
		t.Fatalf("expected error naming the shared urn, got %v", err)
	}

	doc := `@prefix samm: <urn:samm:org.eclipse.esmf.samm:meta-model:2.1.0#> .
@prefix ext: <urn:samm:io.missing:1.0.0#> .
@prefix : <urn:samm:io.example:1.0.0#> .
:A a samm:Aspect ; samm:properties ( ext:thing ) .
`
	l := newLoader(pkgloader.WithStrategy(resolver.FS(testsupport.ModelsFS())))
	_, err = l.Load(context.Background(), pkgloader.SourceFromReader("a", strings.NewReader(doc)))
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "urn:samm:io.missing:1.0.0#thing") {
		t.Fatalf("error should name the urn: %v", err)
	}
}

func TestLoadURL(t *testing.T) {
	server := httptest.NewServer(http.FileServer(http.FS(testsupport.ModelsFS())))
	defer server.Close()

	l := newLoader(pkgloader.WithHTTPClient(server.Client()))
	model, err := l.Load(context.Background(), pkgloader.SourceFromURL(server.URL+"/io.example.movement/1.0.0/Movement.ttl"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := model.Aspect(testsupport.MovementURN); !ok {
		t.Fatalf("movement aspect missing")
	}

	// Shared models are named after their aspect, not the referenced
	// element, so remote lookups by element name miss them.
	_, err = l.Load(context.Background(), pkgloader.SourceFromURL(server.URL+"/io.catenax.part_as_planned/2.0.0/PartAsPlanned.ttl"))
	if !errors.Is(err, resolver.ErrNotFound) {
		t.Fatalf("expected not found for shared model, got %v", err)
	}

	l = newLoader(
		pkgloader.WithHTTPClient(server.Client()),
		pkgloader.WithStrategy(resolver.FS(testsupport.ModelsFS())),
	)
	model, err = l.Load(context.Background(), pkgloader.SourceFromURL(server.URL+"/io.catenax.part_as_planned/2.0.0/PartAsPlanned.ttl"))
	if err != nil {
		t.Fatalf("load with fs strategy: %v", err)
	}
	if len(model.Files) != 3 {
		t.Fatalf("expected shared models resolved, got %v", locations(model))
	}

	_, err = newLoader().Load(context.Background(), pkgloader.SourceFromURL(server.URL+"/x.ttl"))
	if err == nil || !strings.Contains(err.Error(), "http support disabled") {
		t.Fatalf("expected disabled http error, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	doc := `@prefix samm: <urn:samm:org.eclipse.esmf.samm:meta-model:2.1.0#> .
@prefix samm-c: <urn:samm:org.eclipse.esmf.samm:characteristic:2.1.0#> .
@prefix : <urn:samm:io.example:1.0.0#> .
:A a samm:Aspect ; samm:properties ( :p ) .
:p a samm:Property ; samm:characteristic :Kinds .
:Kinds a samm-c:Enumeration ; samm-c:values ( "a" ) .
`
	_, err := newLoader().Load(context.Background(), pkgloader.SourceFromReader("a", strings.NewReader(doc)))
	var verrs metamodel.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if verrs[0].Rule != metamodel.RuleDataType {
		t.Fatalf("unexpected rule %s", verrs[0].Rule)
	}

	model, err := newLoader(pkgloader.WithValidation(false)).Load(context.Background(), pkgloader.SourceFromReader("a", strings.NewReader(doc)))
	if err != nil || model == nil {
		t.Fatalf("validation disabled should load: %v", err)
	}
}

func TestLoadMaxFiles(t *testing.T) {
	_, err := newLoader(pkgloader.WithMaxFiles(2)).Load(context.Background(), pkgloader.SourceFromFile(testsupport.PartAsPlannedPath(t)))
	if err == nil || !strings.Contains(err.Error(), "more than 2 model files") {
		t.Fatalf("expected max files error, got %v", err)
	}
}

func TestLoadParseError(t *testing.T) {
	_, err := newLoader().Load(context.Background(), pkgloader.SourceFromReader("bad", strings.NewReader("@prefix : <urn:x#> .\n:a :b")))
	if err == nil || !strings.Contains(err.Error(), "bad:2:") {
		t.Fatalf("expected positioned parse error, got %v", err)
	}
}
