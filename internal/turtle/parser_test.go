package turtle

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-aspectmodel/pkg/rdf"
)

const movement = `# Movement aspect
@prefix samm: <urn:samm:org.eclipse.esmf.samm:meta-model:2.1.0#> .
@prefix samm-c: <urn:samm:org.eclipse.esmf.samm:characteristic:2.1.0#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix : <urn:samm:io.example:1.0.0#> .

:Movement a samm:Aspect ;
   samm:preferredName "Movement"@en, "Bewegung"@de ;
   samm:description """Aspect for "movement"
information"""@en ;
   samm:properties ( :isMoving [ samm:property :speed ; samm:optional true ] ) ;
   samm:operations ( ) ;
   samm:events ( ) .

:isMoving a samm:Property ;
   samm:characteristic samm-c:Boolean .

:speed a samm:Property ;
   samm:exampleValue "12.5"^^xsd:float ;
   samm:characteristic :Speed .

:Speed a samm-c:Measurement ;
   samm:dataType xsd:float ;
   samm:see <https://example.com/speed>, <relative/doc> ;
   samm:value 1, 2.5, 1.0e3, -4, 'single \'quoted\'\u00e9' .
`

func TestParseAspectDocument(t *testing.T) {
	g, err := Parse("movement.ttl", []byte(movement), WithBlankPrefix("t"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ns := "urn:samm:io.example:1.0.0#"
	samm := "urn:samm:org.eclipse.esmf.samm:meta-model:2.1.0#"
	aspect := rdf.IRI(ns + "Movement")

	if diff := cmp.Diff([]string{samm + "Aspect"}, g.Types(aspect)); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	names := g.Objects(aspect, samm+"preferredName")
	want := []rdf.Term{rdf.LangLiteral("Movement", "en"), rdf.LangLiteral("Bewegung", "de")}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("preferred names mismatch (-want +got):\n%s", diff)
	}

	desc, _ := g.Object(aspect, samm+"description")
	if desc.Value != "Aspect for \"movement\"\ninformation" {
		t.Fatalf("unexpected long string %q", desc.Value)
	}

	head, ok := g.Object(aspect, samm+"properties")
	if !ok {
		t.Fatalf("expected properties list")
	}
	items, err := g.List(head)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0] != rdf.IRI(ns+"isMoving") || !items[1].IsBlank() {
		t.Fatalf("unexpected properties %v", items)
	}
	optional, _ := g.Object(items[1], samm+"optional")
	if v, ok := optional.Bool(); !ok || !v {
		t.Fatalf("expected optional true, got %+v", optional)
	}

	ops, _ := g.Object(aspect, samm+"operations")
	if ops != rdf.IRI(rdf.RDFNil) {
		t.Fatalf("expected empty list to be rdf:nil, got %v", ops)
	}

	example, _ := g.Object(rdf.IRI(ns+"speed"), samm+"exampleValue")
	if example.Datatype != rdf.XSDNamespace+"float" || example.Value != "12.5" {
		t.Fatalf("unexpected typed literal %+v", example)
	}

	values := g.Objects(rdf.IRI(ns+"Speed"), samm+"value")
	wantValues := []rdf.Term{
		rdf.Literal("1", rdf.XSDInteger),
		rdf.Literal("2.5", rdf.XSDDecimal),
		rdf.Literal("1.0e3", rdf.XSDDouble),
		rdf.Literal("-4", rdf.XSDInteger),
		rdf.Literal("single 'quoted'é", rdf.XSDString),
	}
	if diff := cmp.Diff(wantValues, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	if g.Prefixes["samm-c"] != "urn:samm:org.eclipse.esmf.samm:characteristic:2.1.0#" || g.Prefixes[""] != ns {
		t.Fatalf("unexpected prefixes %v", g.Prefixes)
	}
}

func TestParseBaseAndSparqlDirectives(t *testing.T) {
	doc := `BASE <http://example.com/models/>
PREFIX ex: <http://example.com/vocab#>
<a> ex:link <../other> ; ex:self <#frag> .
_:x ex:label "x" .
_:x ex:next [] .
`
	g, err := Parse("base.ttl", []byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	subject := rdf.IRI("http://example.com/models/a")
	link, _ := g.Object(subject, "http://example.com/vocab#link")
	if link.Value != "http://example.com/other" {
		t.Fatalf("unexpected resolved IRI %q", link.Value)
	}
	self, _ := g.Object(subject, "http://example.com/vocab#self")
	if self.Value != "http://example.com/models/#frag" {
		t.Fatalf("unexpected fragment IRI %q", self.Value)
	}
	labeled := g.SubjectsWith("http://example.com/vocab#label", rdf.Literal("x", ""))
	if len(labeled) != 1 || len(g.About(labeled[0])) != 2 {
		t.Fatalf("expected blank label to be reused within the document")
	}
	if g.Base != "http://example.com/models/" {
		t.Fatalf("unexpected base %q", g.Base)
	}
}

func TestParseTrailingSemicolonAndBlankSubject(t *testing.T) {
	doc := `@prefix : <urn:samm:io.example:1.0.0#> .
:a :p :b ; .
[ :p "v" ] .
`
	g, err := Parse("semi.ttl", []byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if g.Len() != 2 {
		t.Fatalf("expected 2 triples, got %d", g.Len())
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		line int
	}{
		"undefined prefix": {doc: "@prefix : <urn:x#> .\n\nfoo:a :b :c .", line: 3},
		"missing dot":      {doc: "@prefix : <urn:x#> .\n:a :b :c", line: 2},
		"unterminated":     {doc: "@prefix : <urn:x#> .\n:a :b \"open .", line: 2},
		"bad escape":       {doc: "@prefix : <urn:x#> .\n:a :b \"\\q\" .", line: 2},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse("bad.ttl", []byte(tc.doc))
			if err == nil {
				t.Fatalf("expected parse error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}
			if parseErr.Line != tc.line {
				t.Fatalf("expected line %d, got %d (%v)", tc.line, parseErr.Line, err)
			}
		})
	}
}

func TestParseRoundTripsThroughWriter(t *testing.T) {
	g, err := Parse("movement.ttl", []byte(movement))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	w := rdf.NewTurtleWriter()
	w.SetPrefixes(g.Prefixes)
	again, err := Parse("again.ttl", []byte(w.Format(g)))
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if again.Len() != g.Len() {
		t.Fatalf("expected %d triples after round trip, got %d", g.Len(), again.Len())
	}
}
