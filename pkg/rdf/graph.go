package rdf

import (
	"fmt"
	"sort"
)

// Graph is an insertion ordered set of triples with a subject index.
type Graph struct {
	// Prefixes maps prefix labels (without colon) to namespace IRIs as they
	// were declared in the source document.
	Prefixes map[string]string
	Base     string

	triples   []Triple
	seen      map[Triple]struct{}
	bySubject map[Term][]int
	subjects  []Term
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Prefixes:  make(map[string]string),
		seen:      make(map[Triple]struct{}),
		bySubject: make(map[Term][]int),
	}
}

// Add appends a triple unless the graph already holds it.
func (g *Graph) Add(s, p, o Term) bool {
	t := Triple{Subject: s, Predicate: p, Object: o}
	if _, ok := g.seen[t]; ok {
		return false
	}
	g.seen[t] = struct{}{}
	if _, ok := g.bySubject[s]; !ok {
		g.subjects = append(g.subjects, s)
	}
	g.bySubject[s] = append(g.bySubject[s], len(g.triples))
	g.triples = append(g.triples, t)
	return true
}

// Len returns the number of triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns a copy of all triples in insertion order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// Subjects returns every distinct subject in order of first appearance.
func (g *Graph) Subjects() []Term {
	out := make([]Term, len(g.subjects))
	copy(out, g.subjects)
	return out
}

// Has reports whether s is the subject of at least one triple.
func (g *Graph) Has(s Term) bool {
	_, ok := g.bySubject[s]
	return ok
}

// About returns the triples whose subject is s.
func (g *Graph) About(s Term) []Triple {
	idx := g.bySubject[s]
	out := make([]Triple, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.triples[i])
	}
	return out
}

// Objects returns all objects for subject s and predicate p.
func (g *Graph) Objects(s Term, p string) []Term {
	var out []Term
	for _, i := range g.bySubject[s] {
		t := g.triples[i]
		if t.Predicate.Value == p {
			out = append(out, t.Object)
		}
	}
	return out
}

// Object returns the first object for s and p.
func (g *Graph) Object(s Term, p string) (Term, bool) {
	for _, i := range g.bySubject[s] {
		t := g.triples[i]
		if t.Predicate.Value == p {
			return t.Object, true
		}
	}
	return Term{}, false
}

// SubjectsWith returns subjects having predicate p with object o.
func (g *Graph) SubjectsWith(p string, o Term) []Term {
	var out []Term
	for _, t := range g.triples {
		if t.Predicate.Value == p && t.Object == o {
			out = append(out, t.Subject)
		}
	}
	return out
}

// Types returns the rdf:type IRIs of s.
func (g *Graph) Types(s Term) []string {
	var out []string
	for _, o := range g.Objects(s, RDFType) {
		if o.IsIRI() {
			out = append(out, o.Value)
		}
	}
	return out
}

// List walks an RDF collection starting at head.
func (g *Graph) List(head Term) ([]Term, error) {
	var out []Term
	visited := make(map[Term]struct{})
	for node := head; !(node.IsIRI() && node.Value == RDFNil); {
		if _, ok := visited[node]; ok {
			return nil, fmt.Errorf("rdf: cyclic list at %s", node)
		}
		visited[node] = struct{}{}

		first, ok := g.Object(node, RDFFirst)
		if !ok {
			return nil, fmt.Errorf("rdf: list node %s has no rdf:first", node)
		}
		out = append(out, first)

		rest, ok := g.Object(node, RDFRest)
		if !ok {
			return nil, fmt.Errorf("rdf: list node %s has no rdf:rest", node)
		}
		node = rest
	}
	return out, nil
}

// Merge copies every triple and prefix of other into g. Prefixes already
// present in g win.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, t := range other.triples {
		g.Add(t.Subject, t.Predicate, t.Object)
	}
	for name, iri := range other.Prefixes {
		if _, ok := g.Prefixes[name]; !ok {
			g.Prefixes[name] = iri
		}
	}
}

// ReferencedIRIs returns every IRI used in any position, sorted.
func (g *Graph) ReferencedIRIs() []string {
	set := make(map[string]struct{})
	for _, t := range g.triples {
		for _, term := range [...]Term{t.Subject, t.Predicate, t.Object} {
			if term.IsIRI() {
				set[term.Value] = struct{}{}
			}
		}
		if t.Object.IsLiteral() && t.Object.Datatype != "" {
			set[t.Object.Datatype] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for iri := range set {
		out = append(out, iri)
	}
	sort.Strings(out)
	return out
}
