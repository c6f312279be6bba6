package metamodel

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-aspectmodel/pkg/rdf"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// ModelFile is one parsed Turtle document.
type ModelFile struct {
	// Location is a path, URL or stream name the content came from.
	Location  string
	Namespace urn.URN
	Graph     *rdf.Graph
	Prefixes  map[string]string
	Content   []byte
}

// DefinedElements returns the URNs of all model elements declared (as
// typed subjects) by the file.
func (f *ModelFile) DefinedElements() []string {
	var out []string
	for _, s := range f.Graph.Subjects() {
		if s.IsIRI() && urn.IsModelIRI(s.Value) && len(f.Graph.Types(s)) > 0 {
			out = append(out, s.Value)
		}
	}
	return out
}

// AspectModel is the result of loading one or more model files.
type AspectModel struct {
	Files    []*ModelFile
	Elements map[string]Element

	order []string
}

// NewAspectModel creates an empty model.
func NewAspectModel() *AspectModel {
	return &AspectModel{Elements: make(map[string]Element)}
}

// Add registers an element under its IRI. Adding the same IRI twice is an error.
func (m *AspectModel) Add(el Element) error {
	iri := el.ElementBase().IRI
	if iri == "" {
		return fmt.Errorf("metamodel: element without identifier")
	}
	if _, exists := m.Elements[iri]; exists {
		return fmt.Errorf("metamodel: element %q already defined", iri)
	}
	m.Elements[iri] = el
	m.order = append(m.order, iri)
	return nil
}

// Element looks up an element by IRI.
func (m *AspectModel) Element(iri string) (Element, bool) {
	el, ok := m.Elements[iri]
	return el, ok
}

// Aspects returns every aspect in definition order.
func (m *AspectModel) Aspects() []*Aspect {
	var out []*Aspect
	for _, iri := range m.order {
		if a, ok := m.Elements[iri].(*Aspect); ok {
			out = append(out, a)
		}
	}
	return out
}

// Aspect returns the aspect identified by iri.
func (m *AspectModel) Aspect(iri string) (*Aspect, bool) {
	a, ok := m.Elements[iri].(*Aspect)
	return a, ok
}

// Entities returns every named entity in definition order.
func (m *AspectModel) Entities() []*Entity {
	var out []*Entity
	for _, iri := range m.order {
		if e, ok := m.Elements[iri].(*Entity); ok {
			out = append(out, e)
		}
	}
	return out
}

// Namespaces returns the distinct namespaces of all loaded files, sorted.
func (m *AspectModel) Namespaces() []string {
	set := make(map[string]struct{})
	for _, f := range m.Files {
		if !f.Namespace.IsZero() {
			set[f.Namespace.NamespaceIRI()] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for ns := range set {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// DefiningFile returns the file whose graph declares iri.
func (m *AspectModel) DefiningFile(iri string) (*ModelFile, bool) {
	subject := rdf.IRI(iri)
	for _, f := range m.Files {
		if f.Graph != nil && f.Graph.Has(subject) {
			return f, true
		}
	}
	return nil, false
}

// RootAspects returns the aspects declared by the first loaded file. Files
// pulled in through resolution may declare aspects of their own; those are
// dependencies, not the model the caller asked for.
func (m *AspectModel) RootAspects() []*Aspect {
	if len(m.Files) == 0 || m.Files[0].Graph == nil {
		return m.Aspects()
	}
	root := m.Files[0].Graph
	var out []*Aspect
	for _, a := range m.Aspects() {
		if root.Has(rdf.IRI(a.IRI)) {
			out = append(out, a)
		}
	}
	return out
}
