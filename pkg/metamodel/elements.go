// Package metamodel holds the in-memory representation of SAMM Aspect Models.
package metamodel

import (
	"sort"

	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// Element is implemented by every named model element.
type Element interface {
	ElementBase() *Base
}

// Base carries the attributes every model element shares.
type Base struct {
	// IRI is the element identifier; anonymous elements use a blank label.
	IRI            string
	URN            urn.URN
	Name           string
	PreferredNames map[string]string
	Descriptions   map[string]string
	See            []string
}

func (b *Base) ElementBase() *Base { return b }

// IsAnonymous reports whether the element has no URN of its own.
func (b *Base) IsAnonymous() bool { return b.URN.IsZero() }

// PreferredName returns the name for lang, falling back to English, then
// any language, then the element name.
func (b *Base) PreferredName(lang string) string {
	if v := pickLang(b.PreferredNames, lang); v != "" {
		return v
	}
	return b.Name
}

// Description returns the description for lang with the same fallback as
// PreferredName, except that no description yields "".
func (b *Base) Description(lang string) string {
	return pickLang(b.Descriptions, lang)
}

// Languages lists every language used by names and descriptions, sorted.
func (b *Base) Languages() []string {
	set := make(map[string]struct{})
	for lang := range b.PreferredNames {
		set[lang] = struct{}{}
	}
	for lang := range b.Descriptions {
		set[lang] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for lang := range set {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

func pickLang(values map[string]string, lang string) string {
	if len(values) == 0 {
		return ""
	}
	if v, ok := values[lang]; ok {
		return v
	}
	if v, ok := values["en"]; ok {
		return v
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return values[keys[0]]
}

// Aspect is the root element of a model.
type Aspect struct {
	Base
	Properties         []*Property
	Operations         []*Operation
	Events             []*Event
	IsCollectionAspect bool
}

// Property describes a named value of an aspect or entity. The same property
// may be used with different payload settings, so every use gets its own copy.
type Property struct {
	Base
	Characteristic *Characteristic
	ExampleValue   Value
	Optional       bool
	NotInPayload   bool
	PayloadName    string
	IsAbstract     bool
	Extends        *Property
}

// PayloadKey returns the JSON key of the property.
func (p *Property) PayloadKey() string {
	if p.PayloadName != "" {
		return p.PayloadName
	}
	return p.Name
}

// DataType returns the data type of the effective characteristic, if any.
func (p *Property) DataType() *Type {
	if p.Characteristic == nil {
		return nil
	}
	return p.Characteristic.EffectiveDataType()
}

// Entity is a complex data type made of properties.
type Entity struct {
	Base
	Properties []*Property
	Extends    *Entity
	IsAbstract bool
}

// AllProperties returns inherited properties followed by the entity's own.
func (e *Entity) AllProperties() []*Property {
	if e == nil {
		return nil
	}
	var out []*Property
	seen := make(map[*Entity]struct{})
	var walk func(*Entity)
	walk = func(cur *Entity) {
		if cur == nil {
			return
		}
		if _, ok := seen[cur]; ok {
			return
		}
		seen[cur] = struct{}{}
		walk(cur.Extends)
		out = append(out, cur.Properties...)
	}
	walk(e)
	return out
}

// Type is either a scalar datatype IRI or an entity.
type Type struct {
	Scalar string
	Entity *Entity
}

func (t *Type) IsComplex() bool { return t != nil && t.Entity != nil }
func (t *Type) IsScalar() bool  { return t != nil && t.Entity == nil && t.Scalar != "" }

// IRI returns the scalar datatype or the entity IRI.
func (t *Type) IRI() string {
	switch {
	case t == nil:
		return ""
	case t.Entity != nil:
		return t.Entity.IRI
	default:
		return t.Scalar
	}
}

// Operation is a function an aspect exposes.
type Operation struct {
	Base
	Input  []*Property
	Output *Property
}

// Event is a message an aspect emits.
type Event struct {
	Base
	Parameters []*Property
}

// Unit is a unit of measurement.
type Unit struct {
	Base
	Symbol           string
	Code             string
	ReferenceUnit    *Unit
	ConversionFactor string
	QuantityKinds    []string
}
