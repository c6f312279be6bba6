// Package builder turns parsed model graphs into metamodel elements.
package builder

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/rdf"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// ErrUnsupportedVersion is returned when a graph uses an unknown meta model version.
var ErrUnsupportedVersion = errors.New("builder: unsupported meta model version")

// Build merges the graphs of files and instantiates every aspect and entity
// they declare.
func Build(files []*metamodel.ModelFile) (*metamodel.AspectModel, error) {
	g := rdf.NewGraph()
	for _, f := range files {
		g.Merge(f.Graph)
	}
	versions, err := detectVersions(g)
	if err != nil {
		return nil, err
	}

	b := &builder{
		g:               g,
		versions:        versions,
		model:           metamodel.NewAspectModel(),
		properties:      make(map[rdf.Term]*metamodel.Property),
		characteristics: make(map[rdf.Term]*metamodel.Characteristic),
		constraints:     make(map[rdf.Term]*metamodel.Constraint),
		entities:        make(map[rdf.Term]*metamodel.Entity),
		units:           make(map[rdf.Term]*metamodel.Unit),
		instances:       make(map[rdf.Term]*metamodel.EntityInstance),
		operations:      make(map[rdf.Term]*metamodel.Operation),
		events:          make(map[rdf.Term]*metamodel.Event),
	}
	b.model.Files = files

	for _, s := range g.Subjects() {
		if !s.IsIRI() {
			continue
		}
		switch {
		case b.isMetaType(s, "Aspect"):
			if err := b.aspect(s); err != nil {
				return nil, err
			}
		case b.isMetaType(s, "Entity"), b.isMetaType(s, "AbstractEntity"):
			if _, err := b.entity(s); err != nil {
				return nil, err
			}
		}
	}
	return b.model, nil
}

func detectVersions(g *rdf.Graph) ([]string, error) {
	set := make(map[string]struct{})
	for _, iri := range g.ReferencedIRIs() {
		if _, version, _, ok := metamodel.SplitMetaModelIRI(iri); ok {
			if !metamodel.IsSupportedVersion(version) {
				return nil, fmt.Errorf("%w: %s", ErrUnsupportedVersion, version)
			}
			set[version] = struct{}{}
		}
	}
	if len(set) == 0 {
		return []string{metamodel.DefaultVersion}, nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

type builder struct {
	g        *rdf.Graph
	versions []string
	model    *metamodel.AspectModel

	properties      map[rdf.Term]*metamodel.Property
	characteristics map[rdf.Term]*metamodel.Characteristic
	constraints     map[rdf.Term]*metamodel.Constraint
	entities        map[rdf.Term]*metamodel.Entity
	units           map[rdf.Term]*metamodel.Unit
	instances       map[rdf.Term]*metamodel.EntityInstance
	operations      map[rdf.Term]*metamodel.Operation
	events          map[rdf.Term]*metamodel.Event
}

// samm looks up the first object of a meta-model predicate.
func (b *builder) samm(s rdf.Term, local string) (rdf.Term, bool) {
	for _, v := range b.versions {
		if o, ok := b.g.Object(s, metamodel.SAMM(v)+local); ok {
			return o, true
		}
	}
	return rdf.Term{}, false
}

func (b *builder) sammAll(s rdf.Term, local string) []rdf.Term {
	var out []rdf.Term
	for _, v := range b.versions {
		out = append(out, b.g.Objects(s, metamodel.SAMM(v)+local)...)
	}
	return out
}

// sammc looks up the first object of a characteristic namespace predicate.
func (b *builder) sammc(s rdf.Term, local string) (rdf.Term, bool) {
	for _, v := range b.versions {
		if o, ok := b.g.Object(s, metamodel.SAMMC(v)+local); ok {
			return o, true
		}
	}
	return rdf.Term{}, false
}

func (b *builder) sammcAll(s rdf.Term, local string) []rdf.Term {
	var out []rdf.Term
	for _, v := range b.versions {
		out = append(out, b.g.Objects(s, metamodel.SAMMC(v)+local)...)
	}
	return out
}

func (b *builder) isMetaType(s rdf.Term, local string) bool {
	for _, t := range b.g.Types(s) {
		if part, _, l, ok := metamodel.SplitMetaModelIRI(t); ok && part == metamodel.PartMetaModel && l == local {
			return true
		}
	}
	return false
}

// metaType returns the first meta model class of s.
func (b *builder) metaType(s rdf.Term) (metamodel.MetaModelPart, string, bool) {
	for _, t := range b.g.Types(s) {
		if part, _, local, ok := metamodel.SplitMetaModelIRI(t); ok {
			return part, local, true
		}
	}
	return "", "", false
}

func (b *builder) list(head rdf.Term, owner rdf.Term, what string) ([]rdf.Term, error) {
	items, err := b.g.List(head)
	if err != nil {
		return nil, fmt.Errorf("builder: %s of %s: %w", what, display(owner), err)
	}
	return items, nil
}

func (b *builder) register(el metamodel.Element) error {
	base := el.ElementBase()
	if base.IsAnonymous() {
		return nil
	}
	if _, exists := b.model.Element(base.IRI); exists {
		return nil
	}
	return b.model.Add(el)
}

func (b *builder) base(s rdf.Term) metamodel.Base {
	out := metamodel.Base{IRI: s.Value}
	if s.IsIRI() {
		out.Name = metamodel.LocalName(s.Value)
		if u, err := urn.Parse(s.Value); err == nil {
			out.URN = u
		}
	}
	for _, o := range b.sammAll(s, "preferredName") {
		if out.PreferredNames == nil {
			out.PreferredNames = make(map[string]string)
		}
		out.PreferredNames[langOf(o)] = o.Value
	}
	for _, o := range b.sammAll(s, "description") {
		if out.Descriptions == nil {
			out.Descriptions = make(map[string]string)
		}
		out.Descriptions[langOf(o)] = o.Value
	}
	for _, o := range b.sammAll(s, "see") {
		out.See = append(out.See, o.Value)
	}
	return out
}

func langOf(t rdf.Term) string {
	if t.Lang == "" {
		return "en"
	}
	return t.Lang
}

func display(t rdf.Term) string {
	if t.IsBlank() {
		return "anonymous node"
	}
	return t.Value
}

func (b *builder) requireDefined(s rdf.Term, what string) error {
	if s.IsIRI() && !b.g.Has(s) {
		return fmt.Errorf("builder: %s %s is referenced but not defined", what, s.Value)
	}
	return nil
}

func (b *builder) aspect(s rdf.Term) error {
	a := &metamodel.Aspect{Base: b.base(s)}
	if err := b.register(a); err != nil {
		return err
	}

	props, err := b.propertyList(s)
	if err != nil {
		return err
	}
	a.Properties = props

	if head, ok := b.samm(s, "operations"); ok {
		items, err := b.list(head, s, "operations")
		if err != nil {
			return err
		}
		for _, item := range items {
			op, err := b.operation(item)
			if err != nil {
				return err
			}
			a.Operations = append(a.Operations, op)
		}
	}
	if head, ok := b.samm(s, "events"); ok {
		items, err := b.list(head, s, "events")
		if err != nil {
			return err
		}
		for _, item := range items {
			ev, err := b.event(item)
			if err != nil {
				return err
			}
			a.Events = append(a.Events, ev)
		}
	}
	a.IsCollectionAspect = len(a.Properties) == 1 && a.Properties[0].Characteristic.IsCollection()
	return nil
}

// propertyList reads samm:properties of an aspect or entity.
func (b *builder) propertyList(owner rdf.Term) ([]*metamodel.Property, error) {
	head, ok := b.samm(owner, "properties")
	if !ok {
		return nil, nil
	}
	items, err := b.list(head, owner, "properties")
	if err != nil {
		return nil, err
	}
	out := make([]*metamodel.Property, 0, len(items))
	for _, item := range items {
		p, err := b.propertyUse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// propertyUse resolves a properties list item. Blank nodes carry payload
// settings and yield a copy of the referenced property.
func (b *builder) propertyUse(item rdf.Term) (*metamodel.Property, error) {
	if item.IsIRI() {
		return b.property(item)
	}

	var p *metamodel.Property
	if ref, ok := b.samm(item, "property"); ok {
		canonical, err := b.property(ref)
		if err != nil {
			return nil, err
		}
		copied := *canonical
		p = &copied
	} else if ext, ok := b.samm(item, "extends"); ok {
		parent, err := b.property(ext)
		if err != nil {
			return nil, err
		}
		p = &metamodel.Property{Base: b.base(item), Extends: parent}
		if c, ok := b.samm(item, "characteristic"); ok {
			if p.Characteristic, err = b.characteristic(c); err != nil {
				return nil, err
			}
		} else {
			p.Characteristic = parent.Characteristic
		}
		p.Name = parent.Name
		p.ExampleValue = parent.ExampleValue
	} else {
		return nil, fmt.Errorf("builder: property reference without samm:property")
	}

	if o, ok := b.samm(item, "optional"); ok {
		p.Optional, _ = o.Bool()
	}
	if o, ok := b.samm(item, "notInPayload"); ok {
		p.NotInPayload, _ = o.Bool()
	}
	if o, ok := b.samm(item, "payloadName"); ok {
		p.PayloadName = o.Value
	}
	return p, nil
}

func (b *builder) property(s rdf.Term) (*metamodel.Property, error) {
	if p, ok := b.properties[s]; ok {
		return p, nil
	}
	if err := b.requireDefined(s, "property"); err != nil {
		return nil, err
	}
	p := &metamodel.Property{Base: b.base(s)}
	p.IsAbstract = b.isMetaType(s, "AbstractProperty")
	b.properties[s] = p
	if err := b.register(p); err != nil {
		return nil, err
	}

	if c, ok := b.samm(s, "characteristic"); ok {
		ch, err := b.characteristic(c)
		if err != nil {
			return nil, fmt.Errorf("builder: property %s: %w", display(s), err)
		}
		p.Characteristic = ch
	}
	if ext, ok := b.samm(s, "extends"); ok {
		parent, err := b.property(ext)
		if err != nil {
			return nil, err
		}
		p.Extends = parent
	}
	if ex, ok := b.samm(s, "exampleValue"); ok {
		var dt *metamodel.Type
		if p.Characteristic != nil {
			dt = p.Characteristic.EffectiveDataType()
		}
		v, err := b.value(ex, dt)
		if err != nil {
			return nil, err
		}
		p.ExampleValue = v
	}
	return p, nil
}

func (b *builder) characteristic(s rdf.Term) (*metamodel.Characteristic, error) {
	if c, ok := b.characteristics[s]; ok {
		return c, nil
	}
	if s.IsIRI() && !b.g.Has(s) {
		if builtin, ok := metamodel.BuiltinCharacteristic(s.Value); ok {
			b.characteristics[s] = builtin
			return builtin, b.register(builtin)
		}
	}
	if err := b.requireDefined(s, "characteristic"); err != nil {
		return nil, err
	}

	c := &metamodel.Characteristic{Base: b.base(s), Kind: metamodel.KindCharacteristic}
	if _, local, ok := b.metaType(s); ok && metamodel.IsCharacteristicKind(local) {
		c.Kind = metamodel.CharacteristicKind(local)
	}
	b.characteristics[s] = c
	if err := b.register(c); err != nil {
		return nil, err
	}

	if dt, ok := b.samm(s, "dataType"); ok {
		t, err := b.dataType(dt)
		if err != nil {
			return nil, err
		}
		c.DataType = t
	}

	var err error
	if base, ok := b.sammc(s, "baseCharacteristic"); ok {
		if c.BaseCharacteristic, err = b.characteristic(base); err != nil {
			return nil, err
		}
	}
	for _, con := range b.sammcAll(s, "constraint") {
		constraint, err := b.constraint(con)
		if err != nil {
			return nil, err
		}
		c.Constraints = append(c.Constraints, constraint)
	}
	if el, ok := b.sammc(s, "elementCharacteristic"); ok {
		if c.ElementCharacteristic, err = b.characteristic(el); err != nil {
			return nil, err
		}
		if c.DataType == nil {
			c.DataType = c.ElementCharacteristic.EffectiveDataType()
		}
	}
	if head, ok := b.sammc(s, "values"); ok {
		items, err := b.list(head, s, "values")
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			v, err := b.value(item, c.DataType)
			if err != nil {
				return nil, err
			}
			c.Values = append(c.Values, v)
		}
	}
	if def, ok := b.sammc(s, "defaultValue"); ok {
		v, err := b.value(def, c.DataType)
		if err != nil {
			return nil, err
		}
		c.DefaultValue = matchValue(c.Values, v)
	}
	if u, ok := b.sammc(s, "unit"); ok {
		c.Unit = b.unit(u)
	}
	if l, ok := b.sammc(s, "left"); ok {
		if c.Left, err = b.characteristic(l); err != nil {
			return nil, err
		}
	}
	if r, ok := b.sammc(s, "right"); ok {
		if c.Right, err = b.characteristic(r); err != nil {
			return nil, err
		}
	}
	if rule, ok := b.sammc(s, "deconstructionRule"); ok {
		c.DeconstructionRule = rule.Value
	}
	if head, ok := b.sammc(s, "elements"); ok {
		items, err := b.list(head, s, "elements")
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.IsLiteral() {
				c.Elements = append(c.Elements, metamodel.StructuredElement{Literal: item.Value})
				continue
			}
			p, err := b.property(item)
			if err != nil {
				return nil, err
			}
			c.Elements = append(c.Elements, metamodel.StructuredElement{Property: p})
		}
	}
	return c, nil
}

// matchValue returns the enumeration entry equal to v so identity
// comparisons against Values hold.
func matchValue(values []metamodel.Value, v metamodel.Value) metamodel.Value {
	for _, candidate := range values {
		if candidate == v {
			return candidate
		}
		a, okA := candidate.(*metamodel.ScalarValue)
		c, okC := v.(*metamodel.ScalarValue)
		if okA && okC && a.Value == c.Value && a.Lang == c.Lang {
			return candidate
		}
	}
	return v
}

func (b *builder) dataType(t rdf.Term) (*metamodel.Type, error) {
	if b.isMetaType(t, "Entity") || b.isMetaType(t, "AbstractEntity") {
		e, err := b.entity(t)
		if err != nil {
			return nil, err
		}
		return &metamodel.Type{Entity: e}, nil
	}
	if t.IsIRI() && urn.IsModelIRI(t.Value) && !metamodel.IsCurie(t.Value) {
		if _, _, _, meta := metamodel.SplitMetaModelIRI(t.Value); !meta {
			return nil, fmt.Errorf("builder: entity %s is referenced but not defined", t.Value)
		}
	}
	return &metamodel.Type{Scalar: t.Value}, nil
}

func (b *builder) constraint(s rdf.Term) (*metamodel.Constraint, error) {
	if c, ok := b.constraints[s]; ok {
		return c, nil
	}
	if err := b.requireDefined(s, "constraint"); err != nil {
		return nil, err
	}
	c := &metamodel.Constraint{Base: b.base(s), Kind: metamodel.ConstraintGeneric}
	if _, local, ok := b.metaType(s); ok && metamodel.IsConstraintKind(local) {
		c.Kind = metamodel.ConstraintKind(local)
	}
	b.constraints[s] = c
	if err := b.register(c); err != nil {
		return nil, err
	}

	scalar := func(t rdf.Term) *metamodel.ScalarValue {
		return &metamodel.ScalarValue{Value: t.Value, Datatype: t.Datatype, Lang: t.Lang}
	}
	if v, ok := b.sammc(s, "minValue"); ok {
		c.MinValue = scalar(v)
	}
	if v, ok := b.sammc(s, "maxValue"); ok {
		c.MaxValue = scalar(v)
	}
	if c.Kind == metamodel.ConstraintRange {
		c.LowerBound, c.UpperBound = metamodel.BoundAtLeast, metamodel.BoundAtMost
		if c.MinValue == nil {
			c.LowerBound = metamodel.BoundOpen
		}
		if c.MaxValue == nil {
			c.UpperBound = metamodel.BoundOpen
		}
	}
	if v, ok := b.sammc(s, "lowerBoundDefinition"); ok {
		c.LowerBound = metamodel.BoundDefinition(metamodel.LocalName(v.Value))
	}
	if v, ok := b.sammc(s, "upperBoundDefinition"); ok {
		c.UpperBound = metamodel.BoundDefinition(metamodel.LocalName(v.Value))
	}
	if v, ok := b.samm(s, "value"); ok {
		c.Value = v.Value
		if v.IsIRI() {
			c.Value = metamodel.LocalName(v.Value)
		}
	}
	if v, ok := b.sammc(s, "languageCode"); ok {
		c.LanguageCode = v.Value
	}
	if v, ok := b.sammc(s, "localeCode"); ok {
		c.LocaleCode = v.Value
	}
	if v, ok := b.sammc(s, "scale"); ok {
		n, err := strconv.Atoi(v.Value)
		if err != nil {
			return nil, fmt.Errorf("builder: constraint %s: invalid scale %q", display(s), v.Value)
		}
		c.Scale = n
	}
	if v, ok := b.sammc(s, "integer"); ok {
		n, err := strconv.Atoi(v.Value)
		if err != nil {
			return nil, fmt.Errorf("builder: constraint %s: invalid integer %q", display(s), v.Value)
		}
		c.Integer = n
	}
	return c, nil
}

func (b *builder) entity(s rdf.Term) (*metamodel.Entity, error) {
	if e, ok := b.entities[s]; ok {
		return e, nil
	}
	if err := b.requireDefined(s, "entity"); err != nil {
		return nil, err
	}
	e := &metamodel.Entity{Base: b.base(s), IsAbstract: b.isMetaType(s, "AbstractEntity")}
	b.entities[s] = e
	if err := b.register(e); err != nil {
		return nil, err
	}

	props, err := b.propertyList(s)
	if err != nil {
		return nil, err
	}
	e.Properties = props
	if ext, ok := b.samm(s, "extends"); ok {
		parent, err := b.entity(ext)
		if err != nil {
			return nil, err
		}
		e.Extends = parent
	}
	return e, nil
}

func (b *builder) unit(s rdf.Term) *metamodel.Unit {
	if u, ok := b.units[s]; ok {
		return u
	}
	u := &metamodel.Unit{Base: b.base(s)}
	b.units[s] = u
	if v, ok := b.samm(s, "symbol"); ok {
		u.Symbol = v.Value
	}
	if v, ok := b.samm(s, "commonCode"); ok {
		u.Code = v.Value
	}
	if v, ok := b.samm(s, "conversionFactor"); ok {
		u.ConversionFactor = v.Value
	}
	if v, ok := b.samm(s, "referenceUnit"); ok {
		u.ReferenceUnit = b.unit(v)
	}
	for _, q := range b.sammAll(s, "quantityKind") {
		u.QuantityKinds = append(u.QuantityKinds, metamodel.LocalName(q.Value))
	}
	return u
}

func (b *builder) operation(s rdf.Term) (*metamodel.Operation, error) {
	if op, ok := b.operations[s]; ok {
		return op, nil
	}
	if err := b.requireDefined(s, "operation"); err != nil {
		return nil, err
	}
	op := &metamodel.Operation{Base: b.base(s)}
	b.operations[s] = op
	if err := b.register(op); err != nil {
		return nil, err
	}
	if head, ok := b.samm(s, "input"); ok {
		items, err := b.list(head, s, "input")
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			p, err := b.propertyUse(item)
			if err != nil {
				return nil, err
			}
			op.Input = append(op.Input, p)
		}
	}
	if out, ok := b.samm(s, "output"); ok {
		p, err := b.propertyUse(out)
		if err != nil {
			return nil, err
		}
		op.Output = p
	}
	return op, nil
}

func (b *builder) event(s rdf.Term) (*metamodel.Event, error) {
	if ev, ok := b.events[s]; ok {
		return ev, nil
	}
	if err := b.requireDefined(s, "event"); err != nil {
		return nil, err
	}
	ev := &metamodel.Event{Base: b.base(s)}
	b.events[s] = ev
	if err := b.register(ev); err != nil {
		return nil, err
	}
	props, err := b.parameterList(s)
	if err != nil {
		return nil, err
	}
	ev.Parameters = props
	return ev, nil
}

func (b *builder) parameterList(s rdf.Term) ([]*metamodel.Property, error) {
	head, ok := b.samm(s, "parameters")
	if !ok {
		return nil, nil
	}
	items, err := b.list(head, s, "parameters")
	if err != nil {
		return nil, err
	}
	out := make([]*metamodel.Property, 0, len(items))
	for _, item := range items {
		p, err := b.propertyUse(item)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// value converts an example, enumeration or default value.
func (b *builder) value(t rdf.Term, expected *metamodel.Type) (metamodel.Value, error) {
	switch {
	case t.IsLiteral():
		dt := t.Datatype
		if dt == rdf.XSDString && expected.IsScalar() && expected.Scalar != rdf.XSDString {
			dt = expected.Scalar
		}
		return &metamodel.ScalarValue{Value: t.Value, Datatype: dt, Lang: t.Lang}, nil
	case t.IsIRI() && b.g.Has(t):
		return b.instance(t)
	case t.IsIRI():
		return &metamodel.ScalarValue{Value: t.Value, Datatype: metamodel.XSDAnyURI}, nil
	default:
		items, err := b.g.List(t)
		if err != nil {
			return nil, fmt.Errorf("builder: unsupported value node: %w", err)
		}
		out := &metamodel.CollectionValue{}
		for _, item := range items {
			v, err := b.value(item, nil)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, v)
		}
		return out, nil
	}
}

func (b *builder) instance(s rdf.Term) (*metamodel.EntityInstance, error) {
	if inst, ok := b.instances[s]; ok {
		return inst, nil
	}
	inst := &metamodel.EntityInstance{Base: b.base(s), Values: make(map[string]metamodel.Value)}
	b.instances[s] = inst

	for _, t := range b.g.Types(s) {
		typ := rdf.IRI(t)
		if b.isMetaType(typ, "Entity") || b.isMetaType(typ, "AbstractEntity") {
			e, err := b.entity(typ)
			if err != nil {
				return nil, err
			}
			inst.Entity = e
			break
		}
	}
	if inst.Entity == nil {
		return nil, fmt.Errorf("builder: value %s is not an entity instance", s.Value)
	}

	for _, prop := range inst.Entity.AllProperties() {
		o, ok := b.g.Object(s, prop.IRI)
		if !ok {
			continue
		}
		var dt *metamodel.Type
		if prop.Characteristic != nil {
			dt = prop.Characteristic.EffectiveDataType()
		}
		v, err := b.value(o, dt)
		if err != nil {
			return nil, err
		}
		inst.Values[prop.Name] = v
		inst.Order = append(inst.Order, prop.Name)
	}
	return inst, nil
}
