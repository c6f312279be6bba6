package docs

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

// page is the template view of one aspect. Text fields are already
// localised; Description fields hold sanitised HTML.
type page struct {
	Lang          string
	Title         string
	Name          string
	URN           string
	Namespace     string
	Version       string
	Description   string
	See           []string
	Stylesheet    string
	Theme         themeView
	Collection    bool
	Properties    []propertyView
	Entities      []entityView
	Operations    []operationView
	Events        []eventView
	Payload       string
	GeneratedFrom string
}

type propertyView struct {
	Anchor         string
	Name           string
	PreferredName  string
	PayloadName    string
	Description    string
	URN            string
	Optional       bool
	NotInPayload   bool
	Example        string
	See            []string
	Characteristic characteristicView
}

type characteristicView struct {
	Name        string
	Kind        string
	Description string
	DataType    string
	TypeAnchor  string
	Unit        string
	Values      []string
	Default     string
	Element     string
	Constraints []string
}

type entityView struct {
	Anchor        string
	Name          string
	PreferredName string
	Description   string
	URN           string
	Extends       string
	Abstract      bool
	Properties    []propertyView
}

type operationView struct {
	Anchor        string
	Name          string
	PreferredName string
	Description   string
	Input         []string
	Output        string
}

type eventView struct {
	Anchor        string
	Name          string
	PreferredName string
	Description   string
	Parameters    []string
}

type viewBuilder struct {
	lang     string
	entities []*metamodel.Entity
	seen     map[*metamodel.Entity]bool
}

func newViewBuilder(lang string) *viewBuilder {
	return &viewBuilder{lang: lang, seen: make(map[*metamodel.Entity]bool)}
}

func (b *viewBuilder) aspect(aspect *metamodel.Aspect) page {
	p := page{
		Lang:        b.lang,
		Title:       aspect.PreferredName(b.lang),
		Name:        aspect.Name,
		URN:         aspect.IRI,
		Namespace:   aspect.URN.Namespace,
		Version:     aspect.URN.Version,
		Description: sanitizeDescription(aspect.Description(b.lang)),
		See:         aspect.See,
		Collection:  aspect.IsCollectionAspect,
	}
	p.Properties = b.properties(aspect.Name, aspect.Properties)

	for _, op := range aspect.Operations {
		view := operationView{
			Anchor:        anchor(aspect.Name, op.Name),
			Name:          op.Name,
			PreferredName: op.PreferredName(b.lang),
			Description:   sanitizeDescription(op.Description(b.lang)),
		}
		for _, in := range op.Input {
			view.Input = append(view.Input, in.Name)
		}
		if op.Output != nil {
			view.Output = op.Output.Name
		}
		p.Operations = append(p.Operations, view)
	}
	for _, ev := range aspect.Events {
		view := eventView{
			Anchor:        anchor(aspect.Name, ev.Name),
			Name:          ev.Name,
			PreferredName: ev.PreferredName(b.lang),
			Description:   sanitizeDescription(ev.Description(b.lang)),
		}
		for _, param := range ev.Parameters {
			view.Parameters = append(view.Parameters, param.Name)
		}
		p.Events = append(p.Events, view)
	}

	// Entities are discovered while walking properties, including the ones
	// nested inside other entities.
	for i := 0; i < len(b.entities); i++ {
		e := b.entities[i]
		view := entityView{
			Anchor:        anchor(e.Name),
			Name:          e.Name,
			PreferredName: e.PreferredName(b.lang),
			Description:   sanitizeDescription(e.Description(b.lang)),
			URN:           e.IRI,
			Abstract:      e.IsAbstract,
		}
		if e.Extends != nil {
			view.Extends = e.Extends.Name
			b.entity(e.Extends)
		}
		view.Properties = b.properties(e.Name, e.Properties)
		p.Entities = append(p.Entities, view)
	}
	return p
}

func (b *viewBuilder) properties(owner string, props []*metamodel.Property) []propertyView {
	out := make([]propertyView, 0, len(props))
	for _, prop := range props {
		view := propertyView{
			Anchor:        anchor(owner, prop.Name),
			Name:          prop.Name,
			PreferredName: prop.PreferredName(b.lang),
			PayloadName:   prop.PayloadKey(),
			Description:   sanitizeDescription(prop.Description(b.lang)),
			URN:           prop.IRI,
			Optional:      prop.Optional,
			NotInPayload:  prop.NotInPayload,
			See:           prop.See,
		}
		if prop.ExampleValue != nil {
			view.Example = prop.ExampleValue.Lexical()
		}
		view.Characteristic = b.characteristic(prop.Characteristic)
		out = append(out, view)
	}
	return out
}

func (b *viewBuilder) characteristic(c *metamodel.Characteristic) characteristicView {
	if c == nil {
		return characteristicView{}
	}
	view := characteristicView{
		Name:        c.Name,
		Kind:        string(c.Kind),
		Description: sanitizeDescription(c.Description(b.lang)),
	}
	if c.Kind == metamodel.KindTrait {
		if eff := c.Effective(); eff != nil && eff != c {
			view.Kind = fmt.Sprintf("%s (%s)", c.Kind, eff.Kind)
		}
	}
	if t := c.EffectiveDataType(); t != nil {
		if t.IsComplex() {
			view.DataType = t.Entity.Name
			view.TypeAnchor = anchor(t.Entity.Name)
			b.entity(t.Entity)
		} else {
			view.DataType = metamodel.DataTypeLabel(t.Scalar)
		}
	}

	eff := c.Effective()
	if eff.Unit != nil {
		view.Unit = eff.Unit.Name
		if eff.Unit.Symbol != "" {
			view.Unit += " (" + eff.Unit.Symbol + ")"
		}
	}
	for _, v := range eff.Values {
		view.Values = append(view.Values, v.Lexical())
	}
	if eff.DefaultValue != nil {
		view.Default = eff.DefaultValue.Lexical()
	}
	if el := eff.ElementCharacteristic; el != nil {
		view.Element = el.Name
		if t := el.EffectiveDataType(); t != nil && t.IsComplex() {
			b.entity(t.Entity)
		}
	}
	for _, side := range []*metamodel.Characteristic{eff.Left, eff.Right} {
		if side == nil {
			continue
		}
		if t := side.EffectiveDataType(); t != nil && t.IsComplex() {
			b.entity(t.Entity)
		}
	}
	for _, con := range c.AllConstraints() {
		view.Constraints = append(view.Constraints, con.String())
	}
	return view
}

func (b *viewBuilder) entity(e *metamodel.Entity) {
	if e == nil || b.seen[e] {
		return
	}
	b.seen[e] = true
	b.entities = append(b.entities, e)
}

// anchor joins name parts into an HTML id.
func anchor(parts ...string) string {
	return strings.Join(parts, "-")
}
