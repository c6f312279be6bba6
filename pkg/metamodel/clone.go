package metamodel

import "maps"

// CloneAspect copies the aspect together with the properties, operations,
// events, characteristics and entities reachable from it, so names and
// descriptions of the copy can be rewritten without touching the model.
// Values, constraints and units are shared with the original. Shared and
// recursive references keep their shape in the copy.
func CloneAspect(a *Aspect) *Aspect {
	if a == nil {
		return nil
	}
	c := &cloner{
		properties:      make(map[*Property]*Property),
		characteristics: make(map[*Characteristic]*Characteristic),
		entities:        make(map[*Entity]*Entity),
	}
	out := &Aspect{
		Base:               cloneBase(a.Base),
		IsCollectionAspect: a.IsCollectionAspect,
	}
	out.Properties = c.propertyList(a.Properties)
	for _, op := range a.Operations {
		out.Operations = append(out.Operations, &Operation{
			Base:   cloneBase(op.Base),
			Input:  c.propertyList(op.Input),
			Output: c.property(op.Output),
		})
	}
	for _, ev := range a.Events {
		out.Events = append(out.Events, &Event{
			Base:       cloneBase(ev.Base),
			Parameters: c.propertyList(ev.Parameters),
		})
	}
	return out
}

type cloner struct {
	properties      map[*Property]*Property
	characteristics map[*Characteristic]*Characteristic
	entities        map[*Entity]*Entity
}

func cloneBase(b Base) Base {
	b.PreferredNames = maps.Clone(b.PreferredNames)
	b.Descriptions = maps.Clone(b.Descriptions)
	b.See = append([]string(nil), b.See...)
	return b
}

func (c *cloner) propertyList(in []*Property) []*Property {
	if in == nil {
		return nil
	}
	out := make([]*Property, 0, len(in))
	for _, p := range in {
		out = append(out, c.property(p))
	}
	return out
}

func (c *cloner) property(p *Property) *Property {
	if p == nil {
		return nil
	}
	if done, ok := c.properties[p]; ok {
		return done
	}
	out := &Property{}
	c.properties[p] = out
	*out = *p
	out.Base = cloneBase(p.Base)
	out.Characteristic = c.characteristic(p.Characteristic)
	out.Extends = c.property(p.Extends)
	return out
}

func (c *cloner) characteristic(ch *Characteristic) *Characteristic {
	if ch == nil {
		return nil
	}
	if done, ok := c.characteristics[ch]; ok {
		return done
	}
	out := &Characteristic{}
	c.characteristics[ch] = out
	*out = *ch
	out.Base = cloneBase(ch.Base)
	out.DataType = c.dataType(ch.DataType)
	out.BaseCharacteristic = c.characteristic(ch.BaseCharacteristic)
	out.ElementCharacteristic = c.characteristic(ch.ElementCharacteristic)
	out.Left = c.characteristic(ch.Left)
	out.Right = c.characteristic(ch.Right)
	if ch.Elements != nil {
		out.Elements = make([]StructuredElement, len(ch.Elements))
		for i, el := range ch.Elements {
			out.Elements[i] = StructuredElement{Literal: el.Literal, Property: c.property(el.Property)}
		}
	}
	return out
}

func (c *cloner) dataType(t *Type) *Type {
	if t == nil {
		return nil
	}
	return &Type{Scalar: t.Scalar, Entity: c.entity(t.Entity)}
}

func (c *cloner) entity(e *Entity) *Entity {
	if e == nil {
		return nil
	}
	if done, ok := c.entities[e]; ok {
		return done
	}
	out := &Entity{}
	c.entities[e] = out
	*out = *e
	out.Base = cloneBase(e.Base)
	out.Properties = c.propertyList(e.Properties)
	out.Extends = c.entity(e.Extends)
	return out
}
