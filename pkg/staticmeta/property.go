package staticmeta

// Accessor is the untyped view of a Property used when iterating over all
// properties of a type.
type Accessor[C any] interface {
	Name() string
	URN() string
	Info() PropertyInfo
	Value(c C) any
}

// Property is a reflection free accessor for one property of C holding a
// value of type T.
type Property[C, T any] struct {
	name string
	urn  string
	info PropertyInfo
	get  func(C) T
}

// NewProperty builds a Property. get must not be nil.
func NewProperty[C, T any](name, urn string, info PropertyInfo, get func(C) T) Property[C, T] {
	if get == nil {
		panic("staticmeta: property " + name + " has no getter")
	}
	return Property[C, T]{name: name, urn: urn, info: info, get: get}
}

func (p Property[C, T]) Name() string { return p.name }

func (p Property[C, T]) URN() string { return p.urn }

func (p Property[C, T]) Info() PropertyInfo { return p.info }

// Get returns the typed value of the property on c.
func (p Property[C, T]) Get(c C) T { return p.get(c) }

// Value returns the property value of c as any.
func (p Property[C, T]) Value(c C) any { return p.get(c) }

// Characteristic reports the characteristic of the property, if any.
func (p Property[C, T]) Characteristic() (CharacteristicInfo, bool) {
	if p.info.Characteristic == nil {
		return CharacteristicInfo{}, false
	}
	return *p.info.Characteristic, true
}

func (p Property[C, T]) IsOptional() bool { return p.info.Optional }

func (p Property[C, T]) IsComplexType() bool { return p.info.ComplexType }

func (p Property[C, T]) ContainingType() string { return p.info.ContainingType }

// Constraints returns a copy of the constraints applied to the property.
func (p Property[C, T]) Constraints() []ConstraintInfo {
	return append([]ConstraintInfo(nil), p.info.Constraints...)
}

func (p Property[C, T]) String() string {
	return p.info.describe(p.name)
}
