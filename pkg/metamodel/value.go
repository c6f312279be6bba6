package metamodel

import (
	"strings"
)

// Value is a literal or an entity instance used for example values,
// enumeration values and state defaults.
type Value interface {
	// Lexical returns a display form of the value.
	Lexical() string
}

// ScalarValue is a typed literal.
type ScalarValue struct {
	Value    string
	Datatype string
	Lang     string
}

func (v *ScalarValue) Lexical() string { return v.Value }

// EntityInstance is a named individual of an entity.
type EntityInstance struct {
	Base
	Entity *Entity
	// Values is keyed by property name; Order keeps declaration order.
	Values map[string]Value
	Order  []string
}

func (v *EntityInstance) Lexical() string { return v.Name }

// Get returns the value assigned to property name.
func (v *EntityInstance) Get(name string) (Value, bool) {
	val, ok := v.Values[name]
	return val, ok
}

// CollectionValue is a list of values assigned to a collection property of
// an entity instance.
type CollectionValue struct {
	Items []Value
}

func (v *CollectionValue) Lexical() string {
	parts := make([]string, 0, len(v.Items))
	for _, item := range v.Items {
		parts = append(parts, item.Lexical())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
