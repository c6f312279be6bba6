package staticmeta

import (
	"fmt"
	"strings"
)

// CharacteristicInfo names the characteristic a property is described by.
type CharacteristicInfo struct {
	URN  string
	Name string
	Kind string
}

func (c CharacteristicInfo) String() string {
	if c.Kind == "" || c.Kind == "Characteristic" {
		return c.URN
	}
	return fmt.Sprintf("%s (%s)", c.URN, c.Kind)
}

// ConstraintInfo describes one constraint applied through a trait.
type ConstraintInfo struct {
	URN   string
	Kind  string
	Value string
}

func (c ConstraintInfo) String() string {
	if c.Value == "" {
		return c.Kind
	}
	return c.Kind + "(" + c.Value + ")"
}

// PropertyInfo carries the model facts of a property as used by its
// containing type.
type PropertyInfo struct {
	PayloadName    string
	Characteristic *CharacteristicInfo
	DataType       string
	Optional       bool
	ComplexType    bool
	Collection     bool
	ContainingType string
	Constraints    []ConstraintInfo
}

func (p PropertyInfo) describe(name string) string {
	var sb strings.Builder
	sb.WriteString(p.ContainingType)
	sb.WriteString(".")
	sb.WriteString(name)
	if p.DataType != "" {
		sb.WriteString(" ")
		sb.WriteString(p.DataType)
	}
	if p.Optional {
		sb.WriteString(" optional")
	}
	return sb.String()
}
