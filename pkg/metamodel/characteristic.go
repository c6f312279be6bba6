package metamodel

import (
	"fmt"
	"strings"
)

// CharacteristicKind names the SAMM characteristic class.
type CharacteristicKind string

const (
	KindCharacteristic  CharacteristicKind = "Characteristic"
	KindTrait           CharacteristicKind = "Trait"
	KindQuantifiable    CharacteristicKind = "Quantifiable"
	KindMeasurement     CharacteristicKind = "Measurement"
	KindDuration        CharacteristicKind = "Duration"
	KindEnumeration     CharacteristicKind = "Enumeration"
	KindState           CharacteristicKind = "State"
	KindCollection      CharacteristicKind = "Collection"
	KindList            CharacteristicKind = "List"
	KindSet             CharacteristicKind = "Set"
	KindSortedSet       CharacteristicKind = "SortedSet"
	KindTimeSeries      CharacteristicKind = "TimeSeries"
	KindCode            CharacteristicKind = "Code"
	KindEither          CharacteristicKind = "Either"
	KindSingleEntity    CharacteristicKind = "SingleEntity"
	KindStructuredValue CharacteristicKind = "StructuredValue"
)

// CharacteristicKinds lists every kind the builder recognises.
var CharacteristicKinds = []CharacteristicKind{
	KindCharacteristic, KindTrait, KindQuantifiable, KindMeasurement, KindDuration,
	KindEnumeration, KindState, KindCollection, KindList, KindSet, KindSortedSet,
	KindTimeSeries, KindCode, KindEither, KindSingleEntity, KindStructuredValue,
}

// IsCharacteristicKind reports whether local names a characteristic class.
func IsCharacteristicKind(local string) bool {
	for _, k := range CharacteristicKinds {
		if string(k) == local {
			return true
		}
	}
	return false
}

// Characteristic describes the semantics of a property value.
type Characteristic struct {
	Base
	Kind     CharacteristicKind
	DataType *Type

	// Trait
	BaseCharacteristic *Characteristic
	Constraints        []*Constraint

	// Collection kinds
	ElementCharacteristic *Characteristic

	// Enumeration and State
	Values       []Value
	DefaultValue Value

	// Quantifiable kinds
	Unit *Unit

	// Either
	Left  *Characteristic
	Right *Characteristic

	// StructuredValue
	DeconstructionRule string
	Elements           []StructuredElement
}

// StructuredElement is either a literal separator or a property reference.
type StructuredElement struct {
	Literal  string
	Property *Property
}

// Effective unwraps traits down to the constrained characteristic.
func (c *Characteristic) Effective() *Characteristic {
	cur := c
	for i := 0; cur != nil && cur.Kind == KindTrait && cur.BaseCharacteristic != nil && i < 32; i++ {
		cur = cur.BaseCharacteristic
	}
	return cur
}

// EffectiveDataType returns the data type of the characteristic, looking
// through traits.
func (c *Characteristic) EffectiveDataType() *Type {
	if c == nil {
		return nil
	}
	if c.DataType != nil {
		return c.DataType
	}
	if eff := c.Effective(); eff != nil && eff != c {
		return eff.DataType
	}
	return nil
}

// IsCollection reports whether the effective characteristic is a collection.
func (c *Characteristic) IsCollection() bool {
	if c == nil {
		return false
	}
	switch c.Effective().Kind {
	case KindCollection, KindList, KindSet, KindSortedSet, KindTimeSeries:
		return true
	}
	return false
}

// IsEnumeration reports whether the effective characteristic enumerates values.
func (c *Characteristic) IsEnumeration() bool {
	if c == nil {
		return false
	}
	switch c.Effective().Kind {
	case KindEnumeration, KindState:
		return true
	}
	return false
}

// AllConstraints collects the constraints of every trait in the chain.
func (c *Characteristic) AllConstraints() []*Constraint {
	var out []*Constraint
	for cur, i := c, 0; cur != nil && i < 32; i++ {
		out = append(out, cur.Constraints...)
		if cur.Kind != KindTrait {
			break
		}
		cur = cur.BaseCharacteristic
	}
	return out
}

// ConstraintKind names the SAMM constraint class.
type ConstraintKind string

const (
	ConstraintRange             ConstraintKind = "RangeConstraint"
	ConstraintLength            ConstraintKind = "LengthConstraint"
	ConstraintRegularExpression ConstraintKind = "RegularExpressionConstraint"
	ConstraintEncoding          ConstraintKind = "EncodingConstraint"
	ConstraintLanguage          ConstraintKind = "LanguageConstraint"
	ConstraintLocale            ConstraintKind = "LocaleConstraint"
	ConstraintFixedPoint        ConstraintKind = "FixedPointConstraint"
	ConstraintGeneric           ConstraintKind = "Constraint"
)

// IsConstraintKind reports whether local names a constraint class.
func IsConstraintKind(local string) bool {
	switch ConstraintKind(local) {
	case ConstraintRange, ConstraintLength, ConstraintRegularExpression, ConstraintEncoding,
		ConstraintLanguage, ConstraintLocale, ConstraintFixedPoint, ConstraintGeneric:
		return true
	}
	return false
}

// BoundDefinition tells whether a range bound is inclusive.
type BoundDefinition string

const (
	BoundOpen        BoundDefinition = "OPEN"
	BoundAtLeast     BoundDefinition = "AT_LEAST"
	BoundGreaterThan BoundDefinition = "GREATER_THAN"
	BoundAtMost      BoundDefinition = "AT_MOST"
	BoundLessThan    BoundDefinition = "LESS_THAN"
)

// Constraint restricts the values a trait accepts.
type Constraint struct {
	Base
	Kind ConstraintKind

	// Range and Length
	MinValue   *ScalarValue
	MaxValue   *ScalarValue
	LowerBound BoundDefinition
	UpperBound BoundDefinition

	// RegularExpression and Encoding
	Value string

	LanguageCode string
	LocaleCode   string

	// FixedPoint
	Scale   int
	Integer int
}

// Detail renders the constraint parameters, for example "[0, 300)" for a
// range or "3..8" for a length.
func (c *Constraint) Detail() string {
	switch c.Kind {
	case ConstraintRange:
		return c.describeRange()
	case ConstraintLength:
		lo, hi := "0", "∞"
		if c.MinValue != nil {
			lo = c.MinValue.Value
		}
		if c.MaxValue != nil {
			hi = c.MaxValue.Value
		}
		return lo + ".." + hi
	case ConstraintRegularExpression, ConstraintEncoding:
		return c.Value
	case ConstraintLanguage:
		return c.LanguageCode
	case ConstraintLocale:
		return c.LocaleCode
	case ConstraintFixedPoint:
		return fmt.Sprintf("scale=%d integer=%d", c.Scale, c.Integer)
	}
	return ""
}

func (c *Constraint) String() string {
	if d := c.Detail(); d != "" {
		return string(c.Kind) + " " + d
	}
	return string(c.Kind)
}

func (c *Constraint) describeRange() string {
	var sb strings.Builder
	if c.MinValue == nil {
		sb.WriteString("(-∞")
	} else {
		if c.LowerBound == BoundGreaterThan {
			sb.WriteByte('(')
		} else {
			sb.WriteByte('[')
		}
		sb.WriteString(c.MinValue.Value)
	}
	sb.WriteString(", ")
	if c.MaxValue == nil {
		sb.WriteString("∞)")
	} else {
		sb.WriteString(c.MaxValue.Value)
		if c.UpperBound == BoundLessThan {
			sb.WriteByte(')')
		} else {
			sb.WriteByte(']')
		}
	}
	return sb.String()
}
