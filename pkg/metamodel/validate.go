package metamodel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValidationError is a single structural problem found in a model.
type ValidationError struct {
	Element string `json:"element"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Element, e.Message, e.Rule)
}

// ValidationErrors aggregates every problem of a model.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return "metamodel: " + e[0].Error()
	}
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return fmt.Sprintf("metamodel: %d validation errors: %s", len(e), strings.Join(parts, "; "))
}

// Validation rule identifiers.
const (
	RuleAspectProperties  = "aspect-properties"
	RulePropertyCharacter = "property-characteristic"
	RuleDataType          = "characteristic-datatype"
	RuleTraitBase         = "trait-base"
	RuleTraitConstraint   = "trait-constraint"
	RuleEnumerationValues = "enumeration-values"
	RuleStateDefault      = "state-default"
	RuleLengthBounds      = "length-bounds"
	RuleCollectionElement = "collection-element"
	RuleEitherSides       = "either-sides"
)

// Validate checks the structural rules every model must satisfy. It returns
// nil for a valid model.
func Validate(model *AspectModel) ValidationErrors {
	v := &validator{seen: make(map[any]struct{})}
	for _, aspect := range model.Aspects() {
		if len(aspect.Properties) == 0 && !aspect.IsCollectionAspect {
			v.add(&aspect.Base, RuleAspectProperties, "aspect declares no properties")
		}
		v.properties(aspect.Properties)
		for _, op := range aspect.Operations {
			v.properties(op.Input)
			if op.Output != nil {
				v.properties([]*Property{op.Output})
			}
		}
		for _, ev := range aspect.Events {
			v.properties(ev.Parameters)
		}
	}
	for _, entity := range model.Entities() {
		v.properties(entity.Properties)
	}
	sort.SliceStable(v.errs, func(i, j int) bool {
		return v.errs[i].Element < v.errs[j].Element
	})
	if len(v.errs) == 0 {
		return nil
	}
	return v.errs
}

type validator struct {
	errs ValidationErrors
	seen map[any]struct{}
}

func (v *validator) add(b *Base, rule, msg string) {
	id := b.IRI
	if !b.IsAnonymous() {
		id = b.URN.String()
	}
	v.errs = append(v.errs, ValidationError{Element: id, Rule: rule, Message: msg})
}

func (v *validator) visit(key any) bool {
	if _, ok := v.seen[key]; ok {
		return false
	}
	v.seen[key] = struct{}{}
	return true
}

func (v *validator) properties(props []*Property) {
	for _, p := range props {
		if !v.visit(p) {
			continue
		}
		if p.Characteristic == nil {
			if !p.IsAbstract {
				v.add(&p.Base, RulePropertyCharacter, "property has no characteristic")
			}
			continue
		}
		v.characteristic(p.Characteristic)
	}
}

func (v *validator) characteristic(c *Characteristic) {
	if c == nil || !v.visit(c) {
		return
	}
	switch c.Kind {
	case KindTrait:
		if c.BaseCharacteristic == nil {
			v.add(&c.Base, RuleTraitBase, "trait has no base characteristic")
		}
		if len(c.Constraints) == 0 {
			v.add(&c.Base, RuleTraitConstraint, "trait has no constraint")
		}
		v.characteristic(c.BaseCharacteristic)
		for _, con := range c.Constraints {
			v.constraint(con)
		}
		return
	case KindEither:
		if c.Left == nil || c.Right == nil {
			v.add(&c.Base, RuleEitherSides, "either requires left and right characteristics")
		}
		v.characteristic(c.Left)
		v.characteristic(c.Right)
		return
	}

	collection := c.Kind == KindCollection || c.Kind == KindList || c.Kind == KindSet ||
		c.Kind == KindSortedSet || c.Kind == KindTimeSeries
	switch {
	case c.DataType == nil && collection && c.ElementCharacteristic == nil:
		v.add(&c.Base, RuleCollectionElement, "collection has neither data type nor element characteristic")
	case c.DataType == nil && !collection:
		v.add(&c.Base, RuleDataType, "characteristic has no data type")
	case c.DataType != nil && c.DataType.Entity != nil:
		v.properties(c.DataType.Entity.AllProperties())
	}

	switch c.Kind {
	case KindEnumeration:
		if len(c.Values) == 0 {
			v.add(&c.Base, RuleEnumerationValues, "enumeration has no values")
		}
	case KindState:
		if len(c.Values) == 0 {
			v.add(&c.Base, RuleEnumerationValues, "state has no values")
		}
		if c.DefaultValue == nil {
			v.add(&c.Base, RuleStateDefault, "state has no default value")
		} else if !containsValue(c.Values, c.DefaultValue) {
			v.add(&c.Base, RuleStateDefault, fmt.Sprintf("default value %q is not one of the values", c.DefaultValue.Lexical()))
		}
	}
	if c.ElementCharacteristic != nil {
		v.characteristic(c.ElementCharacteristic)
	}
}

func (v *validator) constraint(c *Constraint) {
	if c == nil || c.Kind != ConstraintLength || c.MinValue == nil || c.MaxValue == nil {
		return
	}
	lo, errLo := strconv.ParseUint(c.MinValue.Value, 10, 64)
	hi, errHi := strconv.ParseUint(c.MaxValue.Value, 10, 64)
	if errLo != nil || errHi != nil {
		v.add(&c.Base, RuleLengthBounds, "length bounds must be non-negative integers")
		return
	}
	if lo > hi {
		v.add(&c.Base, RuleLengthBounds, fmt.Sprintf("min length %d exceeds max length %d", lo, hi))
	}
}

func containsValue(values []Value, target Value) bool {
	for _, v := range values {
		if v == target {
			return true
		}
		a, okA := v.(*ScalarValue)
		b, okB := target.(*ScalarValue)
		if okA && okB && a.Value == b.Value && a.Lang == b.Lang {
			return true
		}
	}
	return false
}
