package tui

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/goliatone/go-aspectmodel/pkg/jsonbind"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

// validator builds the check applied to a scalar answer before it is
// accepted.
func validator(datatype string, constraints []*metamodel.Constraint) func(string) error {
	return func(input string) error {
		if err := checkLexical(datatype, input); err != nil {
			return err
		}
		for _, c := range constraints {
			if err := checkConstraint(datatype, c, input); err != nil {
				return err
			}
		}
		return nil
	}
}

func checkLexical(datatype, input string) error {
	switch {
	case datatype == metamodel.XSDDateTime:
		if _, err := jsonbind.ParseDateTime(input); err != nil {
			return err
		}
	case datatype == metamodel.XSDDate:
		if _, err := jsonbind.ParseDate(input); err != nil {
			return err
		}
	case metamodel.IsIntegerType(datatype):
		if _, err := strconv.ParseInt(input, 10, 64); err != nil {
			return fmt.Errorf("%q is not an integer", input)
		}
	case metamodel.IsNumericType(datatype):
		if _, err := strconv.ParseFloat(input, 64); err != nil {
			return fmt.Errorf("%q is not a number", input)
		}
	case datatype == metamodel.XSDString || datatype == metamodel.RDFLangString:
		if input == "" {
			return errors.New("value is required")
		}
	}
	return nil
}

func checkConstraint(datatype string, c *metamodel.Constraint, input string) error {
	if c == nil {
		return nil
	}
	switch c.Kind {
	case metamodel.ConstraintRegularExpression:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return nil
		}
		if !re.MatchString(input) {
			return fmt.Errorf("does not match %s", c.Value)
		}
	case metamodel.ConstraintLength:
		n := utf8.RuneCountInString(input)
		if lo, ok := bound(c.MinValue); ok && float64(n) < lo {
			return fmt.Errorf("must be at least %s characters", c.MinValue.Value)
		}
		if hi, ok := bound(c.MaxValue); ok && float64(n) > hi {
			return fmt.Errorf("must be at most %s characters", c.MaxValue.Value)
		}
	case metamodel.ConstraintRange:
		if !metamodel.IsNumericType(datatype) {
			return nil
		}
		v, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return nil
		}
		if lo, ok := bound(c.MinValue); ok {
			if c.LowerBound == metamodel.BoundGreaterThan && v <= lo {
				return fmt.Errorf("must be greater than %s", c.MinValue.Value)
			}
			if v < lo {
				return fmt.Errorf("must be at least %s", c.MinValue.Value)
			}
		}
		if hi, ok := bound(c.MaxValue); ok {
			if c.UpperBound == metamodel.BoundLessThan && v >= hi {
				return fmt.Errorf("must be less than %s", c.MaxValue.Value)
			}
			if v > hi {
				return fmt.Errorf("must be at most %s", c.MaxValue.Value)
			}
		}
	}
	return nil
}

func bound(v *metamodel.ScalarValue) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// lengthBounds reads the item count limits of a collection. A negative max
// means unbounded.
func lengthBounds(constraints []*metamodel.Constraint) (int, int) {
	minItems, maxItems := 0, -1
	for _, c := range constraints {
		if c == nil || c.Kind != metamodel.ConstraintLength {
			continue
		}
		if lo, ok := bound(c.MinValue); ok {
			minItems = int(lo)
		}
		if hi, ok := bound(c.MaxValue); ok {
			maxItems = int(hi)
		}
	}
	return minItems, maxItems
}
