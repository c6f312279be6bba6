package jsonpayload

import (
	"math/rand/v2"
	"regexp"
	"testing"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

func TestSampleForPattern(t *testing.T) {
	patterns := []string{
		`^BPNS[a-zA-Z0-9]{12}$`,
		`(^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$)|(^urn:uuid:[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-4[0-9a-fA-F]{3}-[89abAB][0-9a-fA-F]{3}-[0-9a-fA-F]{12}$)`,
		`^[A-Z]{2}-\d{3,5}(x|y)?$`,
		`^(red|green|blue)+$`,
	}
	rng := rand.New(rand.NewPCG(1, 2))

	for _, pattern := range patterns {
		re := regexp.MustCompile(pattern)
		for i := 0; i < 10; i++ {
			got, err := sampleForPattern(rng, pattern, anyLength)
			if err != nil {
				t.Fatalf("%s: %v", pattern, err)
			}
			if !re.MatchString(got) {
				t.Fatalf("%s: sample %q does not match", pattern, got)
			}
		}
	}
}

func TestSampleForPatternRejectsInvalid(t *testing.T) {
	if _, err := sampleForPattern(rand.New(rand.NewPCG(1, 2)), "([", anyLength); err == nil {
		t.Fatalf("expected error for invalid pattern")
	}
}

func TestNumbersHonourRangeBounds(t *testing.T) {
	g := newGenerator(5, defaultMaxDepth, nil)
	exclusive := &metamodel.Constraint{
		Kind:       metamodel.ConstraintRange,
		MinValue:   &metamodel.ScalarValue{Value: "0"},
		MaxValue:   &metamodel.ScalarValue{Value: "3"},
		LowerBound: metamodel.BoundGreaterThan,
		UpperBound: metamodel.BoundLessThan,
	}

	for i := 0; i < 50; i++ {
		if v := g.integer(metamodel.XSDInt, exclusive); v < 1 || v > 2 {
			t.Fatalf("integer %d outside (0, 3)", v)
		}
		d, err := g.decimal(metamodel.XSDDecimal, exclusive).Float64()
		if err != nil || d <= 0 || d >= 3 {
			t.Fatalf("decimal %v outside (0, 3): %v", d, err)
		}
	}
	if v := g.integer(metamodel.XSDUnsignedByte, nil); v < 0 || v > 255 {
		t.Fatalf("unsigned byte %d out of range", v)
	}
}

func lengthConstraint(lo, hi string) *metamodel.Constraint {
	c := &metamodel.Constraint{Kind: metamodel.ConstraintLength}
	if lo != "" {
		c.MinValue = &metamodel.ScalarValue{Value: lo}
	}
	if hi != "" {
		c.MaxValue = &metamodel.ScalarValue{Value: hi}
	}
	return c
}

func TestPatternSamplesHonourLength(t *testing.T) {
	g := newGenerator(9, defaultMaxDepth, nil)
	pattern := &metamodel.Constraint{Kind: metamodel.ConstraintRegularExpression, Value: `^[a-z]+$`}
	re := regexp.MustCompile(pattern.Value)

	orders := [][]*metamodel.Constraint{
		{pattern, lengthConstraint("5", "8")},
		{lengthConstraint("5", "8"), pattern},
	}
	for _, constraints := range orders {
		for i := 0; i < 50; i++ {
			v, err := g.scalar(metamodel.XSDString, constraints)
			if err != nil {
				t.Fatalf("scalar: %v", err)
			}
			s := v.(string)
			if !re.MatchString(s) || len(s) < 5 || len(s) > 8 {
				t.Fatalf("sample %q must match %s with length 5..8", s, pattern.Value)
			}
		}
	}

	v, err := g.scalar(metamodel.XSDString, []*metamodel.Constraint{pattern, lengthConstraint("20", "")})
	if err != nil {
		t.Fatalf("scalar with open maximum: %v", err)
	}
	if s := v.(string); len(s) < 20 {
		t.Fatalf("sample %q shorter than 20", s)
	}
}

func TestPatternSampleOutsideLengthFails(t *testing.T) {
	g := newGenerator(9, defaultMaxDepth, nil)
	constraints := []*metamodel.Constraint{
		{Kind: metamodel.ConstraintRegularExpression, Value: `^[a-z]{3}$`},
		lengthConstraint("5", "8"),
	}
	if _, err := g.scalar(metamodel.XSDString, constraints); err == nil {
		t.Fatalf("expected an error when no sample can satisfy both constraints")
	}
}

func TestTextClampsToMaxLength(t *testing.T) {
	g := newGenerator(3, defaultMaxDepth, nil)
	cases := []struct {
		length *metamodel.Constraint
		want   int
	}{
		{length: lengthConstraint("5", "3"), want: 3},
		{length: lengthConstraint("", "0"), want: 0},
		{length: lengthConstraint("4", "4"), want: 4},
	}
	for _, tc := range cases {
		if got := len(g.text(tc.length)); got != tc.want {
			t.Fatalf("length %s: got %d characters, want %d", tc.length.Detail(), got, tc.want)
		}
	}
}
