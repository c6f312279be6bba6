package metamodel_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

func TestSplitMetaModelIRI(t *testing.T) {
	part, version, local, ok := metamodel.SplitMetaModelIRI(metamodel.SAMMC("2.1.0") + "Trait")
	if !ok {
		t.Fatalf("expected meta model iri")
	}
	got := []string{string(part), version, local}
	if diff := cmp.Diff([]string{"characteristic", "2.1.0", "Trait"}, got); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
	if _, _, _, ok := metamodel.SplitMetaModelIRI("urn:samm:io.example:1.0.0#Trait"); ok {
		t.Fatalf("model namespace should not split as meta model")
	}
}

func TestDataTypeLabel(t *testing.T) {
	cases := map[string]string{
		metamodel.XSDDateTime:               "xsd:dateTime",
		metamodel.RDFLangString:             "rdf:langString",
		metamodel.SAMM("2.1.0") + "curie":   "samm:curie",
		"urn:samm:io.example:1.0.0#Entity1": "urn:samm:io.example:1.0.0#Entity1",
	}
	for iri, want := range cases {
		if got := metamodel.DataTypeLabel(iri); got != want {
			t.Errorf("DataTypeLabel(%q) = %q, want %q", iri, got, want)
		}
	}
}

func TestConstraintString(t *testing.T) {
	cases := []struct {
		name string
		c    metamodel.Constraint
		want string
	}{
		{
			name: "half open range",
			c: metamodel.Constraint{
				Kind:       metamodel.ConstraintRange,
				MinValue:   &metamodel.ScalarValue{Value: "0"},
				MaxValue:   &metamodel.ScalarValue{Value: "300"},
				LowerBound: metamodel.BoundAtLeast,
				UpperBound: metamodel.BoundLessThan,
			},
			want: "RangeConstraint [0, 300)",
		},
		{
			name: "unbounded range",
			c: metamodel.Constraint{
				Kind:       metamodel.ConstraintRange,
				MinValue:   &metamodel.ScalarValue{Value: "1"},
				LowerBound: metamodel.BoundGreaterThan,
			},
			want: "RangeConstraint (1, ∞)",
		},
		{
			name: "length",
			c:    metamodel.Constraint{Kind: metamodel.ConstraintLength, MaxValue: &metamodel.ScalarValue{Value: "8"}},
			want: "LengthConstraint 0..8",
		},
		{
			name: "pattern",
			c:    metamodel.Constraint{Kind: metamodel.ConstraintRegularExpression, Value: "^BPNS[a-zA-Z0-9]{12}$"},
			want: "RegularExpressionConstraint ^BPNS[a-zA-Z0-9]{12}$",
		},
		{
			name: "generic",
			c:    metamodel.Constraint{Kind: metamodel.ConstraintGeneric},
			want: "Constraint",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.String(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIntegerTypes(t *testing.T) {
	if !metamodel.IsIntegerType(metamodel.XSDUnsignedByte) || metamodel.IsIntegerType(metamodel.XSDDecimal) {
		t.Fatalf("unexpected integer classification")
	}
	if !metamodel.IsNumericType(metamodel.XSDFloat) || metamodel.IsNumericType(metamodel.XSDString) {
		t.Fatalf("unexpected numeric classification")
	}
}
