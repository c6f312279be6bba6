package staticmeta_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-aspectmodel/pkg/jsonbind"
	"github.com/goliatone/go-aspectmodel/pkg/staticmeta"
)

const ns = "urn:samm:io.example.fleet:1.0.0#"

type engine struct {
	Serial string
	Power  int32
}

type truck struct {
	Plate  string
	Engine jsonbind.Optional[engine]
	Cab    engine
}

var (
	plateProperty = staticmeta.NewProperty(
		"plate", ns+"plate",
		staticmeta.PropertyInfo{
			PayloadName:    "plate",
			Characteristic: &staticmeta.CharacteristicInfo{URN: ns + "PlateTrait", Name: "PlateTrait", Kind: "Trait"},
			DataType:       "xsd:string",
			ContainingType: "Truck",
			Constraints:    []staticmeta.ConstraintInfo{{URN: ns + "PlatePattern", Kind: "RegularExpressionConstraint", Value: "[A-Z]{2}-[0-9]+"}},
		},
		func(t truck) string { return t.Plate },
	)
	engineProperty = staticmeta.NewProperty(
		"engine", ns+"engine",
		staticmeta.PropertyInfo{PayloadName: "engine", Optional: true, ComplexType: true, ContainingType: "Truck"},
		func(t truck) jsonbind.Optional[engine] { return t.Engine },
	)
	cabProperty = staticmeta.NewProperty(
		"cab", ns+"cab",
		staticmeta.PropertyInfo{PayloadName: "cab", ComplexType: true, ContainingType: "Truck"},
		func(t truck) engine { return t.Cab },
	)
	serialProperty = staticmeta.NewProperty(
		"serial", ns+"serial",
		staticmeta.PropertyInfo{PayloadName: "serial", DataType: "xsd:string", ContainingType: "Engine"},
		func(e engine) string { return e.Serial },
	)
)

func TestPropertyAccessors(t *testing.T) {
	v := truck{Plate: "AB-123"}
	if got := plateProperty.Get(v); got != "AB-123" {
		t.Fatalf("unexpected plate %q", got)
	}
	if plateProperty.IsOptional() || plateProperty.IsComplexType() {
		t.Fatalf("plate flags wrong")
	}
	if !engineProperty.IsOptional() || !engineProperty.IsComplexType() {
		t.Fatalf("engine flags wrong")
	}
	c, ok := plateProperty.Characteristic()
	if !ok || c.Name != "PlateTrait" {
		t.Fatalf("unexpected characteristic %+v", c)
	}
	if _, ok := engineProperty.Characteristic(); ok {
		t.Fatalf("engine has no characteristic info")
	}
	if plateProperty.ContainingType() != "Truck" {
		t.Fatalf("unexpected containing type %q", plateProperty.ContainingType())
	}
	if got := plateProperty.String(); got != "Truck.plate xsd:string" {
		t.Fatalf("unexpected string %q", got)
	}
	if got := engineProperty.String(); got != "Truck.engine optional" {
		t.Fatalf("unexpected string %q", got)
	}

	constraints := plateProperty.Constraints()
	constraints[0].Value = "changed"
	if plateProperty.Constraints()[0].Value != "[A-Z]{2}-[0-9]+" {
		t.Fatalf("constraints should be copied")
	}
	if got := plateProperty.Constraints()[0].String(); got != "RegularExpressionConstraint([A-Z]{2}-[0-9]+)" {
		t.Fatalf("unexpected constraint string %q", got)
	}
}

func TestNewPropertyPanicsWithoutGetter(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	staticmeta.NewProperty[truck, string]("plate", ns+"plate", staticmeta.PropertyInfo{}, nil)
}

func TestMeta(t *testing.T) {
	meta := staticmeta.NewMeta[truck]("Truck", ns+"Truck", plateProperty, engineProperty, cabProperty)

	if meta.Name() != "Truck" || meta.URN() != ns+"Truck" {
		t.Fatalf("unexpected identity %s %s", meta.Name(), meta.URN())
	}
	var names []string
	for _, p := range meta.Properties() {
		names = append(names, p.Name())
	}
	if diff := cmp.Diff([]string{"plate", "engine", "cab"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	p, ok := meta.Property("engine")
	if !ok || p.URN() != ns+"engine" {
		t.Fatalf("lookup failed: %v", p)
	}
	if _, ok := meta.Property("wheels"); ok {
		t.Fatalf("unexpected property")
	}

	values := meta.Values(truck{Plate: "XY-9", Cab: engine{Serial: "c1"}})
	if values["plate"] != "XY-9" {
		t.Fatalf("unexpected values %v", values)
	}
	if values["cab"].(engine).Serial != "c1" {
		t.Fatalf("unexpected cab value %v", values["cab"])
	}

	props := meta.Properties()
	props[0] = cabProperty
	if meta.Properties()[0].Name() != "plate" {
		t.Fatalf("properties should be copied")
	}
}

func TestChain(t *testing.T) {
	cabSerial := staticmeta.Then(staticmeta.From(cabProperty), serialProperty)
	engineSerial := staticmeta.ThenOptional(staticmeta.From(engineProperty), serialProperty)

	v := truck{Cab: engine{Serial: "cab-1"}}
	if got, ok := cabSerial.Value(v); !ok || got != "cab-1" {
		t.Fatalf("unexpected cab serial %q %v", got, ok)
	}
	if _, ok := engineSerial.Value(v); ok {
		t.Fatalf("empty optional should report no value")
	}

	v.Engine = jsonbind.Some(engine{Serial: "eng-7"})
	if got, ok := engineSerial.Value(v); !ok || got != "eng-7" {
		t.Fatalf("unexpected engine serial %q %v", got, ok)
	}

	if diff := cmp.Diff([]string{"engine", "serial"}, engineSerial.Path()); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}
	if engineSerial.String() != "engine/serial" {
		t.Fatalf("unexpected chain string %q", engineSerial.String())
	}
}

func TestInfoStrings(t *testing.T) {
	plain := staticmeta.CharacteristicInfo{URN: ns + "Text", Kind: "Characteristic"}
	if plain.String() != ns+"Text" {
		t.Fatalf("unexpected %q", plain.String())
	}
	trait := staticmeta.CharacteristicInfo{URN: ns + "T", Kind: "Trait"}
	if trait.String() != ns+"T (Trait)" {
		t.Fatalf("unexpected %q", trait.String())
	}
	if (staticmeta.ConstraintInfo{Kind: "LengthConstraint"}).String() != "LengthConstraint" {
		t.Fatalf("constraint without value should print its kind")
	}
}
