package naming

import "testing"

func TestConversions(t *testing.T) {
	cases := []struct {
		in                          string
		label, kebab, pascal, camel string
	}{
		{"PartAsPlanned", "Part As Planned", "part-as-planned", "PartAsPlanned", "partAsPlanned"},
		{"catenaXId", "Catena X Id", "catena-x-id", "CatenaXID", "catenaXID"},
		{"uuidV4Property", "Uuid V 4 Property", "uuid-v-4-property", "UUIDV4Property", "uuidV4Property"},
		{"HTTPServer", "Http Server", "http-server", "HTTPServer", "httpServer"},
		{"spare part warehouse", "Spare Part Warehouse", "spare-part-warehouse", "SparePartWarehouse", "sparePartWarehouse"},
		{"3dModel", "3 D Model", "3-d-model", "X3DModel", "x3DModel"},
	}
	for _, tc := range cases {
		if got := Label(tc.in); got != tc.label {
			t.Errorf("Label(%q) = %q, want %q", tc.in, got, tc.label)
		}
		if got := Kebab(tc.in); got != tc.kebab {
			t.Errorf("Kebab(%q) = %q, want %q", tc.in, got, tc.kebab)
		}
		if got := Pascal(tc.in); got != tc.pascal {
			t.Errorf("Pascal(%q) = %q, want %q", tc.in, got, tc.pascal)
		}
		if got := Camel(tc.in); got != tc.camel {
			t.Errorf("Camel(%q) = %q, want %q", tc.in, got, tc.camel)
		}
	}
}

func TestSnake(t *testing.T) {
	if got := Snake("PartAsPlanned"); got != "part_as_planned" {
		t.Fatalf("Snake(PartAsPlanned) = %q", got)
	}
	if got := Snake("Movement"); got != "movement" {
		t.Fatalf("Snake(Movement) = %q", got)
	}
}

func TestConstantCase(t *testing.T) {
	cases := map[string]string{
		"production":           "PRODUCTION",
		"spare part warehouse": "SPARE_PART_WAREHOUSE",
		"in-progress":          "IN_PROGRESS",
		"yellow":               "YELLOW",
	}
	for in, want := range cases {
		if got := ConstantCase(in); got != want {
			t.Errorf("ConstantCase(%q) = %q, want %q", in, got, want)
		}
	}
}
