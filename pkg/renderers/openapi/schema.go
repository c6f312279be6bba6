package openapi

import (
	"encoding/json"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

const componentsPrefix = "#/components/schemas/"

// schemaBuilder turns characteristics into schemas, registering one component
// per entity.
type schemaBuilder struct {
	lang       string
	components openapi3.Schemas
}

func newSchemaBuilder(lang string) *schemaBuilder {
	return &schemaBuilder{lang: lang, components: openapi3.Schemas{}}
}

// object builds an object schema from payload properties.
func (b *schemaBuilder) object(el *metamodel.Base, props []*metamodel.Property) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Description = el.Description(b.lang)
	for _, p := range props {
		if p.NotInPayload {
			continue
		}
		ref := b.property(p)
		schema.Properties[p.PayloadKey()] = ref
		if !p.Optional {
			schema.Required = append(schema.Required, p.PayloadKey())
		}
	}
	return schema
}

func (b *schemaBuilder) property(p *metamodel.Property) *openapi3.SchemaRef {
	ref := b.characteristic(p.Characteristic)
	if ref.Ref != "" {
		return ref
	}
	if desc := p.Description(b.lang); desc != "" && ref.Value.Description == "" {
		ref.Value.Description = desc
	}
	return ref
}

func (b *schemaBuilder) entity(e *metamodel.Entity) *openapi3.SchemaRef {
	ref := componentsPrefix + e.Name
	if existing, ok := b.components[e.Name]; ok {
		return openapi3.NewSchemaRef(ref, existing.Value)
	}
	// Register first so recursive entities resolve to the same component.
	schema := openapi3.NewObjectSchema()
	b.components[e.Name] = openapi3.NewSchemaRef("", schema)
	built := b.object(&e.Base, e.AllProperties())
	*schema = *built
	return openapi3.NewSchemaRef(ref, schema)
}

func (b *schemaBuilder) characteristic(c *metamodel.Characteristic) *openapi3.SchemaRef {
	if c == nil {
		return openapi3.NewSchemaRef("", &openapi3.Schema{})
	}
	eff := c.Effective()

	switch eff.Kind {
	case metamodel.KindEither:
		left := b.characteristic(eff.Left)
		right := b.characteristic(eff.Right)
		schema := &openapi3.Schema{OneOf: openapi3.SchemaRefs{
			openapi3.NewSchemaRef("", openapi3.NewObjectSchema().WithPropertyRef("left", left)),
			openapi3.NewSchemaRef("", openapi3.NewObjectSchema().WithPropertyRef("right", right)),
		}}
		schema.OneOf[0].Value.Required = []string{"left"}
		schema.OneOf[1].Value.Required = []string{"right"}
		return openapi3.NewSchemaRef("", schema)
	case metamodel.KindCollection, metamodel.KindList, metamodel.KindSet, metamodel.KindSortedSet, metamodel.KindTimeSeries:
		schema := openapi3.NewArraySchema()
		if eff.ElementCharacteristic != nil {
			schema.Items = b.characteristic(eff.ElementCharacteristic)
		} else {
			schema.Items = b.dataType(eff.DataType, nil)
		}
		schema.UniqueItems = eff.Kind == metamodel.KindSet || eff.Kind == metamodel.KindSortedSet
		applyCollectionLength(schema, c.AllConstraints())
		return openapi3.NewSchemaRef("", schema)
	}

	ref := b.dataType(c.EffectiveDataType(), c.AllConstraints())
	if ref.Ref != "" {
		return ref
	}
	if eff.Kind == metamodel.KindEnumeration || eff.Kind == metamodel.KindState {
		for _, v := range eff.Values {
			if scalar, ok := v.(*metamodel.ScalarValue); ok {
				ref.Value.Enum = append(ref.Value.Enum, enumValue(scalar))
			}
		}
		if scalar, ok := eff.DefaultValue.(*metamodel.ScalarValue); ok {
			ref.Value.Default = enumValue(scalar)
		}
	}
	return ref
}

func (b *schemaBuilder) dataType(t *metamodel.Type, constraints []*metamodel.Constraint) *openapi3.SchemaRef {
	switch {
	case t == nil:
		return openapi3.NewSchemaRef("", &openapi3.Schema{})
	case t.IsComplex():
		return b.entity(t.Entity)
	}

	schema := scalarSchema(t.Scalar)
	for _, c := range constraints {
		switch c.Kind {
		case metamodel.ConstraintRegularExpression:
			schema.Pattern = c.Value
		case metamodel.ConstraintRange:
			if v, ok := parseBound(c.MinValue); ok {
				schema.Min = &v
				schema.ExclusiveMin = c.LowerBound == metamodel.BoundGreaterThan
			}
			if v, ok := parseBound(c.MaxValue); ok {
				schema.Max = &v
				schema.ExclusiveMax = c.UpperBound == metamodel.BoundLessThan
			}
		case metamodel.ConstraintLength:
			if n, ok := parseCount(c.MinValue); ok {
				schema.MinLength = n
			}
			if n, ok := parseCount(c.MaxValue); ok {
				schema.MaxLength = &n
			}
		}
	}
	return openapi3.NewSchemaRef("", schema)
}

func applyCollectionLength(schema *openapi3.Schema, constraints []*metamodel.Constraint) {
	for _, c := range constraints {
		if c.Kind != metamodel.ConstraintLength {
			continue
		}
		if n, ok := parseCount(c.MinValue); ok {
			schema.MinItems = n
		}
		if n, ok := parseCount(c.MaxValue); ok {
			schema.MaxItems = &n
		}
	}
}

// scalarSchema maps xsd types to the closest OpenAPI type and format.
func scalarSchema(datatype string) *openapi3.Schema {
	switch {
	case datatype == metamodel.XSDBoolean:
		return openapi3.NewBoolSchema()
	case datatype == metamodel.XSDInt || datatype == metamodel.XSDShort || datatype == metamodel.XSDByte:
		return openapi3.NewInt32Schema()
	case datatype == metamodel.XSDLong:
		return openapi3.NewInt64Schema()
	case metamodel.IsIntegerType(datatype):
		return openapi3.NewIntegerSchema()
	case datatype == metamodel.XSDFloat:
		s := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}, Format: "float"}
		return s
	case datatype == metamodel.XSDDouble:
		s := &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}, Format: "double"}
		return s
	case datatype == metamodel.XSDDecimal:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeNumber}}
	case datatype == metamodel.XSDDateTime || datatype == metamodel.XSDDateTimeStamp:
		return openapi3.NewDateTimeSchema()
	case datatype == metamodel.XSDDate:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "date"}
	case datatype == metamodel.XSDAnyURI:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "uri"}
	case datatype == metamodel.XSDBase64Binary:
		return &openapi3.Schema{Type: &openapi3.Types{openapi3.TypeString}, Format: "byte"}
	case datatype == metamodel.RDFLangString:
		schema := openapi3.NewObjectSchema()
		schema.AdditionalProperties = openapi3.AdditionalProperties{Schema: openapi3.NewSchemaRef("", openapi3.NewStringSchema())}
		return schema
	}
	return openapi3.NewStringSchema()
}

func enumValue(v *metamodel.ScalarValue) any {
	switch {
	case v.Datatype == metamodel.XSDBoolean:
		if b, err := strconv.ParseBool(v.Value); err == nil {
			return b
		}
	case metamodel.IsNumericType(v.Datatype):
		if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
			return f
		}
	}
	return v.Value
}

func parseBound(v *metamodel.ScalarValue) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.Value, 64)
	return f, err == nil
}

func parseCount(v *metamodel.ScalarValue) (uint64, bool) {
	if v == nil {
		return 0, false
	}
	n, err := strconv.ParseUint(v.Value, 10, 64)
	return n, err == nil
}

// genericJSON converts an encoded payload into the map/slice/float64 values
// the example validator expects.
func genericJSON(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
