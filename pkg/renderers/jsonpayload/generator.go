package jsonpayload

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

const (
	defaultStringLength = 12
	maxCollectionItems  = 3
)

// sampleEpoch anchors generated dates so seeded output stays stable.
var sampleEpoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type generator struct {
	rng       *rand.Rand
	maxDepth  int
	overrides map[string]any
	active    map[*metamodel.Entity]bool
}

func newGenerator(seed int64, maxDepth int, overrides map[string]any) *generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &generator{
		rng:       rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1)),
		maxDepth:  maxDepth,
		overrides: overrides,
		active:    make(map[*metamodel.Entity]bool),
	}
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// properties builds an object from a property list, skipping properties
// excluded from the payload. Recursive optional properties are dropped.
func (g *generator) properties(props []*metamodel.Property, path string, depth int) (*Object, error) {
	obj := NewObject()
	for _, p := range props {
		if p.NotInPayload {
			continue
		}
		key := p.PayloadKey()
		v, ok, err := g.property(p, joinPath(path, key), depth)
		if err != nil {
			return nil, err
		}
		if !ok {
			if p.Optional {
				continue
			}
			v = NewObject()
		}
		obj.Set(key, v)
	}
	return obj, nil
}

func (g *generator) property(p *metamodel.Property, path string, depth int) (any, bool, error) {
	if v, ok := g.overrides[path]; ok {
		return v, true, nil
	}
	if p.ExampleValue != nil {
		v, err := g.fromValue(p.ExampleValue, p.DataType(), path, depth)
		return v, err == nil, err
	}
	return g.characteristic(p.Characteristic, path, depth)
}

func (g *generator) characteristic(c *metamodel.Characteristic, path string, depth int) (any, bool, error) {
	if c == nil {
		return nil, true, nil
	}
	eff := c.Effective()
	constraints := c.AllConstraints()

	switch eff.Kind {
	case metamodel.KindEither:
		left, ok, err := g.characteristic(eff.Left, joinPath(path, "left"), depth)
		if err != nil || !ok {
			return nil, ok, err
		}
		obj := NewObject()
		obj.Set("left", left)
		return obj, true, nil
	case metamodel.KindEnumeration, metamodel.KindState:
		value := eff.DefaultValue
		if value == nil && len(eff.Values) > 0 {
			value = eff.Values[0]
		}
		if value == nil {
			return nil, true, nil
		}
		v, err := g.fromValue(value, eff.DataType, path, depth)
		return v, err == nil, err
	case metamodel.KindCollection, metamodel.KindList, metamodel.KindSet, metamodel.KindSortedSet, metamodel.KindTimeSeries:
		return g.collection(eff, constraints, path, depth)
	case metamodel.KindStructuredValue:
		if len(eff.Elements) > 0 {
			return g.structured(eff, path, depth)
		}
	}

	if builtin := builtinSample(eff); builtin != "" {
		return builtin, true, nil
	}
	return g.typed(c.EffectiveDataType(), constraints, path, depth)
}

func (g *generator) collection(c *metamodel.Characteristic, constraints []*metamodel.Constraint, path string, depth int) (any, bool, error) {
	count := 1
	for _, con := range constraints {
		if con.Kind == metamodel.ConstraintLength && con.MinValue != nil {
			if n, err := strconv.Atoi(con.MinValue.Value); err == nil && n > count {
				count = min(n, maxCollectionItems)
			}
		}
	}

	items := make([]any, 0, count)
	for i := 0; i < count; i++ {
		var (
			item any
			ok   bool
			err  error
		)
		if c.ElementCharacteristic != nil {
			item, ok, err = g.characteristic(c.ElementCharacteristic, path, depth)
		} else {
			item, ok, err = g.typed(c.DataType, nil, path, depth)
		}
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return []any{}, true, nil
		}
		items = append(items, item)
	}
	return items, true, nil
}

// structured joins literal parts with the values of referenced properties.
func (g *generator) structured(c *metamodel.Characteristic, path string, depth int) (any, bool, error) {
	var sb strings.Builder
	for _, el := range c.Elements {
		if el.Property == nil {
			sb.WriteString(el.Literal)
			continue
		}
		v, _, err := g.property(el.Property, joinPath(path, el.Property.Name), depth)
		if err != nil {
			return nil, false, err
		}
		sb.WriteString(fmt.Sprint(v))
	}
	return sb.String(), true, nil
}

func (g *generator) typed(t *metamodel.Type, constraints []*metamodel.Constraint, path string, depth int) (any, bool, error) {
	switch {
	case t == nil:
		return nil, true, nil
	case t.IsComplex():
		return g.entity(t.Entity, path, depth)
	default:
		v, err := g.scalar(t.Scalar, constraints)
		return v, err == nil, err
	}
}

func (g *generator) entity(e *metamodel.Entity, path string, depth int) (any, bool, error) {
	if g.active[e] || depth >= g.maxDepth {
		return nil, false, nil
	}
	g.active[e] = true
	defer delete(g.active, e)
	obj, err := g.properties(e.AllProperties(), path, depth+1)
	if err != nil {
		return nil, false, err
	}
	return obj, true, nil
}

// fromValue converts a model value (example, enumeration entry, default)
// into its JSON form.
func (g *generator) fromValue(v metamodel.Value, t *metamodel.Type, path string, depth int) (any, error) {
	switch val := v.(type) {
	case *metamodel.ScalarValue:
		return scalarJSON(val), nil
	case *metamodel.EntityInstance:
		obj := NewObject()
		props := []*metamodel.Property(nil)
		if val.Entity != nil {
			props = val.Entity.AllProperties()
		}
		for _, p := range props {
			if p.NotInPayload {
				continue
			}
			item, ok := val.Get(p.Name)
			if !ok {
				continue
			}
			converted, err := g.fromValue(item, p.DataType(), joinPath(path, p.PayloadKey()), depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(p.PayloadKey(), converted)
		}
		return obj, nil
	case *metamodel.CollectionValue:
		items := make([]any, 0, len(val.Items))
		for _, item := range val.Items {
			converted, err := g.fromValue(item, nil, path, depth)
			if err != nil {
				return nil, err
			}
			items = append(items, converted)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("jsonpayload: %s: unsupported value %T", path, v)
	}
}

// scalarJSON keeps the lexical form of numbers and maps booleans and
// language strings to their JSON shapes.
func scalarJSON(v *metamodel.ScalarValue) any {
	switch {
	case v.Datatype == metamodel.XSDBoolean:
		if b, err := strconv.ParseBool(v.Value); err == nil {
			return b
		}
	case v.Datatype == metamodel.RDFLangString || v.Lang != "":
		lang := v.Lang
		if lang == "" {
			lang = "en"
		}
		obj := NewObject()
		obj.Set(lang, v.Value)
		return obj
	case metamodel.IsNumericType(v.Datatype):
		if isJSONNumber(v.Value) {
			return json.Number(v.Value)
		}
	}
	return v.Value
}

func isJSONNumber(s string) bool {
	return json.Valid([]byte(s)) && s != "" && (s[0] == '-' || (s[0] >= '0' && s[0] <= '9'))
}

// builtinSample returns a sample for the predefined characteristics whose
// data type alone is too loose.
func builtinSample(c *metamodel.Characteristic) string {
	part, _, local, ok := metamodel.SplitMetaModelIRI(c.IRI)
	if !ok || part != metamodel.PartCharacteristic {
		return ""
	}
	switch local {
	case "Locale":
		return "de-DE"
	case "Language":
		return "de"
	case "MimeType":
		return "application/json"
	case "ResourcePath":
		return "/resources/sample.json"
	case "UnitReference":
		return "unit:kilogram"
	}
	return ""
}

func (g *generator) scalar(datatype string, constraints []*metamodel.Constraint) (any, error) {
	var (
		rng     *metamodel.Constraint
		length  *metamodel.Constraint
		lang    string
		pattern string
	)
	for _, c := range constraints {
		switch c.Kind {
		case metamodel.ConstraintRegularExpression:
			if c.Value != "" && pattern == "" {
				pattern = c.Value
			}
		case metamodel.ConstraintRange:
			rng = c
		case metamodel.ConstraintLength:
			length = c
		case metamodel.ConstraintLanguage:
			lang = c.LanguageCode
		case metamodel.ConstraintLocale:
			lang = c.LocaleCode
		}
	}
	if pattern != "" {
		return sampleForPattern(g.rng, pattern, lengthBounds(length))
	}

	switch {
	case datatype == metamodel.XSDBoolean:
		return g.rng.IntN(2) == 1, nil
	case metamodel.IsIntegerType(datatype):
		return g.integer(datatype, rng), nil
	case metamodel.IsNumericType(datatype):
		return g.decimal(datatype, rng), nil
	case datatype == metamodel.RDFLangString:
		if lang == "" {
			lang = "en"
		}
		obj := NewObject()
		obj.Set(lang, g.text(length))
		return obj, nil
	case metamodel.IsCurie(datatype):
		return "unit:kilogram", nil
	}

	ts := sampleEpoch.Add(time.Duration(g.rng.Int64N(int64(365*24*time.Hour/time.Millisecond))) * time.Millisecond)
	switch datatype {
	case metamodel.XSDDate:
		return ts.Format("2006-01-02"), nil
	case metamodel.XSDDateTime, metamodel.XSDDateTimeStamp:
		return ts.Format("2006-01-02T15:04:05.000Z07:00"), nil
	case metamodel.XSDTime:
		return ts.Format("15:04:05"), nil
	case metamodel.XSDGYear:
		return ts.Format("2006"), nil
	case metamodel.XSDGMonth:
		return ts.Format("--01"), nil
	case metamodel.XSDGDay:
		return ts.Format("---02"), nil
	case metamodel.XSDGYearMonth:
		return ts.Format("2006-01"), nil
	case metamodel.XSDGMonthDay:
		return ts.Format("--01-02"), nil
	case metamodel.XSDDuration, metamodel.XSDDayTimeDuration:
		return fmt.Sprintf("P%dDT%dH%dM", 1+g.rng.IntN(9), g.rng.IntN(24), g.rng.IntN(60)), nil
	case metamodel.XSDYearMonthDuration:
		return fmt.Sprintf("P%dY%dM", g.rng.IntN(5), 1+g.rng.IntN(11)), nil
	case metamodel.XSDHexBinary:
		return hex.EncodeToString(g.bytes(4)), nil
	case metamodel.XSDBase64Binary:
		return base64.StdEncoding.EncodeToString(g.bytes(6)), nil
	case metamodel.XSDAnyURI:
		return "https://example.com/" + strings.ToLower(g.word(8)), nil
	}
	return g.text(length), nil
}

func (g *generator) bytes(n int) []byte {
	out := make([]byte, n)
	_, _ = rngReader{g.rng}.Read(out)
	return out
}

// text honours a length constraint when present.
func (g *generator) text(length *metamodel.Constraint) string {
	lo, hi := 1, defaultStringLength
	n := defaultStringLength
	if length != nil {
		if length.MinValue != nil {
			if v, err := strconv.Atoi(length.MinValue.Value); err == nil {
				lo = v
			}
		}
		if length.MaxValue != nil {
			if v, err := strconv.Atoi(length.MaxValue.Value); err == nil {
				hi = v
			}
		} else {
			hi = max(lo, defaultStringLength)
		}
		n = lo
		if hi > lo {
			n += g.rng.IntN(hi - lo + 1)
		}
		n = max(min(n, hi), 0)
	}
	return g.word(n)
}

// lengthBounds reads a length constraint. A missing constraint or bound
// leaves that side open.
func lengthBounds(length *metamodel.Constraint) lengthRange {
	bounds := anyLength
	if length == nil {
		return bounds
	}
	if length.MinValue != nil {
		if v, err := strconv.Atoi(length.MinValue.Value); err == nil {
			bounds.lo = max(v, 0)
		}
	}
	if length.MaxValue != nil {
		if v, err := strconv.Atoi(length.MaxValue.Value); err == nil {
			bounds.hi = max(v, 0)
		}
	}
	return bounds
}

const letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func (g *generator) word(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = letters[g.rng.IntN(len(letters))]
	}
	return string(b)
}

// integerBounds are the value spaces of the xsd integer types, narrowed to
// int64.
var integerBounds = map[string][2]int64{
	metamodel.XSDByte:               {math.MinInt8, math.MaxInt8},
	metamodel.XSDShort:              {math.MinInt16, math.MaxInt16},
	metamodel.XSDInt:                {math.MinInt32, math.MaxInt32},
	metamodel.XSDUnsignedByte:       {0, math.MaxUint8},
	metamodel.XSDUnsignedShort:      {0, math.MaxUint16},
	metamodel.XSDUnsignedInt:        {0, math.MaxUint32},
	metamodel.XSDUnsignedLong:       {0, math.MaxInt64},
	metamodel.XSDPositiveInteger:    {1, math.MaxInt64},
	metamodel.XSDNonNegativeInteger: {0, math.MaxInt64},
	metamodel.XSDNegativeInteger:    {math.MinInt64, -1},
	metamodel.XSDNonPositiveInteger: {math.MinInt64, 0},
}

func (g *generator) integer(datatype string, rng *metamodel.Constraint) int64 {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	if b, ok := integerBounds[datatype]; ok {
		lo, hi = b[0], b[1]
	}
	if rng != nil {
		if rng.MinValue != nil {
			if v, err := strconv.ParseFloat(rng.MinValue.Value, 64); err == nil {
				bound := int64(math.Ceil(v))
				if rng.LowerBound == metamodel.BoundGreaterThan && float64(bound) == v {
					bound++
				}
				lo = max(lo, bound)
			}
		}
		if rng.MaxValue != nil {
			if v, err := strconv.ParseFloat(rng.MaxValue.Value, 64); err == nil {
				bound := int64(math.Floor(v))
				if rng.UpperBound == metamodel.BoundLessThan && float64(bound) == v {
					bound--
				}
				hi = min(hi, bound)
			}
		}
	}
	if lo > hi {
		return lo
	}
	lo, hi = window(lo, hi, 1000)
	return lo + g.rng.Int64N(hi-lo+1)
}

// window narrows [lo, hi] to at most size values, preferring non-negative
// numbers.
func window(lo, hi, size int64) (int64, int64) {
	switch {
	case lo <= 0 && hi >= 0:
		return 0, min(hi, size)
	case lo > 0:
		if hi-lo > size {
			return lo, lo + size
		}
	default:
		if hi-lo > size {
			return hi - size, hi
		}
	}
	return lo, hi
}

func (g *generator) decimal(datatype string, rng *metamodel.Constraint) json.Number {
	lo, hi := 0.0, 100.0
	openLo, openHi := false, false
	if rng != nil {
		if rng.MinValue != nil {
			if v, err := strconv.ParseFloat(rng.MinValue.Value, 64); err == nil {
				lo = v
				openLo = rng.LowerBound == metamodel.BoundGreaterThan
				if rng.MaxValue == nil {
					hi = lo + 100
				}
			}
		}
		if rng.MaxValue != nil {
			if v, err := strconv.ParseFloat(rng.MaxValue.Value, 64); err == nil {
				hi = v
				openHi = rng.UpperBound == metamodel.BoundLessThan
				if rng.MinValue == nil {
					lo = hi - 100
				}
			}
		}
	}
	if hi < lo {
		hi = lo
	}

	v := math.Round((lo+g.rng.Float64()*(hi-lo))*100) / 100
	if (openLo && v <= lo) || (openHi && v >= hi) || v < lo || v > hi {
		v = lo + (hi-lo)/2
	}
	bits := 64
	if datatype == metamodel.XSDFloat {
		bits = 32
	}
	s := strconv.FormatFloat(v, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return json.Number(s)
}
