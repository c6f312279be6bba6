package gocode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-aspectmodel/internal/naming"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

const (
	jsonbindImport   = "github.com/goliatone/go-aspectmodel/pkg/jsonbind"
	staticmetaImport = "github.com/goliatone/go-aspectmodel/pkg/staticmeta"
	mockserverImport = "github.com/goliatone/go-aspectmodel/pkg/mockserver"
)

// reserved names clash with the embedded staticmeta.Meta of generated meta
// structs.
var reserved = map[string]bool{
	"Meta": true, "Name": true, "URN": true, "Properties": true, "Property": true, "Values": true,
}

type file struct {
	Package string
	Source  string
	Imports []string
	Enums   []*enumDecl
	Structs []*structDecl
	Eithers []*eitherDecl
	Mock    *mockDecl
}

type enumDecl struct {
	Name           string
	GoType         string
	Characteristic string
	Doc            string
	Consts         []enumConst
}

type enumConst struct {
	Name    string
	Literal string
}

type structDecl struct {
	Name     string
	MetaType string
	MetaVar  string
	ModelURN string
	Doc      string
	Fields   []*fieldDecl
}

type fieldDecl struct {
	Name     string
	MetaName string
	GoType   string
	Tag      string
	Doc      string
	Property string
	URN      string
	Info     string
}

type eitherDecl struct {
	Name  string
	Doc   string
	Left  string
	Right string
}

type mockDecl struct {
	Operation string
	Path      string
	Sample    string
}

// builder turns an aspect into the declarations of one Go file.
type builder struct {
	file     *file
	imports  map[string]bool
	used     map[string]bool
	entities map[*metamodel.Entity]string
	enums    map[*metamodel.Characteristic]string
	eithers  map[*metamodel.Characteristic]string
	queue    []*metamodel.Entity
}

func newBuilder(pkg, source string) *builder {
	return &builder{
		file:     &file{Package: pkg, Source: source},
		imports:  map[string]bool{staticmetaImport: true},
		used:     make(map[string]bool),
		entities: make(map[*metamodel.Entity]string),
		enums:    make(map[*metamodel.Characteristic]string),
		eithers:  make(map[*metamodel.Characteristic]string),
	}
}

func (b *builder) build(aspect *metamodel.Aspect) *file {
	name := b.claim(naming.Pascal(aspect.Name))
	b.file.Structs = append(b.file.Structs, b.structDecl(name, &aspect.Base, aspect.Properties))

	for len(b.queue) > 0 {
		e := b.queue[0]
		b.queue = b.queue[1:]
		b.file.Structs = append(b.file.Structs, b.structDecl(b.entities[e], &e.Base, e.AllProperties()))
	}

	for imp := range b.imports {
		b.file.Imports = append(b.file.Imports, imp)
	}
	sort.Strings(b.file.Imports)
	return b.file
}

func (b *builder) structDecl(name string, base *metamodel.Base, props []*metamodel.Property) *structDecl {
	decl := &structDecl{
		Name:     name,
		MetaType: "meta" + name,
		MetaVar:  "Meta" + name,
		ModelURN: base.IRI,
		Doc:      docLine(name, base.Description("en")),
	}
	for _, p := range props {
		if p.NotInPayload {
			continue
		}
		decl.Fields = append(decl.Fields, b.field(name, p))
	}
	return decl
}

func (b *builder) field(owner string, p *metamodel.Property) *fieldDecl {
	goName := naming.Pascal(p.Name)
	typ := b.goType(p.Characteristic, goName, owner)
	tag := p.PayloadKey()
	if p.Optional {
		b.imports[jsonbindImport] = true
		typ = "jsonbind.Optional[" + typ + "]"
		tag += ",omitzero"
	}
	metaName := goName
	if reserved[metaName] {
		metaName += "Property"
	}
	return &fieldDecl{
		Name:     goName,
		MetaName: metaName,
		GoType:   typ,
		Tag:      "`json:\"" + tag + "\"`",
		Doc:      docLine(goName, p.Description("en")),
		Property: p.Name,
		URN:      p.IRI,
		Info:     propertyInfo(owner, p),
	}
}

// goType maps a characteristic to the Go type of its values. hint names
// anonymous enumerations and eithers after the property using them.
func (b *builder) goType(c *metamodel.Characteristic, hint, owner string) string {
	if c == nil {
		return "any"
	}
	eff := c.Effective()
	switch eff.Kind {
	case metamodel.KindEither:
		return b.either(eff, hint, owner)
	case metamodel.KindCollection, metamodel.KindList, metamodel.KindSet, metamodel.KindSortedSet, metamodel.KindTimeSeries:
		if eff.ElementCharacteristic != nil {
			return "[]" + b.goType(eff.ElementCharacteristic, hint, owner)
		}
		return "[]" + b.dataType(c.EffectiveDataType(), owner)
	case metamodel.KindEnumeration, metamodel.KindState:
		if t := c.EffectiveDataType(); t.IsScalar() {
			if goType := scalarGoType(t.Scalar); enumerable(goType) {
				return b.enum(eff, goType, hint)
			}
		}
	}
	return b.dataType(c.EffectiveDataType(), owner)
}

func (b *builder) dataType(t *metamodel.Type, owner string) string {
	switch {
	case t == nil:
		return "any"
	case t.IsComplex():
		name := b.entity(t.Entity)
		if name == owner {
			return "*" + name
		}
		return name
	}
	typ := scalarGoType(t.Scalar)
	if strings.HasPrefix(typ, "jsonbind.") {
		b.imports[jsonbindImport] = true
	}
	return typ
}

func (b *builder) entity(e *metamodel.Entity) string {
	if name, ok := b.entities[e]; ok {
		return name
	}
	name := b.claim(naming.Pascal(e.Name))
	b.entities[e] = name
	b.queue = append(b.queue, e)
	return name
}

func (b *builder) enum(c *metamodel.Characteristic, goType, hint string) string {
	if name, ok := b.enums[c]; ok {
		return name
	}
	base := c.Name
	if c.IsAnonymous() || base == "" {
		base = hint + "Values"
	}
	name := b.claim(naming.Pascal(base))
	b.enums[c] = name

	decl := &enumDecl{
		Name:           name,
		GoType:         goType,
		Characteristic: c.IRI,
		Doc:            docLine(name, c.Description("en")),
	}
	seen := make(map[string]bool)
	for _, v := range c.Values {
		sv, ok := v.(*metamodel.ScalarValue)
		if !ok {
			continue
		}
		constName := name + constSuffix(sv.Value)
		for i := 2; seen[constName]; i++ {
			constName = fmt.Sprintf("%s%s%d", name, constSuffix(sv.Value), i)
		}
		seen[constName] = true
		decl.Consts = append(decl.Consts, enumConst{Name: constName, Literal: goLiteral(goType, sv.Value)})
	}
	b.file.Enums = append(b.file.Enums, decl)
	return name
}

func (b *builder) either(c *metamodel.Characteristic, hint, owner string) string {
	if name, ok := b.eithers[c]; ok {
		return name
	}
	base := c.Name
	if c.IsAnonymous() || base == "" {
		base = hint + "Either"
	}
	name := b.claim(naming.Pascal(base))
	b.eithers[c] = name
	b.imports[jsonbindImport] = true

	decl := &eitherDecl{
		Name:  name,
		Doc:   docLine(name, c.Description("en")),
		Left:  b.goType(c.Left, hint+"Left", owner),
		Right: b.goType(c.Right, hint+"Right", owner),
	}
	b.file.Eithers = append(b.file.Eithers, decl)
	return name
}

// claim reserves a top level identifier, adding a numeric suffix on clashes.
func (b *builder) claim(name string) string {
	candidate := name
	for i := 2; b.used[candidate] || b.used["Meta"+candidate] || b.used["meta"+candidate]; i++ {
		candidate = fmt.Sprintf("%s%d", name, i)
	}
	b.used[candidate] = true
	return candidate
}

func propertyInfo(owner string, p *metamodel.Property) string {
	var sb strings.Builder
	sb.WriteString("staticmeta.PropertyInfo{\n")
	fmt.Fprintf(&sb, "PayloadName: %q,\n", p.PayloadKey())
	if c := p.Characteristic; c != nil {
		fmt.Fprintf(&sb, "Characteristic: &staticmeta.CharacteristicInfo{URN: %q, Name: %q, Kind: %q},\n", c.IRI, c.Name, string(c.Kind))
	}
	t := p.DataType()
	switch {
	case t.IsComplex():
		fmt.Fprintf(&sb, "DataType: %q,\n", t.Entity.Name)
	case t.IsScalar():
		fmt.Fprintf(&sb, "DataType: %q,\n", metamodel.DataTypeLabel(t.Scalar))
	}
	if p.Optional {
		sb.WriteString("Optional: true,\n")
	}
	if t.IsComplex() {
		sb.WriteString("ComplexType: true,\n")
	}
	if p.Characteristic.IsCollection() {
		sb.WriteString("Collection: true,\n")
	}
	fmt.Fprintf(&sb, "ContainingType: %q,\n", owner)
	if p.Characteristic != nil {
		if cons := p.Characteristic.AllConstraints(); len(cons) > 0 {
			sb.WriteString("Constraints: []staticmeta.ConstraintInfo{\n")
			for _, con := range cons {
				fmt.Fprintf(&sb, "{URN: %q, Kind: %q, Value: %q},\n", con.IRI, string(con.Kind), con.Detail())
			}
			sb.WriteString("},\n")
		}
	}
	sb.WriteString("}")
	return sb.String()
}

func scalarGoType(iri string) string {
	switch iri {
	case metamodel.XSDBoolean:
		return "bool"
	case metamodel.XSDByte:
		return "int8"
	case metamodel.XSDShort:
		return "int16"
	case metamodel.XSDInt:
		return "int32"
	case metamodel.XSDLong, metamodel.XSDInteger, metamodel.XSDPositiveInteger, metamodel.XSDNonPositiveInteger,
		metamodel.XSDNegativeInteger, metamodel.XSDNonNegativeInteger:
		return "int64"
	case metamodel.XSDUnsignedByte:
		return "uint8"
	case metamodel.XSDUnsignedShort:
		return "uint16"
	case metamodel.XSDUnsignedInt:
		return "uint32"
	case metamodel.XSDUnsignedLong:
		return "uint64"
	case metamodel.XSDFloat:
		return "float32"
	case metamodel.XSDDecimal, metamodel.XSDDouble:
		return "float64"
	case metamodel.XSDDateTime, metamodel.XSDDateTimeStamp:
		return "jsonbind.DateTime"
	case metamodel.XSDDate:
		return "jsonbind.Date"
	case metamodel.RDFLangString:
		return "map[string]string"
	}
	return "string"
}

func enumerable(goType string) bool {
	return !strings.ContainsAny(goType, ".[")
}

func constSuffix(value string) string {
	if value == "" {
		return "Empty"
	}
	if c := value[0]; c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9') {
		return "Value" + strings.NewReplacer("-", "Minus", "+", "", ".", "_").Replace(value)
	}
	return naming.Pascal(value)
}

func goLiteral(goType, value string) string {
	switch {
	case goType == "string":
		return strconv.Quote(value)
	case goType == "bool":
		if value == "true" || value == "1" {
			return "true"
		}
		return "false"
	case strings.HasPrefix(goType, "float"):
		if _, err := strconv.ParseFloat(value, 64); err == nil {
			return value
		}
	case strings.HasPrefix(goType, "int"), strings.HasPrefix(goType, "uint"):
		if _, err := strconv.ParseInt(strings.TrimPrefix(value, "+"), 10, 64); err == nil {
			return strings.TrimPrefix(value, "+")
		}
	}
	return "0"
}

// docLine builds a single line doc comment body.
func docLine(name, description string) string {
	description = strings.Join(strings.Fields(description), " ")
	if description == "" {
		return ""
	}
	return name + ": " + description
}
