package metamodel

import (
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// builtinDataTypes maps the samm-c characteristic instances to their data
// type. An empty value means samm:curie of the same meta model version.
var builtinDataTypes = map[string]string{
	"Text":              XSDString,
	"Boolean":           XSDBoolean,
	"Timestamp":         XSDDateTime,
	"MultiLanguageText": RDFLangString,
	"Locale":            XSDString,
	"Language":          XSDString,
	"UnitReference":     "",
	"ResourcePath":      XSDAnyURI,
	"MimeType":          XSDString,
}

// BuiltinCharacteristic returns a fresh instance of a predefined samm-c
// characteristic such as samm-c:Text.
func BuiltinCharacteristic(iri string) (*Characteristic, bool) {
	part, version, local, ok := SplitMetaModelIRI(iri)
	if !ok || part != PartCharacteristic {
		return nil, false
	}
	dt, ok := builtinDataTypes[local]
	if !ok {
		return nil, false
	}
	if dt == "" {
		dt = SAMM(version) + "curie"
	}

	c := &Characteristic{
		Base: Base{
			IRI:            iri,
			Name:           local,
			PreferredNames: map[string]string{"en": builtinNames[local]},
		},
		Kind:     KindCharacteristic,
		DataType: &Type{Scalar: dt},
	}
	if u, err := urn.Parse(iri); err == nil {
		c.URN = u
	}
	return c, true
}

var builtinNames = map[string]string{
	"Text":              "Text",
	"Boolean":           "Boolean",
	"Timestamp":         "Timestamp",
	"MultiLanguageText": "Multi-Language Text",
	"Locale":            "Locale",
	"Language":          "Language",
	"UnitReference":     "Unit Reference",
	"ResourcePath":      "Resource Path",
	"MimeType":          "MIME Type",
}
