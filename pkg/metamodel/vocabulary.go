package metamodel

import (
	"strings"

	"github.com/goliatone/go-aspectmodel/pkg/rdf"
)

const metaModelPrefix = "urn:samm:org.eclipse.esmf.samm:"

// DefaultVersion is the meta model version used when nothing else is known.
const DefaultVersion = "2.1.0"

// SupportedVersions lists the meta model versions the builder understands.
var SupportedVersions = []string{"2.0.0", "2.1.0", "2.2.0"}

// SAMM returns the meta-model namespace IRI for version v.
func SAMM(v string) string { return metaModelPrefix + "meta-model:" + v + "#" }

// SAMMC returns the characteristic namespace IRI for version v.
func SAMMC(v string) string { return metaModelPrefix + "characteristic:" + v + "#" }

// SAMME returns the entity namespace IRI for version v.
func SAMME(v string) string { return metaModelPrefix + "entity:" + v + "#" }

// UnitNS returns the unit namespace IRI for version v.
func UnitNS(v string) string { return metaModelPrefix + "unit:" + v + "#" }

// IsSupportedVersion reports whether v is one of SupportedVersions.
func IsSupportedVersion(v string) bool {
	for _, s := range SupportedVersions {
		if s == v {
			return true
		}
	}
	return false
}

// MetaModelPart identifies which meta model namespace an IRI belongs to.
type MetaModelPart string

const (
	PartMetaModel      MetaModelPart = "meta-model"
	PartCharacteristic MetaModelPart = "characteristic"
	PartEntity         MetaModelPart = "entity"
	PartUnit           MetaModelPart = "unit"
)

// SplitMetaModelIRI decomposes a meta model IRI such as
// urn:samm:org.eclipse.esmf.samm:characteristic:2.1.0#Trait.
func SplitMetaModelIRI(iri string) (part MetaModelPart, version, local string, ok bool) {
	if !strings.HasPrefix(iri, metaModelPrefix) {
		return "", "", "", false
	}
	rest := iri[len(metaModelPrefix):]
	hash := strings.IndexByte(rest, '#')
	if hash < 0 {
		return "", "", "", false
	}
	local = rest[hash+1:]
	head := strings.SplitN(rest[:hash], ":", 2)
	if len(head) != 2 {
		return "", "", "", false
	}
	return MetaModelPart(head[0]), head[1], local, true
}

// PrefixesFor returns the conventional prefix set for meta model version v.
func PrefixesFor(v string) map[string]string {
	return map[string]string{
		"samm":   SAMM(v),
		"samm-c": SAMMC(v),
		"samm-e": SAMME(v),
		"unit":   UnitNS(v),
		"xsd":    rdf.XSDNamespace,
		"rdf":    rdf.RDFNamespace,
		"rdfs":   rdf.RDFSNamespace,
	}
}

// XSD datatype IRIs.
const (
	XSDString             = rdf.XSDString
	XSDBoolean            = rdf.XSDBoolean
	XSDDecimal            = rdf.XSDDecimal
	XSDInteger            = rdf.XSDInteger
	XSDDouble             = rdf.XSDDouble
	XSDFloat              = rdf.XSDNamespace + "float"
	XSDDate               = rdf.XSDNamespace + "date"
	XSDTime               = rdf.XSDNamespace + "time"
	XSDDateTime           = rdf.XSDNamespace + "dateTime"
	XSDDateTimeStamp      = rdf.XSDNamespace + "dateTimeStamp"
	XSDGYear              = rdf.XSDNamespace + "gYear"
	XSDGMonth             = rdf.XSDNamespace + "gMonth"
	XSDGDay               = rdf.XSDNamespace + "gDay"
	XSDGYearMonth         = rdf.XSDNamespace + "gYearMonth"
	XSDGMonthDay          = rdf.XSDNamespace + "gMonthDay"
	XSDDuration           = rdf.XSDNamespace + "duration"
	XSDYearMonthDuration  = rdf.XSDNamespace + "yearMonthDuration"
	XSDDayTimeDuration    = rdf.XSDNamespace + "dayTimeDuration"
	XSDByte               = rdf.XSDNamespace + "byte"
	XSDShort              = rdf.XSDNamespace + "short"
	XSDInt                = rdf.XSDNamespace + "int"
	XSDLong               = rdf.XSDNamespace + "long"
	XSDUnsignedByte       = rdf.XSDNamespace + "unsignedByte"
	XSDUnsignedShort      = rdf.XSDNamespace + "unsignedShort"
	XSDUnsignedInt        = rdf.XSDNamespace + "unsignedInt"
	XSDUnsignedLong       = rdf.XSDNamespace + "unsignedLong"
	XSDPositiveInteger    = rdf.XSDNamespace + "positiveInteger"
	XSDNonPositiveInteger = rdf.XSDNamespace + "nonPositiveInteger"
	XSDNegativeInteger    = rdf.XSDNamespace + "negativeInteger"
	XSDNonNegativeInteger = rdf.XSDNamespace + "nonNegativeInteger"
	XSDHexBinary          = rdf.XSDNamespace + "hexBinary"
	XSDBase64Binary       = rdf.XSDNamespace + "base64Binary"
	XSDAnyURI             = rdf.XSDNamespace + "anyURI"
	RDFLangString         = rdf.RDFLangString
)

// IsCurie reports whether datatype is samm:curie of any supported version.
func IsCurie(datatype string) bool {
	part, _, local, ok := SplitMetaModelIRI(datatype)
	return ok && part == PartMetaModel && local == "curie"
}

var integerTypes = map[string]struct{}{
	XSDInteger: {}, XSDByte: {}, XSDShort: {}, XSDInt: {}, XSDLong: {},
	XSDUnsignedByte: {}, XSDUnsignedShort: {}, XSDUnsignedInt: {}, XSDUnsignedLong: {},
	XSDPositiveInteger: {}, XSDNonPositiveInteger: {}, XSDNegativeInteger: {}, XSDNonNegativeInteger: {},
}

// IsIntegerType reports whether datatype belongs to the xsd:integer family.
func IsIntegerType(datatype string) bool {
	_, ok := integerTypes[datatype]
	return ok
}

// IsNumericType reports whether datatype is an integer, decimal or floating point type.
func IsNumericType(datatype string) bool {
	switch datatype {
	case XSDDecimal, XSDDouble, XSDFloat:
		return true
	}
	return IsIntegerType(datatype)
}

// DataTypeLabel shortens a scalar datatype IRI to its usual prefixed form.
func DataTypeLabel(iri string) string {
	switch {
	case strings.HasPrefix(iri, rdf.XSDNamespace):
		return "xsd:" + iri[len(rdf.XSDNamespace):]
	case iri == RDFLangString:
		return "rdf:langString"
	case IsCurie(iri):
		return "samm:curie"
	}
	return iri
}

// LocalName returns the part of an IRI after the last '#' or '/'.
func LocalName(iri string) string {
	if idx := strings.LastIndexAny(iri, "#/"); idx >= 0 {
		return iri[idx+1:]
	}
	return iri
}
