package urn

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// Scheme is the prefix shared by every Aspect Model URN.
	Scheme = "urn:samm:"

	// LegacyScheme is the prefix used by models written against the BAMM
	// meta model. It is accepted on parse and reported through URN.Legacy.
	LegacyScheme = "urn:bamm:"

	// MetaModelNamespace is the namespace reserved for meta model elements.
	MetaModelNamespace = "org.eclipse.esmf.samm"
)

// ElementType classifies what an URN points at.
type ElementType string

const (
	ElementTypeModel          ElementType = "model"
	ElementTypeMetaModel      ElementType = "meta-model"
	ElementTypeCharacteristic ElementType = "characteristic"
	ElementTypeEntity         ElementType = "entity"
	ElementTypeUnit           ElementType = "unit"
)

var (
	namespacePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]*[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9_-]*[a-zA-Z0-9])?)*$`)
	namePattern      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)
)

// URN identifies an Aspect Model element (or a namespace when Name is empty),
// e.g. urn:samm:io.catenax.part_as_planned:2.0.0#PartAsPlanned.
type URN struct {
	Namespace   string
	Version     string
	Name        string
	ElementType ElementType
	Legacy      bool
}

// SyntaxError reports why an input could not be parsed as an URN.
type SyntaxError struct {
	Input  string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("urn: invalid %q: %s", e.Input, e.Reason)
}

// Parse validates raw and splits it into its parts.
func Parse(raw string) (URN, error) {
	input := strings.TrimSpace(raw)
	fail := func(reason string) (URN, error) {
		return URN{}, &SyntaxError{Input: raw, Reason: reason}
	}

	var (
		rest   string
		legacy bool
	)
	switch {
	case strings.HasPrefix(input, Scheme):
		rest = input[len(Scheme):]
	case strings.HasPrefix(input, LegacyScheme):
		rest = input[len(LegacyScheme):]
		legacy = true
	default:
		return fail("missing urn:samm: prefix")
	}

	var name string
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		name = rest[idx+1:]
		rest = rest[:idx]
		if name == "" {
			return fail("element name after '#' is empty")
		}
		if !namePattern.MatchString(name) {
			return fail(fmt.Sprintf("element name %q is not valid", name))
		}
	}

	parts := strings.Split(rest, ":")
	out := URN{Name: name, Legacy: legacy, ElementType: ElementTypeModel}
	switch len(parts) {
	case 2:
		out.Namespace, out.Version = parts[0], parts[1]
	case 3:
		out.Namespace, out.Version = parts[0], parts[2]
		elementType, ok := metaModelElementType(parts[1])
		if !ok {
			return fail(fmt.Sprintf("unknown meta model part %q", parts[1]))
		}
		out.ElementType = elementType
		if out.Namespace != MetaModelNamespace && !(legacy && strings.HasPrefix(out.Namespace, "io.openmanufacturing")) {
			return fail("only the meta model namespace may declare an element type")
		}
	default:
		return fail("expected <namespace>:<version>")
	}

	if !namespacePattern.MatchString(out.Namespace) {
		return fail(fmt.Sprintf("namespace %q is not valid", out.Namespace))
	}
	if !IsValidVersion(out.Version) {
		return fail(fmt.Sprintf("version %q is not a semantic version", out.Version))
	}
	return out, nil
}

// MustParse panics when raw is not a valid URN. Intended for constants and tests.
func MustParse(raw string) URN {
	u, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// IsValidVersion reports whether version is MAJOR.MINOR.PATCH with an optional
// pre-release suffix.
func IsValidVersion(version string) bool {
	if version == "" || strings.HasPrefix(version, "v") {
		return false
	}
	canonical := "v" + version
	if !semver.IsValid(canonical) {
		return false
	}
	// semver accepts shorthand like v1.2; models always spell out three parts.
	core := strings.SplitN(version, "-", 2)[0]
	return strings.Count(core, ".") == 2 && semver.Build(canonical) == ""
}

// IsModelIRI reports whether iri parses as an element URN.
func IsModelIRI(iri string) bool {
	if !strings.HasPrefix(iri, Scheme) && !strings.HasPrefix(iri, LegacyScheme) {
		return false
	}
	u, err := Parse(iri)
	return err == nil && u.Name != ""
}

func metaModelElementType(part string) (ElementType, bool) {
	switch ElementType(part) {
	case ElementTypeMetaModel, ElementTypeCharacteristic, ElementTypeEntity, ElementTypeUnit:
		return ElementType(part), true
	}
	return "", false
}

// String renders the canonical URN.
func (u URN) String() string {
	var b strings.Builder
	if u.Legacy {
		b.WriteString(LegacyScheme)
	} else {
		b.WriteString(Scheme)
	}
	b.WriteString(u.Namespace)
	if u.IsMetaModel() {
		b.WriteByte(':')
		b.WriteString(string(u.ElementType))
	}
	b.WriteByte(':')
	b.WriteString(u.Version)
	if u.Name != "" {
		b.WriteByte('#')
		b.WriteString(u.Name)
	}
	return b.String()
}

// NamespaceIRI returns the URN prefix shared by all elements of the namespace,
// including the trailing '#'.
func (u URN) NamespaceIRI() string {
	return u.WithName("").String() + "#"
}

// WithName returns a copy pointing at another element of the same namespace.
func (u URN) WithName(name string) URN {
	u.Name = name
	return u
}

// IsMetaModel reports whether the URN belongs to the SAMM meta model.
func (u URN) IsMetaModel() bool {
	return u.ElementType != "" && u.ElementType != ElementTypeModel
}

// IsZero reports whether the URN is unset.
func (u URN) IsZero() bool {
	return u.Namespace == "" && u.Version == "" && u.Name == ""
}

// Equal compares two URNs ignoring the legacy flag.
func (u URN) Equal(other URN) bool {
	return u.Namespace == other.Namespace &&
		u.Version == other.Version &&
		u.Name == other.Name &&
		u.normalizedType() == other.normalizedType()
}

// CompareVersion orders two URNs by semantic version; it returns -1, 0 or +1.
func (u URN) CompareVersion(other URN) int {
	return semver.Compare("v"+u.Version, "v"+other.Version)
}

func (u URN) normalizedType() ElementType {
	if u.ElementType == "" {
		return ElementTypeModel
	}
	return u.ElementType
}
