package staticmeta

// Meta is the static meta description of a generated type C: its model
// identity and its properties in declaration order.
type Meta[C any] struct {
	name       string
	urn        string
	properties []Accessor[C]
	byName     map[string]int
}

func NewMeta[C any](name, urn string, properties ...Accessor[C]) *Meta[C] {
	m := &Meta[C]{
		name:       name,
		urn:        urn,
		properties: properties,
		byName:     make(map[string]int, len(properties)),
	}
	for i, p := range properties {
		m.byName[p.Name()] = i
	}
	return m
}

func (m *Meta[C]) Name() string { return m.name }

func (m *Meta[C]) URN() string { return m.urn }

// Properties returns the accessors in declaration order.
func (m *Meta[C]) Properties() []Accessor[C] {
	return append([]Accessor[C](nil), m.properties...)
}

// Property looks up an accessor by model name.
func (m *Meta[C]) Property(name string) (Accessor[C], bool) {
	i, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.properties[i], true
}

// Values returns the value of every property of c keyed by name.
func (m *Meta[C]) Values(c C) map[string]any {
	out := make(map[string]any, len(m.properties))
	for _, p := range m.properties {
		out[p.Name()] = p.Value(c)
	}
	return out
}
