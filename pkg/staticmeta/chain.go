package staticmeta

import "strings"

// Chain accesses a nested value of F through a sequence of properties.
type Chain[F, T any] struct {
	path []string
	get  func(F) (T, bool)
}

// From starts a chain at a property of F.
func From[F, T any](p Property[F, T]) Chain[F, T] {
	return Chain[F, T]{
		path: []string{p.Name()},
		get: func(f F) (T, bool) {
			return p.Get(f), true
		},
	}
}

// Then extends c with a property of the type c currently resolves to.
func Then[F, M, T any](c Chain[F, M], p Property[M, T]) Chain[F, T] {
	return Chain[F, T]{
		path: appendPath(c.path, p.Name()),
		get: func(f F) (T, bool) {
			m, ok := c.get(f)
			if !ok {
				var zero T
				return zero, false
			}
			return p.Get(m), true
		},
	}
}

// ThenOptional extends a chain ending in an optional value. The resulting
// chain reports no value when the optional is empty.
func ThenOptional[F any, O interface{ Get() (M, bool) }, M, T any](c Chain[F, O], p Property[M, T]) Chain[F, T] {
	return Chain[F, T]{
		path: appendPath(c.path, p.Name()),
		get: func(f F) (T, bool) {
			var zero T
			o, ok := c.get(f)
			if !ok {
				return zero, false
			}
			m, ok := o.Get()
			if !ok {
				return zero, false
			}
			return p.Get(m), true
		},
	}
}

// Value resolves the chain against f.
func (c Chain[F, T]) Value(f F) (T, bool) {
	return c.get(f)
}

// Path returns the property names walked by the chain.
func (c Chain[F, T]) Path() []string {
	return append([]string(nil), c.path...)
}

func (c Chain[F, T]) String() string {
	return strings.Join(c.path, "/")
}

func appendPath(path []string, name string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, name)
}
