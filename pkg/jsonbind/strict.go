package jsonbind

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// optionalValue lets the known-field check see the type wrapped by an
// Optional, whose UnmarshalJSON runs outside the mapper's decoder.
type optionalValue interface {
	elemType() reflect.Type
}

var (
	optionalType    = reflect.TypeFor[optionalValue]()
	unmarshalerType = reflect.TypeFor[json.Unmarshaler]()
)

// checkKnownFields walks data alongside the type of v and reports the first
// object key that no struct field accepts.
func checkKnownFields(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	return knownFields(raw, reflect.TypeOf(v), "")
}

func knownFields(raw any, t reflect.Type, path string) error {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Implements(optionalType) {
		return knownFields(raw, reflect.Zero(t).Interface().(optionalValue).elemType(), path)
	}
	if t.Implements(unmarshalerType) || reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil
		}
		fields := structFields(t)
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			ft, ok := lookupField(fields, key)
			if !ok {
				return &DecodeError{Field: joinField(path, key), Err: fmt.Errorf("json: unknown field %q", key)}
			}
			if err := knownFields(obj[key], ft, joinField(path, key)); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		items, ok := raw.([]any)
		if !ok {
			return nil
		}
		for i, item := range items {
			if err := knownFields(item, t.Elem(), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil
		}
		for k, item := range obj {
			if err := knownFields(item, t.Elem(), joinField(path, k)); err != nil {
				return err
			}
		}
	}
	return nil
}

// structFields maps JSON names to field types following encoding/json tag
// rules, flattening untagged embedded structs.
func structFields(t reflect.Type) map[string]reflect.Type {
	out := make(map[string]reflect.Type, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				for k, v := range structFields(ft) {
					if _, exists := out[k]; !exists {
						out[k] = v
					}
				}
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		out[name] = f.Type
	}
	return out
}

// lookupField prefers an exact match and falls back to the case-insensitive
// match encoding/json also accepts.
func lookupField(fields map[string]reflect.Type, key string) (reflect.Type, bool) {
	if ft, ok := fields[key]; ok {
		return ft, true
	}
	for name, ft := range fields {
		if strings.EqualFold(name, key) {
			return ft, true
		}
	}
	return nil, false
}

func joinField(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
