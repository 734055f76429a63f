package neojson

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
)

// deriveMapping builds a Mapping for a reflect.Type on first use. Structs
// become ObjectMappings over their exported fields, slices become
// ListMappings with a typed container, string-keyed maps become mapMappings.
func deriveMapping(t reflect.Type) (Mapping, error) {
	switch t.Kind() {
	case reflect.Struct:
		return deriveStructMapping(t), nil
	case reflect.Slice:
		return deriveSliceMapping(t), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, decodeErrorf("no mapping registered for schema %v", t)
		}
		return &mapMapping{t: t, elemSchema: nestedSchemaFor(t.Elem())}, nil
	default:
		return nil, decodeErrorf("no mapping registered for schema %v", t)
	}
}

// resolveStructKey resolves a struct field's JSON property name.
// Priority: json tag name > lowerCamel of the field name; "-" disables the
// field.
func resolveStructKey(sf reflect.StructField) string {
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return strcase.ToLowerCamel(sf.Name)
			}
			return jt[:i]
		}
		return jt
	}
	return strcase.ToLowerCamel(sf.Name)
}

func deriveStructMapping(t reflect.Type) *ObjectMapping {
	m := NewObjectMapping(func() any { return reflect.New(t).Interface() })
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := resolveStructKey(sf)
		if name == "-" || name == "" {
			continue
		}
		idx := i
		step := m.MapProperty(name,
			func(target any) any {
				rv := reflect.ValueOf(target)
				if rv.Kind() == reflect.Pointer {
					rv = rv.Elem()
				}
				return rv.Field(idx).Interface()
			},
			func(target any, v any) {
				assignField(reflect.ValueOf(target).Elem().Field(idx), v)
			})
		if schema := nestedSchemaFor(sf.Type); schema != nil {
			step.As(schema)
		}
	}
	return m
}

// nestedSchemaFor decides whether a field type needs a nested schema.
// Structs (behind any level of one pointer), slices, and string-keyed maps
// do; scalar kinds decode generically.
func nestedSchemaFor(ft reflect.Type) any {
	base := ft
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}
	switch base.Kind() {
	case reflect.Struct:
		return base
	case reflect.Slice:
		return base
	case reflect.Map:
		if base.Key().Kind() == reflect.String {
			return base
		}
	}
	return nil
}

func deriveSliceMapping(t reflect.Type) *ListMapping {
	elemSchema := nestedSchemaFor(t.Elem())
	return NewListMapping(elemSchema).WithList(func() ListContainer {
		return &reflectSlice{slice: reflect.MakeSlice(t, 0, 0), elem: t.Elem()}
	})
}

// reflectSlice is a ListContainer materializing a typed slice.
type reflectSlice struct {
	slice reflect.Value
	elem  reflect.Type
}

func (c *reflectSlice) Add(v any) {
	rv, ok := conformValue(c.elem, v)
	if !ok {
		return
	}
	c.slice = reflect.Append(c.slice, rv)
}

func (c *reflectSlice) Interface() any { return c.slice.Interface() }

// mapMapping decodes a JSON map into a typed Go map and renders it back with
// keys sorted for determinism (Go map iteration order would leak otherwise).
type mapMapping struct {
	t          reflect.Type
	elemSchema any
}

func (m *mapMapping) ReadInstanceFrom(p *Parser) (any, error) {
	mv := reflect.MakeMap(m.t)
	err := p.ParseMapKeysDo(func(key string) error {
		v, err := p.NextAs(m.elemSchema)
		if err != nil {
			return err
		}
		rv, ok := conformValue(m.t.Elem(), v)
		if !ok {
			return nil
		}
		mv.SetMapIndex(reflect.ValueOf(key).Convert(m.t.Key()), rv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mv.Interface(), nil
}

func (m *mapMapping) WriteInstanceTo(w *Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return fmt.Errorf("neojson: cannot render %T as a JSON map", v)
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	w.open('{')
	for i, k := range keys {
		w.comma(i)
		w.key(k)
		el := rv.MapIndex(reflect.ValueOf(k).Convert(m.t.Key())).Interface()
		var err error
		if m.elemSchema != nil && el != nil {
			err = w.WriteAs(el, m.elemSchema)
		} else {
			err = w.WriteValue(el)
		}
		if err != nil {
			return err
		}
	}
	w.close('}', len(keys))
	return w.err
}

// assignField stores v into a settable struct field, unwrapping pointers
// produced by nested mappings and converting when the types differ but are
// convertible. Incompatible values are dropped rather than erroring, in line
// with the permissive mapping contract.
func assignField(fv reflect.Value, v any) {
	if !fv.CanSet() {
		return
	}
	if v == nil {
		switch fv.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			fv.Set(reflect.Zero(fv.Type()))
		}
		return
	}
	if rv, ok := conformValue(fv.Type(), v); ok {
		fv.Set(rv)
	}
}

// conformValue adapts v to target: deref a mapped *S for an S target, box an
// S for a *S target, then fall back to AssignableTo/ConvertibleTo.
func conformValue(target reflect.Type, v any) (reflect.Value, bool) {
	if v == nil {
		switch target.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
			return reflect.Zero(target), true
		}
		return reflect.Value{}, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && target.Kind() != reflect.Pointer && rv.Type().Elem() == target {
		rv = rv.Elem()
	}
	if target.Kind() == reflect.Pointer && rv.Kind() != reflect.Pointer && rv.Type() == target.Elem() {
		pv := reflect.New(rv.Type())
		pv.Elem().Set(rv)
		rv = pv
	}
	switch {
	case rv.Type().AssignableTo(target):
		return rv, true
	case rv.Type().ConvertibleTo(target):
		return rv.Convert(target), true
	}
	return reflect.Value{}, false
}
