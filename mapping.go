package neojson

import (
	"fmt"
	"reflect"
)

// Mapping describes how instances of one schema read from and write to JSON.
// The read side drives the Parser's element callbacks; the write side
// renders through a Writer using the same descriptor data, so whatever a
// mapping can read it can also render back.
type Mapping interface {
	ReadInstanceFrom(p *Parser) (any, error)
	WriteInstanceTo(w *Writer, v any) error
}

// binding ties one JSON property to a getter/setter pair on the target type,
// with an optional nested schema for the property's value.
type binding struct {
	name   string
	get    func(target any) any
	set    func(target any, v any)
	schema any
}

// ObjectMapping maps a JSON map onto a constructed target instance, one
// field binding per property. Bindings keep registration order for the
// write side; reads are driven by the input's key order.
type ObjectMapping struct {
	construct func() any
	bindings  []*binding
	byName    map[string]*binding
}

// NewObjectMapping returns an ObjectMapping allocating target instances via
// construct.
func NewObjectMapping(construct func() any) *ObjectMapping {
	return &ObjectMapping{construct: construct, byName: map[string]*binding{}}
}

// MapProperty registers a binding for the JSON property name. Either
// accessor may be nil: a nil setter ignores the property on read, a nil
// getter omits it on write. Re-registering a name replaces the previous
// binding in place.
func (m *ObjectMapping) MapProperty(name string, get func(target any) any, set func(target any, v any)) *propertyStep {
	if b, ok := m.byName[name]; ok {
		b.get, b.set, b.schema = get, set, nil
		return &propertyStep{m: m, b: b}
	}
	b := &binding{name: name, get: get, set: set}
	m.bindings = append(m.bindings, b)
	m.byName[name] = b
	return &propertyStep{m: m, b: b}
}

// propertyStep continues a fluent MapProperty chain.
type propertyStep struct {
	m *ObjectMapping
	b *binding
}

// As sets the nested schema used to decode and encode this property's value.
func (s *propertyStep) As(schema any) *ObjectMapping {
	s.b.schema = schema
	return s.m
}

func (s *propertyStep) MapProperty(name string, get func(target any) any, set func(target any, v any)) *propertyStep {
	return s.m.MapProperty(name, get, set)
}

// ReadInstanceFrom allocates a target and fills it from the incoming map's
// key/value pairs. Properties with no binding are parsed and silently
// discarded: unknown JSON properties never abort a mapped decode.
func (m *ObjectMapping) ReadInstanceFrom(p *Parser) (any, error) {
	target := m.construct()
	err := p.ParseMapKeysDo(func(key string) error {
		b := m.byName[key]
		if b == nil || b.set == nil {
			_, err := p.Next()
			return err
		}
		v, err := p.NextAs(b.schema)
		if err != nil {
			return err
		}
		b.set(target, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

// WriteInstanceTo renders v as a JSON map using the bindings' getters, in
// registration order.
func (m *ObjectMapping) WriteInstanceTo(w *Writer, v any) error {
	w.open('{')
	n := 0
	for _, b := range m.bindings {
		if b.get == nil {
			continue
		}
		w.comma(n)
		n++
		w.key(b.name)
		value := b.get(v)
		var err error
		if b.schema != nil && value != nil {
			err = w.WriteAs(value, b.schema)
		} else {
			err = w.WriteValue(value)
		}
		if err != nil {
			return err
		}
	}
	w.close('}', n)
	return w.err
}

// MapField registers a typed binding on m. It wraps the typed accessors for
// the any-based binding surface, converting the parsed value to F when the
// dynamic type differs but is convertible (int64 into an int field, float64
// into float32, and so on). A nil parsed value sets F's zero value.
func MapField[T any, F any](m *ObjectMapping, name string, get func(*T) F, set func(*T, F)) *propertyStep {
	var g func(any) any
	var s func(any, any)
	if get != nil {
		g = func(target any) any { return get(target.(*T)) }
	}
	if set != nil {
		s = func(target any, v any) {
			if v == nil {
				var zero F
				set(target.(*T), zero)
				return
			}
			if fv, ok := v.(F); ok {
				set(target.(*T), fv)
				return
			}
			rv := reflect.ValueOf(v)
			ft := reflect.TypeFor[F]()
			if rv.Type().ConvertibleTo(ft) {
				set(target.(*T), rv.Convert(ft).Interface().(F))
			}
		}
	}
	return m.MapProperty(name, g, s)
}

// ListMapping decodes a JSON list element by element through an element
// schema, appending to a caller-chosen list container.
type ListMapping struct {
	elementSchema any
	newList       func() ListContainer
}

// NewListMapping returns a ListMapping decoding elements as elementSchema
// (nil for generic decoding) into the default []any container.
func NewListMapping(elementSchema any) *ListMapping {
	return &ListMapping{elementSchema: elementSchema, newList: defaultNewList}
}

// WithList overrides the list container factory.
func (m *ListMapping) WithList(newList func() ListContainer) *ListMapping {
	m.newList = newList
	return m
}

func (m *ListMapping) ReadInstanceFrom(p *Parser) (any, error) {
	list := m.newList()
	err := p.ParseListDo(func() error {
		v, err := p.NextAs(m.elementSchema)
		if err != nil {
			return err
		}
		list.Add(v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list.Interface(), nil
}

func (m *ListMapping) WriteInstanceTo(w *Writer, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("neojson: cannot render %T as a JSON list", v)
	}
	w.open('[')
	for i := 0; i < rv.Len(); i++ {
		w.comma(i)
		el := rv.Index(i).Interface()
		var err error
		if m.elementSchema != nil && el != nil {
			err = w.WriteAs(el, m.elementSchema)
		} else {
			err = w.WriteValue(el)
		}
		if err != nil {
			return err
		}
	}
	w.close(']', rv.Len())
	return w.err
}

// CustomMapping adapts raw read/write functions as a Mapping, for schemas
// whose representation does not follow the map-of-fields shape.
type CustomMapping struct {
	read  func(*Parser) (any, error)
	write func(*Writer, any) error
}

// NewCustomMapping builds a CustomMapping. write may be nil when the schema
// is only ever decoded.
func NewCustomMapping(read func(*Parser) (any, error), write func(*Writer, any) error) *CustomMapping {
	return &CustomMapping{read: read, write: write}
}

func (m *CustomMapping) ReadInstanceFrom(p *Parser) (any, error) {
	if m.read == nil {
		return nil, decodeErrorf("custom mapping has no read function")
	}
	return m.read(p)
}

func (m *CustomMapping) WriteInstanceTo(w *Writer, v any) error {
	if m.write == nil {
		return fmt.Errorf("neojson: custom mapping for %T has no write function", v)
	}
	return m.write(w, v)
}
