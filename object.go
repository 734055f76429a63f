package neojson

import (
	"fmt"
	"iter"
)

// Map is an insertion-ordered map from string keys to arbitrary values. It is
// the default container for JSON objects: key order is the order keys were
// first seen, never alphabetical or otherwise canonical.
type Map struct {
	keys  []string
	index map[string]any
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{index: make(map[string]any)}
}

// Len reports the number of keys.
func (m *Map) Len() int { return len(m.keys) }

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Get returns the value stored under key, or nil when absent.
func (m *Map) Get(key string) any { return m.index[key] }

// Put stores v under key, keeping the key's original position when it already
// exists, and returns the stored value.
func (m *Map) Put(key string, v any) any {
	if _, ok := m.index[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.index[key] = v
	return v
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key string) bool {
	if _, ok := m.index[key]; !ok {
		return false
	}
	delete(m.index, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates key/value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.keys {
			if !yield(k, m.index[k]) {
				return
			}
		}
	}
}

// Set implements MapContainer.
func (m *Map) Set(key string, v any) { m.Put(key, v) }

// Interface implements MapContainer.
func (m *Map) Interface() any { return m }

// MarshalJSON renders the map with keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	s, err := Encode(m)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func (m *Map) String() string { return renderOrDiagnose(m) }

// Object is a dynamic JSON object: an ordered map with permissive
// property-style access and nested-path operations. It composes a Map rather
// than subclassing one; the full key/value surface is re-exposed alongside
// the path and property operations.
//
// A missing key reads as nil (the neutral absent value), never an error.
// Note the two return conventions: Put returns the stored value, while
// WriteProperty returns the receiver for fluent chaining.
type Object struct {
	m Map
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{m: Map{index: make(map[string]any)}}
}

// ObjectWith returns an Object holding the given key/value pairs in order.
// Arguments alternate key, value; a trailing key without a value is dropped.
func ObjectWith(pairs ...any) *Object {
	o := NewObject()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			key = fmt.Sprint(pairs[i])
		}
		o.Put(key, pairs[i+1])
	}
	return o
}

// ObjectFromString parses s as a JSON object with Object containers at every
// nesting level.
func ObjectFromString(s string) (*Object, error) {
	v, err := Parse(StringSource(s), ParserOpt{NewMap: func() MapContainer { return NewObject() }})
	if err != nil {
		return nil, err
	}
	obj, ok := v.(*Object)
	if !ok {
		return nil, decodeErrorf("object expected")
	}
	return obj, nil
}

func (o *Object) Len() int                    { return o.m.Len() }
func (o *Object) Has(key string) bool         { return o.m.Has(key) }
func (o *Object) Keys() []string              { return o.m.Keys() }
func (o *Object) Delete(key string) bool      { return o.m.Delete(key) }
func (o *Object) All() iter.Seq2[string, any] { return o.m.All() }

// Get returns the value stored under key, or nil when absent.
func (o *Object) Get(key string) any { return o.m.Get(key) }

// Put stores v under key and returns the stored value.
func (o *Object) Put(key string, v any) any { return o.m.Put(key, v) }

// GetOrElse returns present applied to the stored value when key is present;
// otherwise it computes absent(), stores the result under key, and returns
// it. The lookup happens once.
func (o *Object) GetOrElse(key string, present func(any) any, absent func() any) any {
	if v, ok := o.m.index[key]; ok {
		return present(v)
	}
	return o.Put(key, absent())
}

// GetPath walks path one key at a time, descending through nested Objects.
// It returns nil as soon as any step is absent or the value at hand is not
// an Object, without error.
func (o *Object) GetPath(path ...string) any {
	var cur any = o
	for _, key := range path {
		obj, ok := cur.(*Object)
		if !ok {
			return nil
		}
		cur = obj.Get(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// PutPath stores value at the end of path, creating empty Objects for every
// absent intermediate step. An existing non-Object value partway down the
// path is replaced by a fresh Object rather than descended into. Returns the
// stored value; a nil return means the path was empty.
func (o *Object) PutPath(path []string, value any) any {
	if len(path) == 0 {
		return nil
	}
	cur := o
	for _, key := range path[:len(path)-1] {
		next, ok := cur.Get(key).(*Object)
		if !ok {
			next = NewObject()
			cur.Put(key, next)
		}
		cur = next
	}
	return cur.Put(path[len(path)-1], value)
}

// ReadProperty is equivalent to Get.
func (o *Object) ReadProperty(name string) any { return o.Get(name) }

// WriteProperty stores v under name and returns the receiver, allowing
// fluent chains such as NewObject().WriteProperty("a", 1).WriteProperty("b", 2).
func (o *Object) WriteProperty(name string, v any) *Object {
	o.Put(name, v)
	return o
}

// Name reads the reserved "name" property.
func (o *Object) Name() any { return o.Get("name") }

// Value reads the reserved "value" property.
func (o *Object) Value() any { return o.Get("value") }

// Set implements MapContainer.
func (o *Object) Set(key string, v any) { o.Put(key, v) }

// Interface implements MapContainer.
func (o *Object) Interface() any { return o }

// MarshalJSON renders the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	s, err := Encode(o)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// String renders the object as JSON text. Rendering failures do not
// propagate from this entry point; a diagnostic string is substituted
// instead.
func (o *Object) String() string { return renderOrDiagnose(o) }

func renderOrDiagnose(v any) string {
	s, err := Encode(v)
	if err != nil {
		return fmt.Sprintf("<unrenderable: %v>", err)
	}
	return s
}
