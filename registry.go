package neojson

import (
	"reflect"
	"sync"
)

// Registry associates schema identifiers with Mappings. A schema is either a
// reflect.Type or a symbolic name (any comparable value works as a key).
// Mappings for struct, slice, and string-keyed map types are derived on
// first use; everything else must be registered explicitly before parsing
// begins.
//
// Lookups during parsing only take the read lock, so sharing one Registry
// across parsers is safe as long as registration happens up front.
type Registry struct {
	mu       sync.RWMutex
	mappings map[any]Mapping
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{mappings: map[any]Mapping{}}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package-level registry used by parsers and
// writers that were not given their own.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register associates schema with m, replacing any previous association.
// Registering an identical mapping twice is observably idempotent.
func (r *Registry) Register(schema any, m Mapping) {
	key := normalizeSchema(schema)
	r.mu.Lock()
	r.mappings[key] = m
	r.mu.Unlock()
}

// RegisterObject registers an ObjectMapping for schema and returns it for
// fluent MapProperty configuration.
func (r *Registry) RegisterObject(schema any, construct func() any) *ObjectMapping {
	m := NewObjectMapping(construct)
	r.Register(schema, m)
	return m
}

// RegisterList registers a ListMapping for schema and returns it.
func (r *Registry) RegisterList(schema any, elementSchema any) *ListMapping {
	m := NewListMapping(elementSchema)
	r.Register(schema, m)
	return m
}

// RegisterCustom registers a CustomMapping for schema.
func (r *Registry) RegisterCustom(schema any, read func(*Parser) (any, error), write func(*Writer, any) error) {
	r.Register(schema, NewCustomMapping(read, write))
}

// MappingFor returns the mapping registered for schema, deriving and caching
// one when schema is a derivable reflect.Type. Unresolvable schemas are a
// DecodeError.
func (r *Registry) MappingFor(schema any) (Mapping, error) {
	key := normalizeSchema(schema)
	r.mu.RLock()
	m, ok := r.mappings[key]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}
	t, ok := key.(reflect.Type)
	if !ok {
		return nil, decodeErrorf("no mapping registered for schema %v", schema)
	}
	m, err := deriveMapping(t)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	if existing, ok := r.mappings[key]; ok {
		m = existing
	} else {
		r.mappings[key] = m
	}
	r.mu.Unlock()
	return m, nil
}

// RegisterStruct registers an empty ObjectMapping for struct type T,
// bypassing field derivation, and returns it so fields can be bound
// explicitly with MapField.
func RegisterStruct[T any](r *Registry) *ObjectMapping {
	m := NewObjectMapping(func() any { return new(T) })
	r.Register(reflect.TypeFor[T](), m)
	return m
}

// normalizeSchema collapses pointer-to-struct types onto their element type
// so *T and T resolve to the same mapping.
func normalizeSchema(schema any) any {
	if t, ok := schema.(reflect.Type); ok && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return schema
}
