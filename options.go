package neojson

// ListContainer collects list elements during a parse. Interface returns the
// materialized value handed back to the caller.
type ListContainer interface {
	Add(v any)
	Interface() any
}

// MapContainer collects key/value pairs during a parse. *Map and *Object
// both satisfy it.
type MapContainer interface {
	Set(key string, v any)
	Interface() any
}

// ParserOpt bundles parser configuration. The zero value selects the
// defaults: []any lists, *Map objects, plain string keys, the package-level
// registry.
type ParserOpt struct {
	// NewList returns the container materialized for each JSON array.
	NewList func() ListContainer
	// NewMap returns the container materialized for each JSON object.
	NewMap func() MapContainer
	// InternKeys dedups object keys through a parser-owned cache, trading a
	// lookup per key for a single backing string per distinct key.
	InternKeys bool
	// Registry resolves schemas for NextAs. Defaults to DefaultRegistry().
	Registry *Registry
}

// sliceContainer is the default ListContainer.
type sliceContainer struct {
	items []any
}

func (c *sliceContainer) Add(v any)      { c.items = append(c.items, v) }
func (c *sliceContainer) Interface() any { return c.items }

func defaultNewList() ListContainer { return &sliceContainer{items: []any{}} }
func defaultNewMap() MapContainer   { return NewMap() }
