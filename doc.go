// Package neojson provides:
//
// - A recursive-descent JSON parser over a minimal character Source
//   (exact numeric semantics, full escape handling, surrogate pairs)
// - A mapping layer that decodes JSON directly into application types via
//   registered or reflection-derived mappings, without an intermediate tree
// - An insertion-ordered Map and a dynamic Object container with permissive
//   property access and path-based get/put
// - A Writer that renders values (including mapped types) back to JSON text
//
// Design policy:
// - Keep the public API in the root package; the CLI lives under cmd/.
// - One error kind, DecodeError, for every malformed-input condition.
// - Object key order is preserved, never canonicalized.
//
// Typical usage:
//
//	v, err := neojson.ParseString(`{"foo":1,"bar":-2}`)
//	obj, err := neojson.ObjectFromString(`{"a":{"b":{"c":42}}}`)
//	pt, err := neojson.ParseAs[Point](neojson.StringSource(`{"x":1,"y":2}`))
//
//	s, err := neojson.Encode(v)
package neojson
