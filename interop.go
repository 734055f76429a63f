package neojson

import (
	gojson "github.com/goccy/go-json"
)

// ValueOf converts an arbitrary Go value into generic-container form:
// insertion-ordered maps, []any lists, int64/float64 numbers. The value is
// marshaled with goccy/go-json and re-parsed, so anything that library can
// marshal (struct tags included) is accepted.
func ValueOf(v any, opts ...ParserOpt) (any, error) {
	b, err := gojson.Marshal(v)
	if err != nil {
		return nil, err
	}
	return ParseBytes(b, opts...)
}
