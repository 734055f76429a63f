package neojson

import (
	"io"
	"reflect"
)

// Parse reads exactly one JSON value from src in generic-container form and
// fails when unconsumed input remains (trailing whitespace excepted).
func Parse(src Source, opts ...ParserOpt) (any, error) {
	p := NewParser(src, opts...)
	v, err := p.Next()
	if err != nil {
		return nil, err
	}
	if err := p.FailIfNotAtEnd(); err != nil {
		return nil, err
	}
	return v, nil
}

// ParseString parses s as one JSON value.
func ParseString(s string, opts ...ParserOpt) (any, error) {
	return Parse(StringSource(s), opts...)
}

// ParseBytes parses b as one JSON value.
func ParseBytes(b []byte, opts ...ParserOpt) (any, error) {
	return Parse(BytesSource(b), opts...)
}

// ParseReader parses one JSON value from r.
func ParseReader(r io.Reader, opts ...ParserOpt) (any, error) {
	return Parse(ReaderSource(r), opts...)
}

// ParseAs decodes one JSON value into T through the mapping registered (or
// derived) for T, then fails when unconsumed input remains.
func ParseAs[T any](src Source, opts ...ParserOpt) (T, error) {
	var zero T
	p := NewParser(src, opts...)
	v, err := p.NextAs(reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	if err := p.FailIfNotAtEnd(); err != nil {
		return zero, err
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	// Derived struct mappings construct *T; unwrap for a value T.
	if pt, ok := v.(*T); ok {
		return *pt, nil
	}
	rv, ok := conformValue(reflect.TypeFor[T](), v)
	if !ok {
		return zero, decodeErrorf("cannot map decoded %T to %v", v, reflect.TypeFor[T]())
	}
	return rv.Interface().(T), nil
}
