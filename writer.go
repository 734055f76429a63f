package neojson

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// WriterOpt bundles writer configuration. The zero value renders compact
// output and resolves mapped types through the package-level registry.
type WriterOpt struct {
	// Indent enables pretty printing with the given unit of indentation.
	Indent string
	// Registry resolves schemas for WriteAs and struct values. Defaults to
	// DefaultRegistry().
	Registry *Registry
}

// Writer renders values as JSON text. It is the symmetric collaborator of
// the Parser: generic containers render directly, mapped types render
// through the same descriptors the read side uses. Write errors latch; the
// first one is returned from every subsequent call.
type Writer struct {
	w     *bufio.Writer
	opt   WriterOpt
	depth int
	err   error
}

// NewWriter returns a Writer emitting to w. When several opts are given, the
// last one wins.
func NewWriter(w io.Writer, opts ...WriterOpt) *Writer {
	var opt WriterOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Registry == nil {
		opt.Registry = DefaultRegistry()
	}
	return &Writer{w: bufio.NewWriter(w), opt: opt}
}

// Flush writes any buffered output to the underlying io.Writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	return w.w.Flush()
}

// Encode renders v as a JSON string.
func Encode(v any, opts ...WriterOpt) (string, error) {
	var sb strings.Builder
	w := NewWriter(&sb, opts...)
	if err := w.WriteValue(v); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// EncodeAs renders v as a JSON string through the mapping registered for
// schema.
func EncodeAs(v any, schema any, opts ...WriterOpt) (string, error) {
	var sb strings.Builder
	w := NewWriter(&sb, opts...)
	if err := w.WriteAs(v, schema); err != nil {
		return "", err
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteValue renders one value. Generic containers ([]any, *Map, *Object),
// strings, bools, nil, and numeric types render directly; structs and other
// slices/maps go through the registry's derived mappings.
func (w *Writer) WriteValue(v any) error {
	if w.err != nil {
		return w.err
	}
	switch x := v.(type) {
	case nil:
		w.str("null")
	case bool:
		if x {
			w.str("true")
		} else {
			w.str("false")
		}
	case string:
		w.quoted(x)
	case int:
		w.str(strconv.FormatInt(int64(x), 10))
	case int8:
		w.str(strconv.FormatInt(int64(x), 10))
	case int16:
		w.str(strconv.FormatInt(int64(x), 10))
	case int32:
		w.str(strconv.FormatInt(int64(x), 10))
	case int64:
		w.str(strconv.FormatInt(x, 10))
	case uint:
		w.str(strconv.FormatUint(uint64(x), 10))
	case uint8:
		w.str(strconv.FormatUint(uint64(x), 10))
	case uint16:
		w.str(strconv.FormatUint(uint64(x), 10))
	case uint32:
		w.str(strconv.FormatUint(uint64(x), 10))
	case uint64:
		w.str(strconv.FormatUint(x, 10))
	case float32:
		w.str(formatFloat(float64(x)))
	case float64:
		w.str(formatFloat(x))
	case []any:
		w.open('[')
		for i, el := range x {
			w.comma(i)
			if err := w.WriteValue(el); err != nil {
				return err
			}
		}
		w.close(']', len(x))
	case *Map:
		return w.writePairs(x.keys, x.index)
	case *Object:
		return w.writePairs(x.m.keys, x.m.index)
	default:
		return w.writeReflected(v)
	}
	return w.err
}

// WriteAs renders v through the mapping registered for schema. A nil schema
// behaves like WriteValue.
func (w *Writer) WriteAs(v any, schema any) error {
	if w.err != nil {
		return w.err
	}
	if schema == nil {
		return w.WriteValue(v)
	}
	m, err := w.opt.Registry.MappingFor(schema)
	if err != nil {
		w.err = err
		return err
	}
	if err := m.WriteInstanceTo(w, v); err != nil {
		if w.err == nil {
			w.err = err
		}
		return err
	}
	return w.err
}

func (w *Writer) writePairs(keys []string, index map[string]any) error {
	w.open('{')
	for i, k := range keys {
		w.comma(i)
		w.key(k)
		if err := w.WriteValue(index[k]); err != nil {
			return err
		}
	}
	w.close('}', len(keys))
	return w.err
}

func (w *Writer) writeReflected(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return w.WriteValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.WriteValue(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return w.WriteValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return w.WriteValue(rv.Float())
	case reflect.String:
		return w.WriteValue(rv.String())
	case reflect.Slice, reflect.Array:
		w.open('[')
		for i := 0; i < rv.Len(); i++ {
			w.comma(i)
			if err := w.WriteValue(rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		w.close(']', rv.Len())
		return w.err
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			w.err = fmt.Errorf("neojson: cannot render %T as JSON", v)
			return w.err
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
			if err := w.WriteValue(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()); err != nil {
				return err
			}
		}
		w.close('}', len(keys))
		return w.err
	case reflect.Pointer:
		if rv.IsNil() {
			w.str("null")
			return w.err
		}
		if rv.Type().Elem().Kind() == reflect.Struct {
			return w.WriteAs(v, rv.Type())
		}
		return w.WriteValue(rv.Elem().Interface())
	case reflect.Struct:
		return w.WriteAs(v, rv.Type())
	default:
		w.err = fmt.Errorf("neojson: cannot render %T as JSON", v)
		return w.err
	}
}

// ---- low-level emission ----

func (w *Writer) str(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.WriteString(s)
}

func (w *Writer) open(c byte) {
	if w.err != nil {
		return
	}
	w.err = w.w.WriteByte(c)
	w.depth++
}

// comma separates elements; i is the element index within the container. It
// also emits the indentation of the element about to be written.
func (w *Writer) comma(i int) {
	if w.err != nil {
		return
	}
	if i > 0 {
		w.err = w.w.WriteByte(',')
	}
	w.newlineIndent(w.depth)
}

func (w *Writer) close(c byte, n int) {
	w.depth--
	if n > 0 {
		w.newlineIndent(w.depth)
	}
	if w.err != nil {
		return
	}
	w.err = w.w.WriteByte(c)
}

func (w *Writer) key(k string) {
	w.quoted(k)
	w.str(":")
	if w.opt.Indent != "" {
		w.str(" ")
	}
}

func (w *Writer) newlineIndent(depth int) {
	if w.opt.Indent == "" || w.err != nil {
		return
	}
	w.str("\n")
	for i := 0; i < depth; i++ {
		w.str(w.opt.Indent)
	}
}

func (w *Writer) quoted(s string) {
	if w.err != nil {
		return
	}
	w.w.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			w.w.WriteString(`\"`)
		case '\\':
			w.w.WriteString(`\\`)
		case '\b':
			w.w.WriteString(`\b`)
		case '\f':
			w.w.WriteString(`\f`)
		case '\n':
			w.w.WriteString(`\n`)
		case '\r':
			w.w.WriteString(`\r`)
		case '\t':
			w.w.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(w.w, `\u%04x`, r)
			} else {
				w.w.WriteRune(r)
			}
		}
	}
	w.err = w.w.WriteByte('"')
}

// formatFloat keeps a fraction or exponent marker in the output so an
// integral float64 re-parses as a float, not an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
