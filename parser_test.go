package neojson_test

import (
	"math"
	"strings"
	"testing"

	"github.com/neojson/neojson"
)

func TestParse_Scalars(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{`null`, nil},
		{`true`, true},
		{`false`, false},
		{`0`, int64(0)},
		{`-2`, int64(-2)},
		{`123456789`, int64(123456789)},
		{`"hello"`, "hello"},
		{`""`, ""},
		{`  42  `, int64(42)},
	}
	for _, tc := range cases {
		got, err := neojson.ParseString(tc.in)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseString(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

func TestParse_Floats(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{`3.14159`, 3.14159},
		{`-0.5`, -0.5},
		{`1e3`, 1000},
		{`1E3`, 1000},
		{`2.5e-2`, 0.025},
		{`12.5e2`, 1250},
		{`1e+2`, 100},
		{`1e308`, 1e308},
		{`1e-308`, 1e-308},
	}
	for _, tc := range cases {
		got, err := neojson.ParseString(tc.in)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", tc.in, err)
		}
		f, ok := got.(float64)
		if !ok {
			t.Fatalf("ParseString(%q) = %T, want float64", tc.in, got)
		}
		if math.Abs(f-tc.want) > math.Abs(tc.want)*1e-15 {
			t.Errorf("ParseString(%q) = %v, want %v", tc.in, f, tc.want)
		}
	}
}

func TestParse_BigIntegerEscalatesToFloat(t *testing.T) {
	got, err := neojson.ParseString(`123456789012345678901234567890`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := got.(float64)
	if !ok {
		t.Fatalf("got %T, want float64", got)
	}
	if math.Abs(f-1.2345678901234568e29) > 1e16 {
		t.Errorf("got %v", f)
	}
}

func TestParse_NumberErrors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`1e400`, "number exponent too large"},
		{`1e-400`, "number exponent too small"},
		{`1e`, "number exponent expected"},
		{`1e+`, "number exponent expected"},
		{`-`, "digit expected"},
		{`1.`, "digit expected"},
	}
	for _, tc := range cases {
		_, err := neojson.ParseString(tc.in)
		if err == nil {
			t.Fatalf("ParseString(%q): expected error", tc.in)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("ParseString(%q) error = %q, want substring %q", tc.in, err, tc.want)
		}
	}
}

func TestParse_StringEscapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"a\"b"`, `a"b`},
		{`"a\\b"`, `a\b`},
		{`"a\/b"`, `a/b`},
		{`"\b\f\n\r\t"`, "\b\f\n\r\t"},
		{`"A"`, "A"},
		{`"é"`, "é"},
		{`"é"`, "é"},
		{`"€"`, "€"},
		{`"𝄞"`, "\U0001D11E"},
		{`"naïve ünïcode"`, "naïve ünïcode"},
	}
	for _, tc := range cases {
		got, err := neojson.ParseString(tc.in)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseString(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParse_SurrogatePairYieldsSingleCodepoint(t *testing.T) {
	// the escape pair and the literal glyph decode to the same single rune
	for _, in := range []string{`"𝄞"`, `"𝄞"`} {
		got, err := neojson.ParseString(in)
		if err != nil {
			t.Fatalf("ParseString(%q): %v", in, err)
		}
		runes := []rune(got.(string))
		if len(runes) != 1 || runes[0] != 0x1D11E {
			t.Errorf("ParseString(%q) = %U, want single U+1D11E", in, runes)
		}
	}
}

func TestParse_StringErrors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`"abc`, "unterminated string"},
		{`"a\`, "escape character expected"},
		{`"\x"`, "invalid escape character"},
		{`"\u00"`, "hex digit expected"},
		{`"\u00zz"`, "hex digit expected"},
		{`"\uD834"`, "low surrogate escape expected"},
		{`"\uD834x"`, "low surrogate escape expected"},
		{`"\uD834\uD834"`, "low surrogate expected"},
		{`"\uD834\n"`, "low surrogate escape expected"},
	}
	for _, tc := range cases {
		_, err := neojson.ParseString(tc.in)
		if err == nil {
			t.Fatalf("ParseString(%q): expected error", tc.in)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("ParseString(%q) error = %q, want substring %q", tc.in, err, tc.want)
		}
	}
}

func TestParse_Lists(t *testing.T) {
	got, err := neojson.ParseString(`[1, 2, 3]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list, ok := got.([]any)
	if !ok {
		t.Fatalf("got %T, want []any", got)
	}
	want := []any{int64(1), int64(2), int64(3)}
	if len(list) != len(want) {
		t.Fatalf("got %v, want %v", list, want)
	}
	for i := range want {
		if list[i] != want[i] {
			t.Errorf("element %d = %#v, want %#v", i, list[i], want[i])
		}
	}
}

func TestParse_EmptyContainers(t *testing.T) {
	if got, err := neojson.ParseString(`[]`); err != nil || len(got.([]any)) != 0 {
		t.Fatalf("[]: got %v, %v", got, err)
	}
	got, err := neojson.ParseString(`{}`)
	if err != nil {
		t.Fatalf("{}: %v", err)
	}
	if m := got.(*neojson.Map); m.Len() != 0 {
		t.Fatalf("{}: got %v", m)
	}
}

func TestParse_MapPreservesKeyOrder(t *testing.T) {
	got, err := neojson.ParseString(`{"zebra":1,"apple":2,"mango":3}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := got.(*neojson.Map)
	want := []string{"zebra", "apple", "mango"}
	keys := m.Keys()
	if len(keys) != len(want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, keys[i], want[i])
		}
	}
}

func TestParse_StructuralErrors(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`[1,2,`, "incomplete list"},
		{`[1,2`, "incomplete list"},
		{`[`, "incomplete list"},
		{`{"a":1,`, "incomplete map"},
		{`{"a":1`, "incomplete map"},
		{`{1:2}`, "string key expected"},
		{`{"a" 1}`, "':' expected"},
		{`[1 2]`, "',' or ']' expected"},
		{`{"a":1 "b":2}`, "',' or '}' expected"},
		{`tru`, "true expected"},
		{`nil`, "null expected"},
		{`fals!`, "false expected"},
		{``, "value expected"},
		{`   `, "value expected"},
		{`@`, "invalid input"},
		{`1 2`, "end of input expected"},
	}
	for _, tc := range cases {
		_, err := neojson.ParseString(tc.in)
		if err == nil {
			t.Fatalf("ParseString(%q): expected error", tc.in)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Errorf("ParseString(%q) error = %q, want substring %q", tc.in, err, tc.want)
		}
		if _, ok := neojson.AsDecodeError(err); !ok {
			t.Errorf("ParseString(%q) error is %T, want *DecodeError", tc.in, err)
		}
	}
}

func TestParse_Nested(t *testing.T) {
	got, err := neojson.ParseString(`{"a":[{"b":[true,[null]]}],"c":{"d":-1.5}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := got.(*neojson.Map)
	a := m.Get("a").([]any)
	inner := a[0].(*neojson.Map)
	b := inner.Get("b").([]any)
	if b[0] != true {
		t.Errorf("b[0] = %v", b[0])
	}
	if nested := b[1].([]any); nested[0] != nil {
		t.Errorf("b[1][0] = %v", nested[0])
	}
	c := m.Get("c").(*neojson.Map)
	if c.Get("d") != -1.5 {
		t.Errorf("c.d = %v", c.Get("d"))
	}
}

func TestParser_NextLeavesRemainderReadable(t *testing.T) {
	p := neojson.NewParser(neojson.StringSource(`1 2 3`))
	for _, want := range []int64{1, 2, 3} {
		got, err := p.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != want {
			t.Errorf("Next = %v, want %v", got, want)
		}
	}
	if err := p.FailIfNotAtEnd(); err != nil {
		t.Errorf("FailIfNotAtEnd after last value: %v", err)
	}
}

func TestParser_ParseListDoStreams(t *testing.T) {
	p := neojson.NewParser(neojson.StringSource(`[1,2,3,4]`))
	var sum int64
	err := p.ParseListDo(func() error {
		v, err := p.Next()
		if err != nil {
			return err
		}
		sum += v.(int64)
		return nil
	})
	if err != nil {
		t.Fatalf("ParseListDo: %v", err)
	}
	if sum != 10 {
		t.Errorf("sum = %d, want 10", sum)
	}
}

func TestParser_ParseMapKeysDoStreams(t *testing.T) {
	p := neojson.NewParser(neojson.StringSource(`{"a":1,"b":2}`))
	seen := map[string]int64{}
	err := p.ParseMapKeysDo(func(key string) error {
		v, err := p.Next()
		if err != nil {
			return err
		}
		seen[key] = v.(int64)
		return nil
	})
	if err != nil {
		t.Fatalf("ParseMapKeysDo: %v", err)
	}
	if seen["a"] != 1 || seen["b"] != 2 {
		t.Errorf("seen = %v", seen)
	}
}

func TestParse_ReaderSource(t *testing.T) {
	got, err := neojson.ParseReader(strings.NewReader(`{"k": [1, "two"]}`))
	if err != nil {
		t.Fatalf("ParseReader: %v", err)
	}
	m := got.(*neojson.Map)
	list := m.Get("k").([]any)
	if list[0] != int64(1) || list[1] != "two" {
		t.Errorf("got %v", list)
	}
}

func TestParse_InternKeys(t *testing.T) {
	got, err := neojson.ParseString(`[{"id":1},{"id":2}]`, neojson.ParserOpt{InternKeys: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	list := got.([]any)
	if list[0].(*neojson.Map).Get("id") != int64(1) || list[1].(*neojson.Map).Get("id") != int64(2) {
		t.Errorf("got %v", list)
	}
}

func TestParse_ErrorCarriesOffset(t *testing.T) {
	_, err := neojson.ParseString(`[1, 2, oops]`)
	de, ok := neojson.AsDecodeError(err)
	if !ok {
		t.Fatalf("expected DecodeError, got %v", err)
	}
	if de.Offset <= 0 {
		t.Errorf("offset = %d, want > 0", de.Offset)
	}
}
