package neojson

import (
	"math"
	"unicode/utf8"
)

// Parser is a recursive-descent JSON parser over a Source. It produces
// generic containers via Next, or application types via NextAs and the
// mapping registry. A Parser is single-use state over one source and must
// not be shared across goroutines: the string scratch buffer is reused
// between string decodes.
type Parser struct {
	src      Source
	opt      ParserOpt
	buf      []byte // scratch for string decoding, reset per decode
	interned map[string]string
}

// NewParser returns a Parser reading from src. When several opts are given,
// the last one wins.
func NewParser(src Source, opts ...ParserOpt) *Parser {
	var opt ParserOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.NewList == nil {
		opt.NewList = defaultNewList
	}
	if opt.NewMap == nil {
		opt.NewMap = defaultNewMap
	}
	if opt.Registry == nil {
		opt.Registry = DefaultRegistry()
	}
	p := &Parser{src: src, opt: opt}
	if opt.InternKeys {
		p.interned = make(map[string]string)
	}
	return p
}

// Next parses one JSON value in generic-container form and consumes any
// trailing whitespace.
func (p *Parser) Next() (any, error) {
	p.skipWhitespace()
	return p.parseValue()
}

// NextAs parses one JSON value through the mapping registered for schema. A
// nil schema behaves like Next.
func (p *Parser) NextAs(schema any) (any, error) {
	if schema == nil {
		return p.Next()
	}
	m, err := p.opt.Registry.MappingFor(schema)
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	// null reads as nil for any schema.
	if p.src.Peek() == 'n' {
		if _, err := p.parseLiteral("null", nil); err != nil {
			return nil, err
		}
		p.skipWhitespace()
		return nil, nil
	}
	return m.ReadInstanceFrom(p)
}

// FailIfNotAtEnd returns a DecodeError when unconsumed input remains.
func (p *Parser) FailIfNotAtEnd() error {
	if !p.src.AtEnd() {
		return p.errorf("end of input expected")
	}
	return nil
}

func (p *Parser) errorf(format string, args ...any) *DecodeError {
	e := decodeErrorf(format, args...)
	e.Offset = p.src.Location()
	return e
}

func (p *Parser) skipWhitespace() {
	for {
		switch p.src.Peek() {
		case ' ', '\t', '\n', '\r':
			p.src.Next()
		default:
			return
		}
	}
}

// parseValue consumes exactly one JSON value plus any trailing whitespace.
// Leading whitespace must already be consumed by the caller.
func (p *Parser) parseValue() (any, error) {
	var v any
	var err error
	switch c := p.src.Peek(); {
	case c == EOF:
		return nil, p.errorf("value expected")
	case c == '"':
		v, err = p.parseString()
	case c == '[':
		return p.parseList()
	case c == '{':
		return p.parseMap()
	case c == 't':
		v, err = p.parseLiteral("true", true)
	case c == 'f':
		v, err = p.parseLiteral("false", false)
	case c == 'n':
		v, err = p.parseLiteral("null", nil)
	case c == '-' || isDigit(c):
		v, err = p.parseNumber()
	default:
		return nil, p.errorf("invalid input %q", c)
	}
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()
	return v, nil
}

// parseLiteral matches lit character by character. A failed match may leave
// part of lit consumed; the error aborts the whole decode anyway.
func (p *Parser) parseLiteral(lit string, v any) (any, error) {
	for _, c := range lit {
		if p.src.Next() != c {
			return nil, p.errorf("%s expected", lit)
		}
	}
	return v, nil
}

// ParseListDo consumes a JSON list, invoking element once per element. The
// callback must itself read the element from the parser (typically via Next
// or NextAs), which lets callers build arbitrary targets without an
// intermediate container.
func (p *Parser) ParseListDo(element func() error) error {
	p.skipWhitespace()
	if p.src.Next() != '[' {
		return p.errorf("'[' expected")
	}
	p.skipWhitespace()
	if p.src.Peek() == ']' {
		p.src.Next()
		p.skipWhitespace()
		return nil
	}
	for {
		if p.src.AtEnd() {
			return p.errorf("incomplete list")
		}
		if err := element(); err != nil {
			return err
		}
		switch p.src.Next() {
		case ',':
			p.skipWhitespace()
		case ']':
			p.skipWhitespace()
			return nil
		case EOF:
			return p.errorf("incomplete list")
		default:
			return p.errorf("',' or ']' expected")
		}
	}
}

// ParseMapKeysDo consumes a JSON map, invoking pair with each key. The
// callback must read the key's value from the parser before returning. Keys
// are parsed as JSON values and must be strings.
func (p *Parser) ParseMapKeysDo(pair func(key string) error) error {
	p.skipWhitespace()
	if p.src.Next() != '{' {
		return p.errorf("'{' expected")
	}
	p.skipWhitespace()
	if p.src.Peek() == '}' {
		p.src.Next()
		p.skipWhitespace()
		return nil
	}
	for {
		if p.src.AtEnd() {
			return p.errorf("incomplete map")
		}
		keyValue, err := p.parseValue()
		if err != nil {
			return err
		}
		key, ok := keyValue.(string)
		if !ok {
			return p.errorf("string key expected")
		}
		if p.interned != nil {
			key = p.intern(key)
		}
		if p.src.Next() != ':' {
			return p.errorf("':' expected")
		}
		p.skipWhitespace()
		if err := pair(key); err != nil {
			return err
		}
		switch p.src.Next() {
		case ',':
			p.skipWhitespace()
		case '}':
			p.skipWhitespace()
			return nil
		case EOF:
			return p.errorf("incomplete map")
		default:
			return p.errorf("',' or '}' expected")
		}
	}
}

func (p *Parser) parseList() (any, error) {
	list := p.opt.NewList()
	err := p.ParseListDo(func() error {
		v, err := p.parseValue()
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

func (p *Parser) parseMap() (any, error) {
	m := p.opt.NewMap()
	err := p.ParseMapKeysDo(func(key string) error {
		v, err := p.parseValue()
		if err != nil {
			return err
		}
		m.Set(key, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m.Interface(), nil
}

func (p *Parser) intern(s string) string {
	if v, ok := p.interned[s]; ok {
		return v
	}
	p.interned[s] = s
	return s
}

// ---- strings ----

func (p *Parser) parseString() (string, error) {
	if p.src.Next() != '"' {
		return "", p.errorf(`'"' expected`)
	}
	p.buf = p.buf[:0]
	for {
		switch c := p.src.Next(); c {
		case EOF:
			return "", p.errorf("unterminated string")
		case '"':
			return string(p.buf), nil
		case '\\':
			r, err := p.parseEscape()
			if err != nil {
				return "", err
			}
			p.buf = utf8.AppendRune(p.buf, r)
		default:
			p.buf = utf8.AppendRune(p.buf, c)
		}
	}
}

func (p *Parser) parseEscape() (rune, error) {
	switch c := p.src.Next(); c {
	case '"', '\\', '/':
		return c, nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'u':
		return p.parseUnicodeEscape()
	case EOF:
		return 0, p.errorf("escape character expected")
	default:
		return 0, p.errorf("invalid escape character %q", c)
	}
}

func (p *Parser) parseUnicodeEscape() (rune, error) {
	u, err := p.parseHex4()
	if err != nil {
		return 0, err
	}
	if u >= 0xD800 && u <= 0xDBFF {
		// UTF-16 high surrogate: the paired low-surrogate escape must follow
		// immediately.
		if p.src.Next() != '\\' || p.src.Next() != 'u' {
			return 0, p.errorf("low surrogate escape expected")
		}
		low, err := p.parseHex4()
		if err != nil {
			return 0, err
		}
		if low < 0xDC00 || low > 0xDFFF {
			return 0, p.errorf("low surrogate expected")
		}
		return rune(0x10000 + (u-0xD800)<<10 + (low - 0xDC00)), nil
	}
	return rune(u), nil
}

func (p *Parser) parseHex4() (int, error) {
	u := 0
	for i := 0; i < 4; i++ {
		d := hexDigit(p.src.Next())
		if d < 0 {
			return 0, p.errorf("hex digit expected")
		}
		u = u<<4 | d
	}
	return u, nil
}

func hexDigit(c rune) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	default:
		return -1
	}
}

func isDigit(c rune) bool { return c >= '0' && c <= '9' }

// ---- numbers ----

// maxExponent bounds the decimal exponent against the float64 range. The
// check happens before exponentiation so that out-of-range input fails
// deterministically instead of rounding to ±Inf or 0.
const maxExponent = 308

// parseNumber decodes a number digit by digit rather than through
// strconv, so the semantics are exactly: optional sign, integer part as
// repeated 10*acc+digit, fractional part divided by 10^digits, signed
// integer exponent applied last. A plain integer decodes as int64
// (escalating to float64 on overflow); anything with a fraction or exponent
// decodes as float64.
func (p *Parser) parseNumber() (any, error) {
	negated := false
	if p.src.Peek() == '-' {
		p.src.Next()
		negated = true
	}
	if !isDigit(p.src.Peek()) {
		return nil, p.errorf("digit expected")
	}
	var acc int64
	var facc float64
	big := false
	for isDigit(p.src.Peek()) {
		d := int64(p.src.Next() - '0')
		if big {
			facc = facc*10 + float64(d)
			continue
		}
		if acc > (math.MaxInt64-d)/10 {
			big = true
			facc = float64(acc)*10 + float64(d)
			continue
		}
		acc = acc*10 + d
	}

	var frac float64
	hasFrac := false
	if p.src.Peek() == '.' {
		p.src.Next()
		if !isDigit(p.src.Peek()) {
			return nil, p.errorf("digit expected")
		}
		hasFrac = true
		digits := 0
		for isDigit(p.src.Peek()) {
			frac = frac*10 + float64(p.src.Next()-'0')
			digits++
		}
		frac /= math.Pow(10, float64(digits))
	}

	exp := 0
	hasExp := false
	if c := p.src.Peek(); c == 'e' || c == 'E' {
		p.src.Next()
		hasExp = true
		expNegated := false
		switch p.src.Peek() {
		case '-':
			p.src.Next()
			expNegated = true
		case '+':
			p.src.Next()
		}
		if !isDigit(p.src.Peek()) {
			return nil, p.errorf("number exponent expected")
		}
		for isDigit(p.src.Peek()) {
			d := int(p.src.Next() - '0')
			if exp <= maxExponent*10 {
				exp = exp*10 + d
			}
		}
		if expNegated {
			exp = -exp
		}
		if exp > maxExponent {
			return nil, p.errorf("number exponent too large")
		}
		if exp < -maxExponent {
			return nil, p.errorf("number exponent too small")
		}
	}

	if !hasFrac && !hasExp && !big {
		if negated {
			return -acc, nil
		}
		return acc, nil
	}
	f := facc
	if !big {
		f = float64(acc)
	}
	f = (f + frac) * math.Pow10(exp)
	if negated {
		f = -f
	}
	return f, nil
}
