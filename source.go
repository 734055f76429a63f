package neojson

import (
	"bufio"
	"io"
	"unicode/utf8"
)

// EOF is the end-marker rune reported by a Source once input is exhausted.
const EOF rune = -1

// Source abstracts over polymorphic character input. The parser never seeks
// backward; every try-without-consume decision is made by peeking. Location
// reports the rune offset of the next unread character (-1 if unknown) and
// exists only so decode errors can carry a position.
type Source interface {
	Next() rune
	Peek() rune
	AtEnd() bool
	Location() int64
}

// StringSource wraps a string as a Source.
func StringSource(s string) Source { return &stringSource{s: s} }

// BytesSource wraps a UTF-8 byte slice as a Source.
func BytesSource(b []byte) Source { return &stringSource{s: string(b)} }

// ReaderSource wraps an io.Reader as a Source. Reads are buffered; a parse
// over a slow reader blocks until characters arrive or the reader reports
// EOF. Closing the underlying reader, when it is an io.Closer, remains the
// caller's responsibility.
func ReaderSource(r io.Reader) Source { return &readerSource{r: bufio.NewReader(r)} }

type stringSource struct {
	s   string
	i   int   // byte index
	loc int64 // rune offset
}

func (s *stringSource) Next() rune {
	if s.i >= len(s.s) {
		return EOF
	}
	r, size := utf8.DecodeRuneInString(s.s[s.i:])
	s.i += size
	s.loc++
	return r
}

func (s *stringSource) Peek() rune {
	if s.i >= len(s.s) {
		return EOF
	}
	r, _ := utf8.DecodeRuneInString(s.s[s.i:])
	return r
}

func (s *stringSource) AtEnd() bool     { return s.i >= len(s.s) }
func (s *stringSource) Location() int64 { return s.loc }

type readerSource struct {
	r       *bufio.Reader
	peeked  rune
	hasPeek bool
	loc     int64
}

func (s *readerSource) Next() rune {
	if s.hasPeek {
		s.hasPeek = false
		if s.peeked == EOF {
			return EOF
		}
		s.loc++
		return s.peeked
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		return EOF
	}
	s.loc++
	return r
}

func (s *readerSource) Peek() rune {
	if s.hasPeek {
		return s.peeked
	}
	r, _, err := s.r.ReadRune()
	if err != nil {
		s.peeked = EOF
	} else {
		s.peeked = r
	}
	s.hasPeek = true
	return s.peeked
}

func (s *readerSource) AtEnd() bool { return s.Peek() == EOF }

func (s *readerSource) Location() int64 { return s.loc }
