package neojson_test

import (
	"strings"
	"testing"

	"github.com/neojson/neojson"
)

func TestStringSource_PeekDoesNotConsume(t *testing.T) {
	s := neojson.StringSource("ab")
	if got := s.Peek(); got != 'a' {
		t.Fatalf("Peek = %q", got)
	}
	if got := s.Peek(); got != 'a' {
		t.Fatalf("second Peek = %q", got)
	}
	if got := s.Next(); got != 'a' {
		t.Fatalf("Next = %q", got)
	}
	if got := s.Next(); got != 'b' {
		t.Fatalf("Next = %q", got)
	}
	if !s.AtEnd() {
		t.Fatal("expected AtEnd")
	}
	if got := s.Next(); got != neojson.EOF {
		t.Fatalf("Next past end = %q, want EOF", got)
	}
}

func TestStringSource_MultibyteRunes(t *testing.T) {
	s := neojson.StringSource("é𝄞")
	if got := s.Next(); got != 'é' {
		t.Fatalf("Next = %q", got)
	}
	if got := s.Next(); got != '𝄞' {
		t.Fatalf("Next = %q", got)
	}
	if !s.AtEnd() {
		t.Fatal("expected AtEnd")
	}
}

func TestStringSource_LocationCountsRunes(t *testing.T) {
	s := neojson.StringSource("é𝄞x")
	s.Next()
	s.Next()
	if got := s.Location(); got != 2 {
		t.Fatalf("Location = %d, want 2", got)
	}
}

func TestReaderSource_Behaviour(t *testing.T) {
	s := neojson.ReaderSource(strings.NewReader("xy"))
	if s.AtEnd() {
		t.Fatal("not at end yet")
	}
	if got := s.Peek(); got != 'x' {
		t.Fatalf("Peek = %q", got)
	}
	if got := s.Next(); got != 'x' {
		t.Fatalf("Next = %q", got)
	}
	if got := s.Next(); got != 'y' {
		t.Fatalf("Next = %q", got)
	}
	if !s.AtEnd() {
		t.Fatal("expected AtEnd")
	}
	if got := s.Next(); got != neojson.EOF {
		t.Fatalf("Next past end = %q, want EOF", got)
	}
}

func TestBytesSource(t *testing.T) {
	v, err := neojson.Parse(neojson.BytesSource([]byte(`"café"`)))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v != "café" {
		t.Errorf("got %q", v)
	}
}
