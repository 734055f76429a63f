package neojson

import (
	"errors"
	"fmt"
)

// DecodeError is the single error kind raised for malformed input, whether
// during parsing or mapping. Offset records the rune position in the source
// when known (-1 otherwise).
type DecodeError struct {
	Msg    string
	Offset int64
}

func (e *DecodeError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("neojson: %s at %d", e.Msg, e.Offset)
	}
	return "neojson: " + e.Msg
}

// AsDecodeError extracts a *DecodeError from an error using errors.As
// internally.
func AsDecodeError(err error) (*DecodeError, bool) {
	if err == nil {
		return nil, false
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// decodeErrorf builds a DecodeError with no position information. The Parser
// attaches offsets via its own error helper.
func decodeErrorf(format string, args ...any) *DecodeError {
	return &DecodeError{Msg: fmt.Sprintf(format, args...), Offset: -1}
}
