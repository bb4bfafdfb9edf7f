// Package fault normalizes fault values of unknown shape, such as recovered
// panic values and foreign error payloads, into a display string and a
// canonical error. It has no dependencies and no state.
package fault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type undefined struct{}

// Undefined marks the absence of a value. Callers that need to report
// "nothing was there at all", as opposed to an explicit nil, pass this
// marker; Message renders it as the literal string "undefined".
var Undefined = undefined{}

// Error is the canonical error for a fault value that is not itself an
// error. The message is fixed at construction so Error() can never fail,
// and the original value is retained for diagnostics.
type Error struct {
	Value   any
	Message string
}

func (e *Error) Error() string { return e.Message }

// SerializationError reports a value the structural encoder cannot
// represent; a structure containing a reference cycle back to itself is the
// canonical case. Message panics with it instead of returning it: an
// unencodable fault value is a defect in the caller, not an expected
// failure, so it deliberately escapes the capture machinery in pkg/result.
type SerializationError struct {
	Value any
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("fault: cannot serialize value: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Message deterministically maps any fault value to a human-readable string:
//
//   - Undefined yields "undefined" and nil yields "null"
//   - a string is returned unchanged
//   - an error yields its message
//   - a NaN float yields "null", the value NaN serializes to in JSON
//     (intentional; consumers depend on it, do not "fix")
//   - everything else is encoded as compact JSON, struct fields in
//     declaration order, map keys in the encoder's deterministic sorted order
//
// Message panics with *SerializationError when the final branch meets a
// value encoding/json cannot handle, cycles included.
func Message(v any) string {
	switch x := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return x
	case error:
		return x.Error()
	case float64:
		if math.IsNaN(x) {
			return "null"
		}
	case float32:
		if math.IsNaN(float64(x)) {
			return "null"
		}
	}
	return encode(v)
}

// From converts a fault value to the canonical error form: an error is
// returned as-is, anything else becomes a *Error carrying Message(v). The
// only failure path is the one From inherits from Message.
func From(v any) error {
	if err, ok := v.(error); ok {
		return err
	}
	return &Error{Value: v, Message: Message(v)}
}

func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		panic(&SerializationError{Value: v, Err: err})
	}
	// Encode appends a newline the compact form does not want.
	return strings.TrimSuffix(buf.String(), "\n")
}
