package fault

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected string
	}{
		{
			name:     "undefined marker",
			value:    Undefined,
			expected: "undefined",
		},
		{
			name:     "nil",
			value:    nil,
			expected: "null",
		},
		{
			name:     "plain string unchanged",
			value:    "something went wrong",
			expected: "something went wrong",
		},
		{
			name:     "empty string unchanged",
			value:    "",
			expected: "",
		},
		{
			name:     "json-looking string is not re-encoded",
			value:    `{"code":500}`,
			expected: `{"code":500}`,
		},
		{
			name:     "error uses its message",
			value:    errors.New("token expired"),
			expected: "token expired",
		},
		{
			name:     "float64 NaN",
			value:    math.NaN(),
			expected: "null",
		},
		{
			name:     "float32 NaN",
			value:    float32(math.NaN()),
			expected: "null",
		},
		{
			name:     "finite float",
			value:    1.5,
			expected: "1.5",
		},
		{
			name:     "int",
			value:    404,
			expected: "404",
		},
		{
			name:     "bool",
			value:    true,
			expected: "true",
		},
		{
			name:     "map is serialized with sorted keys",
			value:    map[string]any{"b": 2, "a": 1},
			expected: `{"a":1,"b":2}`,
		},
		{
			name:     "slice",
			value:    []int{1, 2, 3},
			expected: "[1,2,3]",
		},
		{
			name:     "nested structure",
			value:    map[string]any{"items": []any{1, "two", nil}},
			expected: `{"items":[1,"two",null]}`,
		},
		{
			name: "struct fields keep declaration order",
			value: struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			}{Name: "session", Count: 2},
			expected: `{"name":"session","count":2}`,
		},
		{
			name:     "html characters are not escaped",
			value:    map[string]string{"html": "<b>&</b>"},
			expected: `{"html":"<b>&</b>"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Message(tt.value))
		})
	}
}

func TestMessage_UnserializableValues(t *testing.T) {
	t.Run("cyclic map panics with SerializationError", func(t *testing.T) {
		cyclic := map[string]any{}
		cyclic["self"] = cyclic

		recovered := capturePanic(t, func() { Message(cyclic) })

		serr, ok := recovered.(*SerializationError)
		require.True(t, ok, "panic value should be *SerializationError, got %T", recovered)
		assert.Equal(t, map[string]any(cyclic), serr.Value)

		var unsupported *json.UnsupportedValueError
		assert.ErrorAs(t, serr, &unsupported)
	})

	t.Run("unsupported type panics with SerializationError", func(t *testing.T) {
		ch := make(chan int)

		recovered := capturePanic(t, func() { Message(ch) })

		serr, ok := recovered.(*SerializationError)
		require.True(t, ok, "panic value should be *SerializationError, got %T", recovered)

		var unsupported *json.UnsupportedTypeError
		assert.ErrorAs(t, serr, &unsupported)
	})

	t.Run("nested NaN panics with SerializationError", func(t *testing.T) {
		recovered := capturePanic(t, func() { Message(map[string]float64{"ratio": math.NaN()}) })

		_, ok := recovered.(*SerializationError)
		require.True(t, ok, "panic value should be *SerializationError, got %T", recovered)
	})
}

func TestFrom(t *testing.T) {
	t.Run("existing error is returned unchanged", func(t *testing.T) {
		sentinel := errors.New("boom")
		assert.Same(t, sentinel, From(sentinel))
	})

	t.Run("non-error is wrapped and keeps the value", func(t *testing.T) {
		err := From(404)

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, 404, fe.Value)
		assert.Equal(t, "404", err.Error())
	})

	t.Run("nil becomes the null error", func(t *testing.T) {
		err := From(nil)

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Nil(t, fe.Value)
		assert.Equal(t, "null", err.Error())
	})

	t.Run("undefined marker becomes the undefined error", func(t *testing.T) {
		err := From(Undefined)

		var fe *Error
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "undefined", err.Error())
	})

	t.Run("structured value is serialized", func(t *testing.T) {
		err := From(map[string]any{"code": 500, "detail": "upstream"})
		assert.Equal(t, `{"code":500,"detail":"upstream"}`, err.Error())
	})
}

func TestSerializationError_Unwrap(t *testing.T) {
	cause := errors.New("encoder broke")
	serr := &SerializationError{Value: 1, Err: cause}

	assert.ErrorIs(t, serr, cause)
	assert.Contains(t, serr.Error(), "cannot serialize")
}

// capturePanic runs fn and returns the recovered panic value, failing the
// test if fn did not panic.
func capturePanic(t *testing.T, fn func()) any {
	t.Helper()
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	require.NotNil(t, recovered)
	return recovered
}
