package flux

import (
	"fmt"
	"reflect"
	"strconv"
)

// Values is the bag of resolved port values passed in and out of node
// behaviors, keyed by port name.
type Values map[string]any

// Get returns the raw value for a port name and whether it is present.
func (v Values) Get(name string) (any, bool) {
	val, ok := v[name]
	return val, ok
}

// Bool returns the value for name coerced to bool.
func (v Values) Bool(name string) bool {
	return Truthy(v[name])
}

// Int returns the value for name coerced to int.
func (v Values) Int(name string) int {
	return AsInt(v[name])
}

// Float returns the value for name coerced to float64.
func (v Values) Float(name string) float64 {
	return AsFloat(v[name])
}

// String returns the value for name coerced to string.
func (v Values) String(name string) string {
	return AsString(v[name])
}

// Truthy reports whether a value is truthy.
// nil is false, bools return their value, zero numbers are false,
// empty strings are false, everything else is true. This implements
// the "nonzero means true" convention used by bool/numeric wires.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case float32:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// AsFloat converts a value to float64.
// Booleans map to 0/1; unparseable values map to 0.
func AsFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsInt converts a value to int, truncating fractions.
func AsInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float32:
		return int(val)
	case float64:
		return int(val)
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		i, err := strconv.Atoi(val)
		if err != nil {
			return int(AsFloat(val))
		}
		return i
	default:
		return 0
	}
}

// AsString renders a value as a string. Everything is
// string-representable, which is what makes string wires universal.
func AsString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// AsSlice converts a value to a []any collection.
// Slices and arrays of any element type convert element-wise; nil and
// non-collection values yield nil.
func AsSlice(v any) []any {
	if v == nil {
		return nil
	}
	if s, ok := v.([]any); ok {
		return s
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

// Coerce converts a value to the declared port type.
// TypeAny, TypeObject, and unknown types pass the value through.
func Coerce(v any, t ValueType) any {
	if v == nil {
		return nil
	}
	switch t {
	case TypeBool:
		return Truthy(v)
	case TypeInt:
		return AsInt(v)
	case TypeFloat, TypeDouble:
		return AsFloat(v)
	case TypeString:
		return AsString(v)
	case TypeCollection:
		return AsSlice(v)
	default:
		return v
	}
}
