package clap

import (
	"fmt"
	"reflect"
	"slices"
	"time"
)

// Value is the value bound to one declaration.
type Value struct {
	raw  any
	help bool
}

// Any returns the bound value as is.
func (v Value) Any() any { return v.raw }

// IsNil reports whether nothing was bound and the default is nil.
func (v Value) IsNil() bool { return v.raw == nil }

// HelpRequested reports whether help was asked for instead of a value. The
// raw value is then the one set with WithReturnOnHelp.
func (v Value) HelpRequested() bool { return v.help }

// String returns a string value, or its fmt rendering; "" when nil.
func (v Value) String() string {
	switch t := v.raw.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Strings returns a list value as strings. A single value becomes a one
// element list.
func (v Value) Strings() []string {
	switch t := v.raw.(type) {
	case nil:
		return nil
	case []string:
		return t
	case string:
		return []string{t}
	}
	list := anyList(v.raw)
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = fmt.Sprint(e)
	}
	return out
}

// Int returns an int value, 0 for anything else. Counters start at nil, so an
// absent count reads as 0.
func (v Value) Int() int {
	switch t := v.raw.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case int32:
		return int(t)
	default:
		return 0
	}
}

// Ints returns a list of ints, skipping elements of other types.
func (v Value) Ints() []int {
	if t, ok := v.raw.([]int); ok {
		return t
	}
	var out []int
	for _, e := range anyList(v.raw) {
		if n, ok := e.(int); ok {
			out = append(out, n)
		}
	}
	return out
}

// Bool returns a bool value, false for anything else.
func (v Value) Bool() bool {
	b, _ := v.raw.(bool)
	return b
}

// Float returns a float64 value; ints are widened.
func (v Value) Float() float64 {
	switch t := v.raw.(type) {
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	default:
		return 0
	}
}

// Duration returns a time.Duration value, 0 for anything else.
func (v Value) Duration() time.Duration {
	d, _ := v.raw.(time.Duration)
	return d
}

// As returns the bound value as T.
func As[T any](v Value) (T, bool) {
	t, ok := v.raw.(T)
	return t, ok
}

// cloneValue copies list values, nested lists included, so a Value never
// shares storage with the namespace or the value cache.
func cloneValue(v any) any {
	if t, ok := v.([]string); ok {
		return slices.Clone(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.IsNil() {
		return v
	}
	out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
	reflect.Copy(out, rv)
	for i := 0; i < out.Len(); i++ {
		slot := out.Index(i)
		inner := slot
		if inner.Kind() == reflect.Interface {
			inner = inner.Elem()
		}
		if inner.Kind() == reflect.Slice && !inner.IsNil() {
			slot.Set(reflect.ValueOf(cloneValue(inner.Interface())))
		}
	}
	return out.Interface()
}
