package clap

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Converter turns one token into a typed value.
//
// Returning a *TypeError produces the "invalid <type> value" message; any
// other error is reported with its own text.
type Converter func(string) (any, error)

// TypeError reports a token that is not a valid value of the named type.
type TypeError struct {
	Type  string
	Value string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("invalid %s value: '%s'", e.Type, e.Value)
}

// IntType parses integers; 0x, 0o and 0b prefixes are accepted.
func IntType(s string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 0, 0)
	if err != nil {
		return nil, &TypeError{Type: "int", Value: s}
	}
	return int(n), nil
}

// FloatType parses float64 values.
func FloatType(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, &TypeError{Type: "float", Value: s}
	}
	return f, nil
}

// BoolType parses 1/0, t/f, true/false in any case.
func BoolType(s string) (any, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, &TypeError{Type: "bool", Value: s}
	}
	return b, nil
}

// DurationType parses time.Duration values such as "1m30s".
func DurationType(s string) (any, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return nil, &TypeError{Type: "duration", Value: s}
	}
	return d, nil
}

// convert applies the spec's converter to one token.
func (s *Spec) convert(tok string) (any, error) {
	if s.converter == nil {
		return tok, nil
	}
	v, err := s.converter(tok)
	if err == nil {
		return v, nil
	}

	msg := err.Error()
	var te *TypeError
	if errors.As(err, &te) {
		msg = te.Error()
	}
	e := argumentError(ErrorTypeInvalidValue, s, "%s", msg)
	e.Tokens = []string{tok}
	e.Cause = err
	return nil, e
}

// check validates v against the spec's choices.
func (s *Spec) check(v any) error {
	if len(s.choices) == 0 {
		return nil
	}
	for _, c := range s.choices {
		if equalValues(c, v) {
			return nil
		}
	}
	e := argumentError(ErrorTypeInvalidValue, s, "invalid choice: '%v' (choose from %s)", v, s.choiceList())
	e.Tokens = []string{fmt.Sprint(v)}
	e.Candidates = s.choiceStrings()
	return e
}

func (s *Spec) choiceStrings() []string {
	out := make([]string, len(s.choices))
	for i, c := range s.choices {
		out[i] = fmt.Sprint(c)
	}
	return out
}

func (s *Spec) choiceList() string {
	parts := s.choiceStrings()
	for i, p := range parts {
		parts[i] = "'" + p + "'"
	}
	return strings.Join(parts, ", ")
}

// equalValues compares two choice values without panicking on
// non-comparable dynamic types.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// converterName identifies a converter function for declaration signatures.
// The source position of the function body is used; symbol names differ
// between inlined copies of the same closure.
func converterName(c Converter) string {
	if c == nil {
		return ""
	}
	fn := runtime.FuncForPC(reflect.ValueOf(c).Pointer())
	if fn == nil {
		return "<func>"
	}
	file, line := fn.FileLine(fn.Entry())
	return file + ":" + strconv.Itoa(line)
}
