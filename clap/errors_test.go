//nolint:testpackage // using package name 'clap' to access unexported fields for testing
package clap

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestParseErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewParseError(ErrorTypeMissingRequired, "x"))

	if !errors.Is(err, ErrMissingRequired) {
		t.Error("Expected errors.Is to match by type through wrapping")
	}
	if errors.Is(err, ErrInvalidValue) {
		t.Error("Expected errors.Is not to match a different type")
	}
}

func TestParseErrorMessages(t *testing.T) {
	spec := &Spec{optionStrings: []string{"-k", "--keyword"}, dest: "keyword", nargs: Exactly(2)}

	tests := []struct {
		name     string
		err      *ParseError
		contains []string
	}{
		{
			name:     "ambiguous",
			err:      ambiguousOptionError("--ver", []string{"--verbose", "--version"}),
			contains: []string{"ambiguous option: --ver", "--verbose, --version"},
		},
		{
			name:     "expected argument",
			err:      expectedArgumentError(spec),
			contains: []string{"argument -k/--keyword", "expected 2 arguments"},
		},
		{
			name:     "missing required",
			err:      missingRequiredError([]string{"src", "--out"}),
			contains: []string{"the following arguments are required: src, --out"},
		},
		{
			name:     "required group",
			err:      requiredGroupError([]string{"--json", "--yaml"}),
			contains: []string{"one of the arguments --json --yaml is required"},
		},
		{
			name:     "unknown subcommand",
			err:      unknownSubcommandError(spec, []string{"buidl"}, []string{"build"}, "build"),
			contains: []string{"failed to find subcommand", "did you mean build?"},
		},
		{
			name:     "ignored explicit",
			err:      ignoredExplicitError(spec, "x"),
			contains: []string{"ignored explicit argument 'x'"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("Expected %q in message, got %q", want, msg)
				}
			}
		})
	}
}

func TestParseErrorEmptyMessage(t *testing.T) {
	if got := ErrInvalidValue.Error(); got != "invalid_value" {
		t.Errorf("Expected the type as message, got %q", got)
	}
}

func TestNotAllowedWithNamesBoth(t *testing.T) {
	a := &Spec{optionStrings: []string{"--json"}, dest: "json"}
	b := &Spec{optionStrings: []string{"--yaml"}, dest: "yaml"}

	err := notAllowedWithError(a, b)
	if err.Message != "argument --json: not allowed with argument --yaml" {
		t.Errorf("Unexpected message %q", err.Message)
	}
	if len(err.Specs) != 2 {
		t.Errorf("Expected both specs, got %v", err.Specs)
	}
}

func TestConverterErrorMessage(t *testing.T) {
	tests := []struct {
		name      string
		converter Converter
		token     string
		want      string
	}{
		{"int", IntType, "abc", "argument --n: invalid int value: 'abc'"},
		{"float", FloatType, "1.2.3", "argument --n: invalid float value: '1.2.3'"},
		{"bool", BoolType, "maybe", "argument --n: invalid bool value: 'maybe'"},
		{"duration", DurationType, "soon", "argument --n: invalid duration value: 'soon'"},
		{"custom", func(string) (any, error) { return nil, errors.New("must be even") }, "3", "argument --n: must be even"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &Spec{optionStrings: []string{"--n"}, dest: "n", converter: tt.converter}
			_, err := spec.convert(tt.token)
			if err == nil {
				t.Fatal("Expected a conversion error")
			}
			if err.Error() != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, err.Error())
			}
			if !errors.Is(err, ErrInvalidValue) {
				t.Error("Expected ErrInvalidValue")
			}
		})
	}
}

func TestConverters(t *testing.T) {
	tests := []struct {
		name      string
		converter Converter
		token     string
		want      any
	}{
		{"int", IntType, "42", 42},
		{"int hex", IntType, "0x1f", 31},
		{"int negative", IntType, "-7", -7},
		{"float", FloatType, "2.5", 2.5},
		{"bool", BoolType, "TRUE", true},
		{"duration", DurationType, "1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.converter(tt.token)
			if err != nil {
				t.Fatalf("convert failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestChoiceComparison(t *testing.T) {
	spec := &Spec{
		optionStrings: []string{"--level"},
		dest:          "level",
		choices:       []any{1, 2, 3, []string{"not", "comparable"}},
	}

	if err := spec.check(2); err != nil {
		t.Errorf("Expected 2 accepted, got %v", err)
	}
	if err := spec.check("2"); err == nil {
		t.Error("Expected a string to be rejected against int choices")
	}
	if err := spec.check([]string{"not", "comparable"}); err != nil {
		t.Errorf("Expected slices to compare deeply, got %v", err)
	}

	err := spec.check(9)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if !strings.Contains(pe.Message, "invalid choice: '9' (choose from '1', '2', '3'") {
		t.Errorf("Unexpected message %q", pe.Message)
	}
}
