//nolint:testpackage // using package name 'clap' to access unexported fields for testing
package clap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	clapio "github.com/dzonerzy/go-clap/io"
)

func newTestSession(tokens []string, opts ...SessionOption) *Session {
	base := []SessionOption{WithTokens(tokens), WithLogger(clapio.Discard())}
	return NewSession(append(base, opts...)...)
}

func mustDeclare(t *testing.T, s *Session, names string, opts ...Option) Value {
	t.Helper()
	v, err := s.Parse(names, opts...)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", names, err)
	}
	return v
}

func TestClassifyPattern(t *testing.T) {
	s := newTestSession(nil)
	mustDeclare(t, s, "--keyword -k")
	mustDeclare(t, s, "-f --flag", Flag())

	tests := []struct {
		name     string
		tokens   []string
		expected string
	}{
		{"plain arguments", []string{"a", "b"}, "AA"},
		{"exact options", []string{"a", "-k", "v", "--flag"}, "AOAO"},
		{"separator forces arguments", []string{"--", "-k", "--flag"}, "-AA"},
		{"lone prefix", []string{"-"}, "A"},
		{"negative number", []string{"-1", "-2.5", "-.5"}, "AAA"},
		{"equals form", []string{"--keyword=x"}, "O"},
		{"abbreviation", []string{"--key", "x"}, "OA"},
		{"joined short", []string{"-kvalue"}, "O"},
		{"unknown option", []string{"--bogus"}, "O"},
		{"space inside", []string{"--not an option"}, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, _, err := s.root.classify(tt.tokens, nil)
			if err != nil {
				t.Fatalf("classify failed: %v", err)
			}
			if string(pattern) != tt.expected {
				t.Errorf("Expected pattern %q, got %q", tt.expected, pattern)
			}
		})
	}
}

func TestClassifyResolvesOptions(t *testing.T) {
	s := newTestSession(nil)
	mustDeclare(t, s, "--keyword -k")

	tests := []struct {
		token    string
		option   string
		explicit string
		known    bool
	}{
		{"-k", "-k", "", true},
		{"--keyword=foo", "--keyword", "foo", true},
		{"--keyw=foo", "--keyword", "foo", true},
		{"-kfoo", "-k", "foo", true},
		{"--other", "--other", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, err := s.root.parseOptional(tt.token)
			if err != nil {
				t.Fatalf("parseOptional failed: %v", err)
			}
			if m == nil {
				t.Fatal("Expected an option match")
			}
			if m.option != tt.option {
				t.Errorf("Expected option %q, got %q", tt.option, m.option)
			}
			if m.explicit != tt.explicit {
				t.Errorf("Expected explicit %q, got %q", tt.explicit, m.explicit)
			}
			if (m.spec != nil) != tt.known {
				t.Errorf("Expected known=%v, got spec %v", tt.known, m.spec)
			}
		})
	}
}

func TestClassifyAmbiguousPrefix(t *testing.T) {
	s := newTestSession(nil)
	mustDeclare(t, s, "--verbose", Flag())
	mustDeclare(t, s, "--version", Flag())

	_, _, err := s.root.classify([]string{"--ver"}, nil)
	if !errors.Is(err, ErrAmbiguousOption) {
		t.Fatalf("Expected ErrAmbiguousOption, got %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %T", err)
	}
	if diff := cmp.Diff([]string{"--verbose", "--version"}, pe.Candidates); diff != "" {
		t.Errorf("Candidates mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"--ver"}, pe.Tokens); diff != "" {
		t.Errorf("Tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyNegativeLikeOptions(t *testing.T) {
	s := newTestSession(nil)
	mustDeclare(t, s, "-1 --one", Flag())

	pattern, _, err := s.root.classify([]string{"-1", "-5"}, nil)
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if string(pattern) != "OO" {
		t.Errorf("Expected negative numbers to be options once an option looks like one, got %q", pattern)
	}
}

func TestClassifyWithoutAbbreviations(t *testing.T) {
	s := newTestSession(nil, WithAllowAbbrev(false))
	mustDeclare(t, s, "--keyword")

	m, err := s.root.parseOptional("--key")
	if err != nil {
		t.Fatalf("parseOptional failed: %v", err)
	}
	if m == nil || m.spec != nil {
		t.Errorf("Expected --key to be an unknown option, got %+v", m)
	}
}

func TestCustomPrefixChars(t *testing.T) {
	s := newTestSession([]string{"+v", "/out", "file"}, WithPrefixChars("+/"))
	v := mustDeclare(t, s, "+v", Flag())
	out := mustDeclare(t, s, "/out", Flag())

	if !v.Bool() || !out.Bool() {
		t.Errorf("Expected both flags set, got +v=%v /out=%v", v.Any(), out.Any())
	}
}
