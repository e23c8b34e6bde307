//nolint:testpackage // using package name 'clap' to access unexported fields for testing
package clap

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestZeroOrMorePositional(t *testing.T) {
	s := newTestSession([]string{"a", "b", "c"})
	items := mustDeclare(t, s, "items", Nargs(ZeroOrMore))

	if diff := cmp.Diff([]string{"a", "b", "c"}, items.Any()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestZeroOrMorePositionalEmpty(t *testing.T) {
	s := newTestSession(nil)
	items := mustDeclare(t, s, "items", Nargs(ZeroOrMore))
	if diff := cmp.Diff([]string{}, items.Any()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	s = newTestSession(nil)
	items = mustDeclare(t, s, "items", Nargs(ZeroOrMore), Default("none"))
	if items.String() != "none" {
		t.Errorf("Expected default 'none', got %v", items.Any())
	}
}

func TestOptionAliases(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
	}{
		{"short", []string{"-k", "foo"}},
		{"long", []string{"--keyword", "foo"}},
		{"single dash long", []string{"-kw", "foo"}},
		{"equals", []string{"--keyword=foo"}},
		{"joined short", []string{"-kfoo"}},
		{"abbreviated", []string{"--key", "foo"}},
		{"abbreviated equals", []string{"--keyw=foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(tt.tokens)
			v := mustDeclare(t, s, "--keyword -k -kw")
			if v.String() != "foo" {
				t.Errorf("Expected keyword='foo', got %v", v.Any())
			}
		})
	}
}

func TestShortFlagCluster(t *testing.T) {
	s := newTestSession([]string{"-xvzfile"})
	x := mustDeclare(t, s, "-x", Flag())
	v := mustDeclare(t, s, "-v", Flag())
	z := mustDeclare(t, s, "-z")

	if !x.Bool() {
		t.Error("Expected -x to be set")
	}
	if !v.Bool() {
		t.Error("Expected -v to be set")
	}
	if z.String() != "file" {
		t.Errorf("Expected -z='file', got %v", z.Any())
	}
}

func TestShortFlagClusterTakesNextToken(t *testing.T) {
	s := newTestSession([]string{"-xo", "out.txt"})
	x := mustDeclare(t, s, "-x", Flag())
	o := mustDeclare(t, s, "-o")

	if !x.Bool() {
		t.Error("Expected -x to be set")
	}
	if o.String() != "out.txt" {
		t.Errorf("Expected -o='out.txt', got %v", o.Any())
	}
}

func TestShortFlagClusterUnknownTail(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		message string
	}{
		{"single flag", []string{"-xq"}, "argument -x: ignored explicit argument 'q'"},
		{"after peeled flag", []string{"-xvq"}, "argument -v: ignored explicit argument 'q'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(tt.tokens)
			mustDeclare(t, s, "-v", Flag())
			_, err := s.Parse("-x", Flag())
			if !errors.Is(err, ErrIgnoredExplicitArgument) {
				t.Fatalf("Expected ErrIgnoredExplicitArgument, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestCountAction(t *testing.T) {
	s := newTestSession([]string{"-vvv", "--verbose"})
	v := mustDeclare(t, s, "-v --verbose", Action(ActionCount))
	if v.Int() != 4 {
		t.Errorf("Expected count 4, got %v", v.Any())
	}

	s = newTestSession(nil)
	v = mustDeclare(t, s, "-v", Action(ActionCount))
	if !v.IsNil() || v.Int() != 0 {
		t.Errorf("Expected absent count to read as 0, got %v", v.Any())
	}
}

func TestRepeatedOptionBindsFirst(t *testing.T) {
	s := newTestSession([]string{"--name", "a", "--name", "b"})
	v := mustDeclare(t, s, "--name")
	if v.String() != "a" {
		t.Errorf("Expected first occurrence 'a', got %v", v.Any())
	}
}

func TestAccumulatingBindsEveryOccurrence(t *testing.T) {
	s := newTestSession([]string{"--tag", "a", "-t", "b", "--tag=c"})
	v := mustDeclare(t, s, "--tag -t", Accumulating())
	if diff := cmp.Diff([]string{"a", "b", "c"}, v.Strings()); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestExtendAction(t *testing.T) {
	s := newTestSession([]string{"--num", "1", "2", "--num", "3"})
	v := mustDeclare(t, s, "--num", Action(ActionExtend), Type(IntType))
	if diff := cmp.Diff([]int{1, 2, 3}, v.Any()); diff != "" {
		t.Errorf("nums mismatch (-want +got):\n%s", diff)
	}
}

func TestAppendConst(t *testing.T) {
	s := newTestSession([]string{"--fast", "--slow", "--fast"})
	fast := mustDeclare(t, s, "--fast", Action(ActionAppendConst), Const("f"), Dest("modes"))
	slow := mustDeclare(t, s, "--slow", Action(ActionAppendConst), Const("s"), Dest("modes"))

	if diff := cmp.Diff([]string{"f", "s", "f"}, slow.Any()); diff != "" {
		t.Errorf("modes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"f", "f"}, fast.Any()); diff != "" {
		t.Errorf("modes before --slow existed mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionalArity(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected any
	}{
		{"absent binds default", nil, "d"},
		{"bare binds const", []string{"--level"}, "c"},
		{"value binds value", []string{"--level", "v"}, "v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(tt.tokens)
			v := mustDeclare(t, s, "--level", Nargs(Optional), Const("c"), Default("d"))
			if v.Any() != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, v.Any())
			}
		})
	}
}

func TestExactlyN(t *testing.T) {
	s := newTestSession([]string{"--point", "1", "0x10", "rest"})
	v := mustDeclare(t, s, "--point", Nargs(Exactly(2)), Type(IntType))
	if diff := cmp.Diff([]int{1, 16}, v.Ints()); diff != "" {
		t.Errorf("point mismatch (-want +got):\n%s", diff)
	}
}

func TestRemainder(t *testing.T) {
	s := newTestSession([]string{"ls", "-la", "x"})
	prog := mustDeclare(t, s, "prog")
	rest := mustDeclare(t, s, "rest", Nargs(Remainder))

	if prog.String() != "ls" {
		t.Errorf("Expected prog='ls', got %v", prog.Any())
	}
	if diff := cmp.Diff([]string{"-la", "x"}, rest.Any()); diff != "" {
		t.Errorf("rest mismatch (-want +got):\n%s", diff)
	}
}

func TestPositionalsAroundOptions(t *testing.T) {
	s := newTestSession([]string{"src", "--verbose", "a", "b"})
	mustDeclare(t, s, "first")
	mustDeclare(t, s, "--verbose", Flag())
	mustDeclare(t, s, "items", Nargs(ZeroOrMore))

	first := mustDeclare(t, s, "first")
	items := mustDeclare(t, s, "items", Nargs(ZeroOrMore))
	if first.String() != "src" {
		t.Errorf("Expected first='src', got %v", first.Any())
	}
	if diff := cmp.Diff([]string{"a", "b"}, items.Any()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestSeparatorStripped(t *testing.T) {
	s := newTestSession([]string{"--", "-file"})
	v := mustDeclare(t, s, "name")
	if v.String() != "-file" {
		t.Errorf("Expected name='-file', got %v", v.Any())
	}
}

func TestStringDefaultConverted(t *testing.T) {
	s := newTestSession(nil)
	v := mustDeclare(t, s, "--port", Type(IntType), Default("8080"))
	if n, ok := As[int](v); !ok || n != 8080 {
		t.Errorf("Expected port=8080 as int, got %#v", v.Any())
	}
}

func TestMatchErrors(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		names   string
		opts    []Option
		target  error
		message string
	}{
		{
			name:    "missing value",
			tokens:  []string{"--name"},
			names:   "--name",
			target:  ErrExpectedArgument,
			message: "argument --name: expected one argument",
		},
		{
			name:    "bad int",
			tokens:  []string{"--port", "abc"},
			names:   "--port",
			opts:    []Option{Type(IntType)},
			target:  ErrInvalidValue,
			message: "argument --port: invalid int value: 'abc'",
		},
		{
			name:    "bad choice",
			tokens:  []string{"--mode", "c"},
			names:   "--mode",
			opts:    []Option{Choices("a", "b")},
			target:  ErrInvalidValue,
			message: "argument --mode: invalid choice: 'c' (choose from 'a', 'b')",
		},
		{
			name:    "explicit value on flag",
			tokens:  []string{"--verbose=yes"},
			names:   "--verbose",
			opts:    []Option{Flag()},
			target:  ErrIgnoredExplicitArgument,
			message: "argument --verbose: ignored explicit argument 'yes'",
		},
		{
			name:    "required option",
			names:   "--name",
			opts:    []Option{Required()},
			target:  ErrMissingRequired,
			message: "the following arguments are required: --name",
		},
		{
			name:    "required positional",
			names:   "src",
			target:  ErrMissingRequired,
			message: "the following arguments are required: src",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession(tt.tokens)
			_, err := s.Parse(tt.names, tt.opts...)
			if !errors.Is(err, tt.target) {
				t.Fatalf("Expected %v, got %v", tt.target, err)
			}
			if err.Error() != tt.message {
				t.Errorf("Expected message %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestInvalidValueKeepsCause(t *testing.T) {
	s := newTestSession([]string{"--port", "abc"})
	_, err := s.Parse("--port", Type(IntType))

	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("Expected *TypeError cause, got %v", err)
	}
	if te.Type != "int" || te.Value != "abc" {
		t.Errorf("Expected int/abc, got %s/%s", te.Type, te.Value)
	}
}

func TestChoiceMap(t *testing.T) {
	s := newTestSession([]string{"--level", "high"})
	v := mustDeclare(t, s, "--level", ChoiceMap(map[string]any{"low": 1, "high": 3}))
	if v.String() != "high" {
		t.Errorf("Expected level='high', got %v", v.Any())
	}

	_, err := s.Parse("--other", ChoiceMap(map[string]any{"b": 1, "a": 2}), Default("z"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	spec := s.Registry().Lookup("--other")
	if diff := cmp.Diff([]any{"a", "b"}, spec.Choices()); diff != "" {
		t.Errorf("choices mismatch (-want +got):\n%s", diff)
	}
}

func TestMutexConflict(t *testing.T) {
	s := newTestSession([]string{"-a", "-b"})
	g := s.MutexGroup("mode", false)
	mustDeclare(t, s, "-a", Flag(), Mutex(g))

	_, err := s.Parse("-b", Flag(), Mutex(g))
	if !errors.Is(err, ErrConflictingArguments) {
		t.Fatalf("Expected ErrConflictingArguments, got %v", err)
	}
	if err.Error() != "argument -b: not allowed with argument -a" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}

func TestMutexDefaultsDoNotConflict(t *testing.T) {
	s := newTestSession([]string{"-b"})
	g := s.MutexGroup("mode", false)
	a := mustDeclare(t, s, "-a", Flag(), Mutex(g))
	b := mustDeclare(t, s, "-b", Flag(), Mutex(g))

	if a.Bool() || !b.Bool() {
		t.Errorf("Expected a=false b=true, got a=%v b=%v", a.Any(), b.Any())
	}
}

func TestRequiredMutexGroup(t *testing.T) {
	s := newTestSession(nil)
	g := s.MutexGroup("mode", true)
	mustDeclare(t, s, "-a", Flag(), Mutex(g))
	mustDeclare(t, s, "-b", Flag(), Mutex(g))

	_, err := s.Finish()
	if !errors.Is(err, ErrConflictingArguments) {
		t.Fatalf("Expected ErrConflictingArguments, got %v", err)
	}
	if err.Error() != "one of the arguments -a -b is required" {
		t.Errorf("Unexpected message: %s", err.Error())
	}

	var pe *ParseError
	errors.As(err, &pe)
	if diff := cmp.Diff([]string{"-a", "-b"}, pe.Specs); diff != "" {
		t.Errorf("Specs mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredMutexGroupDeclarationOrder(t *testing.T) {
	tests := []struct {
		name  string
		order []string
	}{
		{"given member last", []string{"--json", "--yaml"}},
		{"given member first", []string{"--yaml", "--json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSession([]string{"--yaml"})
			g := s.MutexGroup("format", true)
			got := make(map[string]bool)
			for _, name := range tt.order {
				got[name] = mustDeclare(t, s, name, Flag(), Mutex(g)).Bool()
			}

			if diff := cmp.Diff(map[string]bool{"--json": false, "--yaml": true}, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
			if _, err := s.Finish(); err != nil {
				t.Errorf("Expected Finish to succeed, got %v", err)
			}
		})
	}
}

func TestUnrecognizedNotFatal(t *testing.T) {
	s := newTestSession([]string{"--name", "x", "--nmae", "extra"})
	v := mustDeclare(t, s, "--name")
	if v.String() != "x" {
		t.Errorf("Expected name='x', got %v", v.Any())
	}

	report, err := s.Finish()
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if diff := cmp.Diff([]string{"--nmae", "extra"}, report.Unrecognized); diff != "" {
		t.Errorf("Unrecognized mismatch (-want +got):\n%s", diff)
	}
	if report.Suggestions["--nmae"] != "--name" {
		t.Errorf("Expected suggestion --name, got %q", report.Suggestions["--nmae"])
	}
	if report.Clean() {
		t.Error("Expected report not to be clean")
	}
}

func TestMatchPartialLeavesRoomForRequired(t *testing.T) {
	s := newTestSession([]string{"a", "b", "c"})
	mustDeclare(t, s, "items", Nargs(OneOrMore))
	last := mustDeclare(t, s, "last")
	items := mustDeclare(t, s, "items", Nargs(OneOrMore))

	if last.String() != "c" {
		t.Errorf("Expected last='c', got %v", last.Any())
	}
	if diff := cmp.Diff([]string{"a", "b"}, items.Any()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}
