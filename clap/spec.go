package clap

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"
)

// selectorDest is where the subcommand selector binds the chosen name.
const selectorDest = "{subcommand}"

// Spec is one registered declaration. It is immutable once registered.
type Spec struct {
	optionStrings []string
	dest          string
	explicitDest  bool
	action        ActionKind
	nargs         Arity
	constVal      any
	defaultVal    any
	converter     Converter
	choices       []any
	choiceMap     map[string]any
	required      bool
	help          string
	metavar       string
	mutex         *MutexGroup
	group         *DisplayGroup

	signature string
}

// OptionStrings returns the option strings in declaration order, nil for
// positionals.
func (s *Spec) OptionStrings() []string { return slices.Clone(s.optionStrings) }

// Dest returns the destination name the value is bound under.
func (s *Spec) Dest() string { return s.dest }

// Action returns the binding action.
func (s *Spec) Action() ActionKind { return s.action }

// Arity returns how many tokens the declaration consumes.
func (s *Spec) Arity() Arity { return s.nargs }

// Const returns the value bound by const-style actions.
func (s *Spec) Const() any { return s.constVal }

// Default returns the value bound when the declaration is absent.
func (s *Spec) Default() any { return s.defaultVal }

// Choices returns the accepted values, nil when unrestricted.
func (s *Spec) Choices() []any { return slices.Clone(s.choices) }

// ChoiceMap returns the mapping given with ChoiceMap, nil otherwise.
func (s *Spec) ChoiceMap() map[string]any { return s.choiceMap }

// Required reports whether the declaration must appear on the command line.
func (s *Spec) Required() bool { return s.required }

// Help returns the help text.
func (s *Spec) Help() string { return s.help }

// Metavar returns the display name for values.
func (s *Spec) Metavar() string { return s.metavar }

// DisplayGroup returns the help group the declaration belongs to, or nil.
func (s *Spec) DisplayGroup() *DisplayGroup { return s.group }

// MutexGroup returns the mutually exclusive group, or nil.
func (s *Spec) MutexGroup() *MutexGroup { return s.mutex }

// IsPositional reports whether the declaration has no option strings.
func (s *Spec) IsPositional() bool { return len(s.optionStrings) == 0 }

func (s *Spec) isOption() bool { return len(s.optionStrings) > 0 }

// Name is the display name used in messages: the option strings joined with
// "/", else the metavar, else the dest.
func (s *Spec) Name() string {
	switch {
	case len(s.optionStrings) > 0:
		return strings.Join(s.optionStrings, "/")
	case s.metavar != "":
		return s.metavar
	case s.action == actionSelector:
		return "{" + strings.Join(s.choiceStrings(), ",") + "}"
	default:
		return s.dest
	}
}

// Signature is the canonical identity of the declaration. Two declarations
// with equal signatures are the same declaration.
func (s *Spec) Signature() string { return s.signature }

func (s *Spec) computeSignature() string {
	var b strings.Builder
	if s.isOption() {
		opts := slices.Clone(s.optionStrings)
		sort.Strings(opts)
		b.WriteString("opts=[" + strings.Join(opts, " ") + "]")
	} else {
		b.WriteString("pos")
	}
	fmt.Fprintf(&b, ";dest=%s;action=%s;nargs=%s", s.dest, s.action, s.nargs)
	fmt.Fprintf(&b, ";const=%#v;default=%#v", s.constVal, s.defaultVal)
	fmt.Fprintf(&b, ";type=%s", converterName(s.converter))
	if s.choiceMap != nil {
		fmt.Fprintf(&b, ";choices=%#v", s.choiceMap)
	} else if s.choices != nil {
		fmt.Fprintf(&b, ";choices=%#v", s.choices)
	}
	fmt.Fprintf(&b, ";required=%t;help=%q;metavar=%q", s.required, s.help, s.metavar)
	if s.mutex != nil {
		fmt.Fprintf(&b, ";mutex=%q", s.mutex.name)
	}
	return b.String()
}

func invalidDeclaration(format string, args ...any) *ParseError {
	return NewParseError(ErrorTypeInvalidDeclaration, fmt.Sprintf(format, args...))
}

// newSpec normalizes names and options into a Spec.
//
//nolint:gocognit,gocyclo // mirrors the declaration rules one by one
func newSpec(names []string, d *declaration, prefixChars string) (*Spec, error) {
	if d.err != nil {
		return nil, d.err
	}
	isPrefix := func(c byte) bool { return strings.IndexByte(prefixChars, c) >= 0 }

	s := &Spec{
		help:      d.help,
		metavar:   d.metavar,
		converter: d.converter,
		mutex:     d.mutex,
		group:     d.group,
		required:  d.required,
	}

	// positional or option
	switch {
	case len(names) == 0:
		if d.dest == "" {
			return nil, NewParseError(ErrorTypeNoSessionIdentity,
				"a positional declaration needs a name or an explicit Dest")
		}
		s.dest = d.dest
		s.explicitDest = true
	case len(names) == 1 && !isPrefix(names[0][0]):
		if d.dest != "" {
			return nil, invalidDeclaration("Dest supplied twice for positional argument %q", names[0])
		}
		s.dest = names[0]
	default:
		for _, n := range names {
			if !isPrefix(n[0]) {
				return nil, invalidDeclaration("invalid option string %q: must start with a character %q", n, prefixChars)
			}
			if utf8.RuneCountInString(n) < 2 {
				return nil, invalidDeclaration("invalid option string %q: a prefix character alone is not an option", n)
			}
		}
		s.optionStrings = slices.Clone(names)
		s.dest, s.explicitDest = d.dest, d.dest != ""
		if s.dest == "" {
			s.dest = optionDest(names, prefixChars)
			if s.dest == "" {
				return nil, invalidDeclaration("Dest is required for options like %q", names[0])
			}
		}
	}

	// action
	s.action = ActionStore
	if d.hasAction {
		s.action = d.action
	}
	if d.flag {
		if d.hasAction {
			return nil, invalidDeclaration("%s: Flag cannot be combined with Action(%s)", s.Name(), d.action)
		}
		s.action = ActionStoreTrue
	}
	if d.accumulating {
		acc, ok := s.action.accumulate()
		if !ok {
			return nil, invalidDeclaration("%s: action %s cannot accumulate", s.Name(), s.action)
		}
		s.action = acc
	}

	// arity
	switch {
	case s.action.zeroArity():
		if d.nargs.IsSet() {
			return nil, invalidDeclaration("%s: Nargs is not allowed with action %s", s.Name(), s.action)
		}
		s.nargs = zeroArity
	case d.nargs.IsSet():
		if d.nargs.kind == arityExactly && d.nargs.n <= 0 {
			return nil, invalidDeclaration(
				"%s: Nargs must be > 0 for action %s; use a const or flag action to store nothing", s.Name(), s.action)
		}
		s.nargs = d.nargs
	case s.action == ActionExtend:
		s.nargs = OneOrMore
	default:
		s.nargs = One
	}

	// const and default
	s.constVal, s.defaultVal = d.constVal, d.defaultVal
	switch s.action {
	case ActionStoreTrue:
		s.constVal = true
		if !d.hasDefault {
			s.defaultVal = false
		}
	case ActionStoreFalse:
		s.constVal = false
		if !d.hasDefault {
			s.defaultVal = true
		}
	case ActionStore, ActionAppend, ActionExtend:
		if d.hasConst && s.nargs.kind != arityOptional {
			return nil, invalidDeclaration("%s: Const requires Nargs(Optional)", s.Name())
		}
	default:
	}

	// choices
	switch {
	case d.choiceMap != nil:
		s.choiceMap = d.choiceMap
		keys := make([]string, 0, len(d.choiceMap))
		for k := range d.choiceMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s.choices = append(s.choices, k)
		}
	case d.choices != nil:
		s.choices = slices.Clone(d.choices)
	}

	// positional rules
	if s.IsPositional() {
		if d.required {
			return nil, invalidDeclaration("Required is not valid for positional %q; use an arity instead", s.dest)
		}
		if s.nargs.kind == arityExactly && s.nargs.n == 0 {
			return nil, invalidDeclaration("positional %q needs an action that consumes tokens", s.dest)
		}
		switch s.nargs.kind {
		case arityOptional, arityZeroOrMore, arityRemainder, aritySelector:
			s.required = false
		default:
			s.required = true
		}
	}

	if s.mutex != nil && s.required {
		return nil, invalidDeclaration("%s: mutually exclusive arguments must be optional", s.Name())
	}

	s.signature = s.computeSignature()
	return s, nil
}

// optionDest derives the dest from the first long option, else the first
// option: prefix characters stripped, '-' replaced by '_'.
func optionDest(names []string, prefixChars string) string {
	pick := names[0]
	for _, n := range names {
		if len(n) > 1 && strings.IndexByte(prefixChars, n[1]) >= 0 {
			pick = n
			break
		}
	}
	return strings.ReplaceAll(strings.TrimLeft(pick, prefixChars), "-", "_")
}
