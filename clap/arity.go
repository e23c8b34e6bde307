package clap

import (
	"strconv"
	"strings"
)

type arityKind uint8

const (
	arityUnset arityKind = iota
	arityExactly
	arityOptional
	arityZeroOrMore
	arityOneOrMore
	arityRemainder
	aritySelector
)

// Arity is how many tokens a declaration consumes.
type Arity struct {
	kind arityKind
	n    int
}

var (
	// One consumes exactly one token. It is the default for stored values.
	One = Arity{kind: arityExactly, n: 1}
	// Optional consumes one token if available.
	Optional = Arity{kind: arityOptional}
	// ZeroOrMore consumes every available token, possibly none.
	ZeroOrMore = Arity{kind: arityZeroOrMore}
	// OneOrMore consumes every available token, at least one.
	OneOrMore = Arity{kind: arityOneOrMore}
	// Remainder consumes the rest of the command line, options included.
	Remainder = Arity{kind: arityRemainder}

	zeroArity = Arity{kind: arityExactly, n: 0}
	selector  = Arity{kind: aritySelector}
)

// Exactly consumes n tokens.
func Exactly(n int) Arity {
	return Arity{kind: arityExactly, n: n}
}

// IsSet reports whether the arity was given explicitly.
func (a Arity) IsSet() bool { return a.kind != arityUnset }

// Count returns N for Exactly(N) arities and -1 otherwise.
func (a Arity) Count() int {
	if a.kind != arityExactly {
		return -1
	}
	return a.n
}

func (a Arity) String() string {
	switch a.kind {
	case arityExactly:
		return strconv.Itoa(a.n)
	case arityOptional:
		return "?"
	case arityZeroOrMore:
		return "*"
	case arityOneOrMore:
		return "+"
	case arityRemainder:
		return "..."
	case aritySelector:
		return "A..."
	default:
		return "unset"
	}
}

// pattern returns the regular expression over the token alphabet (A, O, -)
// matching the tokens this arity consumes. Options never see the '-' marker.
func (a Arity) pattern(option bool) string {
	var p string
	switch a.kind {
	case arityOptional:
		p = "(-*A?-*)"
	case arityZeroOrMore:
		p = "(-*[A-]*)"
	case arityOneOrMore:
		p = "(-*A[A-]*)"
	case arityRemainder:
		p = "([-AO]*)"
	case aritySelector:
		p = "(-*A[-AO]*)"
	case arityExactly:
		p = "(-*" + strings.Join(strings.Split(strings.Repeat("A", a.n), ""), "-*") + "-*)"
	default:
		p = "(-*A-*)"
	}

	if option {
		p = strings.ReplaceAll(p, "-*", "")
		p = strings.ReplaceAll(p, "-", "")
	}
	return p
}

// expectedMessage is the error text when the arity finds no tokens to match.
func (a Arity) expectedMessage() string {
	switch a.kind {
	case arityOptional:
		return "expected at most one argument"
	case arityOneOrMore:
		return "expected at least one argument"
	case arityExactly:
		if a.n == 1 {
			return "expected one argument"
		}
		return "expected " + strconv.Itoa(a.n) + " arguments"
	default:
		return "expected one argument"
	}
}

// stripsSeparator reports whether a literal "--" among the consumed tokens is
// dropped before conversion.
func (a Arity) stripsSeparator() bool {
	return a.kind != arityRemainder && a.kind != aritySelector
}
