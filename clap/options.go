package clap

import (
	"fmt"
	"strings"
)

// Option configures one declaration.
type Option func(*declaration)

type declaration struct {
	action       ActionKind
	hasAction    bool
	flag         bool
	accumulating bool
	nargs        Arity
	defaultVal   any
	hasDefault   bool
	constVal     any
	hasConst     bool
	converter    Converter
	choices      []any
	choiceMap    map[string]any
	required     bool
	help         string
	dest         string
	metavar      string
	mutex        *MutexGroup
	group        *DisplayGroup

	err error
}

func newDeclaration(opts []Option) *declaration {
	d := &declaration{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *declaration) fail(format string, args ...any) {
	if d.err == nil {
		d.err = NewParseError(ErrorTypeInvalidDeclaration, fmt.Sprintf(format, args...))
	}
}

// Nargs sets how many tokens the declaration consumes.
func Nargs(a Arity) Option {
	return func(d *declaration) { d.nargs = a }
}

// Default sets the value bound when the declaration is absent. A string
// default goes through the converter when nothing else was bound.
func Default(v any) Option {
	return func(d *declaration) {
		d.defaultVal = v
		d.hasDefault = true
	}
}

// Const sets the value bound by const actions and by Optional options given
// without a value.
func Const(v any) Option {
	return func(d *declaration) {
		d.constVal = v
		d.hasConst = true
	}
}

// Type sets the converter applied to each token.
func Type(c Converter) Option {
	return func(d *declaration) { d.converter = c }
}

// Choices restricts the accepted values. Values are compared after conversion.
func Choices(values ...any) Option {
	return func(d *declaration) {
		if d.choiceMap != nil {
			d.fail("Choices and ChoiceMap are mutually exclusive")
			return
		}
		d.choices = values
	}
}

// ChoiceMap restricts the accepted values to the keys of m. The map values are
// kept for help renderers; the bound value is the key.
func ChoiceMap(m map[string]any) Option {
	return func(d *declaration) {
		if d.choices != nil {
			d.fail("Choices and ChoiceMap are mutually exclusive")
			return
		}
		d.choiceMap = m
	}
}

// Required makes an option mandatory. Positionals are required by arity.
func Required() Option {
	return func(d *declaration) { d.required = true }
}

// Help sets the help text.
func Help(text string) Option {
	return func(d *declaration) { d.help = text }
}

// Dest sets the destination name explicitly.
func Dest(name string) Option {
	return func(d *declaration) { d.dest = name }
}

// Metavar sets the display name for values.
func Metavar(name string) Option {
	return func(d *declaration) { d.metavar = name }
}

// Mutex places the declaration in a mutually exclusive group.
func Mutex(g *MutexGroup) Option {
	return func(d *declaration) { d.mutex = g }
}

// InGroup places the declaration in a display group, overriding any scope.
func InGroup(g *DisplayGroup) Option {
	return func(d *declaration) { d.group = g }
}

// Accumulating binds every occurrence: store becomes append and store const
// becomes append const.
func Accumulating() Option {
	return func(d *declaration) { d.accumulating = true }
}

// Action sets the binding action.
func Action(a ActionKind) Option {
	return func(d *declaration) {
		if d.hasAction && d.action != a {
			d.fail("action given twice: %s and %s", d.action, a)
			return
		}
		d.action = a
		d.hasAction = true
	}
}

// Flag declares a boolean switch, the same as Action(ActionStoreTrue).
func Flag() Option {
	return func(d *declaration) { d.flag = true }
}

// splitNames turns "--keyword -k -kw" into its fields. Empty names are dropped.
func splitNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.Fields(n)...)
	}
	return out
}
