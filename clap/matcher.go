package clap

import (
	"errors"
	"slices"
	"strings"

	"github.com/dzonerzy/go-clap/internal/fuzzy"
	"github.com/dzonerzy/go-clap/internal/pool"
)

// sweepResult is the outcome of one full pass over the tokens. pending
// holds the failures a later declaration can still clear: a required mutex
// group with no member given, and a selector naming no known subcommand.
type sweepResult struct {
	ns      *namespace
	extras  []string
	pending []*ParseError
}

// sweeper carries the state of one sweep over one registry.
type sweeper struct {
	reg *Registry
	rx  *regexCache

	tokens  []string
	pattern string
	matches map[int]*optionMatch

	ns      *namespace
	extras  []string
	pending []*ParseError

	positionals []*Spec
	conflicts   map[*Spec][]*Spec
	seen        map[*Spec]bool
	nonDefault  map[*Spec]bool
	bound       map[*Spec]bool
}

// sweep matches tokens against every declaration of r and of the subcommand
// it selects. Errors carry the path of the registry that raised them.
func (r *Registry) sweep(tokens []string, rx *regexCache) (*sweepResult, error) {
	res, err := r.runSweep(tokens, rx)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) && len(pe.Path) == 0 {
			pe.Path = r.path
		}
		return nil, err
	}
	return res, nil
}

func (r *Registry) runSweep(tokens []string, rx *regexCache) (*sweepResult, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	pattern, matches, err := r.classify(tokens, (*buf)[:0])
	if err != nil {
		return nil, err
	}
	*buf = pattern

	s := &sweeper{
		reg:         r,
		rx:          rx,
		tokens:      tokens,
		pattern:     string(pattern),
		matches:     matches,
		ns:          newNamespace(),
		positionals: r.matchOrder(),
		conflicts:   make(map[*Spec][]*Spec),
		seen:        make(map[*Spec]bool),
		nonDefault:  make(map[*Spec]bool),
		bound:       make(map[*Spec]bool),
	}
	for _, spec := range r.specs {
		if spec.action == ActionHelp || spec.action == actionSelector {
			continue
		}
		s.ns.initDefault(spec.dest, spec.defaultVal)
	}
	for _, g := range r.mutexOrder {
		for i, m := range g.members {
			others := s.conflicts[m]
			others = append(others, g.members[:i]...)
			others = append(others, g.members[i+1:]...)
			s.conflicts[m] = others
		}
	}

	if err := s.consume(); err != nil {
		return nil, err
	}
	if err := s.complete(); err != nil {
		return nil, err
	}
	s.ns.finalize()
	for _, pe := range s.pending {
		if len(pe.Path) == 0 {
			pe.Path = r.path
		}
	}
	return &sweepResult{ns: s.ns, extras: s.extras, pending: s.pending}, nil
}

// consume alternates between positionals and options until the last option
// is passed, then hands the tail to the positionals.
func (s *sweeper) consume() error {
	idx := pool.GetInts()
	defer pool.PutInts(idx)
	for i := range s.matches {
		*idx = append(*idx, i)
	}
	slices.Sort(*idx)
	optionIndices := *idx

	start := 0
	for len(optionIndices) > 0 && start <= optionIndices[len(optionIndices)-1] {
		next := optionIndices[0]
		for _, i := range optionIndices {
			if i >= start {
				next = i
				break
			}
		}

		if start != next {
			end, err := s.consumePositionals(start)
			if err != nil {
				return err
			}
			if end > start {
				start = end
				continue
			}
		}

		if _, ok := s.matches[start]; !ok {
			s.extras = append(s.extras, s.tokens[start:next]...)
			start = next
		}

		end, err := s.consumeOptional(start)
		if err != nil {
			return err
		}
		start = end
	}

	end, err := s.consumePositionals(start)
	if err != nil {
		return err
	}
	s.extras = append(s.extras, s.tokens[end:]...)
	return nil
}

// consumePositionals matches as many of the remaining positionals as
// possible against the tokens from start. Trailing positionals that would
// match nothing are kept for later when an option follows.
func (s *sweeper) consumePositionals(start int) (int, error) {
	counts := s.matchPartial(s.positionals, s.pattern[start:])
	if strings.IndexByte(s.pattern[start:], patternOption) >= 0 {
		for len(counts) > 0 && counts[len(counts)-1] == 0 {
			counts = counts[:len(counts)-1]
		}
	}

	for i, n := range counts {
		args := s.tokens[start : start+n]
		start += n
		if err := s.take(s.positionals[i], args, ""); err != nil {
			return 0, err
		}
	}
	s.positionals = s.positionals[len(counts):]
	return start, nil
}

type optionStep struct {
	spec   *Spec
	args   []string
	option string
}

// consumeOptional binds the option at start and the tokens it claims. A
// cluster of short flags ("-xyz") is peeled into one step per flag.
func (s *sweeper) consumeOptional(start int) (int, error) {
	m := *s.matches[start]
	var steps []optionStep
	stop := start + 1

	for {
		if m.spec == nil {
			s.extras = append(s.extras, s.tokens[start])
			return start + 1, nil
		}

		if !m.hasExplicit {
			n, err := s.matchArgument(m.spec, s.pattern[start+1:])
			if err != nil {
				return 0, err
			}
			stop = start + 1 + n
			steps = append(steps, optionStep{m.spec, s.tokens[start+1 : stop], m.option})
			break
		}

		n, err := s.matchArgument(m.spec, string(patternArg))
		if err != nil {
			return 0, err
		}
		switch {
		case n == 0 && !s.reg.isPrefix(m.option[1]) && m.sep == "":
			steps = append(steps, optionStep{m.spec, nil, m.option})
			if m.explicit == "" {
				return start + 1, s.takeSteps(steps)
			}
			if s.reg.isPrefix(m.explicit[0]) {
				return 0, ignoredExplicitError(m.spec, m.explicit)
			}
			opt, rest := shortOption(m.option[0], m.explicit)
			next, ok := s.reg.options[opt]
			if !ok {
				return 0, ignoredExplicitError(m.spec, m.explicit)
			}
			m = optionMatch{spec: next, option: opt, explicit: rest, hasExplicit: rest != ""}
			if !m.hasExplicit {
				// last flag of the cluster may still take following tokens
				continue
			}
		case n == 1:
			steps = append(steps, optionStep{m.spec, []string{m.explicit}, m.option})
			return start + 1, s.takeSteps(steps)
		default:
			return 0, ignoredExplicitError(m.spec, m.explicit)
		}
	}
	return stop, s.takeSteps(steps)
}

func (s *sweeper) takeSteps(steps []optionStep) error {
	for _, st := range steps {
		if err := s.take(st.spec, st.args, st.option); err != nil {
			return err
		}
	}
	return nil
}

// take converts args and applies the spec's action. A non-accumulating
// option already bound in this sweep is not applied again.
func (s *sweeper) take(spec *Spec, args []string, option string) error {
	if spec.action == ActionHelp {
		return nil
	}
	if s.bound[spec] && !spec.action.Accumulating() {
		return nil
	}
	s.seen[spec] = true

	value, isDefault, err := s.values(spec, args)
	if err != nil {
		var pe *ParseError
		if spec.action == actionSelector && errors.As(err, &pe) && pe.Type == ErrorTypeUnknownSubcommand {
			s.pending = append(s.pending, pe)
			s.extras = append(s.extras, args...)
			return nil
		}
		return err
	}
	if !isDefault {
		s.nonDefault[spec] = true
		for _, other := range s.conflicts[spec] {
			if s.nonDefault[other] {
				return notAllowedWithError(spec, other)
			}
		}
	}

	if spec.action == actionSelector {
		return s.dispatch(spec, value.([]any))
	}
	spec.action.apply(s.ns, spec, value)
	if option != "" && !spec.action.Accumulating() {
		s.bound[spec] = true
	}
	return nil
}

// values converts the tokens claimed by spec. isDefault reports whether the
// result is the declared default rather than something from the tokens.
//
//nolint:gocognit // one branch per arity
func (s *sweeper) values(spec *Spec, args []string) (any, bool, error) {
	if spec.nargs.stripsSeparator() {
		if i := slices.Index(args, "--"); i >= 0 {
			args = slices.Delete(slices.Clone(args), i, i+1)
		}
	}

	switch {
	case len(args) == 0 && spec.nargs.kind == arityOptional:
		var v any
		isDefault := spec.constVal == nil && spec.defaultVal == nil
		if spec.isOption() {
			v = spec.constVal
		} else {
			v = spec.defaultVal
			isDefault = true
		}
		if str, ok := v.(string); ok {
			converted, err := spec.convert(str)
			if err != nil {
				return nil, false, err
			}
			if err := spec.check(converted); err != nil {
				return nil, false, err
			}
			if spec.converter != nil {
				isDefault = false
			}
			v = converted
		}
		return v, isDefault, nil

	case len(args) == 0 && spec.nargs.kind == arityZeroOrMore && spec.IsPositional():
		if spec.defaultVal != nil {
			return spec.defaultVal, true, nil
		}
		return []any{}, false, nil

	case len(args) == 1 && (spec.nargs == One || spec.nargs.kind == arityOptional):
		v, err := spec.convert(args[0])
		if err != nil {
			return nil, false, err
		}
		if err := spec.check(v); err != nil {
			return nil, false, err
		}
		return v, false, nil

	case spec.nargs.kind == arityRemainder:
		out, err := s.convertAll(spec, args)
		return out, false, err

	case spec.nargs.kind == aritySelector:
		out, err := s.convertAll(spec, args)
		if err != nil {
			return nil, false, err
		}
		for i, v := range out {
			if spec.check(v) == nil {
				promoted := make([]any, 0, len(out))
				promoted = append(promoted, v)
				promoted = append(promoted, out[:i]...)
				promoted = append(promoted, out[i+1:]...)
				return promoted, false, nil
			}
		}
		names := s.reg.subcommandNames()
		return nil, false, unknownSubcommandError(spec, args, names, fuzzy.Suggest(args[0], names))

	case spec.nargs == zeroArity:
		return []any{}, false, nil
	}

	out, err := s.convertAll(spec, args)
	if err != nil {
		return nil, false, err
	}
	for _, v := range out {
		if err := spec.check(v); err != nil {
			return nil, false, err
		}
	}
	return out, false, nil
}

func (s *sweeper) convertAll(spec *Spec, args []string) ([]any, error) {
	out := make([]any, len(args))
	for i, a := range args {
		v, err := spec.convert(a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// dispatch binds the selected subcommand name and sweeps the rest of the
// values against the subcommand's registry.
func (s *sweeper) dispatch(spec *Spec, values []any) error {
	name, _ := values[0].(string)
	sub, ok := s.reg.subcommands[name]
	if !ok {
		names := s.reg.subcommandNames()
		return unknownSubcommandError(spec, []string{name}, names, fuzzy.Suggest(name, names))
	}
	s.ns.set(selectorDest, name)

	rest := make([]string, 0, len(values)-1)
	for _, v := range values[1:] {
		str, _ := v.(string)
		rest = append(rest, str)
	}
	child, err := sub.registry.sweep(rest, s.rx)
	if err != nil {
		return err
	}
	s.ns.children[name] = child.ns
	s.extras = append(s.extras, child.extras...)
	s.pending = append(s.pending, child.pending...)
	return nil
}

// complete runs the post-sweep checks: required declarations, string
// defaults and required mutex groups. An unsatisfied group is pending, not
// fatal.
func (s *sweeper) complete() error {
	var missing []string
	for _, spec := range s.reg.specs {
		if s.seen[spec] || spec.action == ActionHelp {
			continue
		}
		if spec.required {
			missing = append(missing, spec.Name())
			continue
		}
		str, ok := spec.defaultVal.(string)
		if !ok || spec.converter == nil || s.ns.assigned[spec.dest] {
			continue
		}
		if cur, _ := s.ns.Get(spec.dest); cur != spec.defaultVal {
			continue
		}
		v, err := spec.convert(str)
		if err != nil {
			return err
		}
		s.ns.values.Set(spec.dest, v)
	}
	if len(missing) > 0 {
		return missingRequiredError(missing)
	}

	for _, g := range s.reg.mutexOrder {
		if !g.required {
			continue
		}
		found := false
		for _, m := range g.members {
			if s.nonDefault[m] {
				found = true
				break
			}
		}
		if !found {
			s.pending = append(s.pending, requiredGroupError(g.memberNames()))
		}
	}
	return nil
}

// matchArgument returns how many pattern letters spec consumes at the start
// of pattern.
func (s *sweeper) matchArgument(spec *Spec, pattern string) (int, error) {
	re := s.rx.compile("^" + spec.nargs.pattern(spec.isOption()))
	m := re.FindStringSubmatch(pattern)
	if m == nil {
		return 0, expectedArgumentError(spec)
	}
	return len(m[1]), nil
}

// matchPartial matches the longest prefix of specs against pattern and
// returns the letters each one consumes.
func (s *sweeper) matchPartial(specs []*Spec, pattern string) []int {
	for i := len(specs); i > 0; i-- {
		var b strings.Builder
		b.WriteByte('^')
		for _, spec := range specs[:i] {
			b.WriteString(spec.nargs.pattern(spec.isOption()))
		}
		m := s.rx.compile(b.String()).FindStringSubmatch(pattern)
		if m == nil {
			continue
		}
		counts := make([]int, len(m)-1)
		for j, g := range m[1:] {
			counts[j] = len(g)
		}
		return counts
	}
	return nil
}
