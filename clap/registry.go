package clap

import (
	"fmt"
	"slices"

	"github.com/dzonerzy/go-clap/internal/intern"
)

// registryConfig is shared by a session's root registry and every nested
// subcommand registry.
type registryConfig struct {
	prefixChars string
	allowAbbrev bool
	helpTokens  []string
	generation  *uint64
	strings     *intern.Table
}

// Registry holds the declarations of one parser level: the root, or one
// subcommand.
type Registry struct {
	cfg  registryConfig
	path []string

	specs        []*Spec
	bySignature  map[string]*Spec
	options      map[string]*Spec
	optionOrder  []string
	dests        map[string]*Spec
	positionals  []*Spec
	negativeLike bool

	groups     map[string]*DisplayGroup
	groupOrder []*DisplayGroup
	mutexes    map[string]*MutexGroup
	mutexOrder []*MutexGroup

	selector    *Spec
	subcommands map[string]*Subcommand
	subOrder    []*Subcommand
}

func newRegistry(path []string, cfg registryConfig) *Registry {
	r := &Registry{
		cfg:         cfg,
		path:        path,
		bySignature: make(map[string]*Spec),
		options:     make(map[string]*Spec),
		dests:       make(map[string]*Spec),
		groups:      make(map[string]*DisplayGroup),
		mutexes:     make(map[string]*MutexGroup),
		subcommands: make(map[string]*Subcommand),
	}
	if len(cfg.helpTokens) > 0 {
		help, err := newSpec(cfg.helpTokens, &declaration{
			action:    ActionHelp,
			hasAction: true,
			dest:      "help",
			help:      "show this help message and exit",
		}, cfg.prefixChars)
		if err == nil {
			_, _ = r.register(help)
		}
	}
	return r
}

// register adds s, or returns the existing declaration with the same
// signature. A different declaration claiming a taken option string or dest
// is rejected.
func (r *Registry) register(s *Spec) (*Spec, error) {
	if existing, ok := r.bySignature[s.signature]; ok {
		return existing, nil
	}
	for _, opt := range s.optionStrings {
		if other, ok := r.options[opt]; ok {
			return nil, duplicateDeclarationError(opt, other, s)
		}
	}
	if other, ok := r.dests[s.dest]; ok && !(s.isOption() && other.isOption() && s.explicitDest) {
		return nil, &ParseError{
			Type: ErrorTypeDuplicateDeclaration,
			Message: fmt.Sprintf("conflicting declaration for dest %q: %s and %s bind the same name; "+
				"give one of them a distinct Dest", s.dest, other.Name(), s.Name()),
			Specs:      []string{other.Name(), s.Name()},
			Signatures: []string{other.Signature(), s.Signature()},
			Path:       r.path,
		}
	}
	if s.mutex != nil && s.mutex.owner != r {
		return nil, invalidDeclaration("%s: mutex group %q belongs to another parser level", s.Name(), s.mutex.name)
	}

	s.dest = r.cfg.strings.Intern(s.dest)
	r.cfg.strings.InternAll(s.optionStrings)

	r.specs = append(r.specs, s)
	r.bySignature[s.signature] = s
	for _, opt := range s.optionStrings {
		r.options[opt] = s
		r.optionOrder = append(r.optionOrder, opt)
		if negativeNumber.MatchString(opt) {
			r.negativeLike = true
		}
	}
	if _, ok := r.dests[s.dest]; !ok {
		r.dests[s.dest] = s
	}
	if s.IsPositional() {
		r.positionals = append(r.positionals, s)
	}
	if s.group != nil {
		s.group.members = append(s.group.members, s)
	}
	if s.mutex != nil {
		s.mutex.members = append(s.mutex.members, s)
	}

	r.bump()
	return s, nil
}

func (r *Registry) bump() {
	*r.cfg.generation++
}

// Group returns the display group called name, creating it on first use.
func (r *Registry) Group(name, description string) *DisplayGroup {
	if g, ok := r.groups[name]; ok {
		if g.description == "" {
			g.description = description
		}
		return g
	}
	g := &DisplayGroup{name: name, description: description}
	r.groups[name] = g
	r.groupOrder = append(r.groupOrder, g)
	return g
}

// MutexGroup returns the mutually exclusive group called name, creating it on
// first use. The required flag of the first call wins.
func (r *Registry) MutexGroup(name string, required bool) *MutexGroup {
	if g, ok := r.mutexes[name]; ok {
		return g
	}
	g := &MutexGroup{name: name, required: required, owner: r}
	r.mutexes[name] = g
	r.mutexOrder = append(r.mutexOrder, g)
	r.bump()
	return g
}

// Path returns the subcommand path of this registry, empty for the root.
func (r *Registry) Path() []string { return slices.Clone(r.path) }

// Specs returns every declaration in registration order, the built-in help
// option included.
func (r *Registry) Specs() []*Spec { return slices.Clone(r.specs) }

// Lookup returns the declaration owning an option string, or nil.
func (r *Registry) Lookup(option string) *Spec { return r.options[option] }

// OptionStrings returns every registered option string in registration order.
func (r *Registry) OptionStrings() []string { return slices.Clone(r.optionOrder) }

// Groups returns the display groups in creation order.
func (r *Registry) Groups() []*DisplayGroup { return slices.Clone(r.groupOrder) }

// MutexGroups returns the mutually exclusive groups in creation order.
func (r *Registry) MutexGroups() []*MutexGroup { return slices.Clone(r.mutexOrder) }

// Subcommands returns the subcommands in creation order.
func (r *Registry) Subcommands() []*Subcommand { return slices.Clone(r.subOrder) }

// Selector returns the positional that chooses a subcommand, nil when no
// subcommand exists.
func (r *Registry) Selector() *Spec { return r.selector }

// matchOrder returns the positionals in the order the matcher consumes
// them; the subcommand selector always comes last.
func (r *Registry) matchOrder() []*Spec {
	out := slices.Clone(r.positionals)
	if r.selector != nil {
		out = append(out, r.selector)
	}
	return out
}

// subcommandNames returns the registered subcommand names in creation order.
func (r *Registry) subcommandNames() []string {
	names := make([]string, len(r.subOrder))
	for i, s := range r.subOrder {
		names[i] = s.name
	}
	return names
}
