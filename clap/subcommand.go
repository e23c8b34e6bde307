package clap

import "slices"

type invokedState uint8

const (
	stateUndetermined invokedState = iota
	stateInvoked
	stateNotInvoked
)

// Subcommand is a nested declaration space selected by a positional token.
// Declarations on a subcommand that was not chosen bind their defaults.
type Subcommand struct {
	session  *Session
	parent   *Subcommand
	owner    *Registry
	name     string
	help     string
	registry *Registry
	state    invokedState
}

// SubcommandOption configures a subcommand on first use.
type SubcommandOption func(*Subcommand)

// SubcommandHelp sets the help text shown next to the subcommand name.
func SubcommandHelp(text string) SubcommandOption {
	return func(c *Subcommand) {
		if c.help == "" {
			c.help = text
		}
	}
}

// addSubcommand returns the subcommand called name, creating it and its
// registry on first use.
func (r *Registry) addSubcommand(s *Session, parent *Subcommand, name string, opts []SubcommandOption) *Subcommand {
	c, ok := r.subcommands[name]
	if !ok {
		path := append(slices.Clone(r.path), name)
		c = &Subcommand{
			session:  s,
			parent:   parent,
			owner:    r,
			name:     r.cfg.strings.Intern(name),
			registry: newRegistry(path, r.cfg),
		}
		r.subcommands[name] = c
		r.subOrder = append(r.subOrder, c)

		if r.selector == nil {
			r.selector = &Spec{dest: selectorDest, action: actionSelector, nargs: selector, help: "subcommands"}
		}
		r.selector.choices = append(r.selector.choices, c.name)
		r.selector.signature = r.selector.computeSignature()
		r.bump()
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Name returns the subcommand name.
func (c *Subcommand) Name() string { return c.name }

// Help returns the help text.
func (c *Subcommand) Help() string { return c.help }

// Path returns the names from the root down to this subcommand.
func (c *Subcommand) Path() []string { return c.registry.Path() }

// Registry returns the declarations of this subcommand.
func (c *Subcommand) Registry() *Registry { return c.registry }

// Invoked reports whether the tokens select this subcommand. The answer is
// computed on first use and kept until the tokens change.
func (c *Subcommand) Invoked() (bool, error) {
	switch c.state {
	case stateInvoked:
		return true, nil
	case stateNotInvoked:
		return false, nil
	case stateUndetermined:
	}

	if c.parent != nil {
		ok, err := c.parent.Invoked()
		if err != nil {
			return false, err
		}
		if !ok {
			c.state = stateNotInvoked
			return false, nil
		}
	}

	res, err := c.session.resolve()
	if err != nil {
		return false, err
	}

	c.state = stateNotInvoked
	if ns := res.ns.at(c.owner.path); ns != nil {
		if name, ok := ns.selected(); ok && name == c.name {
			c.state = stateInvoked
		}
	}
	return c.state == stateInvoked, nil
}

// resetState forgets the invoked answer for c and everything below it.
func (c *Subcommand) resetState() {
	c.state = stateUndetermined
	for _, child := range c.registry.subOrder {
		child.resetState()
	}
}

// Declare registers a declaration on this subcommand and returns its value.
func (c *Subcommand) Declare(names []string, opts ...Option) (Value, error) {
	return c.session.declare(c.registry, c, names, opts)
}

// Parse is Declare with the names given as one space-separated string.
func (c *Subcommand) Parse(names string, opts ...Option) (Value, error) {
	return c.session.declare(c.registry, c, []string{names}, opts)
}

// Subcommand returns the nested subcommand called name.
func (c *Subcommand) Subcommand(name string, opts ...SubcommandOption) *Subcommand {
	return c.registry.addSubcommand(c.session, c, name, opts)
}

// Group returns the display group called name within this subcommand.
func (c *Subcommand) Group(name, description string) *DisplayGroup {
	return c.registry.Group(name, description)
}

// MutexGroup returns the mutually exclusive group called name within this
// subcommand.
func (c *Subcommand) MutexGroup(name string, required bool) *MutexGroup {
	return c.registry.MutexGroup(name, required)
}
