package clap

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dzonerzy/go-clap/internal/fuzzy"
	"github.com/dzonerzy/go-clap/internal/intern"
	"github.com/dzonerzy/go-clap/internal/pool"
	clapio "github.com/dzonerzy/go-clap/io"
	"github.com/dzonerzy/go-clap/middleware"
)

// Session accumulates declarations over one token list and resolves each
// declaration as if the whole final set had been declared up front.
//
// A Session is owned by one goroutine; it does no locking.
type Session struct {
	tokens       []string
	logger       *clapio.Logger
	helpTokens   []string
	returnOnHelp any
	namer        GroupNamer
	mainModule   string
	chain        middleware.MiddlewareChain
	cacheSize    int
	prefixChars  string
	allowAbbrev  bool

	root       *Registry
	generation uint64
	strings    *intern.Table
	values     *valueCache
	patterns   *regexCache

	// last sweep, valid while lastGen matches generation
	last     *sweepResult
	lastErr  error
	lastGen  uint64
	resolved bool
	previous *namespace

	scopes      []groupScope
	active      int
	diagnostics []Diagnostic
	driftWarned bool
	helpAlerted bool
}

type groupScope struct {
	name        string
	description string
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithTokens sets the tokens to parse. The default is os.Args[1:].
func WithTokens(tokens []string) SessionOption {
	return func(s *Session) { s.tokens = slices.Clone(tokens) }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *clapio.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHelpTokens replaces the "-h" and "--help" option strings. No tokens
// disables the built-in help option.
func WithHelpTokens(tokens ...string) SessionOption {
	return func(s *Session) { s.helpTokens = slices.Clone(tokens) }
}

// WithReturnOnHelp sets the raw value returned by declarations while help is
// requested.
func WithReturnOnHelp(v any) SessionOption {
	return func(s *Session) { s.returnOnHelp = v }
}

// WithGroupNamer picks display groups for root declarations made outside any
// group scope.
func WithGroupNamer(n GroupNamer) SessionOption {
	return func(s *Session) { s.namer = n }
}

// WithMiddleware wraps every sweep. Recovery is always installed outermost.
func WithMiddleware(mw ...middleware.Middleware) SessionOption {
	return func(s *Session) { s.chain = s.chain.Use(mw...) }
}

// WithCacheSize bounds the value and pattern caches.
func WithCacheSize(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.cacheSize = n
		}
	}
}

// WithPrefixChars sets the characters that start an option. The default is "-".
func WithPrefixChars(chars string) SessionOption {
	return func(s *Session) {
		if chars != "" {
			s.prefixChars = chars
		}
	}
}

// WithAllowAbbrev toggles unique-prefix matching of long options.
func WithAllowAbbrev(enabled bool) SessionOption {
	return func(s *Session) { s.allowAbbrev = enabled }
}

// NewSession creates an empty session.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		logger:      clapio.NewLogger(clapio.New()),
		helpTokens:  []string{"-h", "--help"},
		mainModule:  "main",
		chain:       middleware.Chain(middleware.Recovery()),
		cacheSize:   DefaultCacheSize,
		prefixChars: "-",
		allowAbbrev: true,
	}
	if len(os.Args) > 1 {
		s.tokens = slices.Clone(os.Args[1:])
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.strings = intern.NewTable(64)
	s.values = newValueCache(s.cacheSize)
	s.patterns = newRegexCache(s.cacheSize)
	s.root = newRegistry(nil, s.registryConfig())
	return s
}

func (s *Session) registryConfig() registryConfig {
	return registryConfig{
		prefixChars: s.prefixChars,
		allowAbbrev: s.allowAbbrev,
		helpTokens:  s.helpTokens,
		generation:  &s.generation,
		strings:     s.strings,
	}
}

// Declare registers a root declaration and returns the value bound to it.
// names are option strings ("-k", "--keyword") or one positional name; a
// positional may instead be named with Dest.
func (s *Session) Declare(names []string, opts ...Option) (Value, error) {
	return s.declare(s.root, nil, names, opts)
}

// Parse is Declare with the names given as one space-separated string, such
// as "--keyword -k".
func (s *Session) Parse(names string, opts ...Option) (Value, error) {
	return s.declare(s.root, nil, []string{names}, opts)
}

func (s *Session) declare(reg *Registry, sub *Subcommand, names []string, opts []Option) (Value, error) {
	d := newDeclaration(opts)
	s.applyGroup(reg, d)

	spec, err := newSpec(splitNames(names), d, s.prefixChars)
	if err != nil {
		return Value{}, err
	}
	if spec, err = reg.register(spec); err != nil {
		return Value{}, err
	}

	if s.helpRequested() {
		if s.active == 0 && !s.helpAlerted {
			s.helpAlerted = true
			s.logger.Warning("help requested outside Run; call Finish after the last declaration to render it")
		}
		return Value{raw: s.returnOnHelp, help: true}, nil
	}

	if sub != nil {
		invoked, err := sub.Invoked()
		if err != nil {
			return Value{}, err
		}
		if !invoked {
			return spec.fallback()
		}
	}
	return s.lookup(reg, spec)
}

func (s *Session) applyGroup(reg *Registry, d *declaration) {
	if d.group != nil {
		return
	}
	if n := len(s.scopes); n > 0 {
		scope := s.scopes[n-1]
		d.group = reg.Group(scope.name, scope.description)
		return
	}
	if s.namer != nil && reg == s.root {
		if name := s.namer.GroupName(s.mainModule); name != "" {
			d.group = reg.Group(name, "")
		}
	}
}

// lookup returns the cached value of spec, sweeping when the registry
// changed since it was computed.
func (s *Session) lookup(reg *Registry, spec *Spec) (Value, error) {
	key := cacheKey(reg.path, spec.signature)
	if e, ok := s.values.get(key, s.generation); ok {
		return Value{raw: cloneValue(e.value)}, nil
	}

	res, err := s.resolve()
	if err != nil {
		return Value{}, err
	}
	ns := res.ns.at(reg.path)
	if ns == nil {
		return spec.fallback()
	}
	v, _ := ns.Get(spec.dest)
	s.values.put(key, cacheEntry{value: v, generation: s.generation})
	return Value{raw: cloneValue(v)}, nil
}

// fallback is the value of a declaration whose subcommand was not chosen.
func (s *Spec) fallback() (Value, error) {
	v := s.defaultVal
	if str, ok := v.(string); ok && s.converter != nil {
		converted, err := s.convert(str)
		if err != nil {
			return Value{}, err
		}
		v = converted
	}
	return Value{raw: cloneValue(v)}, nil
}

// resolve runs the middleware-wrapped root sweep, reusing the last result
// while no declaration was added.
func (s *Session) resolve() (*sweepResult, error) {
	if s.resolved && s.lastGen == s.generation {
		return s.last, s.lastErr
	}

	req := newSweepRequest(s.tokens, len(s.root.specs))
	var res *sweepResult
	run := s.chain.Apply(func(middleware.Sweep) error {
		var err error
		res, err = s.root.sweep(s.tokens, s.patterns)
		return err
	})
	err := run(req)
	if err != nil {
		res = nil
	}
	s.last, s.lastErr, s.lastGen, s.resolved = res, err, s.generation, true
	if err != nil {
		return nil, err
	}

	if d, ok := req.Get("sweep_duration").(time.Duration); ok {
		s.logger.Debug("sweep over %d tokens took %s", len(s.tokens), d)
	}
	if len(res.extras) > 0 {
		s.logger.Debug("unrecognized arguments so far: %s", strings.Join(res.extras, " "))
	}
	if s.logger.Enabled(clapio.LevelDebug) {
		s.logger.Debug("namespace:\n%s", res.ns.Dump())
	}

	if s.previous != nil {
		s.reportDrift(drift(s.previous, res.ns, ""))
	}
	s.previous = res.ns
	return res, nil
}

func (s *Session) reportDrift(diags []Diagnostic) {
	for _, d := range diags {
		s.diagnostics = append(s.diagnostics, d)
		if !s.driftWarned {
			s.driftWarned = true
			s.logger.Warning("value of %s changed across parses (%v -> %v). A later declaration changed how "+
				"earlier tokens match, or two declarations share this dest; values returned before may be stale",
				d.Dest, d.Previous, d.Current)
			continue
		}
		s.logger.Warning("value of %s changed across parses", d.Dest)
	}
}

// helpRequested reports whether a help token appears before any "--".
func (s *Session) helpRequested() bool {
	if len(s.helpTokens) == 0 {
		return false
	}
	for _, tok := range s.tokens {
		if tok == "--" {
			return false
		}
		if slices.Contains(s.helpTokens, tok) {
			return true
		}
	}
	return false
}

// WithGroup routes every declaration made inside fn into the display group
// called name. The previous group is restored when fn returns or panics.
func (s *Session) WithGroup(name, description string, fn func(g *DisplayGroup) error) error {
	release := s.EnterGroup(name, description)
	defer release()
	return fn(s.root.Group(name, description))
}

// EnterGroup opens a group scope; the returned func closes it. Calling the
// func more than once has no further effect.
func (s *Session) EnterGroup(name, description string) (release func()) {
	s.root.Group(name, description)
	depth := len(s.scopes)
	s.scopes = append(s.scopes, groupScope{name: name, description: description})
	return func() {
		if len(s.scopes) > depth {
			s.scopes = s.scopes[:depth]
		}
	}
}

// Group returns the root display group called name.
func (s *Session) Group(name, description string) *DisplayGroup {
	return s.root.Group(name, description)
}

// MutexGroup returns the root mutually exclusive group called name.
func (s *Session) MutexGroup(name string, required bool) *MutexGroup {
	return s.root.MutexGroup(name, required)
}

// Subcommand returns the top-level subcommand called name.
func (s *Session) Subcommand(name string, opts ...SubcommandOption) *Subcommand {
	return s.root.addSubcommand(s, nil, name, opts)
}

// SetTokens replaces the token list. Cached values, subcommand answers and
// drift history are dropped; declarations are kept.
func (s *Session) SetTokens(tokens []string) {
	s.tokens = slices.Clone(tokens)
	s.generation++
	s.last, s.lastErr, s.resolved, s.previous = nil, nil, false, nil
	s.values.purge()
	for _, c := range s.root.subOrder {
		c.resetState()
	}
}

// Tokens returns the token list being parsed.
func (s *Session) Tokens() []string { return slices.Clone(s.tokens) }

// Reset drops every declaration, group, cached value and diagnostic. The
// tokens and options are kept.
func (s *Session) Reset() {
	s.generation++
	s.strings.Reset()
	s.values.purge()
	s.patterns.compiled.Purge()
	s.root = newRegistry(nil, s.registryConfig())
	s.last, s.lastErr, s.resolved, s.previous = nil, nil, false, nil
	s.scopes = nil
	s.diagnostics = nil
	s.driftWarned, s.helpAlerted = false, false
}

// SetMainModuleName names the package whose declarations the GroupNamer
// leaves ungrouped. The default is "main".
func (s *Session) SetMainModuleName(name string) { s.mainModule = name }

// Diagnostics returns every value drift seen so far.
func (s *Session) Diagnostics() []Diagnostic { return slices.Clone(s.diagnostics) }

// Registry returns the root declarations, for help renderers.
func (s *Session) Registry() *Registry { return s.root }

// Finish ends the declaration phase. It sweeps the final declaration set,
// raises the failures only the complete set can decide (an unsatisfied
// required mutex group, an unknown subcommand) and reports tokens nothing
// matched. Errors are ignored while help is requested.
func (s *Session) Finish() (*Report, error) {
	report := &Report{HelpRequested: s.helpRequested()}
	res, err := s.resolve()
	if err != nil {
		if report.HelpRequested {
			return report, nil
		}
		return report, err
	}

	report.Subcommand = res.ns.invokedPath()
	if len(res.pending) > 0 && !report.HelpRequested {
		return report, res.pending[0]
	}
	if len(res.extras) == 0 {
		return report, nil
	}

	report.Unrecognized = slices.Clone(res.extras)
	options := pool.GetStrings()
	defer pool.PutStrings(options)
	*options = s.reachableOptions(*options, report.Subcommand)
	for _, tok := range res.extras {
		if tok == "" || !s.root.isPrefix(tok[0]) {
			continue
		}
		if hint := fuzzy.SuggestOption(tok, s.prefixChars, *options); hint != "" {
			if report.Suggestions == nil {
				report.Suggestions = make(map[string]string)
			}
			report.Suggestions[tok] = hint
		}
	}

	s.logger.Error("unrecognized arguments: %s", strings.Join(res.extras, " "))
	for _, tok := range res.extras {
		if hint, ok := report.Suggestions[tok]; ok {
			s.logger.Info("did you mean %s instead of %s?", hint, tok)
		}
	}
	return report, nil
}

// reachableOptions appends to out the option strings of the root and of
// every subcommand along path.
func (s *Session) reachableOptions(out, path []string) []string {
	reg := s.root
	out = append(out, reg.optionOrder...)
	for _, name := range path {
		c, ok := reg.subcommands[name]
		if !ok {
			break
		}
		reg = c.registry
		out = append(out, reg.optionOrder...)
	}
	return out
}

// Run calls fn as one declaration block. When the outermost block returns
// without error the session is finished and its report returned; nested
// blocks return a nil report.
func (s *Session) Run(fn func() error) (*Report, error) {
	if err := s.scoped(fn); err != nil {
		return nil, err
	}
	if s.active > 0 {
		return nil, nil
	}
	return s.Finish()
}

func (s *Session) scoped(fn func() error) error {
	s.active++
	defer func() { s.active-- }()
	return fn()
}

// sweepRequest is what middleware sees of a sweep.
type sweepRequest struct {
	path         string
	tokens       []string
	declarations int
	values       map[string]any
}

func newSweepRequest(tokens []string, declarations int) *sweepRequest {
	return &sweepRequest{tokens: tokens, declarations: declarations}
}

func (r *sweepRequest) Path() string { return r.path }

func (r *sweepRequest) Tokens() []string { return r.tokens }

func (r *sweepRequest) Declarations() int { return r.declarations }

func (r *sweepRequest) Get(key string) any { return r.values[key] }

func (r *sweepRequest) Set(key string, value any) {
	if r.values == nil {
		r.values = make(map[string]any)
	}
	r.values[key] = value
}

var _ middleware.Sweep = (*sweepRequest)(nil)
