package clap

var defaultSession *Session

// DefaultSession returns the process-wide session, creating it over
// os.Args[1:] on first use.
func DefaultSession() *Session {
	if defaultSession == nil {
		defaultSession = NewSession()
	}
	return defaultSession
}

// Declare registers a declaration on the default session.
func Declare(names []string, opts ...Option) (Value, error) {
	return DefaultSession().Declare(names, opts...)
}

// Parse registers a declaration on the default session, names given as one
// space-separated string.
func Parse(names string, opts ...Option) (Value, error) {
	return DefaultSession().Parse(names, opts...)
}

// Sub returns a top-level subcommand of the default session.
func Sub(name string, opts ...SubcommandOption) *Subcommand {
	return DefaultSession().Subcommand(name, opts...)
}

// WithGroup runs fn inside a display group scope of the default session.
func WithGroup(name, description string, fn func(g *DisplayGroup) error) error {
	return DefaultSession().WithGroup(name, description, fn)
}

// SetTokens replaces the tokens of the default session.
func SetTokens(tokens []string) {
	DefaultSession().SetTokens(tokens)
}

// SetMainModuleName sets the package name the default session's GroupNamer
// leaves ungrouped.
func SetMainModuleName(name string) {
	DefaultSession().SetMainModuleName(name)
}

// Finish finishes the default session.
func Finish() (*Report, error) {
	return DefaultSession().Finish()
}

// ResetSession discards the default session; the next use starts empty over
// the current os.Args.
func ResetSession() {
	defaultSession = nil
}
