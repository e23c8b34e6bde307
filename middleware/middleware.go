// Package middleware wraps the pure token sweep with cross-cutting behavior:
// timing/outcome logging and panic recovery around user converters.
package middleware

import (
	"fmt"
	"io"
	"os"
)

// This package defines middleware using interfaces to avoid import cycles.
// The clap package imports this package and its sweep request satisfies Sweep.

// Sweep describes one matcher run over the token list.
type Sweep interface {
	// Path returns the subcommand path the sweep runs for, "" for the root.
	Path() string

	// Tokens returns the tokens handed to this sweep. Treat as read-only.
	Tokens() []string

	// Declarations returns the number of specs registered at sweep time.
	Declarations() int

	// Set stores a key/value pair for later middleware.
	Set(key string, value any)

	// Get retrieves a value previously stored via Set, nil if absent.
	Get(key string) any
}

// SweepFunc runs one sweep.
type SweepFunc func(s Sweep) error

// Middleware defines the middleware function signature
type Middleware func(next SweepFunc) SweepFunc

// MiddlewareChain represents a chain of middleware functions
//
//nolint:revive // name kept for symmetry with Middleware
type MiddlewareChain []Middleware

// Apply applies the middleware chain to a SweepFunc. Middleware are wrapped
// in the order they appear in the chain, the first one outermost.
func (chain MiddlewareChain) Apply(fn SweepFunc) SweepFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		fn = chain[i](fn)
	}
	return fn
}

// Use returns a new chain with the provided middleware appended.
func (chain MiddlewareChain) Use(middleware ...Middleware) MiddlewareChain {
	out := make(MiddlewareChain, 0, len(chain)+len(middleware))
	out = append(out, chain...)
	return append(out, middleware...)
}

// Chain creates a new middleware chain from the provided middleware, preserving
// order.
func Chain(middleware ...Middleware) MiddlewareChain {
	return MiddlewareChain(middleware)
}

// RecoveryError represents a panic recovered during a sweep, typically from a
// user-supplied converter.
type RecoveryError struct {
	Panic any
	Path  string
	Stack []byte
}

func (e *RecoveryError) Error() string {
	return "sweep " + pathName(e.Path) + " panicked: " + toString(e.Panic)
}

// Configuration types

// MiddlewareConfig contains configuration for middleware behavior
//
//nolint:revive // name kept for symmetry with MiddlewareOption
type MiddlewareConfig struct {
	LogLevel      LogLevel
	LogFormat     LogFormat
	Output        io.Writer
	IncludeTokens bool
	PrintStack    bool
	StackSize     int
}

// LogLevel represents logging levels
type LogLevel int

const (
	LogLevelNone LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// LogFormat represents log formats
type LogFormat int

const (
	LogFormatText LogFormat = iota
	LogFormatJSON
)

// MiddlewareOption configures a middleware.
//
//nolint:revive // name kept for symmetry with MiddlewareConfig
type MiddlewareOption func(config *MiddlewareConfig)

// DefaultConfig returns the configuration used when no option is given.
func DefaultConfig() *MiddlewareConfig {
	return &MiddlewareConfig{
		LogLevel:      LogLevelInfo,
		LogFormat:     LogFormatText,
		Output:        os.Stderr,
		IncludeTokens: true,
		PrintStack:    false,
		StackSize:     4096,
	}
}

func WithLogLevel(level LogLevel) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogLevel = level
	}
}

func WithFormat(format LogFormat) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.LogFormat = format
	}
}

func WithOutput(w io.Writer) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.Output = w
	}
}

func WithTokens(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.IncludeTokens = enabled
	}
}

func WithStackTrace(enabled bool) MiddlewareOption {
	return func(config *MiddlewareConfig) {
		config.PrintStack = enabled
	}
}

func newConfig(options []MiddlewareOption) *MiddlewareConfig {
	config := DefaultConfig()
	for _, option := range options {
		option(config)
	}
	return config
}

// Utility functions

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return t
	case error:
		return t.Error()
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

func pathName(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
