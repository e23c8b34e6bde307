package middleware

import (
	"fmt"
	"runtime"
)

// Recovery creates a middleware that turns a panic inside the sweep into a
// *RecoveryError. The stack is captured always and printed only when
// WithStackTrace(true) is set.
func Recovery(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return RecoveryWithHandler(func(panicVal any, path string, stack []byte) error {
		if config.PrintStack && config.Output != nil {
			fmt.Fprintf(config.Output, "PANIC in sweep '%s': %v\n", pathName(path), panicVal)
			fmt.Fprintf(config.Output, "Stack trace:\n%s\n", stack)
		}
		return &RecoveryError{Panic: panicVal, Path: path, Stack: stack}
	}, options...)
}

// RecoveryWithHandler creates a recovery middleware with a custom panic handler
func RecoveryWithHandler(
	handler func(panicVal any, path string, stack []byte) error,
	options ...MiddlewareOption,
) Middleware {
	config := newConfig(options)

	return func(next SweepFunc) SweepFunc {
		return func(s Sweep) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, config.StackSize)
					stack = stack[:runtime.Stack(stack, false)]

					s.Set("panic_value", r)
					err = handler(r, s.Path(), stack)
				}
			}()

			return next(s)
		}
	}
}

// NoopRecovery lets panics propagate; useful while debugging a converter.
func NoopRecovery() Middleware {
	return func(next SweepFunc) SweepFunc {
		return next
	}
}
