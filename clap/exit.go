package clap

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-clap/middleware"
)

// ExitError requests a specific exit code from the program's report step.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success         int // default: 0
	GeneralError    int // default: 1
	MisusageError   int // default: 2
	ValidationError int // default: 3
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2, ValidationError: 3}
}

// ExitCodeManager maps errors returned by a session to process exit codes.
// The engine never exits; the program does, with the resolved code.
type ExitCodeManager struct {
	codesByName map[string]int
	codesByType map[reflect.Type]int
	codesByKind map[ErrorType]int
	defaults    ExitCodeDefaults
}

// NewExitCodeManager returns a manager with every error kind prewired.
func NewExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByName: make(map[string]int),
		codesByType: make(map[reflect.Type]int),
		codesByKind: make(map[ErrorType]int),
		defaults:    defaultExitDefaults(),
	}
	m.prewire()
	return m
}

func (e *ExitCodeManager) prewire() {
	// Command line mistakes
	for _, t := range []ErrorType{
		ErrorTypeAmbiguousOption,
		ErrorTypeUnknownSubcommand,
		ErrorTypeMissingRequired,
		ErrorTypeConflictingArguments,
		ErrorTypeExpectedArgument,
		ErrorTypeIgnoredExplicitArgument,
	} {
		e.codesByKind[t] = e.defaults.MisusageError
	}
	e.codesByKind[ErrorTypeInvalidValue] = e.defaults.ValidationError

	// Programming mistakes
	e.codesByKind[ErrorTypeDuplicateDeclaration] = e.defaults.GeneralError
	e.codesByKind[ErrorTypeNoSessionIdentity] = e.defaults.GeneralError
	e.codesByKind[ErrorTypeInvalidDeclaration] = e.defaults.GeneralError

	e.codesByType[reflect.TypeOf(&middleware.RecoveryError{})] = e.defaults.GeneralError
}

// Define registers a named exit code for documentation or lookup with Code.
// It does not affect resolution.
func (e *ExitCodeManager) Define(name string, code int) *ExitCodeManager {
	e.codesByName[name] = code
	return e
}

// Code returns a code registered with Define.
func (e *ExitCodeManager) Code(name string) (int, bool) {
	code, ok := e.codesByName[name]
	return code, ok
}

// DefineError maps an error's dynamic type to an exit code.
func (e *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return e
	}
	e.codesByType[reflect.TypeOf(err)] = code
	return e
}

// DefineKind overrides the exit code of one ParseError kind.
func (e *ExitCodeManager) DefineKind(typ ErrorType, code int) *ExitCodeManager {
	e.codesByKind[typ] = code
	return e
}

// Default replaces the default codes and rewires the kinds to them.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	e.prewire()
	return e
}

// Resolve converts an error to an exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. ParseError kind mapping (DefineKind)
//  3. Concrete error type mapping (DefineError)
//  4. Default codes
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var pe *ParseError
	if errors.As(err, &pe) {
		if code, ok := e.codesByKind[pe.Type]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	for t, code := range e.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}
	return e.defaults.GeneralError
}
