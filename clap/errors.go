package clap

import (
	"fmt"
	"strings"
)

// ErrorType represents error categories produced by the engine.
// These categories drive errors.Is matching and exit-code mapping (via ExitCodeManager).
type ErrorType string

const (
	ErrorTypeAmbiguousOption         ErrorType = "ambiguous_option"
	ErrorTypeDuplicateDeclaration    ErrorType = "duplicate_declaration"
	ErrorTypeUnknownSubcommand       ErrorType = "unknown_subcommand"
	ErrorTypeMissingRequired         ErrorType = "missing_required"
	ErrorTypeConflictingArguments    ErrorType = "conflicting_arguments"
	ErrorTypeInvalidValue            ErrorType = "invalid_value"
	ErrorTypeNoSessionIdentity       ErrorType = "no_session_identity"
	ErrorTypeExpectedArgument        ErrorType = "expected_argument"
	ErrorTypeIgnoredExplicitArgument ErrorType = "ignored_explicit_argument"
	ErrorTypeInvalidDeclaration      ErrorType = "invalid_declaration"
	ErrorTypeInternal                ErrorType = "internal_error"
)

// Sentinels for errors.Is. Only the Type field takes part in the comparison.
var (
	ErrAmbiguousOption         = &ParseError{Type: ErrorTypeAmbiguousOption}
	ErrDuplicateDeclaration    = &ParseError{Type: ErrorTypeDuplicateDeclaration}
	ErrUnknownSubcommand       = &ParseError{Type: ErrorTypeUnknownSubcommand}
	ErrMissingRequired         = &ParseError{Type: ErrorTypeMissingRequired}
	ErrConflictingArguments    = &ParseError{Type: ErrorTypeConflictingArguments}
	ErrInvalidValue            = &ParseError{Type: ErrorTypeInvalidValue}
	ErrNoSessionIdentity       = &ParseError{Type: ErrorTypeNoSessionIdentity}
	ErrExpectedArgument        = &ParseError{Type: ErrorTypeExpectedArgument}
	ErrIgnoredExplicitArgument = &ParseError{Type: ErrorTypeIgnoredExplicitArgument}
	ErrInvalidDeclaration      = &ParseError{Type: ErrorTypeInvalidDeclaration}
)

// ParseError is the structured error returned by declarations and sweeps.
type ParseError struct {
	Type    ErrorType
	Message string

	// Specs holds the display names of the offending declarations.
	Specs []string
	// Tokens holds the raw input tokens involved, if any.
	Tokens []string
	// Candidates lists what would have been accepted (ambiguous matches,
	// registered subcommand names).
	Candidates []string
	// Signatures carries both canonical signatures of a declaration conflict.
	Signatures []string
	// Suggestion is a fuzzy "did you mean" hint, empty when nothing is close.
	Suggestion string
	// Path is the subcommand path of the registry that raised the error.
	Path []string

	Cause error
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}
	return e.Message
}

// Unwrap returns the underlying cause, typically a converter error.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *ParseError of the same Type.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// NewParseError creates a new ParseError with the given type and message
func NewParseError(errType ErrorType, message string) *ParseError {
	return &ParseError{
		Type:    errType,
		Message: message,
	}
}

func argumentError(errType ErrorType, spec *Spec, format string, args ...any) *ParseError {
	msg := fmt.Sprintf(format, args...)
	e := &ParseError{Type: errType, Message: msg}
	if spec != nil {
		name := spec.Name()
		e.Specs = []string{name}
		e.Message = "argument " + name + ": " + msg
	}
	return e
}

func ambiguousOptionError(token string, candidates []string) *ParseError {
	return &ParseError{
		Type:       ErrorTypeAmbiguousOption,
		Message:    fmt.Sprintf("ambiguous option: %s could match %s", token, strings.Join(candidates, ", ")),
		Tokens:     []string{token},
		Candidates: candidates,
	}
}

func duplicateDeclarationError(option string, existing, incoming *Spec) *ParseError {
	return &ParseError{
		Type: ErrorTypeDuplicateDeclaration,
		Message: fmt.Sprintf(
			"conflicting declaration for %s: it was declared with different constraints; "+
				"repeat the exact same declaration to reuse it", option),
		Specs:      []string{existing.Name()},
		Tokens:     []string{option},
		Signatures: []string{existing.Signature(), incoming.Signature()},
	}
}

func missingRequiredError(names []string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeMissingRequired,
		Message: "the following arguments are required: " + strings.Join(names, ", "),
		Specs:   names,
	}
}

func requiredGroupError(names []string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeConflictingArguments,
		Message: "one of the arguments " + strings.Join(names, " ") + " is required",
		Specs:   names,
	}
}

func notAllowedWithError(spec, other *Spec) *ParseError {
	e := argumentError(ErrorTypeConflictingArguments, spec, "not allowed with argument %s", other.Name())
	e.Specs = append(e.Specs, other.Name())
	return e
}

func unknownSubcommandError(spec *Spec, values, names []string, suggestion string) *ParseError {
	e := argumentError(ErrorTypeUnknownSubcommand, spec,
		"failed to find subcommand %v in args: %v", names, values)
	if suggestion != "" {
		e.Message += " (did you mean " + suggestion + "?)"
	}
	e.Tokens = values
	e.Candidates = names
	e.Suggestion = suggestion
	return e
}

func ignoredExplicitError(spec *Spec, explicit string) *ParseError {
	e := argumentError(ErrorTypeIgnoredExplicitArgument, spec, "ignored explicit argument '%s'", explicit)
	e.Tokens = []string{explicit}
	return e
}

func expectedArgumentError(spec *Spec) *ParseError {
	return argumentError(ErrorTypeExpectedArgument, spec, "%s", spec.nargs.expectedMessage())
}
