package getopt

import (
	"errors"
	"fmt"
)

// ErrorType represents error categories for rule compilation and parsing.
// The command in cmd/getopt maps these categories to exit codes.
type ErrorType string

const (
	ErrorTypeBlankFlag       ErrorType = "blank_flag"
	ErrorTypeDuplicateFlag   ErrorType = "duplicate_flag"
	ErrorTypeMalformedRule   ErrorType = "malformed_rule"
	ErrorTypeUnknownOption   ErrorType = "unknown_option"
	ErrorTypeMissingValue    ErrorType = "missing_value"
	ErrorTypeInvalidValue    ErrorType = "invalid_value"
	ErrorTypeAmbiguousDash   ErrorType = "ambiguous_dash"
	ErrorTypeInvalidOption   ErrorType = "invalid_option"
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
)

// ErrRejected can be returned by an option callback to reject a value
// without giving a more specific reason.
var ErrRejected = errors.New("option rejected")

// RuleError is returned while compiling or merging rules: blank flags,
// aliases defined twice, malformed type markers.
type RuleError struct {
	Type    ErrorType
	Message string
	Flag    string // offending alias, when there is one
	Rule    string // rule key as written by the caller
}

func (e *RuleError) Error() string {
	return e.Message
}

// ParseError is returned by Parse. Usage holds the usage message of the
// engine at the time of the failure so callers can print it.
type ParseError struct {
	Type       ErrorType
	Message    string
	Flag       string
	Suggestion string // closest declared long option, for unknown options
	Usage      string
	Cause      error // callback error for ErrorTypeInvalidOption
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// UsageError reports malformed input handed to the engine itself, such as
// an argument list that is not a list of strings.
type UsageError struct {
	Type    ErrorType
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func newRuleError(typ ErrorType, rule, flag, format string, args ...any) *RuleError {
	return &RuleError{
		Type:    typ,
		Message: fmt.Sprintf(format, args...),
		Flag:    flag,
		Rule:    rule,
	}
}

// duplicateError formats the alias with one dash for letters and two for names.
func duplicateError(rule, alias string) *RuleError {
	return newRuleError(ErrorTypeDuplicateFlag, rule, alias,
		"Option %q is being defined more than once.", dashed(alias))
}

func newUsageError(format string, args ...any) *UsageError {
	return &UsageError{
		Type:    ErrorTypeInvalidArgument,
		Message: fmt.Sprintf(format, args...),
	}
}
