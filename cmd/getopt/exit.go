package main

import (
	"errors"
	"reflect"

	"github.com/dzonerzy/go-getopt/getopt"
)

// ExitError requests a specific exit code.
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

// ExitCodeDefaults holds the codes used when no specific mapping matches.
type ExitCodeDefaults struct {
	Success      int // default: 0
	GeneralError int // default: 1
	Misusage     int // default: 2
	RuleError    int // default: 3
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, Misusage: 2, RuleError: 3}
}

// ExitCodeManager maps errors to process exit codes.
type ExitCodeManager struct {
	codesByType map[reflect.Type]int
	defaults    ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByType: make(map[reflect.Type]int),
		defaults:    defaultExitDefaults(),
	}
	return m.DefineError(&RulesFileError{}, m.defaults.RuleError)
}

// DefineError maps a concrete error type to an exit code. It is consulted
// after ExitError and the getopt error kinds.
func (m *ExitCodeManager) DefineError(err error, code int) *ExitCodeManager {
	if err == nil {
		return m
	}
	m.codesByType[reflect.TypeOf(err)] = code
	return m
}

// resolve converts an error to an exit code.
// Precedence:
//  1. ExitError (requested code)
//  2. getopt error kind: rule errors, parse and usage errors
//  3. concrete error type mapping (DefineError)
//  4. GeneralError
func (m *ExitCodeManager) resolve(err error) int {
	if err == nil {
		return m.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var (
		ruleErr  *getopt.RuleError
		parseErr *getopt.ParseError
		useErr   *getopt.UsageError
	)
	switch {
	case errors.As(err, &ruleErr):
		return m.defaults.RuleError
	case errors.As(err, &parseErr), errors.As(err, &useErr):
		return m.defaults.Misusage
	}

	for t, code := range m.codesByType {
		if errors.As(err, reflect.New(t).Interface()) {
			return code
		}
	}
	return m.defaults.GeneralError
}
