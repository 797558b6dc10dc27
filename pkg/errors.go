package kaleido

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrExpectedIdentifier = errors.New("expected identifier")
	ErrExpectedToken      = errors.New("expected token")

	ErrUnknownVariable       = errors.New("unknown variable")
	ErrUnknownFunction       = errors.New("unknown function")
	ErrArgumentCountMismatch = errors.New("argument count mismatch")
	ErrInvalidOperator       = errors.New("invalid binary operator")
	ErrRedefinition          = errors.New("function cannot be redefined")
	ErrDuplicateParameter    = errors.New("duplicate parameter name")
	ErrVerification          = errors.New("function verification failed")

	// ErrCallDepth is returned by the Evaluator when calls nest deeper than
	// the configured limit.
	ErrCallDepth = errors.New("call depth exceeded")

	// ErrInvalidOptions indicates a malformed Options value or operator table.
	ErrInvalidOptions = errors.New("invalid options")
)

// CompileError is an error about a single top-level declaration. Kind is one
// of the sentinel errors above and is what Unwrap returns, so callers can use
// errors.Is to classify it.
type CompileError struct {
	Kind   error
	Loc    *Location
	Detail string
}

func newError(kind error, loc *Location, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind:   kind,
		Loc:    loc,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (e *CompileError) Error() string {
	msg := e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}

	if e.Loc != nil {
		return fmt.Sprintf("%s: %s", e.Loc, msg)
	}

	return msg
}

func (e *CompileError) Unwrap() error {
	return e.Kind
}
