// Package errz defines the errors raised while evaluating compiled scripts.
package errz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// ErrRuntime indicates a general runtime error, including malformed
	// bytecode.
	ErrRuntime ErrorKind = iota
	// ErrStackOverflow indicates the recursion bound was exceeded.
	ErrStackOverflow
	// ErrUnboundVariable indicates a read of a variable that was never set.
	ErrUnboundVariable
	// ErrType indicates a failed conversion or an invalid operation on a type.
	ErrType
	// ErrUser indicates a native or script function signalled failure.
	ErrUser
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrRuntime:
		return "runtime error"
	case ErrStackOverflow:
		return "stack overflow"
	case ErrUnboundVariable:
		return "unbound variable"
	case ErrType:
		return "type error"
	case ErrUser:
		return "error"
	default:
		return "error"
	}
}

// UnknownCallSite is the name used when the call site of a failing call
// could not be recovered from the bytecode.
const UnknownCallSite = "???"

// ScriptError is raised by script evaluation. CallStack lists the names of
// the functions the error propagated through, innermost first.
type ScriptError struct {
	Kind      ErrorKind
	Code      ErrorCode
	Message   string
	CallStack []string
	Cause     error
}

// Error implements the error interface.
func (e *ScriptError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	// Runs of the same frame, as produced by deep recursion, are collapsed
	for i := 0; i < len(e.CallStack); {
		j := i + 1
		for j < len(e.CallStack) && e.CallStack[j] == e.CallStack[i] {
			j++
		}
		b.WriteString("\n  in function ")
		b.WriteString(e.CallStack[i])
		if j-i > 1 {
			fmt.Fprintf(&b, " (%d times)", j-i)
		}
		i = j
	}
	return b.String()
}

// Unwrap returns the underlying cause of the error.
func (e *ScriptError) Unwrap() error {
	return e.Cause
}

// InFunction returns a copy of the error with the given function name
// appended to its call stack.
func (e *ScriptError) InFunction(name string) *ScriptError {
	stack := make([]string, len(e.CallStack), len(e.CallStack)+1)
	copy(stack, e.CallStack)
	return &ScriptError{
		Kind:      e.Kind,
		Code:      e.Code,
		Message:   e.Message,
		CallStack: append(stack, name),
		Cause:     e.Cause,
	}
}

// New creates a ScriptError of the given kind.
func New(kind ErrorKind, code ErrorCode, message string) *ScriptError {
	return &ScriptError{Kind: kind, Code: code, Message: message}
}

// Newf creates a ScriptError with a formatted message.
func Newf(kind ErrorKind, code ErrorCode, format string, args ...any) *ScriptError {
	return New(kind, code, fmt.Sprintf(format, args...))
}

// TypeErrorf creates a type error.
func TypeErrorf(format string, args ...any) *ScriptError {
	return Newf(ErrType, E3001, format, args...)
}

// RuntimeErrorf creates a general runtime error.
func RuntimeErrorf(format string, args ...any) *ScriptError {
	return Newf(ErrRuntime, E3007, format, args...)
}

// UserErrorf creates an error signalled by a script or native function.
func UserErrorf(format string, args ...any) *ScriptError {
	return Newf(ErrUser, E3011, format, args...)
}

// DivisionByZero creates the type error raised by integer and float division
// or modulo by zero.
func DivisionByZero() *ScriptError {
	return New(ErrType, E3002, "division by zero")
}

// StackOverflow creates the error raised when the recursion bound is exceeded.
func StackOverflow(depth int) *ScriptError {
	return Newf(ErrStackOverflow, E3006, "recursion deeper than %d levels", depth)
}

// Unbound creates the error raised when reading an unset variable.
func Unbound(name string) *ScriptError {
	return Newf(ErrUnboundVariable, E3005, "variable not set: %s", name)
}

// From converts any error to a ScriptError. Errors that are not already
// script errors are treated as failures signalled by a native function.
func From(err error) *ScriptError {
	if err == nil {
		return nil
	}
	var se *ScriptError
	if errors.As(err, &se) {
		return se
	}
	return &ScriptError{Kind: ErrUser, Code: E3011, Message: err.Error(), Cause: err}
}

// Decorate records that err was raised while calling the function named
// callSite.
func Decorate(err error, callSite string) error {
	if err == nil {
		return nil
	}
	if callSite == "" {
		callSite = UnknownCallSite
	}
	return From(err).InFunction(callSite)
}

// KindOf returns the kind of a script error, or ErrRuntime for other errors.
func KindOf(err error) ErrorKind {
	var se *ScriptError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ErrRuntime
}

// IsKind returns true if err is a ScriptError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var se *ScriptError
	return errors.As(err, &se) && se.Kind == kind
}
