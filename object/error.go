package object

import (
	"fmt"
)

// Error is an error carried as a value. Operations that fail lazily, such as
// reading a missing member, produce one; it raises its error once something
// tries to convert it, and the or_else operator replaces it.
type Error struct {
	err error
}

func (e *Error) Type() Type {
	return ERROR
}

func (e *Error) Inspect() string {
	return fmt.Sprintf("error(%q)", e.err.Error())
}

func (e *Error) String() string {
	return e.err.Error()
}

func (e *Error) Value() error {
	return e.err
}

func (e *Error) Interface() interface{} {
	return e.err
}

func (e *Error) Equals(other Object) bool {
	otherError, ok := other.(*Error)
	if !ok {
		return false
	}
	return e.err.Error() == otherError.err.Error()
}

// GetMember returns the error itself, so chained member reads keep the first
// failure.
func (e *Error) GetMember(name string) Object {
	return e
}

func NewError(err error) *Error {
	return &Error{err: err}
}

func Errorf(format string, a ...interface{}) *Error {
	return &Error{err: fmt.Errorf(format, a...)}
}
