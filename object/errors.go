package object

import (
	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

func typeErrorf(format string, args ...any) error {
	return errz.TypeErrorf(format, args...)
}

func conversionError(obj Object, target string) error {
	return errz.TypeErrorf("can't convert from %s to %s", obj.Type(), target)
}

func unboundError(ctx Context, id symbol.ID) error {
	table := ctx.Symbols()
	if table == nil {
		table = symbol.Default
	}
	return errz.Unbound(table.Name(id))
}

// MissingMember returns the error value produced when reading a member that
// obj does not have.
func MissingMember(obj Object, name string) *Error {
	return NewError(errz.Newf(errz.ErrType, errz.E3004, "%s has no member '%s'", obj.Type(), name))
}

func outOfRange(obj Object, i int64) *Error {
	return NewError(errz.Newf(errz.ErrType, errz.E3003, "index %d out of range for %s", i, obj.Type()))
}
