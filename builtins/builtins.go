// Package builtins defines the native functions hosts install into a
// context. Natives read their arguments from variables: the first argument
// is "input", the next ones "_1" and "_2".
package builtins

import (
	"errors"

	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

func input(ctx object.Context) (object.Object, error) {
	return object.Param(ctx, symbol.Input)
}

func ToString(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	s, err := object.AsString(value)
	if err != nil {
		return nil, err
	}
	return object.NewString(s), nil
}

func ToInt(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	i, err := object.AsInt(value)
	if err != nil {
		return nil, err
	}
	return object.NewInt(i), nil
}

func ToReal(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	f, err := object.AsFloat(value)
	if err != nil {
		return nil, err
	}
	return object.NewFloat(f), nil
}

func ToBoolean(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	b, err := object.AsBool(value)
	if err != nil {
		return nil, err
	}
	return object.NewBool(b), nil
}

func ToColor(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	c, err := object.AsColor(value)
	if err != nil {
		return nil, err
	}
	return object.NewColor(c), nil
}

// Length returns the number of items of a collection or the number of
// characters of a string. Nil has length 0.
func Length(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	switch value := value.(type) {
	case object.Indexable:
		return object.NewInt(int64(value.Len())), nil
	case *object.NilType:
		return object.NewInt(0), nil
	case *object.Error:
		return nil, value.Value()
	}
	return nil, errz.TypeErrorf("length: unsupported argument (%s given)", value.Type())
}

func TypeName(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	return object.NewString(string(value.Type())), nil
}

// Throw raises a user error with the input as message.
func Throw(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := object.AsString(value)
	if err != nil {
		return nil, err
	}
	return nil, errz.New(errz.ErrUser, errz.E3011, msg)
}

// ErrorValue returns an error value without raising it. Using the value
// raises the error, unless it is replaced with "or else".
func ErrorValue(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	msg, err := object.AsString(value)
	if err != nil {
		return nil, err
	}
	return object.NewError(errors.New(msg)), nil
}

// Trace logs the input at debug level and returns it.
func Trace(ctx object.Context) (object.Object, error) {
	value, err := input(ctx)
	if err != nil {
		return nil, err
	}
	ctx.Logger().Debug().Str("type", string(value.Type())).Str("value", value.Inspect()).Msg("trace")
	return value, nil
}

// passInput is the dependency function of natives that return their input.
func passInput(ctx object.Context, dep object.Dependency) (object.Object, error) {
	return object.OptionalParam(ctx, symbol.Input, object.Dummy), nil
}
