// Package object provides the runtime values manipulated by compiled scripts.
//
// The set of kinds is closed: every value is one of the types in this
// package, and host data enters either as one of these kinds or through a
// type implementing DependencyTracker. Code that needs the Go value behind an
// object usually type asserts:
//
//	switch obj := obj.(type) {
//	case *object.String:
//		// do something with obj.Value()
//	case *object.Int:
//		// do something with obj.Value()
//	}
package object

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/cardscript/symbol"
)

// Type of an object as a string.
type Type string

// Type constants
const (
	BOOL       Type = "bool"
	BUILTIN    Type = "builtin"
	CLOSURE    Type = "closure"
	COLLECTION Type = "collection"
	COLOR      Type = "color"
	DEPENDENCY Type = "dependency"
	DUMMY      Type = "dummy"
	ERROR      Type = "error"
	FLOAT      Type = "float"
	FUNCTION   Type = "function"
	INT        Type = "int"
	ITERATOR   Type = "iterator"
	NIL        Type = "nil"
	STRING     Type = "string"
)

var (
	Nil   = &NilType{}
	True  = &Bool{value: true}
	False = &Bool{value: false}
)

// Object is the interface that all runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns a string representation of the given object.
	Inspect() string

	// Interface converts the given object to a native Go value.
	Interface() interface{}

	// Returns true if the given object is equal to this object.
	Equals(other Object) bool

	// GetMember returns the member with the given name. A missing member is
	// reported as an *Error value rather than a Go error, so that it only
	// fails when the result is actually used.
	GetMember(name string) Object
}

// Iterator produces the items of a collection one at a time. Iterators are
// themselves values: the Loop instructions keep them on the stack.
type Iterator interface {
	Object

	// Next returns the next key and value. ok is false once the iterator is
	// exhausted.
	Next() (key Object, value Object, ok bool)
}

// Iterable is implemented by values that can be looped over.
type Iterable interface {
	Iter() Iterator
}

// Indexable is implemented by values that support positional access.
type Indexable interface {
	Len() int
	Index(i int64) Object
}

// Callable is implemented by function-typed values. Both operations are
// driven by the Context: arguments have already been bound to variables by
// the caller.
type Callable interface {
	Object

	// Call evaluates the function. If openScope is true the function runs in
	// a fresh scope that is closed before returning.
	Call(ctx Context, openScope bool) (Object, error)

	// Dependencies runs the function in dependency discovery mode and returns
	// an abstract result.
	Dependencies(ctx Context, dep Dependency) (Object, error)
}

// ClosureSimplifier is implemented by function bodies that can produce a
// cheaper equivalent of a closure over them. SimplifyClosure returns nil when
// no simplification applies.
type ClosureSimplifier interface {
	SimplifyClosure(c *Closure) Object
}

// Context is the evaluation state a function runs against. It is implemented
// by the virtual machine.
type Context interface {
	// OpenScope starts a nested scope and returns the token needed to close it.
	OpenScope() int

	// CloseScope ends the scope started by the OpenScope call that returned
	// token, restoring every binding shadowed inside it.
	CloseScope(token int)

	// Level returns the current scope nesting depth.
	Level() int

	// SetVariable binds a variable in the current scope.
	SetVariable(id symbol.ID, value Object)

	// Variable returns the value of a variable, if it is bound.
	Variable(id symbol.ID) (Object, bool)

	// VariableScope returns how many scopes above the current one the
	// variable was bound, or -1 if it is unbound.
	VariableScope(id symbol.ID) int

	// Run evaluates a compiled script.
	Run(code Object, openScope bool) (Object, error)

	// RunDependencies runs a compiled script in dependency discovery mode.
	RunDependencies(code Object, dep Dependency) (Object, error)

	// MakeClosure captures every variable bound in the current scope.
	MakeClosure(fn Object) Object

	// Symbols returns the table used to name variables.
	Symbols() *symbol.Table

	// Logger returns the logger of the context.
	Logger() *zerolog.Logger
}

// Param returns the value of a variable that a native function expects to be
// bound, or an unbound variable error.
func Param(ctx Context, id symbol.ID) (Object, error) {
	if value, ok := ctx.Variable(id); ok {
		return value, nil
	}
	return nil, unboundError(ctx, id)
}

// OptionalParam returns the value of a variable, or def when it is unbound.
func OptionalParam(ctx Context, id symbol.ID, def Object) Object {
	if value, ok := ctx.Variable(id); ok {
		return value
	}
	return def
}

// Call invokes fn against the context, failing if fn is not callable.
func Call(ctx Context, fn Object, openScope bool) (Object, error) {
	callable, ok := fn.(Callable)
	if !ok {
		return nil, typeErrorf("can't call a value of type %s", fn.Type())
	}
	return callable.Call(ctx, openScope)
}

// CallDependencies runs fn in dependency discovery mode. Values that are not
// callable produce the dummy value.
func CallDependencies(ctx Context, fn Object, dep Dependency) (Object, error) {
	callable, ok := fn.(Callable)
	if !ok {
		return Dummy, nil
	}
	return callable.Dependencies(ctx, dep)
}
