package object

import (
	"fmt"
)

var _ Callable = (*Builtin)(nil) // Ensure that *Builtin implements Callable

// BuiltinFunction holds the type of a built-in function. Arguments are read
// from the variables of the context, see Param.
type BuiltinFunction func(ctx Context) (Object, error)

// DependencyFunction computes the abstract result of a built-in function in
// dependency discovery mode.
type DependencyFunction func(ctx Context, dep Dependency) (Object, error)

// Builtin wraps a Go function and implements Callable.
type Builtin struct {
	// The function that this object wraps.
	fn BuiltinFunction

	// Optional dependency behavior. Without it the result is the dummy.
	deps DependencyFunction

	// The name of the function.
	name string
}

func (b *Builtin) Type() Type {
	return BUILTIN
}

func (b *Builtin) Value() BuiltinFunction {
	return b.fn
}

func (b *Builtin) Interface() interface{} {
	return nil
}

func (b *Builtin) Name() string {
	return b.name
}

func (b *Builtin) Inspect() string {
	return fmt.Sprintf("builtin(%s)", b.name)
}

func (b *Builtin) String() string {
	return b.Inspect()
}

func (b *Builtin) Equals(other Object) bool {
	return b == other
}

func (b *Builtin) GetMember(name string) Object {
	return MissingMember(b, name)
}

func (b *Builtin) Call(ctx Context, openScope bool) (Object, error) {
	if openScope {
		token := ctx.OpenScope()
		defer ctx.CloseScope(token)
	}
	return b.fn(ctx)
}

func (b *Builtin) Dependencies(ctx Context, dep Dependency) (Object, error) {
	if b.deps == nil {
		return Dummy, nil
	}
	return b.deps(ctx, dep)
}

// WithDependencies returns a copy of the builtin that uses fn in dependency
// discovery mode.
func (b *Builtin) WithDependencies(fn DependencyFunction) *Builtin {
	return &Builtin{fn: b.fn, deps: fn, name: b.name}
}

// NewBuiltin returns a new Builtin object.
func NewBuiltin(name string, fn BuiltinFunction) *Builtin {
	return &Builtin{fn: fn, name: name}
}
