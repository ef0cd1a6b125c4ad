package object

import (
	"strings"

	"github.com/deepnoodle-ai/cardscript/symbol"
)

var _ Callable = (*Closure)(nil)

// Binding pairs a variable with a captured value.
type Binding struct {
	ID    symbol.ID
	Value Object
}

// Closure is a function together with a snapshot of variable bindings.
// Calling it rebinds the snapshot before running the function, so it does
// not depend on the context that created it.
type Closure struct {
	fn       Object
	bindings []Binding
}

// NewClosure returns a closure over fn. The bindings slice is owned by the
// closure afterwards.
func NewClosure(fn Object, bindings []Binding) *Closure {
	return &Closure{fn: fn, bindings: bindings}
}

func (c *Closure) Type() Type {
	return CLOSURE
}

// Function returns the function the closure wraps.
func (c *Closure) Function() Object {
	return c.fn
}

func (c *Closure) Bindings() []Binding {
	return c.bindings
}

// Binding returns the captured value of a variable.
func (c *Closure) Binding(id symbol.ID) (Object, bool) {
	for _, b := range c.bindings {
		if b.ID == id {
			return b.Value, true
		}
	}
	return nil, false
}

func (c *Closure) Inspect() string {
	var out strings.Builder
	out.WriteString(c.fn.Inspect())
	out.WriteString("@(")
	for i, b := range c.bindings {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(symbol.Name(b.ID))
		out.WriteString(": ")
		out.WriteString(b.Value.Inspect())
	}
	out.WriteString(")")
	return out.String()
}

func (c *Closure) String() string {
	return c.Inspect()
}

func (c *Closure) Interface() interface{} {
	return nil
}

func (c *Closure) Equals(other Object) bool {
	return c == other
}

func (c *Closure) GetMember(name string) Object {
	return MissingMember(c, name)
}

// Call runs the function with the captured bindings applied. A binding is
// skipped when the variable is already bound in the current scope, so that
// explicitly passed arguments take precedence over captured defaults.
func (c *Closure) Call(ctx Context, openScope bool) (Object, error) {
	if openScope {
		token := ctx.OpenScope()
		defer ctx.CloseScope(token)
	}
	c.apply(ctx)
	return Call(ctx, c.fn, false)
}

func (c *Closure) Dependencies(ctx Context, dep Dependency) (Object, error) {
	token := ctx.OpenScope()
	defer ctx.CloseScope(token)
	c.apply(ctx)
	return CallDependencies(ctx, c.fn, dep)
}

func (c *Closure) apply(ctx Context) {
	for _, b := range c.bindings {
		if ctx.VariableScope(b.ID) != 0 {
			ctx.SetVariable(b.ID, b.Value)
		}
	}
}

// Simplify returns an equivalent, possibly cheaper, value for the closure.
func (c *Closure) Simplify() Object {
	if len(c.bindings) == 0 {
		return c.fn
	}
	if s, ok := c.fn.(ClosureSimplifier); ok {
		if simplified := s.SimplifyClosure(c); simplified != nil {
			return simplified
		}
	}
	return c
}
