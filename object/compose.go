package object

import (
	"fmt"

	"github.com/deepnoodle-ai/cardscript/symbol"
)

var _ Callable = (*Compose)(nil)

// Compose is the function produced by adding two functions: it calls the
// first, binds the result to input, then calls the second.
type Compose struct {
	first  Object
	second Object
}

func NewCompose(first, second Object) *Compose {
	return &Compose{first: first, second: second}
}

func (c *Compose) Type() Type {
	return FUNCTION
}

func (c *Compose) Inspect() string {
	return fmt.Sprintf("%s + %s", c.first.Inspect(), c.second.Inspect())
}

func (c *Compose) Interface() interface{} {
	return nil
}

func (c *Compose) Equals(other Object) bool {
	return c == other
}

func (c *Compose) GetMember(name string) Object {
	return MissingMember(c, name)
}

func (c *Compose) Call(ctx Context, openScope bool) (Object, error) {
	if openScope {
		token := ctx.OpenScope()
		defer ctx.CloseScope(token)
	}
	result, err := Call(ctx, c.first, false)
	if err != nil {
		return nil, err
	}
	ctx.SetVariable(symbol.Input, result)
	return Call(ctx, c.second, false)
}

func (c *Compose) Dependencies(ctx Context, dep Dependency) (Object, error) {
	result, err := CallDependencies(ctx, c.first, dep)
	if err != nil {
		return nil, err
	}
	ctx.SetVariable(symbol.Input, result)
	return CallDependencies(ctx, c.second, dep)
}
