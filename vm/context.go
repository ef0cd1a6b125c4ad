package vm

import (
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

var _ object.Context = (*Context)(nil)

// variable is the current binding of a variable and the scope level at which
// it was made. A nil value means unbound.
type variable struct {
	value object.Object
	level int
}

// shadowed records a binding overwritten by the first write to a variable in
// a nested scope, so that closing the scope can restore it.
type shadowed struct {
	id   symbol.ID
	prev variable
}

// Context holds the state of one evaluation session: the value stack, a flat
// table of variables indexed by symbol ID, and the shadow stack that
// implements lexical scoping over that table.
//
// A Context is not safe for concurrent use. Any number of Contexts may
// evaluate the same scripts concurrently.
type Context struct {
	stack     []object.Object
	variables []variable
	shadow    []shadowed
	level     int

	maxDepth int
	logger   zerolog.Logger
	symbols  *symbol.Table
	globals  map[string]object.Object
	initErr  error

	observer       Observer
	observerConfig ObserverConfig
	steps          int

	done      <-chan struct{}
	analyzing map[*bytecode.Script]bool
}

// New returns a Context configured with the given options.
func New(options ...Option) *Context {
	c := &Context{
		maxDepth: DefaultMaxDepth,
		logger:   zerolog.Nop(),
		symbols:  symbol.Default,
		globals:  map[string]object.Object{},
	}
	for _, opt := range options {
		opt(c)
	}
	c.variables = make([]variable, c.symbols.Len())
	names := make([]string, 0, len(c.globals))
	for name := range c.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	var errs *multierror.Error
	for _, name := range names {
		if err := c.SetVariableByName(name, c.globals[name]); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	c.initErr = errs.ErrorOrNil()
	c.globals = nil
	return c
}

// Symbols returns the table used to name variables.
func (c *Context) Symbols() *symbol.Table {
	return c.symbols
}

// Logger returns the logger of the context.
func (c *Context) Logger() *zerolog.Logger {
	return &c.logger
}

// Level returns the current scope nesting depth. It is 0 outside of any
// scope.
func (c *Context) Level() int {
	return c.level
}

// StackDepth returns the number of values on the evaluation stack.
func (c *Context) StackDepth() int {
	return len(c.stack)
}

// OpenScope starts a nested scope. The returned token must be passed to
// CloseScope.
func (c *Context) OpenScope() int {
	c.level++
	return len(c.shadow)
}

// CloseScope ends a scope, restoring in reverse order every binding that was
// shadowed since the matching OpenScope.
func (c *Context) CloseScope(token int) {
	if c.level == 0 || token > len(c.shadow) {
		panic("vm: unbalanced scope")
	}
	c.level--
	for len(c.shadow) > token {
		last := c.shadow[len(c.shadow)-1]
		c.shadow = c.shadow[:len(c.shadow)-1]
		c.variables[last.id] = last.prev
	}
}

// slot returns the binding of a variable, growing the table if the ID was
// interned after the context was created.
func (c *Context) slot(id symbol.ID) *variable {
	if int(id) >= len(c.variables) {
		size := int(id) + 1
		if n := c.symbols.Len(); n > size {
			size = n
		}
		grown := make([]variable, size)
		copy(grown, c.variables)
		c.variables = grown
	}
	return &c.variables[id]
}

// SetVariable binds a variable in the current scope. The first write in a
// scope saves the outer binding on the shadow stack; later writes in the
// same scope overwrite in place.
func (c *Context) SetVariable(id symbol.ID, value object.Object) {
	v := c.slot(id)
	if v.level < c.level {
		c.shadow = append(c.shadow, shadowed{id: id, prev: *v})
	}
	v.value = value
	v.level = c.level
}

// Variable returns the value of a variable, if it is bound.
func (c *Context) Variable(id symbol.ID) (object.Object, bool) {
	if int(id) >= len(c.variables) {
		return nil, false
	}
	v := c.variables[id]
	return v.value, v.value != nil
}

// VariableInScope returns the value of a variable only if it was bound in
// the current scope.
func (c *Context) VariableInScope(id symbol.ID) (object.Object, bool) {
	if int(id) >= len(c.variables) {
		return nil, false
	}
	v := c.variables[id]
	if v.value == nil || v.level != c.level {
		return nil, false
	}
	return v.value, true
}

// VariableScope returns how many scopes above the current one a variable was
// bound, or -1 if it is unbound.
func (c *Context) VariableScope(id symbol.ID) int {
	if int(id) >= len(c.variables) || c.variables[id].value == nil {
		return -1
	}
	return c.level - c.variables[id].level
}

// SetVariableByName binds a variable by name, interning the name if needed.
func (c *Context) SetVariableByName(name string, value object.Object) error {
	id, err := c.symbols.Intern(name)
	if err != nil {
		return err
	}
	c.SetVariable(id, value)
	return nil
}

// VariableByName returns the value of a variable by name.
func (c *Context) VariableByName(name string) (object.Object, error) {
	id, ok := c.symbols.Lookup(name)
	if !ok {
		return nil, errz.Unbound(symbol.Canonical(name))
	}
	value, ok := c.Variable(id)
	if !ok {
		return nil, errz.Unbound(c.symbols.Name(id))
	}
	return value, nil
}

// MakeClosure captures every variable bound in the current scope. The shadow
// stack is scanned from its tail; the scan stops at the first variable whose
// binding belongs to an outer scope.
func (c *Context) MakeClosure(fn object.Object) object.Object {
	var bindings []object.Binding
	for i := len(c.shadow) - 1; i >= 0; i-- {
		id := c.shadow[i].id
		v := c.variables[id]
		if v.level < c.level {
			break
		}
		bindings = append(bindings, object.Binding{ID: id, Value: v.value})
	}
	return object.NewClosure(fn, bindings).Simplify()
}

func (c *Context) push(obj object.Object) {
	c.stack = append(c.stack, obj)
}

func (c *Context) pop() object.Object {
	n := len(c.stack) - 1
	obj := c.stack[n]
	c.stack[n] = nil
	c.stack = c.stack[:n]
	return obj
}

func (c *Context) top() object.Object {
	return c.stack[len(c.stack)-1]
}

// truncate shrinks the stack back to depth, releasing the dropped values.
func (c *Context) truncate(depth int) {
	for i := depth; i < len(c.stack); i++ {
		c.stack[i] = nil
	}
	c.stack = c.stack[:depth]
}
