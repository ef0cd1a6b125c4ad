package cardscript

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/vm"
)

// argumentNames are the variables positional arguments are bound to.
var argumentNames = []string{"input", "_1", "_2", "_3", "_4", "_5", "_6", "_7", "_8", "_9"}

// Session keeps one context alive across evaluations. Variables set with
// Set persist; variables assigned by scripts are scoped to one evaluation.
// A Session is not safe for concurrent use.
type Session struct {
	ctx *vm.Context
}

// NewSession creates a session with the given options.
func NewSession(opts ...Option) (*Session, error) {
	c, err := newContext(opts...)
	if err != nil {
		return nil, err
	}
	return &Session{ctx: c}, nil
}

// Run evaluates a script within the session.
func (s *Session) Run(ctx context.Context, script *bytecode.Script) (object.Object, error) {
	return s.ctx.Evaluate(ctx, script)
}

// Dependencies runs a script in dependency discovery mode within the session.
func (s *Session) Dependencies(ctx context.Context, script *bytecode.Script, dep object.Dependency) (object.Object, error) {
	return s.ctx.Dependencies(ctx, script, dep)
}

// Set binds a session variable. Go values are converted to objects.
func (s *Session) Set(name string, value any) error {
	obj, err := object.FromGoType(value)
	if err != nil {
		return err
	}
	return s.ctx.SetVariableByName(name, obj)
}

// Get returns the value of a session variable.
func (s *Session) Get(name string) (object.Object, error) {
	return s.ctx.VariableByName(name)
}

// Call invokes the function bound to name. Arguments are converted from Go
// values and bound positionally to input, _1, _2 and so on.
func (s *Session) Call(ctx context.Context, name string, args ...any) (object.Object, error) {
	if len(args) > len(argumentNames) {
		return nil, fmt.Errorf("call %s: too many arguments (%d)", name, len(args))
	}
	b := bytecode.NewBuilder(name).WithSymbols(s.ctx.Symbols())
	b.EmitVar(op.GetVar, name)
	for i, arg := range args {
		obj, err := object.FromGoType(arg)
		if err != nil {
			return nil, fmt.Errorf("call %s: argument %d: %w", name, i, err)
		}
		b.EmitConst(op.PushConst, obj)
	}
	b.EmitCall(argumentNames[:len(args)]...)
	script, err := b.Build()
	if err != nil {
		return nil, err
	}
	return s.ctx.Evaluate(ctx, script)
}

// Context returns the underlying evaluation context.
func (s *Session) Context() *vm.Context {
	return s.ctx
}
