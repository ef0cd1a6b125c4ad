package vm

import (
	"context"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

// DefaultContextCheckInterval is the number of instructions between checks
// of the cancellation channel set by Evaluate.
const DefaultContextCheckInterval = 1000

// ErrHalted is returned when an observer aborts the evaluation.
var ErrHalted = errz.New(errz.ErrRuntime, errz.E3007, "evaluation halted by observer")

// Evaluate runs a script in a new scope and returns its value. Panics raised
// by native functions are converted to errors, and the context is restored to
// the state it had before the call so it can be reused.
func (c *Context) Evaluate(ctx context.Context, script *bytecode.Script) (result object.Object, err error) {
	defer c.guard(ctx, &err)()
	return c.Run(script, true)
}

// Dependencies runs a script in dependency discovery mode within a new scope.
func (c *Context) Dependencies(ctx context.Context, script *bytecode.Script, dep object.Dependency) (result object.Object, err error) {
	defer c.guard(ctx, &err)()
	token := c.OpenScope()
	defer c.CloseScope(token)
	return c.RunDependencies(script, dep)
}

// guard installs the cancellation channel of ctx and returns a function
// that recovers from panics, unwinding the stack and scopes.
func (c *Context) guard(ctx context.Context, err *error) func() {
	base, level, shadow := len(c.stack), c.level, len(c.shadow)
	prevDone := c.done
	c.done = ctx.Done()
	return func() {
		c.done = prevDone
		if r := recover(); r != nil {
			c.unwind(base, level, shadow)
			c.logger.Error().Interface("panic", r).Msg("recovered from panic during evaluation")
			*err = errz.RuntimeErrorf("panic: %v", r)
		}
	}
}

func (c *Context) unwind(base, level, shadow int) {
	c.truncate(base)
	for len(c.shadow) > shadow {
		last := c.shadow[len(c.shadow)-1]
		c.shadow = c.shadow[:len(c.shadow)-1]
		c.variables[last.id] = last.prev
	}
	c.level = level
}

// Run evaluates code. Values that are not scripts are called as functions.
// On success the stack is left at the depth it had before the call; on
// failure any values pushed by the script are discarded.
func (c *Context) Run(code object.Object, openScope bool) (object.Object, error) {
	script, ok := code.(*bytecode.Script)
	if !ok {
		return object.Call(c, code, openScope)
	}
	if c.initErr != nil {
		return nil, c.initErr
	}
	if c.level > c.maxDepth {
		c.logger.Debug().Int("depth", c.level).Str("script", script.Name()).Msg("recursion limit reached")
		return nil, errz.StackOverflow(c.maxDepth)
	}
	base := len(c.stack)
	token := 0
	if openScope {
		token = c.OpenScope()
	}
	err := c.exec(script)
	if openScope {
		c.CloseScope(token)
	}
	if err != nil {
		c.truncate(base)
		return nil, err
	}
	if len(c.stack) != base+1 {
		depth := len(c.stack) - base
		c.truncate(base)
		return nil, errz.RuntimeErrorf("script %s left %d values on the stack", script.Name(), depth)
	}
	return c.pop(), nil
}

func (c *Context) exec(s *bytecode.Script) error {
	var count int
	n := s.InstructionCount()
	for ip := 0; ip < n; {
		if c.done != nil {
			count++
			if count >= DefaultContextCheckInterval {
				count = 0
				select {
				case <-c.done:
					return errz.RuntimeErrorf("evaluation cancelled")
				default:
				}
			}
		}
		ins := s.InstructionAt(ip)
		if c.observer != nil {
			if err := c.observeStep(s, ip, ins); err != nil {
				return err
			}
		}
		ip++
		switch ins.Op {
		case op.Nop:
		case op.PushConst:
			c.push(s.ConstantAt(int(ins.Arg)))
		case op.GetVar:
			value, ok := c.Variable(symbol.ID(ins.Arg))
			if !ok {
				return errz.Unbound(c.symbols.Name(symbol.ID(ins.Arg)))
			}
			c.push(value)
		case op.SetVar:
			c.SetVariable(symbol.ID(ins.Arg), c.top())
		case op.MemberConst:
			value, err := object.Member(c.top(), s.ConstantAt(int(ins.Arg)))
			if err != nil {
				return err
			}
			c.stack[len(c.stack)-1] = value
		case op.Jump:
			ip = int(ins.Arg)
		case op.JumpIfNot:
			cond, err := object.AsBool(c.pop())
			if err != nil {
				return err
			}
			if !cond {
				ip = int(ins.Arg)
			}
		case op.JumpScAnd, op.JumpScOr:
			cond, err := object.AsBool(c.top())
			if err != nil {
				return err
			}
			if cond == (ins.Op == op.JumpScOr) {
				ip = int(ins.Arg)
			} else {
				c.pop()
			}
		case op.Loop, op.LoopWithKey:
			it, ok := c.stack[len(c.stack)-2].(object.Iterator)
			if !ok {
				return errz.RuntimeErrorf("loop over a value of type %s", c.stack[len(c.stack)-2].Type())
			}
			key, value, more := it.Next()
			if !more {
				// Drop the iterator, keeping the accumulator
				c.stack[len(c.stack)-2] = c.top()
				c.pop()
				ip = int(ins.Arg)
				break
			}
			c.push(value)
			if ins.Op == op.LoopWithKey {
				c.push(key)
			}
		case op.MakeObject:
			if err := c.makeObject(int(ins.Arg)); err != nil {
				return err
			}
		case op.Call:
			if err := c.call(s, ip-1, int(ins.Arg)); err != nil {
				return err
			}
			ip += int(ins.Arg)
		case op.Closure:
			c.makeExplicitClosure(s, ip-1, int(ins.Arg))
			ip += int(ins.Arg)
		case op.Unary:
			result, err := object.UnaryOp(op.UnaryOpType(ins.Arg), c.top())
			if err != nil {
				return err
			}
			c.stack[len(c.stack)-1] = result
		case op.Binary:
			b := c.pop()
			result, err := object.BinaryOp(op.BinaryOpType(ins.Arg), c.top(), b)
			if err != nil {
				return err
			}
			c.stack[len(c.stack)-1] = result
		case op.Ternary:
			cc, b := c.pop(), c.pop()
			result, err := object.TernaryOp(op.TernaryOpType(ins.Arg), c.top(), b, cc)
			if err != nil {
				return err
			}
			c.stack[len(c.stack)-1] = result
		case op.Quaternary:
			d, cc, b := c.pop(), c.pop(), c.pop()
			result, err := object.QuaternaryOp(op.QuaternaryOpType(ins.Arg), c.top(), b, cc, d)
			if err != nil {
				return err
			}
			c.stack[len(c.stack)-1] = result
		case op.Dup:
			c.push(c.stack[len(c.stack)-1-int(ins.Arg)])
		default:
			return errz.RuntimeErrorf("invalid opcode %d at %d", ins.Op, ip-1)
		}
	}
	return nil
}

// bindArguments pops argc values and binds them to the variables named by
// the NOP instructions following pc, the last value to the last name.
func (c *Context) bindArguments(s *bytecode.Script, pc, argc int) []object.Binding {
	bindings := make([]object.Binding, argc)
	for j := 0; j < argc; j++ {
		id := symbol.ID(s.InstructionAt(pc + argc - j).Arg)
		bindings[argc-1-j] = object.Binding{ID: id, Value: c.pop()}
	}
	return bindings
}

// call invokes the function below the arguments of the Call instruction at
// pc in a new scope, replacing the function on the stack with its result.
func (c *Context) call(s *bytecode.Script, pc, argc int) error {
	token := c.OpenScope()
	for _, b := range c.bindArguments(s, pc, argc) {
		c.SetVariable(b.ID, b.Value)
	}
	fn := c.top()
	var name string
	if c.observer != nil && c.observerConfig.Calls {
		name = s.InstructionName(s.BacktraceSkip(pc-1, argc))
		if !c.observer.OnCall(CallEvent{Callee: name, Args: argc, Level: c.level}) {
			c.CloseScope(token)
			return ErrHalted
		}
	}
	result, err := object.Call(c, fn, false)
	level := c.level
	c.CloseScope(token)
	if c.observer != nil && c.observerConfig.Returns {
		if name == "" {
			name = s.InstructionName(s.BacktraceSkip(pc-1, argc))
		}
		if !c.observer.OnReturn(ReturnEvent{Callee: name, Level: level, Err: err}) && err == nil {
			return ErrHalted
		}
	}
	if err != nil {
		if name == "" {
			name = s.InstructionName(s.BacktraceSkip(pc-1, argc))
		}
		c.logger.Debug().Str("function", name).Err(err).Msg("call failed")
		return errz.Decorate(err, name)
	}
	c.stack[len(c.stack)-1] = result
	return nil
}

// makeExplicitClosure replaces the function below the arguments of the
// Closure instruction at pc with a closure binding them.
func (c *Context) makeExplicitClosure(s *bytecode.Script, pc, argc int) {
	bindings := c.bindArguments(s, pc, argc)
	c.stack[len(c.stack)-1] = object.NewClosure(c.top(), bindings).Simplify()
}

func (c *Context) makeObject(n int) error {
	begin := len(c.stack) - 2*n
	b := object.NewCollectionBuilder(n)
	for i := 0; i < n; i++ {
		key, value := c.stack[begin+2*i], c.stack[begin+2*i+1]
		if key == object.Nil {
			b.Add(value)
			continue
		}
		name, err := object.AsString(key)
		if err != nil {
			return err
		}
		b.SetKeyed(name, value)
	}
	c.truncate(begin)
	c.push(b.Build())
	return nil
}

func (c *Context) observeStep(s *bytecode.Script, ip int, ins bytecode.Instruction) error {
	switch c.observerConfig.StepMode {
	case StepNone:
		return nil
	case StepSampled:
		c.steps++
		if c.steps%c.observerConfig.SampleInterval != 0 {
			return nil
		}
	}
	event := StepEvent{
		Offset:     ip,
		Op:         ins.Op,
		OpName:     ins.Op.String(),
		Script:     s.Name(),
		StackDepth: len(c.stack),
		Level:      c.level,
	}
	if !c.observer.OnStep(event) {
		return ErrHalted
	}
	return nil
}
