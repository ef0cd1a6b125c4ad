package vm

import (
	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

// branch is the state of one control flow path waiting to be resumed at a
// jump target.
type branch struct {
	stack     []object.Object
	variables []variable
	shadow    []shadowed
}

// RunDependencies runs code in dependency discovery mode: every branch of
// every conditional is explored, member reads on values implementing
// object.DependencyTracker are reported together with dep, and values that
// can't be known are replaced with object.Dummy. The result approximates the
// value the code would produce.
//
// Loop bodies run once with a dummy item. A script that is reentered while
// it is being analyzed yields the dummy value instead of recursing.
func (c *Context) RunDependencies(code object.Object, dep object.Dependency) (object.Object, error) {
	script, ok := code.(*bytecode.Script)
	if !ok {
		return object.CallDependencies(c, code, dep)
	}
	if c.initErr != nil {
		return nil, c.initErr
	}
	if c.level > c.maxDepth {
		return nil, errz.StackOverflow(c.maxDepth)
	}
	if c.analyzing[script] {
		return object.Dummy, nil
	}
	if c.analyzing == nil {
		c.analyzing = map[*bytecode.Script]bool{}
	}
	c.analyzing[script] = true
	defer delete(c.analyzing, script)

	base := len(c.stack)
	if err := c.execDependencies(script, base, dep); err != nil {
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

func (c *Context) execDependencies(s *bytecode.Script, base int, dep object.Dependency) error {
	pending := map[int]*branch{}
	n := s.InstructionCount()
	ip, live := 0, true
	for {
		if !live {
			next := -1
			for target := range pending {
				if next < 0 || target < next {
					next = target
				}
			}
			if next < 0 {
				break
			}
			c.restore(base, pending[next])
			delete(pending, next)
			ip, live = next, true
		} else if br, ok := pending[ip]; ok {
			delete(pending, ip)
			c.restore(base, mergeBranches(c.snapshot(base), br))
		}
		if ip >= n {
			break
		}
		ins := s.InstructionAt(ip)
		ip++
		switch ins.Op {
		case op.Nop:
		case op.PushConst:
			c.push(s.ConstantAt(int(ins.Arg)))
		case op.GetVar:
			value, ok := c.Variable(symbol.ID(ins.Arg))
			if !ok {
				value = object.Dummy
			}
			c.push(value)
		case op.SetVar:
			c.SetVariable(symbol.ID(ins.Arg), c.top())
		case op.MemberConst:
			c.stack[len(c.stack)-1] = dependencyMember(c.top(), s.ConstantAt(int(ins.Arg)), dep)
		case op.Jump:
			target := int(ins.Arg)
			if target >= ip {
				queue(pending, target, c.snapshot(base))
				live = false
				break
			}
			// A backward jump closes a loop body: continue after the loop
			header := s.InstructionAt(target)
			if header.Op != op.Loop && header.Op != op.LoopWithKey {
				live = false
				break
			}
			c.stack[len(c.stack)-2] = c.top()
			c.pop()
			ip = int(header.Arg)
		case op.JumpIfNot:
			c.pop()
			queue(pending, int(ins.Arg), c.snapshot(base))
		case op.JumpScAnd, op.JumpScOr:
			queue(pending, int(ins.Arg), c.snapshot(base))
			c.pop()
		case op.Loop:
			c.push(object.Dummy)
		case op.LoopWithKey:
			c.push(object.Dummy)
			c.push(object.Dummy)
		case op.MakeObject:
			c.makeDependencyObject(int(ins.Arg))
		case op.Call:
			if err := c.callDependencies(s, ip-1, int(ins.Arg), dep); err != nil {
				return err
			}
			ip += int(ins.Arg)
		case op.Closure:
			c.makeExplicitClosure(s, ip-1, int(ins.Arg))
			ip += int(ins.Arg)
		case op.Unary:
			if op.UnaryOpType(ins.Arg) == op.IteratorC {
				if tracker, ok := c.top().(object.DependencyTracker); ok {
					tracker.DependencyThis(dep)
				}
			}
			c.stack[len(c.stack)-1] = object.Dummy
		case op.Binary:
			b := c.pop()
			a := c.top()
			var result object.Object = object.Dummy
			switch op.BinaryOpType(ins.Arg) {
			case op.Member:
				result = dependencyMember(a, b, dep)
			case op.OrElse:
				result = unify(a, b)
			case op.Add:
				_, fa := a.(object.Callable)
				_, fb := b.(object.Callable)
				if fa && fb {
					result = object.NewCompose(a, b)
				}
			}
			c.stack[len(c.stack)-1] = result
		case op.Ternary:
			c.pop()
			c.pop()
			c.stack[len(c.stack)-1] = object.Dummy
		case op.Quaternary:
			c.pop()
			c.pop()
			c.pop()
			c.stack[len(c.stack)-1] = object.Dummy
		case op.Dup:
			c.push(c.stack[len(c.stack)-1-int(ins.Arg)])
		default:
			return errz.RuntimeErrorf("invalid opcode %d at %d", ins.Op, ip-1)
		}
	}
	return nil
}

func (c *Context) callDependencies(s *bytecode.Script, pc, argc int, dep object.Dependency) error {
	token := c.OpenScope()
	for _, b := range c.bindArguments(s, pc, argc) {
		c.SetVariable(b.ID, b.Value)
	}
	result, err := object.CallDependencies(c, c.top(), dep)
	c.CloseScope(token)
	if err != nil {
		return errz.Decorate(err, s.InstructionName(s.BacktraceSkip(pc-1, argc)))
	}
	c.stack[len(c.stack)-1] = result
	return nil
}

// makeDependencyObject builds a collection when every key is known, and the
// dummy value otherwise.
func (c *Context) makeDependencyObject(n int) {
	begin := len(c.stack) - 2*n
	b := object.NewCollectionBuilder(n)
	var result object.Object
	for i := 0; i < n && result == nil; i++ {
		key, value := c.stack[begin+2*i], c.stack[begin+2*i+1]
		switch key := key.(type) {
		case *object.NilType:
			b.Add(value)
		case *object.String:
			b.SetKeyed(key.Value(), value)
		default:
			result = object.Dummy
		}
	}
	if result == nil {
		result = b.Build()
	}
	c.truncate(begin)
	c.push(result)
}

// dependencyMember reads a member of a value during dependency discovery.
func dependencyMember(container, key object.Object, dep object.Dependency) object.Object {
	if tracker, ok := container.(object.DependencyTracker); ok {
		name, ok := key.(*object.String)
		if !ok {
			tracker.DependencyThis(dep)
			return object.Dummy
		}
		return tracker.DependencyMember(name.Value(), dep)
	}
	if container == object.Dummy || key == object.Dummy {
		return object.Dummy
	}
	value, err := object.Member(container, key)
	if err != nil {
		return object.Dummy
	}
	return value
}

// unify merges the values a variable or stack slot has on two paths.
func unify(a, b object.Object) object.Object {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return nil
		}
		return object.Dummy
	}
	if object.Equal(a, b) {
		return a
	}
	return object.Dummy
}

func queue(pending map[int]*branch, target int, br *branch) {
	if prev, ok := pending[target]; ok {
		br = mergeBranches(prev, br)
	}
	pending[target] = br
}

func (c *Context) snapshot(base int) *branch {
	br := &branch{
		stack:     make([]object.Object, len(c.stack)-base),
		variables: make([]variable, len(c.variables)),
		shadow:    make([]shadowed, len(c.shadow)),
	}
	copy(br.stack, c.stack[base:])
	copy(br.variables, c.variables)
	copy(br.shadow, c.shadow)
	return br
}

func (c *Context) restore(base int, br *branch) {
	c.truncate(base)
	c.stack = append(c.stack, br.stack...)
	if len(c.variables) < len(br.variables) {
		c.variables = make([]variable, len(br.variables))
	}
	copy(c.variables, br.variables)
	for i := len(br.variables); i < len(c.variables); i++ {
		c.variables[i] = variable{}
	}
	c.shadow = append(c.shadow[:0], br.shadow...)
}

// mergeBranches joins two paths that reach the same instruction. Values
// that differ become the dummy value. The shadow stacks share a prefix from
// before the paths forked; the entries each path added after it are united.
func mergeBranches(a, b *branch) *branch {
	out := &branch{}
	depth := len(a.stack)
	if len(b.stack) < depth {
		depth = len(b.stack)
	}
	out.stack = make([]object.Object, depth)
	for i := 0; i < depth; i++ {
		out.stack[i] = unify(a.stack[len(a.stack)-depth+i], b.stack[len(b.stack)-depth+i])
	}

	size := len(a.variables)
	if len(b.variables) > size {
		size = len(b.variables)
	}
	out.variables = make([]variable, size)
	for i := range out.variables {
		var va, vb variable
		if i < len(a.variables) {
			va = a.variables[i]
		}
		if i < len(b.variables) {
			vb = b.variables[i]
		}
		level := va.level
		if vb.level > level {
			level = vb.level
		}
		out.variables[i] = variable{value: unify(va.value, vb.value), level: level}
	}

	prefix := 0
	for prefix < len(a.shadow) && prefix < len(b.shadow) && a.shadow[prefix] == b.shadow[prefix] {
		prefix++
	}
	out.shadow = append(out.shadow, a.shadow...)
	seen := map[symbol.ID]bool{}
	for _, s := range a.shadow[prefix:] {
		seen[s.id] = true
	}
	for _, s := range b.shadow[prefix:] {
		if !seen[s.id] {
			out.shadow = append(out.shadow, s)
		}
	}
	return out
}
