// Package bytecode provides the immutable representation of compiled scripts.
//
// A [Script] is an ordered list of instructions plus a constant pool. It is
// created once, by a compiler or by [Unmarshal], and shared safely across any
// number of goroutines and evaluation contexts.
//
// # Key Types
//
//   - [Instruction]: an opcode and its single operand (value type)
//   - [Script]: an immutable compiled script, itself a callable runtime value
//   - [Builder]: emits instructions and patches forward jumps
//
// # Jump Patching
//
// Branch targets are not known when a jump is emitted. The builder emits the
// jump with [InvalidAddress] as operand and returns a [Label]; once the code
// that is jumped over has been emitted, [Builder.Patch] points the jump at
// the current end of the script:
//
//	b := bytecode.NewBuilder("example")
//	b.EmitConst(op.PushConst, object.True)
//	skip := b.EmitJump(op.JumpIfNot)
//	b.EmitConst(op.PushConst, object.NewString("yes"))
//	if err := b.Patch(skip); err != nil {
//		return err
//	}
//	script, err := b.Build()
//
// # Index-based Access
//
// Scripts expose their contents by index only:
//
//	script.InstructionAt(0)
//	script.ConstantAt(i)
//
// so that callers cannot mutate the underlying slices.
package bytecode
