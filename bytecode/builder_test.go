package bytecode

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

func TestBuilderPatchesForwardJumps(t *testing.T) {
	b := NewBuilder("if")
	b.EmitConst(op.PushConst, object.True)
	skip := b.EmitJump(op.JumpIfNot)
	b.EmitConst(op.PushConst, object.NewString("yes"))
	end := b.EmitJump(op.Jump)
	require.Nil(t, b.Patch(skip))
	b.EmitConst(op.PushConst, object.NewString("no"))
	require.Nil(t, b.Patch(end))

	script, err := b.Build()
	require.Nil(t, err)
	require.Equal(t, "if", script.Name())
	require.Equal(t, 5, script.InstructionCount())
	require.Equal(t, Instruction{Op: op.JumpIfNot, Arg: 4}, script.InstructionAt(1))
	require.Equal(t, Instruction{Op: op.Jump, Arg: 5}, script.InstructionAt(3))
	require.Equal(t, 3, script.ConstantCount())
	require.Equal(t, object.NewString("no"), script.ConstantAt(2))
	require.NotEmpty(t, script.ID())
}

func TestBuilderPatchErrors(t *testing.T) {
	b := NewBuilder("")
	push := b.EmitConst(op.PushConst, object.Nil)
	jump := b.EmitJump(op.Jump)

	require.Error(t, b.Patch(Label(push)))
	require.Error(t, b.Patch(Label(42)))
	require.Nil(t, b.Patch(jump))
	require.Error(t, b.Patch(jump))
}

func TestBuildReportsEveryUnresolvedJump(t *testing.T) {
	b := NewBuilder("")
	b.EmitConst(op.PushConst, object.True)
	b.EmitJump(op.JumpIfNot)
	b.EmitJump(op.Jump)
	b.EmitJump(op.PushConst)

	_, err := b.Build()
	require.Error(t, err)
	merr, ok := err.(*multierror.Error)
	require.True(t, ok)
	require.Len(t, merr.Errors, 3)
}

func TestBuilderEmitCall(t *testing.T) {
	b := NewBuilder("")
	b.EmitVar(op.GetVar, "to_int")
	b.EmitConst(op.PushConst, object.NewString("3"))
	pos := b.EmitCall("input")
	script, err := b.Build()
	require.Nil(t, err)

	require.Equal(t, Instruction{Op: op.Call, Arg: 1}, script.InstructionAt(pos))
	require.Equal(t, Instruction{Op: op.Nop, Arg: uint32(symbol.Input)}, script.InstructionAt(pos+1))
	require.Equal(t, "CALL 1", script.InstructionAt(pos).String())
}
