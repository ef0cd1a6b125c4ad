package dis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
)

func disableColor(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = saved })
}

func sample(t *testing.T) *bytecode.Script {
	body := bytecode.NewBuilder("shout")
	body.EmitVar(op.GetVar, "input")
	body.EmitConst(op.PushConst, object.NewString("!"))
	body.Emit(op.Binary, uint32(op.Add))
	shout, err := body.Build()
	require.Nil(t, err)

	b := bytecode.NewBuilder("main")
	b.EmitConst(op.PushConst, shout)
	b.EmitVar(op.GetVar, "card")
	b.EmitConst(op.MemberConst, object.NewString("name"))
	b.EmitCall("input")
	script, err := b.Build()
	require.Nil(t, err)
	return script
}

func TestDisassemble(t *testing.T) {
	instructions := Disassemble(sample(t))
	require.Len(t, instructions, 5)
	require.Equal(t, "PUSH_CONST", instructions[0].Name)
	require.IsType(t, &bytecode.Script{}, instructions[0].Constant)
	require.Equal(t, "card", instructions[1].Annotation)
	require.Equal(t, object.NewString("name"), instructions[2].Constant)
	require.Equal(t, "1 args", instructions[3].Annotation)
	require.Equal(t, "input", instructions[4].Annotation)
	require.Equal(t, op.Nop, instructions[4].Opcode)
}

func TestPrint(t *testing.T) {
	disableColor(t)

	var buf bytes.Buffer
	require.Nil(t, Print(Disassemble(sample(t)), &buf))

	expected := strings.TrimSpace(`
+--------+--------------+---------+--------------+
| OFFSET |    OPCODE    | OPERAND |     INFO     |
+--------+--------------+---------+--------------+
|      0 | PUSH_CONST   |       0 | script:shout |
|      1 | GET_VAR      |      21 | card         |
|      2 | MEMBER_CONST |       1 | "name"       |
|      3 | CALL         |       1 | 1 args       |
|      4 | NOP          |       0 | input        |
+--------+--------------+---------+--------------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestDisassembleAllVisitsNestedScripts(t *testing.T) {
	disableColor(t)

	listings := DisassembleAll(sample(t))
	require.Len(t, listings, 2)
	require.Equal(t, "main", listings[0].Name)
	require.Equal(t, "shout", listings[1].Name)
	require.Equal(t, "BINARY", listings[1].Instructions[2].Name)
	require.Equal(t, "+", listings[1].Instructions[2].Annotation)

	var buf bytes.Buffer
	require.Nil(t, PrintAll(listings, &buf))
	require.Contains(t, buf.String(), "script main (")
	require.Contains(t, buf.String(), "script shout (")
}
