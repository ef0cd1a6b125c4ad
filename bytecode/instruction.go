package bytecode

import (
	"fmt"

	"github.com/deepnoodle-ai/cardscript/op"
)

// InvalidAddress is the operand of a jump that has not been patched yet.
const InvalidAddress uint32 = 0x03FFFFFF

// Instruction is a single virtual machine instruction.
type Instruction struct {
	Op  op.Code
	Arg uint32
}

// Resolved returns false for jumps that still hold InvalidAddress.
func (i Instruction) Resolved() bool {
	return !i.Op.IsJump() || i.Arg != InvalidAddress
}

func (i Instruction) String() string {
	if sub := op.SubName(i.Op, i.Arg); sub != "" {
		return fmt.Sprintf("%s %s", i.Op, sub)
	}
	return fmt.Sprintf("%s %d", i.Op, i.Arg)
}
