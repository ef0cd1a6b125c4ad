package bytecode

import (
	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

// BacktraceSkip scans backward from pos over instructions whose combined
// stack effect is toSkip values, and returns the position of the instruction
// that produced the value below them. It returns -1 when the producer cannot
// be determined, for example because it depends on which branch of a
// conditional was taken. The scan never changes anything and is only used to
// name failing calls in error messages.
func (s *Script) BacktraceSkip(pos int, toSkip int) int {
	if pos >= len(s.instructions) {
		return -1
	}
	initial := pos
	for pos >= 0 && (toSkip != 0 || (pos >= 1 && s.skipsInto(pos-1))) {
		ins := s.instructions[pos]
		switch ins.Op {
		case op.PushConst, op.GetVar, op.Dup:
			toSkip--
		case op.Binary:
			toSkip++
		case op.Ternary:
			toSkip += 2
		case op.Quaternary:
			toSkip += 3
		case op.Call, op.Closure:
			toSkip += int(ins.Arg)
		case op.MakeObject:
			toSkip += 2*int(ins.Arg) - 1
		case op.Jump:
			if int(ins.Arg) > initial {
				// A forward jump over the scanned code: the value came from
				// the branch ending here.
				return pos + 1
			}
			afterJump := pos + 1
			for pos--; pos >= 0; pos-- {
				header := s.instructions[pos]
				if int(header.Arg) != afterJump {
					continue
				}
				if header.Op == op.Loop || header.Op == op.LoopWithKey || header.Op == op.JumpIfNot {
					toSkip++
					break
				}
			}
			pos++
		case op.JumpIfNot, op.Loop, op.LoopWithKey:
			return -1
		case op.JumpScAnd, op.JumpScOr:
			// Assume the fall through, which popped the tested value
			toSkip++
		}
		pos--
	}
	if pos < 0 {
		return -1
	}
	return pos
}

// Jumps are always looked into and argument names are skipped.
func (s *Script) skipsInto(pos int) bool {
	code := s.instructions[pos].Op
	return code == op.Jump || code == op.Nop
}

// InstructionName returns a readable name for the value produced by the
// instruction at pos, such as "card.name" or "to_int(...)". Unknown values
// are named "???".
func (s *Script) InstructionName(pos int) string {
	if pos < 0 || pos >= len(s.instructions) {
		return errz.UnknownCallSite
	}
	ins := s.instructions[pos]
	switch ins.Op {
	case op.GetVar:
		return s.variableName(symbol.ID(ins.Arg))
	case op.MemberConst:
		return s.InstructionName(s.BacktraceSkip(pos-1, 0)) + "." + s.constantName(int(ins.Arg))
	case op.Binary:
		switch op.BinaryOpType(ins.Arg) {
		case op.Member:
			return "???[...]"
		case op.Add:
			return "??? + ???"
		}
	case op.Nop:
		return "???(...)"
	case op.Call:
		return s.InstructionName(s.BacktraceSkip(pos-1, int(ins.Arg))) + "(...)"
	case op.Closure:
		return s.InstructionName(s.BacktraceSkip(pos-1, int(ins.Arg))) + "@(...)"
	}
	return errz.UnknownCallSite
}

func (s *Script) variableName(id symbol.ID) string {
	if s.symbols == nil {
		return symbol.Name(id)
	}
	return s.symbols.Name(id)
}

func (s *Script) constantName(index int) string {
	if index < 0 || index >= len(s.constants) {
		return errz.UnknownCallSite
	}
	name, err := object.AsString(s.constants[index])
	if err != nil {
		return s.constants[index].Inspect()
	}
	return name
}
