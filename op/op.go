// Package op defines opcodes used by compiled cardscript code and the
// virtual machine that runs it.
package op

// Code is an integer opcode that indicates an operation to execute.
type Code uint8

const (
	// Nop has no effect when executed. The instructions that trail a Call or
	// Closure are Nops whose operand is a parameter name.
	Nop Code = 0

	// Constants and variables
	PushConst   Code = 1
	GetVar      Code = 2
	SetVar      Code = 3
	MemberConst Code = 4

	// Jumps. The operand is an absolute instruction index.
	Jump      Code = 10
	JumpIfNot Code = 11
	JumpScAnd Code = 12
	JumpScOr  Code = 13

	// Iteration
	Loop        Code = 20
	LoopWithKey Code = 21

	// Construction and calls
	MakeObject Code = 30
	Call       Code = 31
	Closure    Code = 32

	// Simple instructions, the operand is a sub-operation tag
	Unary      Code = 40
	Binary     Code = 41
	Ternary    Code = 42
	Quaternary Code = 43

	// Stack
	Dup Code = 50
)

// IsJump returns true for opcodes whose operand is a jump target. These are
// the instructions that may be emitted unresolved and patched later.
func (c Code) IsJump() bool {
	switch c {
	case Jump, JumpIfNot, JumpScAnd, JumpScOr, Loop, LoopWithKey:
		return true
	}
	return false
}

// HasVariable returns true for opcodes whose operand is a variable identifier.
func (c Code) HasVariable() bool {
	switch c {
	case GetVar, SetVar, Nop:
		return true
	}
	return false
}

// HasConstant returns true for opcodes whose operand indexes the constant pool.
func (c Code) HasConstant() bool {
	return c == PushConst || c == MemberConst
}

// String returns the name of the opcode, e.g. "PUSH_CONST".
func (c Code) String() string {
	return GetInfo(c).Name
}

// UnaryOpType is the sub-operation of a Unary instruction.
type UnaryOpType uint32

const (
	IteratorC UnaryOpType = 1
	Negate    UnaryOpType = 2
	Not       UnaryOpType = 3
)

// String returns a string representation of the unary operation.
func (uop UnaryOpType) String() string {
	switch uop {
	case IteratorC:
		return "iterator"
	case Negate:
		return "negate"
	case Not:
		return "not"
	default:
		return ""
	}
}

// BinaryOpType is the sub-operation of a Binary instruction.
type BinaryOpType uint32

const (
	IteratorR BinaryOpType = 1
	Member    BinaryOpType = 2
	Add       BinaryOpType = 3
	Sub       BinaryOpType = 4
	Mul       BinaryOpType = 5
	FDiv      BinaryOpType = 6
	Div       BinaryOpType = 7
	Mod       BinaryOpType = 8
	And       BinaryOpType = 9
	Or        BinaryOpType = 10
	Xor       BinaryOpType = 11
	Eq        BinaryOpType = 12
	Neq       BinaryOpType = 13
	Lt        BinaryOpType = 14
	Gt        BinaryOpType = 15
	Le        BinaryOpType = 16
	Ge        BinaryOpType = 17
	Min       BinaryOpType = 18
	Max       BinaryOpType = 19
	OrElse    BinaryOpType = 20
	Pop       BinaryOpType = 21
)

// String returns a string representation of the binary operation.
// For example "+" for addition.
func (bop BinaryOpType) String() string {
	switch bop {
	case IteratorR:
		return "range"
	case Member:
		return "member"
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case FDiv:
		return "/"
	case Div:
		return "div"
	case Mod:
		return "mod"
	case And:
		return "and"
	case Or:
		return "or"
	case Xor:
		return "xor"
	case Eq:
		return "=="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Gt:
		return ">"
	case Le:
		return "<="
	case Ge:
		return ">="
	case Min:
		return "min"
	case Max:
		return "max"
	case OrElse:
		return "or else"
	case Pop:
		return "pop"
	default:
		return ""
	}
}

// TernaryOpType is the sub-operation of a Ternary instruction.
type TernaryOpType uint32

const (
	RGB TernaryOpType = 1
)

func (top TernaryOpType) String() string {
	if top == RGB {
		return "rgb"
	}
	return ""
}

// QuaternaryOpType is the sub-operation of a Quaternary instruction.
type QuaternaryOpType uint32

const (
	RGBA QuaternaryOpType = 1
)

func (qop QuaternaryOpType) String() string {
	if qop == RGBA {
		return "rgba"
	}
	return ""
}

// SubName returns the name of the sub-operation tag for simple instructions,
// or an empty string for any other opcode.
func SubName(code Code, arg uint32) string {
	switch code {
	case Unary:
		return UnaryOpType(arg).String()
	case Binary:
		return BinaryOpType(arg).String()
	case Ternary:
		return TernaryOpType(arg).String()
	case Quaternary:
		return QuaternaryOpType(arg).String()
	}
	return ""
}

// SubByName is the inverse of SubName.
func SubByName(code Code, name string) (uint32, bool) {
	var limit uint32
	switch code {
	case Unary:
		limit = uint32(Not)
	case Binary:
		limit = uint32(Pop)
	case Ternary:
		limit = uint32(RGB)
	case Quaternary:
		limit = uint32(RGBA)
	default:
		return 0, false
	}
	for arg := uint32(1); arg <= limit; arg++ {
		if SubName(code, arg) == name {
			return arg, true
		}
	}
	return 0, false
}

// StackEffect returns the net change in stack depth caused by executing an
// instruction, assuming a fall-through path for conditional instructions.
// Loops and conditional jumps report the effect of the fall-through.
func StackEffect(code Code, arg uint32) int {
	switch code {
	case PushConst, GetVar, Dup:
		return 1
	case Binary, JumpIfNot, JumpScAnd, JumpScOr:
		return -1
	case Ternary:
		return -2
	case Quaternary:
		return -3
	case Call, Closure:
		return -int(arg)
	case MakeObject:
		return 1 - 2*int(arg)
	case Loop:
		return 1
	case LoopWithKey:
		return 2
	}
	return 0
}

// Info contains information about an opcode.
type Info struct {
	Code Code
	Name string
}

var (
	infos   = make([]Info, 256)
	byNames = map[string]Code{}
)

func init() {
	type opInfo struct {
		op   Code
		name string
	}
	ops := []opInfo{
		{Binary, "BINARY"},
		{Call, "CALL"},
		{Closure, "CLOSURE"},
		{Dup, "DUP"},
		{GetVar, "GET_VAR"},
		{Jump, "JUMP"},
		{JumpIfNot, "JUMP_IF_NOT"},
		{JumpScAnd, "JUMP_SC_AND"},
		{JumpScOr, "JUMP_SC_OR"},
		{Loop, "LOOP"},
		{LoopWithKey, "LOOP_WITH_KEY"},
		{MakeObject, "MAKE_OBJECT"},
		{MemberConst, "MEMBER_CONST"},
		{Nop, "NOP"},
		{PushConst, "PUSH_CONST"},
		{Quaternary, "QUATERNARY"},
		{SetVar, "SET_VAR"},
		{Ternary, "TERNARY"},
		{Unary, "UNARY"},
	}
	for _, o := range ops {
		infos[o.op] = Info{Name: o.name, Code: o.op}
		byNames[o.name] = o.op
	}
}

// GetInfo returns information about the given opcode. Unknown opcodes have an
// empty name.
func GetInfo(op Code) Info {
	return infos[op]
}

// ByName looks up an opcode by its name, e.g. "GET_VAR".
func ByName(name string) (Code, bool) {
	code, ok := byNames[name]
	return code, ok
}
