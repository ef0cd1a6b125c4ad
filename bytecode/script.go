package bytecode

import (
	"fmt"

	"github.com/gofrs/uuid"

	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

var _ object.Callable = (*Script)(nil)

// Script is a compiled script. It is immutable after creation and safe for
// concurrent use. A Script is also a function value: calling it evaluates
// its instructions against the calling context.
type Script struct {
	id           string
	name         string
	instructions []Instruction
	constants    []object.Object
	symbols      *symbol.Table
}

// ScriptParams contains parameters for creating a new Script.
type ScriptParams struct {
	ID           string
	Name         string
	Instructions []Instruction
	Constants    []object.Object
	Symbols      *symbol.Table
}

// NewScript creates a new immutable Script. The input slices are copied. A
// random ID is assigned when none is given.
func NewScript(params ScriptParams) *Script {
	id := params.ID
	if id == "" {
		id = uuid.Must(uuid.NewV4()).String()
	}
	symbols := params.Symbols
	if symbols == nil {
		symbols = symbol.Default
	}
	return &Script{
		id:           id,
		name:         params.Name,
		instructions: copyInstructions(params.Instructions),
		constants:    copyConstants(params.Constants),
		symbols:      symbols,
	}
}

// ID returns the unique identifier of the script.
func (s *Script) ID() string {
	return s.id
}

// Name returns the name of the script, which may be empty.
func (s *Script) Name() string {
	return s.name
}

// Symbols returns the table naming the variables the script refers to.
func (s *Script) Symbols() *symbol.Table {
	return s.symbols
}

// InstructionCount returns the number of instructions.
func (s *Script) InstructionCount() int {
	return len(s.instructions)
}

// InstructionAt returns the instruction at the given index.
func (s *Script) InstructionAt(index int) Instruction {
	return s.instructions[index]
}

// ConstantCount returns the number of constants.
func (s *Script) ConstantCount() int {
	return len(s.constants)
}

// ConstantAt returns the constant at the given index.
func (s *Script) ConstantAt(index int) object.Object {
	return s.constants[index]
}

func (s *Script) Type() object.Type {
	return object.FUNCTION
}

func (s *Script) Inspect() string {
	if s.name != "" {
		return fmt.Sprintf("script(%s)", s.name)
	}
	return fmt.Sprintf("script(%s)", s.id)
}

func (s *Script) String() string {
	return s.Inspect()
}

func (s *Script) Interface() interface{} {
	return nil
}

func (s *Script) Equals(other object.Object) bool {
	return s == other
}

func (s *Script) GetMember(name string) object.Object {
	return object.MissingMember(s, name)
}

// Call evaluates the script against the context.
func (s *Script) Call(ctx object.Context, openScope bool) (object.Object, error) {
	return ctx.Run(s, openScope)
}

// Dependencies runs the script in dependency discovery mode.
func (s *Script) Dependencies(ctx object.Context, dep object.Dependency) (object.Object, error) {
	return ctx.RunDependencies(s, dep)
}

func copyInstructions(src []Instruction) []Instruction {
	if src == nil {
		return nil
	}
	dst := make([]Instruction, len(src))
	copy(dst, src)
	return dst
}

func copyConstants(src []object.Object) []object.Object {
	if src == nil {
		return nil
	}
	dst := make([]object.Object, len(src))
	copy(dst, src)
	return dst
}
