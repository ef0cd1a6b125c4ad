package bytecode

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

// Label identifies an instruction position. Labels returned by EmitJump name
// an unresolved jump; labels returned by Label are backward jump targets.
type Label int

// Builder assembles a Script instruction by instruction. It is what a
// compiler drives, and what tests use to write scripts by hand.
type Builder struct {
	name         string
	instructions []Instruction
	constants    []object.Object
	symbols      *symbol.Table
	errs         *multierror.Error
}

// NewBuilder returns a builder for a script with the given name, naming its
// variables with symbol.Default.
func NewBuilder(name string) *Builder {
	return &Builder{name: name, symbols: symbol.Default}
}

// WithSymbols sets the table that variable names are interned into.
func (b *Builder) WithSymbols(table *symbol.Table) *Builder {
	b.symbols = table
	return b
}

// Emit appends an instruction and returns its position.
func (b *Builder) Emit(code op.Code, arg uint32) int {
	pos := len(b.instructions)
	b.instructions = append(b.instructions, Instruction{Op: code, Arg: arg})
	return pos
}

// EmitConst adds value to the constant pool and emits an instruction that
// refers to it.
func (b *Builder) EmitConst(code op.Code, value object.Object) int {
	if !code.HasConstant() {
		b.fail(fmt.Errorf("%s does not take a constant", code))
	}
	b.constants = append(b.constants, value)
	return b.Emit(code, uint32(len(b.constants)-1))
}

// EmitVar emits an instruction referring to the named variable.
func (b *Builder) EmitVar(code op.Code, name string) int {
	id, err := b.symbols.Intern(name)
	if err != nil {
		b.fail(err)
	}
	return b.Emit(code, uint32(id))
}

// EmitCall emits a Call of len(params) arguments followed by the parameter
// names the arguments are bound to.
func (b *Builder) EmitCall(params ...string) int {
	pos := b.Emit(op.Call, uint32(len(params)))
	for _, name := range params {
		b.EmitVar(op.Nop, name)
	}
	return pos
}

// EmitClosure emits a Closure capturing len(params) values under the given
// names.
func (b *Builder) EmitClosure(params ...string) int {
	pos := b.Emit(op.Closure, uint32(len(params)))
	for _, name := range params {
		b.EmitVar(op.Nop, name)
	}
	return pos
}

// EmitJump emits a jump-family instruction with an unresolved target and
// returns a label for it. The label must later be passed to Patch.
func (b *Builder) EmitJump(code op.Code) Label {
	if !code.IsJump() {
		b.fail(fmt.Errorf("%s is not a jump", code))
	}
	return Label(b.Emit(code, InvalidAddress))
}

// EmitJumpTo emits a jump to an already known target, typically a loop
// header obtained from Label.
func (b *Builder) EmitJumpTo(code op.Code, target Label) int {
	if !code.IsJump() {
		b.fail(fmt.Errorf("%s is not a jump", code))
	}
	return b.Emit(code, uint32(target))
}

// Label returns the position of the next instruction to be emitted.
func (b *Builder) Label() Label {
	return Label(len(b.instructions))
}

// Patch resolves the jump at label to the position of the next instruction
// to be emitted. Each jump is patched exactly once.
func (b *Builder) Patch(label Label) error {
	if label < 0 || int(label) >= len(b.instructions) {
		return fmt.Errorf("patch: label %d out of range", label)
	}
	ins := &b.instructions[label]
	if !ins.Op.IsJump() {
		return fmt.Errorf("patch: instruction %d is %s, not a jump", label, ins.Op)
	}
	if ins.Arg != InvalidAddress {
		return fmt.Errorf("patch: jump at %d is already resolved", label)
	}
	ins.Arg = uint32(len(b.instructions))
	return nil
}

// Len returns the number of instructions emitted so far.
func (b *Builder) Len() int {
	return len(b.instructions)
}

// Build returns the finished script. It fails if any jump is unresolved or
// an earlier emit was invalid, reporting every problem at once.
func (b *Builder) Build() (*Script, error) {
	errs := b.errs
	for pos, ins := range b.instructions {
		if !ins.Resolved() {
			errs = multierror.Append(errs, fmt.Errorf("unresolved %s at %d", ins.Op, pos))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return NewScript(ScriptParams{
		Name:         b.name,
		Instructions: b.instructions,
		Constants:    b.constants,
		Symbols:      b.symbols,
	}), nil
}

func (b *Builder) fail(err error) {
	b.errs = multierror.Append(b.errs, err)
}
