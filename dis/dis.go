// Package dis supports analysis of compiled scripts by disassembling them.
package dis

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/internal/table"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

// Instruction represents a single instruction and its operand.
type Instruction struct {
	Offset     int
	Name       string
	Opcode     op.Code
	Operand    uint32
	Annotation string
	Constant   object.Object
}

// Listing is the disassembly of one script.
type Listing struct {
	Name         string
	ID           string
	Instructions []Instruction
}

// Disassemble returns a parsed representation of the given script.
func Disassemble(script *bytecode.Script) []Instruction {
	instructions := make([]Instruction, 0, script.InstructionCount())
	for pos := 0; pos < script.InstructionCount(); pos++ {
		ins := script.InstructionAt(pos)
		out := Instruction{
			Offset:  pos,
			Name:    ins.Op.String(),
			Opcode:  ins.Op,
			Operand: ins.Arg,
		}
		switch {
		case ins.Op.HasConstant():
			out.Constant = script.ConstantAt(int(ins.Arg))
		case ins.Op.HasVariable():
			out.Annotation = variableName(script, symbol.ID(ins.Arg))
		case ins.Op.IsJump():
			out.Annotation = fmt.Sprintf("-> %d", ins.Arg)
		case ins.Op == op.Call || ins.Op == op.Closure:
			out.Annotation = fmt.Sprintf("%d args", ins.Arg)
		default:
			out.Annotation = op.SubName(ins.Op, ins.Arg)
		}
		instructions = append(instructions, out)
	}
	return instructions
}

// DisassembleAll disassembles a script and, depth first, every script in its
// constant pool.
func DisassembleAll(script *bytecode.Script) []Listing {
	var listings []Listing
	seen := map[*bytecode.Script]bool{}
	var visit func(s *bytecode.Script)
	visit = func(s *bytecode.Script) {
		if seen[s] {
			return
		}
		seen[s] = true
		listings = append(listings, Listing{Name: s.Name(), ID: s.ID(), Instructions: Disassemble(s)})
		for i := 0; i < s.ConstantCount(); i++ {
			if nested, ok := s.ConstantAt(i).(*bytecode.Script); ok {
				visit(nested)
			}
		}
	}
	visit(script)
	return listings
}

func variableName(script *bytecode.Script, id symbol.ID) string {
	if table := script.Symbols(); table != nil {
		return table.Name(id)
	}
	return symbol.Name(id)
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	italic  = color.New(color.Italic).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
)

// Print a string representation of the given instructions to the given writer.
func Print(instructions []Instruction, writer io.Writer) error {
	var lines [][]string
	for _, instr := range instructions {
		values := []string{
			fmt.Sprintf("%d", instr.Offset),
			bold(instr.Name),
			fmt.Sprintf("%d", instr.Operand),
		}
		if instr.Constant != nil {
			values = append(values, formatConstant(instr.Constant))
		} else {
			values = append(values, cyan(instr.Annotation))
		}
		lines = append(lines, values)
	}
	return table.NewTable(writer).
		WithHeader([]string{"OFFSET", "OPCODE", "OPERAND", "INFO"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
			table.AlignCenter,
		}).
		WithRows(lines).
		Render()
}

// PrintAll prints every listing, each under a heading naming the script.
func PrintAll(listings []Listing, writer io.Writer) error {
	for i, listing := range listings {
		if i > 0 {
			if _, err := fmt.Fprintln(writer); err != nil {
				return err
			}
		}
		name := listing.Name
		if name == "" {
			name = italic("<anonymous>")
		}
		if _, err := fmt.Fprintf(writer, "%s %s (%s)\n", bold("script"), name, listing.ID); err != nil {
			return err
		}
		if err := Print(listing.Instructions, writer); err != nil {
			return err
		}
	}
	return nil
}

func formatConstant(c object.Object) string {
	switch c := c.(type) {
	case *object.Int, *object.Float:
		return yellow(c.Inspect())
	case *object.String:
		s := c.Value()
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return green(fmt.Sprintf("%q", s))
	case *bytecode.Script:
		name := c.Name()
		if name == "" {
			name = italic("<anonymous>")
		}
		return magenta("script:" + name)
	default:
		return bold(c.Inspect())
	}
}
