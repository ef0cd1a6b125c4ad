package bytecode

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

// Marshal converts a Script into its JSON representation. Variables are
// written by name so the result does not depend on interning order.
func Marshal(script *Script) ([]byte, error) {
	def, err := defFromScript(script)
	if err != nil {
		return nil, err
	}
	return json.Marshal(def)
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(script *Script) ([]byte, error) {
	def, err := defFromScript(script)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(def, "", "  ")
}

// Unmarshal converts a JSON representation into a Script, interning variable
// names into symbol.Default.
func Unmarshal(data []byte) (*Script, error) {
	return UnmarshalWithSymbols(data, symbol.Default)
}

// UnmarshalWithSymbols is like Unmarshal but interns variable names into the
// given table. The script is validated: every invalid instruction is
// reported.
func UnmarshalWithSymbols(data []byte, table *symbol.Table) (*Script, error) {
	var def scriptDef
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, err
	}
	return scriptFromDef(&def, table)
}

// Serialization types

type instructionDef struct {
	Op  string `json:"op"`
	Arg uint32 `json:"arg"`
	Sub string `json:"sub,omitempty"`
	Var string `json:"var,omitempty"`
}

type constantDef struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type scriptDef struct {
	ID           string           `json:"id"`
	Name         string           `json:"name,omitempty"`
	Instructions []instructionDef `json:"instructions"`
	Constants    []constantDef    `json:"constants"`
}

func defFromScript(s *Script) (*scriptDef, error) {
	def := &scriptDef{
		ID:           s.id,
		Name:         s.name,
		Instructions: make([]instructionDef, len(s.instructions)),
		Constants:    make([]constantDef, len(s.constants)),
	}
	for i, ins := range s.instructions {
		d := instructionDef{Op: ins.Op.String(), Arg: ins.Arg}
		if sub := op.SubName(ins.Op, ins.Arg); sub != "" {
			d.Sub = sub
		}
		if ins.Op.HasVariable() {
			d.Var = s.variableName(symbol.ID(ins.Arg))
		}
		def.Instructions[i] = d
	}
	for i, c := range s.constants {
		cd, err := marshalConstant(c)
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		def.Constants[i] = cd
	}
	return def, nil
}

func marshalConstant(obj object.Object) (constantDef, error) {
	var value interface{}
	switch obj := obj.(type) {
	case *object.NilType:
		return constantDef{Type: "nil"}, nil
	case *object.Bool:
		value = obj.Value()
	case *object.Int:
		value = obj.Value()
	case *object.Float:
		value = obj.Value()
	case *object.String:
		value = obj.Value()
	case *object.Color:
		value = obj.String()
	case *Script:
		def, err := defFromScript(obj)
		if err != nil {
			return constantDef{}, err
		}
		value = def
	default:
		return constantDef{}, fmt.Errorf("unsupported constant type: %s", obj.Type())
	}
	data, err := json.Marshal(value)
	if err != nil {
		return constantDef{}, err
	}
	return constantDef{Type: constantType(obj), Value: data}, nil
}

func constantType(obj object.Object) string {
	if _, ok := obj.(*Script); ok {
		return "script"
	}
	return string(obj.Type())
}

func scriptFromDef(def *scriptDef, table *symbol.Table) (*Script, error) {
	var errs *multierror.Error
	constants := make([]object.Object, len(def.Constants))
	for i, cd := range def.Constants {
		c, err := unmarshalConstant(cd, table)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("constant %d: %w", i, err))
			c = object.Nil
		}
		constants[i] = c
	}
	instructions := make([]Instruction, len(def.Instructions))
	for i, d := range def.Instructions {
		ins, err := unmarshalInstruction(d, table)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("instruction %d: %w", i, err))
		}
		instructions[i] = ins
	}
	for _, err := range validate(instructions, len(constants)) {
		errs = multierror.Append(errs, err)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return NewScript(ScriptParams{
		ID:           def.ID,
		Name:         def.Name,
		Instructions: instructions,
		Constants:    constants,
		Symbols:      table,
	}), nil
}

func unmarshalInstruction(d instructionDef, table *symbol.Table) (Instruction, error) {
	code, ok := op.ByName(d.Op)
	if !ok {
		return Instruction{}, fmt.Errorf("unknown opcode %q", d.Op)
	}
	ins := Instruction{Op: code, Arg: d.Arg}
	if d.Sub != "" {
		arg, ok := op.SubByName(code, d.Sub)
		if !ok {
			return ins, fmt.Errorf("unknown %s operation %q", code, d.Sub)
		}
		ins.Arg = arg
	}
	if d.Var != "" && code.HasVariable() {
		id, err := table.Intern(d.Var)
		if err != nil {
			return ins, err
		}
		ins.Arg = uint32(id)
	}
	return ins, nil
}

func unmarshalConstant(cd constantDef, table *symbol.Table) (object.Object, error) {
	switch cd.Type {
	case "nil":
		return object.Nil, nil
	case "bool":
		var v bool
		if err := json.Unmarshal(cd.Value, &v); err != nil {
			return nil, err
		}
		return object.NewBool(v), nil
	case "int":
		var v int64
		if err := json.Unmarshal(cd.Value, &v); err != nil {
			return nil, err
		}
		return object.NewInt(v), nil
	case "float":
		var v float64
		if err := json.Unmarshal(cd.Value, &v); err != nil {
			return nil, err
		}
		return object.NewFloat(v), nil
	case "string":
		var v string
		if err := json.Unmarshal(cd.Value, &v); err != nil {
			return nil, err
		}
		return object.NewString(v), nil
	case "color":
		var v string
		if err := json.Unmarshal(cd.Value, &v); err != nil {
			return nil, err
		}
		c, err := object.AsColor(object.NewString(v))
		if err != nil {
			return nil, err
		}
		return object.NewColor(c), nil
	case "script":
		var def scriptDef
		if err := json.Unmarshal(cd.Value, &def); err != nil {
			return nil, err
		}
		return scriptFromDef(&def, table)
	default:
		return nil, fmt.Errorf("unsupported constant type: %q", cd.Type)
	}
}

// validate checks the operands that the virtual machine trusts: constant
// indexes, jump targets and the argument names trailing calls.
func validate(instructions []Instruction, constantCount int) []error {
	var errs []error
	for pos, ins := range instructions {
		switch {
		case ins.Op.HasConstant():
			if int(ins.Arg) >= constantCount {
				errs = append(errs, fmt.Errorf("instruction %d: constant %d out of range", pos, ins.Arg))
			}
		case ins.Op.IsJump():
			if ins.Arg == InvalidAddress {
				errs = append(errs, fmt.Errorf("instruction %d: unresolved %s", pos, ins.Op))
			} else if int(ins.Arg) > len(instructions) {
				errs = append(errs, fmt.Errorf("instruction %d: jump target %d out of range", pos, ins.Arg))
			}
		case ins.Op == op.Call || ins.Op == op.Closure:
			if pos+int(ins.Arg) >= len(instructions) {
				errs = append(errs, fmt.Errorf("instruction %d: missing argument names", pos))
				continue
			}
			for j := 1; j <= int(ins.Arg); j++ {
				if instructions[pos+j].Op != op.Nop {
					errs = append(errs, fmt.Errorf("instruction %d: argument name %d is %s, not NOP", pos, j, instructions[pos+j].Op))
				}
			}
		}
	}
	return errs
}
