package builtins

import (
	"github.com/deepnoodle-ai/cardscript/object"
)

// Entry defines a builtin function along with its documentation.
type Entry struct {
	Name    string
	Fn      object.BuiltinFunction
	Deps    object.DependencyFunction
	Doc     string
	Args    []string
	Returns string
	Example string
}

// FuncSpec documents a builtin function.
type FuncSpec struct {
	Name    string   `json:"name"`
	Doc     string   `json:"doc"`
	Args    []string `json:"args"`
	Returns string   `json:"returns"`
	Example string   `json:"example"`
}

var registry = []Entry{
	{
		Name:    "decode",
		Fn:      Decode,
		Doc:     "Decode a string with the named codec (base64, hex, json, urlquery)",
		Args:    []string{"input", "codec?"},
		Returns: "any",
		Example: `decode("aGk=", "base64")`,
	},
	{
		Name:    "encode",
		Fn:      Encode,
		Doc:     "Encode a value with the named codec (base64, hex, json, urlquery)",
		Args:    []string{"input", "codec?"},
		Returns: "string",
		Example: `encode([1, 2])`,
	},
	{
		Name:    "error_value",
		Fn:      ErrorValue,
		Doc:     "Return an error value that is raised when used, unless replaced with or else",
		Args:    []string{"input"},
		Returns: "error",
		Example: `error_value("no cost") or else 0`,
	},
	{
		Name:    "length",
		Fn:      Length,
		Doc:     "Return the number of items of a collection or characters of a string",
		Args:    []string{"input"},
		Returns: "int",
		Example: `length("Elf")`,
	},
	{
		Name:    "throw",
		Fn:      Throw,
		Doc:     "Raise an error with the given message",
		Args:    []string{"input"},
		Returns: "nothing",
		Example: `throw("unknown rarity")`,
	},
	{
		Name:    "to_boolean",
		Fn:      ToBoolean,
		Doc:     "Convert a value to a boolean",
		Args:    []string{"input"},
		Returns: "bool",
		Example: `to_boolean("yes")`,
	},
	{
		Name:    "to_color",
		Fn:      ToColor,
		Doc:     "Convert a string like rgb(1,2,3) or #010203 to a color",
		Args:    []string{"input"},
		Returns: "color",
		Example: `to_color("#ff0000")`,
	},
	{
		Name:    "to_int",
		Fn:      ToInt,
		Doc:     "Convert a value to an integer",
		Args:    []string{"input"},
		Returns: "int",
		Example: `to_int("42")`,
	},
	{
		Name:    "to_real",
		Fn:      ToReal,
		Doc:     "Convert a value to a real number",
		Args:    []string{"input"},
		Returns: "float",
		Example: `to_real(1)`,
	},
	{
		Name:    "to_string",
		Fn:      ToString,
		Doc:     "Convert a value to a string",
		Args:    []string{"input"},
		Returns: "string",
		Example: `to_string(12)`,
	},
	{
		Name:    "trace",
		Fn:      Trace,
		Deps:    passInput,
		Doc:     "Log a value at debug level and return it",
		Args:    []string{"input"},
		Returns: "any",
		Example: `trace(card.name)`,
	},
	{
		Name:    "type_name",
		Fn:      TypeName,
		Doc:     "Return the type name of a value",
		Args:    []string{"input"},
		Returns: "string",
		Example: `type_name([1, 2])`,
	},
}

// Builtins returns all builtin functions by name.
func Builtins() map[string]object.Object {
	result := make(map[string]object.Object, len(registry))
	for _, entry := range registry {
		b := object.NewBuiltin(entry.Name, entry.Fn)
		if entry.Deps != nil {
			b = b.WithDependencies(entry.Deps)
		}
		result[entry.Name] = b
	}
	return result
}

// Docs returns documentation for all builtin functions.
func Docs() []FuncSpec {
	specs := make([]FuncSpec, len(registry))
	for i, entry := range registry {
		specs[i] = FuncSpec{
			Name:    entry.Name,
			Doc:     entry.Doc,
			Args:    entry.Args,
			Returns: entry.Returns,
			Example: entry.Example,
		}
	}
	return specs
}

// Binder is implemented by contexts that variables can be bound in.
type Binder interface {
	SetVariableByName(name string, value object.Object) error
}

// Install binds every builtin function by name in the current scope of ctx.
func Install(ctx Binder) error {
	for name, fn := range Builtins() {
		if err := ctx.SetVariableByName(name, fn); err != nil {
			return err
		}
	}
	return nil
}
