package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
)

// costLabel computes: to_string(card.cost) + " mana"
func costLabel(t *testing.T) []byte {
	t.Helper()
	b := bytecode.NewBuilder("cost_label")
	b.EmitVar(op.GetVar, "to_string")
	b.EmitVar(op.GetVar, "card")
	b.EmitConst(op.MemberConst, object.NewString("cost"))
	b.EmitCall("input")
	b.EmitConst(op.PushConst, object.NewString(" mana"))
	b.Emit(op.Binary, uint32(op.Add))
	script, err := b.Build()
	require.Nil(t, err)
	data, err := bytecode.Marshal(script)
	require.Nil(t, err)
	return data
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.Nil(t, os.WriteFile(path, data, 0o644))
	return path
}

func execute(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if stdin != nil {
		cmd.SetIn(bytes.NewReader(stdin))
	}
	cmd.SetArgs(append(args, "--no-color"))
	err := cmd.Execute()
	return out.String(), err
}

func TestRun(t *testing.T) {
	path := writeFile(t, "cost.json", costLabel(t))

	out, err := execute(t, nil, "run", path, "-g", `card={"cost": 2}`)
	require.Nil(t, err)
	require.Equal(t, "\"2 mana\"\n", out)

	out, err = execute(t, nil, "run", path, "-g", `card={"cost": 2}`, "-o", "text")
	require.Nil(t, err)
	require.Equal(t, "2 mana\n", out)
}

func TestRunStdin(t *testing.T) {
	out, err := execute(t, costLabel(t), "run", "--stdin", "-g", `card={"cost": 4}`, "-o", "text")
	require.Nil(t, err)
	require.Equal(t, "4 mana\n", out)
}

func TestRunInputErrors(t *testing.T) {
	_, err := execute(t, nil, "run")
	require.EqualError(t, err, "no input provided")

	path := writeFile(t, "cost.json", costLabel(t))
	_, err = execute(t, costLabel(t), "run", path, "--stdin")
	require.EqualError(t, err, "multiple input sources specified")
}

func TestRunWithoutBuiltins(t *testing.T) {
	path := writeFile(t, "cost.json", costLabel(t))
	_, err := execute(t, nil, "run", path, "--no-builtins", "-g", `card={"cost": 2}`)
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "to_string")
}

func TestRunWithConfigFile(t *testing.T) {
	script := writeFile(t, "cost.json", costLabel(t))
	config := writeFile(t, "cardscript.yaml", []byte(`
output: text
log-level: error
globals:
  card:
    cost: 9
`))
	out, err := execute(t, nil, "run", script, "--config", config)
	require.Nil(t, err)
	require.Equal(t, "9 mana\n", out)

	// Flags take precedence over the config file
	out, err = execute(t, nil, "run", script, "--config", config, "-g", `card={"cost": 1}`)
	require.Nil(t, err)
	require.Equal(t, "1 mana\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	path := writeFile(t, "cost.json", costLabel(t))
	_, err := execute(t, nil, "run", path, "--log-level", "loud")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "invalid log level")
}

func TestDis(t *testing.T) {
	path := writeFile(t, "cost.json", costLabel(t))
	out, err := execute(t, nil, "dis", path)
	require.Nil(t, err)
	require.Contains(t, out, "| OFFSET |")
	require.Contains(t, out, "GET_VAR")
	require.Contains(t, out, "to_string")
	require.Contains(t, out, `"cost"`)

	_, err = execute(t, nil, "dis", path, "--func", "missing")
	require.EqualError(t, err, `function "missing" not found`)

	out, err = execute(t, nil, "dis", path, "--all")
	require.Nil(t, err)
	require.True(t, strings.HasPrefix(out, "script cost_label ("))
}

func TestDeps(t *testing.T) {
	path := writeFile(t, "cost.json", costLabel(t))
	out, err := execute(t, nil, "deps", path, "--index", "3", "--name", "label")
	require.Nil(t, err)
	require.Contains(t, out, "card.cost")
	require.Contains(t, out, "card_field[3]:label")

	out, err = execute(t, nil, "deps", path, "--kind", "style", "-o", "json")
	require.Nil(t, err)
	var results []depsResult
	require.Nil(t, json.Unmarshal([]byte(out), &results))
	require.Equal(t, []depsResult{{Path: "card.cost", Kind: "style"}}, results)
}

func TestDepsNothingTracked(t *testing.T) {
	path := writeFile(t, "cost.json", costLabel(t))
	out, err := execute(t, nil, "deps", path, "--track", "set", "-g", `card={"cost": 2}`)
	require.Nil(t, err)
	require.Equal(t, "no dependencies\n", out)
}

func TestParseDependencyKind(t *testing.T) {
	kind, err := parseDependencyKind("choice_image")
	require.Nil(t, err)
	require.Equal(t, object.DepChoiceImage, kind)

	_, err = parseDependencyKind("nope")
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "card_field, card_copy")
}

func TestParseGlobal(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		expected any
	}{
		{"n=3", "n", float64(3)},
		{"name=Elf", "name", "Elf"},
		{`name="Elf"`, "name", "Elf"},
		{"flag=true", "flag", true},
		{"list=[1]", "list", []any{float64(1)}},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			name, value, err := parseGlobal(tc.input)
			require.Nil(t, err)
			require.Equal(t, tc.name, name)
			require.Equal(t, tc.expected, value)
		})
	}
	_, _, err := parseGlobal("=3")
	require.NotNil(t, err)
	_, _, err = parseGlobal("novalue")
	require.NotNil(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.Nil(t, err)
	require.Equal(t, "dev\n", out)

	out, err = execute(t, nil, "version", "-o", "json")
	require.Nil(t, err)
	var info map[string]string
	require.Nil(t, json.Unmarshal([]byte(out), &info))
	require.Equal(t, "dev", info["version"])
}

func TestGetOutput(t *testing.T) {
	out, err := getOutput(object.Nil, "")
	require.Nil(t, err)
	require.Equal(t, "", out)

	_, err = getOutput(object.NewInt(1), "yaml")
	require.EqualError(t, err, "unknown output format: yaml")

	fn := object.NewBuiltin("f", nil)
	out, err = getOutput(fn, "")
	require.Nil(t, err)
	require.Equal(t, fn.String(), out)

	_, err = getOutput(fn, "json")
	require.NotNil(t, err)
}
