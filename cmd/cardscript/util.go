package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/cardscript"
	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/object"
)

var red = color.New(color.FgRed).SprintFunc()

func fatal(msg interface{}) {
	var s string
	switch msg := msg.(type) {
	case string:
		s = msg
	case error:
		s = msg.Error()
	default:
		s = fmt.Sprintf("%v", msg)
	}
	fmt.Fprintf(os.Stderr, "%s\n", red(s))
	os.Exit(1)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") || !isTerminal(os.Stdout) {
		color.NoColor = true
	}
}

// newLogger returns a console logger on stderr at the configured level.
func newLogger() (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("log-level")))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	writer := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: viper.GetBool("no-color") || !isTerminal(os.Stderr),
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
}

// getOptions builds evaluation options from the configuration and flags.
func getOptions(cmd *cobra.Command) ([]cardscript.Option, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	opts := []cardscript.Option{cardscript.WithLogger(logger)}
	if depth := viper.GetInt("max-depth"); depth > 0 {
		opts = append(opts, cardscript.WithMaxDepth(depth))
	}
	if !viper.GetBool("no-builtins") {
		opts = append(opts, cardscript.WithBuiltins())
	}
	globals, err := getGlobals(cmd)
	if err != nil {
		return nil, err
	}
	opts = append(opts, cardscript.WithGlobals(globals))
	return opts, nil
}

// getGlobals merges the globals from the config file with those given by
// --global flags. Flags win.
func getGlobals(cmd *cobra.Command) (map[string]any, error) {
	globals := map[string]any{}
	for name, value := range viper.GetStringMap("globals") {
		globals[name] = value
	}
	assignments, err := cmd.Flags().GetStringArray("global")
	if err != nil {
		return nil, err
	}
	for _, assignment := range assignments {
		name, value, err := parseGlobal(assignment)
		if err != nil {
			return nil, err
		}
		globals[name] = value
	}
	return globals, nil
}

// parseGlobal parses name=value. The value is decoded as JSON when possible
// and used as a plain string otherwise.
func parseGlobal(assignment string) (string, any, error) {
	name, raw, ok := strings.Cut(assignment, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", nil, fmt.Errorf("invalid global %q: expected name=value", assignment)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return name, raw, nil
	}
	return name, value, nil
}

// loadScript reads a compiled script from the file named by args[0], or
// from stdin with --stdin.
func loadScript(cmd *cobra.Command, args []string, opts ...cardscript.Option) (*bytecode.Script, error) {
	useStdin := viper.GetBool("stdin")
	if useStdin && len(args) > 0 {
		return nil, errors.New("multiple input sources specified")
	}
	var data []byte
	var err error
	switch {
	case useStdin:
		data, err = io.ReadAll(cmd.InOrStdin())
	case len(args) > 0:
		data, err = os.ReadFile(args[0])
	default:
		return nil, errors.New("no input provided")
	}
	if err != nil {
		return nil, err
	}
	return cardscript.Load(data, opts...)
}

var outputFormatsCompletion = []string{"json", "text"}

func getOutput(result object.Object, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		// Nil prints nothing, anything with a JSON form prints as JSON and
		// everything else prints its string representation.
		if result == object.Nil {
			return "", nil
		}
		output, err := getResultJSON(result)
		if err != nil {
			return fmt.Sprintf("%v", result), nil
		}
		return string(output), nil
	case "json":
		output, err := getResultJSON(result)
		if err != nil {
			return "", err
		}
		return string(output), nil
	case "text":
		return fmt.Sprintf("%v", result), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getResultJSON(result object.Object) ([]byte, error) {
	value := result.Interface()
	if value == nil && result != object.Nil {
		return nil, fmt.Errorf("%s value has no json form", result.Type())
	}
	return getOutputJSON(value)
}

func getOutputJSON(value any) ([]byte, error) {
	if color.NoColor {
		return json.MarshalIndent(value, "", "  ")
	}
	return prettyjson.Marshal(value)
}
