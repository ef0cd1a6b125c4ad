// Package cardscript evaluates compiled card scripts: small programs that
// compute card fields, styles and other derived values from host data.
//
// Scripts are produced by a compiler, or loaded from their JSON form with
// Load, and are immutable. Each call to Evaluate or Dependencies uses fresh
// runtime state, so any number of goroutines may evaluate the same script.
package cardscript

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/cardscript/builtins"
	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/symbol"
	"github.com/deepnoodle-ai/cardscript/vm"
)

// Option configures an evaluation.
type Option func(*options)

type options struct {
	globals  map[string]any
	logger   *zerolog.Logger
	maxDepth int
	symbols  *symbol.Table
	observer vm.Observer
}

func collectOptions(opts ...Option) *options {
	o := &options{globals: map[string]any{}}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// vmOpts converts the options to context options. Global values that are
// not objects are converted with object.FromGoType.
func (o *options) vmOpts() ([]vm.Option, error) {
	var errs *multierror.Error
	globals := make(map[string]object.Object, len(o.globals))
	names := make([]string, 0, len(o.globals))
	for name := range o.globals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value, err := object.FromGoType(o.globals[name])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("global %s: %w", name, err))
			continue
		}
		globals[name] = value
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	var opts []vm.Option
	if o.symbols != nil {
		opts = append(opts, vm.WithSymbols(o.symbols))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	if o.maxDepth > 0 {
		opts = append(opts, vm.WithMaxDepth(o.maxDepth))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	opts = append(opts, vm.WithGlobals(globals))
	return opts, nil
}

// WithGlobals provides variables that are made available to scripts. This
// option is additive, so multiple WithGlobals options may be supplied. If
// the same key is supplied multiple times, the last value wins. Values may
// be objects or plain Go values such as decoded JSON.
func WithGlobals(globals map[string]any) Option {
	return func(o *options) {
		for k, v := range globals {
			o.globals[k] = v
		}
	}
}

// WithGlobal supplies a single named variable.
func WithGlobal(name string, value any) Option {
	return func(o *options) {
		o.globals[name] = value
	}
}

// WithBuiltins makes the standard native functions available. Globals with
// the same names take precedence regardless of option order.
func WithBuiltins() Option {
	return func(o *options) {
		for k, v := range builtins.Builtins() {
			if _, exists := o.globals[k]; !exists {
				o.globals[k] = v
			}
		}
	}
}

// WithLogger sets the logger that receives debug events and trace output.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithMaxDepth bounds the nesting of calls and scopes.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithSymbols sets the symbol table the scripts were loaded with. The
// default is symbol.Default.
func WithSymbols(table *symbol.Table) Option {
	return func(o *options) {
		o.symbols = table
	}
}

// WithObserver sets an observer for evaluation events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// Builtins returns the standard native functions by name.
func Builtins() map[string]object.Object {
	return builtins.Builtins()
}

// Load decodes a script from its JSON form, interning its variable names
// into the table set with WithSymbols.
func Load(data []byte, opts ...Option) (*bytecode.Script, error) {
	o := collectOptions(opts...)
	table := o.symbols
	if table == nil {
		table = symbol.Default
	}
	return bytecode.UnmarshalWithSymbols(data, table)
}

// Evaluate runs a script and returns its value.
func Evaluate(ctx context.Context, script *bytecode.Script, opts ...Option) (object.Object, error) {
	c, err := newContext(opts...)
	if err != nil {
		return nil, err
	}
	return c.Evaluate(ctx, script)
}

// Dependencies runs a script in dependency discovery mode. Globals that
// implement object.DependencyTracker, such as object.Tracked, are notified
// of every read the script could make, on behalf of dep.
func Dependencies(ctx context.Context, script *bytecode.Script, dep object.Dependency, opts ...Option) (object.Object, error) {
	c, err := newContext(opts...)
	if err != nil {
		return nil, err
	}
	return c.Dependencies(ctx, script, dep)
}

// Interface evaluates a script and converts the result to a Go value.
// Values without a Go equivalent, such as functions, are returned as their
// string representation.
func Interface(ctx context.Context, script *bytecode.Script, opts ...Option) (any, error) {
	result, err := Evaluate(ctx, script, opts...)
	if err != nil {
		return nil, err
	}
	value := result.Interface()
	if value == nil {
		if _, isNil := result.(*object.NilType); !isNil {
			return result.Inspect(), nil
		}
	}
	return value, nil
}

func newContext(opts ...Option) (*vm.Context, error) {
	vmOpts, err := collectOptions(opts...).vmOpts()
	if err != nil {
		return nil, err
	}
	return vm.New(vmOpts...), nil
}
