package vm

import (
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/symbol"
)

// DefaultMaxDepth is the default bound on scope nesting. Scripts that recurse
// deeper fail with a stack overflow error.
const DefaultMaxDepth = 500

// Option is a configuration function for a Context.
type Option func(*Context)

// WithLogger sets the logger used for debug events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Context) {
		c.logger = logger
	}
}

// WithMaxDepth sets the maximum scope nesting depth.
func WithMaxDepth(depth int) Option {
	return func(c *Context) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithSymbols sets the table used to resolve variable names. It must be the
// table the evaluated scripts were built with.
func WithSymbols(table *symbol.Table) Option {
	return func(c *Context) {
		c.symbols = table
	}
}

// WithGlobals binds the given variables at the outermost level once all
// options are applied. Names that are not yet interned are interned; if that
// fails because the table is frozen, the first evaluation reports the error.
func WithGlobals(globals map[string]object.Object) Option {
	return func(c *Context) {
		for name, value := range globals {
			c.globals[name] = value
		}
	}
}

// WithObserver sets an observer for evaluation events.
func WithObserver(observer Observer) Option {
	return func(c *Context) {
		c.observer = observer
		c.observerConfig = NormalizeConfig(observer.Config())
	}
}
