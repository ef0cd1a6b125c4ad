package vm

import (
	"github.com/deepnoodle-ai/cardscript/op"
)

// StepMode selects which instructions are reported to Observer.OnStep.
type StepMode uint8

const (
	StepAll StepMode = iota
	StepNone
	StepSampled // every SampleInterval instructions
)

// ObserverConfig is returned by Observer.Config when the observer is
// attached to a Context.
type ObserverConfig struct {
	StepMode       StepMode
	SampleInterval int
	Calls          bool
	Returns        bool
}

// NewObserverConfig returns a config reporting calls and returns, sampling
// every 1000 instructions when mode is StepSampled.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		Calls:          true,
		Returns:        true,
	}
}

// NormalizeConfig clamps the sample interval to at least one.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval < 1 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer is notified while a script is evaluated. Callbacks run on the
// evaluating goroutine and are never made in dependency discovery mode.
// A callback returning false halts evaluation with ErrHalted.
type Observer interface {
	Config() ObserverConfig
	OnStep(event StepEvent) bool
	OnCall(event CallEvent) bool
	// OnReturn follows every reported call, including failed ones.
	OnReturn(event ReturnEvent) bool
}

// StepEvent describes the instruction about to be dispatched.
type StepEvent struct {
	Offset     int
	Op         op.Code
	OpName     string
	Script     string
	StackDepth int
	Level      int
}

// CallEvent is reported after arguments are bound, before the callee runs.
// Callee is the name recovered from the bytecode, or "???".
type CallEvent struct {
	Callee string
	Args   int
	Level  int
}

type ReturnEvent struct {
	Callee string
	Level  int
	Err    error
}

// NoOpObserver accepts every event. Embed it to implement only some
// callbacks.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig    { return NewObserverConfig(StepAll) }
func (NoOpObserver) OnStep(StepEvent) bool     { return true }
func (NoOpObserver) OnCall(CallEvent) bool     { return true }
func (NoOpObserver) OnReturn(ReturnEvent) bool { return true }

var _ Observer = NoOpObserver{}
