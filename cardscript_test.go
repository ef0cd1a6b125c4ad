package cardscript

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
	"github.com/deepnoodle-ai/cardscript/symbol"
	"github.com/deepnoodle-ai/cardscript/vm"
)

// costLabel computes: to_string(card.cost) + " mana"
func costLabel(t *testing.T) *bytecode.Script {
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
	return script
}

func TestEvaluate(t *testing.T) {
	card := map[string]any{"name": "Elf", "cost": 2}
	result, err := Evaluate(context.Background(), costLabel(t),
		WithBuiltins(),
		WithGlobal("card", card))
	require.Nil(t, err)
	require.Equal(t, object.NewString("2 mana"), result)
}

func TestEvaluateWithoutBuiltins(t *testing.T) {
	_, err := Evaluate(context.Background(), costLabel(t),
		WithGlobal("card", map[string]any{"cost": 2}))
	require.True(t, errz.IsKind(err, errz.ErrUnboundVariable))
}

func TestGlobalsOverrideBuiltins(t *testing.T) {
	shout := object.NewBuiltin("shout", func(ctx object.Context) (object.Object, error) {
		return object.NewString("loud"), nil
	})
	result, err := Evaluate(context.Background(), costLabel(t),
		WithGlobal("to_string", shout),
		WithBuiltins(),
		WithGlobal("card", map[string]any{"cost": 2}))
	require.Nil(t, err)
	require.Equal(t, object.NewString("loud mana"), result)
}

func TestInvalidGlobal(t *testing.T) {
	_, err := Evaluate(context.Background(), costLabel(t), WithGlobal("bad", struct{}{}))
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "global bad")
}

func TestInterface(t *testing.T) {
	value, err := Interface(context.Background(), costLabel(t),
		WithBuiltins(),
		WithGlobal("card", map[string]any{"cost": 3}))
	require.Nil(t, err)
	require.Equal(t, "3 mana", value)
}

func TestDependencies(t *testing.T) {
	rec := object.NewRecorder()
	dep := object.Dependency{Kind: object.DepCardField, Index: 4, Name: "cost label"}
	_, err := Dependencies(context.Background(), costLabel(t), dep,
		WithBuiltins(),
		WithGlobal("card", object.NewTracked("card", rec)))
	require.Nil(t, err)
	require.Equal(t, []object.Read{{Path: "card.cost", Dep: dep}}, rec.Reads())
}

func TestMaxDepthAndLogger(t *testing.T) {
	b := bytecode.NewBuilder("loop")
	b.EmitVar(op.GetVar, "loop")
	b.EmitCall()
	loop, err := b.Build()
	require.Nil(t, err)

	var buf bytes.Buffer
	_, err = Evaluate(context.Background(), loop,
		WithGlobal("loop", loop),
		WithMaxDepth(10),
		WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)))
	require.True(t, errz.IsKind(err, errz.ErrStackOverflow))
	require.Contains(t, buf.String(), "recursion limit reached")
}

func TestLoadWithSymbols(t *testing.T) {
	data, err := bytecode.Marshal(costLabel(t))
	require.Nil(t, err)

	table := symbol.NewPredeclared()
	script, err := Load(data, WithSymbols(table))
	require.Nil(t, err)
	_, ok := table.Lookup("to_string")
	require.True(t, ok)

	result, err := Evaluate(context.Background(), script,
		WithSymbols(table),
		WithBuiltins(),
		WithGlobal("card", map[string]any{"cost": 5}))
	require.Nil(t, err)
	require.Equal(t, object.NewString("5 mana"), result)
}

func TestConcurrentEvaluation(t *testing.T) {
	script := costLabel(t)
	symbol.Default.MustIntern("card")

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(cost int) {
			defer wg.Done()
			result, err := Evaluate(context.Background(), script,
				WithBuiltins(),
				WithGlobal("card", map[string]any{"cost": cost}))
			if err != nil {
				errs <- err
				return
			}
			if !object.Equal(result, object.NewString(object.NewInt(int64(cost)).Inspect()+" mana")) {
				errs <- errz.RuntimeErrorf("unexpected result %s", result.Inspect())
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.Nil(t, err)
	}
}

type countingObserver struct {
	vm.NoOpObserver
	calls int
}

func (o *countingObserver) OnCall(vm.CallEvent) bool {
	o.calls++
	return true
}

func TestWithObserver(t *testing.T) {
	obs := &countingObserver{}
	_, err := Evaluate(context.Background(), costLabel(t),
		WithObserver(obs),
		WithBuiltins(),
		WithGlobal("card", map[string]any{"cost": 1}))
	require.Nil(t, err)
	require.Equal(t, 1, obs.calls)
}
