package cardscript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/cardscript/bytecode"
	"github.com/deepnoodle-ai/cardscript/object"
	"github.com/deepnoodle-ai/cardscript/op"
)

func TestSessionKeepsVariables(t *testing.T) {
	s, err := NewSession(WithBuiltins())
	require.Nil(t, err)
	require.Nil(t, s.Set("card", map[string]any{"cost": 7}))

	result, err := s.Run(context.Background(), costLabel(t))
	require.Nil(t, err)
	require.Equal(t, object.NewString("7 mana"), result)

	require.Nil(t, s.Set("card", map[string]any{"cost": 8}))
	result, err = s.Run(context.Background(), costLabel(t))
	require.Nil(t, err)
	require.Equal(t, object.NewString("8 mana"), result)

	card, err := s.Get("card")
	require.Nil(t, err)
	require.Equal(t, object.COLLECTION, card.Type())
}

func TestSessionCall(t *testing.T) {
	// plus := input + _1
	b := bytecode.NewBuilder("plus")
	b.EmitVar(op.GetVar, "input")
	b.EmitVar(op.GetVar, "_1")
	b.Emit(op.Binary, uint32(op.Add))
	plus, err := b.Build()
	require.Nil(t, err)

	s, err := NewSession(WithGlobal("plus", plus))
	require.Nil(t, err)
	result, err := s.Call(context.Background(), "plus", 40, 2)
	require.Nil(t, err)
	require.Equal(t, object.NewInt(42), result)

	result, err = s.Call(context.Background(), "to_int", "1")
	require.NotNil(t, err)
	require.Nil(t, result)
}

func TestSessionDependencies(t *testing.T) {
	s, err := NewSession(WithBuiltins())
	require.Nil(t, err)
	rec := object.NewRecorder()
	require.Nil(t, s.Set("card", object.NewTracked("card", rec)))

	_, err = s.Dependencies(context.Background(), costLabel(t), object.Dependency{Kind: object.DepCardField})
	require.Nil(t, err)
	require.Equal(t, []string{"card.cost"}, rec.Paths())
	require.Equal(t, 0, s.Context().Level())
}
