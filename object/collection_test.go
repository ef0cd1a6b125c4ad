package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollectionMembers(t *testing.T) {
	b := NewCollectionBuilder(3)
	b.AddKeyed("name", NewString("Elf"))
	b.Add(NewInt(10))
	b.AddKeyed("cost", NewInt(2))
	c := b.Build()

	require.Equal(t, 3, c.Len())
	require.Equal(t, NewString("Elf"), c.GetMember("name"))
	require.Equal(t, NewInt(10), c.GetMember("1"))
	require.Equal(t, NewInt(3), c.GetMember("length"))
	require.IsType(t, &Error{}, c.GetMember("power"))
	require.IsType(t, &Error{}, c.Index(5))
	require.Equal(t, `[name: "Elf", 10, cost: 2]`, c.Inspect())
}

func TestCollectionIteration(t *testing.T) {
	b := NewCollectionBuilder(2)
	b.Add(NewString("a"))
	b.AddKeyed("k", NewString("b"))
	it := b.Build().Iter()

	key, value, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, NewInt(0), key)
	require.Equal(t, NewString("a"), value)

	key, value, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, NewString("k"), key)
	require.Equal(t, NewString("b"), value)

	_, _, ok = it.Next()
	require.False(t, ok)
}

func TestCollectionEquality(t *testing.T) {
	a := NewList([]Object{NewInt(1), NewString("x")})
	b := NewList([]Object{NewFloat(1), NewString("x")})
	require.True(t, Equal(a, b))

	keyed := NewCollectionBuilder(1)
	keyed.AddKeyed("0", NewInt(1))
	require.False(t, Equal(NewList([]Object{NewInt(1)}), keyed.Build()))
	require.False(t, Equal(a, NewList([]Object{NewInt(1)})))
}

func TestCollectionConcatKeepsKeys(t *testing.T) {
	b := NewCollectionBuilder(1)
	b.AddKeyed("x", NewInt(1))
	joined := b.Build().Concat(NewList([]Object{NewInt(2)}))
	require.Equal(t, 2, joined.Len())
	require.Equal(t, NewInt(1), joined.GetMember("x"))
	_, keyed := joined.Key(1)
	require.False(t, keyed)
	require.Equal(t, []interface{}{int64(1), int64(2)}, joined.Interface())
}

func TestNilIsEmptyIterable(t *testing.T) {
	it, err := MakeIterator(Nil)
	require.Nil(t, err)
	_, _, ok := it.Next()
	require.False(t, ok)

	_, err = MakeIterator(NewInt(1))
	require.Error(t, err)
}
