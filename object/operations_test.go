package object

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/op"
)

func TestAddOperator(t *testing.T) {
	type testCase struct {
		left  Object
		right Object
		want  Object
	}
	list := NewList([]Object{NewInt(1)})
	testCases := []testCase{
		{NewInt(2), NewInt(3), NewInt(5)},
		{NewInt(1), NewFloat(2.5), NewFloat(3.5)},
		{NewFloat(0.5), NewFloat(0.25), NewFloat(0.75)},
		{NewString("a"), NewInt(1), NewString("a1")},
		{NewInt(1), NewString("a"), NewString("1a")},
		{NewString("x"), NewString("y"), NewString("xy")},
		{Nil, NewInt(7), NewInt(7)},
		{NewString("s"), Nil, NewString("s")},
		{list, NewList([]Object{NewInt(2)}), NewList([]Object{NewInt(1), NewInt(2)})},
	}
	for _, tc := range testCases {
		result, err := BinaryOp(op.Add, tc.left, tc.right)
		require.Nil(t, err)
		require.Equal(t, tc.want.Type(), result.Type())
		require.True(t, Equal(tc.want, result), "%s + %s = %s", tc.left.Inspect(), tc.right.Inspect(), result.Inspect())
	}
}

func TestAddFunctionsComposes(t *testing.T) {
	f := NewBuiltin("f", func(ctx Context) (Object, error) { return NewInt(1), nil })
	g := NewBuiltin("g", func(ctx Context) (Object, error) { return NewInt(2), nil })
	result, err := BinaryOp(op.Add, f, g)
	require.Nil(t, err)
	require.IsType(t, &Compose{}, result)
}

func TestArithmeticPromotion(t *testing.T) {
	type testCase struct {
		op    op.BinaryOpType
		left  Object
		right Object
		want  Object
	}
	testCases := []testCase{
		{op.Sub, NewInt(5), NewInt(7), NewInt(-2)},
		{op.Sub, NewInt(5), NewFloat(0.5), NewFloat(4.5)},
		{op.Mul, NewInt(6), NewInt(7), NewInt(42)},
		{op.Mul, NewFloat(1.5), NewInt(2), NewFloat(3)},
		{op.Div, NewInt(7), NewInt(2), NewInt(3)},
		{op.Div, NewFloat(7), NewInt(2), NewInt(3)},
		{op.FDiv, NewInt(7), NewInt(2), NewFloat(3.5)},
		{op.Mod, NewInt(7), NewInt(3), NewInt(1)},
		{op.Mod, NewFloat(7.5), NewInt(2), NewFloat(1.5)},
		{op.Sub, NewString("10"), NewInt(1), NewFloat(9)},
	}
	for _, tc := range testCases {
		result, err := BinaryOp(tc.op, tc.left, tc.right)
		require.Nil(t, err)
		require.Equal(t, tc.want.Type(), result.Type(), "%s %s %s", tc.left.Inspect(), tc.op, tc.right.Inspect())
		require.True(t, Equal(tc.want, result))
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, opType := range []op.BinaryOpType{op.Div, op.FDiv, op.Mod} {
		_, err := BinaryOp(opType, NewInt(1), NewInt(0))
		require.True(t, errz.IsKind(err, errz.ErrType), "%s", opType)
		_, err = BinaryOp(opType, NewFloat(1), NewFloat(0))
		require.True(t, errz.IsKind(err, errz.ErrType), "%s", opType)
	}
}

func TestArithmeticTypeError(t *testing.T) {
	_, err := BinaryOp(op.Sub, NewString("abc"), NewInt(1))
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.ErrType))
}

func TestComparisons(t *testing.T) {
	type testCase struct {
		op    op.BinaryOpType
		left  Object
		right Object
		want  bool
	}
	testCases := []testCase{
		{op.Lt, NewInt(1), NewInt(2), true},
		{op.Gt, NewInt(1), NewFloat(0.5), true},
		{op.Le, NewFloat(2), NewInt(2), true},
		{op.Ge, NewString("abc"), NewString("abd"), false},
		{op.Lt, NewString("10"), NewString("9"), true},
		{op.Lt, NewString("10"), NewInt(9), false},
		{op.Eq, NewInt(2), NewFloat(2), true},
		{op.Eq, NewString("2"), NewInt(2), false},
		{op.Neq, NewString("a"), NewString("b"), true},
		{op.Eq, Nil, Nil, true},
	}
	for _, tc := range testCases {
		result, err := BinaryOp(tc.op, tc.left, tc.right)
		require.Nil(t, err)
		require.Equal(t, NewBool(tc.want), result, "%s %s %s", tc.left.Inspect(), tc.op, tc.right.Inspect())
	}
}

func TestMinMax(t *testing.T) {
	result, err := BinaryOp(op.Min, NewInt(3), NewFloat(2.5))
	require.Nil(t, err)
	require.Equal(t, NewFloat(2.5), result)

	result, err = BinaryOp(op.Max, NewInt(3), NewFloat(2.5))
	require.Nil(t, err)
	require.Equal(t, NewInt(3), result)
}

func TestLogicalOperators(t *testing.T) {
	type testCase struct {
		op    op.BinaryOpType
		left  Object
		right Object
		want  bool
	}
	testCases := []testCase{
		{op.And, True, False, false},
		{op.And, NewString("yes"), NewInt(1), true},
		{op.Or, False, NewString("true"), true},
		{op.Or, Nil, NewString(""), false},
		{op.Xor, True, True, false},
		{op.Xor, True, False, true},
	}
	for _, tc := range testCases {
		result, err := BinaryOp(tc.op, tc.left, tc.right)
		require.Nil(t, err)
		require.Equal(t, NewBool(tc.want), result)
	}
}

func TestOrElse(t *testing.T) {
	result, err := BinaryOp(op.OrElse, Errorf("boom"), NewInt(42))
	require.Nil(t, err)
	require.Equal(t, NewInt(42), result)

	result, err = BinaryOp(op.OrElse, NewInt(10), NewInt(42))
	require.Nil(t, err)
	require.Equal(t, NewInt(10), result)
}

func TestPopKeepsLeft(t *testing.T) {
	result, err := BinaryOp(op.Pop, NewString("kept"), NewInt(1))
	require.Nil(t, err)
	require.Equal(t, NewString("kept"), result)
}

func TestMemberOperator(t *testing.T) {
	b := NewCollectionBuilder(2)
	b.AddKeyed("name", NewString("Goblin"))
	b.Add(NewInt(3))
	c := b.Build()

	result, err := BinaryOp(op.Member, c, NewString("name"))
	require.Nil(t, err)
	require.Equal(t, NewString("Goblin"), result)

	result, err = BinaryOp(op.Member, c, NewInt(1))
	require.Nil(t, err)
	require.Equal(t, NewInt(3), result)

	result, err = BinaryOp(op.Member, c, NewString("missing"))
	require.Nil(t, err)
	require.IsType(t, &Error{}, result)

	result, err = BinaryOp(op.Member, NewString("abc"), NewInt(1))
	require.Nil(t, err)
	require.Equal(t, NewString("b"), result)
}

func TestUnaryOperators(t *testing.T) {
	result, err := UnaryOp(op.Negate, NewInt(3))
	require.Nil(t, err)
	require.Equal(t, NewInt(-3), result)

	result, err = UnaryOp(op.Negate, NewFloat(1.5))
	require.Nil(t, err)
	require.Equal(t, NewFloat(-1.5), result)

	result, err = UnaryOp(op.Not, NewString("no"))
	require.Nil(t, err)
	require.Equal(t, True, result)

	_, err = UnaryOp(op.Negate, NewList(nil))
	require.Error(t, err)

	result, err = UnaryOp(op.IteratorC, NewList([]Object{NewInt(1)}))
	require.Nil(t, err)
	_, ok := result.(Iterator)
	require.True(t, ok)
}

func TestColorOperators(t *testing.T) {
	result, err := TernaryOp(op.RGB, NewInt(255), NewInt(128), NewInt(300))
	require.Nil(t, err)
	require.Equal(t, "rgb(255,128,255)", result.(*Color).String())

	result, err = QuaternaryOp(op.RGBA, NewInt(1), NewInt(2), NewInt(3), NewInt(4))
	require.Nil(t, err)
	require.Equal(t, "rgba(1,2,3,4)", result.(*Color).String())
	require.Equal(t, NewInt(4), result.GetMember("a"))
}

func TestRangeIterator(t *testing.T) {
	result, err := BinaryOp(op.IteratorR, NewInt(1), NewInt(3))
	require.Nil(t, err)
	it := result.(Iterator)
	var values []int64
	for {
		_, value, ok := it.Next()
		if !ok {
			break
		}
		values = append(values, value.(*Int).Value())
	}
	require.Equal(t, []int64{1, 2, 3}, values)

	_, _, ok := NewRangeIterator(5, 4).Next()
	require.False(t, ok)
}
