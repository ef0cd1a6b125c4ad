package object

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAsString(t *testing.T) {
	type testCase struct {
		input Object
		want  string
	}
	testCases := []testCase{
		{NewString("hi"), "hi"},
		{NewInt(-4), "-4"},
		{NewFloat(2.5), "2.5"},
		{NewFloat(3), "3"},
		{True, "true"},
		{Nil, ""},
		{NewColorFromInts(1, 2, 3, 255), "rgb(1,2,3)"},
	}
	for _, tc := range testCases {
		got, err := AsString(tc.input)
		require.Nil(t, err)
		require.Equal(t, tc.want, got)
	}
	_, err := AsString(NewList(nil))
	require.Error(t, err)
}

func TestAsIntAndFloat(t *testing.T) {
	i, err := AsInt(NewString(" 12 "))
	require.Nil(t, err)
	require.Equal(t, int64(12), i)

	i, err = AsInt(NewFloat(2.9))
	require.Nil(t, err)
	require.Equal(t, int64(2), i)

	f, err := AsFloat(NewString("0.25"))
	require.Nil(t, err)
	require.Equal(t, 0.25, f)

	_, err = AsInt(NewString("twelve"))
	require.Error(t, err)
}

func TestAsBool(t *testing.T) {
	type testCase struct {
		input Object
		want  bool
	}
	testCases := []testCase{
		{True, true},
		{NewInt(0), false},
		{NewFloat(0.1), true},
		{NewString("yes"), true},
		{NewString("false"), false},
		{NewString(""), false},
		{Nil, false},
	}
	for _, tc := range testCases {
		got, err := AsBool(tc.input)
		require.Nil(t, err)
		require.Equal(t, tc.want, got, tc.input.Inspect())
	}
	_, err := AsBool(NewString("maybe"))
	require.Error(t, err)
}

func TestAsColor(t *testing.T) {
	c, err := AsColor(NewString("#ff000080"))
	require.Nil(t, err)
	require.Equal(t, color.RGBA{R: 255, A: 128}, c)

	c, err = AsColor(NewString("rgb(1, 2, 3)"))
	require.Nil(t, err)
	require.Equal(t, color.RGBA{R: 1, G: 2, B: 3, A: 255}, c)

	_, err = AsColor(NewString("blue"))
	require.Error(t, err)
}

func TestErrorValueRaisesOnConversion(t *testing.T) {
	cause := errors.New("no such field")
	e := NewError(cause)
	_, err := AsString(e)
	require.Equal(t, cause, err)
	_, err = AsInt(e)
	require.Equal(t, cause, err)
	require.Equal(t, e, e.GetMember("anything"))
}

func TestFromGoType(t *testing.T) {
	obj, err := FromGoType(map[string]interface{}{
		"b": []interface{}{1.0, "two", true},
		"a": 2.5,
	})
	require.Nil(t, err)
	c := obj.(*Collection)
	require.Equal(t, 2, c.Len())
	key, ok := c.Key(0)
	require.True(t, ok)
	require.Equal(t, "a", key)
	require.Equal(t, NewFloat(2.5), c.GetMember("a"))
	inner := c.GetMember("b").(*Collection)
	require.Equal(t, NewInt(1), inner.Index(0))

	_, err = FromGoType(struct{}{})
	require.Error(t, err)
}
