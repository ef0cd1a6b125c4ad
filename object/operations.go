package object

import (
	"math"

	"github.com/deepnoodle-ai/cardscript/errz"
	"github.com/deepnoodle-ai/cardscript/op"
)

// UnaryOp applies a unary operation.
func UnaryOp(opType op.UnaryOpType, a Object) (Object, error) {
	switch opType {
	case op.IteratorC:
		return MakeIterator(a)
	case op.Negate:
		switch a := a.(type) {
		case *Int:
			return NewInt(-a.value), nil
		case *Float:
			return NewFloat(-a.value), nil
		case *Error:
			return nil, a.err
		}
		f, err := AsFloat(a)
		if err != nil {
			return nil, err
		}
		return NewFloat(-f), nil
	case op.Not:
		b, err := AsBool(a)
		if err != nil {
			return nil, err
		}
		return NewBool(!b), nil
	default:
		return nil, errz.RuntimeErrorf("unknown unary operation: %d", opType)
	}
}

// BinaryOp applies a binary operation. a is the left operand, which was
// pushed first.
func BinaryOp(opType op.BinaryOpType, a, b Object) (Object, error) {
	switch opType {
	case op.IteratorR:
		start, err := AsInt(a)
		if err != nil {
			return nil, err
		}
		end, err := AsInt(b)
		if err != nil {
			return nil, err
		}
		return NewRangeIterator(start, end), nil
	case op.Member:
		return Member(a, b)
	case op.Add:
		return add(a, b)
	case op.Sub, op.Mul, op.FDiv, op.Div, op.Mod:
		return arithmetic(opType, a, b)
	case op.And, op.Or, op.Xor:
		x, err := AsBool(a)
		if err != nil {
			return nil, err
		}
		y, err := AsBool(b)
		if err != nil {
			return nil, err
		}
		switch opType {
		case op.And:
			return NewBool(x && y), nil
		case op.Or:
			return NewBool(x || y), nil
		default:
			return NewBool(x != y), nil
		}
	case op.Eq:
		return NewBool(Equal(a, b)), nil
	case op.Neq:
		return NewBool(!Equal(a, b)), nil
	case op.Lt, op.Gt, op.Le, op.Ge:
		cmp, err := Compare(a, b)
		if err != nil {
			return nil, err
		}
		switch opType {
		case op.Lt:
			return NewBool(cmp < 0), nil
		case op.Gt:
			return NewBool(cmp > 0), nil
		case op.Le:
			return NewBool(cmp <= 0), nil
		default:
			return NewBool(cmp >= 0), nil
		}
	case op.Min, op.Max:
		cmp, err := Compare(a, b)
		if err != nil {
			return nil, err
		}
		if (opType == op.Min) == (cmp <= 0) {
			return a, nil
		}
		return b, nil
	case op.OrElse:
		if _, isErr := a.(*Error); isErr {
			return b, nil
		}
		return a, nil
	case op.Pop:
		return a, nil
	default:
		return nil, errz.RuntimeErrorf("unknown binary operation: %d", opType)
	}
}

// TernaryOp applies a ternary operation to a, b and c, in push order.
func TernaryOp(opType op.TernaryOpType, a, b, c Object) (Object, error) {
	switch opType {
	case op.RGB:
		channels, err := ints(a, b, c)
		if err != nil {
			return nil, err
		}
		return NewColorFromInts(channels[0], channels[1], channels[2], 255), nil
	default:
		return nil, errz.RuntimeErrorf("unknown ternary operation: %d", opType)
	}
}

// QuaternaryOp applies a quaternary operation to a, b, c and d, in push order.
func QuaternaryOp(opType op.QuaternaryOpType, a, b, c, d Object) (Object, error) {
	switch opType {
	case op.RGBA:
		channels, err := ints(a, b, c, d)
		if err != nil {
			return nil, err
		}
		return NewColorFromInts(channels[0], channels[1], channels[2], channels[3]), nil
	default:
		return nil, errz.RuntimeErrorf("unknown quaternary operation: %d", opType)
	}
}

// Member reads a member of a container. Integer keys index into values that
// support it; any other key is converted to a name.
func Member(container, key Object) (Object, error) {
	if i, ok := key.(*Int); ok {
		if indexable, ok := container.(Indexable); ok {
			return indexable.Index(i.value), nil
		}
	}
	name, err := AsString(key)
	if err != nil {
		return nil, err
	}
	return container.GetMember(name), nil
}

// Equal compares two values structurally. Numbers compare by value regardless
// of representation.
func Equal(a, b Object) bool {
	if a == b {
		return true
	}
	return a.Equals(b)
}

// Compare orders two values: strings lexicographically, everything else
// numerically. It returns -1, 0 or 1.
func Compare(a, b Object) (int, error) {
	if x, ok := a.(*String); ok {
		if y, ok := b.(*String); ok {
			switch {
			case x.value < y.value:
				return -1, nil
			case x.value > y.value:
				return 1, nil
			}
			return 0, nil
		}
	}
	if x, ok := a.(*Int); ok {
		if y, ok := b.(*Int); ok {
			switch {
			case x.value < y.value:
				return -1, nil
			case x.value > y.value:
				return 1, nil
			}
			return 0, nil
		}
	}
	x, err := AsFloat(a)
	if err != nil {
		return 0, err
	}
	y, err := AsFloat(b)
	if err != nil {
		return 0, err
	}
	switch {
	case x < y:
		return -1, nil
	case x > y:
		return 1, nil
	}
	return 0, nil
}

func add(a, b Object) (Object, error) {
	if _, ok := a.(*NilType); ok {
		return b, nil
	}
	if _, ok := b.(*NilType); ok {
		return a, nil
	}
	_, aFunc := a.(Callable)
	_, bFunc := b.(Callable)
	if aFunc && bFunc {
		return NewCompose(a, b), nil
	}
	if x, ok := a.(*Collection); ok {
		if y, ok := b.(*Collection); ok {
			return x.Concat(y), nil
		}
	}
	if IsNumber(a) && IsNumber(b) {
		return arithmetic(op.Add, a, b)
	}
	x, err := AsString(a)
	if err != nil {
		return nil, err
	}
	y, err := AsString(b)
	if err != nil {
		return nil, err
	}
	return NewString(x + y), nil
}

func arithmetic(opType op.BinaryOpType, a, b Object) (Object, error) {
	x, xInt := a.(*Int)
	y, yInt := b.(*Int)
	if xInt && yInt && opType != op.FDiv {
		return intArithmetic(opType, x.value, y.value)
	}
	fx, err := AsFloat(a)
	if err != nil {
		return nil, err
	}
	fy, err := AsFloat(b)
	if err != nil {
		return nil, err
	}
	switch opType {
	case op.Add:
		return NewFloat(fx + fy), nil
	case op.Sub:
		return NewFloat(fx - fy), nil
	case op.Mul:
		return NewFloat(fx * fy), nil
	case op.FDiv:
		if fy == 0 {
			return nil, errz.DivisionByZero()
		}
		return NewFloat(fx / fy), nil
	case op.Div:
		if fy == 0 {
			return nil, errz.DivisionByZero()
		}
		return NewInt(int64(fx / fy)), nil
	case op.Mod:
		if fy == 0 {
			return nil, errz.DivisionByZero()
		}
		return NewFloat(math.Mod(fx, fy)), nil
	}
	return nil, errz.RuntimeErrorf("unknown arithmetic operation: %s", opType)
}

func intArithmetic(opType op.BinaryOpType, x, y int64) (Object, error) {
	switch opType {
	case op.Add:
		return NewInt(x + y), nil
	case op.Sub:
		return NewInt(x - y), nil
	case op.Mul:
		return NewInt(x * y), nil
	case op.Div:
		if y == 0 {
			return nil, errz.DivisionByZero()
		}
		return NewInt(x / y), nil
	case op.Mod:
		if y == 0 {
			return nil, errz.DivisionByZero()
		}
		return NewInt(x % y), nil
	}
	return nil, errz.RuntimeErrorf("unknown arithmetic operation: %s", opType)
}

func ints(objs ...Object) ([]int64, error) {
	out := make([]int64, len(objs))
	for i, obj := range objs {
		v, err := AsInt(obj)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
