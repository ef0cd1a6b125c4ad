package object

import (
	"strconv"
)

// Int wraps int64 and implements Object.
type Int struct {
	value int64
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Inspect() string {
	return strconv.FormatInt(i.value, 10)
}

func (i *Int) String() string {
	return i.Inspect()
}

func (i *Int) Interface() interface{} {
	return i.value
}

func (i *Int) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return i.value == other.value
	case *Float:
		return float64(i.value) == other.value
	default:
		return false
	}
}

func (i *Int) GetMember(name string) Object {
	return MissingMember(i, name)
}

func (i *Int) MarshalJSON() ([]byte, error) {
	return []byte(i.Inspect()), nil
}

var smallInts [256]*Int

func init() {
	for i := range smallInts {
		smallInts[i] = &Int{value: int64(i)}
	}
}

func NewInt(value int64) *Int {
	if value >= 0 && value < int64(len(smallInts)) {
		return smallInts[value]
	}
	return &Int{value: value}
}
