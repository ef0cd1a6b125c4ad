package object

import (
	"encoding/json"
	"strconv"
)

// Float wraps float64 and implements Object.
type Float struct {
	value float64
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Value() float64 {
	return f.value
}

func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

func (f *Float) String() string {
	return f.Inspect()
}

func (f *Float) Interface() interface{} {
	return f.value
}

func (f *Float) Equals(other Object) bool {
	switch other := other.(type) {
	case *Float:
		return f.value == other.value
	case *Int:
		return f.value == float64(other.value)
	default:
		return false
	}
}

func (f *Float) GetMember(name string) Object {
	return MissingMember(f, name)
}

func (f *Float) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.value)
}

func NewFloat(value float64) *Float {
	return &Float{value: value}
}
