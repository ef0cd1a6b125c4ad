package object

import "fmt"

// Bool wraps bool and implements Object.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Inspect() string {
	return fmt.Sprintf("%v", b.value)
}

func (b *Bool) String() string {
	return b.Inspect()
}

func (b *Bool) Interface() interface{} {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	if other, ok := other.(*Bool); ok {
		return b.value == other.value
	}
	return false
}

func (b *Bool) GetMember(name string) Object {
	return MissingMember(b, name)
}

func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

func Not(b *Bool) *Bool {
	if b.value {
		return False
	}
	return True
}
