package object

type NilType struct{}

func (n *NilType) Type() Type {
	return NIL
}

func (n *NilType) Inspect() string {
	return "nil"
}

func (n *NilType) String() string {
	return "nil"
}

func (n *NilType) Interface() interface{} {
	return nil
}

func (n *NilType) Equals(other Object) bool {
	_, ok := other.(*NilType)
	return ok
}

// GetMember on nil yields nil, so that optional data can be probed without
// failing.
func (n *NilType) GetMember(name string) Object {
	return Nil
}

// Iter returns an iterator over nothing.
func (n *NilType) Iter() Iterator {
	return NewCollection(nil, nil).Iter()
}

func (n *NilType) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}
