package object

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// String wraps string and implements Object.
type String struct {
	value string
}

func (s *String) Type() Type {
	return STRING
}

func (s *String) Value() string {
	return s.value
}

func (s *String) Inspect() string {
	return fmt.Sprintf("%q", s.value)
}

func (s *String) String() string {
	return s.value
}

func (s *String) Interface() interface{} {
	return s.value
}

func (s *String) Equals(other Object) bool {
	if other, ok := other.(*String); ok {
		return s.value == other.value
	}
	return false
}

// GetMember supports "length"; all other names are missing members.
func (s *String) GetMember(name string) Object {
	if name == "length" {
		return NewInt(int64(utf8.RuneCountInString(s.value)))
	}
	return MissingMember(s, name)
}

// Len returns the number of characters in the string.
func (s *String) Len() int {
	return utf8.RuneCountInString(s.value)
}

// Index returns the character at position i, or an error value when i is
// out of range.
func (s *String) Index(i int64) Object {
	runes := []rune(s.value)
	if i < 0 || i >= int64(len(runes)) {
		return outOfRange(s, i)
	}
	return NewString(string(runes[i]))
}

func (s *String) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value)
}

func NewString(s string) *String {
	return &String{value: s}
}
