package object

import (
	"fmt"
)

// MakeIterator returns an iterator over obj. Iterators are returned as is.
func MakeIterator(obj Object) (Iterator, error) {
	switch obj := obj.(type) {
	case Iterator:
		return obj, nil
	case Iterable:
		return obj.Iter(), nil
	case *Error:
		return nil, obj.err
	default:
		return nil, conversionError(obj, "collection")
	}
}

// RangeIterator yields the integers from start to end inclusive.
type RangeIterator struct {
	start int64
	end   int64
	next  int64
	done  bool
}

// NewRangeIterator returns an iterator over start..end. The range is empty
// when end < start.
func NewRangeIterator(start, end int64) *RangeIterator {
	return &RangeIterator{start: start, end: end, next: start, done: end < start}
}

func (r *RangeIterator) Type() Type {
	return ITERATOR
}

func (r *RangeIterator) Inspect() string {
	return fmt.Sprintf("range(%d, %d)", r.start, r.end)
}

func (r *RangeIterator) Interface() interface{} {
	return nil
}

func (r *RangeIterator) Equals(other Object) bool {
	return r == other
}

func (r *RangeIterator) GetMember(name string) Object {
	return MissingMember(r, name)
}

// Next yields the position within the range as key and the integer as value.
func (r *RangeIterator) Next() (Object, Object, bool) {
	if r.done {
		return nil, nil, false
	}
	value := r.next
	if value == r.end {
		r.done = true
	} else {
		r.next++
	}
	return NewInt(value - r.start), NewInt(value), true
}
