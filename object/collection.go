package object

import (
	"strconv"
	"strings"
)

// Collection is an ordered sequence of values, some of which may carry a
// string key. Collections are immutable once built.
type Collection struct {
	values []Object
	keys   []string
	keyed  []bool
	index  map[string]int
}

// NewList returns a collection of unkeyed values.
func NewList(values []Object) *Collection {
	return &Collection{values: values}
}

// NewCollection returns a collection with the given keys and values. keys
// may be nil or shorter than values; a nil entry marks an unkeyed value.
func NewCollection(keys []*string, values []Object) *Collection {
	c := &Collection{values: values}
	for i, key := range keys {
		if key != nil && i < len(values) {
			c.setKey(i, *key)
		}
	}
	return c
}

func (c *Collection) setKey(i int, key string) {
	if c.keys == nil {
		c.keys = make([]string, len(c.values))
		c.keyed = make([]bool, len(c.values))
		c.index = map[string]int{}
	}
	c.keys[i] = key
	c.keyed[i] = true
	if _, exists := c.index[key]; !exists {
		c.index[key] = i
	}
}

// CollectionBuilder accumulates entries for a new collection.
type CollectionBuilder struct {
	c *Collection
}

func NewCollectionBuilder(capacity int) *CollectionBuilder {
	return &CollectionBuilder{c: &Collection{values: make([]Object, 0, capacity)}}
}

// Add appends an unkeyed value.
func (b *CollectionBuilder) Add(value Object) {
	b.c.values = append(b.c.values, value)
	if b.c.keys != nil {
		b.c.keys = append(b.c.keys, "")
		b.c.keyed = append(b.c.keyed, false)
	}
}

// AddKeyed appends a value under the given key.
func (b *CollectionBuilder) AddKeyed(key string, value Object) {
	b.Add(value)
	b.c.setKey(len(b.c.values)-1, key)
}

// SetKeyed stores a value under key. A repeated key replaces the value of
// the earlier entry, keeping its position.
func (b *CollectionBuilder) SetKeyed(key string, value Object) {
	if i, ok := b.c.index[key]; ok {
		b.c.values[i] = value
		return
	}
	b.AddKeyed(key, value)
}

// Build returns the collection. The builder must not be used afterwards.
func (b *CollectionBuilder) Build() *Collection {
	c := b.c
	b.c = nil
	return c
}

func (c *Collection) Type() Type {
	return COLLECTION
}

func (c *Collection) Values() []Object {
	return c.values
}

func (c *Collection) Len() int {
	return len(c.values)
}

// Key returns the key of the value at position i, if it has one.
func (c *Collection) Key(i int) (string, bool) {
	if c.keyed == nil || i < 0 || i >= len(c.keyed) || !c.keyed[i] {
		return "", false
	}
	return c.keys[i], true
}

func (c *Collection) Index(i int64) Object {
	if i < 0 || i >= int64(len(c.values)) {
		return outOfRange(c, i)
	}
	return c.values[i]
}

// Get returns the value stored under key.
func (c *Collection) Get(key string) (Object, bool) {
	if i, ok := c.index[key]; ok {
		return c.values[i], true
	}
	return nil, false
}

// GetMember looks the name up as a key, then as a position. The member
// "length" reports the number of values unless a key shadows it.
func (c *Collection) GetMember(name string) Object {
	if value, ok := c.Get(name); ok {
		return value
	}
	if i, err := strconv.ParseInt(name, 10, 64); err == nil {
		return c.Index(i)
	}
	if name == "length" {
		return NewInt(int64(len(c.values)))
	}
	return MissingMember(c, name)
}

func (c *Collection) Iter() Iterator {
	return &collectionIter{c: c}
}

// Concat returns a new collection holding the values of c followed by the
// values of other. Keys are preserved.
func (c *Collection) Concat(other *Collection) *Collection {
	b := NewCollectionBuilder(c.Len() + other.Len())
	for _, src := range []*Collection{c, other} {
		for i, value := range src.values {
			if key, ok := src.Key(i); ok {
				b.AddKeyed(key, value)
			} else {
				b.Add(value)
			}
		}
	}
	return b.Build()
}

func (c *Collection) Inspect() string {
	var b strings.Builder
	b.WriteString("[")
	for i, value := range c.values {
		if i > 0 {
			b.WriteString(", ")
		}
		if key, ok := c.Key(i); ok {
			b.WriteString(key)
			b.WriteString(": ")
		}
		b.WriteString(value.Inspect())
	}
	b.WriteString("]")
	return b.String()
}

func (c *Collection) String() string {
	return c.Inspect()
}

// Interface returns a []interface{} for unkeyed collections and a
// map[string]interface{} for collections where every value is keyed.
func (c *Collection) Interface() interface{} {
	if c.keyed != nil && c.allKeyed() {
		m := make(map[string]interface{}, len(c.values))
		for i, value := range c.values {
			m[c.keys[i]] = value.Interface()
		}
		return m
	}
	items := make([]interface{}, 0, len(c.values))
	for _, value := range c.values {
		items = append(items, value.Interface())
	}
	return items
}

func (c *Collection) allKeyed() bool {
	for _, k := range c.keyed {
		if !k {
			return false
		}
	}
	return true
}

// Equals compares collections structurally: same length, same keys, equal
// values in the same order.
func (c *Collection) Equals(other Object) bool {
	o, ok := other.(*Collection)
	if !ok {
		return false
	}
	if len(c.values) != len(o.values) {
		return false
	}
	for i, value := range c.values {
		ka, oka := c.Key(i)
		kb, okb := o.Key(i)
		if oka != okb || ka != kb {
			return false
		}
		if !Equal(value, o.values[i]) {
			return false
		}
	}
	return true
}

func (c *Collection) MarshalJSON() ([]byte, error) {
	return marshalJSON(c.Interface())
}

type collectionIter struct {
	c   *Collection
	pos int
}

func (it *collectionIter) Type() Type {
	return ITERATOR
}

func (it *collectionIter) Inspect() string {
	return "iterator(" + it.c.Inspect() + ")"
}

func (it *collectionIter) Interface() interface{} {
	return nil
}

func (it *collectionIter) Equals(other Object) bool {
	return it == other
}

func (it *collectionIter) GetMember(name string) Object {
	return MissingMember(it, name)
}

// Next yields the key of each value, or its position when it has none.
func (it *collectionIter) Next() (Object, Object, bool) {
	if it.pos >= len(it.c.values) {
		return nil, nil, false
	}
	i := it.pos
	it.pos++
	if key, ok := it.c.Key(i); ok {
		return NewString(key), it.c.values[i], true
	}
	return NewInt(int64(i)), it.c.values[i], true
}
