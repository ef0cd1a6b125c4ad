// Package symbol interns variable and member names into small integer
// identifiers.
//
// Compiled code refers to variables by ID only, which lets the virtual
// machine keep every variable in a flat slice. The table is process-wide and
// append-only: all interning must complete before concurrent evaluation
// starts. Call Freeze to mark that point; afterwards lookups are lock-free and
// interning an unknown name fails.
package symbol

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
)

// ID identifies an interned name.
type ID uint32

// ErrFrozen is returned when interning a new name into a frozen table.
var ErrFrozen = errors.New("symbol table is frozen")

// Table assigns a unique ID to each distinct name.
type Table struct {
	mu     sync.RWMutex
	ids    map[string]ID
	names  []string
	frozen atomic.Bool
	once   sync.Once
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{ids: map[string]ID{}}
}

// Canonical returns the canonical form of a name. Spaces and underscores are
// interchangeable in names, so "card style" and "card_style" are the same
// variable.
func Canonical(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// Intern returns the ID of the given name, assigning the next free ID if the
// name has not been seen before.
func (t *Table) Intern(name string) (ID, error) {
	name = Canonical(name)
	if id, ok := t.Lookup(name); ok {
		return id, nil
	}
	if t.frozen.Load() {
		return 0, fmt.Errorf("%w: cannot intern %q", ErrFrozen, name)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.ids[name]; ok {
		return id, nil
	}
	// Freeze may have won the race for the lock.
	if t.frozen.Load() {
		return 0, fmt.Errorf("%w: cannot intern %q", ErrFrozen, name)
	}
	if uint64(len(t.names)) >= math.MaxUint32 {
		return 0, errors.New("symbol table is full")
	}
	id := ID(len(t.names))
	t.ids[name] = id
	t.names = append(t.names, name)
	return id, nil
}

// MustIntern is like Intern but panics on error. It is meant for package
// initialization.
func (t *Table) MustIntern(name string) ID {
	id, err := t.Intern(name)
	if err != nil {
		panic(err)
	}
	return id
}

// Lookup returns the ID of a name that was already interned.
func (t *Table) Lookup(name string) (ID, bool) {
	name = Canonical(name)
	if t.frozen.Load() {
		id, ok := t.ids[name]
		return id, ok
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the name for the given ID. This is meant for error messages
// and disassembly. Unknown IDs produce a placeholder.
func (t *Table) Name(id ID) string {
	if !t.frozen.Load() {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}
	if int(id) < len(t.names) {
		return t.names[id]
	}
	return fmt.Sprintf("<var %d>", id)
}

// Len returns the number of interned names. A variable table sized to Len
// can hold every variable.
func (t *Table) Len() int {
	if !t.frozen.Load() {
		t.mu.RLock()
		defer t.mu.RUnlock()
	}
	return len(t.names)
}

// Freeze marks the table read-only. It is safe to call more than once.
func (t *Table) Freeze() {
	t.once.Do(func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.frozen.Store(true)
	})
}

// Frozen returns true once Freeze has been called.
func (t *Table) Frozen() bool {
	return t.frozen.Load()
}

// Default is the process-wide table used by compiled scripts.
var Default = NewPredeclared()

// Intern interns a name into the Default table.
func Intern(name string) (ID, error) {
	return Default.Intern(name)
}

// Lookup looks up a name in the Default table.
func Lookup(name string) (ID, bool) {
	return Default.Lookup(name)
}

// Name returns the name of an ID in the Default table.
func Name(id ID) string {
	return Default.Name(id)
}

// Freeze freezes the Default table.
func Freeze() {
	Default.Freeze()
}
