package object

import (
	"fmt"
	"sort"
	"sync"
)

// DependencyKind says what kind of host value depends on the data a script
// reads.
type DependencyKind int

const (
	DepCardField DependencyKind = iota
	DepCardCopy
	DepSetField
	DepStyle
	DepExtraCardField
	DepCardStylingField
	DepChoiceImage
	DepDummy
)

func (k DependencyKind) String() string {
	switch k {
	case DepCardField:
		return "card_field"
	case DepCardCopy:
		return "card_copy"
	case DepSetField:
		return "set_field"
	case DepStyle:
		return "style"
	case DepExtraCardField:
		return "extra_card_field"
	case DepCardStylingField:
		return "card_styling_field"
	case DepChoiceImage:
		return "choice_image"
	case DepDummy:
		return "dummy"
	default:
		return fmt.Sprintf("dependency(%d)", int(k))
	}
}

// Dependency identifies the value whose script is being analyzed. Trackers
// record it against the data the script reads, so the value can be
// recomputed when that data changes.
type Dependency struct {
	Kind  DependencyKind
	Index int
	Name  string
}

func (d Dependency) String() string {
	if d.Name != "" {
		return fmt.Sprintf("%s[%d]:%s", d.Kind, d.Index, d.Name)
	}
	return fmt.Sprintf("%s[%d]", d.Kind, d.Index)
}

// DependencyTracker is implemented by host values that want to learn which
// scripts read them.
type DependencyTracker interface {
	// DependencyThis is called when the value itself is read as a whole, for
	// example when it is iterated over.
	DependencyThis(dep Dependency)

	// DependencyMember is called when a member is read. It returns the
	// abstract value of the member.
	DependencyMember(name string, dep Dependency) Object
}

// DummyType is the abstract value used in dependency discovery for data
// whose contents are unknown.
type DummyType struct{}

// Dummy is the single instance of DummyType.
var Dummy = &DummyType{}

func (d *DummyType) Type() Type {
	return DUMMY
}

func (d *DummyType) Inspect() string {
	return "dummy"
}

func (d *DummyType) Interface() interface{} {
	return nil
}

func (d *DummyType) Equals(other Object) bool {
	return other == Object(d)
}

func (d *DummyType) GetMember(name string) Object {
	return d
}

// Read is one dependency recorded by a Recorder.
type Read struct {
	Path string     `json:"path"`
	Dep  Dependency `json:"dependency"`
}

// Recorder collects the reads reported to Tracked values. It is safe for
// concurrent use.
type Recorder struct {
	mu    sync.Mutex
	reads []Read
	seen  map[Read]bool
}

func NewRecorder() *Recorder {
	return &Recorder{seen: map[Read]bool{}}
}

// Record notes that the value at path was read on behalf of dep. Duplicate
// reads are recorded once.
func (r *Recorder) Record(path string, dep Dependency) {
	r.mu.Lock()
	defer r.mu.Unlock()
	read := Read{Path: path, Dep: dep}
	if r.seen[read] {
		return
	}
	r.seen[read] = true
	r.reads = append(r.reads, read)
}

// Reads returns the recorded reads in the order they were first seen.
func (r *Recorder) Reads() []Read {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Read, len(r.reads))
	copy(out, r.reads)
	return out
}

// Paths returns the sorted set of paths that were read.
func (r *Recorder) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := map[string]bool{}
	for _, read := range r.reads {
		set[read.Path] = true
	}
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

var _ DependencyTracker = (*Tracked)(nil)

// Tracked is a placeholder for host data that records every read made in
// dependency discovery mode. Members are tracked too, under dotted paths.
type Tracked struct {
	path string
	rec  *Recorder
}

func NewTracked(path string, rec *Recorder) *Tracked {
	return &Tracked{path: path, rec: rec}
}

func (t *Tracked) Path() string {
	return t.path
}

func (t *Tracked) Type() Type {
	return DEPENDENCY
}

func (t *Tracked) Inspect() string {
	return fmt.Sprintf("dependency(%s)", t.path)
}

func (t *Tracked) Interface() interface{} {
	return t.path
}

func (t *Tracked) Equals(other Object) bool {
	o, ok := other.(*Tracked)
	return ok && o.path == t.path && o.rec == t.rec
}

func (t *Tracked) GetMember(name string) Object {
	return t.child(name)
}

func (t *Tracked) child(name string) *Tracked {
	path := name
	if t.path != "" {
		path = t.path + "." + name
	}
	return &Tracked{path: path, rec: t.rec}
}

func (t *Tracked) DependencyThis(dep Dependency) {
	t.rec.Record(t.path, dep)
}

func (t *Tracked) DependencyMember(name string, dep Dependency) Object {
	child := t.child(name)
	t.rec.Record(child.path, dep)
	return child
}
