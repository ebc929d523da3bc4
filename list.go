// list.go — the list sub-representation.
//
// A List holds both proper lists (1 2 3) and dotted lists (1 2 . 3) in one
// normalized shape: a slice of "all but the last element" plus an optional
// boxed terminal. Construction always flattens: when the terminal is itself a
// list, its but-last elements splice into the outer slice and its terminal
// replaces the outer one, recursively, until the terminal is not a list. The
// stored terminal is therefore never a list value, which makes Kind, Empty and
// Len O(1) and Car/Cdr cheap (Cdr shares the element backing array).
package lisp

// ListKind distinguishes proper from dotted lists.
type ListKind int

const (
	ProperList ListKind = iota
	DottedList
)

func (k ListKind) String() string {
	if k == DottedList {
		return "dotted list"
	}
	return "proper list"
}

// List is the normalized list shape. Invariants:
//   - last, when non-nil, is never a TagList value (flattening guarantee)
//   - the empty list has no elements and no terminal
type List struct {
	elems []Value
	last  *Value
}

// Empty returns a fresh empty list.
func NewEmptyList() *List { return &List{} }

// NewList builds a proper list of elems.
func NewList(elems ...Value) *List {
	return &List{elems: elems}
}

// NewDotted builds a list of elems terminated by last, flattening list
// terminals. Degenerate cases collapse: a list terminal contributes its own
// elements and terminal, and a construction that ends with no elements and no
// terminal is the empty list.
func NewDotted(elems []Value, last Value) *List {
	out := make([]Value, 0, len(elems)+1)
	out = append(out, elems...)
	for {
		inner, ok := last.AsList()
		if !ok {
			break
		}
		out = append(out, inner.elems...)
		if inner.last == nil {
			return &List{elems: out}
		}
		last = *inner.last
	}
	return &List{elems: out, last: &last}
}

// Cons prepends v to tail. Because NewDotted flattens, consing onto a proper
// list yields a proper list and consing onto a non-list yields a dotted pair.
func Cons(v Value, tail Value) *List {
	return NewDotted([]Value{v}, tail)
}

// Kind is O(1): dotted iff a (non-list) terminal is present.
func (l *List) Kind() ListKind {
	if l.last != nil {
		return DottedList
	}
	return ProperList
}

// Empty is O(1).
func (l *List) Empty() bool { return len(l.elems) == 0 && l.last == nil }

// Len is O(1): the but-last count plus one for a present terminal.
func (l *List) Len() int {
	n := len(l.elems)
	if l.last != nil {
		n++
	}
	return n
}

// Elems returns the but-last elements. Callers must not mutate the slice.
func (l *List) Elems() []Value { return l.elems }

// Last returns the terminal value of a dotted list.
func (l *List) Last() (Value, bool) {
	if l.last == nil {
		return Value{}, false
	}
	return *l.last, true
}

// Car returns the first element, or false on the empty list.
func (l *List) Car() (Value, bool) {
	if len(l.elems) > 0 {
		return l.elems[0], true
	}
	if l.last != nil {
		return *l.last, true
	}
	return Value{}, false
}

// Cdr returns everything after the first element, or false on the empty list.
// Consuming the front preserves normalization: the remainder of a two-element
// dotted list collapses to the bare terminal, so (cdr '(1 . 2)) is 2 rather
// than a one-element list wrapping 2. The returned list shares the element
// backing array with l.
func (l *List) Cdr() (Value, bool) {
	if l.Empty() {
		return Value{}, false
	}
	if len(l.elems) == 0 {
		// Degenerate terminal-only shape; its cdr is the empty list.
		return ListVal(NewEmptyList()), true
	}
	rest := l.elems[1:]
	if len(rest) == 0 && l.last != nil {
		return *l.last, true
	}
	return ListVal(&List{elems: rest, last: l.last}), true
}

// SplitFirst returns (car, cdr) in one step, or false on the empty list.
func (l *List) SplitFirst() (Value, Value, bool) {
	car, ok := l.Car()
	if !ok {
		return Value{}, Value{}, false
	}
	cdr, _ := l.Cdr()
	return car, cdr, true
}
