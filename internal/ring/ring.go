// Package ring is a specialized adaption of `container/ring`,
// used as the recency list of the eviction algorithms.
package ring

import "iter"

type (
	// A Ring is an element of a circular list, or ring.
	// Rings do not have a beginning or end; a pointer to any ring element
	// serves as reference to the entire ring. The zero value for a Ring
	// is a one-element ring with a zero Value.
	Ring[Value any] struct {
		next, prev *Ring[Value]
		Value      Value
	}

	// List orders values from most to least recently used.
	// It is a ring anchored by a sentinel element that holds no value,
	// so the front is sentinel.next and the back is sentinel.prev.
	// The zero value is an empty list.
	List[Value any] struct {
		sentinel Ring[Value]
		length   int
	}
)

func (r *Ring[Value]) init() *Ring[Value] {
	r.next = r
	r.prev = r
	return r
}

// Next returns the next ring element. r must not be empty.
func (r *Ring[Value]) Next() *Ring[Value] {
	if r.next == nil {
		return r.init()
	}
	return r.next
}

// Prev returns the previous ring element. r must not be empty.
func (r *Ring[Value]) Prev() *Ring[Value] {
	if r.next == nil {
		return r.init()
	}
	return r.prev
}

// Link connects ring r with ring s such that r.Next()
// becomes s and returns the original value for r.Next().
// r must not be empty.
//
// If r and s point to different rings, linking
// them creates a single ring with the elements of s inserted
// after r. The result points to the element following the
// last element of s after insertion.
func (r *Ring[Value]) Link(s *Ring[Value]) *Ring[Value] {
	n := r.Next()
	if s != nil {
		p := s.Prev()
		// Note: Cannot use multiple assignment because
		// evaluation order of LHS is not specified.
		r.next = s
		s.prev = r
		n.prev = p
		p.next = n
	}
	return n
}

// Detach removes r from whatever ring it is in,
// leaving it as a one-element ring.
func (r *Ring[Value]) Detach() *Ring[Value] {
	if r.next == nil || r.next == r {
		return r.init()
	}
	r.prev.next = r.next
	r.next.prev = r.prev
	return r.init()
}

// Len computes the number of elements in ring r.
// It executes in time proportional to the number of elements.
func (r *Ring[Value]) Len() int {
	n := 0
	if r != nil {
		n = 1
		for p := r.Next(); p != r; p = p.next {
			n++
		}
	}
	return n
}

func (l *List[Value]) root() *Ring[Value] { return l.sentinel.Next() }

// Len returns the number of elements in the list.
func (l *List[Value]) Len() int { return l.length }

// Front returns the most recently used element, or nil.
func (l *List[Value]) Front() *Ring[Value] {
	if l.length == 0 {
		return nil
	}
	return l.root().next
}

// Back returns the least recently used element, or nil.
func (l *List[Value]) Back() *Ring[Value] {
	if l.length == 0 {
		return nil
	}
	return l.root().prev
}

// PushFront inserts a new element holding value at the front.
func (l *List[Value]) PushFront(value Value) *Ring[Value] {
	element := (&Ring[Value]{Value: value}).init()
	l.root().Link(element)
	l.length++
	return element
}

// MoveToFront moves e, which must be an element of l, to the front.
func (l *List[Value]) MoveToFront(e *Ring[Value]) {
	root := l.root()
	if root.next == e {
		return
	}
	root.Link(e.Detach())
}

// Remove unlinks e, which must be an element of l.
func (l *List[Value]) Remove(e *Ring[Value]) Value {
	e.Detach()
	l.length--
	return e.Value
}

// PopBack removes and returns the least recently used element.
func (l *List[Value]) PopBack() (*Ring[Value], bool) {
	back := l.Back()
	if back == nil {
		return nil, false
	}
	l.Remove(back)
	return back, true
}

// Clear drops every element.
func (l *List[Value]) Clear() {
	l.sentinel.init()
	l.length = 0
}

// All iterates from the front (most recent) to the back.
func (l *List[Value]) All() iter.Seq[*Ring[Value]] {
	return func(yield func(*Ring[Value]) bool) {
		root := l.root()
		for p := root.next; p != root; p = p.next {
			if !yield(p) {
				return
			}
		}
	}
}
