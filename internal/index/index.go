// Package index maps object ids to the list elements that hold them.
package index

import (
	cachesim "github.com/djdv/go-cachesim"
	"github.com/djdv/go-cachesim/internal/ring"
)

type (
	// Element is an object linked into a recency list.
	Element = ring.Ring[cachesim.Object]

	// Index is an O(1) lookup table from id to element.
	Index struct {
		table map[cachesim.ObjectID]*Element
	}
)

// defaultHint is the initial table size used when no hint is given.
const defaultHint = 1 << 10

// New returns an index sized for roughly hint objects.
func New(hint int) *Index {
	if hint <= 0 {
		hint = defaultHint
	}
	return &Index{table: make(map[cachesim.ObjectID]*Element, hint)}
}

// Lookup returns the element for id, or nil.
func (ix *Index) Lookup(id cachesim.ObjectID) *Element {
	return ix.table[id]
}

// Insert adds element under its object's id,
// replacing any previous entry.
func (ix *Index) Insert(element *Element) {
	ix.table[element.Value.ID] = element
}

// Remove deletes the entry for id.
func (ix *Index) Remove(id cachesim.ObjectID) {
	delete(ix.table, id)
}

// Len returns the number of indexed objects.
func (ix *Index) Len() int { return len(ix.table) }

// Clear drops every entry.
func (ix *Index) Clear() {
	clear(ix.table)
}
