// Package points holds the ordered list of placed coordinates.
package points

import (
	"strconv"

	"quadmap/internal/geo"
)

// Capacity is the number of points that closes the shape
const Capacity = 4

// Store is the host-owned point list. Insertion order is the vertex order.
type Store struct {
	coords []geo.Coordinate
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{coords: make([]geo.Coordinate, 0, Capacity)}
}

// Label returns the id given to the point created while the store holds count points
func Label(count int) string {
	return "D" + strconv.Itoa(count+1)
}

// Add appends c unless the shape is already closed.
// A full store is a policy rejection, not an error: it reports false and stays unchanged.
func (s *Store) Add(c geo.Coordinate) bool {
	if len(s.coords) >= Capacity {
		return false
	}
	s.coords = append(s.coords, c)
	return true
}

// Len returns the number of placed points
func (s *Store) Len() int {
	return len(s.coords)
}

// Closed reports whether the quadrilateral is complete
func (s *Store) Closed() bool {
	return len(s.coords) == Capacity
}

// Snapshot returns a copy safe to hand to a render pass
func (s *Store) Snapshot() []geo.Coordinate {
	out := make([]geo.Coordinate, len(s.coords))
	copy(out, s.coords)
	return out
}

// Reset empties the store, e.g. when a placement session is cancelled
func (s *Store) Reset() {
	s.coords = s.coords[:0]
}

// Replace overwrites the contents with coords, keeping at most Capacity points
func (s *Store) Replace(coords []geo.Coordinate) {
	if len(coords) > Capacity {
		coords = coords[:Capacity]
	}
	s.coords = append(make([]geo.Coordinate, 0, Capacity), coords...)
}
