// Package collections holds small generic containers.
package collections

import (
	"maps"
	"slices"
)

// Set is a map-backed set of comparable values.
type Set[T comparable] map[T]struct{}

// NewSet returns a set holding vs.
func NewSet[T comparable](vs ...T) Set[T] {
	s := make(Set[T], len(vs))
	s.Add(vs...)
	return s
}

// Add inserts vs.
func (s Set[T]) Add(vs ...T) {
	for _, v := range vs {
		s[v] = struct{}{}
	}
}

// Insert adds v and reports whether it was absent before.
func (s Set[T]) Insert(v T) bool {
	if s.Has(v) {
		return false
	}
	s[v] = struct{}{}
	return true
}

// Has reports whether v is in the set.
func (s Set[T]) Has(v T) bool {
	_, ok := s[v]
	return ok
}

// Members returns the values in no particular order.
func (s Set[T]) Members() []T {
	return slices.Collect(maps.Keys(s))
}

// Union returns a new set with the members of s and others.
func (s Set[T]) Union(others ...Set[T]) Set[T] {
	out := maps.Clone(s)
	if out == nil {
		out = Set[T]{}
	}
	for _, o := range others {
		maps.Copy(out, o)
	}
	return out
}
