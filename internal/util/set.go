package util

import (
	"fmt"
	"sort"
	"strings"
)

// StringSet is a map[string]bool with set operations added to it. The zero
// value is not ready for use; create one with NewStringSet or a literal.
type StringSet map[string]bool

// NewStringSet creates a new StringSet containing the given elements.
func NewStringSet(elements ...string) StringSet {
	s := StringSet{}
	for _, e := range elements {
		s.Add(e)
	}
	return s
}

// Has returns whether the given value is in the set.
func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

// Add adds the given value to the set. If it is already present, this has no
// effect.
func (s StringSet) Add(value string) {
	s[value] = true
}

// AddNew adds the given value to the set and returns whether it was not
// already present. This is handy for the add-until-nothing-changes loops of
// fixpoint computations.
func (s StringSet) AddNew(value string) bool {
	if s.Has(value) {
		return false
	}
	s.Add(value)
	return true
}

// Len returns the number of elements in the set.
func (s StringSet) Len() int {
	return len(s)
}

// All returns whether every one of the given values is in the set. It returns
// true for an empty list of values.
func (s StringSet) All(values []string) bool {
	for _, v := range values {
		if !s.Has(v) {
			return false
		}
	}
	return true
}

// Elements returns the elements of the set in no particular order.
func (s StringSet) Elements() []string {
	elems := make([]string, 0, len(s))
	for k := range s {
		elems = append(elems, k)
	}
	return elems
}

// Ordered returns the elements of the set, alphabetized.
func (s StringSet) Ordered() []string {
	elems := s.Elements()
	sort.Strings(elems)
	return elems
}

// StringOrdered shows the contents of the set. Items are guaranteed to be
// alphabetized.
func (s StringSet) StringOrdered() string {
	var sb strings.Builder

	convs := s.Ordered()

	sb.WriteRune('{')
	for i := range convs {
		sb.WriteString(fmt.Sprintf("%v", convs[i]))
		if i+1 < len(convs) {
			sb.WriteRune(',')
			sb.WriteRune(' ')
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

// String shows the contents of the set. It is the same as StringOrdered so
// that output involving sets is stable between runs.
func (s StringSet) String() string {
	return s.StringOrdered()
}
