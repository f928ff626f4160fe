// Package util contains small helpers shared across cfgcrunch packages.
package util

import (
	"sort"
)

// InSlice returns whether s is present in the given slice by checking each
// item in order.
func InSlice[T comparable](s T, slice []T) bool {
	for i := range slice {
		if slice[i] == s {
			return true
		}
	}
	return false
}

// IndexOf returns the index of the first occurrence of s in slice, or -1 if it
// is not present.
func IndexOf[T comparable](s T, slice []T) int {
	for i := range slice {
		if slice[i] == s {
			return i
		}
	}
	return -1
}

// SortBy returns a copy of items sorted with the given less function. The sort
// is stable.
func SortBy[T any](items []T, less func(l, r T) bool) []T {
	sorted := make([]T, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	return sorted
}
