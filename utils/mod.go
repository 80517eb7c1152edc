package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Filter returns the elements of slice that satisfy keep, in order.
func Filter[T any](slice []T, keep func(T) bool) []T {
	var kept []T
	for _, v := range slice {
		if keep(v) {
			kept = append(kept, v)
		}
	}
	return kept
}

// Any reports whether at least one element satisfies match.
func Any[T any](slice []T, match func(T) bool) bool {
	for _, v := range slice {
		if match(v) {
			return true
		}
	}
	return false
}
