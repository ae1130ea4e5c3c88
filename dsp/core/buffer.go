package core

// Gather returns rows[idx[0]], rows[idx[1]], ... as a new slice of references.
func Gather[T any](rows []T, idx []int) []T {
	out := make([]T, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}
