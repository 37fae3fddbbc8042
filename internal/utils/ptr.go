// Package utils holds small generic helpers.
package utils

// Ptr returns a pointer to a copy of v, for optional fields in partial
// updates.
func Ptr[T any](v T) *T {
	return &v
}
