package helpers

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

func Float64Pointer(f float64) *float64 {
	return &f
}
