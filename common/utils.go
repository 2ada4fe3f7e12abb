package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
// Config normalisation uses it to fall back to documented defaults for unset fields.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Positive returns v when it is greater than zero, otherwise fallback.
//
// Parameters:
//   - v: the candidate value
//   - fallback: the value used when v <= 0
//
// Returns:
//   - float32: v or fallback
func Positive(v, fallback float32) float32 {
	if v > 0 {
		return v
	}
	return fallback
}
