package common

// Coalesce returns the first non-zero value in values. It is used to layer
// overrides, command line flags over configuration files over defaults.
//
// Parameters:
//   - values: candidate values, highest priority first
//
// Returns:
//   - T: the first non-zero value, or the zero value if every candidate is zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// Aspect returns the width to height ratio of a viewport. Minimized windows
// report zero dimensions, for those the ratio of 1 keeps projection math
// defined.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - float32: width divided by height, or 1 if either dimension is zero or less
func Aspect(width, height int) float32 {
	if width <= 0 || height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}
