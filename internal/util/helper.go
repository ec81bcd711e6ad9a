package util

// CloneSlice clones slice with cloneSize.
// This function will use src length as the clone size if cloneSize is 0.
func CloneSlice[T any](src []T, cloneSize int) []T {
	if cloneSize == 0 {
		cloneSize = len(src)
	}
	clone := make([]T, cloneSize)
	copy(clone, src)

	return clone
}

// Fill sets every element of dst to v and returns dst.
func Fill[T any](dst []T, v T) []T {
	if len(dst) == 0 {
		return dst
	}
	dst[0] = v
	// doubling copy
	for filled := 1; filled < len(dst); filled *= 2 {
		copy(dst[filled:], dst[:filled])
	}

	return dst
}
