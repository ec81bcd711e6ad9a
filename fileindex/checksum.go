package fileindex

// Checksum returns the XOR of all bytes of data. An empty slice yields 0.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}

	return sum
}
