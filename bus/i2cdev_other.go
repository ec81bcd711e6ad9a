//go:build !linux

package bus

import "fmt"

// OpenI2C is only available on Linux.
func OpenI2C(path string, addr uint8) (Conn, error) {
	return nil, fmt.Errorf("%w: i2c-dev %s@0x%02X", ErrUnsupported, path, addr)
}
