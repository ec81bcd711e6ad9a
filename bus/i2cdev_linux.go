//go:build linux

package bus

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// i2cSlave is the i2c-dev ioctl that binds a file descriptor to a 7-bit
// target address (linux/i2c-dev.h).
const i2cSlave = 0x0703

// i2cConn is a Conn over a Linux i2c-dev character device.
type i2cConn struct {
	fd     int
	path   string
	addr   uint8
	closed atomic.Bool
}

// OpenI2C opens the i2c-dev node at path and binds it to the 7-bit target addr.
func OpenI2C(path string, addr uint8) (Conn, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("bus: open %s: %w", path, err)
	}

	if err := unix.IoctlSetInt(fd, i2cSlave, int(addr)); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("bus: bind %s to address 0x%02X: %w", path, addr, err)
	}

	return &i2cConn{fd: fd, path: path, addr: addr}, nil
}

func (c *i2cConn) Read(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}

	n, err := unix.Read(c.fd, p)
	if err != nil {
		return 0, c.wrap(err)
	}

	return n, nil
}

func (c *i2cConn) Write(p []byte) (int, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}

	n, err := unix.Write(c.fd, p)
	if err != nil {
		return 0, c.wrap(err)
	}

	return n, nil
}

func (c *i2cConn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	return unix.Close(c.fd)
}

// wrap maps the errno a busy EEPROM produces (the adapter reports a missing
// ACK as ENXIO or EREMOTEIO) to ErrNack, keeping the errno in the chain.
func (c *i2cConn) wrap(err error) error {
	switch err {
	case unix.ENXIO, unix.EREMOTEIO, unix.EAGAIN:
		return fmt.Errorf("%w: %s@0x%02X: %w", ErrNack, c.path, c.addr, err)
	}

	return fmt.Errorf("bus: %s@0x%02X: %w", c.path, c.addr, err)
}
