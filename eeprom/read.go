package eeprom

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Read returns length bytes starting at addr.
//
// The read is one address-set transaction followed by one data transaction;
// it is not limited by page boundaries.
func (d *Device) Read(addr uint16, length int) ([]byte, error) {
	if err := d.validate(addr, length); err != nil {
		return nil, err
	}

	buf := make([]byte, length)
	if err := d.read(addr, buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadInto fills buf with the bytes starting at addr.
func (d *Device) ReadInto(addr uint16, buf []byte) error {
	if err := d.validate(addr, len(buf)); err != nil {
		return err
	}

	return d.read(addr, buf)
}

// ReadAt implements io.ReaderAt. Reads reaching past the end of the device
// return the available bytes and io.EOF.
func (d *Device) ReadAt(p []byte, off int64) (int, error) {
	if err := d.checkOpen(); err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, fmt.Errorf("%w: negative offset %d", ErrParam, off)
	}
	if off >= int64(d.cfg.totalSize) {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	n := min(len(p), d.cfg.totalSize-int(off))
	if err := d.read(uint16(off), p[:n]); err != nil {
		return 0, err
	}
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (d *Device) read(addr uint16, buf []byte) error {
	hdr := d.txBuf[:addrHeaderSize]
	binary.BigEndian.PutUint16(hdr, addr)

	if n, err := d.conn.Write(hdr); err != nil || n != len(hdr) {
		d.metrics.incReadErrCount()
		err = transferError(ErrRead, "address set", addr, n, len(hdr), err)
		d.logger.Warn("read failed", "error", err)

		return err
	}

	if n, err := d.conn.Read(buf); err != nil || n != len(buf) {
		d.metrics.incReadErrCount()
		err = transferError(ErrRead, "data read", addr, n, len(buf), err)
		d.logger.Warn("read failed", "error", err)

		return err
	}

	d.metrics.incRead(len(buf))

	return nil
}
