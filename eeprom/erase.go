package eeprom

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/arloliu/go-eeprom/internal/util"
)

// eraseBlockSize bounds the pattern buffer EraseAll allocates per step.
const eraseBlockSize = 4096

// Erase sets length bytes starting at addr to ErasedByte.
//
// The part has no erase command; this is a Write of the erased-state pattern
// and follows the same chunking and pacing.
func (d *Device) Erase(addr uint16, length int) error {
	if err := d.validate(addr, length); err != nil {
		return err
	}

	pattern := util.Fill(make([]byte, length), ErasedByte)

	return d.erase(addr, pattern)
}

// EraseAll erases the whole device in 4 KiB steps, logging progress.
func (d *Device) EraseAll() error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	total := d.cfg.totalSize
	pattern := util.Fill(make([]byte, min(eraseBlockSize, total)), ErasedByte)

	for addr := 0; addr < total; {
		n := min(len(pattern), total-addr)
		if err := d.erase(uint16(addr), pattern[:n]); err != nil {
			return err
		}
		addr += n
		d.logger.Info("erase progress", "erased", addr, "total", total, "percent", addr*100/total)
	}

	return nil
}

func (d *Device) erase(addr uint16, pattern []byte) error {
	err := d.Write(addr, pattern)
	if err != nil && errors.Is(err, syscall.ENOMEM) {
		return fmt.Errorf("%w: %w", ErrMemory, err)
	}

	return err
}
