package eeprom

import (
	"errors"
	"fmt"

	"github.com/arloliu/go-eeprom/bus"
	"github.com/arloliu/go-eeprom/logger"
)

// addrHeaderSize is the size of the big-endian word address that leads
// every write transaction.
const addrHeaderSize = 2

// Device is an open EEPROM. It owns its bus connection exclusively until Close.
//
// A Device is NOT goroutine-safe; see the package documentation.
type Device struct {
	conn   bus.Conn
	cfg    Config
	logger logger.Logger

	// txBuf holds one page-write transaction: address header plus one page.
	txBuf []byte

	metrics DeviceMetrics
}

// Open opens the transport named by cfg and binds it to the configured bus
// address. The device keeps its own copy of cfg.
//
// It fails with ErrParam for a nil or degenerate cfg and with ErrInit when the
// transport cannot be opened or bound.
func Open(cfg *Config) (*Device, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrParam)
	}
	c := *cfg
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParam, err)
	}

	l := c.logger.With("transport", c.transportID, "busAddr", fmt.Sprintf("0x%02X", c.busAddress))

	conn, err := c.opener.Open(c.transportID, c.busAddress)
	if err == nil && conn == nil {
		err = errors.New("opener returned no connection")
	}
	if err != nil {
		l.Warn("failed to open device", "error", err)
		return nil, fmt.Errorf("%w: open %s at 0x%02X: %w", ErrInit, c.transportID, c.busAddress, err)
	}

	d := &Device{
		conn:   conn,
		cfg:    c,
		logger: l,
		txBuf:  make([]byte, addrHeaderSize+c.pageSize),
	}
	l.Info("device opened", "totalSize", c.totalSize, "pageSize", c.pageSize, "writeDelay", c.writeDelay)

	return d, nil
}

// Close releases the bus connection. The device must not be used afterwards;
// every later call returns ErrParam, including a second Close.
func (d *Device) Close() error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	conn := d.conn
	d.conn = nil
	if err := conn.Close(); err != nil {
		d.logger.Warn("failed to close transport", "error", err)
		return fmt.Errorf("eeprom: close %s: %w", d.cfg.transportID, err)
	}
	d.logger.Info("device closed")

	return nil
}

// Info returns a copy of the device configuration.
func (d *Device) Info() (Config, error) {
	if err := d.checkOpen(); err != nil {
		return Config{}, err
	}

	return d.cfg, nil
}

// Metrics returns the device counters, or nil for a nil device.
func (d *Device) Metrics() *DeviceMetrics {
	if d == nil {
		return nil
	}

	return &d.metrics
}

func (d *Device) checkOpen() error {
	if d == nil {
		return fmt.Errorf("%w: nil device", ErrParam)
	}
	if d.conn == nil {
		return fmt.Errorf("%w: device is closed", ErrParam)
	}

	return nil
}

// validate checks the half-open range [addr, addr+length) against the
// device capacity. The end is computed in int so it cannot wrap at 16 bits.
func (d *Device) validate(addr uint16, length int) error {
	if err := d.checkOpen(); err != nil {
		return err
	}
	if length <= 0 {
		return fmt.Errorf("%w: length %d must be positive", ErrParam, length)
	}
	if end := int(addr) + length; end > d.cfg.totalSize {
		return fmt.Errorf("%w: range [0x%04X, 0x%05X) exceeds device size %d", ErrParam, addr, end, d.cfg.totalSize)
	}

	return nil
}

// transferError builds the error for a transaction that failed or moved
// fewer bytes than wanted. A NACK from the bus additionally carries ErrBusy.
func transferError(kind error, phase string, addr uint16, n, want int, err error) error {
	switch {
	case errors.Is(err, bus.ErrNack):
		return fmt.Errorf("%w: %s at 0x%04X: %w: %w", kind, phase, addr, ErrBusy, err)
	case err != nil:
		return fmt.Errorf("%w: %s at 0x%04X: %w", kind, phase, addr, err)
	default:
		return fmt.Errorf("%w: %s at 0x%04X: transferred %d of %d bytes", kind, phase, addr, n, want)
	}
}
