package eeprom

import (
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-eeprom/bus"
	"github.com/arloliu/go-eeprom/logger"
)

// Reference configuration of an AT24C256 on the default board bus.
const (
	DefaultTransportID       = "/dev/i2c-5"
	DefaultBusAddress  uint8 = 0x50
	DefaultPageSize          = 64
	DefaultTotalSize         = 32768
	DefaultWriteDelay        = 5 * time.Millisecond
)

// Limits enforced by NewConfig.
const (
	// MaxTotalSize is the size of the 16-bit word address space.
	MaxTotalSize = 1 << 16

	// MinBusAddress and MaxBusAddress bound the non-reserved 7-bit addresses.
	MinBusAddress uint8 = 0x03
	MaxBusAddress uint8 = 0x77

	// MaxWriteDelay bounds the settle delay; datasheet write cycles are a few milliseconds.
	MaxWriteDelay = time.Second
)

// ErasedByte is the value an erased cell reads back.
const ErasedByte byte = 0xFF

// ReadyPollInterval is the backoff between failed ready probes in WaitReady.
const ReadyPollInterval = time.Millisecond

// Config is the immutable configuration of a Device.
type Config struct {
	transportID string
	busAddress  uint8
	pageSize    int
	totalSize   int
	writeDelay  time.Duration

	opener bus.Opener
	logger logger.Logger
}

// NewConfig creates a device configuration.
//
// transportID names the bus the device sits on, e.g. "/dev/i2c-5" or
// "sim:bench" (see bus.Open). opts are applied in order; see With* functions.
// Unset fields take the AT24C256 defaults.
func NewConfig(transportID string, opts ...Option) (*Config, error) {
	if transportID == "" {
		return nil, errors.New("eeprom: transport identifier must not be empty")
	}

	cfg := &Config{
		transportID: transportID,
		busAddress:  DefaultBusAddress,
		pageSize:    DefaultPageSize,
		totalSize:   DefaultTotalSize,
		writeDelay:  DefaultWriteDelay,
		opener:      bus.Default,
		logger:      logger.GetLogger(),
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultConfig returns the reference configuration on DefaultTransportID.
func DefaultConfig() *Config {
	cfg, _ := NewConfig(DefaultTransportID)
	return cfg
}

// validate rejects degenerate geometry, including zero-value Configs that
// did not come from NewConfig.
func (cfg Config) validate() error {
	switch {
	case cfg.transportID == "":
		return errors.New("eeprom: transport identifier must not be empty")
	case cfg.totalSize <= 0 || cfg.totalSize > MaxTotalSize:
		return fmt.Errorf("eeprom: total size %d out of range [1, %d]", cfg.totalSize, MaxTotalSize)
	case cfg.pageSize <= 0 || cfg.pageSize&(cfg.pageSize-1) != 0:
		return fmt.Errorf("eeprom: page size %d is not a positive power of two", cfg.pageSize)
	case cfg.pageSize > cfg.totalSize:
		return fmt.Errorf("eeprom: page size %d exceeds total size %d", cfg.pageSize, cfg.totalSize)
	case cfg.opener == nil:
		return errors.New("eeprom: opener must not be nil")
	case cfg.logger == nil:
		return errors.New("eeprom: logger must not be nil")
	}

	return nil
}

// --- Getters ---

// TransportID returns the bus transport identifier.
func (cfg Config) TransportID() string { return cfg.transportID }

// BusAddress returns the 7-bit target address.
func (cfg Config) BusAddress() uint8 { return cfg.busAddress }

// PageSize returns the page size in bytes.
func (cfg Config) PageSize() int { return cfg.pageSize }

// TotalSize returns the device capacity in bytes.
func (cfg Config) TotalSize() int { return cfg.totalSize }

// PageCount returns the number of pages, counting a trailing partial page.
func (cfg Config) PageCount() int { return (cfg.totalSize + cfg.pageSize - 1) / cfg.pageSize }

// WriteDelay returns the settle delay after each page write.
func (cfg Config) WriteDelay() time.Duration { return cfg.writeDelay }

// GetLogger returns the configured logger.
func (cfg Config) GetLogger() logger.Logger { return cfg.logger }

func (cfg Config) String() string {
	return fmt.Sprintf("%s@0x%02X (%d bytes, %d-byte pages, %v settle)",
		cfg.transportID, cfg.busAddress, cfg.totalSize, cfg.pageSize, cfg.writeDelay)
}

// --- Option ---

// Option is a functional option for configuring a Config.
type Option interface {
	apply(*Config) error
}

type optFunc func(*Config) error

func (f optFunc) apply(cfg *Config) error { return f(cfg) }

// WithBusAddress sets the 7-bit target address. Must be in [0x03, 0x77].
func WithBusAddress(addr uint8) Option {
	return optFunc(func(cfg *Config) error {
		if addr < MinBusAddress || addr > MaxBusAddress {
			return fmt.Errorf("eeprom: bus address 0x%02X out of range [0x%02X, 0x%02X]", addr, MinBusAddress, MaxBusAddress)
		}
		cfg.busAddress = addr

		return nil
	})
}

// WithPageSize sets the page size. Must be a positive power of two no larger than the total size.
func WithPageSize(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n <= 0 || n&(n-1) != 0 {
			return fmt.Errorf("eeprom: page size %d is not a positive power of two", n)
		}
		cfg.pageSize = n

		return nil
	})
}

// WithTotalSize sets the capacity in bytes. Must be in [1, 65536].
func WithTotalSize(n int) Option {
	return optFunc(func(cfg *Config) error {
		if n <= 0 || n > MaxTotalSize {
			return fmt.Errorf("eeprom: total size %d out of range [1, %d]", n, MaxTotalSize)
		}
		cfg.totalSize = n

		return nil
	})
}

// WithWriteDelay sets the settle delay after each page write. Must be in [0, 1s].
// A zero delay is only safe when the caller polls with WaitReady.
func WithWriteDelay(d time.Duration) Option {
	return optFunc(func(cfg *Config) error {
		if d < 0 || d > MaxWriteDelay {
			return fmt.Errorf("eeprom: write delay %v out of range [0, %v]", d, MaxWriteDelay)
		}
		cfg.writeDelay = d

		return nil
	})
}

// WithOpener sets the opener used to reach the transport. Defaults to bus.Default.
func WithOpener(o bus.Opener) Option {
	return optFunc(func(cfg *Config) error {
		if o == nil {
			return errors.New("eeprom: opener must not be nil")
		}
		cfg.opener = o

		return nil
	})
}

// WithLogger sets the logger for the device.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *Config) error {
		if l == nil {
			return errors.New("eeprom: logger must not be nil")
		}
		cfg.logger = l

		return nil
	})
}
