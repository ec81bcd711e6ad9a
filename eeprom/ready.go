package eeprom

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arloliu/go-eeprom/bus"
	"github.com/arloliu/go-eeprom/internal/pool"
)

var errShortProbe = errors.New("probe read returned no data")

// WaitReady blocks until the device acknowledges a probe again or timeout elapses.
//
// After a write the part ignores the bus for its internal write cycle.
// WaitReady probes, and after each failed probe waits ReadyPollInterval
// before retrying. Elapsed time is measured on the monotonic clock from
// entry; once it reaches timeout without a successful probe WaitReady
// returns ErrTimeout. A cancelled ctx also ends the wait with ErrTimeout,
// wrapping the context error.
//
// The probe is Probe when the connection implements bus.Prober, otherwise a
// one-byte read without setting an address first.
func (d *Device) WaitReady(ctx context.Context, timeout time.Duration) error {
	if err := d.checkOpen(); err != nil {
		return err
	}

	start := time.Now()
	for {
		d.metrics.incProbeCount()
		err := d.probe()
		if err == nil {
			return nil
		}

		elapsed := time.Since(start)
		if elapsed >= timeout {
			d.metrics.incReadyTimeoutCount()
			d.logger.Warn("device not ready", "timeout", timeout, "lastProbeError", err)

			return fmt.Errorf("%w: not ready after %v: %w", ErrTimeout, elapsed.Round(time.Millisecond), err)
		}

		if err := pool.Sleep(ctx, ReadyPollInterval); err != nil {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
	}
}

func (d *Device) probe() error {
	if p, ok := d.conn.(bus.Prober); ok {
		return p.Probe()
	}

	n, err := d.conn.Read(d.txBuf[:1])
	if err != nil {
		return err
	}
	if n != 1 {
		return errShortProbe
	}

	return nil
}
