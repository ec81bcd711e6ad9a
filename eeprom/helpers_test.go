package eeprom

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-eeprom/bus"
	"github.com/arloliu/go-eeprom/bus/simbus"
)

// newSimDevice registers a simulated part under a per-test name and opens a
// Device on it. Settle delay defaults to zero so tests run fast; pass
// WithWriteDelay to override.
func newSimDevice(t *testing.T, simOpts []simbus.Option, opts ...Option) (*Device, *simbus.Device) {
	t.Helper()

	sim, err := simbus.New(simOpts...)
	require.NoError(t, err)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	simbus.Register(name, sim)
	t.Cleanup(func() { simbus.Unregister(name) })

	defaults := []Option{
		WithPageSize(sim.PageSize()),
		WithTotalSize(sim.Size()),
		WithBusAddress(sim.Address()),
		WithWriteDelay(0),
	}
	cfg, err := NewConfig(simbus.TransportID(name), append(defaults, opts...)...)
	require.NoError(t, err)

	dev, err := Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	sim.ResetJournal()

	return dev, sim
}

// newMockDevice opens a Device whose transport is a testify mock.
func newMockDevice(t *testing.T, opts ...Option) (*Device, *bus.MockConn) {
	t.Helper()

	conn := bus.NewMockConn()
	opener := bus.OpenerFunc(func(string, uint8) (bus.Conn, error) { return conn, nil })

	cfg, err := NewConfig("mock:dev", append([]Option{WithOpener(opener), WithWriteDelay(0)}, opts...)...)
	require.NoError(t, err)

	dev, err := Open(cfg)
	require.NoError(t, err)

	return dev, conn
}

// alphaPattern returns n bytes cycling through 'A'..'Z'.
func alphaPattern(n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('A' + i%26)
	}

	return buf
}
