package fileindex

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-eeprom/bus/simbus"
	"github.com/arloliu/go-eeprom/eeprom"
)

// memory is a flat byte array implementing io.ReaderAt and io.WriterAt.
type memory []byte

func newMemory(size int) memory {
	m := make(memory, size)
	for i := range m {
		m[i] = 0xFF
	}

	return m
}

func (m memory) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m)) {
		return 0, io.EOF
	}
	n := copy(p, m[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

func (m memory) WriteAt(p []byte, off int64) (int, error) {
	if off+int64(len(p)) > int64(len(m)) {
		return 0, io.ErrShortWrite
	}

	return copy(m[off:], p), nil
}

// newDevice opens an eeprom.Device on a fresh simulated part.
func newDevice(t *testing.T) (*eeprom.Device, *simbus.Device) {
	t.Helper()

	sim, err := simbus.New()
	require.NoError(t, err)
	simbus.Register(t.Name(), sim)
	t.Cleanup(func() { simbus.Unregister(t.Name()) })

	cfg, err := eeprom.NewConfig(simbus.TransportID(t.Name()), eeprom.WithWriteDelay(0))
	require.NoError(t, err)

	dev, err := eeprom.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	return dev, sim
}

func sampleFiles() []File {
	return []File{
		{Name: "sensor_a.dat", Data: []byte("exposure=120;gain=4")},
		{Name: "sensor_b.dat", Data: make([]byte, 300)},
		{Name: "lens.dat", Data: []byte{0x01, 0x02, 0x04, 0x08}},
	}
}
