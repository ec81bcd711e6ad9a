package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-eeprom/bus/simbus"
	"github.com/arloliu/go-eeprom/eeprom"
	"github.com/arloliu/go-eeprom/fileindex"
	"github.com/arloliu/go-eeprom/internal/cliconfig"
	"github.com/arloliu/go-eeprom/logger"
)

var quiet = logger.NewSlog(logger.FatalLevel, false)

func openSim(t *testing.T) (*eeprom.Device, *simbus.Device) {
	t.Helper()

	prof := cliconfig.Default()
	prof.Transport = simbus.TransportID(t.Name())
	prof.WriteDelay = 0
	t.Cleanup(func() { simbus.Unregister(t.Name()) })

	dev, err := prof.Open(quiet)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	sim, ok := simbus.Lookup(t.Name())
	require.True(t, ok)

	return dev, sim
}

func TestUnpack(t *testing.T) {
	dev, _ := openSim(t)
	files := []fileindex.File{
		{Name: "a.dat", Data: []byte("alpha")},
		{Name: "b.dat", Data: []byte("bravo")},
	}
	_, err := fileindex.Save(dev, files, eeprom.DefaultPageSize, eeprom.DefaultTotalSize)
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out")
	restored, total, err := unpack(dev, out, quiet)
	require.NoError(t, err)
	assert.Equal(t, 2, restored)
	assert.Equal(t, 2, total)

	for _, f := range files {
		data, err := os.ReadFile(filepath.Join(out, f.Name))
		require.NoError(t, err)
		assert.Equal(t, f.Data, data)
	}
}

func TestUnpack_SkipsCorruptFile(t *testing.T) {
	dev, sim := openSim(t)
	idx, err := fileindex.Save(dev, []fileindex.File{
		{Name: "a.dat", Data: []byte("alpha")},
		{Name: "b.dat", Data: []byte("bravo")},
	}, eeprom.DefaultPageSize, eeprom.DefaultTotalSize)
	require.NoError(t, err)

	// corrupt the first byte of a.dat
	sim.Load(int(idx.Records[0].Addr), []byte("blpha"))

	out := t.TempDir()
	restored, total, err := unpack(dev, out, quiet)
	require.NoError(t, err)
	assert.Equal(t, 1, restored)
	assert.Equal(t, 2, total)

	assert.NoFileExists(t, filepath.Join(out, "a.dat"))
	assert.FileExists(t, filepath.Join(out, "b.dat"))
}

func TestUnpack_NoIndex(t *testing.T) {
	dev, _ := openSim(t)

	_, _, err := unpack(dev, t.TempDir(), quiet)
	assert.ErrorIs(t, err, fileindex.ErrBadMagic)
}

func TestUnpack_ReadFailure(t *testing.T) {
	dev, sim := openSim(t)
	sim.SetBusy(true)

	_, _, err := unpack(dev, t.TempDir(), quiet)
	require.Error(t, err)
	assert.ErrorIs(t, err, eeprom.ErrRead)
	assert.ErrorIs(t, err, eeprom.ErrBusy)
}
