package eeprom

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-eeprom/bus"
	"github.com/arloliu/go-eeprom/bus/simbus"
)

func TestOpen_Sim(t *testing.T) {
	dev, sim := newSimDevice(t, nil)

	info, err := dev.Info()
	require.NoError(t, err)
	assert.Equal(t, sim.Size(), info.TotalSize())
	assert.Equal(t, sim.PageSize(), info.PageSize())
	assert.Len(t, dev.txBuf, sim.PageSize()+addrHeaderSize)
	assert.Empty(t, sim.Transactions(), "open must not touch the bus")
}

func TestOpen_TransportFailure(t *testing.T) {
	boom := errors.New("no such adapter")
	opener := bus.OpenerFunc(func(string, uint8) (bus.Conn, error) { return nil, boom })

	cfg, err := NewConfig("/dev/i2c-9", WithOpener(opener))
	require.NoError(t, err)

	dev, err := Open(cfg)
	require.Error(t, err)
	assert.Nil(t, dev)
	assert.ErrorIs(t, err, ErrInit)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, CodeInit, CodeOf(err))
}

func TestOpen_NilConnection(t *testing.T) {
	opener := bus.OpenerFunc(func(string, uint8) (bus.Conn, error) { return nil, nil })
	cfg, err := NewConfig("x", WithOpener(opener))
	require.NoError(t, err)

	dev, err := Open(cfg)
	assert.Nil(t, dev)
	assert.ErrorIs(t, err, ErrInit)
}

func TestOpen_AddressNotBound(t *testing.T) {
	sim, err := simbus.New()
	require.NoError(t, err)
	simbus.Register("open-wrong-addr", sim)
	t.Cleanup(func() { simbus.Unregister("open-wrong-addr") })

	cfg, err := NewConfig(simbus.TransportID("open-wrong-addr"), WithBusAddress(0x51))
	require.NoError(t, err)

	dev, err := Open(cfg)
	assert.Nil(t, dev)
	assert.ErrorIs(t, err, ErrInit)
	assert.ErrorIs(t, err, simbus.ErrNoDevice)
}

func TestOpen_UnregisteredSimDevice(t *testing.T) {
	cfg, err := NewConfig(simbus.TransportID("never-registered"))
	require.NoError(t, err)

	dev, err := Open(cfg)
	assert.Nil(t, dev)
	assert.ErrorIs(t, err, ErrInit)
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(nil)
	assert.ErrorIs(t, err, ErrParam)

	_, err = Open(&Config{})
	assert.ErrorIs(t, err, ErrParam)
}

func TestOpen_CopiesConfig(t *testing.T) {
	dev, _ := newSimDevice(t, nil)

	before, err := dev.Info()
	require.NoError(t, err)

	// Info hands out a copy; the device keeps its own.
	info := before
	info.pageSize = 1
	after, err := dev.Info()
	require.NoError(t, err)
	assert.Equal(t, before.PageSize(), after.PageSize())
}

func TestClose(t *testing.T) {
	dev, conn := newMockDevice(t)
	conn.On("Close").Return(nil).Once()

	require.NoError(t, dev.Close())
	conn.AssertExpectations(t)

	assert.ErrorIs(t, dev.Close(), ErrParam)
}

func TestClose_TransportError(t *testing.T) {
	dev, conn := newMockDevice(t)
	boom := errors.New("ebadf")
	conn.On("Close").Return(boom).Once()

	err := dev.Close()
	assert.ErrorIs(t, err, boom)

	// the device is released even when the transport complains
	assert.ErrorIs(t, dev.Close(), ErrParam)
}

func TestNilDevice(t *testing.T) {
	var dev *Device

	assert.ErrorIs(t, dev.Close(), ErrParam)

	_, err := dev.Info()
	assert.ErrorIs(t, err, ErrParam)

	_, err = dev.Read(0, 1)
	assert.ErrorIs(t, err, ErrParam)

	assert.ErrorIs(t, dev.Write(0, []byte{1}), ErrParam)
	assert.ErrorIs(t, dev.Erase(0, 1), ErrParam)
	assert.ErrorIs(t, dev.EraseAll(), ErrParam)
	assert.ErrorIs(t, dev.WaitReady(context.Background(), time.Millisecond), ErrParam)
	assert.Nil(t, dev.Metrics())
}

func TestUseAfterClose(t *testing.T) {
	dev, sim := newSimDevice(t, nil)
	require.NoError(t, dev.Close())

	_, err := dev.Info()
	assert.ErrorIs(t, err, ErrParam)

	_, err = dev.Read(0, 1)
	assert.ErrorIs(t, err, ErrParam)

	assert.ErrorIs(t, dev.Write(0, []byte{1}), ErrParam)
	assert.ErrorIs(t, dev.Erase(0, 1), ErrParam)
	assert.ErrorIs(t, dev.WaitReady(context.Background(), time.Millisecond), ErrParam)

	_, err = dev.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrParam)

	assert.Empty(t, sim.Transactions())
}

func TestValidate(t *testing.T) {
	dev, conn := newMockDevice(t, WithTotalSize(32768), WithPageSize(64))

	tests := []struct {
		name   string
		addr   uint16
		length int
		ok     bool
	}{
		{"first byte", 0, 1, true},
		{"whole device", 0, 32768, true},
		{"last byte", 0x7FFF, 1, true},
		{"zero length", 0x100, 0, false},
		{"negative length", 0x100, -1, false},
		{"one past end", 0x7FFF, 2, false},
		{"start past end", 0x8000, 1, false},
		{"would wrap in 16 bits", 0xFFFF, 2, false},
		{"longer than address space", 0, 70000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dev.validate(tt.addr, tt.length)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrParam)
			}
		})
	}

	conn.AssertNotCalled(t, "Write", mock.Anything)
	conn.AssertNotCalled(t, "Read", mock.Anything)
}

func TestInvalidRangeNeverTouchesBus(t *testing.T) {
	dev, sim := newSimDevice(t, nil)
	size := sim.Size()

	ranges := []struct {
		addr   uint16
		length int
	}{
		{0, 0},
		{uint16(size - 1), 2},
		{uint16(size - 64), 65},
		{0, size + 1},
	}

	for _, r := range ranges {
		_, err := dev.Read(r.addr, r.length)
		assert.ErrorIs(t, err, ErrParam)
		assert.ErrorIs(t, dev.ReadInto(r.addr, make([]byte, r.length)), ErrParam)
		assert.ErrorIs(t, dev.Write(r.addr, make([]byte, r.length)), ErrParam)
		assert.ErrorIs(t, dev.Erase(r.addr, r.length), ErrParam)
	}

	assert.ErrorIs(t, dev.Write(0, nil), ErrParam)
	assert.Empty(t, sim.Transactions())
}
