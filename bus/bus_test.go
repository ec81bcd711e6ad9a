package bus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitScheme(t *testing.T) {
	tests := []struct {
		id     string
		scheme string
		name   string
		ok     bool
	}{
		{"sim:bench", "sim", "bench", true},
		{"sim:", "sim", "", true},
		{"/dev/i2c-5", "", "", false},
		{"/dev/odd:name", "", "", false},
		{":name", "", "", false},
		{"i2c-5", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			scheme, name, ok := splitScheme(tt.id)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.scheme, scheme)
			assert.Equal(t, tt.name, name)
		})
	}
}

func TestRegisterAndOpen(t *testing.T) {
	conn := NewMockConn()

	var gotName string
	var gotAddr uint8
	Register("test-bus", OpenerFunc(func(name string, addr uint8) (Conn, error) {
		gotName, gotAddr = name, addr
		return conn, nil
	}))
	t.Cleanup(func() { Unregister("test-bus") })

	assert.Contains(t, Schemes(), "test-bus")

	c, err := Open("test-bus:left", 0x50)
	require.NoError(t, err)
	assert.Same(t, conn, c)
	assert.Equal(t, "left", gotName)
	assert.Equal(t, uint8(0x50), gotAddr)

	c, err = Default.Open("test-bus:right", 0x51)
	require.NoError(t, err)
	assert.Same(t, conn, c)
	assert.Equal(t, "right", gotName)
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open("nowhere:dev", 0x50)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestOpen_OpenerError(t *testing.T) {
	boom := errors.New("adapter unplugged")
	Register("broken", OpenerFunc(func(string, uint8) (Conn, error) { return nil, boom }))
	t.Cleanup(func() { Unregister("broken") })

	_, err := Open("broken:x", 0x50)
	assert.ErrorIs(t, err, boom)
}

func TestOpenI2C_MissingNode(t *testing.T) {
	c, err := Open("/dev/i2c-does-not-exist", 0x50)
	require.Error(t, err)
	assert.Nil(t, c)
}

func TestRegister_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { Register("", OpenerFunc(nil)) })
	assert.Panics(t, func() { Register("x", nil) })
}
