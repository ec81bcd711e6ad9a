package simbus

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-eeprom/bus"
)

// Scheme is the transport scheme simulated devices are registered under.
const Scheme = "sim"

var devices = xsync.NewMapOf[string, *Device]()

func init() {
	bus.Register(Scheme, bus.OpenerFunc(open))
}

// Register exposes d as "sim:name", replacing any device of the same name.
func Register(name string, d *Device) {
	devices.Store(name, d)
}

// Unregister removes the device registered as name.
func Unregister(name string) {
	devices.Delete(name)
}

// Lookup returns the device registered as name.
func Lookup(name string) (*Device, bool) {
	return devices.Load(name)
}

// LoadOrCreate returns the device registered as name, creating and
// registering one with opts if there is none.
func LoadOrCreate(name string, opts ...Option) (*Device, error) {
	if d, ok := devices.Load(name); ok {
		return d, nil
	}

	d, err := New(opts...)
	if err != nil {
		return nil, err
	}
	actual, _ := devices.LoadOrStore(name, d)

	return actual, nil
}

// TransportID returns the bus transport identifier for the device named name.
func TransportID(name string) string {
	return Scheme + ":" + name
}

func open(name string, addr uint8) (bus.Conn, error) {
	d, ok := devices.Load(name)
	if !ok {
		return nil, fmt.Errorf("simbus: no device registered as %q", name)
	}

	return d.Open(addr)
}
