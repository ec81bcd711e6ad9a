package bus

import (
	"fmt"
	"io"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// Conn is an open channel to one target address.
//
// Write transfers len(p) bytes in a single bus transaction and Read fills p
// from a single read transaction. Both return the number of bytes the bus
// actually moved; the caller decides whether a short count is an error.
type Conn interface {
	io.ReadWriteCloser
}

// Prober is implemented by connections that have a dedicated way to ask
// whether the target accepts transactions again. Probe returns nil when it does.
type Prober interface {
	Probe() error
}

// Opener opens a Conn to addr on the transport named by id.
type Opener interface {
	Open(id string, addr uint8) (Conn, error)
}

// OpenerFunc adapts an ordinary function to the Opener interface.
type OpenerFunc func(id string, addr uint8) (Conn, error)

func (f OpenerFunc) Open(id string, addr uint8) (Conn, error) { return f(id, addr) }

// Default resolves identifiers through the package registry; see Open.
var Default Opener = OpenerFunc(Open)

var openers = xsync.NewMapOf[string, Opener]()

// Register makes o responsible for identifiers of the form "scheme:name".
// Registering a scheme twice replaces the previous opener.
func Register(scheme string, o Opener) {
	if scheme == "" || o == nil {
		panic("bus: Register with empty scheme or nil opener")
	}
	openers.Store(scheme, o)
}

// Unregister removes the opener for scheme.
func Unregister(scheme string) {
	openers.Delete(scheme)
}

// Schemes returns the registered schemes in no particular order.
func Schemes() []string {
	schemes := make([]string, 0, openers.Size())
	openers.Range(func(scheme string, _ Opener) bool {
		schemes = append(schemes, scheme)
		return true
	})

	return schemes
}

// Open opens a connection to addr on the transport named by id.
//
// An id of the form "scheme:name" is passed (as name) to the opener
// registered for scheme; any other id is treated as an i2c-dev device path.
func Open(id string, addr uint8) (Conn, error) {
	if scheme, name, ok := splitScheme(id); ok {
		o, found := openers.Load(scheme)
		if !found {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
		}

		return o.Open(name, addr)
	}

	return OpenI2C(id, addr)
}

func splitScheme(id string) (scheme, name string, ok bool) {
	scheme, name, ok = strings.Cut(id, ":")
	if !ok || scheme == "" || strings.ContainsRune(scheme, '/') {
		return "", "", false
	}

	return scheme, name, true
}
