package simbus

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arloliu/go-eeprom/bus"
	"github.com/arloliu/go-eeprom/internal/queue"
	"github.com/arloliu/go-eeprom/internal/util"
)

// Defaults describe an AT24C256 at its usual address.
const (
	DefaultSize     = 32768
	DefaultPageSize = 64
	DefaultAddress  = 0x50

	// ErasedByte is the content of a fresh device.
	ErasedByte byte = 0xFF
)

// ErrNoDevice is returned when no simulated device answers at the requested address.
var ErrNoDevice = errors.New("simbus: no device at address")

// Op identifies the kind of a journaled transaction.
type Op uint8

const (
	// OpSetAddress is a two-byte write that only loads the address pointer.
	OpSetAddress Op = iota + 1
	// OpWrite is a write carrying data bytes.
	OpWrite
	// OpRead is a read transaction.
	OpRead
)

func (op Op) String() string {
	switch op {
	case OpSetAddress:
		return "set-address"
	case OpWrite:
		return "write"
	case OpRead:
		return "read"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Transaction is one journaled bus transaction.
type Transaction struct {
	Op Op
	// Addr is the address carried by a write, or the pointer a read started at.
	Addr uint16
	// Len is the number of data bytes moved, excluding the address header.
	Len int
	// Err is the error returned to the bus master, nil if acknowledged.
	Err error
}

// Option configures a Device.
type Option func(*Device) error

// WithSize sets the memory size in bytes (1..65536).
func WithSize(size int) Option {
	return func(d *Device) error {
		if size <= 0 || size > 1<<16 {
			return fmt.Errorf("simbus: size %d out of range [1, 65536]", size)
		}
		d.size = size

		return nil
	}
}

// WithPageSize sets the page size; it must be a power of two.
func WithPageSize(n int) Option {
	return func(d *Device) error {
		if n <= 0 || n&(n-1) != 0 {
			return fmt.Errorf("simbus: page size %d is not a positive power of two", n)
		}
		d.pageSize = n

		return nil
	}
}

// WithAddress sets the bus address the device answers to.
func WithAddress(addr uint8) Option {
	return func(d *Device) error {
		d.addr = addr
		return nil
	}
}

// WithWriteCycle sets how long the device stays busy after a data write.
func WithWriteCycle(cycle time.Duration) Option {
	return func(d *Device) error {
		if cycle < 0 {
			return errors.New("simbus: write cycle must not be negative")
		}
		d.writeCycle = cycle

		return nil
	}
}

// Device is a simulated EEPROM. It is safe for concurrent use; each
// transaction is applied atomically.
type Device struct {
	mu sync.Mutex

	mem        []byte
	size       int
	pageSize   int
	addr       uint8
	writeCycle time.Duration

	ptr       int
	busyUntil time.Time
	busy      bool

	dataWrites   int
	failWriteAt  int
	shortWriteAt int
	openErr      error

	journal queue.Queue[Transaction]
}

// New creates an erased simulated device.
func New(opts ...Option) (*Device, error) {
	d := &Device{
		size:     DefaultSize,
		pageSize: DefaultPageSize,
		addr:     DefaultAddress,
		journal:  queue.NewSliceQueue[Transaction](64),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if d.pageSize > d.size {
		return nil, fmt.Errorf("simbus: page size %d exceeds size %d", d.pageSize, d.size)
	}
	d.mem = util.Fill(make([]byte, d.size), ErasedByte)

	return d, nil
}

// Size returns the memory size in bytes.
func (d *Device) Size() int { return d.size }

// PageSize returns the page size in bytes.
func (d *Device) PageSize() int { return d.pageSize }

// Address returns the bus address the device answers to.
func (d *Device) Address() uint8 { return d.addr }

// Open connects to the device. It fails with ErrNoDevice if addr is not the
// device's address.
func (d *Device) Open(addr uint8) (bus.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.openErr != nil {
		return nil, d.openErr
	}
	if addr != d.addr {
		return nil, fmt.Errorf("%w 0x%02X", ErrNoDevice, addr)
	}

	return &conn{dev: d}, nil
}

// Bytes returns a copy of n bytes of memory starting at addr, bypassing the bus.
func (d *Device) Bytes(addr, n int) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	return util.CloneSlice(d.mem[addr:addr+n], 0)
}

// Load stores data at addr, bypassing the bus and the page rules.
func (d *Device) Load(addr int, data []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()

	copy(d.mem[addr:], data)
}

// Transactions returns the journal in bus order.
func (d *Device) Transactions() []Transaction {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.journal.Snapshot()
}

// DataWrites returns the acknowledged data-carrying writes in bus order.
func (d *Device) DataWrites() []Transaction {
	var writes []Transaction
	for _, tx := range d.Transactions() {
		if tx.Op == OpWrite && tx.Err == nil {
			writes = append(writes, tx)
		}
	}

	return writes
}

// ResetJournal discards the journal.
func (d *Device) ResetJournal() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.journal.Reset()
}

// SetBusy forces the device to refuse (true) or resume (false) all transactions.
func (d *Device) SetBusy(busy bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.busy = busy
}

// FailWrite makes the n-th data write from now (1-based) fail without
// touching memory. n <= 0 disables the fault.
func (d *Device) FailWrite(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dataWrites = 0
	d.failWriteAt = n
}

// ShortWrite makes the n-th data write from now (1-based) lose its last
// byte on the wire. n <= 0 disables the fault.
func (d *Device) ShortWrite(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dataWrites = 0
	d.shortWriteAt = n
}

// FailOpen makes Open return err until cleared with nil.
func (d *Device) FailOpen(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.openErr = err
}

func (d *Device) busyLocked(now time.Time) bool {
	return d.busy || now.Before(d.busyUntil)
}

func (d *Device) write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	if d.busyLocked(now) {
		d.journal.Enqueue(Transaction{Op: OpWrite, Err: bus.ErrNack})
		return 0, bus.ErrNack
	}
	if len(p) < 2 {
		return 0, fmt.Errorf("simbus: write of %d bytes carries no address", len(p))
	}

	addr := int(binary.BigEndian.Uint16(p)) % d.size
	if len(p) == 2 {
		d.ptr = addr
		d.journal.Enqueue(Transaction{Op: OpSetAddress, Addr: uint16(addr)})

		return 2, nil
	}

	d.dataWrites++
	n := len(p)
	switch d.dataWrites {
	case d.failWriteAt:
		d.failWriteAt = 0
		d.journal.Enqueue(Transaction{Op: OpWrite, Addr: uint16(addr), Err: bus.ErrNack})
		return 0, bus.ErrNack
	case d.shortWriteAt:
		d.shortWriteAt = 0
		n--
	}

	// the page latch wraps within the page; it never carries into the next one
	data := p[2:n]
	base := addr &^ (d.pageSize - 1)
	off := addr - base
	for i, b := range data {
		d.mem[base+(off+i)%d.pageSize] = b
	}
	d.ptr = base + (off+len(data))%d.pageSize
	d.busyUntil = now.Add(d.writeCycle)
	d.journal.Enqueue(Transaction{Op: OpWrite, Addr: uint16(addr), Len: len(data)})

	return n, nil
}

func (d *Device) read(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := d.ptr
	if d.busyLocked(time.Now()) {
		d.journal.Enqueue(Transaction{Op: OpRead, Addr: uint16(start), Err: bus.ErrNack})
		return 0, bus.ErrNack
	}

	for i := range p {
		p[i] = d.mem[d.ptr]
		d.ptr = (d.ptr + 1) % d.size
	}
	d.journal.Enqueue(Transaction{Op: OpRead, Addr: uint16(start), Len: len(p)})

	return len(p), nil
}

type conn struct {
	dev    *Device
	mu     sync.Mutex
	closed bool
}

func (c *conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

func (c *conn) Read(p []byte) (int, error) {
	if c.isClosed() {
		return 0, bus.ErrClosed
	}

	return c.dev.read(p)
}

func (c *conn) Write(p []byte) (int, error) {
	if c.isClosed() {
		return 0, bus.ErrClosed
	}

	return c.dev.write(p)
}

func (c *conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return bus.ErrClosed
	}
	c.closed = true

	return nil
}
