package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-eeprom/eeprom"
)

const (
	defaultWaitTimeout = 100 * time.Millisecond
	dumpWidth          = 16
)

var errUsage = errors.New("usage")

// shell executes interactive commands against an open device.
type shell struct {
	dev *eeprom.Device
	out io.Writer
}

func newShell(dev *eeprom.Device, out io.Writer) *shell {
	return &shell{dev: dev, out: out}
}

// exec runs one command line and reports whether the shell should exit.
func (s *shell) exec(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		s.printHelp()
	case "info", "i":
		err = s.cmdInfo()
	case "read", "r":
		err = s.cmdRead(args)
	case "dump", "d":
		err = s.cmdDump(args)
	case "write", "w":
		err = s.cmdWrite(args)
	case "puts":
		err = s.cmdPuts(args)
	case "erase":
		err = s.cmdErase(args)
	case "wait":
		err = s.cmdWait(ctx, args)
	case "metrics", "m":
		s.cmdMetrics()
	case "quit", "exit", "q":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}

	if err != nil {
		s.printError(err)
	}

	return false
}

func (s *shell) printHelp() {
	fmt.Fprintln(s.out, `
EEPROM Shell Commands:
  info                  - Show device configuration
  read <addr> <len>     - Read bytes and print them as hex
  dump <addr> <len>     - Hex dump with addresses and ASCII
  write <addr> <hex>    - Write hex bytes, e.g. write 0x100 48656c6c6f
  puts <addr> <text>    - Write text (rest of the line)
  erase <addr> <len>    - Erase a range to 0xFF
  erase all             - Erase the whole device
  wait [timeout]        - Wait until the device is ready (default 100ms)
  metrics               - Show transfer counters
  help                  - Show this help
  quit                  - Exit

  Addresses and lengths accept decimal or 0x-prefixed hex.`)
}

func (s *shell) printError(err error) {
	if errors.Is(err, errUsage) {
		fmt.Fprintln(s.out, err)
		return
	}

	fmt.Fprintf(s.out, "Error [%s]: %v\n", eeprom.StrError(eeprom.CodeOf(err)), err)
}

func (s *shell) cmdInfo() error {
	info, err := s.dev.Info()
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Transport:   %s\n", info.TransportID())
	fmt.Fprintf(s.out, "Bus address: 0x%02X\n", info.BusAddress())
	fmt.Fprintf(s.out, "Capacity:    %d bytes\n", info.TotalSize())
	fmt.Fprintf(s.out, "Page size:   %d bytes (%d pages)\n", info.PageSize(), info.PageCount())
	fmt.Fprintf(s.out, "Write delay: %v\n", info.WriteDelay())

	return nil
}

func (s *shell) cmdRead(args []string) error {
	addr, length, err := parseRange(args, "read <addr> <len>")
	if err != nil {
		return err
	}

	data, err := s.dev.Read(addr, length)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "% X\n", data)

	return nil
}

func (s *shell) cmdDump(args []string) error {
	addr, length, err := parseRange(args, "dump <addr> <len>")
	if err != nil {
		return err
	}

	data, err := s.dev.Read(addr, length)
	if err != nil {
		return err
	}
	writeDump(s.out, addr, data)

	return nil
}

func (s *shell) cmdWrite(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: write <addr> <hex>", errUsage)
	}
	addr, err := parseUint16(args[0])
	if err != nil {
		return err
	}
	data, err := hex.DecodeString(args[1])
	if err != nil {
		return fmt.Errorf("%w: invalid hex data: %w", eeprom.ErrParam, err)
	}

	if err := s.dev.Write(addr, data); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Wrote %d bytes at 0x%04X\n", len(data), addr)

	return nil
}

func (s *shell) cmdPuts(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: puts <addr> <text>", errUsage)
	}
	addr, err := parseUint16(args[0])
	if err != nil {
		return err
	}
	text := strings.Join(args[1:], " ")

	if err := s.dev.Write(addr, []byte(text)); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Wrote %d bytes at 0x%04X\n", len(text), addr)

	return nil
}

func (s *shell) cmdErase(args []string) error {
	if len(args) == 1 && strings.EqualFold(args[0], "all") {
		if err := s.dev.EraseAll(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, "Device erased")

		return nil
	}

	addr, length, err := parseRange(args, "erase <addr> <len> | erase all")
	if err != nil {
		return err
	}
	if err := s.dev.Erase(addr, length); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Erased %d bytes at 0x%04X\n", length, addr)

	return nil
}

func (s *shell) cmdWait(ctx context.Context, args []string) error {
	timeout := defaultWaitTimeout
	if len(args) > 0 {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			return fmt.Errorf("%w: wait [timeout], e.g. wait 50ms", errUsage)
		}
		timeout = d
	}

	start := time.Now()
	if err := s.dev.WaitReady(ctx, timeout); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Ready after %v\n", time.Since(start).Round(time.Microsecond))

	return nil
}

func (s *shell) cmdMetrics() {
	m := s.dev.Metrics()
	fmt.Fprintf(s.out, "Page writes:    %d (%d bytes, %d errors)\n",
		m.PageWriteCount.Load(), m.BytesWritten.Load(), m.WriteErrCount.Load())
	fmt.Fprintf(s.out, "Reads:          %d (%d bytes, %d errors)\n",
		m.ReadCount.Load(), m.BytesRead.Load(), m.ReadErrCount.Load())
	fmt.Fprintf(s.out, "Ready probes:   %d (%d timeouts)\n",
		m.ProbeCount.Load(), m.ReadyTimeoutCount.Load())
}

func parseRange(args []string, usage string) (uint16, int, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%w: %s", errUsage, usage)
	}
	addr, err := parseUint16(args[0])
	if err != nil {
		return 0, 0, err
	}
	length, err := strconv.ParseInt(args[1], 0, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid length %q", eeprom.ErrParam, args[1])
	}

	return addr, int(length), nil
}

func parseUint16(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid address %q", eeprom.ErrParam, s)
	}

	return uint16(n), nil
}

// writeDump prints data as lines of 16 bytes prefixed with device addresses.
func writeDump(w io.Writer, addr uint16, data []byte) {
	for off := 0; off < len(data); off += dumpWidth {
		line := data[off:min(off+dumpWidth, len(data))]

		ascii := make([]byte, len(line))
		for i, b := range line {
			if b >= 0x20 && b < 0x7F {
				ascii[i] = b
			} else {
				ascii[i] = '.'
			}
		}

		fmt.Fprintf(w, "%04X  %-47s  |%s|\n", int(addr)+off, fmt.Sprintf("% X", line), ascii)
	}
}
