// Package eeprom is a driver for page-organized I2C EEPROMs of the AT24C256
// family: 16-bit word addresses, a page write buffer, and an internal write
// cycle during which the part ignores the bus.
//
// # Overview
//
// A Device exposes byte-granular access to the whole array:
//
//   - Read fetches any range in one transaction; the part's address pointer
//     auto-increments across page boundaries.
//   - Write splits data into page-bounded chunks, sends each chunk as
//     [addr_hi, addr_lo, data...] in one transaction, and waits the
//     configured settle delay after every chunk.
//   - Erase writes the erased-state value (0xFF) over a range.
//   - WaitReady polls the part until it acknowledges again, bounded by a timeout.
//
// Every range is validated against the device capacity before any bus traffic.
//
// # Basic Usage
//
//	cfg, err := eeprom.NewConfig("/dev/i2c-5",
//	    eeprom.WithBusAddress(0x50),
//	    eeprom.WithPageSize(64),
//	    eeprom.WithTotalSize(32768),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dev, err := eeprom.Open(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	if err := dev.Write(0x1FC0, payload); err != nil {
//	    log.Fatal(eeprom.StrError(eeprom.CodeOf(err)), err)
//	}
//
// # Why page splitting matters
//
// During a write the part latches data into a page buffer whose column
// counter wraps at the page boundary. A transaction that runs past the end
// of a page silently overwrites the beginning of the same page. Write never
// emits such a transaction: the first chunk runs to the end of the starting
// page, middle chunks are whole pages, and the last chunk is the remainder.
//
// # Errors
//
// All errors carry a Code (ErrInit, ErrWrite, ErrRead, ErrParam, ErrMemory,
// ErrBusy, ErrTimeout) and can be matched with errors.Is. A write that fails
// part-way returns a *ChunkError describing how much was committed; the
// device is left partially updated and nothing is rolled back.
//
// # Concurrency
//
// A Device is not safe for concurrent use. Each operation blocks for its bus
// transactions and settle delays, and the part only handles one transaction
// at a time, so callers sharing a Device must serialize access themselves.
package eeprom
