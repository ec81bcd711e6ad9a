// Package simbus provides an in-memory AT24-class EEPROM that speaks the
// same transactions as the real part, for tests, benches without hardware
// and the command-line tools' dry runs.
//
// The simulation is faithful where the driver's correctness depends on it:
//
//   - a two-byte write loads the internal address pointer;
//   - data bytes of a write that run past the end of a page wrap around to
//     the start of the same page instead of advancing;
//   - reads auto-increment across pages and roll over at the end of memory;
//   - during the internal write cycle every transaction is not acknowledged.
//
// Importing the package registers the "sim" scheme with bus.Register, so a
// device registered under "bench" is reachable as "sim:bench".
package simbus
