// Package bus defines the transport the EEPROM driver talks through.
//
// A Conn is a channel to one target address on a two-wire bus. The driver
// only needs "write N bytes" and "read N bytes" at that address: a Write
// becomes one bus transaction (START, address+W, bytes, STOP) and a Read
// becomes one read transaction, exactly as the Linux i2c-dev character
// device behaves.
//
// # Transport identifiers
//
// Open resolves a transport identifier to a Conn:
//
//   - "/dev/i2c-5" (no scheme) opens the Linux i2c-dev node and binds it to
//     the target address with the I2C_SLAVE ioctl.
//   - "scheme:name" is handed to the Opener registered for scheme. The
//     bus/simbus package registers "sim" for in-memory simulated devices.
//
// # Ready probes
//
// A Conn may additionally implement Prober when the device needs something
// other than a one-byte read to report that its internal write cycle is
// finished.
package bus
