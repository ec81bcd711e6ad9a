package eeprom

import (
	"errors"
	"fmt"
	"strings"
)

// Code is the kind of a driver error. Codes implement error, so every
// exported Err* value is a Code and errors.Is matches wrapped errors by kind.
type Code int8

const (
	OK          Code = 0
	CodeInit    Code = -1
	CodeWrite   Code = -2
	CodeRead    Code = -3
	CodeParam   Code = -4
	CodeMemory  Code = -5
	CodeBusy    Code = -6
	CodeTimeout Code = -7

	// CodeUnknown is reported by CodeOf for errors that carry no Code.
	CodeUnknown Code = -128
)

var (
	// ErrInit indicates that the transport could not be opened or bound to the target address.
	ErrInit error = CodeInit

	// ErrWrite indicates that a write transaction did not transfer the expected byte count.
	ErrWrite error = CodeWrite

	// ErrRead indicates that the address-set or data phase of a read did not
	// transfer the expected byte count.
	ErrRead error = CodeRead

	// ErrParam indicates an invalid argument: a nil or closed device, a zero
	// length, or a range beyond the device capacity.
	ErrParam error = CodeParam

	// ErrMemory indicates that a transfer buffer could not be allocated.
	ErrMemory error = CodeMemory

	// ErrBusy indicates that the device did not acknowledge because it was busy.
	// It accompanies ErrWrite or ErrRead in the chain of the failed operation.
	ErrBusy error = CodeBusy

	// ErrTimeout indicates that WaitReady's budget ran out.
	ErrTimeout error = CodeTimeout
)

var codeStrings = [...]string{
	"Success",
	"Initialization failed",
	"Write operation failed",
	"Read operation failed",
	"Invalid parameter",
	"Memory allocation failed",
	"Device busy",
	"Operation timeout",
}

const unknownErrorString = "Unknown error"

// StrError returns the human-readable description of code.
// Codes outside the table yield "Unknown error".
func StrError(code Code) string {
	idx := -int(code)
	if idx < 0 || idx >= len(codeStrings) {
		return unknownErrorString
	}

	return codeStrings[idx]
}

// String returns StrError(c).
func (c Code) String() string {
	return StrError(c)
}

func (c Code) Error() string {
	return "eeprom: " + strings.ToLower(StrError(c))
}

// CodeOf returns the Code carried by err: OK for nil, CodeUnknown when err
// carries none. For errors carrying several codes (a busy NACK during a write
// carries ErrWrite and ErrBusy) the outermost one wins.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}

	var code Code
	if errors.As(err, &code) {
		return code
	}

	return CodeUnknown
}

// ChunkError reports a write that failed part-way. Bytes before Addr were
// committed to the device; nothing from Addr on was.
type ChunkError struct {
	// Addr is the address of the page chunk whose transaction failed.
	Addr uint16
	// Committed is the number of bytes acknowledged before the failure.
	Committed int
	// Total is the length of the whole write request.
	Total int
	// Err is the failure of the chunk transaction.
	Err error
}

func (e *ChunkError) Error() string {
	return fmt.Sprintf("page write at 0x%04X failed after %d of %d bytes: %v", e.Addr, e.Committed, e.Total, e.Err)
}

func (e *ChunkError) Unwrap() error {
	return e.Err
}
