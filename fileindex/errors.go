package fileindex

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic indicates that the memory does not start with an index.
	ErrBadMagic = errors.New("fileindex: magic mismatch")

	// ErrUnsupportedVersion indicates an index written by an unknown format version.
	ErrUnsupportedVersion = errors.New("fileindex: unsupported index version")

	// ErrTooManyFiles indicates more than MaxFiles records.
	ErrTooManyFiles = errors.New("fileindex: too many files")

	// ErrInvalidName indicates a file name that cannot be stored or restored safely.
	ErrInvalidName = errors.New("fileindex: invalid file name")

	// ErrNoSpace indicates that the files do not fit the data area.
	ErrNoSpace = errors.New("fileindex: not enough space")

	// ErrShortIndex indicates an encoded index shorter than its header claims.
	ErrShortIndex = errors.New("fileindex: truncated index")
)

// IndexError reports a malformed record within an encoded index.
type IndexError struct {
	// Record is the zero-based position of the record.
	Record int
	Err    error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("fileindex: record %d: %v", e.Record, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// ChecksumMismatchError reports file data whose XOR checksum differs from the
// one recorded in the index.
type ChecksumMismatchError struct {
	Name string
	Want byte
	Got  byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("fileindex: checksum mismatch for %q: want 0x%02X, got 0x%02X", e.Name, e.Want, e.Got)
}
