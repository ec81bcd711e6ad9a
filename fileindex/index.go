// Package fileindex stores a small set of named files in an EEPROM behind a
// fixed-format index.
//
// The index sits at address 0x0000: a 16-byte header followed by one 70-byte
// record per file. File data is packed back to back from DataStart, the
// first page boundary after the largest possible index. All multi-byte
// fields are little-endian.
//
//	header:  magic "CAM\x00" | version u8 | file count u8 | total size u16 | reserved [8]
//	record:  name [64] (NUL padded) | address u16 | size u16 | xor checksum u8 | pad u8
//
// The package talks to memory through io.ReaderAt and io.WriterAt, which
// *eeprom.Device implements.
package fileindex

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// Magic opens every index.
	Magic = "CAM\x00"
	// Version is the only index format version this package reads and writes.
	Version = 1
	// IndexAddr is the device address of the index header.
	IndexAddr = 0x0000

	// HeaderSize is the encoded size of the index header.
	HeaderSize = 16
	// RecordSize is the encoded size of one file record.
	RecordSize = 70
	// NameSize is the size of the NUL-padded name field.
	NameSize = 64
	// MaxNameLen is the longest storable name; the field keeps a terminating NUL.
	MaxNameLen = NameSize - 1
	// MaxFiles is the maximum number of records in an index.
	MaxFiles = 16
	// MaxIndexSize is the encoded size of an index holding MaxFiles records.
	MaxIndexSize = HeaderSize + MaxFiles*RecordSize
)

// record field offsets
const (
	recAddrOff     = NameSize
	recSizeOff     = recAddrOff + 2
	recChecksumOff = recSizeOff + 2
)

// Record describes one stored file.
type Record struct {
	Name     string
	Addr     uint16
	Size     uint16
	Checksum byte
}

// End returns the address one past the last data byte of the file.
func (r Record) End() int {
	return int(r.Addr) + int(r.Size)
}

func (r Record) String() string {
	return fmt.Sprintf("%s @0x%04X (%d bytes, checksum 0x%02X)", r.Name, r.Addr, r.Size, r.Checksum)
}

// Index is the table of stored files.
type Index struct {
	Records []Record
}

// TotalSize returns the sum of all record sizes.
func (idx *Index) TotalSize() int {
	total := 0
	for _, r := range idx.Records {
		total += int(r.Size)
	}

	return total
}

// EncodedSize returns the number of bytes MarshalBinary produces.
func (idx *Index) EncodedSize() int {
	return HeaderSize + len(idx.Records)*RecordSize
}

// MarshalBinary encodes the header followed by every record.
func (idx *Index) MarshalBinary() ([]byte, error) {
	if len(idx.Records) > MaxFiles {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(idx.Records), MaxFiles)
	}
	total := idx.TotalSize()
	if total > 0xFFFF {
		return nil, fmt.Errorf("%w: total size %d does not fit the header", ErrNoSpace, total)
	}

	buf := make([]byte, idx.EncodedSize())
	copy(buf, Magic)
	buf[4] = Version
	buf[5] = byte(len(idx.Records))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(total))

	for i, r := range idx.Records {
		if err := validName(r.Name); err != nil {
			return nil, &IndexError{Record: i, Err: err}
		}

		rec := buf[HeaderSize+i*RecordSize : HeaderSize+(i+1)*RecordSize]
		copy(rec[:NameSize], r.Name)
		binary.LittleEndian.PutUint16(rec[recAddrOff:], r.Addr)
		binary.LittleEndian.PutUint16(rec[recSizeOff:], r.Size)
		rec[recChecksumOff] = r.Checksum
	}

	return buf, nil
}

// UnmarshalBinary decodes an index. data may extend past the encoded index.
func (idx *Index) UnmarshalBinary(data []byte) error {
	count, err := parseHeader(data)
	if err != nil {
		return err
	}
	if need := HeaderSize + count*RecordSize; len(data) < need {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortIndex, len(data), need)
	}

	records := make([]Record, count)
	for i := range records {
		rec := data[HeaderSize+i*RecordSize : HeaderSize+(i+1)*RecordSize]

		name := rec[:NameSize]
		if n := bytes.IndexByte(name, 0); n >= 0 {
			name = name[:n]
		} else {
			return &IndexError{Record: i, Err: fmt.Errorf("%w: name is not terminated", ErrInvalidName)}
		}

		r := Record{
			Name:     string(name),
			Addr:     binary.LittleEndian.Uint16(rec[recAddrOff:]),
			Size:     binary.LittleEndian.Uint16(rec[recSizeOff:]),
			Checksum: rec[recChecksumOff],
		}
		if err := validName(r.Name); err != nil {
			return &IndexError{Record: i, Err: err}
		}
		records[i] = r
	}
	idx.Records = records

	return nil
}

// parseHeader validates the header and returns the record count.
func parseHeader(data []byte) (int, error) {
	if len(data) < HeaderSize {
		return 0, fmt.Errorf("%w: have %d bytes, need %d", ErrShortIndex, len(data), HeaderSize)
	}
	if string(data[:4]) != Magic {
		return 0, fmt.Errorf("%w: got % X", ErrBadMagic, data[:4])
	}
	if data[4] != Version {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, data[4])
	}

	count := int(data[5])
	if count > MaxFiles {
		return 0, fmt.Errorf("%w: %d > %d", ErrTooManyFiles, count, MaxFiles)
	}

	return count, nil
}

// validName rejects names that do not fit the record or that could escape
// the output directory when restored.
func validName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case len(name) > MaxNameLen:
		return fmt.Errorf("%w: %q is longer than %d bytes", ErrInvalidName, name, MaxNameLen)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q contains a path separator or NUL", ErrInvalidName, name)
	}

	return nil
}
