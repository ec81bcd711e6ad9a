package fileindex

import (
	"errors"
	"fmt"
	"io"
)

// WriteIndex encodes idx and writes it at IndexAddr.
func WriteIndex(w io.WriterAt, idx *Index) error {
	buf, err := idx.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := w.WriteAt(buf, IndexAddr); err != nil {
		return fmt.Errorf("fileindex: write index: %w", err)
	}

	return nil
}

// WriteFile writes the data of f at the address recorded in rec.
// Empty files occupy no memory and are not written.
func WriteFile(w io.WriterAt, rec Record, data []byte) error {
	if len(data) != int(rec.Size) {
		return fmt.Errorf("fileindex: %s: have %d bytes, record says %d", rec.Name, len(data), rec.Size)
	}
	if len(data) == 0 {
		return nil
	}

	if _, err := w.WriteAt(data, int64(rec.Addr)); err != nil {
		return fmt.Errorf("fileindex: write %s at 0x%04X: %w", rec.Name, rec.Addr, err)
	}

	return nil
}

// Save plans the layout of files, writes their data and then the index.
// The index is written only after all file data was accepted.
func Save(w io.WriterAt, files []File, pageSize, capacity int) (*Index, error) {
	idx, err := Plan(files, pageSize, capacity)
	if err != nil {
		return nil, err
	}

	for i, f := range files {
		if err := WriteFile(w, idx.Records[i], f.Data); err != nil {
			return nil, err
		}
	}

	if err := WriteIndex(w, idx); err != nil {
		return nil, err
	}

	return idx, nil
}

// Load reads and decodes the index at IndexAddr.
func Load(r io.ReaderAt) (*Index, error) {
	hdr := make([]byte, HeaderSize)
	if err := readAt(r, hdr, IndexAddr); err != nil {
		return nil, fmt.Errorf("fileindex: read header: %w", err)
	}

	count, err := parseHeader(hdr)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, HeaderSize+count*RecordSize)
	copy(buf, hdr)
	if count > 0 {
		if err := readAt(r, buf[HeaderSize:], IndexAddr+HeaderSize); err != nil {
			return nil, fmt.Errorf("fileindex: read records: %w", err)
		}
	}

	idx := &Index{}
	if err := idx.UnmarshalBinary(buf); err != nil {
		return nil, err
	}

	return idx, nil
}

// Extract reads the data of rec and verifies its checksum. A mismatch is
// reported as a *ChecksumMismatchError.
func Extract(r io.ReaderAt, rec Record) ([]byte, error) {
	data := make([]byte, rec.Size)
	if len(data) > 0 {
		if err := readAt(r, data, int64(rec.Addr)); err != nil {
			return nil, fmt.Errorf("fileindex: read %s at 0x%04X: %w", rec.Name, rec.Addr, err)
		}
	}

	if sum := Checksum(data); sum != rec.Checksum {
		return nil, &ChecksumMismatchError{Name: rec.Name, Want: rec.Checksum, Got: sum}
	}

	return data, nil
}

func readAt(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}

	return err
}
