package eeprom

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/arloliu/go-eeprom/internal/pool"
)

// Chunk is one page-bounded write transaction of a larger request.
type Chunk struct {
	// Addr is the device address of the first byte.
	Addr uint16
	// Offset is the position of the first byte within the request data.
	Offset int
	// Len is the number of data bytes.
	Len int
}

// pageChunkLen returns how many of the remaining bytes starting at addr fit
// before the next page boundary.
func pageChunkLen(addr, remaining, pageSize int) int {
	return min(pageSize-addr%pageSize, remaining)
}

// SplitPages partitions [addr, addr+length) into page-bounded chunks.
//
// The first chunk runs from addr to the end of its page (or the end of the
// range), every middle chunk is exactly one page, and the last chunk is the
// remainder. Non-positive length or pageSize yields no chunks.
func SplitPages(addr uint16, length, pageSize int) []Chunk {
	if length <= 0 || pageSize <= 0 {
		return nil
	}

	chunks := make([]Chunk, 0, length/pageSize+2)
	cur := int(addr)
	for off := 0; off < length; {
		n := pageChunkLen(cur, length-off, pageSize)
		chunks = append(chunks, Chunk{Addr: uint16(cur), Offset: off, Len: n})
		cur += n
		off += n
	}

	return chunks
}

// Write stores data starting at addr.
//
// Data is sent one page-bounded chunk per transaction and the configured
// settle delay is observed after each chunk. A failed chunk aborts the write
// with a *ChunkError wrapping ErrWrite; chunks before it stay committed.
func (d *Device) Write(addr uint16, data []byte) error {
	if err := d.validate(addr, len(data)); err != nil {
		return err
	}

	cur := int(addr)
	for off := 0; off < len(data); {
		n := pageChunkLen(cur, len(data)-off, d.cfg.pageSize)
		if err := d.writeChunk(uint16(cur), data[off:off+n]); err != nil {
			d.logger.Warn("page write failed",
				"addr", fmt.Sprintf("0x%04X", cur),
				"committed", off,
				"total", len(data),
				"error", err,
			)

			return &ChunkError{Addr: uint16(cur), Committed: off, Total: len(data), Err: err}
		}

		// the device ignores the bus until its internal write cycle ends
		_ = pool.Sleep(context.Background(), d.cfg.writeDelay)

		cur += n
		off += n
	}

	return nil
}

// WriteAt implements io.WriterAt. On a failed chunk it returns the number of
// bytes committed before it.
func (d *Device) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 || off > int64(MaxTotalSize-1) {
		return 0, fmt.Errorf("%w: offset %d out of range", ErrParam, off)
	}

	if err := d.Write(uint16(off), p); err != nil {
		var chunkErr *ChunkError
		if errors.As(err, &chunkErr) {
			return chunkErr.Committed, err
		}

		return 0, err
	}

	return len(p), nil
}

// writeChunk sends [addr_hi, addr_lo, chunk...] as one transaction.
// len(chunk) never exceeds the page size, so the payload fits txBuf.
func (d *Device) writeChunk(addr uint16, chunk []byte) error {
	payload := d.txBuf[:addrHeaderSize+len(chunk)]
	binary.BigEndian.PutUint16(payload, addr)
	copy(payload[addrHeaderSize:], chunk)

	n, err := d.conn.Write(payload)
	if err != nil || n != len(payload) {
		d.metrics.incWriteErrCount()
		return transferError(ErrWrite, "page write", addr, n, len(payload), err)
	}

	d.metrics.incPageWrite(len(chunk))
	d.logger.Debug("page written", "addr", addr, "len", len(chunk))

	return nil
}
