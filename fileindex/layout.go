package fileindex

import (
	"fmt"
)

// File is a named payload to store.
type File struct {
	Name string
	Data []byte
}

// DataStart returns the first data address: MaxIndexSize rounded up to a
// multiple of pageSize. It is 0x0480 for 64-byte pages.
func DataStart(pageSize int) int {
	if pageSize <= 0 {
		return MaxIndexSize
	}

	return (MaxIndexSize + pageSize - 1) / pageSize * pageSize
}

// Plan builds the index for files: records follow the order of files and
// their data is packed back to back from DataStart(pageSize).
//
// It fails with ErrTooManyFiles, ErrInvalidName (including duplicate names)
// or ErrNoSpace when the data would run past capacity.
func Plan(files []File, pageSize, capacity int) (*Index, error) {
	if len(files) > MaxFiles {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(files), MaxFiles)
	}

	seen := make(map[string]struct{}, len(files))
	idx := &Index{Records: make([]Record, 0, len(files))}
	next := DataStart(pageSize)

	for _, f := range files {
		if err := validName(f.Name); err != nil {
			return nil, err
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidName, f.Name)
		}
		seen[f.Name] = struct{}{}

		if end := next + len(f.Data); end > capacity {
			return nil, fmt.Errorf("%w: %s needs [0x%04X, 0x%05X), capacity is %d bytes",
				ErrNoSpace, f.Name, next, end, capacity)
		}

		idx.Records = append(idx.Records, Record{
			Name:     f.Name,
			Addr:     uint16(next),
			Size:     uint16(len(f.Data)),
			Checksum: Checksum(f.Data),
		})
		next += len(f.Data)
	}

	return idx, nil
}
