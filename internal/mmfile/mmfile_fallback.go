//go:build !unix

package mmfile

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}

// Region is an in-memory copy of a file written back on Flush.
type Region struct {
	f    *os.File
	data []byte
}

// MapRW opens (creating if needed) the file at path, grows it to at least
// size bytes and loads it into memory.
func MapRW(path string, size int64) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmfile: invalid mapping size %d", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err := f.ReadAt(data, 0); err != nil && err != io.EOF {
		f.Close()
		return nil, err
	}
	return &Region{f: f, data: data}, nil
}

// Bytes returns the region's memory. It is invalid after Close.
func (r *Region) Bytes() []byte { return r.data }

// Flush writes the ranges covered by t back to the file and clears t. A nil
// tracker writes the whole region.
func (r *Region) Flush(ctx context.Context, t *Tracker) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.data == nil {
		return nil
	}
	ranges := []Range{{Off: 0, Len: int64(len(r.data))}}
	if t != nil {
		ranges = t.Ranges()
	}
	for _, rg := range ranges {
		start, end, ok := clip(rg, len(r.data))
		if !ok {
			continue
		}
		if _, err := r.f.WriteAt(r.data[start:end], int64(start)); err != nil {
			return err
		}
	}
	if t != nil {
		t.Reset()
	}
	return r.f.Sync()
}

// Close writes the region back and closes the file.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	err := r.Flush(context.Background(), nil)
	r.data = nil
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}
