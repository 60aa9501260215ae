//go:build unix

package mmfile

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Map maps the file at path read-only and returns its contents.
func Map(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	info, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := info.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if size > int64(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}

// Region is a read-write shared mapping of a file.
type Region struct {
	f    *os.File
	data []byte
}

// MapRW opens (creating if needed) the file at path, grows it to at least
// size bytes and maps it read-write.
func MapRW(path string, size int64) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmfile: invalid mapping size %d", size)
	}
	if size > int64(^uint(0)>>1) {
		return nil, fmt.Errorf("mmfile: file too large to map (%d bytes)", size)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() < size {
		if err := f.Truncate(size); err != nil {
			f.Close()
			return nil, fmt.Errorf("mmfile: grow %s: %w", path, err)
		}
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmfile: mmap %s: %w", path, err)
	}
	return &Region{f: f, data: data}, nil
}

// Bytes returns the mapped memory. It is invalid after Close.
func (r *Region) Bytes() []byte { return r.data }

// Flush writes the pages covered by t back to the file and clears t. A nil
// tracker flushes the whole mapping.
func (r *Region) Flush(ctx context.Context, t *Tracker) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.data == nil {
		return nil
	}
	if t == nil {
		return unix.Msync(r.data, unix.MS_SYNC)
	}
	if t.Len() == 0 {
		return nil
	}
	if err := msyncRanges(ctx, r.data, t.Ranges()); err != nil {
		return err
	}
	t.Reset()
	return nil
}

// Close unmaps the region and closes the file. Unflushed writes still reach
// the file eventually through the page cache.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	if cerr := r.f.Close(); err == nil {
		err = cerr
	}
	return err
}
