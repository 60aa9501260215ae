//go:build darwin

package mmfile

import (
	"context"

	"golang.org/x/sys/unix"
)

// msyncRanges syncs the whole mapping: msync on macOS requires the address
// returned by mmap, so sub-slices cannot be passed.
func msyncRanges(_ context.Context, data []byte, _ []Range) error {
	return unix.Msync(data, unix.MS_SYNC)
}
