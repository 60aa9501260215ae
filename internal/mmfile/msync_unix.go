//go:build unix && !darwin

package mmfile

import (
	"context"

	"golang.org/x/sys/unix"
)

// msyncRanges syncs each page-aligned range separately.
func msyncRanges(ctx context.Context, data []byte, ranges []Range) error {
	for _, r := range ranges {
		if err := ctx.Err(); err != nil {
			return err
		}
		start, end, ok := clip(r, len(data))
		if !ok {
			continue
		}
		if err := unix.Msync(data[start:end], unix.MS_SYNC); err != nil {
			return err
		}
	}
	return nil
}
