// Package mmapbus is a bus.Backend over a memory-mapped register image: a
// file holding one little-endian 32-bit word per register address.
//
// Word address a occupies bytes [4a, 4a+4) of the file. Stores are tracked
// and written back on Flush; Close releases the mapping.
package mmapbus

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joshuapare/regkit/internal/mmfile"
	"github.com/joshuapare/regkit/pkg/bus"
	"github.com/joshuapare/regkit/pkg/logger"
)

// WordSize is the size of one register word in the image.
const WordSize = 4

// ErrReadOnly is returned by Store on an image opened with OpenReadOnly.
var ErrReadOnly = errors.New("mmapbus: image is read-only")

// ErrClosed is returned by every operation after Close.
var ErrClosed = errors.New("mmapbus: image is closed")

// Image is a word-addressed view of a mapped file. It is safe for
// concurrent use.
type Image struct {
	mu     sync.Mutex
	data   []byte
	words  uint32
	region *mmfile.Region // nil when read-only
	unmap  func() error   // read-only cleanup
	dirty  *mmfile.Tracker
	log    *slog.Logger
	closed bool
}

// Options configures Open.
type Options struct {
	// Logger receives flush diagnostics. Nil uses logger.L.
	Logger *slog.Logger
}

// Open maps the image at path read-write, creating it or growing it to hold
// words registers.
func Open(path string, words uint32, opts *Options) (*Image, error) {
	if words == 0 {
		return nil, fmt.Errorf("mmapbus: image must hold at least one word")
	}
	if opts == nil {
		opts = &Options{}
	}
	region, err := mmfile.MapRW(path, int64(words)*WordSize)
	if err != nil {
		return nil, fmt.Errorf("mmapbus: open %s: %w", path, err)
	}
	return &Image{
		data:   region.Bytes(),
		words:  words,
		region: region,
		dirty:  mmfile.NewTracker(),
		log:    logger.Or(opts.Logger),
	}, nil
}

// OpenReadOnly maps an existing image for inspection. Trailing bytes that do
// not form a whole word are ignored.
func OpenReadOnly(path string) (*Image, error) {
	data, unmap, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("mmapbus: open %s: %w", path, err)
	}
	return &Image{
		data:  data,
		words: uint32(len(data) / WordSize),
		unmap: unmap,
		log:   logger.L,
	}, nil
}

// Words returns the number of registers in the image.
func (im *Image) Words() uint32 { return im.words }

func (im *Image) offset(addr uint32) (int, error) {
	if im.closed {
		return 0, ErrClosed
	}
	if addr >= im.words {
		return 0, fmt.Errorf("%w: 0x%08X (image holds 0x%08X words)", bus.ErrOutOfRange, addr, im.words)
	}
	return int(addr) * WordSize, nil
}

// Load implements bus.Backend.
func (im *Image) Load(addr uint32) (uint32, error) {
	im.mu.Lock()
	defer im.mu.Unlock()
	off, err := im.offset(addr)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(im.data[off:]), nil
}

// Store implements bus.Backend.
func (im *Image) Store(addr, value uint32) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	off, err := im.offset(addr)
	if err != nil {
		return err
	}
	if im.region == nil {
		return ErrReadOnly
	}
	binary.LittleEndian.PutUint32(im.data[off:], value)
	im.dirty.Add(off, WordSize)
	return nil
}

// Flush writes every page touched since the last flush back to the file.
func (im *Image) Flush(ctx context.Context) error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.closed {
		return ErrClosed
	}
	if im.region == nil {
		return nil
	}
	n := im.dirty.Len()
	if err := im.region.Flush(ctx, im.dirty); err != nil {
		im.log.Error("image flush failed", "error", err)
		return fmt.Errorf("mmapbus: flush: %w", err)
	}
	im.log.Debug("image flushed", "stores", n)
	return nil
}

// Close flushes pending stores and releases the mapping. Closing twice is a
// no-op.
func (im *Image) Close() error {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.closed {
		return nil
	}
	im.closed = true
	if im.region == nil {
		return im.unmap()
	}
	ferr := im.region.Flush(context.Background(), im.dirty)
	cerr := im.region.Close()
	im.data = nil
	return errors.Join(ferr, cerr)
}
