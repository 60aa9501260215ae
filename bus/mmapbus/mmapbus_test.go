package mmapbus

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/pkg/bus"
	"github.com/joshuapare/regkit/pkg/types"
)

func TestImage_LoadStoreFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regs.img")
	im, err := Open(path, 0x400, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x400), im.Words())

	require.NoError(t, im.Store(0x3, 0x11223344))
	v, err := im.Load(0x3)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), v)
	require.NoError(t, im.Flush(context.Background()))
	require.NoError(t, im.Close())
	require.NoError(t, im.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, 0x400*WordSize)
	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, raw[12:16])
}

func TestImage_OutOfRange(t *testing.T) {
	im, err := Open(filepath.Join(t.TempDir(), "regs.img"), 4, nil)
	require.NoError(t, err)
	defer im.Close()

	_, err = im.Load(4)
	require.ErrorIs(t, err, bus.ErrOutOfRange)
	require.ErrorIs(t, im.Store(0x100, 1), bus.ErrOutOfRange)
}

func TestImage_Closed(t *testing.T) {
	im, err := Open(filepath.Join(t.TempDir(), "regs.img"), 4, nil)
	require.NoError(t, err)
	require.NoError(t, im.Close())

	_, err = im.Load(0)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, im.Store(0, 1), ErrClosed)
	require.ErrorIs(t, im.Flush(context.Background()), ErrClosed)
}

func TestImage_ReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.img")
	raw := make([]byte, 3*WordSize+2)
	binary.LittleEndian.PutUint32(raw[4:], 0xCAFEF00D)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	im, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer im.Close()

	assert.Equal(t, uint32(3), im.Words())
	v, err := im.Load(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEF00D), v)
	require.ErrorIs(t, im.Store(1, 0), ErrReadOnly)
	require.NoError(t, im.Flush(context.Background()))
}

func TestImage_Invalid(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "regs.img"), 0, nil)
	require.Error(t, err)

	_, err = OpenReadOnly(filepath.Join(t.TempDir(), "missing.img"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestImage_BehindQueue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "regs.img")
	im, err := Open(path, 0x100, nil)
	require.NoError(t, err)

	q := bus.NewQueue(im, nil)
	require.NoError(t, q.WriteMasked(0x10, 0xA, 0x00000F00))
	require.NoError(t, q.WriteBlock(0x20, []uint32{7, 8}, types.NonIncremental))
	v, err := q.ReadMasked(0x10, 0x00000F00)
	require.NoError(t, err)
	port, err := q.Read(0x20)
	require.NoError(t, err)
	require.NoError(t, q.Dispatch(context.Background()))

	got, err := v.Value()
	require.NoError(t, err)
	assert.Equal(t, uint32(0xA), got)
	last, err := port.Value()
	require.NoError(t, err)
	assert.Equal(t, uint32(8), last)
	require.NoError(t, im.Close())

	reopened, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer reopened.Close()
	w, err := reopened.Load(0x10)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00000A00), w)
}
