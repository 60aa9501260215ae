package regmap

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regkit/bus/membus"
	"github.com/joshuapare/regkit/pkg/bus"
	"github.com/joshuapare/regkit/pkg/types"
)

// TestConcurrent_ReadOnlyUse shares one built tree between goroutines doing
// lookups, dumps and register accesses. Run with -race.
func TestConcurrent_ReadOnlyUse(t *testing.T) {
	tree := buildSample(t)
	mem := membus.New(0)
	q := bus.NewQueue(mem, nil)
	tree.SetOwner(staticOwner{c: q})

	wantPaths, err := tree.Root().Select(".*")
	require.NoError(t, err)
	wantDump := tree.Root().String()

	var wg sync.WaitGroup
	const goroutines = 16
	const opsPerGoroutine = 200

	wg.Add(goroutines)
	for g := range goroutines {
		go func(id int) {
			defer wg.Done()
			root := tree.Root()
			for i := range opsPerGoroutine {
				reset, err := root.Resolve("ctrl.reset")
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, uint32(0x101), reset.Address())

				_, err = root.Resolve("ctrl.nope")
				assert.ErrorIs(t, err, types.ErrNoSuchPath)

				paths, err := root.Select(".*")
				assert.NoError(t, err)
				assert.Equal(t, wantPaths, paths)

				assert.Len(t, root.IDs(), len(wantPaths))
				assert.Equal(t, wantDump, root.String())

				assert.NoError(t, reset.Write(uint32(i)&1))
				status, err := root.Resolve("ctrl.status")
				if !assert.NoError(t, err) {
					return
				}
				_, err = status.Read()
				assert.NoError(t, err)
				assert.ErrorIs(t, status.Write(1), types.ErrAccessDenied)

				ram, err := root.Resolve("ram")
				if !assert.NoError(t, err) {
					return
				}
				assert.NoError(t, ram.WriteBlock([]uint32{uint32(id), uint32(i)}))
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, goroutines*opsPerGoroutine*3, q.Len())
	require.NoError(t, q.Dispatch(context.Background()))
	assert.Equal(t, 0, q.Len())
	assert.NotZero(t, mem.Len())
}
