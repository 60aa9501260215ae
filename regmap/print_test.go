package regmap

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDump = `+ Node "top", Address 0x00000000, Address Mask 0xFFFFFFFF, Mask 0xFFFFFFFF, Permissions rw, Mode SINGLE register access
  + Node "ctrl", Address 0x00000100, Address Mask 0x000000FF, Mask 0xFFFFFFFF, Permissions rw, Mode SINGLE register access
    + Node "reset", Address 0x00000101, Address Mask 0x00000000, Mask 0x00000001, Permissions -w, Mode SINGLE register access
    + Node "status", Address 0x00000102, Address Mask 0x00000001, Mask 0xFFFFFFFF, Permissions r-, Mode SINGLE register access
  + Node "fifo", Address 0x00000200, Address Mask 0x000001FF, Mask 0xFFFFFFFF, Permissions rw, Mode NON-INCREMENTAL block access
  + Node "ram", Address 0x00000400, Address Mask 0x000003FF, Mask 0xFFFFFFFF, Permissions rw, Mode INCREMENTAL block access
`

func TestString(t *testing.T) {
	tree := buildSample(t)
	assert.Equal(t, sampleDump, tree.Root().String())
	assert.Equal(t, "<invalid node>", Node{}.String())
}

func TestPrint_Options(t *testing.T) {
	tree := buildSample(t)

	var buf bytes.Buffer
	require.NoError(t, tree.Root().Print(&buf, PrintOptions{IndentSize: 4, MaxDepth: 1}))
	want := `+ Node "top", Address 0x00000000, Address Mask 0xFFFFFFFF, Mask 0xFFFFFFFF, Permissions rw, Mode SINGLE register access
    + Node "ctrl", Address 0x00000100, Address Mask 0x000000FF, Mask 0xFFFFFFFF, Permissions rw, Mode SINGLE register access
    + Node "fifo", Address 0x00000200, Address Mask 0x000001FF, Mask 0xFFFFFFFF, Permissions rw, Mode NON-INCREMENTAL block access
    + Node "ram", Address 0x00000400, Address Mask 0x000003FF, Mask 0xFFFFFFFF, Permissions rw, Mode INCREMENTAL block access
`
	assert.Equal(t, want, buf.String())
}

func TestWalk(t *testing.T) {
	tree := buildSample(t)

	var visited []string
	var depths []int
	err := tree.Root().Walk(func(n Node, depth int) error {
		visited = append(visited, n.ID())
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "ctrl", "reset", "status", "fifo", "ram"}, visited)
	assert.Equal(t, []int{0, 1, 2, 2, 1, 1}, depths)
}

func TestWalk_SkipChildren(t *testing.T) {
	tree := buildSample(t)

	var visited []string
	err := tree.Root().Walk(func(n Node, _ int) error {
		visited = append(visited, n.ID())
		if n.ID() == "ctrl" {
			return SkipChildren
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"top", "ctrl", "fifo", "ram"}, visited)
}

func TestWalk_Stop(t *testing.T) {
	tree := buildSample(t)
	stop := errors.New("stop")

	var visited []string
	err := tree.Root().Walk(func(n Node, _ int) error {
		visited = append(visited, n.ID())
		if n.ID() == "reset" {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"top", "ctrl", "reset"}, visited)
}
