// Package membus is an in-memory word Backend for bus.Queue, used to
// simulate a device or to test register maps without hardware.
package membus

import (
	"fmt"
	"maps"
	"sync"

	"github.com/joshuapare/regkit/pkg/bus"
)

// Memory is a sparse word store. Unwritten words read as zero.
type Memory struct {
	mu    sync.RWMutex
	words map[uint32]uint32
	limit uint32
}

// New creates a store accepting addresses below limit; 0 accepts every
// address.
func New(limit uint32) *Memory {
	return &Memory{words: make(map[uint32]uint32), limit: limit}
}

func (m *Memory) check(addr uint32) error {
	if m.limit != 0 && addr >= m.limit {
		return fmt.Errorf("%w: 0x%08X (limit 0x%08X)", bus.ErrOutOfRange, addr, m.limit)
	}
	return nil
}

// Load implements bus.Backend.
func (m *Memory) Load(addr uint32) (uint32, error) {
	if err := m.check(addr); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.words[addr], nil
}

// Store implements bus.Backend.
func (m *Memory) Store(addr, value uint32) error {
	if err := m.check(addr); err != nil {
		return err
	}
	m.mu.Lock()
	m.words[addr] = value
	m.mu.Unlock()
	return nil
}

// Len returns the number of words ever written.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.words)
}

// Snapshot returns a copy of every written word.
func (m *Memory) Snapshot() map[uint32]uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.words)
}
