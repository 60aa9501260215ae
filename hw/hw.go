// Package hw ties a register tree to a bus client.
//
// An Interface owns a private copy of the tree it is given and acts as that
// copy's regmap.Owner, so every node resolved through it reaches the same
// client:
//
//	q := bus.NewQueue(membus.New(0), nil)
//	dev := hw.New(tree, q)
//	reg, _ := dev.Node("ctrl.reset")
//	_ = reg.Write(1)
//	err := dev.Dispatch(ctx)
package hw

import (
	"context"
	"log/slog"

	"github.com/joshuapare/regkit/pkg/bus"
	"github.com/joshuapare/regkit/pkg/logger"
	"github.com/joshuapare/regkit/regmap"
)

// Interface is a hardware device: a register tree plus the client that
// carries its transactions.
type Interface struct {
	tree   *regmap.Tree
	client bus.Client
	log    *slog.Logger
}

// New returns an Interface over an independent copy of tree.
func New(tree *regmap.Tree, client bus.Client) *Interface {
	hw := &Interface{
		tree:   tree.Clone(),
		client: client,
		log:    logger.L,
	}
	hw.tree.SetOwner(hw)
	return hw
}

// Client implements regmap.Owner.
func (hw *Interface) Client() bus.Client { return hw.client }

// Root returns the root node of the device's tree.
func (hw *Interface) Root() regmap.Node { return hw.tree.Root() }

// Node resolves a dotted path below the root.
func (hw *Interface) Node(path string) (regmap.Node, error) {
	return hw.tree.Resolve(path)
}

// Nodes returns the paths below the root matching pattern, sorted.
func (hw *Interface) Nodes(pattern string) ([]string, error) {
	return hw.tree.Root().Select(pattern)
}

// Dispatch executes the client's queued transactions. Clients that do not
// batch complete each call immediately, so Dispatch is a no-op for them.
func (hw *Interface) Dispatch(ctx context.Context) error {
	d, ok := hw.client.(bus.Dispatcher)
	if !ok {
		return nil
	}
	if err := d.Dispatch(ctx); err != nil {
		hw.log.Error("dispatch failed", "root", hw.tree.Root().ID(), "error", err)
		return err
	}
	return nil
}

var _ regmap.Owner = (*Interface)(nil)
