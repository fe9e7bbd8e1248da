package propmod

import (
	"fmt"

	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// MergeStrategy tells Merge how to read its sources and fold them.
//
// S is the source type and I the per-source intermediate kept for each
// property a source touches.
type MergeStrategy[S, I any] struct {
	// Nodes returns the sparse map of one source. A nil container is a
	// source that touches nothing.
	Nodes func(src S) *NodeContainer
	// Intermediate converts one source's node. index is the source's
	// position in the input, for order-sensitive folds.
	Intermediate func(src S, node Node, index int) I
	// Fold combines the intermediates of one property, given in source
	// order. sources is the total number of sources, so a fold can tell
	// apart sources that did not touch the property. A nil node omits the
	// property from the result.
	Fold func(key animmod.PropertyKey, items []I, sources int) (Node, error)
}

// Merge groups every source's entries by property and calls Fold exactly
// once per property. Properties appear in the result in the order they
// were first seen.
func Merge[S, I any](sources []S, strategy MergeStrategy[S, I]) (*NodeContainer, error) {
	grouped := sequencedmap.New[animmod.PropertyKey, []I]()
	for i, src := range sources {
		for key, node := range strategy.Nodes(src).All() {
			items, _ := grouped.Get(key)
			grouped.Set(key, append(items, strategy.Intermediate(src, node, i)))
		}
	}

	out := NewNodeContainer()
	for key, items := range grouped.All() {
		node, err := strategy.Fold(key, items, len(sources))
		if err != nil {
			return nil, fmt.Errorf("merge %s: %w", key, err)
		}
		if node != nil {
			out.Set(key, node)
		}
	}
	return out, nil
}

// nodesOfContainer is the Nodes accessor for sources that are containers.
func nodesOfContainer(c *NodeContainer) *NodeContainer { return c }

// nodeOnly is the Intermediate for folds that only need the node.
func nodeOnly[S any](_ S, node Node, _ int) Node { return node }
