package propmod

import (
	"iter"

	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// NodeContainer is a sparse map from property to node. Iteration follows
// the order in which properties were first set.
type NodeContainer struct {
	nodes *sequencedmap.Map[animmod.PropertyKey, Node]
}

// NewNodeContainer returns an empty container.
func NewNodeContainer() *NodeContainer {
	return &NodeContainer{nodes: sequencedmap.New[animmod.PropertyKey, Node]()}
}

// Set stores node under key, keeping key's original position if present.
func (c *NodeContainer) Set(key animmod.PropertyKey, node Node) {
	c.nodes.Set(key, node)
}

func (c *NodeContainer) Get(key animmod.PropertyKey) (Node, bool) {
	if c == nil {
		return nil, false
	}
	return c.nodes.Get(key)
}

func (c *NodeContainer) Delete(key animmod.PropertyKey) {
	c.nodes.Delete(key)
}

func (c *NodeContainer) Len() int {
	if c == nil {
		return 0
	}
	return c.nodes.Len()
}

// All yields every entry in insertion order.
func (c *NodeContainer) All() iter.Seq2[animmod.PropertyKey, Node] {
	return func(yield func(animmod.PropertyKey, Node) bool) {
		if c == nil {
			return
		}
		for k, n := range c.nodes.All() {
			if !yield(k, n) {
				return
			}
		}
	}
}

// Keys returns the keys in insertion order.
func (c *NodeContainer) Keys() []animmod.PropertyKey {
	keys := make([]animmod.PropertyKey, 0, c.Len())
	for k := range c.All() {
		keys = append(keys, k)
	}
	return keys
}

// Clone returns a shallow copy. Containers may be shared through the clip
// cache, so callers that add entries to a built container clone it first.
func (c *NodeContainer) Clone() *NodeContainer {
	out := NewNodeContainer()
	for k, n := range c.All() {
		out.Set(k, n)
	}
	return out
}
