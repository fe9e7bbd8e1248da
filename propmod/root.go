package propmod

import (
	"fmt"
	"iter"
	"slices"

	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/openapi/sequencedmap"
)

// behaviorNode is one behavior's contribution to a property. A behavior
// that is not unconditionally active only partially applies. Float sets
// larger than limit widen to Variable.
type behaviorNode struct {
	derived
	behavior animmod.ObjectID
}

func newBehaviorNode(behavior animmod.ObjectID, inner Node, always bool, limit int) *behaviorNode {
	state, value := inner.ApplyState(), inner.Value().Widen(limit)
	if !always {
		state = state.Multiply(animmod.Partially)
		value = value.WithPartial(true)
	}
	return &behaviorNode{
		derived:  derived{state: state, value: value},
		behavior: behavior,
	}
}

func (n *behaviorNode) Kind() NodeKind { return NodeBehavior }

// Behavior returns the id of the contributing behavior.
func (n *behaviorNode) Behavior() animmod.ObjectID { return n.behavior }

// RootNode aggregates the contributions of independent behaviors to one
// property side by side. Unlike every other node it is mutable: behaviors
// are added as the walk discovers them and removed when destroyed. Derived
// state is recomputed on the first read after a change.
type RootNode struct {
	contributions []*behaviorNode
	cache         *derived
}

func (r *RootNode) Kind() NodeKind { return NodeRoot }

func (r *RootNode) ApplyState() animmod.ApplyState { return r.derive().state }

func (r *RootNode) Value() animmod.ValueInfo { return r.derive().value }

// Contributions returns the current behavior nodes in insertion order.
func (r *RootNode) Contributions() []Node {
	nodes := make([]Node, len(r.contributions))
	for i, c := range r.contributions {
		nodes[i] = c
	}
	return nodes
}

// Behaviors returns the ids of the contributing behaviors.
func (r *RootNode) Behaviors() []animmod.ObjectID {
	ids := make([]animmod.ObjectID, len(r.contributions))
	for i, c := range r.contributions {
		ids[i] = c.behavior
	}
	return ids
}

func (r *RootNode) valueKind() (animmod.ValueKind, bool) {
	if len(r.contributions) == 0 {
		return animmod.KindFloat, false
	}
	return r.contributions[0].Value().Kind(), true
}

// add replaces any earlier contribution of the same behavior.
func (r *RootNode) add(n *behaviorNode) {
	r.cache = nil
	for i, c := range r.contributions {
		if c.behavior == n.behavior {
			r.contributions[i] = n
			return
		}
	}
	r.contributions = append(r.contributions, n)
}

func (r *RootNode) remove(behavior animmod.ObjectID) bool {
	before := len(r.contributions)
	r.contributions = slices.DeleteFunc(r.contributions, func(c *behaviorNode) bool {
		return c.behavior == behavior
	})
	if len(r.contributions) == before {
		return false
	}
	r.cache = nil
	return true
}

func (r *RootNode) derive() *derived {
	if r.cache != nil {
		return r.cache
	}
	kind, ok := r.valueKind()
	if !ok {
		r.cache = &derived{state: animmod.Never, value: animmod.EmptyValue(kind)}
		return r.cache
	}
	nodes := r.Contributions()
	value, err := animmod.ConstantInfoForSideBySide(kind, valuesOf(nodes))
	if err != nil {
		// kinds are checked on insertion; treat a mismatch as unknown
		value = animmod.FloatVariable()
	}
	r.cache = &derived{state: animmod.MergeSideBySide(statesOf(nodes)...), value: value}
	return r.cache
}

// Table is the exported summary table: one RootNode per property that any
// behavior may touch. Entries may be Never; check ApplyState before
// treating an entry as modified.
type Table struct {
	roots *sequencedmap.Map[animmod.PropertyKey, *RootNode]
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{roots: sequencedmap.New[animmod.PropertyKey, *RootNode]()}
}

// Get returns the summary of one property.
func (t *Table) Get(key animmod.PropertyKey) (Summary, bool) {
	r, ok := t.roots.Get(key)
	if !ok {
		return nil, false
	}
	return r, true
}

// Root returns the mutable aggregation node of one property.
func (t *Table) Root(key animmod.PropertyKey) (*RootNode, bool) {
	return t.roots.Get(key)
}

func (t *Table) Len() int { return t.roots.Len() }

// All yields every property in the order it was first contributed to.
func (t *Table) All() iter.Seq2[animmod.PropertyKey, Summary] {
	return func(yield func(animmod.PropertyKey, Summary) bool) {
		for k, r := range t.roots.All() {
			if !yield(k, r) {
				return
			}
		}
	}
}

// SortedKeys returns every key ordered by target, then property.
func (t *Table) SortedKeys() []animmod.PropertyKey {
	keys := make([]animmod.PropertyKey, 0, t.Len())
	for k := range t.roots.All() {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b animmod.PropertyKey) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
	return keys
}

// behaviorOutput is one behavior's container of behavior nodes.
type behaviorOutput struct {
	behavior animmod.ObjectID
	nodes    *NodeContainer
}

// checkKinds verifies that out agrees with the value kinds already
// aggregated for the properties it touches.
func (t *Table) checkKinds(out behaviorOutput) error {
	for key, node := range out.nodes.All() {
		root, ok := t.roots.Get(key)
		if !ok {
			continue
		}
		kind, ok := root.valueKind()
		if !ok {
			continue
		}
		if got := node.Value().Kind(); got != kind {
			return fmt.Errorf("%s: %w", key, &animmod.ErrKindMismatch{Want: kind, Got: got})
		}
	}
	return nil
}

// add merges behavior outputs into the table side by side.
func (t *Table) add(outputs ...behaviorOutput) error {
	for _, out := range outputs {
		if err := t.checkKinds(out); err != nil {
			return err
		}
	}
	_, err := Merge(outputs, MergeStrategy[behaviorOutput, *behaviorNode]{
		Nodes: func(out behaviorOutput) *NodeContainer { return out.nodes },
		Intermediate: func(out behaviorOutput, node Node, _ int) *behaviorNode {
			if bn, ok := node.(*behaviorNode); ok {
				return bn
			}
			return newBehaviorNode(out.behavior, node, true, 0)
		},
		Fold: func(key animmod.PropertyKey, items []*behaviorNode, _ int) (Node, error) {
			root, ok := t.roots.Get(key)
			if !ok {
				root = &RootNode{}
				t.roots.Set(key, root)
			}
			for _, it := range items {
				root.add(it)
			}
			return root, nil
		},
	})
	return err
}

// remove drops a behavior from every root it contributes to and returns
// the number of properties affected. Roots left without contributions stay
// in the table as Never.
func (t *Table) remove(behavior animmod.ObjectID) int {
	n := 0
	for _, root := range t.roots.All() {
		if root.remove(behavior) {
			n++
		}
	}
	return n
}
