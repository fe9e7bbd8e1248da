package propmod

import (
	"github.com/speakeasy-api/animmod"
)

// NodeKind tags the variants of Node.
type NodeKind uint8

const (
	NodeCurve NodeKind = iota
	NodeObjectCurve
	NodeBlend
	NodeLayer
	NodeController
	NodePlayable
	NodeBehavior
	NodeRoot
	NodeVariable
)

func (k NodeKind) String() string {
	switch k {
	case NodeCurve:
		return "curve"
	case NodeObjectCurve:
		return "object-curve"
	case NodeBlend:
		return "blend"
	case NodeLayer:
		return "layer"
	case NodeController:
		return "controller"
	case NodePlayable:
		return "playable"
	case NodeBehavior:
		return "behavior"
	case NodeRoot:
		return "root"
	case NodeVariable:
		return "variable"
	default:
		return "unknown"
	}
}

// Node summarizes how one property is modified by one part of an animation
// graph. All nodes except *RootNode are immutable once built.
type Node interface {
	Kind() NodeKind
	ApplyState() animmod.ApplyState
	Value() animmod.ValueInfo
}

// Summary is the read-only view exported per property.
type Summary interface {
	ApplyState() animmod.ApplyState
	Value() animmod.ValueInfo
}

// derived holds the eagerly computed state of an immutable node.
type derived struct {
	state animmod.ApplyState
	value animmod.ValueInfo
}

func (d *derived) ApplyState() animmod.ApplyState { return d.state }
func (d *derived) Value() animmod.ValueInfo       { return d.value }

// composite is a node folded from child nodes.
type composite struct {
	derived
	kind     NodeKind
	children []Node
}

func (n *composite) Kind() NodeKind { return n.kind }

// Children returns the nodes this node was folded from.
func (n *composite) Children() []Node { return n.children }

// variableNode modifies a property in an unknown way.
type variableNode struct {
	derived
}

func newVariableNode(state animmod.ApplyState) *variableNode {
	return &variableNode{derived{state: state, value: animmod.FloatVariable()}}
}

func (n *variableNode) Kind() NodeKind { return NodeVariable }

func kindOf(nodes []Node) (animmod.ValueKind, error) {
	if len(nodes) == 0 {
		return animmod.KindFloat, nil
	}
	kind := nodes[0].Value().Kind()
	for _, n := range nodes[1:] {
		if got := n.Value().Kind(); got != kind {
			return kind, &animmod.ErrKindMismatch{Want: kind, Got: got}
		}
	}
	return kind, nil
}

func valuesOf(nodes []Node) []animmod.ValueInfo {
	values := make([]animmod.ValueInfo, len(nodes))
	for i, n := range nodes {
		values[i] = n.Value()
	}
	return values
}

func statesOf(nodes []Node) []animmod.ApplyState {
	states := make([]animmod.ApplyState, len(nodes))
	for i, n := range nodes {
		states[i] = n.ApplyState()
	}
	return states
}
