package propmod

import (
	"slices"

	"github.com/speakeasy-api/animmod"
)

// layerNode folds the states of one layer for one property. Exactly one
// state is active at a time but which one is unknown.
type layerNode struct {
	composite
}

func newLayerNode(states []Node, partial bool) (*layerNode, error) {
	kind, err := kindOf(states)
	if err != nil {
		return nil, err
	}
	value, err := animmod.ConstantInfoForSideBySide(kind, valuesOf(states))
	if err != nil {
		return nil, err
	}
	state := animmod.MergeSideBySide(statesOf(states)...)
	if partial {
		state = state.Multiply(animmod.Partially)
		value = value.WithPartial(true)
	}
	return &layerNode{composite{
		derived:  derived{state: state, value: value},
		kind:     NodeLayer,
		children: states,
	}}, nil
}

// stateContainers merges the containers of a layer's states. skipped
// counts states that play nothing.
func stateContainers(states []*NodeContainer, skipped int) (*NodeContainer, error) {
	return Merge(states, MergeStrategy[*NodeContainer, Node]{
		Nodes:        nodesOfContainer,
		Intermediate: nodeOnly[*NodeContainer],
		Fold: func(_ animmod.PropertyKey, items []Node, sources int) (Node, error) {
			return newLayerNode(items, skipped > 0 || len(items) < sources)
		},
	})
}

// weightedSource is one layer, or one playable slot, of a stack.
type weightedSource struct {
	nodes  *NodeContainer
	weight animmod.WeightState
	mode   animmod.BlendingMode
	index  int
}

type weightedItem struct {
	node   Node
	weight animmod.WeightState
	mode   animmod.BlendingMode
	index  int
}

// stackNode folds ordered, weighted layers for one property.
type stackNode struct {
	composite
}

func newStackNode(kind NodeKind, items []weightedItem) (*stackNode, error) {
	// top to bottom
	items = slices.Clone(items)
	slices.SortStableFunc(items, func(a, b weightedItem) int { return b.index - a.index })

	nodes := make([]Node, len(items))
	layers := make([]animmod.OverrideLayer, len(items))
	for i, it := range items {
		nodes[i] = it.node
		layers[i] = animmod.OverrideLayer{
			Value:      it.node.Value(),
			ApplyState: it.node.ApplyState(),
			Weight:     it.weight,
			Mode:       it.mode,
		}
	}
	valueKind, err := kindOf(nodes)
	if err != nil {
		return nil, err
	}
	value, err := animmod.ConstantInfoForOverriding(valueKind, layers)
	if err != nil {
		return nil, err
	}
	return &stackNode{composite{
		derived:  derived{state: animmod.ApplyStateForOverriding(layers), value: value},
		kind:     kind,
		children: nodes,
	}}, nil
}

// stackContainers merges weighted layers into controller (or playable)
// nodes. Sources with an always-zero weight must already be removed.
func stackContainers(kind NodeKind, sources []weightedSource) (*NodeContainer, error) {
	return Merge(sources, MergeStrategy[weightedSource, weightedItem]{
		Nodes: func(src weightedSource) *NodeContainer { return src.nodes },
		Intermediate: func(src weightedSource, node Node, _ int) weightedItem {
			return weightedItem{node: node, weight: src.weight, mode: src.mode, index: src.index}
		},
		Fold: func(_ animmod.PropertyKey, items []weightedItem, _ int) (Node, error) {
			return newStackNode(kind, items)
		},
	})
}
