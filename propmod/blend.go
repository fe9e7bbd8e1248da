package propmod

import (
	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/asset"
)

// blendNode folds the children of one blend tree for one property.
type blendNode struct {
	composite
}

// newBlendNode folds children under algorithm. complete is false when the
// weights may not sum to one, a child motion was dropped, or some child
// does not touch the property; the blend then only partially applies.
func newBlendNode(children []Node, algorithm animmod.BlendAlgorithm, complete bool) (*blendNode, error) {
	kind, err := kindOf(children)
	if err != nil {
		return nil, err
	}
	value, err := animmod.ConstantInfoForBlend(kind, valuesOf(children), algorithm)
	if err != nil {
		return nil, err
	}
	base := animmod.Always
	if !complete {
		base = animmod.Partially
		value = value.WithPartial(true)
	}
	return &blendNode{composite{
		derived:  derived{state: base.Multiply(animmod.MergeSideBySide(statesOf(children)...)), value: value},
		kind:     NodeBlend,
		children: children,
	}}, nil
}

// blendContainers merges the containers of a blend tree's surviving
// children. dropped counts children whose motion was absent.
func blendContainers(tree *asset.BlendTree, children []*NodeContainer, dropped int) (*NodeContainer, error) {
	if len(children) == 0 {
		return NewNodeContainer(), nil
	}
	if len(children) == 1 && dropped == 0 && tree.Algorithm != animmod.BlendDirect {
		return children[0], nil
	}
	sumsToOne := tree.SumsToOne() && dropped == 0
	return Merge(children, MergeStrategy[*NodeContainer, Node]{
		Nodes:        nodesOfContainer,
		Intermediate: nodeOnly[*NodeContainer],
		Fold: func(_ animmod.PropertyKey, items []Node, sources int) (Node, error) {
			return newBlendNode(items, tree.Algorithm, sumsToOne && len(items) == sources)
		},
	})
}
