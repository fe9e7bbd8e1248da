package propmod

import (
	"github.com/speakeasy-api/animmod"
	"github.com/speakeasy-api/animmod/asset"
)

// curveNode is a float curve of one clip binding.
type curveNode struct {
	derived
}

func (n *curveNode) Kind() NodeKind { return NodeCurve }

// newCurveNode summarizes a float curve. reference, when non-nil, is the
// additive reference pose value of the same binding and is folded into
// the candidate set.
func newCurveNode(keys []asset.Keyframe, reference *float32) *curveNode {
	value := parseFloatCurve(keys)
	if reference != nil && !value.IsVariable() && !value.IsEmpty() {
		floats, _ := value.Floats()
		value = animmod.FloatValues(append(floats, *reference)...)
	}
	state := animmod.Always
	if len(keys) == 0 {
		state = animmod.Partially
	}
	return &curveNode{derived: derived{state: state, value: value}}
}

// parseFloatCurve returns the values a curve can produce.
//
// A curve whose keys share one value and whose segments are flat or
// stepped is that constant. A curve whose every segment is stepped takes
// only its key values. Anything else interpolates and is Variable. An empty
// curve asserts nothing.
func parseFloatCurve(keys []asset.Keyframe) animmod.ValueInfo {
	if len(keys) == 0 {
		return animmod.FloatValues()
	}
	values := make([]float32, 0, len(keys))
	for _, k := range keys {
		values = append(values, k.Value)
	}
	same, stepped := true, true
	for i := 0; i+1 < len(keys); i++ {
		k0, k1 := keys[i], keys[i+1]
		if k0.Value != k1.Value {
			same = false
		}
		if asset.IsStepped(k0, k1) {
			continue
		}
		stepped = false
		if k0.OutTangent != 0 || k1.InTangent != 0 {
			same = false
		}
	}
	if same || stepped {
		return animmod.FloatValues(values...)
	}
	return animmod.FloatVariable()
}

// objectCurveNode is an object reference curve of one clip binding.
type objectCurveNode struct {
	derived
}

func (n *objectCurveNode) Kind() NodeKind { return NodeObjectCurve }

func newObjectCurveNode(keys []asset.ObjectKeyframe) *objectCurveNode {
	ids := make([]animmod.ObjectID, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, k.Value)
	}
	state := animmod.Always
	if len(keys) == 0 {
		state = animmod.Partially
	}
	return &objectCurveNode{derived: derived{state: state, value: animmod.ObjectValues(ids...)}}
}
