package asset

import "github.com/speakeasy-api/animmod"

// Motion is anything a state can play. The analysis recognizes *Clip and
// *BlendTree; any other implementation is a structural error.
type Motion interface {
	MotionName() string
}

// BlendTree blends its child motions with one algorithm.
type BlendTree struct {
	Name      string
	Algorithm animmod.BlendAlgorithm
	Children  []ChildMotion
	// NormalizeBlendValues makes direct blend weights sum to one.
	NormalizeBlendValues bool
}

func (t *BlendTree) MotionName() string {
	if t == nil {
		return "<nil blend tree>"
	}
	return t.Name
}

// SumsToOne reports whether the child weights are guaranteed to sum to one.
func (t *BlendTree) SumsToOne() bool {
	return t.Algorithm != animmod.BlendDirect || t.NormalizeBlendValues
}

// ChildMotion is one child of a blend tree with its weight descriptor.
// The analysis never evaluates the descriptor; it only needs to know the
// algorithm.
type ChildMotion struct {
	Motion          Motion
	Threshold       float32
	Position        [2]float32
	DirectParameter string
}

// Clips calls fn for every clip reachable from m, depth-first. Unknown
// motion kinds are skipped.
func Clips(m Motion, fn func(*Clip)) {
	switch m := m.(type) {
	case *Clip:
		if m != nil {
			fn(m)
		}
	case *BlendTree:
		if m == nil {
			return
		}
		for _, child := range m.Children {
			Clips(child.Motion, fn)
		}
	}
}
