// Package asset describes the animation assets the analysis reads: clips
// and their curves, blend trees, layered controllers and the per-behavior
// graphs that tie them to a scene object.
//
// Everything here is read-only source data owned by the collaborator that
// produced it. Identity matters: two clips are the same clip only when they
// are the same pointer.
package asset

import "github.com/speakeasy-api/animmod"

const (
	// TypeGameObject is the binding type of the object itself.
	TypeGameObject = "GameObject"
	// TypeAnimator is the binding type of humanoid muscle curves.
	TypeAnimator = "Animator"
	// TypeTransform is the binding type of transform curves.
	TypeTransform = "Transform"
)

// Binding names a property relative to the root of the animated hierarchy.
type Binding struct {
	Path     string
	Type     string
	Property string
}

// IsHumanoidMuscle reports whether the binding drives a humanoid muscle
// rather than a concrete property.
func (b Binding) IsHumanoidMuscle() bool {
	return b.Type == TypeAnimator && b.Path == ""
}

// Keyframe is one key of a float curve. Infinite tangents mark stepped
// segments.
type Keyframe struct {
	Time       float32
	Value      float32
	InTangent  float32
	OutTangent float32
}

// ObjectKeyframe is one key of an object reference curve.
type ObjectKeyframe struct {
	Time  float32
	Value animmod.ObjectID
}

// Clip is an animation clip asset.
type Clip struct {
	ID   animmod.ObjectID
	Name string
}

func (c *Clip) MotionName() string {
	if c == nil {
		return "<nil clip>"
	}
	return c.Name
}

// ClipMetadata is clip-level data that affects how curves are read.
type ClipMetadata struct {
	// AdditiveReference is the clip sampled for the additive reference
	// pose. Nil means the clip's own first frame.
	AdditiveReference     *Clip
	AdditiveReferenceTime float32
}

// ClipSource extracts raw curves from clip assets.
type ClipSource interface {
	FloatBindings(clip *Clip) []Binding
	ObjectBindings(clip *Clip) []Binding
	// FloatCurve returns the keys of a float binding, or nil if the clip
	// does not bind it.
	FloatCurve(clip *Clip, binding Binding) []Keyframe
	// ObjectCurve returns the keys of an object binding, or nil if the clip
	// does not bind it.
	ObjectCurve(clip *Clip, binding Binding) []ObjectKeyframe
	Metadata(clip *Clip) ClipMetadata
}
